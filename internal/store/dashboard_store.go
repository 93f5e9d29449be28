package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// DashboardStore runs the read-only queries behind the dashboard. It is
// given the Presenter's read-only connection; nothing here mutates the
// store.
type DashboardStore struct {
	db *sql.DB
}

func NewDashboardStore(db *sql.DB) *DashboardStore {
	return &DashboardStore{db: db}
}

// SeriesPoint is one day of donation volume.
type SeriesPoint struct {
	Date  time.Time
	Units int
}

// BreakdownRow is the inventory level for one (blood type, component) pair,
// summed across the filtered locations.
type BreakdownRow struct {
	BloodType string
	Component string
	Units     int
}

// StatusCounts holds hospital request counts by status.
type StatusCounts struct {
	Pending   int
	Fulfilled int
	Rejected  int
}

func (c StatusCounts) Total() int { return c.Pending + c.Fulfilled + c.Rejected }

func (s *DashboardStore) DonorCount(ctx context.Context, f Filter) (int, error) {
	where, args := f.where(false)
	var n int
	err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM donors"+where, args...).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("failed to count donors: %w", err)
	}
	return n, nil
}

// DonationStats returns the number of donations and total donated units
// matching the filter. COALESCE keeps the sum at zero for empty result sets.
func (s *DashboardStore) DonationStats(ctx context.Context, f Filter) (count, units int, err error) {
	where, args := f.where(true)
	err = s.db.QueryRowContext(ctx,
		"SELECT COUNT(*), COALESCE(SUM(units), 0) FROM donations"+where, args...,
	).Scan(&count, &units)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to query donation stats: %w", err)
	}
	return count, units, nil
}

func (s *DashboardStore) InventoryTotal(ctx context.Context, f Filter) (int, error) {
	where, args := f.where(true)
	var units int
	err := s.db.QueryRowContext(ctx,
		"SELECT COALESCE(SUM(units), 0) FROM inventory"+where, args...,
	).Scan(&units)
	if err != nil {
		return 0, fmt.Errorf("failed to query inventory total: %w", err)
	}
	return units, nil
}

func (s *DashboardStore) RequestStatusCounts(ctx context.Context, f Filter) (StatusCounts, error) {
	where, args := f.where(true)
	rows, err := s.db.QueryContext(ctx,
		"SELECT status, COUNT(*) FROM hospital_requests"+where+" GROUP BY status", args...,
	)
	if err != nil {
		return StatusCounts{}, fmt.Errorf("failed to query request statuses: %w", err)
	}
	defer rows.Close()

	var counts StatusCounts
	for rows.Next() {
		var status string
		var n int
		if err := rows.Scan(&status, &n); err != nil {
			return StatusCounts{}, fmt.Errorf("failed to scan request status: %w", err)
		}
		switch status {
		case "pending":
			counts.Pending = n
		case "fulfilled":
			counts.Fulfilled = n
		case "rejected":
			counts.Rejected = n
		}
	}
	if err := rows.Err(); err != nil {
		return StatusCounts{}, fmt.Errorf("error iterating request statuses: %w", err)
	}
	return counts, nil
}

// DonationSeries returns donated units bucketed by calendar day, oldest
// first.
func (s *DashboardStore) DonationSeries(ctx context.Context, f Filter) ([]SeriesPoint, error) {
	where, args := f.where(true)
	rows, err := s.db.QueryContext(ctx,
		"SELECT donation_date, SUM(units) FROM donations"+where+
			" GROUP BY donation_date ORDER BY donation_date ASC", args...,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query donation series: %w", err)
	}
	defer rows.Close()

	var series []SeriesPoint
	for rows.Next() {
		var date string
		var p SeriesPoint
		if err := rows.Scan(&date, &p.Units); err != nil {
			return nil, fmt.Errorf("failed to scan series point: %w", err)
		}
		if p.Date, err = time.Parse("2006-01-02", date); err != nil {
			return nil, fmt.Errorf("failed to parse donation date %q: %w", date, err)
		}
		series = append(series, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating donation series: %w", err)
	}
	return series, nil
}

// InventoryBreakdown returns inventory levels grouped by blood type and
// component, summed across the filtered locations.
func (s *DashboardStore) InventoryBreakdown(ctx context.Context, f Filter) ([]BreakdownRow, error) {
	where, args := f.where(true)
	rows, err := s.db.QueryContext(ctx,
		"SELECT blood_type, component, SUM(units) FROM inventory"+where+
			" GROUP BY blood_type, component ORDER BY blood_type, component", args...,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query inventory breakdown: %w", err)
	}
	defer rows.Close()

	var breakdown []BreakdownRow
	for rows.Next() {
		var r BreakdownRow
		if err := rows.Scan(&r.BloodType, &r.Component, &r.Units); err != nil {
			return nil, fmt.Errorf("failed to scan breakdown row: %w", err)
		}
		breakdown = append(breakdown, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating inventory breakdown: %w", err)
	}
	return breakdown, nil
}

package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/shopspring/decimal"

	"github.com/redcell/bloodinv/internal/store"
)

// dashboardRepository is the subset of store.DashboardStore that
// DashboardService requires.
type dashboardRepository interface {
	DonorCount(ctx context.Context, f store.Filter) (int, error)
	DonationStats(ctx context.Context, f store.Filter) (count, units int, err error)
	InventoryTotal(ctx context.Context, f store.Filter) (int, error)
	RequestStatusCounts(ctx context.Context, f store.Filter) (store.StatusCounts, error)
	DonationSeries(ctx context.Context, f store.Filter) ([]store.SeriesPoint, error)
	InventoryBreakdown(ctx context.Context, f store.Filter) ([]store.BreakdownRow, error)
}

// Summary is everything one dashboard render needs.
type Summary struct {
	Filter store.Filter

	Donors         int
	Donations      int
	UnitsDonated   int
	InventoryUnits int
	Requests       store.StatusCounts

	// FulfillmentRate is fulfilled requests as a percentage of all
	// requests, one decimal place. Zero when there are no requests.
	FulfillmentRate decimal.Decimal

	Series    []store.SeriesPoint
	Breakdown []store.BreakdownRow

	// HasData is false when the filter matches nothing at all; the
	// dashboard renders a "no data" state instead of empty panels.
	HasData bool
}

type DashboardService struct {
	repo   dashboardRepository
	logger *slog.Logger
}

func NewDashboardService(repo dashboardRepository, logger *slog.Logger) *DashboardService {
	return &DashboardService{repo: repo, logger: logger}
}

// Summary assembles the filtered KPIs, time series, and inventory breakdown.
// It only reads; an empty result set is a valid summary, never an error.
func (s *DashboardService) Summary(ctx context.Context, f store.Filter) (*Summary, error) {
	sum := &Summary{Filter: f}
	var err error

	if sum.Donors, err = s.repo.DonorCount(ctx, f); err != nil {
		return nil, fmt.Errorf("failed to count donors: %w", err)
	}
	if sum.Donations, sum.UnitsDonated, err = s.repo.DonationStats(ctx, f); err != nil {
		return nil, fmt.Errorf("failed to get donation stats: %w", err)
	}
	if sum.InventoryUnits, err = s.repo.InventoryTotal(ctx, f); err != nil {
		return nil, fmt.Errorf("failed to get inventory total: %w", err)
	}
	if sum.Requests, err = s.repo.RequestStatusCounts(ctx, f); err != nil {
		return nil, fmt.Errorf("failed to get request counts: %w", err)
	}
	if sum.Series, err = s.repo.DonationSeries(ctx, f); err != nil {
		return nil, fmt.Errorf("failed to get donation series: %w", err)
	}
	if sum.Breakdown, err = s.repo.InventoryBreakdown(ctx, f); err != nil {
		return nil, fmt.Errorf("failed to get inventory breakdown: %w", err)
	}

	sum.FulfillmentRate = fulfillmentRate(sum.Requests)
	sum.HasData = sum.Donors > 0 || sum.Donations > 0 || sum.Requests.Total() > 0

	s.logger.Debug("dashboard summary",
		"blood_type", f.BloodType,
		"component", f.Component,
		"location", f.LocationID,
		"has_data", sum.HasData,
	)
	return sum, nil
}

func fulfillmentRate(c store.StatusCounts) decimal.Decimal {
	total := c.Total()
	if total == 0 {
		return decimal.Zero
	}
	return decimal.NewFromInt(int64(c.Fulfilled) * 100).
		Div(decimal.NewFromInt(int64(total))).
		Round(1)
}

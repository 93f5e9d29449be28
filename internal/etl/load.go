package etl

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/redcell/bloodinv/internal/domain"
)

type Loader struct {
	db     *sql.DB
	logger *slog.Logger
}

func NewLoader(db *sql.DB, logger *slog.Logger) *Loader {
	return &Loader{db: db, logger: logger}
}

// Load replaces the entire store contents with clean inside one transaction.
// On any failure nothing is committed and the previous contents stay intact.
func (l *Loader) Load(ctx context.Context, clean *CleanData) error {
	tx, err := l.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	// Children first so foreign keys hold mid-transaction.
	for _, table := range []string{"inventory", "hospital_requests", "donations", "donors"} {
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return fmt.Errorf("failed to clear %s: %w", table, err)
		}
	}

	if err := insertDonors(ctx, tx, clean.Donors); err != nil {
		return err
	}
	if err := insertDonations(ctx, tx, clean.Donations); err != nil {
		return err
	}
	if err := insertRequests(ctx, tx, clean.Requests); err != nil {
		return err
	}
	if err := insertInventory(ctx, tx, clean.Inventory); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit load: %w", err)
	}

	l.logger.Info("store replaced",
		"donors", len(clean.Donors),
		"donations", len(clean.Donations),
		"requests", len(clean.Requests),
		"inventory_rows", len(clean.Inventory),
	)
	return nil
}

func insertDonors(ctx context.Context, tx *sql.Tx, donors []domain.Donor) error {
	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO donors (donor_id, blood_type, location_id, dob) VALUES (?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare donor insert: %w", err)
	}
	defer stmt.Close()

	for _, d := range donors {
		if _, err := stmt.ExecContext(ctx, d.ID, d.BloodType, d.LocationID, d.DOB.Format(dateFormat)); err != nil {
			return fmt.Errorf("failed to insert donor %s: %w", d.ID, err)
		}
	}
	return nil
}

func insertDonations(ctx context.Context, tx *sql.Tx, donations []domain.Donation) error {
	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO donations (donation_id, donor_id, blood_type, component, units,
			donation_date, expiry_date, location_id, qc_pass)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare donation insert: %w", err)
	}
	defer stmt.Close()

	for _, d := range donations {
		_, err := stmt.ExecContext(ctx,
			d.ID, d.DonorID, d.BloodType, d.Component, d.Units,
			d.DonationDate.Format(dateFormat), d.ExpiryDate.Format(dateFormat),
			d.LocationID, d.QCPass,
		)
		if err != nil {
			return fmt.Errorf("failed to insert donation %s: %w", d.ID, err)
		}
	}
	return nil
}

func insertRequests(ctx context.Context, tx *sql.Tx, requests []domain.HospitalRequest) error {
	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO hospital_requests (request_id, hospital_id, blood_type, component,
			units_requested, status, urgency, location_id, request_date, fulfilled_date)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare request insert: %w", err)
	}
	defer stmt.Close()

	for _, r := range requests {
		var fulfilled any
		if r.FulfilledDate != nil {
			fulfilled = r.FulfilledDate.Format(dateFormat)
		}
		_, err := stmt.ExecContext(ctx,
			r.ID, r.HospitalID, r.BloodType, r.Component, r.UnitsRequested,
			r.Status, r.Urgency, r.LocationID, r.RequestDate.Format(dateFormat), fulfilled,
		)
		if err != nil {
			return fmt.Errorf("failed to insert request %s: %w", r.ID, err)
		}
	}
	return nil
}

func insertInventory(ctx context.Context, tx *sql.Tx, levels []domain.InventoryLevel) error {
	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO inventory (blood_type, component, location_id, units) VALUES (?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare inventory insert: %w", err)
	}
	defer stmt.Close()

	for _, lv := range levels {
		if _, err := stmt.ExecContext(ctx, lv.BloodType, lv.Component, lv.LocationID, lv.Units); err != nil {
			return fmt.Errorf("failed to insert inventory level: %w", err)
		}
	}
	return nil
}

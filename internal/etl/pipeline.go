package etl

import (
	"context"
	"database/sql"
	"log/slog"
)

// Result summarizes one loader run.
type Result struct {
	Donors        int
	Donations     int
	Requests      int
	InventoryRows int
	Malformed     int
	Duplicates    int
	QCFailures    int
	TotalUnits    int // net inventory units across all groups
}

// Pipeline runs extract, transform, and load as one synchronous pass.
type Pipeline struct {
	dataDir string
	db      *sql.DB
	logger  *slog.Logger
}

func NewPipeline(dataDir string, db *sql.DB, logger *slog.Logger) *Pipeline {
	return &Pipeline{dataDir: dataDir, db: db, logger: logger}
}

func (p *Pipeline) Run(ctx context.Context) (*Result, error) {
	raw, err := NewExtractor(p.dataDir, p.logger).Extract()
	if err != nil {
		return nil, err
	}

	clean := Transform(raw)

	if err := NewLoader(p.db, p.logger).Load(ctx, clean); err != nil {
		return nil, err
	}

	res := &Result{
		Donors:        len(clean.Donors),
		Donations:     len(clean.Donations),
		Requests:      len(clean.Requests),
		InventoryRows: len(clean.Inventory),
		Malformed:     raw.Malformed,
		Duplicates:    clean.Duplicates,
		QCFailures:    clean.QCFailures,
	}
	for _, lv := range clean.Inventory {
		res.TotalUnits += lv.Units
	}

	p.logger.Info("load complete",
		"donors", res.Donors,
		"donations", res.Donations,
		"requests", res.Requests,
		"inventory_rows", res.InventoryRows,
		"inventory_units", res.TotalUnits,
		"malformed_rows", res.Malformed,
		"duplicate_rows", res.Duplicates,
		"qc_failures", res.QCFailures,
	)
	return res, nil
}

// Package etl implements the loader stage: CSV extraction with row-level
// validation, cleaning and inventory aggregation, and a replace-all load
// into the SQLite store inside a single transaction.
package etl

import (
	"encoding/csv"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/redcell/bloodinv/internal/domain"
	"github.com/redcell/bloodinv/internal/generate"
)

const dateFormat = "2006-01-02"

// RawData is the cleaned output of the extract phase. Malformed rows have
// already been dropped and counted; string fields are whitespace-trimmed.
type RawData struct {
	Donors    []domain.Donor
	Donations []domain.Donation
	Requests  []domain.HospitalRequest
	Malformed int
}

type Extractor struct {
	dataDir string
	logger  *slog.Logger
}

func NewExtractor(dataDir string, logger *slog.Logger) *Extractor {
	return &Extractor{dataDir: dataDir, logger: logger}
}

// Extract reads the three entity CSVs. A missing or unreadable file is
// fatal; a malformed row is skipped and counted.
func (e *Extractor) Extract() (*RawData, error) {
	raw := &RawData{}

	donors, skipped, err := readRows(filepath.Join(e.dataDir, generate.DonorsFile), donorColumns, parseDonor)
	if err != nil {
		return nil, err
	}
	raw.Donors = donors
	raw.Malformed += skipped
	e.logger.Info("extracted donors", "rows", len(donors), "skipped", skipped)

	donations, skipped, err := readRows(filepath.Join(e.dataDir, generate.DonationsFile), donationColumns, parseDonation)
	if err != nil {
		return nil, err
	}
	raw.Donations = donations
	raw.Malformed += skipped
	e.logger.Info("extracted donations", "rows", len(donations), "skipped", skipped)

	requests, skipped, err := readRows(filepath.Join(e.dataDir, generate.RequestsFile), requestColumns, parseRequest)
	if err != nil {
		return nil, err
	}
	raw.Requests = requests
	raw.Malformed += skipped
	e.logger.Info("extracted hospital requests", "rows", len(requests), "skipped", skipped)

	return raw, nil
}

var (
	donorColumns = []string{"donor_id", "blood_type", "location_id", "dob"}

	donationColumns = []string{
		"donation_id", "donor_id", "blood_type", "component", "units",
		"donation_date", "expiry_date", "location_id", "qc_pass",
	}

	requestColumns = []string{
		"request_id", "hospital_id", "blood_type", "component", "units_requested",
		"status", "urgency", "location_id", "request_date", "fulfilled_date",
	}
)

// readRows reads a CSV file, validates its header, and parses each data row
// with parse. Rows that fail to parse are skipped and counted.
func readRows[T any](path string, columns []string, parse func([]string) (T, error)) ([]T, int, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to open input file %s: %w", path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1 // short rows are malformed data, not a fatal error

	records, err := r.ReadAll()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to read %s: %w", path, err)
	}
	if len(records) == 0 {
		return nil, 0, fmt.Errorf("input file %s is empty (missing header)", path)
	}
	if !headerMatches(records[0], columns) {
		return nil, 0, fmt.Errorf("%s header mismatch: expected %v, got %v", path, columns, records[0])
	}

	var out []T
	skipped := 0
	for _, rec := range records[1:] {
		if len(rec) != len(columns) {
			skipped++
			continue
		}
		for i := range rec {
			rec[i] = strings.TrimSpace(rec[i])
		}
		v, err := parse(rec)
		if err != nil {
			skipped++
			continue
		}
		out = append(out, v)
	}
	return out, skipped, nil
}

func headerMatches(header, expected []string) bool {
	if len(header) != len(expected) {
		return false
	}
	for i := range expected {
		if strings.TrimSpace(header[i]) != expected[i] {
			return false
		}
	}
	return true
}

func parseDonor(rec []string) (domain.Donor, error) {
	d := domain.Donor{
		ID:         rec[0],
		BloodType:  rec[1],
		LocationID: rec[2],
	}
	if d.ID == "" {
		return d, fmt.Errorf("missing donor_id")
	}
	if !domain.ValidBloodType(d.BloodType) {
		return d, fmt.Errorf("invalid blood_type %q", d.BloodType)
	}
	if !domain.ValidLocation(d.LocationID) {
		return d, fmt.Errorf("invalid location_id %q", d.LocationID)
	}
	dob, err := time.Parse(dateFormat, rec[3])
	if err != nil {
		return d, fmt.Errorf("invalid dob: %w", err)
	}
	d.DOB = dob
	return d, nil
}

func parseDonation(rec []string) (domain.Donation, error) {
	d := domain.Donation{
		ID:         rec[0],
		DonorID:    rec[1],
		BloodType:  rec[2],
		Component:  rec[3],
		LocationID: rec[7],
	}
	if d.ID == "" || d.DonorID == "" {
		return d, fmt.Errorf("missing identifier")
	}
	if !domain.ValidBloodType(d.BloodType) {
		return d, fmt.Errorf("invalid blood_type %q", d.BloodType)
	}
	if !domain.ValidComponent(d.Component) {
		return d, fmt.Errorf("invalid component %q", d.Component)
	}
	if !domain.ValidLocation(d.LocationID) {
		return d, fmt.Errorf("invalid location_id %q", d.LocationID)
	}

	units, err := strconv.Atoi(rec[4])
	if err != nil || units <= 0 {
		return d, fmt.Errorf("invalid units %q", rec[4])
	}
	d.Units = units

	if d.DonationDate, err = time.Parse(dateFormat, rec[5]); err != nil {
		return d, fmt.Errorf("invalid donation_date: %w", err)
	}
	if d.ExpiryDate, err = time.Parse(dateFormat, rec[6]); err != nil {
		return d, fmt.Errorf("invalid expiry_date: %w", err)
	}
	if d.QCPass, err = strconv.ParseBool(rec[8]); err != nil {
		return d, fmt.Errorf("invalid qc_pass %q", rec[8])
	}
	return d, nil
}

func parseRequest(rec []string) (domain.HospitalRequest, error) {
	r := domain.HospitalRequest{
		ID:         rec[0],
		HospitalID: rec[1],
		BloodType:  rec[2],
		Component:  rec[3],
		Status:     rec[5],
		Urgency:    rec[6],
		LocationID: rec[7],
	}
	if r.ID == "" {
		return r, fmt.Errorf("missing request_id")
	}
	if !domain.ValidBloodType(r.BloodType) {
		return r, fmt.Errorf("invalid blood_type %q", r.BloodType)
	}
	if !domain.ValidComponent(r.Component) {
		return r, fmt.Errorf("invalid component %q", r.Component)
	}
	if !domain.ValidStatus(r.Status) {
		return r, fmt.Errorf("invalid status %q", r.Status)
	}
	if !domain.ValidUrgency(r.Urgency) {
		return r, fmt.Errorf("invalid urgency %q", r.Urgency)
	}
	if !domain.ValidLocation(r.LocationID) {
		return r, fmt.Errorf("invalid location_id %q", r.LocationID)
	}

	units, err := strconv.Atoi(rec[4])
	if err != nil || units <= 0 {
		return r, fmt.Errorf("invalid units_requested %q", rec[4])
	}
	r.UnitsRequested = units

	if r.RequestDate, err = time.Parse(dateFormat, rec[8]); err != nil {
		return r, fmt.Errorf("invalid request_date: %w", err)
	}
	if rec[9] != "" {
		fulfilled, err := time.Parse(dateFormat, rec[9])
		if err != nil {
			return r, fmt.Errorf("invalid fulfilled_date: %w", err)
		}
		r.FulfilledDate = &fulfilled
	}
	return r, nil
}

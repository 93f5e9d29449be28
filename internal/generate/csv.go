package generate

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/redcell/bloodinv/internal/domain"
)

// File names the loader looks for.
const (
	DonorsFile    = "donors.csv"
	DonationsFile = "donations.csv"
	RequestsFile  = "hospital_requests.csv"
)

var (
	donorHeader = []string{"donor_id", "blood_type", "location_id", "dob"}

	donationHeader = []string{
		"donation_id", "donor_id", "blood_type", "component", "units",
		"donation_date", "expiry_date", "location_id", "qc_pass",
	}

	requestHeader = []string{
		"request_id", "hospital_id", "blood_type", "component", "units_requested",
		"status", "urgency", "location_id", "request_date", "fulfilled_date",
	}
)

// WriteDataset writes the three entity CSVs into dir, creating it if needed
// and overwriting any previous files.
func WriteDataset(dir string, ds *Dataset) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create data directory %s: %w", dir, err)
	}

	if err := writeCSV(filepath.Join(dir, DonorsFile), donorHeader, donorRows(ds.Donors)); err != nil {
		return err
	}
	if err := writeCSV(filepath.Join(dir, DonationsFile), donationHeader, donationRows(ds.Donations)); err != nil {
		return err
	}
	return writeCSV(filepath.Join(dir, RequestsFile), requestHeader, requestRows(ds.Requests))
}

func donorRows(donors []domain.Donor) [][]string {
	rows := make([][]string, 0, len(donors))
	for _, d := range donors {
		rows = append(rows, []string{
			d.ID,
			d.BloodType,
			d.LocationID,
			d.DOB.Format(dateFormat),
		})
	}
	return rows
}

func donationRows(donations []domain.Donation) [][]string {
	rows := make([][]string, 0, len(donations))
	for _, d := range donations {
		rows = append(rows, []string{
			d.ID,
			d.DonorID,
			d.BloodType,
			d.Component,
			strconv.Itoa(d.Units),
			d.DonationDate.Format(dateFormat),
			d.ExpiryDate.Format(dateFormat),
			d.LocationID,
			strconv.FormatBool(d.QCPass),
		})
	}
	return rows
}

func requestRows(requests []domain.HospitalRequest) [][]string {
	rows := make([][]string, 0, len(requests))
	for _, r := range requests {
		fulfilled := ""
		if r.FulfilledDate != nil {
			fulfilled = r.FulfilledDate.Format(dateFormat)
		}
		rows = append(rows, []string{
			r.ID,
			r.HospitalID,
			r.BloodType,
			r.Component,
			strconv.Itoa(r.UnitsRequested),
			r.Status,
			r.Urgency,
			r.LocationID,
			r.RequestDate.Format(dateFormat),
			fulfilled,
		})
	}
	return rows
}

func writeCSV(path string, header []string, rows [][]string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}

	w := csv.NewWriter(f)
	if err := w.Write(header); err != nil {
		_ = f.Close()
		return fmt.Errorf("failed to write header to %s: %w", path, err)
	}
	if err := w.WriteAll(rows); err != nil {
		_ = f.Close()
		return fmt.Errorf("failed to write rows to %s: %w", path, err)
	}
	w.Flush()
	if err := w.Error(); err != nil {
		_ = f.Close()
		return fmt.Errorf("failed to flush %s: %w", path, err)
	}

	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to close %s: %w", path, err)
	}
	return nil
}

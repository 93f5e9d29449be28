package etl

import (
	"sort"

	"github.com/redcell/bloodinv/internal/domain"
)

// CleanData is the transform phase output, ready for loading.
type CleanData struct {
	Donors    []domain.Donor
	Donations []domain.Donation
	Requests  []domain.HospitalRequest
	Inventory []domain.InventoryLevel

	Duplicates int // rows dropped because their id was already seen
	QCFailures int // donations dropped because quality control failed
}

// Transform deduplicates by identifier (first occurrence wins), drops
// donations that failed quality control, and derives the inventory levels.
func Transform(raw *RawData) *CleanData {
	clean := &CleanData{}

	seen := make(map[string]bool)
	for _, d := range raw.Donors {
		if seen[d.ID] {
			clean.Duplicates++
			continue
		}
		seen[d.ID] = true
		clean.Donors = append(clean.Donors, d)
	}

	seen = make(map[string]bool)
	for _, d := range raw.Donations {
		if seen[d.ID] {
			clean.Duplicates++
			continue
		}
		seen[d.ID] = true
		if !d.QCPass {
			clean.QCFailures++
			continue
		}
		clean.Donations = append(clean.Donations, d)
	}

	seen = make(map[string]bool)
	for _, r := range raw.Requests {
		if seen[r.ID] {
			clean.Duplicates++
			continue
		}
		seen[r.ID] = true
		clean.Requests = append(clean.Requests, r)
	}

	clean.Inventory = ComputeInventory(clean.Donations, clean.Requests)
	return clean
}

type groupKey struct {
	bloodType string
	component string
	location  string
}

// ComputeInventory derives the available units per (blood type, component,
// location) group: donated units minus units supplied to fulfilled requests.
// A group missing from one side contributes zero from that side; the result
// may be negative when fulfilled demand exceeded recorded supply. Rows are
// sorted so repeated runs over the same input produce identical output.
func ComputeInventory(donations []domain.Donation, requests []domain.HospitalRequest) []domain.InventoryLevel {
	units := make(map[groupKey]int)

	for _, d := range donations {
		units[groupKey{d.BloodType, d.Component, d.LocationID}] += d.Units
	}
	for _, r := range requests {
		if r.Status != domain.StatusFulfilled {
			continue
		}
		units[groupKey{r.BloodType, r.Component, r.LocationID}] -= r.UnitsRequested
	}

	levels := make([]domain.InventoryLevel, 0, len(units))
	for k, u := range units {
		levels = append(levels, domain.InventoryLevel{
			BloodType:  k.bloodType,
			Component:  k.component,
			LocationID: k.location,
			Units:      u,
		})
	}

	sort.Slice(levels, func(i, j int) bool {
		a, b := levels[i], levels[j]
		if a.BloodType != b.BloodType {
			return a.BloodType < b.BloodType
		}
		if a.Component != b.Component {
			return a.Component < b.Component
		}
		return a.LocationID < b.LocationID
	})
	return levels
}

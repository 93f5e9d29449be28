// Package generate produces a randomized but internally consistent mock
// dataset: donors, donations, and hospital requests, written as CSV files
// for the loader to pick up. Every blood type and every (blood type,
// component) pair is guaranteed to appear as long as the requested record
// counts leave room for it, so the dashboard never renders with holes in
// its category axes.
package generate

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"

	"github.com/redcell/bloodinv/internal/domain"
)

const dateFormat = "2006-01-02"

// hospitalCount is the number of distinct requesting hospitals.
const hospitalCount = 15

type Config struct {
	Donors    int
	Donations int
	Requests  int
	Seed      int64
	DataDir   string
}

func (c Config) Validate() error {
	if c.Donors < 0 || c.Donations < 0 || c.Requests < 0 {
		return fmt.Errorf("record counts must be non-negative (donors=%d donations=%d requests=%d)",
			c.Donors, c.Donations, c.Requests)
	}
	if c.Donors == 0 && c.Donations > 0 {
		return fmt.Errorf("cannot generate donations without donors")
	}
	return nil
}

// Dataset holds one generated batch before it is written out.
type Dataset struct {
	Donors    []domain.Donor
	Donations []domain.Donation
	Requests  []domain.HospitalRequest
}

type Generator struct {
	cfg Config
	rng *rand.Rand
	now time.Time
}

func New(cfg Config) (*Generator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Generator{
		cfg: cfg,
		rng: rand.New(rand.NewSource(cfg.Seed)),
		now: time.Now().UTC().Truncate(24 * time.Hour),
	}, nil
}

// Generate builds the full dataset in memory.
func (g *Generator) Generate() *Dataset {
	ds := &Dataset{}
	ds.Donors = g.generateDonors()
	ds.Donations = g.generateDonations(ds.Donors)
	ds.Requests = g.generateRequests()
	return ds
}

// Run generates the dataset and writes it to the configured data directory,
// overwriting any previous files.
func (g *Generator) Run() (*Dataset, error) {
	ds := g.Generate()
	if err := WriteDataset(g.cfg.DataDir, ds); err != nil {
		return nil, err
	}
	return ds, nil
}

func (g *Generator) generateDonors() []domain.Donor {
	donors := make([]domain.Donor, 0, g.cfg.Donors)
	for i := 0; i < g.cfg.Donors; i++ {
		bt := domain.BloodTypes[g.rng.Intn(len(domain.BloodTypes))]
		if i < len(domain.BloodTypes) {
			// Seed one donor of each blood type before randomizing.
			bt = domain.BloodTypes[i]
		}
		donors = append(donors, domain.Donor{
			ID:         fmt.Sprintf("donor_%d", i+1),
			BloodType:  bt,
			LocationID: g.location(),
			DOB:        g.now.AddDate(0, 0, -g.intBetween(18*365, 70*365)),
		})
	}
	return donors
}

func (g *Generator) generateDonations(donors []domain.Donor) []domain.Donation {
	donations := make([]domain.Donation, 0, g.cfg.Donations)
	if len(donors) == 0 {
		return donations
	}

	// Cover every (blood type, component) pair while the budget allows.
	for _, bt := range domain.BloodTypes {
		for _, comp := range domain.Components {
			if len(donations) >= g.cfg.Donations {
				return donations
			}
			donations = append(donations, g.donation(donors, bt, comp, true))
		}
	}

	for len(donations) < g.cfg.Donations {
		bt := domain.BloodTypes[g.rng.Intn(len(domain.BloodTypes))]
		comp := domain.Components[g.rng.Intn(len(domain.Components))]
		donations = append(donations, g.donation(donors, bt, comp, g.rng.Float64() > 0.02))
	}
	return donations
}

func (g *Generator) donation(donors []domain.Donor, bloodType, component string, qcPass bool) domain.Donation {
	donated := g.now.AddDate(0, 0, -g.rng.Intn(181))
	return domain.Donation{
		ID:           uuid.NewString(),
		DonorID:      donors[g.rng.Intn(len(donors))].ID,
		BloodType:    bloodType,
		Component:    component,
		Units:        g.intBetween(1, 3),
		DonationDate: donated,
		ExpiryDate:   donated.Add(domain.ShelfLife(component)),
		LocationID:   g.location(),
		QCPass:       qcPass,
	}
}

func (g *Generator) generateRequests() []domain.HospitalRequest {
	requests := make([]domain.HospitalRequest, 0, g.cfg.Requests)

	// Every blood type gets at least one fulfilled request while the
	// budget allows, so inventory subtraction has data on both sides.
	for _, bt := range domain.BloodTypes {
		if len(requests) >= g.cfg.Requests {
			return requests
		}
		requests = append(requests, g.request(bt, domain.StatusFulfilled))
	}

	for len(requests) < g.cfg.Requests {
		bt := domain.BloodTypes[g.rng.Intn(len(domain.BloodTypes))]
		status := domain.StatusFulfilled
		if g.rng.Float64() >= 0.85 {
			if g.rng.Float64() < 0.5 {
				status = domain.StatusPending
			} else {
				status = domain.StatusRejected
			}
		}
		requests = append(requests, g.request(bt, status))
	}
	return requests
}

func (g *Generator) request(bloodType, status string) domain.HospitalRequest {
	requested := g.now.AddDate(0, 0, -g.rng.Intn(181))

	var fulfilled *time.Time
	if status == domain.StatusFulfilled {
		d := requested.AddDate(0, 0, g.rng.Intn(3))
		if d.After(g.now) {
			d = g.now
		}
		fulfilled = &d
	}

	return domain.HospitalRequest{
		ID:             uuid.NewString(),
		HospitalID:     fmt.Sprintf("hospital_%d", g.intBetween(1, hospitalCount)),
		BloodType:      bloodType,
		Component:      domain.Components[g.rng.Intn(len(domain.Components))],
		UnitsRequested: g.intBetween(1, 8),
		Status:         status,
		Urgency:        domain.Urgencies[g.rng.Intn(len(domain.Urgencies))],
		LocationID:     g.location(),
		RequestDate:    requested,
		FulfilledDate:  fulfilled,
	}
}

func (g *Generator) location() string {
	return domain.Locations[g.rng.Intn(len(domain.Locations))]
}

// intBetween returns a uniform int in [lo, hi].
func (g *Generator) intBetween(lo, hi int) int {
	return lo + g.rng.Intn(hi-lo+1)
}

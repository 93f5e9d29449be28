package generate

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/redcell/bloodinv/internal/domain"
)

func testConfig(t *testing.T) Config {
	t.Helper()
	return Config{
		Donors:    50,
		Donations: 200,
		Requests:  30,
		Seed:      123,
		DataDir:   t.TempDir(),
	}
}

func TestConfigValidate(t *testing.T) {
	assert.NoError(t, Config{Donors: 1, Donations: 1, Requests: 1}.Validate())
	assert.NoError(t, Config{}.Validate())
	assert.Error(t, Config{Donors: -1}.Validate())
	assert.Error(t, Config{Donations: -5}.Validate())
	assert.Error(t, Config{Requests: -2}.Validate())
	// Donations need donors to reference.
	assert.Error(t, Config{Donors: 0, Donations: 10}.Validate())
}

func TestGenerateCounts(t *testing.T) {
	g, err := New(testConfig(t))
	require.NoError(t, err)

	ds := g.Generate()
	assert.Len(t, ds.Donors, 50)
	assert.Len(t, ds.Donations, 200)
	assert.Len(t, ds.Requests, 30)
}

func TestGenerateDonationsReferenceExistingDonors(t *testing.T) {
	g, err := New(testConfig(t))
	require.NoError(t, err)

	ds := g.Generate()
	donorIDs := make(map[string]bool, len(ds.Donors))
	for _, d := range ds.Donors {
		donorIDs[d.ID] = true
	}

	for _, d := range ds.Donations {
		assert.True(t, donorIDs[d.DonorID], "donation %s references unknown donor %s", d.ID, d.DonorID)
	}
}

func TestGenerateQuantitiesPositive(t *testing.T) {
	g, err := New(testConfig(t))
	require.NoError(t, err)

	ds := g.Generate()
	for _, d := range ds.Donations {
		assert.Positive(t, d.Units)
	}
	for _, r := range ds.Requests {
		assert.Positive(t, r.UnitsRequested)
	}
}

func TestGenerateFieldsAreValid(t *testing.T) {
	g, err := New(testConfig(t))
	require.NoError(t, err)

	ds := g.Generate()
	for _, d := range ds.Donors {
		assert.True(t, domain.ValidBloodType(d.BloodType))
		assert.True(t, domain.ValidLocation(d.LocationID))
	}
	for _, d := range ds.Donations {
		assert.True(t, domain.ValidBloodType(d.BloodType))
		assert.True(t, domain.ValidComponent(d.Component))
		assert.True(t, domain.ValidLocation(d.LocationID))
		assert.True(t, d.ExpiryDate.After(d.DonationDate))
	}
	for _, r := range ds.Requests {
		assert.True(t, domain.ValidBloodType(r.BloodType))
		assert.True(t, domain.ValidComponent(r.Component))
		assert.True(t, domain.ValidStatus(r.Status))
		assert.True(t, domain.ValidUrgency(r.Urgency))
		assert.True(t, domain.ValidLocation(r.LocationID))
		if r.Status == domain.StatusFulfilled {
			assert.NotNil(t, r.FulfilledDate)
		} else {
			assert.Nil(t, r.FulfilledDate)
		}
	}
}

func TestGenerateCoversAllCategories(t *testing.T) {
	g, err := New(testConfig(t))
	require.NoError(t, err)

	ds := g.Generate()

	donorTypes := make(map[string]bool)
	for _, d := range ds.Donors {
		donorTypes[d.BloodType] = true
	}
	assert.Len(t, donorTypes, len(domain.BloodTypes))

	pairs := make(map[[2]string]bool)
	for _, d := range ds.Donations {
		pairs[[2]string{d.BloodType, d.Component}] = true
	}
	assert.Len(t, pairs, len(domain.BloodTypes)*len(domain.Components))

	requestedTypes := make(map[string]bool)
	for _, r := range ds.Requests {
		requestedTypes[r.BloodType] = true
	}
	assert.Len(t, requestedTypes, len(domain.BloodTypes))
}

func TestGenerateDeterministicForSeed(t *testing.T) {
	cfg := testConfig(t)

	g1, err := New(cfg)
	require.NoError(t, err)
	g2, err := New(cfg)
	require.NoError(t, err)

	ds1 := g1.Generate()
	ds2 := g2.Generate()

	require.Equal(t, len(ds1.Donors), len(ds2.Donors))
	for i := range ds1.Donors {
		assert.Equal(t, ds1.Donors[i].BloodType, ds2.Donors[i].BloodType)
		assert.Equal(t, ds1.Donors[i].LocationID, ds2.Donors[i].LocationID)
	}
}

func TestRunWritesFiles(t *testing.T) {
	cfg := testConfig(t)
	g, err := New(cfg)
	require.NoError(t, err)

	ds, err := g.Run()
	require.NoError(t, err)
	assert.Len(t, ds.Donations, 200)

	for _, name := range []string{DonorsFile, DonationsFile, RequestsFile} {
		info, err := os.Stat(filepath.Join(cfg.DataDir, name))
		require.NoError(t, err, name)
		assert.Positive(t, info.Size(), name)
	}
}

func TestRunOverwritesPreviousFiles(t *testing.T) {
	cfg := testConfig(t)
	stale := filepath.Join(cfg.DataDir, DonorsFile)
	require.NoError(t, os.WriteFile(stale, []byte("stale"), 0644))

	g, err := New(cfg)
	require.NoError(t, err)
	_, err = g.Run()
	require.NoError(t, err)

	data, err := os.ReadFile(stale)
	require.NoError(t, err)
	assert.NotEqual(t, "stale", string(data))
}

func TestGenerateZeroCounts(t *testing.T) {
	g, err := New(Config{DataDir: t.TempDir()})
	require.NoError(t, err)

	ds, err := g.Run()
	require.NoError(t, err)
	assert.Empty(t, ds.Donors)
	assert.Empty(t, ds.Donations)
	assert.Empty(t, ds.Requests)
}

package web

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/redcell/bloodinv/internal/db"
	"github.com/redcell/bloodinv/internal/etl"
	"github.com/redcell/bloodinv/internal/generate"
	"github.com/redcell/bloodinv/internal/service"
	"github.com/redcell/bloodinv/internal/store"
	"github.com/redcell/bloodinv/internal/web/templates"
)

// Full pipeline: generate → load → dashboard. Mirrors the reference
// scenario of 50 donors, 200 donations, 30 requests.
func TestPipelineEndToEnd(t *testing.T) {
	dataDir := t.TempDir()
	logger := slog.Default()
	ctx := context.Background()

	g, err := generate.New(generate.Config{
		Donors: 50, Donations: 200, Requests: 30, Seed: 123, DataDir: dataDir,
	})
	require.NoError(t, err)
	_, err = g.Run()
	require.NoError(t, err)

	d, err := db.OpenForTesting()
	require.NoError(t, err)
	t.Cleanup(func() { assert.NoError(t, d.Close()) })

	res, err := etl.NewPipeline(dataDir, d, logger).Run(ctx)
	require.NoError(t, err)

	// Generated data is schema-valid by construction.
	assert.Zero(t, res.Malformed)
	assert.Equal(t, 50, res.Donors)
	assert.Equal(t, 30, res.Requests)
	// A couple of QC failures are expected among 200 random donations.
	assert.Equal(t, 200, res.Donations+res.QCFailures)

	dashStore := store.NewDashboardStore(d)
	svc := service.NewDashboardService(dashStore, logger)

	// Presenter with every filter set to "all" must agree with the
	// loader's own inventory sum.
	summary, err := svc.Summary(ctx, store.Filter{})
	require.NoError(t, err)
	assert.True(t, summary.HasData)
	assert.Equal(t, 50, summary.Donors)
	assert.Equal(t, res.TotalUnits, summary.InventoryUnits)
	assert.Equal(t, 30, summary.Requests.Total())

	// And the rendered dashboard reports the same total.
	srv := NewServer(svc, templates.FS, logger)
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/dashboard", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), fmt.Sprintf("%d", summary.InventoryUnits))
}

// Per-blood-type inventory totals must sum to the unfiltered total.
func TestFilteredInventoryPartitionsTotal(t *testing.T) {
	dataDir := t.TempDir()
	logger := slog.Default()
	ctx := context.Background()

	g, err := generate.New(generate.Config{
		Donors: 40, Donations: 150, Requests: 40, Seed: 7, DataDir: dataDir,
	})
	require.NoError(t, err)
	_, err = g.Run()
	require.NoError(t, err)

	d, err := db.OpenForTesting()
	require.NoError(t, err)
	t.Cleanup(func() { assert.NoError(t, d.Close()) })

	res, err := etl.NewPipeline(dataDir, d, logger).Run(ctx)
	require.NoError(t, err)

	dashStore := store.NewDashboardStore(d)
	sum := 0
	for _, bt := range []string{"A+", "A-", "B+", "B-", "AB+", "AB-", "O+", "O-"} {
		units, err := dashStore.InventoryTotal(ctx, store.Filter{BloodType: bt})
		require.NoError(t, err)
		sum += units
	}
	assert.Equal(t, res.TotalUnits, sum)
}

package etl

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/redcell/bloodinv/internal/domain"
)

func day(s string) time.Time {
	t, err := time.Parse(dateFormat, s)
	if err != nil {
		panic(err)
	}
	return t
}

func donation(id, bt, comp, loc string, units int, qc bool) domain.Donation {
	return domain.Donation{
		ID: id, DonorID: "donor_1", BloodType: bt, Component: comp,
		Units: units, DonationDate: day("2026-08-01"), ExpiryDate: day("2026-09-12"),
		LocationID: loc, QCPass: qc,
	}
}

func request(id, bt, comp, loc, status string, units int) domain.HospitalRequest {
	return domain.HospitalRequest{
		ID: id, HospitalID: "hospital_1", BloodType: bt, Component: comp,
		UnitsRequested: units, Status: status, Urgency: "routine",
		LocationID: loc, RequestDate: day("2026-08-10"),
	}
}

func TestComputeInventorySubtractsFulfilled(t *testing.T) {
	donations := []domain.Donation{
		donation("d1", "A+", "plasma", "center_1", 3, true),
		donation("d2", "A+", "plasma", "center_1", 2, true),
	}
	requests := []domain.HospitalRequest{
		request("r1", "A+", "plasma", "center_1", domain.StatusFulfilled, 4),
	}

	levels := ComputeInventory(donations, requests)
	require.Len(t, levels, 1)
	assert.Equal(t, domain.InventoryLevel{
		BloodType: "A+", Component: "plasma", LocationID: "center_1", Units: 1,
	}, levels[0])
}

func TestComputeInventoryIgnoresPendingAndRejected(t *testing.T) {
	donations := []domain.Donation{
		donation("d1", "O-", "platelets", "center_2", 5, true),
	}
	requests := []domain.HospitalRequest{
		request("r1", "O-", "platelets", "center_2", domain.StatusPending, 3),
		request("r2", "O-", "platelets", "center_2", domain.StatusRejected, 2),
	}

	levels := ComputeInventory(donations, requests)
	require.Len(t, levels, 1)
	assert.Equal(t, 5, levels[0].Units)
}

func TestComputeInventoryEmptyDonationSide(t *testing.T) {
	// A group only seen on the request side counts donations as zero and
	// can go negative.
	requests := []domain.HospitalRequest{
		request("r1", "B-", "whole_blood", "center_3", domain.StatusFulfilled, 4),
	}

	levels := ComputeInventory(nil, requests)
	require.Len(t, levels, 1)
	assert.Equal(t, -4, levels[0].Units)
}

func TestComputeInventoryEmptyRequestSide(t *testing.T) {
	donations := []domain.Donation{
		donation("d1", "AB+", "plasma", "mobile_drive_1", 2, true),
	}

	levels := ComputeInventory(donations, nil)
	require.Len(t, levels, 1)
	assert.Equal(t, 2, levels[0].Units)
}

func TestComputeInventoryEmptyInput(t *testing.T) {
	assert.Empty(t, ComputeInventory(nil, nil))
}

func TestComputeInventoryGroupsByLocation(t *testing.T) {
	donations := []domain.Donation{
		donation("d1", "A+", "plasma", "center_1", 3, true),
		donation("d2", "A+", "plasma", "center_2", 1, true),
	}
	requests := []domain.HospitalRequest{
		request("r1", "A+", "plasma", "center_2", domain.StatusFulfilled, 1),
	}

	levels := ComputeInventory(donations, requests)
	require.Len(t, levels, 2)
	// Sorted output: center_1 before center_2.
	assert.Equal(t, "center_1", levels[0].LocationID)
	assert.Equal(t, 3, levels[0].Units)
	assert.Equal(t, "center_2", levels[1].LocationID)
	assert.Equal(t, 0, levels[1].Units)
}

func TestTransformDropsQCFailures(t *testing.T) {
	raw := &RawData{
		Donations: []domain.Donation{
			donation("d1", "A+", "plasma", "center_1", 3, true),
			donation("d2", "A+", "plasma", "center_1", 2, false),
		},
	}

	clean := Transform(raw)
	require.Len(t, clean.Donations, 1)
	assert.Equal(t, "d1", clean.Donations[0].ID)
	assert.Equal(t, 1, clean.QCFailures)

	// The failed donation must not count toward inventory either.
	require.Len(t, clean.Inventory, 1)
	assert.Equal(t, 3, clean.Inventory[0].Units)
}

func TestTransformDeduplicatesByID(t *testing.T) {
	raw := &RawData{
		Donors: []domain.Donor{
			{ID: "donor_1", BloodType: "A+", LocationID: "center_1", DOB: day("1990-01-01")},
			{ID: "donor_1", BloodType: "B+", LocationID: "center_2", DOB: day("1985-01-01")},
		},
		Donations: []domain.Donation{
			donation("d1", "A+", "plasma", "center_1", 3, true),
			donation("d1", "A+", "plasma", "center_1", 3, true),
		},
		Requests: []domain.HospitalRequest{
			request("r1", "A+", "plasma", "center_1", domain.StatusFulfilled, 1),
			request("r1", "A+", "plasma", "center_1", domain.StatusFulfilled, 1),
		},
	}

	clean := Transform(raw)
	assert.Len(t, clean.Donors, 1)
	// First occurrence wins.
	assert.Equal(t, "A+", clean.Donors[0].BloodType)
	assert.Len(t, clean.Donations, 1)
	assert.Len(t, clean.Requests, 1)
	assert.Equal(t, 3, clean.Duplicates)

	// Inventory counts each record once: 3 donated - 1 fulfilled.
	require.Len(t, clean.Inventory, 1)
	assert.Equal(t, 2, clean.Inventory[0].Units)
}

package ledger

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kesleylibanio/fretesopipa/internal/model"
)

func validTrip() model.Trip {
	return model.Trip{
		Date:          "2025-06-01",
		InvoiceNumber: "1234",
		CustomerID:    "c1",
		DriverID:      "d1",
		VehicleID:     "v1",
		QtyTons:       10,
		PricePerTon:   150,
		TotalValue:    1500,
	}
}

func TestCreatePrependsAndStamps(t *testing.T) {
	existing := []model.Trip{{ID: "old"}}
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	trips, created, err := Create(existing, validTrip(), now)
	require.NoError(t, err)
	require.Len(t, trips, 2)
	assert.Equal(t, created.ID, trips[0].ID)
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, now, created.CreatedAt)
	assert.Equal(t, "old", trips[1].ID)
}

func TestCreateRejectsMissingFields(t *testing.T) {
	cases := map[string]func(*model.Trip){
		"invoice":  func(tr *model.Trip) { tr.InvoiceNumber = "" },
		"customer": func(tr *model.Trip) { tr.CustomerID = "" },
		"driver":   func(tr *model.Trip) { tr.DriverID = "" },
		"vehicle":  func(tr *model.Trip) { tr.VehicleID = "" },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			trip := validTrip()
			mutate(&trip)
			_, _, err := Create(nil, trip, time.Now())
			assert.ErrorIs(t, err, ErrInvalid)
		})
	}
}

func TestCreateQuantityBoundary(t *testing.T) {
	trip := validTrip()
	trip.QtyTons = 0
	_, _, err := Create(nil, trip, time.Now())
	assert.ErrorIs(t, err, ErrInvalid)

	trip.QtyTons = 0.01
	_, _, err = Create(nil, trip, time.Now())
	assert.NoError(t, err)
}

func TestUpdatePreservesPosition(t *testing.T) {
	trips := []model.Trip{
		{ID: "t1", InvoiceNumber: "1", CustomerID: "c", DriverID: "d", VehicleID: "v", QtyTons: 1},
		{ID: "t2", InvoiceNumber: "2", CustomerID: "c", DriverID: "d", VehicleID: "v", QtyTons: 1},
		{ID: "t3", InvoiceNumber: "3", CustomerID: "c", DriverID: "d", VehicleID: "v", QtyTons: 1},
	}

	edited := trips[1]
	edited.InvoiceNumber = "2-edited"
	next, err := Update(trips, edited)
	require.NoError(t, err)
	assert.Equal(t, []string{"t1", "t2", "t3"}, ids(next))
	assert.Equal(t, "2-edited", next[1].InvoiceNumber)
	// Original slice untouched.
	assert.Equal(t, "2", trips[1].InvoiceNumber)
}

func TestUpdateUnknownID(t *testing.T) {
	trip := validTrip()
	trip.ID = "missing"
	_, err := Update(nil, trip)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDeleteIsIdempotent(t *testing.T) {
	trips := []model.Trip{{ID: "t1"}, {ID: "t2"}}

	next := Delete(trips, "t1")
	assert.Equal(t, []string{"t2"}, ids(next))

	next = Delete(next, "does-not-exist")
	assert.Equal(t, []string{"t2"}, ids(next))
}

func TestVisibleToDriverTolerantJoin(t *testing.T) {
	trips := []model.Trip{
		{ID: "t1", DriverID: "drv-1"},
		{ID: "t2", DriverID: "joao.silva"},
		{ID: "t3", DriverID: "drv-2"},
	}
	p := model.Principal{Username: "joao.silva", Role: model.RoleDriver, DriverID: "drv-1"}

	visible := VisibleTo(trips, p)
	assert.Equal(t, []string{"t1", "t2"}, ids(visible))
	for _, trip := range visible {
		assert.True(t, p.OwnsTrip(trip))
	}
}

func TestVisibleToAdminSeesAll(t *testing.T) {
	trips := []model.Trip{{ID: "t1", DriverID: "a"}, {ID: "t2", DriverID: "b"}}
	p := model.Principal{Username: "admin", Role: model.RoleAdmin}
	assert.Len(t, VisibleTo(trips, p), 2)
}

func TestMaskMoney(t *testing.T) {
	trips := []model.Trip{{ID: "t1", PricePerTon: 150, TotalValue: 1500, QtyTons: 10}}

	masked := MaskMoney(trips)
	assert.Zero(t, masked[0].PricePerTon)
	assert.Zero(t, masked[0].TotalValue)
	assert.Equal(t, 10.0, masked[0].QtyTons)
	// Source data keeps its values.
	assert.Equal(t, 150.0, trips[0].PricePerTon)
}

func ids(trips []model.Trip) []string {
	result := make([]string, 0, len(trips))
	for _, t := range trips {
		result = append(result, t.ID)
	}
	return result
}

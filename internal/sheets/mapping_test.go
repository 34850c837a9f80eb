package sheets

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kesleylibanio/fretesopipa/internal/model"
)

func sampleSnapshot() model.Snapshot {
	snap := model.EmptySnapshot()
	snap.Customers = []model.Customer{{ID: "c1", Name: "Construtora Alfa"}}
	snap.Drivers = []model.Driver{{ID: "d1", Name: "João Silva"}}
	snap.Vehicles = []model.Vehicle{{ID: "v1", Plate: "ABC-1234"}}
	snap.Locations = []model.Location{{ID: "l1", Name: "Pedreira"}, {ID: "l2", Name: "Obra Norte"}}
	snap.Materials = []model.Material{{ID: "m1", Name: "Brita"}}
	snap.FreightRates = []model.FreightRate{{ID: "r1", OriginID: "l1", DestinationID: "l2", PricePerTon: 150}}
	snap.Trips = []model.Trip{{
		ID:            "t1",
		Date:          "2025-06-01",
		InvoiceNumber: "000123",
		CustomerID:    "c1",
		DriverID:      "d1",
		VehicleID:     "v1",
		OriginID:      "l1",
		DestinationID: "l2",
		MaterialID:    "m1",
		QtyTons:       10.5,
		PricePerTon:   150,
		TotalValue:    1575,
	}}
	snap.Logins = []model.Login{{ID: "d1", Username: "joao.silva", Password: "123456", Role: model.RoleDriver}}
	return snap
}

func TestTripWireRoundTrip(t *testing.T) {
	snap := sampleSnapshot()
	payload := buildPushPayload("tok", snap)

	raw, err := json.Marshal(payload.Trips)
	require.NoError(t, err)
	var rows []row
	require.NoError(t, json.Unmarshal(raw, &rows))

	back := tripsFromRows(rows)
	require.Len(t, back, 1)

	want := snap.Trips[0]
	got := back[0]
	assert.Equal(t, want.ID, got.ID)
	assert.Equal(t, want.Date, got.Date)
	assert.Equal(t, want.InvoiceNumber, got.InvoiceNumber)
	assert.Equal(t, want.CustomerID, got.CustomerID)
	assert.Equal(t, want.DriverID, got.DriverID)
	assert.Equal(t, want.VehicleID, got.VehicleID)
	assert.Equal(t, want.OriginID, got.OriginID)
	assert.Equal(t, want.DestinationID, got.DestinationID)
	assert.Equal(t, want.MaterialID, got.MaterialID)
	assert.Equal(t, want.QtyTons, got.QtyTons)
	assert.Equal(t, want.PricePerTon, got.PricePerTon)
	assert.Equal(t, want.TotalValue, got.TotalValue)
	assert.Equal(t, want.InvoiceImageURL, got.InvoiceImageURL)
}

func TestEmptyInvoiceImageSerializesAsEmptyString(t *testing.T) {
	snap := sampleSnapshot()
	payload := buildPushPayload("tok", snap)

	raw, err := json.Marshal(payload.Trips[0])
	require.NoError(t, err)

	var generic map[string]any
	require.NoError(t, json.Unmarshal(raw, &generic))
	value, present := generic["foto_nota"]
	assert.True(t, present)
	assert.Equal(t, "", value)
}

func TestPushDenormalizesNames(t *testing.T) {
	payload := buildPushPayload("tok", sampleSnapshot())

	require.Len(t, payload.Trips, 1)
	assert.Equal(t, "Construtora Alfa", payload.Trips[0].CustomerName)
	assert.Equal(t, "João Silva", payload.Trips[0].DriverName)
	assert.Equal(t, "ABC-1234", payload.Trips[0].VehiclePlate)
	assert.Equal(t, "Pedreira", payload.Trips[0].OriginName)
	assert.Equal(t, "Obra Norte", payload.Trips[0].DestinationName)

	require.Len(t, payload.Rates, 1)
	assert.Equal(t, "Pedreira", payload.Rates[0].OriginName)
	assert.Equal(t, "Obra Norte", payload.Rates[0].DestName)
}

func TestRowCoercion(t *testing.T) {
	rows := []row{{
		"id":                   float64(42),
		"quantidade_toneladas": "10,5",
		"valor_tonelada":       "150",
		"valor_total":          1575.0,
	}}

	trips := tripsFromRows(rows)
	require.Len(t, trips, 1)
	assert.Equal(t, "42", trips[0].ID)
	assert.Equal(t, 10.5, trips[0].QtyTons)
	assert.Equal(t, 150.0, trips[0].PricePerTon)
	assert.Equal(t, 1575.0, trips[0].TotalValue)
	assert.Equal(t, "", trips[0].InvoiceImageURL)
}

func TestLoginsDefaultToDriverRole(t *testing.T) {
	logins := loginsFromRows([]row{
		{"id": "1", "username": "x", "senha": "s", "role": "admin"},
		{"id": "2", "username": "y", "senha": "s", "role": "banana"},
		{"id": "3", "username": "z", "senha": "s"},
	})
	require.Len(t, logins, 3)
	assert.Equal(t, model.RoleAdmin, logins[0].Role)
	assert.Equal(t, model.RoleDriver, logins[1].Role)
	assert.Equal(t, model.RoleDriver, logins[2].Role)
}

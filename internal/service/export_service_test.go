package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kesleylibanio/fretesopipa/internal/model"
	"github.com/kesleylibanio/fretesopipa/internal/store"
)

type stubGenerator struct {
	report model.TripReport
}

func (g *stubGenerator) Generate(report model.TripReport) ([]byte, error) {
	g.report = report
	return []byte("file"), nil
}

func exportSnapshot() model.Snapshot {
	snap := model.EmptySnapshot()
	snap.Customers = []model.Customer{{ID: "c1", Name: "Construtora Alfa"}}
	snap.Drivers = []model.Driver{{ID: "d1", Name: "João Silva"}}
	snap.Vehicles = []model.Vehicle{{ID: "v1", Plate: "ABC-1234"}}
	snap.Locations = []model.Location{{ID: "l1", Name: "Pedreira"}, {ID: "l2", Name: "Obra Norte"}}
	snap.Materials = []model.Material{{ID: "m1", Name: "Brita"}}
	snap.Trips = []model.Trip{
		{ID: "t1", Date: "2025-06-10", CustomerID: "c1", DriverID: "d1", VehicleID: "v1", OriginID: "l1", DestinationID: "l2", MaterialID: "m1", QtyTons: 10, PricePerTon: 150, TotalValue: 1500},
		{ID: "t2", Date: "2025-05-01", CustomerID: "gone", QtyTons: 5, PricePerTon: 100, TotalValue: 500},
	}
	return snap
}

func newExportFixture(t *testing.T) (*ExportService, *stubGenerator) {
	t.Helper()
	st := store.New()
	st.Load(exportSnapshot())
	gen := &stubGenerator{}
	svc := NewExportService(st, gen, gen)
	svc.now = func() time.Time { return time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC) }
	return svc, gen
}

func TestExcelResolvesNamesAndTotals(t *testing.T) {
	svc, gen := newExportFixture(t)

	result, err := svc.Excel(admin, ExportInput{})
	require.NoError(t, err)
	assert.Equal(t, "viagens-todas-20250615.xlsx", result.FileName)
	assert.Equal(t, []byte("file"), result.Content)

	require.Len(t, gen.report.Rows, 2)
	assert.Equal(t, "Construtora Alfa", gen.report.Rows[0].Customer)
	assert.Equal(t, "João Silva", gen.report.Rows[0].Driver)
	assert.Equal(t, "Obra Norte", gen.report.Rows[0].Destination)
	// Dangling reference keeps the raw id instead of blanking the row.
	assert.Equal(t, "gone", gen.report.Rows[1].Customer)

	assert.Equal(t, 2, gen.report.TotalTrips)
	assert.Equal(t, 15.0, gen.report.TotalTons)
	assert.Equal(t, 2000.0, gen.report.TotalValue)
}

func TestExportPeriodFilter(t *testing.T) {
	svc, gen := newExportFixture(t)

	result, err := svc.PDF(admin, ExportInput{PeriodStart: "2025-06-01", PeriodEnd: "2025-06-30"})
	require.NoError(t, err)
	assert.Equal(t, "viagens-2025-06-01-2025-06-30-20250615.pdf", result.FileName)
	require.Len(t, gen.report.Rows, 1)
	assert.Equal(t, "2025-06-10", gen.report.Rows[0].Date)
}

func TestExportOpenEndedPeriod(t *testing.T) {
	svc, _ := newExportFixture(t)

	result, err := svc.Excel(admin, ExportInput{PeriodEnd: "2025-05-31"})
	require.NoError(t, err)
	assert.Equal(t, "viagens-inicio-2025-05-31-20250615.xlsx", result.FileName)
}

func TestExportInvertedPeriodRejected(t *testing.T) {
	svc, _ := newExportFixture(t)
	_, err := svc.Excel(admin, ExportInput{PeriodStart: "2025-07-01", PeriodEnd: "2025-06-01"})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestExportAdminOnly(t *testing.T) {
	svc, _ := newExportFixture(t)
	driver := model.Principal{Username: "joao", Role: model.RoleDriver, DriverID: "d1"}
	_, err := svc.Excel(driver, ExportInput{})
	assert.ErrorIs(t, err, ErrPermissionDenied)
	_, err = svc.PDF(driver, ExportInput{})
	assert.ErrorIs(t, err, ErrPermissionDenied)
}

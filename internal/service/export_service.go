package service

import (
	"fmt"
	"time"

	"github.com/kesleylibanio/fretesopipa/internal/model"
	"github.com/kesleylibanio/fretesopipa/internal/store"
)

type ExcelGenerator interface {
	Generate(report model.TripReport) ([]byte, error)
}

type PDFGenerator interface {
	Generate(report model.TripReport) ([]byte, error)
}

// ExportService renders the ledger as downloadable spreadsheets and PDFs.
type ExportService struct {
	store *store.Store
	excel ExcelGenerator
	pdf   PDFGenerator
	now   func() time.Time
}

func NewExportService(st *store.Store, excel ExcelGenerator, pdf PDFGenerator) *ExportService {
	return &ExportService{store: st, excel: excel, pdf: pdf, now: time.Now}
}

type ExportInput struct {
	PeriodStart string `json:"periodStart"`
	PeriodEnd   string `json:"periodEnd"`
}

type ExportResult struct {
	FileName string
	Content  []byte
}

func (s *ExportService) Excel(p model.Principal, input ExportInput) (*ExportResult, error) {
	report, err := s.buildReport(p, input)
	if err != nil {
		return nil, err
	}
	content, err := s.excel.Generate(report)
	if err != nil {
		return nil, err
	}
	return &ExportResult{FileName: buildFileName(report, "xlsx"), Content: content}, nil
}

func (s *ExportService) PDF(p model.Principal, input ExportInput) (*ExportResult, error) {
	report, err := s.buildReport(p, input)
	if err != nil {
		return nil, err
	}
	content, err := s.pdf.Generate(report)
	if err != nil {
		return nil, err
	}
	return &ExportResult{FileName: buildFileName(report, "pdf"), Content: content}, nil
}

func (s *ExportService) buildReport(p model.Principal, input ExportInput) (model.TripReport, error) {
	if !p.IsAdmin() {
		return model.TripReport{}, ErrPermissionDenied
	}
	if input.PeriodStart != "" && input.PeriodEnd != "" && input.PeriodStart > input.PeriodEnd {
		return model.TripReport{}, fmt.Errorf("%w: period start after period end", ErrInvalidInput)
	}

	snap := s.store.View()
	report := model.TripReport{
		GeneratedAt: s.now(),
		PeriodStart: input.PeriodStart,
		PeriodEnd:   input.PeriodEnd,
		Rows:        []model.TripReportRow{},
	}
	for _, t := range snap.Trips {
		// Trip dates are ISO strings, so the range check is lexicographic.
		if input.PeriodStart != "" && t.Date < input.PeriodStart {
			continue
		}
		if input.PeriodEnd != "" && t.Date > input.PeriodEnd {
			continue
		}
		report.Rows = append(report.Rows, model.TripReportRow{
			Date:          t.Date,
			InvoiceNumber: t.InvoiceNumber,
			Customer:      lookupName(snap, TypeCustomers, t.CustomerID),
			Driver:        lookupName(snap, TypeDrivers, t.DriverID),
			Vehicle:       lookupName(snap, TypeVehicles, t.VehicleID),
			Origin:        lookupName(snap, TypeLocations, t.OriginID),
			Destination:   lookupName(snap, TypeLocations, t.DestinationID),
			Material:      lookupName(snap, TypeMaterials, t.MaterialID),
			QtyTons:       t.QtyTons,
			PricePerTon:   t.PricePerTon,
			TotalValue:    t.TotalValue,
		})
		report.TotalTrips++
		report.TotalTons += t.QtyTons
		report.TotalValue += t.TotalValue
	}
	return report, nil
}

// lookupName falls back to the raw reference when the id no longer resolves,
// so deleted reference rows do not blank historical exports.
func lookupName(snap model.Snapshot, collection, id string) string {
	switch collection {
	case TypeCustomers:
		for _, c := range snap.Customers {
			if c.ID == id {
				return c.Name
			}
		}
	case TypeDrivers:
		for _, d := range snap.Drivers {
			if d.ID == id {
				return d.Name
			}
		}
	case TypeVehicles:
		for _, v := range snap.Vehicles {
			if v.ID == id {
				return v.Plate
			}
		}
	case TypeLocations:
		for _, l := range snap.Locations {
			if l.ID == id {
				return l.Name
			}
		}
	case TypeMaterials:
		for _, m := range snap.Materials {
			if m.ID == id {
				return m.Name
			}
		}
	}
	return id
}

func buildFileName(report model.TripReport, ext string) string {
	period := "todas"
	if report.PeriodStart != "" || report.PeriodEnd != "" {
		period = fmt.Sprintf("%s-%s", orDefault(report.PeriodStart, "inicio"), orDefault(report.PeriodEnd, "hoje"))
	}
	return fmt.Sprintf("viagens-%s-%s.%s", period, report.GeneratedAt.Format("20060102"), ext)
}

func orDefault(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}

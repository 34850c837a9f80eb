package pdf

import (
	"bytes"
	"fmt"

	"github.com/jung-kurt/gofpdf"

	"github.com/kesleylibanio/fretesopipa/internal/model"
)

type Generator struct{}

func NewGenerator() *Generator {
	return &Generator{}
}

func (g *Generator) Generate(report model.TripReport) ([]byte, error) {
	pdf := gofpdf.New("L", "mm", "A4", "")
	pdf.SetMargins(12, 12, 12)
	pdf.AddPage()
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.SetFont("Helvetica", "B", 14)
	pdf.CellFormat(0, 10, tr("Relatório de Viagens"), "", 1, "C", false, 0, "")

	pdf.SetFont("Helvetica", "", 10)
	period := "todas as datas"
	if report.PeriodStart != "" || report.PeriodEnd != "" {
		period = fmt.Sprintf("%s a %s", report.PeriodStart, report.PeriodEnd)
	}
	pdf.CellFormat(0, 6, tr(fmt.Sprintf("Período: %s", period)), "", 1, "C", false, 0, "")
	pdf.CellFormat(0, 6, tr(fmt.Sprintf("Gerado em %s", report.GeneratedAt.Format("02/01/2006 15:04"))), "", 1, "C", false, 0, "")
	pdf.Ln(4)

	headers := []string{"Data", "NF", "Cliente", "Motorista", "Veículo", "Origem", "Destino", "Material", "Qtd (t)", "R$/t", "Total R$"}
	widths := []float64{20, 20, 36, 36, 22, 28, 28, 26, 18, 18, 21}
	drawRow(pdf, tr, headers, widths, true)

	for _, r := range report.Rows {
		row := []string{
			r.Date,
			r.InvoiceNumber,
			r.Customer,
			r.Driver,
			r.Vehicle,
			r.Origin,
			r.Destination,
			r.Material,
			fmt.Sprintf("%.2f", r.QtyTons),
			fmt.Sprintf("%.2f", r.PricePerTon),
			fmt.Sprintf("%.2f", r.TotalValue),
		}
		drawRow(pdf, tr, row, widths, false)
	}

	pdf.Ln(4)
	pdf.SetFont("Helvetica", "B", 10)
	pdf.CellFormat(0, 6, tr(fmt.Sprintf("Viagens: %d    Toneladas: %.2f    Valor total: R$ %.2f",
		report.TotalTrips, report.TotalTons, report.TotalValue)), "", 1, "R", false, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func drawRow(pdf *gofpdf.Fpdf, tr func(string) string, cols []string, widths []float64, header bool) {
	style := ""
	if header {
		style = "B"
	}
	pdf.SetFont("Helvetica", style, 8)
	for i, col := range cols {
		align := "L"
		if i > 7 {
			align = "R"
		}
		pdf.CellFormat(widths[i], 7, tr(col), "1", 0, align, false, 0, "")
	}
	pdf.Ln(-1)
}

package excel

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/kesleylibanio/fretesopipa/internal/model"
)

type Generator struct{}

func NewGenerator() *Generator {
	return &Generator{}
}

func (g *Generator) Generate(report model.TripReport) ([]byte, error) {
	file := excelize.NewFile()

	summarySheet := "Resumo"
	file.SetSheetName("Sheet1", summarySheet)
	if err := g.writeSummary(file, summarySheet, report); err != nil {
		return nil, err
	}

	detailSheet := "Viagens"
	if _, err := file.NewSheet(detailSheet); err != nil {
		return nil, err
	}
	if err := g.writeDetail(file, detailSheet, report); err != nil {
		return nil, err
	}

	file.SetActiveSheet(0)
	buf, err := file.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (g *Generator) writeSummary(file *excelize.File, sheet string, report model.TripReport) error {
	set := func(cell string, value interface{}) {
		_ = file.SetCellValue(sheet, cell, value)
	}

	set("A1", "Relatório de Viagens")
	set("A2", "Gerado em")
	set("B2", report.GeneratedAt.Format("02/01/2006 15:04"))
	set("A3", "Início do período")
	set("B3", orAll(report.PeriodStart))
	set("A4", "Fim do período")
	set("B4", orAll(report.PeriodEnd))
	set("A5", "Quantidade de viagens")
	set("B5", report.TotalTrips)
	set("A6", "Toneladas transportadas")
	set("B6", fmt.Sprintf("%.2f", report.TotalTons))
	set("A7", "Valor total (R$)")
	set("B7", fmt.Sprintf("%.2f", report.TotalValue))

	_ = file.SetColWidth(sheet, "A", "A", 28)
	_ = file.SetColWidth(sheet, "B", "B", 22)
	return nil
}

func (g *Generator) writeDetail(file *excelize.File, sheet string, report model.TripReport) error {
	set := func(cell string, value interface{}) {
		_ = file.SetCellValue(sheet, cell, value)
	}

	headers := []string{
		"Data",
		"Nota Fiscal",
		"Cliente",
		"Motorista",
		"Veículo",
		"Origem",
		"Destino",
		"Material",
		"Quantidade (t)",
		"Valor/Ton (R$)",
		"Valor Total (R$)",
	}
	for i, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		set(cell, header)
	}

	for i, r := range report.Rows {
		row := i + 2
		set(fmt.Sprintf("A%d", row), r.Date)
		set(fmt.Sprintf("B%d", row), r.InvoiceNumber)
		set(fmt.Sprintf("C%d", row), r.Customer)
		set(fmt.Sprintf("D%d", row), r.Driver)
		set(fmt.Sprintf("E%d", row), r.Vehicle)
		set(fmt.Sprintf("F%d", row), r.Origin)
		set(fmt.Sprintf("G%d", row), r.Destination)
		set(fmt.Sprintf("H%d", row), r.Material)
		set(fmt.Sprintf("I%d", row), r.QtyTons)
		set(fmt.Sprintf("J%d", row), r.PricePerTon)
		set(fmt.Sprintf("K%d", row), r.TotalValue)
	}

	_ = file.SetColWidth(sheet, "A", "B", 14)
	_ = file.SetColWidth(sheet, "C", "H", 24)
	_ = file.SetColWidth(sheet, "I", "K", 16)
	return nil
}

func orAll(value string) string {
	if value == "" {
		return "todas as datas"
	}
	return value
}

package model

import "time"

// TripReport is the flattened, name-resolved view of the ledger handed to
// the excel and pdf generators.
type TripReport struct {
	GeneratedAt time.Time
	PeriodStart string
	PeriodEnd   string
	TotalTrips  int
	TotalTons   float64
	TotalValue  float64
	Rows        []TripReportRow
}

type TripReportRow struct {
	Date          string
	InvoiceNumber string
	Customer      string
	Driver        string
	Vehicle       string
	Origin        string
	Destination   string
	Material      string
	QtyTons       float64
	PricePerTon   float64
	TotalValue    float64
}

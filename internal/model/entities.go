package model

import "time"

type Role string

const (
	RoleAdmin  Role = "admin"
	RoleDriver Role = "driver"
)

type Customer struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type Driver struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type Vehicle struct {
	ID    string `json:"id"`
	Plate string `json:"plate"`
}

type Location struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type Material struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// FreightRate prices one directed origin->destination lane. At most one rate
// exists per directed pair; origin and destination are distinct.
type FreightRate struct {
	ID            string  `json:"id"`
	OriginID      string  `json:"originId"`
	DestinationID string  `json:"destinationId"`
	PricePerTon   float64 `json:"pricePerTon"`
}

// Trip is a single freight run. TotalValue is fixed at save time from
// QtyTons*PricePerTon; later rate edits never rewrite historical trips.
type Trip struct {
	ID              string    `json:"id"`
	Date            string    `json:"date"`
	InvoiceNumber   string    `json:"invoiceNumber"`
	CustomerID      string    `json:"customerId"`
	DriverID        string    `json:"driverId"`
	VehicleID       string    `json:"vehicleId"`
	OriginID        string    `json:"originId"`
	DestinationID   string    `json:"destinationId"`
	MaterialID      string    `json:"materialId"`
	QtyTons         float64   `json:"qtyTons"`
	PricePerTon     float64   `json:"pricePerTon"`
	TotalValue      float64   `json:"totalValue"`
	CreatedAt       time.Time `json:"createdAt"`
	InvoiceImageURL string    `json:"invoiceImageUrl"`
}

// Login is an access record. A driver login's ID should equal the driver's ID,
// but stored data sometimes diverges; lookups fall back to username matching.
type Login struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Password string `json:"password,omitempty"`
	Role     Role   `json:"role"`
}

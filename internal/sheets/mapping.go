package sheets

import (
	"strconv"
	"strings"

	"github.com/kesleylibanio/fretesopipa/internal/model"
)

// Wire records use the sheet's localized column names. Pushes are typed;
// reads go through loose maps because the spreadsheet backend is free to hand
// back numbers as strings, blanks, or denormalized names.

type wireNamed struct {
	ID   string `json:"id"`
	Name string `json:"nome"`
}

type wireVehicle struct {
	ID    string `json:"id"`
	Plate string `json:"placa"`
}

type wireRate struct {
	ID            string  `json:"id"`
	OriginID      string  `json:"local_origem_id"`
	DestinationID string  `json:"local_destino_id"`
	OriginName    string  `json:"local_origem_nome,omitempty"`
	DestName      string  `json:"local_destino_nome,omitempty"`
	PricePerTon   float64 `json:"valor_tonelada"`
}

type wireTrip struct {
	ID              string  `json:"id"`
	Date            string  `json:"data"`
	InvoiceNumber   string  `json:"nota_fiscal"`
	CustomerID      string  `json:"cliente_id"`
	CustomerName    string  `json:"cliente_nome,omitempty"`
	DriverID        string  `json:"motorista_id"`
	DriverName      string  `json:"motorista_nome,omitempty"`
	VehicleID       string  `json:"veiculo_id"`
	VehiclePlate    string  `json:"veiculo_placa,omitempty"`
	OriginID        string  `json:"local_carregamento_id"`
	OriginName      string  `json:"local_carregamento_nome,omitempty"`
	DestinationID   string  `json:"local_descarga_id"`
	DestinationName string  `json:"local_descarga_nome,omitempty"`
	MaterialID      string  `json:"material_id"`
	MaterialName    string  `json:"material_nome,omitempty"`
	QtyTons         float64 `json:"quantidade_toneladas"`
	PricePerTon     float64 `json:"valor_tonelada"`
	TotalValue      float64 `json:"valor_total"`
	InvoiceImageURL string  `json:"foto_nota"`
}

type wireLogin struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Password string `json:"senha"`
	Role     string `json:"role"`
}

type pushPayload struct {
	Token     string        `json:"token"`
	Trips     []wireTrip    `json:"Viagens"`
	Customers []wireNamed   `json:"Clientes"`
	Drivers   []wireNamed   `json:"Motoristas"`
	Vehicles  []wireVehicle `json:"Veiculos"`
	Locations []wireNamed   `json:"Locais"`
	Materials []wireNamed   `json:"Materiais"`
	Rates     []wireRate    `json:"Fretes"`
	Logins    []wireLogin   `json:"Logins"`
}

func buildPushPayload(token string, snap model.Snapshot) pushPayload {
	payload := pushPayload{
		Token:     token,
		Trips:     make([]wireTrip, 0, len(snap.Trips)),
		Customers: make([]wireNamed, 0, len(snap.Customers)),
		Drivers:   make([]wireNamed, 0, len(snap.Drivers)),
		Vehicles:  make([]wireVehicle, 0, len(snap.Vehicles)),
		Locations: make([]wireNamed, 0, len(snap.Locations)),
		Materials: make([]wireNamed, 0, len(snap.Materials)),
		Rates:     make([]wireRate, 0, len(snap.FreightRates)),
		Logins:    make([]wireLogin, 0, len(snap.Logins)),
	}
	for _, c := range snap.Customers {
		payload.Customers = append(payload.Customers, wireNamed{ID: c.ID, Name: c.Name})
	}
	for _, d := range snap.Drivers {
		payload.Drivers = append(payload.Drivers, wireNamed{ID: d.ID, Name: d.Name})
	}
	for _, v := range snap.Vehicles {
		payload.Vehicles = append(payload.Vehicles, wireVehicle{ID: v.ID, Plate: v.Plate})
	}
	for _, l := range snap.Locations {
		payload.Locations = append(payload.Locations, wireNamed{ID: l.ID, Name: l.Name})
	}
	for _, m := range snap.Materials {
		payload.Materials = append(payload.Materials, wireNamed{ID: m.ID, Name: m.Name})
	}
	for _, r := range snap.FreightRates {
		payload.Rates = append(payload.Rates, wireRate{
			ID:            r.ID,
			OriginID:      r.OriginID,
			DestinationID: r.DestinationID,
			OriginName:    locationName(snap.Locations, r.OriginID),
			DestName:      locationName(snap.Locations, r.DestinationID),
			PricePerTon:   r.PricePerTon,
		})
	}
	for _, t := range snap.Trips {
		payload.Trips = append(payload.Trips, tripToWire(t, snap))
	}
	for _, l := range snap.Logins {
		payload.Logins = append(payload.Logins, wireLogin{
			ID:       l.ID,
			Username: l.Username,
			Password: strings.TrimSpace(l.Password),
			Role:     string(l.Role),
		})
	}
	return payload
}

// tripToWire denormalizes foreign keys into the human-readable columns the
// sheet shows alongside the ids.
func tripToWire(t model.Trip, snap model.Snapshot) wireTrip {
	return wireTrip{
		ID:              t.ID,
		Date:            t.Date,
		InvoiceNumber:   t.InvoiceNumber,
		CustomerID:      t.CustomerID,
		CustomerName:    customerName(snap.Customers, t.CustomerID),
		DriverID:        t.DriverID,
		DriverName:      driverName(snap.Drivers, t.DriverID),
		VehicleID:       t.VehicleID,
		VehiclePlate:    vehiclePlate(snap.Vehicles, t.VehicleID),
		OriginID:        t.OriginID,
		OriginName:      locationName(snap.Locations, t.OriginID),
		DestinationID:   t.DestinationID,
		DestinationName: locationName(snap.Locations, t.DestinationID),
		MaterialID:      t.MaterialID,
		MaterialName:    materialName(snap.Materials, t.MaterialID),
		QtyTons:         t.QtyTons,
		PricePerTon:     t.PricePerTon,
		TotalValue:      t.TotalValue,
		InvoiceImageURL: t.InvoiceImageURL,
	}
}

func customerName(items []model.Customer, id string) string {
	for _, item := range items {
		if item.ID == id {
			return item.Name
		}
	}
	return ""
}

func driverName(items []model.Driver, id string) string {
	for _, item := range items {
		if item.ID == id {
			return item.Name
		}
	}
	return ""
}

func vehiclePlate(items []model.Vehicle, id string) string {
	for _, item := range items {
		if item.ID == id {
			return item.Plate
		}
	}
	return ""
}

func locationName(items []model.Location, id string) string {
	for _, item := range items {
		if item.ID == id {
			return item.Name
		}
	}
	return ""
}

func materialName(items []model.Material, id string) string {
	for _, item := range items {
		if item.ID == id {
			return item.Name
		}
	}
	return ""
}

// Loose readers. Rows arrive as generic JSON objects; every field defaults to
// its zero value when missing or of an unexpected type.

type row = map[string]any

func rowString(r row, key string) string {
	switch v := r[key].(type) {
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(v)
	default:
		return ""
	}
}

func rowFloat(r row, key string) float64 {
	switch v := r[key].(type) {
	case float64:
		return v
	case string:
		parsed, err := strconv.ParseFloat(strings.ReplaceAll(strings.TrimSpace(v), ",", "."), 64)
		if err != nil {
			return 0
		}
		return parsed
	default:
		return 0
	}
}

func namedFromRows(rows []row) []model.Customer {
	result := make([]model.Customer, 0, len(rows))
	for _, r := range rows {
		result = append(result, model.Customer{ID: rowString(r, "id"), Name: rowString(r, "nome")})
	}
	return result
}

func driversFromRows(rows []row) []model.Driver {
	result := make([]model.Driver, 0, len(rows))
	for _, r := range rows {
		result = append(result, model.Driver{ID: rowString(r, "id"), Name: rowString(r, "nome")})
	}
	return result
}

func vehiclesFromRows(rows []row) []model.Vehicle {
	result := make([]model.Vehicle, 0, len(rows))
	for _, r := range rows {
		result = append(result, model.Vehicle{ID: rowString(r, "id"), Plate: rowString(r, "placa")})
	}
	return result
}

func locationsFromRows(rows []row) []model.Location {
	result := make([]model.Location, 0, len(rows))
	for _, r := range rows {
		result = append(result, model.Location{ID: rowString(r, "id"), Name: rowString(r, "nome")})
	}
	return result
}

func materialsFromRows(rows []row) []model.Material {
	result := make([]model.Material, 0, len(rows))
	for _, r := range rows {
		result = append(result, model.Material{ID: rowString(r, "id"), Name: rowString(r, "nome")})
	}
	return result
}

func ratesFromRows(rows []row) []model.FreightRate {
	result := make([]model.FreightRate, 0, len(rows))
	for _, r := range rows {
		result = append(result, model.FreightRate{
			ID:            rowString(r, "id"),
			OriginID:      rowString(r, "local_origem_id"),
			DestinationID: rowString(r, "local_destino_id"),
			PricePerTon:   rowFloat(r, "valor_tonelada"),
		})
	}
	return result
}

func tripsFromRows(rows []row) []model.Trip {
	result := make([]model.Trip, 0, len(rows))
	for _, r := range rows {
		result = append(result, model.Trip{
			ID:              rowString(r, "id"),
			Date:            rowString(r, "data"),
			InvoiceNumber:   rowString(r, "nota_fiscal"),
			CustomerID:      rowString(r, "cliente_id"),
			DriverID:        rowString(r, "motorista_id"),
			VehicleID:       rowString(r, "veiculo_id"),
			OriginID:        rowString(r, "local_carregamento_id"),
			DestinationID:   rowString(r, "local_descarga_id"),
			MaterialID:      rowString(r, "material_id"),
			QtyTons:         rowFloat(r, "quantidade_toneladas"),
			PricePerTon:     rowFloat(r, "valor_tonelada"),
			TotalValue:      rowFloat(r, "valor_total"),
			InvoiceImageURL: rowString(r, "foto_nota"),
		})
	}
	return result
}

func loginsFromRows(rows []row) []model.Login {
	result := make([]model.Login, 0, len(rows))
	for _, r := range rows {
		role := model.Role(rowString(r, "role"))
		if role != model.RoleAdmin {
			role = model.RoleDriver
		}
		result = append(result, model.Login{
			ID:       rowString(r, "id"),
			Username: rowString(r, "username"),
			Password: rowString(r, "senha"),
			Role:     role,
		})
	}
	return result
}

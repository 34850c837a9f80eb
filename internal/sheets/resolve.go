package sheets

import (
	"strings"

	"github.com/kesleylibanio/fretesopipa/internal/model"
)

// The sheet occasionally carries a display name where an id is expected
// (rows edited by hand, or exported before ids were introduced). resolveRef
// is the two-stage fallback: exact id match first, then a case-insensitive
// name match that rewrites the reference to the canonical id. Unresolvable
// values are kept as-is.
func resolveRef(raw string, ids map[string]string) string {
	if raw == "" {
		return raw
	}
	if _, ok := ids[raw]; ok {
		return raw
	}
	if id, ok := ids[strings.ToLower(strings.TrimSpace(raw))]; ok {
		return id
	}
	return raw
}

// refIndex maps both ids and lowercased names to the canonical id.
func refIndex(pairs [][2]string) map[string]string {
	index := make(map[string]string, len(pairs)*2)
	for _, pair := range pairs {
		id, name := pair[0], pair[1]
		if id == "" {
			continue
		}
		index[id] = id
		if name != "" {
			index[strings.ToLower(strings.TrimSpace(name))] = id
		}
	}
	return index
}

// normalizeRefs rewrites name-valued foreign keys in trips and rates to ids.
func normalizeRefs(snap model.Snapshot) model.Snapshot {
	customers := make([][2]string, 0, len(snap.Customers))
	for _, c := range snap.Customers {
		customers = append(customers, [2]string{c.ID, c.Name})
	}
	drivers := make([][2]string, 0, len(snap.Drivers))
	for _, d := range snap.Drivers {
		drivers = append(drivers, [2]string{d.ID, d.Name})
	}
	vehicles := make([][2]string, 0, len(snap.Vehicles))
	for _, v := range snap.Vehicles {
		vehicles = append(vehicles, [2]string{v.ID, v.Plate})
	}
	locations := make([][2]string, 0, len(snap.Locations))
	for _, l := range snap.Locations {
		locations = append(locations, [2]string{l.ID, l.Name})
	}
	materials := make([][2]string, 0, len(snap.Materials))
	for _, m := range snap.Materials {
		materials = append(materials, [2]string{m.ID, m.Name})
	}

	customerIndex := refIndex(customers)
	driverIndex := refIndex(drivers)
	vehicleIndex := refIndex(vehicles)
	locationIndex := refIndex(locations)
	materialIndex := refIndex(materials)

	for i := range snap.Trips {
		t := &snap.Trips[i]
		t.CustomerID = resolveRef(t.CustomerID, customerIndex)
		t.DriverID = resolveRef(t.DriverID, driverIndex)
		t.VehicleID = resolveRef(t.VehicleID, vehicleIndex)
		t.OriginID = resolveRef(t.OriginID, locationIndex)
		t.DestinationID = resolveRef(t.DestinationID, locationIndex)
		t.MaterialID = resolveRef(t.MaterialID, materialIndex)
	}
	for i := range snap.FreightRates {
		r := &snap.FreightRates[i]
		r.OriginID = resolveRef(r.OriginID, locationIndex)
		r.DestinationID = resolveRef(r.DestinationID, locationIndex)
	}
	return snap
}

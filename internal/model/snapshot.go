package model

// Snapshot is the complete in-memory aggregate of all collections. It is the
// single persistence unit: every mutation produces a next snapshot from the
// previous one, and the sync engine always pushes the whole thing.
type Snapshot struct {
	Customers    []Customer          `json:"customers"`
	Drivers      []Driver            `json:"drivers"`
	Vehicles     []Vehicle           `json:"vehicles"`
	Locations    []Location          `json:"locations"`
	Materials    []Material          `json:"materials"`
	FreightRates []FreightRate       `json:"freightRates"`
	Trips        []Trip              `json:"trips"`
	Logins       []Login             `json:"logins"`
	RecentIDs    map[string][]string `json:"recentIds"`
}

func EmptySnapshot() Snapshot {
	return Snapshot{
		Customers:    []Customer{},
		Drivers:      []Driver{},
		Vehicles:     []Vehicle{},
		Locations:    []Location{},
		Materials:    []Material{},
		FreightRates: []FreightRate{},
		Trips:        []Trip{},
		Logins:       []Login{},
		RecentIDs:    map[string][]string{},
	}
}

// Clone returns a deep copy so transformations never alias the previous
// snapshot's slices.
func (s Snapshot) Clone() Snapshot {
	next := Snapshot{
		Customers:    append([]Customer(nil), s.Customers...),
		Drivers:      append([]Driver(nil), s.Drivers...),
		Vehicles:     append([]Vehicle(nil), s.Vehicles...),
		Locations:    append([]Location(nil), s.Locations...),
		Materials:    append([]Material(nil), s.Materials...),
		FreightRates: append([]FreightRate(nil), s.FreightRates...),
		Trips:        append([]Trip(nil), s.Trips...),
		Logins:       append([]Login(nil), s.Logins...),
		RecentIDs:    make(map[string][]string, len(s.RecentIDs)),
	}
	for key, ids := range s.RecentIDs {
		next.RecentIDs[key] = append([]string(nil), ids...)
	}
	return next
}

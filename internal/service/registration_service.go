package service

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/kesleylibanio/fretesopipa/internal/auth"
	"github.com/kesleylibanio/fretesopipa/internal/config"
	"github.com/kesleylibanio/fretesopipa/internal/model"
	"github.com/kesleylibanio/fretesopipa/internal/store"
	syncengine "github.com/kesleylibanio/fretesopipa/internal/sync"
)

// Registration collection names as used in the API paths.
const (
	TypeCustomers = "customers"
	TypeDrivers   = "drivers"
	TypeVehicles  = "vehicles"
	TypeLocations = "locations"
	TypeMaterials = "materials"
)

// RegistrationService maintains the reference collections. Driver entries
// carry a paired login record that is kept in step on add, edit and delete.
type RegistrationService struct {
	store           *store.Store
	engine          *syncengine.Engine
	defaultPassword string
	log             zerolog.Logger
}

func NewRegistrationService(st *store.Store, engine *syncengine.Engine, cfg config.AuthConfig, log zerolog.Logger) *RegistrationService {
	return &RegistrationService{
		store:           st,
		engine:          engine,
		defaultPassword: cfg.DefaultDriverPassword,
		log:             log,
	}
}

type RegistrationInput struct {
	Name string `json:"name"`
	// Login fields, drivers only. Blank username falls back to the
	// normalized driver name; blank password to the configured default.
	Username string `json:"username,omitempty"`
	Password string `json:"password,omitempty"`
}

func (s *RegistrationService) Add(p model.Principal, collection string, input RegistrationInput) (string, error) {
	if !p.IsAdmin() {
		return "", ErrPermissionDenied
	}
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return "", fmt.Errorf("%w: name is required", ErrInvalidInput)
	}

	id := uuid.NewString()
	var opErr error
	next := s.store.Update(func(snap model.Snapshot) model.Snapshot {
		switch collection {
		case TypeCustomers:
			snap.Customers = append(snap.Customers, model.Customer{ID: id, Name: name})
		case TypeDrivers:
			snap.Drivers = append(snap.Drivers, model.Driver{ID: id, Name: name})
			snap.Logins = append(snap.Logins, s.buildDriverLogin(id, name, input))
		case TypeVehicles:
			snap.Vehicles = append(snap.Vehicles, model.Vehicle{ID: id, Plate: name})
		case TypeLocations:
			snap.Locations = append(snap.Locations, model.Location{ID: id, Name: name})
		case TypeMaterials:
			snap.Materials = append(snap.Materials, model.Material{ID: id, Name: name})
		default:
			opErr = fmt.Errorf("%w: unknown collection %q", ErrInvalidInput, collection)
		}
		return snap
	})
	if opErr != nil {
		return "", opErr
	}

	s.engine.Notify(next)
	return id, nil
}

func (s *RegistrationService) Update(p model.Principal, collection, id string, input RegistrationInput) error {
	if !p.IsAdmin() {
		return ErrPermissionDenied
	}
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidInput)
	}

	var opErr error
	next := s.store.Update(func(snap model.Snapshot) model.Snapshot {
		found := false
		switch collection {
		case TypeCustomers:
			for i := range snap.Customers {
				if snap.Customers[i].ID == id {
					snap.Customers[i].Name = name
					found = true
				}
			}
		case TypeDrivers:
			for i := range snap.Drivers {
				if snap.Drivers[i].ID != id {
					continue
				}
				snap.Drivers[i].Name = name
				found = true
				snap.Logins = s.upsertDriverLogin(snap.Logins, snap.Drivers[i], input)
			}
		case TypeVehicles:
			for i := range snap.Vehicles {
				if snap.Vehicles[i].ID == id {
					snap.Vehicles[i].Plate = name
					found = true
				}
			}
		case TypeLocations:
			for i := range snap.Locations {
				if snap.Locations[i].ID == id {
					snap.Locations[i].Name = name
					found = true
				}
			}
		case TypeMaterials:
			for i := range snap.Materials {
				if snap.Materials[i].ID == id {
					snap.Materials[i].Name = name
					found = true
				}
			}
		default:
			opErr = fmt.Errorf("%w: unknown collection %q", ErrInvalidInput, collection)
			return snap
		}
		if !found {
			opErr = ErrNotFound
		}
		return snap
	})
	if opErr != nil {
		return opErr
	}

	s.engine.Notify(next)
	return nil
}

func (s *RegistrationService) Delete(p model.Principal, collection, id string) error {
	if !p.IsAdmin() {
		return ErrPermissionDenied
	}

	var opErr error
	changed := false
	next := s.store.Update(func(snap model.Snapshot) model.Snapshot {
		switch collection {
		case TypeCustomers:
			snap.Customers, changed = deleteCustomer(snap.Customers, id)
		case TypeDrivers:
			var removed model.Driver
			drivers := make([]model.Driver, 0, len(snap.Drivers))
			for _, d := range snap.Drivers {
				if d.ID == id {
					removed = d
					changed = true
					continue
				}
				drivers = append(drivers, d)
			}
			snap.Drivers = drivers
			if changed {
				snap.Logins = removeDriverLogin(snap.Logins, removed)
			}
		case TypeVehicles:
			vehicles := make([]model.Vehicle, 0, len(snap.Vehicles))
			for _, v := range snap.Vehicles {
				if v.ID == id {
					changed = true
					continue
				}
				vehicles = append(vehicles, v)
			}
			snap.Vehicles = vehicles
		case TypeLocations:
			locations := make([]model.Location, 0, len(snap.Locations))
			for _, l := range snap.Locations {
				if l.ID == id {
					changed = true
					continue
				}
				locations = append(locations, l)
			}
			snap.Locations = locations
		case TypeMaterials:
			materials := make([]model.Material, 0, len(snap.Materials))
			for _, m := range snap.Materials {
				if m.ID == id {
					changed = true
					continue
				}
				materials = append(materials, m)
			}
			snap.Materials = materials
		default:
			opErr = fmt.Errorf("%w: unknown collection %q", ErrInvalidInput, collection)
		}
		return snap
	})
	if opErr != nil {
		return opErr
	}
	if changed {
		s.engine.Notify(next)
	}
	return nil
}

// ResetLogins rebuilds every driver login from the current driver list,
// realigning login ids with driver ids. Admin logins are preserved.
func (s *RegistrationService) ResetLogins(p model.Principal) error {
	if !p.IsAdmin() {
		return ErrPermissionDenied
	}

	next := s.store.Update(func(snap model.Snapshot) model.Snapshot {
		logins := make([]model.Login, 0, len(snap.Logins))
		for _, l := range snap.Logins {
			if l.Role == model.RoleAdmin {
				logins = append(logins, l)
			}
		}
		for _, d := range snap.Drivers {
			logins = append(logins, model.Login{
				ID:       d.ID,
				Username: auth.NormalizeUsername(d.Name),
				Password: s.defaultPassword,
				Role:     model.RoleDriver,
			})
		}
		snap.Logins = logins
		return snap
	})

	s.engine.Notify(next)
	s.log.Info().Msg("driver logins reset")
	return nil
}

func (s *RegistrationService) buildDriverLogin(driverID, name string, input RegistrationInput) model.Login {
	username := strings.TrimSpace(input.Username)
	if username == "" {
		username = auth.NormalizeUsername(name)
	}
	password := strings.TrimSpace(input.Password)
	if password == "" {
		password = s.defaultPassword
	}
	return model.Login{ID: driverID, Username: username, Password: password, Role: model.RoleDriver}
}

func (s *RegistrationService) upsertDriverLogin(logins []model.Login, driver model.Driver, input RegistrationInput) []model.Login {
	existing, ok := auth.FindLoginForDriver(logins, driver)
	if !ok {
		return append(logins, s.buildDriverLogin(driver.ID, driver.Name, input))
	}
	for i := range logins {
		if logins[i].ID != existing.ID || logins[i].Username != existing.Username {
			continue
		}
		if username := strings.TrimSpace(input.Username); username != "" {
			logins[i].Username = username
		}
		if password := strings.TrimSpace(input.Password); password != "" {
			logins[i].Password = password
		}
		break
	}
	return logins
}

func removeDriverLogin(logins []model.Login, driver model.Driver) []model.Login {
	match, ok := auth.FindLoginForDriver(logins, driver)
	if !ok {
		return logins
	}
	result := make([]model.Login, 0, len(logins))
	for _, l := range logins {
		if l.ID == match.ID && l.Username == match.Username {
			continue
		}
		result = append(result, l)
	}
	return result
}

func deleteCustomer(customers []model.Customer, id string) ([]model.Customer, bool) {
	changed := false
	result := make([]model.Customer, 0, len(customers))
	for _, c := range customers {
		if c.ID == id {
			changed = true
			continue
		}
		result = append(result, c)
	}
	return result, changed
}

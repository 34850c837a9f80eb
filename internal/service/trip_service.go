package service

import (
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/kesleylibanio/fretesopipa/internal/ledger"
	"github.com/kesleylibanio/fretesopipa/internal/model"
	"github.com/kesleylibanio/fretesopipa/internal/rate"
	"github.com/kesleylibanio/fretesopipa/internal/store"
	syncengine "github.com/kesleylibanio/fretesopipa/internal/sync"
)

type TripService struct {
	store  *store.Store
	engine *syncengine.Engine
	log    zerolog.Logger
	now    func() time.Time
}

func NewTripService(st *store.Store, engine *syncengine.Engine, log zerolog.Logger) *TripService {
	return &TripService{store: st, engine: engine, log: log, now: time.Now}
}

type TripInput struct {
	Date            string  `json:"date"`
	InvoiceNumber   string  `json:"invoiceNumber"`
	CustomerID      string  `json:"customerId"`
	DriverID        string  `json:"driverId"`
	VehicleID       string  `json:"vehicleId"`
	OriginID        string  `json:"originId"`
	DestinationID   string  `json:"destinationId"`
	MaterialID      string  `json:"materialId"`
	QtyTons         float64 `json:"qtyTons"`
	PricePerTon     float64 `json:"pricePerTon"`
	InvoiceImageURL string  `json:"invoiceImageUrl"`
}

// List returns the trips visible to the principal, most recent first. Money
// fields are blanked for drivers; the data itself is not redacted.
func (s *TripService) List(p model.Principal) []model.Trip {
	visible := ledger.VisibleTo(s.store.View().Trips, p)
	if p.IsAdmin() {
		return visible
	}
	return ledger.MaskMoney(visible)
}

// Create applies the rate table, validates, and installs the trip as the new
// local state before the background push even starts.
func (s *TripService) Create(p model.Principal, input TripInput) (model.Trip, error) {
	draft := tripFromInput(input)
	if p.IsDriver() {
		// Drivers always log against themselves; the price field on their
		// form is disabled, so only a resolved rate can set it.
		draft.DriverID = p.DriverID
		if draft.DriverID == "" {
			draft.DriverID = p.Username
		}
	}

	var created model.Trip
	var opErr error
	next := s.store.Update(func(snap model.Snapshot) model.Snapshot {
		draft = rate.Apply(draft, snap.FreightRates)
		trips, t, err := ledger.Create(snap.Trips, draft, s.now())
		if err != nil {
			opErr = err
			return snap
		}
		snap.Trips = trips
		snap.RecentIDs = rememberRecent(snap.RecentIDs, t)
		created = t
		return snap
	})
	if opErr != nil {
		return model.Trip{}, fmt.Errorf("%w: %s", ErrInvalidInput, opErr)
	}

	s.engine.Notify(next)
	s.log.Info().Str("trip_id", created.ID).Str("driver_id", created.DriverID).Msg("trip created")
	return created, nil
}

// Update replaces an existing trip in place, preserving its ledger position.
func (s *TripService) Update(p model.Principal, id string, input TripInput) (model.Trip, error) {
	var updated model.Trip
	var opErr error
	next := s.store.Update(func(snap model.Snapshot) model.Snapshot {
		existing, ok := ledger.Find(snap.Trips, id)
		if !ok {
			opErr = ErrNotFound
			return snap
		}
		if !p.OwnsTrip(existing) {
			opErr = ErrPermissionDenied
			return snap
		}

		draft := tripFromInput(input)
		draft.ID = existing.ID
		draft.CreatedAt = existing.CreatedAt
		if p.IsDriver() {
			draft.DriverID = existing.DriverID
			draft.PricePerTon = existing.PricePerTon
		}
		draft = rate.Apply(draft, snap.FreightRates)

		trips, err := ledger.Update(snap.Trips, draft)
		if err != nil {
			opErr = fmt.Errorf("%w: %s", ErrInvalidInput, err)
			return snap
		}
		snap.Trips = trips
		updated = draft
		return snap
	})
	if opErr != nil {
		return model.Trip{}, opErr
	}

	s.engine.Notify(next)
	return updated, nil
}

// Delete removes a trip. Deleting an unknown id is a no-op, kept idempotent
// so a double-tap on the confirm dialog cannot fail.
func (s *TripService) Delete(p model.Principal, id string) error {
	var opErr error
	changed := false
	next := s.store.Update(func(snap model.Snapshot) model.Snapshot {
		existing, ok := ledger.Find(snap.Trips, id)
		if !ok {
			return snap
		}
		if !p.OwnsTrip(existing) {
			opErr = ErrPermissionDenied
			return snap
		}
		snap.Trips = ledger.Delete(snap.Trips, id)
		changed = true
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

func tripFromInput(input TripInput) model.Trip {
	return model.Trip{
		Date:            input.Date,
		InvoiceNumber:   input.InvoiceNumber,
		CustomerID:      input.CustomerID,
		DriverID:        input.DriverID,
		VehicleID:       input.VehicleID,
		OriginID:        input.OriginID,
		DestinationID:   input.DestinationID,
		MaterialID:      input.MaterialID,
		QtyTons:         input.QtyTons,
		PricePerTon:     input.PricePerTon,
		InvoiceImageURL: input.InvoiceImageURL,
	}
}

const recentLimit = 5

// rememberRecent keeps the last few reference ids used on saves, which the
// form uses to pre-select likely values.
func rememberRecent(recent map[string][]string, t model.Trip) map[string][]string {
	pairs := map[string]string{
		"customers": t.CustomerID,
		"drivers":   t.DriverID,
		"vehicles":  t.VehicleID,
		"origins":   t.OriginID,
		"dests":     t.DestinationID,
		"materials": t.MaterialID,
	}
	for key, id := range pairs {
		if id == "" {
			continue
		}
		ids := []string{id}
		for _, prev := range recent[key] {
			if prev != id && len(ids) < recentLimit {
				ids = append(ids, prev)
			}
		}
		recent[key] = ids
	}
	return recent
}

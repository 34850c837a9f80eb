package service

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/kesleylibanio/fretesopipa/internal/model"
	"github.com/kesleylibanio/fretesopipa/internal/store"
	syncengine "github.com/kesleylibanio/fretesopipa/internal/sync"
)

type RateService struct {
	store  *store.Store
	engine *syncengine.Engine
	log    zerolog.Logger
}

func NewRateService(st *store.Store, engine *syncengine.Engine, log zerolog.Logger) *RateService {
	return &RateService{store: st, engine: engine, log: log}
}

type RateInput struct {
	OriginID      string  `json:"originId"`
	DestinationID string  `json:"destinationId"`
	PricePerTon   float64 `json:"pricePerTon"`
}

func (s *RateService) List(p model.Principal) ([]model.FreightRate, error) {
	if !p.IsAdmin() {
		return nil, ErrPermissionDenied
	}
	return s.store.View().FreightRates, nil
}

// Add registers a rate for a directed lane. An existing rate for the same
// pair is replaced in place, keeping the one-rate-per-pair invariant.
func (s *RateService) Add(p model.Principal, input RateInput) (model.FreightRate, error) {
	if !p.IsAdmin() {
		return model.FreightRate{}, ErrPermissionDenied
	}
	if input.OriginID == "" || input.DestinationID == "" {
		return model.FreightRate{}, fmt.Errorf("%w: origin and destination are required", ErrInvalidInput)
	}
	if input.OriginID == input.DestinationID {
		return model.FreightRate{}, fmt.Errorf("%w: origin and destination must differ", ErrInvalidInput)
	}
	if input.PricePerTon <= 0 {
		return model.FreightRate{}, fmt.Errorf("%w: price must be positive", ErrInvalidInput)
	}

	var saved model.FreightRate
	next := s.store.Update(func(snap model.Snapshot) model.Snapshot {
		for i, r := range snap.FreightRates {
			if r.OriginID == input.OriginID && r.DestinationID == input.DestinationID {
				snap.FreightRates[i].PricePerTon = input.PricePerTon
				saved = snap.FreightRates[i]
				return snap
			}
		}
		saved = model.FreightRate{
			ID:            uuid.NewString(),
			OriginID:      input.OriginID,
			DestinationID: input.DestinationID,
			PricePerTon:   input.PricePerTon,
		}
		snap.FreightRates = append(snap.FreightRates, saved)
		return snap
	})

	s.engine.Notify(next)
	return saved, nil
}

func (s *RateService) Delete(p model.Principal, id string) error {
	if !p.IsAdmin() {
		return ErrPermissionDenied
	}
	changed := false
	next := s.store.Update(func(snap model.Snapshot) model.Snapshot {
		rates := make([]model.FreightRate, 0, len(snap.FreightRates))
		for _, r := range snap.FreightRates {
			if r.ID == id {
				changed = true
				continue
			}
			rates = append(rates, r)
		}
		snap.FreightRates = rates
		return snap
	})
	if changed {
		s.engine.Notify(next)
	}
	return nil
}

// Package ledger holds the pure operations over the ordered trip collection.
package ledger

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/kesleylibanio/fretesopipa/internal/model"
)

var (
	ErrNotFound = errors.New("trip not found")
	ErrInvalid  = errors.New("invalid trip")
)

// Validate enforces the required fields for a save. Violations reject the
// whole operation; there is no partial save.
func Validate(t model.Trip) error {
	if t.InvoiceNumber == "" {
		return fmt.Errorf("%w: invoice number is required", ErrInvalid)
	}
	if t.CustomerID == "" {
		return fmt.Errorf("%w: customer is required", ErrInvalid)
	}
	if t.DriverID == "" {
		return fmt.Errorf("%w: driver is required", ErrInvalid)
	}
	if t.VehicleID == "" {
		return fmt.Errorf("%w: vehicle is required", ErrInvalid)
	}
	if t.QtyTons <= 0 {
		return fmt.Errorf("%w: quantity must be positive", ErrInvalid)
	}
	return nil
}

// Create validates the trip, stamps a fresh id and creation time, and
// prepends it so the collection stays most-recent-first.
func Create(trips []model.Trip, t model.Trip, now time.Time) ([]model.Trip, model.Trip, error) {
	if err := Validate(t); err != nil {
		return nil, model.Trip{}, err
	}
	t.ID = uuid.NewString()
	t.CreatedAt = now
	next := make([]model.Trip, 0, len(trips)+1)
	next = append(next, t)
	next = append(next, trips...)
	return next, t, nil
}

// Update replaces the trip with the same id, preserving its position. The id
// must exist.
func Update(trips []model.Trip, t model.Trip) ([]model.Trip, error) {
	if err := Validate(t); err != nil {
		return nil, err
	}
	next := append([]model.Trip(nil), trips...)
	for i := range next {
		if next[i].ID == t.ID {
			if t.CreatedAt.IsZero() {
				t.CreatedAt = next[i].CreatedAt
			}
			next[i] = t
			return next, nil
		}
	}
	return nil, ErrNotFound
}

// Delete removes the trip with the given id. A missing id is a no-op.
func Delete(trips []model.Trip, id string) []model.Trip {
	next := make([]model.Trip, 0, len(trips))
	for _, t := range trips {
		if t.ID != id {
			next = append(next, t)
		}
	}
	return next
}

// Find returns the trip with the given id.
func Find(trips []model.Trip, id string) (model.Trip, bool) {
	for _, t := range trips {
		if t.ID == id {
			return t, true
		}
	}
	return model.Trip{}, false
}

// VisibleTo filters the collection by role: admins see everything, drivers
// only trips recorded against their own identity.
func VisibleTo(trips []model.Trip, p model.Principal) []model.Trip {
	if p.IsAdmin() {
		return append([]model.Trip(nil), trips...)
	}
	visible := make([]model.Trip, 0, len(trips))
	for _, t := range trips {
		if p.OwnsTrip(t) {
			visible = append(visible, t)
		}
	}
	return visible
}

// MaskMoney zeroes the money fields for presentation to non-admin callers.
// The underlying data keeps them; only the response is trimmed.
func MaskMoney(trips []model.Trip) []model.Trip {
	masked := append([]model.Trip(nil), trips...)
	for i := range masked {
		masked[i].PricePerTon = 0
		masked[i].TotalValue = 0
	}
	return masked
}

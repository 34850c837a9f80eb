// Package rate resolves freight prices from the rate table and derives trip
// totals.
package rate

import (
	"math"

	"github.com/kesleylibanio/fretesopipa/internal/model"
)

// Resolve looks up the rate for a directed origin->destination pair. The
// match is order-sensitive: a reversed rate never applies. Empty location ids
// never match; absence of a rate is not an error, callers fall back to the
// manually entered price.
func Resolve(rates []model.FreightRate, originID, destinationID string) (float64, bool) {
	if originID == "" || destinationID == "" {
		return 0, false
	}
	for _, r := range rates {
		if r.OriginID == originID && r.DestinationID == destinationID {
			return r.PricePerTon, true
		}
	}
	return 0, false
}

// Total computes the trip value, rounded half away from zero to 2 decimals.
func Total(qtyTons, pricePerTon float64) float64 {
	return math.Round(qtyTons*pricePerTon*100) / 100
}

// Apply recomputes the money fields of a trip against the rate table. A
// resolved rate overrides the entered price; otherwise the entered price is
// kept. TotalValue is always recomputed.
func Apply(trip model.Trip, rates []model.FreightRate) model.Trip {
	if price, ok := Resolve(rates, trip.OriginID, trip.DestinationID); ok {
		trip.PricePerTon = price
	}
	trip.TotalValue = Total(trip.QtyTons, trip.PricePerTon)
	return trip
}

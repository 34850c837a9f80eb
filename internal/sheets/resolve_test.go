package sheets

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolveRefExactIDWins(t *testing.T) {
	index := refIndex([][2]string{{"c1", "Alfa"}, {"alfa", "Beta"}})
	// "alfa" is both an id and another row's lowercased name; the id wins.
	assert.Equal(t, "alfa", resolveRef("alfa", index))
}

func TestResolveRefNameFallback(t *testing.T) {
	index := refIndex([][2]string{{"c1", "Construtora Alfa"}})
	assert.Equal(t, "c1", resolveRef("Construtora Alfa", index))
	assert.Equal(t, "c1", resolveRef("  construtora alfa ", index))
}

func TestResolveRefUnknownKept(t *testing.T) {
	index := refIndex([][2]string{{"c1", "Alfa"}})
	assert.Equal(t, "mystery", resolveRef("mystery", index))
	assert.Equal(t, "", resolveRef("", index))
}

func TestNormalizeRefsRewritesTripForeignKeys(t *testing.T) {
	snap := sampleSnapshot()
	snap.Trips[0].CustomerID = "Construtora Alfa"
	snap.Trips[0].DriverID = "João Silva"
	snap.Trips[0].OriginID = "pedreira"
	snap.FreightRates[0].DestinationID = "Obra Norte"

	normalized := normalizeRefs(snap)
	assert.Equal(t, "c1", normalized.Trips[0].CustomerID)
	assert.Equal(t, "d1", normalized.Trips[0].DriverID)
	assert.Equal(t, "l1", normalized.Trips[0].OriginID)
	assert.Equal(t, "l2", normalized.FreightRates[0].DestinationID)
	// Already-valid ids pass through.
	assert.Equal(t, "v1", normalized.Trips[0].VehicleID)
}

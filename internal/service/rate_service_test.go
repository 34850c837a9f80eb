package service

import (
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kesleylibanio/fretesopipa/internal/model"
	"github.com/kesleylibanio/fretesopipa/internal/store"
	syncengine "github.com/kesleylibanio/fretesopipa/internal/sync"
)

func newRateFixture(t *testing.T) (*RateService, *store.Store) {
	t.Helper()
	st := store.New()
	engine := syncengine.NewEngine(&recordingPusher{}, time.Hour, zerolog.Nop())
	t.Cleanup(engine.Close)
	return NewRateService(st, engine, zerolog.Nop()), st
}

func TestRateAddReplacesSamePair(t *testing.T) {
	svc, st := newRateFixture(t)

	first, err := svc.Add(admin, RateInput{OriginID: "A", DestinationID: "B", PricePerTon: 150})
	require.NoError(t, err)

	second, err := svc.Add(admin, RateInput{OriginID: "A", DestinationID: "B", PricePerTon: 175})
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	rates := st.View().FreightRates
	require.Len(t, rates, 1)
	assert.Equal(t, 175.0, rates[0].PricePerTon)
}

func TestRateReversedPairIsDistinct(t *testing.T) {
	svc, st := newRateFixture(t)

	_, err := svc.Add(admin, RateInput{OriginID: "A", DestinationID: "B", PricePerTon: 150})
	require.NoError(t, err)
	_, err = svc.Add(admin, RateInput{OriginID: "B", DestinationID: "A", PricePerTon: 90})
	require.NoError(t, err)

	assert.Len(t, st.View().FreightRates, 2)
}

func TestRateAddValidation(t *testing.T) {
	svc, _ := newRateFixture(t)

	cases := []RateInput{
		{OriginID: "", DestinationID: "B", PricePerTon: 150},
		{OriginID: "A", DestinationID: "", PricePerTon: 150},
		{OriginID: "A", DestinationID: "A", PricePerTon: 150},
		{OriginID: "A", DestinationID: "B", PricePerTon: 0},
		{OriginID: "A", DestinationID: "B", PricePerTon: -1},
	}
	for _, input := range cases {
		_, err := svc.Add(admin, input)
		assert.ErrorIs(t, err, ErrInvalidInput)
	}
}

func TestRateAdminOnly(t *testing.T) {
	svc, _ := newRateFixture(t)
	driver := model.Principal{Username: "joao", Role: model.RoleDriver, DriverID: "d1"}

	_, err := svc.List(driver)
	assert.ErrorIs(t, err, ErrPermissionDenied)
	_, err = svc.Add(driver, RateInput{OriginID: "A", DestinationID: "B", PricePerTon: 150})
	assert.ErrorIs(t, err, ErrPermissionDenied)
	assert.ErrorIs(t, svc.Delete(driver, "r1"), ErrPermissionDenied)
}

func TestRateDeleteUnknownIsNoop(t *testing.T) {
	svc, st := newRateFixture(t)
	_, err := svc.Add(admin, RateInput{OriginID: "A", DestinationID: "B", PricePerTon: 150})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(admin, "ghost"))
	assert.Len(t, st.View().FreightRates, 1)

	require.NoError(t, svc.Delete(admin, st.View().FreightRates[0].ID))
	assert.Empty(t, st.View().FreightRates)
}

package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kesleylibanio/fretesopipa/internal/model"
)

func TestViewReturnsIsolatedCopy(t *testing.T) {
	st := New()
	snap := model.EmptySnapshot()
	snap.Customers = []model.Customer{{ID: "c1", Name: "Alfa"}}
	st.Load(snap)

	view := st.View()
	view.Customers[0].Name = "mutated"

	assert.Equal(t, "Alfa", st.View().Customers[0].Name)
}

func TestLoadClonesInput(t *testing.T) {
	st := New()
	snap := model.EmptySnapshot()
	snap.Drivers = []model.Driver{{ID: "d1", Name: "João"}}
	st.Load(snap)

	snap.Drivers[0].Name = "mutated"

	assert.Equal(t, "João", st.View().Drivers[0].Name)
}

func TestUpdateReturnsNewState(t *testing.T) {
	st := New()

	next := st.Update(func(snap model.Snapshot) model.Snapshot {
		snap.Trips = append(snap.Trips, model.Trip{ID: "t1"})
		return snap
	})

	require.Len(t, next.Trips, 1)
	assert.Equal(t, "t1", next.Trips[0].ID)
	assert.Len(t, st.View().Trips, 1)

	// The returned snapshot is a copy too.
	next.Trips[0].ID = "mutated"
	assert.Equal(t, "t1", st.View().Trips[0].ID)
}

func TestUpdateRecentIDsIsolated(t *testing.T) {
	st := New()
	st.Update(func(snap model.Snapshot) model.Snapshot {
		snap.RecentIDs["customers"] = []string{"c1"}
		return snap
	})

	view := st.View()
	view.RecentIDs["customers"][0] = "mutated"

	assert.Equal(t, "c1", st.View().RecentIDs["customers"][0])
}

package store

import (
	"sync"

	"github.com/kesleylibanio/fretesopipa/internal/model"
)

// Store owns the authoritative in-memory snapshot. Mutation is expressed as
// "compute next snapshot from previous snapshot": Update serializes
// transformations under a lock, so each accepted mutation is atomic and
// readers never observe a torn state.
type Store struct {
	mu   sync.RWMutex
	snap model.Snapshot
}

func New() *Store {
	return &Store{snap: model.EmptySnapshot()}
}

// Load replaces the whole snapshot, used for the initial fetch and for
// login-time refreshes.
func (s *Store) Load(snap model.Snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snap = snap.Clone()
}

// View returns a deep copy of the current snapshot.
func (s *Store) View() model.Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snap.Clone()
}

// Update applies fn to a copy of the current snapshot and installs the
// result. The returned snapshot is the new authoritative state; callers hand
// it to the sync engine.
func (s *Store) Update(fn func(model.Snapshot) model.Snapshot) model.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snap = fn(s.snap.Clone())
	return s.snap.Clone()
}

// Package sync pushes the full snapshot to the remote store after every
// accepted mutation, without ever blocking the caller.
package sync

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/kesleylibanio/fretesopipa/internal/model"
)

type State string

const (
	StateIdle    State = "idle"
	StateSyncing State = "syncing"
	StateSuccess State = "success"
	StateError   State = "error"
)

type Status struct {
	State      State     `json:"state"`
	LastError  string    `json:"lastError,omitempty"`
	LastSyncAt time.Time `json:"lastSyncAt,omitempty"`
}

// Pusher is satisfied by the sheets client.
type Pusher interface {
	Push(ctx context.Context, snap model.Snapshot) error
}

// Engine is the single consumer of mutation hand-offs. A capacity-1 channel
// with latest-wins replacement means an undelivered older snapshot is simply
// displaced by a newer one; the in-flight push is never cancelled. A failed
// push is not retried by timer: local state already holds everything, so the
// next mutation's push carries the failed changes too.
type Engine struct {
	pusher        Pusher
	log           zerolog.Logger
	successWindow time.Duration

	pending chan model.Snapshot
	done    chan struct{}

	mu         sync.Mutex
	status     Status
	generation int
}

func NewEngine(pusher Pusher, successWindow time.Duration, log zerolog.Logger) *Engine {
	e := &Engine{
		pusher:        pusher,
		log:           log,
		successWindow: successWindow,
		pending:       make(chan model.Snapshot, 1),
		done:          make(chan struct{}),
		status:        Status{State: StateIdle},
	}
	go e.run()
	return e
}

// Notify hands the newest snapshot to the worker. It never blocks: if an
// older snapshot is still queued it is replaced, so the push layer is
// last-write-wins.
func (e *Engine) Notify(snap model.Snapshot) {
	for {
		select {
		case e.pending <- snap:
			return
		default:
			select {
			case <-e.pending:
			default:
			}
		}
	}
}

// Status reports the state of the most recent sync attempt.
func (e *Engine) Status() Status {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.status
}

// Close stops the worker. Queued snapshots are dropped; local state remains
// authoritative in memory regardless.
func (e *Engine) Close() {
	close(e.done)
}

func (e *Engine) run() {
	for {
		select {
		case <-e.done:
			return
		case snap := <-e.pending:
			e.push(snap)
		}
	}
}

func (e *Engine) push(snap model.Snapshot) {
	e.setState(StateSyncing, "")

	err := e.pusher.Push(context.Background(), snap)
	if err != nil {
		e.log.Error().Err(err).Msg("snapshot push failed")
		e.setState(StateError, err.Error())
		return
	}

	generation := e.setState(StateSuccess, "")
	if e.successWindow <= 0 {
		return
	}
	time.AfterFunc(e.successWindow, func() {
		e.mu.Lock()
		defer e.mu.Unlock()
		// A newer attempt owns the indicator now.
		if e.generation != generation || e.status.State != StateSuccess {
			return
		}
		e.status.State = StateIdle
	})
}

func (e *Engine) setState(state State, errMsg string) int {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.generation++
	e.status.State = state
	e.status.LastError = errMsg
	if state == StateSuccess {
		e.status.LastSyncAt = time.Now()
	}
	return e.generation
}

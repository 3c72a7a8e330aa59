package reconcile

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/gridrace/gridrace/internal/models"
)

// SyncState tags where a tracked session sits in the reconciliation state
// machine.
type SyncState string

const (
	StateLocalOnly       SyncState = "LOCAL_ONLY"
	StateSyncing         SyncState = "SYNCING"
	StateSynced          SyncState = "SYNCED"
	StateConflicted      SyncState = "CONFLICTED"
	StateStaleServerWins SyncState = "STALE_SERVER_WINS"
)

// The only two locally-recovered failure messages. Anything else propagates
// to the caller's generic error boundary.
var (
	ErrOffline    = errors.New("offline, please check your connection")
	ErrLoadFailed = errors.New("failed to load")
)

// ServerStorage defines what the engine needs from the server storage
// collaborator. GetSessionState returns (nil, nil) when the server holds no
// copy for the id.
type ServerStorage interface {
	GetSessionState(ctx context.Context, id uuid.UUID) (*models.ServerStateResult[models.ServerState], error)
	PutSessionState(ctx context.Context, id uuid.UUID, state models.ServerState) (*models.ServerStateResult[models.ServerState], error)
}

// OnlineStatus is the online-status collaborator. Any false means the engine
// must not attempt network calls.
type OnlineStatus interface {
	IsOnline() bool
}

// Event notifies subscribers of a state transition for a tracked session.
type Event struct {
	SessionID uuid.UUID
	State     SyncState
	Result    *models.ServerStateResult[models.ServerState]
}

// Engine keeps per-session local working copies eventually consistent with
// the server. Conflict policy: the server is authoritative; local edits made
// while diverged are discarded wholesale, never field-merged, because a
// partial merge of two grids can produce a contradictory board.
type Engine struct {
	storage ServerStorage
	online  OnlineStatus
	logger  zerolog.Logger

	mu       sync.Mutex
	tracked  map[uuid.UUID]*trackedSession
	inFlight map[uuid.UUID]bool
	subs     []func(Event)
}

type trackedSession struct {
	state      SyncState
	local      models.ServerState
	dirty      bool
	baseline   time.Time // server UpdatedAt observed at last sync
	generation uint64
	edits      uint64 // bumped on every local edit
}

// NewEngine creates a reconciliation engine over the given collaborators.
func NewEngine(storage ServerStorage, online OnlineStatus, logger zerolog.Logger) *Engine {
	return &Engine{
		storage:  storage,
		online:   online,
		logger:   logger,
		tracked:  make(map[uuid.UUID]*trackedSession),
		inFlight: make(map[uuid.UUID]bool),
	}
}

// Subscribe registers a change listener. Listeners are invoked outside the
// engine's critical section.
func (e *Engine) Subscribe(fn func(Event)) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.subs = append(e.subs, fn)
}

// Track starts managing a session created on this device. It begins
// LocalOnly with unsynced content.
func (e *Engine) Track(id uuid.UUID, local models.ServerState) {
	e.mu.Lock()
	e.tracked[id] = &trackedSession{
		state: StateLocalOnly,
		local: local,
		dirty: true,
	}
	e.mu.Unlock()
	e.notify(Event{SessionID: id, State: StateLocalOnly})
}

// Untrack stops managing a session. Results of any reconciliation still in
// flight are discarded when they arrive.
func (e *Engine) Untrack(id uuid.UUID) {
	e.mu.Lock()
	if t, ok := e.tracked[id]; ok {
		t.generation++
		delete(e.tracked, id)
	}
	e.mu.Unlock()
}

// RecordLocalEdit replaces the session's local working copy with an
// optimistic edit. Mutation-gated UI always reads this copy while offline.
func (e *Engine) RecordLocalEdit(id uuid.UUID, state models.ServerState) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	t, ok := e.tracked[id]
	if !ok {
		return fmt.Errorf("record edit: session %s not tracked", id)
	}
	t.local = state
	t.dirty = true
	t.edits++
	return nil
}

// Local returns the current working copy and sync state of a session.
func (e *Engine) Local(id uuid.UUID) (models.ServerState, SyncState, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	t, ok := e.tracked[id]
	if !ok {
		return models.ServerState{}, "", false
	}
	return t.local, t.state, true
}

// TrackedIDs returns the ids of every managed session.
func (e *Engine) TrackedIDs() []uuid.UUID {
	e.mu.Lock()
	defer e.mu.Unlock()
	ids := make([]uuid.UUID, 0, len(e.tracked))
	for id := range e.tracked {
		ids = append(ids, id)
	}
	return ids
}

// Sync reconciles one session with the server. At most one reconciliation
// per session id is in flight; a second trigger while one runs coalesces
// into a no-op. While offline nothing is queued and the session keeps its
// local-only state.
func (e *Engine) Sync(ctx context.Context, id uuid.UUID) error {
	e.mu.Lock()
	t, ok := e.tracked[id]
	if !ok {
		e.mu.Unlock()
		return fmt.Errorf("sync: session %s not tracked", id)
	}
	if e.inFlight[id] {
		e.mu.Unlock()
		return nil
	}
	if !e.online.IsOnline() {
		e.mu.Unlock()
		return ErrOffline
	}
	e.inFlight[id] = true
	gen := t.generation
	edits := t.edits
	prev := t.state
	t.state = StateSyncing
	local := t.local
	dirty := t.dirty
	baseline := t.baseline
	e.mu.Unlock()

	defer func() {
		e.mu.Lock()
		delete(e.inFlight, id)
		e.mu.Unlock()
	}()

	e.notify(Event{SessionID: id, State: StateSyncing})

	remote, err := e.storage.GetSessionState(ctx, id)
	if err != nil {
		e.logger.Error().Err(err).Str("session_id", id.String()).Msg("session fetch failed")
		e.restoreState(id, gen, prev)
		return ErrLoadFailed
	}

	if remote != nil && remote.UpdatedAt.After(baseline) {
		if dirty {
			// Divergence: server advanced past our baseline while we hold
			// unsynced edits. Server wins; local edits are discarded.
			e.notify(Event{SessionID: id, State: StateConflicted, Result: remote})
			if !e.adopt(id, gen, edits, remote, StateStaleServerWins) {
				return nil
			}
			e.notify(Event{SessionID: id, State: StateStaleServerWins, Result: remote})
			return nil
		}
		// Clean local copy, newer server copy: plain pull.
		if !e.adopt(id, gen, edits, remote, StateSynced) {
			return nil
		}
		e.notify(Event{SessionID: id, State: StateSynced, Result: remote})
		return nil
	}

	if !dirty {
		// Nothing to push and nothing newer to pull.
		e.restoreState(id, gen, StateSynced)
		e.notify(Event{SessionID: id, State: StateSynced, Result: remote})
		return nil
	}

	if !e.stillCurrent(id, gen) {
		return nil
	}

	pushed, err := e.storage.PutSessionState(ctx, id, local)
	if err != nil {
		e.logger.Error().Err(err).Str("session_id", id.String()).Msg("session push failed")
		e.restoreState(id, gen, prev)
		return ErrLoadFailed
	}
	if !e.adopt(id, gen, edits, pushed, StateSynced) {
		return nil
	}
	e.notify(Event{SessionID: id, State: StateSynced, Result: pushed})
	return nil
}

// SyncAll reconciles every tracked session, continuing past per-session
// failures. The first error is returned after the sweep.
func (e *Engine) SyncAll(ctx context.Context) error {
	var first error
	for _, id := range e.TrackedIDs() {
		if err := e.Sync(ctx, id); err != nil {
			e.logger.Warn().Err(err).Str("session_id", id.String()).Msg("sync failed")
			if first == nil {
				first = err
			}
		}
	}
	return first
}

// adopt applies a fetched or pushed result to the tracked session, unless
// the session was untracked or reset while the network call was in flight.
// An edit recorded while the call was in flight outlives the result: the
// baseline and state tag still advance, but the working copy stays dirty so
// the next sync carries the edit. It reports whether the result was applied.
func (e *Engine) adopt(id uuid.UUID, gen, edits uint64, result *models.ServerStateResult[models.ServerState], state SyncState) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	t, ok := e.tracked[id]
	if !ok || t.generation != gen {
		e.logger.Debug().Str("session_id", id.String()).Msg("discarding stale reconciliation result")
		return false
	}
	if t.edits == edits {
		t.local = result.State
		t.dirty = false
	}
	t.baseline = result.UpdatedAt
	t.state = state
	return true
}

// stillCurrent reports whether the session is still tracked under the
// generation observed at sync start.
func (e *Engine) stillCurrent(id uuid.UUID, gen uint64) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	t, ok := e.tracked[id]
	return ok && t.generation == gen
}

// restoreState sets the session's state tag if it still matches the
// generation observed at sync start.
func (e *Engine) restoreState(id uuid.UUID, gen uint64, state SyncState) {
	e.mu.Lock()
	defer e.mu.Unlock()
	t, ok := e.tracked[id]
	if !ok || t.generation != gen {
		return
	}
	t.state = state
}

func (e *Engine) notify(ev Event) {
	e.mu.Lock()
	subs := make([]func(Event), len(e.subs))
	copy(subs, e.subs)
	e.mu.Unlock()
	for _, fn := range subs {
		fn(ev)
	}
}

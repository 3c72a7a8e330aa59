package session

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"

	"github.com/gridrace/gridrace/internal/models"
)

// Store holds the client-local working copy of every open puzzle session:
// undo/redo history plus the in-progress timer. It stays authoritative
// on-device until the reconciliation engine synchronizes it.
type Store[T any] struct {
	clock clockwork.Clock

	mu      sync.Mutex
	entries map[uuid.UUID]*entry[T]
}

type entry[T any] struct {
	current   T
	undo      []T
	redo      []T
	timer     models.Timer
	createdAt time.Time
	updatedAt time.Time
}

// NewStore creates an empty session store.
func NewStore[T any](clock clockwork.Clock) *Store[T] {
	return &Store[T]{
		clock:   clock,
		entries: make(map[uuid.UUID]*entry[T]),
	}
}

// Begin opens a session with its initial state and starts the timer. An
// existing session under the same id is replaced.
func (s *Store[T]) Begin(id uuid.UUID, initial T) {
	now := s.clock.Now()
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[id] = &entry[T]{
		current: initial,
		timer: models.Timer{
			InProgress: &models.TimerWindow{Start: now, LastInteraction: now},
		},
		createdAt: now,
		updatedAt: now,
	}
}

// Apply records a new state. The previous state moves onto the undo stack,
// the redo stack is cleared, and the timer's last interaction advances.
func (s *Store[T]) Apply(id uuid.UUID, next T) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.entries[id]
	if !ok {
		return fmt.Errorf("apply: unknown session %s", id)
	}
	e.undo = append(e.undo, e.current)
	e.redo = nil
	e.current = next
	s.touchLocked(e)
	return nil
}

// Undo steps back one state. The caller is responsible for gating this
// behind the daily action limiter.
func (s *Store[T]) Undo(id uuid.UUID) (T, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var zero T
	e, ok := s.entries[id]
	if !ok || len(e.undo) == 0 {
		return zero, false
	}
	e.redo = append(e.redo, e.current)
	e.current = e.undo[len(e.undo)-1]
	e.undo = e.undo[:len(e.undo)-1]
	s.touchLocked(e)
	return e.current, true
}

// Redo reapplies the most recently undone state.
func (s *Store[T]) Redo(id uuid.UUID) (T, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var zero T
	e, ok := s.entries[id]
	if !ok || len(e.redo) == 0 {
		return zero, false
	}
	e.undo = append(e.undo, e.current)
	e.current = e.redo[len(e.redo)-1]
	e.redo = e.redo[:len(e.redo)-1]
	s.touchLocked(e)
	return e.current, true
}

// Current returns the working state of a session.
func (s *Store[T]) Current(id uuid.UUID) (T, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var zero T
	e, ok := s.entries[id]
	if !ok {
		return zero, false
	}
	return e.current, true
}

// Touch bumps the timer's last interaction without changing state.
func (s *Store[T]) Touch(id uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if e, ok := s.entries[id]; ok {
		s.touchLocked(e)
	}
}

// Pause folds the open timer window into the accumulated seconds and closes
// it. Resume reopens a fresh window.
func (s *Store[T]) Pause(id uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.entries[id]
	if !ok || e.timer.InProgress == nil {
		return
	}
	s.touchLocked(e)
	e.timer.Seconds = e.timer.Elapsed()
	e.timer.InProgress = nil
}

// Resume reopens the timer window after a pause.
func (s *Store[T]) Resume(id uuid.UUID) {
	now := s.clock.Now()
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.entries[id]
	if !ok || e.timer.InProgress != nil {
		return
	}
	e.timer.InProgress = &models.TimerWindow{Start: now, LastInteraction: now}
}

// Elapsed derives total solving time in seconds for a session.
func (s *Store[T]) Elapsed(id uuid.UUID) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.entries[id]
	if !ok {
		return 0
	}
	return e.timer.Elapsed()
}

// Timer returns a copy of the session's timer.
func (s *Store[T]) Timer(id uuid.UUID) (models.Timer, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.entries[id]
	if !ok {
		return models.Timer{}, false
	}
	return e.timer, true
}

// Envelope packages the session's working copy for the given user, the
// shape the reconciliation engine exchanges.
func (s *Store[T]) Envelope(id, userID uuid.UUID) (models.Session[T], bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.entries[id]
	if !ok {
		return models.Session[T]{}, false
	}
	return models.Session[T]{
		SessionID: id,
		UserID:    userID,
		State:     e.current,
		CreatedAt: e.createdAt,
		UpdatedAt: e.updatedAt,
	}, true
}

// Close discards a session and its history.
func (s *Store[T]) Close(id uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, id)
}

func (s *Store[T]) touchLocked(e *entry[T]) {
	now := s.clock.Now()
	e.updatedAt = now
	if e.timer.InProgress != nil {
		e.timer.InProgress.LastInteraction = now
	}
}

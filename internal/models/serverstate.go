package models

import (
	"time"

	"github.com/google/uuid"
)

// Difficulty labels a puzzle's declared difficulty tier.
type Difficulty string

const (
	DifficultyEasy   Difficulty = "EASY"
	DifficultyMedium Difficulty = "MEDIUM"
	DifficultyHard   Difficulty = "HARD"
	DifficultyExpert Difficulty = "EXPERT"
)

// PuzzleRef identifies where a puzzle came from. At most one of the source
// fields is set; a ref with none of them set classifies as unknown.
type PuzzleRef struct {
	DailyChallengeID string `json:"daily_challenge_id,omitempty"`
	BookID           string `json:"book_id,omitempty"`
	Scanned          bool   `json:"scanned,omitempty"`
}

// TimerWindow marks an in-progress solving span.
type TimerWindow struct {
	Start           time.Time `json:"start"`
	LastInteraction time.Time `json:"lastInteraction"`
}

// Timer accumulates solving time. Elapsed is the single source of truth for
// how long a puzzle has taken and must be derived on every read while a
// window is open, never cached.
type Timer struct {
	Seconds    int          `json:"seconds"`
	InProgress *TimerWindow `json:"inProgress,omitempty"`
}

// Elapsed returns total solving time in whole seconds, folding in the open
// window when one exists.
func (t Timer) Elapsed() int {
	if t.InProgress == nil {
		return t.Seconds
	}
	return t.Seconds + int(t.InProgress.LastInteraction.Sub(t.InProgress.Start)/time.Second)
}

// ServerState is the server-authoritative snapshot of a puzzle-solving
// session: puzzle identity, grid contents, notes, timer and completion.
type ServerState struct {
	Puzzle      PuzzleRef       `json:"puzzle"`
	Difficulty  Difficulty      `json:"difficulty"`
	Grid        [9][9]uint8     `json:"grid"`
	Notes       map[int][]uint8 `json:"notes,omitempty"`
	Timer       Timer           `json:"timer"`
	Completed   bool            `json:"completed"`
	CompletedAt *time.Time      `json:"completed_at,omitempty"`

	// RaceID is set when the session belongs to a multi-participant party
	// race; every participant's session carries the same value.
	RaceID *uuid.UUID `json:"race_id,omitempty"`
}

// ServerStateResult wraps a server snapshot with server-side metadata as
// returned from a fetch. It is the unit exchanged during reconciliation.
type ServerStateResult[T any] struct {
	ID        uuid.UUID  `json:"id"`
	UserID    uuid.UUID  `json:"user_id"`
	PartyID   *uuid.UUID `json:"party_id,omitempty"`
	State     T          `json:"state"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// BookPuzzle is one entry of a monthly puzzle book.
type BookPuzzle struct {
	ID         string     `json:"id"`
	Difficulty Difficulty `json:"difficulty"`
}

// Book is the themed puzzle collection published per calendar month.
type Book struct {
	ID      string       `json:"id"`
	Year    int          `json:"year"`
	Month   string       `json:"month"`
	Title   string       `json:"title"`
	Puzzles []BookPuzzle `json:"puzzles"`
}

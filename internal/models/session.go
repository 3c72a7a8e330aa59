package models

import (
	"time"

	"github.com/google/uuid"
)

// Session is a generic envelope around one user's attempt at one puzzle.
// The payload type T is opaque to everything outside the puzzle engine;
// synchronization and scoring depend only on the envelope fields.
type Session[T any] struct {
	SessionID uuid.UUID  `json:"session_id"`
	UserID    uuid.UUID  `json:"user_id"`
	State     T          `json:"state"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
	ExpiresAt *time.Time `json:"expires_at,omitempty"`
}

// CollaborativeSession is a session shared by every participant of a party
// race. The server copy is the long-lived source of truth; each client holds
// a shorter-lived working copy.
type CollaborativeSession[T any] struct {
	Session[T]

	PartyID        uuid.UUID   `json:"party_id"`
	ParticipantIDs []uuid.UUID `json:"participant_ids"`
}

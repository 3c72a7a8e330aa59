package session

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type grid struct {
	Cells [81]uint8
}

func withCell(g grid, i int, v uint8) grid {
	g.Cells[i] = v
	return g
}

func TestApplyUndoRedo(t *testing.T) {
	clock := clockwork.NewFakeClockAt(time.Date(2026, 8, 30, 10, 0, 0, 0, time.UTC))
	s := NewStore[grid](clock)
	id := uuid.New()

	var g0 grid
	s.Begin(id, g0)
	g1 := withCell(g0, 0, 5)
	g2 := withCell(g1, 1, 3)
	require.NoError(t, s.Apply(id, g1))
	require.NoError(t, s.Apply(id, g2))

	cur, ok := s.Current(id)
	require.True(t, ok)
	assert.Equal(t, g2, cur)

	back, ok := s.Undo(id)
	require.True(t, ok)
	assert.Equal(t, g1, back)

	back, ok = s.Undo(id)
	require.True(t, ok)
	assert.Equal(t, g0, back)

	// Nothing left to undo.
	_, ok = s.Undo(id)
	assert.False(t, ok)

	fwd, ok := s.Redo(id)
	require.True(t, ok)
	assert.Equal(t, g1, fwd)

	// A new edit clears the redo stack.
	g3 := withCell(g1, 2, 9)
	require.NoError(t, s.Apply(id, g3))
	_, ok = s.Redo(id)
	assert.False(t, ok)
}

func TestApplyUnknownSession(t *testing.T) {
	clock := clockwork.NewFakeClockAt(time.Date(2026, 8, 30, 10, 0, 0, 0, time.UTC))
	s := NewStore[grid](clock)

	assert.Error(t, s.Apply(uuid.New(), grid{}))
}

func TestElapsedTracksInteractions(t *testing.T) {
	clock := clockwork.NewFakeClockAt(time.Date(2026, 8, 30, 10, 0, 0, 0, time.UTC))
	s := NewStore[grid](clock)
	id := uuid.New()

	s.Begin(id, grid{})
	assert.Equal(t, 0, s.Elapsed(id))

	clock.Advance(30 * time.Second)
	s.Touch(id)
	assert.Equal(t, 30, s.Elapsed(id))

	// Elapsed is derived from the last interaction, so idle time after it
	// does not count until the next touch.
	clock.Advance(10 * time.Second)
	assert.Equal(t, 30, s.Elapsed(id))

	clock.Advance(20 * time.Second)
	s.Touch(id)
	assert.Equal(t, 60, s.Elapsed(id))
}

func TestPauseFoldsAndResumeReopens(t *testing.T) {
	clock := clockwork.NewFakeClockAt(time.Date(2026, 8, 30, 10, 0, 0, 0, time.UTC))
	s := NewStore[grid](clock)
	id := uuid.New()

	s.Begin(id, grid{})
	clock.Advance(45 * time.Second)
	s.Pause(id)

	timer, ok := s.Timer(id)
	require.True(t, ok)
	assert.Equal(t, 45, timer.Seconds)
	assert.Nil(t, timer.InProgress)
	assert.Equal(t, 45, s.Elapsed(id))

	// Paused time does not accumulate.
	clock.Advance(5 * time.Minute)
	assert.Equal(t, 45, s.Elapsed(id))

	s.Resume(id)
	clock.Advance(15 * time.Second)
	s.Touch(id)
	assert.Equal(t, 60, s.Elapsed(id))
}

func TestEnvelopeCarriesTimestamps(t *testing.T) {
	start := time.Date(2026, 8, 30, 10, 0, 0, 0, time.UTC)
	clock := clockwork.NewFakeClockAt(start)
	s := NewStore[grid](clock)
	id, user := uuid.New(), uuid.New()

	s.Begin(id, grid{})
	clock.Advance(20 * time.Second)
	require.NoError(t, s.Apply(id, withCell(grid{}, 0, 4)))

	env, ok := s.Envelope(id, user)
	require.True(t, ok)
	assert.Equal(t, id, env.SessionID)
	assert.Equal(t, user, env.UserID)
	assert.Equal(t, withCell(grid{}, 0, 4), env.State)
	assert.Equal(t, start, env.CreatedAt)
	assert.Equal(t, start.Add(20*time.Second), env.UpdatedAt)
}

func TestCloseDiscardsSession(t *testing.T) {
	clock := clockwork.NewFakeClockAt(time.Date(2026, 8, 30, 10, 0, 0, 0, time.UTC))
	s := NewStore[grid](clock)
	id := uuid.New()

	s.Begin(id, grid{})
	s.Close(id)

	_, ok := s.Current(id)
	assert.False(t, ok)
	assert.Equal(t, 0, s.Elapsed(id))
}

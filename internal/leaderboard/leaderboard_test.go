package leaderboard

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gridrace/gridrace/internal/models"
	"github.com/gridrace/gridrace/internal/scoring"
)

func dailySessions(n int, elapsedSec int) []models.ServerStateResult[models.ServerState] {
	completedAt := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	sessions := make([]models.ServerStateResult[models.ServerState], n)
	for i := range sessions {
		sessions[i] = models.ServerStateResult[models.ServerState]{
			ID: uuid.New(),
			State: models.ServerState{
				Puzzle:      models.PuzzleRef{DailyChallengeID: "d1"},
				Difficulty:  models.DifficultyMedium,
				Timer:       models.Timer{Seconds: elapsedSec},
				Completed:   true,
				CompletedAt: &completedAt,
			},
			UpdatedAt: completedAt,
		}
	}
	return sessions
}

type staticNames map[uuid.UUID]string

func (n staticNames) Nickname(userID uuid.UUID) string { return n[userID] }

func TestBuildOrdersByTotalScore(t *testing.T) {
	strong := uuid.MustParse("00000000-0000-0000-0000-000000000001")
	weak := uuid.MustParse("00000000-0000-0000-0000-000000000002")

	all := scoring.AllFriendsSessionsMap{
		strong: dailySessions(5, 300),
		weak:   dailySessions(1, 300),
	}

	rows := NewAggregator(scoring.DefaultWeights(), zerolog.Nop()).
		Build(all, staticNames{strong: "ada", weak: "bob"})

	require.Len(t, rows, 2)
	assert.Equal(t, strong, rows[0].UserID)
	assert.Equal(t, "ada", rows[0].Nickname)
	assert.Equal(t, 1, rows[0].Rank)
	assert.Equal(t, 2, rows[1].Rank)
	assert.Greater(t, rows[0].TotalScore, rows[1].TotalScore)
}

func TestBuildTieBreaksByPuzzlesThenUserID(t *testing.T) {
	// Zero weights force identical totals so the secondary keys decide.
	var zero scoring.Weights

	low := uuid.MustParse("00000000-0000-0000-0000-00000000000a")
	high := uuid.MustParse("00000000-0000-0000-0000-00000000000b")
	idleA := uuid.MustParse("00000000-0000-0000-0000-00000000000c")
	idleB := uuid.MustParse("00000000-0000-0000-0000-00000000000d")

	all := scoring.AllFriendsSessionsMap{
		idleB: nil,
		low:   dailySessions(1, 300),
		idleA: nil,
		high:  dailySessions(3, 300),
	}

	rows := NewAggregator(zero, zerolog.Nop()).Build(all, nil)

	require.Len(t, rows, 4)
	// More puzzles first, then user id ascending among the idle pair.
	assert.Equal(t, []uuid.UUID{high, low, idleA, idleB},
		[]uuid.UUID{rows[0].UserID, rows[1].UserID, rows[2].UserID, rows[3].UserID})
}

func TestBuildIncludesZeroSessionUsers(t *testing.T) {
	idle := uuid.New()
	all := scoring.AllFriendsSessionsMap{idle: nil}

	rows := NewAggregator(scoring.DefaultWeights(), zerolog.Nop()).Build(all, nil)

	require.Len(t, rows, 1)
	assert.Equal(t, idle, rows[0].UserID)
	assert.Equal(t, scoring.ScoringResult{}, rows[0].ScoringResult)
	assert.Equal(t, 1, rows[0].Rank)
}

func TestBuildIsDeterministic(t *testing.T) {
	all := scoring.AllFriendsSessionsMap{
		uuid.MustParse("00000000-0000-0000-0000-000000000001"): dailySessions(2, 240),
		uuid.MustParse("00000000-0000-0000-0000-000000000002"): dailySessions(2, 240),
		uuid.MustParse("00000000-0000-0000-0000-000000000003"): nil,
	}
	agg := NewAggregator(scoring.DefaultWeights(), zerolog.Nop())

	first := agg.Build(all, nil)
	second := agg.Build(all, nil)
	assert.Equal(t, first, second)
}

package scoring

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gridrace/gridrace/internal/models"
)

func completedSession(ref models.PuzzleRef, difficulty models.Difficulty, elapsedSec int) models.ServerStateResult[models.ServerState] {
	completedAt := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	return models.ServerStateResult[models.ServerState]{
		ID:     uuid.New(),
		UserID: uuid.New(),
		State: models.ServerState{
			Puzzle:      ref,
			Difficulty:  difficulty,
			Timer:       models.Timer{Seconds: elapsedSec},
			Completed:   true,
			CompletedAt: &completedAt,
		},
		UpdatedAt: completedAt,
	}
}

func dailySession(elapsedSec int) models.ServerStateResult[models.ServerState] {
	return completedSession(models.PuzzleRef{DailyChallengeID: "daily-2026-08-30"}, models.DifficultyMedium, elapsedSec)
}

func TestClassifyPuzzle(t *testing.T) {
	cases := []struct {
		name string
		ref  models.PuzzleRef
		want PuzzleType
	}{
		{"daily", models.PuzzleRef{DailyChallengeID: "d1"}, PuzzleTypeDaily},
		{"book", models.PuzzleRef{BookID: "b1"}, PuzzleTypeBook},
		{"scanned", models.PuzzleRef{Scanned: true}, PuzzleTypeScanned},
		{"unknown", models.PuzzleRef{}, PuzzleTypeUnknown},
		{"daily beats book", models.PuzzleRef{DailyChallengeID: "d1", BookID: "b1"}, PuzzleTypeDaily},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, ClassifyPuzzle(tc.ref))
		})
	}
}

func TestCalculateUserScoreEmpty(t *testing.T) {
	result := CalculateUserScore(nil, nil, DefaultWeights())
	assert.Equal(t, ScoringResult{}, result)
}

func TestCalculateUserScoreIsPure(t *testing.T) {
	sessions := []models.ServerStateResult[models.ServerState]{
		dailySession(300),
		completedSession(models.PuzzleRef{BookID: "b1"}, models.DifficultyExpert, 900),
		completedSession(models.PuzzleRef{Scanned: true}, models.DifficultyEasy, 45),
	}
	first := CalculateUserScore(sessions, nil, DefaultWeights())
	second := CalculateUserScore(sessions, nil, DefaultWeights())
	assert.Equal(t, first, second)
}

func TestSpeedBonusMonotonicInElapsedTime(t *testing.T) {
	w := DefaultWeights()
	prev := speedBonus(1, w)
	for _, elapsed := range []int{30, 60, 61, 90, 180, 600, 3600, 86400} {
		cur := speedBonus(elapsed, w)
		assert.GreaterOrEqual(t, prev, cur, "elapsed=%d", elapsed)
		assert.GreaterOrEqual(t, cur, 0)
		assert.LessOrEqual(t, cur, w.SpeedMax)
		prev = cur
	}
}

func TestFasterSessionNeverScoresLowerSpeedBonus(t *testing.T) {
	w := DefaultWeights()
	fast := CalculateUserScore([]models.ServerStateResult[models.ServerState]{dailySession(120)}, nil, w)
	slow := CalculateUserScore([]models.ServerStateResult[models.ServerState]{dailySession(150)}, nil, w)
	assert.GreaterOrEqual(t, fast.SpeedBonus, slow.SpeedBonus)
}

func TestThreeDailyMediumsScenario(t *testing.T) {
	w := DefaultWeights()
	sessions := []models.ServerStateResult[models.ServerState]{
		dailySession(5 * 60),
		dailySession(7 * 60),
		dailySession(3 * 60),
	}

	result := CalculateUserScore(sessions, nil, w)

	assert.Equal(t, 3*w.VolumePerPuzzle, result.VolumeScore)
	assert.Equal(t, 3*w.DailyPerPuzzle, result.DailyPuzzleScore)
	assert.Equal(t, 3*w.DifficultyMedium, result.DifficultyBonus)
	wantSpeed := speedBonus(300, w) + speedBonus(420, w) + speedBonus(180, w)
	assert.Equal(t, wantSpeed, result.SpeedBonus)
	assert.Equal(t, 0, result.RacingBonus)
	assert.Equal(t, 0, result.BookPuzzleScore)
	assert.Equal(t, 0, result.ScannedPuzzleScore)

	assert.Equal(t, 3, result.Stats.TotalPuzzles)
	assert.Equal(t, 3, result.Stats.DailyPuzzles)
	assert.Equal(t, 180, result.Stats.FastestTime)
	assert.Equal(t, 300, result.Stats.AverageTime)
	assert.Equal(t, 0, result.Stats.RacingWins)

	wantTotal := result.VolumeScore + result.DailyPuzzleScore + result.DifficultyBonus + result.SpeedBonus
	assert.Equal(t, wantTotal, result.TotalScore)
}

func TestZeroSecondCompletionIsFastest(t *testing.T) {
	sessions := []models.ServerStateResult[models.ServerState]{
		dailySession(0),
		dailySession(240),
	}

	result := CalculateUserScore(sessions, nil, DefaultWeights())
	assert.Equal(t, 0, result.Stats.FastestTime)
	assert.Equal(t, 120, result.Stats.AverageTime)
}

func TestIncompleteSessionsAreIgnored(t *testing.T) {
	open := dailySession(100)
	open.State.Completed = false
	open.State.CompletedAt = nil

	result := CalculateUserScore([]models.ServerStateResult[models.ServerState]{open}, nil, DefaultWeights())
	assert.Equal(t, ScoringResult{}, result)
}

func TestUnknownTypeCountsTowardVolumeOnly(t *testing.T) {
	w := DefaultWeights()
	s := completedSession(models.PuzzleRef{}, models.DifficultyHard, 200)

	result := CalculateUserScore([]models.ServerStateResult[models.ServerState]{s}, nil, w)

	assert.Equal(t, w.VolumePerPuzzle, result.VolumeScore)
	assert.Equal(t, 0, result.DailyPuzzleScore+result.BookPuzzleScore+result.ScannedPuzzleScore)
	assert.Equal(t, 1, result.Stats.TotalPuzzles)
}

func raceSession(userID uuid.UUID, raceID uuid.UUID, elapsedSec int, completedAt time.Time) models.ServerStateResult[models.ServerState] {
	return models.ServerStateResult[models.ServerState]{
		ID:     uuid.New(),
		UserID: userID,
		State: models.ServerState{
			Puzzle:      models.PuzzleRef{DailyChallengeID: "race-puzzle"},
			Difficulty:  models.DifficultyMedium,
			Timer:       models.Timer{Seconds: elapsedSec},
			Completed:   true,
			CompletedAt: &completedAt,
			RaceID:      &raceID,
		},
		UpdatedAt: completedAt,
	}
}

func TestTwoMemberRaceScenario(t *testing.T) {
	w := DefaultWeights()
	raceID := uuid.New()
	finish := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)

	userX, userY := uuid.New(), uuid.New()
	sessionX := raceSession(userX, raceID, 120, finish)
	sessionY := raceSession(userY, raceID, 150, finish.Add(30*time.Second))

	all := AllFriendsSessionsMap{
		userX: {sessionX},
		userY: {sessionY},
	}
	standings := ComputeRaceStandings(all)

	scoreX := CalculateUserScore(all[userX], standings, w)
	scoreY := CalculateUserScore(all[userY], standings, w)

	assert.Greater(t, scoreX.RacingBonus, scoreY.RacingBonus)
	assert.Positive(t, scoreY.RacingBonus)
	assert.Equal(t, 1, scoreX.Stats.RacingWins)
	assert.Equal(t, 0, scoreY.Stats.RacingWins)
}

func TestRaceStandingsTieBrokenByEarliestCompletion(t *testing.T) {
	raceID := uuid.New()
	finish := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)

	early := raceSession(uuid.New(), raceID, 200, finish)
	late := raceSession(uuid.New(), raceID, 200, finish.Add(time.Minute))

	standings := ComputeRaceStandings(AllFriendsSessionsMap{
		early.UserID: {early},
		late.UserID:  {late},
	})

	require.Len(t, standings, 2)
	assert.Equal(t, 1, standings[early.ID].Rank)
	assert.Equal(t, 2, standings[late.ID].Rank)
	assert.Equal(t, 2, standings[early.ID].FieldSize)
}

func TestSoloRaceEarnsNoBonus(t *testing.T) {
	raceID := uuid.New()
	finish := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	solo := raceSession(uuid.New(), raceID, 100, finish)

	all := AllFriendsSessionsMap{solo.UserID: {solo}}
	standings := ComputeRaceStandings(all)

	result := CalculateUserScore(all[solo.UserID], standings, DefaultWeights())
	assert.Equal(t, 0, result.RacingBonus)
	assert.Equal(t, 0, result.Stats.RacingWins)
}

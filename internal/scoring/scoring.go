package scoring

import (
	"github.com/google/uuid"

	"github.com/gridrace/gridrace/internal/models"
)

// AllFriendsSessionsMap is the leaderboard input: every friend's session
// history keyed by user id.
type AllFriendsSessionsMap map[uuid.UUID][]models.ServerStateResult[models.ServerState]

// PuzzleType classifies where a completed puzzle came from. Classification
// is exclusive: a session contributes to exactly one type score.
type PuzzleType string

const (
	PuzzleTypeDaily   PuzzleType = "daily"
	PuzzleTypeBook    PuzzleType = "book"
	PuzzleTypeScanned PuzzleType = "scanned"
	PuzzleTypeUnknown PuzzleType = "unknown"
)

// ClassifyPuzzle derives the puzzle type from the session's puzzle identity.
// Unknown puzzles earn no type bonus but still count toward volume.
func ClassifyPuzzle(ref models.PuzzleRef) PuzzleType {
	switch {
	case ref.DailyChallengeID != "":
		return PuzzleTypeDaily
	case ref.BookID != "":
		return PuzzleTypeBook
	case ref.Scanned:
		return PuzzleTypeScanned
	default:
		return PuzzleTypeUnknown
	}
}

// Weights carries every scoring constant. The qualitative laws (monotone
// speed bonus, exclusive type attribution, rank-ordered racing bonus) hold
// for any positive weights; the numbers themselves are configuration.
type Weights struct {
	VolumePerPuzzle  int `yaml:"volume_per_puzzle"`
	DailyPerPuzzle   int `yaml:"daily_per_puzzle"`
	BookPerPuzzle    int `yaml:"book_per_puzzle"`
	ScannedPerPuzzle int `yaml:"scanned_per_puzzle"`

	DifficultyEasy   int `yaml:"difficulty_easy"`
	DifficultyMedium int `yaml:"difficulty_medium"`
	DifficultyHard   int `yaml:"difficulty_hard"`
	DifficultyExpert int `yaml:"difficulty_expert"`

	// Speed bonus is SpeedMax at or under SpeedParSeconds, then decays as
	// par/elapsed. Never negative, capped so one freak solve cannot
	// dominate the leaderboard.
	SpeedMax        int `yaml:"speed_max"`
	SpeedParSeconds int `yaml:"speed_par_seconds"`

	RacingFirst    int `yaml:"racing_first"`
	RacingSecond   int `yaml:"racing_second"`
	RacingThird    int `yaml:"racing_third"`
	RacingFinisher int `yaml:"racing_finisher"`
}

// DefaultWeights returns the shipped scoring constants.
func DefaultWeights() Weights {
	return Weights{
		VolumePerPuzzle:  10,
		DailyPerPuzzle:   15,
		BookPerPuzzle:    12,
		ScannedPerPuzzle: 8,
		DifficultyEasy:   5,
		DifficultyMedium: 10,
		DifficultyHard:   20,
		DifficultyExpert: 35,
		SpeedMax:         50,
		SpeedParSeconds:  60,
		RacingFirst:      30,
		RacingSecond:     18,
		RacingThird:      10,
		RacingFinisher:   4,
	}
}

// Stats aggregates over the same session set the scores derive from. It is
// filled in the same pass as the scores, so the two can never disagree.
type Stats struct {
	TotalPuzzles   int `json:"total_puzzles"`
	DailyPuzzles   int `json:"daily_puzzles"`
	BookPuzzles    int `json:"book_puzzles"`
	ScannedPuzzles int `json:"scanned_puzzles"`
	AverageTime    int `json:"average_time"`
	FastestTime    int `json:"fastest_time"`
	RacingWins     int `json:"racing_wins"`
}

// ScoringResult is a composite score plus its full breakdown. The breakdown
// always travels with the total so a UI can explain why a score is what it
// is.
type ScoringResult struct {
	TotalScore         int   `json:"total_score"`
	VolumeScore        int   `json:"volume_score"`
	DailyPuzzleScore   int   `json:"daily_puzzle_score"`
	BookPuzzleScore    int   `json:"book_puzzle_score"`
	ScannedPuzzleScore int   `json:"scanned_puzzle_score"`
	DifficultyBonus    int   `json:"difficulty_bonus"`
	SpeedBonus         int   `json:"speed_bonus"`
	RacingBonus        int   `json:"racing_bonus"`
	Stats              Stats `json:"stats"`
}

// CalculateUserScore turns one user's completed sessions into a composite
// score with an auditable breakdown. It is pure: no side effects, identical
// output for identical input. Race standings come precomputed from
// ComputeRaceStandings so the function never needs other users' sessions.
func CalculateUserScore(sessions []models.ServerStateResult[models.ServerState], standings RaceStandings, w Weights) ScoringResult {
	var r ScoringResult
	var totalTime int

	for _, s := range sessions {
		if !s.State.Completed {
			continue
		}
		elapsed := s.State.Timer.Elapsed()

		r.Stats.TotalPuzzles++
		r.VolumeScore += w.VolumePerPuzzle

		switch ClassifyPuzzle(s.State.Puzzle) {
		case PuzzleTypeDaily:
			r.DailyPuzzleScore += w.DailyPerPuzzle
			r.Stats.DailyPuzzles++
		case PuzzleTypeBook:
			r.BookPuzzleScore += w.BookPerPuzzle
			r.Stats.BookPuzzles++
		case PuzzleTypeScanned:
			r.ScannedPuzzleScore += w.ScannedPerPuzzle
			r.Stats.ScannedPuzzles++
		case PuzzleTypeUnknown:
			// volume only
		}

		r.DifficultyBonus += difficultyBonus(s.State.Difficulty, w)
		r.SpeedBonus += speedBonus(elapsed, w)

		if st, ok := standings[s.ID]; ok && st.FieldSize >= 2 {
			r.RacingBonus += racingBonus(st.Rank, w)
			if st.Rank == 1 {
				r.Stats.RacingWins++
			}
		}

		totalTime += elapsed
		if r.Stats.TotalPuzzles == 1 || elapsed < r.Stats.FastestTime {
			r.Stats.FastestTime = elapsed
		}
	}

	if r.Stats.TotalPuzzles > 0 {
		r.Stats.AverageTime = totalTime / r.Stats.TotalPuzzles
	}

	r.TotalScore = r.VolumeScore + r.DailyPuzzleScore + r.BookPuzzleScore +
		r.ScannedPuzzleScore + r.DifficultyBonus + r.SpeedBonus + r.RacingBonus
	return r
}

func difficultyBonus(d models.Difficulty, w Weights) int {
	switch d {
	case models.DifficultyEasy:
		return w.DifficultyEasy
	case models.DifficultyMedium:
		return w.DifficultyMedium
	case models.DifficultyHard:
		return w.DifficultyHard
	case models.DifficultyExpert:
		return w.DifficultyExpert
	default:
		return 0
	}
}

// speedBonus is monotone non-increasing in elapsed time with a floor at zero
// and a cap at SpeedMax.
func speedBonus(elapsed int, w Weights) int {
	if elapsed <= 0 {
		return w.SpeedMax
	}
	if elapsed <= w.SpeedParSeconds {
		return w.SpeedMax
	}
	return w.SpeedMax * w.SpeedParSeconds / elapsed
}

func racingBonus(rank int, w Weights) int {
	switch rank {
	case 1:
		return w.RacingFirst
	case 2:
		return w.RacingSecond
	case 3:
		return w.RacingThird
	default:
		return w.RacingFinisher
	}
}

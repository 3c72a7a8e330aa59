package leaderboard

import (
	"sort"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/gridrace/gridrace/internal/scoring"
)

// NicknameResolver resolves a display name for a user, typically backed by
// party membership.
type NicknameResolver interface {
	Nickname(userID uuid.UUID) string
}

// FriendsLeaderboardScore is one ranked row of the friends leaderboard.
type FriendsLeaderboardScore struct {
	UserID   uuid.UUID `json:"user_id"`
	Nickname string    `json:"nickname"`
	Rank     int       `json:"rank"`

	scoring.ScoringResult
}

// Aggregator builds the friends leaderboard by scoring every user's session
// history with a shared set of weights.
type Aggregator struct {
	weights scoring.Weights
	logger  zerolog.Logger
}

// NewAggregator creates an aggregator using the given scoring weights.
func NewAggregator(weights scoring.Weights, logger zerolog.Logger) *Aggregator {
	return &Aggregator{weights: weights, logger: logger}
}

// Build scores every user in the map and returns rows ordered by total score
// descending, ties broken by total puzzles descending then user id
// ascending. Users with zero sessions still appear with an all-zero
// breakdown so the party's full roster stays visible.
func (a *Aggregator) Build(all scoring.AllFriendsSessionsMap, names NicknameResolver) []FriendsLeaderboardScore {
	standings := scoring.ComputeRaceStandings(all)

	rows := make([]FriendsLeaderboardScore, 0, len(all))
	for userID, sessions := range all {
		row := FriendsLeaderboardScore{
			UserID:        userID,
			ScoringResult: scoring.CalculateUserScore(sessions, standings, a.weights),
		}
		if names != nil {
			row.Nickname = names.Nickname(userID)
		}
		rows = append(rows, row)
	}

	sort.Slice(rows, func(i, j int) bool {
		if rows[i].TotalScore != rows[j].TotalScore {
			return rows[i].TotalScore > rows[j].TotalScore
		}
		if rows[i].Stats.TotalPuzzles != rows[j].Stats.TotalPuzzles {
			return rows[i].Stats.TotalPuzzles > rows[j].Stats.TotalPuzzles
		}
		return rows[i].UserID.String() < rows[j].UserID.String()
	})

	for i := range rows {
		rows[i].Rank = i + 1
	}

	a.logger.Debug().Int("users", len(rows)).Msg("leaderboard built")
	return rows
}

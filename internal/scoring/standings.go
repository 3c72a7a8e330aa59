package scoring

import (
	"sort"
	"time"

	"github.com/google/uuid"
)

// RaceStanding is one session's finishing position within a shared race.
type RaceStanding struct {
	Rank      int
	FieldSize int
}

// RaceStandings maps a session result id to its finishing position. A racing
// bonus is only awarded when at least two participants completed the race
// (FieldSize >= 2).
type RaceStandings map[uuid.UUID]RaceStanding

// ComputeRaceStandings resolves finishing ranks across every shared race in
// the friends map. Completers are ordered by elapsed time, ties broken by
// earliest completion timestamp, then by session id for a total order. The
// result is deterministic for a given input regardless of map iteration.
func ComputeRaceStandings(all AllFriendsSessionsMap) RaceStandings {
	type finisher struct {
		sessionID   uuid.UUID
		elapsed     int
		completedAt time.Time
	}

	byRace := make(map[uuid.UUID][]finisher)
	for _, sessions := range all {
		for _, s := range sessions {
			if !s.State.Completed || s.State.RaceID == nil {
				continue
			}
			completedAt := s.UpdatedAt
			if s.State.CompletedAt != nil {
				completedAt = *s.State.CompletedAt
			}
			byRace[*s.State.RaceID] = append(byRace[*s.State.RaceID], finisher{
				sessionID:   s.ID,
				elapsed:     s.State.Timer.Elapsed(),
				completedAt: completedAt,
			})
		}
	}

	standings := make(RaceStandings)
	for _, finishers := range byRace {
		sort.Slice(finishers, func(i, j int) bool {
			if finishers[i].elapsed != finishers[j].elapsed {
				return finishers[i].elapsed < finishers[j].elapsed
			}
			if !finishers[i].completedAt.Equal(finishers[j].completedAt) {
				return finishers[i].completedAt.Before(finishers[j].completedAt)
			}
			return finishers[i].sessionID.String() < finishers[j].sessionID.String()
		})
		for i, f := range finishers {
			standings[f.sessionID] = RaceStanding{Rank: i + 1, FieldSize: len(finishers)}
		}
	}
	return standings
}

package race_api_client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"github.com/gridrace/gridrace/clients"
	"github.com/gridrace/gridrace/internal/models"
	"github.com/gridrace/gridrace/internal/scoring"
)

// GetSessionState fetches the server copy of a session. A missing session is
// not an error: it returns (nil, nil), which reconciliation reads as "no
// server copy yet".
func (c *RaceApiClient) GetSessionState(ctx context.Context, id uuid.UUID) (*models.ServerStateResult[models.ServerState], error) {
	body, err := c.Get(ctx, fmt.Sprintf("%s/%s", SessionsEndpoint, id))
	if err != nil {
		if clients.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get session state: %w", err)
	}

	var result models.ServerStateResult[models.ServerState]
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("failed to unmarshal session state: %w", err)
	}
	return &result, nil
}

// PutSessionState pushes a local session state and returns the stored
// result with refreshed server metadata.
func (c *RaceApiClient) PutSessionState(ctx context.Context, id uuid.UUID, state models.ServerState) (*models.ServerStateResult[models.ServerState], error) {
	payload, err := json.Marshal(state)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal session state: %w", err)
	}

	body, err := c.Put(ctx, fmt.Sprintf("%s/%s", SessionsEndpoint, id), bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to put session state: %w", err)
	}

	var result models.ServerStateResult[models.ServerState]
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("failed to unmarshal put response: %w", err)
	}
	return &result, nil
}

// ListPartySessions returns every session belonging to a party.
func (c *RaceApiClient) ListPartySessions(ctx context.Context, partyID uuid.UUID) ([]models.ServerStateResult[models.ServerState], error) {
	body, err := c.Get(ctx, fmt.Sprintf("%s/%s/sessions", PartiesEndpoint, partyID))
	if err != nil {
		return nil, fmt.Errorf("failed to list party sessions: %w", err)
	}

	var sessions []models.ServerStateResult[models.ServerState]
	if err := json.Unmarshal(body, &sessions); err != nil {
		return nil, fmt.Errorf("failed to unmarshal party sessions: %w", err)
	}
	return sessions, nil
}

// GetRace fetches the shared collaborative session for a party race,
// including its participant roster.
func (c *RaceApiClient) GetRace(ctx context.Context, raceID uuid.UUID) (*models.CollaborativeSession[models.ServerState], error) {
	body, err := c.Get(ctx, fmt.Sprintf("%s/%s", RacesEndpoint, raceID))
	if err != nil {
		return nil, fmt.Errorf("failed to get race: %w", err)
	}

	var race models.CollaborativeSession[models.ServerState]
	if err := json.Unmarshal(body, &race); err != nil {
		return nil, fmt.Errorf("failed to unmarshal race: %w", err)
	}
	return &race, nil
}

// GetAllFriendsSessions returns every party member's session history keyed
// by user id, the leaderboard input.
func (c *RaceApiClient) GetAllFriendsSessions(ctx context.Context, partyID uuid.UUID) (scoring.AllFriendsSessionsMap, error) {
	body, err := c.Get(ctx, fmt.Sprintf("%s/%s/friends-sessions", PartiesEndpoint, partyID))
	if err != nil {
		return nil, fmt.Errorf("failed to get friends sessions: %w", err)
	}

	var all scoring.AllFriendsSessionsMap
	if err := json.Unmarshal(body, &all); err != nil {
		return nil, fmt.Errorf("failed to unmarshal friends sessions: %w", err)
	}
	return all, nil
}

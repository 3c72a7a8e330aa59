package race_api_client

import (
	"github.com/gridrace/gridrace/clients"
)

// RaceApiClient talks to the game server's storage API. It implements the
// server-storage collaborator used by reconciliation, the party app and the
// leaderboard input fetch.
type RaceApiClient struct {
	*clients.BaseClient
}

func NewRaceApiClient(baseURL, apiKey string) *RaceApiClient {
	client := &RaceApiClient{
		BaseClient: clients.NewBaseClient(baseURL),
	}

	client.SetHeader(APIKeyHeader, apiKey)
	client.SetHeader("Content-Type", "application/json")

	return client
}

package race_api_client

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"github.com/gridrace/gridrace/internal/models"
)

// GetParty fetches a party by id.
func (c *RaceApiClient) GetParty(ctx context.Context, partyID uuid.UUID) (*models.Party, error) {
	body, err := c.Get(ctx, fmt.Sprintf("%s/%s", PartiesEndpoint, partyID))
	if err != nil {
		return nil, fmt.Errorf("failed to get party: %w", err)
	}

	var party models.Party
	if err := json.Unmarshal(body, &party); err != nil {
		return nil, fmt.Errorf("failed to unmarshal party: %w", err)
	}
	return &party, nil
}

// ListPartyMembers fetches a party's full membership, including members who
// left.
func (c *RaceApiClient) ListPartyMembers(ctx context.Context, partyID uuid.UUID) ([]models.PartyMember, error) {
	body, err := c.Get(ctx, fmt.Sprintf("%s/%s/members", PartiesEndpoint, partyID))
	if err != nil {
		return nil, fmt.Errorf("failed to list party members: %w", err)
	}

	var members []models.PartyMember
	if err := json.Unmarshal(body, &members); err != nil {
		return nil, fmt.Errorf("failed to unmarshal party members: %w", err)
	}
	return members, nil
}

// GetSudokuBookOfTheMonth fetches the current monthly puzzle book.
func (c *RaceApiClient) GetSudokuBookOfTheMonth(ctx context.Context) (*models.Book, error) {
	body, err := c.Get(ctx, BookOfTheMonthEndpoint)
	if err != nil {
		return nil, fmt.Errorf("failed to get book of the month: %w", err)
	}

	var book models.Book
	if err := json.Unmarshal(body, &book); err != nil {
		return nil, fmt.Errorf("failed to unmarshal book: %w", err)
	}
	return &book, nil
}

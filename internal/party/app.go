package party

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/gridrace/gridrace/internal/models"
)

// PartyRepository defines what the app layer needs from the server storage
// collaborator.
type PartyRepository interface {
	GetParty(ctx context.Context, partyID uuid.UUID) (*models.Party, error)
	ListPartyMembers(ctx context.Context, partyID uuid.UUID) ([]models.PartyMember, error)
}

// App handles party roster business logic.
type App struct {
	repo   PartyRepository
	logger zerolog.Logger
}

// NewApp creates a new party App.
func NewApp(repo PartyRepository, logger zerolog.Logger) *App {
	return &App{repo: repo, logger: logger}
}

// GetParty fetches a party and validates its invariants against its members.
func (a *App) GetParty(ctx context.Context, partyID uuid.UUID) (*models.Party, error) {
	party, err := a.repo.GetParty(ctx, partyID)
	if err != nil {
		return nil, fmt.Errorf("failed to get party: %w", err)
	}
	members, err := a.repo.ListPartyMembers(ctx, partyID)
	if err != nil {
		return nil, fmt.Errorf("failed to list party members: %w", err)
	}
	if err := ValidateParty(party, members); err != nil {
		return nil, fmt.Errorf("party %s invalid: %w", partyID, err)
	}
	return party, nil
}

// ActiveRoster returns the party's active members. Members who left or
// declined keep their history but are excluded here.
func (a *App) ActiveRoster(ctx context.Context, partyID uuid.UUID) ([]models.PartyMember, error) {
	members, err := a.repo.ListPartyMembers(ctx, partyID)
	if err != nil {
		return nil, fmt.Errorf("failed to list party members: %w", err)
	}
	return FilterActive(members), nil
}

// Nicknames builds a display-name lookup for the party's active roster,
// falling back to a short user id when no nickname is set.
func (a *App) Nicknames(ctx context.Context, partyID uuid.UUID) (Nicknames, error) {
	members, err := a.ActiveRoster(ctx, partyID)
	if err != nil {
		return nil, err
	}
	names := make(Nicknames, len(members))
	for _, m := range members {
		if m.MemberNickname != "" {
			names[m.UserID] = m.MemberNickname
			continue
		}
		names[m.UserID] = m.UserID.String()[:8]
	}
	return names, nil
}

// Nicknames maps user ids to display names.
type Nicknames map[uuid.UUID]string

// Nickname resolves a display name, satisfying the leaderboard's resolver.
func (n Nicknames) Nickname(userID uuid.UUID) string {
	if name, ok := n[userID]; ok {
		return name
	}
	return userID.String()[:8]
}

// FilterActive keeps only members with status ACTIVE.
func FilterActive(members []models.PartyMember) []models.PartyMember {
	active := make([]models.PartyMember, 0, len(members))
	for _, m := range members {
		if m.Status == models.MemberStatusActive {
			active = append(active, m)
		}
	}
	return active
}

// ValidateParty checks the party invariants: exactly one owner, the creator
// holds the owner role, and updated-at never precedes created-at.
func ValidateParty(party *models.Party, members []models.PartyMember) error {
	if party.UpdatedAt.Before(party.CreatedAt) {
		return fmt.Errorf("updated_at precedes created_at")
	}

	owners := 0
	creatorIsOwner := false
	for _, m := range members {
		if m.Role != models.PartyRoleOwner {
			continue
		}
		if m.Status == models.MemberStatusLeft {
			continue
		}
		owners++
		if m.UserID == party.CreatedBy {
			creatorIsOwner = true
		}
	}
	if owners != 1 {
		return fmt.Errorf("expected exactly one owner, found %d", owners)
	}
	if !creatorIsOwner {
		return fmt.Errorf("creator %s is not the owner", party.CreatedBy)
	}
	return nil
}

package models

import (
	"time"

	"github.com/google/uuid"
)

// PartyRole defines a member's role within a party.
type PartyRole string

const (
	PartyRoleOwner     PartyRole = "OWNER"
	PartyRoleModerator PartyRole = "MODERATOR"
	PartyRoleMember    PartyRole = "MEMBER"
)

// MemberStatus defines the membership lifecycle state.
type MemberStatus string

const (
	MemberStatusActive   MemberStatus = "ACTIVE"
	MemberStatusInvited  MemberStatus = "INVITED"
	MemberStatusDeclined MemberStatus = "DECLINED"
	MemberStatusLeft     MemberStatus = "LEFT"
)

// PartySettings holds configuration for a party.
type PartySettings struct {
	MaxMembers         int  `json:"max_members"`
	IsPublic           bool `json:"is_public"`
	InvitationRequired bool `json:"invitation_required"`
}

// Party is a named group of users who race and compare puzzle solving.
type Party struct {
	PartyID     uuid.UUID      `json:"party_id"`
	Name        string         `json:"name"`
	Description string         `json:"description,omitempty"`
	CreatedBy   uuid.UUID      `json:"created_by"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	Settings    *PartySettings `json:"settings,omitempty"`
}

// PartyMember links a user to a party with a role and membership status.
// Members with status LEFT retain history but are excluded from active rosters.
type PartyMember struct {
	UserID         uuid.UUID    `json:"user_id"`
	PartyID        uuid.UUID    `json:"party_id"`
	MemberNickname string       `json:"member_nickname,omitempty"`
	Role           PartyRole    `json:"role"`
	JoinedAt       time.Time    `json:"joined_at"`
	Status         MemberStatus `json:"status"`
}

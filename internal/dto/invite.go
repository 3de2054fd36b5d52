package dto

import (
	"encoding/json"
	"time"
)

type IssueInvitationDTO struct {
	Email string `json:"email" validate:"required,email"`
}

type IssueActivationDTO struct {
	Email    string          `json:"email" validate:"required,email"`
	Metadata json.RawMessage `json:"metadata,omitempty"`
}

type IssuedTokenDTO struct {
	Email     string    `json:"email"`
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

type AccountAcceptDTO struct {
	Password string `json:"password" validate:"required,min=8,max=72"`
	Name     string `json:"name" validate:"max=255"`
}

type GroupAcceptDTO struct {
	Name string `json:"name" validate:"required,max=255"`
}

// TokenStatusDTO is returned by every verification endpoint.
type TokenStatusDTO struct {
	Status    string          `json:"status"`
	Email     string          `json:"email"`
	ExpiresAt time.Time       `json:"expires_at"`
	GroupID   uint            `json:"group_id,omitempty"`
	GroupName string          `json:"group_name,omitempty"`
	InvitedBy string          `json:"invited_by,omitempty"`
	Metadata  json.RawMessage `json:"metadata,omitempty"`
}

type AcceptResultDTO struct {
	Status   string `json:"status"`
	UserID   uint   `json:"user_id,omitempty"`
	GroupID  uint   `json:"group_id,omitempty"`
	MemberID uint   `json:"member_id,omitempty"`
}

type GroupCreateDTO struct {
	Name string `json:"name" validate:"required,max=255"`
}

type GroupResponseDTO struct {
	ID         uint      `json:"id"`
	Name       string    `json:"name"`
	OwnerEmail string    `json:"owner_email"`
	CreatedAt  time.Time `json:"created_at"`
}

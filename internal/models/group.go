package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/HammerMeetNail/paddock/internal/relation"
)

type Group struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	OwnerID   uuid.UUID `json:"owner_id"`
	IsOpen    bool      `json:"is_open"`
	CreatedAt time.Time `json:"created_at"`
}

type CreateGroupParams struct {
	Name   string `json:"name"`
	IsOpen bool   `json:"is_open"`
}

// GroupRelation is the stored (user, group) relation row. Absence of a row
// means relation.GroupNone.
type GroupRelation struct {
	ID        uuid.UUID                    `json:"id"`
	GroupID   uuid.UUID                    `json:"group_id"`
	UserID    uuid.UUID                    `json:"user_id"`
	Status    relation.GroupRelationStatus `json:"status"`
	CreatedAt time.Time                    `json:"created_at"`
	UpdatedAt time.Time                    `json:"updated_at"`
}

type GroupMember struct {
	UserID   uuid.UUID `json:"user_id"`
	Username string    `json:"username"`
}

// GroupRelationState carries a group status on the wire. Status is a
// pointer so a response without the field can be told apart from 0
// (InvitePending).
type GroupRelationState struct {
	Status    *relation.GroupRelationStatus `json:"status"`
	RequestID *uuid.UUID                    `json:"request_id,omitempty"`
}

// GroupState builds a response for a known status.
func GroupState(s relation.GroupRelationStatus) GroupRelationState {
	return GroupRelationState{Status: &s}
}

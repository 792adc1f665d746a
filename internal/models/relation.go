package models

import (
	"github.com/google/uuid"

	"github.com/HammerMeetNail/paddock/internal/relation"
)

// Relation is the client's cached copy of one directional relation. It is
// read-through and may be stale; the backend owns the authoritative value.
type Relation struct {
	SubjectID      uuid.UUID       `json:"subject_id"`
	ObjectID       uuid.UUID       `json:"object_id"`
	Status         relation.Status `json:"status"`
	NotificationID *uuid.UUID      `json:"notification_id,omitempty"`
}

// FriendshipStatusResponse carries the result of a friendship mutation.
type FriendshipStatusResponse struct {
	Status  relation.FriendshipStatus `json:"status"`
	Message string                    `json:"message,omitempty"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}

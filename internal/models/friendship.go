package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/HammerMeetNail/paddock/internal/relation"
)

// FriendshipRowStatus is the stored state of a friendships row. The
// viewer-facing relation.FriendshipStatus is derived from it together with
// bans and request direction.
type FriendshipRowStatus string

const (
	FriendshipRowPending  FriendshipRowStatus = "pending"
	FriendshipRowAccepted FriendshipRowStatus = "accepted"
)

type Friendship struct {
	ID        uuid.UUID           `json:"id"`
	UserID    uuid.UUID           `json:"user_id"`
	FriendID  uuid.UUID           `json:"friend_id"`
	Status    FriendshipRowStatus `json:"status"`
	CreatedAt time.Time           `json:"created_at"`
}

type FriendWithUser struct {
	Friendship
	FriendUsername string `json:"friend_username"`
}

// FriendshipState is the answer to "what is my relation to this user".
type FriendshipState struct {
	Status relation.FriendshipStatus `json:"status"`
	// NotificationID links a Received status to the pending request's
	// notification so it can be answered in one step.
	NotificationID *uuid.UUID `json:"notification_id,omitempty"`
}

type FriendUsernameRequest struct {
	Username string `json:"username"`
}

type RespondFriendRequest struct {
	NotificationID *uuid.UUID `json:"notification_id,omitempty"`
}

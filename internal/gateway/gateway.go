// Package gateway is the boundary between the relation policy and the
// backend. Gateway describes the contract; Client speaks it over HTTP and
// Cache adds a read-through status cache in front of any Gateway.
package gateway

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/HammerMeetNail/paddock/internal/models"
	"github.com/HammerMeetNail/paddock/internal/relation"
	"github.com/HammerMeetNail/paddock/internal/session"
)

var (
	// ErrLoginRequired is returned without contacting the backend when the
	// session has no usable token, and after a 401.
	ErrLoginRequired = session.ErrLoginRequired
	// ErrTransport means no response was received.
	ErrTransport = errors.New("backend unreachable")
	// ErrConflict means the backend refused the action for the current
	// relation state.
	ErrConflict = errors.New("action not permitted")
	// ErrNotFound means the user, group or request does not exist.
	ErrNotFound = errors.New("not found")
	// ErrBadRequest means the backend rejected the input.
	ErrBadRequest = errors.New("bad request")
	// ErrUnexpected covers any other response.
	ErrUnexpected = errors.New("unexpected response")
)

// APIError is a non-2xx response. It unwraps to one of the sentinel errors
// above so callers can match with errors.Is.
type APIError struct {
	StatusCode int
	Message    string
	kind       error
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("%v (HTTP %d)", e.kind, e.StatusCode)
	}
	return fmt.Sprintf("%v (HTTP %d): %s", e.kind, e.StatusCode, e.Message)
}

func (e *APIError) Unwrap() error {
	return e.kind
}

// TokenSource supplies the bearer token and is told to forget it when the
// backend rejects it.
type TokenSource interface {
	Token() (string, error)
	Clear() error
}

// Gateway is every relation read and write the client performs.
type Gateway interface {
	FriendshipStatus(ctx context.Context, username string) (models.FriendshipState, error)
	SendFriendRequest(ctx context.Context, username string) (relation.FriendshipStatus, error)
	ConfirmFriendRequest(ctx context.Context, username string, notificationID *uuid.UUID) (relation.FriendshipStatus, error)
	RejectFriendRequest(ctx context.Context, username string, notificationID *uuid.UUID) (relation.FriendshipStatus, error)
	CancelFriendRequest(ctx context.Context, username string) (relation.FriendshipStatus, error)
	BanUser(ctx context.Context, username string) (relation.FriendshipStatus, error)
	UnbanUser(ctx context.Context, username string) (relation.FriendshipStatus, error)
	RemoveFriend(ctx context.Context, username string) (relation.FriendshipStatus, error)
	ListFriends(ctx context.Context) ([]models.FriendWithUser, error)

	Group(ctx context.Context, ref string) (models.Group, error)
	UserGroups(ctx context.Context, username string) ([]models.Group, error)
	GroupMembers(ctx context.Context, groupID uuid.UUID) ([]models.GroupMember, error)
	GroupRelation(ctx context.Context, groupName string) (relation.GroupRelationStatus, error)
	GroupRelationOfUser(ctx context.Context, username string, groupID uuid.UUID) (relation.GroupRelationStatus, error)
	RequestGroupJoin(ctx context.Context, groupRef string) (relation.GroupRelationStatus, error)
	InviteUserToGroup(ctx context.Context, groupID uuid.UUID, username string) (relation.GroupRelationStatus, error)
	CancelInvite(ctx context.Context, groupID, userID uuid.UUID) (relation.GroupRelationStatus, error)
	ConfirmJoinRequest(ctx context.Context, requestID uuid.UUID) (relation.GroupRelationStatus, error)
	RejectJoinRequest(ctx context.Context, requestID uuid.UUID) (relation.GroupRelationStatus, error)
	BanUserFromGroup(ctx context.Context, groupID uuid.UUID, username string) (relation.GroupRelationStatus, error)
	UnbanUserFromGroup(ctx context.Context, groupID uuid.UUID, username string) (relation.GroupRelationStatus, error)
	BlockGroup(ctx context.Context, groupRef string) (relation.GroupRelationStatus, error)
	UnblockGroup(ctx context.Context, groupRef string) (relation.GroupRelationStatus, error)

	Notifications(ctx context.Context) ([]models.Notification, error)
	// RespondToRequest answers a pending request through its notification.
	// The backend moves the relation and retires the notification together.
	RespondToRequest(ctx context.Context, notificationID uuid.UUID, accept bool) (relation.Status, error)
}

// Invalidator is implemented by gateways that cache reads. Bindings call it
// on mount so every mount refetches.
type Invalidator interface {
	InvalidateFriendship(username string)
	InvalidateGroup(groupName string)
}

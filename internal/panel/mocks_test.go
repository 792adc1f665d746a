package panel

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/HammerMeetNail/paddock/internal/gateway"
	"github.com/HammerMeetNail/paddock/internal/models"
	"github.com/HammerMeetNail/paddock/internal/relation"
)

// mockGateway fakes the calls the bindings make. Calls records every
// method that reached it, in order.
type mockGateway struct {
	gateway.Gateway

	mu    sync.Mutex
	Calls []string

	FriendshipStatusFunc    func(ctx context.Context, username string) (models.FriendshipState, error)
	SendFriendRequestFunc   func(ctx context.Context, username string) (relation.FriendshipStatus, error)
	CancelFriendRequestFunc func(ctx context.Context, username string) (relation.FriendshipStatus, error)
	ConfirmFriendFunc       func(ctx context.Context, username string, notificationID *uuid.UUID) (relation.FriendshipStatus, error)
	RejectFriendFunc        func(ctx context.Context, username string, notificationID *uuid.UUID) (relation.FriendshipStatus, error)
	BanUserFunc             func(ctx context.Context, username string) (relation.FriendshipStatus, error)
	UnbanUserFunc           func(ctx context.Context, username string) (relation.FriendshipStatus, error)
	RemoveFriendFunc        func(ctx context.Context, username string) (relation.FriendshipStatus, error)
	ListFriendsFunc         func(ctx context.Context) ([]models.FriendWithUser, error)
	UserGroupsFunc          func(ctx context.Context, username string) ([]models.Group, error)
	GroupMembersFunc        func(ctx context.Context, groupID uuid.UUID) ([]models.GroupMember, error)
	GroupRelationFunc       func(ctx context.Context, groupName string) (relation.GroupRelationStatus, error)
	GroupRelationOfUserFunc func(ctx context.Context, username string, groupID uuid.UUID) (relation.GroupRelationStatus, error)
	RequestGroupJoinFunc    func(ctx context.Context, groupRef string) (relation.GroupRelationStatus, error)
	InviteUserToGroupFunc   func(ctx context.Context, groupID uuid.UUID, username string) (relation.GroupRelationStatus, error)
	CancelInviteFunc        func(ctx context.Context, groupID, userID uuid.UUID) (relation.GroupRelationStatus, error)
	RespondToRequestFunc    func(ctx context.Context, notificationID uuid.UUID, accept bool) (relation.Status, error)
}

func (m *mockGateway) record(name string) {
	m.mu.Lock()
	m.Calls = append(m.Calls, name)
	m.mu.Unlock()
}

func (m *mockGateway) calls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.Calls...)
}

func (m *mockGateway) FriendshipStatus(ctx context.Context, username string) (models.FriendshipState, error) {
	m.record("FriendshipStatus")
	return m.FriendshipStatusFunc(ctx, username)
}

func (m *mockGateway) SendFriendRequest(ctx context.Context, username string) (relation.FriendshipStatus, error) {
	m.record("SendFriendRequest")
	return m.SendFriendRequestFunc(ctx, username)
}

func (m *mockGateway) CancelFriendRequest(ctx context.Context, username string) (relation.FriendshipStatus, error) {
	m.record("CancelFriendRequest")
	return m.CancelFriendRequestFunc(ctx, username)
}

func (m *mockGateway) ConfirmFriendRequest(ctx context.Context, username string, notificationID *uuid.UUID) (relation.FriendshipStatus, error) {
	m.record("ConfirmFriendRequest")
	return m.ConfirmFriendFunc(ctx, username, notificationID)
}

func (m *mockGateway) RejectFriendRequest(ctx context.Context, username string, notificationID *uuid.UUID) (relation.FriendshipStatus, error) {
	m.record("RejectFriendRequest")
	return m.RejectFriendFunc(ctx, username, notificationID)
}

func (m *mockGateway) BanUser(ctx context.Context, username string) (relation.FriendshipStatus, error) {
	m.record("BanUser")
	return m.BanUserFunc(ctx, username)
}

func (m *mockGateway) UnbanUser(ctx context.Context, username string) (relation.FriendshipStatus, error) {
	m.record("UnbanUser")
	return m.UnbanUserFunc(ctx, username)
}

func (m *mockGateway) RemoveFriend(ctx context.Context, username string) (relation.FriendshipStatus, error) {
	m.record("RemoveFriend")
	return m.RemoveFriendFunc(ctx, username)
}

func (m *mockGateway) ListFriends(ctx context.Context) ([]models.FriendWithUser, error) {
	m.record("ListFriends")
	return m.ListFriendsFunc(ctx)
}

func (m *mockGateway) UserGroups(ctx context.Context, username string) ([]models.Group, error) {
	m.record("UserGroups")
	return m.UserGroupsFunc(ctx, username)
}

func (m *mockGateway) GroupMembers(ctx context.Context, groupID uuid.UUID) ([]models.GroupMember, error) {
	m.record("GroupMembers")
	return m.GroupMembersFunc(ctx, groupID)
}

func (m *mockGateway) GroupRelation(ctx context.Context, groupName string) (relation.GroupRelationStatus, error) {
	m.record("GroupRelation")
	return m.GroupRelationFunc(ctx, groupName)
}

func (m *mockGateway) GroupRelationOfUser(ctx context.Context, username string, groupID uuid.UUID) (relation.GroupRelationStatus, error) {
	m.record("GroupRelationOfUser")
	return m.GroupRelationOfUserFunc(ctx, username, groupID)
}

func (m *mockGateway) RequestGroupJoin(ctx context.Context, groupRef string) (relation.GroupRelationStatus, error) {
	m.record("RequestGroupJoin")
	return m.RequestGroupJoinFunc(ctx, groupRef)
}

func (m *mockGateway) InviteUserToGroup(ctx context.Context, groupID uuid.UUID, username string) (relation.GroupRelationStatus, error) {
	m.record("InviteUserToGroup")
	return m.InviteUserToGroupFunc(ctx, groupID, username)
}

func (m *mockGateway) CancelInvite(ctx context.Context, groupID, userID uuid.UUID) (relation.GroupRelationStatus, error) {
	m.record("CancelInvite")
	return m.CancelInviteFunc(ctx, groupID, userID)
}

func (m *mockGateway) RespondToRequest(ctx context.Context, notificationID uuid.UUID, accept bool) (relation.Status, error) {
	m.record("RespondToRequest")
	return m.RespondToRequestFunc(ctx, notificationID, accept)
}

func statusOf(s relation.FriendshipStatus) func(context.Context, string) (models.FriendshipState, error) {
	return func(context.Context, string) (models.FriendshipState, error) {
		return models.FriendshipState{Status: s}, nil
	}
}

func returns(s relation.FriendshipStatus, err error) func(context.Context, string) (relation.FriendshipStatus, error) {
	return func(context.Context, string) (relation.FriendshipStatus, error) {
		return s, err
	}
}

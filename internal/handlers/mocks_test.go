package handlers

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/HammerMeetNail/paddock/internal/models"
	"github.com/HammerMeetNail/paddock/internal/relation"
)

var errNotMocked = errors.New("not mocked")

type mockUserService struct {
	CreateFunc        func(ctx context.Context, params models.CreateUserParams) (*models.User, error)
	GetByIDFunc       func(ctx context.Context, id uuid.UUID) (*models.User, error)
	GetByUsernameFunc func(ctx context.Context, username string) (*models.User, error)
}

func (m *mockUserService) Create(ctx context.Context, params models.CreateUserParams) (*models.User, error) {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, params)
	}
	return nil, errNotMocked
}

func (m *mockUserService) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	return nil, errNotMocked
}

func (m *mockUserService) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	if m.GetByUsernameFunc != nil {
		return m.GetByUsernameFunc(ctx, username)
	}
	return nil, errNotMocked
}

type mockAuthService struct {
	RegisterFunc      func(ctx context.Context, req models.RegisterRequest) (*models.AuthResponse, error)
	LoginFunc         func(ctx context.Context, username, password string) (*models.AuthResponse, error)
	ValidateTokenFunc func(ctx context.Context, token string) (*models.Claims, error)
	LogoutFunc        func(ctx context.Context, claims *models.Claims) error
}

func (m *mockAuthService) Register(ctx context.Context, req models.RegisterRequest) (*models.AuthResponse, error) {
	if m.RegisterFunc != nil {
		return m.RegisterFunc(ctx, req)
	}
	return nil, errNotMocked
}

func (m *mockAuthService) Login(ctx context.Context, username, password string) (*models.AuthResponse, error) {
	if m.LoginFunc != nil {
		return m.LoginFunc(ctx, username, password)
	}
	return nil, errNotMocked
}

func (m *mockAuthService) ValidateToken(ctx context.Context, token string) (*models.Claims, error) {
	if m.ValidateTokenFunc != nil {
		return m.ValidateTokenFunc(ctx, token)
	}
	return nil, errNotMocked
}

func (m *mockAuthService) Logout(ctx context.Context, claims *models.Claims) error {
	if m.LogoutFunc != nil {
		return m.LogoutFunc(ctx, claims)
	}
	return nil
}

type friendshipFunc func(ctx context.Context, userID uuid.UUID, username string) (relation.FriendshipStatus, error)

func callFriendship(f friendshipFunc, ctx context.Context, userID uuid.UUID, username string) (relation.FriendshipStatus, error) {
	if f != nil {
		return f(ctx, userID, username)
	}
	return 0, errNotMocked
}

type mockFriendshipService struct {
	StatusFunc      func(ctx context.Context, viewerID uuid.UUID, username string) (models.FriendshipState, error)
	SendRequestFunc friendshipFunc
	ConfirmFunc     friendshipFunc
	RejectFunc      friendshipFunc
	CancelFunc      friendshipFunc
	RemoveFunc      friendshipFunc
	ListFriendsFunc func(ctx context.Context, userID uuid.UUID) ([]models.FriendWithUser, error)
}

func (m *mockFriendshipService) Status(ctx context.Context, viewerID uuid.UUID, username string) (models.FriendshipState, error) {
	if m.StatusFunc != nil {
		return m.StatusFunc(ctx, viewerID, username)
	}
	return models.FriendshipState{}, errNotMocked
}

func (m *mockFriendshipService) SendRequest(ctx context.Context, userID uuid.UUID, username string) (relation.FriendshipStatus, error) {
	return callFriendship(m.SendRequestFunc, ctx, userID, username)
}

func (m *mockFriendshipService) Confirm(ctx context.Context, userID uuid.UUID, username string) (relation.FriendshipStatus, error) {
	return callFriendship(m.ConfirmFunc, ctx, userID, username)
}

func (m *mockFriendshipService) Reject(ctx context.Context, userID uuid.UUID, username string) (relation.FriendshipStatus, error) {
	return callFriendship(m.RejectFunc, ctx, userID, username)
}

func (m *mockFriendshipService) Cancel(ctx context.Context, userID uuid.UUID, username string) (relation.FriendshipStatus, error) {
	return callFriendship(m.CancelFunc, ctx, userID, username)
}

func (m *mockFriendshipService) Remove(ctx context.Context, userID uuid.UUID, username string) (relation.FriendshipStatus, error) {
	return callFriendship(m.RemoveFunc, ctx, userID, username)
}

func (m *mockFriendshipService) ListFriends(ctx context.Context, userID uuid.UUID) ([]models.FriendWithUser, error) {
	if m.ListFriendsFunc != nil {
		return m.ListFriendsFunc(ctx, userID)
	}
	return nil, errNotMocked
}

type mockBanService struct {
	BanFunc        friendshipFunc
	UnbanFunc      friendshipFunc
	ListBannedFunc func(ctx context.Context, bannerID uuid.UUID) ([]models.BannedUser, error)
}

func (m *mockBanService) Ban(ctx context.Context, bannerID uuid.UUID, username string) (relation.FriendshipStatus, error) {
	return callFriendship(m.BanFunc, ctx, bannerID, username)
}

func (m *mockBanService) Unban(ctx context.Context, bannerID uuid.UUID, username string) (relation.FriendshipStatus, error) {
	return callFriendship(m.UnbanFunc, ctx, bannerID, username)
}

func (m *mockBanService) ListBanned(ctx context.Context, bannerID uuid.UUID) ([]models.BannedUser, error) {
	if m.ListBannedFunc != nil {
		return m.ListBannedFunc(ctx, bannerID)
	}
	return nil, errNotMocked
}

type mockGroupService struct {
	CreateFunc         func(ctx context.Context, ownerID uuid.UUID, params models.CreateGroupParams) (*models.Group, error)
	GetFunc            func(ctx context.Context, ref string) (*models.Group, error)
	ListForUserFunc    func(ctx context.Context, viewerID uuid.UUID, username string) ([]models.Group, error)
	MembersFunc        func(ctx context.Context, groupID uuid.UUID) ([]models.GroupMember, error)
	RelationFunc       func(ctx context.Context, userID uuid.UUID, ref string) (models.GroupRelationState, error)
	RelationOfUserFunc func(ctx context.Context, adminID, groupID uuid.UUID, username string) (models.GroupRelationState, error)
	RequestJoinFunc    func(ctx context.Context, userID uuid.UUID, ref string) (relation.GroupRelationStatus, error)
	InviteFunc         func(ctx context.Context, adminID, groupID uuid.UUID, username string) (relation.GroupRelationStatus, error)
	CancelInviteFunc   func(ctx context.Context, adminID, groupID, userID uuid.UUID) (relation.GroupRelationStatus, error)
	ConfirmJoinFunc    func(ctx context.Context, adminID, requestID uuid.UUID) (relation.GroupRelationStatus, error)
	RejectJoinFunc     func(ctx context.Context, adminID, requestID uuid.UUID) (relation.GroupRelationStatus, error)
	BanFunc            func(ctx context.Context, adminID, groupID uuid.UUID, username string) (relation.GroupRelationStatus, error)
	UnbanFunc          func(ctx context.Context, adminID, groupID uuid.UUID, username string) (relation.GroupRelationStatus, error)
	BlockFunc          func(ctx context.Context, userID uuid.UUID, ref string) (relation.GroupRelationStatus, error)
	UnblockFunc        func(ctx context.Context, userID uuid.UUID, ref string) (relation.GroupRelationStatus, error)
}

func (m *mockGroupService) Create(ctx context.Context, ownerID uuid.UUID, params models.CreateGroupParams) (*models.Group, error) {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, ownerID, params)
	}
	return nil, errNotMocked
}

func (m *mockGroupService) Get(ctx context.Context, ref string) (*models.Group, error) {
	if m.GetFunc != nil {
		return m.GetFunc(ctx, ref)
	}
	return nil, errNotMocked
}

func (m *mockGroupService) ListForUser(ctx context.Context, viewerID uuid.UUID, username string) ([]models.Group, error) {
	if m.ListForUserFunc != nil {
		return m.ListForUserFunc(ctx, viewerID, username)
	}
	return nil, errNotMocked
}

func (m *mockGroupService) Members(ctx context.Context, groupID uuid.UUID) ([]models.GroupMember, error) {
	if m.MembersFunc != nil {
		return m.MembersFunc(ctx, groupID)
	}
	return nil, errNotMocked
}

func (m *mockGroupService) Relation(ctx context.Context, userID uuid.UUID, ref string) (models.GroupRelationState, error) {
	if m.RelationFunc != nil {
		return m.RelationFunc(ctx, userID, ref)
	}
	return models.GroupRelationState{}, errNotMocked
}

func (m *mockGroupService) RelationOfUser(ctx context.Context, adminID, groupID uuid.UUID, username string) (models.GroupRelationState, error) {
	if m.RelationOfUserFunc != nil {
		return m.RelationOfUserFunc(ctx, adminID, groupID, username)
	}
	return models.GroupRelationState{}, errNotMocked
}

func (m *mockGroupService) RequestJoin(ctx context.Context, userID uuid.UUID, ref string) (relation.GroupRelationStatus, error) {
	if m.RequestJoinFunc != nil {
		return m.RequestJoinFunc(ctx, userID, ref)
	}
	return 0, errNotMocked
}

func (m *mockGroupService) Invite(ctx context.Context, adminID, groupID uuid.UUID, username string) (relation.GroupRelationStatus, error) {
	if m.InviteFunc != nil {
		return m.InviteFunc(ctx, adminID, groupID, username)
	}
	return 0, errNotMocked
}

func (m *mockGroupService) CancelInvite(ctx context.Context, adminID, groupID, userID uuid.UUID) (relation.GroupRelationStatus, error) {
	if m.CancelInviteFunc != nil {
		return m.CancelInviteFunc(ctx, adminID, groupID, userID)
	}
	return 0, errNotMocked
}

func (m *mockGroupService) ConfirmJoin(ctx context.Context, adminID, requestID uuid.UUID) (relation.GroupRelationStatus, error) {
	if m.ConfirmJoinFunc != nil {
		return m.ConfirmJoinFunc(ctx, adminID, requestID)
	}
	return 0, errNotMocked
}

func (m *mockGroupService) RejectJoin(ctx context.Context, adminID, requestID uuid.UUID) (relation.GroupRelationStatus, error) {
	if m.RejectJoinFunc != nil {
		return m.RejectJoinFunc(ctx, adminID, requestID)
	}
	return 0, errNotMocked
}

func (m *mockGroupService) Ban(ctx context.Context, adminID, groupID uuid.UUID, username string) (relation.GroupRelationStatus, error) {
	if m.BanFunc != nil {
		return m.BanFunc(ctx, adminID, groupID, username)
	}
	return 0, errNotMocked
}

func (m *mockGroupService) Unban(ctx context.Context, adminID, groupID uuid.UUID, username string) (relation.GroupRelationStatus, error) {
	if m.UnbanFunc != nil {
		return m.UnbanFunc(ctx, adminID, groupID, username)
	}
	return 0, errNotMocked
}

func (m *mockGroupService) Block(ctx context.Context, userID uuid.UUID, ref string) (relation.GroupRelationStatus, error) {
	if m.BlockFunc != nil {
		return m.BlockFunc(ctx, userID, ref)
	}
	return 0, errNotMocked
}

func (m *mockGroupService) Unblock(ctx context.Context, userID uuid.UUID, ref string) (relation.GroupRelationStatus, error) {
	if m.UnblockFunc != nil {
		return m.UnblockFunc(ctx, userID, ref)
	}
	return 0, errNotMocked
}

type mockNotificationService struct {
	ListFunc     func(ctx context.Context, userID uuid.UUID) ([]models.Notification, int, error)
	MarkReadFunc func(ctx context.Context, userID, notificationID uuid.UUID) error
	RespondFunc  func(ctx context.Context, userID, notificationID uuid.UUID, accept bool) (*models.RespondResponse, error)
}

func (m *mockNotificationService) List(ctx context.Context, userID uuid.UUID) ([]models.Notification, int, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, userID)
	}
	return nil, 0, errNotMocked
}

func (m *mockNotificationService) MarkRead(ctx context.Context, userID, notificationID uuid.UUID) error {
	if m.MarkReadFunc != nil {
		return m.MarkReadFunc(ctx, userID, notificationID)
	}
	return errNotMocked
}

func (m *mockNotificationService) Respond(ctx context.Context, userID, notificationID uuid.UUID, accept bool) (*models.RespondResponse, error) {
	if m.RespondFunc != nil {
		return m.RespondFunc(ctx, userID, notificationID, accept)
	}
	return nil, errNotMocked
}

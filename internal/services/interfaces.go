package services

import (
	"context"

	"github.com/google/uuid"

	"github.com/HammerMeetNail/paddock/internal/models"
	"github.com/HammerMeetNail/paddock/internal/relation"
)

// UserServiceInterface defines the contract for user operations.
type UserServiceInterface interface {
	Create(ctx context.Context, params models.CreateUserParams) (*models.User, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
}

// AuthServiceInterface defines the contract for authentication operations.
type AuthServiceInterface interface {
	Register(ctx context.Context, req models.RegisterRequest) (*models.AuthResponse, error)
	Login(ctx context.Context, username, password string) (*models.AuthResponse, error)
	ValidateToken(ctx context.Context, token string) (*models.Claims, error)
	Logout(ctx context.Context, claims *models.Claims) error
}

// FriendshipServiceInterface defines the contract for friendship operations.
type FriendshipServiceInterface interface {
	Status(ctx context.Context, viewerID uuid.UUID, username string) (models.FriendshipState, error)
	SendRequest(ctx context.Context, userID uuid.UUID, username string) (relation.FriendshipStatus, error)
	Confirm(ctx context.Context, userID uuid.UUID, username string) (relation.FriendshipStatus, error)
	Reject(ctx context.Context, userID uuid.UUID, username string) (relation.FriendshipStatus, error)
	Cancel(ctx context.Context, userID uuid.UUID, username string) (relation.FriendshipStatus, error)
	Remove(ctx context.Context, userID uuid.UUID, username string) (relation.FriendshipStatus, error)
	ListFriends(ctx context.Context, userID uuid.UUID) ([]models.FriendWithUser, error)
}

// BanServiceInterface defines the contract for user-to-user bans.
type BanServiceInterface interface {
	Ban(ctx context.Context, bannerID uuid.UUID, username string) (relation.FriendshipStatus, error)
	Unban(ctx context.Context, bannerID uuid.UUID, username string) (relation.FriendshipStatus, error)
	ListBanned(ctx context.Context, bannerID uuid.UUID) ([]models.BannedUser, error)
}

// GroupServiceInterface defines the contract for group membership operations.
type GroupServiceInterface interface {
	Create(ctx context.Context, ownerID uuid.UUID, params models.CreateGroupParams) (*models.Group, error)
	Get(ctx context.Context, ref string) (*models.Group, error)
	ListForUser(ctx context.Context, viewerID uuid.UUID, username string) ([]models.Group, error)
	Members(ctx context.Context, groupID uuid.UUID) ([]models.GroupMember, error)
	Relation(ctx context.Context, userID uuid.UUID, ref string) (models.GroupRelationState, error)
	RelationOfUser(ctx context.Context, adminID, groupID uuid.UUID, username string) (models.GroupRelationState, error)
	RequestJoin(ctx context.Context, userID uuid.UUID, ref string) (relation.GroupRelationStatus, error)
	Invite(ctx context.Context, adminID, groupID uuid.UUID, username string) (relation.GroupRelationStatus, error)
	CancelInvite(ctx context.Context, adminID, groupID, userID uuid.UUID) (relation.GroupRelationStatus, error)
	ConfirmJoin(ctx context.Context, adminID, requestID uuid.UUID) (relation.GroupRelationStatus, error)
	RejectJoin(ctx context.Context, adminID, requestID uuid.UUID) (relation.GroupRelationStatus, error)
	Ban(ctx context.Context, adminID, groupID uuid.UUID, username string) (relation.GroupRelationStatus, error)
	Unban(ctx context.Context, adminID, groupID uuid.UUID, username string) (relation.GroupRelationStatus, error)
	Block(ctx context.Context, userID uuid.UUID, ref string) (relation.GroupRelationStatus, error)
	Unblock(ctx context.Context, userID uuid.UUID, ref string) (relation.GroupRelationStatus, error)
}

// NotificationServiceInterface defines the contract for notifications and
// answering the requests they carry.
type NotificationServiceInterface interface {
	List(ctx context.Context, userID uuid.UUID) ([]models.Notification, int, error)
	MarkRead(ctx context.Context, userID, notificationID uuid.UUID) error
	Respond(ctx context.Context, userID, notificationID uuid.UUID, accept bool) (*models.RespondResponse, error)
}

var (
	_ UserServiceInterface         = (*UserService)(nil)
	_ AuthServiceInterface         = (*AuthService)(nil)
	_ FriendshipServiceInterface   = (*FriendshipService)(nil)
	_ BanServiceInterface          = (*BanService)(nil)
	_ GroupServiceInterface        = (*GroupService)(nil)
	_ NotificationServiceInterface = (*NotificationService)(nil)
)

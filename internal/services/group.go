package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/HammerMeetNail/paddock/internal/models"
	"github.com/HammerMeetNail/paddock/internal/relation"
)

var (
	ErrGroupNotFound         = errors.New("group not found")
	ErrGroupNameTaken        = errors.New("group name already taken")
	ErrInvalidGroupName      = errors.New("group name must be 3-100 characters")
	ErrNotGroupAdmin         = errors.New("only the group owner can do that")
	ErrCannotTargetOwner     = errors.New("the group owner cannot be targeted")
	ErrGroupRelationConflict = errors.New("current group relation does not allow that")
	ErrNoPendingGroupRequest = errors.New("no pending group request")
	ErrGroupNotBlocked       = errors.New("group is not blocked")
)

const (
	minGroupNameLength = 3
	maxGroupNameLength = 100
)

type GroupService struct {
	db DB
}

func NewGroupService(db DB) *GroupService {
	return &GroupService{db: db}
}

// Create makes a group owned by ownerID, who joins it as its first member.
func (s *GroupService) Create(ctx context.Context, ownerID uuid.UUID, params models.CreateGroupParams) (*models.Group, error) {
	name := strings.TrimSpace(params.Name)
	if n := len([]rune(name)); n < minGroupNameLength || n > maxGroupNameLength {
		return nil, ErrInvalidGroupName
	}
	if _, err := uuid.Parse(name); err == nil {
		// Names double as references; a UUID-shaped name would be ambiguous.
		return nil, ErrInvalidGroupName
	}

	group := &models.Group{}
	err := inTx(ctx, s.db, "create group", func(tx Tx) error {
		err := tx.QueryRow(ctx,
			`INSERT INTO groups (name, owner_id, is_open)
			 VALUES ($1, $2, $3)
			 RETURNING id, name, owner_id, is_open, created_at`,
			name, ownerID, params.IsOpen,
		).Scan(&group.ID, &group.Name, &group.OwnerID, &group.IsOpen, &group.CreatedAt)
		if isUniqueViolation(err) {
			return ErrGroupNameTaken
		}
		if err != nil {
			return fmt.Errorf("creating group: %w", err)
		}
		_, err = setGroupRelation(ctx, tx, group.ID, ownerID, relation.GroupAccepted)
		return err
	})
	if err != nil {
		return nil, err
	}
	return group, nil
}

// Get resolves ref as a group id first, then as a case-insensitive name.
func (s *GroupService) Get(ctx context.Context, ref string) (*models.Group, error) {
	return getGroup(ctx, s.db, ref)
}

// ListForUser returns the groups username belongs to, as seen by viewerID.
func (s *GroupService) ListForUser(ctx context.Context, viewerID uuid.UUID, username string) ([]models.Group, error) {
	userID, err := lookupUserID(ctx, s.db, username)
	if err != nil {
		return nil, err
	}
	status, err := currentFriendship(ctx, s.db, viewerID, userID)
	if err != nil {
		return nil, err
	}
	if status == relation.FriendshipBanned {
		return nil, ErrUserBanned
	}

	rows, err := s.db.Query(ctx,
		`SELECT g.id, g.name, g.owner_id, g.is_open, g.created_at
		 FROM groups g
		 JOIN group_relations gr ON gr.group_id = g.id
		 WHERE gr.user_id = $1 AND gr.status = $2
		 ORDER BY LOWER(g.name)`,
		userID, int16(relation.GroupAccepted),
	)
	if err != nil {
		return nil, fmt.Errorf("listing user groups: %w", err)
	}
	defer rows.Close()

	groups := []models.Group{}
	for rows.Next() {
		var g models.Group
		if err := rows.Scan(&g.ID, &g.Name, &g.OwnerID, &g.IsOpen, &g.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning group: %w", err)
		}
		groups = append(groups, g)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating groups: %w", err)
	}
	return groups, nil
}

func (s *GroupService) Members(ctx context.Context, groupID uuid.UUID) ([]models.GroupMember, error) {
	if _, err := getGroup(ctx, s.db, groupID.String()); err != nil {
		return nil, err
	}

	rows, err := s.db.Query(ctx,
		`SELECT u.id, u.username
		 FROM group_relations gr
		 JOIN users u ON u.id = gr.user_id
		 WHERE gr.group_id = $1 AND gr.status = $2
		 ORDER BY LOWER(u.username)`,
		groupID, int16(relation.GroupAccepted),
	)
	if err != nil {
		return nil, fmt.Errorf("listing members: %w", err)
	}
	defer rows.Close()

	members := []models.GroupMember{}
	for rows.Next() {
		var m models.GroupMember
		if err := rows.Scan(&m.UserID, &m.Username); err != nil {
			return nil, fmt.Errorf("scanning member: %w", err)
		}
		members = append(members, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating members: %w", err)
	}
	return members, nil
}

// Relation is the caller's own relation to the group named by ref.
func (s *GroupService) Relation(ctx context.Context, userID uuid.UUID, ref string) (models.GroupRelationState, error) {
	group, err := getGroup(ctx, s.db, ref)
	if err != nil {
		return models.GroupRelationState{}, err
	}
	status, _, err := groupRelationOf(ctx, s.db, group.ID, userID)
	if err != nil {
		return models.GroupRelationState{}, err
	}
	return models.GroupState(status), nil
}

// RelationOfUser lets the owner check any user's relation to the group. An
// unknown username is reported with the GroupUserNotFound code.
func (s *GroupService) RelationOfUser(ctx context.Context, adminID, groupID uuid.UUID, username string) (models.GroupRelationState, error) {
	group, err := getGroup(ctx, s.db, groupID.String())
	if err != nil {
		return models.GroupRelationState{}, err
	}
	if err := requireGroupAdmin(group, adminID); err != nil {
		return models.GroupRelationState{}, err
	}
	userID, err := lookupUserID(ctx, s.db, username)
	if errors.Is(err, ErrUserNotFound) {
		return models.GroupState(relation.GroupUserNotFound), nil
	}
	if err != nil {
		return models.GroupRelationState{}, err
	}

	status, rowID, err := groupRelationOf(ctx, s.db, group.ID, userID)
	if err != nil {
		return models.GroupRelationState{}, err
	}
	state := models.GroupState(status)
	if status == relation.GroupJoinPending {
		state.RequestID = &rowID
	}
	return state, nil
}

// RequestJoin asks to join an open group. Closed groups answer as not found.
func (s *GroupService) RequestJoin(ctx context.Context, userID uuid.UUID, ref string) (relation.GroupRelationStatus, error) {
	err := inTx(ctx, s.db, "join request", func(tx Tx) error {
		group, err := getGroup(ctx, tx, ref)
		if err != nil {
			return err
		}
		if !group.IsOpen {
			return ErrGroupNotFound
		}
		status, _, err := groupRelationOf(ctx, tx, group.ID, userID)
		if err != nil {
			return err
		}
		if !relation.CanRequestJoin(status) {
			return fmt.Errorf("%w: %s", ErrGroupRelationConflict, status)
		}
		if _, err := setGroupRelation(ctx, tx, group.ID, userID, relation.GroupJoinPending); err != nil {
			return err
		}
		return createNotification(ctx, tx, joinRequestNote(group, userID))
	})
	if err != nil {
		return 0, err
	}
	return relation.GroupJoinPending, nil
}

func (s *GroupService) Invite(ctx context.Context, adminID, groupID uuid.UUID, username string) (relation.GroupRelationStatus, error) {
	err := inTx(ctx, s.db, "group invite", func(tx Tx) error {
		group, err := adminGroup(ctx, tx, groupID, adminID)
		if err != nil {
			return err
		}
		userID, err := lookupUserID(ctx, tx, username)
		if err != nil {
			return err
		}
		status, _, err := groupRelationOf(ctx, tx, group.ID, userID)
		if err != nil {
			return err
		}
		if !relation.CanInvite(status) {
			return fmt.Errorf("%w: %s", ErrGroupRelationConflict, status)
		}
		if _, err := setGroupRelation(ctx, tx, group.ID, userID, relation.GroupInvitePending); err != nil {
			return err
		}
		return createNotification(ctx, tx, inviteNote(group, userID))
	})
	if err != nil {
		return 0, err
	}
	return relation.GroupInvitePending, nil
}

// CancelInvite withdraws an unanswered invite and its notification.
func (s *GroupService) CancelInvite(ctx context.Context, adminID, groupID, userID uuid.UUID) (relation.GroupRelationStatus, error) {
	err := inTx(ctx, s.db, "cancel invite", func(tx Tx) error {
		group, err := adminGroup(ctx, tx, groupID, adminID)
		if err != nil {
			return err
		}
		result, err := tx.Exec(ctx,
			`DELETE FROM group_relations
			 WHERE group_id = $1 AND user_id = $2 AND status = $3`,
			group.ID, userID, int16(relation.GroupInvitePending),
		)
		if err != nil {
			return fmt.Errorf("cancelling invite: %w", err)
		}
		if result.RowsAffected() == 0 {
			return ErrNoPendingGroupRequest
		}
		return withdrawRequests(ctx, tx, inviteNote(group, userID))
	})
	if err != nil {
		return 0, err
	}
	return relation.GroupNone, nil
}

// ConfirmJoin accepts the join request stored as requestID.
func (s *GroupService) ConfirmJoin(ctx context.Context, adminID, requestID uuid.UUID) (relation.GroupRelationStatus, error) {
	return s.answerJoin(ctx, adminID, requestID, true)
}

// RejectJoin declines the join request stored as requestID.
func (s *GroupService) RejectJoin(ctx context.Context, adminID, requestID uuid.UUID) (relation.GroupRelationStatus, error) {
	return s.answerJoin(ctx, adminID, requestID, false)
}

func (s *GroupService) answerJoin(ctx context.Context, adminID, requestID uuid.UUID, accept bool) (relation.GroupRelationStatus, error) {
	var status relation.GroupRelationStatus
	err := inTx(ctx, s.db, "answer join request", func(tx Tx) error {
		var groupID, userID uuid.UUID
		err := tx.QueryRow(ctx,
			"SELECT group_id, user_id FROM group_relations WHERE id = $1 FOR UPDATE",
			requestID,
		).Scan(&groupID, &userID)
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrNoPendingGroupRequest
		}
		if err != nil {
			return fmt.Errorf("loading join request: %w", err)
		}
		group, err := adminGroup(ctx, tx, groupID, adminID)
		if err != nil {
			return err
		}
		status, err = answerJoinRequest(ctx, tx, group.ID, adminID, userID, accept)
		if err != nil {
			return err
		}
		return retireRequests(ctx, tx, joinRequestNote(group, userID))
	})
	return status, err
}

// Ban keeps username out of the group until unbanned. Pending requests in
// either direction are closed.
func (s *GroupService) Ban(ctx context.Context, adminID, groupID uuid.UUID, username string) (relation.GroupRelationStatus, error) {
	err := inTx(ctx, s.db, "group ban", func(tx Tx) error {
		group, err := adminGroup(ctx, tx, groupID, adminID)
		if err != nil {
			return err
		}
		userID, err := lookupUserID(ctx, tx, username)
		if err != nil {
			return err
		}
		if userID == group.OwnerID {
			return ErrCannotTargetOwner
		}
		if _, err := setGroupRelation(ctx, tx, group.ID, userID, relation.GroupBanned); err != nil {
			return err
		}
		if err := retireRequests(ctx, tx, joinRequestNote(group, userID)); err != nil {
			return err
		}
		return withdrawRequests(ctx, tx, inviteNote(group, userID))
	})
	if err != nil {
		return 0, err
	}
	return relation.GroupBanned, nil
}

func (s *GroupService) Unban(ctx context.Context, adminID, groupID uuid.UUID, username string) (relation.GroupRelationStatus, error) {
	group, err := adminGroup(ctx, s.db, groupID, adminID)
	if err != nil {
		return 0, err
	}
	userID, err := lookupUserID(ctx, s.db, username)
	if err != nil {
		return 0, err
	}
	result, err := s.db.Exec(ctx,
		`DELETE FROM group_relations
		 WHERE group_id = $1 AND user_id = $2 AND status = $3`,
		group.ID, userID, int16(relation.GroupBanned),
	)
	if err != nil {
		return 0, fmt.Errorf("unbanning from group: %w", err)
	}
	if result.RowsAffected() == 0 {
		return 0, ErrBanNotFound
	}
	return relation.GroupNone, nil
}

// Block is a user banning a group: no further invites reach them. An admin
// ban stands until the admin lifts it, and members leave before blocking.
func (s *GroupService) Block(ctx context.Context, userID uuid.UUID, ref string) (relation.GroupRelationStatus, error) {
	err := inTx(ctx, s.db, "block group", func(tx Tx) error {
		group, err := getGroup(ctx, tx, ref)
		if err != nil {
			return err
		}
		if group.OwnerID == userID {
			return ErrCannotTargetOwner
		}
		current, _, err := groupRelationOf(ctx, tx, group.ID, userID)
		if err != nil {
			return err
		}
		switch current {
		case relation.GroupBanned, relation.GroupAccepted:
			return fmt.Errorf("%w: %s", ErrGroupRelationConflict, current)
		case relation.GroupBannedByUser:
			return nil
		}
		if _, err := setGroupRelation(ctx, tx, group.ID, userID, relation.GroupBannedByUser); err != nil {
			return err
		}
		if err := retireRequests(ctx, tx, inviteNote(group, userID)); err != nil {
			return err
		}
		return withdrawRequests(ctx, tx, joinRequestNote(group, userID))
	})
	if err != nil {
		return 0, err
	}
	return relation.GroupBannedByUser, nil
}

// Unblock lifts the caller's own block on a group. It never touches an
// admin ban.
func (s *GroupService) Unblock(ctx context.Context, userID uuid.UUID, ref string) (relation.GroupRelationStatus, error) {
	group, err := getGroup(ctx, s.db, ref)
	if err != nil {
		return 0, err
	}
	result, err := s.db.Exec(ctx,
		`DELETE FROM group_relations
		 WHERE group_id = $1 AND user_id = $2 AND status = $3`,
		group.ID, userID, int16(relation.GroupBannedByUser),
	)
	if err != nil {
		return 0, fmt.Errorf("unblocking group: %w", err)
	}
	if result.RowsAffected() == 0 {
		return 0, ErrGroupNotBlocked
	}
	return relation.GroupNone, nil
}

// answerGroupInvite moves userID's pending invite to Accepted or
// InviteRejected.
func answerGroupInvite(ctx context.Context, q Querier, groupID, userID uuid.UUID, accept bool) (relation.GroupRelationStatus, error) {
	to := relation.GroupInviteRejected
	if accept {
		to = relation.GroupAccepted
	}
	if err := moveGroupRelation(ctx, q, groupID, userID, relation.GroupInvitePending, to); err != nil {
		return 0, err
	}
	return to, nil
}

// answerJoinRequest moves userID's pending join request to Accepted or
// JoinRejected. Only the owner may answer.
func answerJoinRequest(ctx context.Context, q Querier, groupID, adminID, userID uuid.UUID, accept bool) (relation.GroupRelationStatus, error) {
	group, err := adminGroup(ctx, q, groupID, adminID)
	if err != nil {
		return 0, err
	}
	to := relation.GroupJoinRejected
	if accept {
		to = relation.GroupAccepted
	}
	if err := moveGroupRelation(ctx, q, group.ID, userID, relation.GroupJoinPending, to); err != nil {
		return 0, err
	}
	if accept {
		err := createNotification(ctx, q, notificationParams{
			Recipient: userID,
			Sender:    adminID,
			GroupID:   &group.ID,
			Type:      models.NotificationTypeGroupJoinAccepted,
		})
		if err != nil {
			return 0, err
		}
	}
	return to, nil
}

func moveGroupRelation(ctx context.Context, q Querier, groupID, userID uuid.UUID, from, to relation.GroupRelationStatus) error {
	result, err := q.Exec(ctx,
		`UPDATE group_relations SET status = $4, updated_at = NOW()
		 WHERE group_id = $1 AND user_id = $2 AND status = $3`,
		groupID, userID, int16(from), int16(to),
	)
	if err != nil {
		return fmt.Errorf("updating group relation: %w", err)
	}
	if result.RowsAffected() == 0 {
		return ErrNoPendingGroupRequest
	}
	return nil
}

func getGroup(ctx context.Context, q Querier, ref string) (*models.Group, error) {
	ref = strings.TrimSpace(ref)
	where, arg := "LOWER(name) = LOWER($1)", any(ref)
	if id, err := uuid.Parse(ref); err == nil {
		where, arg = "id = $1", id
	}

	group := &models.Group{}
	err := q.QueryRow(ctx,
		"SELECT id, name, owner_id, is_open, created_at FROM groups WHERE "+where,
		arg,
	).Scan(&group.ID, &group.Name, &group.OwnerID, &group.IsOpen, &group.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrGroupNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("getting group: %w", err)
	}
	return group, nil
}

func adminGroup(ctx context.Context, q Querier, groupID, adminID uuid.UUID) (*models.Group, error) {
	group, err := getGroup(ctx, q, groupID.String())
	if err != nil {
		return nil, err
	}
	if err := requireGroupAdmin(group, adminID); err != nil {
		return nil, err
	}
	return group, nil
}

func requireGroupAdmin(group *models.Group, userID uuid.UUID) error {
	if group.OwnerID != userID {
		return ErrNotGroupAdmin
	}
	return nil
}

// groupRelationOf returns GroupNone when no row exists.
func groupRelationOf(ctx context.Context, q Querier, groupID, userID uuid.UUID) (relation.GroupRelationStatus, uuid.UUID, error) {
	var id uuid.UUID
	var code int16
	err := q.QueryRow(ctx,
		"SELECT id, status FROM group_relations WHERE group_id = $1 AND user_id = $2",
		groupID, userID,
	).Scan(&id, &code)
	if errors.Is(err, pgx.ErrNoRows) {
		return relation.GroupNone, uuid.Nil, nil
	}
	if err != nil {
		return 0, uuid.Nil, fmt.Errorf("getting group relation: %w", err)
	}
	return relation.GroupRelationStatus(code), id, nil
}

func setGroupRelation(ctx context.Context, q Querier, groupID, userID uuid.UUID, status relation.GroupRelationStatus) (uuid.UUID, error) {
	var id uuid.UUID
	err := q.QueryRow(ctx,
		`INSERT INTO group_relations (group_id, user_id, status)
		 VALUES ($1, $2, $3)
		 ON CONFLICT (group_id, user_id)
		 DO UPDATE SET status = EXCLUDED.status, updated_at = NOW()
		 RETURNING id`,
		groupID, userID, int16(status),
	).Scan(&id)
	if err != nil {
		return uuid.Nil, fmt.Errorf("setting group relation: %w", err)
	}
	return id, nil
}

func inviteNote(group *models.Group, userID uuid.UUID) notificationParams {
	return notificationParams{
		Recipient: userID,
		Sender:    group.OwnerID,
		GroupID:   &group.ID,
		Type:      models.NotificationTypeGroupInvite,
	}
}

func joinRequestNote(group *models.Group, userID uuid.UUID) notificationParams {
	return notificationParams{
		Recipient: group.OwnerID,
		Sender:    userID,
		GroupID:   &group.ID,
		Type:      models.NotificationTypeGroupJoinRequest,
	}
}

package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/HammerMeetNail/paddock/internal/models"
	"github.com/HammerMeetNail/paddock/internal/relation"
)

var (
	ErrFriendshipNotFound   = errors.New("friendship not found")
	ErrFriendshipExists     = errors.New("friendship already exists")
	ErrCannotFriendSelf     = errors.New("cannot send friend request to yourself")
	ErrFriendshipNotPending = errors.New("no pending friend request")
	ErrNotFriend            = errors.New("you are not friends with this user")
	ErrUserBanned           = errors.New("user is banned")
)

type FriendshipService struct {
	db DB
}

func NewFriendshipService(db DB) *FriendshipService {
	return &FriendshipService{db: db}
}

// pairRow is the friendships row between two users, if any.
type pairRow struct {
	SenderID uuid.UUID
	Status   models.FriendshipRowStatus
}

// pairFacts is everything the viewer-facing status is derived from.
type pairFacts struct {
	Self          bool
	BannedByOther bool
	BannedOther   bool
	Row           *pairRow
}

// deriveFriendship resolves facts into a status from viewerID's side. A ban
// by the target outranks a ban by the viewer.
func deriveFriendship(viewerID uuid.UUID, f pairFacts) relation.FriendshipStatus {
	switch {
	case f.Self:
		return relation.FriendshipThatsYou
	case f.BannedByOther:
		return relation.FriendshipBanned
	case f.BannedOther:
		return relation.FriendshipUserBanned
	case f.Row == nil:
		return relation.FriendshipNone
	case f.Row.Status == models.FriendshipRowAccepted:
		return relation.FriendshipFriends
	case f.Row.SenderID == viewerID:
		return relation.FriendshipSent
	default:
		return relation.FriendshipReceived
	}
}

func loadPairFacts(ctx context.Context, q Querier, viewerID, targetID uuid.UUID) (pairFacts, error) {
	if viewerID == targetID {
		return pairFacts{Self: true}, nil
	}

	var f pairFacts
	err := q.QueryRow(ctx,
		`SELECT
		   EXISTS(SELECT 1 FROM user_bans WHERE banner_id = $2 AND banned_id = $1),
		   EXISTS(SELECT 1 FROM user_bans WHERE banner_id = $1 AND banned_id = $2)`,
		viewerID, targetID,
	).Scan(&f.BannedByOther, &f.BannedOther)
	if err != nil {
		return pairFacts{}, fmt.Errorf("checking bans: %w", err)
	}

	row := &pairRow{}
	err = q.QueryRow(ctx,
		`SELECT user_id, status FROM friendships
		 WHERE (user_id = $1 AND friend_id = $2)
		    OR (user_id = $2 AND friend_id = $1)`,
		viewerID, targetID,
	).Scan(&row.SenderID, &row.Status)
	switch {
	case errors.Is(err, pgx.ErrNoRows):
	case err != nil:
		return pairFacts{}, fmt.Errorf("loading friendship: %w", err)
	default:
		f.Row = row
	}
	return f, nil
}

func currentFriendship(ctx context.Context, q Querier, viewerID, targetID uuid.UUID) (relation.FriendshipStatus, error) {
	facts, err := loadPairFacts(ctx, q, viewerID, targetID)
	if err != nil {
		return 0, err
	}
	return deriveFriendship(viewerID, facts), nil
}

// Status reports the relation from viewerID to username. Unknown usernames
// are a status, not an error.
func (s *FriendshipService) Status(ctx context.Context, viewerID uuid.UUID, username string) (models.FriendshipState, error) {
	targetID, err := lookupUserID(ctx, s.db, username)
	if errors.Is(err, ErrUserNotFound) {
		return models.FriendshipState{Status: relation.FriendshipUserDoesntExist}, nil
	}
	if err != nil {
		return models.FriendshipState{}, err
	}

	status, err := currentFriendship(ctx, s.db, viewerID, targetID)
	if err != nil {
		return models.FriendshipState{}, err
	}
	state := models.FriendshipState{Status: status}
	if status == relation.FriendshipReceived {
		state.NotificationID, err = pendingRequestID(ctx, s.db, friendRequestNote(viewerID, targetID))
		if err != nil {
			return models.FriendshipState{}, err
		}
	}
	return state, nil
}

func (s *FriendshipService) SendRequest(ctx context.Context, userID uuid.UUID, username string) (relation.FriendshipStatus, error) {
	err := inTx(ctx, s.db, "friend request", func(tx Tx) error {
		targetID, err := lookupUserID(ctx, tx, username)
		if err != nil {
			return err
		}
		status, err := currentFriendship(ctx, tx, userID, targetID)
		if err != nil {
			return err
		}
		switch status {
		case relation.FriendshipThatsYou:
			return ErrCannotFriendSelf
		case relation.FriendshipBanned, relation.FriendshipUserBanned:
			return ErrUserBanned
		case relation.FriendshipNone:
		default:
			return ErrFriendshipExists
		}

		_, err = tx.Exec(ctx,
			`INSERT INTO friendships (user_id, friend_id, status) VALUES ($1, $2, 'pending')`,
			userID, targetID,
		)
		if isUniqueViolation(err) {
			return ErrFriendshipExists
		}
		if err != nil {
			return fmt.Errorf("creating friendship: %w", err)
		}
		return createNotification(ctx, tx, friendRequestNote(targetID, userID))
	})
	if err != nil {
		return 0, err
	}
	return relation.FriendshipSent, nil
}

// Confirm accepts the pending request username sent to userID.
func (s *FriendshipService) Confirm(ctx context.Context, userID uuid.UUID, username string) (relation.FriendshipStatus, error) {
	return s.answer(ctx, userID, username, true)
}

// Reject declines the pending request username sent to userID.
func (s *FriendshipService) Reject(ctx context.Context, userID uuid.UUID, username string) (relation.FriendshipStatus, error) {
	return s.answer(ctx, userID, username, false)
}

func (s *FriendshipService) answer(ctx context.Context, userID uuid.UUID, username string, accept bool) (relation.FriendshipStatus, error) {
	var status relation.FriendshipStatus
	err := inTx(ctx, s.db, "answer friend request", func(tx Tx) error {
		senderID, err := lookupUserID(ctx, tx, username)
		if err != nil {
			return err
		}
		status, err = answerFriendRequest(ctx, tx, userID, senderID, accept)
		if err != nil {
			return err
		}
		return retireRequests(ctx, tx, friendRequestNote(userID, senderID))
	})
	return status, err
}

// answerFriendRequest moves the pending senderID -> recipientID row. The
// caller retires the request notification.
func answerFriendRequest(ctx context.Context, q Querier, recipientID, senderID uuid.UUID, accept bool) (relation.FriendshipStatus, error) {
	if !accept {
		result, err := q.Exec(ctx,
			`DELETE FROM friendships
			 WHERE user_id = $1 AND friend_id = $2 AND status = 'pending'`,
			senderID, recipientID,
		)
		if err != nil {
			return 0, fmt.Errorf("rejecting friend request: %w", err)
		}
		if result.RowsAffected() == 0 {
			return 0, ErrFriendshipNotPending
		}
		return relation.FriendshipNone, nil
	}

	result, err := q.Exec(ctx,
		`UPDATE friendships SET status = 'accepted'
		 WHERE user_id = $1 AND friend_id = $2 AND status = 'pending'`,
		senderID, recipientID,
	)
	if err != nil {
		return 0, fmt.Errorf("accepting friend request: %w", err)
	}
	if result.RowsAffected() == 0 {
		return 0, ErrFriendshipNotPending
	}
	err = createNotification(ctx, q, notificationParams{
		Recipient: senderID,
		Sender:    recipientID,
		Type:      models.NotificationTypeFriendRequestAccepted,
	})
	if err != nil {
		return 0, err
	}
	return relation.FriendshipFriends, nil
}

// Cancel withdraws a request userID sent and has not been answered.
func (s *FriendshipService) Cancel(ctx context.Context, userID uuid.UUID, username string) (relation.FriendshipStatus, error) {
	err := inTx(ctx, s.db, "cancel friend request", func(tx Tx) error {
		targetID, err := lookupUserID(ctx, tx, username)
		if err != nil {
			return err
		}
		result, err := tx.Exec(ctx,
			`DELETE FROM friendships
			 WHERE user_id = $1 AND friend_id = $2 AND status = 'pending'`,
			userID, targetID,
		)
		if err != nil {
			return fmt.Errorf("cancelling friend request: %w", err)
		}
		if result.RowsAffected() == 0 {
			return ErrFriendshipNotPending
		}
		return withdrawRequests(ctx, tx, friendRequestNote(targetID, userID))
	})
	if err != nil {
		return 0, err
	}
	return relation.FriendshipNone, nil
}

func (s *FriendshipService) Remove(ctx context.Context, userID uuid.UUID, username string) (relation.FriendshipStatus, error) {
	targetID, err := lookupUserID(ctx, s.db, username)
	if err != nil {
		return 0, err
	}
	result, err := s.db.Exec(ctx,
		`DELETE FROM friendships
		 WHERE status = 'accepted'
		   AND ((user_id = $1 AND friend_id = $2) OR (user_id = $2 AND friend_id = $1))`,
		userID, targetID,
	)
	if err != nil {
		return 0, fmt.Errorf("removing friend: %w", err)
	}
	if result.RowsAffected() == 0 {
		return 0, ErrNotFriend
	}
	return relation.FriendshipNone, nil
}

func (s *FriendshipService) ListFriends(ctx context.Context, userID uuid.UUID) ([]models.FriendWithUser, error) {
	rows, err := s.db.Query(ctx,
		`SELECT f.id, f.user_id, f.friend_id, f.status, f.created_at, u.id, u.username
		 FROM friendships f
		 JOIN users u ON u.id = CASE WHEN f.user_id = $1 THEN f.friend_id ELSE f.user_id END
		 WHERE (f.user_id = $1 OR f.friend_id = $1) AND f.status = 'accepted'
		 ORDER BY LOWER(u.username)`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("listing friends: %w", err)
	}
	defer rows.Close()

	friends := []models.FriendWithUser{}
	for rows.Next() {
		var f models.FriendWithUser
		var otherID uuid.UUID
		if err := rows.Scan(&f.ID, &f.UserID, &f.FriendID, &f.Status, &f.CreatedAt, &otherID, &f.FriendUsername); err != nil {
			return nil, fmt.Errorf("scanning friend: %w", err)
		}
		// Present every row from the caller's side.
		f.UserID, f.FriendID = userID, otherID
		friends = append(friends, f)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating friends: %w", err)
	}
	return friends, nil
}

func friendRequestNote(recipient, sender uuid.UUID) notificationParams {
	return notificationParams{
		Recipient: recipient,
		Sender:    sender,
		Type:      models.NotificationTypeFriendRequest,
	}
}

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
	ErrNotificationNotFound = errors.New("notification not found")
	ErrAlreadyResponded     = errors.New("request already answered")
	ErrNotActionable        = errors.New("notification cannot be answered")
)

const notificationListLimit = 100

type NotificationService struct {
	db DB
}

func NewNotificationService(db DB) *NotificationService {
	return &NotificationService{db: db}
}

// List returns the newest notifications for userID and how many are unread.
func (s *NotificationService) List(ctx context.Context, userID uuid.UUID) ([]models.Notification, int, error) {
	rows, err := s.db.Query(ctx,
		`SELECT n.id, n.user_id, n.sender_user_id, u.username, n.group_id, g.name, n.type, n.status, n.created_at
		 FROM notifications n
		 JOIN users u ON u.id = n.sender_user_id
		 LEFT JOIN groups g ON g.id = n.group_id
		 WHERE n.user_id = $1
		 ORDER BY n.created_at DESC
		 LIMIT $2`,
		userID, notificationListLimit,
	)
	if err != nil {
		return nil, 0, fmt.Errorf("listing notifications: %w", err)
	}
	defer rows.Close()

	notifications := []models.Notification{}
	for rows.Next() {
		var n models.Notification
		if err := rows.Scan(&n.ID, &n.UserID, &n.SenderUserID, &n.SenderUsername, &n.GroupID, &n.GroupName, &n.Type, &n.Status, &n.CreatedAt); err != nil {
			return nil, 0, fmt.Errorf("scanning notification: %w", err)
		}
		notifications = append(notifications, n)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterating notifications: %w", err)
	}

	var unread int
	err = s.db.QueryRow(ctx,
		"SELECT COUNT(*) FROM notifications WHERE user_id = $1 AND status = 'unread'",
		userID,
	).Scan(&unread)
	if err != nil {
		return nil, 0, fmt.Errorf("counting unread notifications: %w", err)
	}
	return notifications, unread, nil
}

func (s *NotificationService) MarkRead(ctx context.Context, userID, notificationID uuid.UUID) error {
	result, err := s.db.Exec(ctx,
		`UPDATE notifications SET status = 'read'
		 WHERE id = $1 AND user_id = $2 AND status = 'unread'`,
		notificationID, userID,
	)
	if err != nil {
		return fmt.Errorf("marking notification read: %w", err)
	}
	if result.RowsAffected() == 0 {
		var exists bool
		err := s.db.QueryRow(ctx,
			"SELECT EXISTS(SELECT 1 FROM notifications WHERE id = $1 AND user_id = $2)",
			notificationID, userID,
		).Scan(&exists)
		if err != nil {
			return fmt.Errorf("checking notification: %w", err)
		}
		if !exists {
			return ErrNotificationNotFound
		}
	}
	return nil
}

// Respond answers the request behind a notification. The relation change and
// retiring the notification commit together or not at all.
func (s *NotificationService) Respond(ctx context.Context, userID, notificationID uuid.UUID, accept bool) (*models.RespondResponse, error) {
	var result relation.Status
	err := inTx(ctx, s.db, "respond", func(tx Tx) error {
		var n models.Notification
		err := tx.QueryRow(ctx,
			`SELECT id, sender_user_id, group_id, type, status
			 FROM notifications
			 WHERE id = $1 AND user_id = $2
			 FOR UPDATE`,
			notificationID, userID,
		).Scan(&n.ID, &n.SenderUserID, &n.GroupID, &n.Type, &n.Status)
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrNotificationNotFound
		}
		if err != nil {
			return fmt.Errorf("loading notification: %w", err)
		}
		if !n.Type.Actionable() {
			return ErrNotActionable
		}
		if n.Status == models.NotificationReadAndResponded {
			return ErrAlreadyResponded
		}

		switch n.Type {
		case models.NotificationTypeFriendRequest:
			status, err := answerFriendRequest(ctx, tx, userID, n.SenderUserID, accept)
			if err != nil {
				return err
			}
			result = relation.FriendshipOf(status)
		case models.NotificationTypeGroupInvite:
			if n.GroupID == nil {
				return ErrNotActionable
			}
			status, err := answerGroupInvite(ctx, tx, *n.GroupID, userID, accept)
			if err != nil {
				return err
			}
			result = relation.GroupOf(status)
		case models.NotificationTypeGroupJoinRequest:
			if n.GroupID == nil {
				return ErrNotActionable
			}
			status, err := answerJoinRequest(ctx, tx, *n.GroupID, userID, n.SenderUserID, accept)
			if err != nil {
				return err
			}
			result = relation.GroupOf(status)
		}

		_, err = tx.Exec(ctx,
			"UPDATE notifications SET status = 'read_and_responded' WHERE id = $1",
			n.ID,
		)
		if err != nil {
			return fmt.Errorf("retiring notification: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &models.RespondResponse{Relation: result, Notification: models.NotificationReadAndResponded}, nil
}

type notificationParams struct {
	Recipient uuid.UUID
	Sender    uuid.UUID
	GroupID   *uuid.UUID
	Type      models.NotificationType
}

func createNotification(ctx context.Context, q Querier, p notificationParams) error {
	_, err := q.Exec(ctx,
		`INSERT INTO notifications (user_id, sender_user_id, group_id, type)
		 VALUES ($1, $2, $3, $4)`,
		p.Recipient, p.Sender, p.GroupID, p.Type,
	)
	if err != nil {
		return fmt.Errorf("creating %s notification: %w", p.Type, err)
	}
	return nil
}

// retireRequests marks every unanswered request notification matching p as
// responded.
func retireRequests(ctx context.Context, q Querier, p notificationParams) error {
	_, err := q.Exec(ctx,
		`UPDATE notifications SET status = 'read_and_responded'
		 WHERE user_id = $1 AND sender_user_id = $2
		   AND group_id IS NOT DISTINCT FROM $3
		   AND type = $4
		   AND status <> 'read_and_responded'`,
		p.Recipient, p.Sender, p.GroupID, p.Type,
	)
	if err != nil {
		return fmt.Errorf("retiring %s notifications: %w", p.Type, err)
	}
	return nil
}

// withdrawRequests deletes unanswered request notifications matching p. Used
// when the sender cancels before the recipient answered.
func withdrawRequests(ctx context.Context, q Querier, p notificationParams) error {
	_, err := q.Exec(ctx,
		`DELETE FROM notifications
		 WHERE user_id = $1 AND sender_user_id = $2
		   AND group_id IS NOT DISTINCT FROM $3
		   AND type = $4
		   AND status <> 'read_and_responded'`,
		p.Recipient, p.Sender, p.GroupID, p.Type,
	)
	if err != nil {
		return fmt.Errorf("withdrawing %s notifications: %w", p.Type, err)
	}
	return nil
}

// pendingRequestID finds the newest unanswered request notification matching p.
func pendingRequestID(ctx context.Context, q Querier, p notificationParams) (*uuid.UUID, error) {
	var id uuid.UUID
	err := q.QueryRow(ctx,
		`SELECT id FROM notifications
		 WHERE user_id = $1 AND sender_user_id = $2
		   AND group_id IS NOT DISTINCT FROM $3
		   AND type = $4
		   AND status <> 'read_and_responded'
		 ORDER BY created_at DESC
		 LIMIT 1`,
		p.Recipient, p.Sender, p.GroupID, p.Type,
	).Scan(&id)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("finding %s notification: %w", p.Type, err)
	}
	return &id, nil
}

package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/HammerMeetNail/paddock/internal/models"
	"github.com/HammerMeetNail/paddock/internal/relation"
)

var (
	ErrCannotBanSelf = errors.New("cannot ban yourself")
	ErrBanExists     = errors.New("user is already banned")
	ErrBanNotFound   = errors.New("ban not found")
)

type BanService struct {
	db DB
}

func NewBanService(db DB) *BanService {
	return &BanService{db: db}
}

// Ban stops username from seeing or contacting bannerID. Any friendship or
// pending request between the two is dropped with it.
func (s *BanService) Ban(ctx context.Context, bannerID uuid.UUID, username string) (relation.FriendshipStatus, error) {
	var status relation.FriendshipStatus
	err := inTx(ctx, s.db, "ban", func(tx Tx) error {
		bannedID, err := lookupUserID(ctx, tx, username)
		if err != nil {
			return err
		}
		if bannedID == bannerID {
			return ErrCannotBanSelf
		}

		result, err := tx.Exec(ctx,
			`INSERT INTO user_bans (banner_id, banned_id)
			 VALUES ($1, $2)
			 ON CONFLICT DO NOTHING`,
			bannerID, bannedID,
		)
		if err != nil {
			return fmt.Errorf("insert ban: %w", err)
		}
		if result.RowsAffected() == 0 {
			return ErrBanExists
		}

		_, err = tx.Exec(ctx,
			`DELETE FROM friendships
			 WHERE (user_id = $1 AND friend_id = $2)
			    OR (user_id = $2 AND friend_id = $1)`,
			bannerID, bannedID,
		)
		if err != nil {
			return fmt.Errorf("remove friendships: %w", err)
		}
		if err := retireRequests(ctx, tx, friendRequestNote(bannerID, bannedID)); err != nil {
			return err
		}
		if err := withdrawRequests(ctx, tx, friendRequestNote(bannedID, bannerID)); err != nil {
			return err
		}

		status, err = currentFriendship(ctx, tx, bannerID, bannedID)
		return err
	})
	if err != nil {
		return 0, err
	}
	return status, nil
}

// Unban lifts bannerID's ban. The result is Banned when the other side still
// bans bannerID, None otherwise.
func (s *BanService) Unban(ctx context.Context, bannerID uuid.UUID, username string) (relation.FriendshipStatus, error) {
	bannedID, err := lookupUserID(ctx, s.db, username)
	if err != nil {
		return 0, err
	}
	result, err := s.db.Exec(ctx,
		"DELETE FROM user_bans WHERE banner_id = $1 AND banned_id = $2",
		bannerID, bannedID,
	)
	if err != nil {
		return 0, fmt.Errorf("delete ban: %w", err)
	}
	if result.RowsAffected() == 0 {
		return 0, ErrBanNotFound
	}
	return currentFriendship(ctx, s.db, bannerID, bannedID)
}

func (s *BanService) ListBanned(ctx context.Context, bannerID uuid.UUID) ([]models.BannedUser, error) {
	rows, err := s.db.Query(ctx,
		`SELECT u.id, u.username, ub.created_at
		 FROM user_bans ub
		 JOIN users u ON ub.banned_id = u.id
		 WHERE ub.banner_id = $1
		 ORDER BY u.username`,
		bannerID,
	)
	if err != nil {
		return nil, fmt.Errorf("list banned users: %w", err)
	}
	defer rows.Close()

	banned := []models.BannedUser{}
	for rows.Next() {
		var u models.BannedUser
		if err := rows.Scan(&u.ID, &u.Username, &u.BannedAt); err != nil {
			return nil, fmt.Errorf("scan banned user: %w", err)
		}
		banned = append(banned, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate banned users: %w", err)
	}
	return banned, nil
}

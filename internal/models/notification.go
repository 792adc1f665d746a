package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/HammerMeetNail/paddock/internal/relation"
)

type NotificationType string

const (
	NotificationTypeFriendRequest         NotificationType = "friend_request"
	NotificationTypeFriendRequestAccepted NotificationType = "friend_request_accepted"
	NotificationTypeGroupInvite           NotificationType = "group_invite"
	NotificationTypeGroupJoinRequest      NotificationType = "group_join_request"
	NotificationTypeGroupJoinAccepted     NotificationType = "group_join_accepted"
)

// Actionable reports whether the notification stands for a pending request
// that can be answered.
func (t NotificationType) Actionable() bool {
	switch t {
	case NotificationTypeFriendRequest, NotificationTypeGroupInvite, NotificationTypeGroupJoinRequest:
		return true
	}
	return false
}

type NotificationStatus string

const (
	NotificationUnread           NotificationStatus = "unread"
	NotificationRead             NotificationStatus = "read"
	NotificationReadAndResponded NotificationStatus = "read_and_responded"
)

type Notification struct {
	ID             uuid.UUID          `json:"id"`
	UserID         uuid.UUID          `json:"user_id"`
	SenderUserID   uuid.UUID          `json:"sender_user_id"`
	SenderUsername string             `json:"sender_username,omitempty"`
	GroupID        *uuid.UUID         `json:"group_id,omitempty"`
	GroupName      *string            `json:"group_name,omitempty"`
	Type           NotificationType   `json:"type"`
	Status         NotificationStatus `json:"status"`
	CreatedAt      time.Time          `json:"created_at"`
}

type RespondRequest struct {
	Accept bool `json:"accept"`
}

// RespondResponse is the single result of answering a request: the
// relation it landed on, with the notification already retired.
type RespondResponse struct {
	Relation     relation.Status    `json:"relation"`
	Notification NotificationStatus `json:"notification_status"`
}

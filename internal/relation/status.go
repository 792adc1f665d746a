// Package relation holds the canonical relation-status enums and the pure
// policy that turns a fetched status into messages and permitted actions.
//
// Every other package (client bindings, gateway, backend services) consumes
// these types; nothing else defines its own copy of the status codes.
package relation

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// FriendshipStatus is the directional status between a viewer and a target
// user. Values are fixed by the wire contract.
type FriendshipStatus int

const (
	FriendshipNone            FriendshipStatus = 0
	FriendshipReceived        FriendshipStatus = 1
	FriendshipSent            FriendshipStatus = 2
	FriendshipThatsYou        FriendshipStatus = 3
	FriendshipFriends         FriendshipStatus = 4
	FriendshipBanned          FriendshipStatus = 5
	FriendshipUserBanned      FriendshipStatus = 6
	FriendshipUserDoesntExist FriendshipStatus = 7
)

var friendshipNames = map[FriendshipStatus]string{
	FriendshipNone:            "none",
	FriendshipReceived:        "received",
	FriendshipSent:            "sent",
	FriendshipThatsYou:        "thats_you",
	FriendshipFriends:         "friends",
	FriendshipBanned:          "banned",
	FriendshipUserBanned:      "user_banned",
	FriendshipUserDoesntExist: "user_doesnt_exist",
}

func (s FriendshipStatus) String() string {
	if name, ok := friendshipNames[s]; ok {
		return name
	}
	return "friendship(" + strconv.Itoa(int(s)) + ")"
}

// Valid reports whether s is one of the enumerated codes.
func (s FriendshipStatus) Valid() bool {
	_, ok := friendshipNames[s]
	return ok
}

// GroupRelationStatus is the status between a user and a group.
type GroupRelationStatus int

const (
	GroupInvitePending  GroupRelationStatus = 0
	GroupJoinPending    GroupRelationStatus = 1
	GroupAccepted       GroupRelationStatus = 2
	GroupInviteRejected GroupRelationStatus = 3
	GroupJoinRejected   GroupRelationStatus = 4
	GroupBanned         GroupRelationStatus = 5
	GroupBannedByUser   GroupRelationStatus = 6
	GroupNone           GroupRelationStatus = 7
)

// Sentinel codes travel in the same field as real statuses. They describe
// lookup failures, not relation state, and every evaluator handles them in
// their own branch.
const (
	// GroupNotFound is returned when the group does not exist, is not open
	// to join, or cannot be resolved for the caller.
	GroupNotFound GroupRelationStatus = 404
	// GroupUserNotFound is returned when the user being checked does not
	// resolve to an account.
	GroupUserNotFound GroupRelationStatus = 405
	// GroupStatusMissing marks a response that carried no status at all.
	GroupStatusMissing GroupRelationStatus = -1
)

var groupNames = map[GroupRelationStatus]string{
	GroupInvitePending:  "invite_pending",
	GroupJoinPending:    "join_pending",
	GroupAccepted:       "accepted",
	GroupInviteRejected: "invite_rejected",
	GroupJoinRejected:   "join_rejected",
	GroupBanned:         "banned",
	GroupBannedByUser:   "group_banned",
	GroupNone:           "none",
}

func (s GroupRelationStatus) String() string {
	if name, ok := groupNames[s]; ok {
		return name
	}
	switch s {
	case GroupNotFound:
		return "not_found"
	case GroupUserNotFound:
		return "user_not_found"
	case GroupStatusMissing:
		return "missing"
	}
	return "group(" + strconv.Itoa(int(s)) + ")"
}

// Valid reports whether s is one of the eight domain codes. Sentinels are
// not valid statuses.
func (s GroupRelationStatus) Valid() bool {
	_, ok := groupNames[s]
	return ok
}

// IsSentinel reports whether s is one of the out-of-band codes.
func (s GroupRelationStatus) IsSentinel() bool {
	return s == GroupNotFound || s == GroupUserNotFound || s == GroupStatusMissing
}

// Kind distinguishes the two relation families.
type Kind string

const (
	KindFriendship      Kind = "friendship"
	KindGroupMembership Kind = "group_membership"
)

// Status is a relation status tagged with its family, used where a single
// call can land on either kind (responding to a notification).
type Status struct {
	Kind       Kind
	Friendship FriendshipStatus
	Group      GroupRelationStatus
}

// FriendshipOf wraps a friendship status.
func FriendshipOf(s FriendshipStatus) Status {
	return Status{Kind: KindFriendship, Friendship: s}
}

// GroupOf wraps a group relation status.
func GroupOf(s GroupRelationStatus) Status {
	return Status{Kind: KindGroupMembership, Group: s}
}

// Code returns the integer carried on the wire.
func (s Status) Code() int {
	if s.Kind == KindGroupMembership {
		return int(s.Group)
	}
	return int(s.Friendship)
}

func (s Status) String() string {
	if s.Kind == KindGroupMembership {
		return string(s.Kind) + ":" + s.Group.String()
	}
	return string(KindFriendship) + ":" + s.Friendship.String()
}

type statusJSON struct {
	Kind   Kind `json:"kind"`
	Status int  `json:"status"`
}

func (s Status) MarshalJSON() ([]byte, error) {
	kind := s.Kind
	if kind == "" {
		kind = KindFriendship
	}
	return json.Marshal(statusJSON{Kind: kind, Status: s.Code()})
}

func (s *Status) UnmarshalJSON(data []byte) error {
	var raw statusJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	switch raw.Kind {
	case KindGroupMembership:
		*s = GroupOf(GroupRelationStatus(raw.Status))
	case KindFriendship, "":
		*s = FriendshipOf(FriendshipStatus(raw.Status))
	default:
		return fmt.Errorf("unknown relation kind %q", raw.Kind)
	}
	return nil
}

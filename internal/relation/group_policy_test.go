package relation

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEvaluateInviteRow(t *testing.T) {
	tests := []struct {
		status   GroupRelationStatus
		text     string
		disabled bool
	}{
		{GroupInvitePending, "Cancel Invite", false},
		{GroupJoinPending, "User sent a join request", true},
		{GroupAccepted, "Already in Group", true},
		{GroupInviteRejected, "User rejected invite", true},
		{GroupJoinRejected, "Invite", false},
		{GroupBanned, "User banned", true},
		{GroupBannedByUser, "User banned this group", true},
		{GroupNone, "Invite", false},
		{GroupUserNotFound, "User not found", true},
		{GroupNotFound, "Unavailable", true},
		{GroupStatusMissing, "Unavailable", true},
		{GroupRelationStatus(99), "Unavailable", true},
	}

	for _, tc := range tests {
		t.Run(tc.status.String(), func(t *testing.T) {
			row := EvaluateInviteRow(tc.status, false)
			assert.Equal(t, tc.text, row.ButtonText)
			assert.Equal(t, tc.disabled, row.Disabled)

			// roster membership always disables, text unchanged
			inRoster := EvaluateInviteRow(tc.status, true)
			assert.Equal(t, tc.text, inRoster.ButtonText)
			assert.True(t, inRoster.Disabled)
		})
	}
}

func TestEvaluateJoinRequest(t *testing.T) {
	tests := []struct {
		status  GroupRelationStatus
		proceed bool
		message string
	}{
		{GroupInvitePending, false, "You have an invitation pending for this group."},
		{GroupJoinPending, false, "Your join request is already pending."},
		{GroupAccepted, false, "You are already a member of this group."},
		{GroupJoinRejected, false, "Your previous join request was rejected. You cannot request to join again."},
		{GroupBanned, false, "You have been banned from this group."},
		{GroupBannedByUser, false, "You are banned this group."},
		{GroupNone, true, ""},
		{GroupInviteRejected, true, ""},
		{GroupRelationStatus(12), false, "An unexpected error occurred."},
	}

	for _, tc := range tests {
		t.Run(tc.status.String(), func(t *testing.T) {
			got := EvaluateJoinRequest(tc.status)
			assert.Equal(t, JoinDecision{Proceed: tc.proceed, Message: tc.message}, got)
			assert.Equal(t, got, EvaluateJoinRequest(tc.status))
		})
	}
}

func TestEvaluateJoinRequest_Sentinels(t *testing.T) {
	assert.Equal(t, JoinDecision{Proceed: true}, EvaluateJoinRequest(GroupUserNotFound))
	assert.Equal(t, JoinDecision{Message: MsgJoinNotFound}, EvaluateJoinRequest(GroupNotFound))
	assert.Equal(t, JoinDecision{Message: MsgJoinNotFound}, EvaluateJoinRequest(GroupStatusMissing))
	assert.Equal(t, "Group not found, is not open to join or you are already in that group.", MsgJoinNotFound)
}

func TestGroupRules(t *testing.T) {
	assert.True(t, CanInvite(GroupJoinRejected))
	assert.True(t, CanInvite(GroupInviteRejected))
	assert.False(t, CanInvite(GroupBanned))
	assert.False(t, CanInvite(GroupInvitePending))

	assert.True(t, CanRequestJoin(GroupInviteRejected))
	assert.False(t, CanRequestJoin(GroupJoinRejected))

	for _, s := range []GroupRelationStatus{GroupAccepted, GroupBanned, GroupBannedByUser} {
		assert.True(t, Terminal(s), s.String())
	}
	assert.False(t, Terminal(GroupJoinRejected))
}

func TestGroupStatus_Classification(t *testing.T) {
	for s := GroupInvitePending; s <= GroupNone; s++ {
		assert.True(t, s.Valid(), s.String())
		assert.False(t, s.IsSentinel(), s.String())
	}
	for _, s := range []GroupRelationStatus{GroupNotFound, GroupUserNotFound, GroupStatusMissing} {
		assert.False(t, s.Valid(), s.String())
		assert.True(t, s.IsSentinel(), s.String())
	}
	assert.Equal(t, "group(77)", GroupRelationStatus(77).String())
	assert.Equal(t, "friendship(9)", FriendshipStatus(9).String())
}

func TestStatus_JSON(t *testing.T) {
	data, err := json.Marshal(GroupOf(GroupAccepted))
	require.NoError(t, err)
	assert.JSONEq(t, `{"kind":"group_membership","status":2}`, string(data))

	var s Status
	require.NoError(t, json.Unmarshal([]byte(`{"kind":"friendship","status":4}`), &s))
	assert.Equal(t, FriendshipOf(FriendshipFriends), s)

	require.NoError(t, json.Unmarshal([]byte(`{"status":1}`), &s))
	assert.Equal(t, FriendshipOf(FriendshipReceived), s)

	assert.Error(t, json.Unmarshal([]byte(`{"kind":"club","status":1}`), &s))
}

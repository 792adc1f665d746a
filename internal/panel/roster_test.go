package panel

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/HammerMeetNail/paddock/internal/gateway"
	"github.com/HammerMeetNail/paddock/internal/models"
	"github.com/HammerMeetNail/paddock/internal/relation"
)

type rosterFixture struct {
	gw    *mockGateway
	group models.Group
	ids   map[string]uuid.UUID
}

func newRosterFixture(statuses map[string]relation.GroupRelationStatus, members ...string) *rosterFixture {
	f := &rosterFixture{
		group: models.Group{ID: uuid.New(), Name: "chess"},
		ids:   map[string]uuid.UUID{},
	}
	var friends []models.FriendWithUser
	for name := range statuses {
		id := uuid.New()
		f.ids[name] = id
		friends = append(friends, models.FriendWithUser{
			Friendship:     models.Friendship{FriendID: id, Status: models.FriendshipRowAccepted},
			FriendUsername: name,
		})
	}
	f.gw = &mockGateway{
		ListFriendsFunc: func(context.Context) ([]models.FriendWithUser, error) { return friends, nil },
		GroupMembersFunc: func(context.Context, uuid.UUID) ([]models.GroupMember, error) {
			var out []models.GroupMember
			for _, m := range members {
				out = append(out, models.GroupMember{UserID: f.ids[m], Username: m})
			}
			return out, nil
		},
		GroupRelationOfUserFunc: func(_ context.Context, username string, _ uuid.UUID) (relation.GroupRelationStatus, error) {
			return statuses[username], nil
		},
	}
	return f
}

func TestInviteRoster_LoadRows(t *testing.T) {
	f := newRosterFixture(map[string]relation.GroupRelationStatus{
		"carol": relation.GroupNone,
		"alice": relation.GroupInvitePending,
		"bob":   relation.GroupAccepted,
		"dave":  relation.GroupNone,
	}, "dave")
	r := NewInviteRoster(f.gw, NewGuard())

	rows, err := r.Load(context.Background(), f.group)
	require.NoError(t, err)
	require.Len(t, rows, 4)

	got := map[string]relation.InviteRow{}
	for _, row := range rows {
		got[row.Username] = row.InviteRow
	}
	assert.Equal(t, []string{"alice", "bob", "carol", "dave"}, []string{rows[0].Username, rows[1].Username, rows[2].Username, rows[3].Username})
	assert.Equal(t, relation.InviteRow{ButtonText: "Cancel Invite"}, got["alice"])
	assert.Equal(t, relation.InviteRow{ButtonText: "Already in Group", Disabled: true}, got["bob"])
	assert.Equal(t, relation.InviteRow{ButtonText: "Invite"}, got["carol"])
	assert.True(t, got["dave"].Disabled, "roster membership disables the row")
}

func TestInviteRoster_ToggleInviteAndCancel(t *testing.T) {
	f := newRosterFixture(map[string]relation.GroupRelationStatus{"carol": relation.GroupNone})
	f.gw.InviteUserToGroupFunc = func(_ context.Context, gid uuid.UUID, username string) (relation.GroupRelationStatus, error) {
		assert.Equal(t, f.group.ID, gid)
		assert.Equal(t, "carol", username)
		return relation.GroupInvitePending, nil
	}
	f.gw.CancelInviteFunc = func(_ context.Context, gid, uid uuid.UUID) (relation.GroupRelationStatus, error) {
		assert.Equal(t, f.ids["carol"], uid)
		return relation.GroupNone, nil
	}
	r := NewInviteRoster(f.gw, NewGuard())
	_, err := r.Load(context.Background(), f.group)
	require.NoError(t, err)

	row, err := r.Toggle(context.Background(), "carol")
	require.NoError(t, err)
	assert.Equal(t, relation.GroupInvitePending, row.Status)
	assert.Equal(t, "Cancel Invite", row.ButtonText)

	row, err = r.Toggle(context.Background(), "carol")
	require.NoError(t, err)
	assert.Equal(t, relation.GroupNone, row.Status)
	assert.Equal(t, "Invite", row.ButtonText)
}

func TestInviteRoster_ToggleRollback(t *testing.T) {
	f := newRosterFixture(map[string]relation.GroupRelationStatus{"carol": relation.GroupNone})
	f.gw.InviteUserToGroupFunc = func(context.Context, uuid.UUID, string) (relation.GroupRelationStatus, error) {
		return relation.GroupStatusMissing, gateway.ErrTransport
	}
	r := NewInviteRoster(f.gw, NewGuard())
	_, err := r.Load(context.Background(), f.group)
	require.NoError(t, err)

	row, err := r.Toggle(context.Background(), "carol")
	require.ErrorIs(t, err, gateway.ErrTransport)
	assert.Equal(t, relation.GroupNone, row.Status)
	assert.Equal(t, "Invite", row.ButtonText)
	assert.Equal(t, MsgUnreachable, row.Error)
}

func TestInviteRoster_DisabledRowSendsNothing(t *testing.T) {
	f := newRosterFixture(map[string]relation.GroupRelationStatus{"bob": relation.GroupBanned})
	r := NewInviteRoster(f.gw, NewGuard())
	_, err := r.Load(context.Background(), f.group)
	require.NoError(t, err)

	_, err = r.Toggle(context.Background(), "bob")
	require.ErrorIs(t, err, ErrActionNotAllowed)
	assert.Equal(t, []string{"ListFriends", "GroupMembers", "GroupRelationOfUser"}, f.gw.calls())

	_, err = r.Toggle(context.Background(), "nobody")
	assert.ErrorIs(t, err, ErrUnknownFriend)
}

func TestInviteRoster_LookupErrorDisablesRow(t *testing.T) {
	f := newRosterFixture(map[string]relation.GroupRelationStatus{"carol": relation.GroupNone})
	f.gw.GroupRelationOfUserFunc = func(context.Context, string, uuid.UUID) (relation.GroupRelationStatus, error) {
		return relation.GroupStatusMissing, gateway.ErrTransport
	}
	r := NewInviteRoster(f.gw, NewGuard())

	rows, err := r.Load(context.Background(), f.group)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.True(t, rows[0].Disabled)
	assert.Equal(t, MsgUnreachable, rows[0].Error)
}

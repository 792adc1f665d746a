package panel

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/HammerMeetNail/paddock/internal/gateway"
	"github.com/HammerMeetNail/paddock/internal/logging"
	"github.com/HammerMeetNail/paddock/internal/models"
	"github.com/HammerMeetNail/paddock/internal/relation"
)

// ErrUnknownFriend is returned by Toggle for a name that is not in the roster.
var ErrUnknownFriend = errors.New("not in friend list")

// RosterRow is one friend in the invite dialog.
type RosterRow struct {
	UserID   uuid.UUID
	Username string
	Status   relation.GroupRelationStatus
	InGroup  bool
	relation.InviteRow
	Busy  bool
	Error string
}

// InviteRoster lists the caller's friends with an invite button each, for
// one group the caller administers.
type InviteRoster struct {
	gw    gateway.Gateway
	guard *Guard

	mu     sync.Mutex
	group  models.Group
	rows   map[string]*rosterEntry
	order  []string
	closed bool
}

type rosterEntry struct {
	userID  uuid.UUID
	status  relation.GroupRelationStatus
	inGroup bool
	err     error
}

func NewInviteRoster(gw gateway.Gateway, guard *Guard) *InviteRoster {
	return &InviteRoster{gw: gw, guard: guard, rows: map[string]*rosterEntry{}}
}

// Load builds the rows from the friend list, the group's members and each
// friend's relation to the group. A failed per-friend lookup only disables
// that friend's row.
func (r *InviteRoster) Load(ctx context.Context, group models.Group) ([]RosterRow, error) {
	if inv, ok := r.gw.(gateway.Invalidator); ok {
		inv.InvalidateGroup(group.Name)
	}

	friends, err := r.gw.ListFriends(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing friends: %w", err)
	}
	members, err := r.gw.GroupMembers(ctx, group.ID)
	if err != nil {
		return nil, fmt.Errorf("listing members of %s: %w", group.Name, err)
	}
	inGroup := make(map[uuid.UUID]bool, len(members))
	for _, m := range members {
		inGroup[m.UserID] = true
	}

	rows := make(map[string]*rosterEntry, len(friends))
	order := make([]string, 0, len(friends))
	for _, f := range friends {
		entry := &rosterEntry{userID: f.FriendID, inGroup: inGroup[f.FriendID]}
		status, err := r.gw.GroupRelationOfUser(ctx, f.FriendUsername, group.ID)
		if errors.Is(err, gateway.ErrLoginRequired) {
			return nil, err
		}
		if err != nil {
			logger.Debug("Group relation lookup failed", logging.Fields{"username": f.FriendUsername, "group": group.Name, "error": err.Error()})
			status = relation.GroupStatusMissing
			entry.err = err
		}
		entry.status = status
		if _, dup := rows[f.FriendUsername]; !dup {
			order = append(order, f.FriendUsername)
		}
		rows[f.FriendUsername] = entry
	}
	sort.Strings(order)

	r.mu.Lock()
	r.group = group
	r.rows = rows
	r.order = order
	r.closed = false
	r.mu.Unlock()
	return r.Rows(), nil
}

func (r *InviteRoster) Rows() []RosterRow {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]RosterRow, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, r.rowLocked(name))
	}
	return out
}

func (r *InviteRoster) rowLocked(name string) RosterRow {
	e := r.rows[name]
	return RosterRow{
		UserID:    e.userID,
		Username:  name,
		Status:    e.status,
		InGroup:   e.inGroup,
		InviteRow: relation.EvaluateInviteRow(e.status, e.inGroup),
		Busy:      r.guard.Busy(memberKey(r.group.ID.String(), name)),
		Error:     ErrorMessage(e.err),
	}
}

// Toggle presses the row's button: invite when the row offers Invite,
// cancel when an invite is pending. A disabled row sends nothing.
func (r *InviteRoster) Toggle(ctx context.Context, username string) (RosterRow, error) {
	r.mu.Lock()
	group := r.group
	e, ok := r.rows[username]
	if !ok {
		r.mu.Unlock()
		return RosterRow{Username: username}, fmt.Errorf("%s: %w", username, ErrUnknownFriend)
	}
	r.mu.Unlock()

	release, err := r.guard.Acquire(memberKey(group.ID.String(), username))
	if err != nil {
		return r.setErr(username, err), err
	}
	defer release()

	r.mu.Lock()
	row := relation.EvaluateInviteRow(e.status, e.inGroup)
	if row.Disabled {
		r.mu.Unlock()
		return r.setErr(username, ErrActionNotAllowed), fmt.Errorf("%s is %s: %w", username, e.status, ErrActionNotAllowed)
	}
	prev := e.status
	cancel := prev == relation.GroupInvitePending
	if cancel {
		e.status = relation.GroupNone
	} else {
		e.status = relation.GroupInvitePending
	}
	e.err = nil
	userID := e.userID
	r.mu.Unlock()

	if cancel {
		_, err = r.gw.CancelInvite(ctx, group.ID, userID)
	} else {
		_, err = r.gw.InviteUserToGroup(ctx, group.ID, username)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed || r.rows[username] != e {
		return RosterRow{Username: username}, err
	}
	if err != nil {
		e.status = prev
		e.err = err
		return r.rowLocked(username), fmt.Errorf("updating invite for %s: %w", username, err)
	}
	return r.rowLocked(username), nil
}

func (r *InviteRoster) Close() {
	r.mu.Lock()
	r.closed = true
	r.mu.Unlock()
}

func (r *InviteRoster) setErr(username string, err error) RosterRow {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.rows[username]
	if !ok {
		return RosterRow{Username: username}
	}
	e.err = err
	return r.rowLocked(username)
}

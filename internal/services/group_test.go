package services

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/HammerMeetNail/paddock/internal/models"
	"github.com/HammerMeetNail/paddock/internal/relation"
)

type groupFixture struct {
	group    *models.Group
	userID   uuid.UUID
	status   *relation.GroupRelationStatus
	rowID    uuid.UUID
	inserted []relation.GroupRelationStatus
}

func newGroupFixture(open bool) *groupFixture {
	return &groupFixture{
		group: &models.Group{
			ID:        uuid.New(),
			Name:      "Climbers",
			OwnerID:   uuid.New(),
			IsOpen:    open,
			CreatedAt: time.Now(),
		},
		userID: uuid.New(),
		rowID:  uuid.New(),
	}
}

func (f *groupFixture) with(s relation.GroupRelationStatus) *groupFixture {
	f.status = &s
	return f
}

func (f *groupFixture) queryRow(t *testing.T) func(context.Context, string, ...any) Row {
	t.Helper()
	return func(ctx context.Context, sql string, args ...any) Row {
		switch {
		case strings.Contains(sql, "INSERT INTO group_relations"):
			f.inserted = append(f.inserted, relation.GroupRelationStatus(args[2].(int16)))
			return idRow(f.rowID)
		case strings.Contains(sql, "FROM groups"):
			if f.group == nil {
				return noRows()
			}
			g := f.group
			return rowFromValues(g.ID, g.Name, g.OwnerID, g.IsOpen, g.CreatedAt)
		case strings.Contains(sql, "FROM users"):
			if f.userID == uuid.Nil {
				return noRows()
			}
			return idRow(f.userID)
		case strings.Contains(sql, "SELECT group_id, user_id FROM group_relations"):
			return rowFromValues(f.group.ID, f.userID)
		case strings.Contains(sql, "FROM group_relations"):
			if f.status == nil {
				return noRows()
			}
			return rowFromValues(f.rowID, int16(*f.status))
		}
		t.Fatalf("unexpected query %q", sql)
		return nil
	}
}

func (f *groupFixture) tx(t *testing.T, log *execLog) *fakeTx {
	return &fakeTx{QueryRowFunc: f.queryRow(t), ExecFunc: log.exec}
}

func TestGroupService_Create_InvalidName(t *testing.T) {
	for _, name := range []string{"", "  ab ", strings.Repeat("g", 101), uuid.NewString()} {
		_, err := NewGroupService(&fakeDB{}).Create(context.Background(), uuid.New(), models.CreateGroupParams{Name: name})
		if !errors.Is(err, ErrInvalidGroupName) {
			t.Errorf("%q: expected ErrInvalidGroupName, got %v", name, err)
		}
	}
}

func TestGroupService_Create_OwnerJoins(t *testing.T) {
	f := newGroupFixture(true)
	tx := &fakeTx{
		QueryRowFunc: func(ctx context.Context, sql string, args ...any) Row {
			if strings.Contains(sql, "INSERT INTO groups") {
				if args[0] != "Climbers" {
					t.Errorf("expected trimmed name, got %v", args[0])
				}
				g := f.group
				return rowFromValues(g.ID, g.Name, g.OwnerID, g.IsOpen, g.CreatedAt)
			}
			return f.queryRow(t)(ctx, sql, args...)
		},
	}

	group, err := NewGroupService(txDB(tx)).Create(context.Background(), f.group.OwnerID, models.CreateGroupParams{Name: " Climbers ", IsOpen: true})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if group.ID != f.group.ID {
		t.Fatalf("unexpected group %+v", group)
	}
	if len(f.inserted) != 1 || f.inserted[0] != relation.GroupAccepted {
		t.Fatalf("expected owner to be accepted, got %v", f.inserted)
	}
	if !tx.committed {
		t.Fatal("expected commit")
	}
}

func TestGroupService_Relation(t *testing.T) {
	t.Run("missing group", func(t *testing.T) {
		f := newGroupFixture(true)
		f.group = nil
		_, err := NewGroupService(&fakeDB{QueryRowFunc: f.queryRow(t)}).Relation(context.Background(), uuid.New(), "nope")
		if !errors.Is(err, ErrGroupNotFound) {
			t.Fatalf("expected ErrGroupNotFound, got %v", err)
		}
	})

	t.Run("no row is none", func(t *testing.T) {
		f := newGroupFixture(true)
		state, err := NewGroupService(&fakeDB{QueryRowFunc: f.queryRow(t)}).Relation(context.Background(), f.userID, "climbers")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if state.Status == nil || *state.Status != relation.GroupNone {
			t.Fatalf("expected None, got %v", state.Status)
		}
	})

	t.Run("stored status", func(t *testing.T) {
		f := newGroupFixture(true).with(relation.GroupInvitePending)
		state, err := NewGroupService(&fakeDB{QueryRowFunc: f.queryRow(t)}).Relation(context.Background(), f.userID, "climbers")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if state.Status == nil || *state.Status != relation.GroupInvitePending {
			t.Fatalf("expected InvitePending, got %v", state.Status)
		}
	})
}

func TestGroupService_RelationOfUser(t *testing.T) {
	t.Run("not admin", func(t *testing.T) {
		f := newGroupFixture(true)
		_, err := NewGroupService(&fakeDB{QueryRowFunc: f.queryRow(t)}).RelationOfUser(context.Background(), uuid.New(), f.group.ID, "bob")
		if !errors.Is(err, ErrNotGroupAdmin) {
			t.Fatalf("expected ErrNotGroupAdmin, got %v", err)
		}
	})

	t.Run("unknown user", func(t *testing.T) {
		f := newGroupFixture(true)
		f.userID = uuid.Nil
		state, err := NewGroupService(&fakeDB{QueryRowFunc: f.queryRow(t)}).RelationOfUser(context.Background(), f.group.OwnerID, f.group.ID, "ghost")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if *state.Status != relation.GroupUserNotFound {
			t.Fatalf("expected GroupUserNotFound, got %s", *state.Status)
		}
	})

	t.Run("join pending carries request id", func(t *testing.T) {
		f := newGroupFixture(true).with(relation.GroupJoinPending)
		state, err := NewGroupService(&fakeDB{QueryRowFunc: f.queryRow(t)}).RelationOfUser(context.Background(), f.group.OwnerID, f.group.ID, "bob")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if state.RequestID == nil || *state.RequestID != f.rowID {
			t.Fatalf("expected request id %s, got %v", f.rowID, state.RequestID)
		}
	})
}

func TestGroupService_RequestJoin(t *testing.T) {
	none := relation.GroupNone
	tests := []struct {
		name    string
		open    bool
		status  *relation.GroupRelationStatus
		wantErr error
	}{
		{"no relation", true, nil, nil},
		{"explicit none", true, &none, nil},
		{"after declined invite", true, ptr(relation.GroupInviteRejected), nil},
		{"closed group", false, nil, ErrGroupNotFound},
		{"already member", true, ptr(relation.GroupAccepted), ErrGroupRelationConflict},
		{"already pending", true, ptr(relation.GroupJoinPending), ErrGroupRelationConflict},
		{"rejected before", true, ptr(relation.GroupJoinRejected), ErrGroupRelationConflict},
		{"banned", true, ptr(relation.GroupBanned), ErrGroupRelationConflict},
		{"user banned group", true, ptr(relation.GroupBannedByUser), ErrGroupRelationConflict},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newGroupFixture(tt.open)
			f.status = tt.status
			log := &execLog{}
			tx := f.tx(t, log)

			status, err := NewGroupService(txDB(tx)).RequestJoin(context.Background(), f.userID, "climbers")
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("expected %v, got %v", tt.wantErr, err)
			}
			if tt.wantErr != nil {
				if len(f.inserted) != 0 || tx.committed {
					t.Fatal("refused join must not write")
				}
				return
			}
			if status != relation.GroupJoinPending {
				t.Fatalf("expected JoinPending, got %s", status)
			}
			if len(f.inserted) != 1 || f.inserted[0] != relation.GroupJoinPending {
				t.Fatalf("unexpected relation writes %v", f.inserted)
			}
			if !log.ran("INSERT INTO notifications") || !tx.committed {
				t.Fatal("expected owner notification and commit")
			}
		})
	}
}

func TestGroupService_Invite(t *testing.T) {
	tests := []struct {
		name    string
		status  *relation.GroupRelationStatus
		wantErr error
	}{
		{"fresh", nil, nil},
		{"after rejected join", ptr(relation.GroupJoinRejected), nil},
		{"after declined invite", ptr(relation.GroupInviteRejected), nil},
		{"pending", ptr(relation.GroupInvitePending), ErrGroupRelationConflict},
		{"member", ptr(relation.GroupAccepted), ErrGroupRelationConflict},
		{"user banned group", ptr(relation.GroupBannedByUser), ErrGroupRelationConflict},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newGroupFixture(true)
			f.status = tt.status
			tx := f.tx(t, &execLog{})

			status, err := NewGroupService(txDB(tx)).Invite(context.Background(), f.group.OwnerID, f.group.ID, "bob")
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("expected %v, got %v", tt.wantErr, err)
			}
			if tt.wantErr == nil && status != relation.GroupInvitePending {
				t.Fatalf("expected InvitePending, got %s", status)
			}
		})
	}
}

func TestGroupService_Invite_NotAdmin(t *testing.T) {
	f := newGroupFixture(true)
	tx := f.tx(t, &execLog{})
	if _, err := NewGroupService(txDB(tx)).Invite(context.Background(), uuid.New(), f.group.ID, "bob"); !errors.Is(err, ErrNotGroupAdmin) {
		t.Fatalf("expected ErrNotGroupAdmin, got %v", err)
	}
}

func TestGroupService_CancelInvite(t *testing.T) {
	f := newGroupFixture(true)
	log := &execLog{}
	status, err := NewGroupService(txDB(f.tx(t, log))).CancelInvite(context.Background(), f.group.OwnerID, f.group.ID, f.userID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if status != relation.GroupNone {
		t.Fatalf("expected None, got %s", status)
	}
	if !log.ran("DELETE FROM notifications") {
		t.Fatalf("expected invite notification to be withdrawn, got %v", log.statements)
	}

	log = &execLog{affected: map[string]int64{"DELETE FROM group_relations": 0}}
	_, err = NewGroupService(txDB(f.tx(t, log))).CancelInvite(context.Background(), f.group.OwnerID, f.group.ID, f.userID)
	if !errors.Is(err, ErrNoPendingGroupRequest) {
		t.Fatalf("expected ErrNoPendingGroupRequest, got %v", err)
	}
}

func TestGroupService_AnswerJoin(t *testing.T) {
	tests := []struct {
		name   string
		accept bool
		want   relation.GroupRelationStatus
		notify bool
	}{
		{"confirm", true, relation.GroupAccepted, true},
		{"reject", false, relation.GroupJoinRejected, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newGroupFixture(true)
			log := &execLog{}
			tx := f.tx(t, log)
			svc := NewGroupService(txDB(tx))

			var status relation.GroupRelationStatus
			var err error
			if tt.accept {
				status, err = svc.ConfirmJoin(context.Background(), f.group.OwnerID, f.rowID)
			} else {
				status, err = svc.RejectJoin(context.Background(), f.group.OwnerID, f.rowID)
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if status != tt.want {
				t.Fatalf("expected %s, got %s", tt.want, status)
			}
			if log.ran("INSERT INTO notifications") != tt.notify {
				t.Fatalf("notify=%v, statements %v", tt.notify, log.statements)
			}
			if !log.ran("read_and_responded") || !tx.committed {
				t.Fatal("expected the join request notification to be retired in the same commit")
			}
		})
	}
}

func TestGroupService_AnswerJoin_NotPending(t *testing.T) {
	f := newGroupFixture(true)
	log := &execLog{affected: map[string]int64{"UPDATE group_relations": 0}}
	tx := f.tx(t, log)
	if _, err := NewGroupService(txDB(tx)).ConfirmJoin(context.Background(), f.group.OwnerID, f.rowID); !errors.Is(err, ErrNoPendingGroupRequest) {
		t.Fatalf("expected ErrNoPendingGroupRequest, got %v", err)
	}
	if !tx.rolledBack {
		t.Fatal("expected rollback")
	}
}

func TestGroupService_Ban(t *testing.T) {
	f := newGroupFixture(true)
	status, err := NewGroupService(txDB(f.tx(t, &execLog{}))).Ban(context.Background(), f.group.OwnerID, f.group.ID, "bob")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if status != relation.GroupBanned || f.inserted[0] != relation.GroupBanned {
		t.Fatalf("expected Banned, got %s (%v)", status, f.inserted)
	}

	f = newGroupFixture(true)
	f.userID = f.group.OwnerID
	if _, err := NewGroupService(txDB(f.tx(t, &execLog{}))).Ban(context.Background(), f.group.OwnerID, f.group.ID, "owner"); !errors.Is(err, ErrCannotTargetOwner) {
		t.Fatalf("expected ErrCannotTargetOwner, got %v", err)
	}
}

func TestGroupService_Block(t *testing.T) {
	f := newGroupFixture(true)
	status, err := NewGroupService(txDB(f.tx(t, &execLog{}))).Block(context.Background(), f.userID, "climbers")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if status != relation.GroupBannedByUser {
		t.Fatalf("expected GroupBannedByUser, got %s", status)
	}
}

func TestGroupService_Block_RefusedStatuses(t *testing.T) {
	for _, from := range []relation.GroupRelationStatus{relation.GroupBanned, relation.GroupAccepted} {
		f := newGroupFixture(true).with(from)
		log := &execLog{}
		tx := f.tx(t, log)
		_, err := NewGroupService(txDB(tx)).Block(context.Background(), f.userID, "climbers")
		if !errors.Is(err, ErrGroupRelationConflict) {
			t.Fatalf("%s: expected ErrGroupRelationConflict, got %v", from, err)
		}
		if len(f.inserted) != 0 || len(log.statements) != 0 || tx.committed {
			t.Fatalf("%s: expected no writes, got %v %v", from, f.inserted, log.statements)
		}
	}
}

func TestGroupService_Block_AlreadyBlocked(t *testing.T) {
	f := newGroupFixture(true).with(relation.GroupBannedByUser)
	status, err := NewGroupService(txDB(f.tx(t, &execLog{}))).Block(context.Background(), f.userID, "climbers")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if status != relation.GroupBannedByUser || len(f.inserted) != 0 {
		t.Fatalf("expected unchanged block, got %s %v", status, f.inserted)
	}
}

func TestGroupService_Block_ClosesPendingInvite(t *testing.T) {
	f := newGroupFixture(true).with(relation.GroupInvitePending)
	_, err := NewGroupService(txDB(f.tx(t, &execLog{}))).Block(context.Background(), f.userID, "climbers")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(f.inserted) != 1 || f.inserted[0] != relation.GroupBannedByUser {
		t.Fatalf("expected block to replace the invite, got %v", f.inserted)
	}
}

func TestGroupService_Unblock(t *testing.T) {
	tests := []struct {
		name     string
		affected int64
		want     error
	}{
		{"blocked", 1, nil},
		{"not blocked", 0, ErrGroupNotBlocked},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newGroupFixture(true)
			db := &fakeDB{
				QueryRowFunc: f.queryRow(t),
				ExecFunc: func(ctx context.Context, sql string, args ...any) (CommandTag, error) {
					if !strings.Contains(sql, "DELETE FROM group_relations") || args[2] != int16(relation.GroupBannedByUser) {
						t.Fatalf("unexpected exec %q %v", sql, args)
					}
					return fakeCommandTag{rowsAffected: tt.affected}, nil
				},
			}
			status, err := NewGroupService(db).Unblock(context.Background(), f.userID, "climbers")
			if !errors.Is(err, tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, err)
			}
			if err == nil && status != relation.GroupNone {
				t.Fatalf("expected None, got %s", status)
			}
		})
	}
}

func TestGroupService_Unban_NotBanned(t *testing.T) {
	f := newGroupFixture(true)
	db := &fakeDB{
		QueryRowFunc: f.queryRow(t),
		ExecFunc: func(ctx context.Context, sql string, args ...any) (CommandTag, error) {
			return fakeCommandTag{rowsAffected: 0}, nil
		},
	}
	if _, err := NewGroupService(db).Unban(context.Background(), f.group.OwnerID, f.group.ID, "bob"); !errors.Is(err, ErrBanNotFound) {
		t.Fatalf("expected ErrBanNotFound, got %v", err)
	}
}

func TestGroupService_ListForUser_BannedViewer(t *testing.T) {
	targetID := uuid.New()
	db := &fakeDB{QueryRowFunc: pairQueries(t, targetID, true, false, nil)}
	if _, err := NewGroupService(db).ListForUser(context.Background(), uuid.New(), "bob"); !errors.Is(err, ErrUserBanned) {
		t.Fatalf("expected ErrUserBanned, got %v", err)
	}
}

func ptr[T any](v T) *T {
	return &v
}

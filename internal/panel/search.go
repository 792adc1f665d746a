package panel

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/HammerMeetNail/paddock/internal/gateway"
	"github.com/HammerMeetNail/paddock/internal/relation"
)

// ErrNoLookup is returned by Add before any user has been looked up.
var ErrNoLookup = errors.New("no user selected")

// FriendSearch is the add-friend dialog: look a user up by name, then send
// a request if the status allows it.
type FriendSearch struct {
	gw    gateway.Gateway
	guard *Guard

	mu      sync.Mutex
	current *FriendPanel
}

func NewFriendSearch(gw gateway.Gateway, guard *Guard) *FriendSearch {
	return &FriendSearch{gw: gw, guard: guard}
}

// Lookup replaces the current result with username's status. A result
// still loading for an earlier name is discarded.
func (s *FriendSearch) Lookup(ctx context.Context, username string) (FriendView, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return FriendView{}, ErrNoLookup
	}

	p := NewFriendPanel(s.gw, s.guard, username)
	s.mu.Lock()
	if s.current != nil {
		s.current.Close()
	}
	s.current = p
	s.mu.Unlock()

	err := p.Open(ctx)
	return p.View(), err
}

// Add sends a friend request to the looked-up user. Nothing is sent unless
// the status offers AddFriend; a missing user is reported from the lookup.
func (s *FriendSearch) Add(ctx context.Context) (FriendView, error) {
	s.mu.Lock()
	p := s.current
	s.mu.Unlock()
	if p == nil {
		return FriendView{}, ErrNoLookup
	}

	err := p.Do(ctx, relation.ActionAddFriend)
	return p.View(), err
}

// Close detaches the dialog.
func (s *FriendSearch) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current != nil {
		s.current.Close()
		s.current = nil
	}
}

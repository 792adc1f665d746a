package panel

import (
	"context"
	"fmt"
	"sync"

	"github.com/HammerMeetNail/paddock/internal/gateway"
	"github.com/HammerMeetNail/paddock/internal/models"
	"github.com/HammerMeetNail/paddock/internal/relation"
)

type ProfileView struct {
	Friend FriendView
	// Groups is empty when the viewer is banned by the target.
	Groups      []models.Group
	GroupsError string
}

// Profile is a user's public page: the friend panel plus the groups the
// user belongs to.
type Profile struct {
	*FriendPanel
	gw gateway.Gateway

	mu        sync.Mutex
	groups    []models.Group
	groupsErr error
}

func NewProfile(gw gateway.Gateway, guard *Guard, username string) *Profile {
	return &Profile{FriendPanel: NewFriendPanel(gw, guard, username), gw: gw}
}

// Open loads the relation and, unless the profile is suppressed, the
// target's groups.
func (p *Profile) Open(ctx context.Context) error {
	if err := p.FriendPanel.Open(ctx); err != nil {
		p.setGroups(nil, nil)
		return err
	}

	view := p.FriendPanel.View()
	if view.SuppressProfile || view.Status == relation.FriendshipUserDoesntExist {
		p.setGroups(nil, nil)
		return nil
	}

	groups, err := p.gw.UserGroups(ctx, p.username)
	if err != nil {
		p.setGroups(nil, err)
		return fmt.Errorf("loading groups of %s: %w", p.username, err)
	}
	p.setGroups(groups, nil)
	return nil
}

func (p *Profile) View() ProfileView {
	friend := p.FriendPanel.View()
	p.mu.Lock()
	defer p.mu.Unlock()
	v := ProfileView{Friend: friend, GroupsError: ErrorMessage(p.groupsErr)}
	if !friend.SuppressProfile {
		v.Groups = append([]models.Group(nil), p.groups...)
	}
	return v
}

func (p *Profile) setGroups(groups []models.Group, err error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.groups = groups
	p.groupsErr = err
}

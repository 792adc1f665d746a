package panel

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/HammerMeetNail/paddock/internal/gateway"
	"github.com/HammerMeetNail/paddock/internal/logging"
	"github.com/HammerMeetNail/paddock/internal/relation"
)

// FriendView is the render state of a friend panel.
type FriendView struct {
	Username string
	relation.FriendshipView
	// Busy is set while a mutation on this relation is in flight.
	Busy bool
	// Error is the text of the error slot next to the actions.
	Error string
}

// FriendPanel is the action panel on a user's public profile.
type FriendPanel struct {
	gw       gateway.Gateway
	guard    *Guard
	username string

	mu             sync.Mutex
	view           relation.FriendshipView
	notificationID *uuid.UUID
	err            error
	closed         bool
}

func NewFriendPanel(gw gateway.Gateway, guard *Guard, username string) *FriendPanel {
	return &FriendPanel{
		gw:       gw,
		guard:    guard,
		username: username,
		view:     relation.FriendshipLoadError(),
	}
}

// Open fetches the relation. Cached status is invalidated first so every
// mount reflects the backend.
func (p *FriendPanel) Open(ctx context.Context) error {
	if inv, ok := p.gw.(gateway.Invalidator); ok {
		inv.InvalidateFriendship(p.username)
	}

	state, err := p.gw.FriendshipStatus(ctx, p.username)

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return nil
	}
	if err != nil {
		logger.Debug("Friendship status fetch failed", logging.Fields{"username": p.username, "error": err.Error()})
		p.view = relation.FriendshipLoadError()
		p.notificationID = nil
		p.err = err
		return fmt.Errorf("loading friendship with %s: %w", p.username, err)
	}
	p.view = relation.EvaluateFriendship(state.Status)
	p.notificationID = state.NotificationID
	p.err = nil
	return nil
}

func (p *FriendPanel) View() FriendView {
	p.mu.Lock()
	defer p.mu.Unlock()
	v := FriendView{
		Username:       p.username,
		FriendshipView: p.view,
		Busy:           p.guard.Busy(friendKey(p.username)),
		Error:          ErrorMessage(p.err),
	}
	v.Actions = append(relation.ActionSet{}, p.view.Actions...)
	return v
}

func (p *FriendPanel) Status() relation.FriendshipStatus {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.view.Status
}

// Close detaches the panel. Results of calls still in flight are dropped.
func (p *FriendPanel) Close() {
	p.mu.Lock()
	p.closed = true
	p.mu.Unlock()
}

// Do runs action against the backend. The panel moves to the action's
// target status right away and returns to the previous status if the
// backend refuses.
func (p *FriendPanel) Do(ctx context.Context, action relation.Action) error {
	release, err := p.guard.Acquire(friendKey(p.username))
	if err != nil {
		p.setErr(err)
		return err
	}
	defer release()

	_, to, ok := relation.FriendshipTarget(action)
	if !ok {
		return fmt.Errorf("unknown action %q: %w", action, ErrActionNotAllowed)
	}

	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil
	}
	if !relation.Allowed(p.view.Status, action) {
		p.err = ErrActionNotAllowed
		status := p.view.Status
		p.mu.Unlock()
		return fmt.Errorf("%s from %s: %w", action, status, ErrActionNotAllowed)
	}
	prev := p.view
	prevNotification := p.notificationID
	p.view = relation.EvaluateFriendship(to)
	p.notificationID = nil
	p.err = nil
	p.mu.Unlock()

	err = p.dispatch(ctx, action, prevNotification)

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return err
	}
	if err != nil {
		logger.Debug("Rolling back friendship action", logging.Fields{
			"username": p.username,
			"action":   string(action),
			"status":   prev.Status.String(),
			"error":    err.Error(),
		})
		p.view = prev
		p.notificationID = prevNotification
		p.err = err
		return fmt.Errorf("%s %s: %w", action, p.username, err)
	}
	p.err = nil
	return nil
}

func (p *FriendPanel) dispatch(ctx context.Context, action relation.Action, notificationID *uuid.UUID) error {
	var err error
	switch action {
	case relation.ActionAddFriend:
		_, err = p.gw.SendFriendRequest(ctx, p.username)
	case relation.ActionCancelRequest:
		_, err = p.gw.CancelFriendRequest(ctx, p.username)
	case relation.ActionConfirm:
		err = p.answer(ctx, notificationID, true)
	case relation.ActionReject:
		err = p.answer(ctx, notificationID, false)
	case relation.ActionBan:
		_, err = p.gw.BanUser(ctx, p.username)
	case relation.ActionUnban:
		_, err = p.gw.UnbanUser(ctx, p.username)
	case relation.ActionRemoveFriend:
		_, err = p.gw.RemoveFriend(ctx, p.username)
	default:
		err = ErrActionNotAllowed
	}
	return err
}

// answer settles a received request. With a notification the relation and
// the notification move together in one call.
func (p *FriendPanel) answer(ctx context.Context, notificationID *uuid.UUID, accept bool) error {
	if notificationID != nil {
		_, err := p.gw.RespondToRequest(ctx, *notificationID, accept)
		return err
	}
	if accept {
		_, err := p.gw.ConfirmFriendRequest(ctx, p.username, nil)
		return err
	}
	_, err := p.gw.RejectFriendRequest(ctx, p.username, nil)
	return err
}

func (p *FriendPanel) setErr(err error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.closed {
		p.err = err
	}
}

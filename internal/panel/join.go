package panel

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/HammerMeetNail/paddock/internal/gateway"
	"github.com/HammerMeetNail/paddock/internal/logging"
	"github.com/HammerMeetNail/paddock/internal/relation"
)

// JoinResult is what the join form shows after a submit.
type JoinResult struct {
	Status  relation.GroupRelationStatus
	Message string
	// Joined is set when a join request was actually sent.
	Joined bool
}

// JoinGroup is the "request to join a group" form.
type JoinGroup struct {
	gw    gateway.Gateway
	guard *Guard
	// OnJoined runs after a join request is accepted by the backend so the
	// caller can refresh its group lists.
	OnJoined func(groupName string)
}

func NewJoinGroup(gw gateway.Gateway, guard *Guard) *JoinGroup {
	return &JoinGroup{gw: gw, guard: guard}
}

// Submit looks up the caller's relation to the group and sends a join
// request only when the policy says to proceed.
func (j *JoinGroup) Submit(ctx context.Context, groupName string) (JoinResult, error) {
	groupName = strings.TrimSpace(groupName)
	if groupName == "" {
		return JoinResult{Status: relation.GroupStatusMissing, Message: relation.MsgJoinNotFound}, nil
	}

	release, err := j.guard.Acquire(groupKey(groupName))
	if err != nil {
		return JoinResult{Status: relation.GroupStatusMissing, Message: MsgBusy}, err
	}
	defer release()

	if inv, ok := j.gw.(gateway.Invalidator); ok {
		inv.InvalidateGroup(groupName)
	}

	status, err := j.gw.GroupRelation(ctx, groupName)
	if err != nil {
		res := JoinResult{Status: relation.GroupStatusMissing, Message: relation.MsgJoinUnexpected}
		if errors.Is(err, gateway.ErrLoginRequired) || errors.Is(err, gateway.ErrTransport) {
			res.Message = ErrorMessage(err)
		}
		return res, fmt.Errorf("checking relation to %s: %w", groupName, err)
	}

	decision := relation.EvaluateJoinRequest(status)
	if !decision.Proceed {
		return JoinResult{Status: status, Message: decision.Message}, nil
	}

	newStatus, err := j.gw.RequestGroupJoin(ctx, groupName)
	if err != nil {
		logger.Debug("Join request failed", logging.Fields{"group": groupName, "error": err.Error()})
		return JoinResult{Status: status, Message: joinErrorMessage(err)}, fmt.Errorf("joining %s: %w", groupName, err)
	}
	if newStatus == relation.GroupStatusMissing {
		newStatus = relation.GroupJoinPending
	}

	if j.OnJoined != nil {
		j.OnJoined(groupName)
	}
	return JoinResult{Status: newStatus, Message: relation.MsgJoinSent, Joined: true}, nil
}

func joinErrorMessage(err error) string {
	switch {
	case errors.Is(err, gateway.ErrNotFound):
		return relation.MsgJoinNotFound
	case errors.Is(err, gateway.ErrConflict):
		var apiErr *gateway.APIError
		if errors.As(err, &apiErr) && apiErr.Message != "" {
			return apiErr.Message
		}
		return relation.MsgJoinUnexpected
	case errors.Is(err, gateway.ErrLoginRequired), errors.Is(err, gateway.ErrTransport):
		return ErrorMessage(err)
	}
	return relation.MsgJoinUnexpected
}

// Package panel binds the relation policies to the screens that show them:
// the public profile, friend search, the join-group form and the invite
// roster. Each binding keeps its own view state, guards mutations per
// relation and rolls optimistic updates back when the backend refuses.
package panel

import (
	"errors"

	"github.com/HammerMeetNail/paddock/internal/gateway"
	"github.com/HammerMeetNail/paddock/internal/logging"
)

const (
	MsgLoginRequired = "Please log in to continue."
	MsgUnreachable   = "Could not reach the server. Please try again."
	MsgNotAllowed    = "That action is not available right now."
	MsgUnexpected    = "An unexpected error occurred."
)

// ErrActionNotAllowed is returned, without calling the backend, when the
// current status does not offer the requested action.
var ErrActionNotAllowed = errors.New("action not available for current status")

var logger = logging.Default.WithField("component", "panel")

// ErrorMessage turns an error from a binding into the text shown in its
// error slot.
func ErrorMessage(err error) string {
	if err == nil {
		return ""
	}
	var apiErr *gateway.APIError
	switch {
	case errors.Is(err, ErrBusy):
		return MsgBusy
	case errors.Is(err, ErrActionNotAllowed):
		return MsgNotAllowed
	case errors.Is(err, gateway.ErrLoginRequired):
		return MsgLoginRequired
	case errors.Is(err, gateway.ErrTransport):
		return MsgUnreachable
	case errors.As(err, &apiErr) && apiErr.Message != "":
		return apiErr.Message
	}
	return MsgUnexpected
}

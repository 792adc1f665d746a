package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/google/uuid"

	"github.com/HammerMeetNail/paddock/internal/logging"
	"github.com/HammerMeetNail/paddock/internal/models"
	"github.com/HammerMeetNail/paddock/internal/services"
)

const maxBodyBytes = 1 << 16

var logger = logging.Default.WithField("component", "handlers")

type ErrorResponse = models.ErrorResponse

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, ErrorResponse{Error: message})
}

// decodeJSON reads a JSON body into dst. An empty body leaves dst untouched
// when optional is set.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any, optional bool) bool {
	err := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes)).Decode(dst)
	if err == nil || (optional && errors.Is(err, io.EOF)) {
		return true
	}
	writeError(w, http.StatusBadRequest, "Invalid request body")
	return false
}

func pathUUID(w http.ResponseWriter, r *http.Request, name, label string) (uuid.UUID, bool) {
	id, err := uuid.Parse(r.PathValue(name))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid "+label)
		return uuid.Nil, false
	}
	return id, true
}

// serviceErrors maps service sentinels to the status and message clients see.
// Clients classify by status code, so the codes are part of the contract.
var serviceErrors = []struct {
	err     error
	status  int
	message string
}{
	{services.ErrUserNotFound, http.StatusNotFound, "User not found"},
	{services.ErrGroupNotFound, http.StatusNotFound, "Group not found"},
	{services.ErrNotificationNotFound, http.StatusNotFound, "Notification not found"},
	{services.ErrCannotFriendSelf, http.StatusBadRequest, "Cannot send friend request to yourself"},
	{services.ErrCannotBanSelf, http.StatusBadRequest, "Cannot ban yourself"},
	{services.ErrInvalidGroupName, http.StatusBadRequest, services.ErrInvalidGroupName.Error()},
	{services.ErrNotActionable, http.StatusBadRequest, "Notification cannot be answered"},
	{services.ErrUserBanned, http.StatusForbidden, "Cannot interact with this user"},
	{services.ErrNotGroupAdmin, http.StatusForbidden, "Only the group owner can do that"},
	{services.ErrCannotTargetOwner, http.StatusForbidden, "The group owner cannot be targeted"},
	{services.ErrFriendshipExists, http.StatusConflict, "Friend request already exists"},
	{services.ErrFriendshipNotPending, http.StatusConflict, "No pending friend request"},
	{services.ErrNotFriend, http.StatusConflict, "You are not friends with this user"},
	{services.ErrBanExists, http.StatusConflict, "User already banned"},
	{services.ErrBanNotFound, http.StatusConflict, "User is not banned"},
	{services.ErrGroupNameTaken, http.StatusConflict, "Group name already taken"},
	{services.ErrGroupRelationConflict, http.StatusConflict, "Current group relation does not allow that"},
	{services.ErrNoPendingGroupRequest, http.StatusConflict, "No pending group request"},
	{services.ErrGroupNotBlocked, http.StatusConflict, "Group is not blocked"},
	{services.ErrAlreadyResponded, http.StatusConflict, "Request already answered"},
}

// writeServiceError answers with the mapped status for known sentinels and a
// logged 500 for everything else.
func writeServiceError(w http.ResponseWriter, err error, action string) {
	for _, m := range serviceErrors {
		if errors.Is(err, m.err) {
			writeError(w, m.status, m.message)
			return
		}
	}
	logger.Error("request failed", logging.Fields{"action": action, "error": err.Error()})
	writeError(w, http.StatusInternalServerError, "Internal server error")
}

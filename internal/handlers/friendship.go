package handlers

import (
	"context"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/HammerMeetNail/paddock/internal/models"
	"github.com/HammerMeetNail/paddock/internal/relation"
	"github.com/HammerMeetNail/paddock/internal/services"
)

type FriendshipHandler struct {
	friendships services.FriendshipServiceInterface
	bans        services.BanServiceInterface
}

func NewFriendshipHandler(friendships services.FriendshipServiceInterface, bans services.BanServiceInterface) *FriendshipHandler {
	return &FriendshipHandler{
		friendships: friendships,
		bans:        bans,
	}
}

func (h *FriendshipHandler) Status(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	state, err := h.friendships.Status(r.Context(), userID, r.PathValue("username"))
	if err != nil {
		writeServiceError(w, err, "friendship status")
		return
	}
	writeJSON(w, http.StatusOK, state)
}

func (h *FriendshipHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	friends, err := h.friendships.ListFriends(r.Context(), userID)
	if err != nil {
		writeServiceError(w, err, "list friends")
		return
	}
	writeJSON(w, http.StatusOK, models.FriendListResponse{Friends: friends})
}

func (h *FriendshipHandler) SendRequest(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	username, ok := bodyUsername(w, r)
	if !ok {
		return
	}
	status, err := h.friendships.SendRequest(r.Context(), userID, username)
	if err != nil {
		writeServiceError(w, err, "send friend request")
		return
	}
	writeJSON(w, http.StatusCreated, models.FriendshipStatusResponse{Status: status, Message: "Friend request sent"})
}

func (h *FriendshipHandler) Confirm(w http.ResponseWriter, r *http.Request) {
	h.answer(w, r, h.friendships.Confirm, "Friend request accepted")
}

func (h *FriendshipHandler) Reject(w http.ResponseWriter, r *http.Request) {
	h.answer(w, r, h.friendships.Reject, "Friend request rejected")
}

func (h *FriendshipHandler) answer(w http.ResponseWriter, r *http.Request, op friendshipOp, message string) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	// The notification id is accepted for symmetry with the respond endpoint;
	// every pending request notification from the sender is retired anyway.
	var req models.RespondFriendRequest
	if !decodeJSON(w, r, &req, true) {
		return
	}
	h.run(w, r, userID, op, message, "answer friend request")
}

func (h *FriendshipHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	h.run(w, r, userID, h.friendships.Cancel, "Friend request cancelled", "cancel friend request")
}

func (h *FriendshipHandler) Remove(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	h.run(w, r, userID, h.friendships.Remove, "Friend removed", "remove friend")
}

func (h *FriendshipHandler) Ban(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	username, ok := bodyUsername(w, r)
	if !ok {
		return
	}
	status, err := h.bans.Ban(r.Context(), userID, username)
	if err != nil {
		writeServiceError(w, err, "ban user")
		return
	}
	writeJSON(w, http.StatusCreated, models.FriendshipStatusResponse{Status: status, Message: "User banned"})
}

func (h *FriendshipHandler) Unban(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	h.run(w, r, userID, h.bans.Unban, "User unbanned", "unban user")
}

func (h *FriendshipHandler) ListBanned(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	banned, err := h.bans.ListBanned(r.Context(), userID)
	if err != nil {
		writeServiceError(w, err, "list banned")
		return
	}
	writeJSON(w, http.StatusOK, models.BannedListResponse{Banned: banned})
}

type friendshipOp func(ctx context.Context, userID uuid.UUID, username string) (relation.FriendshipStatus, error)

// run applies op to the {username} path value.
func (h *FriendshipHandler) run(w http.ResponseWriter, r *http.Request, userID uuid.UUID, op friendshipOp, message, action string) {
	status, err := op(r.Context(), userID, r.PathValue("username"))
	if err != nil {
		writeServiceError(w, err, action)
		return
	}
	writeJSON(w, http.StatusOK, models.FriendshipStatusResponse{Status: status, Message: message})
}

func bodyUsername(w http.ResponseWriter, r *http.Request) (string, bool) {
	var req models.FriendUsernameRequest
	if !decodeJSON(w, r, &req, false) {
		return "", false
	}
	username := strings.TrimSpace(req.Username)
	if username == "" {
		writeError(w, http.StatusBadRequest, "Username is required")
		return "", false
	}
	return username, true
}

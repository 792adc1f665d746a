package handlers

import (
	"net/http"

	"github.com/HammerMeetNail/paddock/internal/models"
	"github.com/HammerMeetNail/paddock/internal/services"
)

type NotificationHandler struct {
	notifications services.NotificationServiceInterface
}

func NewNotificationHandler(notifications services.NotificationServiceInterface) *NotificationHandler {
	return &NotificationHandler{notifications: notifications}
}

func (h *NotificationHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	list, unread, err := h.notifications.List(r.Context(), userID)
	if err != nil {
		writeServiceError(w, err, "list notifications")
		return
	}
	writeJSON(w, http.StatusOK, models.NotificationListResponse{Notifications: list, Unread: unread})
}

func (h *NotificationHandler) MarkRead(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	id, ok := pathUUID(w, r, "id", "notification ID")
	if !ok {
		return
	}
	if err := h.notifications.MarkRead(r.Context(), userID, id); err != nil {
		writeServiceError(w, err, "mark notification read")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *NotificationHandler) Respond(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	id, ok := pathUUID(w, r, "id", "notification ID")
	if !ok {
		return
	}
	var req models.RespondRequest
	if !decodeJSON(w, r, &req, false) {
		return
	}
	resp, err := h.notifications.Respond(r.Context(), userID, id, req.Accept)
	if err != nil {
		writeServiceError(w, err, "respond to request")
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

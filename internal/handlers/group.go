package handlers

import (
	"net/http"

	"github.com/HammerMeetNail/paddock/internal/models"
	"github.com/HammerMeetNail/paddock/internal/relation"
	"github.com/HammerMeetNail/paddock/internal/services"
)

type GroupHandler struct {
	groups services.GroupServiceInterface
}

func NewGroupHandler(groups services.GroupServiceInterface) *GroupHandler {
	return &GroupHandler{groups: groups}
}

func (h *GroupHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	var req models.CreateGroupParams
	if !decodeJSON(w, r, &req, false) {
		return
	}
	group, err := h.groups.Create(r.Context(), userID, req)
	if err != nil {
		writeServiceError(w, err, "create group")
		return
	}
	writeJSON(w, http.StatusCreated, group)
}

func (h *GroupHandler) Get(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireUser(w, r); !ok {
		return
	}
	group, err := h.groups.Get(r.Context(), r.PathValue("ref"))
	if err != nil {
		writeServiceError(w, err, "get group")
		return
	}
	writeJSON(w, http.StatusOK, group)
}

func (h *GroupHandler) UserGroups(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	groups, err := h.groups.ListForUser(r.Context(), userID, r.PathValue("username"))
	if err != nil {
		writeServiceError(w, err, "user groups")
		return
	}
	writeJSON(w, http.StatusOK, models.GroupListResponse{Groups: groups})
}

func (h *GroupHandler) Members(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireUser(w, r); !ok {
		return
	}
	groupID, ok := pathUUID(w, r, "ref", "group ID")
	if !ok {
		return
	}
	members, err := h.groups.Members(r.Context(), groupID)
	if err != nil {
		writeServiceError(w, err, "group members")
		return
	}
	writeJSON(w, http.StatusOK, models.GroupMembersResponse{Members: members})
}

func (h *GroupHandler) Relation(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	state, err := h.groups.Relation(r.Context(), userID, r.PathValue("ref"))
	if err != nil {
		writeServiceError(w, err, "group relation")
		return
	}
	writeJSON(w, http.StatusOK, state)
}

func (h *GroupHandler) RelationOfUser(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	groupID, ok := pathUUID(w, r, "ref", "group ID")
	if !ok {
		return
	}
	state, err := h.groups.RelationOfUser(r.Context(), userID, groupID, r.PathValue("username"))
	if err != nil {
		writeServiceError(w, err, "member relation")
		return
	}
	writeJSON(w, http.StatusOK, state)
}

func (h *GroupHandler) RequestJoin(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	status, err := h.groups.RequestJoin(r.Context(), userID, r.PathValue("ref"))
	writeGroupResult(w, status, err, http.StatusCreated, "join request")
}

func (h *GroupHandler) Invite(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	groupID, ok := pathUUID(w, r, "ref", "group ID")
	if !ok {
		return
	}
	username, ok := bodyUsername(w, r)
	if !ok {
		return
	}
	status, err := h.groups.Invite(r.Context(), userID, groupID, username)
	writeGroupResult(w, status, err, http.StatusCreated, "invite")
}

func (h *GroupHandler) CancelInvite(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	groupID, ok := pathUUID(w, r, "ref", "group ID")
	if !ok {
		return
	}
	targetID, ok := pathUUID(w, r, "userID", "user ID")
	if !ok {
		return
	}
	status, err := h.groups.CancelInvite(r.Context(), userID, groupID, targetID)
	writeGroupResult(w, status, err, http.StatusOK, "cancel invite")
}

func (h *GroupHandler) ConfirmJoin(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	requestID, ok := pathUUID(w, r, "id", "request ID")
	if !ok {
		return
	}
	status, err := h.groups.ConfirmJoin(r.Context(), userID, requestID)
	writeGroupResult(w, status, err, http.StatusOK, "confirm join")
}

func (h *GroupHandler) RejectJoin(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	requestID, ok := pathUUID(w, r, "id", "request ID")
	if !ok {
		return
	}
	status, err := h.groups.RejectJoin(r.Context(), userID, requestID)
	writeGroupResult(w, status, err, http.StatusOK, "reject join")
}

func (h *GroupHandler) Ban(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	groupID, ok := pathUUID(w, r, "ref", "group ID")
	if !ok {
		return
	}
	username, ok := bodyUsername(w, r)
	if !ok {
		return
	}
	status, err := h.groups.Ban(r.Context(), userID, groupID, username)
	writeGroupResult(w, status, err, http.StatusCreated, "group ban")
}

func (h *GroupHandler) Unban(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	groupID, ok := pathUUID(w, r, "ref", "group ID")
	if !ok {
		return
	}
	status, err := h.groups.Unban(r.Context(), userID, groupID, r.PathValue("username"))
	writeGroupResult(w, status, err, http.StatusOK, "group unban")
}

func (h *GroupHandler) Block(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	status, err := h.groups.Block(r.Context(), userID, r.PathValue("ref"))
	writeGroupResult(w, status, err, http.StatusOK, "block group")
}

func (h *GroupHandler) Unblock(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	status, err := h.groups.Unblock(r.Context(), userID, r.PathValue("ref"))
	writeGroupResult(w, status, err, http.StatusOK, "unblock group")
}

func writeGroupResult(w http.ResponseWriter, status relation.GroupRelationStatus, err error, code int, action string) {
	if err != nil {
		writeServiceError(w, err, action)
		return
	}
	writeJSON(w, code, models.GroupState(status))
}

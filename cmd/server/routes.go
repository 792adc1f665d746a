package main

import (
	"net/http"

	"github.com/HammerMeetNail/paddock/internal/handlers"
	"github.com/HammerMeetNail/paddock/internal/middleware"
)

type routeHandlers struct {
	health        *handlers.HealthHandler
	auth          *handlers.AuthHandler
	friendships   *handlers.FriendshipHandler
	groups        *handlers.GroupHandler
	notifications *handlers.NotificationHandler
}

type routeMiddleware struct {
	auth        *middleware.AuthMiddleware
	authLimiter *middleware.RateLimiter
	apiLimiter  *middleware.RateLimiter
}

func newRouter(h routeHandlers, m routeMiddleware) *http.ServeMux {
	mux := http.NewServeMux()

	protected := func(fn http.HandlerFunc) http.Handler {
		return m.apiLimiter.Middleware(m.auth.RequireAuth(fn))
	}
	limitedAuth := func(fn http.HandlerFunc) http.Handler {
		return m.authLimiter.Middleware(fn)
	}

	// Health endpoints (no auth, no rate limit)
	mux.HandleFunc("GET /health", h.health.Health)
	mux.HandleFunc("GET /ready", h.health.Ready)
	mux.HandleFunc("GET /live", h.health.Live)

	mux.Handle("POST /api/auth/register", limitedAuth(h.auth.Register))
	mux.Handle("POST /api/auth/login", limitedAuth(h.auth.Login))
	mux.Handle("POST /api/auth/logout", protected(h.auth.Logout))
	mux.Handle("GET /api/auth/me", protected(h.auth.Me))

	mux.Handle("GET /api/friends", protected(h.friendships.List))
	mux.Handle("GET /api/friends/status/{username}", protected(h.friendships.Status))
	mux.Handle("POST /api/friends/requests", protected(h.friendships.SendRequest))
	mux.Handle("PUT /api/friends/requests/{username}/confirm", protected(h.friendships.Confirm))
	mux.Handle("PUT /api/friends/requests/{username}/reject", protected(h.friendships.Reject))
	mux.Handle("DELETE /api/friends/requests/{username}", protected(h.friendships.Cancel))
	mux.Handle("DELETE /api/friends/{username}", protected(h.friendships.Remove))

	mux.Handle("GET /api/bans", protected(h.friendships.ListBanned))
	mux.Handle("POST /api/bans", protected(h.friendships.Ban))
	mux.Handle("DELETE /api/bans/{username}", protected(h.friendships.Unban))

	mux.Handle("POST /api/groups", protected(h.groups.Create))
	mux.Handle("GET /api/groups/{ref}", protected(h.groups.Get))
	mux.Handle("GET /api/users/{username}/groups", protected(h.groups.UserGroups))
	mux.Handle("GET /api/groups/{ref}/relation", protected(h.groups.Relation))
	mux.Handle("GET /api/groups/{ref}/members", protected(h.groups.Members))
	mux.Handle("GET /api/groups/{ref}/members/{username}/relation", protected(h.groups.RelationOfUser))
	mux.Handle("POST /api/groups/{ref}/join", protected(h.groups.RequestJoin))
	mux.Handle("POST /api/groups/{ref}/invites", protected(h.groups.Invite))
	mux.Handle("DELETE /api/groups/{ref}/invites/{userID}", protected(h.groups.CancelInvite))
	mux.Handle("PUT /api/groups/join-requests/{id}/confirm", protected(h.groups.ConfirmJoin))
	mux.Handle("PUT /api/groups/join-requests/{id}/reject", protected(h.groups.RejectJoin))
	mux.Handle("POST /api/groups/{ref}/bans", protected(h.groups.Ban))
	mux.Handle("DELETE /api/groups/{ref}/bans/{username}", protected(h.groups.Unban))
	mux.Handle("POST /api/groups/{ref}/block", protected(h.groups.Block))
	mux.Handle("DELETE /api/groups/{ref}/block", protected(h.groups.Unblock))

	mux.Handle("GET /api/notifications", protected(h.notifications.List))
	mux.Handle("PUT /api/notifications/{id}/read", protected(h.notifications.MarkRead))
	mux.Handle("POST /api/notifications/{id}/respond", protected(h.notifications.Respond))

	return mux
}

package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"

	"github.com/HammerMeetNail/paddock/internal/models"
)

func TestClaimsContext(t *testing.T) {
	claims := &models.Claims{UserID: uuid.NewString(), Username: "alice"}
	ctx := SetClaimsInContext(context.Background(), claims)

	if got := GetClaimsFromContext(ctx); got != claims {
		t.Fatalf("expected stored claims, got %+v", got)
	}
	if got := GetClaimsFromContext(context.Background()); got != nil {
		t.Fatalf("expected nil claims, got %+v", got)
	}
}

func TestRequireUser(t *testing.T) {
	id := uuid.New()
	rr := httptest.NewRecorder()
	got, ok := requireUser(rr, authedRequest(http.MethodGet, "/", nil, id))
	if !ok || got != id {
		t.Fatalf("expected %s, got %s (%v)", id, got, ok)
	}

	rr = httptest.NewRecorder()
	if _, ok := requireUser(rr, httptest.NewRequest(http.MethodGet, "/", nil)); ok {
		t.Fatal("anonymous request must be refused")
	}
	assertErrorResponse(t, rr, http.StatusUnauthorized, "Authentication required")

	rr = httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req = req.WithContext(SetClaimsInContext(req.Context(), &models.Claims{UserID: "not-a-uuid"}))
	if _, ok := requireUser(rr, req); ok {
		t.Fatal("malformed subject must be refused")
	}
}

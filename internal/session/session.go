// Package session owns the bearer token used by every gateway call. A
// Session is created once, passed explicitly to whoever needs it, loaded at
// start-up and cleared on logout.
package session

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/HammerMeetNail/paddock/internal/logging"
	"github.com/HammerMeetNail/paddock/internal/models"
)

// ErrLoginRequired means there is no usable token; the caller must send the
// user to the login entry point instead of attempting the call.
var ErrLoginRequired = errors.New("login required")

type Session struct {
	mu        sync.RWMutex
	store     Store
	token     string
	username  string
	expiresAt time.Time
	now       func() time.Time
}

func New(store Store) *Session {
	return &Session{store: store, now: time.Now}
}

// Load reads the persisted token, if any. A corrupt store is cleared and
// the session starts logged out.
func (s *Session) Load() error {
	token, err := s.store.Load()
	if errors.Is(err, ErrCorrupt) {
		logging.Warn("Discarding unreadable session; log in again", logging.Fields{"error": err.Error()})
		if err := s.store.Clear(); err != nil {
			return err
		}
		token, err = "", nil
	}
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.set(token)
	return nil
}

// Token returns the current token, or ErrLoginRequired when there is none
// or it has expired.
func (s *Session) Token() (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.token == "" {
		return "", ErrLoginRequired
	}
	if !s.expiresAt.IsZero() && !s.now().Before(s.expiresAt) {
		return "", fmt.Errorf("token expired at %s: %w", s.expiresAt.Format(time.RFC3339), ErrLoginRequired)
	}
	return s.token, nil
}

// Username is the account name carried in the token, if readable.
func (s *Session) Username() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.username
}

// Save stores a fresh token after login.
func (s *Session) Save(token string) error {
	if err := s.store.Save(token); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.set(token)
	return nil
}

// Clear drops the token locally and in the store.
func (s *Session) Clear() error {
	s.mu.Lock()
	s.set("")
	s.mu.Unlock()
	return s.store.Clear()
}

func (s *Session) set(token string) {
	s.token = token
	s.username = ""
	s.expiresAt = time.Time{}
	if token == "" {
		return
	}
	var claims models.Claims
	// The signature is the backend's business; only exp and username are read.
	if _, _, err := jwt.NewParser().ParseUnverified(token, &claims); err != nil {
		return
	}
	s.username = claims.Username
	if claims.ExpiresAt != nil {
		s.expiresAt = claims.ExpiresAt.Time
	}
}

package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/HammerMeetNail/paddock/internal/logging"
	"github.com/HammerMeetNail/paddock/internal/models"
	"github.com/HammerMeetNail/paddock/internal/relation"
)

const defaultTimeout = 15 * time.Second

// Client is the HTTP implementation of Gateway.
type Client struct {
	baseURL string
	http    *http.Client
	tokens  TokenSource
	logger  *logging.Logger
}

type Option func(*Client)

// WithHTTPClient replaces the underlying http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithTimeout sets the per-request timeout of the default http.Client.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.http.Timeout = d }
}

func WithLogger(l *logging.Logger) Option {
	return func(c *Client) { c.logger = l }
}

func NewClient(baseURL string, tokens TokenSource, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: defaultTimeout},
		tokens:  tokens,
		logger:  logging.Default,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.logger = c.logger.WithField("component", "gateway")
	return c
}

// Login exchanges credentials for a token. It does not need a session.
func (c *Client) Login(ctx context.Context, username, password string) (*models.AuthResponse, error) {
	var resp models.AuthResponse
	err := c.send(ctx, http.MethodPost, "/api/auth/login", "", models.LoginRequest{Username: username, Password: password}, &resp)
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) Register(ctx context.Context, username, email, password string) (*models.AuthResponse, error) {
	var resp models.AuthResponse
	req := models.RegisterRequest{Username: username, Email: email, Password: password}
	if err := c.send(ctx, http.MethodPost, "/api/auth/register", "", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Logout revokes the current token on the backend.
func (c *Client) Logout(ctx context.Context) error {
	return c.do(ctx, http.MethodPost, "/api/auth/logout", nil, nil)
}

func (c *Client) FriendshipStatus(ctx context.Context, username string) (models.FriendshipState, error) {
	var state models.FriendshipState
	err := c.do(ctx, http.MethodGet, "/api/friends/status/"+url.PathEscape(username), nil, &state)
	return state, err
}

func (c *Client) SendFriendRequest(ctx context.Context, username string) (relation.FriendshipStatus, error) {
	return c.friendshipMutation(ctx, http.MethodPost, "/api/friends/requests", models.FriendUsernameRequest{Username: username})
}

func (c *Client) ConfirmFriendRequest(ctx context.Context, username string, notificationID *uuid.UUID) (relation.FriendshipStatus, error) {
	path := "/api/friends/requests/" + url.PathEscape(username) + "/confirm"
	return c.friendshipMutation(ctx, http.MethodPut, path, models.RespondFriendRequest{NotificationID: notificationID})
}

func (c *Client) RejectFriendRequest(ctx context.Context, username string, notificationID *uuid.UUID) (relation.FriendshipStatus, error) {
	path := "/api/friends/requests/" + url.PathEscape(username) + "/reject"
	return c.friendshipMutation(ctx, http.MethodPut, path, models.RespondFriendRequest{NotificationID: notificationID})
}

func (c *Client) CancelFriendRequest(ctx context.Context, username string) (relation.FriendshipStatus, error) {
	return c.friendshipMutation(ctx, http.MethodDelete, "/api/friends/requests/"+url.PathEscape(username), nil)
}

func (c *Client) BanUser(ctx context.Context, username string) (relation.FriendshipStatus, error) {
	return c.friendshipMutation(ctx, http.MethodPost, "/api/bans", models.FriendUsernameRequest{Username: username})
}

func (c *Client) UnbanUser(ctx context.Context, username string) (relation.FriendshipStatus, error) {
	return c.friendshipMutation(ctx, http.MethodDelete, "/api/bans/"+url.PathEscape(username), nil)
}

func (c *Client) RemoveFriend(ctx context.Context, username string) (relation.FriendshipStatus, error) {
	return c.friendshipMutation(ctx, http.MethodDelete, "/api/friends/"+url.PathEscape(username), nil)
}

func (c *Client) ListFriends(ctx context.Context) ([]models.FriendWithUser, error) {
	var resp models.FriendListResponse
	if err := c.do(ctx, http.MethodGet, "/api/friends", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Friends, nil
}

func (c *Client) Group(ctx context.Context, ref string) (models.Group, error) {
	var group models.Group
	err := c.do(ctx, http.MethodGet, "/api/groups/"+url.PathEscape(ref), nil, &group)
	return group, err
}

func (c *Client) UserGroups(ctx context.Context, username string) ([]models.Group, error) {
	var resp models.GroupListResponse
	if err := c.do(ctx, http.MethodGet, "/api/users/"+url.PathEscape(username)+"/groups", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Groups, nil
}

func (c *Client) GroupMembers(ctx context.Context, groupID uuid.UUID) ([]models.GroupMember, error) {
	var resp models.GroupMembersResponse
	if err := c.do(ctx, http.MethodGet, "/api/groups/"+groupID.String()+"/members", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Members, nil
}

// GroupRelation returns the caller's status with a group. A 404 from the
// backend is reported as the GroupNotFound sentinel, not as an error, so the
// policy can render it.
func (c *Client) GroupRelation(ctx context.Context, groupName string) (relation.GroupRelationStatus, error) {
	return c.groupRead(ctx, "/api/groups/"+url.PathEscape(groupName)+"/relation")
}

func (c *Client) GroupRelationOfUser(ctx context.Context, username string, groupID uuid.UUID) (relation.GroupRelationStatus, error) {
	return c.groupRead(ctx, "/api/groups/"+groupID.String()+"/members/"+url.PathEscape(username)+"/relation")
}

func (c *Client) RequestGroupJoin(ctx context.Context, groupRef string) (relation.GroupRelationStatus, error) {
	return c.groupMutation(ctx, http.MethodPost, "/api/groups/"+url.PathEscape(groupRef)+"/join", nil)
}

func (c *Client) InviteUserToGroup(ctx context.Context, groupID uuid.UUID, username string) (relation.GroupRelationStatus, error) {
	return c.groupMutation(ctx, http.MethodPost, "/api/groups/"+groupID.String()+"/invites", models.FriendUsernameRequest{Username: username})
}

func (c *Client) CancelInvite(ctx context.Context, groupID, userID uuid.UUID) (relation.GroupRelationStatus, error) {
	return c.groupMutation(ctx, http.MethodDelete, "/api/groups/"+groupID.String()+"/invites/"+userID.String(), nil)
}

func (c *Client) ConfirmJoinRequest(ctx context.Context, requestID uuid.UUID) (relation.GroupRelationStatus, error) {
	return c.groupMutation(ctx, http.MethodPut, "/api/groups/join-requests/"+requestID.String()+"/confirm", nil)
}

func (c *Client) RejectJoinRequest(ctx context.Context, requestID uuid.UUID) (relation.GroupRelationStatus, error) {
	return c.groupMutation(ctx, http.MethodPut, "/api/groups/join-requests/"+requestID.String()+"/reject", nil)
}

func (c *Client) BanUserFromGroup(ctx context.Context, groupID uuid.UUID, username string) (relation.GroupRelationStatus, error) {
	return c.groupMutation(ctx, http.MethodPost, "/api/groups/"+groupID.String()+"/bans", models.FriendUsernameRequest{Username: username})
}

func (c *Client) UnbanUserFromGroup(ctx context.Context, groupID uuid.UUID, username string) (relation.GroupRelationStatus, error) {
	return c.groupMutation(ctx, http.MethodDelete, "/api/groups/"+groupID.String()+"/bans/"+url.PathEscape(username), nil)
}

func (c *Client) BlockGroup(ctx context.Context, groupRef string) (relation.GroupRelationStatus, error) {
	return c.groupMutation(ctx, http.MethodPost, "/api/groups/"+url.PathEscape(groupRef)+"/block", nil)
}

func (c *Client) UnblockGroup(ctx context.Context, groupRef string) (relation.GroupRelationStatus, error) {
	return c.groupMutation(ctx, http.MethodDelete, "/api/groups/"+url.PathEscape(groupRef)+"/block", nil)
}

func (c *Client) Notifications(ctx context.Context) ([]models.Notification, error) {
	var resp models.NotificationListResponse
	if err := c.do(ctx, http.MethodGet, "/api/notifications", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Notifications, nil
}

func (c *Client) RespondToRequest(ctx context.Context, notificationID uuid.UUID, accept bool) (relation.Status, error) {
	var resp models.RespondResponse
	path := "/api/notifications/" + notificationID.String() + "/respond"
	if err := c.do(ctx, http.MethodPost, path, models.RespondRequest{Accept: accept}, &resp); err != nil {
		return relation.Status{}, err
	}
	return resp.Relation, nil
}

func (c *Client) friendshipMutation(ctx context.Context, method, path string, body any) (relation.FriendshipStatus, error) {
	var resp models.FriendshipStatusResponse
	if err := c.do(ctx, method, path, body, &resp); err != nil {
		return 0, err
	}
	return resp.Status, nil
}

func (c *Client) groupMutation(ctx context.Context, method, path string, body any) (relation.GroupRelationStatus, error) {
	var resp models.GroupRelationState
	if err := c.do(ctx, method, path, body, &resp); err != nil {
		return relation.GroupStatusMissing, err
	}
	if resp.Status == nil {
		return relation.GroupStatusMissing, nil
	}
	return *resp.Status, nil
}

func (c *Client) groupRead(ctx context.Context, path string) (relation.GroupRelationStatus, error) {
	var resp models.GroupRelationState
	err := c.do(ctx, http.MethodGet, path, nil, &resp)
	if errors.Is(err, ErrNotFound) {
		return relation.GroupNotFound, nil
	}
	if err != nil {
		return relation.GroupStatusMissing, err
	}
	if resp.Status == nil {
		return relation.GroupStatusMissing, nil
	}
	return *resp.Status, nil
}

// do performs an authenticated call. The token is checked before anything
// goes on the wire.
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	token, err := c.tokens.Token()
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	err = c.send(ctx, method, path, token, body, out)
	if errors.Is(err, ErrLoginRequired) {
		if clearErr := c.tokens.Clear(); clearErr != nil {
			c.logger.Warn("Clearing rejected session failed", logging.Fields{"error": clearErr.Error()})
		}
	}
	return err
}

func (c *Client) send(ctx context.Context, method, path, token string, body, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encoding request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Debug("Request failed", logging.Fields{"method": method, "path": path, "error": err.Error()})
		return fmt.Errorf("%s %s: %w: %v", method, path, ErrTransport, err)
	}
	defer resp.Body.Close()

	c.logger.Debug("Request completed", logging.Fields{
		"method":      method,
		"path":        path,
		"status":      resp.StatusCode,
		"duration_ms": time.Since(start).Milliseconds(),
	})

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("%s %s: %w", method, path, decodeError(resp))
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%s %s: decoding response: %w: %v", method, path, ErrUnexpected, err)
	}
	return nil
}

func decodeError(resp *http.Response) *APIError {
	apiErr := &APIError{StatusCode: resp.StatusCode}
	var body models.ErrorResponse
	if data, err := io.ReadAll(io.LimitReader(resp.Body, 64<<10)); err == nil {
		if json.Unmarshal(data, &body) == nil {
			apiErr.Message = body.Error
		}
	}

	switch resp.StatusCode {
	case http.StatusUnauthorized:
		apiErr.kind = ErrLoginRequired
	case http.StatusForbidden, http.StatusConflict:
		apiErr.kind = ErrConflict
	case http.StatusNotFound:
		apiErr.kind = ErrNotFound
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		apiErr.kind = ErrBadRequest
	default:
		apiErr.kind = ErrUnexpected
	}
	return apiErr
}

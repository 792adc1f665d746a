package gateway

import (
	"context"
	"strings"
	"sync"

	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"

	"github.com/HammerMeetNail/paddock/internal/models"
	"github.com/HammerMeetNail/paddock/internal/relation"
)

const (
	friendPrefix = "friend:"
	groupPrefix  = "group:"
	memberPrefix = "member:"
)

// Cache is a read-through cache for status lookups in front of another
// Gateway. Concurrent lookups of the same relation share one backend call.
// Entries are only hints: a successful mutation drops the affected entries
// and bindings invalidate on mount.
type Cache struct {
	Gateway

	mu      sync.Mutex
	entries map[string]any
	// gen moves on every drop so a fetch that started before it is not stored.
	gen    uint64
	flight singleflight.Group
}

var (
	_ Gateway     = (*Cache)(nil)
	_ Invalidator = (*Cache)(nil)
)

func NewCache(next Gateway) *Cache {
	return &Cache{Gateway: next, entries: make(map[string]any)}
}

func (c *Cache) InvalidateFriendship(username string) {
	c.forget(friendPrefix + username)
}

// InvalidateGroup drops the caller's relation to the group and every cached
// member relation, since those are keyed by id rather than name.
func (c *Cache) InvalidateGroup(groupName string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, groupPrefix+groupName)
	c.dropPrefixLocked(memberPrefix)
	c.flight.Forget(groupPrefix + groupName)
}

func (c *Cache) FriendshipStatus(ctx context.Context, username string) (models.FriendshipState, error) {
	v, err := c.load(ctx, friendPrefix+username, func(ctx context.Context) (any, error) {
		return c.Gateway.FriendshipStatus(ctx, username)
	})
	if err != nil {
		return models.FriendshipState{}, err
	}
	return v.(models.FriendshipState), nil
}

func (c *Cache) GroupRelation(ctx context.Context, groupName string) (relation.GroupRelationStatus, error) {
	v, err := c.load(ctx, groupPrefix+groupName, func(ctx context.Context) (any, error) {
		return c.Gateway.GroupRelation(ctx, groupName)
	})
	if err != nil {
		return relation.GroupStatusMissing, err
	}
	return v.(relation.GroupRelationStatus), nil
}

func (c *Cache) GroupRelationOfUser(ctx context.Context, username string, groupID uuid.UUID) (relation.GroupRelationStatus, error) {
	key := memberPrefix + groupID.String() + ":" + username
	v, err := c.load(ctx, key, func(ctx context.Context) (any, error) {
		return c.Gateway.GroupRelationOfUser(ctx, username, groupID)
	})
	if err != nil {
		return relation.GroupStatusMissing, err
	}
	return v.(relation.GroupRelationStatus), nil
}

func (c *Cache) SendFriendRequest(ctx context.Context, username string) (relation.FriendshipStatus, error) {
	return c.friendship(username)(c.Gateway.SendFriendRequest(ctx, username))
}

func (c *Cache) ConfirmFriendRequest(ctx context.Context, username string, notificationID *uuid.UUID) (relation.FriendshipStatus, error) {
	return c.friendship(username)(c.Gateway.ConfirmFriendRequest(ctx, username, notificationID))
}

func (c *Cache) RejectFriendRequest(ctx context.Context, username string, notificationID *uuid.UUID) (relation.FriendshipStatus, error) {
	return c.friendship(username)(c.Gateway.RejectFriendRequest(ctx, username, notificationID))
}

func (c *Cache) CancelFriendRequest(ctx context.Context, username string) (relation.FriendshipStatus, error) {
	return c.friendship(username)(c.Gateway.CancelFriendRequest(ctx, username))
}

func (c *Cache) BanUser(ctx context.Context, username string) (relation.FriendshipStatus, error) {
	return c.friendship(username)(c.Gateway.BanUser(ctx, username))
}

func (c *Cache) UnbanUser(ctx context.Context, username string) (relation.FriendshipStatus, error) {
	return c.friendship(username)(c.Gateway.UnbanUser(ctx, username))
}

func (c *Cache) RemoveFriend(ctx context.Context, username string) (relation.FriendshipStatus, error) {
	return c.friendship(username)(c.Gateway.RemoveFriend(ctx, username))
}

func (c *Cache) RequestGroupJoin(ctx context.Context, groupRef string) (relation.GroupRelationStatus, error) {
	return c.group(groupRef)(c.Gateway.RequestGroupJoin(ctx, groupRef))
}

func (c *Cache) InviteUserToGroup(ctx context.Context, groupID uuid.UUID, username string) (relation.GroupRelationStatus, error) {
	return c.member(groupID, username)(c.Gateway.InviteUserToGroup(ctx, groupID, username))
}

func (c *Cache) CancelInvite(ctx context.Context, groupID, userID uuid.UUID) (relation.GroupRelationStatus, error) {
	// The username is not known here, so every member entry of the group goes.
	status, err := c.Gateway.CancelInvite(ctx, groupID, userID)
	if err == nil {
		c.mu.Lock()
		c.dropPrefixLocked(memberPrefix + groupID.String() + ":")
		c.mu.Unlock()
	}
	return status, err
}

func (c *Cache) ConfirmJoinRequest(ctx context.Context, requestID uuid.UUID) (relation.GroupRelationStatus, error) {
	return c.allGroups()(c.Gateway.ConfirmJoinRequest(ctx, requestID))
}

func (c *Cache) RejectJoinRequest(ctx context.Context, requestID uuid.UUID) (relation.GroupRelationStatus, error) {
	return c.allGroups()(c.Gateway.RejectJoinRequest(ctx, requestID))
}

func (c *Cache) BanUserFromGroup(ctx context.Context, groupID uuid.UUID, username string) (relation.GroupRelationStatus, error) {
	return c.member(groupID, username)(c.Gateway.BanUserFromGroup(ctx, groupID, username))
}

func (c *Cache) UnbanUserFromGroup(ctx context.Context, groupID uuid.UUID, username string) (relation.GroupRelationStatus, error) {
	return c.member(groupID, username)(c.Gateway.UnbanUserFromGroup(ctx, groupID, username))
}

func (c *Cache) BlockGroup(ctx context.Context, groupRef string) (relation.GroupRelationStatus, error) {
	return c.group(groupRef)(c.Gateway.BlockGroup(ctx, groupRef))
}

func (c *Cache) UnblockGroup(ctx context.Context, groupRef string) (relation.GroupRelationStatus, error) {
	return c.group(groupRef)(c.Gateway.UnblockGroup(ctx, groupRef))
}

// RespondToRequest can move a friendship or a group relation; the
// notification does not say which entry, so the whole cache is dropped.
func (c *Cache) RespondToRequest(ctx context.Context, notificationID uuid.UUID, accept bool) (relation.Status, error) {
	status, err := c.Gateway.RespondToRequest(ctx, notificationID, accept)
	if err == nil {
		c.mu.Lock()
		c.entries = make(map[string]any)
		c.gen++
		c.mu.Unlock()
	}
	return status, err
}

func (c *Cache) load(ctx context.Context, key string, fetch func(context.Context) (any, error)) (any, error) {
	c.mu.Lock()
	if v, ok := c.entries[key]; ok {
		c.mu.Unlock()
		return v, nil
	}
	gen := c.gen
	c.mu.Unlock()

	v, err, _ := c.flight.Do(key, func() (any, error) {
		v, err := fetch(ctx)
		if err != nil {
			return nil, err
		}
		c.mu.Lock()
		if c.gen == gen {
			c.entries[key] = v
		}
		c.mu.Unlock()
		return v, nil
	})
	return v, err
}

func (c *Cache) forget(key string) {
	c.mu.Lock()
	delete(c.entries, key)
	c.gen++
	c.mu.Unlock()
	c.flight.Forget(key)
}

func (c *Cache) dropPrefixLocked(prefix string) {
	c.gen++
	for key := range c.entries {
		if strings.HasPrefix(key, prefix) {
			delete(c.entries, key)
		}
	}
}

func (c *Cache) friendship(username string) func(relation.FriendshipStatus, error) (relation.FriendshipStatus, error) {
	return func(status relation.FriendshipStatus, err error) (relation.FriendshipStatus, error) {
		if err == nil {
			c.forget(friendPrefix + username)
		}
		return status, err
	}
}

func (c *Cache) group(groupRef string) func(relation.GroupRelationStatus, error) (relation.GroupRelationStatus, error) {
	return func(status relation.GroupRelationStatus, err error) (relation.GroupRelationStatus, error) {
		if err == nil {
			c.forget(groupPrefix + groupRef)
		}
		return status, err
	}
}

func (c *Cache) member(groupID uuid.UUID, username string) func(relation.GroupRelationStatus, error) (relation.GroupRelationStatus, error) {
	return func(status relation.GroupRelationStatus, err error) (relation.GroupRelationStatus, error) {
		if err == nil {
			c.forget(memberPrefix + groupID.String() + ":" + username)
		}
		return status, err
	}
}

func (c *Cache) allGroups() func(relation.GroupRelationStatus, error) (relation.GroupRelationStatus, error) {
	return func(status relation.GroupRelationStatus, err error) (relation.GroupRelationStatus, error) {
		if err == nil {
			c.mu.Lock()
			c.dropPrefixLocked(groupPrefix)
			c.dropPrefixLocked(memberPrefix)
			c.mu.Unlock()
		}
		return status, err
	}
}

// pkg/staff/cache.go
package staff

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// cachedProvider is a Redis read-through cache over another Provider.
// Resolved bindings are cached per (store, principal); Grant and Revoke
// invalidate the member's entry so the next check sees the new grants.
type cachedProvider struct {
	inner Provider
	rdb   *redis.Client
	ttl   time.Duration
	log   *zap.SugaredLogger
}

// NewCachedProvider wraps inner with a Redis cache. A nil client returns
// inner unchanged.
func NewCachedProvider(inner Provider, rdb *redis.Client, ttl time.Duration, log *zap.SugaredLogger) Provider {
	if rdb == nil {
		return inner
	}
	return &cachedProvider{inner: inner, rdb: rdb, ttl: ttl, log: log}
}

func memberKey(principalID, storeID string) string {
	return "staff:" + storeID + ":" + principalID
}

// idKey maps a member id back to its member key, so Grant/Revoke (which only
// see the member id) can drop the right cache entry.
func idKey(memberID string) string { return "staffid:" + memberID }

func (c *cachedProvider) ResolveMember(ctx context.Context, principalID, storeID string) (Member, error) {
	key := memberKey(principalID, storeID)
	if raw, err := c.rdb.Get(ctx, key).Bytes(); err == nil {
		var m Member
		if json.Unmarshal(raw, &m) == nil {
			return m, nil
		}
	}
	m, err := c.inner.ResolveMember(ctx, principalID, storeID)
	if err != nil {
		return Member{}, err
	}
	if raw, err := json.Marshal(m); err == nil {
		pipe := c.rdb.Pipeline()
		pipe.Set(ctx, key, raw, c.ttl)
		pipe.Set(ctx, idKey(m.ID), key, c.ttl)
		if _, err := pipe.Exec(ctx); err != nil {
			c.log.Debugw("staff cache set", "err", err)
		}
	}
	return m, nil
}

func (c *cachedProvider) ListMembers(ctx context.Context, storeID string) ([]Member, error) {
	return c.inner.ListMembers(ctx, storeID)
}

func (c *cachedProvider) Grant(ctx context.Context, memberID, code string) error {
	if err := c.inner.Grant(ctx, memberID, code); err != nil {
		return err
	}
	c.invalidate(ctx, memberID)
	return nil
}

func (c *cachedProvider) Revoke(ctx context.Context, memberID, code string) error {
	if err := c.inner.Revoke(ctx, memberID, code); err != nil {
		return err
	}
	c.invalidate(ctx, memberID)
	return nil
}

func (c *cachedProvider) invalidate(ctx context.Context, memberID string) {
	key, err := c.rdb.Get(ctx, idKey(memberID)).Result()
	if err != nil {
		return // never resolved through the cache, nothing staged
	}
	if err := c.rdb.Del(ctx, key, idKey(memberID)).Err(); err != nil {
		c.log.Debugw("staff cache del", "err", err)
	}
}

package rediscache

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/taskforge/user-service/internal/application"
	"github.com/taskforge/user-service/pkg/helpers"
)

func viewKey(id string) string {
	return "user:view:" + id
}

// UserCache is the read-through projection cache. Entries have no TTL by
// default (ttl=0); mutations evict rather than update, so the next read
// repopulates from the repository.
type UserCache struct {
	rdb    *redis.Client
	ttl    time.Duration
	logger *logrus.Logger
}

func NewUserCache(rdb *redis.Client, ttl time.Duration, logger *logrus.Logger) *UserCache {
	return &UserCache{rdb: rdb, ttl: ttl, logger: logger}
}

// Get returns the cached projection, or ok=false on a miss. Transport
// errors are treated as misses so reads fall through to the repository.
func (c *UserCache) Get(ctx context.Context, id string) (*application.UserView, bool) {
	var v application.UserView
	found, err := helpers.RedisGetJSON(ctx, c.rdb, viewKey(id), &v)
	if err != nil {
		c.logger.WithError(err).WithField("user_id", id).Warn("cache read failed")
		return nil, false
	}
	if !found {
		return nil, false
	}
	return &v, true
}

// Set populates the entry after a repository read. Best effort.
func (c *UserCache) Set(ctx context.Context, id string, v *application.UserView) {
	if err := helpers.RedisSetJSON(ctx, c.rdb, viewKey(id), v, c.ttl); err != nil {
		c.logger.WithError(err).WithField("user_id", id).Warn("cache write failed")
	}
}

// Delete evicts the entry. Unlike Set, the error propagates: a stale
// entry surviving a mutation is a coherence bug the caller must log.
func (c *UserCache) Delete(ctx context.Context, id string) error {
	return helpers.RedisDel(ctx, c.rdb, viewKey(id))
}

var _ application.UserCache = (*UserCache)(nil)

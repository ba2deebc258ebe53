package redis

import (
	"context"
	"errors"
	"strings"
	"time"

	"garden-planner-go/pkg/logger"
	goredis "github.com/redis/go-redis/v9"
)

const userIDKeyPrefix = "garden-planner:user-id:"

// UserIDCache keeps email -> user id entries in Redis so every replica sees
// the same invalidations. Redis failures degrade to cache misses.
type UserIDCache struct {
	client *goredis.Client
	ttl    time.Duration
	log    logger.Logger
}

func NewUserIDCache(client *goredis.Client, ttl time.Duration, log logger.Logger) *UserIDCache {
	return &UserIDCache{client: client, ttl: ttl, log: log}
}

func (c *UserIDCache) GetID(ctx context.Context, email string) (string, bool) {
	id, err := c.client.Get(ctx, key(email)).Result()
	if err != nil {
		if !errors.Is(err, goredis.Nil) {
			c.log.Warn("redis: user id lookup failed", "error", err)
		}
		return "", false
	}
	return id, id != ""
}

func (c *UserIDCache) SetID(ctx context.Context, email, userID string) {
	if userID == "" {
		return
	}
	if err := c.client.Set(ctx, key(email), userID, c.ttl).Err(); err != nil {
		c.log.Warn("redis: user id store failed", "error", err)
	}
}

func (c *UserIDCache) DeleteID(ctx context.Context, email string) {
	if err := c.client.Del(ctx, key(email)).Err(); err != nil {
		c.log.Warn("redis: user id delete failed", "error", err)
	}
}

func key(email string) string {
	return userIDKeyPrefix + strings.ToLower(strings.TrimSpace(email))
}

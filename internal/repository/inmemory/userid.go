package inmemory

import (
	"context"
	"strings"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

const (
	defaultUserIDCacheSize = 1024
	defaultUserIDCacheTTL  = 15 * time.Minute
)

// UserIDCache is a bounded email -> user id map whose entries expire after ttl.
type UserIDCache struct {
	items *expirable.LRU[string, string]
}

func NewUserIDCache(size int, ttl time.Duration) *UserIDCache {
	if size <= 0 {
		size = defaultUserIDCacheSize
	}
	if ttl <= 0 {
		ttl = defaultUserIDCacheTTL
	}
	return &UserIDCache{items: expirable.NewLRU[string, string](size, nil, ttl)}
}

func (c *UserIDCache) GetID(_ context.Context, email string) (string, bool) {
	return c.items.Get(cacheKey(email))
}

func (c *UserIDCache) SetID(_ context.Context, email, userID string) {
	if userID == "" {
		return
	}
	c.items.Add(cacheKey(email), userID)
}

func (c *UserIDCache) DeleteID(_ context.Context, email string) {
	c.items.Remove(cacheKey(email))
}

func (c *UserIDCache) Len() int {
	return c.items.Len()
}

func cacheKey(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

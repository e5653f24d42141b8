package redis

import (
	"context"
	"errors"
	"strings"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/yungbote/wedsite-backend/internal/pkg/logger"
)

const websiteKeyPrefix = "website:"

// LookupObserver records cache hits and misses.
type LookupObserver interface {
	ObserveCacheLookup(cache, result string)
}

type WebsiteCache struct {
	rdb      *goredis.Client
	ttl      time.Duration
	log      *logger.Logger
	observer LookupObserver
}

func NewWebsiteCache(log *logger.Logger, rdb *goredis.Client, ttl time.Duration, observer LookupObserver) *WebsiteCache {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &WebsiteCache{
		rdb:      rdb,
		ttl:      ttl,
		log:      log.With("client", "WebsiteCache"),
		observer: observer,
	}
}

func WebsiteKey(slug string) string {
	return websiteKeyPrefix + strings.ToLower(strings.TrimSpace(slug))
}

// Get returns the cached payload for slug. A miss is (nil, false, nil).
func (c *WebsiteCache) Get(ctx context.Context, slug string) ([]byte, bool, error) {
	raw, err := c.rdb.Get(ctx, WebsiteKey(slug)).Bytes()
	switch {
	case errors.Is(err, goredis.Nil):
		c.observe("miss")
		return nil, false, nil
	case err != nil:
		c.observe("error")
		return nil, false, err
	}
	c.observe("hit")
	return raw, true, nil
}

func (c *WebsiteCache) Set(ctx context.Context, slug string, payload []byte) error {
	return c.rdb.Set(ctx, WebsiteKey(slug), payload, c.ttl).Err()
}

func (c *WebsiteCache) Delete(ctx context.Context, slugs ...string) error {
	keys := make([]string, 0, len(slugs))
	for _, s := range slugs {
		if strings.TrimSpace(s) != "" {
			keys = append(keys, WebsiteKey(s))
		}
	}
	if len(keys) == 0 {
		return nil
	}
	if err := c.rdb.Del(ctx, keys...).Err(); err != nil {
		c.log.Warn("website cache invalidation failed", "keys", keys, "error", err)
		return err
	}
	return nil
}

func (c *WebsiteCache) observe(result string) {
	if c.observer != nil {
		c.observer.ObserveCacheLookup("website", result)
	}
}

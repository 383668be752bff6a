package tinybird

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"statuspage_backend/platform/logger"

	"github.com/redis/go-redis/v9"
)

const homeCacheKeyPrefix = "tinybird:home:monitor_list:"

// DefaultHomeCacheTTL matches the revalidation window of the public homepage.
const DefaultHomeCacheTTL = 10 * time.Minute

// HomeCache serves the homepage monitor list from Redis, falling back to the
// pipe on a miss. Only the homepage is cached; dashboards read live data.
type HomeCache struct {
	client *Client
	rdb    redis.UniversalClient
	ttl    time.Duration
	log    *logger.Logger
}

// NewHomeCache wraps client with a Redis cache. A nil rdb disables caching.
func NewHomeCache(client *Client, rdb redis.UniversalClient, ttl time.Duration, log *logger.Logger) *HomeCache {
	if ttl <= 0 {
		ttl = DefaultHomeCacheTTL
	}
	return &HomeCache{client: client, rdb: rdb, ttl: ttl, log: log}
}

// GetHomeMonitorList returns the cached aggregate list for the homepage monitor.
func (h *HomeCache) GetHomeMonitorList(ctx context.Context, p MonitorListParams) ([]MonitorListItem, error) {
	key := homeCacheKeyPrefix + monitorListValues(p).Encode()

	if h.rdb != nil {
		raw, err := h.rdb.Get(ctx, key).Bytes()
		switch {
		case err == nil:
			var items []MonitorListItem
			if jsonErr := json.Unmarshal(raw, &items); jsonErr == nil {
				return items, nil
			}
			h.log.Warn("discarding corrupt home monitor list cache entry", "key", key)
		case !errors.Is(err, redis.Nil):
			h.log.Warn("home monitor list cache read failed", "error", err)
		}
	}

	items, err := h.client.GetMonitorList(ctx, p)
	if err != nil {
		return nil, err
	}

	if h.rdb != nil {
		if raw, err := json.Marshal(items); err == nil {
			if err := h.rdb.Set(ctx, key, raw, h.ttl).Err(); err != nil {
				h.log.Warn("home monitor list cache write failed", "error", err)
			}
		}
	}
	return items, nil
}

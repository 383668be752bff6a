package tinybird

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"statuspage_backend/platform/config"
	"statuspage_backend/platform/logger"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func newCountingServer(t *testing.T, hits *atomic.Int32) *Client {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		_, _ = w.Write([]byte(`{"data":[{"count":10,"ok":9,"avgLatency":80.5,"cronTimestamp":1700000000000}]}`))
	}))
	t.Cleanup(srv.Close)
	return New(&config.Config{TinybirdURL: srv.URL, TinybirdToken: "tb_token"}, logger.Discard())
}

func TestHomeCacheServesSecondReadFromRedis(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	var hits atomic.Int32
	cache := NewHomeCache(newCountingServer(t, &hits), rdb, time.Minute, logger.Discard())
	params := MonitorListParams{MonitorID: "1", Limit: 45}

	first, err := cache.GetHomeMonitorList(context.Background(), params)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := cache.GetHomeMonitorList(context.Background(), params)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if hits.Load() != 1 {
		t.Fatalf("expected one upstream call, got %d", hits.Load())
	}
	if len(first) != 1 || len(second) != 1 || second[0].OK != 9 {
		t.Fatalf("unexpected cached data %+v", second)
	}
}

func TestHomeCacheExpires(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	var hits atomic.Int32
	cache := NewHomeCache(newCountingServer(t, &hits), rdb, time.Minute, logger.Discard())
	params := MonitorListParams{MonitorID: "1"}

	if _, err := cache.GetHomeMonitorList(context.Background(), params); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	mr.FastForward(2 * time.Minute)
	if _, err := cache.GetHomeMonitorList(context.Background(), params); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if hits.Load() != 2 {
		t.Fatalf("expected refetch after expiry, got %d calls", hits.Load())
	}
}

func TestHomeCacheWithoutRedisHitsUpstream(t *testing.T) {
	var hits atomic.Int32
	cache := NewHomeCache(newCountingServer(t, &hits), nil, 0, logger.Discard())

	for i := 0; i < 2; i++ {
		if _, err := cache.GetHomeMonitorList(context.Background(), MonitorListParams{MonitorID: "1"}); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if hits.Load() != 2 {
		t.Fatalf("expected every call upstream, got %d", hits.Load())
	}
}

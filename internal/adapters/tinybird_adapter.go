package adapters

import (
	"context"
	"errors"
	"strconv"

	"statuspage_backend/internal/checker"
	"statuspage_backend/internal/statuspage"
	"statuspage_backend/internal/tinybird"
)

// ResponseReader reads raw check results.
type ResponseReader interface {
	GetResponseList(ctx context.Context, p tinybird.ResponseListParams) ([]tinybird.ResponseListItem, error)
}

// MonitorListReader reads daily aggregates.
type MonitorListReader interface {
	GetMonitorList(ctx context.Context, p tinybird.MonitorListParams) ([]tinybird.MonitorListItem, error)
}

// PingWriter ingests check results.
type PingWriter interface {
	PublishPingResponse(ctx context.Context, event tinybird.PingResponse) error
}

// MonitorStatus reports the last status code of a monitor from analytics.
type MonitorStatus struct {
	responses ResponseReader
}

func NewMonitorStatus(responses ResponseReader) *MonitorStatus {
	return &MonitorStatus{responses: responses}
}

// LastStatus returns ok=false when the monitor has no results yet or
// analytics is disabled.
func (a *MonitorStatus) LastStatus(ctx context.Context, monitorID int64) (int, bool, error) {
	items, err := a.responses.GetResponseList(ctx, tinybird.ResponseListParams{
		MonitorID: strconv.FormatInt(monitorID, 10),
		Limit:     1,
	})
	if errors.Is(err, tinybird.ErrDisabled) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	if len(items) == 0 {
		return 0, false, nil
	}
	return items[0].StatusCode, true, nil
}

// Uptime serves daily uptime buckets to status pages.
type Uptime struct {
	lists MonitorListReader
}

func NewUptime(lists MonitorListReader) *Uptime {
	return &Uptime{lists: lists}
}

func (a *Uptime) Uptime(ctx context.Context, monitorID int64, days int) ([]statuspage.UptimeBucket, error) {
	items, err := a.lists.GetMonitorList(ctx, tinybird.MonitorListParams{
		MonitorID: strconv.FormatInt(monitorID, 10),
		Limit:     days,
	})
	if errors.Is(err, tinybird.ErrDisabled) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return toBuckets(items), nil
}

// HomeUptime serves the homepage monitor through the Redis-backed cache.
type HomeUptime struct {
	cache     MonitorListReader
	monitorID string
	days      int
}

const homeUptimeDays = 45

func NewHomeUptime(cache *tinybird.HomeCache, monitorID string) *HomeUptime {
	return &HomeUptime{cache: homeCacheReader{cache}, monitorID: monitorID, days: homeUptimeDays}
}

func (a *HomeUptime) HomeUptime(ctx context.Context) ([]statuspage.UptimeBucket, error) {
	items, err := a.cache.GetMonitorList(ctx, tinybird.MonitorListParams{MonitorID: a.monitorID, Limit: a.days})
	if err != nil {
		return nil, err
	}
	return toBuckets(items), nil
}

type homeCacheReader struct {
	cache *tinybird.HomeCache
}

func (r homeCacheReader) GetMonitorList(ctx context.Context, p tinybird.MonitorListParams) ([]tinybird.MonitorListItem, error) {
	return r.cache.GetHomeMonitorList(ctx, p)
}

func toBuckets(items []tinybird.MonitorListItem) []statuspage.UptimeBucket {
	buckets := make([]statuspage.UptimeBucket, 0, len(items))
	for _, item := range items {
		buckets = append(buckets, statuspage.UptimeBucket{
			Day:        item.CronTimestamp,
			Count:      item.Count,
			OK:         item.OK,
			AvgLatency: item.AvgLatency,
		})
	}
	return buckets
}

// PingPublisher stores finished checks in the ping_response datasource.
type PingPublisher struct {
	pings PingWriter
}

func NewPingPublisher(pings PingWriter) *PingPublisher {
	return &PingPublisher{pings: pings}
}

// PublishCheck drops the result when analytics is disabled.
func (a *PingPublisher) PublishCheck(ctx context.Context, event checker.CheckEvent) error {
	err := a.pings.PublishPingResponse(ctx, tinybird.PingResponse{
		WorkspaceID:   strconv.FormatInt(event.WorkspaceID, 10),
		MonitorID:     strconv.FormatInt(event.MonitorID, 10),
		Timestamp:     event.Timestamp.UnixMilli(),
		CronTimestamp: event.CronTimestamp,
		StatusCode:    event.Result.StatusCode,
		Latency:       event.Result.Latency.Milliseconds(),
		URL:           event.URL,
		Region:        event.Region,
		Message:       event.Result.Message,
	})
	if errors.Is(err, tinybird.ErrDisabled) {
		return nil
	}
	return err
}

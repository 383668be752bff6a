package checker

import (
	"context"
	"fmt"
	"time"

	"statuspage_backend/platform/logger"
)

// Periodicities the cron endpoint accepts.
var Periodicities = []string{"30s", "1m", "5m", "10m", "30m", "1h"}

// Monitor is the subset of a monitor definition a check needs.
type Monitor struct {
	ID          int64
	WorkspaceID int64
	URL         string
	Method      string
	Headers     []Header
	Body        string
	Regions     []string
}

// MonitorSource lists the active monitors due at a periodicity.
type MonitorSource interface {
	DueMonitors(ctx context.Context, periodicity string) ([]Monitor, error)
}

// Scheduler fans a cron tick out into one task per monitor and region.
type Scheduler struct {
	monitors       MonitorSource
	queue          Enqueuer
	defaultRegions []string
	log            *logger.Logger
	metrics        *Metrics
	now            func() time.Time
}

// NewScheduler creates a cron scheduler. Monitors without regions are
// checked from defaultRegions.
func NewScheduler(monitors MonitorSource, queue Enqueuer, defaultRegions []string, log *logger.Logger, metrics *Metrics) *Scheduler {
	return &Scheduler{
		monitors:       monitors,
		queue:          queue,
		defaultRegions: defaultRegions,
		log:            log,
		metrics:        metrics,
		now:            time.Now,
	}
}

// Tick enqueues the checks for periodicity and returns how many were queued.
func (s *Scheduler) Tick(ctx context.Context, periodicity string) (int, error) {
	monitors, err := s.monitors.DueMonitors(ctx, periodicity)
	if err != nil {
		return 0, fmt.Errorf("list due monitors: %w", err)
	}

	cronTimestamp := s.now().UTC().Truncate(time.Minute).UnixMilli()
	queued := 0
	for _, m := range monitors {
		regions := m.Regions
		if len(regions) == 0 {
			regions = s.defaultRegions
		}
		for _, region := range regions {
			payload := CheckMonitorPayload{
				MonitorID:     m.ID,
				WorkspaceID:   m.WorkspaceID,
				URL:           m.URL,
				Method:        m.Method,
				Headers:       m.Headers,
				Body:          m.Body,
				Region:        region,
				CronTimestamp: cronTimestamp,
			}
			if err := s.queue.EnqueueCheck(ctx, payload); err != nil {
				return queued, fmt.Errorf("enqueue monitor %d in %s: %w", m.ID, region, err)
			}
			queued++
		}
	}

	s.metrics.observeEnqueued(periodicity, queued)
	s.log.Info("checker cron tick", "periodicity", periodicity, "monitors", len(monitors), "queued", queued)
	return queued, nil
}

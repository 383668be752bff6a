package checker

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"statuspage_backend/platform/config"
	"statuspage_backend/platform/logger"

	"github.com/hibiken/asynq"
)

// CheckEvent is a finished check ready to be stored.
type CheckEvent struct {
	MonitorID     int64
	WorkspaceID   int64
	URL           string
	Region        string
	CronTimestamp int64
	Timestamp     time.Time
	Result        Result
}

// ResultPublisher stores finished checks.
type ResultPublisher interface {
	PublishCheck(ctx context.Context, event CheckEvent) error
}

// Processor runs check tasks.
type Processor struct {
	pinger    *Pinger
	publisher ResultPublisher
	log       *logger.Logger
	metrics   *Metrics
	now       func() time.Time
}

// NewProcessor creates a task processor.
func NewProcessor(pinger *Pinger, publisher ResultPublisher, log *logger.Logger, metrics *Metrics) *Processor {
	return &Processor{pinger: pinger, publisher: publisher, log: log, metrics: metrics, now: time.Now}
}

// ProcessTask implements asynq.Handler.
func (p *Processor) ProcessTask(ctx context.Context, task *asynq.Task) error {
	payload, err := ParseCheckMonitorPayload(task)
	if err != nil {
		return fmt.Errorf("parse payload: %w: %w", err, asynq.SkipRetry)
	}

	started := p.now()
	result, err := p.pinger.Ping(ctx, payload)
	if err != nil {
		return fmt.Errorf("build check request for monitor %d: %w: %w", payload.MonitorID, err, asynq.SkipRetry)
	}
	p.metrics.observeCheck(payload.Region, result)

	event := CheckEvent{
		MonitorID:     payload.MonitorID,
		WorkspaceID:   payload.WorkspaceID,
		URL:           payload.URL,
		Region:        payload.Region,
		CronTimestamp: payload.CronTimestamp,
		Timestamp:     started,
		Result:        result,
	}
	if err := p.publisher.PublishCheck(ctx, event); err != nil {
		p.log.Error("publish check result failed", "monitorId", strconv.FormatInt(payload.MonitorID, 10), "region", payload.Region, "error", err)
		return err
	}
	return nil
}

// Worker consumes the check queue.
type Worker struct {
	server *asynq.Server
	mux    *asynq.ServeMux
	log    *logger.Logger
}

// NewWorker creates an asynq worker serving processor.
func NewWorker(cfg config.CheckerConfig, processor *Processor, log *logger.Logger) (*Worker, error) {
	redisURL := cfg.GetRedisURL()
	if redisURL == "" {
		return nil, fmt.Errorf("redis url not configured")
	}

	opt, err := RedisClientOpt(redisURL, cfg.GetRedisTLSInsecure())
	if err != nil {
		return nil, err
	}

	concurrency := cfg.GetCheckerConcurrency()
	if concurrency < 1 {
		concurrency = 10
	}

	server := asynq.NewServer(opt, asynq.Config{
		Concurrency: concurrency,
		Queues: map[string]int{
			queueName(cfg): 1,
		},
	})

	mux := asynq.NewServeMux()
	mux.Handle(TaskCheckMonitor, processor)

	return &Worker{server: server, mux: mux, log: log}, nil
}

// Run blocks until ctx is cancelled.
func (w *Worker) Run(ctx context.Context) {
	if w == nil || w.server == nil {
		return
	}

	go func() {
		<-ctx.Done()
		w.server.Shutdown()
	}()

	if err := w.server.Run(w.mux); err != nil {
		w.log.Error("checker worker stopped", "error", err)
	}
}

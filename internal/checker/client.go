package checker

import (
	"context"
	"crypto/tls"
	"fmt"
	"time"

	"statuspage_backend/platform/config"

	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"
)

const defaultQueue = "checker"

// Enqueuer schedules checks.
type Enqueuer interface {
	EnqueueCheck(ctx context.Context, payload CheckMonitorPayload) error
}

// Client enqueues check tasks on the asynq queue.
type Client struct {
	client  *asynq.Client
	queue   string
	timeout time.Duration
}

// NewClient creates a queue client from configuration.
func NewClient(cfg config.CheckerConfig) (*Client, error) {
	redisURL := cfg.GetRedisURL()
	if redisURL == "" {
		return nil, fmt.Errorf("redis url not configured")
	}

	opt, err := RedisClientOpt(redisURL, cfg.GetRedisTLSInsecure())
	if err != nil {
		return nil, err
	}

	return &Client{
		client:  asynq.NewClient(opt),
		queue:   queueName(cfg),
		timeout: cfg.GetCheckerTimeout(),
	}, nil
}

func (c *Client) Close() error {
	if c == nil || c.client == nil {
		return nil
	}
	return c.client.Close()
}

// EnqueueCheck schedules one check. Checks are not retried: the next cron
// tick produces a fresh one.
func (c *Client) EnqueueCheck(ctx context.Context, payload CheckMonitorPayload) error {
	if c == nil || c.client == nil {
		return nil
	}

	task, err := NewCheckMonitorTask(payload)
	if err != nil {
		return err
	}

	opts := []asynq.Option{asynq.Queue(c.queue), asynq.MaxRetry(0)}
	if c.timeout > 0 {
		opts = append(opts, asynq.Timeout(2*c.timeout))
	}
	_, err = c.client.EnqueueContext(ctx, task, opts...)
	return err
}

func queueName(cfg config.CheckerConfig) string {
	if queue := cfg.GetCheckerQueueName(); queue != "" {
		return queue
	}
	return defaultQueue
}

// RedisClientOpt converts a redis:// or rediss:// URL into asynq options.
func RedisClientOpt(redisURL string, tlsInsecure bool) (asynq.RedisClientOpt, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return asynq.RedisClientOpt{}, err
	}

	var tlsConfig *tls.Config
	if opt.TLSConfig != nil {
		clone := opt.TLSConfig.Clone()
		if tlsInsecure {
			clone.InsecureSkipVerify = true
		}
		tlsConfig = clone
	} else if tlsInsecure {
		tlsConfig = &tls.Config{InsecureSkipVerify: true}
	}

	return asynq.RedisClientOpt{
		Addr:      opt.Addr,
		Password:  opt.Password,
		DB:        opt.DB,
		TLSConfig: tlsConfig,
	}, nil
}

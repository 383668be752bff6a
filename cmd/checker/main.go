package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"statuspage_backend/internal/adapters"
	"statuspage_backend/internal/checker"
	"statuspage_backend/internal/tinybird"
	"statuspage_backend/platform/config"
	"statuspage_backend/platform/logger"
	"statuspage_backend/platform/metrics"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	log := logger.New(cfg.Env)
	log.Info("starting checker worker", "env", cfg.Env, "queue", cfg.GetCheckerQueueName())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	reg := metrics.NewRegistry()
	metrics.Serve(ctx, cfg.GetMetricsAddr(), reg, log)

	analytics := tinybird.New(cfg, log)
	if !analytics.Enabled() {
		log.Warn("tinybird token not set, check results will be dropped")
	}

	processor := checker.NewProcessor(
		checker.NewPinger(cfg.GetCheckerTimeout()),
		adapters.NewPingPublisher(analytics),
		log,
		checker.NewMetrics(reg),
	)

	worker, err := checker.NewWorker(cfg, processor, log)
	if err != nil {
		log.Error("failed to initialize checker worker", "error", err)
		panic("failed to initialize checker worker: " + err.Error())
	}

	worker.Run(ctx)
	log.Info("checker worker stopped")
}

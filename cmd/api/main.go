package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"statuspage_backend/internal/adapters"
	"statuspage_backend/internal/checker"
	"statuspage_backend/internal/dispatch"
	apphttp "statuspage_backend/internal/http"
	"statuspage_backend/internal/http/router"
	"statuspage_backend/internal/incidents"
	"statuspage_backend/internal/monitors"
	"statuspage_backend/internal/statuspage"
	"statuspage_backend/internal/tinybird"
	"statuspage_backend/internal/webhook"
	workspacerepo "statuspage_backend/internal/workspaces/repository"
	"statuspage_backend/migrations"
	"statuspage_backend/platform/cache"
	"statuspage_backend/platform/config"
	"statuspage_backend/platform/db"
	"statuspage_backend/platform/httpkit"
	"statuspage_backend/platform/logger"
	"statuspage_backend/platform/metrics"
	"statuspage_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	log := logger.New(cfg.Env)
	log.Info("starting server", "env", cfg.Env, "addr", cfg.HTTPAddr)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// ========================================================================
	// Infrastructure Layer
	// ========================================================================

	if err := withRetry(ctx, log, "database migrations", 5, 2*time.Second, func() error {
		return db.RunMigrations(ctx, cfg, migrations.FS)
	}); err != nil {
		log.Error("failed to run database migrations", "error", err)
		panic("failed to run database migrations: " + err.Error())
	}
	log.Info("database migrations complete")

	var pool *pgxpool.Pool
	if err := withRetry(ctx, log, "database connection", 5, 2*time.Second, func() error {
		p, err := db.NewPool(ctx, cfg)
		if err != nil {
			return err
		}
		pool = p
		return nil
	}); err != nil {
		log.Error("failed to connect to database", "error", err)
		panic("failed to connect to database: " + err.Error())
	}
	defer pool.Close()
	log.Info("database connection established")

	var rdb redis.UniversalClient
	redisClient, err := cache.NewRedisClient(ctx, cfg)
	if err != nil {
		log.Warn("redis unavailable, homepage cache disabled", "error", err)
	} else if redisClient != nil {
		defer func() { _ = redisClient.Close() }()
		rdb = redisClient
	}

	reg := metrics.NewRegistry()
	metrics.Serve(ctx, cfg.GetMetricsAddr(), reg, log)

	val := validator.New()

	// ========================================================================
	// Domain Modules (Composition Root)
	// ========================================================================

	analytics := tinybird.New(cfg, log)
	if !analytics.Enabled() {
		log.Info("tinybird token not set, analytics disabled")
	}

	workspaces := workspacerepo.New(pool)
	access := adapters.NewWorkspaceAccess(workspaces)

	monitorsModule := monitors.NewModule(pool, access, adapters.NewMonitorStatus(analytics), val, log)
	incidentsModule := incidents.NewModule(pool, access, val)

	var (
		uptime     statuspage.UptimeSource
		homeUptime statuspage.HomeUptime
	)
	if analytics.Enabled() {
		uptime = adapters.NewUptime(analytics)
		homeCache := tinybird.NewHomeCache(analytics, rdb, cfg.GetHomeCacheTTL(), log)
		homeUptime = adapters.NewHomeUptime(homeCache, cfg.GetHomeMonitorID())
	}
	statusPageModule := statuspage.NewModule(
		pool,
		adapters.NewPublicMonitors(monitorsModule.Repository()),
		adapters.NewPublicIncidents(incidentsModule.Service()),
		uptime,
		homeUptime,
		log,
	)

	webhookModule := webhook.NewModule(pool, cfg.GetWebhookSecret(), val, log)

	modules := []apphttp.Module{
		monitorsModule,
		incidentsModule,
		statusPageModule,
		webhookModule,
	}

	checkerClient, err := checker.NewClient(cfg)
	if err != nil {
		log.Warn("checker queue unavailable, cron endpoint disabled", "error", err)
	} else {
		defer func() { _ = checkerClient.Close() }()
		scheduler := checker.NewScheduler(
			adapters.NewDueMonitors(monitorsModule.Repository()),
			checkerClient,
			cfg.GetCheckerRegions(),
			log,
			checker.NewMetrics(reg),
		)
		modules = append(modules, checker.NewModule(scheduler, cfg.GetCronSecret()))
	}

	dispatcher := dispatch.New(
		cfg,
		httpkit.NewJWTAuthenticator(cfg),
		adapters.NewDispatchStore(workspaces),
		log,
		dispatch.NewMetrics(reg),
	)

	app := &apphttp.App{
		Config:     cfg,
		Logger:     log,
		Health:     db.NewPoolAdapter(pool),
		Dispatcher: dispatcher,
		Modules:    modules,
	}

	srv := &http.Server{
		Addr:              cfg.GetHTTPAddr(),
		Handler:           router.New(app),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		log.Info("http server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	select {
	case <-ctx.Done():
	case err := <-serverErr:
		if err != nil {
			log.Error("http server failed", "error", err)
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("http server shutdown failed", "error", err)
	}
	log.Info("server stopped")
}

func withRetry(ctx context.Context, log *logger.Logger, name string, attempts int, baseDelay time.Duration, fn func() error) error {
	if attempts < 1 {
		return fmt.Errorf("%s: invalid retry attempts", name)
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if err := fn(); err == nil {
			return nil
		} else {
			lastErr = err
			log.Warn("retryable operation failed", "operation", name, "attempt", attempt, "error", err)
		}

		if attempt < attempts {
			delay := time.Duration(attempt*attempt) * baseDelay
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
			}
		}
	}

	return errors.New(name + ": " + lastErr.Error())
}

// Package http provides HTTP server infrastructure including module registration.
package http

import (
	"context"

	"statuspage_backend/internal/dispatch"
	"statuspage_backend/platform/config"
	"statuspage_backend/platform/logger"
)

// RouterConfig combines the config interfaces needed by the HTTP router.
type RouterConfig interface {
	config.HTTPConfig
}

// HealthChecker exposes minimal functionality for readiness checks.
type HealthChecker interface {
	Ping(ctx context.Context) error
}

// App holds the fully initialized application dependencies.
// This is populated by main.go (the composition root) and passed to the router.
type App struct {
	// Config holds the router configuration (HTTP settings only).
	Config RouterConfig
	// Logger is the structured logger.
	Logger *logger.Logger
	// Health is used for readiness/health checks (e.g., DB ping).
	Health HealthChecker
	// Dispatcher classifies, rewrites and redirects requests before routing.
	Dispatcher *dispatch.Dispatcher
	// Modules contains all HTTP-facing domain modules.
	Modules []Module
}

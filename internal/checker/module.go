// Package checker schedules and runs uptime checks: a cron endpoint fans
// monitors out onto an asynq queue, and a worker pings them and stores the
// results.
package checker

import (
	apphttp "statuspage_backend/internal/http"
	"statuspage_backend/platform/httpkit"
)

// Module exposes the cron trigger implementing http.Module.
type Module struct {
	handler *Handler
	secret  string
}

// NewModule creates the checker HTTP module. Requests must carry secret as a
// Bearer token.
func NewModule(scheduler *Scheduler, secret string) *Module {
	return &Module{handler: NewHandler(scheduler), secret: secret}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "checker"
}

// RegisterRoutes mounts the cron trigger.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	group := ctx.API.Group("/checker")
	group.Use(httpkit.RequireBearerSecret(m.secret))
	group.POST("/cron/:periodicity", m.handler.Cron)
}

var _ apphttp.Module = (*Module)(nil)

// Package statuspage renders public status pages for tenants.
package statuspage

import (
	apphttp "statuspage_backend/internal/http"
	"statuspage_backend/platform/logger"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module is the status page module implementing http.Module.
type Module struct {
	handler *Handler
}

// NewModule wires the renderer. uptime and home may be nil when analytics
// are disabled.
func NewModule(pool *pgxpool.Pool, monitors MonitorSource, incidents IncidentSource, uptime UptimeSource, home HomeUptime, log *logger.Logger) *Module {
	svc := NewService(NewRepository(pool), monitors, incidents, uptime, log)
	return &Module{handler: NewHandler(svc, home)}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "statuspage"
}

// RegisterRoutes mounts one status page route per supported locale.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	for _, locale := range ctx.Locales {
		ctx.Engine.GET("/"+locale+"/status-page/:slug/*path", m.handler.Render(locale))
	}
	ctx.API.GET("/home/status", m.handler.HomeStatus)
}

var _ apphttp.Module = (*Module)(nil)

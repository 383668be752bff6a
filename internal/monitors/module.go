// Package monitors provides the monitor bounded context module.
package monitors

import (
	"statuspage_backend/internal/monitors/handler"
	"statuspage_backend/internal/monitors/repository"
	"statuspage_backend/internal/monitors/service"
	apphttp "statuspage_backend/internal/http"
	"statuspage_backend/platform/logger"
	"statuspage_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module is the monitor bounded context module implementing http.Module.
type Module struct {
	handler *handler.Handler
	service *service.Service
	repo    repository.Repository
}

// NewModule creates and initializes the monitor module. status may be nil.
func NewModule(pool *pgxpool.Pool, workspaces service.WorkspaceAccess, status service.StatusReader, val *validator.Validator, log *logger.Logger) *Module {
	repo := repository.New(pool)
	svc := service.New(repo, workspaces, status, log)

	return &Module{
		handler: handler.New(svc, val),
		service: svc,
		repo:    repo,
	}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "monitors"
}

// Repository returns the repository for read access from other modules.
func (m *Module) Repository() repository.Repository {
	return m.repo
}

// RegisterRoutes mounts monitor routes on the provided router context.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	ctx.Protected.GET("/monitors/:id", m.handler.GetMonitor)
	ctx.Protected.PUT("/monitors/:id", m.handler.UpdateMonitor)
	ctx.Protected.DELETE("/monitors/:id", m.handler.DeleteMonitor)
	ctx.Protected.GET("/workspaces/:slug/monitors", m.handler.ListWorkspaceMonitors)
}

var _ apphttp.Module = (*Module)(nil)

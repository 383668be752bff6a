// Package incidents provides the incident bounded context module.
package incidents

import (
	"statuspage_backend/internal/incidents/handler"
	"statuspage_backend/internal/incidents/repository"
	"statuspage_backend/internal/incidents/service"
	apphttp "statuspage_backend/internal/http"
	"statuspage_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module is the incident bounded context module implementing http.Module.
type Module struct {
	handler *handler.Handler
	service *service.Service
}

// NewModule creates and initializes the incident module.
func NewModule(pool *pgxpool.Pool, workspaces service.WorkspaceResolver, val *validator.Validator) *Module {
	svc := service.New(repository.New(pool), workspaces)
	return &Module{
		handler: handler.New(svc, val),
		service: svc,
	}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "incidents"
}

// Service returns the service layer for external use.
func (m *Module) Service() *service.Service {
	return m.service
}

// RegisterRoutes mounts incident routes on the provided router context.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	group := ctx.Protected.Group("/workspaces/:slug/incidents")
	group.GET("/:id", m.handler.GetIncident)
	group.POST("/:id/updates", m.handler.CreateUpdate)
	group.PUT("/:id/updates/:updateId", m.handler.EditUpdate)
}

var _ apphttp.Module = (*Module)(nil)

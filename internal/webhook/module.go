// Package webhook receives identity-provider events and provisions users,
// their first workspace and the membership linking them.
package webhook

import (
	apphttp "statuspage_backend/internal/http"
	"statuspage_backend/platform/logger"
	"statuspage_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module is the webhook module implementing http.Module.
type Module struct {
	handler *Handler
	secret  string
}

// NewModule creates the webhook module. Deliveries are verified against secret.
func NewModule(pool *pgxpool.Pool, secret string, val *validator.Validator, log *logger.Logger) *Module {
	svc := NewService(NewRepository(pool), log)
	return &Module{handler: NewHandler(svc, val), secret: secret}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "webhook"
}

// RegisterRoutes mounts the signed webhook endpoint.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	group := ctx.API.Group("/webhook")
	if ctx.RateLimiter != nil {
		group.Use(ctx.RateLimiter.RateLimit())
	}
	group.Use(SignatureMiddleware(m.secret))
	group.POST("/auth", m.handler.HandleAuthEvent)
}

var _ apphttp.Module = (*Module)(nil)

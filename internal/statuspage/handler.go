package statuspage

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"statuspage_backend/platform/httpkit"
)

// HomeUptime serves the uptime of the monitor shown on the marketing homepage.
type HomeUptime interface {
	HomeUptime(ctx context.Context) ([]UptimeBucket, error)
}

// Handler serves status pages.
type Handler struct {
	svc  *Service
	home HomeUptime
}

// NewHandler creates a status page handler. home may be nil.
func NewHandler(svc *Service, home HomeUptime) *Handler {
	return &Handler{svc: svc, home: home}
}

// Render returns the handler for one locale. The dispatcher has already
// rewritten tenant requests to /<locale>/status-page/<tenant>/<path>.
// GET /:locale/status-page/:slug/*path
func (h *Handler) Render(locale string) gin.HandlerFunc {
	return func(c *gin.Context) {
		view, err := h.svc.Render(c.Request.Context(), c.Param("slug"), locale, c.Param("path"))
		if httpkit.HandleError(c, err) {
			return
		}
		httpkit.OK(c, view)
	}
}

// HomeStatus returns the cached homepage uptime.
// GET /api/home/status
func (h *Handler) HomeStatus(c *gin.Context) {
	if h.home == nil {
		httpkit.Error(c, http.StatusServiceUnavailable, "analytics disabled", nil)
		return
	}
	buckets, err := h.home.HomeUptime(c.Request.Context())
	if err != nil {
		_ = c.Error(err)
		httpkit.Error(c, http.StatusBadGateway, "analytics unavailable", nil)
		return
	}
	httpkit.OK(c, gin.H{"data": buckets})
}

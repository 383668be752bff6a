package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"statuspage_backend/internal/monitors/service"
	"statuspage_backend/internal/monitors/transport"
	"statuspage_backend/platform/httpkit"
	"statuspage_backend/platform/validator"
)

// Handler handles HTTP requests for monitors.
type Handler struct {
	svc *service.Service
	val *validator.Validator
}

const (
	msgInvalidRequest   = "invalid request"
	msgValidationFailed = "validation failed"
	msgInvalidID        = "invalid monitor id"
)

// New creates a new monitor handler.
func New(svc *service.Service, val *validator.Validator) *Handler {
	return &Handler{svc: svc, val: val}
}

// GetMonitor returns one monitor.
// GET /api/v1/monitors/:id
func (h *Handler) GetMonitor(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}

	result, err := h.svc.Get(c.Request.Context(), identity.ExternalID(), id)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

// UpdateMonitor applies a partial update.
// PUT /api/v1/monitors/:id
func (h *Handler) UpdateMonitor(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req transport.UpdateMonitorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}
	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}

	result, err := h.svc.Update(c.Request.Context(), identity.ExternalID(), id, req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

// DeleteMonitor removes a monitor.
// DELETE /api/v1/monitors/:id
func (h *Handler) DeleteMonitor(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}

	if httpkit.HandleError(c, h.svc.Delete(c.Request.Context(), identity.ExternalID(), id)) {
		return
	}
	c.Status(http.StatusNoContent)
}

// ListWorkspaceMonitors returns a workspace's monitors with their last status.
// GET /api/v1/workspaces/:slug/monitors
func (h *Handler) ListWorkspaceMonitors(c *gin.Context) {
	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}

	result, err := h.svc.ListForWorkspace(c.Request.Context(), identity.ExternalID(), c.Param("slug"))
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

func parseID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidID, nil)
		return 0, false
	}
	return id, true
}

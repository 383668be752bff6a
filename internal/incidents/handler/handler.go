package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"statuspage_backend/internal/incidents/service"
	"statuspage_backend/internal/incidents/transport"
	"statuspage_backend/platform/httpkit"
	"statuspage_backend/platform/validator"
)

// Handler handles HTTP requests for incidents.
type Handler struct {
	svc *service.Service
	val *validator.Validator
}

const (
	msgInvalidRequest   = "invalid request"
	msgValidationFailed = "validation failed"
	msgInvalidID        = "invalid incident id"
	msgInvalidUpdateID  = "invalid incident update id"
)

// New creates a new incident handler.
func New(svc *service.Service, val *validator.Validator) *Handler {
	return &Handler{svc: svc, val: val}
}

// GetIncident returns an incident with its timeline.
// GET /api/v1/workspaces/:slug/incidents/:id
func (h *Handler) GetIncident(c *gin.Context) {
	incidentID, ok := parseParam(c, "id", msgInvalidID)
	if !ok {
		return
	}
	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}

	result, err := h.svc.Get(c.Request.Context(), identity.ExternalID(), c.Param("slug"), incidentID)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

// CreateUpdate appends a timeline entry.
// POST /api/v1/workspaces/:slug/incidents/:id/updates
func (h *Handler) CreateUpdate(c *gin.Context) {
	incidentID, ok := parseParam(c, "id", msgInvalidID)
	if !ok {
		return
	}
	var req transport.CreateIncidentUpdateRequest
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

	result, err := h.svc.CreateUpdate(c.Request.Context(), identity.ExternalID(), c.Param("slug"), incidentID, req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.JSON(c, http.StatusCreated, result)
}

// EditUpdate changes a timeline entry.
// PUT /api/v1/workspaces/:slug/incidents/:id/updates/:updateId
func (h *Handler) EditUpdate(c *gin.Context) {
	incidentID, ok := parseParam(c, "id", msgInvalidID)
	if !ok {
		return
	}
	updateID, ok := parseParam(c, "updateId", msgInvalidUpdateID)
	if !ok {
		return
	}
	var req transport.UpdateIncidentUpdateRequest
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

	result, err := h.svc.EditUpdate(c.Request.Context(), identity.ExternalID(), c.Param("slug"), incidentID, updateID, req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

func parseParam(c *gin.Context, name, message string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		httpkit.Error(c, http.StatusBadRequest, message, nil)
		return 0, false
	}
	return id, true
}

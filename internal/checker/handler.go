package checker

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"statuspage_backend/platform/httpkit"
)

// Handler serves the cron trigger.
type Handler struct {
	scheduler *Scheduler
}

// NewHandler creates a cron handler.
func NewHandler(scheduler *Scheduler) *Handler {
	return &Handler{scheduler: scheduler}
}

// Cron enqueues the checks of one periodicity.
// POST /api/checker/cron/:periodicity
func (h *Handler) Cron(c *gin.Context) {
	periodicity := c.Param("periodicity")
	if !validPeriodicity(periodicity) {
		httpkit.Error(c, http.StatusBadRequest, "invalid periodicity", Periodicities)
		return
	}

	queued, err := h.scheduler.Tick(c.Request.Context(), periodicity)
	if err != nil {
		_ = c.Error(err)
		httpkit.Error(c, http.StatusInternalServerError, "internal server error", nil)
		return
	}
	httpkit.OK(c, gin.H{"periodicity": periodicity, "queued": queued})
}

func validPeriodicity(value string) bool {
	for _, p := range Periodicities {
		if p == value {
			return true
		}
	}
	return false
}

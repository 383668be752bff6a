package webhook

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"statuspage_backend/platform/httpkit"
	"statuspage_backend/platform/validator"
)

// EmailAddress is one address of the identity provider's user.
type EmailAddress struct {
	ID           string `json:"id"`
	EmailAddress string `json:"email_address"`
}

// UserData is the user object of an identity-provider event.
type UserData struct {
	ID                    string         `json:"id" validate:"required"`
	FirstName             *string        `json:"first_name"`
	LastName              *string        `json:"last_name"`
	PrimaryEmailAddressID string         `json:"primary_email_address_id"`
	EmailAddresses        []EmailAddress `json:"email_addresses"`
}

// PrimaryEmail returns the primary address, or the first one.
func (u UserData) PrimaryEmail() *string {
	for _, e := range u.EmailAddresses {
		if e.ID == u.PrimaryEmailAddressID && e.EmailAddress != "" {
			email := e.EmailAddress
			return &email
		}
	}
	if len(u.EmailAddresses) > 0 && u.EmailAddresses[0].EmailAddress != "" {
		email := u.EmailAddresses[0].EmailAddress
		return &email
	}
	return nil
}

// Event is an identity-provider webhook delivery.
type Event struct {
	Type string   `json:"type" validate:"required"`
	Data UserData `json:"data"`
}

// Handler handles webhook deliveries.
type Handler struct {
	svc *Service
	val *validator.Validator
}

// NewHandler creates the webhook handler.
func NewHandler(svc *Service, val *validator.Validator) *Handler {
	return &Handler{svc: svc, val: val}
}

// HandleAuthEvent provisions users created in the identity provider.
// POST /api/webhook/auth
func (h *Handler) HandleAuthEvent(c *gin.Context) {
	var event Event
	if err := c.ShouldBindJSON(&event); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid request", nil)
		return
	}
	if err := h.val.Var(event.Type, "required"); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "validation failed", err.Error())
		return
	}

	onboarded, err := h.svc.Handle(c.Request.Context(), event)
	if httpkit.HandleError(c, err) {
		return
	}
	if onboarded == nil {
		httpkit.OK(c, gin.H{"status": "ignored"})
		return
	}
	httpkit.OK(c, gin.H{"status": "ok", "created": onboarded.Created, "workspaceSlug": onboarded.WorkspaceSlug})
}

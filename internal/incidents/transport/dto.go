package transport

import "time"

// Statuses an incident moves through.
const (
	StatusInvestigating = "investigating"
	StatusIdentified    = "identified"
	StatusMonitoring    = "monitoring"
	StatusResolved      = "resolved"
)

type CreateIncidentUpdateRequest struct {
	Status  string     `json:"status" validate:"required,oneof=investigating identified monitoring resolved"`
	Message string     `json:"message" validate:"required,min=1,max=10000"`
	Date    *time.Time `json:"date,omitempty"`
}

type UpdateIncidentUpdateRequest struct {
	Status  *string    `json:"status,omitempty" validate:"omitempty,oneof=investigating identified monitoring resolved"`
	Message *string    `json:"message,omitempty" validate:"omitempty,min=1,max=10000"`
	Date    *time.Time `json:"date,omitempty"`
}

type IncidentUpdateResponse struct {
	ID         int64  `json:"id"`
	IncidentID int64  `json:"incidentId"`
	Status     string `json:"status"`
	Message    string `json:"message"`
	Date       string `json:"date"`
	CreatedAt  string `json:"createdAt"`
	UpdatedAt  string `json:"updatedAt"`
}

type IncidentResponse struct {
	ID        int64                    `json:"id"`
	Title     string                   `json:"title"`
	Status    string                   `json:"status"`
	Updates   []IncidentUpdateResponse `json:"updates"`
	CreatedAt string                   `json:"createdAt"`
}

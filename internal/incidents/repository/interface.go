package repository

import (
	"context"
	"time"
)

// Incident is an outage or degradation reported on a workspace's pages.
type Incident struct {
	ID          int64
	WorkspaceID int64
	Title       string
	Status      string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// IncidentUpdate is one entry of an incident's timeline.
type IncidentUpdate struct {
	ID         int64
	IncidentID int64
	Status     string
	Message    string
	Date       time.Time
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// CreateUpdateParams holds a new timeline entry.
type CreateUpdateParams struct {
	IncidentID int64
	Status     string
	Message    string
	Date       time.Time
}

// UpdateUpdateParams holds a partial edit of a timeline entry.
type UpdateUpdateParams struct {
	ID         int64
	IncidentID int64
	Status     *string
	Message    *string
	Date       *time.Time
}

// Repository is the incident store.
type Repository interface {
	GetIncident(ctx context.Context, workspaceID, incidentID int64) (Incident, error)
	ListRecentByWorkspace(ctx context.Context, workspaceID int64, limit int) ([]Incident, error)
	ListUpdates(ctx context.Context, incidentID int64) ([]IncidentUpdate, error)
	// CreateUpdate stores the entry and moves the incident to its status.
	CreateUpdate(ctx context.Context, params CreateUpdateParams) (IncidentUpdate, error)
	UpdateUpdate(ctx context.Context, params UpdateUpdateParams) (IncidentUpdate, error)
}

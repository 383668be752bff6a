package repository

import (
	"context"
	"time"
)

// Header is one request header sent with every check.
type Header struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// Monitor is an uptime check definition.
type Monitor struct {
	ID          int64
	WorkspaceID int64
	Name        string
	Description string
	URL         string
	Method      string
	Periodicity string
	Active      bool
	Regions     []string
	Headers     []Header
	Body        string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// UpdateMonitorParams holds a partial update. Nil fields keep their value.
type UpdateMonitorParams struct {
	ID          int64
	Name        *string
	Description *string
	URL         *string
	Method      *string
	Periodicity *string
	Active      *bool
	Regions     *[]string
	Headers     *[]Header
	Body        *string
}

// Repository is the monitor store.
type Repository interface {
	GetByID(ctx context.Context, id int64) (Monitor, error)
	ListByWorkspace(ctx context.Context, workspaceID int64) ([]Monitor, error)
	ListActiveByWorkspace(ctx context.Context, workspaceID int64) ([]Monitor, error)
	ListActiveByPeriodicity(ctx context.Context, periodicity string) ([]Monitor, error)
	Update(ctx context.Context, params UpdateMonitorParams) (Monitor, error)
	Delete(ctx context.Context, id int64) error
}

package dispatch

import (
	"context"
	"time"
)

// Membership links a user to a workspace.
type Membership struct {
	UserID      int64
	WorkspaceID int64
	CreatedAt   time.Time
}

// Workspace is the subset of workspace data the dispatcher needs.
type Workspace struct {
	ID   int64
	Slug string
}

// WorkspaceStore is the read-only data store consulted while dispatching.
type WorkspaceStore interface {
	// ListMemberships returns the memberships of the user with the given
	// external identity, oldest first.
	ListMemberships(ctx context.Context, externalID string) ([]Membership, error)
	// GetWorkspace returns the workspace by ID; ok is false when it does not exist.
	GetWorkspace(ctx context.Context, id int64) (ws Workspace, ok bool, err error)
	// HasMonitor reports whether the workspace owns at least one monitor.
	HasMonitor(ctx context.Context, workspaceID int64) (bool, error)
}

package repository

import (
	"context"
	"time"
)

// Workspace is a tenant account that owns monitors, pages and incidents.
type Workspace struct {
	ID        int64     `db:"id"`
	Slug      string    `db:"slug"`
	Name      *string   `db:"name"`
	Plan      string    `db:"plan"`
	CreatedAt time.Time `db:"created_at"`
}

// Membership links a user to a workspace.
type Membership struct {
	UserID      int64     `db:"user_id"`
	WorkspaceID int64     `db:"workspace_id"`
	CreatedAt   time.Time `db:"created_at"`
}

// Reader is the read side of the workspace store.
type Reader interface {
	// ListMembershipsByTenant returns the memberships of the user known to the
	// identity provider as tenantID, oldest first.
	ListMembershipsByTenant(ctx context.Context, tenantID string) ([]Membership, error)
	GetByID(ctx context.Context, id int64) (Workspace, error)
	// GetBySlugForTenant returns the workspace only if tenantID is a member.
	GetBySlugForTenant(ctx context.Context, tenantID, slug string) (Workspace, error)
	IsMember(ctx context.Context, tenantID string, workspaceID int64) (bool, error)
	HasMonitor(ctx context.Context, workspaceID int64) (bool, error)
}

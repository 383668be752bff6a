// Package repository provides Postgres access to workspaces and memberships.
package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"statuspage_backend/platform/apperr"
)

const workspaceNotFoundMessage = "workspace not found"

// Repo implements Reader over a pgx pool.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new workspace repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

var _ Reader = (*Repo)(nil)

// ListMembershipsByTenant orders by membership creation and then workspace
// id, so callers picking the first entry always pick the same workspace.
func (r *Repo) ListMembershipsByTenant(ctx context.Context, tenantID string) ([]Membership, error) {
	query := `
		SELECT m.user_id, m.workspace_id, m.created_at
		FROM users_to_workspaces m
		JOIN users u ON u.id = m.user_id
		WHERE u.tenant_id = $1
		ORDER BY m.created_at ASC, m.workspace_id ASC`

	rows, err := r.pool.Query(ctx, query, tenantID)
	if err != nil {
		return nil, fmt.Errorf("list memberships: %w", err)
	}
	defer rows.Close()

	memberships, err := pgx.CollectRows(rows, pgx.RowToStructByName[Membership])
	if err != nil {
		return nil, fmt.Errorf("scan memberships: %w", err)
	}
	return memberships, nil
}

// GetByID returns the workspace with id.
func (r *Repo) GetByID(ctx context.Context, id int64) (Workspace, error) {
	query := `SELECT id, slug, name, plan, created_at FROM workspaces WHERE id = $1`

	var ws Workspace
	if err := r.pool.QueryRow(ctx, query, id).Scan(&ws.ID, &ws.Slug, &ws.Name, &ws.Plan, &ws.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Workspace{}, apperr.NotFound(workspaceNotFoundMessage)
		}
		return Workspace{}, fmt.Errorf("get workspace by id: %w", err)
	}
	return ws, nil
}

// GetBySlugForTenant returns the workspace called slug if tenantID belongs to
// it. Non-members get the same NotFound as a missing slug.
func (r *Repo) GetBySlugForTenant(ctx context.Context, tenantID, slug string) (Workspace, error) {
	query := `
		SELECT w.id, w.slug, w.name, w.plan, w.created_at
		FROM workspaces w
		JOIN users_to_workspaces m ON m.workspace_id = w.id
		JOIN users u ON u.id = m.user_id
		WHERE w.slug = $1 AND u.tenant_id = $2`

	var ws Workspace
	if err := r.pool.QueryRow(ctx, query, slug, tenantID).Scan(&ws.ID, &ws.Slug, &ws.Name, &ws.Plan, &ws.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Workspace{}, apperr.NotFound(workspaceNotFoundMessage)
		}
		return Workspace{}, fmt.Errorf("get workspace by slug: %w", err)
	}
	return ws, nil
}

// IsMember reports whether tenantID belongs to workspaceID.
func (r *Repo) IsMember(ctx context.Context, tenantID string, workspaceID int64) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1
			FROM users_to_workspaces m
			JOIN users u ON u.id = m.user_id
			WHERE u.tenant_id = $1 AND m.workspace_id = $2
		)`

	var member bool
	if err := r.pool.QueryRow(ctx, query, tenantID, workspaceID).Scan(&member); err != nil {
		return false, fmt.Errorf("check membership: %w", err)
	}
	return member, nil
}

// HasMonitor reports whether the workspace owns at least one monitor.
func (r *Repo) HasMonitor(ctx context.Context, workspaceID int64) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM monitors WHERE workspace_id = $1)`

	var exists bool
	if err := r.pool.QueryRow(ctx, query, workspaceID).Scan(&exists); err != nil {
		return false, fmt.Errorf("check monitors: %w", err)
	}
	return exists, nil
}

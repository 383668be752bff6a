// Package repository provides Postgres access to incidents and their updates.
package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"statuspage_backend/platform/apperr"
)

const (
	incidentNotFoundMessage = "incident not found"
	updateNotFoundMessage   = "incident update not found"
	updateColumns           = `id, incident_id, status, message, date, created_at, updated_at`
)

// Repo implements Repository over a pgx pool.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new incident repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

var _ Repository = (*Repo)(nil)

// GetIncident returns the incident if it belongs to workspaceID.
func (r *Repo) GetIncident(ctx context.Context, workspaceID, incidentID int64) (Incident, error) {
	query := `
		SELECT id, workspace_id, title, status, created_at, updated_at
		FROM incidents
		WHERE id = $1 AND workspace_id = $2`

	var inc Incident
	if err := r.pool.QueryRow(ctx, query, incidentID, workspaceID).Scan(
		&inc.ID, &inc.WorkspaceID, &inc.Title, &inc.Status, &inc.CreatedAt, &inc.UpdatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Incident{}, apperr.NotFound(incidentNotFoundMessage)
		}
		return Incident{}, fmt.Errorf("get incident: %w", err)
	}
	return inc, nil
}

// ListRecentByWorkspace returns the newest incidents first.
func (r *Repo) ListRecentByWorkspace(ctx context.Context, workspaceID int64, limit int) ([]Incident, error) {
	query := `
		SELECT id, workspace_id, title, status, created_at, updated_at
		FROM incidents
		WHERE workspace_id = $1
		ORDER BY created_at DESC, id DESC
		LIMIT $2`

	rows, err := r.pool.Query(ctx, query, workspaceID, limit)
	if err != nil {
		return nil, fmt.Errorf("list incidents: %w", err)
	}
	defer rows.Close()

	incidents := make([]Incident, 0)
	for rows.Next() {
		var inc Incident
		if err := rows.Scan(&inc.ID, &inc.WorkspaceID, &inc.Title, &inc.Status, &inc.CreatedAt, &inc.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan incident: %w", err)
		}
		incidents = append(incidents, inc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list incidents: %w", err)
	}
	return incidents, nil
}

// ListUpdates returns the timeline of an incident, newest first.
func (r *Repo) ListUpdates(ctx context.Context, incidentID int64) ([]IncidentUpdate, error) {
	query := `SELECT ` + updateColumns + ` FROM incident_updates WHERE incident_id = $1 ORDER BY date DESC, id DESC`

	rows, err := r.pool.Query(ctx, query, incidentID)
	if err != nil {
		return nil, fmt.Errorf("list incident updates: %w", err)
	}
	defer rows.Close()

	updates := make([]IncidentUpdate, 0)
	for rows.Next() {
		u, err := scanUpdate(rows)
		if err != nil {
			return nil, fmt.Errorf("scan incident update: %w", err)
		}
		updates = append(updates, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list incident updates: %w", err)
	}
	return updates, nil
}

// CreateUpdate inserts the entry and sets the incident status in one transaction.
func (r *Repo) CreateUpdate(ctx context.Context, params CreateUpdateParams) (IncidentUpdate, error) {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return IncidentUpdate{}, fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	query := `
		INSERT INTO incident_updates (incident_id, status, message, date)
		VALUES ($1, $2, $3, $4)
		RETURNING ` + updateColumns

	u, err := scanUpdate(tx.QueryRow(ctx, query, params.IncidentID, params.Status, params.Message, params.Date))
	if err != nil {
		return IncidentUpdate{}, fmt.Errorf("insert incident update: %w", err)
	}

	if _, err := tx.Exec(ctx, `UPDATE incidents SET status = $2, updated_at = now() WHERE id = $1`, params.IncidentID, params.Status); err != nil {
		return IncidentUpdate{}, fmt.Errorf("update incident status: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return IncidentUpdate{}, fmt.Errorf("commit tx: %w", err)
	}
	return u, nil
}

// UpdateUpdate edits an entry of incidentID.
func (r *Repo) UpdateUpdate(ctx context.Context, params UpdateUpdateParams) (IncidentUpdate, error) {
	query := `
		UPDATE incident_updates
		SET status = COALESCE($3, status),
			message = COALESCE($4, message),
			date = COALESCE($5, date),
			updated_at = now()
		WHERE id = $1 AND incident_id = $2
		RETURNING ` + updateColumns

	u, err := scanUpdate(r.pool.QueryRow(ctx, query, params.ID, params.IncidentID, params.Status, params.Message, params.Date))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return IncidentUpdate{}, apperr.NotFound(updateNotFoundMessage)
		}
		return IncidentUpdate{}, fmt.Errorf("update incident update: %w", err)
	}
	return u, nil
}

func scanUpdate(row pgx.Row) (IncidentUpdate, error) {
	var u IncidentUpdate
	err := row.Scan(&u.ID, &u.IncidentID, &u.Status, &u.Message, &u.Date, &u.CreatedAt, &u.UpdatedAt)
	return u, err
}

// Package repository provides Postgres access to monitors.
package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"statuspage_backend/platform/apperr"
)

const (
	monitorNotFoundMessage = "monitor not found"
	monitorColumns         = `id, workspace_id, name, description, url, method, periodicity, active, regions, headers, body, created_at, updated_at`
)

// Repo implements Repository over a pgx pool.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new monitor repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

var _ Repository = (*Repo)(nil)

// GetByID returns the monitor with id.
func (r *Repo) GetByID(ctx context.Context, id int64) (Monitor, error) {
	query := `SELECT ` + monitorColumns + ` FROM monitors WHERE id = $1`

	m, err := scanMonitor(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Monitor{}, apperr.NotFound(monitorNotFoundMessage)
		}
		return Monitor{}, fmt.Errorf("get monitor by id: %w", err)
	}
	return m, nil
}

// ListByWorkspace returns every monitor of the workspace in creation order.
func (r *Repo) ListByWorkspace(ctx context.Context, workspaceID int64) ([]Monitor, error) {
	query := `SELECT ` + monitorColumns + ` FROM monitors WHERE workspace_id = $1 ORDER BY id ASC`
	return r.list(ctx, "list monitors", query, workspaceID)
}

// ListActiveByWorkspace returns the active monitors of the workspace.
func (r *Repo) ListActiveByWorkspace(ctx context.Context, workspaceID int64) ([]Monitor, error) {
	query := `SELECT ` + monitorColumns + ` FROM monitors WHERE workspace_id = $1 AND active ORDER BY id ASC`
	return r.list(ctx, "list active monitors", query, workspaceID)
}

// ListActiveByPeriodicity returns the monitors due for a cron tick.
func (r *Repo) ListActiveByPeriodicity(ctx context.Context, periodicity string) ([]Monitor, error) {
	query := `SELECT ` + monitorColumns + ` FROM monitors WHERE periodicity = $1 AND active ORDER BY id ASC`
	return r.list(ctx, "list monitors by periodicity", query, periodicity)
}

// Update applies a partial update.
func (r *Repo) Update(ctx context.Context, params UpdateMonitorParams) (Monitor, error) {
	var regions *string
	if params.Regions != nil {
		joined := strings.Join(*params.Regions, ",")
		regions = &joined
	}

	var headers *string
	if params.Headers != nil {
		raw, err := json.Marshal(*params.Headers)
		if err != nil {
			return Monitor{}, fmt.Errorf("encode headers: %w", err)
		}
		encoded := string(raw)
		headers = &encoded
	}

	query := `
		UPDATE monitors
		SET name = COALESCE($2, name),
			description = COALESCE($3, description),
			url = COALESCE($4, url),
			method = COALESCE($5, method),
			periodicity = COALESCE($6, periodicity),
			active = COALESCE($7, active),
			regions = COALESCE($8, regions),
			headers = COALESCE($9::jsonb, headers),
			body = COALESCE($10, body),
			updated_at = now()
		WHERE id = $1
		RETURNING ` + monitorColumns

	m, err := scanMonitor(r.pool.QueryRow(ctx, query,
		params.ID, params.Name, params.Description, params.URL, params.Method,
		params.Periodicity, params.Active, regions, headers, params.Body,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Monitor{}, apperr.NotFound(monitorNotFoundMessage)
		}
		return Monitor{}, fmt.Errorf("update monitor: %w", err)
	}
	return m, nil
}

// Delete removes a monitor.
func (r *Repo) Delete(ctx context.Context, id int64) error {
	result, err := r.pool.Exec(ctx, `DELETE FROM monitors WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete monitor: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperr.NotFound(monitorNotFoundMessage)
	}
	return nil
}

func (r *Repo) list(ctx context.Context, op, query string, args ...interface{}) ([]Monitor, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	monitors := make([]Monitor, 0)
	for rows.Next() {
		m, err := scanMonitor(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: scan: %w", op, err)
		}
		monitors = append(monitors, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return monitors, nil
}

func scanMonitor(row pgx.Row) (Monitor, error) {
	var (
		m       Monitor
		regions string
		headers []byte
	)
	if err := row.Scan(
		&m.ID, &m.WorkspaceID, &m.Name, &m.Description, &m.URL, &m.Method, &m.Periodicity,
		&m.Active, &regions, &headers, &m.Body, &m.CreatedAt, &m.UpdatedAt,
	); err != nil {
		return Monitor{}, err
	}

	m.Regions = SplitRegions(regions)
	m.Headers = []Header{}
	if len(headers) > 0 {
		if err := json.Unmarshal(headers, &m.Headers); err != nil {
			return Monitor{}, fmt.Errorf("decode headers: %w", err)
		}
	}
	return m, nil
}

// SplitRegions decodes the comma-joined regions column.
func SplitRegions(value string) []string {
	regions := make([]string, 0)
	for _, part := range strings.Split(value, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			regions = append(regions, trimmed)
		}
	}
	return regions
}

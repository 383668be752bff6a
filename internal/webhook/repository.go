package webhook

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const uniqueViolation = "23505"

// ErrSlugTaken is returned when the generated workspace slug already exists.
var ErrSlugTaken = errors.New("workspace slug taken")

// NewUser is the identity-provider data stored on sign-up.
type NewUser struct {
	TenantID  string
	Email     *string
	FirstName *string
	LastName  *string
}

// Onboarded is the result of provisioning a user.
type Onboarded struct {
	UserID        int64
	WorkspaceID   int64
	WorkspaceSlug string
	// Created is false when the user already existed and nothing was written.
	Created bool
}

// Repository provisions users on sign-up.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates the webhook repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// CreateUserWithWorkspace inserts the user, a workspace and the membership in
// one transaction. Redelivered events for a known user are a no-op.
func (r *Repository) CreateUserWithWorkspace(ctx context.Context, user NewUser, slug string) (Onboarded, error) {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return Onboarded{}, fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var userID int64
	err = tx.QueryRow(ctx, `
		INSERT INTO users (tenant_id, email, first_name, last_name)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (tenant_id) DO NOTHING
		RETURNING id`,
		user.TenantID, user.Email, user.FirstName, user.LastName,
	).Scan(&userID)
	if errors.Is(err, pgx.ErrNoRows) {
		return Onboarded{Created: false}, nil
	}
	if err != nil {
		return Onboarded{}, fmt.Errorf("insert user: %w", err)
	}

	var workspaceID int64
	if err := tx.QueryRow(ctx, `INSERT INTO workspaces (slug, name) VALUES ($1, $2) RETURNING id`, slug, slug).Scan(&workspaceID); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return Onboarded{}, ErrSlugTaken
		}
		return Onboarded{}, fmt.Errorf("insert workspace: %w", err)
	}

	if _, err := tx.Exec(ctx, `INSERT INTO users_to_workspaces (user_id, workspace_id) VALUES ($1, $2)`, userID, workspaceID); err != nil {
		return Onboarded{}, fmt.Errorf("insert membership: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return Onboarded{}, fmt.Errorf("commit tx: %w", err)
	}
	return Onboarded{UserID: userID, WorkspaceID: workspaceID, WorkspaceSlug: slug, Created: true}, nil
}

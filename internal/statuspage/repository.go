package statuspage

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"statuspage_backend/platform/apperr"
)

const pageNotFoundMessage = "status page not found"

// Page is a public status page.
type Page struct {
	ID           int64
	WorkspaceID  int64
	Slug         string
	CustomDomain *string
	Title        string
	Description  string
}

// PageReader finds pages by the tenant key the dispatcher extracted.
type PageReader interface {
	GetByTenant(ctx context.Context, tenant string) (Page, error)
}

// Repository reads pages from Postgres.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a page repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

var _ PageReader = (*Repository)(nil)

// GetByTenant matches tenant against the page slug or its custom domain.
func (r *Repository) GetByTenant(ctx context.Context, tenant string) (Page, error) {
	query := `
		SELECT id, workspace_id, slug, custom_domain, title, description
		FROM pages
		WHERE slug = $1 OR custom_domain = $1
		ORDER BY (slug = $1) DESC
		LIMIT 1`

	var p Page
	if err := r.pool.QueryRow(ctx, query, strings.ToLower(tenant)).Scan(
		&p.ID, &p.WorkspaceID, &p.Slug, &p.CustomDomain, &p.Title, &p.Description,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Page{}, apperr.NotFound(pageNotFoundMessage)
		}
		return Page{}, fmt.Errorf("get page by tenant: %w", err)
	}
	return p, nil
}

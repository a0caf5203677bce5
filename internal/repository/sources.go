package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/HitendraKakadiya/oddins-odds-master-sub000/internal/models"
)

// SourceRepository handles provider source rows
type SourceRepository struct {
	db *Database
}

// Ensure inserts the provider source row if missing and returns its id.
// Safe to call from every job: the upsert is idempotent.
func (r *SourceRepository) Ensure(ctx context.Context, q Querier, name, baseURL string) (int64, error) {
	query := `
		INSERT INTO provider_sources (name, base_url)
		VALUES ($1, $2)
		ON CONFLICT (name) DO UPDATE SET
			base_url = EXCLUDED.base_url,
			updated_at = NOW()
		RETURNING id
	`

	var id int64
	if err := q.QueryRow(ctx, query, name, baseURL).Scan(&id); err != nil {
		return 0, fmt.Errorf("failed to ensure provider source: %w", err)
	}
	return id, nil
}

// GetByName retrieves a provider source by its unique name.
func (r *SourceRepository) GetByName(ctx context.Context, name string) (*models.ProviderSource, error) {
	query := `
		SELECT id, name, base_url, created_at, updated_at
		FROM provider_sources
		WHERE name = $1
	`

	var src models.ProviderSource
	err := r.db.Pool.QueryRow(ctx, query, name).Scan(
		&src.ID, &src.Name, &src.BaseURL, &src.CreatedAt, &src.UpdatedAt,
	)
	if err == pgx.ErrNoRows {
		return nil, fmt.Errorf("provider source not found: name=%s", name)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get provider source: %w", err)
	}
	return &src, nil
}

package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/HitendraKakadiya/oddins-odds-master-sub000/internal/models"
)

// CountryRepository handles country reference data
type CountryRepository struct {
	db *Database
}

// Upsert inserts or merges a country keyed by its unique name. Code and
// flag use COALESCE so a payload that omits them never nulls out values a
// previous run already filled in.
func (r *CountryRepository) Upsert(ctx context.Context, q Querier, country *models.Country) error {
	query := `
		INSERT INTO countries (name, code, flag_url)
		VALUES ($1, $2, $3)
		ON CONFLICT (name) DO UPDATE SET
			code = COALESCE(EXCLUDED.code, countries.code),
			flag_url = COALESCE(EXCLUDED.flag_url, countries.flag_url),
			updated_at = NOW()
		RETURNING id, created_at, updated_at
	`

	err := q.QueryRow(ctx, query, country.Name, country.Code, country.FlagURL).
		Scan(&country.ID, &country.CreatedAt, &country.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to upsert country: %w", err)
	}
	return nil
}

// GetByName retrieves a country by name, or nil if none exists.
func (r *CountryRepository) GetByName(ctx context.Context, name string) (*models.Country, error) {
	query := `
		SELECT id, name, code, flag_url, created_at, updated_at
		FROM countries
		WHERE name = $1
	`

	var country models.Country
	err := r.db.Pool.QueryRow(ctx, query, name).Scan(
		&country.ID, &country.Name, &country.Code, &country.FlagURL,
		&country.CreatedAt, &country.UpdatedAt,
	)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get country: %w", err)
	}
	return &country, nil
}

// NullString builds a sql.NullString that is NULL for empty input, so
// COALESCE-based merges keep existing values.
func NullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

// NullInt32 builds a sql.NullInt32 that is NULL for zero input.
func NullInt32(v int) sql.NullInt32 {
	return sql.NullInt32{Int32: int32(v), Valid: v != 0}
}

// NullInt64 builds a sql.NullInt64 that is NULL for zero input.
func NullInt64(v int64) sql.NullInt64 {
	return sql.NullInt64{Int64: v, Valid: v != 0}
}

package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/HitendraKakadiya/oddins-odds-master-sub000/internal/models"
)

// TeamRepository handles teams, venues and season membership
type TeamRepository struct {
	db *Database
}

// Upsert inserts or updates a team keyed by its provider id. Teams are
// written concurrently by several jobs, so the merge must be
// order-independent: optional columns keep their previous value when the
// incoming payload omits them.
func (r *TeamRepository) Upsert(ctx context.Context, q Querier, team *models.Team) error {
	query := `
		INSERT INTO teams (provider_id, country_id, venue_id, name, short_name, logo_url, slug)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (provider_id) DO UPDATE SET
			country_id = COALESCE(EXCLUDED.country_id, teams.country_id),
			venue_id = COALESCE(EXCLUDED.venue_id, teams.venue_id),
			name = EXCLUDED.name,
			short_name = COALESCE(EXCLUDED.short_name, teams.short_name),
			logo_url = COALESCE(EXCLUDED.logo_url, teams.logo_url),
			slug = EXCLUDED.slug,
			updated_at = NOW()
		RETURNING id, created_at, updated_at
	`

	err := q.QueryRow(ctx, query,
		team.ProviderID, team.CountryID, team.VenueID, team.Name,
		team.ShortName, team.LogoURL, team.Slug,
	).Scan(&team.ID, &team.CreatedAt, &team.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to upsert team: %w", err)
	}
	return nil
}

// GetByProviderID retrieves a team by its provider-assigned id, or nil if
// none exists.
func (r *TeamRepository) GetByProviderID(ctx context.Context, providerID int64) (*models.Team, error) {
	query := `
		SELECT id, provider_id, country_id, venue_id, name, short_name, logo_url, slug,
		       created_at, updated_at
		FROM teams
		WHERE provider_id = $1
	`

	var team models.Team
	err := r.db.Pool.QueryRow(ctx, query, providerID).Scan(
		&team.ID, &team.ProviderID, &team.CountryID, &team.VenueID,
		&team.Name, &team.ShortName, &team.LogoURL, &team.Slug,
		&team.CreatedAt, &team.UpdatedAt,
	)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get team: %w", err)
	}
	return &team, nil
}

// UpsertVenue inserts or updates a venue keyed by its provider id.
func (r *TeamRepository) UpsertVenue(ctx context.Context, q Querier, venue *models.Venue) error {
	query := `
		INSERT INTO venues (provider_id, name, city, capacity, surface)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (provider_id) DO UPDATE SET
			name = EXCLUDED.name,
			city = COALESCE(EXCLUDED.city, venues.city),
			capacity = COALESCE(EXCLUDED.capacity, venues.capacity),
			surface = COALESCE(EXCLUDED.surface, venues.surface),
			updated_at = NOW()
		RETURNING id, created_at, updated_at
	`

	err := q.QueryRow(ctx, query,
		venue.ProviderID, venue.Name, venue.City, venue.Capacity, venue.Surface,
	).Scan(&venue.ID, &venue.CreatedAt, &venue.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to upsert venue: %w", err)
	}
	return nil
}

// LinkSeason records a team's membership in a season. Conflicts are
// ignored: membership is set-valued.
func (r *TeamRepository) LinkSeason(ctx context.Context, q Querier, seasonID, teamID int64) error {
	query := `
		INSERT INTO season_teams (season_id, team_id)
		VALUES ($1, $2)
		ON CONFLICT (season_id, team_id) DO NOTHING
	`

	if _, err := q.Exec(ctx, query, seasonID, teamID); err != nil {
		return fmt.Errorf("failed to link team to season: %w", err)
	}
	return nil
}

// ListProviderIDsForSeason returns the provider team ids registered in a
// season, for jobs that fan out per team.
func (r *TeamRepository) ListProviderIDsForSeason(ctx context.Context, seasonID int64) ([]int64, error) {
	query := `
		SELECT t.provider_id
		FROM season_teams st
		JOIN teams t ON t.id = st.team_id
		WHERE st.season_id = $1
		ORDER BY t.provider_id
	`

	rows, err := r.db.Pool.Query(ctx, query, seasonID)
	if err != nil {
		return nil, fmt.Errorf("failed to list season teams: %w", err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan team id: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating season teams: %w", err)
	}
	return ids, nil
}

package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/HitendraKakadiya/oddins-odds-master-sub000/internal/models"
)

// LeagueRepository handles leagues, seasons and season coverage
type LeagueRepository struct {
	db *Database
}

// Upsert inserts or updates a league keyed by its provider id.
func (r *LeagueRepository) Upsert(ctx context.Context, q Querier, league *models.League) error {
	query := `
		INSERT INTO leagues (provider_id, country_id, name, type, logo_url, slug)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (provider_id) DO UPDATE SET
			country_id = EXCLUDED.country_id,
			name = EXCLUDED.name,
			type = COALESCE(EXCLUDED.type, leagues.type),
			logo_url = COALESCE(EXCLUDED.logo_url, leagues.logo_url),
			slug = EXCLUDED.slug,
			updated_at = NOW()
		RETURNING id, created_at, updated_at
	`

	err := q.QueryRow(ctx, query,
		league.ProviderID, league.CountryID, league.Name,
		league.Type, league.LogoURL, league.Slug,
	).Scan(&league.ID, &league.CreatedAt, &league.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to upsert league: %w", err)
	}
	return nil
}

// GetByProviderID retrieves a league by its provider-assigned id, or nil
// if none exists.
func (r *LeagueRepository) GetByProviderID(ctx context.Context, providerID int64) (*models.League, error) {
	query := `
		SELECT id, provider_id, country_id, name, type, logo_url, slug, created_at, updated_at
		FROM leagues
		WHERE provider_id = $1
	`

	var league models.League
	err := r.db.Pool.QueryRow(ctx, query, providerID).Scan(
		&league.ID, &league.ProviderID, &league.CountryID, &league.Name,
		&league.Type, &league.LogoURL, &league.Slug,
		&league.CreatedAt, &league.UpdatedAt,
	)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get league: %w", err)
	}
	return &league, nil
}

// UpsertSeason inserts or updates a season keyed by (league_id, year).
func (r *LeagueRepository) UpsertSeason(ctx context.Context, q Querier, season *models.Season) error {
	query := `
		INSERT INTO seasons (league_id, year, start_date, end_date, is_current)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (league_id, year) DO UPDATE SET
			start_date = COALESCE(EXCLUDED.start_date, seasons.start_date),
			end_date = COALESCE(EXCLUDED.end_date, seasons.end_date),
			is_current = EXCLUDED.is_current,
			updated_at = NOW()
		RETURNING id, created_at, updated_at
	`

	err := q.QueryRow(ctx, query,
		season.LeagueID, season.Year, season.StartDate, season.EndDate, season.IsCurrent,
	).Scan(&season.ID, &season.CreatedAt, &season.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to upsert season: %w", err)
	}
	return nil
}

// EnsureSeasonYear creates the (league, year) season row if missing and
// returns its id. Unlike UpsertSeason it never touches is_current or the
// date range: fixture payloads only know the year.
func (r *LeagueRepository) EnsureSeasonYear(ctx context.Context, q Querier, leagueID int64, year int) (int64, error) {
	query := `
		INSERT INTO seasons (league_id, year)
		VALUES ($1, $2)
		ON CONFLICT (league_id, year) DO UPDATE SET updated_at = NOW()
		RETURNING id
	`

	var id int64
	if err := q.QueryRow(ctx, query, leagueID, year).Scan(&id); err != nil {
		return 0, fmt.Errorf("failed to ensure season: %w", err)
	}
	return id, nil
}

// UpsertCoverage inserts or updates the coverage flags for one season.
func (r *LeagueRepository) UpsertCoverage(ctx context.Context, q Querier, cov *models.SeasonCoverage) error {
	query := `
		INSERT INTO season_coverage (
			season_id, events, lineups, statistics, standings, injuries, predictions, odds
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (season_id) DO UPDATE SET
			events = EXCLUDED.events,
			lineups = EXCLUDED.lineups,
			statistics = EXCLUDED.statistics,
			standings = EXCLUDED.standings,
			injuries = EXCLUDED.injuries,
			predictions = EXCLUDED.predictions,
			odds = EXCLUDED.odds,
			updated_at = NOW()
		RETURNING id, created_at, updated_at
	`

	err := q.QueryRow(ctx, query,
		cov.SeasonID, cov.Events, cov.Lineups, cov.Statistics,
		cov.Standings, cov.Injuries, cov.Predictions, cov.Odds,
	).Scan(&cov.ID, &cov.CreatedAt, &cov.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to upsert season coverage: %w", err)
	}
	return nil
}

// CurrentSeasonRef pairs a league's provider id with a current season.
type CurrentSeasonRef struct {
	SeasonID         int64
	LeagueID         int64
	LeagueProviderID int64
	Year             int
}

// ListCurrentSeasons returns every season flagged current, joined to its
// league's provider id. Teams, fixtures and players jobs iterate this set.
func (r *LeagueRepository) ListCurrentSeasons(ctx context.Context) ([]CurrentSeasonRef, error) {
	query := `
		SELECT s.id, s.league_id, l.provider_id, s.year
		FROM seasons s
		JOIN leagues l ON l.id = s.league_id
		WHERE s.is_current
		ORDER BY l.provider_id
	`

	rows, err := r.db.Pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list current seasons: %w", err)
	}
	defer rows.Close()

	var refs []CurrentSeasonRef
	for rows.Next() {
		var ref CurrentSeasonRef
		if err := rows.Scan(&ref.SeasonID, &ref.LeagueID, &ref.LeagueProviderID, &ref.Year); err != nil {
			return nil, fmt.Errorf("failed to scan current season: %w", err)
		}
		refs = append(refs, ref)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating current seasons: %w", err)
	}
	return refs, nil
}

// GetSeason retrieves a season by (league_id, year).
func (r *LeagueRepository) GetSeason(ctx context.Context, leagueID int64, year int) (*models.Season, error) {
	query := `
		SELECT id, league_id, year, start_date, end_date, is_current, created_at, updated_at
		FROM seasons
		WHERE league_id = $1 AND year = $2
	`

	var season models.Season
	err := r.db.Pool.QueryRow(ctx, query, leagueID, year).Scan(
		&season.ID, &season.LeagueID, &season.Year, &season.StartDate,
		&season.EndDate, &season.IsCurrent, &season.CreatedAt, &season.UpdatedAt,
	)
	if err == pgx.ErrNoRows {
		return nil, fmt.Errorf("season not found: league_id=%d year=%d", leagueID, year)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get season: %w", err)
	}
	return &season, nil
}

package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog/log"

	"github.com/HitendraKakadiya/oddins-odds-master-sub000/internal/models"
)

// MatchRepository handles fixture rows and retention
type MatchRepository struct {
	db *Database
}

// Upsert inserts or updates a match keyed by its provider fixture id.
// Status, elapsed time and scores always take the incoming value; a later
// payload is authoritative for match state.
func (r *MatchRepository) Upsert(ctx context.Context, q Querier, match *models.Match) error {
	query := `
		INSERT INTO matches (
			provider_fixture_id, season_id, league_id, home_team_id, away_team_id,
			venue_id, kickoff_at, timezone, status, elapsed_minutes,
			home_goals, away_goals, halftime_home, halftime_away, last_synced_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, NOW())
		ON CONFLICT (provider_fixture_id) DO UPDATE SET
			season_id = EXCLUDED.season_id,
			league_id = EXCLUDED.league_id,
			home_team_id = EXCLUDED.home_team_id,
			away_team_id = EXCLUDED.away_team_id,
			venue_id = COALESCE(EXCLUDED.venue_id, matches.venue_id),
			kickoff_at = EXCLUDED.kickoff_at,
			timezone = COALESCE(EXCLUDED.timezone, matches.timezone),
			status = EXCLUDED.status,
			elapsed_minutes = EXCLUDED.elapsed_minutes,
			home_goals = EXCLUDED.home_goals,
			away_goals = EXCLUDED.away_goals,
			halftime_home = EXCLUDED.halftime_home,
			halftime_away = EXCLUDED.halftime_away,
			last_synced_at = NOW(),
			updated_at = NOW()
		RETURNING id, created_at, updated_at
	`

	err := q.QueryRow(ctx, query,
		match.ProviderFixtureID, match.SeasonID, match.LeagueID,
		match.HomeTeamID, match.AwayTeamID, match.VenueID,
		match.KickoffAt, match.Timezone, match.Status, match.ElapsedMinutes,
		match.HomeGoals, match.AwayGoals, match.HalftimeHome, match.HalftimeAway,
	).Scan(&match.ID, &match.CreatedAt, &match.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to upsert match: %w", err)
	}
	return nil
}

// GetByProviderFixtureID retrieves a match by its provider fixture id, or
// nil if none exists.
func (r *MatchRepository) GetByProviderFixtureID(ctx context.Context, fixtureID int64) (*models.Match, error) {
	query := `
		SELECT id, provider_fixture_id, season_id, league_id, home_team_id, away_team_id,
		       venue_id, kickoff_at, timezone, status, elapsed_minutes,
		       home_goals, away_goals, halftime_home, halftime_away,
		       last_synced_at, created_at, updated_at
		FROM matches
		WHERE provider_fixture_id = $1
	`

	var match models.Match
	err := r.db.Pool.QueryRow(ctx, query, fixtureID).Scan(
		&match.ID, &match.ProviderFixtureID, &match.SeasonID, &match.LeagueID,
		&match.HomeTeamID, &match.AwayTeamID, &match.VenueID,
		&match.KickoffAt, &match.Timezone, &match.Status, &match.ElapsedMinutes,
		&match.HomeGoals, &match.AwayGoals, &match.HalftimeHome, &match.HalftimeAway,
		&match.LastSyncedAt, &match.CreatedAt, &match.UpdatedAt,
	)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get match: %w", err)
	}
	return &match, nil
}

// MatchRef is the minimal reference the per-fixture jobs need.
type MatchRef struct {
	ID                int64
	ProviderFixtureID int64
	Status            string
}

// ListUpcoming returns scheduled matches kicking off within the window,
// for the odds and predictions jobs.
func (r *MatchRepository) ListUpcoming(ctx context.Context, window time.Duration) ([]MatchRef, error) {
	query := `
		SELECT id, provider_fixture_id, status
		FROM matches
		WHERE status IN ('NS', 'TBD')
		  AND kickoff_at BETWEEN NOW() AND NOW() + $1::interval
		ORDER BY kickoff_at
	`

	return r.listRefs(ctx, query, window.String())
}

// ListRecentlyPlayed returns matches that started within the lookback
// window, for the events and lineups jobs. In-progress and finished
// matches both qualify: events accumulate during play.
func (r *MatchRepository) ListRecentlyPlayed(ctx context.Context, lookback time.Duration) ([]MatchRef, error) {
	query := `
		SELECT id, provider_fixture_id, status
		FROM matches
		WHERE status NOT IN ('NS', 'TBD', 'PST', 'CANC')
		  AND kickoff_at BETWEEN NOW() - $1::interval AND NOW()
		ORDER BY kickoff_at
	`

	return r.listRefs(ctx, query, lookback.String())
}

func (r *MatchRepository) listRefs(ctx context.Context, query string, args ...any) ([]MatchRef, error) {
	rows, err := r.db.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list matches: %w", err)
	}
	defer rows.Close()

	var refs []MatchRef
	for rows.Next() {
		var ref MatchRef
		if err := rows.Scan(&ref.ID, &ref.ProviderFixtureID, &ref.Status); err != nil {
			return nil, fmt.Errorf("failed to scan match ref: %w", err)
		}
		refs = append(refs, ref)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating matches: %w", err)
	}
	return refs, nil
}

// DeleteOlderThan removes matches whose kickoff is before the cutoff.
// Children (odds, predictions, events, lineups) go with them via ON DELETE
// CASCADE, so retention is a single statement.
func (r *MatchRepository) DeleteOlderThan(ctx context.Context, q Querier, cutoff time.Time) (int64, error) {
	query := `DELETE FROM matches WHERE kickoff_at < $1`

	tag, err := q.Exec(ctx, query, cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to delete old matches: %w", err)
	}

	deleted := tag.RowsAffected()
	log.Info().
		Int64("deleted", deleted).
		Time("cutoff", cutoff).
		Msg("Old matches removed")
	return deleted, nil
}

// Count returns the total number of matches
func (r *MatchRepository) Count(ctx context.Context) (int, error) {
	var count int
	if err := r.db.Pool.QueryRow(ctx, `SELECT COUNT(*) FROM matches`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count matches: %w", err)
	}
	return count, nil
}

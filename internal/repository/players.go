package repository

import (
	"context"
	"fmt"

	"github.com/HitendraKakadiya/oddins-odds-master-sub000/internal/models"
)

// PlayerRepository handles players, lineups and match events
type PlayerRepository struct {
	db *Database
}

// Upsert inserts or updates a player keyed by its provider id. The
// dedicated players job writes full rows; optional columns merge so a
// detailed row is never degraded back to the minimal form.
func (r *PlayerRepository) Upsert(ctx context.Context, q Querier, player *models.Player) error {
	query := `
		INSERT INTO players (
			provider_id, name, position, nationality, birth_date, height_cm, weight_kg, photo_url
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (provider_id) DO UPDATE SET
			name = EXCLUDED.name,
			position = COALESCE(EXCLUDED.position, players.position),
			nationality = COALESCE(EXCLUDED.nationality, players.nationality),
			birth_date = COALESCE(EXCLUDED.birth_date, players.birth_date),
			height_cm = COALESCE(EXCLUDED.height_cm, players.height_cm),
			weight_kg = COALESCE(EXCLUDED.weight_kg, players.weight_kg),
			photo_url = COALESCE(EXCLUDED.photo_url, players.photo_url),
			updated_at = NOW()
		RETURNING id, created_at, updated_at
	`

	err := q.QueryRow(ctx, query,
		player.ProviderID, player.Name, player.Position, player.Nationality,
		player.BirthDate, player.HeightCm, player.WeightKg, player.PhotoURL,
	).Scan(&player.ID, &player.CreatedAt, &player.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to upsert player: %w", err)
	}
	return nil
}

// EnsureMinimal creates a bare player row from lineup or event data when
// the dedicated players sync has not seen this player yet. Returns the
// internal id either way.
func (r *PlayerRepository) EnsureMinimal(ctx context.Context, q Querier, providerID int64, name string) (int64, error) {
	query := `
		INSERT INTO players (provider_id, name)
		VALUES ($1, $2)
		ON CONFLICT (provider_id) DO UPDATE SET
			name = COALESCE(NULLIF(EXCLUDED.name, ''), players.name),
			updated_at = NOW()
		RETURNING id
	`

	var id int64
	if err := q.QueryRow(ctx, query, providerID, name).Scan(&id); err != nil {
		return 0, fmt.Errorf("failed to ensure player: %w", err)
	}
	return id, nil
}

// LinkTeam records a player's membership in a team for a season.
func (r *PlayerRepository) LinkTeam(ctx context.Context, q Querier, teamID, playerID int64, seasonYear int) error {
	query := `
		INSERT INTO team_players (team_id, player_id, season_year)
		VALUES ($1, $2, $3)
		ON CONFLICT (team_id, player_id, season_year) DO NOTHING
	`

	if _, err := q.Exec(ctx, query, teamID, playerID, seasonYear); err != nil {
		return fmt.Errorf("failed to link player to team: %w", err)
	}
	return nil
}

// UpsertLineup inserts or updates one lineup slot keyed by
// (match_id, team_id, player_id).
func (r *PlayerRepository) UpsertLineup(ctx context.Context, q Querier, lineup *models.MatchLineup) error {
	query := `
		INSERT INTO match_lineups (
			match_id, team_id, player_id, position, grid_position, is_starter, jersey_number
		) VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (match_id, team_id, player_id) DO UPDATE SET
			position = EXCLUDED.position,
			grid_position = EXCLUDED.grid_position,
			is_starter = EXCLUDED.is_starter,
			jersey_number = EXCLUDED.jersey_number
		RETURNING id
	`

	err := q.QueryRow(ctx, query,
		lineup.MatchID, lineup.TeamID, lineup.PlayerID, lineup.Position,
		lineup.GridPosition, lineup.IsStarter, lineup.JerseyNumber,
	).Scan(&lineup.ID)
	if err != nil {
		return fmt.Errorf("failed to upsert lineup: %w", err)
	}
	return nil
}

// InsertEvent appends one match event. Events have no natural unique key;
// occasional duplicates across runs are accepted as harmless.
func (r *PlayerRepository) InsertEvent(ctx context.Context, q Querier, event *models.MatchEvent) error {
	query := `
		INSERT INTO match_events (
			match_id, team_id, player_id, assist_player_id,
			elapsed_minutes, extra_minutes, type, detail, comments
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id
	`

	err := q.QueryRow(ctx, query,
		event.MatchID, event.TeamID, event.PlayerID, event.AssistPlayerID,
		event.ElapsedMinutes, event.ExtraMinutes, event.Type, event.Detail, event.Comments,
	).Scan(&event.ID)
	if err != nil {
		return fmt.Errorf("failed to insert match event: %w", err)
	}
	return nil
}

// DeleteEventsForMatch clears a match's events before a re-sync so a fresh
// payload fully replaces the previous one.
func (r *PlayerRepository) DeleteEventsForMatch(ctx context.Context, q Querier, matchID int64) error {
	if _, err := q.Exec(ctx, `DELETE FROM match_events WHERE match_id = $1`, matchID); err != nil {
		return fmt.Errorf("failed to delete match events: %w", err)
	}
	return nil
}

// CountEvents returns the number of events recorded for a match.
func (r *PlayerRepository) CountEvents(ctx context.Context, matchID int64) (int, error) {
	var count int
	err := r.db.Pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM match_events WHERE match_id = $1`, matchID,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count match events: %w", err)
	}
	return count, nil
}

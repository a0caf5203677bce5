package jobs

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/HitendraKakadiya/oddins-odds-master-sub000/internal/client"
	"github.com/HitendraKakadiya/oddins-odds-master-sub000/internal/models"
	"github.com/HitendraKakadiya/oddins-odds-master-sub000/internal/reconcile"
	"github.com/HitendraKakadiya/oddins-odds-master-sub000/internal/repository"
)

// eventsLookback is how far back the events sync looks for matches whose
// timelines may still be incomplete.
const eventsLookback = 48 * time.Hour

// SyncEvents refreshes the in-match timeline of recently played matches.
// Events carry no provider id, so each match's timeline is replaced
// wholesale inside its own transaction; one bad match never blocks the
// rest.
func (r *Runner) SyncEvents(ctx context.Context) error {
	return r.runWithLock(ctx, JobEvents, func(ctx context.Context) (models.SyncStats, error) {
		matches, err := r.db.Matches.ListRecentlyPlayed(ctx, eventsLookback)
		if err != nil {
			return models.SyncStats{}, err
		}
		if len(matches) == 0 {
			log.Info().Msg("No recently played matches, no timelines to refresh")
			return models.SyncStats{}, nil
		}

		var stats models.SyncStats
		for i, match := range matches {
			if i > 0 {
				if err := r.pause(ctx); err != nil {
					return stats, err
				}
			}

			entries, err := r.client.Events(ctx, match.ProviderFixtureID)
			if err != nil {
				return stats, err
			}
			stats.Fetched += len(entries)
			if len(entries) == 0 {
				continue
			}

			if err := r.replaceEvents(ctx, match, entries); err != nil {
				stats.Skipped++
				log.Warn().
					Err(err).
					Int64("fixture_id", match.ProviderFixtureID).
					Msg("Event refresh failed for match, skipping")
				continue
			}
			stats.Processed++
		}
		return stats, nil
	})
}

func (r *Runner) replaceEvents(ctx context.Context, match repository.MatchRef, entries []client.EventEntry) error {
	tx, run, err := r.beginMatchTx(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx) //nolint:errcheck // no-op after commit

	if err := r.db.Players.DeleteEventsForMatch(ctx, run.Querier(), match.ID); err != nil {
		return err
	}

	for _, entry := range entries {
		if entry.Team.ID == nil || entry.Team.Name == "" {
			return fmt.Errorf("event is missing its team reference")
		}
		teamID, err := run.EnsureTeam(ctx, *entry.Team.ID, entry.Team.Name, "", "", 0, 0)
		if err != nil {
			return fmt.Errorf("team: %w", err)
		}

		playerID, err := r.resolveEventPlayer(ctx, run, entry.Player)
		if err != nil {
			return fmt.Errorf("player: %w", err)
		}
		assistID, err := r.resolveEventPlayer(ctx, run, entry.Assist)
		if err != nil {
			return fmt.Errorf("assist: %w", err)
		}

		event := &models.MatchEvent{
			MatchID:        match.ID,
			TeamID:         teamID,
			PlayerID:       playerID,
			AssistPlayerID: assistID,
			ElapsedMinutes: entry.Time.Elapsed,
			ExtraMinutes:   nullInt32FromPtr(entry.Time.Extra),
			Type:           entry.Type,
			Detail:         repository.NullString(entry.Detail),
			Comments:       repository.NullString(entry.Comments),
		}
		if err := r.db.Players.InsertEvent(ctx, run.Querier(), event); err != nil {
			return err
		}
	}

	return tx.Commit(ctx)
}

// resolveEventPlayer lazily creates the referenced player. Anonymous
// references (nil id) stay NULL.
func (r *Runner) resolveEventPlayer(ctx context.Context, run *reconcile.Run, ref client.EventRef) (sql.NullInt64, error) {
	if ref.ID == nil {
		return sql.NullInt64{}, nil
	}
	id, err := run.EnsurePlayer(ctx, *ref.ID, ref.Name)
	if err != nil {
		return sql.NullInt64{}, err
	}
	return sql.NullInt64{Int64: id, Valid: true}, nil
}

func nullInt32FromPtr(v *int) sql.NullInt32 {
	if v == nil {
		return sql.NullInt32{}
	}
	return sql.NullInt32{Int32: int32(*v), Valid: true}
}

package jobs

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/HitendraKakadiya/oddins-odds-master-sub000/internal/client"
	"github.com/HitendraKakadiya/oddins-odds-master-sub000/internal/models"
	"github.com/HitendraKakadiya/oddins-odds-master-sub000/internal/reconcile"
	"github.com/HitendraKakadiya/oddins-odds-master-sub000/internal/repository"
)

// Lineups are published shortly before kickoff and stay useful for a day
// after; the sync covers both sides of now.
const (
	lineupsAhead    = 24 * time.Hour
	lineupsLookback = 24 * time.Hour
)

// SyncLineups ingests starting elevens and benches for matches around
// kickoff. Like events, each match gets its own transaction.
func (r *Runner) SyncLineups(ctx context.Context) error {
	return r.runWithLock(ctx, JobLineups, func(ctx context.Context) (models.SyncStats, error) {
		upcoming, err := r.db.Matches.ListUpcoming(ctx, lineupsAhead)
		if err != nil {
			return models.SyncStats{}, err
		}
		played, err := r.db.Matches.ListRecentlyPlayed(ctx, lineupsLookback)
		if err != nil {
			return models.SyncStats{}, err
		}

		matches := append(upcoming, played...)
		if len(matches) == 0 {
			log.Info().Msg("No matches near kickoff, no lineups to fetch")
			return models.SyncStats{}, nil
		}

		var stats models.SyncStats
		for i, match := range matches {
			if i > 0 {
				if err := r.pause(ctx); err != nil {
					return stats, err
				}
			}

			entries, err := r.client.Lineups(ctx, match.ProviderFixtureID)
			if err != nil {
				return stats, err
			}
			stats.Fetched += len(entries)
			if len(entries) == 0 {
				continue
			}

			if err := r.storeLineups(ctx, match, entries); err != nil {
				stats.Skipped++
				log.Warn().
					Err(err).
					Int64("fixture_id", match.ProviderFixtureID).
					Msg("Lineup ingestion failed for match, skipping")
				continue
			}
			stats.Processed++
		}
		return stats, nil
	})
}

func (r *Runner) storeLineups(ctx context.Context, match repository.MatchRef, entries []client.LineupEntry) error {
	tx, run, err := r.beginMatchTx(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx) //nolint:errcheck // no-op after commit

	for _, entry := range entries {
		if entry.Team.ID == 0 {
			return fmt.Errorf("lineup is missing its team reference")
		}
		teamID, err := run.EnsureTeam(ctx, entry.Team.ID, entry.Team.Name, "", "", 0, 0)
		if err != nil {
			return fmt.Errorf("team: %w", err)
		}

		if err := r.storeSlots(ctx, run, match.ID, teamID, entry.StartXI, true); err != nil {
			return err
		}
		if err := r.storeSlots(ctx, run, match.ID, teamID, entry.Substitutes, false); err != nil {
			return err
		}
	}

	return tx.Commit(ctx)
}

func (r *Runner) storeSlots(ctx context.Context, run *reconcile.Run, matchID, teamID int64, slots []client.LineupSlot, starter bool) error {
	for _, slot := range slots {
		if slot.Player.ID == 0 {
			continue
		}
		playerID, err := run.EnsurePlayer(ctx, slot.Player.ID, slot.Player.Name)
		if err != nil {
			return fmt.Errorf("player %d: %w", slot.Player.ID, err)
		}

		lineup := &models.MatchLineup{
			MatchID:      matchID,
			TeamID:       teamID,
			PlayerID:     playerID,
			Position:     repository.NullString(slot.Player.Pos),
			GridPosition: repository.NullString(slot.Player.Grid),
			IsStarter:    starter,
			JerseyNumber: nullInt32FromPtr(slot.Player.Number),
		}
		if err := r.db.Players.UpsertLineup(ctx, run.Querier(), lineup); err != nil {
			return err
		}
	}
	return nil
}

package jobs

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/HitendraKakadiya/oddins-odds-master-sub000/internal/metrics"
	"github.com/HitendraKakadiya/oddins-odds-master-sub000/internal/models"
	"github.com/HitendraKakadiya/oddins-odds-master-sub000/internal/reconcile"
)

// Cleanup deletes matches whose kickoff is older than the retention
// window. Odds snapshots, predictions, events and lineups go with them
// through the foreign keys; catalog data (leagues, teams, players) is
// kept.
func (r *Runner) Cleanup(ctx context.Context) error {
	return r.runInTx(ctx, JobCleanup, func(ctx context.Context, run *reconcile.Run) (models.SyncStats, error) {
		cutoff := time.Now().UTC().AddDate(0, 0, -r.cfg.MatchRetentionDays)

		deleted, err := r.db.Matches.DeleteOlderThan(ctx, run.Querier(), cutoff)
		if err != nil {
			return models.SyncStats{}, err
		}

		metrics.MatchesDeleted.Add(float64(deleted))
		log.Info().
			Int64("deleted", deleted).
			Time("cutoff", cutoff).
			Msg("Deleted matches past retention")

		return models.SyncStats{
			Processed: int(deleted),
			Cursor:    cutoff.Format(time.RFC3339),
		}, nil
	})
}

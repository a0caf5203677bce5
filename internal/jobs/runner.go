package jobs

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog/log"

	"github.com/HitendraKakadiya/oddins-odds-master-sub000/internal/client"
	"github.com/HitendraKakadiya/oddins-odds-master-sub000/internal/config"
	"github.com/HitendraKakadiya/oddins-odds-master-sub000/internal/lock"
	"github.com/HitendraKakadiya/oddins-odds-master-sub000/internal/metrics"
	"github.com/HitendraKakadiya/oddins-odds-master-sub000/internal/models"
	"github.com/HitendraKakadiya/oddins-odds-master-sub000/internal/reconcile"
	"github.com/HitendraKakadiya/oddins-odds-master-sub000/internal/repository"
)

// Job names double as advisory-lock names and sync-state entity names.
const (
	JobLeagues       = "leagues"
	JobTeams         = "teams"
	JobFixtures      = "fixtures"
	JobFixturesDaily = "fixtures_daily"
	JobFixtureWindow = "fixtures_window"
	JobOdds          = "odds"
	JobPredictions   = "predictions"
	JobPlayers       = "players"
	JobEvents        = "events"
	JobLineups       = "lineups"
	JobCleanup       = "cleanup"
)

// ErrSkipped is returned when a job run was skipped because another
// worker already holds its lock. Not a failure.
var ErrSkipped = fmt.Errorf("job skipped: lock held elsewhere")

// Runner owns the collaborators every job needs.
type Runner struct {
	cfg    *config.Config
	client *client.Client
	db     *repository.Database
	locks  *lock.Manager
}

// NewRunner creates a job runner.
func NewRunner(cfg *config.Config, cl *client.Client, db *repository.Database, locks *lock.Manager) *Runner {
	return &Runner{cfg: cfg, client: cl, db: db, locks: locks}
}

// txBody is the body of a single-transaction job. It reconciles through
// run and reports its statistics; the wrapper owns commit/rollback and
// the sync-state ledger.
type txBody func(ctx context.Context, run *reconcile.Run) (models.SyncStats, error)

// runInTx wraps a job body with the standard discipline: advisory lock,
// one transaction, provider-source setup, the success record committed
// with the work, and an error record in a separate always-committed step.
func (r *Runner) runInTx(ctx context.Context, jobName string, body txBody) error {
	ran, err := r.locks.WithLock(ctx, jobName, func(ctx context.Context) error {
		start := time.Now()
		log.Info().Str("job", jobName).Msg("Job starting")

		jobErr := r.execInTx(ctx, jobName, start, body)
		if jobErr != nil {
			metrics.RecordJobRun(jobName, "failure", time.Since(start).Seconds())
			log.Error().Err(jobErr).Str("job", jobName).Msg("Job failed")
			r.recordFailure(ctx, jobName, jobErr)
			return jobErr
		}

		metrics.RecordJobRun(jobName, "success", time.Since(start).Seconds())
		return nil
	})
	if err != nil {
		return err
	}
	if !ran {
		metrics.RecordLockContention(jobName)
		log.Info().Str("job", jobName).Msg("Job already running elsewhere, skipping")
		return ErrSkipped
	}
	return nil
}

func (r *Runner) execInTx(ctx context.Context, jobName string, start time.Time, body txBody) error {
	tx, err := r.db.Pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck // no-op after commit

	sourceID, err := r.db.Sources.Ensure(ctx, tx, models.SourceAPIFootball, r.cfg.APIFootballBaseURL)
	if err != nil {
		return err
	}

	run := reconcile.NewRun(tx, r.db)
	stats, err := body(ctx, run)
	if err != nil {
		return err
	}

	processed, skipped := run.Stats()
	stats.Processed += processed
	stats.Skipped += skipped
	stats.Duration = time.Since(start)
	if err := r.db.SyncState.RecordSuccess(ctx, tx, sourceID, jobName, stats); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	metrics.RecordItems(jobName, stats.Processed, stats.Skipped)
	log.Info().
		Str("job", jobName).
		Int("fetched", stats.Fetched).
		Int("processed", stats.Processed).
		Int("skipped", stats.Skipped).
		Dur("duration", stats.Duration).
		Msg("Job complete")
	return nil
}

// runWithLock wraps jobs that manage their own transactions (events and
// lineups open one per match). The success record is committed on its
// own since there is no single job transaction to join.
func (r *Runner) runWithLock(ctx context.Context, jobName string, body func(ctx context.Context) (models.SyncStats, error)) error {
	ran, err := r.locks.WithLock(ctx, jobName, func(ctx context.Context) error {
		start := time.Now()
		log.Info().Str("job", jobName).Msg("Job starting")

		stats, jobErr := body(ctx)
		stats.Duration = time.Since(start)

		if jobErr != nil {
			metrics.RecordJobRun(jobName, "failure", stats.Duration.Seconds())
			log.Error().Err(jobErr).Str("job", jobName).Msg("Job failed")
			r.recordFailure(ctx, jobName, jobErr)
			return jobErr
		}

		if err := r.recordSuccess(ctx, jobName, stats); err != nil {
			return err
		}

		metrics.RecordJobRun(jobName, "success", stats.Duration.Seconds())
		metrics.RecordItems(jobName, stats.Processed, stats.Skipped)
		log.Info().
			Str("job", jobName).
			Int("fetched", stats.Fetched).
			Int("processed", stats.Processed).
			Int("skipped", stats.Skipped).
			Dur("duration", stats.Duration).
			Msg("Job complete")
		return nil
	})
	if err != nil {
		return err
	}
	if !ran {
		metrics.RecordLockContention(jobName)
		log.Info().Str("job", jobName).Msg("Job already running elsewhere, skipping")
		return ErrSkipped
	}
	return nil
}

func (r *Runner) recordSuccess(ctx context.Context, jobName string, stats models.SyncStats) error {
	sourceID, err := r.db.Sources.Ensure(ctx, r.db.Pool, models.SourceAPIFootball, r.cfg.APIFootballBaseURL)
	if err != nil {
		return err
	}
	return r.db.SyncState.RecordSuccess(ctx, r.db.Pool, sourceID, jobName, stats)
}

// recordFailure writes the error record outside the (rolled back) job
// transaction so it always survives. The provider source row may also
// have been rolled back, so it is re-ensured on the pool first.
func (r *Runner) recordFailure(ctx context.Context, jobName string, jobErr error) {
	sourceID, err := r.db.Sources.Ensure(ctx, r.db.Pool, models.SourceAPIFootball, r.cfg.APIFootballBaseURL)
	if err != nil {
		log.Error().Err(err).Str("job", jobName).Msg("Failed to ensure provider source for error record")
		return
	}
	if err := r.db.SyncState.RecordError(ctx, sourceID, jobName, jobErr.Error()); err != nil {
		log.Error().Err(err).Str("job", jobName).Msg("Failed to record job error")
	}
}

// pause sleeps the fixed inter-call delay between successive provider
// calls, honoring cancellation. Distinct from the client's retry backoff.
func (r *Runner) pause(ctx context.Context) error {
	if r.cfg.ProviderCallDelay <= 0 {
		return nil
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(r.cfg.ProviderCallDelay):
		return nil
	}
}

// beginMatchTx opens a fresh per-match transaction for jobs that isolate
// work per match instead of per item.
func (r *Runner) beginMatchTx(ctx context.Context) (pgx.Tx, *reconcile.Run, error) {
	tx, err := r.db.Pool.Begin(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to begin match transaction: %w", err)
	}
	return tx, reconcile.NewRun(tx, r.db), nil
}

package scheduler

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"

	"github.com/HitendraKakadiya/oddins-odds-master-sub000/internal/config"
	"github.com/HitendraKakadiya/oddins-odds-master-sub000/internal/jobs"
)

// Scheduler drives the recurring sync jobs on their cron schedules.
// All expressions are evaluated in UTC, matching the provider's fixture
// dates. A failed run is logged and retried at the next tick; it never
// stops the schedule.
type Scheduler struct {
	cfg    *config.Config
	runner *jobs.Runner
	cron   *cron.Cron
}

// NewScheduler creates a scheduler around the given job runner.
func NewScheduler(cfg *config.Config, runner *jobs.Runner) *Scheduler {
	return &Scheduler{
		cfg:    cfg,
		runner: runner,
		cron:   cron.New(cron.WithLocation(time.UTC)),
	}
}

// Start registers all jobs and starts the cron loop.
func (s *Scheduler) Start(ctx context.Context) error {
	log.Info().Msg("Scheduler starting...")

	entries := []struct {
		name string
		spec string
		run  func(context.Context) error
	}{
		{"fixture window", s.cfg.FixtureWindowCron, s.runner.SyncFixtureWindow},
		{"odds refresh", s.cfg.OddsRefreshCron, s.runner.SyncOdds},
		{"predictions", s.cfg.PredictionsCron, s.runner.SyncPredictions},
		{"cleanup", s.cfg.CleanupCron, s.runner.Cleanup},
	}

	for _, e := range entries {
		e := e
		if _, err := s.cron.AddFunc(e.spec, func() {
			if err := e.run(ctx); err != nil && !errors.Is(err, jobs.ErrSkipped) {
				log.Error().Err(err).Str("job", e.name).Msg("Scheduled job failed")
			}
		}); err != nil {
			return fmt.Errorf("failed to schedule %s job: %w", e.name, err)
		}
		log.Info().
			Str("job", e.name).
			Str("schedule", e.spec).
			Msg("Job scheduled")
	}

	s.cron.Start()
	return nil
}

// Stop stops the cron loop and waits for any running invocation to
// return.
func (s *Scheduler) Stop() {
	log.Info().Msg("Stopping scheduler...")
	stopCtx := s.cron.Stop()
	<-stopCtx.Done()
	log.Info().Msg("Scheduler stopped")
}

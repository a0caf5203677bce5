package jobs

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/HitendraKakadiya/oddins-odds-master-sub000/internal/client"
	"github.com/HitendraKakadiya/oddins-odds-master-sub000/internal/models"
	"github.com/HitendraKakadiya/oddins-odds-master-sub000/internal/reconcile"
)

// SyncFixtures ingests the full fixture list of every current season.
// Heavyweight; meant for backfills rather than the schedule.
func (r *Runner) SyncFixtures(ctx context.Context) error {
	return r.runInTx(ctx, JobFixtures, func(ctx context.Context, run *reconcile.Run) (models.SyncStats, error) {
		seasons, err := r.db.Leagues.ListCurrentSeasons(ctx)
		if err != nil {
			return models.SyncStats{}, err
		}
		if len(seasons) == 0 {
			log.Warn().Msg("No current seasons found, run the leagues sync first")
			return models.SyncStats{}, nil
		}

		var stats models.SyncStats
		for i, season := range seasons {
			if i > 0 {
				if err := r.pause(ctx); err != nil {
					return stats, err
				}
			}

			entries, err := r.client.Fixtures(ctx, season.LeagueProviderID, season.Year)
			if err != nil {
				return stats, err
			}
			stats.Fetched += len(entries)

			if err := r.reconcileFixtures(ctx, run, entries); err != nil {
				return stats, err
			}
		}
		return stats, nil
	})
}

// SyncDailyFixtures ingests every fixture scheduled on one UTC date.
func (r *Runner) SyncDailyFixtures(ctx context.Context, date time.Time) error {
	return r.runInTx(ctx, JobFixturesDaily, func(ctx context.Context, run *reconcile.Run) (models.SyncStats, error) {
		entries, err := r.client.FixturesByDate(ctx, date)
		if err != nil {
			return models.SyncStats{}, err
		}

		stats := models.SyncStats{
			Fetched: len(entries),
			Cursor:  date.UTC().Format("2006-01-02"),
		}
		return stats, r.reconcileFixtures(ctx, run, entries)
	})
}

// SyncFixtureWindow ingests a rolling date window: a few days back to pick
// up final scores and a week ahead to pick up new schedules. This is the
// hourly scheduled job.
func (r *Runner) SyncFixtureWindow(ctx context.Context) error {
	return r.runInTx(ctx, JobFixtureWindow, func(ctx context.Context, run *reconcile.Run) (models.SyncStats, error) {
		today := time.Now().UTC().Truncate(24 * time.Hour)
		first := today.AddDate(0, 0, -r.cfg.FixtureWindowPastDays)
		last := today.AddDate(0, 0, r.cfg.FixtureWindowFutureDays)

		var stats models.SyncStats
		for date := first; !date.After(last); date = date.AddDate(0, 0, 1) {
			if !date.Equal(first) {
				if err := r.pause(ctx); err != nil {
					return stats, err
				}
			}

			entries, err := r.client.FixturesByDate(ctx, date)
			if err != nil {
				return stats, err
			}
			stats.Fetched += len(entries)

			if err := r.reconcileFixtures(ctx, run, entries); err != nil {
				return stats, err
			}
		}
		stats.Cursor = last.Format("2006-01-02")
		return stats, nil
	})
}

func (r *Runner) reconcileFixtures(ctx context.Context, run *reconcile.Run, entries []client.FixtureEntry) error {
	for _, entry := range entries {
		entry := entry
		err := run.Item(ctx, fmt.Sprintf("fixture %d", entry.Fixture.ID), func(ctx context.Context) error {
			_, err := run.Fixture(ctx, entry)
			return err
		})
		if err != nil {
			return err
		}
	}
	return nil
}

// upcomingWindow is how far ahead odds and prediction jobs look for
// matches worth refreshing.
func (r *Runner) upcomingWindow() time.Duration {
	return time.Duration(r.cfg.FixtureWindowFutureDays) * 24 * time.Hour
}

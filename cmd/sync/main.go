// Command sync runs a single sync job to completion and exits. It is the
// operator's tool for backfills and one-off refreshes; the worker covers
// the recurring schedule.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/HitendraKakadiya/oddins-odds-master-sub000/internal/client"
	"github.com/HitendraKakadiya/oddins-odds-master-sub000/internal/config"
	"github.com/HitendraKakadiya/oddins-odds-master-sub000/internal/jobs"
	"github.com/HitendraKakadiya/oddins-odds-master-sub000/internal/lock"
	"github.com/HitendraKakadiya/oddins-odds-master-sub000/internal/repository"
)

const usage = `Usage: sync <job> [args]

Jobs:
  leagues            sync the league catalog with seasons and coverage
  teams              sync teams and venues for all current seasons
  fixtures           sync all fixtures of all current seasons (backfill)
  daily [YYYY-MM-DD] sync fixtures for one UTC date (default today)
  window             sync the rolling fixture date window
  odds               capture odds snapshots for upcoming matches
  predictions        refresh predictions for upcoming matches
  players            sync squads for all current season teams
  events             refresh timelines of recently played matches
  lineups            sync lineups for matches around kickoff
  cleanup            delete matches past the retention window
`

func main() {
	setupLogger()

	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}
	jobName := os.Args[1]

	cfg := config.MustLoad()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		log.Info().Msg("Received shutdown signal, cancelling job...")
		cancel()
	}()

	db, err := repository.NewDatabase(ctx, cfg.DatabaseDSN())
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer db.Close()

	apiClient := client.NewClient(
		cfg.APIFootballBaseURL,
		cfg.APIFootballKey,
		cfg.ProviderTimeout,
		client.WithMaxAttempts(cfg.ProviderMaxAttempts),
	)
	runner := jobs.NewRunner(cfg, apiClient, db, lock.NewManager(db.Pool))

	err = runJob(ctx, runner, jobName, os.Args[2:])
	switch {
	case err == nil:
		log.Info().Str("job", jobName).Msg("Sync finished")
	case errors.Is(err, jobs.ErrSkipped):
		log.Warn().Str("job", jobName).Msg("Sync skipped, another worker holds the lock")
		os.Exit(1)
	default:
		log.Error().Err(err).Str("job", jobName).Msg("Sync failed")
		os.Exit(1)
	}
}

func runJob(ctx context.Context, runner *jobs.Runner, jobName string, args []string) error {
	switch jobName {
	case "leagues":
		return runner.SyncLeagues(ctx)
	case "teams":
		return runner.SyncTeams(ctx)
	case "fixtures":
		return runner.SyncFixtures(ctx)
	case "daily":
		date := time.Now().UTC()
		if len(args) > 0 {
			parsed, err := time.Parse("2006-01-02", args[0])
			if err != nil {
				return fmt.Errorf("invalid date %q, expected YYYY-MM-DD: %w", args[0], err)
			}
			date = parsed
		}
		return runner.SyncDailyFixtures(ctx, date)
	case "window":
		return runner.SyncFixtureWindow(ctx)
	case "odds":
		return runner.SyncOdds(ctx)
	case "predictions":
		return runner.SyncPredictions(ctx)
	case "players":
		return runner.SyncPlayers(ctx)
	case "events":
		return runner.SyncEvents(ctx)
	case "lineups":
		return runner.SyncLineups(ctx)
	case "cleanup":
		return runner.Cleanup(ctx)
	default:
		fmt.Fprintf(os.Stderr, "Unknown job %q\n\n%s", jobName, usage)
		os.Exit(2)
		return nil
	}
}

func setupLogger() {
	if os.Getenv("APP_ENV") == "development" {
		log.Logger = log.Output(zerolog.ConsoleWriter{
			Out:        os.Stdout,
			TimeFormat: time.RFC3339,
		})
	}

	level := zerolog.InfoLevel
	if lvl := os.Getenv("LOG_LEVEL"); lvl != "" {
		if parsedLevel, err := zerolog.ParseLevel(lvl); err == nil {
			level = parsedLevel
		}
	}
	zerolog.SetGlobalLevel(level)
}

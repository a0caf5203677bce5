package jobs

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/HitendraKakadiya/oddins-odds-master-sub000/internal/models"
	"github.com/HitendraKakadiya/oddins-odds-master-sub000/internal/reconcile"
)

// SyncLeagues ingests the full league catalog: countries, leagues, every
// season with its date range and current flag, and per-season coverage.
func (r *Runner) SyncLeagues(ctx context.Context) error {
	return r.runInTx(ctx, JobLeagues, func(ctx context.Context, run *reconcile.Run) (models.SyncStats, error) {
		entries, err := r.client.Leagues(ctx)
		if err != nil {
			return models.SyncStats{}, err
		}

		stats := models.SyncStats{Fetched: len(entries)}
		for _, entry := range entries {
			entry := entry
			err := run.Item(ctx, fmt.Sprintf("league %d %s", entry.League.ID, entry.League.Name), func(ctx context.Context) error {
				if entry.League.ID == 0 || entry.League.Name == "" {
					return fmt.Errorf("league payload is missing id or name")
				}

				countryID, err := run.EnsureCountry(ctx, entry.Country.Name, entry.Country.Code, entry.Country.Flag)
				if err != nil {
					return fmt.Errorf("country: %w", err)
				}

				leagueID, err := run.EnsureLeague(ctx, entry.League.ID, countryID, entry.League.Name, entry.League.Type, entry.League.Logo)
				if err != nil {
					return fmt.Errorf("league: %w", err)
				}

				for _, se := range entry.Seasons {
					season := &models.Season{
						LeagueID:  leagueID,
						Year:      se.Year,
						StartDate: parseDate(se.Start),
						EndDate:   parseDate(se.End),
						IsCurrent: se.Current,
					}
					if err := r.db.Leagues.UpsertSeason(ctx, run.Querier(), season); err != nil {
						return fmt.Errorf("season %d: %w", se.Year, err)
					}

					cov := &models.SeasonCoverage{
						SeasonID:    season.ID,
						Events:      se.Coverage.Fixtures.Events,
						Lineups:     se.Coverage.Fixtures.Lineups,
						Statistics:  se.Coverage.Fixtures.Stats,
						Standings:   se.Coverage.Standings,
						Injuries:    se.Coverage.Injuries,
						Predictions: se.Coverage.Predictions,
						Odds:        se.Coverage.Odds,
					}
					if err := r.db.Leagues.UpsertCoverage(ctx, run.Querier(), cov); err != nil {
						return fmt.Errorf("coverage %d: %w", se.Year, err)
					}
				}
				return nil
			})
			if err != nil {
				return stats, err
			}
		}
		return stats, nil
	})
}

func parseDate(s string) sql.NullTime {
	if s == "" {
		return sql.NullTime{}
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: t, Valid: true}
}

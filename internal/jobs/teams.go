package jobs

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/HitendraKakadiya/oddins-odds-master-sub000/internal/models"
	"github.com/HitendraKakadiya/oddins-odds-master-sub000/internal/reconcile"
)

// SyncTeams ingests the squads of every current season: teams, their
// venues, and the season membership links.
func (r *Runner) SyncTeams(ctx context.Context) error {
	return r.runInTx(ctx, JobTeams, func(ctx context.Context, run *reconcile.Run) (models.SyncStats, error) {
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

			entries, err := r.client.Teams(ctx, season.LeagueProviderID, season.Year)
			if err != nil {
				return stats, err
			}
			stats.Fetched += len(entries)

			for _, entry := range entries {
				entry := entry
				season := season
				err := run.Item(ctx, fmt.Sprintf("team %d %s", entry.Team.ID, entry.Team.Name), func(ctx context.Context) error {
					if entry.Team.ID == 0 || entry.Team.Name == "" {
						return fmt.Errorf("team payload is missing id or name")
					}

					venueID, err := run.EnsureVenue(ctx, entry.Venue.ID, entry.Venue.Name, entry.Venue.City, entry.Venue.Capacity, entry.Venue.Surface)
					if err != nil {
						return fmt.Errorf("venue: %w", err)
					}

					var countryID int64
					if entry.Team.Country != "" {
						countryID, err = run.EnsureCountry(ctx, entry.Team.Country, "", "")
						if err != nil {
							return fmt.Errorf("country: %w", err)
						}
					}

					teamID, err := run.EnsureTeam(ctx, entry.Team.ID, entry.Team.Name, entry.Team.Code, entry.Team.Logo, countryID, venueID)
					if err != nil {
						return fmt.Errorf("team: %w", err)
					}

					if err := r.db.Teams.LinkSeason(ctx, run.Querier(), season.SeasonID, teamID); err != nil {
						return fmt.Errorf("season link: %w", err)
					}
					return nil
				})
				if err != nil {
					return stats, err
				}
			}
		}
		return stats, nil
	})
}

package jobs

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/HitendraKakadiya/oddins-odds-master-sub000/internal/models"
	"github.com/HitendraKakadiya/oddins-odds-master-sub000/internal/reconcile"
	"github.com/HitendraKakadiya/oddins-odds-master-sub000/internal/repository"
)

// SyncPlayers ingests squads for every team in every current season and
// links players to their teams for the season year.
func (r *Runner) SyncPlayers(ctx context.Context) error {
	return r.runInTx(ctx, JobPlayers, func(ctx context.Context, run *reconcile.Run) (models.SyncStats, error) {
		seasons, err := r.db.Leagues.ListCurrentSeasons(ctx)
		if err != nil {
			return models.SyncStats{}, err
		}

		var stats models.SyncStats
		first := true
		for _, season := range seasons {
			teamProviderIDs, err := r.db.Teams.ListProviderIDsForSeason(ctx, season.SeasonID)
			if err != nil {
				return stats, err
			}
			if len(teamProviderIDs) == 0 {
				log.Debug().
					Int64("league_id", season.LeagueID).
					Int("year", season.Year).
					Msg("Season has no teams yet, run the teams sync first")
				continue
			}

			for _, teamProviderID := range teamProviderIDs {
				if !first {
					if err := r.pause(ctx); err != nil {
						return stats, err
					}
				}
				first = false

				team, err := r.db.Teams.GetByProviderID(ctx, teamProviderID)
				if err != nil {
					return stats, err
				}
				if team == nil {
					continue
				}

				entries, err := r.client.Players(ctx, teamProviderID, season.Year)
				if err != nil {
					return stats, err
				}
				stats.Fetched += len(entries)

				for _, entry := range entries {
					entry := entry
					teamID := team.ID
					year := season.Year
					err := run.Item(ctx, fmt.Sprintf("player %d %s", entry.Player.ID, entry.Player.Name), func(ctx context.Context) error {
						if entry.Player.ID == 0 || entry.Player.Name == "" {
							return fmt.Errorf("player payload is missing id or name")
						}

						position := ""
						if len(entry.Statistics) > 0 {
							position = entry.Statistics[0].Games.Position
						}

						player := &models.Player{
							ProviderID:  entry.Player.ID,
							Name:        entry.Player.Name,
							Position:    repository.NullString(position),
							Nationality: repository.NullString(entry.Player.Nationality),
							BirthDate:   parseDate(entry.Player.Birth.Date),
							HeightCm:    parseMeasure(entry.Player.Height),
							WeightKg:    parseMeasure(entry.Player.Weight),
							PhotoURL:    repository.NullString(entry.Player.Photo),
						}
						if err := r.db.Players.Upsert(ctx, run.Querier(), player); err != nil {
							return err
						}
						return r.db.Players.LinkTeam(ctx, run.Querier(), teamID, player.ID, year)
					})
					if err != nil {
						return stats, err
					}
				}
			}
		}
		return stats, nil
	})
}

// parseMeasure extracts the number from values like "180 cm" or "75 kg".
func parseMeasure(s string) sql.NullInt32 {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return sql.NullInt32{}
	}
	v, err := strconv.Atoi(fields[0])
	if err != nil {
		return sql.NullInt32{}
	}
	return repository.NullInt32(v)
}

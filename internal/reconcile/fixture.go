package reconcile

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/HitendraKakadiya/oddins-odds-master-sub000/internal/client"
	"github.com/HitendraKakadiya/oddins-odds-master-sub000/internal/models"
	"github.com/HitendraKakadiya/oddins-odds-master-sub000/internal/repository"
)

// Fixture runs the full upsert cascade for one fixture payload:
// country, league, season, home team, away team, venue, then the match.
// All fixture jobs (by league season, by date, rolling window) share it.
func (r *Run) Fixture(ctx context.Context, entry client.FixtureEntry) (*models.Match, error) {
	if entry.Fixture.ID == 0 {
		return nil, fmt.Errorf("fixture payload has no id")
	}
	if entry.Teams.Home.ID == 0 || entry.Teams.Away.ID == 0 {
		return nil, fmt.Errorf("fixture %d is missing team references", entry.Fixture.ID)
	}

	countryID, err := r.EnsureCountry(ctx, entry.League.Country, "", entry.League.Flag)
	if err != nil {
		return nil, fmt.Errorf("country: %w", err)
	}

	leagueID, err := r.EnsureLeague(ctx, entry.League.ID, countryID, entry.League.Name, "", entry.League.Logo)
	if err != nil {
		return nil, fmt.Errorf("league: %w", err)
	}

	seasonID, err := r.EnsureSeason(ctx, leagueID, entry.League.Season)
	if err != nil {
		return nil, fmt.Errorf("season: %w", err)
	}

	homeID, err := r.EnsureTeam(ctx, entry.Teams.Home.ID, entry.Teams.Home.Name, "", entry.Teams.Home.Logo, countryID, 0)
	if err != nil {
		return nil, fmt.Errorf("home team: %w", err)
	}

	awayID, err := r.EnsureTeam(ctx, entry.Teams.Away.ID, entry.Teams.Away.Name, "", entry.Teams.Away.Logo, countryID, 0)
	if err != nil {
		return nil, fmt.Errorf("away team: %w", err)
	}

	venueID, err := r.EnsureVenue(ctx, entry.Fixture.Venue.ID, entry.Fixture.Venue.Name, entry.Fixture.Venue.City, 0, "")
	if err != nil {
		return nil, fmt.Errorf("venue: %w", err)
	}

	kickoff, err := time.Parse(time.RFC3339, entry.Fixture.Date)
	if err != nil {
		return nil, fmt.Errorf("fixture %d has unparseable kickoff %q: %w", entry.Fixture.ID, entry.Fixture.Date, err)
	}

	status := entry.Fixture.Status.Short
	if status == "" {
		status = models.StatusToBeDefined
	}

	match := &models.Match{
		ProviderFixtureID: entry.Fixture.ID,
		SeasonID:          seasonID,
		LeagueID:          leagueID,
		HomeTeamID:        homeID,
		AwayTeamID:        awayID,
		VenueID:           repository.NullInt64(venueID),
		KickoffAt:         kickoff,
		Timezone:          repository.NullString(entry.Fixture.Timezone),
		Status:            status,
		ElapsedMinutes:    nullInt32Ptr(entry.Fixture.Status.Elapsed),
		HomeGoals:         nullInt32Ptr(entry.Goals.Home),
		AwayGoals:         nullInt32Ptr(entry.Goals.Away),
		HalftimeHome:      nullInt32Ptr(entry.Score.Halftime.Home),
		HalftimeAway:      nullInt32Ptr(entry.Score.Halftime.Away),
	}
	if err := r.db.Matches.Upsert(ctx, r.q, match); err != nil {
		return nil, fmt.Errorf("match: %w", err)
	}

	return match, nil
}

func nullInt32Ptr(v *int) sql.NullInt32 {
	if v == nil {
		return sql.NullInt32{}
	}
	return sql.NullInt32{Int32: int32(*v), Valid: true}
}

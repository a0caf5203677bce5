package repository

import (
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/HitendraKakadiya/oddins-odds-master-sub000/internal/models"
)

func TestLeagueRepository_SeasonLifecycle(t *testing.T) {
	db, ctx := setupTestDB(t)
	defer teardownTestDB(t, db)

	country := &models.Country{Name: "Germany"}
	require.NoError(t, db.Countries.Upsert(ctx, db.Pool, country))

	league := &models.League{ProviderID: 985000, CountryID: country.ID, Name: "Bundesliga", Slug: "bundesliga"}
	require.NoError(t, db.Leagues.Upsert(ctx, db.Pool, league))

	season := &models.Season{
		LeagueID:  league.ID,
		Year:      2023,
		StartDate: sql.NullTime{Time: time.Date(2023, 8, 18, 0, 0, 0, 0, time.UTC), Valid: true},
		IsCurrent: true,
	}
	require.NoError(t, db.Leagues.UpsertSeason(ctx, db.Pool, season))

	// A fixture payload only knows the year; resolving it must neither
	// duplicate the season nor clear the current flag.
	id, err := db.Leagues.EnsureSeasonYear(ctx, db.Pool, league.ID, 2023)
	require.NoError(t, err)
	assert.Equal(t, season.ID, id, "Ensure should resolve the existing season")

	stored, err := db.Leagues.GetSeason(ctx, league.ID, 2023)
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.True(t, stored.IsCurrent, "Ensure must not clear is_current")
	assert.True(t, stored.StartDate.Valid, "Ensure must not clear the date range")
}

func TestLeagueRepository_ListCurrentSeasons(t *testing.T) {
	db, ctx := setupTestDB(t)
	defer teardownTestDB(t, db)

	country := &models.Country{Name: "Italy"}
	require.NoError(t, db.Countries.Upsert(ctx, db.Pool, country))

	league := &models.League{ProviderID: 986000, CountryID: country.ID, Name: "Serie A", Slug: "serie-a"}
	require.NoError(t, db.Leagues.Upsert(ctx, db.Pool, league))

	current := &models.Season{LeagueID: league.ID, Year: 2023, IsCurrent: true}
	require.NoError(t, db.Leagues.UpsertSeason(ctx, db.Pool, current))
	past := &models.Season{LeagueID: league.ID, Year: 2022, IsCurrent: false}
	require.NoError(t, db.Leagues.UpsertSeason(ctx, db.Pool, past))

	refs, err := db.Leagues.ListCurrentSeasons(ctx)
	require.NoError(t, err)

	var found bool
	for _, ref := range refs {
		if ref.LeagueProviderID == 986000 {
			found = true
			assert.Equal(t, 2023, ref.Year, "Only the current season should be listed")
		}
	}
	assert.True(t, found, "The current season should be listed")
}

func TestLeagueRepository_CoverageUpsert(t *testing.T) {
	db, ctx := setupTestDB(t)
	defer teardownTestDB(t, db)

	country := &models.Country{Name: "France"}
	require.NoError(t, db.Countries.Upsert(ctx, db.Pool, country))

	league := &models.League{ProviderID: 987000, CountryID: country.ID, Name: "Ligue 1", Slug: "ligue-1"}
	require.NoError(t, db.Leagues.Upsert(ctx, db.Pool, league))

	seasonID, err := db.Leagues.EnsureSeasonYear(ctx, db.Pool, league.ID, 2023)
	require.NoError(t, err)

	cov := &models.SeasonCoverage{SeasonID: seasonID, Odds: true, Predictions: true}
	require.NoError(t, db.Leagues.UpsertCoverage(ctx, db.Pool, cov))
	firstID := cov.ID

	cov.Odds = false
	require.NoError(t, db.Leagues.UpsertCoverage(ctx, db.Pool, cov))
	assert.Equal(t, firstID, cov.ID, "One coverage row per season")
}

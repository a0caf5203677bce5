package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/HitendraKakadiya/oddins-odds-master-sub000/internal/models"
)

func TestTeamRepository_UpsertMergesOptionalColumns(t *testing.T) {
	db, ctx := setupTestDB(t)
	defer teardownTestDB(t, db)

	// The teams sync writes the full row.
	full := &models.Team{
		ProviderID: 980001,
		Name:       "Arsenal",
		ShortName:  NullString("ARS"),
		LogoURL:    NullString("https://media.api-sports.io/football/teams/42.png"),
		Slug:       "arsenal",
	}
	require.NoError(t, db.Teams.Upsert(ctx, db.Pool, full))

	// A fixture payload later carries only id, name and logo; the merge
	// must not blank out what the teams sync already knew.
	sparse := &models.Team{
		ProviderID: 980001,
		Name:       "Arsenal",
		Slug:       "arsenal",
	}
	require.NoError(t, db.Teams.Upsert(ctx, db.Pool, sparse))
	assert.Equal(t, full.ID, sparse.ID, "Both payloads should hit the same row")

	stored, err := db.Teams.GetByProviderID(ctx, 980001)
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, "ARS", stored.ShortName.String, "Known short name should survive a sparse payload")
	assert.True(t, stored.LogoURL.Valid, "Known logo should survive a sparse payload")
}

func TestTeamRepository_LinkSeasonIsIdempotent(t *testing.T) {
	db, ctx := setupTestDB(t)
	defer teardownTestDB(t, db)

	country := &models.Country{Name: "Spain"}
	require.NoError(t, db.Countries.Upsert(ctx, db.Pool, country))

	league := &models.League{ProviderID: 981000, CountryID: country.ID, Name: "La Liga", Slug: "la-liga"}
	require.NoError(t, db.Leagues.Upsert(ctx, db.Pool, league))

	seasonID, err := db.Leagues.EnsureSeasonYear(ctx, db.Pool, league.ID, 2023)
	require.NoError(t, err)

	team := &models.Team{ProviderID: 981001, Name: "Real Madrid", Slug: "real-madrid"}
	require.NoError(t, db.Teams.Upsert(ctx, db.Pool, team))

	require.NoError(t, db.Teams.LinkSeason(ctx, db.Pool, seasonID, team.ID))
	require.NoError(t, db.Teams.LinkSeason(ctx, db.Pool, seasonID, team.ID), "Re-linking must not error")

	ids, err := db.Teams.ListProviderIDsForSeason(ctx, seasonID)
	require.NoError(t, err)
	assert.Equal(t, []int64{981001}, ids, "Membership should be recorded once")
}

func TestVenueRepository_Upsert(t *testing.T) {
	db, ctx := setupTestDB(t)
	defer teardownTestDB(t, db)

	venue := &models.Venue{
		ProviderID: 982001,
		Name:       "Emirates Stadium",
		City:       NullString("London"),
		Capacity:   NullInt32(60704),
	}
	require.NoError(t, db.Teams.UpsertVenue(ctx, db.Pool, venue))
	firstID := venue.ID

	venue.Capacity = NullInt32(60260)
	require.NoError(t, db.Teams.UpsertVenue(ctx, db.Pool, venue))
	assert.Equal(t, firstID, venue.ID, "Provider id should be the identity")
}

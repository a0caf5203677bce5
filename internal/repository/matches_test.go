package repository

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/HitendraKakadiya/oddins-odds-master-sub000/internal/models"
)

func TestMatchRepository_UpsertIsIdempotent(t *testing.T) {
	db, ctx := setupTestDB(t)
	defer teardownTestDB(t, db)

	kickoff := time.Now().UTC().Add(48 * time.Hour).Truncate(time.Second)
	match := seedMatch(t, ctx, db, 910000, kickoff)
	firstID := match.ID

	before, err := db.Matches.Count(ctx)
	require.NoError(t, err)

	// Same payload again must touch the same row and create nothing.
	again := *match
	again.ID = 0
	require.NoError(t, db.Matches.Upsert(ctx, db.Pool, &again))
	assert.Equal(t, firstID, again.ID, "Re-upsert should hit the same row")

	after, err := db.Matches.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, before, after, "Re-upsert should not create rows")
}

func TestMatchRepository_ScoreAndStatusUpdate(t *testing.T) {
	db, ctx := setupTestDB(t)
	defer teardownTestDB(t, db)

	kickoff := time.Now().UTC().Add(-2 * time.Hour).Truncate(time.Second)
	match := seedMatch(t, ctx, db, 920000, kickoff)
	require.Equal(t, models.StatusNotStarted, match.Status)

	// The full-time payload arrives for the same fixture.
	final := *match
	final.ID = 0
	final.Status = models.StatusFullTime
	final.HomeGoals = nullInt32(2)
	final.AwayGoals = nullInt32(1)
	final.HalftimeHome = nullInt32(1)
	final.HalftimeAway = nullInt32(0)
	require.NoError(t, db.Matches.Upsert(ctx, db.Pool, &final))
	assert.Equal(t, match.ID, final.ID, "Result payload should update the existing match")

	stored, err := db.Matches.GetByProviderFixtureID(ctx, match.ProviderFixtureID)
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, models.StatusFullTime, stored.Status, "Status should be updated")
	assert.Equal(t, int32(2), stored.HomeGoals.Int32, "Home goals should be updated")
	assert.Equal(t, int32(1), stored.AwayGoals.Int32, "Away goals should be updated")
	assert.True(t, stored.IsFinished(), "Match should read as finished")
}

func TestMatchRepository_ListUpcoming(t *testing.T) {
	db, ctx := setupTestDB(t)
	defer teardownTestDB(t, db)

	inWindow := seedMatch(t, ctx, db, 930000, time.Now().UTC().Add(12*time.Hour))
	outOfWindow := seedMatch(t, ctx, db, 931000, time.Now().UTC().Add(10*24*time.Hour))

	refs, err := db.Matches.ListUpcoming(ctx, 7*24*time.Hour)
	require.NoError(t, err)

	ids := make(map[int64]bool, len(refs))
	for _, ref := range refs {
		ids[ref.ProviderFixtureID] = true
	}
	assert.True(t, ids[inWindow.ProviderFixtureID], "Match inside the window should be listed")
	assert.False(t, ids[outOfWindow.ProviderFixtureID], "Match outside the window should not be listed")
}

func TestMatchRepository_DeleteOlderThan(t *testing.T) {
	db, ctx := setupTestDB(t)
	defer teardownTestDB(t, db)

	retention := 7 * 24 * time.Hour
	old := seedMatch(t, ctx, db, 940000, time.Now().UTC().Add(-retention-24*time.Hour))
	recent := seedMatch(t, ctx, db, 941000, time.Now().UTC().Add(-retention+24*time.Hour))

	// Give the old match a child row so the cascade is exercised.
	bm := &models.Bookmaker{ProviderID: 940001, Name: "Bet365", Slug: "bet365"}
	require.NoError(t, db.Odds.UpsertBookmaker(ctx, db.Pool, bm))
	snap := &models.OddsSnapshot{
		MatchID:     old.ID,
		BookmakerID: bm.ID,
		CapturedAt:  time.Now().UTC(),
		Source:      models.SourceAPIFootball,
	}
	require.NoError(t, db.Odds.CreateSnapshot(ctx, db.Pool, snap))

	deleted, err := db.Matches.DeleteOlderThan(ctx, db.Pool, time.Now().UTC().Add(-retention))
	require.NoError(t, err)
	assert.GreaterOrEqual(t, deleted, int64(1), "Should delete the expired match")

	gone, err := db.Matches.GetByProviderFixtureID(ctx, old.ProviderFixtureID)
	require.NoError(t, err)
	assert.Nil(t, gone, "Expired match should be gone")

	kept, err := db.Matches.GetByProviderFixtureID(ctx, recent.ProviderFixtureID)
	require.NoError(t, err)
	assert.NotNil(t, kept, "Match inside retention should survive")

	snaps, err := db.Odds.ListSnapshots(ctx, old.ID, bm.ID)
	require.NoError(t, err)
	assert.Empty(t, snaps, "Child snapshots should cascade with the match")
}

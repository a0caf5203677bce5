package repository

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/HitendraKakadiya/oddins-odds-master-sub000/internal/models"
)

func TestPlayerRepository_MinimalThenFull(t *testing.T) {
	db, ctx := setupTestDB(t)
	defer teardownTestDB(t, db)

	// A lineup references the player before any squad sync ran.
	id, err := db.Players.EnsureMinimal(ctx, db.Pool, 990001, "B. Saka")
	require.NoError(t, err)
	require.NotZero(t, id)

	// The squad sync later fills in the details.
	player := &models.Player{
		ProviderID:  990001,
		Name:        "Bukayo Saka",
		Position:    NullString("Attacker"),
		Nationality: NullString("England"),
		HeightCm:    NullInt32(178),
	}
	require.NoError(t, db.Players.Upsert(ctx, db.Pool, player))
	assert.Equal(t, id, player.ID, "Lazy row and full row should be the same player")

	// A later event with an empty name must not degrade the record.
	again, err := db.Players.EnsureMinimal(ctx, db.Pool, 990001, "")
	require.NoError(t, err)
	assert.Equal(t, id, again)

	got, err := db.Pool.Query(ctx, `SELECT name, position FROM players WHERE provider_id = $1`, int64(990001))
	require.NoError(t, err)
	defer got.Close()
	require.True(t, got.Next())
	var name string
	var position *string
	require.NoError(t, got.Scan(&name, &position))
	assert.Equal(t, "Bukayo Saka", name, "Empty names must not overwrite known ones")
	require.NotNil(t, position)
	assert.Equal(t, "Attacker", *position, "Details should survive minimal ensures")
}

func TestPlayerRepository_EventsReplaceWholesale(t *testing.T) {
	db, ctx := setupTestDB(t)
	defer teardownTestDB(t, db)

	match := seedMatch(t, ctx, db, 991000, time.Now().UTC().Add(-3*time.Hour))

	playerID, err := db.Players.EnsureMinimal(ctx, db.Pool, 991500, "Scorer")
	require.NoError(t, err)

	insert := func(minute int) {
		event := &models.MatchEvent{
			MatchID:        match.ID,
			TeamID:         match.HomeTeamID,
			PlayerID:       NullInt64(playerID),
			ElapsedMinutes: minute,
			Type:           "Goal",
			Detail:         NullString("Normal Goal"),
		}
		require.NoError(t, db.Players.InsertEvent(ctx, db.Pool, event))
	}

	insert(23)
	insert(67)

	count, err := db.Players.CountEvents(ctx, match.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	// A re-sync clears the timeline first so nothing duplicates.
	require.NoError(t, db.Players.DeleteEventsForMatch(ctx, db.Pool, match.ID))
	insert(23)

	count, err = db.Players.CountEvents(ctx, match.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, count, "Replaced timeline should hold only the fresh events")
}

func TestPlayerRepository_LineupUpsert(t *testing.T) {
	db, ctx := setupTestDB(t)
	defer teardownTestDB(t, db)

	match := seedMatch(t, ctx, db, 992000, time.Now().UTC().Add(2*time.Hour))

	playerID, err := db.Players.EnsureMinimal(ctx, db.Pool, 992500, "Keeper")
	require.NoError(t, err)

	lineup := &models.MatchLineup{
		MatchID:      match.ID,
		TeamID:       match.HomeTeamID,
		PlayerID:     playerID,
		Position:     NullString("G"),
		GridPosition: NullString("1:1"),
		IsStarter:    true,
		JerseyNumber: NullInt32(1),
	}
	require.NoError(t, db.Players.UpsertLineup(ctx, db.Pool, lineup))
	firstID := lineup.ID

	// The confirmed lineup demotes the player to the bench.
	lineup.IsStarter = false
	lineup.GridPosition = NullString("")
	require.NoError(t, db.Players.UpsertLineup(ctx, db.Pool, lineup))
	assert.Equal(t, firstID, lineup.ID, "Same slot should update in place")
}

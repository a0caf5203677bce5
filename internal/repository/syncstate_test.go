package repository

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/HitendraKakadiya/oddins-odds-master-sub000/internal/models"
)

func TestSyncStateRepository_SuccessClearsError(t *testing.T) {
	db, ctx := setupTestDB(t)
	defer teardownTestDB(t, db)

	sourceID, err := db.Sources.Ensure(ctx, db.Pool, models.SourceAPIFootball, "https://v3.football.api-sports.io")
	require.NoError(t, err)

	entity := "test_success_clears_error"

	require.NoError(t, db.SyncState.RecordError(ctx, sourceID, entity, "provider unavailable after 5 attempts"))

	state, err := db.SyncState.Get(ctx, sourceID, entity)
	require.NoError(t, err)
	require.NotNil(t, state)
	assert.True(t, state.LastError.Valid, "Error should be recorded")
	assert.False(t, state.LastSyncedAt.Valid, "No success yet")

	stats := models.SyncStats{Fetched: 10, Processed: 9, Skipped: 1, Duration: time.Second}
	require.NoError(t, db.SyncState.RecordSuccess(ctx, db.Pool, sourceID, entity, stats))

	state, err = db.SyncState.Get(ctx, sourceID, entity)
	require.NoError(t, err)
	require.NotNil(t, state)
	assert.False(t, state.LastError.Valid, "Success should clear the error")
	assert.False(t, state.LastErrorAt.Valid, "Success should clear the error timestamp")
	assert.True(t, state.LastSyncedAt.Valid, "Success timestamp should be set")
	assert.Contains(t, string(state.Stats), `"processed":9`, "Stats blob should be stored")
}

func TestSyncStateRepository_ErrorIsTruncated(t *testing.T) {
	db, ctx := setupTestDB(t)
	defer teardownTestDB(t, db)

	sourceID, err := db.Sources.Ensure(ctx, db.Pool, models.SourceAPIFootball, "https://v3.football.api-sports.io")
	require.NoError(t, err)

	entity := "test_error_truncation"
	long := strings.Repeat("x", 5000)
	require.NoError(t, db.SyncState.RecordError(ctx, sourceID, entity, long))

	state, err := db.SyncState.Get(ctx, sourceID, entity)
	require.NoError(t, err)
	require.NotNil(t, state)
	assert.LessOrEqual(t, len(state.LastError.String), maxErrorLength, "Stored error should be truncated")
}

func TestSyncStateRepository_GetMissing(t *testing.T) {
	db, ctx := setupTestDB(t)
	defer teardownTestDB(t, db)

	sourceID, err := db.Sources.Ensure(ctx, db.Pool, models.SourceAPIFootball, "https://v3.football.api-sports.io")
	require.NoError(t, err)

	state, err := db.SyncState.Get(ctx, sourceID, "never_synced")
	require.NoError(t, err)
	assert.Nil(t, state, "Missing state should be nil without error")
}

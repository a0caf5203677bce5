package repository

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/HitendraKakadiya/oddins-odds-master-sub000/internal/models"
)

func TestOddsRepository_SnapshotsAppend(t *testing.T) {
	db, ctx := setupTestDB(t)
	defer teardownTestDB(t, db)

	match := seedMatch(t, ctx, db, 950000, time.Now().UTC().Add(24*time.Hour))

	bm := &models.Bookmaker{ProviderID: 950001, Name: "Pinnacle", Slug: "pinnacle"}
	require.NoError(t, db.Odds.UpsertBookmaker(ctx, db.Pool, bm))

	market := &models.Market{ProviderID: 950002, Name: "Match Winner", Key: models.MarketMatchWinner}
	require.NoError(t, db.Odds.UpsertMarket(ctx, db.Pool, market))

	capture := func(home, draw, away string, at time.Time) *models.OddsSnapshot {
		snap := &models.OddsSnapshot{
			MatchID:     match.ID,
			BookmakerID: bm.ID,
			CapturedAt:  at,
			Source:      models.SourceAPIFootball,
		}
		require.NoError(t, db.Odds.CreateSnapshot(ctx, db.Pool, snap))

		for selection, odd := range map[string]string{"home": home, "draw": draw, "away": away} {
			line := models.NewSnapshotLine(market.ID, decimal.NullDecimal{}, selection, decimal.RequireFromString(odd))
			line.SnapshotID = snap.ID
			require.NoError(t, db.Odds.CreateSnapshotLine(ctx, db.Pool, &line))
		}
		return snap
	}

	first := capture("2.10", "3.40", "3.60", time.Now().UTC().Add(-time.Hour))
	second := capture("1.95", "3.50", "3.90", time.Now().UTC())

	snaps, err := db.Odds.ListSnapshots(ctx, match.ID, bm.ID)
	require.NoError(t, err)
	require.Len(t, snaps, 2, "Each capture run should append its own snapshot")
	assert.Equal(t, first.ID, snaps[0].ID, "Snapshots should come back in capture order")
	assert.Equal(t, second.ID, snaps[1].ID)

	for _, snap := range snaps {
		count, err := db.Odds.CountLines(ctx, snap.ID)
		require.NoError(t, err)
		assert.Equal(t, 3, count, "Both snapshots should keep their own lines")
	}
}

func TestOddsRepository_LineImpliedProbability(t *testing.T) {
	line := models.NewSnapshotLine(1, decimal.NullDecimal{}, "home", decimal.RequireFromString("2.00"))
	assert.True(t, line.ImpliedProbability.Equal(decimal.RequireFromString("0.5")),
		"Implied probability should be 1/odd")

	overLine := models.NewSnapshotLine(1, models.ParseLine("Over 2.5"), "over", decimal.RequireFromString("1.85"))
	require.True(t, overLine.Line.Valid, "Line should be parsed from the label")
	assert.True(t, overLine.Line.Decimal.Equal(decimal.RequireFromString("2.5")))
}

func TestOddsRepository_UpsertBookmakerIsStable(t *testing.T) {
	db, ctx := setupTestDB(t)
	defer teardownTestDB(t, db)

	bm := &models.Bookmaker{ProviderID: 951000, Name: "Unibet", Slug: "unibet"}
	require.NoError(t, db.Odds.UpsertBookmaker(ctx, db.Pool, bm))
	firstID := bm.ID

	renamed := &models.Bookmaker{ProviderID: 951000, Name: "Unibet UK", Slug: "unibet-uk"}
	require.NoError(t, db.Odds.UpsertBookmaker(ctx, db.Pool, renamed))
	assert.Equal(t, firstID, renamed.ID, "Provider id should be the identity")
	assert.Equal(t, "Unibet UK", renamed.Name)
}

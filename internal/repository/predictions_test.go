package repository

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/HitendraKakadiya/oddins-odds-master-sub000/internal/models"
)

func TestPredictionRepository_ReplaceSupersedes(t *testing.T) {
	db, ctx := setupTestDB(t)
	defer teardownTestDB(t, db)

	match := seedMatch(t, ctx, db, 960000, time.Now().UTC().Add(24*time.Hour))

	model := &models.PredictionModel{
		Name:     "api-football",
		Version:  "v3",
		Source:   models.SourceAPIFootball,
		IsActive: true,
	}
	require.NoError(t, db.Predictions.UpsertModel(ctx, db.Pool, model))

	market := &models.Market{ProviderID: 960001, Name: "Match Winner", Key: models.MarketMatchWinner}
	require.NoError(t, db.Odds.UpsertMarket(ctx, db.Pool, market))

	store := func(probability string) {
		pred := &models.MatchPrediction{
			MatchID:     match.ID,
			ModelID:     model.ID,
			MarketID:    market.ID,
			Selection:   models.SelectionHome,
			Payload:     []byte(`{"advice":"Home"}`),
			Probability: models.NullDecimalFrom(decimal.RequireFromString(probability)),
		}
		require.NoError(t, db.Predictions.Replace(ctx, db.Pool, pred))
	}

	store("0.45")
	store("0.52")

	preds, err := db.Predictions.ListForMatch(ctx, match.ID)
	require.NoError(t, err)
	require.Len(t, preds, 1, "A newer prediction should replace, not accumulate")
	assert.True(t, preds[0].Probability.Decimal.Equal(decimal.RequireFromString("0.52")),
		"The surviving row should carry the newer value")
}

func TestPredictionRepository_ModelUpsertIsStable(t *testing.T) {
	db, ctx := setupTestDB(t)
	defer teardownTestDB(t, db)

	model := &models.PredictionModel{
		Name:     "api-football",
		Version:  "v3",
		Source:   models.SourceAPIFootball,
		IsActive: true,
	}
	require.NoError(t, db.Predictions.UpsertModel(ctx, db.Pool, model))
	firstID := model.ID

	again := &models.PredictionModel{
		Name:     "api-football",
		Version:  "v3",
		Source:   models.SourceAPIFootball,
		IsActive: true,
	}
	require.NoError(t, db.Predictions.UpsertModel(ctx, db.Pool, again))
	assert.Equal(t, firstID, again.ID, "(name, version, source) should be the identity")
}

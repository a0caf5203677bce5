package jobs

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"github.com/HitendraKakadiya/oddins-odds-master-sub000/internal/client"
	"github.com/HitendraKakadiya/oddins-odds-master-sub000/internal/models"
	"github.com/HitendraKakadiya/oddins-odds-master-sub000/internal/reconcile"
)

// Provider market ids for the markets predictions map onto.
const (
	providerMarketMatchWinner = 1
	providerMarketOverUnder   = 5

	predictionModelName    = "api-football"
	predictionModelVersion = "v3"
)

// SyncPredictions refreshes the provider's prediction for every upcoming
// match. A newer prediction replaces the previous one per selection
// instead of accumulating rows.
func (r *Runner) SyncPredictions(ctx context.Context) error {
	return r.runInTx(ctx, JobPredictions, func(ctx context.Context, run *reconcile.Run) (models.SyncStats, error) {
		matches, err := r.db.Matches.ListUpcoming(ctx, r.upcomingWindow())
		if err != nil {
			return models.SyncStats{}, err
		}
		if len(matches) == 0 {
			log.Info().Msg("No upcoming matches, nothing to predict")
			return models.SyncStats{}, nil
		}

		model := &models.PredictionModel{
			Name:     predictionModelName,
			Version:  predictionModelVersion,
			Source:   models.SourceAPIFootball,
			IsActive: true,
		}
		if err := r.db.Predictions.UpsertModel(ctx, run.Querier(), model); err != nil {
			return models.SyncStats{}, err
		}

		var stats models.SyncStats
		for i, match := range matches {
			if i > 0 {
				if err := r.pause(ctx); err != nil {
					return stats, err
				}
			}

			entries, err := r.client.Predictions(ctx, match.ProviderFixtureID)
			if err != nil {
				return stats, err
			}
			stats.Fetched += len(entries)

			for _, entry := range entries {
				entry := entry
				match := match
				err := run.Item(ctx, fmt.Sprintf("prediction fixture %d", match.ProviderFixtureID), func(ctx context.Context) error {
					return r.storePrediction(ctx, run, match.ID, model.ID, entry)
				})
				if err != nil {
					return stats, err
				}
			}
		}
		return stats, nil
	})
}

func (r *Runner) storePrediction(ctx context.Context, run *reconcile.Run, matchID, modelID int64, entry client.PredictionEntry) error {
	payload, err := json.Marshal(entry.Predictions)
	if err != nil {
		return fmt.Errorf("failed to encode prediction payload: %w", err)
	}

	winnerMarketID, err := run.EnsureMarket(ctx, providerMarketMatchWinner, "Match Winner")
	if err != nil {
		return fmt.Errorf("market: %w", err)
	}

	percents := map[string]string{
		models.SelectionHome: entry.Predictions.Percent.Home,
		models.SelectionDraw: entry.Predictions.Percent.Draw,
		models.SelectionAway: entry.Predictions.Percent.Away,
	}
	for _, selection := range []string{models.SelectionHome, models.SelectionDraw, models.SelectionAway} {
		pred := &models.MatchPrediction{
			MatchID:     matchID,
			ModelID:     modelID,
			MarketID:    winnerMarketID,
			Selection:   selection,
			Payload:     payload,
			Probability: parsePercent(percents[selection]),
		}
		if err := r.db.Predictions.Replace(ctx, run.Querier(), pred); err != nil {
			return err
		}
	}

	// The under/over hint, when present, maps onto the totals market:
	// "-3.5" advises under 3.5 goals, "+2.5" advises over 2.5.
	if uo := strings.TrimSpace(entry.Predictions.UnderOver); uo != "" {
		selection := models.SelectionOver
		if strings.HasPrefix(uo, "-") {
			selection = models.SelectionUnder
		}
		line, err := decimal.NewFromString(strings.TrimLeft(uo, "+-"))
		if err != nil {
			return fmt.Errorf("unparseable under/over hint %q: %w", uo, err)
		}

		totalsMarketID, err := run.EnsureMarket(ctx, providerMarketOverUnder, "Goals Over/Under")
		if err != nil {
			return fmt.Errorf("totals market: %w", err)
		}

		pred := &models.MatchPrediction{
			MatchID:   matchID,
			ModelID:   modelID,
			MarketID:  totalsMarketID,
			Line:      models.NullDecimalFrom(line),
			Selection: selection,
			Payload:   payload,
		}
		if err := r.db.Predictions.Replace(ctx, run.Querier(), pred); err != nil {
			return err
		}
	}
	return nil
}

// parsePercent turns the provider's "45%" into a 0..1 probability.
func parsePercent(s string) decimal.NullDecimal {
	s = strings.TrimSuffix(strings.TrimSpace(s), "%")
	if s == "" {
		return decimal.NullDecimal{}
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.NullDecimal{}
	}
	return models.NullDecimalFrom(d.DivRound(decimal.NewFromInt(100), 6))
}

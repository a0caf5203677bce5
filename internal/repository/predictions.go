package repository

import (
	"context"
	"fmt"

	"github.com/HitendraKakadiya/oddins-odds-master-sub000/internal/models"
)

// PredictionRepository handles prediction models and match predictions
type PredictionRepository struct {
	db *Database
}

// UpsertModel inserts or updates a prediction model keyed by
// (name, version, source).
func (r *PredictionRepository) UpsertModel(ctx context.Context, q Querier, model *models.PredictionModel) error {
	query := `
		INSERT INTO prediction_models (name, version, source, is_active)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (name, version, source) DO UPDATE SET
			is_active = EXCLUDED.is_active,
			updated_at = NOW()
		RETURNING id, created_at, updated_at
	`

	err := q.QueryRow(ctx, query, model.Name, model.Version, model.Source, model.IsActive).
		Scan(&model.ID, &model.CreatedAt, &model.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to upsert prediction model: %w", err)
	}
	return nil
}

// Replace removes any previous prediction for the same
// (match, model, market, selection) and inserts the new one. The unique
// constraint cannot cover the nullable line column, so a plain upsert
// would accumulate rows instead of superseding them.
func (r *PredictionRepository) Replace(ctx context.Context, q Querier, pred *models.MatchPrediction) error {
	deleteQuery := `
		DELETE FROM match_predictions
		WHERE match_id = $1 AND model_id = $2 AND market_id = $3 AND selection = $4
	`
	if _, err := q.Exec(ctx, deleteQuery,
		pred.MatchID, pred.ModelID, pred.MarketID, pred.Selection,
	); err != nil {
		return fmt.Errorf("failed to delete superseded prediction: %w", err)
	}

	insertQuery := `
		INSERT INTO match_predictions (
			match_id, model_id, market_id, line, selection, payload, probability, confidence
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at
	`
	err := q.QueryRow(ctx, insertQuery,
		pred.MatchID, pred.ModelID, pred.MarketID, pred.Line,
		pred.Selection, pred.Payload, pred.Probability, pred.Confidence,
	).Scan(&pred.ID, &pred.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert prediction: %w", err)
	}
	return nil
}

// ListForMatch returns all predictions stored for one match.
func (r *PredictionRepository) ListForMatch(ctx context.Context, matchID int64) ([]*models.MatchPrediction, error) {
	query := `
		SELECT id, match_id, model_id, market_id, line, selection, payload,
		       probability, confidence, created_at
		FROM match_predictions
		WHERE match_id = $1
		ORDER BY model_id, market_id, selection
	`

	rows, err := r.db.Pool.Query(ctx, query, matchID)
	if err != nil {
		return nil, fmt.Errorf("failed to list predictions: %w", err)
	}
	defer rows.Close()

	var preds []*models.MatchPrediction
	for rows.Next() {
		var pred models.MatchPrediction
		err := rows.Scan(
			&pred.ID, &pred.MatchID, &pred.ModelID, &pred.MarketID,
			&pred.Line, &pred.Selection, &pred.Payload,
			&pred.Probability, &pred.Confidence, &pred.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan prediction: %w", err)
		}
		preds = append(preds, &pred)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating predictions: %w", err)
	}
	return preds, nil
}

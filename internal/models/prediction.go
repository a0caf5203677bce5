package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// PredictionModel identifies the origin of a set of predictions.
// (name, version, source) is unique.
type PredictionModel struct {
	ID        int64     `db:"id"`
	Name      string    `db:"name"`
	Version   string    `db:"version"`
	Source    string    `db:"source"`
	IsActive  bool      `db:"is_active"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

// MatchPrediction stores one prediction verbatim as returned by the
// provider. A newer prediction for the same (match, model, market,
// selection) replaces the old one rather than accumulating.
type MatchPrediction struct {
	ID          int64               `db:"id"`
	MatchID     int64               `db:"match_id"`
	ModelID     int64               `db:"model_id"`
	MarketID    int64               `db:"market_id"`
	Line        decimal.NullDecimal `db:"line"`
	Selection   string              `db:"selection"`
	Payload     []byte              `db:"payload"`
	Probability decimal.NullDecimal `db:"probability"`
	Confidence  decimal.NullDecimal `db:"confidence"`
	CreatedAt   time.Time           `db:"created_at"`
}

// Prediction selections for the match-winner market.
const (
	SelectionHome  = "home"
	SelectionDraw  = "draw"
	SelectionAway  = "away"
	SelectionOver  = "over"
	SelectionUnder = "under"
)

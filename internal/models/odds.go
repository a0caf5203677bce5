package models

import (
	"database/sql"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Bookmaker is a sportsbook as assigned by the provider.
type Bookmaker struct {
	ID         int64     `db:"id"`
	ProviderID int64     `db:"provider_id"`
	Name       string    `db:"name"`
	Slug       string    `db:"slug"`
	CreatedAt  time.Time `db:"created_at"`
	UpdatedAt  time.Time `db:"updated_at"`
}

// Market is a bet type (match winner, over/under goals, ...). Key is a
// stable short code derived from the provider's market name.
type Market struct {
	ID           int64     `db:"id"`
	ProviderID   int64     `db:"provider_id"`
	Name         string    `db:"name"`
	Key          string    `db:"key"`
	IsLineMarket bool      `db:"is_line_market"`
	CreatedAt    time.Time `db:"created_at"`
	UpdatedAt    time.Time `db:"updated_at"`
}

// OddsSnapshot is an immutable capture of one bookmaker's odds for one match.
// Each odds sync appends a new snapshot; old snapshots are never mutated.
// CapturedAt is when the sync observed the prices; ProviderUpdatedAt is the
// bookmaker's own repricing time and may repeat across snapshots.
type OddsSnapshot struct {
	ID                int64        `db:"id"`
	MatchID           int64        `db:"match_id"`
	BookmakerID       int64        `db:"bookmaker_id"`
	CapturedAt        time.Time    `db:"captured_at"`
	ProviderUpdatedAt sql.NullTime `db:"provider_updated_at"`
	Source            string       `db:"source"`
	IsLive            bool         `db:"is_live"`
	CreatedAt         time.Time    `db:"created_at"`
}

// OddsSnapshotLine is one priced selection within a snapshot.
type OddsSnapshotLine struct {
	ID                 int64               `db:"id"`
	SnapshotID         int64               `db:"snapshot_id"`
	MarketID           int64               `db:"market_id"`
	Line               decimal.NullDecimal `db:"line"`
	Selection          string              `db:"selection"`
	OddValue           decimal.Decimal     `db:"odd_value"`
	ImpliedProbability decimal.Decimal     `db:"implied_probability"`
}

// NewSnapshotLine builds a line, computing the implied probability as 1/odd.
func NewSnapshotLine(marketID int64, line decimal.NullDecimal, selection string, odd decimal.Decimal) OddsSnapshotLine {
	implied := decimal.Zero
	if odd.IsPositive() {
		implied = decimal.NewFromInt(1).DivRound(odd, 6)
	}
	return OddsSnapshotLine{
		MarketID:           marketID,
		Line:               line,
		Selection:          selection,
		OddValue:           odd,
		ImpliedProbability: implied,
	}
}

// Stable market keys. Anything unrecognized falls back to the slugged name.
const (
	MarketMatchWinner    = "match_winner"
	MarketOverUnderGoals = "over_under_goals"
	MarketBothTeamsScore = "both_teams_score"
	MarketDoubleChance   = "double_chance"
	MarketAsianHandicap  = "asian_handicap"
	MarketDrawNoBet      = "draw_no_bet"
	MarketExactScore     = "exact_score"
	MarketHTFT           = "ht_ft"
)

// MarketKeyFor normalizes a provider market name into a stable key.
func MarketKeyFor(name string) string {
	switch lower := strings.ToLower(name); {
	case strings.Contains(lower, "match winner"), lower == "1x2", strings.Contains(lower, "fulltime result"):
		return MarketMatchWinner
	case strings.Contains(lower, "over/under"), strings.Contains(lower, "goals over"):
		return MarketOverUnderGoals
	case strings.Contains(lower, "both teams score"), strings.Contains(lower, "both teams to score"):
		return MarketBothTeamsScore
	case strings.Contains(lower, "double chance"):
		return MarketDoubleChance
	case strings.Contains(lower, "asian handicap"):
		return MarketAsianHandicap
	case strings.Contains(lower, "draw no bet"):
		return MarketDrawNoBet
	case strings.Contains(lower, "exact score"), strings.Contains(lower, "correct score"):
		return MarketExactScore
	case strings.Contains(lower, "ht/ft"), strings.Contains(lower, "halftime/fulltime"):
		return MarketHTFT
	default:
		return Slugify(name)
	}
}

// IsLineMarketName reports whether a market carries a numeric line
// (totals and handicaps) rather than plain selections.
func IsLineMarketName(name string) bool {
	lower := strings.ToLower(name)
	return strings.Contains(lower, "over/under") ||
		strings.Contains(lower, "handicap") ||
		strings.Contains(lower, "total")
}

// Stable null decimal helpers used by the reconciler and tests.
func NullDecimalFrom(d decimal.Decimal) decimal.NullDecimal {
	return decimal.NullDecimal{Decimal: d, Valid: true}
}

// ParseLine extracts a numeric line from a selection label such as
// "Over 2.5". It returns an invalid NullDecimal when no line is present.
func ParseLine(value string) decimal.NullDecimal {
	fields := strings.Fields(value)
	for _, f := range fields {
		if d, err := decimal.NewFromString(f); err == nil {
			return decimal.NullDecimal{Decimal: d, Valid: true}
		}
	}
	return decimal.NullDecimal{}
}

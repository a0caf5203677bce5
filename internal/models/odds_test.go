package models

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestMarketKeyFor(t *testing.T) {
	cases := map[string]string{
		"Match Winner":            MarketMatchWinner,
		"Goals Over/Under":        MarketOverUnderGoals,
		"Both Teams Score":        MarketBothTeamsScore,
		"Double Chance":           MarketDoubleChance,
		"Asian Handicap":          MarketAsianHandicap,
		"Draw No Bet":             MarketDrawNoBet,
		"Exact Score":             MarketExactScore,
		"HT/FT Double":            MarketHTFT,
		"Odd/Even First Half":     "odd-even-first-half",
	}
	for name, want := range cases {
		assert.Equal(t, want, MarketKeyFor(name), "key for %q", name)
	}
}

func TestIsLineMarketName(t *testing.T) {
	assert.True(t, IsLineMarketName("Goals Over/Under"))
	assert.True(t, IsLineMarketName("Asian Handicap"))
	assert.False(t, IsLineMarketName("Match Winner"))
}

func TestParseLine(t *testing.T) {
	line := ParseLine("Over 2.5")
	assert.True(t, line.Valid)
	assert.True(t, line.Decimal.Equal(decimal.RequireFromString("2.5")))

	line = ParseLine("Under 0.5")
	assert.True(t, line.Valid)
	assert.True(t, line.Decimal.Equal(decimal.RequireFromString("0.5")))

	assert.False(t, ParseLine("Home").Valid, "Labels without a number carry no line")
}

func TestNewSnapshotLine(t *testing.T) {
	line := NewSnapshotLine(7, decimal.NullDecimal{}, "home", decimal.RequireFromString("4.00"))
	assert.Equal(t, int64(7), line.MarketID)
	assert.True(t, line.ImpliedProbability.Equal(decimal.RequireFromString("0.25")))

	zero := NewSnapshotLine(7, decimal.NullDecimal{}, "home", decimal.Zero)
	assert.True(t, zero.ImpliedProbability.IsZero(), "Zero odd must not divide by zero")
}

func TestSlugify(t *testing.T) {
	assert.Equal(t, "premier-league", Slugify("Premier League"))
	assert.Equal(t, "marseille", Slugify("  Marseille  "))
	assert.Equal(t, "1-fc-koln", Slugify("1. FC Koln"))
}

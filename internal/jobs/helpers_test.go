package jobs

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestParsePercent(t *testing.T) {
	p := parsePercent("45%")
	assert.True(t, p.Valid)
	assert.True(t, p.Decimal.Equal(decimal.RequireFromString("0.45")))

	p = parsePercent(" 100% ")
	assert.True(t, p.Valid)
	assert.True(t, p.Decimal.Equal(decimal.NewFromInt(1)))

	assert.False(t, parsePercent("").Valid, "Empty input has no probability")
	assert.False(t, parsePercent("n/a").Valid, "Garbage input has no probability")
}

func TestSplitSelection(t *testing.T) {
	sel, line := splitSelection("Home", false)
	assert.Equal(t, "home", sel)
	assert.False(t, line.Valid, "Plain markets carry no line")

	sel, line = splitSelection("Over 2.5", true)
	assert.Equal(t, "over", sel)
	assert.True(t, line.Valid)
	assert.True(t, line.Decimal.Equal(decimal.RequireFromString("2.5")))

	sel, line = splitSelection("Under 0.5", true)
	assert.Equal(t, "under", sel)
	assert.True(t, line.Decimal.Equal(decimal.RequireFromString("0.5")))
}

func TestParseMeasure(t *testing.T) {
	h := parseMeasure("180 cm")
	assert.True(t, h.Valid)
	assert.Equal(t, int32(180), h.Int32)

	assert.False(t, parseMeasure("").Valid)
	assert.False(t, parseMeasure("unknown").Valid)
}

func TestParseDate(t *testing.T) {
	d := parseDate("1998-12-20")
	assert.True(t, d.Valid)
	assert.Equal(t, 1998, d.Time.Year())

	assert.False(t, parseDate("").Valid)
	assert.False(t, parseDate("soon").Valid)
}

package models

import (
	"database/sql"
	"regexp"
	"strings"
	"time"
)

// League represents a competition (league or cup) as assigned by the provider.
type League struct {
	ID         int64          `db:"id"`
	ProviderID int64          `db:"provider_id"`
	CountryID  int64          `db:"country_id"`
	Name       string         `db:"name"`
	Type       sql.NullString `db:"type"`
	LogoURL    sql.NullString `db:"logo_url"`
	Slug       string         `db:"slug"`
	CreatedAt  time.Time      `db:"created_at"`
	UpdatedAt  time.Time      `db:"updated_at"`
}

// Season is one year of a league. (league_id, year) is unique.
type Season struct {
	ID        int64        `db:"id"`
	LeagueID  int64        `db:"league_id"`
	Year      int          `db:"year"`
	StartDate sql.NullTime `db:"start_date"`
	EndDate   sql.NullTime `db:"end_date"`
	IsCurrent bool         `db:"is_current"`
	CreatedAt time.Time    `db:"created_at"`
	UpdatedAt time.Time    `db:"updated_at"`
}

// SeasonCoverage records which sub-resources the provider exposes for a
// season. One row per season.
type SeasonCoverage struct {
	ID          int64     `db:"id"`
	SeasonID    int64     `db:"season_id"`
	Events      bool      `db:"events"`
	Lineups     bool      `db:"lineups"`
	Statistics  bool      `db:"statistics"`
	Standings   bool      `db:"standings"`
	Injuries    bool      `db:"injuries"`
	Predictions bool      `db:"predictions"`
	Odds        bool      `db:"odds"`
	CreatedAt   time.Time `db:"created_at"`
	UpdatedAt   time.Time `db:"updated_at"`
}

var slugCleaner = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify derives a deterministic URL-safe slug from a name.
func Slugify(name string) string {
	slug := strings.ToLower(name)
	slug = slugCleaner.ReplaceAllString(slug, "-")
	return strings.Trim(slug, "-")
}

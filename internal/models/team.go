package models

import (
	"database/sql"
	"time"
)

// Team is shared reference data, keyed by the provider-assigned team id.
// Teams are written by the teams job, the fixtures jobs and the lineup/event
// jobs, so writes must stay order-independent upserts.
type Team struct {
	ID         int64          `db:"id"`
	ProviderID int64          `db:"provider_id"`
	CountryID  sql.NullInt64  `db:"country_id"`
	VenueID    sql.NullInt64  `db:"venue_id"`
	Name       string         `db:"name"`
	ShortName  sql.NullString `db:"short_name"`
	LogoURL    sql.NullString `db:"logo_url"`
	Slug       string         `db:"slug"`
	CreatedAt  time.Time      `db:"created_at"`
	UpdatedAt  time.Time      `db:"updated_at"`
}

// Venue is a stadium, keyed by the provider-assigned venue id.
type Venue struct {
	ID         int64          `db:"id"`
	ProviderID int64          `db:"provider_id"`
	Name       string         `db:"name"`
	City       sql.NullString `db:"city"`
	Capacity   sql.NullInt32  `db:"capacity"`
	Surface    sql.NullString `db:"surface"`
	CreatedAt  time.Time      `db:"created_at"`
	UpdatedAt  time.Time      `db:"updated_at"`
}

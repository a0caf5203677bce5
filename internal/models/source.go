package models

import "time"

// ProviderSource identifies one upstream data provider. One row per
// provider, keyed by the unique name.
type ProviderSource struct {
	ID        int64     `db:"id"`
	Name      string    `db:"name"`
	BaseURL   string    `db:"base_url"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

// SourceAPIFootball is the canonical name of the API-Football provider row.
const SourceAPIFootball = "api-football"

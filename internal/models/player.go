package models

import (
	"database/sql"
	"time"
)

// Player is keyed by the provider-assigned player id. Lineup and event
// payloads may reference players before a dedicated player sync runs, so
// rows can be created lazily with only id and name filled in.
type Player struct {
	ID          int64          `db:"id"`
	ProviderID  int64          `db:"provider_id"`
	Name        string         `db:"name"`
	Position    sql.NullString `db:"position"`
	Nationality sql.NullString `db:"nationality"`
	BirthDate   sql.NullTime   `db:"birth_date"`
	HeightCm    sql.NullInt32  `db:"height_cm"`
	WeightKg    sql.NullInt32  `db:"weight_kg"`
	PhotoURL    sql.NullString `db:"photo_url"`
	CreatedAt   time.Time      `db:"created_at"`
	UpdatedAt   time.Time      `db:"updated_at"`
}

// MatchEvent is one in-match event (goal, card, substitution...). The
// provider assigns no id, so rows have no natural unique key and duplicate
// inserts are tolerated.
type MatchEvent struct {
	ID             int64          `db:"id"`
	MatchID        int64          `db:"match_id"`
	TeamID         int64          `db:"team_id"`
	PlayerID       sql.NullInt64  `db:"player_id"`
	AssistPlayerID sql.NullInt64  `db:"assist_player_id"`
	ElapsedMinutes int            `db:"elapsed_minutes"`
	ExtraMinutes   sql.NullInt32  `db:"extra_minutes"`
	Type           string         `db:"type"`
	Detail         sql.NullString `db:"detail"`
	Comments       sql.NullString `db:"comments"`
	CreatedAt      time.Time      `db:"created_at"`
}

// MatchLineup is one player's slot in a match lineup.
// (match_id, team_id, player_id) is unique.
type MatchLineup struct {
	ID           int64          `db:"id"`
	MatchID      int64          `db:"match_id"`
	TeamID       int64          `db:"team_id"`
	PlayerID     int64          `db:"player_id"`
	Position     sql.NullString `db:"position"`
	GridPosition sql.NullString `db:"grid_position"`
	IsStarter    bool           `db:"is_starter"`
	JerseyNumber sql.NullInt32  `db:"jersey_number"`
	CreatedAt    time.Time      `db:"created_at"`
}

package models

import (
	"database/sql"
	"time"
)

// Match statuses, the provider's short codes.
const (
	StatusNotStarted  = "NS"
	StatusFirstHalf   = "1H"
	StatusHalftime    = "HT"
	StatusSecondHalf  = "2H"
	StatusExtraTime   = "ET"
	StatusPenalties   = "P"
	StatusFullTime    = "FT"
	StatusAfterExtra  = "AET"
	StatusAfterPens   = "PEN"
	StatusPostponed   = "PST"
	StatusCancelled   = "CANC"
	StatusAbandoned   = "ABD"
	StatusSuspended   = "SUSP"
	StatusWalkover    = "WO"
	StatusLive        = "LIVE"
	StatusToBeDefined = "TBD"
)

// Match is one fixture, keyed by the provider fixture id.
type Match struct {
	ID                int64          `db:"id"`
	ProviderFixtureID int64          `db:"provider_fixture_id"`
	SeasonID          int64          `db:"season_id"`
	LeagueID          int64          `db:"league_id"`
	HomeTeamID        int64          `db:"home_team_id"`
	AwayTeamID        int64          `db:"away_team_id"`
	VenueID           sql.NullInt64  `db:"venue_id"`
	KickoffAt         time.Time      `db:"kickoff_at"`
	Timezone          sql.NullString `db:"timezone"`
	Status            string         `db:"status"`
	ElapsedMinutes    sql.NullInt32  `db:"elapsed_minutes"`

	// Scores
	HomeGoals     sql.NullInt32 `db:"home_goals"`
	AwayGoals     sql.NullInt32 `db:"away_goals"`
	HalftimeHome  sql.NullInt32 `db:"halftime_home"`
	HalftimeAway  sql.NullInt32 `db:"halftime_away"`

	LastSyncedAt time.Time `db:"last_synced_at"`
	CreatedAt    time.Time `db:"created_at"`
	UpdatedAt    time.Time `db:"updated_at"`
}

// IsLive returns true while the match is being played.
func (m *Match) IsLive() bool {
	switch m.Status {
	case StatusFirstHalf, StatusHalftime, StatusSecondHalf, StatusExtraTime, StatusPenalties, StatusLive:
		return true
	}
	return false
}

// IsFinished returns true once a final result exists.
func (m *Match) IsFinished() bool {
	switch m.Status {
	case StatusFullTime, StatusAfterExtra, StatusAfterPens:
		return true
	}
	return false
}

// IsScheduled returns true if the match has not started yet.
func (m *Match) IsScheduled() bool {
	return m.Status == StatusNotStarted || m.Status == StatusToBeDefined
}

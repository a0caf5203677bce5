package models

import (
	"database/sql"
	"time"
)

// SyncState is the durable per-(source, entity) record of the last
// successful run and/or the last error. It is the operator's answer to
// "is this entity's data fresh" and "what broke last".
type SyncState struct {
	ID           int64          `db:"id"`
	SourceID     int64          `db:"source_id"`
	Entity       string         `db:"entity"`
	LastSyncedAt sql.NullTime   `db:"last_synced_at"`
	Stats        []byte         `db:"stats"`
	LastErrorAt  sql.NullTime   `db:"last_error_at"`
	LastError    sql.NullString `db:"last_error"`
	UpdatedAt    time.Time      `db:"updated_at"`
}

// SyncStats is the opaque statistics blob stored with a successful run.
type SyncStats struct {
	Fetched   int           `json:"fetched"`
	Processed int           `json:"processed"`
	Skipped   int           `json:"skipped"`
	Duration  time.Duration `json:"duration_ns"`
	Cursor    string        `json:"cursor,omitempty"`
}

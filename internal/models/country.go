package models

import (
	"database/sql"
	"time"
)

// Country is shared reference data written by several jobs. Name is the
// unique key; code and flag may arrive later from a different payload and
// must never be overwritten with NULL once set.
type Country struct {
	ID        int64          `db:"id"`
	Name      string         `db:"name"`
	Code      sql.NullString `db:"code"`
	FlagURL   sql.NullString `db:"flag_url"`
	CreatedAt time.Time      `db:"created_at"`
	UpdatedAt time.Time      `db:"updated_at"`
}

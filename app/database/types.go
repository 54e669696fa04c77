package database

import (
	"time"
)

// Snapshot is one row of the daily_rankings collection. Items is the raw JSON
// array exactly as written by the ranking pipeline.
type Snapshot struct {
	ID        int64
	Date      string // YYYY-MM-DD, UTC
	Category  string // store key, e.g. "beauty-suncare"
	Items     []byte
	UpdatedAt time.Time
}

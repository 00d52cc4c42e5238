package model

import "time"

// Sync operation types recorded in the sync log.
const (
	OpPush    = "outline_push"
	OpPull    = "outline_pull"
	OpRefresh = "arctic_refresh"
)

// Sync outcome statuses.
const (
	StatusSuccess = "success"
	StatusFailed  = "failed"
	StatusSkipped = "skipped"
)

// SyncEntry is one append-only sync log row. Entries are never updated
// or deleted.
type SyncEntry struct {
	ID              int       `db:"id"`
	SyncType        string    `db:"sync_type"`
	TourID          int       `db:"tour_id"`
	Status          string    `db:"status"`
	RecordsAffected int       `db:"records_affected"`
	Details         string    `db:"details"`
	ErrorMessage    string    `db:"error_message"`
	CreatedAt       time.Time `db:"created_at"`
}

package store

import (
	"context"
	"fmt"

	"github.com/rimtours/toursync/internal/model"
)

// AppendSyncLog records one reconciliation attempt. The log is
// append-only: nothing ever updates or deletes rows.
func (s *Store) AppendSyncLog(ctx context.Context, e *model.SyncEntry) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO sync_log (sync_type, tour_id, status, records_affected, details, error_message)
		VALUES ($1, $2, $3, $4, NULLIF($5, ''), NULLIF($6, ''))`,
		e.SyncType, e.TourID, e.Status, e.RecordsAffected, e.Details, e.ErrorMessage)
	if err != nil {
		return fmt.Errorf("appending sync log: %w", err)
	}
	return nil
}

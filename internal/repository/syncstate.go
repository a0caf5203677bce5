package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/HitendraKakadiya/oddins-odds-master-sub000/internal/models"
)

// maxErrorLength bounds the stored error text.
const maxErrorLength = 500

// SyncStateRepository is the durable ledger of job outcomes
type SyncStateRepository struct {
	db *Database
}

// RecordSuccess upserts the (source, entity) row with a fresh
// last_synced_at and the run's statistics, clearing any previous error.
// It takes a Querier because success is written inside the job's
// transaction: if the job rolls back, so does its success record.
func (r *SyncStateRepository) RecordSuccess(ctx context.Context, q Querier, sourceID int64, entity string, stats models.SyncStats) error {
	payload, err := json.Marshal(stats)
	if err != nil {
		return fmt.Errorf("failed to marshal sync stats: %w", err)
	}

	query := `
		INSERT INTO sync_states (source_id, entity, last_synced_at, stats, last_error_at, last_error)
		VALUES ($1, $2, NOW(), $3, NULL, NULL)
		ON CONFLICT (source_id, entity) DO UPDATE SET
			last_synced_at = NOW(),
			stats = EXCLUDED.stats,
			last_error_at = NULL,
			last_error = NULL,
			updated_at = NOW()
	`

	if _, err := q.Exec(ctx, query, sourceID, entity, payload); err != nil {
		return fmt.Errorf("failed to record sync success: %w", err)
	}
	return nil
}

// RecordError upserts the (source, entity) row with the failure, leaving
// last_synced_at untouched. It always writes through the pool in its own
// implicit transaction, so the record survives the job's rollback.
func (r *SyncStateRepository) RecordError(ctx context.Context, sourceID int64, entity, message string) error {
	if len(message) > maxErrorLength {
		message = message[:maxErrorLength]
	}

	query := `
		INSERT INTO sync_states (source_id, entity, last_error_at, last_error)
		VALUES ($1, $2, NOW(), $3)
		ON CONFLICT (source_id, entity) DO UPDATE SET
			last_error_at = NOW(),
			last_error = EXCLUDED.last_error,
			updated_at = NOW()
	`

	if _, err := r.db.Pool.Exec(ctx, query, sourceID, entity, message); err != nil {
		return fmt.Errorf("failed to record sync error: %w", err)
	}
	return nil
}

// Get retrieves the sync state for one (source, entity) pair.
func (r *SyncStateRepository) Get(ctx context.Context, sourceID int64, entity string) (*models.SyncState, error) {
	query := `
		SELECT id, source_id, entity, last_synced_at, stats, last_error_at, last_error, updated_at
		FROM sync_states
		WHERE source_id = $1 AND entity = $2
	`

	var state models.SyncState
	err := r.db.Pool.QueryRow(ctx, query, sourceID, entity).Scan(
		&state.ID, &state.SourceID, &state.Entity, &state.LastSyncedAt,
		&state.Stats, &state.LastErrorAt, &state.LastError, &state.UpdatedAt,
	)
	if err == pgx.ErrNoRows {
		return nil, nil // never synced yet is not an error
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get sync state: %w", err)
	}
	return &state, nil
}

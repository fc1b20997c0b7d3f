package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/escolinha-api/internal/models"
)

// SyncOutboxRepository persists change events awaiting dispatch.
type SyncOutboxRepository struct {
	db *sqlx.DB
}

// NewSyncOutboxRepository constructs a SyncOutboxRepository.
func NewSyncOutboxRepository(db *sqlx.DB) *SyncOutboxRepository {
	return &SyncOutboxRepository{db: db}
}

// Insert appends an event to the outbox.
func (r *SyncOutboxRepository) Insert(ctx context.Context, event *models.SyncEvent) error {
	if event.EventID == "" {
		event.EventID = uuid.NewString()
	}
	if event.CreatedAt.IsZero() {
		event.CreatedAt = time.Now().UTC()
	}
	const query = `INSERT INTO sync_outbox (event_id, entity, entity_id, action, filial_id, payload, created_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7) RETURNING id`
	if err := r.db.QueryRowxContext(ctx, query, event.EventID, event.Entity, event.EntityID, event.Action, event.FilialID, event.Payload, event.CreatedAt).
		Scan(&event.ID); err != nil {
		return fmt.Errorf("insert sync event: %w", err)
	}
	return nil
}

// FetchPending returns unprocessed events below the retry ceiling in insertion order.
func (r *SyncOutboxRepository) FetchPending(ctx context.Context, limit, maxAttempts int) ([]models.SyncEvent, error) {
	const query = `SELECT id, event_id::text AS event_id, entity, entity_id, action, filial_id, payload, attempts, last_error, created_at, processed_at
        FROM sync_outbox WHERE processed_at IS NULL AND attempts < $1 ORDER BY id LIMIT $2`
	var items []models.SyncEvent
	if err := r.db.SelectContext(ctx, &items, query, maxAttempts, limit); err != nil {
		return nil, fmt.Errorf("fetch pending sync events: %w", err)
	}
	return items, nil
}

// MarkProcessed stamps an event as delivered.
func (r *SyncOutboxRepository) MarkProcessed(ctx context.Context, id int64) error {
	if _, err := r.db.ExecContext(ctx, `UPDATE sync_outbox SET processed_at = $2 WHERE id = $1`, id, time.Now().UTC()); err != nil {
		return fmt.Errorf("mark sync event processed: %w", err)
	}
	return nil
}

// MarkFailed records a failed delivery attempt.
func (r *SyncOutboxRepository) MarkFailed(ctx context.Context, id int64, reason string) error {
	if _, err := r.db.ExecContext(ctx, `UPDATE sync_outbox SET attempts = attempts + 1, last_error = $2 WHERE id = $1`, id, reason); err != nil {
		return fmt.Errorf("mark sync event failed: %w", err)
	}
	return nil
}

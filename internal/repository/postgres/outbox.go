package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/medtrack/patient-api/internal/model"
)

// insertOutboxEventTx records a lifecycle transition in the same transaction
// as the ledger mutation so the event cannot outlive a rollback.
func insertOutboxEventTx(ctx context.Context, tx *sqlx.Tx, eventType string, payload interface{}) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal outbox payload: %w", err)
	}

	query := `
		INSERT INTO outbox_events (id, event_type, payload, status, retry_count, created_at)
		VALUES ($1, $2, $3, $4, 0, $5)
	`
	if _, err := tx.ExecContext(ctx, query,
		uuid.New(),
		eventType,
		body,
		model.OutboxStatusPending,
		time.Now(),
	); err != nil {
		return fmt.Errorf("failed to insert outbox event: %w", err)
	}
	return nil
}

func (r *outboxRepository) PendingEvents(ctx context.Context, limit int) ([]*model.OutboxEvent, error) {
	query := `
		SELECT id, event_type, payload, status, error_message, retry_count,
			   retry_at, created_at, processed_at
		FROM outbox_events
		WHERE status = $1 OR (status = $2 AND retry_at <= $3)
		ORDER BY created_at ASC
		LIMIT $4
	`
	events := []*model.OutboxEvent{}
	if err := r.GetDB().SelectContext(ctx, &events, query,
		model.OutboxStatusPending,
		model.OutboxStatusRetry,
		time.Now(),
		limit,
	); err != nil {
		return nil, fmt.Errorf("failed to get pending events: %w", err)
	}
	return events, nil
}

func (r *outboxRepository) MarkProcessed(ctx context.Context, id uuid.UUID) error {
	query := `
		UPDATE outbox_events
		SET status = $1, processed_at = $2, error_message = NULL
		WHERE id = $3
	`
	if _, err := r.GetDB().ExecContext(ctx, query, model.OutboxStatusProcessed, time.Now(), id); err != nil {
		return fmt.Errorf("failed to mark event processed: %w", err)
	}
	return nil
}

func (r *outboxRepository) MarkRetry(ctx context.Context, id uuid.UUID, errMsg string, retryAt time.Time) error {
	query := `
		UPDATE outbox_events
		SET status = $1, error_message = $2, retry_count = retry_count + 1, retry_at = $3
		WHERE id = $4
	`
	if _, err := r.GetDB().ExecContext(ctx, query, model.OutboxStatusRetry, errMsg, retryAt, id); err != nil {
		return fmt.Errorf("failed to mark event for retry: %w", err)
	}
	return nil
}

func (r *outboxRepository) MarkFailed(ctx context.Context, id uuid.UUID, errMsg string) error {
	query := `
		UPDATE outbox_events
		SET status = $1, error_message = $2
		WHERE id = $3
	`
	if _, err := r.GetDB().ExecContext(ctx, query, model.OutboxStatusFailed, errMsg, id); err != nil {
		return fmt.Errorf("failed to mark event failed: %w", err)
	}
	return nil
}

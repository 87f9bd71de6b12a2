package db

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	stripe "github.com/stripe/stripe-go/v82"
)

const createWebhookEventTable = `
CREATE TABLE IF NOT EXISTS webhook_event (
    id          TEXT PRIMARY KEY,
    type        TEXT NOT NULL,
    created_at  TIMESTAMPTZ,
    received_at TIMESTAMPTZ NOT NULL DEFAULT now()
)`

// EventStore is the webhook audit log. It records that an event was
// received; nothing reads it back to drive behavior.
type EventStore struct {
	db  *sql.DB
	now func() time.Time
}

func NewEventStore(db *sql.DB) *EventStore {
	return &EventStore{db: db, now: time.Now}
}

// EnsureSchema creates the webhook_event table if missing.
func (s *EventStore) EnsureSchema(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, createWebhookEventTable); err != nil {
		return fmt.Errorf("create webhook_event: %w", err)
	}
	return nil
}

// RecordEvent inserts the event once; redeliveries of the same event id are ignored.
func (s *EventStore) RecordEvent(ctx context.Context, event stripe.Event) error {
	var created sql.NullTime
	if event.Created > 0 {
		created = sql.NullTime{Time: time.Unix(event.Created, 0).UTC(), Valid: true}
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO webhook_event (id, type, created_at, received_at)
		 VALUES ($1, $2, $3, $4)
		 ON CONFLICT (id) DO NOTHING`,
		event.ID, string(event.Type), created, s.now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("insert webhook_event %s: %w", event.ID, err)
	}
	return nil
}

// CountEvents returns how many events with the given id were recorded (0 or 1).
func (s *EventStore) CountEvents(ctx context.Context, id string) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(1) FROM webhook_event WHERE id = $1`, id).Scan(&n); err != nil {
		return 0, fmt.Errorf("count webhook_event %s: %w", id, err)
	}
	return n, nil
}

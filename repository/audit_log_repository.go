package repository

import (
	"context"
	"fmt"
	"time"

	"lotto/database"
)

// AuditEntry is one row of the durable committed-event trail.
type AuditEntry struct {
	ID        int64     `db:"id"`
	EventType string    `db:"event_type"`
	OwnerID   *int64    `db:"owner_id"`
	Payload   []byte    `db:"payload"`
	CreatedAt time.Time `db:"created_at"`
}

// AuditLogRepository persists committed ledger events to Postgres. Unlike the
// ticket and draw repositories it works directly against the pool: the ledger
// is the source of truth and the trail is an append-only record of what
// already committed.
type AuditLogRepository struct {
	db *database.DB
}

// NewAuditLogRepository creates a new audit log repository
func NewAuditLogRepository(db *database.DB) *AuditLogRepository {
	return &AuditLogRepository{db: db}
}

// Record appends one committed event.
func (r *AuditLogRepository) Record(ctx context.Context, entry *AuditEntry) error {
	query := `
		INSERT INTO ledger_events (event_type, owner_id, payload)
		VALUES ($1, $2, $3)
		RETURNING id, created_at
	`

	err := r.db.QueryRow(ctx, query, entry.EventType, entry.OwnerID, entry.Payload).
		Scan(&entry.ID, &entry.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to record audit entry: %w", err)
	}
	return nil
}

// Recent returns the newest entries, most recent first.
func (r *AuditLogRepository) Recent(ctx context.Context, limit int) ([]*AuditEntry, error) {
	query := `
		SELECT id, event_type, owner_id, payload, created_at
		FROM ledger_events
		ORDER BY id DESC
		LIMIT $1
	`

	rows, err := r.db.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query audit entries: %w", err)
	}
	defer rows.Close()

	var entries []*AuditEntry
	for rows.Next() {
		var entry AuditEntry
		if err := rows.Scan(&entry.ID, &entry.EventType, &entry.OwnerID, &entry.Payload, &entry.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan audit entry: %w", err)
		}
		entries = append(entries, &entry)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate audit entries: %w", err)
	}
	return entries, nil
}

// CountByType returns how many entries exist per event type.
func (r *AuditLogRepository) CountByType(ctx context.Context) (map[string]int64, error) {
	query := `
		SELECT event_type, COUNT(*)
		FROM ledger_events
		GROUP BY event_type
	`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to count audit entries: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int64)
	for rows.Next() {
		var eventType string
		var count int64
		if err := rows.Scan(&eventType, &count); err != nil {
			return nil, fmt.Errorf("failed to scan audit count: %w", err)
		}
		counts[eventType] = count
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate audit counts: %w", err)
	}
	return counts, nil
}

package audit

import (
	"context"
	"database/sql"
	"fmt"

	"gatekeeper/internal/domain"
)

// Postgres implements Store on the access_events table. The composite primary
// key (user_id, occurred_at, result) gives per-user chronological ordering;
// duplicate appends of the same key are tolerated and collapse to one row.
type Postgres struct {
	db *sql.DB
}

// NewPostgres creates a Postgres-backed audit store.
func NewPostgres(db *sql.DB) *Postgres {
	return &Postgres{db: db}
}

// Append inserts one event. Retried evaluations carry a fresh timestamp and
// so append additional records; an insert hitting the exact same
// (user_id, occurred_at, result) key is the same logical event replayed, and
// DO NOTHING keeps the append idempotent instead of erroring.
func (s *Postgres) Append(ctx context.Context, event domain.AccessEvent) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO access_events (
			user_id, occurred_at, result, reason, http_status,
			email, door_id, nfc_hash, uid_last4, origin,
			request_id, source_ip, user_agent
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		ON CONFLICT (user_id, occurred_at, result) DO NOTHING
	`,
		event.UserID,
		event.OccurredAt,
		event.Result,
		event.Reason,
		event.HTTPStatus,
		event.Email,
		event.DoorID,
		event.NFCHash,
		event.UIDLast4,
		event.Origin,
		event.RequestID,
		event.SourceIP,
		event.UserAgent,
	)
	if err != nil {
		return fmt.Errorf("insert access event: %w", err)
	}
	return nil
}

func (s *Postgres) ListRecent(ctx context.Context, limit int) ([]domain.AccessEvent, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT user_id, occurred_at, result, reason, http_status,
		       email, door_id, nfc_hash, uid_last4, origin,
		       request_id, source_ip, user_agent
		FROM access_events
		ORDER BY occurred_at DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("query access events: %w", err)
	}
	defer rows.Close()

	return scanEvents(rows)
}

func (s *Postgres) ListByUser(ctx context.Context, userID string) ([]domain.AccessEvent, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT user_id, occurred_at, result, reason, http_status,
		       email, door_id, nfc_hash, uid_last4, origin,
		       request_id, source_ip, user_agent
		FROM access_events
		WHERE user_id = $1
		ORDER BY occurred_at
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("query access events: %w", err)
	}
	defer rows.Close()

	return scanEvents(rows)
}

func scanEvents(rows *sql.Rows) ([]domain.AccessEvent, error) {
	var events []domain.AccessEvent
	for rows.Next() {
		var e domain.AccessEvent
		err := rows.Scan(
			&e.UserID,
			&e.OccurredAt,
			&e.Result,
			&e.Reason,
			&e.HTTPStatus,
			&e.Email,
			&e.DoorID,
			&e.NFCHash,
			&e.UIDLast4,
			&e.Origin,
			&e.RequestID,
			&e.SourceIP,
			&e.UserAgent,
		)
		if err != nil {
			return nil, fmt.Errorf("scan access event: %w", err)
		}
		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate access events: %w", err)
	}
	return events, nil
}

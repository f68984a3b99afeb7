package audit

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// PGSink implements Sink backed by PostgreSQL.
type PGSink struct {
	pool *pgxpool.Pool
}

// NewSink creates a PostgreSQL-backed audit sink.
func NewSink(pool *pgxpool.Pool) *PGSink {
	return &PGSink{pool: pool}
}

// LogEvent appends one audit row. The row timestamp comes from the database
// so ordering is consistent with other persisted records.
func (s *PGSink) LogEvent(ctx context.Context, event Event) error {
	if event.UserID == "" {
		return fmt.Errorf("audit: missing user id")
	}
	if event.Action == "" {
		return fmt.Errorf("audit: missing action")
	}

	details := event.Details
	if details == nil {
		details = map[string]any{}
	}
	detailsJSON, err := json.Marshal(details)
	if err != nil {
		return fmt.Errorf("audit: marshal details: %w", err)
	}

	const insertSQL = `
		INSERT INTO audit_logs (user_id, action, resource_type, resource_id, details, ip_hash, user_agent, success, error_message)
		VALUES ($1, $2, $3, $4, $5::jsonb, $6, $7, $8, $9)
	`

	if _, err := s.pool.Exec(ctx, insertSQL,
		event.UserID,
		event.Action,
		event.ResourceType,
		event.ResourceID,
		detailsJSON,
		event.IPHash,
		event.UserAgent,
		event.Success,
		event.ErrorMessage,
	); err != nil {
		return fmt.Errorf("audit: insert event: %w", err)
	}

	return nil
}

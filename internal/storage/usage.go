package storage

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
)

// Usage tracks billable activity accumulated by one session
type Usage struct {
	SessionID         uuid.UUID
	DocumentsAnalyzed int
	ReportsGenerated  int
	BillingAmount     float64
	UpdatedAt         time.Time
}

// UsageRepository defines the interface for usage tracking operations
type UsageRepository interface {
	Increment(ctx context.Context, sessionID uuid.UUID, docs, reports int, amount float64) error
	GetBySessionID(ctx context.Context, sessionID uuid.UUID) (*Usage, error)
}

// PostgresUsageRepository implements UsageRepository using PostgreSQL
type PostgresUsageRepository struct {
	db *sql.DB
}

// NewPostgresUsageRepository creates a new PostgresUsageRepository
func NewPostgresUsageRepository(db *sql.DB) *PostgresUsageRepository {
	return &PostgresUsageRepository{db: db}
}

// Increment adds to a session's usage counters, creating the row on first use
func (r *PostgresUsageRepository) Increment(ctx context.Context, sessionID uuid.UUID, docs, reports int, amount float64) error {
	query := `
		INSERT INTO usage_tracking (session_id, documents_analyzed, reports_generated, billing_amount, updated_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (session_id) DO UPDATE SET
			documents_analyzed = usage_tracking.documents_analyzed + EXCLUDED.documents_analyzed,
			reports_generated = usage_tracking.reports_generated + EXCLUDED.reports_generated,
			billing_amount = usage_tracking.billing_amount + EXCLUDED.billing_amount,
			updated_at = EXCLUDED.updated_at
	`

	_, err := r.db.ExecContext(ctx, query, sessionID, docs, reports, amount, time.Now())
	return err
}

// GetBySessionID retrieves usage for a session; a session with no recorded
// usage yields zeroed counters, not an error
func (r *PostgresUsageRepository) GetBySessionID(ctx context.Context, sessionID uuid.UUID) (*Usage, error) {
	query := `
		SELECT session_id, documents_analyzed, reports_generated, billing_amount, updated_at
		FROM usage_tracking
		WHERE session_id = $1
	`

	usage := &Usage{}
	err := r.db.QueryRowContext(ctx, query, sessionID).Scan(
		&usage.SessionID,
		&usage.DocumentsAnalyzed,
		&usage.ReportsGenerated,
		&usage.BillingAmount,
		&usage.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return &Usage{SessionID: sessionID}, nil
	}
	if err != nil {
		return nil, err
	}

	return usage, nil
}

package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/todmy/doc-checker/pkg/models"
)

// Report represents a persisted analysis report
type Report struct {
	ID                  uuid.UUID
	SessionID           uuid.UUID
	Contradictions      []models.Contradiction
	TotalContradictions int
	AnalysisMillis      int64
	CreatedAt           time.Time
}

// ReportRepository defines the interface for report storage operations
type ReportRepository interface {
	Create(ctx context.Context, report *Report) error
	GetLatestBySessionID(ctx context.Context, sessionID uuid.UUID) (*Report, error)
	GetBySessionID(ctx context.Context, sessionID uuid.UUID) ([]*Report, error)
}

// PostgresReportRepository implements ReportRepository using PostgreSQL,
// storing the contradiction list as a JSONB column
type PostgresReportRepository struct {
	db *sql.DB
}

// NewPostgresReportRepository creates a new PostgresReportRepository
func NewPostgresReportRepository(db *sql.DB) *PostgresReportRepository {
	return &PostgresReportRepository{db: db}
}

// Create inserts a new report into the database
func (r *PostgresReportRepository) Create(ctx context.Context, report *Report) error {
	if report.ID == uuid.Nil {
		report.ID = uuid.New()
	}
	if report.CreatedAt.IsZero() {
		report.CreatedAt = time.Now()
	}
	report.TotalContradictions = len(report.Contradictions)

	payload, err := json.Marshal(report.Contradictions)
	if err != nil {
		return fmt.Errorf("marshal contradictions: %w", err)
	}

	query := `
		INSERT INTO analysis_reports (id, session_id, contradictions, total_contradictions, analysis_ms, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err = r.db.ExecContext(ctx, query,
		report.ID,
		report.SessionID,
		payload,
		report.TotalContradictions,
		report.AnalysisMillis,
		report.CreatedAt,
	)

	return err
}

// GetLatestBySessionID retrieves the most recent report for a session
func (r *PostgresReportRepository) GetLatestBySessionID(ctx context.Context, sessionID uuid.UUID) (*Report, error) {
	query := `
		SELECT id, session_id, contradictions, total_contradictions, analysis_ms, created_at
		FROM analysis_reports
		WHERE session_id = $1
		ORDER BY created_at DESC
		LIMIT 1
	`

	report := &Report{}
	var payload []byte
	err := r.db.QueryRowContext(ctx, query, sessionID).Scan(
		&report.ID,
		&report.SessionID,
		&payload,
		&report.TotalContradictions,
		&report.AnalysisMillis,
		&report.CreatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal(payload, &report.Contradictions); err != nil {
		return nil, fmt.Errorf("unmarshal contradictions: %w", err)
	}

	return report, nil
}

// GetBySessionID retrieves all reports for a session, newest first
func (r *PostgresReportRepository) GetBySessionID(ctx context.Context, sessionID uuid.UUID) ([]*Report, error) {
	query := `
		SELECT id, session_id, contradictions, total_contradictions, analysis_ms, created_at
		FROM analysis_reports
		WHERE session_id = $1
		ORDER BY created_at DESC
	`

	rows, err := r.db.QueryContext(ctx, query, sessionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var reports []*Report
	for rows.Next() {
		report := &Report{}
		var payload []byte
		err := rows.Scan(
			&report.ID,
			&report.SessionID,
			&payload,
			&report.TotalContradictions,
			&report.AnalysisMillis,
			&report.CreatedAt,
		)
		if err != nil {
			return nil, err
		}

		if err := json.Unmarshal(payload, &report.Contradictions); err != nil {
			return nil, fmt.Errorf("unmarshal contradictions: %w", err)
		}

		reports = append(reports, report)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return reports, nil
}

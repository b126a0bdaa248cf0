package storage

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"

	"github.com/todmy/doc-checker/pkg/models"
)

func sampleContradictions() []models.Contradiction {
	return []models.Contradiction{
		{
			Type:          models.TypeNumerical,
			Subtype:       "percentage",
			Document1:     "policy_v1.txt",
			Document2:     "policy_v2.txt",
			Sentence1:     "Students must maintain minimum 75% attendance.",
			Sentence2:     "Students with 65% attendance are eligible.",
			Value1:        "75%",
			Value2:        "65%",
			Similarity:    0.92,
			SeverityScore: 0.9,
			Description:   "Conflicting percentage values: 75% vs 65%",
			Suggestion:    "Clarify which percentage value is correct: 75% or 65%",
		},
	}
}

func TestPostgresReportRepository_Create(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create mock db: %v", err)
	}
	defer db.Close()

	repo := NewPostgresReportRepository(db)

	report := &Report{
		SessionID:      uuid.New(),
		Contradictions: sampleContradictions(),
		AnalysisMillis: 120,
	}

	mock.ExpectExec("INSERT INTO analysis_reports").
		WithArgs(sqlmock.AnyArg(), report.SessionID, sqlmock.AnyArg(), 1, int64(120), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	err = repo.Create(context.Background(), report)
	if err != nil {
		t.Errorf("expected no error, got %v", err)
	}

	if report.ID == uuid.Nil {
		t.Error("expected report ID to be generated")
	}

	if report.TotalContradictions != 1 {
		t.Errorf("expected total 1, got %d", report.TotalContradictions)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled expectations: %v", err)
	}
}

func TestPostgresReportRepository_GetLatestBySessionID(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create mock db: %v", err)
	}
	defer db.Close()

	repo := NewPostgresReportRepository(db)

	sessionID := uuid.New()
	contradictions := sampleContradictions()
	payload, err := json.Marshal(contradictions)
	if err != nil {
		t.Fatalf("failed to marshal contradictions: %v", err)
	}

	rows := sqlmock.NewRows([]string{"id", "session_id", "contradictions", "total_contradictions", "analysis_ms", "created_at"}).
		AddRow(uuid.New().String(), sessionID.String(), payload, 1, int64(120), time.Now())

	mock.ExpectQuery("SELECT (.+) FROM analysis_reports WHERE session_id (.+) LIMIT 1").
		WithArgs(sessionID).
		WillReturnRows(rows)

	report, err := repo.GetLatestBySessionID(context.Background(), sessionID)
	if err != nil {
		t.Errorf("expected no error, got %v", err)
	}

	if report == nil {
		t.Fatal("expected report to be returned")
	}

	if len(report.Contradictions) != 1 {
		t.Fatalf("expected 1 contradiction, got %d", len(report.Contradictions))
	}

	if report.Contradictions[0].Value1 != "75%" {
		t.Errorf("expected value1 75%%, got %s", report.Contradictions[0].Value1)
	}

	if report.Contradictions[0].Type != models.TypeNumerical {
		t.Errorf("expected numerical type, got %s", report.Contradictions[0].Type)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled expectations: %v", err)
	}
}

func TestPostgresReportRepository_GetLatestBySessionID_NotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create mock db: %v", err)
	}
	defer db.Close()

	repo := NewPostgresReportRepository(db)

	sessionID := uuid.New()

	rows := sqlmock.NewRows([]string{"id", "session_id", "contradictions", "total_contradictions", "analysis_ms", "created_at"})

	mock.ExpectQuery("SELECT (.+) FROM analysis_reports WHERE session_id").
		WithArgs(sessionID).
		WillReturnRows(rows)

	report, err := repo.GetLatestBySessionID(context.Background(), sessionID)
	if err != nil {
		t.Errorf("expected no error, got %v", err)
	}

	if report != nil {
		t.Error("expected nil report")
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled expectations: %v", err)
	}
}

func TestPostgresReportRepository_GetBySessionID(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create mock db: %v", err)
	}
	defer db.Close()

	repo := NewPostgresReportRepository(db)

	sessionID := uuid.New()

	rows := sqlmock.NewRows([]string{"id", "session_id", "contradictions", "total_contradictions", "analysis_ms", "created_at"}).
		AddRow(uuid.New().String(), sessionID.String(), []byte("[]"), 0, int64(40), time.Now()).
		AddRow(uuid.New().String(), sessionID.String(), []byte("[]"), 0, int64(55), time.Now())

	mock.ExpectQuery("SELECT (.+) FROM analysis_reports WHERE session_id").
		WithArgs(sessionID).
		WillReturnRows(rows)

	reports, err := repo.GetBySessionID(context.Background(), sessionID)
	if err != nil {
		t.Errorf("expected no error, got %v", err)
	}

	if len(reports) != 2 {
		t.Fatalf("expected 2 reports, got %d", len(reports))
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled expectations: %v", err)
	}
}

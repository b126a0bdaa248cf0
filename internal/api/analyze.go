package api

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/todmy/doc-checker/internal/billing"
	"github.com/todmy/doc-checker/internal/storage"
	"github.com/todmy/doc-checker/pkg/models"
)

// handleAnalyze runs the contradiction pipeline over a session's documents,
// persists the resulting report and tracks billable usage. Documents whose
// text extraction fails are skipped with a warning rather than aborting the
// run.
func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	sessionID, err := uuid.Parse(chi.URLParam(r, "sessionID"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid session id")
		return
	}

	docs, err := s.documentRepo.GetBySessionID(r.Context(), sessionID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to fetch documents")
		return
	}

	documents := make(map[string]string, len(docs))
	for _, doc := range docs {
		text, err := s.extractor.ExtractReader(strings.NewReader(doc.Content), doc.Filename)
		if err != nil {
			s.logger.Warn("skipping document: extraction failed",
				zap.String("session_id", sessionID.String()),
				zap.String("filename", doc.Filename),
				zap.Error(err),
			)
			continue
		}
		documents[doc.Filename] = text
	}

	started := time.Now()
	report := s.analyzer.Analyze(r.Context(), documents)
	report.SessionID = sessionID.String()

	stored := &storage.Report{
		SessionID:      sessionID,
		Contradictions: report.Contradictions,
		AnalysisMillis: time.Since(started).Milliseconds(),
	}
	if err := s.reportRepo.Create(r.Context(), stored); err != nil {
		respondError(w, http.StatusInternalServerError, "failed to save report")
		return
	}

	pricing := s.billing.Pricing()
	amount := pricing.Cost(len(documents), 1)
	if err := s.usageRepo.Increment(r.Context(), sessionID, len(documents), 1, amount); err != nil {
		s.logger.Warn("usage update failed",
			zap.String("session_id", sessionID.String()),
			zap.Error(err),
		)
	}

	s.billing.TrackUsage(r.Context(), sessionID.String(), billing.EventDocumentAnalysis, len(documents))
	s.billing.TrackUsage(r.Context(), sessionID.String(), billing.EventReportGeneration, 1)

	respondJSON(w, http.StatusOK, report)
}

// handleGetReport returns the most recent stored report for a session
func (s *Server) handleGetReport(w http.ResponseWriter, r *http.Request) {
	sessionID, err := uuid.Parse(chi.URLParam(r, "sessionID"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid session id")
		return
	}

	stored, err := s.reportRepo.GetLatestBySessionID(r.Context(), sessionID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to fetch report")
		return
	}
	if stored == nil {
		respondError(w, http.StatusNotFound, "no report for session")
		return
	}

	report := &models.Report{
		SessionID:      stored.SessionID.String(),
		GeneratedAt:    stored.CreatedAt,
		Contradictions: stored.Contradictions,
	}
	report.Summarize()

	respondJSON(w, http.StatusOK, report)
}

package models

import (
	"time"
)

// Document represents an uploaded document within an analysis session
type Document struct {
	ID          string    `json:"id"`
	SessionID   string    `json:"session_id"`
	Filename    string    `json:"filename"`
	Content     string    `json:"-"`
	ContentHash string    `json:"hash"`
	SizeBytes   int64     `json:"size_bytes"`
	CreatedAt   time.Time `json:"created_at"`
}

// ContradictionType classifies which detector produced a contradiction
type ContradictionType string

const (
	TypeNumerical ContradictionType = "numerical"
	TypeSemantic  ContradictionType = "semantic"
	TypePolicy    ContradictionType = "policy"
)

// Contradiction is a detected conflict between one sentence from each of
// two documents. Sentence fields are verbatim substrings of their sources.
type Contradiction struct {
	Type          ContradictionType `json:"type"`
	Subtype       string            `json:"subtype"`
	Document1     string            `json:"document1"`
	Document2     string            `json:"document2"`
	Sentence1     string            `json:"sentence1"`
	Sentence2     string            `json:"sentence2"`
	Value1        string            `json:"value1,omitempty"`
	Value2        string            `json:"value2,omitempty"`
	Similarity    float64           `json:"similarity"`
	SeverityScore float64           `json:"severity_score"`
	Description   string            `json:"description"`
	Suggestion    string            `json:"suggestion"`
}

// Report is the ordered result of one analysis run, sorted by severity
// descending with discovery order preserved among equal severities.
type Report struct {
	SessionID           string          `json:"session_id,omitempty"`
	GeneratedAt         time.Time       `json:"generated_at"`
	TotalContradictions int             `json:"total_contradictions"`
	Contradictions      []Contradiction `json:"contradictions"`
	Summary             ReportSummary   `json:"summary"`
}

// ReportSummary counts contradictions per detector type
type ReportSummary struct {
	NumericalConflicts int `json:"numerical_conflicts"`
	SemanticConflicts  int `json:"semantic_conflicts"`
	PolicyConflicts    int `json:"policy_conflicts"`
}

// Summarize recomputes the per-type summary counts from the contradiction list
func (r *Report) Summarize() {
	var s ReportSummary
	for _, c := range r.Contradictions {
		switch c.Type {
		case TypeNumerical:
			s.NumericalConflicts++
		case TypeSemantic:
			s.SemanticConflicts++
		case TypePolicy:
			s.PolicyConflicts++
		}
	}
	r.Summary = s
	r.TotalContradictions = len(r.Contradictions)
}

// UsageStats tracks billable activity for one session
type UsageStats struct {
	SessionID         string    `json:"session_id"`
	DocumentsAnalyzed int       `json:"documents_analyzed"`
	ReportsGenerated  int       `json:"reports_generated"`
	BillingAmount     float64   `json:"billing_amount"`
	UpdatedAt         time.Time `json:"updated_at"`
}

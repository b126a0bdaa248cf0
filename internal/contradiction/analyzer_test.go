package contradiction

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/todmy/doc-checker/internal/sentence"
	"github.com/todmy/doc-checker/internal/similarity"
	"github.com/todmy/doc-checker/pkg/models"
)

// cannedEmbedder serves fixed vectors so full-pipeline tests control the
// similarity scores without a live embeddings API.
type cannedEmbedder struct {
	vectors map[string][]float32
}

func (c *cannedEmbedder) EmbedTexts(_ context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i, t := range texts {
		v, ok := c.vectors[t]
		if !ok {
			return nil, fmt.Errorf("no canned vector for %q", t)
		}
		out[i] = v
	}
	return out, nil
}

func newTestAnalyzer(vectors map[string][]float32) *Analyzer {
	engine := similarity.NewEngine(&cannedEmbedder{vectors: vectors})
	return NewAnalyzer(sentence.NewExtractor(), engine, DefaultConfig())
}

func TestAnalyzePercentageConflict(t *testing.T) {
	a := newTestAnalyzer(map[string][]float32{
		"attendance minimum": {1, 1, 0},
		"attendance":         {1, 0.8, 0},
	})

	report := a.Analyze(context.Background(), map[string]string{
		"policy_v1.txt": "Students must maintain minimum 75% attendance.",
		"policy_v2.txt": "Students with 65% attendance are eligible.",
	})

	require.Len(t, report.Contradictions, 1)
	c := report.Contradictions[0]
	assert.Equal(t, models.TypeNumerical, c.Type)
	assert.Equal(t, "percentage", c.Subtype)
	assert.Equal(t, "policy_v1.txt", c.Document1)
	assert.Equal(t, "policy_v2.txt", c.Document2)
	assert.Equal(t, "75%", c.Value1)
	assert.Equal(t, "65%", c.Value2)
	assert.Equal(t, 1, report.TotalContradictions)
	assert.Equal(t, 1, report.Summary.NumericalConflicts)
}

func TestAnalyzeTimeConflict(t *testing.T) {
	a := newTestAnalyzer(map[string][]float32{
		"submit":   {1, 0.2, 0},
		"deadline": {1, 0.3, 0},
	})

	report := a.Analyze(context.Background(), map[string]string{
		"rules.txt":    "Submit before 10:00 PM.",
		"schedule.txt": "Deadline is 11:59 PM.",
	})

	require.Len(t, report.Contradictions, 1)
	assert.Equal(t, "time", report.Contradictions[0].Subtype)
	assert.Equal(t, "10:00 PM", report.Contradictions[0].Value1)
	assert.Equal(t, "11:59 PM", report.Contradictions[0].Value2)
}

func TestAnalyzeOppositeStatements(t *testing.T) {
	a := newTestAnalyzer(map[string][]float32{
		"Smoking is allowed in the lounge.": {1, 0.1, 0},
		"Smoking is not allowed on campus.": {1, 0, 0.1},
	})

	report := a.Analyze(context.Background(), map[string]string{
		"a": "Smoking is allowed in the lounge.",
		"b": "Smoking is not allowed on campus.",
	})

	require.Len(t, report.Contradictions, 1)
	c := report.Contradictions[0]
	assert.Equal(t, models.TypeSemantic, c.Type)
	assert.Equal(t, "a", c.Document1)
	assert.Equal(t, "b", c.Document2)
	assert.Equal(t, SeveritySemantic, c.SeverityScore)
	assert.Equal(t, 1, report.Summary.SemanticConflicts)
}

func TestAnalyzeUnrelatedDocuments(t *testing.T) {
	a := newTestAnalyzer(nil)

	report := a.Analyze(context.Background(), map[string]string{
		"menu.txt":    "The cafeteria serves lunch at noon daily.",
		"parking.txt": "Garage access renews every single year.",
	})

	assert.NotNil(t, report.Contradictions)
	assert.Empty(t, report.Contradictions)
	assert.Equal(t, 0, report.TotalContradictions)
}

func TestAnalyzeSingleDocument(t *testing.T) {
	a := newTestAnalyzer(nil)

	report := a.Analyze(context.Background(), map[string]string{
		"only.txt": "Students must maintain minimum 75% attendance.",
	})

	assert.Empty(t, report.Contradictions)
}

func TestAnalyzeNoDocuments(t *testing.T) {
	a := newTestAnalyzer(nil)

	report := a.Analyze(context.Background(), map[string]string{})

	assert.NotNil(t, report.Contradictions)
	assert.Empty(t, report.Contradictions)
	assert.Equal(t, 0, report.TotalContradictions)
}

func TestAnalyzeSortsBySeverityDescending(t *testing.T) {
	a := newTestAnalyzer(map[string][]float32{
		"attendance minimum":                {1, 1, 0},
		"attendance":                        {1, 0.8, 0},
		"Smoking is allowed in the lounge.": {1, 0.1, 0},
		"Smoking is not allowed on campus.": {1, 0, 0.1},
	})

	report := a.Analyze(context.Background(), map[string]string{
		"a": "Students must maintain minimum 75% attendance. Smoking is allowed in the lounge.",
		"b": "Students with 65% attendance are eligible. Smoking is not allowed on campus.",
	})

	require.Len(t, report.Contradictions, 2)
	assert.Equal(t, models.TypeNumerical, report.Contradictions[0].Type)
	assert.Equal(t, models.TypeSemantic, report.Contradictions[1].Type)
	assert.GreaterOrEqual(t,
		report.Contradictions[0].SeverityScore,
		report.Contradictions[1].SeverityScore,
	)
}

func TestAnalyzeReportInvariants(t *testing.T) {
	a := newTestAnalyzer(map[string][]float32{
		"attendance minimum":                {1, 1, 0},
		"attendance":                        {1, 0.8, 0},
		"Smoking is allowed in the lounge.": {1, 0.1, 0},
		"Smoking is not allowed on campus.": {1, 0, 0.1},
	})

	report := a.Analyze(context.Background(), map[string]string{
		"a": "Students must maintain minimum 75% attendance. Smoking is allowed in the lounge.",
		"b": "Students with 65% attendance are eligible. Smoking is not allowed on campus.",
	})

	validSeverities := map[float64]bool{
		SeverityNumerical: true,
		SeverityPolicy:    true,
		SeveritySemantic:  true,
	}

	require.NotEmpty(t, report.Contradictions)
	for _, c := range report.Contradictions {
		assert.True(t, validSeverities[c.SeverityScore], "unexpected severity %v", c.SeverityScore)
		assert.NotEqual(t, c.Document1, c.Document2)
		assert.GreaterOrEqual(t, c.Similarity, 0.0)
		assert.LessOrEqual(t, c.Similarity, 1.0)
		assert.NotEmpty(t, c.Description)
		assert.NotEmpty(t, c.Suggestion)
	}
	assert.Equal(t, len(report.Contradictions), report.TotalContradictions)
}

func TestAnalyzeIsDeterministic(t *testing.T) {
	vectors := map[string][]float32{
		"attendance minimum":                {1, 1, 0},
		"attendance":                        {1, 0.8, 0},
		"Smoking is allowed in the lounge.": {1, 0.1, 0},
		"Smoking is not allowed on campus.": {1, 0, 0.1},
	}
	docs := map[string]string{
		"a": "Students must maintain minimum 75% attendance. Smoking is allowed in the lounge.",
		"b": "Students with 65% attendance are eligible. Smoking is not allowed on campus.",
		"c": "This document discusses catering arrangements only.",
	}

	first := newTestAnalyzer(vectors).Analyze(context.Background(), docs)
	second := newTestAnalyzer(vectors).Analyze(context.Background(), docs)

	assert.Equal(t, first.Contradictions, second.Contradictions)
	assert.Equal(t, first.Summary, second.Summary)
}

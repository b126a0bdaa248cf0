package contradiction

import (
	"context"
	"fmt"
	"strings"

	"github.com/todmy/doc-checker/pkg/models"
)

const contextFallbackLength = 50

// NumericalDetector finds same-context, different-value numeric facts
// across two documents: clock times, percentages, durations and attendance
// requirements.
type NumericalDetector struct {
	scorer Scorer
}

// NewNumericalDetector creates a numerical conflict detector.
func NewNumericalDetector(scorer Scorer) *NumericalDetector {
	return &NumericalDetector{scorer: scorer}
}

// Detect compares every cross-document pair of numeric matches within the
// same pattern family. A pair conflicts when the contexts score above the
// threshold and the extracted values differ as strings — identical values
// never conflict, regardless of context similarity. Values are compared
// verbatim ("75%" and "75.0%" are different values).
func (d *NumericalDetector) Detect(ctx context.Context, doc1, doc2 DocumentSentences) []models.Contradiction {
	var found []models.Contradiction

	for _, pattern := range numericPatterns {
		matches1 := extractContextMatches(doc1.Sentences, pattern)
		matches2 := extractContextMatches(doc2.Sentences, pattern)

		for _, m1 := range matches1 {
			for _, m2 := range matches2 {
				if m1.Value == m2.Value {
					continue
				}

				sim := d.scorer.Score(ctx, m1.Context, m2.Context)
				if sim <= numericalContextThreshold {
					continue
				}

				found = append(found, models.Contradiction{
					Type:          models.TypeNumerical,
					Subtype:       pattern.name,
					Document1:     doc1.Name,
					Document2:     doc2.Name,
					Sentence1:     m1.Sentence,
					Sentence2:     m2.Sentence,
					Value1:        m1.Value,
					Value2:        m2.Value,
					Similarity:    sim,
					SeverityScore: SeverityNumerical,
					Description:   fmt.Sprintf("Conflicting %s values: %s vs %s", pattern.name, m1.Value, m2.Value),
					Suggestion:    fmt.Sprintf("Clarify which %s value is correct: %s or %s", pattern.name, m1.Value, m2.Value),
				})
			}
		}
	}

	return found
}

// extractContextMatches scans sentences for the pattern family, emitting one
// ContextMatch per captured value.
func extractContextMatches(sentences []string, pattern numericPattern) []ContextMatch {
	var matches []ContextMatch

	for _, sent := range sentences {
		groups := pattern.re.FindAllStringSubmatch(sent, -1)
		if len(groups) == 0 {
			continue
		}

		context := extractContext(sent, pattern.keywords)
		for _, g := range groups {
			matches = append(matches, ContextMatch{
				Context:  context,
				Value:    g[1],
				Sentence: sent,
			})
		}
	}

	return matches
}

// extractContext joins the pattern keywords present in the sentence. When
// none match, the first 50 characters of the sentence stand in, so a numeric
// match always carries a non-empty context.
func extractContext(sent string, keywords []string) string {
	lower := strings.ToLower(sent)

	var found []string
	for _, kw := range keywords {
		if strings.Contains(lower, kw) {
			found = append(found, kw)
		}
	}

	if len(found) > 0 {
		return strings.Join(found, " ")
	}
	if len(sent) > contextFallbackLength {
		return sent[:contextFallbackLength]
	}
	return sent
}

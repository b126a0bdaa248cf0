package contradiction

import (
	"context"
	"strings"

	"github.com/todmy/doc-checker/pkg/models"
)

// PolicyDetector finds sentences stating policy, rule or procedure
// obligations that contradict each other across two documents.
type PolicyDetector struct {
	scorer Scorer
}

// NewPolicyDetector creates a policy conflict detector.
func NewPolicyDetector(scorer Scorer) *PolicyDetector {
	return &PolicyDetector{scorer: scorer}
}

// Detect filters each document down to its policy sentences, then scores
// every cross-document pair. A pair conflicts when the sentences cover the
// same policy topic (similarity above the threshold) and the lexical
// antonym check finds opposing obligation vocabulary.
func (d *PolicyDetector) Detect(ctx context.Context, doc1, doc2 DocumentSentences) []models.Contradiction {
	var found []models.Contradiction

	policies1 := filterPolicySentences(doc1.Sentences)
	policies2 := filterPolicySentences(doc2.Sentences)

	for _, p1 := range policies1 {
		for _, p2 := range policies2 {
			sim := d.scorer.Score(ctx, p1, p2)
			if sim <= policyTopicThreshold {
				continue
			}
			if !arePoliciesContradictory(p1, p2) {
				continue
			}

			found = append(found, models.Contradiction{
				Type:          models.TypePolicy,
				Subtype:       "conflicting_policies",
				Document1:     doc1.Name,
				Document2:     doc2.Name,
				Sentence1:     p1,
				Sentence2:     p2,
				Similarity:    sim,
				SeverityScore: SeverityPolicy,
				Description:   "Conflicting policy statements found",
				Suggestion:    "Harmonize the conflicting policies",
			})
		}
	}

	return found
}

func filterPolicySentences(sentences []string) []string {
	var policies []string
	for _, s := range sentences {
		lower := strings.ToLower(s)
		for _, kw := range policyKeywords {
			if strings.Contains(lower, kw) {
				policies = append(policies, s)
				break
			}
		}
	}
	return policies
}

// arePoliciesContradictory reports whether one sentence carries a word from
// an antonym group's positive side while the other carries a word from its
// negative side. Both directions are checked across all groups, returning
// on the first hit.
func arePoliciesContradictory(a, b string) bool {
	lowerA := strings.ToLower(a)
	lowerB := strings.ToLower(b)

	for _, group := range antonymGroups {
		posA := containsAny(lowerA, group.positive)
		negA := containsAny(lowerA, group.negative)
		posB := containsAny(lowerB, group.positive)
		negB := containsAny(lowerB, group.negative)

		if (posA && negB) || (negA && posB) {
			return true
		}
	}

	return false
}

func containsAny(s string, words []string) bool {
	for _, w := range words {
		if strings.Contains(s, w) {
			return true
		}
	}
	return false
}

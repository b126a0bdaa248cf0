package contradiction

import (
	"context"

	"github.com/todmy/doc-checker/pkg/models"
)

// SemanticDetector finds sentences using polarity-opposite vocabulary about
// the same topic, e.g. "must" against "forbidden".
type SemanticDetector struct {
	scorer Scorer
}

// NewSemanticDetector creates a semantic opposition detector.
func NewSemanticDetector(scorer Scorer) *SemanticDetector {
	return &SemanticDetector{scorer: scorer}
}

// Detect pools sentences from both documents, collects the ones matching
// each side of every polarity pair, and scores every positive/negative
// combination. A pair conflicts when similarity exceeds the threshold and
// exactly one of the two sentences belongs to doc1 — same-document pairs
// are rejected. Document1 on the result is always the document holding the
// positive-polarity sentence.
func (d *SemanticDetector) Detect(ctx context.Context, doc1, doc2 DocumentSentences) []models.Contradiction {
	var found []models.Contradiction

	pooled := make([]string, 0, len(doc1.Sentences)+len(doc2.Sentences))
	pooled = append(pooled, doc1.Sentences...)
	pooled = append(pooled, doc2.Sentences...)

	inDoc1 := make(map[string]bool, len(doc1.Sentences))
	for _, s := range doc1.Sentences {
		inDoc1[s] = true
	}

	for _, pair := range polarityPairs {
		var positives, negatives []string
		for _, s := range pooled {
			if pair.positive.MatchString(s) {
				positives = append(positives, s)
			}
			if pair.negative.MatchString(s) {
				negatives = append(negatives, s)
			}
		}

		for _, pos := range positives {
			for _, neg := range negatives {
				sim := d.scorer.Score(ctx, pos, neg)
				if sim <= semanticTopicThreshold {
					continue
				}

				posInDoc1 := inDoc1[pos]
				negInDoc1 := inDoc1[neg]
				if posInDoc1 == negInDoc1 {
					continue
				}

				docPos, docNeg := doc1.Name, doc2.Name
				if !posInDoc1 {
					docPos, docNeg = doc2.Name, doc1.Name
				}

				found = append(found, models.Contradiction{
					Type:          models.TypeSemantic,
					Subtype:       "opposite_statements",
					Document1:     docPos,
					Document2:     docNeg,
					Sentence1:     pos,
					Sentence2:     neg,
					Similarity:    sim,
					SeverityScore: SeveritySemantic,
					Description:   "Documents contain opposite statements about the same topic",
					Suggestion:    "Review and align the conflicting statements",
				})
			}
		}
	}

	return found
}

package contradiction

import (
	"context"

	"github.com/todmy/doc-checker/pkg/models"
)

// Fixed severity weights per detector type, used only for ranking output.
const (
	SeverityNumerical = 0.9
	SeverityPolicy    = 0.85
	SeveritySemantic  = 0.8
)

// Detection thresholds on similarity scores.
const (
	numericalContextThreshold = 0.7
	semanticTopicThreshold    = 0.6
	policyTopicThreshold      = 0.7
)

// Scorer rates the similarity of two text fragments in [0, 1].
// It is implemented by similarity.Engine.
type Scorer interface {
	Score(ctx context.Context, a, b string) float64
}

// DocumentSentences binds a document name to its extracted sentences.
type DocumentSentences struct {
	Name      string
	Sentences []string
}

// Detector is one detection strategy, run over every document pair by the
// Analyzer. The variant set is closed: numerical, semantic and policy.
type Detector interface {
	Detect(ctx context.Context, doc1, doc2 DocumentSentences) []models.Contradiction
}

// ContextMatch is one numeric occurrence extracted from a sentence. Context
// is the space-joined list of matched domain keywords, or the first 50
// characters of the sentence when no keyword matched, so it is never empty
// while a value exists.
type ContextMatch struct {
	Context  string
	Value    string
	Sentence string
}

package contradiction

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/todmy/doc-checker/internal/sentence"
	"github.com/todmy/doc-checker/pkg/models"
)

// Config holds analyzer configuration
type Config struct {
	// MaxConcurrent bounds the number of document pairs analyzed at once
	MaxConcurrent int
}

// DefaultConfig returns default configuration
func DefaultConfig() Config {
	return Config{
		MaxConcurrent: 4,
	}
}

// Analyzer runs the full contradiction pipeline: sentence extraction per
// document, the three detectors over every unordered document pair, and the
// merge/ranking step producing the final report.
//
// Analyze holds no state between calls; the same document mapping always
// produces an identical report.
type Analyzer struct {
	extractor *sentence.Extractor
	detectors []Detector
	config    Config
}

// NewAnalyzer creates an analyzer wired with the closed set of detectors:
// numerical, semantic and policy.
func NewAnalyzer(extractor *sentence.Extractor, scorer Scorer, config Config) *Analyzer {
	if config.MaxConcurrent <= 0 {
		config.MaxConcurrent = DefaultConfig().MaxConcurrent
	}

	return &Analyzer{
		extractor: extractor,
		detectors: []Detector{
			NewNumericalDetector(scorer),
			NewSemanticDetector(scorer),
			NewPolicyDetector(scorer),
		},
		config: config,
	}
}

// Analyze detects contradictions across the given documents (name → text)
// and returns them ranked by severity. Zero or one documents yield an empty
// report; Analyze never fails. The same sentence pair may appear once per
// detector that flags it — no cross-detector deduplication is performed.
func (a *Analyzer) Analyze(ctx context.Context, documents map[string]string) *models.Report {
	names := make([]string, 0, len(documents))
	for name := range documents {
		names = append(names, name)
	}
	sort.Strings(names)

	docs := make([]DocumentSentences, len(names))
	for i, name := range names {
		docs[i] = DocumentSentences{
			Name:      name,
			Sentences: a.extractor.Extract(documents[name]),
		}
	}

	type pair struct{ i, j int }
	var pairs []pair
	for i := 0; i < len(docs); i++ {
		for j := i + 1; j < len(docs); j++ {
			pairs = append(pairs, pair{i, j})
		}
	}

	// One slot per pair keeps output deterministic under concurrency: the
	// flattened list follows pair order regardless of completion order.
	results := make([][]models.Contradiction, len(pairs))
	sem := make(chan struct{}, a.config.MaxConcurrent)
	var wg sync.WaitGroup

	for idx, p := range pairs {
		wg.Add(1)
		go func(idx int, p pair) {
			defer wg.Done()

			sem <- struct{}{}
			defer func() { <-sem }()

			var found []models.Contradiction
			for _, det := range a.detectors {
				found = append(found, det.Detect(ctx, docs[p.i], docs[p.j])...)
			}
			results[idx] = found
		}(idx, p)
	}

	wg.Wait()

	contradictions := make([]models.Contradiction, 0)
	for _, r := range results {
		contradictions = append(contradictions, r...)
	}

	// Stable sort: equal severities keep discovery order
	sort.SliceStable(contradictions, func(i, j int) bool {
		return contradictions[i].SeverityScore > contradictions[j].SeverityScore
	})

	report := &models.Report{
		GeneratedAt:    time.Now().UTC(),
		Contradictions: contradictions,
	}
	report.Summarize()

	return report
}

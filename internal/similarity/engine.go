package similarity

import (
	"context"
	"strings"
	"sync"
	"time"
)

const defaultEmbedTimeout = 10 * time.Second

// Embedder generates dense vectors for a batch of text fragments. The
// returned slice matches the input order and length.
type Embedder interface {
	EmbedTexts(ctx context.Context, texts []string) ([][]float32, error)
}

// Engine scores the similarity of two short text fragments in [0, 1].
//
// The primary strategy embeds both fragments and takes their cosine
// similarity, clamped into [0, 1] (negative cosine floors at 0 so the
// contract range holds). When no embedder is configured, or embedding
// fails or times out, the engine falls back to lexical token overlap.
// Failures are never propagated to the caller.
//
// Embeddings are cached per unique fragment, since detectors score the
// same fragments O(n²) times per document pair. The engine is safe for
// concurrent use.
type Engine struct {
	embedder Embedder
	timeout  time.Duration

	mu    sync.RWMutex
	cache map[string][]float32
}

// Option configures the Engine
type Option func(*Engine)

// WithTimeout sets the per-call embedding timeout
func WithTimeout(d time.Duration) Option {
	return func(e *Engine) {
		e.timeout = d
	}
}

// NewEngine creates a similarity engine. A nil embedder selects the lexical
// fallback for every call.
func NewEngine(embedder Embedder, opts ...Option) *Engine {
	e := &Engine{
		embedder: embedder,
		timeout:  defaultEmbedTimeout,
		cache:    make(map[string][]float32),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Score returns the similarity of a and b in [0, 1]. Empty input on either
// side scores 0. Identical non-empty input scores 1.0 on the lexical path
// and ≈1.0 on the embedding path.
func (e *Engine) Score(ctx context.Context, a, b string) float64 {
	if a == "" || b == "" {
		return 0.0
	}

	if e.embedder != nil {
		if va, vb, ok := e.embedPair(ctx, a, b); ok {
			return clamp01(Cosine(va, vb))
		}
	}

	return lexicalOverlap(a, b)
}

// embedPair resolves embeddings for both fragments, consulting the cache
// first and embedding the misses in a single batched call.
func (e *Engine) embedPair(ctx context.Context, a, b string) ([]float32, []float32, bool) {
	e.mu.RLock()
	va, okA := e.cache[a]
	vb, okB := e.cache[b]
	e.mu.RUnlock()

	var missing []string
	if !okA {
		missing = append(missing, a)
	}
	if !okB && b != a {
		missing = append(missing, b)
	}

	if len(missing) > 0 {
		embedCtx, cancel := context.WithTimeout(ctx, e.timeout)
		defer cancel()

		vectors, err := e.embedder.EmbedTexts(embedCtx, missing)
		if err != nil || len(vectors) != len(missing) {
			return nil, nil, false
		}

		e.mu.Lock()
		for i, text := range missing {
			if len(vectors[i]) == 0 {
				e.mu.Unlock()
				return nil, nil, false
			}
			e.cache[text] = vectors[i]
		}
		va = e.cache[a]
		vb = e.cache[b]
		e.mu.Unlock()
	}

	return va, vb, true
}

// lexicalOverlap is the fallback strategy: lowercase whitespace token sets,
// scored as |intersection| / max(|A|, |B|).
func lexicalOverlap(a, b string) float64 {
	setA := tokenSet(a)
	setB := tokenSet(b)
	if len(setA) == 0 || len(setB) == 0 {
		return 0.0
	}

	overlap := 0
	for tok := range setA {
		if _, ok := setB[tok]; ok {
			overlap++
		}
	}

	larger := len(setA)
	if len(setB) > larger {
		larger = len(setB)
	}

	return float64(overlap) / float64(larger)
}

func tokenSet(s string) map[string]struct{} {
	fields := strings.Fields(strings.ToLower(s))
	set := make(map[string]struct{}, len(fields))
	for _, f := range fields {
		set[f] = struct{}{}
	}
	return set
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

package sentence

import (
	"regexp"
	"strings"
)

const minSentenceLength = 20

var terminalPunct = regexp.MustCompile(`[.!?]+`)

// Extractor splits raw document text into candidate sentences.
//
// This is a best-effort heuristic segmenter: text is split after runs of
// sentence-terminal punctuation, so abbreviations and decimal points can
// produce fragments. Callers must tolerate fragments.
type Extractor struct {
	minLength int
}

// NewExtractor creates an extractor with the default filtering rules.
func NewExtractor() *Extractor {
	return &Extractor{minLength: minSentenceLength}
}

// Extract returns the sentences of text in source order. Each sentence keeps
// its terminal punctuation, mirroring linguistic segmenter boundaries.
// Candidates of minLength characters or fewer, and candidates that are
// entirely digits, are dropped. Empty text yields an empty slice.
func (e *Extractor) Extract(text string) []string {
	if strings.TrimSpace(text) == "" {
		return []string{}
	}

	sentences := make([]string, 0, 8)
	for _, c := range splitAfterTerminals(text) {
		c = strings.TrimSpace(c)
		if len(c) <= e.minLength {
			continue
		}
		if isAllDigits(strings.TrimRight(c, ".!?")) {
			continue
		}
		sentences = append(sentences, c)
	}

	return sentences
}

// splitAfterTerminals cuts text after every run of `.`, `!` or `?`, keeping
// the punctuation with the preceding sentence.
func splitAfterTerminals(text string) []string {
	bounds := terminalPunct.FindAllStringIndex(text, -1)

	var parts []string
	start := 0
	for _, b := range bounds {
		parts = append(parts, text[start:b[1]])
		start = b[1]
	}
	if start < len(text) {
		parts = append(parts, text[start:])
	}
	return parts
}

func isAllDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

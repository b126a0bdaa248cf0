package contradiction

import (
	"regexp"
)

// The pattern tables below are data, not code: new numeric families,
// polarity pairs or antonym groups can be added without touching the
// detector control flow.

// numericPattern describes one family of numeric facts.
type numericPattern struct {
	// name becomes the contradiction subtype
	name string
	// re extracts the value in capture group 1
	re *regexp.Regexp
	// keywords anchor the value to its domain context
	keywords []string
}

var numericPatterns = []numericPattern{
	{
		name:     "time",
		re:       regexp.MustCompile(`(?i)\b(\d{1,2}:\d{2}\s*(?:AM|PM)?|\d{1,2}\s*(?:AM|PM))\b`),
		keywords: []string{"submit", "deadline", "due", "close", "open", "start", "end"},
	},
	{
		name: "percentage",
		// No trailing \b: a word boundary cannot follow '%' before
		// whitespace or punctuation, which is where percentages end.
		re:       regexp.MustCompile(`(?i)\b(\d+(?:\.\d+)?%)`),
		keywords: []string{"attendance", "minimum", "required", "pass", "fail"},
	},
	{
		name:     "duration_weeks",
		re:       regexp.MustCompile(`(?i)\b(\d+)\s*weeks?\b`),
		keywords: []string{"notice", "leave", "vacation", "break"},
	},
	{
		name:     "duration_days",
		re:       regexp.MustCompile(`(?i)\b(\d+)\s*days?\b`),
		keywords: []string{"notice", "leave", "vacation", "break"},
	},
	{
		name:     "attendance",
		re:       regexp.MustCompile(`(?i)attendance[:\s]*(\d+(?:\.\d+)?%)`),
		keywords: []string{"required", "minimum", "mandatory"},
	},
}

// polarityPair matches statements using opposite obligation vocabulary.
type polarityPair struct {
	positive *regexp.Regexp
	negative *regexp.Regexp
}

var polarityPairs = []polarityPair{
	{
		positive: regexp.MustCompile(`(?i)\bmust\b`),
		negative: regexp.MustCompile(`(?i)\bmust not\b|\bforbidden\b|\bprohibited\b`),
	},
	{
		positive: regexp.MustCompile(`(?i)\brequired\b`),
		negative: regexp.MustCompile(`(?i)\boptional\b|\bnot required\b`),
	},
	{
		positive: regexp.MustCompile(`(?i)\bmandatory\b`),
		negative: regexp.MustCompile(`(?i)\bvoluntary\b|\boptional\b`),
	},
	{
		positive: regexp.MustCompile(`(?i)\ballowed\b`),
		negative: regexp.MustCompile(`(?i)\bnot allowed\b|\bforbidden\b`),
	},
}

// policyKeywords mark a sentence as stating a policy, rule or procedure.
var policyKeywords = []string{"policy", "rule", "regulation", "procedure", "guideline"}

// antonymGroup pairs obligation vocabulary with its negation vocabulary.
// Matching is substring-based over lowercased sentences, so inflected
// forms ("requires", "allows") match their stems.
type antonymGroup struct {
	positive []string
	negative []string
}

var antonymGroups = []antonymGroup{
	{
		positive: []string{"allow", "permit", "enable"},
		negative: []string{"forbid", "prohibit", "disable", "prevent"},
	},
	{
		positive: []string{"require", "mandatory", "must"},
		negative: []string{"optional", "voluntary", "may"},
	},
	{
		positive: []string{"include", "add"},
		negative: []string{"exclude", "remove", "eliminate"},
	},
}

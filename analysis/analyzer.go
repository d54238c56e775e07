package analysis

import "strings"

// Analyzer converts field text into index/query tokens.
type Analyzer interface {
	Analyze(text string) []string
}

// Whitespace is the default analyzer: it lowercases the input and splits
// on Unicode whitespace. No stemming, no stopword removal; common terms
// are expected to be handled at query time by frequency classification.
type Whitespace struct{}

// Analyze implements Analyzer.
func (Whitespace) Analyze(text string) []string {
	return strings.Fields(strings.ToLower(text))
}

// Default is the analyzer used when none is configured.
var Default Analyzer = Whitespace{}

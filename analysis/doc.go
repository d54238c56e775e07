// Package analysis provides the tokenizers used to turn document and query
// text into terms.
//
// Only a simple lowercase/whitespace analyzer is built in. Implement the
// Analyzer interface for custom tokenization:
//
//	type Analyzer interface {
//	    Analyze(text string) []string
//	}
package analysis

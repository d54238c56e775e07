package model

import (
	"fmt"
)

// SegmentID is the unique identifier for a segment within an engine.
type SegmentID uint64

// DocID is the global, snapshot-wide document identifier. It is the
// segment-local row id plus the owning segment's doc base.
type DocID uint32

// Term identifies a single postings list: one token in one field.
// Terms are immutable values; equality is structural.
type Term struct {
	Field string
	Text  string
}

// NewTerm creates a Term for the given field and text.
func NewTerm(field, text string) Term {
	return Term{Field: field, Text: text}
}

// IsZero reports whether the term is the zero value. Zero terms are
// rejected by query builders.
func (t Term) IsZero() bool {
	return t.Field == "" && t.Text == ""
}

// String returns the canonical "field:text" rendering.
func (t Term) String() string {
	return fmt.Sprintf("%s:%s", t.Field, t.Text)
}

// Candidate is a single search hit.
type Candidate struct {
	// DocID is the global document id of the match.
	DocID DocID
	// Score is the similarity score (higher is better).
	Score float32
}

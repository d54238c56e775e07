package search

import (
	"github.com/hupe1980/lexgo/model"
)

// TermQuery matches all documents containing a single term. It is the
// leaf of every query tree.
//
// A TermQuery may carry TermStates collected during rewriting. The states
// act as per-segment lookup tokens so execution does not re-seek the term
// dictionary; they do not participate in equality or hashing.
type TermQuery struct {
	term   model.Term
	boost  float64
	states *TermStates
}

// NewTermQuery creates a TermQuery for the given term.
func NewTermQuery(term model.Term) *TermQuery {
	return &TermQuery{term: term, boost: 1.0}
}

// newTermQueryWithStates creates a TermQuery carrying pre-collected
// statistics. states may be nil.
func newTermQueryWithStates(term model.Term, states *TermStates) *TermQuery {
	return &TermQuery{term: term, boost: 1.0, states: states}
}

// WithBoost returns a copy of the query with the given boost.
func (q *TermQuery) WithBoost(boost float64) *TermQuery {
	cp := *q
	cp.boost = boost
	return &cp
}

// Term returns the query term.
func (q *TermQuery) Term() model.Term {
	return q.term
}

// Boost implements Query.
func (q *TermQuery) Boost() float64 {
	return q.boost
}

// States returns the per-snapshot statistics attached during rewriting,
// or nil when none were collected.
func (q *TermQuery) States() *TermStates {
	return q.states
}

// String implements Query.
func (q *TermQuery) String() string {
	return q.term.String() + boostSuffix(q.boost)
}

// Equal implements Query. Attached TermStates are an execution detail and
// are ignored.
func (q *TermQuery) Equal(other Query) bool {
	o, ok := other.(*TermQuery)
	if !ok {
		return false
	}
	return q.term == o.term && q.boost == o.boost
}

// Hash implements Query.
func (q *TermQuery) Hash() uint64 {
	h := newHasher()
	h.str("TermQuery")
	h.str(q.term.Field)
	h.str(q.term.Text)
	h.f64(q.boost)
	return h.sum()
}

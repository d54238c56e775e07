package search

import (
	"slices"
	"strconv"
	"strings"
)

// BooleanClause pairs a sub-query with its occurrence kind.
type BooleanClause struct {
	Query Query
	Occur Occur
}

// BooleanQuery combines sub-queries with MUST/SHOULD/MUST_NOT semantics,
// an optional minimum number of SHOULD clauses that must match, and an
// optional coordination-scoring disable flag. BooleanQuery values are
// immutable; construct them with Bool.
type BooleanQuery struct {
	clauses        []BooleanClause
	minShouldMatch int
	disableCoord   bool
	boost          float64
}

// Bool returns an empty boolean query builder.
//
// The builder is immutable in the style of the engine builders: each
// method returns a new builder with the updated configuration.
func Bool() BoolBuilder {
	return BoolBuilder{boost: 1.0}
}

// BoolBuilder is an immutable fluent builder for BooleanQuery.
type BoolBuilder struct {
	clauses        []BooleanClause
	minShouldMatch int
	disableCoord   bool
	boost          float64
}

// Add appends a clause.
func (b BoolBuilder) Add(q Query, occur Occur) BoolBuilder {
	b.clauses = append(slices.Clip(b.clauses), BooleanClause{Query: q, Occur: occur})
	return b
}

// MinShouldMatch sets the minimum number of SHOULD clauses that must match.
func (b BoolBuilder) MinShouldMatch(n int) BoolBuilder {
	b.minShouldMatch = n
	return b
}

// DisableCoord disables the coordination factor for this node's scoring.
func (b BoolBuilder) DisableCoord(disable bool) BoolBuilder {
	b.disableCoord = disable
	return b
}

// Boost sets the score multiplier applied to the whole node.
func (b BoolBuilder) Boost(boost float64) BoolBuilder {
	b.boost = boost
	return b
}

// Build returns the immutable BooleanQuery.
func (b BoolBuilder) Build() *BooleanQuery {
	return &BooleanQuery{
		clauses:        slices.Clone(b.clauses),
		minShouldMatch: b.minShouldMatch,
		disableCoord:   b.disableCoord,
		boost:          b.boost,
	}
}

// Clauses returns a copy of the clause list.
func (q *BooleanQuery) Clauses() []BooleanClause {
	return slices.Clone(q.clauses)
}

// MinimumNumberShouldMatch returns the minimum number of SHOULD clauses
// that must match.
func (q *BooleanQuery) MinimumNumberShouldMatch() int {
	return q.minShouldMatch
}

// CoordDisabled reports whether coordination scoring is disabled for this
// node.
func (q *BooleanQuery) CoordDisabled() bool {
	return q.disableCoord
}

// Boost implements Query.
func (q *BooleanQuery) Boost() float64 {
	return q.boost
}

// String implements Query.
func (q *BooleanQuery) String() string {
	var sb strings.Builder
	needParens := q.boost != 1.0 || q.minShouldMatch > 0
	if needParens {
		sb.WriteByte('(')
	}
	for i, c := range q.clauses {
		if i > 0 {
			sb.WriteByte(' ')
		}
		switch c.Occur {
		case OccurMust:
			sb.WriteByte('+')
		case OccurMustNot:
			sb.WriteByte('-')
		}
		if _, ok := c.Query.(*BooleanQuery); ok {
			sb.WriteByte('(')
			sb.WriteString(c.Query.String())
			sb.WriteByte(')')
		} else {
			sb.WriteString(c.Query.String())
		}
	}
	if needParens {
		sb.WriteByte(')')
	}
	if q.minShouldMatch > 0 {
		sb.WriteByte('~')
		sb.WriteString(strconv.Itoa(q.minShouldMatch))
	}
	sb.WriteString(boostSuffix(q.boost))
	return sb.String()
}

// Equal implements Query. Clause order is significant.
func (q *BooleanQuery) Equal(other Query) bool {
	o, ok := other.(*BooleanQuery)
	if !ok {
		return false
	}
	if q.minShouldMatch != o.minShouldMatch ||
		q.disableCoord != o.disableCoord ||
		q.boost != o.boost ||
		len(q.clauses) != len(o.clauses) {
		return false
	}
	for i, c := range q.clauses {
		if c.Occur != o.clauses[i].Occur || !c.Query.Equal(o.clauses[i].Query) {
			return false
		}
	}
	return true
}

// Hash implements Query.
func (q *BooleanQuery) Hash() uint64 {
	h := newHasher()
	h.str("BooleanQuery")
	h.u64(uint64(q.minShouldMatch))
	h.boolean(q.disableCoord)
	h.f64(q.boost)
	for _, c := range q.clauses {
		h.u64(uint64(c.Occur))
		h.u64(c.Query.Hash())
	}
	return h.sum()
}

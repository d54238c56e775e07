package search

import (
	"fmt"
	"math"
	"slices"
	"strconv"
	"strings"

	"github.com/hupe1980/lexgo/index"
	"github.com/hupe1980/lexgo/model"
)

// CommonTermsQuery executes high-frequency terms in an optional sub-query
// to prevent slow queries due to common terms like stopwords. From the
// added terms it builds two groups: low-frequency terms gate matching in a
// required clause, high-frequency terms only refine scoring in an optional
// clause that is evaluated when the required group already matches.
//
// Classification is based on the actual document frequency in the
// snapshot, so common terms are caught per corpus without stopword lists.
// If the query contains only high-frequency terms it is rewritten into a
// plain conjunction: all common terms must match.
//
// CommonTermsQuery is immutable; build it with CommonTerms. Rewrite
// produces the executable plan for one snapshot.
type CommonTermsQuery struct {
	terms                  []model.Term
	highFreqOccur          Occur
	lowFreqOccur           Occur
	maxTermFrequency       float64
	disableCoord           bool
	lowFreqBoost           float64
	highFreqBoost          float64
	lowFreqMinShouldMatch  float64
	highFreqMinShouldMatch float64
	boost                  float64
}

// CommonTerms returns a builder for a CommonTermsQuery.
//
// highFreqOccur and lowFreqOccur select how terms of each group combine
// within their group and must be OccurMust or OccurShould. maxTermFrequency
// is the classification threshold: a value in [0,1) is a fraction of the
// snapshot's document count, a value >= 1 is an absolute document
// frequency. In both modes a term is high-frequency only when its document
// frequency strictly exceeds the threshold.
func CommonTerms(highFreqOccur, lowFreqOccur Occur, maxTermFrequency float64) CommonTermsBuilder {
	return CommonTermsBuilder{
		highFreqOccur:    highFreqOccur,
		lowFreqOccur:     lowFreqOccur,
		maxTermFrequency: maxTermFrequency,
		lowFreqBoost:     1.0,
		highFreqBoost:    1.0,
		boost:            1.0,
	}
}

// CommonTermsBuilder is an immutable fluent builder for CommonTermsQuery.
// Each method returns a new builder with the updated configuration; Build
// validates and returns the final immutable query.
type CommonTermsBuilder struct {
	terms                  []model.Term
	highFreqOccur          Occur
	lowFreqOccur           Occur
	maxTermFrequency       float64
	disableCoord           bool
	lowFreqBoost           float64
	highFreqBoost          float64
	lowFreqMinShouldMatch  float64
	highFreqMinShouldMatch float64
	boost                  float64
}

// Add appends query terms. Term order is preserved and significant for
// equality and rendering.
func (b CommonTermsBuilder) Add(terms ...model.Term) CommonTermsBuilder {
	b.terms = append(slices.Clip(b.terms), terms...)
	return b
}

// DisableCoord disables coordination scoring inside the low and high
// frequency groups. The top level of the rewritten query always has
// coordination disabled, independent of this setting.
func (b CommonTermsBuilder) DisableCoord(disable bool) CommonTermsBuilder {
	b.disableCoord = disable
	return b
}

// LowFreqBoost sets the boost applied to the low-frequency group.
func (b CommonTermsBuilder) LowFreqBoost(boost float64) CommonTermsBuilder {
	b.lowFreqBoost = boost
	return b
}

// HighFreqBoost sets the boost applied to the high-frequency group.
func (b CommonTermsBuilder) HighFreqBoost(boost float64) CommonTermsBuilder {
	b.highFreqBoost = boost
	return b
}

// LowFreqMinShouldMatch sets the minimum number of optional low-frequency
// clauses that must match. A value in (0,1) is a fraction of the group
// size (rounded half up), a value >= 1 an absolute count.
func (b CommonTermsBuilder) LowFreqMinShouldMatch(min float64) CommonTermsBuilder {
	b.lowFreqMinShouldMatch = min
	return b
}

// HighFreqMinShouldMatch sets the minimum number of optional
// high-frequency clauses that must match, with the same dual
// interpretation as LowFreqMinShouldMatch.
func (b CommonTermsBuilder) HighFreqMinShouldMatch(min float64) CommonTermsBuilder {
	b.highFreqMinShouldMatch = min
	return b
}

// Boost sets the top-level boost.
func (b CommonTermsBuilder) Boost(boost float64) CommonTermsBuilder {
	b.boost = boost
	return b
}

// Build validates the configuration and returns the immutable query.
func (b CommonTermsBuilder) Build() (*CommonTermsQuery, error) {
	if b.highFreqOccur == OccurMustNot {
		return nil, fmt.Errorf("%w: highFreqOccur should be MUST or SHOULD but was MUST_NOT", ErrIllegalOccur)
	}
	if b.lowFreqOccur == OccurMustNot {
		return nil, fmt.Errorf("%w: lowFreqOccur should be MUST or SHOULD but was MUST_NOT", ErrIllegalOccur)
	}
	for _, t := range b.terms {
		if t.IsZero() {
			return nil, ErrZeroTerm
		}
	}
	return &CommonTermsQuery{
		terms:                  slices.Clone(b.terms),
		highFreqOccur:          b.highFreqOccur,
		lowFreqOccur:           b.lowFreqOccur,
		maxTermFrequency:       b.maxTermFrequency,
		disableCoord:           b.disableCoord,
		lowFreqBoost:           b.lowFreqBoost,
		highFreqBoost:          b.highFreqBoost,
		lowFreqMinShouldMatch:  b.lowFreqMinShouldMatch,
		highFreqMinShouldMatch: b.highFreqMinShouldMatch,
		boost:                  b.boost,
	}, nil
}

// Terms returns a copy of the query terms in insertion order.
func (q *CommonTermsQuery) Terms() []model.Term {
	return slices.Clone(q.terms)
}

// HighFreqOccur returns the occurrence kind configured for the
// high-frequency group.
func (q *CommonTermsQuery) HighFreqOccur() Occur {
	return q.highFreqOccur
}

// LowFreqOccur returns the occurrence kind configured for the
// low-frequency group.
func (q *CommonTermsQuery) LowFreqOccur() Occur {
	return q.lowFreqOccur
}

// MaxTermFrequency returns the classification threshold.
func (q *CommonTermsQuery) MaxTermFrequency() float64 {
	return q.maxTermFrequency
}

// CoordDisabled reports whether coordination scoring is disabled inside
// the two frequency groups. The rewritten top level always disables
// coordination.
func (q *CommonTermsQuery) CoordDisabled() bool {
	return q.disableCoord
}

// LowFreqMinShouldMatch returns the configured low-frequency
// minimum-should-match specification.
func (q *CommonTermsQuery) LowFreqMinShouldMatch() float64 {
	return q.lowFreqMinShouldMatch
}

// HighFreqMinShouldMatch returns the configured high-frequency
// minimum-should-match specification.
func (q *CommonTermsQuery) HighFreqMinShouldMatch() float64 {
	return q.highFreqMinShouldMatch
}

// Boost implements Query.
func (q *CommonTermsQuery) Boost() float64 {
	return q.boost
}

// Rewrite transforms the query into its executable two-tier plan for the
// given snapshot.
//
// An empty term list rewrites to MatchNoDocsQuery. A single term rewrites
// to a plain TermQuery carrying the top-level boost, bypassing
// classification. Otherwise term statistics are collected in one
// sequential pass over the snapshot's segments and the two-tier boolean
// plan is assembled. An index read failure aborts the rewrite.
func (q *CommonTermsQuery) Rewrite(snap *index.Snapshot) (Query, error) {
	switch len(q.terms) {
	case 0:
		return NewMatchNoDocsQuery(), nil
	case 1:
		return NewTermQuery(q.terms[0]).WithBoost(q.boost), nil
	}

	states, err := CollectTermStates(snap, q.terms)
	if err != nil {
		return nil, err
	}
	return q.buildRewritten(snap.MaxDoc(), states), nil
}

// isHighFreq applies the classification rule. maxTermFrequency >= 1 is an
// absolute threshold compared against the raw float value without
// rounding; below 1 it is a fraction of maxDoc, rounded up. Both
// comparisons are strict: frequency equal to the threshold is
// low-frequency.
func (q *CommonTermsQuery) isHighFreq(docFreq, maxDoc int) bool {
	if q.maxTermFrequency >= 1 {
		return float64(docFreq) > q.maxTermFrequency
	}
	return docFreq > int(math.Ceil(q.maxTermFrequency*float64(maxDoc)))
}

// resolveMinShouldMatch converts a min-should-match specification into a
// concrete clause count for a group of the given size. Values >= 1 and the
// zero value are truncated; fractions are scaled by the group size and
// rounded half up.
func resolveMinShouldMatch(spec float64, groupSize int) int {
	if spec >= 1 || spec == 0 {
		return int(spec)
	}
	return int(math.Floor(spec*float64(groupSize) + 0.5))
}

func (q *CommonTermsQuery) buildRewritten(maxDoc int, states []*TermStates) Query {
	var lowFreq, highFreq []*TermQuery
	for i, term := range q.terms {
		ts := states[i]
		switch {
		case ts == nil:
			// Never observed in any segment: cheap to evaluate and
			// possibly meaningful, so it gates matching.
			lowFreq = append(lowFreq, NewTermQuery(term))
		case q.isHighFreq(ts.DocFreq(), maxDoc):
			highFreq = append(highFreq, newTermQueryWithStates(term, ts))
		default:
			lowFreq = append(lowFreq, newTermQueryWithStates(term, ts))
		}
	}

	lowFreqOccur := q.lowFreqOccur
	highFreqOccur := q.highFreqOccur

	var lowFreqMSM, highFreqMSM int
	if lowFreqOccur == OccurShould && len(lowFreq) > 0 {
		lowFreqMSM = resolveMinShouldMatch(q.lowFreqMinShouldMatch, len(lowFreq))
	}
	if highFreqOccur == OccurShould && len(highFreq) > 0 {
		highFreqMSM = resolveMinShouldMatch(q.highFreqMinShouldMatch, len(highFreq))
	}

	if len(lowFreq) == 0 {
		// Only common terms remain. An all-optional disjunction would let
		// any single stopword admit a document, so rewrite the high
		// frequency terms into a conjunction.
		if highFreqMSM == 0 && highFreqOccur != OccurMust {
			highFreqOccur = OccurMust
		}
	}

	top := Bool().DisableCoord(true).Boost(q.boost)

	if len(lowFreq) > 0 {
		group := Bool().
			DisableCoord(q.disableCoord).
			MinShouldMatch(lowFreqMSM).
			Boost(q.lowFreqBoost)
		for _, tq := range lowFreq {
			group = group.Add(tq, lowFreqOccur)
		}
		top = top.Add(group.Build(), OccurMust)
	}
	if len(highFreq) > 0 {
		group := Bool().
			DisableCoord(q.disableCoord).
			MinShouldMatch(highFreqMSM).
			Boost(q.highFreqBoost)
		for _, tq := range highFreq {
			group = group.Add(tq, highFreqOccur)
		}
		top = top.Add(group.Build(), OccurShould)
	}

	return top.Build()
}

// String implements Query: the member terms joined with ", ", wrapped in
// parentheses when a boost or low-frequency minimum-should-match is set,
// followed by a "~(low,high)" suffix when either minimum-should-match
// specification is non-zero and the usual boost suffix.
func (q *CommonTermsQuery) String() string {
	var sb strings.Builder
	needParens := q.boost != 1.0 || q.lowFreqMinShouldMatch > 0
	if needParens {
		sb.WriteByte('(')
	}
	for i, term := range q.terms {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(term.String())
	}
	if needParens {
		sb.WriteByte(')')
	}
	if q.lowFreqMinShouldMatch > 0 || q.highFreqMinShouldMatch > 0 {
		sb.WriteString("~(")
		sb.WriteString(strconv.FormatFloat(q.lowFreqMinShouldMatch, 'g', -1, 64))
		sb.WriteByte(',')
		sb.WriteString(strconv.FormatFloat(q.highFreqMinShouldMatch, 'g', -1, 64))
		sb.WriteByte(')')
	}
	sb.WriteString(boostSuffix(q.boost))
	return sb.String()
}

// Equal implements Query. It is sensitive to every configuration field
// and to term insertion order: the same terms added in a different order
// compare unequal.
func (q *CommonTermsQuery) Equal(other Query) bool {
	o, ok := other.(*CommonTermsQuery)
	if !ok {
		return false
	}
	return q.highFreqOccur == o.highFreqOccur &&
		q.lowFreqOccur == o.lowFreqOccur &&
		q.maxTermFrequency == o.maxTermFrequency &&
		q.disableCoord == o.disableCoord &&
		q.lowFreqBoost == o.lowFreqBoost &&
		q.highFreqBoost == o.highFreqBoost &&
		q.lowFreqMinShouldMatch == o.lowFreqMinShouldMatch &&
		q.highFreqMinShouldMatch == o.highFreqMinShouldMatch &&
		q.boost == o.boost &&
		slices.Equal(q.terms, o.terms)
}

// Hash implements Query.
func (q *CommonTermsQuery) Hash() uint64 {
	h := newHasher()
	h.str("CommonTermsQuery")
	h.u64(uint64(q.highFreqOccur))
	h.u64(uint64(q.lowFreqOccur))
	h.f64(q.maxTermFrequency)
	h.boolean(q.disableCoord)
	h.f64(q.lowFreqBoost)
	h.f64(q.highFreqBoost)
	h.f64(q.lowFreqMinShouldMatch)
	h.f64(q.highFreqMinShouldMatch)
	h.f64(q.boost)
	for _, t := range q.terms {
		h.str(t.Field)
		h.str(t.Text)
	}
	return h.sum()
}

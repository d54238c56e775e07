package search

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/lexgo/index"
	"github.com/hupe1980/lexgo/model"
)

func buildSegment(t *testing.T, id model.SegmentID, docBase model.DocID, docs ...string) *index.Segment {
	t.Helper()
	w := index.NewWriter()
	for _, d := range docs {
		w.AddDocument(map[string][]string{"body": strings.Fields(d)})
	}
	return w.Flush(id, docBase)
}

func buildSnapshot(t *testing.T, docs ...string) *index.Snapshot {
	t.Helper()
	return index.NewSnapshot(buildSegment(t, 0, 0, docs...))
}

// The four-document corpus used throughout: "w1" occurs in all four
// documents, "xx" in two.
func testCorpus(t *testing.T) *index.Snapshot {
	t.Helper()
	return buildSnapshot(t,
		"w1 w2 w3 w4 w5",
		"w1 w3 w2 w3 zz",
		"w1 xx w2 yy w3",
		"w1 w3 xx w2 yy w3 zz",
	)
}

func body(text string) model.Term {
	return model.NewTerm("body", text)
}

func TestCommonTermsBuilder_Validation(t *testing.T) {
	_, err := CommonTerms(OccurMustNot, OccurMust, 0.5).Build()
	assert.ErrorIs(t, err, ErrIllegalOccur)

	_, err = CommonTerms(OccurShould, OccurMustNot, 0.5).Build()
	assert.ErrorIs(t, err, ErrIllegalOccur)

	_, err = CommonTerms(OccurShould, OccurMust, 0.5).Add(model.Term{}).Build()
	assert.ErrorIs(t, err, ErrZeroTerm)

	q, err := CommonTerms(OccurShould, OccurMust, 0.5).Add(body("w1")).Build()
	require.NoError(t, err)
	assert.Equal(t, OccurShould, q.HighFreqOccur())
	assert.Equal(t, OccurMust, q.LowFreqOccur())
}

func TestCommonTermsBuilder_Immutable(t *testing.T) {
	base := CommonTerms(OccurShould, OccurMust, 0.5).Add(body("w1"))

	q1, err := base.Add(body("xx")).Build()
	require.NoError(t, err)
	q2, err := base.Add(body("zz")).Build()
	require.NoError(t, err)

	assert.Equal(t, []model.Term{body("w1"), body("xx")}, q1.Terms())
	assert.Equal(t, []model.Term{body("w1"), body("zz")}, q2.Terms())
}

func TestResolveMinShouldMatch(t *testing.T) {
	tests := []struct {
		spec      float64
		groupSize int
		want      int
	}{
		{spec: 0.5, groupSize: 4, want: 2},
		{spec: 2.0, groupSize: 1, want: 2},
		{spec: 2.0, groupSize: 100, want: 2},
		{spec: 0, groupSize: 7, want: 0},
		{spec: 0.25, groupSize: 2, want: 1}, // 0.5 rounds half up
		{spec: 0.1, groupSize: 4, want: 0},
		{spec: 1.0, groupSize: 3, want: 1},
		{spec: 2.5, groupSize: 10, want: 2}, // >= 1 truncates
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, resolveMinShouldMatch(tt.spec, tt.groupSize), "resolve(%v, %d)", tt.spec, tt.groupSize)
	}
}

func TestCommonTermsQuery_RewriteEmpty(t *testing.T) {
	snap := testCorpus(t)

	q, err := CommonTerms(OccurShould, OccurMust, 0.5).Build()
	require.NoError(t, err)

	rewritten, err := q.Rewrite(snap)
	require.NoError(t, err)
	assert.IsType(t, &MatchNoDocsQuery{}, rewritten)
}

func TestCommonTermsQuery_RewriteSingleTerm(t *testing.T) {
	snap := testCorpus(t)

	q, err := CommonTerms(OccurShould, OccurMust, 0.5).
		Add(body("w1")).
		Boost(2.5).
		Build()
	require.NoError(t, err)

	rewritten, err := q.Rewrite(snap)
	require.NoError(t, err)

	tq, ok := rewritten.(*TermQuery)
	require.True(t, ok)
	assert.Equal(t, body("w1"), tq.Term())
	assert.Equal(t, 2.5, tq.Boost())
}

// groups extracts the low (MUST child) and high (SHOULD child) groups of a
// rewritten two-tier plan.
func groups(t *testing.T, q Query) (low, high *BooleanQuery) {
	t.Helper()
	top, ok := q.(*BooleanQuery)
	require.True(t, ok)
	assert.True(t, top.CoordDisabled(), "top level must disable coord")
	for _, c := range top.Clauses() {
		inner, ok := c.Query.(*BooleanQuery)
		require.True(t, ok)
		switch c.Occur {
		case OccurMust:
			low = inner
		case OccurShould:
			high = inner
		}
	}
	return low, high
}

func groupTerms(t *testing.T, q *BooleanQuery) []model.Term {
	t.Helper()
	var terms []model.Term
	for _, c := range q.Clauses() {
		tq, ok := c.Query.(*TermQuery)
		require.True(t, ok)
		terms = append(terms, tq.Term())
	}
	return terms
}

func TestCommonTermsQuery_FractionalClassification(t *testing.T) {
	snap := testCorpus(t) // maxDoc=4, threshold ceil(0.5*4)=2

	q, err := CommonTerms(OccurShould, OccurMust, 0.5).
		Add(body("w1"), body("xx")).
		Build()
	require.NoError(t, err)

	rewritten, err := q.Rewrite(snap)
	require.NoError(t, err)

	low, high := groups(t, rewritten)
	require.NotNil(t, low)
	require.NotNil(t, high)

	// w1: df=4 > 2 -> high; xx: df=2, not > 2 -> low
	assert.Equal(t, []model.Term{body("xx")}, groupTerms(t, low))
	assert.Equal(t, []model.Term{body("w1")}, groupTerms(t, high))

	for _, c := range low.Clauses() {
		assert.Equal(t, OccurMust, c.Occur)
	}
	for _, c := range high.Clauses() {
		assert.Equal(t, OccurShould, c.Occur)
	}
}

func TestCommonTermsQuery_AbsoluteClassification(t *testing.T) {
	snap := testCorpus(t)

	// df(w1)=4, df(w3)=4 (in 4 docs? w3 occurs in docs 0,1,2,3), df(xx)=2, df(w4)=1
	q, err := CommonTerms(OccurShould, OccurMust, 2.0).
		Add(body("w1"), body("xx"), body("w4")).
		Build()
	require.NoError(t, err)

	rewritten, err := q.Rewrite(snap)
	require.NoError(t, err)

	low, high := groups(t, rewritten)
	require.NotNil(t, low)
	require.NotNil(t, high)

	// strict >: df=2 equals the threshold and stays low-frequency
	assert.Equal(t, []model.Term{body("xx"), body("w4")}, groupTerms(t, low))
	assert.Equal(t, []model.Term{body("w1")}, groupTerms(t, high))
}

func TestCommonTermsQuery_NonIntegralAbsoluteThreshold(t *testing.T) {
	snap := testCorpus(t)

	// df(xx)=2 is not > 2.5, df(w1)=4 is. The raw float comparison is
	// preserved, no rounding.
	q, err := CommonTerms(OccurShould, OccurMust, 2.5).
		Add(body("w1"), body("xx")).
		Build()
	require.NoError(t, err)

	rewritten, err := q.Rewrite(snap)
	require.NoError(t, err)

	low, high := groups(t, rewritten)
	assert.Equal(t, []model.Term{body("xx")}, groupTerms(t, low))
	assert.Equal(t, []model.Term{body("w1")}, groupTerms(t, high))
}

func TestCommonTermsQuery_AbsentTermIsLowFrequency(t *testing.T) {
	snap := testCorpus(t)

	q, err := CommonTerms(OccurShould, OccurMust, 0.5).
		Add(body("w1"), body("missing")).
		Build()
	require.NoError(t, err)

	rewritten, err := q.Rewrite(snap)
	require.NoError(t, err)

	low, high := groups(t, rewritten)
	require.NotNil(t, low)
	require.NotNil(t, high)
	assert.Equal(t, []model.Term{body("missing")}, groupTerms(t, low))

	// Absent terms carry no states token.
	tq := low.Clauses()[0].Query.(*TermQuery)
	assert.Nil(t, tq.States())
	// High-frequency terms keep their collected states.
	tq = high.Clauses()[0].Query.(*TermQuery)
	require.NotNil(t, tq.States())
	assert.Equal(t, 4, tq.States().DocFreq())
}

func TestCommonTermsQuery_PartitionComplete(t *testing.T) {
	snap := testCorpus(t)

	terms := []model.Term{body("w1"), body("w2"), body("xx"), body("yy"), body("missing"), body("zz")}
	q, err := CommonTerms(OccurShould, OccurMust, 0.5).Add(terms...).Build()
	require.NoError(t, err)

	rewritten, err := q.Rewrite(snap)
	require.NoError(t, err)

	low, high := groups(t, rewritten)
	var all []model.Term
	if low != nil {
		all = append(all, groupTerms(t, low)...)
	}
	if high != nil {
		all = append(all, groupTerms(t, high)...)
	}
	assert.Len(t, all, len(terms))
	assert.ElementsMatch(t, terms, all)
}

func TestCommonTermsQuery_DegenerateCollapse(t *testing.T) {
	snap := testCorpus(t)

	// All query terms are high-frequency: df(w1)=4, df(w2)=4, threshold 2.
	q, err := CommonTerms(OccurShould, OccurMust, 0.5).
		Add(body("w1"), body("w2")).
		Build()
	require.NoError(t, err)

	rewritten, err := q.Rewrite(snap)
	require.NoError(t, err)

	low, high := groups(t, rewritten)
	assert.Nil(t, low)
	require.NotNil(t, high)

	// The optional disjunction of common terms collapses to a conjunction.
	for _, c := range high.Clauses() {
		assert.Equal(t, OccurMust, c.Occur)
	}
}

func TestCommonTermsQuery_NoCollapseWithMinShouldMatch(t *testing.T) {
	snap := testCorpus(t)

	q, err := CommonTerms(OccurShould, OccurMust, 0.5).
		Add(body("w1"), body("w2")).
		HighFreqMinShouldMatch(2).
		Build()
	require.NoError(t, err)

	rewritten, err := q.Rewrite(snap)
	require.NoError(t, err)

	low, high := groups(t, rewritten)
	assert.Nil(t, low)
	require.NotNil(t, high)
	assert.Equal(t, 2, high.MinimumNumberShouldMatch())
	for _, c := range high.Clauses() {
		assert.Equal(t, OccurShould, c.Occur)
	}
}

func TestCommonTermsQuery_MinShouldMatchPerGroupSize(t *testing.T) {
	snap := testCorpus(t)

	// Low group: xx, yy, zz, missing (4 terms); high group: w1, w2.
	q, err := CommonTerms(OccurShould, OccurShould, 0.5).
		Add(body("xx"), body("yy"), body("zz"), body("missing"), body("w1"), body("w2")).
		LowFreqMinShouldMatch(0.5).
		HighFreqMinShouldMatch(0.5).
		Build()
	require.NoError(t, err)

	rewritten, err := q.Rewrite(snap)
	require.NoError(t, err)

	low, high := groups(t, rewritten)
	require.NotNil(t, low)
	require.NotNil(t, high)

	// Each group resolves against its own size, never the total count.
	assert.Equal(t, 2, low.MinimumNumberShouldMatch())  // round(0.5*4)
	assert.Equal(t, 1, high.MinimumNumberShouldMatch()) // round(0.5*2)
}

func TestCommonTermsQuery_GroupBoostAndCoord(t *testing.T) {
	snap := testCorpus(t)

	q, err := CommonTerms(OccurShould, OccurMust, 0.5).
		Add(body("w1"), body("xx")).
		DisableCoord(true).
		LowFreqBoost(3).
		HighFreqBoost(0.5).
		Boost(2).
		Build()
	require.NoError(t, err)

	rewritten, err := q.Rewrite(snap)
	require.NoError(t, err)

	top := rewritten.(*BooleanQuery)
	assert.Equal(t, 2.0, top.Boost())
	assert.True(t, top.CoordDisabled())

	low, high := groups(t, rewritten)
	assert.Equal(t, 3.0, low.Boost())
	assert.True(t, low.CoordDisabled())
	assert.Equal(t, 0.5, high.Boost())
	assert.True(t, high.CoordDisabled())
}

func TestCommonTermsQuery_MultiSegmentStats(t *testing.T) {
	seg0 := buildSegment(t, 0, 0, "w1 xx", "w1")
	seg1 := buildSegment(t, 1, 2, "w1 w1 xx", "yy")
	snap := index.NewSnapshot(seg0, seg1)

	states, err := CollectTermStates(snap, []model.Term{body("w1"), body("xx"), body("missing")})
	require.NoError(t, err)

	// w1: df 2+1 across segments, ttf 2+2
	require.NotNil(t, states[0])
	assert.Equal(t, 3, states[0].DocFreq())
	assert.Equal(t, int64(4), states[0].TotalTermFreq())
	assert.NotNil(t, states[0].Postings(0))
	assert.NotNil(t, states[0].Postings(1))

	// xx: one doc per segment
	require.NotNil(t, states[1])
	assert.Equal(t, 2, states[1].DocFreq())

	// missing: no entry at all
	assert.Nil(t, states[2])
}

func TestCommonTermsQuery_RewriteFailsOnClosedSegment(t *testing.T) {
	seg := buildSegment(t, 0, 0, "w1 xx", "w1")
	snap := index.NewSnapshot(seg)
	seg.Close()

	q, err := CommonTerms(OccurShould, OccurMust, 0.5).
		Add(body("w1"), body("xx")).
		Build()
	require.NoError(t, err)

	_, err = q.Rewrite(snap)
	assert.ErrorIs(t, err, index.ErrSegmentClosed)
}

func TestCommonTermsQuery_OrderSensitivity(t *testing.T) {
	q1, err := CommonTerms(OccurShould, OccurMust, 0.5).
		Add(body("w1"), body("xx")).
		Build()
	require.NoError(t, err)

	q2, err := CommonTerms(OccurShould, OccurMust, 0.5).
		Add(body("xx"), body("w1")).
		Build()
	require.NoError(t, err)

	q3, err := CommonTerms(OccurShould, OccurMust, 0.5).
		Add(body("w1"), body("xx")).
		Build()
	require.NoError(t, err)

	assert.False(t, q1.Equal(q2))
	assert.NotEqual(t, q1.Hash(), q2.Hash())
	assert.True(t, q1.Equal(q3))
	assert.Equal(t, q1.Hash(), q3.Hash())
}

func TestCommonTermsQuery_EqualSensitiveToConfig(t *testing.T) {
	build := func(fn func(CommonTermsBuilder) CommonTermsBuilder) *CommonTermsQuery {
		b := CommonTerms(OccurShould, OccurMust, 0.5).Add(body("w1"), body("xx"))
		q, err := fn(b).Build()
		require.NoError(t, err)
		return q
	}

	base := build(func(b CommonTermsBuilder) CommonTermsBuilder { return b })

	variants := []*CommonTermsQuery{
		build(func(b CommonTermsBuilder) CommonTermsBuilder { return b.DisableCoord(true) }),
		build(func(b CommonTermsBuilder) CommonTermsBuilder { return b.LowFreqBoost(2) }),
		build(func(b CommonTermsBuilder) CommonTermsBuilder { return b.HighFreqBoost(2) }),
		build(func(b CommonTermsBuilder) CommonTermsBuilder { return b.LowFreqMinShouldMatch(0.5) }),
		build(func(b CommonTermsBuilder) CommonTermsBuilder { return b.HighFreqMinShouldMatch(0.5) }),
		build(func(b CommonTermsBuilder) CommonTermsBuilder { return b.Boost(2) }),
	}
	for i, v := range variants {
		assert.False(t, base.Equal(v), "variant %d must not equal base", i)
		assert.NotEqual(t, base.Hash(), v.Hash(), "variant %d hash must differ", i)
	}
}

func TestCommonTermsQuery_String(t *testing.T) {
	q, err := CommonTerms(OccurShould, OccurMust, 0.5).
		Add(body("w1"), body("xx")).
		Build()
	require.NoError(t, err)
	assert.Equal(t, "body:w1, body:xx", q.String())

	q, err = CommonTerms(OccurShould, OccurMust, 0.5).
		Add(body("w1"), body("xx")).
		LowFreqMinShouldMatch(0.5).
		HighFreqMinShouldMatch(2).
		Boost(2).
		Build()
	require.NoError(t, err)
	assert.Equal(t, "(body:w1, body:xx)~(0.5,2)^2", q.String())
}

func TestCommonTermsQuery_EndToEnd(t *testing.T) {
	snap := testCorpus(t)

	q, err := CommonTerms(OccurShould, OccurMust, 0.5).
		Add(body("w1"), body("xx")).
		Build()
	require.NoError(t, err)

	s := NewSearcher(snap)
	hits, err := s.Search(context.Background(), q, 10)
	require.NoError(t, err)

	// Only the documents containing the selective term "xx" match.
	var ids []model.DocID
	for _, h := range hits {
		ids = append(ids, h.DocID)
	}
	assert.ElementsMatch(t, []model.DocID{2, 3}, ids)
}

func TestCommonTermsQuery_EndToEndAllHighFreq(t *testing.T) {
	snap := buildSnapshot(t, "a b", "a b", "a b", "a")

	// df(a)=4 and df(b)=3 both exceed the absolute threshold 2, so both
	// terms are common. The collapsed conjunction requires every common
	// term to match: doc3 (missing "b") is excluded, which a plain
	// disjunction would have admitted.
	q, err := CommonTerms(OccurShould, OccurMust, 2.0).
		Add(body("a"), body("b")).
		Build()
	require.NoError(t, err)

	s := NewSearcher(snap)
	hits, err := s.Search(context.Background(), q, 10)
	require.NoError(t, err)

	var ids []model.DocID
	for _, h := range hits {
		ids = append(ids, h.DocID)
	}
	assert.ElementsMatch(t, []model.DocID{0, 1, 2}, ids)
}

package search

import (
	"context"
	"fmt"
	"math"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/hupe1980/lexgo/index"
	"github.com/hupe1980/lexgo/model"
)

// Searcher executes query plans over one immutable snapshot. Segments are
// evaluated independently and, when configured, in parallel; results are
// merged into a single top-k list. A Searcher holds no mutable state and
// is safe for concurrent use.
type Searcher struct {
	snap        *index.Snapshot
	concurrency int
}

// SearcherOption configures a Searcher.
type SearcherOption func(*Searcher)

// WithConcurrency sets the maximum number of segments evaluated in
// parallel. Values below 1 mean sequential evaluation.
func WithConcurrency(n int) SearcherOption {
	return func(s *Searcher) {
		s.concurrency = n
	}
}

// NewSearcher creates a Searcher over the given snapshot.
func NewSearcher(snap *index.Snapshot, optFns ...SearcherOption) *Searcher {
	s := &Searcher{
		snap:        snap,
		concurrency: 1,
	}
	for _, fn := range optFns {
		fn(s)
	}
	return s
}

// rewritable is implemented by queries that need a snapshot-specific
// rewrite before execution.
type rewritable interface {
	Rewrite(snap *index.Snapshot) (Query, error)
}

// Search rewrites the query against the searcher's snapshot, evaluates it
// per segment and returns the k best candidates ordered by descending
// score (ties broken by ascending doc id).
func (s *Searcher) Search(ctx context.Context, q Query, k int) ([]model.Candidate, error) {
	if k <= 0 {
		return nil, ErrInvalidK
	}

	for {
		r, ok := q.(rewritable)
		if !ok {
			break
		}
		rewritten, err := r.Rewrite(s.snap)
		if err != nil {
			return nil, err
		}
		if rewritten == q {
			break
		}
		q = rewritten
	}

	stats, err := s.collectStats(q)
	if err != nil {
		return nil, err
	}

	segments := s.snap.Segments()
	perSegment := make([][]model.Candidate, len(segments))

	g, ctx := errgroup.WithContext(ctx)
	if s.concurrency > 1 {
		g.SetLimit(s.concurrency)
	} else {
		g.SetLimit(1)
	}
	for ord, seg := range segments {
		ord, seg := ord, seg
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			matches, err := evalSegment(seg, ord, q, stats, s.snap.MaxDoc())
			if err != nil {
				return err
			}
			hits := make([]model.Candidate, 0, len(matches))
			for row, score := range matches {
				hits = append(hits, model.Candidate{
					DocID: seg.DocBase() + model.DocID(row),
					Score: float32(score),
				})
			}
			perSegment[ord] = hits
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var merged []model.Candidate
	for _, hits := range perSegment {
		merged = append(merged, hits...)
	}
	sort.Slice(merged, func(i, j int) bool {
		if merged[i].Score != merged[j].Score {
			return merged[i].Score > merged[j].Score
		}
		return merged[i].DocID < merged[j].DocID
	})
	if len(merged) > k {
		merged = merged[:k]
	}
	return merged, nil
}

// collectStats walks the plan and resolves statistics for every term leaf.
// Leaves that already carry TermStates from rewriting keep them; the
// remaining terms are collected in one additional snapshot pass.
func (s *Searcher) collectStats(q Query) (map[model.Term]*TermStates, error) {
	stats := make(map[model.Term]*TermStates)
	seen := make(map[model.Term]bool)
	var missing []model.Term

	var walk func(Query)
	walk = func(q Query) {
		switch t := q.(type) {
		case *TermQuery:
			if seen[t.term] {
				return
			}
			seen[t.term] = true
			if t.states != nil {
				stats[t.term] = t.states
			} else {
				missing = append(missing, t.term)
			}
		case *BooleanQuery:
			for _, c := range t.clauses {
				walk(c.Query)
			}
		}
	}
	walk(q)

	if len(missing) > 0 {
		collected, err := CollectTermStates(s.snap, missing)
		if err != nil {
			return nil, err
		}
		for i, term := range missing {
			if collected[i] != nil {
				stats[term] = collected[i]
			}
		}
	}
	return stats, nil
}

// evalSegment evaluates one query node against one segment and returns
// segment-local rows mapped to their scores.
func evalSegment(seg *index.Segment, ord int, q Query, stats map[model.Term]*TermStates, maxDoc int) (map[uint32]float64, error) {
	switch t := q.(type) {
	case *MatchNoDocsQuery:
		return nil, nil
	case *TermQuery:
		return evalTerm(ord, t, stats, maxDoc), nil
	case *BooleanQuery:
		return evalBoolean(seg, ord, t, stats, maxDoc)
	default:
		return nil, fmt.Errorf("%w: %T", ErrUnsupportedQuery, q)
	}
}

// evalTerm scores a term leaf with classic TF-IDF:
// sqrt(tf) * (1 + ln(maxDoc/(df+1))) * boost.
func evalTerm(ord int, q *TermQuery, stats map[model.Term]*TermStates, maxDoc int) map[uint32]float64 {
	ts := stats[q.term]
	if ts == nil {
		return nil
	}
	postings := ts.Postings(ord)
	if postings == nil {
		return nil
	}

	idf := 1 + math.Log(float64(maxDoc)/float64(ts.DocFreq()+1))
	matches := make(map[uint32]float64, postings.DocFreq())
	it := postings.Iterator()
	for it.HasNext() {
		row := it.Next()
		matches[row] = math.Sqrt(float64(postings.Freq(row))) * idf * q.boost
	}
	return matches
}

func evalBoolean(seg *index.Segment, ord int, q *BooleanQuery, stats map[model.Term]*TermStates, maxDoc int) (map[uint32]float64, error) {
	var must, should, mustNot []map[uint32]float64
	for _, c := range q.clauses {
		matches, err := evalSegment(seg, ord, c.Query, stats, maxDoc)
		if err != nil {
			return nil, err
		}
		switch c.Occur {
		case OccurMust:
			must = append(must, matches)
		case OccurShould:
			should = append(should, matches)
		case OccurMustNot:
			mustNot = append(mustNot, matches)
		}
	}

	// Candidate rows: intersection of the required clauses, or the union
	// of the optional ones when nothing is required.
	var candidates map[uint32]struct{}
	if len(must) > 0 {
		candidates = make(map[uint32]struct{}, len(must[0]))
		for row := range must[0] {
			candidates[row] = struct{}{}
		}
		for _, m := range must[1:] {
			for row := range candidates {
				if _, ok := m[row]; !ok {
					delete(candidates, row)
				}
			}
		}
	} else {
		candidates = make(map[uint32]struct{})
		for _, m := range should {
			for row := range m {
				candidates[row] = struct{}{}
			}
		}
	}

	minShouldMatch := q.minShouldMatch
	if len(must) == 0 && minShouldMatch == 0 && len(should) > 0 {
		minShouldMatch = 1
	}

	result := make(map[uint32]float64, len(candidates))
	for row := range candidates {
		excluded := false
		for _, m := range mustNot {
			if _, ok := m[row]; ok {
				excluded = true
				break
			}
		}
		if excluded {
			continue
		}

		score := 0.0
		matched := 0
		for _, m := range must {
			score += m[row]
			matched++
		}
		optMatched := 0
		for _, m := range should {
			if sc, ok := m[row]; ok {
				score += sc
				optMatched++
			}
		}
		if optMatched < minShouldMatch {
			continue
		}
		matched += optMatched

		if !q.disableCoord {
			total := len(must) + len(should)
			if total > 0 {
				score *= float64(matched) / float64(total)
			}
		}
		result[row] = score * q.boost
	}
	return result, nil
}

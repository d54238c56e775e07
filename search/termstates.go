package search

import (
	"github.com/hupe1980/lexgo/index"
	"github.com/hupe1980/lexgo/model"
)

// TermStates aggregates one term's statistics across the segments of a
// single snapshot: total document frequency, total term frequency, and a
// per-segment-ordinal postings token used to avoid re-seeking the term
// during execution.
//
// TermStates are built fresh per rewrite and must not be reused across
// snapshots: the postings slots are positional in the snapshot's segment
// order. A nil *TermStates means the term was never observed in any
// segment, which is distinct from a present term with zero occurrences
// (the latter cannot be produced by the index).
type TermStates struct {
	docFreq       int
	totalTermFreq int64
	postings      []*index.Postings
}

func newTermStates(numSegments int) *TermStates {
	return &TermStates{
		postings: make([]*index.Postings, numSegments),
	}
}

// register merges one segment's statistics. Aggregate counts are
// commutative sums; the postings token is kept per segment, never merged.
func (ts *TermStates) register(ord int, p *index.Postings) {
	ts.docFreq += p.DocFreq()
	ts.totalTermFreq += p.TotalTermFreq()
	ts.postings[ord] = p
}

// DocFreq returns the aggregated document frequency across all segments.
func (ts *TermStates) DocFreq() int {
	return ts.docFreq
}

// TotalTermFreq returns the aggregated total term frequency.
func (ts *TermStates) TotalTermFreq() int64 {
	return ts.totalTermFreq
}

// Postings returns the postings token for the given segment ordinal, or
// nil when the term does not occur in that segment.
func (ts *TermStates) Postings(ord int) *index.Postings {
	if ord < 0 || ord >= len(ts.postings) {
		return nil
	}
	return ts.postings[ord]
}

// CollectTermStates scans the snapshot's segments once, in order, and
// returns a slice index-aligned with terms. Entries are nil for terms
// absent from every segment. An index read failure aborts the whole
// collection.
func CollectTermStates(snap *index.Snapshot, terms []model.Term) ([]*TermStates, error) {
	states := make([]*TermStates, len(terms))
	segments := snap.Segments()

	for ord, seg := range segments {
		for i, term := range terms {
			reader, err := seg.Terms(term.Field)
			if err != nil {
				return nil, err
			}
			if reader == nil {
				// field does not exist in this segment
				continue
			}
			postings, ok := reader.Lookup(term.Text)
			if !ok {
				continue
			}
			if states[i] == nil {
				states[i] = newTermStates(len(segments))
			}
			states[i].register(ord, postings)
		}
	}

	return states, nil
}

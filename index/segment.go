package index

import (
	"sync/atomic"

	"github.com/RoaringBitmap/roaring/v2"

	"github.com/hupe1980/lexgo/model"
)

// Postings holds the rows of one segment that contain a single term:
// a bitmap of segment-local row ids plus the term frequency per row.
//
// A Postings value is immutable once its segment is flushed. It doubles as
// the per-segment lookup token carried inside search.TermStates, so query
// execution does not re-seek the term dictionary.
type Postings struct {
	docs          *roaring.Bitmap
	freqs         map[uint32]uint32
	totalTermFreq int64
}

// DocFreq returns the number of rows in this segment containing the term.
func (p *Postings) DocFreq() int {
	return int(p.docs.GetCardinality())
}

// TotalTermFreq returns the total number of term occurrences in this segment.
func (p *Postings) TotalTermFreq() int64 {
	return p.totalTermFreq
}

// Freq returns the term frequency for the given row, or 0 when the row does
// not contain the term.
func (p *Postings) Freq(row uint32) int {
	return int(p.freqs[row])
}

// Iterator returns an iterator over the matching rows in ascending order.
func (p *Postings) Iterator() roaring.IntPeekable {
	return p.docs.Iterator()
}

// TermsReader provides term lookups within a single field of a segment.
type TermsReader struct {
	terms map[string]*Postings
}

// Lookup returns the postings for the given term text, if present.
func (r *TermsReader) Lookup(text string) (*Postings, bool) {
	p, ok := r.terms[text]
	return p, ok
}

// Len returns the number of distinct terms in the field.
func (r *TermsReader) Len() int {
	return len(r.terms)
}

// Segment is an immutable, independently searchable partition of the index.
//
// Row ids are segment-local and dense, starting at 0; the global DocID of a
// row is DocBase()+row. Segments are safe for concurrent readers.
type Segment struct {
	id      model.SegmentID
	docBase model.DocID
	numDocs uint32
	fields  map[string]map[string]*Postings
	closed  atomic.Bool
}

// ID returns the segment id.
func (s *Segment) ID() model.SegmentID {
	return s.id
}

// DocBase returns the global doc id of the segment's first row.
func (s *Segment) DocBase() model.DocID {
	return s.docBase
}

// NumDocs returns the number of documents in the segment.
func (s *Segment) NumDocs() uint32 {
	return s.numDocs
}

// Terms returns a reader over the given field's term dictionary. A nil
// reader with a nil error means the field does not exist in this segment.
// A closed segment returns ErrSegmentClosed.
func (s *Segment) Terms(field string) (*TermsReader, error) {
	if s.closed.Load() {
		return nil, ErrSegmentClosed
	}
	terms, ok := s.fields[field]
	if !ok {
		return nil, nil
	}
	return &TermsReader{terms: terms}, nil
}

// Close marks the segment closed. Subsequent lookups fail with
// ErrSegmentClosed. Closing is idempotent.
func (s *Segment) Close() {
	s.closed.Store(true)
}

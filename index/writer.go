package index

import (
	"sync"

	"github.com/RoaringBitmap/roaring/v2"

	"github.com/hupe1980/lexgo/model"
)

// Writer buffers analyzed documents and flushes them into immutable
// segments. A Writer is safe for concurrent use; Flush atomically swaps
// the buffer so in-flight adds never land in a half-built segment.
type Writer struct {
	mu      sync.Mutex
	numDocs uint32
	fields  map[string]map[string]*Postings
}

// NewWriter creates an empty Writer.
func NewWriter() *Writer {
	return &Writer{
		fields: make(map[string]map[string]*Postings),
	}
}

// AddDocument adds one document, given per-field token lists, and returns
// the segment-local row id assigned to it.
func (w *Writer) AddDocument(fields map[string][]string) uint32 {
	w.mu.Lock()
	defer w.mu.Unlock()

	row := w.numDocs
	w.numDocs++

	for field, tokens := range fields {
		terms, ok := w.fields[field]
		if !ok {
			terms = make(map[string]*Postings)
			w.fields[field] = terms
		}
		for _, tok := range tokens {
			p, ok := terms[tok]
			if !ok {
				p = &Postings{
					docs:  roaring.New(),
					freqs: make(map[uint32]uint32),
				}
				terms[tok] = p
			}
			p.docs.Add(row)
			p.freqs[row]++
			p.totalTermFreq++
		}
	}

	return row
}

// NumDocs returns the number of buffered documents.
func (w *Writer) NumDocs() uint32 {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.numDocs
}

// Flush builds an immutable segment from the buffered documents and resets
// the writer. The segment is assigned the given id and doc base. Flushing
// an empty writer returns a valid empty segment.
func (w *Writer) Flush(id model.SegmentID, docBase model.DocID) *Segment {
	w.mu.Lock()
	defer w.mu.Unlock()

	seg := &Segment{
		id:      id,
		docBase: docBase,
		numDocs: w.numDocs,
		fields:  w.fields,
	}

	w.numDocs = 0
	w.fields = make(map[string]map[string]*Postings)

	return seg
}

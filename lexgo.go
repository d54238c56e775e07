package lexgo

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/hupe1980/lexgo/analysis"
	"github.com/hupe1980/lexgo/index"
	"github.com/hupe1980/lexgo/model"
	"github.com/hupe1980/lexgo/search"
)

// Engine is an embedded full-text search engine: an index writer, the
// committed segments, and the query layer behind one facade.
//
// Adds are buffered until Commit flushes them into a new immutable
// segment. Searches run against a snapshot of the committed segments, so
// uncommitted documents are not visible. An Engine is safe for concurrent
// use.
type Engine struct {
	mu            sync.RWMutex
	analyzer      analysis.Analyzer
	writer        *index.Writer
	segments      []*index.Segment
	nextSegmentID uint64
	committedDocs uint32
	logger        *Logger
	metrics       MetricsCollector
	searchConc    int
	closed        bool
}

// New creates an empty engine.
func New(optFns ...Option) *Engine {
	opts := options{
		analyzer:          analysis.Default,
		logger:            NoopLogger(),
		metrics:           NoopMetricsCollector{},
		searchConcurrency: 1,
	}
	for _, fn := range optFns {
		fn(&opts)
	}

	return &Engine{
		analyzer:   opts.analyzer,
		writer:     index.NewWriter(),
		logger:     opts.logger,
		metrics:    opts.metrics,
		searchConc: opts.searchConcurrency,
	}
}

// Add analyzes the given fields and buffers the document. The returned
// DocID becomes visible to searches after the next Commit.
func (e *Engine) Add(ctx context.Context, fields map[string]string) (model.DocID, error) {
	start := time.Now()
	docID, err := e.add(fields)
	e.metrics.RecordAdd(time.Since(start), err)
	e.logger.LogAdd(ctx, uint32(docID), len(fields), err)
	return docID, err
}

func (e *Engine) add(fields map[string]string) (model.DocID, error) {
	if len(fields) == 0 {
		return 0, ErrNoField
	}

	tokens := make(map[string][]string, len(fields))
	for field, text := range fields {
		tokens[field] = e.analyzer.Analyze(text)
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return 0, ErrClosed
	}
	row := e.writer.AddDocument(tokens)
	return model.DocID(e.committedDocs) + model.DocID(row), nil
}

// Commit flushes the buffered documents into a new immutable segment.
// Committing with an empty buffer is a no-op.
func (e *Engine) Commit(ctx context.Context) error {
	start := time.Now()

	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return ErrClosed
	}
	if e.writer.NumDocs() == 0 {
		e.mu.Unlock()
		return nil
	}

	seg := e.writer.Flush(model.SegmentID(e.nextSegmentID), model.DocID(e.committedDocs))
	e.nextSegmentID++
	e.committedDocs += seg.NumDocs()
	e.segments = append(e.segments, seg)
	segmentID := uint64(seg.ID())
	docs := int(seg.NumDocs())
	e.mu.Unlock()

	e.metrics.RecordCommit(docs, time.Since(start))
	e.logger.LogCommit(ctx, segmentID, docs, nil)
	return nil
}

// Snapshot returns a point-in-time view of the committed segments.
func (e *Engine) Snapshot() (*index.Snapshot, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	if e.closed {
		return nil, ErrClosed
	}
	return index.NewSnapshot(slices.Clone(e.segments)...), nil
}

// NumDocs returns the number of committed documents.
func (e *Engine) NumDocs() int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return int(e.committedDocs)
}

// Search rewrites and executes the query against the current snapshot and
// returns the k best candidates by descending score.
func (e *Engine) Search(ctx context.Context, q search.Query, k int) ([]model.Candidate, error) {
	start := time.Now()

	snap, err := e.Snapshot()
	if err != nil {
		e.metrics.RecordSearch(k, time.Since(start), err)
		e.logger.LogSearch(ctx, k, 0, err)
		return nil, err
	}

	s := search.NewSearcher(snap, search.WithConcurrency(e.searchConc))
	hits, err := s.Search(ctx, q, k)

	e.metrics.RecordSearch(k, time.Since(start), err)
	e.logger.LogSearch(ctx, k, len(hits), err)
	return hits, err
}

// Close closes the engine and its segments. Subsequent operations fail
// with ErrClosed. Close is idempotent.
func (e *Engine) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return nil
	}
	e.closed = true
	for _, seg := range e.segments {
		seg.Close()
	}
	return nil
}

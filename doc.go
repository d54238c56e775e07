// Package lexgo provides an embedded full-text search engine for Go with a
// frequency-adaptive query planner.
//
// Documents are analyzed into terms and buffered until Commit flushes them
// into an immutable index segment. Queries run against a point-in-time
// snapshot of all committed segments.
//
// # Quick Start
//
//	ctx := context.Background()
//	eng := lexgo.New()
//	defer eng.Close()
//
//	eng.Add(ctx, map[string]string{"body": "the quick brown fox"})
//	eng.Add(ctx, map[string]string{"body": "the lazy dog"})
//	eng.Commit(ctx)
//
//	q, _ := search.CommonTerms(search.OccurShould, search.OccurMust, 0.5).
//	    Add(model.NewTerm("body", "the"), model.NewTerm("body", "fox")).
//	    Build()
//	hits, _ := eng.Search(ctx, q, 10)
//
// # Common Terms Queries
//
// CommonTermsQuery classifies each query term against its actual document
// frequency in the index: rare terms gate matching in a required group,
// common terms (stopwords and the like) only refine scoring in an optional
// group. This keeps queries containing very common terms fast without
// stopword lists. See the search package for details.
//
// # Key Features
//
//   - Segmented in-memory inverted index with Roaring bitmap postings
//   - Frequency-adaptive two-tier query planning
//   - TF-IDF scoring with per-node coordination control
//   - Segment persistence with S2 or LZ4 compression
//   - Structured logging (log/slog) and pluggable metrics
package lexgo

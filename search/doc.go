// Package search implements the query layer: a closed set of query
// variants (term, boolean, match-none, common-terms), frequency-adaptive
// query rewriting, and execution of rewritten plans over an index snapshot.
//
// The central piece is CommonTermsQuery: given per-snapshot document
// frequency statistics it partitions query terms into a selective
// low-frequency group that gates matching and a common high-frequency
// group that only refines scoring. See the CommonTermsQuery documentation
// for details.
package search

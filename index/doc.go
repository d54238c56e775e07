// Package index implements the segmented in-memory inverted index.
//
// Documents are buffered in a Writer and flushed into immutable Segments.
// A Snapshot is an ordered, point-in-time list of segments; readers never
// observe partial flushes. Postings are stored as Roaring bitmaps of
// segment-local row ids plus per-row term frequencies.
package index

package index

// Snapshot is an ordered, point-in-time view of the index segments.
//
// Snapshots are immutable: query planning and execution read from a
// snapshot without synchronization, and commits create new snapshots
// rather than mutating existing ones.
type Snapshot struct {
	segments []*Segment
	maxDoc   int
}

// NewSnapshot creates a snapshot over the given segments. Segment order is
// preserved; doc bases must already be consistent with that order.
func NewSnapshot(segments ...*Segment) *Snapshot {
	maxDoc := 0
	for _, seg := range segments {
		maxDoc += int(seg.NumDocs())
	}
	return &Snapshot{
		segments: segments,
		maxDoc:   maxDoc,
	}
}

// Segments returns the snapshot's segments in order.
func (s *Snapshot) Segments() []*Segment {
	return s.segments
}

// NumSegments returns the number of segments in the snapshot.
func (s *Snapshot) NumSegments() int {
	return len(s.segments)
}

// MaxDoc returns the total document count across all segments.
func (s *Snapshot) MaxDoc() int {
	return s.maxDoc
}

package index

import "errors"

var (
	// ErrSegmentClosed is returned when a term or field lookup is attempted
	// on a segment that has been closed.
	ErrSegmentClosed = errors.New("index: segment closed")

	// ErrBadSegmentData is returned when a persisted segment cannot be decoded.
	ErrBadSegmentData = errors.New("index: bad segment data")
)

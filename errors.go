package lexgo

import "errors"

var (
	// ErrClosed is returned when an operation is attempted on a closed
	// engine.
	ErrClosed = errors.New("lexgo: engine closed")

	// ErrNoField is returned when a document is added without any fields.
	ErrNoField = errors.New("lexgo: document has no fields")
)

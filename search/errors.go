package search

import "errors"

var (
	// ErrIllegalOccur is returned when a query is built with a forbidden
	// occurrence kind (MUST_NOT for a frequency group).
	ErrIllegalOccur = errors.New("search: illegal occur")

	// ErrZeroTerm is returned when a zero-value term is added to a query.
	ErrZeroTerm = errors.New("search: term must not be zero")

	// ErrInvalidK is returned when a non-positive result count is requested.
	ErrInvalidK = errors.New("search: k must be positive")

	// ErrUnsupportedQuery is returned when execution encounters a query
	// type outside the closed variant set.
	ErrUnsupportedQuery = errors.New("search: unsupported query type")
)

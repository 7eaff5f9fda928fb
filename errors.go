// Package incsearch provides an incremental search engine for text
// documents: a compact index of every match location for a textual or
// regular-expression query, plus a navigable search cursor supporting
// forward/backward stepping, absolute indexing, range iteration, and
// per-line match overviews for minimap-style rendering.
package incsearch

import "errors"

// Query errors
var (
	// ErrInvalidQuery indicates that the query pattern failed to compile.
	ErrInvalidQuery = errors.New("invalid search query")

	// ErrNoQuery indicates that an operation requires a query but none is set.
	ErrNoQuery = errors.New("no search query set")

	// ErrEmptyQuery indicates that an empty pattern was supplied.
	ErrEmptyQuery = errors.New("empty search query")
)

// Document errors
var (
	// ErrNoDocument indicates that an operation requires a document but none is set.
	ErrNoDocument = errors.New("no document set")

	// ErrInvalidPosition indicates that a position is out of bounds.
	ErrInvalidPosition = errors.New("position out of bounds")
)

// Overview errors
var (
	// ErrInvalidBucketCount indicates that a line-pattern bucket count is not positive.
	ErrInvalidBucketCount = errors.New("bucket count must be positive")
)

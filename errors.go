package memstore

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidNamespace is returned when a namespace is empty or contains
	// an empty or reserved segment.
	ErrInvalidNamespace = errors.New("invalid namespace")

	// ErrNoEmbeddingConfig is returned when a search carries a query but the
	// store was built without an embedding configuration.
	ErrNoEmbeddingConfig = errors.New("search query requires an embedding configuration")
)

// ErrEmbeddingCountMismatch indicates the embedder returned a different
// number of vectors than texts submitted. The batch is aborted before any
// write is applied.
type ErrEmbeddingCountMismatch struct {
	Expected int
	Actual   int
}

func (e *ErrEmbeddingCountMismatch) Error() string {
	return fmt.Sprintf("embedding count mismatch: expected %d vectors, got %d", e.Expected, e.Actual)
}

// ErrUnsupportedMatchType indicates an unknown MatchType in a namespace
// match condition. This is a caller bug, never a non-match.
type ErrUnsupportedMatchType struct {
	MatchType MatchType
}

func (e *ErrUnsupportedMatchType) Error() string {
	return fmt.Sprintf("unsupported match type: %q", string(e.MatchType))
}

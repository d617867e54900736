package types

import "errors"

// Domain errors surfaced to callers
var (
	// ErrNoWorkspace indicates retrieval was requested without an open
	// workspace root. Not retried.
	ErrNoWorkspace = errors.New("no workspace root")

	// ErrDimensionMismatch indicates vectors of different lengths were
	// compared, which means embeddings from incompatible models were mixed.
	ErrDimensionMismatch = errors.New("embedding dimension mismatch")
)

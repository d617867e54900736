// Package types provides shared type definitions for the semscout
// retrieval engine.
//
// The package defines the domain types that cross package boundaries:
// candidate files, ranked results, retrieval statistics, and the sentinel
// errors that abort a retrieval call.
//
// # Core Types
//
// CandidateFile is a workspace file rendered for embedding:
//
//	f := types.CandidateFile{
//	    Identity:    "/ws/internal/auth/login.go",
//	    DisplayName: "login.go",
//	    RelPath:     "internal/auth/login.go",
//	    Text:        "// path: internal/auth/login.go\npackage auth\n...",
//	}
//
// RankedResult pairs a file with its Euclidean distance to the query
// vector; results are ordered by ascending distance, so the first entry is
// the most relevant.
//
// # Error Semantics
//
// ErrNoWorkspace and ErrDimensionMismatch mark conditions under which a
// retrieval result would be meaningless; callers receive them directly
// rather than a degraded result. Everything recoverable (cache corruption,
// failed embedding batches, storage write failures) is handled inside the
// pipeline and never surfaces as an error.
package types

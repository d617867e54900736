package types

import "time"

// CandidateFile is a workspace file rendered for retrieval.
// The rendered Text carries an identity-bearing preamble so the embedding
// reflects where the content lives, not just what it says.
type CandidateFile struct {
	Identity    string // Absolute path or opaque handle, unique per workspace
	DisplayName string // Short human-readable name (base name)
	RelPath     string // Path relative to the workspace root
	Text        string // Preamble + raw content
}

// RankedResult is a single candidate with its distance to the query vector.
// Smaller distance means more relevant.
type RankedResult struct {
	Identity    string
	DisplayName string
	Distance    float64
}

// RetrievalResult is the outcome of one retrieval call.
type RetrievalResult struct {
	// Context is the rendered text of the selected files concatenated in
	// ranked order, trimmed of trailing whitespace.
	Context string

	// FileNames lists the display names of the selected files in ranked order.
	FileNames []string

	Ranked []RankedResult
	Stats  RetrievalStats
}

// RetrievalStats summarizes the work one retrieval call performed.
type RetrievalStats struct {
	FilesListed   int
	FilesReused   int
	FilesEmbedded int
	FilesFailed   int
	Duration      time.Duration
}

// Package fingerprint produces content digests used for change detection.
package fingerprint

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"unicode"
)

// Compute returns a hex-encoded SHA-256 digest of the text with all
// whitespace removed. Formatting-only edits therefore produce the same
// fingerprint and do not invalidate cached embeddings; re-embedding is
// reserved for semantic content changes.
func Compute(text string) string {
	normalized := strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, text)

	sum := sha256.Sum256([]byte(normalized))
	return hex.EncodeToString(sum[:])
}

// Workspace returns a short digest of a workspace root path, suitable for
// naming a per-workspace cache directory. Distinct roots get distinct
// namespaces; the digest is truncated because collisions at filesystem
// scale are not a concern.
func Workspace(root string) string {
	sum := sha256.Sum256([]byte(root))
	return hex.EncodeToString(sum[:8])
}

// Package cachestore persists per-workspace embedding caches with
// owner-only permissions and crash-safe writes.
package cachestore

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"

	"github.com/semscout/semscout/internal/fingerprint"
)

const (
	cacheFileName = "embeddings.json"

	// Embeddings are derived from proprietary source code, so the cache is
	// owner-only on disk.
	dirPerm  = 0o700
	filePerm = 0o600
)

// Entry is one cached embedding. It is valid for reuse only while its
// fingerprint matches the current content and its model tag matches the
// active embedding model; either mismatch forces a recompute.
type Entry struct {
	Fingerprint string    `json:"fingerprint"`
	Model       string    `json:"model"`
	Vector      []float32 `json:"vector"`
}

// Cache maps file identity to its cached embedding.
type Cache map[string]Entry

// Store persists one workspace's embedding cache as a single JSON document.
// All mutation goes through Apply, which holds the store lock across the
// merge and the write so overlapping retrieval calls cannot lose each
// other's freshly computed embeddings.
type Store struct {
	path string

	mu     sync.Mutex
	cache  Cache
	loaded bool
}

// DefaultRoot returns the shared cache root under the system temp directory.
func DefaultRoot() string {
	return filepath.Join(os.TempDir(), "semscout-cache")
}

// New creates a store for the given workspace. The workspace gets an
// isolated directory under cacheRoot named by a digest of its root path.
// Directory creation failure (other than already-exists) is fatal; it is
// the only storage error that aborts initialization.
func New(cacheRoot, workspaceRoot string) (*Store, error) {
	if cacheRoot == "" {
		cacheRoot = DefaultRoot()
	}

	dir := filepath.Join(cacheRoot, "ws-"+fingerprint.Workspace(workspaceRoot))
	if err := os.MkdirAll(dir, dirPerm); err != nil && !errors.Is(err, os.ErrExist) {
		return nil, fmt.Errorf("create cache directory: %w", err)
	}
	// MkdirAll leaves a pre-existing directory's mode alone; tighten it so
	// the owner-only guarantee holds regardless of who created it.
	if err := os.Chmod(dir, dirPerm); err != nil {
		return nil, fmt.Errorf("restrict cache directory: %w", err)
	}

	return &Store{
		path: filepath.Join(dir, cacheFileName),
	}, nil
}

// Path returns the cache file location.
func (s *Store) Path() string {
	return s.path
}

// Snapshot returns a copy of the cache mapping, loading it from disk on
// first use. A missing or corrupt cache file yields an empty cache; it is
// logged and never aborts retrieval.
func (s *Store) Snapshot() Cache {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.ensureLoaded()

	out := make(Cache, len(s.cache))
	for k, v := range s.cache {
		out[k] = v
	}
	return out
}

// Apply merges updates into the cache, prunes entries whose identity is not
// in keep, and persists the result. The merge and the write happen under a
// single lock. A write failure is returned so the caller can log it, but
// the in-memory merge has already happened, so the current call still
// benefits from the fresh entries.
func (s *Store) Apply(updates map[string]Entry, keep map[string]bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.ensureLoaded()

	for id, entry := range updates {
		s.cache[id] = entry
	}
	for id := range s.cache {
		if !keep[id] {
			delete(s.cache, id)
		}
	}

	return s.write()
}

// ensureLoaded lazily reads the persisted cache. Caller must hold s.mu.
func (s *Store) ensureLoaded() {
	if s.loaded {
		return
	}
	s.loaded = true
	s.cache = make(Cache)

	data, err := os.ReadFile(s.path)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			log.Printf("cachestore: read %s: %v (starting empty)", s.path, err)
		}
		return
	}

	var cache Cache
	if err := json.Unmarshal(data, &cache); err != nil {
		log.Printf("cachestore: corrupt cache %s: %v (starting empty)", s.path, err)
		return
	}
	s.cache = cache
}

// write persists the cache atomically: marshal, write a temp file with
// owner-only permissions, then rename over the previous file so a crash
// mid-write leaves the old cache intact. Caller must hold s.mu.
func (s *Store) write() error {
	data, err := json.Marshal(s.cache)
	if err != nil {
		return fmt.Errorf("marshal cache: %w", err)
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, filePerm); err != nil {
		return fmt.Errorf("write cache: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("replace cache: %w", err)
	}
	return nil
}

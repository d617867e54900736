// Package source enumerates and reads candidate workspace files for
// retrieval.
package source

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/semscout/semscout/pkg/types"
)

// Source lists the candidate files of a workspace, rendered for embedding.
type Source interface {
	List(ctx context.Context) ([]types.CandidateFile, error)
}

// FSSource walks a workspace root on the local filesystem. Files matching
// any of the include patterns (matched against the base name, e.g. "*.go")
// are read concurrently and rendered with an identity-bearing preamble.
type FSSource struct {
	root     string
	includes []string
	workers  int
}

// NewFSSource creates a filesystem source for the given workspace root.
// An empty root is a caller error: retrieval requires an open workspace.
func NewFSSource(root string, includes []string) (*FSSource, error) {
	if root == "" {
		return nil, types.ErrNoWorkspace
	}
	if len(includes) == 0 {
		includes = []string{"*"}
	}
	return &FSSource{
		root:     root,
		includes: includes,
		workers:  runtime.NumCPU(),
	}, nil
}

// List walks the workspace, reads every matching file, and returns the
// candidates sorted by relative path. The sort gives later stages a stable
// enumeration order, which the ranker relies on for tie-breaking. A file
// that cannot be read is logged and skipped rather than failing the call.
func (s *FSSource) List(ctx context.Context) ([]types.CandidateFile, error) {
	paths, err := s.discover()
	if err != nil {
		return nil, fmt.Errorf("discover files: %w", err)
	}
	sort.Strings(paths)

	candidates := make([]types.CandidateFile, len(paths))

	// Reads are independent and unordered; fan out with a bounded pool.
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.workers)

	for i, path := range paths {
		i, path := i, path
		g.Go(func() error {
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}

			content, err := os.ReadFile(path)
			if err != nil {
				// Deleted since discovery, broken symlink, or unreadable.
				// One bad file drops out of the pool; it must not fail
				// the listing.
				log.Printf("source: read %s: %v (skipping)", path, err)
				return nil
			}

			rel, err := filepath.Rel(s.root, path)
			if err != nil {
				rel = path
			}

			candidates[i] = types.CandidateFile{
				Identity:    path,
				DisplayName: filepath.Base(path),
				RelPath:     rel,
				Text:        Render(rel, string(content)),
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	// Skipped files left their slot zero-valued; compact them out.
	out := candidates[:0]
	for _, c := range candidates {
		if c.Identity != "" {
			out = append(out, c)
		}
	}
	return out, nil
}

// discover finds files under the root matching the include patterns.
func (s *FSSource) discover() ([]string, error) {
	var paths []string

	err := filepath.Walk(s.root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}

		if info.IsDir() {
			// Skip hidden directories
			if path != s.root && strings.HasPrefix(info.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}

		if s.matches(info.Name()) {
			paths = append(paths, path)
		}
		return nil
	})

	return paths, err
}

func (s *FSSource) matches(name string) bool {
	for _, pattern := range s.includes {
		if ok, err := filepath.Match(pattern, name); err == nil && ok {
			return true
		}
	}
	return false
}

// Render produces the identity-bearing text that gets embedded: a path
// preamble followed by the raw content. Embedding the path with the body
// lets queries that mention file or directory names land on the right file.
func Render(relPath, content string) string {
	return "// path: " + relPath + "\n" + content
}

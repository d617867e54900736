package source

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/semscout/semscout/pkg/types"
)

func writeFile(t *testing.T, root, rel, content string) {
	t.Helper()
	path := filepath.Join(root, rel)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestNewFSSourceRequiresRoot(t *testing.T) {
	_, err := NewFSSource("", []string{"*.go"})
	assert.True(t, errors.Is(err, types.ErrNoWorkspace))
}

func TestListMatchesPatterns(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "main.go", "package main")
	writeFile(t, root, "lib/util.go", "package lib")
	writeFile(t, root, "README.md", "# readme")
	writeFile(t, root, "lib/data.json", "{}")

	src, err := NewFSSource(root, []string{"*.go"})
	require.NoError(t, err)

	files, err := src.List(context.Background())
	require.NoError(t, err)
	require.Len(t, files, 2)

	names := []string{files[0].DisplayName, files[1].DisplayName}
	assert.Contains(t, names, "main.go")
	assert.Contains(t, names, "util.go")
}

func TestListSortedByRelPath(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "zebra.go", "z")
	writeFile(t, root, "alpha.go", "a")
	writeFile(t, root, "middle.go", "m")

	src, err := NewFSSource(root, []string{"*.go"})
	require.NoError(t, err)

	files, err := src.List(context.Background())
	require.NoError(t, err)
	require.Len(t, files, 3)

	assert.Equal(t, "alpha.go", files[0].DisplayName)
	assert.Equal(t, "middle.go", files[1].DisplayName)
	assert.Equal(t, "zebra.go", files[2].DisplayName)
}

func TestListSkipsHiddenDirectories(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "visible.go", "package a")
	writeFile(t, root, ".git/objects/blob.go", "not source")

	src, err := NewFSSource(root, []string{"*.go"})
	require.NoError(t, err)

	files, err := src.List(context.Background())
	require.NoError(t, err)
	require.Len(t, files, 1)
	assert.Equal(t, "visible.go", files[0].DisplayName)
}

func TestListEmptyWorkspace(t *testing.T) {
	src, err := NewFSSource(t.TempDir(), []string{"*.go"})
	require.NoError(t, err)

	files, err := src.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, files)
}

func TestRenderedTextCarriesIdentity(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "pkg/handler.go", "package pkg\n")

	src, err := NewFSSource(root, []string{"*.go"})
	require.NoError(t, err)

	files, err := src.List(context.Background())
	require.NoError(t, err)
	require.Len(t, files, 1)

	f := files[0]
	assert.Equal(t, filepath.Join("pkg", "handler.go"), f.RelPath)
	assert.Contains(t, f.Text, "// path: "+f.RelPath)
	assert.Contains(t, f.Text, "package pkg")
	assert.Equal(t, filepath.Join(root, "pkg", "handler.go"), f.Identity)
}

func TestListSkipsUnreadableFiles(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "good.go", "package good")
	// A broken symlink matches the pattern at discovery but fails to read.
	require.NoError(t, os.Symlink(filepath.Join(root, "missing.go"), filepath.Join(root, "broken.go")))

	src, err := NewFSSource(root, []string{"*.go"})
	require.NoError(t, err)

	files, err := src.List(context.Background())
	require.NoError(t, err, "one unreadable file must not fail the listing")
	require.Len(t, files, 1)
	assert.Equal(t, "good.go", files[0].DisplayName)
}

func TestListMultiplePatterns(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "a.go", "go")
	writeFile(t, root, "b.md", "md")
	writeFile(t, root, "c.txt", "txt")

	src, err := NewFSSource(root, []string{"*.go", "*.md"})
	require.NoError(t, err)

	files, err := src.List(context.Background())
	require.NoError(t, err)
	assert.Len(t, files, 2)
}

package browse

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveExisting_ExistingPath(t *testing.T) {
	tmpDir := t.TempDir()

	got := ResolveExisting(tmpDir)
	assert.Equal(t, tmpDir, got)
}

func TestResolveExisting_ExistingFile(t *testing.T) {
	tmpDir := t.TempDir()
	file := filepath.Join(tmpDir, "notes.txt")
	require.NoError(t, os.WriteFile(file, []byte("hi"), 0o644))

	got := ResolveExisting(file)
	assert.Equal(t, file, got)
}

func TestResolveExisting_MissingLeaf(t *testing.T) {
	tmpDir := t.TempDir()

	got := ResolveExisting(filepath.Join(tmpDir, "gone"))
	assert.Equal(t, tmpDir, got)
}

func TestResolveExisting_DeepMissingChain(t *testing.T) {
	tmpDir := t.TempDir()

	// Every component below tmpDir is missing; resolution climbs all the
	// way back to the deepest ancestor that is actually on disk.
	got := ResolveExisting(filepath.Join(tmpDir, "a", "b", "c", "d"))
	assert.Equal(t, tmpDir, got)
}

func TestResolveExisting_IntermediateAncestor(t *testing.T) {
	tmpDir := t.TempDir()
	existing := filepath.Join(tmpDir, "kept")
	require.NoError(t, os.Mkdir(existing, 0o755))

	got := ResolveExisting(filepath.Join(existing, "missing", "deeper"))
	assert.Equal(t, existing, got)
}

func TestResolveExisting_CleansInput(t *testing.T) {
	tmpDir := t.TempDir()
	sub := filepath.Join(tmpDir, "sub")
	require.NoError(t, os.Mkdir(sub, 0o755))

	got := ResolveExisting(filepath.Join(tmpDir, "sub") + string(filepath.Separator) + "." + string(filepath.Separator))
	assert.Equal(t, sub, got)
}

func TestResolveExisting_Root(t *testing.T) {
	got := ResolveExisting("/")
	assert.Equal(t, "/", got)
}

func TestResolveExisting_DanglingSymlink(t *testing.T) {
	tmpDir := t.TempDir()
	link := filepath.Join(tmpDir, "link")
	require.NoError(t, os.Symlink(filepath.Join(tmpDir, "missing-target"), link))

	// A dangling symlink still exists as a directory entry.
	got := ResolveExisting(link)
	assert.Equal(t, link, got)
}

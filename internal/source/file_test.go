package source

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeLines(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeLines(t, filepath.Join(dir, "b.log"), "b1\nb2\n")
	writeLines(t, filepath.Join(dir, "a.log"), "a1\n\na2\na3")
	writeLines(t, filepath.Join(dir, "nested", "c.log"), "c1\n")
	writeLines(t, filepath.Join(dir, "skip.txt"), "nope\n")

	f, err := NewFile(filepath.Join(dir, "**", "*.log"))
	require.NoError(t, err)
	t.Cleanup(func() { f.Close() })

	assert.Equal(t, []string{
		filepath.Join(dir, "a.log"),
		filepath.Join(dir, "b.log"),
		filepath.Join(dir, "nested", "c.log"),
	}, f.Paths())

	page, err := f.Fetch(t.Context(), 0, 4)
	require.NoError(t, err)
	require.Len(t, page, 4)
	assert.Equal(t, []string{"a1", "a2", "a3", "b1"}, titles(page))
	assert.Equal(t, filepath.Join(dir, "a.log")+":3", page[1].ID)

	page, err = f.Fetch(t.Context(), 4, 4)
	assert.ErrorIs(t, err, ErrEndOfData)
	assert.Equal(t, []string{"b2", "c1"}, titles(page))

	page, err = f.Fetch(t.Context(), 6, 4)
	assert.ErrorIs(t, err, ErrEndOfData)
	assert.Empty(t, page)

	// earlier pages stay available
	page, err = f.Fetch(t.Context(), 1, 2)
	require.NoError(t, err)
	assert.Equal(t, []string{"a2", "a3"}, titles(page))
}

func TestFileExactEnd(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeLines(t, filepath.Join(dir, "x.log"), "1\n2\n")

	f, err := NewFile(filepath.Join(dir, "*.log"))
	require.NoError(t, err)
	t.Cleanup(func() { f.Close() })

	page, err := f.Fetch(t.Context(), 0, 2)
	require.NoError(t, err)
	assert.Len(t, page, 2)

	page, err = f.Fetch(t.Context(), 2, 2)
	assert.ErrorIs(t, err, ErrEndOfData)
	assert.Empty(t, page)
}

func TestFileBadGlob(t *testing.T) {
	t.Parallel()

	_, err := NewFile("[")
	require.Error(t, err)
}

func titles(entries []Entry) []string {
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.Title
	}
	return out
}

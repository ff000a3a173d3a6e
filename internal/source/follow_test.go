package source

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFollow(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "app.log")
	writeLines(t, path, "first\nsecond\n")

	f, err := NewFollow(path, FollowOptions{Wait: 3 * time.Second})
	require.NoError(t, err)
	t.Cleanup(func() { f.Close() })

	require.Eventually(t, func() bool { return f.Len() == 2 }, 5*time.Second, 10*time.Millisecond)
	page, err := f.Fetch(t.Context(), 0, 10)
	require.NoError(t, err)
	assert.Equal(t, []string{"first", "second"}, titles(page))

	done := make(chan []Entry, 1)
	go func() {
		page, _ := f.Fetch(t.Context(), 2, 10)
		done <- page
	}()

	fd, err := os.OpenFile(path, os.O_APPEND|os.O_WRONLY, 0o644)
	require.NoError(t, err)
	_, err = fd.WriteString("third\n")
	require.NoError(t, err)
	require.NoError(t, fd.Close())

	select {
	case page := <-done:
		assert.Equal(t, []string{"third"}, titles(page))
	case <-time.After(5 * time.Second):
		t.Fatal("follow did not return the appended line")
	}
}

func TestFollowTimesOutEmpty(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "quiet.log")
	writeLines(t, path, "")

	f, err := NewFollow(path, FollowOptions{Wait: 50 * time.Millisecond})
	require.NoError(t, err)
	t.Cleanup(func() { f.Close() })

	page, err := f.Fetch(t.Context(), 0, 5)
	require.NoError(t, err)
	assert.Empty(t, page)
}

func TestFollowMissingFile(t *testing.T) {
	t.Parallel()

	_, err := NewFollow(filepath.Join(t.TempDir(), "missing.log"), FollowOptions{})
	require.Error(t, err)
}

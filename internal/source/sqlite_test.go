package source

import (
	"path/filepath"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSQLite(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "data", "feed.db")
	db, err := OpenSQLite(t.Context(), path)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	base := time.Date(2025, 3, 1, 8, 0, 0, 0, time.UTC)
	var seed []Entry
	for i := range 7 {
		seed = append(seed, Entry{
			ID:    "id-" + strconv.Itoa(i),
			Title: "entry " + strconv.Itoa(i),
			Body:  "body",
			Time:  base.Add(time.Duration(i) * time.Second),
		})
	}
	n, err := db.Insert(t.Context(), seed...)
	require.NoError(t, err)
	assert.Equal(t, 7, n)

	// duplicates are skipped
	n, err = db.Insert(t.Context(), seed[0], Entry{Title: "no id"})
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	count, err := db.Count(t.Context())
	require.NoError(t, err)
	assert.Equal(t, 8, count)

	page, err := db.Fetch(t.Context(), 0, 5)
	require.NoError(t, err)
	require.Len(t, page, 5)
	assert.Equal(t, seed[0], page[0])
	assert.Equal(t, "entry 4", page[4].Title)

	page, err = db.Fetch(t.Context(), 5, 5)
	assert.ErrorIs(t, err, ErrEndOfData)
	require.Len(t, page, 3)
	assert.Equal(t, "no id", page[2].Title)
	assert.NotEmpty(t, page[2].ID)
}

func TestSQLiteReopenKeepsData(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "feed.db")
	db, err := OpenSQLite(t.Context(), path)
	require.NoError(t, err)
	_, err = db.Insert(t.Context(), Entry{ID: "a", Title: "kept"})
	require.NoError(t, err)
	require.NoError(t, db.Close())

	db, err = OpenSQLite(t.Context(), path)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	page, err := db.Fetch(t.Context(), 0, 10)
	assert.ErrorIs(t, err, ErrEndOfData)
	assert.Equal(t, []string{"kept"}, titles(page))
	assert.Equal(t, path, db.Path())
}

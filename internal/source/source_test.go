package source

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpen(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.log"), []byte("one\ntwo\n"), 0o644))

	tests := []struct {
		spec    string
		want    any
		wantErr string
	}{
		{spec: "generated", want: &Generated{}},
		{spec: "generated:10ms", want: &Generated{}},
		{spec: "generated:soon", wantErr: "invalid generated delay"},
		{spec: "file:*.log", want: &File{}},
		{spec: "file:", wantErr: "file source needs a glob"},
		{spec: "file:*.missing", wantErr: "no files match"},
		{spec: "follow:a.log", want: &Follow{}},
		{spec: "cmd:echo hi", want: &Command{}},
		{spec: "cmd:  ", wantErr: "cmd source needs a command"},
		{spec: "http:https://example.com/feed", want: &HTTP{}},
		{spec: "https://example.com/feed", want: &HTTP{}},
		{spec: "http:ftp://example.com", wantErr: "scheme must be http or https"},
		{spec: "sqlite:feed.db", want: &SQLite{}},
		{spec: "gopher:hole", wantErr: "unknown source"},
	}
	for _, tt := range tests {
		t.Run(tt.spec, func(t *testing.T) {
			t.Parallel()
			src, err := Open(t.Context(), tt.spec, Options{WorkingDir: dir})
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			t.Cleanup(func() { src.Close() })
			assert.IsType(t, tt.want, src)
		})
	}
}

func TestOpenUnknownIsSentinel(t *testing.T) {
	t.Parallel()

	_, err := Open(t.Context(), "nope", Options{})
	assert.ErrorIs(t, err, ErrUnknownSource)
}

type sliceSource struct {
	entries []Entry
	fail    error
}

func (s *sliceSource) Fetch(ctx context.Context, offset, count int) ([]Entry, error) {
	if s.fail != nil {
		return nil, s.fail
	}
	end := min(offset+count, len(s.entries))
	var out []Entry
	if offset < end {
		out = s.entries[offset:end]
	}
	if end >= len(s.entries) {
		return out, ErrEndOfData
	}
	return out, nil
}

func (s *sliceSource) Close() error { return nil }

func entries(n int) []Entry {
	out := make([]Entry, n)
	for i := range out {
		out[i] = Entry{ID: string(rune('a' + i)), Title: string(rune('A' + i))}
	}
	return out
}

func TestPager(t *testing.T) {
	t.Parallel()

	p := NewPager(&sliceSource{entries: entries(5)})

	page, err := p.Next(t.Context(), 2)
	require.NoError(t, err)
	assert.Equal(t, "a", page[0].ID)
	assert.Equal(t, 2, p.Offset())

	page, err = p.Next(t.Context(), 2)
	require.NoError(t, err)
	assert.Equal(t, "c", page[0].ID)

	page, err = p.Next(t.Context(), 2)
	assert.ErrorIs(t, err, ErrEndOfData)
	assert.Len(t, page, 1)
	assert.Equal(t, 5, p.Offset())
}

func TestPagerDrain(t *testing.T) {
	t.Parallel()

	t.Run("all", func(t *testing.T) {
		t.Parallel()
		p := NewPager(&sliceSource{entries: entries(7)})
		var got []Entry
		err := p.Drain(t.Context(), 3, -1, func(page []Entry) error {
			got = append(got, page...)
			return nil
		})
		require.NoError(t, err)
		assert.Len(t, got, 7)
	})

	t.Run("limited", func(t *testing.T) {
		t.Parallel()
		p := NewPager(NewGenerated(GeneratedOptions{}))
		var pages []int
		err := p.Drain(t.Context(), 4, 10, func(page []Entry) error {
			pages = append(pages, len(page))
			return nil
		})
		require.NoError(t, err)
		assert.Equal(t, []int{4, 4, 2}, pages)
	})

	t.Run("callback error stops", func(t *testing.T) {
		t.Parallel()
		p := NewPager(&sliceSource{entries: entries(7)})
		stop := errors.New("stop")
		err := p.Drain(t.Context(), 3, -1, func(page []Entry) error {
			return stop
		})
		assert.ErrorIs(t, err, stop)
	})

	t.Run("source error", func(t *testing.T) {
		t.Parallel()
		p := NewPager(&sliceSource{fail: errors.New("broken")})
		err := p.Drain(t.Context(), 3, -1, func(page []Entry) error {
			return nil
		})
		assert.EqualError(t, err, "broken")
	})
}

func TestGenerated(t *testing.T) {
	t.Parallel()

	g := NewGenerated(GeneratedOptions{Seed: "test"})
	first, err := g.Fetch(t.Context(), 0, 20)
	require.NoError(t, err)
	require.Len(t, first, 20)

	again, err := g.Fetch(t.Context(), 10, 5)
	require.NoError(t, err)
	assert.Equal(t, first[10:15], again)

	assert.Equal(t, "Entry #1", first[0].Title)
	assert.NotEqual(t, first[0].ID, first[1].ID)

	heights := map[int]bool{}
	for _, e := range first {
		lines := 1
		for _, r := range e.Body {
			if r == '\n' {
				lines++
			}
		}
		heights[lines] = true
	}
	assert.Greater(t, len(heights), 1, "bodies should vary in height")

	other, err := NewGenerated(GeneratedOptions{Seed: "other"}).Fetch(t.Context(), 0, 1)
	require.NoError(t, err)
	assert.NotEqual(t, first[0].ID, other[0].ID)
}

func TestGeneratedDelayHonorsContext(t *testing.T) {
	t.Parallel()

	g := NewGenerated(GeneratedOptions{Delay: time.Hour})
	ctx, cancel := context.WithCancel(t.Context())
	cancel()
	_, err := g.Fetch(ctx, 0, 1)
	assert.ErrorIs(t, err, context.Canceled)
}

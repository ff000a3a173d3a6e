package source

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tamarack-ui/tamarack/internal/network"
)

func feedServer(t *testing.T, total int, failFirst int32) (*httptest.Server, *atomic.Int32) {
	t.Helper()
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n := calls.Add(1)
		if n <= failFirst {
			http.Error(w, "try again", http.StatusServiceUnavailable)
			return
		}
		offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))
		limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
		assert.Equal(t, "application/json", r.Header.Get("Accept"))
		assert.Equal(t, "yes", r.URL.Query().Get("keep"))

		entries := []Entry{}
		for i := offset; i < min(offset+limit, total); i++ {
			entries = append(entries, Entry{
				ID:    "e" + strconv.Itoa(i),
				Title: "title " + strconv.Itoa(i),
				Time:  time.Date(2025, 1, 1, 0, i, 0, 0, time.UTC),
			})
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(entries)
	}))
	t.Cleanup(srv.Close)
	return srv, &calls
}

func TestHTTP(t *testing.T) {
	t.Parallel()

	srv, calls := feedServer(t, 5, 0)
	h, err := NewHTTP(srv.URL+"/feed?keep=yes", HTTPOptions{Backoff: time.Millisecond})
	require.NoError(t, err)
	t.Cleanup(func() { h.Close() })

	page, err := h.Fetch(t.Context(), 0, 3)
	require.NoError(t, err)
	assert.Equal(t, []string{"title 0", "title 1", "title 2"}, titles(page))
	assert.Equal(t, time.Date(2025, 1, 1, 0, 1, 0, 0, time.UTC), page[1].Time)

	page, err = h.Fetch(t.Context(), 3, 3)
	require.NoError(t, err)
	assert.Len(t, page, 2)

	page, err = h.Fetch(t.Context(), 5, 3)
	assert.ErrorIs(t, err, ErrEndOfData)
	assert.Empty(t, page)
	assert.Equal(t, int32(3), calls.Load())
}

func TestHTTPRetriesTransientErrors(t *testing.T) {
	t.Parallel()

	srv, calls := feedServer(t, 5, 2)
	h, err := NewHTTP(srv.URL+"?keep=yes", HTTPOptions{Backoff: time.Millisecond})
	require.NoError(t, err)

	page, err := h.Fetch(t.Context(), 0, 2)
	require.NoError(t, err)
	assert.Len(t, page, 2)
	assert.Equal(t, int32(3), calls.Load())
}

func TestHTTPGivesUp(t *testing.T) {
	t.Parallel()

	srv, calls := feedServer(t, 5, 100)
	h, err := NewHTTP(srv.URL+"?keep=yes", HTTPOptions{Backoff: time.Millisecond, Retries: 2})
	require.NoError(t, err)

	_, err = h.Fetch(t.Context(), 0, 2)
	require.Error(t, err)
	var statusErr *network.StatusError
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, http.StatusServiceUnavailable, statusErr.Code)
	assert.Equal(t, "try again", statusErr.Body)
	assert.Equal(t, int32(3), calls.Load())
}

func TestHTTPDoesNotRetryClientErrors(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		http.NotFound(w, r)
	}))
	t.Cleanup(srv.Close)

	h, err := NewHTTP(srv.URL, HTTPOptions{Backoff: time.Millisecond})
	require.NoError(t, err)
	_, err = h.Fetch(t.Context(), 0, 2)
	require.Error(t, err)
	assert.False(t, network.IsTransient(err))
	assert.Equal(t, int32(1), calls.Load())
}

func TestHTTPBadPayload(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"not": "an array"}`))
	}))
	t.Cleanup(srv.Close)

	h, err := NewHTTP(srv.URL, HTTPOptions{Backoff: time.Millisecond})
	require.NoError(t, err)
	_, err = h.Fetch(t.Context(), 0, 2)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to decode page")
}

func TestHTTPFillsMissingIDs(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[{"title": "x"}, {"title": "y"}, {"title": "z"}]`))
	}))
	t.Cleanup(srv.Close)

	h, err := NewHTTP(srv.URL, HTTPOptions{})
	require.NoError(t, err)
	page, err := h.Fetch(t.Context(), 10, 2)
	require.NoError(t, err)
	require.Len(t, page, 2)
	assert.Equal(t, "10", page[0].ID)
	assert.Equal(t, "11", page[1].ID)
}

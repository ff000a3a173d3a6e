package update

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/tamarack-ui/tamarack/internal/network"
	"github.com/tamarack-ui/tamarack/internal/version"
)

func TestCompareVersions(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		v1       string
		v2       string
		expected int
	}{
		{name: "equal versions", v1: "1.0.0", v2: "1.0.0", expected: 0},
		{name: "v1 less than v2 - patch", v1: "1.0.0", v2: "1.0.1", expected: -1},
		{name: "v1 less than v2 - minor", v1: "1.0.0", v2: "1.1.0", expected: -1},
		{name: "v1 less than v2 - major", v1: "1.0.0", v2: "2.0.0", expected: -1},
		{name: "v1 greater than v2", v1: "2.0.0", v2: "1.9.9", expected: 1},
		{name: "with v prefix", v1: "v1.0.0", v2: "v1.0.1", expected: -1},
		{name: "different lengths", v1: "1.0", v2: "1.0.0", expected: -1},
		{name: "pre-release suffix", v1: "1.2.0-rc1", v2: "1.2.0", expected: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			require.Equal(t, tt.expected, compareVersions(tt.v1, tt.v2))
		})
	}
}

func withVersion(t *testing.T, v string) {
	t.Helper()
	original := version.Version
	version.Version = v
	t.Cleanup(func() { version.Version = original })
}

func TestCheck(t *testing.T) {
	t.Run("development version", func(t *testing.T) {
		withVersion(t, "unknown")
		c := &Checker{URL: "http://127.0.0.1:0/unreachable"}
		info, err := c.Check(t.Context())
		require.NoError(t, err)
		require.False(t, info.Available)
	})

	t.Run("newer release", func(t *testing.T) {
		withVersion(t, "0.1.0")
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			require.Equal(t, userAgent, r.Header.Get("User-Agent"))
			_, _ = w.Write([]byte(`{"tag_name":"v0.2.0","html_url":"https://example.com/v0.2.0"}`))
		}))
		defer srv.Close()

		c := &Checker{URL: srv.URL, Client: srv.Client()}
		info, err := c.Check(t.Context())
		require.NoError(t, err)
		require.True(t, info.Available)
		require.Equal(t, "0.2.0", info.LatestVersion)
		require.Equal(t, "https://example.com/v0.2.0", info.ReleaseURL)
	})

	t.Run("api error", func(t *testing.T) {
		withVersion(t, "0.1.0")
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			http.Error(w, "rate limited", http.StatusForbidden)
		}))
		defer srv.Close()

		c := &Checker{URL: srv.URL, Client: srv.Client()}
		_, err := c.Check(t.Context())
		var status *network.StatusError
		require.ErrorAs(t, err, &status)
		require.Equal(t, http.StatusForbidden, status.Code)
	})
}

func TestCheckAsync(t *testing.T) {
	withVersion(t, "0.1.0")
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls++
		_, _ = w.Write([]byte(`{"tag_name":"v1.0.0","html_url":"https://example.com"}`))
	}))
	defer srv.Close()

	dir := t.TempDir()
	c := &Checker{URL: srv.URL, Client: srv.Client()}
	require.True(t, ShouldCheck(dir))

	var got []*Info
	for info := range c.CheckAsync(t.Context(), dir) {
		got = append(got, info)
	}
	require.Len(t, got, 1)
	require.Equal(t, "1.0.0", got[0].LatestVersion)

	require.False(t, ShouldCheck(dir))
	last, err := LoadLastCheck(dir)
	require.NoError(t, err)
	require.True(t, last.Available)

	for range c.CheckAsync(t.Context(), dir) {
		t.Fatal("checked twice within a day")
	}
	require.Equal(t, 1, calls)
}

package source

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/sethvargo/go-retry"
	"github.com/tamarack-ui/tamarack/internal/network"
	"github.com/tamarack-ui/tamarack/internal/version"
)

const (
	defaultHTTPRetries = 3
	defaultHTTPBackoff = 250 * time.Millisecond
	maxHTTPBackoff     = 5 * time.Second
	userAgent          = "tamarack"
)

type HTTPOptions struct {
	Client *http.Client
	// Retries is the number of retries after a transient failure.
	Retries uint64
	// Backoff is the first retry delay, doubled on every retry.
	Backoff time.Duration
}

// HTTP pages a JSON endpoint with offset and limit query parameters. The
// endpoint answers with an array of entries, an empty array once past the
// end.
type HTTP struct {
	base   *url.URL
	client *http.Client
	opts   HTTPOptions
}

func NewHTTP(rawURL string, opts HTTPOptions) (*HTTP, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("invalid url %q: %w", rawURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("invalid url %q: scheme must be http or https", rawURL)
	}
	if opts.Client == nil {
		opts.Client = &http.Client{Timeout: 30 * time.Second}
	}
	if opts.Retries == 0 {
		opts.Retries = defaultHTTPRetries
	}
	if opts.Backoff <= 0 {
		opts.Backoff = defaultHTTPBackoff
	}
	return &HTTP{base: u, client: opts.Client, opts: opts}, nil
}

func (h *HTTP) Fetch(ctx context.Context, offset, count int) ([]Entry, error) {
	b := retry.NewExponential(h.opts.Backoff)
	b = retry.WithCappedDuration(maxHTTPBackoff, b)
	b = retry.WithMaxRetries(h.opts.Retries, b)

	var entries []Entry
	attempt := 0
	err := retry.Do(ctx, b, func(ctx context.Context) error {
		attempt++
		var err error
		entries, err = h.page(ctx, offset, count)
		if network.IsTransient(err) {
			slog.Warn("Retrying page", "url", h.base.Redacted(), "offset", offset, "attempt", attempt, "error", err)
			return retry.RetryableError(err)
		}
		return err
	})
	if err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		return nil, ErrEndOfData
	}
	return entries, nil
}

func (h *HTTP) page(ctx context.Context, offset, count int) ([]Entry, error) {
	u := *h.base
	q := u.Query()
	q.Set("offset", strconv.Itoa(offset))
	q.Set("limit", strconv.Itoa(count))
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", userAgent+"/"+version.Version)
	req.Header.Set("Accept", "application/json")

	resp, err := h.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, &network.StatusError{Code: resp.StatusCode, Body: strings.TrimSpace(string(body))}
	}

	var entries []Entry
	if err := json.NewDecoder(resp.Body).Decode(&entries); err != nil {
		return nil, fmt.Errorf("failed to decode page at offset %d: %w", offset, err)
	}
	if len(entries) > count {
		entries = entries[:count]
	}
	for i := range entries {
		if entries[i].ID == "" {
			entries[i].ID = strconv.Itoa(offset + i)
		}
	}
	return entries, nil
}

func (h *HTTP) Close() error {
	h.client.CloseIdleConnections()
	return nil
}

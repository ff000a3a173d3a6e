package scroller

import (
	"context"
	"errors"
	"log/slog"

	tea "github.com/charmbracelet/bubbletea/v2"
	"github.com/tamarack-ui/tamarack/internal/log"
)

// ErrEndOfData is returned by a Fetcher, possibly wrapped and possibly along
// with a last batch of items, when the list has no more items. The model
// stops fetching and stops extending the list with placeholders.
var ErrEndOfData = errors.New("end of data")

// Fetcher retrieves the next count items. It runs outside the event loop and
// may return fewer items than requested.
type Fetcher[T any] func(ctx context.Context, count int) ([]T, error)

// FetchedMsg carries the result of a fetch back to the model that issued it.
type FetchedMsg[T any] struct {
	owner     *Model[T]
	Requested int
	Items     []T
	Err       error
}

// getAdditionalContent issues a fetch sized to the part of the attach range
// that has no data yet. At most one fetch is in flight at any time; calls
// made while one is pending are dropped.
func (m *Model[T]) getAdditionalContent() tea.Cmd {
	if m.fetching || m.exhausted || m.backoff || m.fetch == nil {
		return nil
	}
	needed := m.attached.Last - m.cache.loaded
	if needed <= 0 {
		return nil
	}
	m.fetching = true
	m.fetches++
	slog.Debug("Fetching items", "count", needed, "loaded", m.cache.loaded)

	ctx, fetch := m.ctx, m.fetch
	return func() (msg tea.Msg) {
		defer func() {
			if r := recover(); r != nil {
				msg = FetchedMsg[T]{owner: m, Requested: needed, Err: log.ReportPanic("fetch", r)}
			}
		}()
		items, err := fetch(ctx, needed)
		return FetchedMsg[T]{owner: m, Requested: needed, Items: items, Err: err}
	}
}

// addContent appends fetched items to the cache and reconciles again.
func (m *Model[T]) addContent(msg FetchedMsg[T]) tea.Cmd {
	m.fetching = false
	for _, item := range msg.Items {
		m.cache.add(item)
	}
	if !m.scrollable() {
		if errors.Is(msg.Err, ErrEndOfData) {
			m.exhausted = true
		}
		return nil
	}
	switch {
	case msg.Err == nil:
		m.lastErr = nil
	case errors.Is(msg.Err, ErrEndOfData):
		slog.Debug("Reached end of data", "loaded", m.cache.loaded)
		m.exhausted = true
		m.clampAnchor()
		return m.onScroll()
	case errors.Is(msg.Err, context.Canceled):
		return nil
	default:
		slog.Error("Failed to fetch items", "requested", msg.Requested, "received", len(msg.Items), "error", msg.Err)
		m.lastErr = msg.Err
		// wait for the next scroll or resize before asking again
		m.backoff = true
	}
	return m.attachContent()
}

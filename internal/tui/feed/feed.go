// Package feed turns source entries into list elements.
package feed

import (
	"log/slog"
	"strconv"
	"strings"

	"github.com/charmbracelet/glamour/v2"
	"github.com/tamarack-ui/tamarack/internal/source"
	"github.com/tamarack-ui/tamarack/internal/tui/exp/scroller"
	"github.com/tamarack-ui/tamarack/internal/tui/styles"
	"github.com/zeebo/xxh3"
)

const (
	timeFormat   = "Jan 02 15:04"
	maxCacheSize = 4096
)

// Renderer renders entries, caching the output by content and width.
type Renderer struct {
	width    int
	markdown bool

	md      *glamour.TermRenderer
	mdWidth int

	cache map[uint64]string
	hits  int
}

type Option func(*Renderer)

// WithMarkdown renders entry bodies as markdown.
func WithMarkdown(enabled bool) Option {
	return func(r *Renderer) {
		r.markdown = enabled
	}
}

func WithWidth(width int) Option {
	return func(r *Renderer) {
		r.width = width
	}
}

func New(opts ...Option) *Renderer {
	r := &Renderer{cache: make(map[uint64]string)}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// SetWidth changes the width entries are rendered for.
func (r *Renderer) SetWidth(width int) {
	r.width = width
}

func (r *Renderer) SetMarkdown(enabled bool) {
	r.markdown = enabled
}

// Render is a scroller.RenderFunc. It reuses recycled when given one.
func (r *Renderer) Render(e source.Entry, recycled *scroller.Element) *scroller.Element {
	content := r.Content(e)
	if recycled != nil {
		recycled.SetContent(content)
		return recycled
	}
	return scroller.NewElement(content)
}

// Content returns the rendered text of an entry: a header line, the body
// and a blank separator line.
func (r *Renderer) Content(e source.Entry) string {
	key := r.key(e)
	if s, ok := r.cache[key]; ok {
		r.hits++
		return s
	}

	t := styles.CurrentTheme().S()
	var b strings.Builder
	b.WriteString(t.EntryTitle.Render(e.Title))
	if !e.Time.IsZero() {
		b.WriteString(" ")
		b.WriteString(t.EntryTime.Render(e.Time.Format(timeFormat)))
	}
	if body := r.body(e.Body); body != "" {
		b.WriteString("\n")
		b.WriteString(body)
	}
	b.WriteString("\n")

	s := b.String()
	if len(r.cache) >= maxCacheSize {
		clear(r.cache)
	}
	r.cache[key] = s
	return s
}

func (r *Renderer) body(body string) string {
	body = strings.TrimRight(body, "\n")
	if body == "" {
		return ""
	}
	if r.markdown && r.width > 0 {
		out, err := r.renderMarkdown(body)
		if err == nil {
			return strings.Trim(out, "\n")
		}
		slog.Warn("Failed to render markdown", "error", err)
	}
	style := styles.CurrentTheme().S().EntryBody
	lines := strings.Split(body, "\n")
	for i, line := range lines {
		lines[i] = style.Render(line)
	}
	return strings.Join(lines, "\n")
}

func (r *Renderer) renderMarkdown(body string) (string, error) {
	if r.md == nil || r.mdWidth != r.width {
		md, err := glamour.NewTermRenderer(
			glamour.WithStandardStyle("dark"),
			glamour.WithWordWrap(r.width),
		)
		if err != nil {
			return "", err
		}
		r.md, r.mdWidth = md, r.width
	}
	return r.md.Render(body)
}

func (r *Renderer) key(e source.Entry) uint64 {
	h := xxh3.New()
	h.WriteString(e.ID)
	h.WriteString("\x00")
	h.WriteString(e.Title)
	h.WriteString("\x00")
	h.WriteString(e.Body)
	h.WriteString("\x00")
	h.WriteString(e.Time.String())
	h.WriteString("\x00")
	h.WriteString(strconv.Itoa(r.width))
	if r.markdown {
		h.WriteString("\x00md")
	}
	return h.Sum64()
}

// Placeholder returns the element shown for entries still loading: lines
// rows of bars followed by the same separator line entries have.
func Placeholder(lines int) *scroller.Element {
	t := styles.CurrentTheme().S()
	widths := []int{24, 36, 16, 30}
	var b strings.Builder
	for i := range max(1, lines) {
		b.WriteString(t.Placeholder.Render(strings.Repeat("░", widths[i%len(widths)])))
		b.WriteString("\n")
	}
	return scroller.NewElement(b.String())
}

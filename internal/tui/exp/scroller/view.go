package scroller

import (
	"strings"

	"github.com/charmbracelet/lipgloss/v2"
)

var (
	scrollbarTrack = lipgloss.NewStyle().Faint(true)
	scrollbarThumb = lipgloss.NewStyle().Bold(true)
)

// View renders the viewport.
func (m *Model[T]) View() string {
	width, height := m.plane.Size()
	if width <= 0 || height <= 0 {
		return ""
	}
	body := lipgloss.NewStyle().
		Width(width).
		MaxWidth(width).
		Height(height).
		MaxHeight(height).
		Render(m.plane.Render())
	if !m.cfg.Scrollbar {
		return body
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, body, m.scrollbar(height))
}

// scrollbar draws a one column bar whose thumb covers the visible share of
// the runway.
func (m *Model[T]) scrollbar(height int) string {
	runway := max(m.plane.Runway(), height)
	thumb := max(1, height*height/runway)
	pos := 0
	if limit := m.plane.MaxScrollTop(); limit > 0 {
		pos = m.plane.ScrollTop() * (height - thumb) / limit
	}
	rows := make([]string, height)
	for i := range rows {
		if i >= pos && i < pos+thumb {
			rows[i] = scrollbarThumb.Render("┃")
		} else {
			rows[i] = scrollbarTrack.Render("│")
		}
	}
	return strings.Join(rows, "\n")
}

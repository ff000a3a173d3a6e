package scroller

import (
	"slices"
	"strings"

	"github.com/charmbracelet/x/ansi"
)

// Plane is the scroll container elements are attached to. It owns the
// scroll offset and the runway, the total scrollable length, and composes
// the visible rows of its attached elements.
type Plane struct {
	width, height int
	scrollTop     int
	runwayEnd     int
	elements      []*Element
}

// NewPlane returns an empty plane of the given viewport size.
func NewPlane(width, height int) *Plane {
	return &Plane{width: width, height: height}
}

// SetSize changes the viewport size.
func (p *Plane) SetSize(width, height int) {
	p.width = max(0, width)
	p.height = max(0, height)
	p.scrollTop = p.clamp(p.scrollTop)
}

// Size returns the viewport size.
func (p *Plane) Size() (int, int) {
	return p.width, p.height
}

// Height returns the viewport height.
func (p *Plane) Height() int {
	return p.height
}

// Attach adds e to the plane. Attaching an element twice is a no-op.
func (p *Plane) Attach(e *Element) {
	if e.attached {
		return
	}
	e.attached = true
	p.elements = append(p.elements, e)
}

// Detach removes e from the plane.
func (p *Plane) Detach(e *Element) {
	if !e.attached {
		return
	}
	e.attached = false
	if i := slices.Index(p.elements, e); i >= 0 {
		p.elements = slices.Delete(p.elements, i, i+1)
	}
}

// Len returns the number of attached elements, hidden ones included.
func (p *Plane) Len() int {
	return len(p.elements)
}

// Move places e at the given row of the scroll plane.
func (p *Plane) Move(e *Element, top int) {
	e.top = top
}

// Measure returns the rendered box of e at the current plane width.
func (p *Plane) Measure(e *Element) (height, width int) {
	return e.size(p.width)
}

// SetRunway sets the scrollable length of the plane.
func (p *Plane) SetRunway(end int) {
	p.runwayEnd = max(0, end)
	p.scrollTop = p.clamp(p.scrollTop)
}

// Runway returns the scrollable length of the plane.
func (p *Plane) Runway() int {
	return p.runwayEnd
}

// MaxScrollTop returns the largest offset the plane can be scrolled to.
func (p *Plane) MaxScrollTop() int {
	return max(0, p.runwayEnd-p.height)
}

// ScrollTop returns the current scroll offset.
func (p *Plane) ScrollTop() int {
	return p.scrollTop
}

// SetScrollTop scrolls the plane, clamping to the runway, and returns the
// offset actually applied.
func (p *Plane) SetScrollTop(top int) int {
	p.scrollTop = p.clamp(top)
	return p.scrollTop
}

func (p *Plane) clamp(top int) int {
	return min(max(0, top), p.MaxScrollTop())
}

// Render draws the rows of the viewport.
func (p *Plane) Render() string {
	if p.height <= 0 || p.width <= 0 {
		return ""
	}
	rows := make([]string, p.height)
	for _, e := range p.elements {
		if e.hidden {
			continue
		}
		lines := e.lines(p.width)
		start := e.top - p.scrollTop
		if start >= p.height || start+len(lines) <= 0 {
			continue
		}
		for i, line := range lines {
			row := start + i
			if row < 0 {
				continue
			}
			if row >= p.height {
				break
			}
			rows[row] = line
		}
	}
	for i, row := range rows {
		rows[i] = ansi.Truncate(row, p.width, "")
	}
	return strings.Join(rows, "\n")
}

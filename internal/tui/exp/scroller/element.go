package scroller

import (
	"strings"

	"github.com/charmbracelet/x/ansi"
	"github.com/rivo/uniseg"
)

// Element is a materialized block of content living in a Plane. It is the
// terminal counterpart of a positioned view: the Plane decides where it is
// drawn, the owner decides what it shows.
type Element struct {
	content     string
	top         int
	hidden      bool
	placeholder bool
	attached    bool

	// wrapped content for wrapWidth, rebuilt lazily
	wrapped   []string
	wrapWidth int
}

// NewElement returns a detached element showing content.
func NewElement(content string) *Element {
	return &Element{content: content, wrapWidth: -1}
}

// Content returns the raw content of the element.
func (e *Element) Content() string {
	return e.content
}

// SetContent replaces the element content.
func (e *Element) SetContent(content string) {
	if e.content == content {
		return
	}
	e.content = content
	e.wrapped = nil
	e.wrapWidth = -1
}

// Top returns the row the element was last moved to.
func (e *Element) Top() int {
	return e.top
}

// Hidden reports whether the element is currently invisible.
func (e *Element) Hidden() bool {
	return e.hidden
}

// IsPlaceholder reports whether the element stands in for unloaded data.
func (e *Element) IsPlaceholder() bool {
	return e.placeholder
}

// Attached reports whether the element is part of a Plane.
func (e *Element) Attached() bool {
	return e.attached
}

// Clone returns a detached, visible copy of the element.
func (e *Element) Clone() *Element {
	return &Element{
		content:     e.content,
		placeholder: e.placeholder,
		wrapWidth:   -1,
	}
}

func (e *Element) lines(width int) []string {
	if e.wrapWidth == width && e.wrapped != nil {
		return e.wrapped
	}
	content := e.content
	if width > 0 {
		content = ansi.Wrap(content, width, "")
	}
	e.wrapped = strings.Split(content, "\n")
	e.wrapWidth = width
	return e.wrapped
}

// size returns the wrapped height and the widest line of the element. An
// empty element has no box at all.
func (e *Element) size(width int) (int, int) {
	if e.content == "" {
		return 0, 0
	}
	lines := e.lines(width)
	w := 0
	for _, line := range lines {
		w = max(w, uniseg.StringWidth(ansi.Strip(line)))
	}
	return len(lines), w
}

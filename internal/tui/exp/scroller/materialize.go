package scroller

import (
	tea "github.com/charmbracelet/bubbletea/v2"
)

// fill sets the attach range and reconciles the plane against it.
func (m *Model[T]) fill(start, end int) tea.Cmd {
	if m.exhausted {
		end = min(end, m.cache.loaded)
	}
	m.attached = AttachRange{First: max(0, start), Last: end}
	return m.attachContent()
}

// attachContent reconciles the attached elements with the attach range,
// measures new content, positions everything relative to the anchor and
// asks for more data when the range runs past what has been loaded.
func (m *Model[T]) attachContent() tea.Cmd {
	first, last := m.attached.First, m.attached.Last
	unused := newRecyclePool()

	for i, r := range m.cache.records {
		if i >= first && i < last {
			continue
		}
		if r.view == nil {
			continue
		}
		if r.view.placeholder {
			m.placeholders.release(r.view)
		} else {
			unused.put(i, r.view)
		}
		r.view = nil
	}

	m.cache.grow(last)
	for i := first; i < last; i++ {
		r := m.cache.records[i]
		if r.view != nil {
			if !r.view.placeholder || !r.hasData {
				continue
			}
			m.placeholders.release(r.view)
			r.view = nil
		}
		var e *Element
		if r.hasData {
			recycled := unused.pop()
			if recycled == nil && m.cfg.Template != nil {
				recycled = m.cfg.Template.Clone()
			}
			e = m.render(r.data, recycled)
			if recycled != nil && recycled != e {
				m.plane.Detach(recycled)
			}
			e.placeholder = false
			e.hidden = false
		} else {
			e = m.placeholders.acquire()
		}
		m.plane.Attach(e)
		r.view = e
	}
	unused.drain(m.plane.Detach)

	for i := first; i < last; i++ {
		r := m.cache.records[i]
		if r.hasData && !r.measured() {
			r.height, r.width = m.plane.Measure(r.view)
		}
	}

	m.anchorScrollTop = m.anchorTop(m.anchor)

	pos := m.anchorScrollTop - m.anchor.Offset
	i := m.anchor.Index
	for ; i > first; i-- {
		pos -= m.cache.heightOr(i-1, m.placeholderHeight)
	}
	for ; i < first; i++ {
		pos += m.cache.heightOr(i, m.placeholderHeight)
	}
	for i := first; i < last; i++ {
		r := m.cache.records[i]
		r.top = pos
		m.plane.Move(r.view, pos)
		pos += m.cache.heightOr(i, m.placeholderHeight)
	}

	m.runwayEnd = max(m.runwayEnd, pos+m.cfg.RunwayExtraLength)
	m.plane.SetRunway(m.runwayEnd)
	m.plane.SetScrollTop(m.anchorScrollTop)

	return m.getAdditionalContent()
}

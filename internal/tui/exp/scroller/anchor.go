package scroller

// Anchor identifies the row Offset rows into logical item Index. It is the
// point that stays visually fixed across a reconciliation pass.
type Anchor struct {
	Index  int
	Offset int
}

// AttachRange is the half-open window [First, Last) of logical items backed
// by attached elements.
type AttachRange struct {
	First int
	Last  int
}

// Len returns the number of items in the range.
func (r AttachRange) Len() int {
	return max(0, r.Last-r.First)
}

// Contains reports whether i is inside the range.
func (r AttachRange) Contains(i int) bool {
	return i >= r.First && i < r.Last
}

// recomputeAnchor moves prev by delta rows. Known heights are consumed item
// by item; whatever is left once the walk reaches unmeasured items is
// converted into placeholder sized steps.
func (m *Model[T]) recomputeAnchor(prev Anchor, delta int) Anchor {
	if delta == 0 {
		return prev
	}
	ph := m.placeholderHeight
	delta += prev.Offset
	i := prev.Index
	placeholders := 0
	if delta < 0 {
		for delta < 0 && i > 0 && m.cache.knownHeight(i-1) != 0 {
			delta += m.cache.knownHeight(i - 1)
			i--
		}
		// integer division truncates towards zero, which is ceil for
		// non-positive numerators
		placeholders = max(-i, min(delta, 0)/ph)
	} else {
		for delta > 0 && i < m.cache.len() {
			h := m.cache.knownHeight(i)
			if h == 0 || h >= delta {
				break
			}
			delta -= h
			i++
		}
		if i >= m.cache.len() || m.cache.knownHeight(i) == 0 {
			placeholders = max(delta, 0) / ph
		}
	}
	i += placeholders
	delta -= placeholders * ph
	return Anchor{Index: i, Offset: delta}
}

// anchorTop returns the absolute row of the anchor, using placeholder
// estimates wherever a height is still unknown.
func (m *Model[T]) anchorTop(a Anchor) int {
	top := 0
	for i := range a.Index {
		top += m.cache.heightOr(i, m.placeholderHeight)
	}
	return top + a.Offset
}

package scroller

// placeholderPool hands out stand-in elements for items whose data has not
// arrived. Released placeholders stay attached to the plane, hidden, and are
// reused before the template is cloned again.
type placeholderPool struct {
	template *Element
	free     []*Element
	created  int
}

func newPlaceholderPool(template *Element) *placeholderPool {
	template.placeholder = true
	return &placeholderPool{template: template}
}

func (p *placeholderPool) acquire() *Element {
	if n := len(p.free); n > 0 {
		e := p.free[n-1]
		p.free = p.free[:n-1]
		e.hidden = false
		return e
	}
	p.created++
	return p.template.Clone()
}

func (p *placeholderPool) release(e *Element) {
	e.hidden = true
	p.free = append(p.free, e)
}

// recyclePool holds real elements that left the attach range during a
// reconciliation pass, keyed by the slot they were detached from. They are
// offered to the render callback and whatever is left over is discarded at
// the end of the pass.
type recyclePool struct {
	slots []int
	elems map[int]*Element
}

func newRecyclePool() *recyclePool {
	return &recyclePool{elems: make(map[int]*Element)}
}

func (p *recyclePool) put(slot int, e *Element) {
	if _, ok := p.elems[slot]; !ok {
		p.slots = append(p.slots, slot)
	}
	p.elems[slot] = e
}

// pop returns the most recently released element, nil when empty.
func (p *recyclePool) pop() *Element {
	for n := len(p.slots); n > 0; n = len(p.slots) {
		slot := p.slots[n-1]
		p.slots = p.slots[:n-1]
		if e, ok := p.elems[slot]; ok {
			delete(p.elems, slot)
			return e
		}
	}
	return nil
}

func (p *recyclePool) len() int {
	return len(p.elems)
}

// drain empties the pool, calling fn for every element left.
func (p *recyclePool) drain(fn func(*Element)) {
	for e := p.pop(); e != nil; e = p.pop() {
		fn(e)
	}
}

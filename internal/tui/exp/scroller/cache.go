package scroller

// record is one logical position of the list.
type record[T any] struct {
	data    T
	hasData bool
	view    *Element

	// height and width stay 0 until real content has been measured.
	height int
	width  int
	top    int
}

func (r *record[T]) measured() bool {
	return r.height != 0
}

// itemCache is the append-only sequence of records, addressed by index.
// It never shrinks.
type itemCache[T any] struct {
	records []*record[T]
	loaded  int
}

func (c *itemCache[T]) len() int {
	return len(c.records)
}

func (c *itemCache[T]) at(i int) *record[T] {
	if i < 0 || i >= len(c.records) {
		return nil
	}
	return c.records[i]
}

// grow extends the cache with empty records until it holds n of them.
func (c *itemCache[T]) grow(n int) {
	for len(c.records) < n {
		c.records = append(c.records, &record[T]{})
	}
}

// add stores data at the first position that has none yet.
func (c *itemCache[T]) add(data T) {
	c.grow(c.loaded + 1)
	r := c.records[c.loaded]
	r.data = data
	r.hasData = true
	c.loaded++
}

// heightOr returns the measured height at i, or fallback when unknown.
func (c *itemCache[T]) heightOr(i, fallback int) int {
	if r := c.at(i); r != nil && r.height != 0 {
		return r.height
	}
	return fallback
}

// knownHeight returns the measured height at i, 0 when unknown.
func (c *itemCache[T]) knownHeight(i int) int {
	if r := c.at(i); r != nil {
		return r.height
	}
	return 0
}

// resetMeasurements forgets every measured box, used when the plane width
// changes and content reflows.
func (c *itemCache[T]) resetMeasurements() {
	for _, r := range c.records {
		r.height = 0
		r.width = 0
	}
}

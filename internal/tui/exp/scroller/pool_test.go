package scroller

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlaceholderPool(t *testing.T) {
	t.Parallel()

	pool := newPlaceholderPool(NewElement("·"))
	a := pool.acquire()
	b := pool.acquire()
	require.NotSame(t, a, b)
	assert.Equal(t, 2, pool.created)
	assert.True(t, a.IsPlaceholder())

	pool.release(a)
	assert.True(t, a.Hidden())

	c := pool.acquire()
	assert.Same(t, a, c)
	assert.False(t, c.Hidden())
	assert.Equal(t, 2, pool.created)
}

func TestRecyclePool(t *testing.T) {
	t.Parallel()

	pool := newRecyclePool()
	assert.Nil(t, pool.pop())

	a, b, c := NewElement("a"), NewElement("b"), NewElement("c")
	pool.put(1, a)
	pool.put(4, b)
	pool.put(9, c)
	assert.Equal(t, 3, pool.len())

	assert.Same(t, c, pool.pop())

	var drained []*Element
	pool.drain(func(e *Element) {
		drained = append(drained, e)
	})
	assert.Equal(t, []*Element{b, a}, drained)
	assert.Zero(t, pool.len())
}

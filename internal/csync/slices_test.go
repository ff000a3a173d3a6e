package csync

import (
	"slices"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSlice(t *testing.T) {
	t.Parallel()

	t.Run("append and get", func(t *testing.T) {
		t.Parallel()
		s := NewSlice[string]()
		s.Append("a", "b")
		s.Append("c")

		require.Equal(t, 3, s.Len())
		v, ok := s.Get(1)
		assert.True(t, ok)
		assert.Equal(t, "b", v)

		_, ok = s.Get(3)
		assert.False(t, ok)
		_, ok = s.Get(-1)
		assert.False(t, ok)
	})

	t.Run("range is clamped", func(t *testing.T) {
		t.Parallel()
		s := NewSliceFrom([]int{1, 2, 3, 4})
		assert.Equal(t, []int{2, 3}, s.Range(1, 3))
		assert.Equal(t, []int{3, 4}, s.Range(2, 10))
		assert.Nil(t, s.Range(5, 10))
		assert.Nil(t, s.Range(3, 1))
	})

	t.Run("copies are independent", func(t *testing.T) {
		t.Parallel()
		src := []int{1, 2}
		s := NewSliceFrom(src)
		src[0] = 9
		out := s.Slice()
		out[1] = 9
		assert.Equal(t, []int{1, 2}, s.Slice())
	})

	t.Run("seq", func(t *testing.T) {
		t.Parallel()
		s := NewSliceFrom([]int{1, 2, 3})
		assert.Equal(t, []int{1, 2, 3}, slices.Collect(s.Seq()))
	})

	t.Run("concurrent appends", func(t *testing.T) {
		t.Parallel()
		s := NewSlice[int]()
		var wg sync.WaitGroup
		for i := range 50 {
			wg.Add(1)
			go func() {
				defer wg.Done()
				s.Append(i)
				_ = s.Len()
			}()
		}
		wg.Wait()
		assert.Equal(t, 50, s.Len())
	})
}

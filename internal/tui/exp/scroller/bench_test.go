package scroller

import (
	"testing"
)

func BenchmarkScroll(b *testing.B) {
	feed := &testFeed{}
	m := New(renderTestEntry, feed.fetch, WithSize(80, 40))
	exec(m, m.Init())

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		step := 7
		if i%50 >= 40 {
			step = -9
		}
		exec(m, m.ScrollBy(step))
	}
}

func BenchmarkView(b *testing.B) {
	feed := &testFeed{}
	m := New(renderTestEntry, feed.fetch, WithSize(80, 40))
	exec(m, m.Init())

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = m.View()
	}
}

package parallel

import (
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestForVisitsEveryIndexOnce(t *testing.T) {
	for _, workers := range []int{1, 3, 8} {
		p := NewPool(workers)
		const n = 1000
		var hits [n]atomic.Int32
		p.For(n, func(worker, i int) {
			assert.Less(t, worker, workers)
			hits[i].Add(1)
		})
		for i := range hits {
			assert.Equal(t, int32(1), hits[i].Load(), "index %d", i)
		}
	}
}

func TestForEmpty(t *testing.T) {
	called := false
	NewPool(4).For(0, func(int, int) { called = true })
	assert.False(t, called)
}

func TestReduce(t *testing.T) {
	p := NewPool(4)
	sum := Reduce(p, 101, 0, func(_, i, acc int) int { return acc + i }, func(a, b int) int { return a + b })
	assert.Equal(t, 5050, sum)
}

func TestNewPoolDefaultsToGOMAXPROCS(t *testing.T) {
	assert.Positive(t, NewPool(0).Workers())
}

func TestScratchPerWorker(t *testing.T) {
	p := NewPool(4)
	s := NewScratch(p, func(b *[]int) { *b = (*b)[:0] })
	p.For(64, func(worker, i int) {
		b := s.Get(worker)
		*b = append(*b, i)
	})

	total := 0
	for w := 0; w < p.Workers(); w++ {
		total += len(*s.Get(w))
	}
	assert.Equal(t, 64, total)

	s.Reset()
	for w := 0; w < p.Workers(); w++ {
		assert.Empty(t, *s.Get(w))
	}
}

func TestGrow(t *testing.T) {
	buf := make([]float32, 2, 8)
	got := Grow(buf, 6)
	assert.Len(t, got, 6)
	assert.Equal(t, 8, cap(got))
	assert.Len(t, Grow(got, 20), 20)
}

package parallel

// Scratch holds one reusable buffer set per worker. A kernel receives the
// Scratch for its loop and only touches Get(worker) for the worker it runs on.
type Scratch[T any] struct {
	items []T
	reset func(*T)
}

// NewScratch allocates buffers for every worker of p. reset, if non-nil, is
// applied to every buffer by Reset.
func NewScratch[T any](p *Pool, reset func(*T)) *Scratch[T] {
	return &Scratch[T]{items: make([]T, p.Workers()), reset: reset}
}

// Get returns the buffers owned by worker.
func (s *Scratch[T]) Get(worker int) *T {
	return &s.items[worker]
}

// Reset clears state left by a previous invocation while keeping capacity.
func (s *Scratch[T]) Reset() {
	if s.reset == nil {
		return
	}
	for i := range s.items {
		s.reset(&s.items[i])
	}
}

// Grow returns buf resized to n, reusing its capacity when possible.
func Grow[T any](buf []T, n int) []T {
	if cap(buf) < n {
		return make([]T, n)
	}
	return buf[:n]
}

package circularbuffer

import "sync"

// CircularBuffer keeps the most recent values up to a fixed capacity,
// overwriting the oldest once full. Safe for concurrent use.
type CircularBuffer[T any] struct {
	values   []T
	position int
	full     bool
	mu       sync.Mutex
}

// New returns a buffer holding at most size values. A size below 1 is
// treated as 1.
func New[T any](size int) *CircularBuffer[T] {
	if size < 1 {
		size = 1
	}

	return &CircularBuffer[T]{
		values: make([]T, size),
	}
}

func (cb *CircularBuffer[T]) Push(element T) {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	cb.values[cb.position] = element
	cb.position++

	if cb.position >= len(cb.values) {
		cb.position = 0
		cb.full = true
	}
}

func (cb *CircularBuffer[T]) Len() int {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	return cb.len()
}

func (cb *CircularBuffer[T]) len() int {
	if cb.full {
		return len(cb.values)
	}
	return cb.position
}

// Each iterates over all elements in the buffer in the order they were inserted
func (cb *CircularBuffer[T]) Each(fn func(T)) {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	cb.each(fn)
}

func (cb *CircularBuffer[T]) each(fn func(T)) {
	i := 0
	if cb.full {
		i = cb.position
	}

	for n := 0; n < cb.len(); n++ {
		fn(cb.values[i])

		i++
		if i >= len(cb.values) {
			i = 0
		}
	}
}

// Snapshot copies the buffered values, oldest first.
func (cb *CircularBuffer[T]) Snapshot() []T {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	out := make([]T, 0, cb.len())
	cb.each(func(v T) {
		out = append(out, v)
	})
	return out
}

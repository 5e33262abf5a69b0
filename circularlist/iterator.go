package circularlist

import "iter"

// Iterator walks a list once, head to tail, starting from whatever node
// was the head when it was created. It does not restart.
type Iterator[T any] struct {
	list    *CircularList[T]
	cursor  *Node[T]
	wrapped bool
}

func (cl *CircularList[T]) Iterator() *Iterator[T] {
	return &Iterator[T]{
		list:   cl,
		cursor: cl.head,
	}
}

// HasNext is false once the cursor is nil or has come back around to the
// head after passing it once.
func (it *Iterator[T]) HasNext() bool {
	if it.cursor == nil || (it.wrapped && it.cursor == it.list.head) {
		return false
	}
	return true
}

func (it *Iterator[T]) Next() (T, error) {
	if !it.HasNext() {
		var zero T
		return zero, ErrIterationExhausted
	}
	if it.cursor == it.list.head {
		it.wrapped = true
	}

	elem := it.cursor.element
	it.cursor = it.cursor.next
	return elem, nil
}

// All returns an iterator over the elements from head to tail.
func (cl *CircularList[T]) All() iter.Seq[T] {
	return func(yield func(T) bool) {
		it := cl.Iterator()
		for it.HasNext() {
			v, _ := it.Next()
			if !yield(v) {
				return
			}
		}
	}
}

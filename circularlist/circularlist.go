// Package circularlist implements a singly-linked list whose tail links
// back to its head. The logical head and tail can be rotated around the
// ring without moving any elements.
//
// A CircularList is not safe for concurrent use, and mutating a list while
// an Iterator over it is in flight leaves the iterator in an unspecified
// state.
package circularlist

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
)

var (
	ErrInvalidArgument    = errors.New("invalid argument")
	ErrEmptyContainer     = errors.New("list is empty")
	ErrIterationExhausted = errors.New("no more iterable nodes")
)

// Node holds one element and a link to its successor in the ring.
type Node[T any] struct {
	element T
	next    *Node[T]
}

func (n *Node[T]) Element() T {
	return n.element
}

// CircularList is a circular singly-linked list. The zero value is an
// empty list ready to use.
type CircularList[T any] struct {
	head *Node[T]
	tail *Node[T]
	size int
}

// New builds a list holding elems in order. Nil elements are skipped.
func New[T any](elems ...T) *CircularList[T] {
	cl := &CircularList[T]{}
	for _, e := range elems {
		_ = cl.AddLast(e)
	}
	return cl
}

// FromSlice builds a list holding elems in order. It fails on the first
// nil element.
func FromSlice[T any](elems []T) (*CircularList[T], error) {
	cl := &CircularList[T]{}
	for i, e := range elems {
		if err := cl.AddLast(e); err != nil {
			return nil, fmt.Errorf("element %d: %w", i, err)
		}
	}
	return cl, nil
}

func (cl *CircularList[T]) Size() int {
	return cl.size
}

func (cl *CircularList[T]) IsEmpty() bool {
	return cl.size == 0
}

// AddFirst inserts elem as the new head.
func (cl *CircularList[T]) AddFirst(elem T) error {
	if isNil(elem) {
		return fmt.Errorf("%w: cannot add a nil element", ErrInvalidArgument)
	}

	node := &Node[T]{element: elem}
	if cl.size == 0 {
		node.next = node
		cl.head = node
		cl.tail = node
	} else {
		node.next = cl.head
		cl.tail.next = node
		cl.head = node
	}

	cl.size++
	return nil
}

// AddLast inserts elem as the new tail.
func (cl *CircularList[T]) AddLast(elem T) error {
	if isNil(elem) {
		return fmt.Errorf("%w: cannot add a nil element", ErrInvalidArgument)
	}

	node := &Node[T]{element: elem}
	if cl.size == 0 {
		node.next = node
		cl.head = node
		cl.tail = node
	} else {
		cl.tail.next = node
		node.next = cl.head
		cl.tail = node
	}

	cl.size++
	return nil
}

// RemoveFirst unlinks the head and returns its element.
func (cl *CircularList[T]) RemoveFirst() (T, error) {
	if cl.size == 0 {
		var zero T
		return zero, ErrEmptyContainer
	}

	old := cl.head
	if cl.size == 1 {
		cl.head = nil
		cl.tail = nil
	} else {
		cl.tail.next = old.next
		cl.head = old.next
	}
	// Iterators still holding old keep walking from its successor.
	cl.size--

	return old.element, nil
}

func (cl *CircularList[T]) First() (T, error) {
	if cl.size == 0 {
		var zero T
		return zero, ErrEmptyContainer
	}
	return cl.head.element, nil
}

func (cl *CircularList[T]) Last() (T, error) {
	if cl.size == 0 {
		var zero T
		return zero, ErrEmptyContainer
	}
	return cl.tail.element, nil
}

// Rotate moves the logical head and tail one step forward along the ring.
// The old head becomes the new tail. No nodes are allocated or moved.
func (cl *CircularList[T]) Rotate() error {
	if cl.size == 0 {
		return fmt.Errorf("%w: cannot rotate", ErrEmptyContainer)
	}
	cl.tail = cl.tail.next
	cl.head = cl.head.next
	return nil
}

// Slice copies the elements from head to tail.
func (cl *CircularList[T]) Slice() []T {
	out := make([]T, 0, cl.size)
	for v := range cl.All() {
		out = append(out, v)
	}
	return out
}

// Equal reports whether both lists hold the same elements in the same
// order relative to their heads, comparing elements with eq.
func (cl *CircularList[T]) Equal(other *CircularList[T], eq func(a, b T) bool) bool {
	if cl == other {
		return true
	}
	if cl == nil || other == nil || cl.size != other.size {
		return false
	}

	it, otherIt := cl.Iterator(), other.Iterator()
	for it.HasNext() {
		a, _ := it.Next()
		b, _ := otherIt.Next()
		if !eq(a, b) {
			return false
		}
	}
	return true
}

// Equal compares two lists of comparable elements with ==.
func Equal[T comparable](a, b *CircularList[T]) bool {
	return a.Equal(b, func(x, y T) bool { return x == y })
}

func (cl *CircularList[T]) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Circularly Linked List (%d):\n\t", cl.size)
	if cl.size == 0 {
		sb.WriteString("None")
		return sb.String()
	}

	node := cl.head
	for node != cl.tail {
		fmt.Fprintf(&sb, "%v -->\n\t", node.element)
		node = node.next
	}
	fmt.Fprintf(&sb, "%v -->\n", node.element)

	return sb.String()
}

func isNil(v any) bool {
	if v == nil {
		return true
	}
	switch rv := reflect.ValueOf(v); rv.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan, reflect.Interface, reflect.UnsafePointer:
		return rv.IsNil()
	}
	return false
}

package circularlist_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gregoryjjb/ringd/circularlist"
)

// requireCycle checks head/tail/size agree and that walking size links
// from head lands back on head.
func requireCycle[T any](t *testing.T, cl *circularlist.CircularList[T]) {
	t.Helper()

	if cl.Size() == 0 {
		require.Nil(t, cl.Head())
		require.Nil(t, cl.Tail())
		require.True(t, cl.IsEmpty())
		return
	}

	require.NotNil(t, cl.Head())
	require.NotNil(t, cl.Tail())
	require.Same(t, cl.Head(), cl.Tail().Next())

	n := cl.Head()
	for i := 0; i < cl.Size(); i++ {
		if i > 0 {
			require.NotSame(t, cl.Head(), n, "returned to head after %d steps", i)
		}
		n = n.Next()
	}
	require.Same(t, cl.Head(), n)
}

func TestZeroValueIsEmpty(t *testing.T) {
	var cl circularlist.CircularList[int]

	assert.Equal(t, 0, cl.Size())
	assert.True(t, cl.IsEmpty())
	requireCycle(t, &cl)
}

func TestAddFirst(t *testing.T) {
	cl := &circularlist.CircularList[string]{}

	require.NoError(t, cl.AddFirst("a"))
	requireCycle(t, cl)
	assert.Same(t, cl.Head(), cl.Tail())
	assert.Same(t, cl.Head(), cl.Head().Next())

	require.NoError(t, cl.AddFirst("b"))
	require.NoError(t, cl.AddFirst("c"))
	requireCycle(t, cl)

	first, err := cl.First()
	require.NoError(t, err)
	assert.Equal(t, "c", first)

	last, err := cl.Last()
	require.NoError(t, err)
	assert.Equal(t, "a", last)

	assert.Equal(t, []string{"c", "b", "a"}, cl.Slice())
}

func TestAddLast(t *testing.T) {
	cl := &circularlist.CircularList[int]{}
	for i := 1; i <= 5; i++ {
		require.NoError(t, cl.AddLast(i))
		requireCycle(t, cl)

		last, err := cl.Last()
		require.NoError(t, err)
		assert.Equal(t, i, last)
	}

	first, err := cl.First()
	require.NoError(t, err)
	assert.Equal(t, 1, first)
	assert.Equal(t, []int{1, 2, 3, 4, 5}, cl.Slice())
}

func TestAddNilIsRejected(t *testing.T) {
	t.Run("Pointer", func(t *testing.T) {
		cl := &circularlist.CircularList[*int]{}
		one := 1
		require.NoError(t, cl.AddLast(&one))

		err := cl.AddFirst(nil)
		assert.ErrorIs(t, err, circularlist.ErrInvalidArgument)
		err = cl.AddLast(nil)
		assert.ErrorIs(t, err, circularlist.ErrInvalidArgument)

		assert.Equal(t, 1, cl.Size())
		requireCycle(t, cl)
	})

	t.Run("Interface", func(t *testing.T) {
		cl := &circularlist.CircularList[any]{}

		assert.ErrorIs(t, cl.AddFirst(nil), circularlist.ErrInvalidArgument)
		assert.ErrorIs(t, cl.AddLast(nil), circularlist.ErrInvalidArgument)
		assert.True(t, cl.IsEmpty())

		var typedNil *string
		assert.ErrorIs(t, cl.AddLast(typedNil), circularlist.ErrInvalidArgument)
		assert.True(t, cl.IsEmpty())
	})

	t.Run("Slice", func(t *testing.T) {
		cl := &circularlist.CircularList[[]byte]{}

		assert.ErrorIs(t, cl.AddLast(nil), circularlist.ErrInvalidArgument)
		assert.NoError(t, cl.AddLast([]byte{}))
		assert.Equal(t, 1, cl.Size())
	})

	t.Run("ZeroValuesAreNotNil", func(t *testing.T) {
		cl := &circularlist.CircularList[int]{}

		assert.NoError(t, cl.AddFirst(0))
		assert.Equal(t, 1, cl.Size())
	})
}

func TestRemoveFirst(t *testing.T) {
	t.Run("Empty", func(t *testing.T) {
		cl := &circularlist.CircularList[int]{}

		_, err := cl.RemoveFirst()
		assert.ErrorIs(t, err, circularlist.ErrEmptyContainer)
		assert.Equal(t, 0, cl.Size())
	})

	t.Run("Single", func(t *testing.T) {
		cl := circularlist.New("x")

		v, err := cl.RemoveFirst()
		require.NoError(t, err)
		assert.Equal(t, "x", v)
		assert.True(t, cl.IsEmpty())
		requireCycle(t, cl)

		_, err = cl.First()
		assert.ErrorIs(t, err, circularlist.ErrEmptyContainer)
		_, err = cl.Last()
		assert.ErrorIs(t, err, circularlist.ErrEmptyContainer)
	})

	t.Run("Many", func(t *testing.T) {
		cl := circularlist.New(1, 2, 3, 4)

		for want := 1; want <= 4; want++ {
			v, err := cl.RemoveFirst()
			require.NoError(t, err)
			assert.Equal(t, want, v)
			assert.Equal(t, 4-want, cl.Size())
			requireCycle(t, cl)
		}
	})

	t.Run("ListIsReusableAfterDraining", func(t *testing.T) {
		cl := circularlist.New(1)
		_, err := cl.RemoveFirst()
		require.NoError(t, err)

		require.NoError(t, cl.AddLast(2))
		require.NoError(t, cl.AddFirst(1))
		requireCycle(t, cl)
		assert.Equal(t, []int{1, 2}, cl.Slice())
	})
}

func TestRotate(t *testing.T) {
	t.Run("Empty", func(t *testing.T) {
		cl := &circularlist.CircularList[int]{}

		assert.ErrorIs(t, cl.Rotate(), circularlist.ErrEmptyContainer)
		requireCycle(t, cl)
	})

	t.Run("Single", func(t *testing.T) {
		cl := circularlist.New(7)

		require.NoError(t, cl.Rotate())
		requireCycle(t, cl)
		assert.Equal(t, []int{7}, cl.Slice())
	})

	t.Run("ShiftsHeadAndTail", func(t *testing.T) {
		cl := circularlist.New(1, 2, 3)
		oldHead := cl.Head()

		require.NoError(t, cl.Rotate())
		requireCycle(t, cl)

		assert.Same(t, oldHead, cl.Tail())
		assert.Equal(t, []int{2, 3, 1}, cl.Slice())
		assert.Equal(t, 3, cl.Size())
	})

	t.Run("FullTurnIsIdentity", func(t *testing.T) {
		cl := circularlist.New("a", "b", "c", "d", "e")
		head, tail := cl.Head(), cl.Tail()

		for i := 0; i < cl.Size(); i++ {
			require.NoError(t, cl.Rotate())
			requireCycle(t, cl)
		}

		assert.Same(t, head, cl.Head())
		assert.Same(t, tail, cl.Tail())
		assert.Equal(t, []string{"a", "b", "c", "d", "e"}, cl.Slice())
	})
}

func TestSizeTracksMutations(t *testing.T) {
	cl := &circularlist.CircularList[int]{}
	want := 0

	ops := []string{"first", "last", "last", "remove", "first", "rotate", "remove", "remove", "remove", "last"}
	for i, op := range ops {
		switch op {
		case "first":
			if cl.AddFirst(i) == nil {
				want++
			}
		case "last":
			if cl.AddLast(i) == nil {
				want++
			}
		case "remove":
			if _, err := cl.RemoveFirst(); err == nil {
				want--
			}
		case "rotate":
			_ = cl.Rotate()
		}
		require.Equal(t, want, cl.Size(), "after op %d (%s)", i, op)
		requireCycle(t, cl)
	}
}

func TestFromSlice(t *testing.T) {
	cl, err := circularlist.FromSlice([]string{"a", "b"})
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, cl.Slice())

	one := 1
	_, err = circularlist.FromSlice([]*int{&one, nil})
	assert.ErrorIs(t, err, circularlist.ErrInvalidArgument)
}

func TestEqual(t *testing.T) {
	tests := []struct {
		name string
		a, b *circularlist.CircularList[int]
		want bool
	}{
		{
			name: "BothEmpty",
			a:    circularlist.New[int](),
			b:    circularlist.New[int](),
			want: true,
		},
		{
			name: "SameElements",
			a:    circularlist.New(1, 2, 3),
			b:    circularlist.New(1, 2, 3),
			want: true,
		},
		{
			name: "DifferentSize",
			a:    circularlist.New(1, 2, 3),
			b:    circularlist.New(1, 2),
			want: false,
		},
		{
			name: "DifferentOrder",
			a:    circularlist.New(1, 2, 3),
			b:    circularlist.New(1, 3, 2),
			want: false,
		},
		{
			name: "Nil",
			a:    circularlist.New(1),
			b:    nil,
			want: false,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, circularlist.Equal(tt.a, tt.b))
			assert.Equal(t, tt.want, circularlist.Equal(tt.b, tt.a))
		})
	}

	t.Run("Reflexive", func(t *testing.T) {
		cl := circularlist.New(1, 2, 3)
		assert.True(t, circularlist.Equal(cl, cl))
	})

	t.Run("RotationBreaksEquality", func(t *testing.T) {
		a := circularlist.New(1, 2, 3)
		b := circularlist.New(1, 2, 3)
		require.NoError(t, b.Rotate())
		assert.False(t, circularlist.Equal(a, b))

		// Realigning the heads restores it.
		require.NoError(t, b.Rotate())
		require.NoError(t, b.Rotate())
		assert.True(t, circularlist.Equal(a, b))
	})

	t.Run("CustomEquality", func(t *testing.T) {
		type point struct{ x, y int }
		a := circularlist.New(&point{1, 2}, &point{3, 4})
		b := circularlist.New(&point{1, 2}, &point{3, 4})

		assert.False(t, a.Equal(b, func(p, q *point) bool { return p == q }))
		assert.True(t, a.Equal(b, func(p, q *point) bool { return *p == *q }))
	})
}

func TestString(t *testing.T) {
	tests := []struct {
		name string
		in   *circularlist.CircularList[string]
		want string
	}{
		{
			name: "Empty",
			in:   circularlist.New[string](),
			want: "Circularly Linked List (0):\n\tNone",
		},
		{
			name: "Single",
			in:   circularlist.New("a"),
			want: "Circularly Linked List (1):\n\ta -->\n",
		},
		{
			name: "Many",
			in:   circularlist.New("a", "b", "c"),
			want: "Circularly Linked List (3):\n\ta -->\n\tb -->\n\tc -->\n",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.in.String())
		})
	}
}

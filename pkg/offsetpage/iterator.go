package offsetpage

import "io"

// Iterator is a pull-based, finite, lazy sequence.
//
//	for it.Next() {
//		item := it.Value()
//	}
//	if err := it.Err(); err != nil {
//		...
//	}
//
// Next reports whether a value is available and advances to it. Value
// returns the current value and is only meaningful after Next returned
// true. Err reports the failure that stopped the sequence, if any.
// Implementations may also implement io.Closer; the adapter closes page
// iterators it stops reading.
type Iterator[T any] interface {
	Next() bool
	Value() T
	Err() error
}

// FromSlice returns an iterator over items.
func FromSlice[T any](items []T) Iterator[T] {
	return &sliceIterator[T]{items: items, index: -1}
}

// Empty returns an iterator without items.
func Empty[T any]() Iterator[T] {
	return &sliceIterator[T]{index: -1}
}

type sliceIterator[T any] struct {
	items []T
	index int
}

func (s *sliceIterator[T]) Next() bool {
	if s.index+1 >= len(s.items) {
		s.index = len(s.items)
		return false
	}
	s.index++
	return true
}

func (s *sliceIterator[T]) Value() T {
	var zero T
	if s.index < 0 || s.index >= len(s.items) {
		return zero
	}
	return s.items[s.index]
}

func (s *sliceIterator[T]) Err() error { return nil }

// Lazy returns an iterator whose underlying sequence is produced by fn on
// the first call to Next. An error from fn, or a nil iterator, ends the
// sequence and is reported by Err.
func Lazy[T any](fn func() (Iterator[T], error)) Iterator[T] {
	return &lazyIterator[T]{produce: fn}
}

type lazyIterator[T any] struct {
	produce func() (Iterator[T], error)
	inner   Iterator[T]
	err     error
	started bool
}

func (l *lazyIterator[T]) Next() bool {
	if !l.started {
		l.started = true
		inner, err := l.produce()
		switch {
		case err != nil:
			l.err = err
		case inner == nil:
			l.err = newInvalidResult("offsetpage.Iterator", inner, "result callback should return a lazy sequence")
		default:
			l.inner = inner
		}
	}
	if l.inner == nil {
		return false
	}
	return l.inner.Next()
}

func (l *lazyIterator[T]) Value() T {
	if l.inner == nil {
		var zero T
		return zero
	}
	return l.inner.Value()
}

func (l *lazyIterator[T]) Err() error {
	if l.err != nil {
		return l.err
	}
	if l.inner == nil {
		return nil
	}
	return l.inner.Err()
}

func (l *lazyIterator[T]) Close() error {
	if l.inner == nil {
		return nil
	}
	return closeIterator(l.inner)
}

// closeIterator closes it when it implements io.Closer.
func closeIterator[T any](it Iterator[T]) error {
	if c, ok := it.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

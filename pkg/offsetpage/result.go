package offsetpage

import "iter"

type resultState int

const (
	stateNotStarted resultState = iota
	stateInProgress
	stateExhausted
)

// Result is the flat, one-shot item stream of one Execute call.
//
// Pages are fetched only while items are pulled. Once the stream is
// exhausted, or has failed, it stays that way: further pulls return
// nothing and never reach the source again. A Result is not safe for
// concurrent use.
type Result[T any] struct {
	pages Iterator[Iterator[T]]
	page  Iterator[T]

	state   resultState
	value   T
	fetched int
	err     error
}

// NewResult creates a Result that flattens a sequence of pages.
func NewResult[T any](pages Iterator[Iterator[T]]) *Result[T] {
	return &Result[T]{pages: pages}
}

// Next advances to the next item. Result implements Iterator.
func (r *Result[T]) Next() bool {
	switch r.state {
	case stateExhausted:
		return false
	case stateNotStarted:
		r.state = stateInProgress
	}

	for {
		if r.page != nil {
			if r.page.Next() {
				r.value = r.page.Value()
				r.fetched++
				ItemsStreamed.Inc()
				return true
			}
			if err := r.page.Err(); err != nil {
				return r.finish(err)
			}
			r.page = nil
		}

		if !r.pages.Next() {
			return r.finish(r.pages.Err())
		}
		r.page = r.pages.Value()
	}
}

// Value returns the item the last successful Next moved to.
func (r *Result[T]) Value() T { return r.value }

// Err returns the error that ended the stream, if any.
func (r *Result[T]) Err() error { return r.err }

// finish ends the stream, releasing a page that failed mid-read.
func (r *Result[T]) finish(err error) bool {
	var zero T
	if r.page != nil {
		_ = closeIterator(r.page)
	}
	r.state = stateExhausted
	r.value = zero
	r.page = nil
	r.err = err
	return false
}

// Fetch pulls one item. ok is false once the stream is exhausted; err is
// the failure that exhausted it, reported on every later call as well.
func (r *Result[T]) Fetch() (item T, ok bool, err error) {
	if r.Next() {
		return r.value, true, nil
	}
	return item, false, r.err
}

// FetchAll pulls every remaining item in arrival order. On failure the
// items pulled before it are returned together with the error.
func (r *Result[T]) FetchAll() ([]T, error) {
	items := []T{}
	for r.Next() {
		items = append(items, r.value)
	}
	return items, r.err
}

// Iterator returns the underlying flat sequence. It shares its position
// with the Result and does not restart.
func (r *Result[T]) Iterator() Iterator[T] {
	return r
}

// All returns the remaining items as a range-over-func sequence. A failure
// is yielded once, with a zero item, as the last element.
func (r *Result[T]) All() iter.Seq2[T, error] {
	return func(yield func(T, error) bool) {
		for r.Next() {
			if !yield(r.value, nil) {
				return
			}
		}
		if r.err != nil {
			var zero T
			yield(zero, r.err)
		}
	}
}

// FetchedCount returns the number of items pulled so far.
func (r *Result[T]) FetchedCount() int {
	return r.fetched
}

// Exhausted reports whether the stream has ended.
func (r *Result[T]) Exhausted() bool {
	return r.state == stateExhausted
}

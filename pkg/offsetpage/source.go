package offsetpage

import "context"

// Source is a page-numbered data provider.
//
// FetchPage returns the items of a 1-based page for the given page size.
// Pages past the end return an empty iterator. Answers for the same
// arguments must not depend on earlier calls. Errors may be returned
// directly or through the iterator's Err.
type Source[T any] interface {
	FetchPage(ctx context.Context, page, size int) (Iterator[T], error)
}

// SourceFunc is a function adapter that implements the Source interface.
// The result is used as is; see CallbackSource for a validating adapter.
type SourceFunc[T any] func(ctx context.Context, page, size int) (Iterator[T], error)

// FetchPage implements the Source interface for SourceFunc.
func (f SourceFunc[T]) FetchPage(ctx context.Context, page, size int) (Iterator[T], error) {
	return f(ctx, page, size)
}

// CallbackSource wraps an ordinary page callback and checks that it
// actually produced a sequence.
type CallbackSource[T any] struct {
	callback func(ctx context.Context, page, size int) (Iterator[T], error)
}

// NewCallbackSource creates a CallbackSource.
func NewCallbackSource[T any](callback func(ctx context.Context, page, size int) (Iterator[T], error)) *CallbackSource[T] {
	return &CallbackSource[T]{callback: callback}
}

// FetchPage calls the callback. Callback errors are returned unchanged; a
// nil iterator is reported as an *InvalidResultError.
func (s *CallbackSource[T]) FetchPage(ctx context.Context, page, size int) (Iterator[T], error) {
	items, err := s.callback(ctx, page, size)
	if err != nil {
		return nil, err
	}
	if items == nil {
		return nil, newInvalidResult("offsetpage.Iterator", items, "source callback should return a lazy sequence")
	}
	return items, nil
}

// SliceSource serves pages out of an in-memory slice.
type SliceSource[T any] struct {
	items []T
}

// NewSliceSource creates a SliceSource over items. The slice is not copied.
func NewSliceSource[T any](items []T) *SliceSource[T] {
	return &SliceSource[T]{items: items}
}

// FetchPage returns the page window of the slice. Pages below 1 are
// treated as 1; a non-positive size yields an empty page.
func (s *SliceSource[T]) FetchPage(_ context.Context, page, size int) (Iterator[T], error) {
	if size <= 0 {
		return Empty[T](), nil
	}
	if page < 1 {
		page = 1
	}
	start := (page - 1) * size
	if start >= len(s.items) {
		return Empty[T](), nil
	}
	end := start + size
	if end > len(s.items) {
		end = len(s.items)
	}
	return FromSlice(s.items[start:end]), nil
}

package offsetpage

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func drain[T any](t *testing.T, it Iterator[T]) []T {
	t.Helper()
	items := []T{}
	for it.Next() {
		items = append(items, it.Value())
	}
	require.NoError(t, it.Err())
	return items
}

func TestSliceSource_FetchPage(t *testing.T) {
	source := NewSliceSource(intRange(1, 25))

	tests := []struct {
		name       string
		page, size int
		want       []int
	}{
		{"first page", 1, 10, intRange(1, 10)},
		{"last partial page", 3, 10, intRange(21, 25)},
		{"past the end", 4, 10, []int{}},
		{"page below one", 0, 5, intRange(1, 5)},
		{"zero size", 1, 0, []int{}},
		{"negative size", 1, -4, []int{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			it, err := source.FetchPage(context.Background(), tt.page, tt.size)
			require.NoError(t, err)
			assert.Equal(t, tt.want, drain(t, it))
		})
	}
}

func TestSourceFunc(t *testing.T) {
	var got pageCall
	source := SourceFunc[int](func(ctx context.Context, page, size int) (Iterator[int], error) {
		got = pageCall{page: page, size: size}
		return FromSlice([]int{page * size}), nil
	})

	it, err := source.FetchPage(context.Background(), 3, 4)
	require.NoError(t, err)
	assert.Equal(t, []int{12}, drain(t, it))
	assert.Equal(t, pageCall{page: 3, size: 4}, got)
}

func TestCallbackSource(t *testing.T) {
	t.Run("passes items through", func(t *testing.T) {
		source := NewCallbackSource(func(ctx context.Context, page, size int) (Iterator[string], error) {
			return FromSlice([]string{"a", "b"}), nil
		})

		it, err := source.FetchPage(context.Background(), 1, 2)
		require.NoError(t, err)
		assert.Equal(t, []string{"a", "b"}, drain(t, it))
	})

	t.Run("nil iterator is rejected", func(t *testing.T) {
		source := NewCallbackSource(func(ctx context.Context, page, size int) (Iterator[string], error) {
			return nil, nil
		})

		it, err := source.FetchPage(context.Background(), 1, 2)
		assert.Nil(t, it)

		var resultErr *InvalidResultError
		require.ErrorAs(t, err, &resultErr)
		assert.Equal(t, "offsetpage.Iterator", resultErr.Expected)
		assert.Equal(t, "<nil>", resultErr.Actual)
		assert.Contains(t, resultErr.Context, "should return a lazy sequence")
		assert.ErrorIs(t, err, ErrPagination)
	})

	t.Run("callback error is unchanged", func(t *testing.T) {
		errDown := errors.New("down")
		source := NewCallbackSource(func(ctx context.Context, page, size int) (Iterator[string], error) {
			return nil, errDown
		})

		_, err := source.FetchPage(context.Background(), 1, 2)
		assert.Same(t, errDown, err)
	})
}

func TestFromCallback_InvalidResultSurfacesOnPull(t *testing.T) {
	adapter := FromCallback(func(ctx context.Context, page, size int) (Iterator[int], error) {
		return nil, nil
	})

	result, err := adapter.Execute(context.Background(), 0, 5, 0)
	require.NoError(t, err, "result shape is only checked once pages are pulled")

	_, ok, err := result.Fetch()
	assert.False(t, ok)
	assert.ErrorIs(t, err, ErrInvalidResult)
}

func TestLazy(t *testing.T) {
	t.Run("produces on first pull", func(t *testing.T) {
		produced := 0
		it := Lazy(func() (Iterator[int], error) {
			produced++
			return FromSlice([]int{1, 2}), nil
		})
		assert.Equal(t, 0, produced)

		assert.Equal(t, []int{1, 2}, drain(t, it))
		assert.Equal(t, 1, produced)
		assert.False(t, it.Next())
		assert.Equal(t, 1, produced)
	})

	t.Run("nil sequence is an invalid result", func(t *testing.T) {
		it := Lazy(func() (Iterator[int], error) {
			return nil, nil
		})

		assert.False(t, it.Next())
		assert.ErrorIs(t, it.Err(), ErrInvalidResult)
		assert.Zero(t, it.Value())
	})

	t.Run("producer error", func(t *testing.T) {
		errProduce := errors.New("produce")
		it := Lazy(func() (Iterator[int], error) {
			return nil, errProduce
		})

		assert.False(t, it.Next())
		assert.Same(t, errProduce, it.Err())
	})

	t.Run("works as a page", func(t *testing.T) {
		adapter := FromCallback(func(ctx context.Context, page, size int) (Iterator[int], error) {
			return Lazy(func() (Iterator[int], error) {
				return NewSliceSource(intRange(1, 30)).FetchPage(ctx, page, size)
			}), nil
		})

		items, err := adapter.FetchAll(context.Background(), 10, 5, 0)
		require.NoError(t, err)
		assert.Equal(t, intRange(11, 15), items)
	})
}

func TestFromSlice(t *testing.T) {
	it := FromSlice([]int{7})
	assert.Zero(t, it.Value(), "value before Next")
	assert.True(t, it.Next())
	assert.Equal(t, 7, it.Value())
	assert.False(t, it.Next())
	assert.False(t, it.Next())
	assert.Zero(t, it.Value())
	assert.NoError(t, it.Err())

	assert.False(t, Empty[string]().Next())
}

package offsetpage

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pagesOf(pages ...[]int) Iterator[Iterator[int]] {
	iters := make([]Iterator[int], 0, len(pages))
	for _, p := range pages {
		iters = append(iters, FromSlice(p))
	}
	return FromSlice(iters)
}

func TestResult_Flattens(t *testing.T) {
	result := NewResult(pagesOf([]int{1, 2}, []int{}, []int{3}, []int{4, 5}))

	items, err := result.FetchAll()
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2, 3, 4, 5}, items)
	assert.Equal(t, 5, result.FetchedCount())
	assert.True(t, result.Exhausted())
}

func TestResult_FetchAfterExhaustion(t *testing.T) {
	source := newRecordingSource(intRange(1, 10))
	adapter := quietAdapter[int](source)

	result, err := adapter.Execute(context.Background(), 0, 5, 0)
	require.NoError(t, err)

	_, err = result.FetchAll()
	require.NoError(t, err)
	calls := len(source.calls)

	for i := 0; i < 5; i++ {
		item, ok, err := result.Fetch()
		assert.False(t, ok)
		assert.NoError(t, err)
		assert.Zero(t, item)
	}

	again, err := result.FetchAll()
	require.NoError(t, err)
	assert.Empty(t, again)
	assert.Equal(t, calls, len(source.calls), "exhausted result must not reach the source again")
	assert.Equal(t, 5, result.FetchedCount())
}

func TestResult_StreamingMatchesBatch(t *testing.T) {
	data := intRange(1, 137)
	windows := []struct{ offset, limit int }{
		{0, 10}, {3, 5}, {47, 22}, {100, 50}, {136, 1},
	}

	for _, w := range windows {
		adapter := quietAdapter[int](NewSliceSource(data))

		batch, err := adapter.FetchAll(context.Background(), w.offset, w.limit, 0)
		require.NoError(t, err)

		result, err := adapter.Execute(context.Background(), w.offset, w.limit, 0)
		require.NoError(t, err)
		streamed := []int{}
		for {
			item, ok, err := result.Fetch()
			require.NoError(t, err)
			if !ok {
				break
			}
			streamed = append(streamed, item)
		}

		assert.Equal(t, batch, streamed, "offset=%d limit=%d", w.offset, w.limit)
		assert.Equal(t, len(streamed), result.FetchedCount())
	}
}

func TestResult_FetchAllAfterPartialFetch(t *testing.T) {
	adapter := quietAdapter[int](NewSliceSource(intRange(1, 100)))
	result, err := adapter.Execute(context.Background(), 0, 10, 0)
	require.NoError(t, err)

	first, ok, err := result.Fetch()
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, 1, first)

	rest, err := result.FetchAll()
	require.NoError(t, err)
	assert.Equal(t, intRange(2, 10), rest)
	assert.Equal(t, 10, result.FetchedCount())
}

func TestResult_IteratorSharesPosition(t *testing.T) {
	adapter := quietAdapter[int](NewSliceSource(intRange(1, 100)))
	result, err := adapter.Execute(context.Background(), 0, 6, 0)
	require.NoError(t, err)

	_, _, _ = result.Fetch()
	_, _, _ = result.Fetch()

	it := result.Iterator()
	var rest []int
	for it.Next() {
		rest = append(rest, it.Value())
	}
	require.NoError(t, it.Err())
	assert.Equal(t, []int{3, 4, 5, 6}, rest)

	// a second accessor call does not restart
	assert.False(t, result.Iterator().Next())
	assert.Equal(t, 6, result.FetchedCount())
}

func TestResult_All(t *testing.T) {
	result := NewResult(pagesOf([]int{1, 2, 3}, []int{4}))

	var got []int
	for item, err := range result.All() {
		require.NoError(t, err)
		got = append(got, item)
		if item == 2 {
			break
		}
	}
	assert.Equal(t, []int{1, 2}, got)

	for item, err := range result.All() {
		require.NoError(t, err)
		got = append(got, item)
	}
	assert.Equal(t, []int{1, 2, 3, 4}, got)
}

func TestResult_AllYieldsError(t *testing.T) {
	errBroken := errors.New("broken")
	pages := FromSlice([]Iterator[int]{
		FromSlice([]int{1}),
		&failingIterator{err: errBroken},
	})
	result := NewResult(pages)

	var errs []error
	var items []int
	for item, err := range result.All() {
		if err != nil {
			errs = append(errs, err)
			continue
		}
		items = append(items, item)
	}
	assert.Equal(t, []int{1}, items)
	require.Len(t, errs, 1)
	assert.Same(t, errBroken, errs[0])
}

func TestResult_EmptyPages(t *testing.T) {
	result := NewResult(Empty[Iterator[int]]())

	item, ok, err := result.Fetch()
	assert.Zero(t, item)
	assert.False(t, ok)
	assert.NoError(t, err)
	assert.Equal(t, 0, result.FetchedCount())
}

func TestResult_StringItemsWithZeroValues(t *testing.T) {
	// zero values are items too, not the end marker
	result := NewResult(FromSlice([]Iterator[string]{FromSlice([]string{"", "a", ""})}))

	items, err := result.FetchAll()
	require.NoError(t, err)
	assert.Equal(t, []string{"", "a", ""}, items)
	assert.Equal(t, 3, result.FetchedCount())
}

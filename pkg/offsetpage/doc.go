// Package offsetpage serves offset/limit requests from data sources that
// only understand page numbers.
//
// A caller asks for "items 47..68"; the source can only answer "page N of
// size S". The Adapter asks a Planner for the next page, asks the Source for
// that page, enforces the overall limit across page boundaries and exposes
// the items as one lazy Result.
//
// Example usage:
//
//	adapter := offsetpage.New[int](offsetpage.NewSliceSource(data))
//	result, err := adapter.Execute(ctx, 47, 22, 0)
//	if err != nil {
//		return err // *InvalidArgumentError or *ZeroLimitError
//	}
//	for result.Next() {
//		use(result.Value())
//	}
//	if err := result.Err(); err != nil {
//		return err // the source's error, unchanged
//	}
//
// The adapter:
//   - Fetches nothing until the Result is read
//   - Requests page N+1 only after page N has been drained
//   - Stops on the limit, an empty page, or planner.ErrDone
//   - Never retries and never wraps source or planner errors
//
// Every error created here matches ErrPagination with errors.Is.
package offsetpage

package offsetpage

import (
	"errors"
	"fmt"
)

// Error kinds. Every error created by this package matches ErrPagination
// with errors.Is; argument problems also match ErrInvalidArgument and
// result-shape problems match ErrInvalidResult.
var (
	ErrPagination      = errors.New("pagination error")
	ErrInvalidArgument = fmt.Errorf("%w: invalid argument", ErrPagination)
	ErrInvalidResult   = fmt.Errorf("%w: invalid result", ErrPagination)
)

// Field names used in argument errors.
const (
	FieldOffset    = "offset"
	FieldLimit     = "limit"
	FieldDelivered = "delivered"
)

var fieldDescriptions = map[string]string{
	FieldOffset:    "starting position in the dataset",
	FieldLimit:     "maximum number of items to return",
	FieldDelivered: "number of items already delivered",
}

// InvalidArgumentError reports a negative offset, limit or delivered value.
type InvalidArgumentError struct {
	Field       string
	Value       int
	Description string
}

func newInvalidArgument(field string, value int) *InvalidArgumentError {
	return &InvalidArgumentError{
		Field:       field,
		Value:       value,
		Description: fieldDescriptions[field],
	}
}

// Error implements the error interface.
func (e *InvalidArgumentError) Error() string {
	return fmt.Sprintf("%s must be greater than or equal to zero, got %d: use a non-negative integer to specify the %s",
		e.Field, e.Value, e.Description)
}

// Unwrap implements error unwrapping for errors.Is/As.
func (e *InvalidArgumentError) Unwrap() error {
	return ErrInvalidArgument
}

// Params returns the offending field and its value.
func (e *InvalidArgumentError) Params() map[string]int {
	return map[string]int{e.Field: e.Value}
}

// ZeroLimitError reports limit = 0 combined with a non-zero offset or
// delivered count. A zero limit is only the "start of pagination, fetch
// nothing" request.
type ZeroLimitError struct {
	Offset    int
	Limit     int
	Delivered int
}

// Error implements the error interface.
func (e *ZeroLimitError) Error() string {
	return fmt.Sprintf("zero limit is only allowed when both offset and delivered are also zero "+
		"(current: offset=%d, limit=%d, delivered=%d): a zero limit marks the start of pagination "+
		"and fetches nothing, it is not a general zero-limit request",
		e.Offset, e.Limit, e.Delivered)
}

// Unwrap implements error unwrapping for errors.Is/As.
func (e *ZeroLimitError) Unwrap() error {
	return ErrInvalidArgument
}

// Params returns all three request values.
func (e *ZeroLimitError) Params() map[string]int {
	return map[string]int{
		FieldOffset:    e.Offset,
		FieldLimit:     e.Limit,
		FieldDelivered: e.Delivered,
	}
}

// InvalidResultError reports a callback or source that produced something
// other than a lazy sequence.
type InvalidResultError struct {
	Expected string
	Actual   string
	Context  string
}

func newInvalidResult(expected string, actual any, context string) *InvalidResultError {
	return &InvalidResultError{
		Expected: expected,
		Actual:   fmt.Sprintf("%T", actual),
		Context:  context,
	}
}

// Error implements the error interface.
func (e *InvalidResultError) Error() string {
	if e.Context != "" {
		return fmt.Sprintf("callback (%s) must return %s, got %s", e.Context, e.Expected, e.Actual)
	}
	return fmt.Sprintf("callback must return %s, got %s", e.Expected, e.Actual)
}

// Unwrap implements error unwrapping for errors.Is/As.
func (e *InvalidResultError) Unwrap() error {
	return ErrInvalidResult
}

// validate checks an Execute request.
func validate(offset, limit, delivered int) error {
	switch {
	case offset < 0:
		return newInvalidArgument(FieldOffset, offset)
	case limit < 0:
		return newInvalidArgument(FieldLimit, limit)
	case delivered < 0:
		return newInvalidArgument(FieldDelivered, delivered)
	case limit == 0 && (offset != 0 || delivered != 0):
		return &ZeroLimitError{Offset: offset, Limit: limit, Delivered: delivered}
	}
	return nil
}

// Package planner maps an offset/limit window onto page-numbered requests.
//
// A planner answers one question per iteration of the offset adapter loop:
// given the requested offset and limit and the number of items delivered so
// far, which page (1-based) of which page size should be requested next?
// When nothing more is needed it returns ErrDone.
package planner

import (
	"errors"
	"fmt"
)

// ErrDone signals that the requested window has been fully planned.
// It is a normal termination signal, not a failure.
var ErrDone = errors.New("planner: requested items already delivered")

// PagePlan is one page request produced by a planner.
type PagePlan struct {
	// Page is the 1-based page number.
	Page int
	// Size is the page size the page number refers to.
	Size int
}

// Valid reports whether the plan can be sent to a source.
func (p PagePlan) Valid() bool {
	return p.Page > 0 && p.Size > 0
}

// String renders the plan for logs.
func (p PagePlan) String() string {
	return fmt.Sprintf("page=%d size=%d", p.Page, p.Size)
}

// ArgumentError is returned when a planner is called with negative input.
type ArgumentError struct {
	Field string
	Value int
}

// Error implements the error interface.
func (e *ArgumentError) Error() string {
	return fmt.Sprintf("planner: %s must be >= 0, got %d", e.Field, e.Value)
}

// Func adapts a plain function to the planner interface used by the
// offset adapter.
type Func func(offset, limit, delivered int) (PagePlan, error)

// Plan calls f.
func (f Func) Plan(offset, limit, delivered int) (PagePlan, error) {
	return f(offset, limit, delivered)
}

// Divisor is the default planner. It picks the largest page size that
// evenly divides the current position and does not exceed the remaining
// limit, so that the position lands exactly on a page boundary.
//
// Examples for an untouched window (delivered = 0):
//
//	offset=0,  limit=10 -> page 1,  size 10
//	offset=20, limit=10 -> page 3,  size 10
//	offset=3,  limit=5  -> page 2,  size 3
//	offset=47, limit=22 -> page 48, size 1 (47 is prime)
//
// Cost: each Plan call tries up to min(position, remaining) divisors, and
// a position without a large divisor yields small pages, down to a single
// item when the position is prime. A window therefore may take several
// source round trips; (47, 22) is served by four pages of sizes 1, 16, 4
// and 1.
type Divisor struct{}

// Plan implements the planner contract.
func (Divisor) Plan(offset, limit, delivered int) (PagePlan, error) {
	return Plan(offset, limit, delivered)
}

// Plan is the divisor planning function.
func Plan(offset, limit, delivered int) (PagePlan, error) {
	switch {
	case offset < 0:
		return PagePlan{}, &ArgumentError{Field: "offset", Value: offset}
	case limit < 0:
		return PagePlan{}, &ArgumentError{Field: "limit", Value: limit}
	case delivered < 0:
		return PagePlan{}, &ArgumentError{Field: "delivered", Value: delivered}
	}

	// limit 0 is the "fetch nothing" sentinel
	if limit == 0 || delivered >= limit {
		return PagePlan{}, ErrDone
	}

	position := offset + delivered
	remaining := limit - delivered

	if position == 0 {
		return PagePlan{Page: 1, Size: remaining}, nil
	}

	size := largestDivisor(position, remaining)
	return PagePlan{Page: position/size + 1, Size: size}, nil
}

// largestDivisor returns the largest d <= max with n%d == 0. n and max are > 0.
func largestDivisor(n, max int) int {
	if max >= n {
		return n
	}
	for d := max; d > 1; d-- {
		if n%d == 0 {
			return d
		}
	}
	return 1
}

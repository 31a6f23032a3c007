package offsetpage

import (
	"context"

	"github.com/Sternrassler/offset-page/pkg/logging"
	"github.com/Sternrassler/offset-page/pkg/planner"
	"github.com/rs/zerolog"
)

// Planner maps an offset/limit window and the number of items delivered so
// far to the next page request. Returning planner.ErrDone ends the
// traversal normally; any other error is handed to the consumer.
type Planner interface {
	Plan(offset, limit, delivered int) (planner.PagePlan, error)
}

// Adapter serves offset/limit requests from a page-numbered Source.
// It holds no per-request state and may be shared between goroutines as
// long as its Source allows that; the Results it returns may not.
type Adapter[T any] struct {
	source  Source[T]
	planner Planner
	logger  zerolog.Logger
}

// Option configures an Adapter.
type Option func(*options)

type options struct {
	planner Planner
	logger  *zerolog.Logger
}

// WithPlanner replaces the default divisor planner.
func WithPlanner(p Planner) Option {
	return func(o *options) {
		o.planner = p
	}
}

// WithLogger sets the logger used for page loop diagnostics.
func WithLogger(logger zerolog.Logger) Option {
	return func(o *options) {
		o.logger = &logger
	}
}

// New creates an Adapter over source.
func New[T any](source Source[T], opts ...Option) *Adapter[T] {
	if source == nil {
		panic("offsetpage: source cannot be nil")
	}

	o := options{planner: planner.Divisor{}}
	for _, opt := range opts {
		opt(&o)
	}
	if o.planner == nil {
		o.planner = planner.Divisor{}
	}

	logger := logging.NewLogger(logging.ComponentAdapter)
	if o.logger != nil {
		logger = *o.logger
	}

	return &Adapter[T]{
		source:  source,
		planner: o.planner,
		logger:  logger,
	}
}

// FromCallback creates an Adapter over a page callback, see CallbackSource.
func FromCallback[T any](callback func(ctx context.Context, page, size int) (Iterator[T], error), opts ...Option) *Adapter[T] {
	return New[T](NewCallbackSource(callback), opts...)
}

// Execute prepares the items offset..offset+limit-1, minus the delivered
// items a previous partial fetch already returned.
//
// Arguments are validated before anything else happens; no page is fetched
// until the Result is read. limit = 0 is only accepted together with
// offset = 0 and delivered = 0 and yields an empty Result.
func (a *Adapter[T]) Execute(ctx context.Context, offset, limit, delivered int) (*Result[T], error) {
	if err := validate(offset, limit, delivered); err != nil {
		a.logger.Debug().
			Err(err).
			Int("offset", offset).
			Int("limit", limit).
			Int("delivered", delivered).
			Msg("Rejected pagination request")
		return nil, err
	}

	if offset == 0 && limit == 0 && delivered == 0 {
		Executions.WithLabelValues("noop").Inc()
		return NewResult(Empty[Iterator[T]]()), nil
	}

	Executions.WithLabelValues("paged").Inc()
	return NewResult[T](newPageLoop(ctx, a, offset, limit, delivered)), nil
}

// FetchAll is Execute followed by Result.FetchAll.
func (a *Adapter[T]) FetchAll(ctx context.Context, offset, limit, delivered int) ([]T, error) {
	result, err := a.Execute(ctx, offset, limit, delivered)
	if err != nil {
		return nil, err
	}
	return result.FetchAll()
}

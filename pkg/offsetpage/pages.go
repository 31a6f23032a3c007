package offsetpage

import (
	"context"
	"errors"

	"github.com/Sternrassler/offset-page/pkg/planner"
	"github.com/rs/zerolog"
)

// progress is shared by the page loop and the page it is currently
// handing out.
type progress struct {
	limit int
	// total counts items yielded by this execution.
	total int
	// current is the planning baseline: the caller's delivered count plus total.
	current int
}

func (p *progress) record() {
	p.total++
	p.current++
}

// reached reports whether the limit has been hit. A zero limit never is.
func (p *progress) reached() bool {
	return p.limit != 0 && p.total >= p.limit
}

// pageLoop yields one wrapped page per Next, asking the planner and the
// source only when the previous page has been handed out.
type pageLoop[T any] struct {
	ctx      context.Context
	source   Source[T]
	planner  Planner
	logger   zerolog.Logger
	offset   int
	progress *progress

	page *pageIterator[T]
	done bool
	err  error
}

func newPageLoop[T any](ctx context.Context, a *Adapter[T], offset, limit, delivered int) *pageLoop[T] {
	return &pageLoop[T]{
		ctx:     ctx,
		source:  a.source,
		planner: a.planner,
		logger:  a.logger,
		offset:  offset,
		progress: &progress{
			limit:   limit,
			current: delivered,
		},
	}
}

func (l *pageLoop[T]) Next() bool {
	if l.done {
		return false
	}
	if l.page != nil {
		_ = l.page.Close()
		l.page = nil
	}
	if l.progress.reached() {
		return l.stop(stopLimit, nil)
	}

	plan, err := l.planner.Plan(l.offset, l.progress.limit, l.progress.current)
	if errors.Is(err, planner.ErrDone) {
		return l.stop(stopPlannerDone, nil)
	}
	if err != nil {
		return l.stop(stopError, err)
	}
	if !plan.Valid() {
		l.logger.Warn().
			Int("page", plan.Page).
			Int("size", plan.Size).
			Msg("Planner returned a non-positive page plan")
		return l.stop(stopInvalidPlan, nil)
	}

	l.logger.Debug().
		Int("page", plan.Page).
		Int("size", plan.Size).
		Int("delivered", l.progress.current).
		Msg("Fetching page")
	PageSize.Observe(float64(plan.Size))

	items, err := l.source.FetchPage(l.ctx, plan.Page, plan.Size)
	if err != nil {
		PageFetches.WithLabelValues("error").Inc()
		return l.stop(stopError, err)
	}
	if items == nil {
		PageFetches.WithLabelValues("error").Inc()
		return l.stop(stopError, newInvalidResult("offsetpage.Iterator", items, "source should return a lazy sequence"))
	}

	// peek one item so an empty page ends the traversal
	if !items.Next() {
		err := items.Err()
		_ = closeIterator(items)
		if err != nil {
			PageFetches.WithLabelValues("error").Inc()
			return l.stop(stopError, err)
		}
		PageFetches.WithLabelValues("empty").Inc()
		return l.stop(stopEmptyPage, nil)
	}
	PageFetches.WithLabelValues("items").Inc()

	l.page = &pageIterator[T]{items: items, progress: l.progress, primed: true}
	return true
}

func (l *pageLoop[T]) Value() Iterator[T] {
	if l.page == nil {
		return nil
	}
	return l.page
}

func (l *pageLoop[T]) Err() error { return l.err }

func (l *pageLoop[T]) stop(reason string, err error) bool {
	l.done = true
	l.err = err
	LoopStops.WithLabelValues(reason).Inc()
	l.logger.Debug().
		Str("reason", reason).
		Int("streamed", l.progress.total).
		Msg("Page loop finished")
	return false
}

// pageIterator exposes one source page, counting items against the shared
// progress and stopping once the limit is reached.
type pageIterator[T any] struct {
	items    Iterator[T]
	progress *progress
	// primed is set while items is positioned on a value nobody has read yet.
	primed bool
	value  T
	done   bool
	closed bool
}

func (p *pageIterator[T]) Next() bool {
	if p.done {
		return false
	}
	if p.progress.reached() {
		p.done = true
		return false
	}
	if p.primed {
		p.primed = false
	} else if !p.items.Next() {
		p.done = true
		return false
	}
	p.value = p.items.Value()
	p.progress.record()
	return true
}

func (p *pageIterator[T]) Value() T { return p.value }

func (p *pageIterator[T]) Err() error { return p.items.Err() }

// Close releases the source page once; later calls are no-ops.
func (p *pageIterator[T]) Close() error {
	p.done = true
	if p.closed {
		return nil
	}
	p.closed = true
	return closeIterator(p.items)
}

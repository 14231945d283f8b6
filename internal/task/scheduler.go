package task

import (
	"context"
	"errors"
	"fmt"
	"runtime/debug"
	"sync"

	"github.com/raphi011/mrb/internal/log"
)

// Body is the work of a background task.
type Body func(ctx context.Context, p *Progress) error

// Descriptor describes a task to schedule.
type Descriptor struct {
	Title string
	Run   Body
}

// Scheduler runs task descriptors off the interactive loop.
type Scheduler interface {
	Schedule(ctx context.Context, d Descriptor) *Handle
}

// PanicError wraps a panic recovered from a task body.
type PanicError struct {
	Title string
	Value any
	Stack []byte
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("task %q panicked: %v", e.Title, e.Value)
}

// Handle tracks one scheduled task.
type Handle struct {
	title string
	done  chan struct{}
	err   error
}

func newHandle(title string) *Handle {
	return &Handle{title: title, done: make(chan struct{})}
}

// Title returns the task title.
func (h *Handle) Title() string {
	return h.title
}

// Done is closed when the task has finished.
func (h *Handle) Done() <-chan struct{} {
	return h.done
}

// Err returns the task result. Only valid after Done is closed.
func (h *Handle) Err() error {
	return h.err
}

// Wait blocks until the task finishes or ctx is done.
func (h *Handle) Wait(ctx context.Context) error {
	select {
	case <-h.done:
		return h.err
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (h *Handle) finish(err error) {
	h.err = err
	close(h.done)
}

// FailureReporter is told about every task that ends with an error.
type FailureReporter func(ctx context.Context, title string, err error)

// LogFailures reports failures as warnings on the context logger.
func LogFailures(ctx context.Context, title string, err error) {
	l := log.FromContext(ctx)
	l.Warnf("%s failed: %v", title, err)
	var pe *PanicError
	if errors.As(err, &pe) {
		l.Debug("panic stack", "task", title, "stack", string(pe.Stack))
	}
}

// PoolOption configures a Pool.
type PoolOption func(*Pool)

// WithIndicators sets the progress indicator factory.
func WithIndicators(f IndicatorFactory) PoolOption {
	return func(p *Pool) {
		if f != nil {
			p.indicators = f
		}
	}
}

// WithFailureReporter replaces LogFailures.
func WithFailureReporter(r FailureReporter) PoolOption {
	return func(p *Pool) { p.report = r }
}

// Pool runs every scheduled task on its own goroutine.
type Pool struct {
	indicators IndicatorFactory
	report     FailureReporter
	wg         sync.WaitGroup
}

// NewPool creates a pool without progress display that logs failures.
func NewPool(opts ...PoolOption) *Pool {
	p := &Pool{
		indicators: func(string) Indicator { return nopIndicator{} },
		report:     LogFailures,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Schedule starts d in the background and returns immediately.
func (p *Pool) Schedule(ctx context.Context, d Descriptor) *Handle {
	h := newHandle(d.Title)
	workerCtx := offLoop(ctx)

	p.wg.Add(1)
	go func() {
		defer p.wg.Done()
		err := p.run(workerCtx, d)
		if err != nil && p.report != nil {
			p.report(workerCtx, d.Title, err)
		}
		h.finish(err)
	}()
	return h
}

// Wait blocks until every scheduled task has finished.
func (p *Pool) Wait() {
	p.wg.Wait()
}

func (p *Pool) run(ctx context.Context, d Descriptor) (err error) {
	ind := p.indicators(d.Title)
	ind.Start()
	defer ind.Stop()

	defer func() {
		if r := recover(); r != nil {
			err = &PanicError{Title: d.Title, Value: r, Stack: debug.Stack()}
		}
	}()

	pr := &Progress{ctx: ctx, title: d.Title, ind: ind}
	return d.Run(WithProgress(ctx, pr), pr)
}

package task

import (
	"context"
	"errors"
	"sync"
)

// ErrLoopStopped is returned when work is handed to a loop that has shut down.
var ErrLoopStopped = errors.New("event loop stopped")

type loopKey struct{}

// Loop is the interactive goroutine: functions posted to it run one at a
// time, in submission order, on the goroutine that called Run.
type Loop struct {
	queue    chan func(context.Context)
	stopped  chan struct{}
	stopOnce sync.Once
}

// NewLoop creates a loop. Nothing runs until Run is called.
func NewLoop() *Loop {
	return &Loop{
		queue:   make(chan func(context.Context), 64),
		stopped: make(chan struct{}),
	}
}

// Run executes posted functions until Shutdown is processed or ctx is done.
// Functions receive a context marked as running on this loop.
func (l *Loop) Run(ctx context.Context) {
	loopCtx := context.WithValue(ctx, loopKey{}, l)
	defer l.markStopped()

	for {
		select {
		case <-ctx.Done():
			return
		case fn := <-l.queue:
			if fn == nil {
				return
			}
			fn(loopCtx)
		}
	}
}

// Shutdown asks the loop to exit after everything posted before it has run.
func (l *Loop) Shutdown() {
	select {
	case l.queue <- nil:
	case <-l.stopped:
	}
}

// Stopped is closed once Run has returned.
func (l *Loop) Stopped() <-chan struct{} {
	return l.stopped
}

func (l *Loop) markStopped() {
	l.stopOnce.Do(func() { close(l.stopped) })
}

// OnLoop reports whether ctx belongs to a function running on l.
func (l *Loop) OnLoop(ctx context.Context) bool {
	owner, _ := ctx.Value(loopKey{}).(*Loop)
	return owner == l
}

// InvokeLater posts fn to the loop without waiting for it.
// Returns false if the loop has stopped.
func (l *Loop) InvokeLater(fn func(context.Context)) bool {
	select {
	case <-l.stopped:
		return false
	default:
	}
	select {
	case l.queue <- fn:
		return true
	case <-l.stopped:
		return false
	}
}

// InvokeAndWait runs fn on the loop and waits for it to finish.
// When ctx already belongs to the loop, fn runs in place.
func (l *Loop) InvokeAndWait(ctx context.Context, fn func(context.Context) error) error {
	if l.OnLoop(ctx) {
		return fn(ctx)
	}

	result := make(chan error, 1)
	posted := l.InvokeLater(func(loopCtx context.Context) {
		result <- fn(loopCtx)
	})
	if !posted {
		return ErrLoopStopped
	}

	select {
	case err := <-result:
		return err
	case <-l.stopped:
		// The loop may have run fn just before stopping.
		select {
		case err := <-result:
			return err
		default:
			return ErrLoopStopped
		}
	case <-ctx.Done():
		return ctx.Err()
	}
}

// offLoop strips the loop marker so work started from a loop function
// does not believe it still runs there.
func offLoop(ctx context.Context) context.Context {
	return context.WithValue(ctx, loopKey{}, (*Loop)(nil))
}

package task

import (
	"context"
	"fmt"

	"github.com/raphi011/mrb/internal/log"
)

// Flusher persists pending edits before a task touches the working trees.
type Flusher interface {
	FlushPendingEdits(ctx context.Context) error
}

// FlushFunc adapts a function to Flusher.
type FlushFunc func(ctx context.Context) error

func (f FlushFunc) FlushPendingEdits(ctx context.Context) error { return f(ctx) }

// Runner submits titled work to a scheduler. Each task first flushes
// pending edits on the loop, then runs its body in the background, and on
// success posts its completion callback back to the loop.
type Runner struct {
	loop    *Loop
	sched   Scheduler
	flusher Flusher
}

// NewRunner creates a runner. A nil flusher skips the flush step.
func NewRunner(loop *Loop, sched Scheduler, flusher Flusher) *Runner {
	if flusher == nil {
		flusher = FlushFunc(func(context.Context) error { return nil })
	}
	return &Runner{loop: loop, sched: sched, flusher: flusher}
}

// Submit schedules body under title and returns without waiting.
// onComplete may be nil. It never runs when body fails or panics.
func (r *Runner) Submit(ctx context.Context, title string, body Body, onComplete func(ctx context.Context)) *Handle {
	return r.sched.Schedule(ctx, Descriptor{
		Title: title,
		Run: func(ctx context.Context, p *Progress) error {
			if err := r.loop.InvokeAndWait(ctx, r.flusher.FlushPendingEdits); err != nil {
				return fmt.Errorf("flush pending edits: %w", err)
			}

			if err := body(ctx, p); err != nil {
				return err
			}

			if onComplete != nil && !r.loop.InvokeLater(onComplete) {
				log.FromContext(ctx).Debug("completion dropped, loop stopped", "task", title)
			}
			return nil
		},
	})
}

// InvokeAndWait runs fn on the runner's loop, in place when already there.
func (r *Runner) InvokeAndWait(ctx context.Context, fn func(context.Context) error) error {
	return r.loop.InvokeAndWait(ctx, fn)
}

package main

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/multierr"

	"github.com/raphi011/mrb/internal/branch"
	"github.com/raphi011/mrb/internal/config"
	"github.com/raphi011/mrb/internal/flush"
	"github.com/raphi011/mrb/internal/git"
	"github.com/raphi011/mrb/internal/log"
	"github.com/raphi011/mrb/internal/output"
	"github.com/raphi011/mrb/internal/project"
	"github.com/raphi011/mrb/internal/task"
	"github.com/raphi011/mrb/internal/ui/present"
	"github.com/raphi011/mrb/internal/ui/progress"
	"github.com/raphi011/mrb/internal/ui/prompt"
	"github.com/raphi011/mrb/internal/ui/styles"
)

// session wires one command invocation: the target repositories, an event
// loop, a worker pool and the processor submitting to them.
type session struct {
	proc   *branch.Processor
	loop   *task.Loop
	target *project.Target
}

type sessionOptions struct {
	done      string // printed on success, empty for none
	clipboard bool
}

// resolve picks the repositories of the invocation and the config that
// applies to them.
func (a *app) resolve(ctx context.Context) (*project.Target, *config.Config, error) {
	target, err := project.Resolve(ctx, a.cfg, project.Options{
		Project: a.project,
		Roots:   a.roots,
		Dir:     a.workDir,
	})
	if err != nil {
		return nil, nil, err
	}
	return target, config.MergeLocal(a.cfg, target.Local), nil
}

func (a *app) openSession(ctx context.Context, opts sessionOptions) (*session, error) {
	target, cfg, err := a.resolve(ctx)
	if err != nil {
		return nil, err
	}
	repos, err := branch.LoadRepositories(ctx, target.Roots)
	if err != nil {
		return nil, err
	}

	l := log.FromContext(ctx)
	loop := task.NewLoop()
	go loop.Run(ctx)

	pool := task.NewPool(
		task.WithIndicators(progress.NewIndicatorFactory(l, a.quiet)),
		task.WithFailureReporter(a.reportFailure),
	)

	var flusher task.Flusher = flush.Nop{}
	if len(cfg.Flush.Commands) > 0 {
		flusher = flush.New(cfg.Flush.Commands, flush.Context{
			Project: target.Name,
			Roots:   target.Roots,
			Dir:     a.workDir,
		})
	}

	client := git.NewClient(cfg.Compare.Limit)
	var presentOpts []present.Option
	if opts.clipboard {
		presentOpts = append(presentOpts, present.WithClipboard())
	}

	var procOpts []branch.Option
	if opts.done != "" {
		procOpts = append(procOpts, branch.WithCallback(func(ctx context.Context) {
			log.FromContext(ctx).Println(styles.Check(opts.done))
		}))
	}

	proc := branch.NewProcessor(repos,
		task.NewRunner(loop, pool, flusher),
		client,
		branch.NewGate(a.resolver(ctx, cfg.Conflict.Mode, client)),
		present.New(output.FromContext(ctx), l, presentOpts...),
		procOpts...,
	)
	return &session{proc: proc, loop: loop, target: target}, nil
}

// resolver maps the conflict mode to a resolver. Prompting needs a
// terminal; without one blocked roots are left alone.
func (a *app) resolver(ctx context.Context, mode string, wt branch.WorkingTree) branch.Resolver {
	switch mode {
	case config.ConflictStash:
		return branch.NewStashResolver(wt)
	case config.ConflictAbort:
		return branch.AbortResolver{}
	}
	if !a.interactive() {
		log.FromContext(ctx).Debug("not a terminal, conflicts abort", "mode", mode)
		return branch.AbortResolver{}
	}
	return branch.NewPromptResolver(prompt.Asker, wt)
}

// wait blocks until the task finishes and the loop has run its completion.
// A nil handle means nothing was submitted.
func (s *session) wait(h *task.Handle) error {
	defer func() {
		s.loop.Shutdown()
		<-s.loop.Stopped()
	}()
	if h == nil {
		return nil
	}
	// The body sees ctx cancellation itself; wait for it to wind down.
	<-h.Done()
	if err := h.Err(); err != nil {
		return &errReported{err: err}
	}
	return nil
}

// reportFailure prints a failed task with one line per root error.
func (a *app) reportFailure(ctx context.Context, title string, err error) {
	fmt.Fprintln(a.stderr, styles.Cross(title+" failed"))
	for _, e := range multierr.Errors(err) {
		fmt.Fprintf(a.stderr, "  %v\n", e)
	}
	var pe *task.PanicError
	if errors.As(err, &pe) {
		log.FromContext(ctx).Debug("panic stack", "task", title, "stack", string(pe.Stack))
	}
}

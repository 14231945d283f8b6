package branch

import (
	"context"
	"fmt"

	"github.com/raphi011/mrb/internal/git"
	"github.com/raphi011/mrb/internal/log"
	"github.com/raphi011/mrb/internal/task"
)

// Kind identifies a branch operation.
type Kind int

const (
	KindCheckout Kind = iota
	KindCheckoutNewBranch
	KindCheckoutNewBranchFrom
	KindDeleteBranch
	KindCreateTag
	KindCompare
)

// Request is one invocation of a branch operation.
type Request struct {
	Kind       Kind
	Target     string
	StartPoint string
	Message    string
	Force      bool
}

// Title is the human-readable task title.
func (r Request) Title() string {
	switch r.Kind {
	case KindCheckoutNewBranch:
		return "Checking out new branch " + r.Target
	case KindCheckoutNewBranchFrom:
		return "Checking out " + r.StartPoint
	case KindDeleteBranch:
		return "Deleting " + r.Target
	case KindCreateTag:
		return "Creating tag " + r.Target
	case KindCompare:
		return "Comparing with " + r.Target
	default:
		return "Checking out " + r.Target
	}
}

// Presenter displays results to the user.
type Presenter interface {
	ShowInfo(message, title string) error
	ShowComparison(repo *Repository, ahead, behind []git.Commit, branchName string) error
}

// Runner submits background tasks and runs functions on the interactive loop.
type Runner interface {
	Submit(ctx context.Context, title string, body task.Body, onComplete func(ctx context.Context)) *task.Handle
	InvokeAndWait(ctx context.Context, fn func(context.Context) error) error
}

// Option configures a Processor.
type Option func(*Processor)

// WithCallback runs fn on the interactive loop after every operation that
// completes without error.
func WithCallback(fn func(ctx context.Context)) Option {
	return func(p *Processor) { p.onComplete = fn }
}

// Processor is the entry point for branch operations on a set of
// repositories. Every operation runs in the background and returns a handle
// immediately. Branch names are not validated.
type Processor struct {
	repos      []*Repository
	runner     Runner
	exec       *Executor
	compare    *CompareEngine
	presenter  Presenter
	onComplete func(ctx context.Context)
}

// NewProcessor creates a processor for repos.
func NewProcessor(repos []*Repository, runner Runner, client Client, gate *Gate, presenter Presenter, opts ...Option) *Processor {
	p := &Processor{
		repos:     repos,
		runner:    runner,
		exec:      NewExecutor(repos, client, gate),
		compare:   NewCompareEngine(client),
		presenter: presenter,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Repositories returns the repositories operated on.
func (p *Processor) Repositories() []*Repository {
	return p.repos
}

// Checkout switches every repository to reference, offering to stash local
// changes that block it.
func (p *Processor) Checkout(ctx context.Context, reference string) *task.Handle {
	return p.Submit(ctx, Request{Kind: KindCheckout, Target: reference})
}

// CheckoutNewBranch creates and switches to name from the current branch.
func (p *Processor) CheckoutNewBranch(ctx context.Context, name string) *task.Handle {
	return p.Submit(ctx, Request{Kind: KindCheckoutNewBranch, Target: name})
}

// CheckoutNewBranchFrom creates and switches to name starting at startPoint
// (git checkout -b <name> <startPoint>).
func (p *Processor) CheckoutNewBranchFrom(ctx context.Context, name, startPoint string) *task.Handle {
	return p.Submit(ctx, Request{Kind: KindCheckoutNewBranchFrom, Target: name, StartPoint: startPoint})
}

// DeleteBranch deletes name from every repository.
func (p *Processor) DeleteBranch(ctx context.Context, name string, force bool) *task.Handle {
	return p.Submit(ctx, Request{Kind: KindDeleteBranch, Target: name, Force: force})
}

// CreateNewTag creates a lightweight tag name at reference in every repository.
func (p *Processor) CreateNewTag(ctx context.Context, name, reference string) *task.Handle {
	return p.Submit(ctx, Request{Kind: KindCreateTag, Target: name, StartPoint: reference})
}

// CreateNewAnnotatedTag creates an annotated tag name at reference.
func (p *Processor) CreateNewAnnotatedTag(ctx context.Context, name, message, reference string) *task.Handle {
	return p.Submit(ctx, Request{Kind: KindCreateTag, Target: name, StartPoint: reference, Message: message})
}

// Compare shows how HEAD and branchName differ. Only a single repository
// can be compared; otherwise nothing happens and the handle is nil.
func (p *Processor) Compare(ctx context.Context, branchName string) *task.Handle {
	return p.Submit(ctx, Request{Kind: KindCompare, Target: branchName})
}

// Submit runs req in the background.
func (p *Processor) Submit(ctx context.Context, req Request) *task.Handle {
	if req.Kind == KindCompare && len(p.repos) != 1 {
		log.FromContext(ctx).Debug("compare skipped", "repos", len(p.repos))
		return nil
	}

	return p.runner.Submit(ctx, req.Title(), func(ctx context.Context, _ *task.Progress) error {
		return p.run(ctx, req)
	}, p.onComplete)
}

func (p *Processor) run(ctx context.Context, req Request) error {
	var err error
	switch req.Kind {
	case KindCheckout:
		_, err = p.exec.Checkout(ctx, req.Target)
	case KindCheckoutNewBranch:
		_, err = p.exec.CheckoutNewBranch(ctx, req.Target)
	case KindCheckoutNewBranchFrom:
		_, err = p.exec.CheckoutNewBranchFrom(ctx, req.Target, req.StartPoint)
	case KindDeleteBranch:
		_, err = p.exec.DeleteBranch(ctx, req.Target, req.Force)
	case KindCreateTag:
		_, err = p.exec.CreateTag(ctx, req.Target, req.Message, req.StartPoint)
	case KindCompare:
		err = p.runCompare(ctx, p.repos[0], req.Target)
	default:
		err = fmt.Errorf("%w: unknown operation %d", ErrInvariant, req.Kind)
	}
	return err
}

func (p *Processor) runCompare(ctx context.Context, repo *Repository, branchName string) error {
	task.ProgressFromContext(ctx).SetText("loading history")
	res, err := p.compare.Compare(ctx, repo, branchName)
	if err != nil {
		return err
	}

	return p.runner.InvokeAndWait(ctx, func(context.Context) error {
		if res.Empty() {
			msg := fmt.Sprintf("There are no changes between %s and %s", repo.CurrentBranch(), branchName)
			return p.presenter.ShowInfo(msg, "No Changes Detected")
		}
		return p.presenter.ShowComparison(repo, res.Ahead, res.Behind, branchName)
	})
}

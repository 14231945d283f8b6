package branch

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/multierr"

	"github.com/raphi011/mrb/internal/git"
	"github.com/raphi011/mrb/internal/log"
	"github.com/raphi011/mrb/internal/task"
)

// Client runs branch commands in a single repository root.
type Client interface {
	Checkout(ctx context.Context, root, ref string) error
	CreateBranch(ctx context.Context, root, name, from string) error
	DeleteBranch(ctx context.Context, root, name string, force bool) error
	CreateTag(ctx context.Context, root, name, message, ref string) error
	History(ctx context.Context, root, rangeExpr string) ([]git.Commit, error)
}

// BranchReader reads the branch a root is on after a switch. A detached
// HEAD is reported by its short hash.
type BranchReader interface {
	CurrentBranch(ctx context.Context, root string) (string, error)
}

// RootResult is the outcome of an operation in one repository.
type RootResult struct {
	Repository *Repository
	Err        error
	// Retried is set when the action ran a second time after resolving conflicts.
	Retried bool
}

// Outcome collects the per-root results of one operation, in repository order.
type Outcome []RootResult

// Err combines the errors of every failed root.
func (o Outcome) Err() error {
	var err error
	for _, r := range o {
		err = multierr.Append(err, r.Err)
	}
	return err
}

// Failed returns the results that carry an error.
func (o Outcome) Failed() []RootResult {
	var failed []RootResult
	for _, r := range o {
		if r.Err != nil {
			failed = append(failed, r)
		}
	}
	return failed
}

// Executor applies one logical operation to every repository. Each root is
// processed independently: a failure is recorded and the remaining roots are
// still attempted. Nothing is rolled back.
type Executor struct {
	repos  []*Repository
	client Client
	gate   *Gate
}

// NewExecutor creates an executor. A nil gate abandons every conflict.
func NewExecutor(repos []*Repository, client Client, gate *Gate) *Executor {
	if gate == nil {
		gate = NewGate(nil)
	}
	return &Executor{repos: repos, client: client, gate: gate}
}

// CheckoutNewBranch creates name from the shared current branch in every
// repository and switches to it.
func (e *Executor) CheckoutNewBranch(ctx context.Context, name string) (Outcome, error) {
	current, err := CheckConsistency(e.repos)
	if err != nil {
		return nil, err
	}
	return e.CheckoutNewBranchFrom(ctx, name, current)
}

// CheckoutNewBranchFrom creates name from startPoint in every repository and
// switches to it. The repositories must still agree on their current branch.
func (e *Executor) CheckoutNewBranchFrom(ctx context.Context, name, startPoint string) (Outcome, error) {
	if _, err := CheckConsistency(e.repos); err != nil {
		return nil, err
	}
	return e.forEach(ctx, "create branch "+name, name, func(ctx context.Context, repo *Repository) attempt {
		return e.withGate(ctx, repo, newBranchDescription, func() error {
			return e.client.CreateBranch(ctx, repo.Root, name, startPoint)
		})
	})
}

// Checkout switches every repository to reference. A repository blocked by
// local changes goes through the gate once and is retried once.
func (e *Executor) Checkout(ctx context.Context, reference string) (Outcome, error) {
	if _, err := CheckConsistency(e.repos); err != nil {
		return nil, err
	}
	return e.forEach(ctx, "checkout "+reference, reference, func(ctx context.Context, repo *Repository) attempt {
		return e.withGate(ctx, repo, checkoutDescription, func() error {
			return e.client.Checkout(ctx, repo.Root, reference)
		})
	})
}

// DeleteBranch deletes name from every repository, one after another.
// The shared current branch is never deleted.
func (e *Executor) DeleteBranch(ctx context.Context, name string, force bool) (Outcome, error) {
	current, err := CheckConsistency(e.repos)
	if err != nil {
		return nil, err
	}
	if name == current {
		return nil, fmt.Errorf("%w %q", ErrDeleteCurrentBranch, name)
	}
	return e.forEach(ctx, "delete branch "+name, "", func(ctx context.Context, repo *Repository) attempt {
		return attempt{err: e.client.DeleteBranch(ctx, repo.Root, name, force)}
	})
}

// CreateTag tags reference in every repository. Repositories need not agree
// on their current branch. An empty message creates a lightweight tag.
func (e *Executor) CreateTag(ctx context.Context, name, message, reference string) (Outcome, error) {
	if len(e.repos) == 0 {
		return nil, ErrNoRepositories
	}
	return e.forEach(ctx, "create tag "+name, "", func(ctx context.Context, repo *Repository) attempt {
		return attempt{err: e.client.CreateTag(ctx, repo.Root, name, message, reference)}
	})
}

// attempt is the result of an action in one root. err is the action's own
// failure; restoreErr is a failure to put local changes back afterwards,
// which does not undo a successful action.
type attempt struct {
	retried    bool
	err        error
	restoreErr error
}

type rootAction func(ctx context.Context, repo *Repository) attempt

// forEach runs fn on every repository. When switchTo is set, a root whose
// action succeeded records the branch it is now on, even if restoring its
// local changes failed.
func (e *Executor) forEach(ctx context.Context, op, switchTo string, fn rootAction) (Outcome, error) {
	l := log.FromContext(ctx)
	progress := task.ProgressFromContext(ctx)

	outcome := make(Outcome, 0, len(e.repos))
	for _, repo := range e.repos {
		if err := ctx.Err(); err != nil {
			outcome = append(outcome, RootResult{Repository: repo, Err: err})
			break
		}

		progress.SetText(repo.Name)
		a := fn(ctx, repo)
		if a.err == nil && switchTo != "" {
			repo.setCurrentBranch(e.branchAfterSwitch(ctx, repo, switchTo))
		}

		if err := multierr.Append(a.err, a.restoreErr); err != nil {
			l.Debug("failed", "op", op, "repo", repo.Name, "err", err)
			outcome = append(outcome, RootResult{
				Repository: repo,
				Err:        &ExecutionError{Op: op, Root: repo.Root, Err: err},
				Retried:    a.retried,
			})
			continue
		}

		l.Debug("done", "op", op, "repo", repo.Name)
		outcome = append(outcome, RootResult{Repository: repo, Retried: a.retried})
	}

	return outcome, outcome.Err()
}

// branchAfterSwitch asks the client which branch repo is on, so a checked
// out tag or commit is recorded the way LoadRepositories would see it.
// Without a BranchReader, or if the read fails, ref is used.
func (e *Executor) branchAfterSwitch(ctx context.Context, repo *Repository, ref string) string {
	reader, ok := e.client.(BranchReader)
	if !ok {
		return ref
	}
	current, err := reader.CurrentBranch(ctx, repo.Root)
	if err != nil {
		log.FromContext(ctx).Debug("read branch", "repo", repo.Name, "err", err)
		return ref
	}
	return current
}

// withGate runs action and, if it is blocked by files in the working tree,
// resolves once through the gate and retries once.
func (e *Executor) withGate(ctx context.Context, repo *Repository, desc Description, action func() error) attempt {
	err := action()

	var conflict *ConflictError
	if !errors.As(err, &conflict) {
		return attempt{err: err}
	}

	ok, rerr := e.gate.Resolve(ctx, []Conflict{{
		Repository: repo,
		Kind:       conflict.Kind,
		Files:      conflict.Files,
	}}, desc)
	if rerr != nil {
		return attempt{err: multierr.Append(err, rerr)}
	}
	if !ok {
		return attempt{err: fmt.Errorf("%w: %w", ErrConflictUnresolved, err)}
	}

	return attempt{
		retried:    true,
		err:        action(),
		restoreErr: e.gate.Restore(ctx, repo),
	}
}

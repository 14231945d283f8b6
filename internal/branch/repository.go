package branch

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"

	"go.uber.org/multierr"

	"github.com/raphi011/mrb/internal/git"
)

// Repository is one root of a multi-root project. Its current branch is
// written only by the Executor after a successful mutation.
type Repository struct {
	Root string
	Name string

	mu            sync.RWMutex
	currentBranch string
}

// NewRepository creates a repository named after the base of root.
func NewRepository(root, currentBranch string) *Repository {
	return &Repository{
		Root:          root,
		Name:          filepath.Base(root),
		currentBranch: currentBranch,
	}
}

// CurrentBranch returns the branch the working copy is attached to.
func (r *Repository) CurrentBranch() string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.currentBranch
}

func (r *Repository) setCurrentBranch(name string) {
	r.mu.Lock()
	r.currentBranch = name
	r.mu.Unlock()
}

func (r *Repository) String() string {
	return r.Name
}

// LoadRepositories reads the current branch of every root.
// Fails if any root cannot be read; all failures are reported together.
func LoadRepositories(ctx context.Context, roots []string) ([]*Repository, error) {
	if len(roots) == 0 {
		return nil, ErrNoRepositories
	}

	var errs error
	repos := make([]*Repository, 0, len(roots))
	for _, state := range git.LoadRootStates(ctx, roots) {
		if state.Err != nil {
			errs = multierr.Append(errs, fmt.Errorf("read %s: %w", state.Path, state.Err))
			continue
		}
		repos = append(repos, NewRepository(state.Path, state.Branch))
	}
	if errs != nil {
		return nil, errs
	}
	return repos, nil
}

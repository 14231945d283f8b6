package branch

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"go.uber.org/multierr"

	"github.com/raphi011/mrb/internal/git"
	"github.com/raphi011/mrb/internal/log"
)

// AbortResolver never resolves; blocked actions are abandoned.
type AbortResolver struct{}

func (AbortResolver) Resolve(ctx context.Context, conflicts []Conflict, desc Description) (bool, error) {
	log.FromContext(ctx).Warnf("%s: %s\n%s", desc.ErrorTitle, desc.MergeDescription, FormatConflicts(conflicts))
	return false, nil
}

// Stasher moves local changes aside and back.
type Stasher interface {
	Stash(ctx context.Context, root string) (bool, error)
	StashPop(ctx context.Context, root string) error
}

// StashResolver stashes local changes so the action can be retried, and pops
// the stash in Restore. Unmerged files cannot be stashed and are not resolved.
type StashResolver struct {
	stasher Stasher

	mu      sync.Mutex
	stashed map[*Repository]bool
}

// NewStashResolver creates a resolver using s.
func NewStashResolver(s Stasher) *StashResolver {
	return &StashResolver{stasher: s, stashed: make(map[*Repository]bool)}
}

func (r *StashResolver) Resolve(ctx context.Context, conflicts []Conflict, desc Description) (bool, error) {
	for _, c := range conflicts {
		if c.Kind == git.UnmergedFiles {
			log.FromContext(ctx).Warnf("%s: %s\n%s", desc.ErrorTitle, desc.MergeDescription, FormatConflicts(conflicts))
			return false, nil
		}
	}

	var errs error
	for _, c := range conflicts {
		ok, err := r.stasher.Stash(ctx, c.Repository.Root)
		if err != nil {
			errs = multierr.Append(errs, fmt.Errorf("stash %s: %w", c.Repository.Name, err))
			continue
		}
		if ok {
			r.mu.Lock()
			r.stashed[c.Repository] = true
			r.mu.Unlock()
			log.FromContext(ctx).Printf("Stashed local changes in %s\n", c.Repository.Name)
		}
	}
	if errs != nil {
		return false, errs
	}
	return true, nil
}

// Restore pops the stash created for repo, if any.
func (r *StashResolver) Restore(ctx context.Context, repo *Repository) error {
	r.mu.Lock()
	stashed := r.stashed[repo]
	delete(r.stashed, repo)
	r.mu.Unlock()

	if !stashed {
		return nil
	}
	if err := r.stasher.StashPop(ctx, repo.Root); err != nil {
		return fmt.Errorf("restore local changes in %s: %w", repo.Name, err)
	}
	log.FromContext(ctx).Printf("Restored local changes in %s\n", repo.Name)
	return nil
}

// ConfirmFunc asks a yes/no question.
type ConfirmFunc func(ctx context.Context, title, message string) (bool, error)

// WorkingTree stashes local changes and reports unresolved merge conflicts.
type WorkingTree interface {
	Stasher
	ListUnmergedFiles(ctx context.Context, root string) ([]string, error)
}

// PromptResolver shows the blocking files and asks how to proceed. Local
// changes are stashed, the action retried and the stash restored. Unmerged
// files must be resolved by the user first; the retry only happens once
// none are left.
type PromptResolver struct {
	confirm ConfirmFunc
	tree    WorkingTree
	stash   *StashResolver
}

// NewPromptResolver creates a resolver asking through confirm.
func NewPromptResolver(confirm ConfirmFunc, tree WorkingTree) *PromptResolver {
	return &PromptResolver{confirm: confirm, tree: tree, stash: NewStashResolver(tree)}
}

func (r *PromptResolver) Resolve(ctx context.Context, conflicts []Conflict, desc Description) (bool, error) {
	var unmerged []Conflict
	for _, c := range conflicts {
		if c.Kind == git.UnmergedFiles {
			unmerged = append(unmerged, c)
		}
	}
	if len(unmerged) > 0 {
		return r.resolveUnmerged(ctx, unmerged, desc)
	}

	msg := "Your local changes would be overwritten:\n\n" + FormatConflicts(conflicts) +
		"\nStash them, retry, and restore them afterwards?"
	ok, err := r.confirm(ctx, desc.ErrorTitle, msg)
	if err != nil || !ok {
		return false, err
	}
	return r.stash.Resolve(ctx, conflicts, desc)
}

func (r *PromptResolver) resolveUnmerged(ctx context.Context, conflicts []Conflict, desc Description) (bool, error) {
	msg := desc.MergeDescription + "\n\n" + FormatConflicts(conflicts) +
		"\nResolve them (for example with 'git mergetool'), then retry?"
	ok, err := r.confirm(ctx, desc.ErrorTitle, msg)
	if err != nil || !ok {
		return false, err
	}

	for _, c := range conflicts {
		left, err := r.tree.ListUnmergedFiles(ctx, c.Repository.Root)
		if err != nil {
			return false, fmt.Errorf("check unmerged files in %s: %w", c.Repository.Name, err)
		}
		if len(left) > 0 {
			log.FromContext(ctx).Warnf("%s still has unmerged files: %s", c.Repository.Name, strings.Join(left, ", "))
			return false, nil
		}
	}
	return true, nil
}

func (r *PromptResolver) Restore(ctx context.Context, repo *Repository) error {
	return r.stash.Restore(ctx, repo)
}

// FormatConflicts lists the blocking files grouped by repository.
func FormatConflicts(conflicts []Conflict) string {
	var sb strings.Builder
	for _, c := range conflicts {
		fmt.Fprintf(&sb, "%s (%s):\n", c.Repository.Name, c.Kind)
		for _, f := range c.Files {
			fmt.Fprintf(&sb, "  %s\n", f)
		}
	}
	return sb.String()
}

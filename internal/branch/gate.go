package branch

import (
	"context"
	"fmt"

	"github.com/raphi011/mrb/internal/git"
	"github.com/raphi011/mrb/internal/log"
)

// Conflict is the set of files in one repository blocking an action.
type Conflict struct {
	Repository *Repository
	Kind       git.ObstructionKind
	Files      []string
}

// Description is shown to the user while resolving conflicts.
type Description struct {
	MergeDescription string
	ErrorTitle       string
}

var (
	checkoutDescription = Description{
		MergeDescription: "The following files have unresolved conflicts. You need to resolve them before checking out.",
		ErrorTitle:       "Can't checkout",
	}
	newBranchDescription = Description{
		MergeDescription: "The following files have unresolved conflicts. You need to resolve them before checking out.",
		ErrorTitle:       "Can't create new branch",
	}
)

// Resolver decides whether blocking files can be moved out of the way.
// It returns true when every conflict was resolved.
type Resolver interface {
	Resolve(ctx context.Context, conflicts []Conflict, desc Description) (bool, error)
}

// Restorer is implemented by resolvers that must undo their work once the
// retried action has run, such as popping a stash.
type Restorer interface {
	Restore(ctx context.Context, repo *Repository) error
}

// Gate runs one resolution cycle per blocked action.
type Gate struct {
	resolver Resolver
}

// NewGate creates a gate. A nil resolver never resolves anything.
func NewGate(r Resolver) *Gate {
	if r == nil {
		r = AbortResolver{}
	}
	return &Gate{resolver: r}
}

// Resolve asks the resolver once. Callers retry the blocked action at most
// once after a true result.
func (g *Gate) Resolve(ctx context.Context, conflicts []Conflict, desc Description) (bool, error) {
	l := log.FromContext(ctx)
	for _, c := range conflicts {
		l.Debug("conflict", "repo", c.Repository.Name, "kind", c.Kind, "files", len(c.Files))
	}

	ok, err := g.resolver.Resolve(ctx, conflicts, desc)
	if err != nil {
		return false, fmt.Errorf("%s: %w", desc.ErrorTitle, err)
	}
	return ok, nil
}

// Restore lets the resolver undo its preparation for repo.
func (g *Gate) Restore(ctx context.Context, repo *Repository) error {
	if r, ok := g.resolver.(Restorer); ok {
		return r.Restore(ctx, repo)
	}
	return nil
}

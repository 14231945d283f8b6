package branch

import (
	"errors"
	"fmt"
	"strings"

	"github.com/raphi011/mrb/internal/git"
)

var (
	// ErrInvariant marks states the code assumes cannot happen. Operations
	// abort before mutating anything when they see one.
	ErrInvariant = errors.New("invariant violated")

	// ErrDiverged means the repositories do not share a current branch.
	ErrDiverged = fmt.Errorf("%w: repositories have unexpectedly diverged", ErrInvariant)

	// ErrNoRepositories is returned when an operation is given no repositories.
	ErrNoRepositories = errors.New("no repositories")

	// ErrDeleteCurrentBranch is returned when asked to delete the branch
	// all repositories are on.
	ErrDeleteCurrentBranch = errors.New("cannot delete the current branch")

	// ErrConflictUnresolved is recorded for a root whose obstruction was not
	// resolved, so its action was abandoned.
	ErrConflictUnresolved = errors.New("conflict not resolved")
)

// DivergenceError lists the current branch of every repository when they disagree.
type DivergenceError struct {
	Branches []RootBranch
}

// RootBranch pairs a repository with the branch it reported.
type RootBranch struct {
	Root   string
	Branch string
}

func (e *DivergenceError) Error() string {
	parts := make([]string, len(e.Branches))
	for i, b := range e.Branches {
		parts[i] = b.Root + "=" + b.Branch
	}
	return fmt.Sprintf("%v (%s)", ErrDiverged, strings.Join(parts, ", "))
}

func (e *DivergenceError) Unwrap() error { return ErrDiverged }

// ConflictError is a checkout refused because of files in the working tree.
type ConflictError = git.ObstructionError

// ExecutionError is a failed external command for one repository.
type ExecutionError struct {
	Op   string
	Root string
	Err  error
}

func (e *ExecutionError) Error() string {
	return fmt.Sprintf("%s in %s: %v", e.Op, e.Root, e.Err)
}

func (e *ExecutionError) Unwrap() error { return e.Err }

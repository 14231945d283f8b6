package git

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/raphi011/mrb/internal/cmd"
)

// ObstructionKind classifies why git refused to switch branches.
type ObstructionKind int

const (
	// LocalChanges means tracked files with uncommitted changes would be overwritten.
	LocalChanges ObstructionKind = iota
	// UntrackedFiles means untracked files would be overwritten.
	UntrackedFiles
	// UnmergedFiles means the index has unresolved merge conflicts.
	UnmergedFiles
)

func (k ObstructionKind) String() string {
	switch k {
	case LocalChanges:
		return "local changes"
	case UntrackedFiles:
		return "untracked files"
	case UnmergedFiles:
		return "unmerged files"
	}
	return "unknown"
}

// ObstructionError is returned by Checkout and CreateBranch when files in the
// working tree prevent switching branches.
type ObstructionError struct {
	Root  string
	Kind  ObstructionKind
	Files []string
	Err   error
}

func (e *ObstructionError) Error() string {
	return fmt.Sprintf("%s in %s prevent checkout: %s", e.Kind, e.Root, strings.Join(e.Files, ", "))
}

func (e *ObstructionError) Unwrap() error { return e.Err }

// ErrNotFullyMerged is returned by DeleteBranch when git refuses to delete
// an unmerged branch without force.
var ErrNotFullyMerged = errors.New("branch is not fully merged")

// Checkout switches the working tree at root to ref.
func Checkout(ctx context.Context, root, ref string) error {
	if err := runGit(ctx, root, "checkout", ref); err != nil {
		return classifyCheckoutError(root, err)
	}
	return nil
}

// CreateBranch creates branch name at from and switches to it
// (git checkout -b <name> <from>).
func CreateBranch(ctx context.Context, root, name, from string) error {
	args := []string{"checkout", "-b", name}
	if from != "" {
		args = append(args, from)
	}
	if err := runGit(ctx, root, args...); err != nil {
		return classifyCheckoutError(root, err)
	}
	return nil
}

// DeleteBranch deletes the local branch name. Without force git refuses to
// delete a branch that is not merged, reported as ErrNotFullyMerged.
func DeleteBranch(ctx context.Context, root, name string, force bool) error {
	flag := "-d"
	if force {
		flag = "-D"
	}
	if err := runGit(ctx, root, "branch", flag, name); err != nil {
		if strings.Contains(cmd.Stderr(err), "not fully merged") {
			return fmt.Errorf("%s: %w", name, ErrNotFullyMerged)
		}
		return err
	}
	return nil
}

// CreateTag creates tag name pointing at ref. An empty message creates a
// lightweight tag, otherwise an annotated one. An empty ref means HEAD.
func CreateTag(ctx context.Context, root, name, message, ref string) error {
	args := []string{"tag"}
	if message != "" {
		args = append(args, "-a", "-m", message)
	}
	args = append(args, name)
	if ref != "" {
		args = append(args, ref)
	}
	return runGit(ctx, root, args...)
}

// classifyCheckoutError turns git's refusal messages into an ObstructionError.
// Any other failure is returned unchanged.
func classifyCheckoutError(root string, err error) error {
	kind, files, ok := ParseObstruction(cmd.Stderr(err))
	if !ok {
		return err
	}
	return &ObstructionError{Root: root, Kind: kind, Files: files, Err: err}
}

// ParseObstruction extracts the obstructing files from git checkout stderr.
//
// Recognised messages:
//
//	error: Your local changes to the following files would be overwritten by checkout:
//		a.txt
//	Please commit your changes or stash them before you switch branches.
//
//	error: The following untracked working tree files would be overwritten by checkout:
//		b.txt
//
//	a.txt: needs merge
//	error: you need to resolve your current index first
func ParseObstruction(stderr string) (ObstructionKind, []string, bool) {
	lines := strings.Split(stderr, "\n")

	var (
		kind      ObstructionKind
		files     []string
		found     bool
		inListing bool
	)
	for _, line := range lines {
		switch {
		case strings.Contains(line, "local changes to the following files would be overwritten"):
			kind, found, inListing = LocalChanges, true, true
		case strings.Contains(line, "untracked working tree files would be overwritten"):
			kind, found, inListing = UntrackedFiles, true, true
		case strings.HasSuffix(line, ": needs merge"):
			kind, found = UnmergedFiles, true
			files = append(files, strings.TrimSuffix(line, ": needs merge"))
		case strings.Contains(line, "you need to resolve your current index first"):
			kind, found = UnmergedFiles, true
		case inListing && strings.HasPrefix(line, "\t"):
			files = append(files, strings.TrimSpace(line))
		default:
			inListing = false
		}
	}
	return kind, files, found
}

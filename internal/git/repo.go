package git

import (
	"context"
	"fmt"
	"strings"
)

// CurrentBranch returns the branch the working tree at path is attached to.
// For a detached HEAD it returns the short commit hash instead, so two roots
// detached at different commits never compare equal.
func CurrentBranch(ctx context.Context, path string) (string, error) {
	output, err := outputGit(ctx, path, "branch", "--show-current")
	if err != nil {
		return "", fmt.Errorf("failed to get branch: %v", err)
	}
	if branch := strings.TrimSpace(string(output)); branch != "" {
		return branch, nil
	}
	return ShortHead(ctx, path)
}

// ShortHead returns the short hash of HEAD.
func ShortHead(ctx context.Context, path string) (string, error) {
	output, err := outputGit(ctx, path, "rev-parse", "--short", "HEAD")
	if err != nil {
		return "", fmt.Errorf("failed to get commit hash: %v", err)
	}
	return strings.TrimSpace(string(output)), nil
}

// BranchExists checks if a local branch exists
func BranchExists(ctx context.Context, path, branch string) bool {
	return runGit(ctx, path, "rev-parse", "--verify", "--quiet", "refs/heads/"+branch) == nil
}

// TagExists checks if a tag exists
func TagExists(ctx context.Context, path, tag string) bool {
	return runGit(ctx, path, "rev-parse", "--verify", "--quiet", "refs/tags/"+tag) == nil
}

// IsDirty returns true if the working tree has uncommitted changes or untracked files
func IsDirty(ctx context.Context, path string) bool {
	output, err := outputGit(ctx, path, "status", "--porcelain")
	if err != nil {
		return false
	}
	return strings.TrimSpace(string(output)) != ""
}

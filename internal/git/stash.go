package git

import (
	"context"
	"fmt"
	"strings"
)

// stashMessage marks stash entries created by mrb.
const stashMessage = "mrb smart checkout"

// Stash stashes tracked and untracked changes (-u).
// Returns false when there was nothing to stash.
func Stash(ctx context.Context, path string) (bool, error) {
	before := stashCount(ctx, path)
	if err := runGit(ctx, path, "stash", "push", "-u", "-m", stashMessage); err != nil {
		return false, fmt.Errorf("failed to stash changes: %v", err)
	}
	return stashCount(ctx, path) > before, nil
}

// StashPop applies and removes the most recent stash entry.
func StashPop(ctx context.Context, path string) error {
	if err := runGit(ctx, path, "stash", "pop"); err != nil {
		return fmt.Errorf("failed to pop stash: %v", err)
	}
	return nil
}

func stashCount(ctx context.Context, path string) int {
	output, err := outputGit(ctx, path, "stash", "list")
	if err != nil {
		return 0
	}
	trimmed := strings.TrimSpace(string(output))
	if trimmed == "" {
		return 0
	}
	return len(strings.Split(trimmed, "\n"))
}

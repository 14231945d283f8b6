package git

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// RootState is the current branch of one repository root, or the error
// encountered reading it.
type RootState struct {
	Path   string
	Branch string
	Dirty  bool
	// Unmerged lists files with unresolved conflicts, if any.
	Unmerged []string
	Err      error
}

// LoadRootStates reads the current branch, dirty flag and unmerged files of
// every root in parallel.
// Results keep the order of paths. Errors per root are reported in RootState.Err.
func LoadRootStates(ctx context.Context, paths []string) []RootState {
	states := make([]RootState, len(paths))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(8) // Bound concurrent git operations

	for i, path := range paths {
		g.Go(func() error {
			branch, err := CurrentBranch(ctx, path)
			states[i] = RootState{Path: path, Branch: branch, Err: err}
			if err == nil && IsDirty(ctx, path) {
				states[i].Dirty = true
				states[i].Unmerged, _ = ListUnmergedFiles(ctx, path)
			}
			return nil // per-root errors are carried in the state
		})
	}

	_ = g.Wait()
	return states
}

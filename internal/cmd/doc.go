// Package cmd provides helpers for executing external commands with proper error handling.
//
// Stderr is captured and becomes the error message, so a failing
// "git checkout" surfaces git's own explanation. The raw stderr stays
// available through [Stderr] for callers that need to classify failures
// (the git client uses it to recognise checkout obstructions).
//
// # Usage
//
//	if err := cmd.RunContext(ctx, repoPath, "git", "checkout", "main"); err != nil {
//	    return fmt.Errorf("checkout: %w", err)
//	}
//
//	out, err := cmd.OutputContext(ctx, repoPath, "git", "branch", "--show-current")
//
// # Design Notes
//
// mrb shells out to the git CLI rather than using a Go git library so that
// user configuration (hooks, credential helpers, aliases) keeps working.
package cmd

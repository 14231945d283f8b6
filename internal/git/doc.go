// Package git provides git operations via shell commands.
//
// All operations use the git CLI through the cmd package rather than a Go
// git library, so user configuration (hooks, aliases, credential helpers)
// applies exactly as on the command line.
//
// # Branch Operations
//
//   - [Checkout], [CreateBranch]: switch branches; refusals caused by files
//     in the working tree are returned as [*ObstructionError]
//   - [DeleteBranch]: delete a local branch, [ErrNotFullyMerged] without force
//   - [CreateTag]: lightweight or annotated tags
//
// # Queries
//
//   - [CurrentBranch]: branch name, or short hash when detached
//   - [History]: commits of a range expression such as "main.."
//   - [ListUnmergedFiles]: paths with unresolved conflicts
//   - [LoadRootStates]: current branch of many roots in parallel
//
// # Smart Checkout Support
//
// [Stash] and [StashPop] let a caller move local changes out of the way,
// retry a checkout, and bring the changes back.
//
// [Client] wraps the functions as methods for dependency injection.
package git

// Package project resolves which repository roots an operation targets.
//
// Roots come from, in order:
//
//   - --root flags (repeatable, relative to the working directory)
//   - --project, a [projects.<name>] table of the global config
//   - a .mrb.toml project file in the working directory or above
//   - the git repository containing the working directory
package project

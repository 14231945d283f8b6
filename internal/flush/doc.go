// Package flush saves pending edits before branch operations touch the
// working trees.
//
// Flush commands are shell commands from the config:
//
//	[flush]
//	commands = ["tmux send-keys -t editor ':wa' Enter"]
//
// Placeholders are replaced with shell-quoted values:
//
//   - {project}: project name
//   - {dir}: working directory of the command
//   - {roots}: every repository root, space separated
package flush

// Package prompt provides simple interactive prompts.
//
// [Confirm] asks a yes/no question on stderr, so stdout stays clean for
// piping, and returns an [Answer]. [Asker] wraps it for conflict
// resolution: it prints the title and the blocking files, then asks
// whether to continue.
package prompt

// Package task runs branch operations in the background.
//
// A [Loop] stands in for the interactive thread: everything that must be
// serialized with the user (prompts, flushing edits, completion callbacks)
// is posted to it. A [Pool] runs task bodies on worker goroutines with a
// [Progress] handle and turns panics into [*PanicError]. [Runner] glues the
// two together:
//
//	flush (on loop) -> body (worker) -> onComplete (on loop, success only)
package task

// Package branch coordinates branch operations across the repository roots
// of one project.
//
// Roots are expected to move together. Before any mutating operation
// [CheckConsistency] verifies that every [Repository] is on the same branch;
// a disagreement is an invariant violation ([ErrDiverged]) and nothing is
// changed. Tagging is the exception and works regardless of branches.
//
// The [Executor] applies an operation to each root in turn. A failing root
// does not stop the others and nothing is rolled back; per-root errors are
// combined into one. When files in a working tree block a checkout, the
// [Gate] asks its [Resolver] once and the checkout is retried once.
//
// [Processor] is the entry point. It names each operation, runs it as a
// background task and, on success, calls the optional callback on the
// interactive loop:
//
//	p := branch.NewProcessor(repos, runner, git.NewClient(0), gate, presenter)
//	h := p.Checkout(ctx, "feature-x")
//	err := h.Wait(ctx)
package branch

package branch

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/raphi011/mrb/internal/git"
)

// HistoryClient lists the commits of a range expression.
type HistoryClient interface {
	History(ctx context.Context, root, rangeExpr string) ([]git.Commit, error)
}

// CompareResult holds the commits distinguishing HEAD from a branch.
type CompareResult struct {
	// Ahead are commits HEAD has that the branch lacks.
	Ahead []git.Commit
	// Behind are commits the branch has that HEAD lacks.
	Behind []git.Commit
}

// Empty reports whether HEAD and the branch point at the same history.
func (r CompareResult) Empty() bool {
	return len(r.Ahead) == 0 && len(r.Behind) == 0
}

// CompareEngine computes comparisons for a single repository.
type CompareEngine struct {
	client HistoryClient
}

// NewCompareEngine creates an engine querying c.
func NewCompareEngine(c HistoryClient) *CompareEngine {
	return &CompareEngine{client: c}
}

// Compare runs both range queries concurrently. There is no partial result:
// if either query fails the comparison fails.
func (e *CompareEngine) Compare(ctx context.Context, repo *Repository, branchName string) (CompareResult, error) {
	var res CompareResult

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		ahead, err := e.history(ctx, repo, branchName+"..")
		res.Ahead = ahead
		return err
	})
	g.Go(func() error {
		behind, err := e.history(ctx, repo, ".."+branchName)
		res.Behind = behind
		return err
	})

	if err := g.Wait(); err != nil {
		return CompareResult{}, err
	}
	return res, nil
}

func (e *CompareEngine) history(ctx context.Context, repo *Repository, rangeExpr string) ([]git.Commit, error) {
	commits, err := e.client.History(ctx, repo.Root, rangeExpr)
	if err != nil {
		return nil, &ExecutionError{Op: "git log " + rangeExpr, Root: repo.Root, Err: err}
	}
	return commits, nil
}

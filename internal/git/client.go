package git

import "context"

// Client exposes the package functions as methods so callers can depend on
// an interface and substitute fakes in tests.
type Client struct {
	// HistoryLimit caps commits returned by History; 0 means unlimited.
	HistoryLimit int
}

// NewClient returns a Client backed by the git CLI.
func NewClient(historyLimit int) *Client {
	return &Client{HistoryLimit: historyLimit}
}

func (c *Client) CurrentBranch(ctx context.Context, root string) (string, error) {
	return CurrentBranch(ctx, root)
}

func (c *Client) Checkout(ctx context.Context, root, ref string) error {
	return Checkout(ctx, root, ref)
}

func (c *Client) CreateBranch(ctx context.Context, root, name, from string) error {
	return CreateBranch(ctx, root, name, from)
}

func (c *Client) DeleteBranch(ctx context.Context, root, name string, force bool) error {
	return DeleteBranch(ctx, root, name, force)
}

func (c *Client) CreateTag(ctx context.Context, root, name, message, ref string) error {
	return CreateTag(ctx, root, name, message, ref)
}

func (c *Client) History(ctx context.Context, root, rangeExpr string) ([]Commit, error) {
	return History(ctx, root, rangeExpr, c.HistoryLimit)
}

func (c *Client) Stash(ctx context.Context, root string) (bool, error) {
	return Stash(ctx, root)
}

func (c *Client) StashPop(ctx context.Context, root string) error {
	return StashPop(ctx, root)
}

func (c *Client) ListUnmergedFiles(ctx context.Context, root string) ([]string, error) {
	return ListUnmergedFiles(ctx, root)
}

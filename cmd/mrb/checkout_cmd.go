package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/raphi011/mrb/internal/task"
)

func newCheckoutCmd(a *app) *cobra.Command {
	var newBranch bool

	cmd := &cobra.Command{
		Use:     "checkout <ref> | -b <name> [start-point]",
		Short:   "Check out a branch in every repository",
		Aliases: []string{"co"},
		GroupID: GroupBranch,
		Long: `Check out a branch, tag or commit in every repository of the project.

With -b, creates a new branch named <name> in every repository and checks it
out. It starts at the shared current branch, or at [start-point] if given.

Local changes that block the checkout are handled according to
conflict.mode: prompt (ask to stash and retry), stash, or abort.`,
		Example: `  mrb checkout release-1.4         # Switch all repos to release-1.4
  mrb checkout -b feature-x         # New branch from the current branch
  mrb checkout -b hotfix v1.3.0     # New branch from a tag
  mrb -p backend checkout main      # Operate on a configured project`,
		Args: func(cmd *cobra.Command, args []string) error {
			if newBranch {
				return cobra.RangeArgs(1, 2)(cmd, args)
			}
			return cobra.ExactArgs(1)(cmd, args)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			done := fmt.Sprintf("Checked out %s", args[0])
			s, err := a.openSession(ctx, sessionOptions{done: done})
			if err != nil {
				return err
			}

			var h *task.Handle
			switch {
			case newBranch && len(args) == 2:
				h = s.proc.CheckoutNewBranchFrom(ctx, args[0], args[1])
			case newBranch:
				h = s.proc.CheckoutNewBranch(ctx, args[0])
			default:
				h = s.proc.Checkout(ctx, args[0])
			}
			return s.wait(h)
		},
	}

	cmd.Flags().BoolVarP(&newBranch, "branch", "b", false, "Create a new branch")

	return cmd
}

package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newDeleteCmd(a *app) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:     "delete <branch>",
		Short:   "Delete a branch in every repository",
		Aliases: []string{"rm"},
		GroupID: GroupBranch,
		Args:    cobra.ExactArgs(1),
		Long: `Delete a local branch in every repository of the project.

The shared current branch cannot be deleted. Without --force, git refuses
to delete branches that are not merged.`,
		Example: `  mrb delete feature-x      # Delete a merged branch
  mrb delete spike -f       # Delete even if unmerged`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			s, err := a.openSession(ctx, sessionOptions{done: fmt.Sprintf("Deleted %s", args[0])})
			if err != nil {
				return err
			}
			return s.wait(s.proc.DeleteBranch(ctx, args[0], force))
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "Delete unmerged branches")

	return cmd
}

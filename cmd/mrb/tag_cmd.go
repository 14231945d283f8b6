package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/raphi011/mrb/internal/task"
)

func newTagCmd(a *app) *cobra.Command {
	var message string

	cmd := &cobra.Command{
		Use:     "tag <name> [ref]",
		Short:   "Create a tag in every repository",
		GroupID: GroupBranch,
		Args:    cobra.RangeArgs(1, 2),
		Long: `Create a tag in every repository of the project.

Tags point at [ref] if given, otherwise at HEAD. With -m, an annotated tag
is created. Tagging works even when the repositories are on different
branches; a repository that fails does not stop the others.`,
		Example: `  mrb tag v1.4.0                   # Lightweight tag at HEAD
  mrb tag v1.4.0 -m "Release 1.4"  # Annotated tag
  mrb tag before-merge main        # Tag another ref`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			var ref string
			if len(args) == 2 {
				ref = args[1]
			}

			s, err := a.openSession(ctx, sessionOptions{done: fmt.Sprintf("Created tag %s", args[0])})
			if err != nil {
				return err
			}

			var h *task.Handle
			if message != "" {
				h = s.proc.CreateNewAnnotatedTag(ctx, args[0], message, ref)
			} else {
				h = s.proc.CreateNewTag(ctx, args[0], ref)
			}
			return s.wait(h)
		},
	}

	cmd.Flags().StringVarP(&message, "message", "m", "", "Create an annotated tag with this message")

	return cmd
}

package main

import (
	"errors"

	"github.com/spf13/cobra"
)

func newCompareCmd(a *app) *cobra.Command {
	var copyHashes bool

	cmd := &cobra.Command{
		Use:     "compare <branch>",
		Short:   "Show commits that differ between HEAD and a branch",
		Aliases: []string{"cmp"},
		GroupID: GroupInspect,
		Args:    cobra.ExactArgs(1),
		Long: `Show the commits on the current branch that <branch> lacks, then the
commits on <branch> that the current branch lacks.

Compare works on a single repository; use --root or run it inside the
repository.`,
		Example: `  mrb compare main              # What would merge into main
  mrb -r ../api compare main    # Compare another repository
  mrb compare main --copy       # Also copy the commit hashes`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			s, err := a.openSession(ctx, sessionOptions{clipboard: copyHashes})
			if err != nil {
				return err
			}

			h := s.proc.Compare(ctx, args[0])
			if h == nil {
				_ = s.wait(nil)
				return errors.New("compare needs exactly one repository")
			}
			return s.wait(h)
		},
	}

	cmd.Flags().BoolVar(&copyHashes, "copy", false, "Copy the listed commit hashes to the clipboard")

	return cmd
}

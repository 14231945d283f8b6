package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/raphi011/mrb/internal/branch"
	"github.com/raphi011/mrb/internal/git"
	"github.com/raphi011/mrb/internal/output"
	"github.com/raphi011/mrb/internal/ui/present"
	"github.com/raphi011/mrb/internal/ui/styles"
)

func newStatusCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "status",
		Short:   "Show the current branch of every repository",
		Aliases: []string{"st"},
		GroupID: GroupInspect,
		Args:    cobra.NoArgs,
		Example: `  mrb status
  mrb -p backend status`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			out := output.FromContext(ctx)

			target, _, err := a.resolve(ctx)
			if err != nil {
				return err
			}

			states := git.LoadRootStates(ctx, target.Roots)
			rows := make([][]string, 0, len(states))
			repos := make([]*branch.Repository, 0, len(states))
			var readErr error
			for _, s := range states {
				name := branch.NewRepository(s.Path, "").Name
				if s.Err != nil {
					rows = append(rows, []string{name, "", styles.ErrorStyle.Render("error"), s.Path})
					readErr = errors.Join(readErr, fmt.Errorf("read %s: %w", s.Path, s.Err))
					continue
				}
				rows = append(rows, []string{name, styles.AccentStyle.Render(s.Branch), rootState(s), s.Path})
				repos = append(repos, branch.NewRepository(s.Path, s.Branch))
			}

			out.Print(present.RenderTable([]string{"REPO", "BRANCH", "STATE", "PATH"}, rows))
			if readErr != nil {
				return readErr
			}

			shared, err := branch.CheckConsistency(repos)
			if err != nil {
				out.Println(styles.Cross("Repositories are on different branches"))
				return &errReported{err: err}
			}
			out.Println(styles.Check(fmt.Sprintf("All %d on %s", len(repos), shared)))
			return nil
		},
	}
}

func rootState(s git.RootState) string {
	switch {
	case len(s.Unmerged) > 0:
		return styles.ErrorStyle.Render(fmt.Sprintf("%d unmerged", len(s.Unmerged)))
	case s.Dirty:
		return styles.MutedStyle.Render("dirty" + styles.SymbolDirty)
	default:
		return "clean"
	}
}

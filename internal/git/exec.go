package git

import (
	"context"

	"github.com/raphi011/mrb/internal/cmd"
)

// gitEnv keeps git's messages parseable and stops it from waiting on a
// credential prompt while a spinner owns the terminal.
var gitEnv = []string{"LC_ALL=C", "GIT_TERMINAL_PROMPT=0"}

func gitCommand(root string, args []string) cmd.Command {
	if root != "" {
		args = append([]string{"-C", root}, args...)
	}
	return cmd.Command{Name: "git", Args: args, Env: gitEnv}
}

func runGit(ctx context.Context, root string, args ...string) error {
	return gitCommand(root, args).Run(ctx)
}

func outputGit(ctx context.Context, root string, args ...string) ([]byte, error) {
	return gitCommand(root, args).Output(ctx)
}

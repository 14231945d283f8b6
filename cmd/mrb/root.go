package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/raphi011/mrb/internal/config"
	"github.com/raphi011/mrb/internal/git"
	"github.com/raphi011/mrb/internal/log"
	"github.com/raphi011/mrb/internal/output"
	"github.com/raphi011/mrb/internal/ui/progress"
	"github.com/raphi011/mrb/internal/ui/styles"
)

// Command group IDs for organizing help output
const (
	GroupBranch  = "branch"
	GroupInspect = "inspect"
	GroupConfig  = "config"
)

// app is the state shared by all commands.
type app struct {
	cfg     *config.Config
	workDir string
	stdout  io.Writer
	stderr  io.Writer

	// interactive reports whether the user can answer prompts.
	interactive func() bool

	// Global flags
	verbose bool
	quiet   bool
	project string
	roots   []string
}

func newApp(cfg *config.Config, workDir string) *app {
	return &app{
		cfg:         cfg,
		workDir:     workDir,
		stdout:      os.Stdout,
		stderr:      os.Stderr,
		interactive: func() bool { return progress.IsTerminal(os.Stdin) && progress.IsTerminal(os.Stderr) },
	}
}

// errReported marks a failure that was already shown to the user.
type errReported struct{ err error }

func (e *errReported) Error() string { return e.err.Error() }
func (e *errReported) Unwrap() error { return e.err }

func newRootCmd(a *app) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "mrb",
		Short: "Branch operations across multi-repository projects",
		Long: `mrb runs branch operations on every repository of a project at once.

A project is a set of repositories that are kept on the same branch:
checking out, creating or deleting a branch, and tagging apply to all of
them. Operations refuse to run when the repositories are on different
branches.`,
		SilenceUsage:               true,
		SilenceErrors:              true,
		SuggestionsMinimumDistance: 2, // Enable typo suggestions
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// Validate mutually exclusive flags
			if a.verbose && a.quiet {
				return fmt.Errorf("--verbose and --quiet are mutually exclusive")
			}

			ctx := log.WithLogger(cmd.Context(), log.New(a.stderr, a.verbose, a.quiet))
			ctx = output.WithPrinter(ctx, a.stdout)
			cmd.SetContext(ctx)

			// Skip git check for completion and help commands
			if cmd.Name() == "completion" || cmd.Name() == "__complete" || cmd.Name() == "help" {
				return nil
			}
			return git.CheckGit()
		},
		// Run is not set - shows help when no subcommand provided
	}

	rootCmd.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "Show external commands being executed")
	rootCmd.PersistentFlags().BoolVarP(&a.quiet, "quiet", "q", false, "Suppress all log output")
	rootCmd.MarkFlagsMutuallyExclusive("verbose", "quiet")
	rootCmd.PersistentFlags().StringVarP(&a.project, "project", "p", "", "Configured project to operate on")
	rootCmd.PersistentFlags().StringArrayVarP(&a.roots, "root", "r", nil, "Repository root (repeatable)")
	rootCmd.MarkFlagsMutuallyExclusive("project", "root")
	_ = rootCmd.RegisterFlagCompletionFunc("project", func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
		return a.cfg.ProjectNames(), cobra.ShellCompDirectiveNoFileComp
	})

	// Version flag
	rootCmd.Version = versionString()
	rootCmd.SetVersionTemplate("{{.Version}}\n")

	rootCmd.AddGroup(
		&cobra.Group{ID: GroupBranch, Title: "Branch Commands:"},
		&cobra.Group{ID: GroupInspect, Title: "Inspection Commands:"},
		&cobra.Group{ID: GroupConfig, Title: "Configuration Commands:"},
	)

	rootCmd.AddCommand(newCheckoutCmd(a))
	rootCmd.AddCommand(newDeleteCmd(a))
	rootCmd.AddCommand(newTagCmd(a))

	rootCmd.AddCommand(newCompareCmd(a))
	rootCmd.AddCommand(newStatusCmd(a))

	rootCmd.AddCommand(newConfigCmd(a))
	rootCmd.AddCommand(newVersionCmd())

	return rootCmd
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	// Load config
	loadedCfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
	}
	styles.Init(loadedCfg.Theme)

	// Get working directory
	workDir, err := os.Getwd()
	if err != nil {
		fmt.Fprintf(os.Stderr, "mrb: failed to get working directory: %v\n", err)
		os.Exit(1)
	}

	// Create context with signal handling
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	rootCmd := newRootCmd(newApp(&loadedCfg, workDir))
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		var reported *errReported
		if !errors.As(err, &reported) {
			fmt.Fprintln(os.Stderr, err)
			fmt.Fprintln(os.Stderr)
			fmt.Fprintln(os.Stderr, "Run 'mrb -h' for help")
		}
		cancel()
		os.Exit(1)
	}
}

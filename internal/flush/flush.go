package flush

import (
	"context"
	"fmt"
	"strings"

	"github.com/raphi011/mrb/internal/cmd"
)

// Context holds the values for placeholder substitution.
type Context struct {
	Project string   // project name, empty for ad-hoc roots
	Roots   []string // repository roots of the operation
	Dir     string   // working directory of the commands
}

// Commands runs configured shell commands that save pending edits,
// for example asking an editor to write all buffers.
type Commands struct {
	commands []string
	ctx      Context
}

// New creates a flusher for commands. Commands run with sh -c in c.Dir.
func New(commands []string, c Context) *Commands {
	return &Commands{commands: commands, ctx: c}
}

// FlushPendingEdits runs every command in order and stops at the first failure.
// Running it twice has the same effect as running it once.
func (c *Commands) FlushPendingEdits(ctx context.Context) error {
	for _, command := range c.commands {
		line := SubstitutePlaceholders(command, c.ctx)
		if err := cmd.RunContext(ctx, c.ctx.Dir, "sh", "-c", line); err != nil {
			return fmt.Errorf("flush command %q: %w", command, err)
		}
	}
	return nil
}

// Nop does nothing. Used when no flush commands are configured.
type Nop struct{}

func (Nop) FlushPendingEdits(context.Context) error { return nil }

// shellQuote escapes a string for safe use in shell commands.
// e.g., "it's" becomes 'it'\''s'
func shellQuote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "'\\''") + "'"
}

// SubstitutePlaceholders replaces {project}, {dir} and {roots} with
// shell-quoted values. {roots} expands to every root, space separated.
func SubstitutePlaceholders(command string, c Context) string {
	roots := make([]string, len(c.Roots))
	for i, r := range c.Roots {
		roots[i] = shellQuote(r)
	}

	return strings.NewReplacer(
		"{project}", shellQuote(c.Project),
		"{dir}", shellQuote(c.Dir),
		"{roots}", strings.Join(roots, " "),
	).Replace(command)
}

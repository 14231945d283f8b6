package present

import (
	"fmt"
	"strings"

	"github.com/atotto/clipboard"

	"github.com/raphi011/mrb/internal/branch"
	"github.com/raphi011/mrb/internal/git"
	"github.com/raphi011/mrb/internal/log"
	"github.com/raphi011/mrb/internal/output"
	"github.com/raphi011/mrb/internal/ui/styles"
)

// Terminal shows operation results on stdout.
type Terminal struct {
	out  *output.Printer
	log  *log.Logger
	copy func(string) error
}

var _ branch.Presenter = (*Terminal)(nil)

// Option configures a Terminal.
type Option func(*Terminal)

// WithClipboard copies the hashes of a comparison to the system clipboard.
func WithClipboard() Option {
	return func(t *Terminal) { t.copy = clipboard.WriteAll }
}

// New creates a presenter printing to out. Clipboard failures are
// reported on l as warnings.
func New(out *output.Printer, l *log.Logger, opts ...Option) *Terminal {
	t := &Terminal{out: out, log: l}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// ShowInfo prints a titled message.
func (t *Terminal) ShowInfo(message, title string) error {
	t.out.Println(styles.TitleStyle.Render(title))
	t.out.Println(message)
	return nil
}

// ShowComparison prints the commits on each side of the comparison.
// Commits only on the current branch come first.
func (t *Terminal) ShowComparison(repo *branch.Repository, ahead, behind []git.Commit, branchName string) error {
	current := repo.CurrentBranch()
	t.out.Println(styles.TitleStyle.Render(repo.Name+":"),
		styles.AccentStyle.Render(current), styles.SymbolAhead+styles.SymbolBehind, styles.AccentStyle.Render(branchName))

	t.section(fmt.Sprintf("%s Commits in %s but not in %s", styles.Ahead(len(ahead)), current, branchName), ahead)
	t.section(fmt.Sprintf("%s Commits in %s but not in %s", styles.Behind(len(behind)), branchName, current), behind)

	if t.copy != nil {
		if err := t.copy(hashList(ahead, behind)); err != nil {
			t.log.Warnf("failed to copy to clipboard: %v", err)
		}
	}
	return nil
}

func (t *Terminal) section(heading string, commits []git.Commit) {
	t.out.Println()
	t.out.Println(heading)
	if len(commits) == 0 {
		t.out.Println(styles.InfoStyle.Render("  (none)"))
		return
	}
	t.out.Print(RenderCommits(commits))
}

func hashList(groups ...[]git.Commit) string {
	var hashes []string
	for _, g := range groups {
		for _, c := range g {
			hashes = append(hashes, c.Hash)
		}
	}
	return strings.Join(hashes, "\n")
}

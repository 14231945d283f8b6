package present

import (
	"strings"

	"charm.land/lipgloss/v2"
	"charm.land/lipgloss/v2/table"

	"github.com/raphi011/mrb/internal/git"
	"github.com/raphi011/mrb/internal/ui/styles"
)

var commitHeaders = []string{"COMMIT", "DATE", "AUTHOR", "SUBJECT"}

// RenderTable creates a formatted table with proper column alignment.
// No borders are rendered; the header row is bold.
func RenderTable(headers []string, rows [][]string) string {
	if len(rows) == 0 {
		return ""
	}

	var output strings.Builder

	t := table.New().
		Headers(headers...).
		Rows(rows...).
		BorderTop(false).
		BorderBottom(false).
		BorderLeft(false).
		BorderRight(false).
		BorderHeader(false).
		BorderColumn(false).
		BorderRow(false).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return lipgloss.NewStyle().Bold(true).PaddingRight(2)
			case col == 0 || col == 1:
				return styles.MutedStyle.PaddingRight(2)
			default:
				return lipgloss.NewStyle().PaddingRight(2)
			}
		})

	output.WriteString(t.String())
	output.WriteString("\n")

	return output.String()
}

// CommitRow returns the table cells for c.
func CommitRow(c git.Commit) []string {
	hash := c.ShortHash
	if hash == "" && len(c.Hash) > 7 {
		hash = c.Hash[:7]
	} else if hash == "" {
		hash = c.Hash
	}
	date := ""
	if !c.Date.IsZero() {
		date = c.Date.Format("2006-01-02")
	}
	return []string{hash, date, c.Author, c.Subject}
}

// RenderCommits renders commits as a table, newest first as given.
func RenderCommits(commits []git.Commit) string {
	rows := make([][]string, len(commits))
	for i, c := range commits {
		rows[i] = CommitRow(c)
	}
	return RenderTable(commitHeaders, rows)
}

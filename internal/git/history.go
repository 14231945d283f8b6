package git

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Commit is one entry of a history query.
type Commit struct {
	Hash      string
	ShortHash string
	Author    string
	Email     string
	Date      time.Time
	Subject   string
}

// Fields are separated by the ASCII unit separator and records by the
// record separator so subjects containing "|" parse correctly.
const (
	fieldSep  = "\x1f"
	recordSep = "\x1e"
	logFormat = "--pretty=format:%H%x1f%h%x1f%an%x1f%ae%x1f%at%x1f%s%x1e"
)

// History returns the commits selected by rangeExpr (for example
// "main..", "..feature" or "v1..v2"), newest first, as git log orders them.
// limit > 0 caps the number of commits returned.
func History(ctx context.Context, root, rangeExpr string, limit int) ([]Commit, error) {
	args := []string{"log", logFormat}
	if limit > 0 {
		args = append(args, fmt.Sprintf("-%d", limit))
	}
	// "--" keeps git from reading a range that names a file as a path.
	args = append(args, rangeExpr, "--")

	output, err := outputGit(ctx, root, args...)
	if err != nil {
		return nil, fmt.Errorf("git log %s: %w", rangeExpr, err)
	}
	return parseCommits(string(output))
}

func parseCommits(output string) ([]Commit, error) {
	var commits []Commit
	for _, record := range strings.Split(output, recordSep) {
		record = strings.TrimSpace(record)
		if record == "" {
			continue
		}
		parts := strings.Split(record, fieldSep)
		if len(parts) != 6 {
			return nil, fmt.Errorf("unexpected git log record %q", record)
		}
		unix, err := strconv.ParseInt(parts[4], 10, 64)
		if err != nil {
			return nil, fmt.Errorf("failed to parse commit timestamp: %w", err)
		}
		commits = append(commits, Commit{
			Hash:      parts[0],
			ShortHash: parts[1],
			Author:    parts[2],
			Email:     parts[3],
			Date:      time.Unix(unix, 0),
			Subject:   parts[5],
		})
	}
	return commits, nil
}

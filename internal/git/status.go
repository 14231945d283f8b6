package git

import (
	"context"
	"fmt"
	"strings"
)

// unmergedCodes are the porcelain status codes of unresolved merge conflicts.
var unmergedCodes = map[string]bool{
	"DD": true, "AU": true, "UD": true, "UA": true,
	"DU": true, "AA": true, "UU": true,
}

// ListUnmergedFiles returns the paths with unresolved conflicts in the index.
func ListUnmergedFiles(ctx context.Context, path string) ([]string, error) {
	output, err := outputGit(ctx, path, "status", "--porcelain")
	if err != nil {
		return nil, fmt.Errorf("failed to read status: %v", err)
	}
	return parseUnmerged(string(output)), nil
}

func parseUnmerged(porcelain string) []string {
	var files []string
	for _, line := range strings.Split(porcelain, "\n") {
		if len(line) < 4 {
			continue
		}
		if unmergedCodes[line[:2]] {
			files = append(files, strings.TrimSpace(line[3:]))
		}
	}
	return files
}

//go:build integration

package main

import (
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
)

// resolvePath resolves symlinks in a path.
// This is needed on macOS where /var is a symlink to /private/var.
func resolvePath(t *testing.T, path string) string {
	t.Helper()
	resolved, err := filepath.EvalSymlinks(path)
	if err != nil {
		t.Fatalf("failed to resolve path %s: %v", path, err)
	}
	return resolved
}

// setupTestRepo creates a git repo on main with an initial commit in dir/name.
// Returns the absolute path to the created repo (with symlinks resolved).
func setupTestRepo(t *testing.T, dir, name string) string {
	t.Helper()

	repoPath := filepath.Join(resolvePath(t, dir), name)
	if err := os.MkdirAll(repoPath, 0755); err != nil {
		t.Fatalf("failed to create repo dir: %v", err)
	}

	runGitCommand(t, repoPath, "git", "init", "-b", "main")
	runGitCommand(t, repoPath, "git", "config", "user.email", "test@test.com")
	runGitCommand(t, repoPath, "git", "config", "user.name", "Test User")
	runGitCommand(t, repoPath, "git", "config", "commit.gpgsign", "false")
	runGitCommand(t, repoPath, "git", "config", "tag.gpgsign", "false")

	commitFile(t, repoPath, "README.md", "# "+name+"\n", "Initial commit")
	return repoPath
}

// setupProject creates repos named names under one temp directory.
func setupProject(t *testing.T, names ...string) (string, []string) {
	t.Helper()
	dir := resolvePath(t, t.TempDir())
	roots := make([]string, len(names))
	for i, n := range names {
		roots[i] = setupTestRepo(t, dir, n)
	}
	return dir, roots
}

// rootArgs returns --root flags for roots.
func rootArgs(roots []string) []string {
	var args []string
	for _, r := range roots {
		args = append(args, "-r", r)
	}
	return args
}

// commitFile writes name with content and commits it on the current branch.
func commitFile(t *testing.T, repoPath, name, content, message string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(repoPath, name), []byte(content), 0644); err != nil {
		t.Fatalf("failed to write %s: %v", name, err)
	}
	runGitCommand(t, repoPath, "git", "add", name)
	runGitCommand(t, repoPath, "git", "commit", "-m", message)
}

// currentBranch returns the branch checked out in repoPath.
func currentBranch(t *testing.T, repoPath string) string {
	t.Helper()
	return strings.TrimSpace(runGitCommand(t, repoPath, "git", "rev-parse", "--abbrev-ref", "HEAD"))
}

// refExists reports whether ref resolves in repoPath.
func refExists(repoPath, ref string) bool {
	cmd := exec.Command("git", "rev-parse", "--verify", "--quiet", ref)
	cmd.Dir = repoPath
	return cmd.Run() == nil
}

// runGitCommand runs a command in dir and returns its combined output.
func runGitCommand(t *testing.T, dir string, args ...string) string {
	t.Helper()
	cmd := exec.Command(args[0], args[1:]...)
	cmd.Dir = dir
	out, err := cmd.CombinedOutput()
	if err != nil {
		t.Fatalf("failed to run %v: %v\n%s", args, err, out)
	}
	return string(out)
}

//go:build integration

package main

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/raphi011/mrb/internal/branch"
	"github.com/raphi011/mrb/internal/config"
	"github.com/raphi011/mrb/internal/project"
)

// TestCheckout_AllRoots tests switching every root to an existing branch.
//
// Scenario: User runs `mrb -r api -r web checkout dev`
// Expected: both repositories are on dev
func TestCheckout_AllRoots(t *testing.T) {
	t.Parallel()

	dir, roots := setupProject(t, "api", "web")
	for _, r := range roots {
		runGitCommand(t, r, "git", "branch", "dev")
	}

	a, _, stderr := newTestApp(t, nil, dir)
	if err := run(t, a, append(rootArgs(roots), "checkout", "dev")...); err != nil {
		t.Fatalf("checkout failed: %v\n%s", err, stderr)
	}

	for _, r := range roots {
		if got := currentBranch(t, r); got != "dev" {
			t.Errorf("%s on %q, want dev", r, got)
		}
	}
	if !strings.Contains(stderr.String(), "Checked out dev") {
		t.Errorf("missing completion message:\n%s", stderr)
	}
}

// TestCheckout_Diverged tests that diverged roots are left untouched.
//
// Scenario: api is on main, web is on dev; user runs `mrb checkout release`
// Expected: command fails, no repository changes branch
func TestCheckout_Diverged(t *testing.T) {
	t.Parallel()

	dir, roots := setupProject(t, "api", "web")
	for _, r := range roots {
		runGitCommand(t, r, "git", "branch", "release")
	}
	runGitCommand(t, roots[1], "git", "checkout", "-b", "dev")

	a, _, stderr := newTestApp(t, nil, dir)
	err := run(t, a, append(rootArgs(roots), "checkout", "release")...)
	if !errors.Is(err, branch.ErrDiverged) {
		t.Fatalf("error = %v, want ErrDiverged", err)
	}
	if !strings.Contains(stderr.String(), "Checking out release failed") {
		t.Errorf("failure not reported:\n%s", stderr)
	}
	if currentBranch(t, roots[0]) != "main" || currentBranch(t, roots[1]) != "dev" {
		t.Error("diverged repositories must not be touched")
	}
}

// TestCheckoutNewBranch tests creating a branch everywhere.
//
// Scenario: User runs `mrb checkout -b topic` and `mrb checkout -b hotfix v1`
// Expected: the branch exists and is checked out in every root
func TestCheckoutNewBranch(t *testing.T) {
	t.Parallel()

	dir, roots := setupProject(t, "api", "web")
	a, _, stderr := newTestApp(t, nil, dir)

	if err := run(t, a, append(rootArgs(roots), "checkout", "-b", "topic")...); err != nil {
		t.Fatalf("checkout -b failed: %v\n%s", err, stderr)
	}
	for _, r := range roots {
		if got := currentBranch(t, r); got != "topic" {
			t.Errorf("%s on %q, want topic", r, got)
		}
		runGitCommand(t, r, "git", "tag", "v1", "main")
	}

	a, _, stderr = newTestApp(t, nil, dir)
	if err := run(t, a, append(rootArgs(roots), "checkout", "-b", "hotfix", "v1")...); err != nil {
		t.Fatalf("checkout -b from failed: %v\n%s", err, stderr)
	}
	for _, r := range roots {
		if got := currentBranch(t, r); got != "hotfix" {
			t.Errorf("%s on %q, want hotfix", r, got)
		}
	}
}

// TestCheckout_ConflictModes tests local changes blocking a checkout.
//
// Scenario: api has an uncommitted edit to a file that differs on dev
// Expected: stash mode moves both roots and keeps the edit; abort mode
// leaves api on main and still moves web
func TestCheckout_ConflictModes(t *testing.T) {
	t.Parallel()

	const base = "1\n2\n3\n4\n5\n6\n7\n8\n9\n10\n"
	tests := []struct {
		mode       string
		wantErr    bool
		wantAPI    string
		wantEdited bool
	}{
		{mode: config.ConflictStash, wantAPI: "dev", wantEdited: true},
		{mode: config.ConflictAbort, wantErr: true, wantAPI: "main", wantEdited: true},
	}

	for _, tt := range tests {
		t.Run(tt.mode, func(t *testing.T) {
			t.Parallel()

			dir, roots := setupProject(t, "api", "web")
			for _, r := range roots {
				commitFile(t, r, "list.txt", base, "Add list")
				runGitCommand(t, r, "git", "checkout", "-b", "dev")
				commitFile(t, r, "list.txt", strings.Replace(base, "1\n", "one\n", 1), "Rename first")
				runGitCommand(t, r, "git", "checkout", "main")
			}
			// Edit a distant line so the stash applies cleanly on dev.
			edited := strings.Replace(base, "10\n", "ten\n", 1)
			if err := os.WriteFile(filepath.Join(roots[0], "list.txt"), []byte(edited), 0644); err != nil {
				t.Fatal(err)
			}

			cfg := config.Default()
			cfg.Conflict.Mode = tt.mode
			a, _, stderr := newTestApp(t, &cfg, dir)
			err := run(t, a, append(rootArgs(roots), "checkout", "dev")...)
			if (err != nil) != tt.wantErr {
				t.Fatalf("error = %v, wantErr %v\n%s", err, tt.wantErr, stderr)
			}
			if tt.wantErr && !errors.Is(err, branch.ErrConflictUnresolved) {
				t.Errorf("error = %v, want ErrConflictUnresolved", err)
			}

			if got := currentBranch(t, roots[0]); got != tt.wantAPI {
				t.Errorf("api on %q, want %q", got, tt.wantAPI)
			}
			if got := currentBranch(t, roots[1]); got != "dev" {
				t.Errorf("web on %q, want dev", got)
			}
			data, err := os.ReadFile(filepath.Join(roots[0], "list.txt"))
			if err != nil {
				t.Fatal(err)
			}
			if strings.Contains(string(data), "ten\n") != tt.wantEdited {
				t.Errorf("local edit lost:\n%s", data)
			}
		})
	}
}

// TestDelete tests deleting a branch and refusing the current one.
//
// Scenario: User runs `mrb delete old` then `mrb delete main`
// Expected: old is gone everywhere; deleting main fails without changes
func TestDelete(t *testing.T) {
	t.Parallel()

	dir, roots := setupProject(t, "api", "web")
	for _, r := range roots {
		runGitCommand(t, r, "git", "branch", "old")
	}

	a, _, stderr := newTestApp(t, nil, dir)
	if err := run(t, a, append(rootArgs(roots), "delete", "old")...); err != nil {
		t.Fatalf("delete failed: %v\n%s", err, stderr)
	}
	for _, r := range roots {
		if refExists(r, "refs/heads/old") {
			t.Errorf("old still exists in %s", r)
		}
	}

	a, _, _ = newTestApp(t, nil, dir)
	err := run(t, a, append(rootArgs(roots), "delete", "main")...)
	if !errors.Is(err, branch.ErrDeleteCurrentBranch) {
		t.Errorf("error = %v, want ErrDeleteCurrentBranch", err)
	}
}

// TestTag tests tagging diverged roots.
//
// Scenario: roots are on different branches; user runs `mrb tag v1 -m "First"`
// Expected: the annotated tag exists in both roots
func TestTag(t *testing.T) {
	t.Parallel()

	dir, roots := setupProject(t, "api", "web")
	runGitCommand(t, roots[1], "git", "checkout", "-b", "dev")

	a, _, stderr := newTestApp(t, nil, dir)
	if err := run(t, a, append(rootArgs(roots), "tag", "v1", "-m", "First")...); err != nil {
		t.Fatalf("tag failed: %v\n%s", err, stderr)
	}
	for _, r := range roots {
		if got := strings.TrimSpace(runGitCommand(t, r, "git", "cat-file", "-t", "v1")); got != "tag" {
			t.Errorf("v1 in %s is a %q, want an annotated tag", r, got)
		}
	}
}

// TestCompare tests listing commits on both sides.
//
// Scenario: main has one commit dev lacks; dev has one commit main lacks
// Expected: both subjects are shown, main's first
func TestCompare(t *testing.T) {
	t.Parallel()

	dir, roots := setupProject(t, "api")
	repo := roots[0]
	runGitCommand(t, repo, "git", "branch", "dev")
	commitFile(t, repo, "a.txt", "a\n", "Only on main")
	runGitCommand(t, repo, "git", "checkout", "dev")
	commitFile(t, repo, "b.txt", "b\n", "Only on dev")
	runGitCommand(t, repo, "git", "checkout", "main")

	a, stdout, stderr := newTestApp(t, nil, dir)
	if err := run(t, a, "-r", repo, "compare", "dev"); err != nil {
		t.Fatalf("compare failed: %v\n%s", err, stderr)
	}

	out := stdout.String()
	mainAt, devAt := strings.Index(out, "Only on main"), strings.Index(out, "Only on dev")
	if mainAt < 0 || devAt < 0 {
		t.Fatalf("missing commits:\n%s", out)
	}
	if mainAt > devAt {
		t.Errorf("commits only on the current branch should come first:\n%s", out)
	}
}

// TestCompare_NoChanges tests comparing identical branches.
//
// Scenario: dev points at main; user runs `mrb compare dev` inside the repo
// Expected: the no-changes message is shown
func TestCompare_NoChanges(t *testing.T) {
	t.Parallel()

	_, roots := setupProject(t, "api")
	runGitCommand(t, roots[0], "git", "branch", "dev")

	a, stdout, stderr := newTestApp(t, nil, roots[0])
	if err := run(t, a, "compare", "dev"); err != nil {
		t.Fatalf("compare failed: %v\n%s", err, stderr)
	}
	if !strings.Contains(stdout.String(), "There are no changes between main and dev") {
		t.Errorf("output:\n%s", stdout)
	}
}

// TestCompare_MultipleRoots tests that compare needs one repository.
func TestCompare_MultipleRoots(t *testing.T) {
	t.Parallel()

	dir, roots := setupProject(t, "api", "web")
	a, stdout, _ := newTestApp(t, nil, dir)
	if err := run(t, a, append(rootArgs(roots), "compare", "main")...); err == nil {
		t.Error("compare across two roots should fail")
	}
	if stdout.Len() != 0 {
		t.Errorf("nothing should be shown:\n%s", stdout)
	}
}

// TestStatus tests the consistency summary.
//
// Scenario: roots on the same branch, then diverged
// Expected: summary line, then a failure listing both branches
func TestStatus(t *testing.T) {
	t.Parallel()

	dir, roots := setupProject(t, "api", "web")

	a, stdout, _ := newTestApp(t, nil, dir)
	if err := run(t, a, append(rootArgs(roots), "status")...); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(stdout.String(), "All 2 on main") {
		t.Errorf("output:\n%s", stdout)
	}

	runGitCommand(t, roots[1], "git", "checkout", "-b", "dev")
	a, stdout, _ = newTestApp(t, nil, dir)
	err := run(t, a, append(rootArgs(roots), "status")...)
	if !errors.Is(err, branch.ErrDiverged) {
		t.Errorf("error = %v, want ErrDiverged", err)
	}
	if !strings.Contains(stdout.String(), "dev") {
		t.Errorf("output should list dev:\n%s", stdout)
	}
}

// TestProjectFile tests targeting via .mrb.toml and running flush commands.
//
// Scenario: a project file lists api and web with a flush command
// Expected: checkout from a subdirectory moves both; flush ran before
func TestProjectFile(t *testing.T) {
	t.Parallel()

	dir, roots := setupProject(t, "api", "web")
	for _, r := range roots {
		runGitCommand(t, r, "git", "branch", "dev")
	}
	flushed := filepath.Join(dir, "flushed.txt")
	content := `roots = ["api", "web"]

[flush]
commands = ["echo {project} > ` + flushed + `"]
`
	if err := os.WriteFile(filepath.Join(dir, config.LocalConfigFileName), []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	a, _, stderr := newTestApp(t, nil, roots[0])
	if err := run(t, a, "checkout", "dev"); err != nil {
		t.Fatalf("checkout failed: %v\n%s", err, stderr)
	}
	for _, r := range roots {
		if got := currentBranch(t, r); got != "dev" {
			t.Errorf("%s on %q, want dev", r, got)
		}
	}
	data, err := os.ReadFile(flushed)
	if err != nil {
		t.Fatalf("flush command did not run: %v", err)
	}
	if got := strings.TrimSpace(string(data)); got != filepath.Base(dir) {
		t.Errorf("flushed project = %q, want %q", got, filepath.Base(dir))
	}
}

// TestUnknownProject tests the suggestion for a mistyped project.
func TestUnknownProject(t *testing.T) {
	t.Parallel()

	cfg := config.Default()
	cfg.Projects = map[string]config.Project{"backend": {Roots: []string{"/src/api"}}}
	a, _, _ := newTestApp(t, &cfg, t.TempDir())

	err := run(t, a, "-p", "bakend", "status")
	if !errors.Is(err, project.ErrUnknownProject) {
		t.Fatalf("error = %v, want ErrUnknownProject", err)
	}
	if !strings.Contains(err.Error(), "did you mean backend") {
		t.Errorf("error = %v", err)
	}
}

// TestConfigInit_Local tests creating a project file.
func TestConfigInit_Local(t *testing.T) {
	t.Parallel()

	dir := resolvePath(t, t.TempDir())
	a, _, _ := newTestApp(t, nil, dir)
	if err := run(t, a, "config", "init", "--local"); err != nil {
		t.Fatal(err)
	}
	if _, err := config.LoadLocal(dir); err != nil {
		t.Errorf("generated project file does not load: %v", err)
	}
	if err := run(t, a, "config", "init", "--local"); err == nil {
		t.Error("second init without --force should fail")
	}
}

package project

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/sahilm/fuzzy"

	"github.com/raphi011/mrb/internal/config"
	"github.com/raphi011/mrb/internal/git"
	"github.com/raphi011/mrb/internal/log"
)

// ErrUnknownProject is returned when --project names no configured project.
var ErrUnknownProject = errors.New("unknown project")

// Options selects the repositories of an operation. At most one of
// Project and Roots is set; with neither, Dir decides.
type Options struct {
	Project string   // configured project name
	Roots   []string // explicit repository roots
	Dir     string   // working directory
}

// Target is a resolved set of repository roots.
type Target struct {
	Name  string
	Roots []string
	// Local is the project file found above Dir, or nil.
	Local *config.LocalConfig
}

// Resolve picks the roots of an operation, in order of precedence:
// explicit roots, a named project, the project file above Dir, and
// finally the git repository containing Dir.
func Resolve(ctx context.Context, cfg *config.Config, opts Options) (*Target, error) {
	if opts.Project != "" && len(opts.Roots) > 0 {
		return nil, errors.New("--project and --root cannot be used together")
	}

	local, err := config.FindLocal(opts.Dir)
	if err != nil {
		return nil, err
	}
	merged := config.MergeLocal(cfg, local)

	l := log.FromContext(ctx)
	switch {
	case len(opts.Roots) > 0:
		roots := absRoots(opts.Dir, opts.Roots)
		l.Debug("using explicit roots", "count", len(roots))
		return &Target{Roots: roots, Local: local}, nil

	case opts.Project != "":
		p, ok := merged.Projects[opts.Project]
		if !ok {
			return nil, unknownProject(opts.Project, merged.ProjectNames())
		}
		l.Debug("using configured project", "name", opts.Project)
		return &Target{Name: opts.Project, Roots: p.Roots, Local: local}, nil

	case local != nil && len(local.Roots) > 0:
		l.Debug("using project file", "dir", local.Dir)
		return &Target{Name: local.Name, Roots: local.Roots, Local: local}, nil
	}

	top, err := git.TopLevel(ctx, opts.Dir)
	if err != nil {
		return nil, fmt.Errorf("%w (use --project or --root, or add a %s)", err, config.LocalConfigFileName)
	}
	return &Target{Name: filepath.Base(top), Roots: []string{top}, Local: local}, nil
}

func absRoots(dir string, roots []string) []string {
	out := make([]string, 0, len(roots))
	seen := make(map[string]bool, len(roots))
	for _, r := range roots {
		if !filepath.IsAbs(r) {
			r = filepath.Join(dir, r)
		}
		r = filepath.Clean(r)
		if seen[r] {
			continue
		}
		seen[r] = true
		out = append(out, r)
	}
	return out
}

// unknownProject builds the error for name, suggesting the closest
// configured names.
func unknownProject(name string, known []string) error {
	if len(known) == 0 {
		return fmt.Errorf("%w %q: no projects configured", ErrUnknownProject, name)
	}
	suggestions := Suggest(name, known)
	if len(suggestions) == 0 {
		return fmt.Errorf("%w %q (known: %s)", ErrUnknownProject, name, strings.Join(known, ", "))
	}
	return fmt.Errorf("%w %q, did you mean %s?", ErrUnknownProject, name, strings.Join(suggestions, " or "))
}

// Suggest returns up to three known names fuzzily matching name, best first.
func Suggest(name string, known []string) []string {
	matches := fuzzy.Find(name, known)
	var out []string
	for i, m := range matches {
		if i == 3 {
			break
		}
		out = append(out, m.Str)
	}
	return out
}

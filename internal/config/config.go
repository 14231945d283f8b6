package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"

	"github.com/BurntSushi/toml"
)

// EnvConfigPath overrides the location of the global config file.
const EnvConfigPath = "MRB_CONFIG"

// Project is a named set of repository roots that move in lock-step.
type Project struct {
	Roots []string `toml:"roots"`
}

// ConflictConfig controls how checkout obstructions are handled.
type ConflictConfig struct {
	Mode string `toml:"mode"` // "prompt", "stash", or "abort"
}

// FlushConfig lists shell commands that save pending editor state
// before every operation.
type FlushConfig struct {
	Commands []string `toml:"commands"`
}

// CompareConfig holds settings for "mrb compare".
type CompareConfig struct {
	Limit int `toml:"limit"` // max commits per side, 0 = unlimited
}

// ThemeConfig holds UI theme/color settings
type ThemeConfig struct {
	Name    string `toml:"name"`    // preset name: "default", "dracula", "nord", "gruvbox", "none"
	Mode    string `toml:"mode"`    // "auto", "light", or "dark"
	Primary string `toml:"primary"` // main accent color (overrides preset)
	Accent  string `toml:"accent"`  // highlight color (overrides preset)
	Success string `toml:"success"` // success indicators
	Error   string `toml:"error"`   // error messages
	Muted   string `toml:"muted"`   // disabled/inactive text
}

// Config holds the mrb configuration
type Config struct {
	Projects map[string]Project `toml:"projects"`
	Conflict ConflictConfig     `toml:"conflict"`
	Flush    FlushConfig        `toml:"flush"`
	Compare  CompareConfig      `toml:"compare"`
	Theme    ThemeConfig        `toml:"theme"`
}

// Conflict modes
const (
	ConflictPrompt = "prompt"
	ConflictStash  = "stash"
	ConflictAbort  = "abort"
)

// Default returns the default configuration
func Default() Config {
	return Config{
		Projects: map[string]Project{},
		Conflict: ConflictConfig{Mode: ConflictPrompt},
	}
}

// ProjectNames returns the configured project names in sorted order.
func (c *Config) ProjectNames() []string {
	names := make([]string, 0, len(c.Projects))
	for name := range c.Projects {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// ValidatePath checks that the path is absolute or starts with ~
// Returns error if path is relative (like "." or "..")
func ValidatePath(path, fieldName string) error {
	if path == "" {
		return nil
	}
	if path[0] == '~' {
		return nil
	}
	if !filepath.IsAbs(path) {
		return fmt.Errorf("%s must be absolute or start with ~, got: %q", fieldName, path)
	}
	return nil
}

// expandPath expands ~ to the user's home directory
func expandPath(path string) (string, error) {
	if path == "" {
		return "", nil
	}
	if len(path) >= 2 && path[:2] == "~/" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("expand ~: %w", err)
		}
		return filepath.Join(home, path[2:]), nil
	}
	if path == "~" {
		return os.UserHomeDir()
	}
	return path, nil
}

// Path returns the path to the global config file.
// MRB_CONFIG takes precedence over ~/.config/mrb/config.toml.
func Path() (string, error) {
	if p := os.Getenv(EnvConfigPath); p != "" {
		return p, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "mrb", "config.toml"), nil
}

// Load reads the global config file.
// Returns Default() if the file doesn't exist (no error).
func Load() (Config, error) {
	path, err := Path()
	if err != nil {
		return Default(), nil
	}
	return LoadFile(path)
}

// LoadFile reads and validates the config at path.
// Returns Default() if the file doesn't exist (no error).
func LoadFile(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Default(), nil
		}
		return Default(), fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := Default()
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return Default(), fmt.Errorf("failed to parse config file: %w", err)
	}
	if cfg.Projects == nil {
		cfg.Projects = map[string]Project{}
	}

	for name, p := range cfg.Projects {
		if len(p.Roots) == 0 {
			return Default(), fmt.Errorf("project %q has no roots", name)
		}
		expanded := make([]string, len(p.Roots))
		for i, root := range p.Roots {
			field := fmt.Sprintf("projects.%s.roots[%d]", name, i)
			if err := ValidatePath(root, field); err != nil {
				return Default(), err
			}
			if expanded[i], err = expandPath(root); err != nil {
				return Default(), fmt.Errorf("expand %s: %w", field, err)
			}
		}
		cfg.Projects[name] = Project{Roots: expanded}
	}

	if err := validateEnum(cfg.Conflict.Mode, "conflict.mode", ValidConflictModes); err != nil {
		return Default(), err
	}
	if cfg.Conflict.Mode == "" {
		cfg.Conflict.Mode = ConflictPrompt
	}

	if err := validateEnum(cfg.Theme.Name, "theme.name", ValidThemeNames); err != nil {
		return Default(), err
	}
	if err := validateEnum(cfg.Theme.Mode, "theme.mode", ValidThemeModes); err != nil {
		return Default(), err
	}

	if cfg.Compare.Limit < 0 {
		return Default(), fmt.Errorf("invalid compare.limit %d: must not be negative", cfg.Compare.Limit)
	}

	return cfg, nil
}

const defaultConfig = `# mrb configuration

# Projects - named sets of repositories that share branches.
# Every root must be absolute or start with ~
#
# [projects.backend]
# roots = ["~/code/api", "~/code/worker", "~/code/protos"]

# How to handle local changes that block a checkout:
#   prompt - show the files and ask whether to stash and retry (default)
#   stash  - stash without asking, retry, then restore the stash
#   abort  - leave the root on its current branch
[conflict]
mode = "prompt"

# Commands that flush unsaved editor state before each operation.
# They run in order; a failing command aborts the operation.
# [flush]
# commands = ["tmux send-keys -t editor ':wa' Enter"]

# [compare]
# limit = 100  # max commits listed per side (0 = unlimited)

# [theme]
# name = "default"  # default, dracula, nord, gruvbox, none
# mode = "auto"     # auto, light, dark
# primary = "#89b4fa"
`

// DefaultConfig returns the default global config file content.
func DefaultConfig() string {
	return defaultConfig
}

// Init creates a default config file at Path().
// If force is true, overwrites existing file
// Returns the path to the created file
func Init(force bool) (string, error) {
	path, err := Path()
	if err != nil {
		return "", err
	}

	if !force {
		if _, err := os.Stat(path); err == nil {
			return "", errors.New("config file already exists: " + path)
		}
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return "", err
	}
	if err := os.WriteFile(path, []byte(defaultConfig), 0644); err != nil {
		return "", err
	}
	return path, nil
}

package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// LocalConfigFileName is the project file that marks a directory as the
// parent of a multi-root project.
const LocalConfigFileName = ".mrb.toml"

// LocalConfig is a project file. Roots are relative to the directory
// holding the file. Conflict and flush settings override the global config.
type LocalConfig struct {
	Dir      string         `toml:"-"`
	Name     string         `toml:"name"`
	Roots    []string       `toml:"roots"`
	Conflict ConflictConfig `toml:"conflict"`
	Flush    FlushConfig    `toml:"flush"`
}

// LoadLocal reads the project file in dir.
// Returns nil (no error) if the file doesn't exist.
func LoadLocal(dir string) (*LocalConfig, error) {
	configFile := filepath.Join(dir, LocalConfigFileName)

	data, err := os.ReadFile(configFile)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read project file %s: %w", configFile, err)
	}

	var local LocalConfig
	if err := toml.Unmarshal(data, &local); err != nil {
		return nil, fmt.Errorf("failed to parse project file %s: %w", configFile, err)
	}
	local.Dir = dir

	if err := validateEnum(local.Conflict.Mode, "conflict.mode in "+configFile, ValidConflictModes); err != nil {
		return nil, err
	}

	for i, root := range local.Roots {
		if root == "" {
			return nil, fmt.Errorf("empty roots[%d] in %s", i, configFile)
		}
		if !filepath.IsAbs(root) {
			local.Roots[i] = filepath.Join(dir, root)
		}
	}

	if local.Name == "" {
		local.Name = filepath.Base(dir)
	}
	return &local, nil
}

// FindLocal walks up from start looking for a project file.
// Returns nil (no error) when none is found before the filesystem root.
func FindLocal(start string) (*LocalConfig, error) {
	dir, err := filepath.Abs(start)
	if err != nil {
		return nil, err
	}
	for {
		local, err := LoadLocal(dir)
		if err != nil || local != nil {
			return local, err
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return nil, nil
		}
		dir = parent
	}
}

const defaultLocalConfig = `# mrb project file
# Lists the repositories of this project, relative to this directory.
roots = [
  # "api",
  # "worker",
]

# Overrides of the global config for this project only
# [conflict]
# mode = "stash"
#
# [flush]
# commands = []
`

// DefaultLocalConfig returns the default project file template content.
func DefaultLocalConfig() string {
	return defaultLocalConfig
}

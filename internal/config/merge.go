package config

import "maps"

// MergeLocal merges a project file into a global config,
// returning a new Config without mutating the global.
// Returns global unchanged if local is nil.
func MergeLocal(global *Config, local *LocalConfig) *Config {
	if local == nil {
		return global
	}

	// Shallow copy; Projects and Compare are global-only.
	merged := *global
	merged.Projects = maps.Clone(global.Projects)

	if local.Conflict.Mode != "" {
		merged.Conflict.Mode = local.Conflict.Mode
	}

	// An explicit list (even empty) replaces the global commands.
	if local.Flush.Commands != nil {
		merged.Flush.Commands = append([]string(nil), local.Flush.Commands...)
	}

	if len(local.Roots) > 0 {
		if merged.Projects == nil {
			merged.Projects = map[string]Project{}
		}
		merged.Projects[local.Name] = Project{Roots: local.Roots}
	}

	return &merged
}

// Package config handles loading and validation of mrb configuration.
//
// The global configuration is read from ~/.config/mrb/config.toml, or from
// the file named by the MRB_CONFIG environment variable.
//
// # Projects
//
// A project is a named set of repository roots that are expected to be on
// the same branch at all times:
//
//	[projects.backend]
//	roots = ["~/code/api", "~/code/worker"]
//
// Roots must be absolute or start with ~.
//
// # Project Files
//
// A directory may contain a .mrb.toml project file listing roots relative
// to itself. [FindLocal] walks up from the working directory to find one,
// and [MergeLocal] layers its conflict and flush settings over the global
// config and registers it as a project under its name.
//
// # Conflict Handling
//
//	[conflict]
//	mode = "prompt"  # prompt, stash, or abort
//
// # Flush Commands
//
// Commands in [flush] run before every operation to save unsaved editor
// state. They run sequentially through "sh -c".
package config

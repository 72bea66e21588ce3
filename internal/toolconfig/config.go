// Package toolconfig loads the optional driver configuration file shared by
// the four cmd/* tools: default thread count, default progress-file path,
// and a default record directory. This is entirely an external-interface
// convenience; internal/record, internal/expand, internal/nulltest, and
// internal/drive never read this package.
package toolconfig

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/tailscale/hujson"
)

// Config holds the optional settings a cmd/* tool reads before applying its
// own flag overrides.
type Config struct {
	// Threads is the default worker count for generation/weed when no
	// threads positional argument is given. Zero means "no
	// configured default"; the tool falls back to its own built-in
	// default (runtime.NumCPU()).
	Threads uint64 `json:"threads,omitempty"`

	// ProgressFile is the default progress output path for -x/-i style
	// periodic or signal-triggered snapshots when no path is given as a
	// positional argument.
	ProgressFile string `json:"progress_file,omitempty"`

	// RecordDir, if set, is joined with any record path argument that is
	// not already absolute, so a project can keep its .dat files in a
	// fixed subdirectory without every invocation spelling it out.
	RecordDir string `json:"record_dir,omitempty"`

	// Sources tracks which files were actually loaded, for diagnostics.
	Sources Sources `json:"-"`
}

// Sources records which config files contributed to the merged Config.
type Sources struct {
	Global  string
	Project string
}

// ConfigFileName is the project-local config file name, looked for in the
// effective working directory.
const ConfigFileName = ".innullif.hujson"

// LoadInput holds the inputs to Load.
type LoadInput struct {
	// WorkDir is the effective working directory used to locate the
	// project config file. If empty, os.Getwd() is used.
	WorkDir string

	// Env is the environment, used to locate the global config file via
	// XDG_CONFIG_HOME or HOME. A nil map is treated as empty (no global
	// config path can be resolved).
	Env map[string]string
}

// Load merges, lowest precedence first: built-in zero value, the global
// user config, then the project config found in WorkDir. It never fails on
// a missing file; it fails only on a malformed one, since a present-but-
// broken config file is very likely a typo the user wants surfaced rather
// than silently ignored.
func Load(input LoadInput) (Config, error) {
	workDir := input.WorkDir
	if workDir == "" {
		var err error
		workDir, err = os.Getwd()
		if err != nil {
			return Config{}, fmt.Errorf("toolconfig: getwd: %w", err)
		}
	}

	var cfg Config

	globalPath := globalConfigPath(input.Env)
	if globalPath != "" {
		globalCfg, loaded, err := loadFile(globalPath)
		if err != nil {
			return Config{}, err
		}
		if loaded {
			cfg.Sources.Global = globalPath
			cfg = merge(cfg, globalCfg)
		}
	}

	projectPath := filepath.Join(workDir, ConfigFileName)
	projectCfg, loaded, err := loadFile(projectPath)
	if err != nil {
		return Config{}, err
	}
	if loaded {
		cfg.Sources.Project = projectPath
		cfg = merge(cfg, projectCfg)
	}

	return cfg, nil
}

// globalConfigPath mirrors the XDG lookup convention: $XDG_CONFIG_HOME/
// innullif/config.hujson if set, else ~/.config/innullif/config.hujson.
// Returns "" if neither can be resolved.
func globalConfigPath(env map[string]string) string {
	if xdg := env["XDG_CONFIG_HOME"]; xdg != "" {
		return filepath.Join(xdg, "innullif", "config.hujson")
	}
	if home := env["HOME"]; home != "" {
		return filepath.Join(home, ".config", "innullif", "config.hujson")
	}
	return ""
}

func loadFile(path string) (Config, bool, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Config{}, false, nil
		}
		return Config{}, false, fmt.Errorf("toolconfig: reading %s: %w", path, err)
	}

	standardized, err := hujson.Standardize(data)
	if err != nil {
		return Config{}, false, fmt.Errorf("toolconfig: %s: invalid HuJSON: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(standardized, &cfg); err != nil {
		return Config{}, false, fmt.Errorf("toolconfig: %s: invalid JSON: %w", path, err)
	}

	return cfg, true, nil
}

// merge overlays override's non-zero fields onto base.
func merge(base, override Config) Config {
	if override.Threads != 0 {
		base.Threads = override.Threads
	}
	if override.ProgressFile != "" {
		base.ProgressFile = override.ProgressFile
	}
	if override.RecordDir != "" {
		base.RecordDir = override.RecordDir
	}
	return base
}

// ResolvePath joins a record path argument with RecordDir, unless path is
// already absolute or RecordDir is unset.
func (c Config) ResolvePath(path string) string {
	if c.RecordDir == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(c.RecordDir, path)
}

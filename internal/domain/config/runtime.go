package config

import (
	"path/filepath"
	"sort"
	"time"
)

// Directory layout of an encapsulated workspace, relative to the root
const (
	DotNxDir        = ".nx"
	InstallationDir = ".nx/installation"
	CacheDir        = ".nx/cache"
	NxJSONFile      = "nx.json"
)

// RuntimeConfig represents the complete runtime configuration
// This is injected into use cases and contains all resolved settings
type RuntimeConfig struct {
	// Core settings
	WorkspaceRoot   string
	InstallationDir string
	CacheDir        string
	Version         string

	// Execution settings
	Verbose        bool
	NonInteractive bool
	SkipNxCache    bool
	Parallel       int
	TTY            bool
	Timeout        time.Duration
	LogLevel       string

	// Installation and migration switches (NX_WRAPPER_SKIP_INSTALL,
	// NX_MIGRATE_SKIP_INSTALL, NX_MIGRATE_USE_LOCAL)
	WrapperSkipInstall bool
	MigrateSkipInstall bool
	MigrateUseLocal    bool

	// Registry settings
	RegistryURL  string
	RegistryFile string

	// Env is the environment handed to tasks: process env, overlaid with
	// workspace .env files, overlaid with explicit overrides.
	Env map[string]string
}

// NewRuntimeConfig fills in the derived paths for a workspace root
func NewRuntimeConfig(root, version string) *RuntimeConfig {
	return &RuntimeConfig{
		WorkspaceRoot:   root,
		InstallationDir: filepath.Join(root, InstallationDir),
		CacheDir:        filepath.Join(root, CacheDir),
		Version:         version,
		Parallel:        3,
		Env:             map[string]string{},
	}
}

// NxJSONPath returns the absolute path of nx.json
func (c *RuntimeConfig) NxJSONPath() string {
	return filepath.Join(c.WorkspaceRoot, NxJSONFile)
}

// NodeModulesDir returns the installation's package directory
func (c *RuntimeConfig) NodeModulesDir() string {
	return filepath.Join(c.InstallationDir, "node_modules")
}

// Environ renders Env as a sorted KEY=VALUE slice for exec
func (c *RuntimeConfig) Environ() []string {
	keys := make([]string, 0, len(c.Env))
	for k := range c.Env {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	env := make([]string, 0, len(keys))
	for _, k := range keys {
		env = append(env, k+"="+c.Env[k])
	}
	return env
}

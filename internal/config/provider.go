package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	domainconfig "github.com/enio-ireland/nx/internal/domain/config"
)

// DefaultRegistryURL is the npm registry consulted when fetching migrations
const DefaultRegistryURL = "https://registry.npmjs.org"

// Overrides are environment variables supplied by the caller rather than the
// process. They win over os.Environ and are what tasks see.
type Overrides map[string]string

// Provider creates RuntimeConfig for Wire dependency injection
func Provider(v *viper.Viper, overrides Overrides) (*domainconfig.RuntimeConfig, error) {
	root := v.GetString("workspace_root")
	if root == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, err
		}
		root = cwd
	}
	root, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve workspace root: %w", err)
	}

	cfg := domainconfig.NewRuntimeConfig(root, Version)
	cfg.Verbose = v.GetBool("verbose")
	cfg.NonInteractive = v.GetBool("non_interactive")
	cfg.SkipNxCache = v.GetBool("skip_nx_cache")
	cfg.TTY = v.GetBool("tty")
	cfg.Timeout = v.GetDuration("timeout")
	cfg.LogLevel = v.GetString("log_level")
	cfg.WrapperSkipInstall = v.GetBool("wrapper_skip_install")
	cfg.MigrateSkipInstall = v.GetBool("migrate_skip_install")
	cfg.MigrateUseLocal = v.GetBool("migrate_use_local")
	cfg.RegistryURL = v.GetString("registry")
	cfg.RegistryFile = v.GetString("registry_file")
	if p := v.GetInt("parallel"); p > 0 {
		cfg.Parallel = p
	}
	if cfg.RegistryFile != "" && !filepath.IsAbs(cfg.RegistryFile) {
		cfg.RegistryFile = filepath.Join(root, cfg.RegistryFile)
	}

	env, err := LoadTaskEnv(root, overrides)
	if err != nil {
		return nil, err
	}
	cfg.Env = env

	return cfg, nil
}

// FindWorkspaceRoot walks up from dir to find nx.json
func FindWorkspaceRoot(dir string) (string, error) {
	dir, err := filepath.Abs(dir)
	if err != nil {
		return "", err
	}

	for {
		if _, err := os.Stat(filepath.Join(dir, domainconfig.NxJSONFile)); err == nil {
			return dir, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", fmt.Errorf("searched from %s upwards", dir)
		}
		dir = parent
	}
}

// SetupViper creates and configures a viper instance
func SetupViper(workspaceRoot string, cmd *cobra.Command, overrides Overrides) *viper.Viper {
	v := viper.New()

	// Set up environment variables
	v.SetEnvPrefix("NX")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))

	// Set defaults
	v.SetDefault("workspace_root", workspaceRoot)
	v.SetDefault("timeout", "0s")
	v.SetDefault("parallel", 3)
	v.SetDefault("registry", DefaultRegistryURL)
	v.SetDefault("log_level", "warn")

	cmd.Flags().VisitAll(func(f *pflag.Flag) {
		key := strings.ReplaceAll(f.Name, "-", "_")
		if err := v.BindPFlag(key, f); err != nil {
			panic(err)
		}
	})

	// Explicit overrides beat both the process environment and flag defaults
	for name, value := range overrides {
		if key, ok := strings.CutPrefix(name, "NX_"); ok {
			v.Set(strings.ToLower(key), value)
		}
	}

	return v
}

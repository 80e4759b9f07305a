package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
)

// dotEnvFiles are loaded in order; later files override earlier ones
var dotEnvFiles = []string{".env", ".local.env", ".env.local"}

// LoadTaskEnv builds the environment for tasks: the process environment,
// overlaid with the workspace .env files, overlaid with overrides.
func LoadTaskEnv(root string, overrides Overrides) (map[string]string, error) {
	env := map[string]string{}
	for _, kv := range os.Environ() {
		if k, v, ok := strings.Cut(kv, "="); ok {
			env[k] = v
		}
	}

	fromFiles := map[string]string{}
	for _, name := range dotEnvFiles {
		path := filepath.Join(root, name)
		if _, err := os.Stat(path); err != nil {
			continue
		}
		values, err := godotenv.Read(path)
		if err != nil {
			return nil, fmt.Errorf("failed to load %s: %w", name, err)
		}
		for k, v := range values {
			fromFiles[k] = v
		}
	}
	for k, v := range fromFiles {
		// variables already set in the environment win over dotenv files
		if _, set := env[k]; !set {
			env[k] = v
		}
	}

	for k, v := range overrides {
		env[k] = v
	}
	return env, nil
}

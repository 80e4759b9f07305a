package registry

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/enio-ireland/nx/internal/domain"
	"github.com/enio-ireland/nx/internal/domain/config"
)

const offlineYAML = `
dist-tags:
  my-plugin:
    next: 2.0.0-beta.1
packages:
  my-plugin:
    1.0.0:
      description: My plugin
      generators:
        app: Create an app
    1.1.0:
      description: My plugin
      generators:
        app: Create an app
      executors:
        serve: Serve an app
      migrations-file: ./migrations.json
      files:
        migrations.json: '{"generators": {"update-1-1": {"version": "1.1.0", "implementation": "./update"}}}'
      nx-migrations:
        generators:
          - name: update-1-1
            version: 1.1.0
            cli: nx
        packageJsonUpdates:
          "1.1.0":
            version: 1.1.0
            packages:
              typescript:
                version: 5.1.0
                alwaysAddToPackageJson: true
    2.0.0-beta.1:
      description: Beta
`

func newOfflineRegistry(t *testing.T) *OfflineRegistry {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "registry.yaml")
	require.NoError(t, os.WriteFile(path, []byte(offlineYAML), 0644))
	cfg := config.NewRuntimeConfig(dir, "16.5.0")
	cfg.RegistryFile = path
	r, err := NewOfflineRegistry(cfg)
	require.NoError(t, err)
	return r
}

func TestOfflineRegistry_Resolve(t *testing.T) {
	r := newOfflineRegistry(t)
	ctx := context.Background()

	pkg, err := r.Resolve(ctx, "my-plugin", "latest")
	require.NoError(t, err)
	assert.Equal(t, "1.1.0", pkg.Manifest.Version)

	pkg, err = r.Resolve(ctx, "my-plugin", "1.1.0")
	require.NoError(t, err)
	assert.Equal(t, "./migrations.json", pkg.Manifest.NxMigrations.Migrations)
	assert.Contains(t, pkg.Files, "migrations.json")
	assert.Contains(t, pkg.Files, "executors.json")

	_, err = r.Resolve(ctx, "my-plugin", "3.0.0")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestOfflineRegistry_Fetch(t *testing.T) {
	r := newOfflineRegistry(t)

	meta, err := r.Fetch(context.Background(), "my-plugin", "1.1.0")
	require.NoError(t, err)
	assert.Equal(t, "1.1.0", meta.Version)
	require.Len(t, meta.Generators, 1)
	assert.Equal(t, domain.MigrationEntry{Name: "update-1-1", Version: "1.1.0", CLI: "nx"}, meta.Generators[0])
	assert.True(t, meta.PackageJSONUpdates["1.1.0"].Packages["typescript"].AlwaysAddToPackageJSON)

	meta, err = r.Fetch(context.Background(), "my-plugin", "next")
	require.NoError(t, err)
	assert.Equal(t, "2.0.0-beta.1", meta.Version)
}

func TestOfflineRegistry_NotConfigured(t *testing.T) {
	r, err := NewOfflineRegistry(config.NewRuntimeConfig(t.TempDir(), "16.5.0"))
	require.NoError(t, err)
	assert.False(t, r.Configured())

	_, err = r.Fetch(context.Background(), "my-plugin", "latest")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

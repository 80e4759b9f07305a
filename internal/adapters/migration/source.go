package migration

import (
	"context"

	"github.com/enio-ireland/nx/internal/adapters/fs"
	"github.com/enio-ireland/nx/internal/domain/config"
	"github.com/enio-ireland/nx/internal/usecase"
)

// SourceAdapter reads migrations manifests of installed packages
type SourceAdapter struct {
	config *config.RuntimeConfig
}

// NewSourceAdapter creates a new SourceAdapter
func NewSourceAdapter(cfg *config.RuntimeConfig) *SourceAdapter {
	return &SourceAdapter{config: cfg}
}

// Load finds the package in the installation (or the root node_modules) and
// reads the manifest its "nx-migrations" field points to
func (s *SourceAdapter) Load(ctx context.Context, packageName string) (*usecase.LoadedMigrations, error) {
	dir, pkg, err := fs.FindPackage(s.config, packageName)
	if err != nil {
		return nil, err
	}
	manifest, manifestDir, err := fs.ReadMigrationsManifest(dir, pkg)
	if err != nil {
		return nil, err
	}
	return &usecase.LoadedMigrations{
		Package:     packageName,
		ManifestDir: manifestDir,
		Manifest:    manifest,
	}, nil
}

// Ensure SourceAdapter implements MigrationSource
var _ usecase.MigrationSource = (*SourceAdapter)(nil)

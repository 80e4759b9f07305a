package registry

import (
	"context"
	"log/slog"

	"github.com/enio-ireland/nx/internal/adapters/fs"
	"github.com/enio-ireland/nx/internal/domain"
	"github.com/enio-ireland/nx/internal/domain/config"
	"github.com/enio-ireland/nx/internal/usecase"
)

// LocalFetcher reads migration metadata from packages that are already
// installed, without touching the network
type LocalFetcher struct {
	config *config.RuntimeConfig
	log    *slog.Logger
}

// NewLocalFetcher creates a new LocalFetcher
func NewLocalFetcher(cfg *config.RuntimeConfig, log *slog.Logger) *LocalFetcher {
	return &LocalFetcher{config: cfg, log: log}
}

// Fetch ignores the requested version and reports the installed one
func (f *LocalFetcher) Fetch(ctx context.Context, name, version string) (*domain.MigrationMetadata, error) {
	dir, pkg, err := fs.FindPackage(f.config, name)
	if err != nil {
		return nil, err
	}
	if version != "latest" && version != pkg.Version {
		f.log.Debug("using installed version", "package", name, "requested", version, "installed", pkg.Version)
	}

	manifest, _, err := fs.ReadMigrationsManifest(dir, pkg)
	if err != nil {
		return nil, err
	}
	meta := &domain.MigrationMetadata{
		Version:            pkg.Version,
		Generators:         manifest.All(),
		PackageJSONUpdates: manifest.PackageJSONUpdates,
	}
	if pkg.NxMigrations != nil {
		meta.PackageGroup = pkg.NxMigrations.PackageGroup
	}
	return meta, nil
}

// Ensure LocalFetcher implements MigrationFetcher
var _ usecase.MigrationFetcher = (*LocalFetcher)(nil)

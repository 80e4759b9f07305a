package registry

import (
	"context"
	"log/slog"

	"github.com/enio-ireland/nx/internal/domain"
	"github.com/enio-ireland/nx/internal/domain/config"
	"github.com/enio-ireland/nx/internal/usecase"
)

// FetcherOverride carries a fetcher supplied by the caller of the CLI. When
// set it replaces every other way of resolving migrations.
type FetcherOverride struct {
	Fetcher usecase.MigrationFetcher
}

// FallbackFetcher tries the registry first and the offline document second
type FallbackFetcher struct {
	primary  usecase.MigrationFetcher
	fallback *OfflineRegistry
	log      *slog.Logger
}

// Fetch returns the primary result, or the offline one when the primary fails
func (f *FallbackFetcher) Fetch(ctx context.Context, name, version string) (*domain.MigrationMetadata, error) {
	meta, err := f.primary.Fetch(ctx, name, version)
	if err == nil || !f.fallback.Configured() {
		return meta, err
	}
	f.log.Debug("falling back to offline registry", "package", name, "error", err)
	offline, offlineErr := f.fallback.Fetch(ctx, name, version)
	if offlineErr != nil {
		return nil, err
	}
	return offline, nil
}

// NewMigrationFetcher selects how migrations are resolved: an injected
// fetcher, installed packages when NX_MIGRATE_USE_LOCAL is set, or the npm
// registry with the offline document as fallback
func NewMigrationFetcher(
	cfg *config.RuntimeConfig,
	override FetcherOverride,
	local *LocalFetcher,
	npm *NpmFetcher,
	offline *OfflineRegistry,
	log *slog.Logger,
) usecase.MigrationFetcher {
	switch {
	case override.Fetcher != nil:
		return override.Fetcher
	case cfg.MigrateUseLocal:
		return local
	}
	return &FallbackFetcher{primary: npm, fallback: offline, log: log}
}

// StaticFetcher serves fixed metadata, keyed by package name. Packages
// without an entry resolve to Default.
type StaticFetcher struct {
	Packages map[string]*domain.MigrationMetadata
	Default  *domain.MigrationMetadata
}

// Fetch returns the fixed metadata for name
func (f *StaticFetcher) Fetch(ctx context.Context, name, version string) (*domain.MigrationMetadata, error) {
	if meta, ok := f.Packages[name]; ok {
		return meta, nil
	}
	if f.Default != nil {
		return f.Default, nil
	}
	return nil, domain.ErrNotFound
}

// Ensure the fetchers implement MigrationFetcher
var (
	_ usecase.MigrationFetcher = (*FallbackFetcher)(nil)
	_ usecase.MigrationFetcher = (*StaticFetcher)(nil)
)

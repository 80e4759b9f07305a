package adapters

import (
	"github.com/google/wire"

	"github.com/enio-ireland/nx/internal/adapters/cache"
	"github.com/enio-ireland/nx/internal/adapters/fs"
	"github.com/enio-ireland/nx/internal/adapters/installer"
	"github.com/enio-ireland/nx/internal/adapters/interactive"
	"github.com/enio-ireland/nx/internal/adapters/migration"
	"github.com/enio-ireland/nx/internal/adapters/registry"
	"github.com/enio-ireland/nx/internal/adapters/runner"
	"github.com/enio-ireland/nx/internal/adapters/template"
	"github.com/enio-ireland/nx/internal/usecase"
)

// FSSet provides filesystem-based implementations
var FSSet = wire.NewSet(
	fs.NewWorkspaceStoreAdapter,
	wire.Bind(new(usecase.WorkspaceStore), new(*fs.WorkspaceStoreAdapter)),

	fs.NewProjectLoaderAdapter,
	wire.Bind(new(usecase.ProjectLoader), new(*fs.ProjectLoaderAdapter)),

	fs.NewTreeFactoryAdapter,
	wire.Bind(new(usecase.TreeFactory), new(*fs.TreeFactoryAdapter)),
)

// CacheSet provides the local computation cache
var CacheSet = wire.NewSet(
	cache.NewHasherAdapter,
	wire.Bind(new(usecase.TaskHasher), new(*cache.HasherAdapter)),

	cache.NewFileCacheAdapter,
	wire.Bind(new(usecase.TaskCache), new(*cache.FileCacheAdapter)),
)

// RunnerSet provides the command runner, pty-backed on terminals
var RunnerSet = wire.NewSet(
	runner.NewCommandRunner,
)

// RegistrySet provides the plugin catalog, package registries and the
// migration fetchers
var RegistrySet = wire.NewSet(
	registry.NewCatalog,
	wire.Bind(new(usecase.PluginCatalog), new(*registry.Catalog)),

	registry.NewOfflineRegistry,
	registry.NewPackageRegistry,
	wire.Bind(new(usecase.PackageRegistry), new(*registry.ChainRegistry)),

	registry.NewLocalFetcher,
	registry.NewNpmFetcher,
	registry.NewMigrationFetcher,
)

// InstallerSet provides the encapsulated installation manager
var InstallerSet = wire.NewSet(
	installer.NewInstallerAdapter,
	wire.Bind(new(usecase.Installer), new(*installer.InstallerAdapter)),
)

// MigrationSet provides migration loading and execution
var MigrationSet = wire.NewSet(
	migration.NewSourceAdapter,
	wire.Bind(new(usecase.MigrationSource), new(*migration.SourceAdapter)),

	migration.NewEngineAdapter,
	wire.Bind(new(usecase.MigrationEngine), new(*migration.EngineAdapter)),
)

// TemplateSet provides template-based generators
var TemplateSet = wire.NewSet(
	template.NewGeneratorAdapter,
	wire.Bind(new(usecase.GeneratorRunner), new(*template.GeneratorAdapter)),
)

// InteractiveSet provides interactive implementations
var InteractiveSet = wire.NewSet(
	interactive.NewPromptAdapter,
	wire.Bind(new(usecase.Prompter), new(*interactive.PromptAdapter)),
)

// AllAdapters includes all adapter sets
var AllAdapters = wire.NewSet(
	FSSet,
	CacheSet,
	RunnerSet,
	RegistrySet,
	InstallerSet,
	MigrationSet,
	TemplateSet,
	InteractiveSet,
)

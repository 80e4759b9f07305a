package usecase

import (
	"context"
	"io"

	"github.com/enio-ireland/nx/internal/domain"
)

// WorkspaceStore handles persistence of workspace-level documents
type WorkspaceStore interface {
	NxJSONExists() bool
	ReadNxJSON(ctx context.Context) (*domain.NxJSON, error)
	WriteNxJSON(ctx context.Context, doc *domain.NxJSON) error
	UpdateNxJSON(ctx context.Context, fn func(doc *domain.NxJSON) error) error
	// ReadRootPackageJSON returns domain.ErrNotFound when the workspace has no
	// root package.json (the encapsulated case).
	ReadRootPackageJSON(ctx context.Context) (*domain.PackageJSON, error)
	UpdateRootDependencies(ctx context.Context, versions map[string]string) error
	ReadJournal(ctx context.Context, path string) (*domain.MigrationsJournal, error)
	WriteJournal(ctx context.Context, path string, journal *domain.MigrationsJournal) error
}

// ProjectLoader discovers project descriptors in the workspace
type ProjectLoader interface {
	LoadProjects(ctx context.Context) ([]*domain.ProjectConfiguration, error)
}

// TaskHasher computes the cache key of a task
type TaskHasher interface {
	Hash(ctx context.Context, task *domain.Task) (string, error)
}

// TaskCache stores and replays successful task results
type TaskCache interface {
	// Get returns nil, nil on a cache miss
	Get(ctx context.Context, hash string) (*domain.CachedResult, error)
	Put(ctx context.Context, task *domain.Task, result *domain.TaskResult) error
	RestoreOutputs(ctx context.Context, task *domain.Task, cached *domain.CachedResult) error
	Clear(ctx context.Context) error
}

// CommandRequest is a shell command to run for a task
type CommandRequest struct {
	Command string
	Dir     string
	Env     []string
}

// CommandResult is the captured outcome of a shell command
type CommandResult struct {
	Output   string
	ExitCode int
}

// CommandRunner executes shell commands
type CommandRunner interface {
	Run(ctx context.Context, req CommandRequest) (*CommandResult, error)
}

// ResolvedPackage is a package ready to be written into the installation
type ResolvedPackage struct {
	Manifest domain.PackageJSON
	// Files are extra files relative to the package directory
	Files map[string][]byte
}

// PackageRegistry resolves packages for installation
type PackageRegistry interface {
	Resolve(ctx context.Context, name, version string) (*ResolvedPackage, error)
}

// Installer manages the encapsulated installation directory
type Installer interface {
	Installed(ctx context.Context) ([]domain.InstalledPackage, error)
	InstalledPackage(ctx context.Context, name string) (*domain.InstalledPackage, error)
	IsUpToDate(ctx context.Context, desired map[string]string) (bool, error)
	Install(ctx context.Context, desired map[string]string) ([]domain.InstalledPackage, error)
	Capabilities(ctx context.Context, pkg domain.InstalledPackage) (*domain.PluginCapabilities, error)
}

// PluginCatalog lists the plugins published alongside nx
type PluginCatalog interface {
	Plugins() []*domain.PluginCapabilities
	Plugin(name string) (*domain.PluginCapabilities, bool)
}

// MigrationFetcher resolves migration metadata for a package at a version
// (a version number or a dist tag such as "latest")
type MigrationFetcher interface {
	Fetch(ctx context.Context, packageName, version string) (*domain.MigrationMetadata, error)
}

// LoadedMigrations is a package's migrations manifest with its location
type LoadedMigrations struct {
	Package     string
	ManifestDir string
	Manifest    *domain.MigrationsManifest
}

// MigrationSource locates the migrations manifest of an installed package
type MigrationSource interface {
	Load(ctx context.Context, packageName string) (*LoadedMigrations, error)
}

// MigrationEngine executes one migration module against a tree
type MigrationEngine interface {
	Run(ctx context.Context, modulePath string, kind domain.MigrationKind, tree Tree, log io.Writer) error
}

// Tree stages file mutations against the workspace
type Tree interface {
	Root() string
	Read(path string) ([]byte, error)
	Exists(path string) bool
	Write(path string, content []byte) error
	Create(path string, content []byte) error
	Overwrite(path string, content []byte) error
	Delete(path string) error
	Rename(from, to string) error
	Changes() []domain.FileChange
}

// TreeFactory creates trees and flushes their changes to disk
type TreeFactory interface {
	NewTree() Tree
	Flush(ctx context.Context, tree Tree) error
}

// GeneratorOptions are the inputs of a generator run
type GeneratorOptions struct {
	Name      string
	Directory string
	Extra     map[string]string
}

// GeneratorRunner applies a plugin generator to a tree
type GeneratorRunner interface {
	Generate(ctx context.Context, plugin, generator string, tree Tree, opts GeneratorOptions) error
}

// Prompter asks the user for input when the session is interactive
type Prompter interface {
	Prompt(ctx context.Context, label string, validate func(string) error) (string, error)
	Select(ctx context.Context, label string, items []string) (int, error)
}

// Progress tracking interfaces

// Stages reported through ProgressSink
const (
	StageInstalling = "installing"
	StageMigrating  = "migrating"
	StageComplete   = "complete"
)

// ProgressEvent represents a progress update
type ProgressEvent struct {
	Stage   string
	Current int
	Total   int
	Message string
	Spinner bool
}

// ProgressSink receives progress events
type ProgressSink interface {
	OnProgress(ctx context.Context, event ProgressEvent)
	Info(message string)
	Error(message string)
}

// NopProgress is a no-op implementation of ProgressSink
type NopProgress struct{}

func (NopProgress) OnProgress(context.Context, ProgressEvent) {}
func (NopProgress) Info(string)                               {}
func (NopProgress) Error(string)                              {}

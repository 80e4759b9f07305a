package usecase_test

import (
	"context"
	"io"
	"log/slog"
	"sort"

	"github.com/stretchr/testify/mock"

	"github.com/enio-ireland/nx/internal/domain"
	"github.com/enio-ireland/nx/internal/domain/config"
	"github.com/enio-ireland/nx/internal/usecase"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testConfig() *config.RuntimeConfig {
	cfg := config.NewRuntimeConfig("/workspace", "16.5.0")
	cfg.NonInteractive = true
	return cfg
}

// MockWorkspaceStore is a mock implementation of WorkspaceStore
type MockWorkspaceStore struct {
	mock.Mock
	// NxJSON backs ReadNxJSON/UpdateNxJSON when set
	NxJSON *domain.NxJSON
}

func (m *MockWorkspaceStore) NxJSONExists() bool {
	if m.NxJSON != nil {
		return true
	}
	args := m.Called()
	return args.Bool(0)
}

func (m *MockWorkspaceStore) ReadNxJSON(ctx context.Context) (*domain.NxJSON, error) {
	if m.NxJSON != nil {
		return m.NxJSON, nil
	}
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.NxJSON), args.Error(1)
}

func (m *MockWorkspaceStore) WriteNxJSON(ctx context.Context, doc *domain.NxJSON) error {
	args := m.Called(ctx, doc)
	return args.Error(0)
}

func (m *MockWorkspaceStore) UpdateNxJSON(ctx context.Context, fn func(doc *domain.NxJSON) error) error {
	if m.NxJSON != nil {
		return fn(m.NxJSON)
	}
	args := m.Called(ctx, fn)
	return args.Error(0)
}

func (m *MockWorkspaceStore) ReadRootPackageJSON(ctx context.Context) (*domain.PackageJSON, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PackageJSON), args.Error(1)
}

func (m *MockWorkspaceStore) UpdateRootDependencies(ctx context.Context, versions map[string]string) error {
	args := m.Called(ctx, versions)
	return args.Error(0)
}

func (m *MockWorkspaceStore) ReadJournal(ctx context.Context, path string) (*domain.MigrationsJournal, error) {
	args := m.Called(ctx, path)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.MigrationsJournal), args.Error(1)
}

func (m *MockWorkspaceStore) WriteJournal(ctx context.Context, path string, journal *domain.MigrationsJournal) error {
	args := m.Called(ctx, path, journal)
	return args.Error(0)
}

// MockProjectLoader is a mock implementation of ProjectLoader
type MockProjectLoader struct {
	mock.Mock
}

func (m *MockProjectLoader) LoadProjects(ctx context.Context) ([]*domain.ProjectConfiguration, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.ProjectConfiguration), args.Error(1)
}

// MockTaskHasher is a mock implementation of TaskHasher
type MockTaskHasher struct {
	mock.Mock
}

func (m *MockTaskHasher) Hash(ctx context.Context, task *domain.Task) (string, error) {
	args := m.Called(ctx, task)
	return args.String(0), args.Error(1)
}

// MockTaskCache is a mock implementation of TaskCache
type MockTaskCache struct {
	mock.Mock
}

func (m *MockTaskCache) Get(ctx context.Context, hash string) (*domain.CachedResult, error) {
	args := m.Called(ctx, hash)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CachedResult), args.Error(1)
}

func (m *MockTaskCache) Put(ctx context.Context, task *domain.Task, result *domain.TaskResult) error {
	args := m.Called(ctx, task, result)
	return args.Error(0)
}

func (m *MockTaskCache) RestoreOutputs(ctx context.Context, task *domain.Task, cached *domain.CachedResult) error {
	args := m.Called(ctx, task, cached)
	return args.Error(0)
}

func (m *MockTaskCache) Clear(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

// MockCommandRunner is a mock implementation of CommandRunner
type MockCommandRunner struct {
	mock.Mock
}

func (m *MockCommandRunner) Run(ctx context.Context, req usecase.CommandRequest) (*usecase.CommandResult, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*usecase.CommandResult), args.Error(1)
}

// MockInstaller is a mock implementation of Installer
type MockInstaller struct {
	mock.Mock
}

func (m *MockInstaller) Installed(ctx context.Context) ([]domain.InstalledPackage, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.InstalledPackage), args.Error(1)
}

func (m *MockInstaller) InstalledPackage(ctx context.Context, name string) (*domain.InstalledPackage, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.InstalledPackage), args.Error(1)
}

func (m *MockInstaller) IsUpToDate(ctx context.Context, desired map[string]string) (bool, error) {
	args := m.Called(ctx, desired)
	return args.Bool(0), args.Error(1)
}

func (m *MockInstaller) Install(ctx context.Context, desired map[string]string) ([]domain.InstalledPackage, error) {
	args := m.Called(ctx, desired)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.InstalledPackage), args.Error(1)
}

func (m *MockInstaller) Capabilities(ctx context.Context, pkg domain.InstalledPackage) (*domain.PluginCapabilities, error) {
	args := m.Called(ctx, pkg)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PluginCapabilities), args.Error(1)
}

// MockMigrationFetcher is a mock implementation of MigrationFetcher
type MockMigrationFetcher struct {
	mock.Mock
}

func (m *MockMigrationFetcher) Fetch(ctx context.Context, packageName, version string) (*domain.MigrationMetadata, error) {
	args := m.Called(ctx, packageName, version)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.MigrationMetadata), args.Error(1)
}

// MockMigrationSource is a mock implementation of MigrationSource
type MockMigrationSource struct {
	mock.Mock
}

func (m *MockMigrationSource) Load(ctx context.Context, packageName string) (*usecase.LoadedMigrations, error) {
	args := m.Called(ctx, packageName)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*usecase.LoadedMigrations), args.Error(1)
}

// MockMigrationEngine is a mock implementation of MigrationEngine
type MockMigrationEngine struct {
	mock.Mock
}

func (m *MockMigrationEngine) Run(ctx context.Context, modulePath string, kind domain.MigrationKind, tree usecase.Tree, log io.Writer) error {
	args := m.Called(ctx, modulePath, kind, tree, log)
	return args.Error(0)
}

// MockGeneratorRunner is a mock implementation of GeneratorRunner
type MockGeneratorRunner struct {
	mock.Mock
}

func (m *MockGeneratorRunner) Generate(ctx context.Context, plugin, generator string, tree usecase.Tree, opts usecase.GeneratorOptions) error {
	args := m.Called(ctx, plugin, generator, tree, opts)
	return args.Error(0)
}

// MockPrompter is a mock implementation of Prompter
type MockPrompter struct {
	mock.Mock
}

func (m *MockPrompter) Prompt(ctx context.Context, label string, validate func(string) error) (string, error) {
	args := m.Called(ctx, label, validate)
	return args.String(0), args.Error(1)
}

func (m *MockPrompter) Select(ctx context.Context, label string, items []string) (int, error) {
	args := m.Called(ctx, label, items)
	return args.Int(0), args.Error(1)
}

// fakeTree records writes in memory
type fakeTree struct {
	files   map[string][]byte
	changes []domain.FileChange
}

func newFakeTree() *fakeTree {
	return &fakeTree{files: map[string][]byte{}}
}

func (t *fakeTree) Root() string { return "/workspace" }

func (t *fakeTree) Read(path string) ([]byte, error) {
	if b, ok := t.files[path]; ok {
		return b, nil
	}
	return nil, domain.ErrNotFound
}

func (t *fakeTree) Exists(path string) bool {
	_, ok := t.files[path]
	return ok
}

func (t *fakeTree) Write(path string, content []byte) error {
	change := domain.FileCreate
	if t.Exists(path) {
		change = domain.FileUpdate
	}
	t.files[path] = content
	t.changes = append(t.changes, domain.FileChange{Path: path, Type: change, Content: content})
	return nil
}

func (t *fakeTree) Create(path string, content []byte) error {
	if t.Exists(path) {
		return domain.ErrFileExists
	}
	return t.Write(path, content)
}

func (t *fakeTree) Overwrite(path string, content []byte) error {
	if !t.Exists(path) {
		return domain.ErrNotFound
	}
	return t.Write(path, content)
}

func (t *fakeTree) Delete(path string) error {
	delete(t.files, path)
	t.changes = append(t.changes, domain.FileChange{Path: path, Type: domain.FileDelete})
	return nil
}

func (t *fakeTree) Rename(from, to string) error {
	b, err := t.Read(from)
	if err != nil {
		return err
	}
	_ = t.Delete(from)
	return t.Write(to, b)
}

func (t *fakeTree) Changes() []domain.FileChange { return t.changes }

// fakeTreeFactory hands out fakeTrees and records flushes
type fakeTreeFactory struct {
	trees   []*fakeTree
	flushed int
}

func (f *fakeTreeFactory) NewTree() usecase.Tree {
	t := newFakeTree()
	f.trees = append(f.trees, t)
	return t
}

func (f *fakeTreeFactory) Flush(ctx context.Context, tree usecase.Tree) error {
	f.flushed++
	return nil
}

// fakeCatalog is a fixed in-memory plugin catalog
type fakeCatalog map[string]*domain.PluginCapabilities

func (c fakeCatalog) Plugins() []*domain.PluginCapabilities {
	var out []*domain.PluginCapabilities
	for _, p := range c {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

func (c fakeCatalog) Plugin(name string) (*domain.PluginCapabilities, bool) {
	p, ok := c[name]
	return p, ok
}

// recordingSink collects progress events
type recordingSink struct {
	events []usecase.ProgressEvent
}

func (s *recordingSink) OnProgress(ctx context.Context, event usecase.ProgressEvent) {
	s.events = append(s.events, event)
}
func (s *recordingSink) Info(string)  {}
func (s *recordingSink) Error(string) {}

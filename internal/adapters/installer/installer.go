package installer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"maps"
	"os"
	"path/filepath"
	"sort"

	"github.com/enio-ireland/nx/internal/adapters/fs"
	"github.com/enio-ireland/nx/internal/domain"
	"github.com/enio-ireland/nx/internal/domain/config"
	"github.com/enio-ireland/nx/internal/usecase"
)

// InstallerAdapter manages .nx/installation: a package.json listing nx and
// its plugins, a lockfile and the packages under node_modules
type InstallerAdapter struct {
	config   *config.RuntimeConfig
	registry usecase.PackageRegistry
	log      *slog.Logger
}

// NewInstallerAdapter creates a new InstallerAdapter
func NewInstallerAdapter(cfg *config.RuntimeConfig, registry usecase.PackageRegistry, log *slog.Logger) *InstallerAdapter {
	return &InstallerAdapter{
		config:   cfg,
		registry: registry,
		log:      log,
	}
}

func (i *InstallerAdapter) manifestPath() string {
	return filepath.Join(i.config.InstallationDir, "package.json")
}

func (i *InstallerAdapter) packageDir(name string) string {
	return filepath.Join(i.config.NodeModulesDir(), filepath.FromSlash(name))
}

func (i *InstallerAdapter) readManifest() (*installationManifest, error) {
	data, err := os.ReadFile(i.manifestPath())
	if err != nil {
		return nil, err
	}
	var m installationManifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", i.manifestPath(), err)
	}
	return &m, nil
}

// Installed lists the packages the installation declares and actually holds,
// sorted by name
func (i *InstallerAdapter) Installed(ctx context.Context) ([]domain.InstalledPackage, error) {
	m, err := i.readManifest()
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var out []domain.InstalledPackage
	for name := range m.Dependencies {
		pkg, err := i.InstalledPackage(ctx, name)
		if errors.Is(err, domain.ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		out = append(out, *pkg)
	}
	sort.Slice(out, func(a, b int) bool { return out[a].Name < out[b].Name })
	return out, nil
}

// InstalledPackage finds a package in the installation or, for workspaces
// that are not encapsulated, in the root node_modules
func (i *InstallerAdapter) InstalledPackage(ctx context.Context, name string) (*domain.InstalledPackage, error) {
	dir, pkg, err := fs.FindPackage(i.config, name)
	if err != nil {
		return nil, err
	}
	return &domain.InstalledPackage{Name: name, Version: pkg.Version, Dir: dir}, nil
}

// IsUpToDate reports whether package.json already lists exactly the desired
// packages and each of them is present at that version
func (i *InstallerAdapter) IsUpToDate(ctx context.Context, desired map[string]string) (bool, error) {
	m, err := i.readManifest()
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if !maps.Equal(m.Dependencies, desired) {
		return false, nil
	}
	for name, version := range desired {
		if !i.present(name, version) {
			return false, nil
		}
	}
	if _, err := os.Stat(filepath.Join(i.config.InstallationDir, "package-lock.json")); err != nil {
		return false, nil
	}
	return true, nil
}

func (i *InstallerAdapter) present(name, version string) bool {
	pkg, err := fs.ReadPackageJSON(i.packageDir(name))
	return err == nil && pkg.Version == version
}

// Install brings the installation in line with desired. Packages already
// present at the right version are kept; others are resolved from the
// registry and written. Packages no longer desired are left in place.
func (i *InstallerAdapter) Install(ctx context.Context, desired map[string]string) ([]domain.InstalledPackage, error) {
	if err := os.MkdirAll(i.config.NodeModulesDir(), 0755); err != nil {
		return nil, fmt.Errorf("failed to create installation directory: %w", err)
	}

	names := make([]string, 0, len(desired))
	for name := range desired {
		names = append(names, name)
	}
	sort.Strings(names)

	locked := make(map[string]lockPackage, len(names))
	installed := make([]domain.InstalledPackage, 0, len(names))
	for _, name := range names {
		version := desired[name]
		dir := i.packageDir(name)

		if !i.present(name, version) {
			i.log.Debug("installing package", "name", name, "version", version)
			resolved, err := i.registry.Resolve(ctx, name, version)
			if err != nil {
				return nil, err
			}
			if err := writePackage(dir, resolved); err != nil {
				return nil, fmt.Errorf("failed to write %s: %w", name, err)
			}
		}

		manifest, err := os.ReadFile(filepath.Join(dir, "package.json"))
		if err != nil {
			return nil, err
		}
		pkg, err := fs.ReadPackageJSON(dir)
		if err != nil {
			return nil, err
		}
		locked[name] = lockPackage{
			Version:      pkg.Version,
			Integrity:    integrity(manifest),
			Dependencies: pkg.Dependencies,
		}
		installed = append(installed, domain.InstalledPackage{Name: name, Version: pkg.Version, Dir: dir})
	}

	if err := fs.WriteJSON(i.manifestPath(), &installationManifest{
		Name:         installationName,
		Private:      true,
		Dependencies: desired,
	}); err != nil {
		return nil, err
	}
	lockPath := filepath.Join(i.config.InstallationDir, "package-lock.json")
	if err := fs.WriteJSON(lockPath, newLockfile(desired, locked)); err != nil {
		return nil, err
	}
	return installed, nil
}

// Capabilities reads the generators and executors a package declares
func (i *InstallerAdapter) Capabilities(ctx context.Context, pkg domain.InstalledPackage) (*domain.PluginCapabilities, error) {
	manifest, err := fs.ReadPackageJSON(pkg.Dir)
	if err != nil {
		return nil, err
	}
	caps := &domain.PluginCapabilities{
		Name:        pkg.Name,
		Version:     manifest.Version,
		Description: manifest.Description,
	}
	if manifest.Generators != "" {
		if caps.Generators, err = readCapabilities(pkg.Dir, manifest.Generators, true); err != nil {
			return nil, err
		}
	}
	if manifest.Executors != "" {
		if caps.Executors, err = readCapabilities(pkg.Dir, manifest.Executors, false); err != nil {
			return nil, err
		}
	}
	return caps, nil
}

func readCapabilities(dir, ref string, generators bool) ([]domain.Capability, error) {
	data, err := os.ReadFile(filepath.Join(dir, filepath.FromSlash(ref)))
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", ref, err)
	}
	var doc domain.CapabilitiesManifest
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", ref, err)
	}
	src := doc.Executors
	if generators {
		src = doc.Generators
	}
	out := make([]domain.Capability, 0, len(src))
	for name, c := range src {
		c.Name = name
		out = append(out, c)
	}
	sort.Slice(out, func(a, b int) bool { return out[a].Name < out[b].Name })
	return out, nil
}

func writePackage(dir string, pkg *usecase.ResolvedPackage) error {
	for rel := range pkg.Files {
		if !filepath.IsLocal(filepath.FromSlash(rel)) {
			return fmt.Errorf("package %s: file %q is outside the package directory", pkg.Manifest.Name, rel)
		}
	}
	if err := os.RemoveAll(dir); err != nil {
		return err
	}
	if err := fs.WriteJSON(filepath.Join(dir, "package.json"), pkg.Manifest); err != nil {
		return err
	}
	for rel, content := range pkg.Files {
		path := filepath.Join(dir, filepath.FromSlash(rel))
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return err
		}
		if err := os.WriteFile(path, content, 0644); err != nil {
			return err
		}
	}
	return nil
}

// Ensure InstallerAdapter implements Installer
var _ usecase.Installer = (*InstallerAdapter)(nil)

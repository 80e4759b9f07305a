package registry

import (
	"context"
	"fmt"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/enio-ireland/nx/internal/domain"
	"github.com/enio-ireland/nx/internal/domain/config"
	"github.com/enio-ireland/nx/internal/usecase"
)

// offlineDocument is the registry_file format. It lets workspaces without
// network access install community plugins and resolve migrations:
//
//	dist-tags:
//	  my-plugin: {latest: 1.1.0}
//	packages:
//	  my-plugin:
//	    1.1.0:
//	      description: My plugin
//	      generators: {app: Create an app}
//	      nx-migrations:
//	        generators:
//	          - {name: update-1-1, version: 1.1.0}
//	      files:
//	        migrations.json: '{"generators": {...}}'
type offlineDocument struct {
	DistTags map[string]map[string]string                `yaml:"dist-tags"`
	Packages map[string]map[string]offlinePackageVersion `yaml:"packages"`
}

type offlinePackageVersion struct {
	Description  string             `yaml:"description"`
	Dependencies map[string]string  `yaml:"dependencies"`
	Generators   map[string]string  `yaml:"generators"`
	Executors    map[string]string  `yaml:"executors"`
	Migrations   *offlineMigrations `yaml:"nx-migrations"`
	// MigrationsFile is the manifest path written into package.json
	MigrationsFile string            `yaml:"migrations-file"`
	Files          map[string]string `yaml:"files"`
}

type offlineMigrations struct {
	Generators         []offlineMigration             `yaml:"generators"`
	PackageJSONUpdates map[string]offlinePackageGroup `yaml:"packageJsonUpdates"`
	PackageGroup       []string                       `yaml:"packageGroup"`
}

type offlineMigration struct {
	Name        string `yaml:"name"`
	Version     string `yaml:"version"`
	Description string `yaml:"description"`
	CLI         string `yaml:"cli"`
}

type offlinePackageGroup struct {
	Version  string                          `yaml:"version"`
	Packages map[string]offlinePackageUpdate `yaml:"packages"`
}

type offlinePackageUpdate struct {
	Version                string `yaml:"version"`
	AlwaysAddToPackageJSON bool   `yaml:"alwaysAddToPackageJson"`
	IfPackageInstalled     string `yaml:"ifPackageInstalled"`
}

// OfflineRegistry serves packages and migration metadata from a YAML document
type OfflineRegistry struct {
	path string
	doc  *offlineDocument
}

// NewOfflineRegistry loads the registry_file document, if one is configured
func NewOfflineRegistry(cfg *config.RuntimeConfig) (*OfflineRegistry, error) {
	r := &OfflineRegistry{path: cfg.RegistryFile, doc: &offlineDocument{}}
	if cfg.RegistryFile == "" {
		return r, nil
	}
	data, err := os.ReadFile(cfg.RegistryFile)
	if err != nil {
		return nil, fmt.Errorf("failed to read registry file: %w", err)
	}
	if err := yaml.Unmarshal(data, r.doc); err != nil {
		return nil, fmt.Errorf("failed to parse registry file %s: %w", cfg.RegistryFile, err)
	}
	return r, nil
}

// Configured reports whether a registry document was loaded
func (r *OfflineRegistry) Configured() bool {
	return r.path != ""
}

// lookup resolves dist tags and returns the package version entry
func (r *OfflineRegistry) lookup(name, version string) (string, *offlinePackageVersion, error) {
	versions, ok := r.doc.Packages[name]
	if !ok {
		return "", nil, fmt.Errorf("%w: %s is not in the offline registry", domain.ErrNotFound, name)
	}
	if tagged, ok := r.doc.DistTags[name][version]; ok {
		version = tagged
	} else if version == "latest" {
		version = latestVersion(versions)
	}
	pkg, ok := versions[version]
	if !ok {
		return "", nil, fmt.Errorf("%w: %s@%s is not in the offline registry", domain.ErrNotFound, name, version)
	}
	return version, &pkg, nil
}

// Resolve returns an installable package
func (r *OfflineRegistry) Resolve(ctx context.Context, name, version string) (*usecase.ResolvedPackage, error) {
	resolved, pkg, err := r.lookup(name, version)
	if err != nil {
		return nil, err
	}

	caps := domain.CapabilitiesManifest{
		Generators: map[string]domain.Capability{},
		Executors:  map[string]domain.Capability{},
	}
	for n, d := range pkg.Generators {
		caps.Generators[n] = domain.Capability{Name: n, Description: d}
	}
	for n, d := range pkg.Executors {
		caps.Executors[n] = domain.Capability{Name: n, Description: d}
	}
	files := make(map[string][]byte, len(pkg.Files))
	for p, content := range pkg.Files {
		files[p] = []byte(content)
	}

	manifest := domain.PackageJSON{
		Name:         name,
		Version:      resolved,
		Description:  pkg.Description,
		Dependencies: pkg.Dependencies,
	}
	if pkg.MigrationsFile != "" {
		manifest.NxMigrations = &domain.MigrationsRef{Migrations: pkg.MigrationsFile}
	}
	return newResolvedPackage(manifest, caps, files)
}

// Fetch returns migration metadata for a package version
func (r *OfflineRegistry) Fetch(ctx context.Context, name, version string) (*domain.MigrationMetadata, error) {
	resolved, pkg, err := r.lookup(name, version)
	if err != nil {
		return nil, err
	}
	meta := &domain.MigrationMetadata{Version: resolved}
	if pkg.Migrations == nil {
		return meta, nil
	}
	for _, m := range pkg.Migrations.Generators {
		meta.Generators = append(meta.Generators, domain.MigrationEntry{
			Name:        m.Name,
			Version:     m.Version,
			Description: m.Description,
			CLI:         m.CLI,
		})
	}
	if len(pkg.Migrations.PackageJSONUpdates) > 0 {
		meta.PackageJSONUpdates = map[string]domain.PackageJSONUpdate{}
	}
	for key, group := range pkg.Migrations.PackageJSONUpdates {
		update := domain.PackageJSONUpdate{Version: group.Version, Packages: map[string]domain.PackageUpdate{}}
		for n, u := range group.Packages {
			update.Packages[n] = domain.PackageUpdate{
				Version:                u.Version,
				AlwaysAddToPackageJSON: u.AlwaysAddToPackageJSON,
				IfPackageInstalled:     u.IfPackageInstalled,
			}
		}
		meta.PackageJSONUpdates[key] = update
	}
	meta.PackageGroup = pkg.Migrations.PackageGroup
	return meta, nil
}

// latestVersion picks the highest stable version, or the highest prerelease
// when nothing stable is published. Keys that are not versions are ignored.
func latestVersion(versions map[string]offlinePackageVersion) string {
	var stable, all []string
	for v := range versions {
		if _, err := domain.ParseVersion(v); err != nil {
			continue
		}
		all = append(all, v)
		if !strings.Contains(v, "-") {
			stable = append(stable, v)
		}
	}
	if len(stable) > 0 {
		all = stable
	}
	sort.Slice(all, func(i, j int) bool { return domain.CompareVersions(all[i], all[j]) < 0 })
	if len(all) == 0 {
		return ""
	}
	return all[len(all)-1]
}

// Ensure OfflineRegistry implements its ports
var (
	_ usecase.PackageRegistry  = (*OfflineRegistry)(nil)
	_ usecase.MigrationFetcher = (*OfflineRegistry)(nil)
)

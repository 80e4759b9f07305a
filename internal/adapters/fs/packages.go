package fs

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/enio-ireland/nx/internal/domain"
	"github.com/enio-ireland/nx/internal/domain/config"
)

// FindPackage locates an installed package, looking in the encapsulated
// installation first and the workspace's node_modules second
func FindPackage(cfg *config.RuntimeConfig, name string) (string, *domain.PackageJSON, error) {
	for _, base := range []string{cfg.NodeModulesDir(), filepath.Join(cfg.WorkspaceRoot, "node_modules")} {
		dir := filepath.Join(base, filepath.FromSlash(name))
		pkg, err := ReadPackageJSON(dir)
		if errors.Is(err, os.ErrNotExist) {
			continue
		}
		if err != nil {
			return "", nil, err
		}
		return dir, pkg, nil
	}
	return "", nil, fmt.Errorf("%w: package %s is not installed", domain.ErrNotFound, name)
}

// ReadPackageJSON reads dir/package.json
func ReadPackageJSON(dir string) (*domain.PackageJSON, error) {
	var pkg domain.PackageJSON
	if err := readJSON(filepath.Join(dir, "package.json"), &pkg); err != nil {
		return nil, err
	}
	return &pkg, nil
}

// ReadMigrationsManifest reads the manifest a package points to from
// "nx-migrations" and returns it with the directory it lives in
func ReadMigrationsManifest(dir string, pkg *domain.PackageJSON) (*domain.MigrationsManifest, string, error) {
	if pkg.NxMigrations == nil || pkg.NxMigrations.Migrations == "" {
		return &domain.MigrationsManifest{}, dir, nil
	}
	path := filepath.Join(dir, filepath.FromSlash(pkg.NxMigrations.Migrations))
	var manifest domain.MigrationsManifest
	if err := readJSON(path, &manifest); err != nil {
		return nil, "", fmt.Errorf("failed to read migrations of %s: %w", pkg.Name, err)
	}
	return &manifest, filepath.Dir(path), nil
}

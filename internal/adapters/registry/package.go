package registry

import (
	"context"
	"errors"
	"fmt"

	"github.com/samber/lo"
	"github.com/sahilm/fuzzy"

	"github.com/enio-ireland/nx/internal/adapters/fs"
	"github.com/enio-ireland/nx/internal/domain"
	"github.com/enio-ireland/nx/internal/usecase"
)

const (
	generatorsFile = "generators.json"
	executorsFile  = "executors.json"
)

// newResolvedPackage lays out a package the way plugins ship: package.json
// pointing at generators.json and executors.json
func newResolvedPackage(manifest domain.PackageJSON, caps domain.CapabilitiesManifest, files map[string][]byte) (*usecase.ResolvedPackage, error) {
	out := &usecase.ResolvedPackage{Manifest: manifest, Files: map[string][]byte{}}
	for name, content := range files {
		out.Files[name] = content
	}
	if len(caps.Generators) > 0 {
		data, err := fs.MarshalJSON(domain.CapabilitiesManifest{Generators: caps.Generators})
		if err != nil {
			return nil, err
		}
		out.Manifest.Generators = "./" + generatorsFile
		out.Files[generatorsFile] = data
	}
	if len(caps.Executors) > 0 {
		data, err := fs.MarshalJSON(domain.CapabilitiesManifest{Executors: caps.Executors})
		if err != nil {
			return nil, err
		}
		out.Manifest.Executors = "./" + executorsFile
		out.Files[executorsFile] = data
	}
	return out, nil
}

// ChainRegistry asks each registry in turn and reports unknown packages with
// suggestions drawn from the catalog
type ChainRegistry struct {
	catalog    *Catalog
	registries []usecase.PackageRegistry
}

// NewPackageRegistry resolves from the catalog first and the offline
// registry document second
func NewPackageRegistry(catalog *Catalog, offline *OfflineRegistry) *ChainRegistry {
	return &ChainRegistry{
		catalog:    catalog,
		registries: []usecase.PackageRegistry{catalog, offline},
	}
}

// Resolve returns the first registry hit
func (r *ChainRegistry) Resolve(ctx context.Context, name, version string) (*usecase.ResolvedPackage, error) {
	var misses []error
	for _, reg := range r.registries {
		pkg, err := reg.Resolve(ctx, name, version)
		if err == nil {
			return pkg, nil
		}
		if !errors.Is(err, domain.ErrNotFound) {
			return nil, err
		}
		misses = append(misses, err)
	}

	if _, known := r.catalog.Plugin(name); known {
		return nil, fmt.Errorf("failed to resolve %s@%s: %w", name, version, errors.Join(misses...))
	}
	matches := fuzzy.Find(name, r.catalog.Names())
	return nil, &domain.UnknownPluginError{
		Name:        name,
		Suggestions: lo.Map(lo.Slice(matches, 0, 3), func(m fuzzy.Match, _ int) string { return m.Str }),
	}
}

// Ensure ChainRegistry implements PackageRegistry
var _ usecase.PackageRegistry = (*ChainRegistry)(nil)

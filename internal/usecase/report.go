package usecase

import (
	"context"
	"errors"
	"runtime"
	"sort"

	"github.com/enio-ireland/nx/internal/domain"
	"github.com/enio-ireland/nx/internal/domain/config"
)

// ReportEntry is a package and the version found for it
type ReportEntry struct {
	Name    string
	Version string
}

// ReportResult contains the environment and package versions
type ReportResult struct {
	GoVersion string
	OS        string
	Nx        ReportEntry
	Plugins   []ReportEntry
	Community []ReportEntry
}

// Report is the use case behind `nx report`
type Report struct {
	config    *config.RuntimeConfig
	store     WorkspaceStore
	installer Installer
	catalog   PluginCatalog
}

// NewReport creates a new Report use case
func NewReport(cfg *config.RuntimeConfig, store WorkspaceStore, installer Installer, catalog PluginCatalog) *Report {
	return &Report{
		config:    cfg,
		store:     store,
		installer: installer,
		catalog:   catalog,
	}
}

// Run collects the versions of nx and every plugin the workspace installs
func (uc *Report) Run(ctx context.Context) (*ReportResult, error) {
	names, err := uc.workspacePackages(ctx)
	if err != nil {
		return nil, err
	}

	result := &ReportResult{
		GoVersion: runtime.Version(),
		OS:        runtime.GOOS + "-" + runtime.GOARCH,
		Nx:        ReportEntry{Name: "nx", Version: uc.installedVersion(ctx, "nx", uc.config.Version)},
	}
	for _, name := range names {
		if name == "nx" {
			continue
		}
		entry := ReportEntry{Name: name, Version: uc.installedVersion(ctx, name, "")}
		if entry.Version == "" {
			// never installed
			continue
		}
		if _, ok := uc.catalog.Plugin(name); ok {
			result.Plugins = append(result.Plugins, entry)
		} else {
			result.Community = append(result.Community, entry)
		}
	}
	return result, nil
}

// workspacePackages returns the packages nx manages for this workspace,
// sorted by name
func (uc *Report) workspacePackages(ctx context.Context) ([]string, error) {
	var names []string
	if uc.store.NxJSONExists() {
		nxJSON, err := uc.store.ReadNxJSON(ctx)
		if err != nil {
			return nil, err
		}
		if inst := nxJSON.Installation(); inst != nil {
			for name := range inst.Packages() {
				names = append(names, name)
			}
			sort.Strings(names)
			return names, nil
		}
	}

	pkg, err := uc.store.ReadRootPackageJSON(ctx)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	for name := range pkg.Dependencies {
		names = append(names, name)
	}
	for name := range pkg.DevDependencies {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

func (uc *Report) installedVersion(ctx context.Context, name, fallback string) string {
	pkg, err := uc.installer.InstalledPackage(ctx, name)
	if err != nil || pkg == nil {
		return fallback
	}
	return pkg.Version
}

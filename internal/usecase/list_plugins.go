package usecase

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/samber/lo"

	"github.com/enio-ireland/nx/internal/domain"
)

// ListPluginsResult partitions plugins into installed and available ones
type ListPluginsResult struct {
	Installed []*domain.PluginCapabilities
	Available []*domain.PluginCapabilities
}

// ListPlugins is the use case behind `nx list`
type ListPlugins struct {
	store     WorkspaceStore
	installer Installer
	catalog   PluginCatalog
}

// NewListPlugins creates a new ListPlugins use case
func NewListPlugins(store WorkspaceStore, installer Installer, catalog PluginCatalog) *ListPlugins {
	return &ListPlugins{
		store:     store,
		installer: installer,
		catalog:   catalog,
	}
}

// Run lists nx and the installed plugins, then catalog plugins that are not
// installed
func (uc *ListPlugins) Run(ctx context.Context) (*ListPluginsResult, error) {
	installed, err := installedCapabilities(ctx, uc.installer)
	if err != nil {
		return nil, err
	}

	names := lo.SliceToMap(installed, func(p *domain.PluginCapabilities) (string, struct{}) {
		return p.Name, struct{}{}
	})
	available := lo.Filter(uc.catalog.Plugins(), func(p *domain.PluginCapabilities, _ int) bool {
		_, ok := names[p.Name]
		return !ok
	})

	return &ListPluginsResult{
		Installed: installed,
		Available: available,
	}, nil
}

// ListCapabilitiesResult describes one plugin
type ListCapabilitiesResult struct {
	Plugin    *domain.PluginCapabilities
	Installed bool
}

// ListCapabilities is the use case behind `nx list <plugin>`
type ListCapabilities struct {
	installer Installer
	catalog   PluginCatalog
}

// NewListCapabilities creates a new ListCapabilities use case
func NewListCapabilities(installer Installer, catalog PluginCatalog) *ListCapabilities {
	return &ListCapabilities{
		installer: installer,
		catalog:   catalog,
	}
}

// Run returns the generators and executors of a plugin
func (uc *ListCapabilities) Run(ctx context.Context, plugin string) (*ListCapabilitiesResult, error) {
	pkg, err := uc.installer.InstalledPackage(ctx, plugin)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}
	if pkg != nil {
		caps, err := uc.installer.Capabilities(ctx, *pkg)
		if err != nil {
			return nil, fmt.Errorf("failed to read capabilities of %s: %w", plugin, err)
		}
		return &ListCapabilitiesResult{Plugin: caps, Installed: true}, nil
	}

	if caps, ok := uc.catalog.Plugin(plugin); ok {
		return &ListCapabilitiesResult{Plugin: caps}, nil
	}

	candidates := lo.Map(uc.catalog.Plugins(), func(p *domain.PluginCapabilities, _ int) string { return p.Name })
	return nil, &domain.UnknownPluginError{
		Name:        plugin,
		Suggestions: suggestions(plugin, candidates),
	}
}

// installedCapabilities reads the capabilities of every installed package,
// nx first and the rest sorted by name
func installedCapabilities(ctx context.Context, installer Installer) ([]*domain.PluginCapabilities, error) {
	pkgs, err := installer.Installed(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read installation: %w", err)
	}
	sort.SliceStable(pkgs, func(i, j int) bool {
		if pkgs[i].Name == "nx" || pkgs[j].Name == "nx" {
			return pkgs[i].Name == "nx"
		}
		return pkgs[i].Name < pkgs[j].Name
	})

	out := make([]*domain.PluginCapabilities, 0, len(pkgs))
	for _, pkg := range pkgs {
		caps, err := installer.Capabilities(ctx, pkg)
		if err != nil {
			return nil, fmt.Errorf("failed to read capabilities of %s: %w", pkg.Name, err)
		}
		out = append(out, caps)
	}
	return out, nil
}

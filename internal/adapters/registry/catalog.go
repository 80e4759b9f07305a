package registry

import (
	"context"
	_ "embed"
	"fmt"
	"sort"

	"github.com/BurntSushi/toml"

	"github.com/enio-ireland/nx/internal/domain"
	"github.com/enio-ireland/nx/internal/domain/config"
	"github.com/enio-ireland/nx/internal/usecase"
)

//go:embed catalog.toml
var catalogTOML []byte

// GeneratorSpec tells the generator runner how to render a catalog generator
type GeneratorSpec struct {
	Name        string `toml:"name"`
	Description string `toml:"description"`
	// Template is the template set rendered by the generator
	Template string `toml:"template"`
	// Directory is the parent directory used when none is given
	Directory string `toml:"directory"`
}

type catalogExecutor struct {
	Name        string `toml:"name"`
	Description string `toml:"description"`
}

type catalogPlugin struct {
	Name        string            `toml:"name"`
	Description string            `toml:"description"`
	Generators  []GeneratorSpec   `toml:"generator"`
	Executors   []catalogExecutor `toml:"executor"`
}

type catalogFile struct {
	Plugins []catalogPlugin `toml:"plugin"`
}

// Catalog is the set of plugins published alongside nx, all at the CLI version
type Catalog struct {
	version string
	plugins []catalogPlugin
	byName  map[string]*catalogPlugin
}

// NewCatalog parses the embedded catalog
func NewCatalog(cfg *config.RuntimeConfig) (*Catalog, error) {
	return ParseCatalog(catalogTOML, cfg.Version)
}

// ParseCatalog parses a catalog document
func ParseCatalog(data []byte, version string) (*Catalog, error) {
	var file catalogFile
	if _, err := toml.Decode(string(data), &file); err != nil {
		return nil, fmt.Errorf("failed to parse plugin catalog: %w", err)
	}
	c := &Catalog{
		version: version,
		plugins: file.Plugins,
		byName:  make(map[string]*catalogPlugin, len(file.Plugins)),
	}
	for i := range c.plugins {
		p := &c.plugins[i]
		if _, dup := c.byName[p.Name]; dup {
			return nil, fmt.Errorf("plugin %q is listed twice in the catalog", p.Name)
		}
		c.byName[p.Name] = p
	}
	return c, nil
}

// Plugins returns every catalog plugin sorted by name
func (c *Catalog) Plugins() []*domain.PluginCapabilities {
	out := make([]*domain.PluginCapabilities, 0, len(c.plugins))
	for i := range c.plugins {
		out = append(out, c.capabilities(&c.plugins[i]))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Plugin looks a plugin up by package name
func (c *Catalog) Plugin(name string) (*domain.PluginCapabilities, bool) {
	p, ok := c.byName[name]
	if !ok {
		return nil, false
	}
	return c.capabilities(p), true
}

// Names returns the package names in the catalog
func (c *Catalog) Names() []string {
	names := make([]string, 0, len(c.plugins))
	for _, p := range c.plugins {
		names = append(names, p.Name)
	}
	return names
}

// Generator returns how to render plugin:generator
func (c *Catalog) Generator(plugin, generator string) (*GeneratorSpec, bool) {
	p, ok := c.byName[plugin]
	if !ok {
		return nil, false
	}
	for i := range p.Generators {
		if p.Generators[i].Name == generator {
			return &p.Generators[i], true
		}
	}
	return nil, false
}

// Resolve builds the installable package for a catalog plugin. Only the CLI's
// own version is published.
func (c *Catalog) Resolve(ctx context.Context, name, version string) (*usecase.ResolvedPackage, error) {
	p, ok := c.byName[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s is not in the plugin catalog", domain.ErrNotFound, name)
	}
	if version != c.version && version != "latest" {
		return nil, fmt.Errorf("%w: %s@%s (the catalog publishes %s)", domain.ErrNotFound, name, version, c.version)
	}

	caps := domain.CapabilitiesManifest{
		Generators: map[string]domain.Capability{},
		Executors:  map[string]domain.Capability{},
	}
	for _, g := range p.Generators {
		caps.Generators[g.Name] = domain.Capability{Name: g.Name, Description: g.Description}
	}
	for _, e := range p.Executors {
		caps.Executors[e.Name] = domain.Capability{Name: e.Name, Description: e.Description}
	}
	return newResolvedPackage(domain.PackageJSON{
		Name:        p.Name,
		Version:     c.version,
		Description: p.Description,
	}, caps, nil)
}

func (c *Catalog) capabilities(p *catalogPlugin) *domain.PluginCapabilities {
	caps := &domain.PluginCapabilities{
		Name:        p.Name,
		Version:     c.version,
		Description: p.Description,
	}
	for _, g := range p.Generators {
		caps.Generators = append(caps.Generators, domain.Capability{Name: g.Name, Description: g.Description})
	}
	for _, e := range p.Executors {
		caps.Executors = append(caps.Executors, domain.Capability{Name: e.Name, Description: e.Description})
	}
	return caps
}

// Ensure Catalog implements its ports
var (
	_ usecase.PluginCatalog   = (*Catalog)(nil)
	_ usecase.PackageRegistry = (*Catalog)(nil)
)

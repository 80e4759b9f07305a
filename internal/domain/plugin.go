package domain

import "strings"

// Capability is a named generator or executor offered by a plugin
type Capability struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

// PluginCapabilities describes what a plugin offers
type PluginCapabilities struct {
	Name        string
	Version     string
	Description string
	Generators  []Capability
	Executors   []Capability
}

// Summary renders "(executors,generators)" style capability tags
func (p *PluginCapabilities) Summary() string {
	var kinds []string
	if len(p.Executors) > 0 {
		kinds = append(kinds, "executors")
	}
	if len(p.Generators) > 0 {
		kinds = append(kinds, "generators")
	}
	if len(kinds) == 0 {
		return ""
	}
	return "(" + strings.Join(kinds, ",") + ")"
}

// HasGenerator reports whether the plugin offers the named generator
func (p *PluginCapabilities) HasGenerator(name string) bool {
	for _, g := range p.Generators {
		if g.Name == name {
			return true
		}
	}
	return false
}

// InstalledPackage is a package found in the encapsulated installation
type InstalledPackage struct {
	Name    string
	Version string
	Dir     string
}

// CapabilitiesManifest is the generators.json / executors.json document shipped
// inside installed plugin packages
type CapabilitiesManifest struct {
	Generators map[string]Capability `json:"generators,omitempty"`
	Executors  map[string]Capability `json:"executors,omitempty"`
}

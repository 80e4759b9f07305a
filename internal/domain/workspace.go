package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// DefaultTasksRunner is the runner recorded in freshly initialized workspaces
const DefaultTasksRunner = "nx/tasks-runners/default"

// Installation describes the encapsulated installation section of nx.json
type Installation struct {
	Version string            `json:"version"`
	Plugins map[string]string `json:"plugins,omitempty"`
}

// Packages returns the full set of packages the installation should hold,
// including nx itself.
func (i *Installation) Packages() map[string]string {
	pkgs := make(map[string]string, len(i.Plugins)+1)
	for name, version := range i.Plugins {
		pkgs[name] = version
	}
	pkgs["nx"] = i.Version
	return pkgs
}

// NxJSON is the workspace configuration document. Only the sections the CLI
// understands get typed accessors; everything else is kept verbatim so that
// read-modify-write cycles never drop keys.
type NxJSON struct {
	raw map[string]any
}

// NewNxJSON returns the document written by `nx init`
func NewNxJSON(version string) *NxJSON {
	n := &NxJSON{raw: map[string]any{}}
	n.SetInstallation(Installation{Version: version, Plugins: map[string]string{}})
	runner := n.section("tasksRunnerOptions", "default")
	runner["runner"] = DefaultTasksRunner
	n.SetCacheableOperations([]string{"build", "lint", "test", "e2e"})
	return n
}

func (n *NxJSON) UnmarshalJSON(data []byte) error {
	// numbers stay json.Number so untouched values round-trip exactly
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var raw map[string]any
	if err := dec.Decode(&raw); err != nil {
		return err
	}
	if raw == nil {
		raw = map[string]any{}
	}
	n.raw = raw
	return nil
}

func (n NxJSON) MarshalJSON() ([]byte, error) {
	if n.raw == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(n.raw)
}

// Get returns a top-level key as decoded JSON
func (n *NxJSON) Get(key string) (any, bool) {
	v, ok := n.raw[key]
	return v, ok
}

// Set replaces a top-level key
func (n *NxJSON) Set(key string, value any) {
	if n.raw == nil {
		n.raw = map[string]any{}
	}
	n.raw[key] = value
}

// Delete removes a top-level key
func (n *NxJSON) Delete(key string) {
	delete(n.raw, key)
}

// Installation returns the installation section, or nil when the workspace is
// not encapsulated.
func (n *NxJSON) Installation() *Installation {
	v, ok := n.raw["installation"]
	if !ok || v == nil {
		return nil
	}
	var inst Installation
	if err := remarshal(v, &inst); err != nil {
		return nil
	}
	if inst.Plugins == nil {
		inst.Plugins = map[string]string{}
	}
	return &inst
}

// SetInstallation replaces the installation section
func (n *NxJSON) SetInstallation(inst Installation) {
	plugins := map[string]any{}
	for name, version := range inst.Plugins {
		plugins[name] = version
	}
	n.Set("installation", map[string]any{
		"version": inst.Version,
		"plugins": plugins,
	})
}

// SetPlugin records a plugin version, creating the installation section if needed
func (n *NxJSON) SetPlugin(name, version string) {
	inst := n.section("installation")
	plugins, ok := inst["plugins"].(map[string]any)
	if !ok {
		plugins = map[string]any{}
		inst["plugins"] = plugins
	}
	plugins[name] = version
}

// SetInstallationVersion updates the version nx itself is installed at
func (n *NxJSON) SetInstallationVersion(version string) {
	n.section("installation")["version"] = version
}

// CacheableOperations returns tasksRunnerOptions.default.options.cacheableOperations
func (n *NxJSON) CacheableOperations() []string {
	runners, _ := n.raw["tasksRunnerOptions"].(map[string]any)
	def, _ := runners["default"].(map[string]any)
	opts, _ := def["options"].(map[string]any)
	list, _ := opts["cacheableOperations"].([]any)
	ops := make([]string, 0, len(list))
	for _, item := range list {
		if s, ok := item.(string); ok {
			ops = append(ops, s)
		}
	}
	return ops
}

// SetCacheableOperations replaces tasksRunnerOptions.default.options.cacheableOperations
func (n *NxJSON) SetCacheableOperations(ops []string) {
	list := make([]any, len(ops))
	for i, op := range ops {
		list[i] = op
	}
	n.section("tasksRunnerOptions", "default", "options")["cacheableOperations"] = list
}

// section walks (and creates) nested objects below the root
func (n *NxJSON) section(keys ...string) map[string]any {
	if n.raw == nil {
		n.raw = map[string]any{}
	}
	cur := n.raw
	for _, key := range keys {
		next, ok := cur[key].(map[string]any)
		if !ok {
			next = map[string]any{}
			cur[key] = next
		}
		cur = next
	}
	return cur
}

func remarshal(in any, out any) error {
	data, err := json.Marshal(in)
	if err != nil {
		return fmt.Errorf("failed to marshal section: %w", err)
	}
	return json.Unmarshal(data, out)
}

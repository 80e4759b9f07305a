package domain

import (
	"encoding/json"
	"fmt"
	"strings"
)

// PackageJSON is the subset of a package manifest the CLI reads and writes
type PackageJSON struct {
	Name            string            `json:"name"`
	Version         string            `json:"version"`
	Description     string            `json:"description,omitempty"`
	Dependencies    map[string]string `json:"dependencies,omitempty"`
	DevDependencies map[string]string `json:"devDependencies,omitempty"`
	Generators      string            `json:"generators,omitempty"`
	Executors       string            `json:"executors,omitempty"`
	NxMigrations    *MigrationsRef    `json:"nx-migrations,omitempty"`
}

// Dependency returns the declared version of a dependency from any section
func (p *PackageJSON) Dependency(name string) (string, bool) {
	if v, ok := p.Dependencies[name]; ok {
		return v, true
	}
	v, ok := p.DevDependencies[name]
	return v, ok
}

// MigrationsRef is the "nx-migrations" field, which is either a path to the
// manifest or an object carrying it under "migrations".
type MigrationsRef struct {
	Migrations   string   `json:"migrations,omitempty"`
	PackageGroup []string `json:"packageGroup,omitempty"`
}

func (m *MigrationsRef) UnmarshalJSON(data []byte) error {
	var path string
	if err := json.Unmarshal(data, &path); err == nil {
		m.Migrations = path
		return nil
	}
	type alias MigrationsRef
	var a alias
	if err := json.Unmarshal(data, &a); err != nil {
		return fmt.Errorf("invalid nx-migrations field: %w", err)
	}
	*m = MigrationsRef(a)
	return nil
}

func (m MigrationsRef) MarshalJSON() ([]byte, error) {
	if len(m.PackageGroup) == 0 {
		return json.Marshal(m.Migrations)
	}
	type alias MigrationsRef
	return json.Marshal(alias(m))
}

// PackageSpecifier is a parsed "name@version" argument
type PackageSpecifier struct {
	Name    string
	Version string
}

func (s PackageSpecifier) String() string {
	return s.Name + "@" + s.Version
}

// ParsePackageSpecifier parses "name@version", "@scope/name@version" or a bare
// name. A bare name resolves to the "latest" tag.
func ParsePackageSpecifier(arg string) (PackageSpecifier, error) {
	arg = strings.TrimSpace(strings.Trim(arg, `"'`))
	if arg == "" {
		return PackageSpecifier{}, fmt.Errorf("%w: empty", ErrInvalidPackageSpecifier)
	}
	idx := strings.LastIndex(arg, "@")
	if idx <= 0 {
		return PackageSpecifier{Name: arg, Version: "latest"}, nil
	}
	name, version := arg[:idx], arg[idx+1:]
	if version == "" {
		return PackageSpecifier{}, fmt.Errorf("%w: %q has no version after @", ErrInvalidPackageSpecifier, arg)
	}
	return PackageSpecifier{Name: name, Version: version}, nil
}

// ParsePackageSpecifierList parses a comma-separated list such as
// "a@1.0.0,@scope/b@2.0.0" into a name -> version map.
func ParsePackageSpecifierList(arg string) (map[string]string, error) {
	out := map[string]string{}
	if strings.TrimSpace(arg) == "" {
		return out, nil
	}
	for _, part := range strings.Split(arg, ",") {
		spec, err := ParsePackageSpecifier(part)
		if err != nil {
			return nil, err
		}
		if spec.Version == "latest" && !strings.Contains(strings.TrimPrefix(part, "@"), "@") {
			return nil, fmt.Errorf("%w: %q must include a version", ErrInvalidPackageSpecifier, part)
		}
		out[spec.Name] = spec.Version
	}
	return out, nil
}

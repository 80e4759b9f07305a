package fs

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/enio-ireland/nx/internal/domain"
	"github.com/enio-ireland/nx/internal/domain/config"
	"github.com/enio-ireland/nx/internal/usecase"
)

// WorkspaceStoreAdapter implements WorkspaceStore on top of the workspace root
type WorkspaceStoreAdapter struct {
	root string
}

// NewWorkspaceStoreAdapter creates a new WorkspaceStoreAdapter
func NewWorkspaceStoreAdapter(cfg *config.RuntimeConfig) *WorkspaceStoreAdapter {
	return &WorkspaceStoreAdapter{root: cfg.WorkspaceRoot}
}

func (s *WorkspaceStoreAdapter) path(p string) string {
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(s.root, filepath.FromSlash(p))
}

// NxJSONExists checks if nx.json exists
func (s *WorkspaceStoreAdapter) NxJSONExists() bool {
	_, err := os.Stat(s.path(config.NxJSONFile))
	return err == nil
}

// ReadNxJSON reads nx.json
func (s *WorkspaceStoreAdapter) ReadNxJSON(ctx context.Context) (*domain.NxJSON, error) {
	var doc domain.NxJSON
	if err := readJSON(s.path(config.NxJSONFile), &doc); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", domain.ErrWorkspaceNotFound, s.path(config.NxJSONFile))
		}
		return nil, fmt.Errorf("failed to read nx.json: %w", err)
	}
	return &doc, nil
}

// WriteNxJSON writes nx.json
func (s *WorkspaceStoreAdapter) WriteNxJSON(ctx context.Context, doc *domain.NxJSON) error {
	return WriteJSON(s.path(config.NxJSONFile), doc)
}

// UpdateNxJSON reads nx.json, applies fn and writes the result back.
// Keys fn does not touch are preserved.
func (s *WorkspaceStoreAdapter) UpdateNxJSON(ctx context.Context, fn func(doc *domain.NxJSON) error) error {
	doc, err := s.ReadNxJSON(ctx)
	if err != nil {
		return err
	}
	if err := fn(doc); err != nil {
		return err
	}
	return s.WriteNxJSON(ctx, doc)
}

// ReadRootPackageJSON reads the package.json at the workspace root
func (s *WorkspaceStoreAdapter) ReadRootPackageJSON(ctx context.Context) (*domain.PackageJSON, error) {
	var pkg domain.PackageJSON
	if err := readJSON(s.path("package.json"), &pkg); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: package.json", domain.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to read package.json: %w", err)
	}
	return &pkg, nil
}

// UpdateRootDependencies bumps versions in the root package.json, keeping the
// dependency section each package is already declared in
func (s *WorkspaceStoreAdapter) UpdateRootDependencies(ctx context.Context, versions map[string]string) error {
	path := s.path("package.json")
	var raw map[string]any
	if err := readJSON(path, &raw); err != nil {
		return fmt.Errorf("failed to read package.json: %w", err)
	}

	section := func(key string) map[string]any {
		m, ok := raw[key].(map[string]any)
		if !ok {
			m = map[string]any{}
		}
		return m
	}
	deps, devDeps := section("dependencies"), section("devDependencies")
	for name, version := range versions {
		if _, ok := devDeps[name]; ok {
			devDeps[name] = version
			continue
		}
		deps[name] = version
	}
	if len(deps) > 0 {
		raw["dependencies"] = deps
	}
	if len(devDeps) > 0 {
		raw["devDependencies"] = devDeps
	}
	return WriteJSON(path, raw)
}

// ReadJournal reads a migrations journal relative to the workspace root
func (s *WorkspaceStoreAdapter) ReadJournal(ctx context.Context, path string) (*domain.MigrationsJournal, error) {
	var journal domain.MigrationsJournal
	if err := readJSON(s.path(path), &journal); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", domain.ErrNotFound, path)
		}
		return nil, err
	}
	return &journal, nil
}

// WriteJournal writes a migrations journal relative to the workspace root
func (s *WorkspaceStoreAdapter) WriteJournal(ctx context.Context, path string, journal *domain.MigrationsJournal) error {
	return WriteJSON(s.path(path), journal)
}

func readJSON(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("failed to parse %s: %w", filepath.Base(path), err)
	}
	return nil
}

// MarshalJSON renders v the way package managers do: two-space indent,
// no HTML escaping and a trailing newline
func MarshalJSON(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WriteJSON writes v to path, creating parent directories
func WriteJSON(path string, v any) error {
	data, err := MarshalJSON(v)
	if err != nil {
		return fmt.Errorf("failed to marshal %s: %w", filepath.Base(path), err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", filepath.Base(path), err)
	}
	return nil
}

// Ensure WorkspaceStoreAdapter implements WorkspaceStore
var _ usecase.WorkspaceStore = (*WorkspaceStoreAdapter)(nil)

package fs

import (
	"context"
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"

	"github.com/enio-ireland/nx/internal/domain"
	"github.com/enio-ireland/nx/internal/domain/config"
	"github.com/enio-ireland/nx/internal/usecase"
)

const projectFile = "project.json"

var skippedDirs = map[string]bool{
	"node_modules":  true,
	config.DotNxDir: true,
	".git":          true,
	"dist":          true,
}

// ProjectLoaderAdapter discovers project.json files below the workspace root
type ProjectLoaderAdapter struct {
	root string
}

// NewProjectLoaderAdapter creates a new ProjectLoaderAdapter
func NewProjectLoaderAdapter(cfg *config.RuntimeConfig) *ProjectLoaderAdapter {
	return &ProjectLoaderAdapter{root: cfg.WorkspaceRoot}
}

// LoadProjects returns every project sorted by name
func (l *ProjectLoaderAdapter) LoadProjects(ctx context.Context) ([]*domain.ProjectConfiguration, error) {
	var projects []*domain.ProjectConfiguration
	seen := map[string]string{}

	err := filepath.WalkDir(l.root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path != l.root && skippedDirs[d.Name()] {
				return filepath.SkipDir
			}
			return nil
		}
		if d.Name() != projectFile {
			return nil
		}

		var project domain.ProjectConfiguration
		if err := readJSON(path, &project); err != nil {
			return err
		}
		rel, err := filepath.Rel(l.root, filepath.Dir(path))
		if err != nil {
			return err
		}
		if project.Root == "" {
			project.Root = filepath.ToSlash(rel)
		}
		if project.Name == "" {
			project.Name = filepath.Base(filepath.Dir(path))
		}
		if other, ok := seen[project.Name]; ok {
			return fmt.Errorf("project %q is defined in both %s and %s", project.Name, other, rel)
		}
		seen[project.Name] = rel
		projects = append(projects, &project)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to load projects: %w", err)
	}

	sort.Slice(projects, func(i, j int) bool { return projects[i].Name < projects[j].Name })
	return projects, nil
}

// Ensure ProjectLoaderAdapter implements ProjectLoader
var _ usecase.ProjectLoader = (*ProjectLoaderAdapter)(nil)

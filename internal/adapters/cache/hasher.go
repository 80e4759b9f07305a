package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/cespare/xxhash/v2"

	"github.com/enio-ireland/nx/internal/domain"
	"github.com/enio-ireland/nx/internal/domain/config"
	"github.com/enio-ireland/nx/internal/usecase"
)

var ignoredDirs = map[string]bool{
	"node_modules":  true,
	config.DotNxDir: true,
	".git":          true,
	"dist":          true,
}

// HasherAdapter hashes task inputs with xxhash64
type HasherAdapter struct {
	version string
}

// NewHasherAdapter creates a new HasherAdapter
func NewHasherAdapter(cfg *config.RuntimeConfig) *HasherAdapter {
	return &HasherAdapter{version: cfg.Version}
}

// Hash covers the CLI version, the task identity, the target configuration
// and every file below the project root
func (h *HasherAdapter) Hash(ctx context.Context, task *domain.Task) (string, error) {
	d := xxhash.New()
	target, err := json.Marshal(task.Target)
	if err != nil {
		return "", fmt.Errorf("failed to encode target: %w", err)
	}
	for _, part := range []string{h.version, task.ID.Project, task.ID.Target, string(target)} {
		_, _ = d.WriteString(part)
		_, _ = d.Write([]byte{0})
	}

	err = filepath.WalkDir(task.ProjectDir, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if entry.IsDir() {
			if path != task.ProjectDir && ignoredDirs[entry.Name()] {
				return filepath.SkipDir
			}
			return nil
		}
		if !entry.Type().IsRegular() {
			return nil
		}
		rel, err := filepath.Rel(task.ProjectDir, path)
		if err != nil {
			return err
		}
		_, _ = d.WriteString(filepath.ToSlash(rel))
		_, _ = d.Write([]byte{0})
		f, err := os.Open(path)
		if err != nil {
			return err
		}
		defer f.Close()
		if _, err := io.Copy(d, f); err != nil {
			return err
		}
		_, _ = d.Write([]byte{0})
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("failed to hash %s: %w", task.ProjectDir, err)
	}
	return fmt.Sprintf("%016x", d.Sum64()), nil
}

// Ensure HasherAdapter implements TaskHasher
var _ usecase.TaskHasher = (*HasherAdapter)(nil)

package cache

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/enio-ireland/nx/internal/domain"
	"github.com/enio-ireland/nx/internal/domain/config"
	"github.com/enio-ireland/nx/internal/usecase"
)

const terminalOutputsDir = "terminalOutputs"

// FileCacheAdapter stores task results below .nx/cache:
//
//	terminalOutputs/<hash>  terminal output
//	<hash>/code             exit code
//	<hash>/outputs/...      declared outputs, relative to the workspace root
//	<hash>.commit           written last, marks the entry complete
type FileCacheAdapter struct {
	root string
	dir  string
}

// NewFileCacheAdapter creates a new FileCacheAdapter
func NewFileCacheAdapter(cfg *config.RuntimeConfig) *FileCacheAdapter {
	return &FileCacheAdapter{
		root: cfg.WorkspaceRoot,
		dir:  cfg.CacheDir,
	}
}

// Get returns the cached result for hash, or nil when there is none
func (c *FileCacheAdapter) Get(ctx context.Context, hash string) (*domain.CachedResult, error) {
	if _, err := os.Stat(filepath.Join(c.dir, hash+".commit")); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}

	output, err := os.ReadFile(filepath.Join(c.dir, terminalOutputsDir, hash))
	if err != nil {
		return nil, fmt.Errorf("failed to read terminal output: %w", err)
	}
	code, err := os.ReadFile(filepath.Join(c.dir, hash, "code"))
	if err != nil {
		return nil, fmt.Errorf("failed to read exit code: %w", err)
	}
	exitCode, err := strconv.Atoi(strings.TrimSpace(string(code)))
	if err != nil {
		return nil, fmt.Errorf("invalid exit code in cache entry %s: %w", hash, err)
	}

	return &domain.CachedResult{
		Hash:           hash,
		TerminalOutput: string(output),
		ExitCode:       exitCode,
		OutputsDir:     filepath.Join(c.dir, hash, "outputs"),
	}, nil
}

// Put stores a successful task result
func (c *FileCacheAdapter) Put(ctx context.Context, task *domain.Task, result *domain.TaskResult) error {
	if result.Status != domain.TaskSuccess {
		return nil
	}
	entry := filepath.Join(c.dir, task.Hash)
	outputs := filepath.Join(entry, "outputs")
	if err := os.MkdirAll(outputs, 0755); err != nil {
		return fmt.Errorf("failed to create cache entry: %w", err)
	}
	if err := os.MkdirAll(filepath.Join(c.dir, terminalOutputsDir), 0755); err != nil {
		return fmt.Errorf("failed to create cache directory: %w", err)
	}

	if err := os.WriteFile(filepath.Join(c.dir, terminalOutputsDir, task.Hash), []byte(result.TerminalOutput), 0644); err != nil {
		return fmt.Errorf("failed to write terminal output: %w", err)
	}
	if err := os.WriteFile(filepath.Join(entry, "code"), []byte(strconv.Itoa(result.ExitCode)), 0644); err != nil {
		return fmt.Errorf("failed to write exit code: %w", err)
	}

	for _, rel := range c.outputPaths(task) {
		src := filepath.Join(c.root, rel)
		if _, err := os.Stat(src); errors.Is(err, os.ErrNotExist) {
			continue
		}
		if err := copyTree(src, filepath.Join(outputs, rel)); err != nil {
			return fmt.Errorf("failed to cache output %s: %w", rel, err)
		}
	}

	return os.WriteFile(filepath.Join(c.dir, task.Hash+".commit"), []byte("true"), 0644)
}

// RestoreOutputs copies cached outputs back into the workspace
func (c *FileCacheAdapter) RestoreOutputs(ctx context.Context, task *domain.Task, cached *domain.CachedResult) error {
	for _, rel := range c.outputPaths(task) {
		src := filepath.Join(cached.OutputsDir, rel)
		if _, err := os.Stat(src); errors.Is(err, os.ErrNotExist) {
			continue
		}
		dst := filepath.Join(c.root, rel)
		if err := os.RemoveAll(dst); err != nil {
			return err
		}
		if err := copyTree(src, dst); err != nil {
			return fmt.Errorf("failed to restore output %s: %w", rel, err)
		}
	}
	return nil
}

// Clear removes the whole cache directory
func (c *FileCacheAdapter) Clear(ctx context.Context) error {
	return os.RemoveAll(c.dir)
}

// outputPaths expands {workspaceRoot} and {projectRoot} in declared outputs
// and returns them relative to the workspace root
func (c *FileCacheAdapter) outputPaths(task *domain.Task) []string {
	projectRoot := "."
	if task.Project != nil && task.Project.Root != "" {
		projectRoot = task.Project.Root
	}
	var paths []string
	for _, out := range task.Target.Outputs {
		out = strings.ReplaceAll(out, "{workspaceRoot}/", "")
		out = strings.ReplaceAll(out, "{workspaceRoot}", ".")
		out = strings.ReplaceAll(out, "{projectRoot}", projectRoot)
		clean := filepath.Clean(filepath.FromSlash(out))
		if filepath.IsAbs(clean) || clean == ".." || strings.HasPrefix(clean, ".."+string(filepath.Separator)) {
			continue
		}
		paths = append(paths, clean)
	}
	return paths
}

func copyTree(src, dst string) error {
	return filepath.WalkDir(src, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(src, path)
		if err != nil {
			return err
		}
		target := filepath.Join(dst, rel)
		if d.IsDir() {
			return os.MkdirAll(target, 0755)
		}
		return copyFile(path, target)
	})
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()
	if err := os.MkdirAll(filepath.Dir(dst), 0755); err != nil {
		return err
	}
	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}

// Ensure FileCacheAdapter implements TaskCache
var _ usecase.TaskCache = (*FileCacheAdapter)(nil)

package fs

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/enio-ireland/nx/internal/domain"
	"github.com/enio-ireland/nx/internal/domain/config"
	"github.com/enio-ireland/nx/internal/usecase"
)

type stagedFile struct {
	content []byte
	deleted bool
	// existed tells whether the file was on disk when first touched
	existed bool
}

// Tree stages file mutations in memory on top of a directory
type Tree struct {
	root   string
	staged map[string]*stagedFile
	order  []string
}

// NewTree creates a tree rooted at dir
func NewTree(dir string) *Tree {
	return &Tree{
		root:   dir,
		staged: map[string]*stagedFile{},
	}
}

// Root returns the directory the tree is rooted at
func (t *Tree) Root() string {
	return t.root
}

func normalize(p string) (string, error) {
	p = path.Clean(strings.TrimPrefix(filepath.ToSlash(p), "/"))
	if p == "." || p == ".." || strings.HasPrefix(p, "../") {
		return "", fmt.Errorf("path %q is outside the workspace", p)
	}
	return p, nil
}

func (t *Tree) onDisk(p string) bool {
	info, err := os.Stat(filepath.Join(t.root, filepath.FromSlash(p)))
	return err == nil && !info.IsDir()
}

func (t *Tree) entry(p string) *stagedFile {
	if f, ok := t.staged[p]; ok {
		return f
	}
	f := &stagedFile{existed: t.onDisk(p)}
	t.staged[p] = f
	t.order = append(t.order, p)
	return f
}

// Read returns the staged content, falling back to disk
func (t *Tree) Read(p string) ([]byte, error) {
	p, err := normalize(p)
	if err != nil {
		return nil, err
	}
	if f, ok := t.staged[p]; ok {
		if f.deleted {
			return nil, fmt.Errorf("%w: %s", domain.ErrNotFound, p)
		}
		if f.content != nil {
			return f.content, nil
		}
	}
	data, err := os.ReadFile(filepath.Join(t.root, filepath.FromSlash(p)))
	if errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", domain.ErrNotFound, p)
	}
	return data, err
}

// Exists reports whether the file exists after staged changes
func (t *Tree) Exists(p string) bool {
	p, err := normalize(p)
	if err != nil {
		return false
	}
	if f, ok := t.staged[p]; ok {
		return !f.deleted && (f.content != nil || f.existed)
	}
	return t.onDisk(p)
}

// Write creates or replaces a file
func (t *Tree) Write(p string, content []byte) error {
	p, err := normalize(p)
	if err != nil {
		return err
	}
	f := t.entry(p)
	f.deleted = false
	if content == nil {
		content = []byte{}
	}
	f.content = content
	return nil
}

// Create writes a file that must not exist yet
func (t *Tree) Create(p string, content []byte) error {
	if t.Exists(p) {
		return fmt.Errorf("%w: %s", domain.ErrFileExists, p)
	}
	return t.Write(p, content)
}

// Overwrite replaces a file that must already exist
func (t *Tree) Overwrite(p string, content []byte) error {
	if !t.Exists(p) {
		return fmt.Errorf("%w: %s", domain.ErrNotFound, p)
	}
	return t.Write(p, content)
}

// Delete removes a file
func (t *Tree) Delete(p string) error {
	if !t.Exists(p) {
		return fmt.Errorf("%w: %s", domain.ErrNotFound, p)
	}
	p, _ = normalize(p)
	f := t.entry(p)
	f.deleted = true
	f.content = nil
	return nil
}

// Rename moves a file
func (t *Tree) Rename(from, to string) error {
	if _, err := normalize(to); err != nil {
		return err
	}
	content, err := t.Read(from)
	if err != nil {
		return err
	}
	if err := t.Delete(from); err != nil {
		return err
	}
	return t.Write(to, content)
}

// Changes returns the net changes in the order paths were first touched
func (t *Tree) Changes() []domain.FileChange {
	var changes []domain.FileChange
	for _, p := range t.order {
		f := t.staged[p]
		switch {
		case f.deleted && f.existed:
			changes = append(changes, domain.FileChange{Path: p, Type: domain.FileDelete})
		case f.deleted:
		case f.content == nil:
		case f.existed:
			changes = append(changes, domain.FileChange{Path: p, Type: domain.FileUpdate, Content: f.content})
		default:
			changes = append(changes, domain.FileChange{Path: p, Type: domain.FileCreate, Content: f.content})
		}
	}
	return changes
}

// TreeFactoryAdapter creates workspace trees and writes them to disk
type TreeFactoryAdapter struct {
	root string
}

// NewTreeFactoryAdapter creates a new TreeFactoryAdapter
func NewTreeFactoryAdapter(cfg *config.RuntimeConfig) *TreeFactoryAdapter {
	return &TreeFactoryAdapter{root: cfg.WorkspaceRoot}
}

// NewTree returns an empty tree over the workspace root
func (f *TreeFactoryAdapter) NewTree() usecase.Tree {
	return NewTree(f.root)
}

// Flush applies the tree's changes to disk
func (f *TreeFactoryAdapter) Flush(ctx context.Context, tree usecase.Tree) error {
	for _, change := range tree.Changes() {
		full := filepath.Join(tree.Root(), filepath.FromSlash(change.Path))
		switch change.Type {
		case domain.FileDelete:
			if err := os.Remove(full); err != nil && !errors.Is(err, os.ErrNotExist) {
				return fmt.Errorf("failed to delete %s: %w", change.Path, err)
			}
		default:
			if err := os.MkdirAll(filepath.Dir(full), 0755); err != nil {
				return fmt.Errorf("failed to create directory for %s: %w", change.Path, err)
			}
			if err := os.WriteFile(full, change.Content, 0644); err != nil {
				return fmt.Errorf("failed to write %s: %w", change.Path, err)
			}
		}
	}
	return nil
}

// Ensure the adapters implement their ports
var (
	_ usecase.Tree        = (*Tree)(nil)
	_ usecase.TreeFactory = (*TreeFactoryAdapter)(nil)
)

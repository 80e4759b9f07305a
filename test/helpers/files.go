package helpers

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/enio-ireland/nx/internal/adapters/fs"
)

func (w *Workspace) path(p string) string {
	return filepath.Join(w.Root, filepath.FromSlash(p))
}

// UpdateFile creates or overwrites a file in the workspace
func (w *Workspace) UpdateFile(t testing.TB, path, content string) {
	t.Helper()
	full := w.path(path)
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		t.Fatalf("failed to create directory for %s: %v", path, err)
	}
	if err := os.WriteFile(full, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write %s: %v", path, err)
	}
}

// UpdateFileWith rewrites an existing file through fn
func (w *Workspace) UpdateFileWith(t testing.TB, path string, fn func(string) string) {
	t.Helper()
	w.UpdateFile(t, path, fn(w.ReadFile(t, path)))
}

// ReadFile returns the content of a workspace file
func (w *Workspace) ReadFile(t testing.TB, path string) string {
	t.Helper()
	data, err := os.ReadFile(w.path(path))
	if err != nil {
		t.Fatalf("failed to read %s: %v", path, err)
	}
	return string(data)
}

// ReadJSON decodes a workspace file into v
func (w *Workspace) ReadJSON(t testing.TB, path string, v any) {
	t.Helper()
	if err := json.Unmarshal([]byte(w.ReadFile(t, path)), v); err != nil {
		t.Fatalf("failed to parse %s: %v", path, err)
	}
}

// UpdateJSON decodes a workspace file, passes it through fn and writes the
// result back in the CLI's own JSON format
func UpdateJSON[T any](t testing.TB, w *Workspace, path string, fn func(T) T) {
	t.Helper()
	var doc T
	w.ReadJSON(t, path, &doc)
	data, err := fs.MarshalJSON(fn(doc))
	if err != nil {
		t.Fatalf("failed to encode %s: %v", path, err)
	}
	w.UpdateFile(t, path, string(data))
}

// CheckFilesExist returns an error naming every path that is missing
func (w *Workspace) CheckFilesExist(paths ...string) error {
	var errs []error
	for _, p := range paths {
		if _, err := os.Stat(w.path(p)); err != nil {
			errs = append(errs, fmt.Errorf("expected %s to exist", p))
		}
	}
	return errors.Join(errs...)
}

// CheckFilesDoNotExist returns an error naming every path that exists
func (w *Workspace) CheckFilesDoNotExist(paths ...string) error {
	var errs []error
	for _, p := range paths {
		if _, err := os.Stat(w.path(p)); err == nil {
			errs = append(errs, fmt.Errorf("expected %s not to exist", p))
		}
	}
	return errors.Join(errs...)
}

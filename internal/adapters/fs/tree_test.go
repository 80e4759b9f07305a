package fs

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/enio-ireland/nx/internal/domain"
	"github.com/enio-ireland/nx/internal/domain/config"
)

func TestTree_ChangesAndFlush(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "existing.txt", "old")
	writeFile(t, root, "gone.txt", "bye")

	factory := NewTreeFactoryAdapter(config.NewRuntimeConfig(root, "16.5.0"))
	tree := factory.NewTree()

	require.NoError(t, tree.Create("dir/new.txt", []byte("new")))
	require.NoError(t, tree.Overwrite("existing.txt", []byte("updated")))
	require.NoError(t, tree.Delete("gone.txt"))
	require.NoError(t, tree.Write("tmp.txt", []byte("x")))
	require.NoError(t, tree.Delete("tmp.txt"))

	changes := tree.Changes()
	require.Len(t, changes, 3)
	assert.Equal(t, domain.FileChange{Path: "dir/new.txt", Type: domain.FileCreate, Content: []byte("new")}, changes[0])
	assert.Equal(t, domain.FileUpdate, changes[1].Type)
	assert.Equal(t, domain.FileChange{Path: "gone.txt", Type: domain.FileDelete}, changes[2])

	// nothing touches the disk before flush
	_, err := os.Stat(filepath.Join(root, "dir", "new.txt"))
	assert.True(t, os.IsNotExist(err))

	require.NoError(t, factory.Flush(context.Background(), tree))

	data, err := os.ReadFile(filepath.Join(root, "dir", "new.txt"))
	require.NoError(t, err)
	assert.Equal(t, "new", string(data))
	data, err = os.ReadFile(filepath.Join(root, "existing.txt"))
	require.NoError(t, err)
	assert.Equal(t, "updated", string(data))
	_, err = os.Stat(filepath.Join(root, "gone.txt"))
	assert.True(t, os.IsNotExist(err))
}

func TestTree_HostSemantics(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "a.txt", "a")
	tree := NewTree(root)

	assert.ErrorIs(t, tree.Create("a.txt", []byte("again")), domain.ErrFileExists)
	assert.ErrorIs(t, tree.Overwrite("missing.txt", []byte("x")), domain.ErrNotFound)
	assert.ErrorIs(t, tree.Delete("missing.txt"), domain.ErrNotFound)
	assert.Error(t, tree.Create("../escape.txt", nil))

	require.NoError(t, tree.Rename("a.txt", "b/a.txt"))
	assert.False(t, tree.Exists("a.txt"))
	assert.True(t, tree.Exists("b/a.txt"))
	content, err := tree.Read("b/a.txt")
	require.NoError(t, err)
	assert.Equal(t, "a", string(content))
}

func TestTree_PathsOutsideWorkspace(t *testing.T) {
	tree := NewTree(t.TempDir())

	assert.Error(t, tree.Write("../escape.txt", []byte("x")))
	assert.Error(t, tree.Create("a/../../escape.txt", []byte("x")))
	require.NoError(t, tree.Write("inside.txt", []byte("x")))
	assert.Error(t, tree.Rename("inside.txt", "../escape.txt"))

	changes := tree.Changes()
	require.Len(t, changes, 1)
	assert.Equal(t, "inside.txt", changes[0].Path)
}

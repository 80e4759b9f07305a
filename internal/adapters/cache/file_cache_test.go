package cache

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

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

func newTask(root string) *domain.Task {
	project := &domain.ProjectConfiguration{Name: "app", Root: "app"}
	return &domain.Task{
		ID:         domain.TaskID{Project: "app", Target: "build"},
		Project:    project,
		Target:     domain.TargetConfiguration{Command: "echo app", Outputs: []string{"{workspaceRoot}/dist/app"}},
		Cacheable:  true,
		Hash:       "0123456789abcdef",
		ProjectDir: filepath.Join(root, "app"),
	}
}

func TestFileCache_PutGetRestore(t *testing.T) {
	root := t.TempDir()
	cfg := config.NewRuntimeConfig(root, "16.5.0")
	cache := NewFileCacheAdapter(cfg)
	ctx := context.Background()
	task := newTask(root)
	writeFile(t, filepath.Join(root, "dist", "app", "main.js"), "built")

	miss, err := cache.Get(ctx, task.Hash)
	require.NoError(t, err)
	assert.Nil(t, miss)

	err = cache.Put(ctx, task, &domain.TaskResult{Task: task, Status: domain.TaskSuccess, TerminalOutput: "app\n"})
	require.NoError(t, err)
	assert.FileExists(t, filepath.Join(root, ".nx", "cache", "terminalOutputs", task.Hash))
	assert.FileExists(t, filepath.Join(root, ".nx", "cache", task.Hash+".commit"))

	require.NoError(t, os.RemoveAll(filepath.Join(root, "dist")))

	hit, err := cache.Get(ctx, task.Hash)
	require.NoError(t, err)
	require.NotNil(t, hit)
	assert.Equal(t, "app\n", hit.TerminalOutput)
	assert.Equal(t, 0, hit.ExitCode)

	require.NoError(t, cache.RestoreOutputs(ctx, task, hit))
	data, err := os.ReadFile(filepath.Join(root, "dist", "app", "main.js"))
	require.NoError(t, err)
	assert.Equal(t, "built", string(data))

	require.NoError(t, cache.Clear(ctx))
	assert.NoDirExists(t, cfg.CacheDir)
}

func TestFileCache_FailuresAreNotStored(t *testing.T) {
	root := t.TempDir()
	cache := NewFileCacheAdapter(config.NewRuntimeConfig(root, "16.5.0"))
	task := newTask(root)

	err := cache.Put(context.Background(), task, &domain.TaskResult{Task: task, Status: domain.TaskFailure, ExitCode: 1})
	require.NoError(t, err)

	hit, err := cache.Get(context.Background(), task.Hash)
	require.NoError(t, err)
	assert.Nil(t, hit)
}

func TestHasher(t *testing.T) {
	root := t.TempDir()
	cfg := config.NewRuntimeConfig(root, "16.5.0")
	hasher := NewHasherAdapter(cfg)
	ctx := context.Background()
	task := newTask(root)
	writeFile(t, filepath.Join(root, "app", "project.json"), `{"name":"app"}`)

	first, err := hasher.Hash(ctx, task)
	require.NoError(t, err)
	assert.Len(t, first, 16)

	// cache artifacts below the project never change the hash
	writeFile(t, filepath.Join(root, "app", ".nx", "cache", "x"), "noise")
	again, err := hasher.Hash(ctx, task)
	require.NoError(t, err)
	assert.Equal(t, first, again)

	writeFile(t, filepath.Join(root, "app", "src", "index.ts"), "export {}")
	changed, err := hasher.Hash(ctx, task)
	require.NoError(t, err)
	assert.NotEqual(t, first, changed)

	task.Target.Command = "echo other"
	retargeted, err := hasher.Hash(ctx, task)
	require.NoError(t, err)
	assert.NotEqual(t, changed, retargeted)
}

package fs

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/enio-ireland/nx/internal/domain/config"
)

func TestProjectLoader_LoadProjects(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "apps/web/project.json", `{"name":"web","targets":{"echo":{"command":"echo web"}}}`)
	writeFile(t, root, "libs/ui/project.json", `{"targets":{"build":{"executor":"nx:noop"}}}`)
	writeFile(t, root, "node_modules/pkg/project.json", `{"name":"ignored"}`)
	writeFile(t, root, ".nx/installation/node_modules/x/project.json", `{"name":"ignored-too"}`)

	loader := NewProjectLoaderAdapter(config.NewRuntimeConfig(root, "16.5.0"))
	projects, err := loader.LoadProjects(context.Background())

	require.NoError(t, err)
	require.Len(t, projects, 2)
	assert.Equal(t, "ui", projects[0].Name)
	assert.Equal(t, "libs/ui", projects[0].Root)
	assert.Equal(t, "web", projects[1].Name)
	assert.Equal(t, "echo web", projects[1].Targets["echo"].Command)
}

func TestProjectLoader_DuplicateNames(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "a/project.json", `{"name":"same"}`)
	writeFile(t, root, "b/project.json", `{"name":"same"}`)

	loader := NewProjectLoaderAdapter(config.NewRuntimeConfig(root, "16.5.0"))
	_, err := loader.LoadProjects(context.Background())

	require.Error(t, err)
	assert.Contains(t, err.Error(), `"same"`)
}

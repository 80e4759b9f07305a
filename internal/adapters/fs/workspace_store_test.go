package fs

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/enio-ireland/nx/internal/domain"
	"github.com/enio-ireland/nx/internal/domain/config"
)

func newTestWorkspaceStore(t *testing.T) (*WorkspaceStoreAdapter, string) {
	t.Helper()
	root := t.TempDir()
	return NewWorkspaceStoreAdapter(config.NewRuntimeConfig(root, "16.5.0")), root
}

func writeFile(t *testing.T, root, rel, content string) {
	t.Helper()
	full := filepath.Join(root, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(full), 0755))
	require.NoError(t, os.WriteFile(full, []byte(content), 0644))
}

func TestWorkspaceStore_UpdateNxJSONPreservesUnknownKeys(t *testing.T) {
	store, root := newTestWorkspaceStore(t)
	ctx := context.Background()
	writeFile(t, root, "nx.json", `{
  "installation": {"version": "16.5.0", "plugins": {}},
  "npmScope": "proj",
  "big": 9007199254740993,
  "targetDefaults": {"build": {"dependsOn": ["^build"]}}
}`)

	err := store.UpdateNxJSON(ctx, func(doc *domain.NxJSON) error {
		doc.SetPlugin("@nrwl/nest", "16.5.0")
		return nil
	})
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(root, "nx.json"))
	require.NoError(t, err)
	var raw map[string]any
	require.NoError(t, json.Unmarshal(data, &raw))
	assert.Equal(t, "proj", raw["npmScope"])
	assert.Contains(t, raw, "targetDefaults")
	assert.Contains(t, string(data), `"big": 9007199254740993`)
	assert.Equal(t, byte('\n'), data[len(data)-1])

	doc, err := store.ReadNxJSON(ctx)
	require.NoError(t, err)
	assert.Equal(t, "16.5.0", doc.Installation().Plugins["@nrwl/nest"])
}

func TestWorkspaceStore_MissingDocuments(t *testing.T) {
	store, _ := newTestWorkspaceStore(t)
	ctx := context.Background()

	assert.False(t, store.NxJSONExists())
	_, err := store.ReadNxJSON(ctx)
	assert.ErrorIs(t, err, domain.ErrWorkspaceNotFound)
	_, err = store.ReadRootPackageJSON(ctx)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, err = store.ReadJournal(ctx, "migrations.json")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestWorkspaceStore_Journal(t *testing.T) {
	store, root := newTestWorkspaceStore(t)
	ctx := context.Background()
	journal := &domain.MigrationsJournal{Migrations: []domain.MigrationRecord{
		{Package: "p", Version: "1.1.0", Name: "run11"},
		{Package: "p", Version: "2.0.0", Name: "run20", CLI: "nx"},
	}}

	require.NoError(t, store.WriteJournal(ctx, "migrations.json", journal))

	data, err := os.ReadFile(filepath.Join(root, "migrations.json"))
	require.NoError(t, err)
	assert.Contains(t, string(data), `"cli": "nx"`)
	assert.NotContains(t, string(data), "description")

	read, err := store.ReadJournal(ctx, "migrations.json")
	require.NoError(t, err)
	assert.Equal(t, journal, read)
}

func TestWorkspaceStore_UpdateRootDependencies(t *testing.T) {
	store, root := newTestWorkspaceStore(t)
	ctx := context.Background()
	writeFile(t, root, "package.json", `{"name":"root","private":true,"devDependencies":{"nx":"16.0.0"}}`)

	require.NoError(t, store.UpdateRootDependencies(ctx, map[string]string{"nx": "16.5.0", "jest": "29.0.0"}))

	pkg, err := store.ReadRootPackageJSON(ctx)
	require.NoError(t, err)
	assert.Equal(t, "16.5.0", pkg.DevDependencies["nx"])
	assert.Equal(t, "29.0.0", pkg.Dependencies["jest"])
}

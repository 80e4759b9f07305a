package test

import (
	"regexp"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/enio-ireland/nx/internal/adapters/registry"
	"github.com/enio-ireland/nx/internal/cli/render"
	"github.com/enio-ireland/nx/internal/domain"
	"github.com/enio-ireland/nx/test/helpers"
)

// The subtests share one workspace and run in order: later steps depend on
// the plugins and projects configured by earlier ones.
func TestEncapsulatedWorkspace(t *testing.T) {
	w := helpers.NewEncapsulatedWorkspace(t)
	t.Cleanup(func() { w.Cleanup(t, helpers.CleanupOptions{SkipReset: true}) })

	version := helpers.PublishedVersion()

	t.Run("caches task output without a root node_modules", func(t *testing.T) {
		w.UpdateFile(t, "projects/a/project.json",
			`{"name":"a","targets":{"echo":{"command":"echo 'Hello from A'"}}}`)
		helpers.UpdateJSON(t, w, "nx.json", func(n *domain.NxJSON) *domain.NxJSON {
			n.SetCacheableOperations([]string{"echo"})
			n.SetPlugin("@nrwl/nest", version)
			return n
		})

		out := w.Run(t, "echo a")
		assert.Contains(t, out, "Hello from A")

		out = w.Run(t, "echo a")
		assert.Contains(t, out, "Nx read the output from the cache instead of running the command for 1 out of 1 tasks")

		assert.NoError(t, w.CheckFilesDoNotExist(
			"node_modules",
			"package.json",
			"package-lock.json",
			"yarn.lock",
			"yarn-lock.json",
			"pnpm-lock.yaml",
		))
		assert.NoError(t, w.CheckFilesExist(
			".nx/installation/package.json",
			".nx/installation/package-lock.json",
			".nx/cache/terminalOutputs",
		))
	})

	t.Run("edited targets miss the cache", func(t *testing.T) {
		w.UpdateFileWith(t, "projects/a/project.json", func(content string) string {
			return strings.ReplaceAll(content, "Hello from A", "Bye from A")
		})

		out := w.Run(t, "echo a")
		assert.Contains(t, out, "Bye from A")
		assert.NotContains(t, out, "Nx read the output from the cache")
	})

	t.Run("report lists installed plugins", func(t *testing.T) {
		out := helpers.Normalize(w.Run(t, "report"), helpers.GetDefaultNormalizers())
		assert.Regexp(t, regexp.MustCompile(`nx\s*:\s*`+regexp.QuoteMeta(version)), out)
		assert.Regexp(t, regexp.MustCompile(`@nrwl/nest\s*:\s*`+regexp.QuoteMeta(version)), out)
		assert.NotContains(t, out, "@nrwl/express")
	})

	t.Run("list shows installed plugins and their capabilities", func(t *testing.T) {
		out := w.Run(t, "list", helpers.WithEnv(map[string]string{"FORCE_COLOR": "true"}))

		start := strings.Index(out, "Installed plugins")
		end := strings.Index(out, "Also available")
		require.True(t, start >= 0 && end > start, "unexpected list output:\n%s", out)
		installed := out[start:end]

		bold := render.Styler{Enabled: true}.Bold
		assert.Contains(t, installed, bold("nx"))
		assert.Contains(t, installed, bold("@nrwl/nest"))

		out = w.Run(t, "list @nrwl/nest")
		assert.Contains(t, out, "Capabilities in @nrwl/nest")
	})

	t.Run("generates a package from an installed plugin", func(t *testing.T) {
		helpers.UpdateJSON(t, w, "nx.json", func(n *domain.NxJSON) *domain.NxJSON {
			n.SetPlugin("@nrwl/workspace", version)
			return n
		})

		_, err := w.Exec(t, "g npm-package "+helpers.Uniq("pkg"))
		assert.NoError(t, err)
	})

	t.Run("migrates packages and runs the recorded migrations", func(t *testing.T) {
		modules := ".nx/installation/node_modules/"
		w.UpdateFile(t, modules+"migrate-parent-package/package.json",
			`{"name":"migrate-parent-package","version":"1.0.0","nx-migrations":"./migrations.json"}`)
		w.UpdateFile(t, modules+"migrate-parent-package/migrations.json", `{
  "schematics": {
    "run11": {"version": "1.1.0", "description": "1.1.0", "factory": "./run11"},
    "run20": {"version": "2.0.0", "description": "2.0.0", "implementation": "./run20"}
  }
}`)
		w.UpdateFile(t, modules+"migrate-parent-package/run11.nxm", "create file-11 content11\n")
		w.UpdateFile(t, modules+"migrate-parent-package/run20.nxm", "write file-20 content20\n")
		w.UpdateFile(t, modules+"migrate-child-package/package.json",
			`{"name":"migrate-child-package","version":"1.0.0"}`)

		helpers.UpdateJSON(t, w, "nx.json", func(n *domain.NxJSON) *domain.NxJSON {
			n.SetInstallation(domain.Installation{
				Version: version,
				Plugins: map[string]string{"migrate-child-package": "1.0.0"},
			})
			return n
		})

		fetcher := &registry.StaticFetcher{
			Packages: map[string]*domain.MigrationMetadata{
				"migrate-parent-package": {
					Version: "2.0.0",
					Generators: domain.MigrationEntries{
						{Name: "run11", Version: "1.1.0"},
						{Name: "run20", Version: "2.0.0", CLI: "nx"},
					},
					PackageJSONUpdates: map[string]domain.PackageJSONUpdate{
						"run-11": {
							Version: "1.1.0",
							Packages: map[string]domain.PackageUpdate{
								"migrate-child-package": {Version: "9.0.0", AlwaysAddToPackageJSON: false},
							},
						},
					},
				},
			},
			Default: &domain.MigrationMetadata{Version: "9.0.0"},
		}
		env := helpers.WithEnv(map[string]string{
			"NX_WRAPPER_SKIP_INSTALL": "true",
			"NX_MIGRATE_SKIP_INSTALL": "true",
			"NX_MIGRATE_USE_LOCAL":    "true",
		})

		w.Run(t, `migrate migrate-parent-package@2.0.0 --from="migrate-parent-package@1.0.0"`,
			env, helpers.WithMigrationFetcher(fetcher))

		var nxJSON domain.NxJSON
		w.ReadJSON(t, "nx.json", &nxJSON)
		assert.Equal(t, "9.0.0", nxJSON.Installation().Plugins["migrate-child-package"])

		var journal domain.MigrationsJournal
		w.ReadJSON(t, domain.DefaultJournalFile, &journal)
		want := []domain.MigrationRecord{
			{Package: "migrate-parent-package", Version: "1.1.0", Name: "run11"},
			{Package: "migrate-parent-package", Version: "2.0.0", Name: "run20", CLI: "nx"},
		}
		if diff := cmp.Diff(want, journal.Migrations); diff != "" {
			t.Errorf("journal mismatch (-want +got):\n%s", diff)
		}

		w.Run(t, "migrate --run-migrations=migrations.json", env)

		assert.Equal(t, "content11", w.ReadFile(t, "file-11"))
		assert.Equal(t, "content20", w.ReadFile(t, "file-20"))
	})
}

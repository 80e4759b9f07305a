package usecase

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/enio-ireland/nx/internal/domain"
)

// RunMigrationsParams contains parameters for the execute phase
type RunMigrationsParams struct {
	JournalFile string
}

// AppliedMigration is a journal record together with what it changed
type AppliedMigration struct {
	Record  domain.MigrationRecord
	Changes []domain.FileChange
	Log     string
}

// RunMigrationsResult lists the migrations in the order they ran
type RunMigrationsResult struct {
	JournalFile string
	Applied     []AppliedMigration
}

// RunMigrations is the use case behind `nx migrate --run-migrations`
type RunMigrations struct {
	store  WorkspaceStore
	source MigrationSource
	engine MigrationEngine
	trees  TreeFactory
	sink   ProgressSink
	log    *slog.Logger
}

// NewRunMigrations creates a new RunMigrations use case
func NewRunMigrations(
	store WorkspaceStore,
	source MigrationSource,
	engine MigrationEngine,
	trees TreeFactory,
	sink ProgressSink,
	log *slog.Logger,
) *RunMigrations {
	return &RunMigrations{
		store:  store,
		source: source,
		engine: engine,
		trees:  trees,
		sink:   sink,
		log:    log,
	}
}

// Run executes every migration listed in the journal, flushing the changes of
// each one before starting the next
func (uc *RunMigrations) Run(ctx context.Context, params RunMigrationsParams) (*RunMigrationsResult, error) {
	journalFile := params.JournalFile
	if journalFile == "" {
		journalFile = domain.DefaultJournalFile
	}
	journal, err := uc.store.ReadJournal(ctx, journalFile)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", journalFile, err)
	}

	manifests := map[string]*LoadedMigrations{}
	result := &RunMigrationsResult{JournalFile: journalFile}
	for i, record := range journal.Migrations {
		loaded, ok := manifests[record.Package]
		if !ok {
			loaded, err = uc.source.Load(ctx, record.Package)
			if err != nil {
				return nil, fmt.Errorf("failed to load migrations of %s: %w", record.Package, err)
			}
			manifests[record.Package] = loaded
		}

		entry, ok := loaded.Manifest.Find(record.Name)
		if !ok {
			return nil, fmt.Errorf("%w: migration %q in %s", domain.ErrNotFound, record.Name, record.Package)
		}
		ref, kind := entry.Module()
		if ref == "" {
			return nil, fmt.Errorf("migration %s:%s has neither implementation nor factory", record.Package, record.Name)
		}

		uc.sink.OnProgress(ctx, ProgressEvent{
			Stage:   StageMigrating,
			Current: i + 1,
			Total:   len(journal.Migrations),
			Message: fmt.Sprintf("Running migration %s: %s", record.Package, record.Name),
		})

		tree := uc.trees.NewTree()
		var out bytes.Buffer
		modulePath := filepath.Join(loaded.ManifestDir, filepath.FromSlash(ref))
		uc.log.Debug("running migration", "package", record.Package, "name", record.Name, "module", modulePath, "kind", kind)
		if err := uc.engine.Run(ctx, modulePath, kind, tree, &out); err != nil {
			return nil, fmt.Errorf("migration %s:%s failed: %w", record.Package, record.Name, err)
		}
		if err := uc.trees.Flush(ctx, tree); err != nil {
			return nil, fmt.Errorf("failed to write changes of %s:%s: %w", record.Package, record.Name, err)
		}

		result.Applied = append(result.Applied, AppliedMigration{
			Record:  record,
			Changes: tree.Changes(),
			Log:     out.String(),
		})
	}
	return result, nil
}

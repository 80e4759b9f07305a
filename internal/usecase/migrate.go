package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/samber/lo"

	"github.com/enio-ireland/nx/internal/domain"
	"github.com/enio-ireland/nx/internal/domain/config"
)

// MigrateParams contains parameters for the resolve phase of a migration
type MigrateParams struct {
	// Target is "<pkg>[@<version>]" or a bare version meaning nx@<version>
	Target      string
	From        string
	To          string
	JournalFile string
}

// PackageVersionUpdate is a version bump applied to the workspace
type PackageVersionUpdate struct {
	Package string
	From    string
	To      string
}

// MigrateResult contains what the resolve phase decided and wrote
type MigrateResult struct {
	Package     string
	Version     string
	Updates     []PackageVersionUpdate
	Migrations  []domain.MigrationRecord
	JournalFile string
	Installed   bool
}

// Migrate is the use case behind `nx migrate <pkg>@<version>`
type Migrate struct {
	config  *config.RuntimeConfig
	store   WorkspaceStore
	fetcher MigrationFetcher
	install *EnsureInstallation
	log     *slog.Logger
}

// NewMigrate creates a new Migrate use case
func NewMigrate(
	cfg *config.RuntimeConfig,
	store WorkspaceStore,
	fetcher MigrationFetcher,
	install *EnsureInstallation,
	log *slog.Logger,
) *Migrate {
	return &Migrate{
		config:  cfg,
		store:   store,
		fetcher: fetcher,
		install: install,
		log:     log,
	}
}

// migrationCollector accumulates updates and migrations while walking
// packageJsonUpdates recursively
type migrationCollector struct {
	from      map[string]string
	to        map[string]string
	installed map[string]string
	visited   map[string]bool
	order     []string
	updates   map[string]string
	records   []domain.MigrationRecord
}

// Run fetches migration metadata, updates the workspace versions and writes
// the migrations journal
func (uc *Migrate) Run(ctx context.Context, params MigrateParams) (*MigrateResult, error) {
	target, err := parseMigrateTarget(params.Target)
	if err != nil {
		return nil, err
	}
	from, err := domain.ParsePackageSpecifierList(params.From)
	if err != nil {
		return nil, fmt.Errorf("invalid --from: %w", err)
	}
	to, err := domain.ParsePackageSpecifierList(params.To)
	if err != nil {
		return nil, fmt.Errorf("invalid --to: %w", err)
	}
	if v, ok := to[target.Name]; ok && target.Version == "latest" {
		target.Version = v
	}

	var nxJSON *domain.NxJSON
	if uc.store.NxJSONExists() {
		if nxJSON, err = uc.store.ReadNxJSON(ctx); err != nil {
			return nil, err
		}
	}
	installed, err := uc.installedVersions(ctx, nxJSON)
	if err != nil {
		return nil, err
	}

	c := &migrationCollector{
		from:      from,
		to:        to,
		installed: installed,
		visited:   map[string]bool{},
		updates:   map[string]string{},
	}
	if err := uc.collect(ctx, c, target.Name, target.Version, true); err != nil {
		return nil, err
	}

	result := &MigrateResult{
		Package:    target.Name,
		Version:    c.updates[target.Name],
		Migrations: c.records,
	}
	for _, name := range c.order {
		result.Updates = append(result.Updates, PackageVersionUpdate{
			Package: name,
			From:    c.currentVersion(name),
			To:      c.updates[name],
		})
	}

	if err := uc.applyUpdates(ctx, nxJSON, c.updates); err != nil {
		return nil, err
	}

	if len(c.records) > 0 {
		journal := params.JournalFile
		if journal == "" {
			journal = domain.DefaultJournalFile
		}
		if err := uc.store.WriteJournal(ctx, journal, &domain.MigrationsJournal{Migrations: c.records}); err != nil {
			return nil, fmt.Errorf("failed to write %s: %w", journal, err)
		}
		result.JournalFile = journal
	}

	if uc.config.MigrateSkipInstall {
		uc.log.Debug("skipping installation", "reason", "NX_MIGRATE_SKIP_INSTALL")
		return result, nil
	}
	if _, err := uc.install.Run(ctx); err != nil {
		return nil, err
	}
	result.Installed = true
	return result, nil
}

// collect fetches a package's metadata and records its migrations and the
// package updates it requests
func (uc *Migrate) collect(ctx context.Context, c *migrationCollector, pkg, version string, root bool) error {
	if c.visited[pkg] {
		return nil
	}
	c.visited[pkg] = true

	uc.log.Debug("fetching migrations", "package", pkg, "version", version)
	meta, err := uc.fetcher.Fetch(ctx, pkg, version)
	if err != nil {
		return fmt.Errorf("failed to fetch %s@%s: %w", pkg, version, err)
	}

	target := meta.Version
	if v, ok := c.to[pkg]; ok {
		target = v
	}
	current := c.currentVersion(pkg)
	if root || current == "" || domain.CompareVersions(target, current) > 0 {
		c.setUpdate(pkg, target)
	}

	if current == "" {
		uc.log.Debug("no installed version, skipping migrations", "package", pkg)
	}

	gens := lo.Filter(meta.Generators, func(e domain.MigrationEntry, _ int) bool {
		return inRange(e.Version, current, target)
	})
	sort.SliceStable(gens, func(i, j int) bool {
		return domain.CompareVersions(gens[i].Version, gens[j].Version) < 0
	})
	for _, g := range gens {
		c.records = append(c.records, domain.MigrationRecord{
			Package:     pkg,
			Version:     g.Version,
			Name:        g.Name,
			Description: g.Description,
			CLI:         g.CLI,
		})
	}

	keys := lo.Keys(meta.PackageJSONUpdates)
	sort.SliceStable(keys, func(i, j int) bool {
		a, b := meta.PackageJSONUpdates[keys[i]], meta.PackageJSONUpdates[keys[j]]
		if cmp := domain.CompareVersions(a.Version, b.Version); cmp != 0 {
			return cmp < 0
		}
		return keys[i] < keys[j]
	})

	var next []string
	for _, key := range keys {
		update := meta.PackageJSONUpdates[key]
		if !inRange(update.Version, current, target) {
			continue
		}
		names := lo.Keys(update.Packages)
		sort.Strings(names)
		for _, name := range names {
			pu := update.Packages[name]
			if pu.IfPackageInstalled != "" && c.currentVersion(pu.IfPackageInstalled) == "" {
				continue
			}
			if c.currentVersion(name) == "" && !pu.AlwaysAddToPackageJSON {
				continue
			}
			c.setUpdate(name, pu.Version)
			next = append(next, name)
		}
	}

	for _, name := range lo.Uniq(next) {
		if err := uc.collect(ctx, c, name, c.updates[name], false); err != nil {
			return err
		}
	}
	return nil
}

func (c *migrationCollector) currentVersion(pkg string) string {
	if v, ok := c.from[pkg]; ok {
		return v
	}
	return c.installed[pkg]
}

func (c *migrationCollector) setUpdate(pkg, version string) {
	if _, ok := c.updates[pkg]; !ok {
		c.order = append(c.order, pkg)
	}
	c.updates[pkg] = version
}

// installedVersions maps package names to the versions the workspace declares
func (uc *Migrate) installedVersions(ctx context.Context, nxJSON *domain.NxJSON) (map[string]string, error) {
	if nxJSON != nil {
		if inst := nxJSON.Installation(); inst != nil {
			return inst.Packages(), nil
		}
	}

	pkg, err := uc.store.ReadRootPackageJSON(ctx)
	if errors.Is(err, domain.ErrNotFound) {
		return map[string]string{}, nil
	}
	if err != nil {
		return nil, err
	}
	versions := make(map[string]string, len(pkg.Dependencies)+len(pkg.DevDependencies))
	for name, v := range pkg.DevDependencies {
		versions[name] = v
	}
	for name, v := range pkg.Dependencies {
		versions[name] = v
	}
	return versions, nil
}

// applyUpdates writes the new versions into nx.json for encapsulated
// workspaces and into the root package.json otherwise
func (uc *Migrate) applyUpdates(ctx context.Context, nxJSON *domain.NxJSON, updates map[string]string) error {
	if len(updates) == 0 {
		return nil
	}
	if nxJSON != nil && nxJSON.Installation() != nil {
		return uc.store.UpdateNxJSON(ctx, func(doc *domain.NxJSON) error {
			inst := doc.Installation()
			for name, version := range updates {
				if name == "nx" {
					doc.SetInstallationVersion(version)
					continue
				}
				if _, ok := inst.Plugins[name]; ok {
					doc.SetPlugin(name, version)
				}
			}
			return nil
		})
	}
	return uc.store.UpdateRootDependencies(ctx, updates)
}

// parseMigrateTarget accepts "<pkg>[@<version>]", a bare version or nothing
func parseMigrateTarget(arg string) (domain.PackageSpecifier, error) {
	arg = strings.TrimSpace(arg)
	if arg == "" {
		return domain.PackageSpecifier{Name: "nx", Version: "latest"}, nil
	}
	if arg == "latest" || arg == "next" {
		return domain.PackageSpecifier{Name: "nx", Version: arg}, nil
	}
	if _, err := domain.ParseVersion(arg); err == nil {
		return domain.PackageSpecifier{Name: "nx", Version: arg}, nil
	}
	return domain.ParsePackageSpecifier(arg)
}

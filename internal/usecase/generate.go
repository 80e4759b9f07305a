package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/samber/lo"

	"github.com/enio-ireland/nx/internal/domain"
	"github.com/enio-ireland/nx/internal/domain/config"
)

// GenerateParams contains parameters for running a generator
type GenerateParams struct {
	// Generator is "<generator>" or "<plugin>:<generator>"
	Generator string
	Name      string
	Directory string
	DryRun    bool
	Extra     map[string]string
}

// GenerateResult contains the changes a generator made
type GenerateResult struct {
	Plugin    string
	Generator string
	Changes   []domain.FileChange
	DryRun    bool
}

// Generate is the use case behind `nx generate`
type Generate struct {
	config    *config.RuntimeConfig
	installer Installer
	catalog   PluginCatalog
	trees     TreeFactory
	runner    GeneratorRunner
	prompter  Prompter
	log       *slog.Logger
}

// NewGenerate creates a new Generate use case
func NewGenerate(
	cfg *config.RuntimeConfig,
	installer Installer,
	catalog PluginCatalog,
	trees TreeFactory,
	runner GeneratorRunner,
	prompter Prompter,
	log *slog.Logger,
) *Generate {
	return &Generate{
		config:    cfg,
		installer: installer,
		catalog:   catalog,
		trees:     trees,
		runner:    runner,
		prompter:  prompter,
		log:       log,
	}
}

// Run resolves the generator against the installed plugins, renders it into
// a staging tree and flushes the tree unless this is a dry run
func (uc *Generate) Run(ctx context.Context, params GenerateParams) (*GenerateResult, error) {
	if params.Generator == "" {
		return nil, fmt.Errorf("%w: a generator name is required", domain.ErrGeneratorNotFound)
	}

	plugin, generator, err := uc.resolve(ctx, params.Generator)
	if err != nil {
		return nil, err
	}

	name := params.Name
	if name == "" {
		if uc.config.NonInteractive {
			return nil, fmt.Errorf("generator %s:%s requires a name", plugin, generator)
		}
		name, err = uc.prompter.Prompt(ctx, "What name would you like to use?", func(s string) error {
			if strings.TrimSpace(s) == "" {
				return errors.New("name cannot be empty")
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
	}

	tree := uc.trees.NewTree()
	uc.log.Debug("running generator", "plugin", plugin, "generator", generator, "name", name)
	err = uc.runner.Generate(ctx, plugin, generator, tree, GeneratorOptions{
		Name:      name,
		Directory: params.Directory,
		Extra:     params.Extra,
	})
	if err != nil {
		return nil, fmt.Errorf("generator %s:%s failed: %w", plugin, generator, err)
	}

	result := &GenerateResult{
		Plugin:    plugin,
		Generator: generator,
		Changes:   tree.Changes(),
		DryRun:    params.DryRun,
	}
	if params.DryRun {
		return result, nil
	}
	if err := uc.trees.Flush(ctx, tree); err != nil {
		return nil, fmt.Errorf("failed to write generated files: %w", err)
	}
	return result, nil
}

// resolve finds the plugin providing the generator
func (uc *Generate) resolve(ctx context.Context, spec string) (string, string, error) {
	installed, err := installedCapabilities(ctx, uc.installer)
	if err != nil {
		return "", "", err
	}

	if idx := strings.LastIndex(spec, ":"); idx > 0 {
		plugin, generator := spec[:idx], spec[idx+1:]
		caps, ok := lo.Find(installed, func(p *domain.PluginCapabilities) bool { return p.Name == plugin })
		if !ok {
			if _, known := uc.catalog.Plugin(plugin); known {
				return "", "", fmt.Errorf("plugin %s is not installed, add it to installation.plugins in nx.json", plugin)
			}
			names := lo.Map(installed, func(p *domain.PluginCapabilities, _ int) string { return p.Name })
			return "", "", &domain.UnknownPluginError{Name: plugin, Suggestions: suggestions(plugin, names)}
		}
		if !caps.HasGenerator(generator) {
			names := lo.Map(caps.Generators, func(c domain.Capability, _ int) string { return c.Name })
			return "", "", fmt.Errorf("%w: %s:%s%s", domain.ErrGeneratorNotFound, plugin, generator, didYouMean(generator, names))
		}
		return plugin, generator, nil
	}

	candidates := lo.FilterMap(installed, func(p *domain.PluginCapabilities, _ int) (string, bool) {
		return p.Name, p.HasGenerator(spec)
	})
	switch len(candidates) {
	case 0:
		var all []string
		for _, p := range installed {
			for _, g := range p.Generators {
				all = append(all, g.Name)
			}
		}
		return "", "", fmt.Errorf("%w: %s%s", domain.ErrGeneratorNotFound, spec, didYouMean(spec, lo.Uniq(all)))
	case 1:
		return candidates[0], spec, nil
	}

	if uc.config.NonInteractive {
		return "", "", &domain.AmbiguousGeneratorError{Generator: spec, Candidates: candidates}
	}
	items := lo.Map(candidates, func(c string, _ int) string { return c + ":" + spec })
	idx, err := uc.prompter.Select(ctx, "Which generator would you like to use?", items)
	if err != nil {
		return "", "", err
	}
	return candidates[idx], spec, nil
}

package usecase_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/enio-ireland/nx/internal/domain"
	"github.com/enio-ireland/nx/internal/usecase"
)

func workspacePlugin() *domain.PluginCapabilities {
	return &domain.PluginCapabilities{
		Name:    "@nrwl/workspace",
		Version: "16.5.0",
		Generators: []domain.Capability{
			{Name: "npm-package"},
			{Name: "library"},
		},
	}
}

func nestPlugin() *domain.PluginCapabilities {
	return &domain.PluginCapabilities{
		Name:    "@nrwl/nest",
		Version: "16.5.0",
		Generators: []domain.Capability{
			{Name: "application"},
			{Name: "library"},
		},
	}
}

func installerWith(plugins ...*domain.PluginCapabilities) *MockInstaller {
	installer := new(MockInstaller)
	var pkgs []domain.InstalledPackage
	for _, p := range plugins {
		pkg := domain.InstalledPackage{Name: p.Name, Version: p.Version}
		pkgs = append(pkgs, pkg)
		installer.On("Capabilities", mock.Anything, pkg).Return(p, nil)
		installer.On("InstalledPackage", mock.Anything, p.Name).Return(&pkg, nil)
	}
	installer.On("Installed", mock.Anything).Return(pkgs, nil)
	return installer
}

func TestGenerate(t *testing.T) {
	ctx := context.Background()
	catalog := fakeCatalog{"@nrwl/workspace": workspacePlugin(), "@nrwl/nest": nestPlugin()}

	t.Run("bare generator name resolves to the only provider", func(t *testing.T) {
		runner := new(MockGeneratorRunner)
		runner.On("Generate", mock.Anything, "@nrwl/workspace", "npm-package", mock.Anything, usecase.GeneratorOptions{Name: "pkg"}).
			Run(func(args mock.Arguments) {
				_ = args.Get(3).(usecase.Tree).Write("pkg/package.json", []byte("{}"))
			}).Return(nil)
		trees := &fakeTreeFactory{}

		uc := usecase.NewGenerate(testConfig(), installerWith(workspacePlugin(), nestPlugin()), catalog, trees, runner, new(MockPrompter), discardLogger())
		result, err := uc.Run(ctx, usecase.GenerateParams{Generator: "npm-package", Name: "pkg"})

		require.NoError(t, err)
		assert.Equal(t, "@nrwl/workspace", result.Plugin)
		assert.Len(t, result.Changes, 1)
		assert.Equal(t, 1, trees.flushed)
	})

	t.Run("dry run does not flush", func(t *testing.T) {
		runner := new(MockGeneratorRunner)
		runner.On("Generate", mock.Anything, "@nrwl/nest", "library", mock.Anything, mock.Anything).Return(nil)
		trees := &fakeTreeFactory{}

		uc := usecase.NewGenerate(testConfig(), installerWith(workspacePlugin(), nestPlugin()), catalog, trees, runner, new(MockPrompter), discardLogger())
		result, err := uc.Run(ctx, usecase.GenerateParams{Generator: "@nrwl/nest:library", Name: "lib", DryRun: true})

		require.NoError(t, err)
		assert.True(t, result.DryRun)
		assert.Zero(t, trees.flushed)
	})

	t.Run("ambiguous generator without a terminal", func(t *testing.T) {
		uc := usecase.NewGenerate(testConfig(), installerWith(workspacePlugin(), nestPlugin()), catalog, &fakeTreeFactory{}, new(MockGeneratorRunner), new(MockPrompter), discardLogger())
		_, err := uc.Run(ctx, usecase.GenerateParams{Generator: "library", Name: "lib"})

		var ambiguous *domain.AmbiguousGeneratorError
		require.ErrorAs(t, err, &ambiguous)
		assert.ElementsMatch(t, []string{"@nrwl/workspace", "@nrwl/nest"}, ambiguous.Candidates)
	})

	t.Run("ambiguous generator prompts when interactive", func(t *testing.T) {
		cfg := testConfig()
		cfg.NonInteractive = false
		prompter := new(MockPrompter)
		prompter.On("Select", mock.Anything, mock.Anything, []string{"@nrwl/nest:library", "@nrwl/workspace:library"}).Return(1, nil)
		runner := new(MockGeneratorRunner)
		runner.On("Generate", mock.Anything, "@nrwl/workspace", "library", mock.Anything, mock.Anything).Return(nil)

		uc := usecase.NewGenerate(cfg, installerWith(workspacePlugin(), nestPlugin()), catalog, &fakeTreeFactory{}, runner, prompter, discardLogger())
		result, err := uc.Run(ctx, usecase.GenerateParams{Generator: "library", Name: "lib"})

		require.NoError(t, err)
		assert.Equal(t, "@nrwl/workspace", result.Plugin)
	})

	t.Run("catalog plugin that is not installed", func(t *testing.T) {
		uc := usecase.NewGenerate(testConfig(), installerWith(workspacePlugin()), catalog, &fakeTreeFactory{}, new(MockGeneratorRunner), new(MockPrompter), discardLogger())
		_, err := uc.Run(ctx, usecase.GenerateParams{Generator: "@nrwl/nest:application", Name: "api"})

		require.Error(t, err)
		assert.Contains(t, err.Error(), "not installed")
	})

	t.Run("unknown generator", func(t *testing.T) {
		uc := usecase.NewGenerate(testConfig(), installerWith(workspacePlugin()), catalog, &fakeTreeFactory{}, new(MockGeneratorRunner), new(MockPrompter), discardLogger())
		_, err := uc.Run(ctx, usecase.GenerateParams{Generator: "npm-pakage", Name: "x"})

		require.ErrorIs(t, err, domain.ErrGeneratorNotFound)
		assert.Contains(t, err.Error(), "npm-package")
	})

	t.Run("missing name without a terminal", func(t *testing.T) {
		uc := usecase.NewGenerate(testConfig(), installerWith(workspacePlugin()), catalog, &fakeTreeFactory{}, new(MockGeneratorRunner), new(MockPrompter), discardLogger())
		_, err := uc.Run(ctx, usecase.GenerateParams{Generator: "npm-package"})

		require.Error(t, err)
		assert.Contains(t, err.Error(), "requires a name")
	})
}

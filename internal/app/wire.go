//go:build wireinject
// +build wireinject

package app

import (
	"github.com/google/wire"
	"github.com/spf13/viper"

	"github.com/enio-ireland/nx/internal/adapters"
	"github.com/enio-ireland/nx/internal/adapters/registry"
	"github.com/enio-ireland/nx/internal/config"
	"github.com/enio-ireland/nx/internal/logging"
	"github.com/enio-ireland/nx/internal/usecase"
)

// InitApp creates a fully wired App instance
func InitApp(v *viper.Viper, overrides config.Overrides, sink usecase.ProgressSink, fetcher registry.FetcherOverride) (*App, error) {
	wire.Build(
		config.Provider,
		logging.LoggingSet,

		// Adapters
		adapters.AllAdapters,

		// Use cases
		usecase.NewEnsureInstallation,
		usecase.NewInitWorkspace,
		usecase.NewRunTasks,
		usecase.NewShowProjects,
		usecase.NewResetCache,
		usecase.NewReport,
		usecase.NewListPlugins,
		usecase.NewListCapabilities,
		usecase.NewGenerate,
		usecase.NewMigrate,
		usecase.NewRunMigrations,

		// App
		NewApp,
	)
	return nil, nil
}

package app

import (
	"github.com/enio-ireland/nx/internal/domain/config"
	"github.com/enio-ireland/nx/internal/usecase"
)

// App is the main application container that holds all use cases
type App struct {
	// Configuration
	Config *config.RuntimeConfig

	// Use cases
	EnsureInstallation *usecase.EnsureInstallation
	InitWorkspace      *usecase.InitWorkspace
	RunTasks           *usecase.RunTasks
	ShowProjects       *usecase.ShowProjects
	ResetCache         *usecase.ResetCache
	Report             *usecase.Report
	ListPlugins        *usecase.ListPlugins
	ListCapabilities   *usecase.ListCapabilities
	Generate           *usecase.Generate
	Migrate            *usecase.Migrate
	RunMigrations      *usecase.RunMigrations
}

// NewApp creates a new application instance with all use cases
func NewApp(
	cfg *config.RuntimeConfig,
	ensureInstallation *usecase.EnsureInstallation,
	initWorkspace *usecase.InitWorkspace,
	runTasks *usecase.RunTasks,
	showProjects *usecase.ShowProjects,
	resetCache *usecase.ResetCache,
	report *usecase.Report,
	listPlugins *usecase.ListPlugins,
	listCapabilities *usecase.ListCapabilities,
	generate *usecase.Generate,
	migrate *usecase.Migrate,
	runMigrations *usecase.RunMigrations,
) (*App, error) {
	return &App{
		Config:             cfg,
		EnsureInstallation: ensureInstallation,
		InitWorkspace:      initWorkspace,
		RunTasks:           runTasks,
		ShowProjects:       showProjects,
		ResetCache:         resetCache,
		Report:             report,
		ListPlugins:        listPlugins,
		ListCapabilities:   listCapabilities,
		Generate:           generate,
		Migrate:            migrate,
		RunMigrations:      runMigrations,
	}, nil
}

package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/enio-ireland/nx/internal/domain"
	"github.com/enio-ireland/nx/internal/domain/config"
)

// EnsureInstallationResult describes what the installation step did
type EnsureInstallationResult struct {
	Encapsulated bool
	Skipped      bool
	UpToDate     bool
	Installed    []domain.InstalledPackage
}

// EnsureInstallation keeps .nx/installation in sync with nx.json before a
// command runs
type EnsureInstallation struct {
	config    *config.RuntimeConfig
	store     WorkspaceStore
	installer Installer
	sink      ProgressSink
	log       *slog.Logger
}

// NewEnsureInstallation creates a new EnsureInstallation use case
func NewEnsureInstallation(cfg *config.RuntimeConfig, store WorkspaceStore, installer Installer, sink ProgressSink, log *slog.Logger) *EnsureInstallation {
	return &EnsureInstallation{
		config:    cfg,
		store:     store,
		installer: installer,
		sink:      sink,
		log:       log,
	}
}

// Run installs the packages listed in nx.json's installation section if the
// installation directory does not already match it
func (uc *EnsureInstallation) Run(ctx context.Context) (*EnsureInstallationResult, error) {
	if !uc.store.NxJSONExists() {
		return &EnsureInstallationResult{Skipped: true}, nil
	}

	nxJSON, err := uc.store.ReadNxJSON(ctx)
	if err != nil {
		return nil, err
	}
	inst := nxJSON.Installation()
	if inst == nil {
		return &EnsureInstallationResult{Skipped: true}, nil
	}

	result := &EnsureInstallationResult{Encapsulated: true}
	if uc.config.WrapperSkipInstall {
		uc.log.Debug("skipping installation", "reason", "NX_WRAPPER_SKIP_INSTALL")
		result.Skipped = true
		return result, nil
	}

	desired := inst.Packages()
	upToDate, err := uc.installer.IsUpToDate(ctx, desired)
	if err != nil {
		return nil, fmt.Errorf("failed to inspect installation: %w", err)
	}
	if upToDate {
		result.UpToDate = true
		return result, nil
	}

	uc.sink.OnProgress(ctx, ProgressEvent{
		Stage:   StageInstalling,
		Total:   len(desired),
		Message: "Installing nx and plugins into " + config.InstallationDir,
		Spinner: true,
	})
	installed, err := uc.installer.Install(ctx, desired)
	if err != nil {
		uc.sink.Error("Installation failed")
		return nil, fmt.Errorf("failed to install packages: %w", err)
	}
	uc.sink.OnProgress(ctx, ProgressEvent{
		Stage:   StageComplete,
		Current: len(installed),
		Total:   len(desired),
		Message: "Installation complete",
	})
	uc.log.Debug("installation updated", "packages", len(installed))

	result.Installed = installed
	return result, nil
}

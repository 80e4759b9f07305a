package usecase

import (
	"context"
	"fmt"

	"github.com/enio-ireland/nx/internal/domain"
	"github.com/enio-ireland/nx/internal/domain/config"
)

// InitWorkspaceParams contains parameters for initializing a workspace
type InitWorkspaceParams struct {
	Encapsulated bool
	Plugins      []string
}

// InitWorkspaceResult describes what init did
type InitWorkspaceResult struct {
	Created      bool
	Encapsulated bool
	Install      *EnsureInstallationResult
}

// InitWorkspace is the use case behind `nx init`
type InitWorkspace struct {
	config  *config.RuntimeConfig
	store   WorkspaceStore
	install *EnsureInstallation
}

// NewInitWorkspace creates a new InitWorkspace use case
func NewInitWorkspace(cfg *config.RuntimeConfig, store WorkspaceStore, install *EnsureInstallation) *InitWorkspace {
	return &InitWorkspace{
		config:  cfg,
		store:   store,
		install: install,
	}
}

// Run writes nx.json when missing and installs nx into .nx/installation.
// An existing nx.json is kept; its installation section is added if needed.
func (uc *InitWorkspace) Run(ctx context.Context, params InitWorkspaceParams) (*InitWorkspaceResult, error) {
	result := &InitWorkspaceResult{Encapsulated: params.Encapsulated}

	if !uc.store.NxJSONExists() {
		doc := domain.NewNxJSON(uc.config.Version)
		if !params.Encapsulated {
			doc.Delete("installation")
		}
		for _, p := range params.Plugins {
			doc.SetPlugin(p, uc.config.Version)
		}
		if err := uc.store.WriteNxJSON(ctx, doc); err != nil {
			return nil, fmt.Errorf("failed to write nx.json: %w", err)
		}
		result.Created = true
	} else if params.Encapsulated {
		err := uc.store.UpdateNxJSON(ctx, func(doc *domain.NxJSON) error {
			if doc.Installation() == nil {
				doc.SetInstallation(domain.Installation{Version: uc.config.Version, Plugins: map[string]string{}})
			}
			for _, p := range params.Plugins {
				doc.SetPlugin(p, uc.config.Version)
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
	}

	if !params.Encapsulated {
		return result, nil
	}
	install, err := uc.install.Run(ctx)
	if err != nil {
		return nil, err
	}
	result.Install = install
	return result, nil
}

package usecase

import (
	"context"

	"github.com/samber/lo"

	"github.com/enio-ireland/nx/internal/domain"
)

// ShowProjectsParams filters the project listing
type ShowProjectsParams struct {
	// WithTarget keeps only projects that declare the target
	WithTarget string
}

// ShowProjects is the use case behind `nx show projects`
type ShowProjects struct {
	loader ProjectLoader
}

// NewShowProjects creates a new ShowProjects use case
func NewShowProjects(loader ProjectLoader) *ShowProjects {
	return &ShowProjects{loader: loader}
}

// Run returns the projects of the workspace sorted by name
func (uc *ShowProjects) Run(ctx context.Context, params ShowProjectsParams) ([]*domain.ProjectConfiguration, error) {
	projects, err := uc.loader.LoadProjects(ctx)
	if err != nil {
		return nil, err
	}
	if params.WithTarget == "" {
		return projects, nil
	}
	return lo.Filter(projects, func(p *domain.ProjectConfiguration, _ int) bool {
		_, ok := p.Targets[params.WithTarget]
		return ok
	}), nil
}

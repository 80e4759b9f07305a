package render

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/samber/lo"

	"github.com/enio-ireland/nx/internal/domain"
	"github.com/enio-ireland/nx/internal/usecase"
)

// WorkspaceRenderer prints init and show results
type WorkspaceRenderer struct {
	out io.Writer
	Styler
}

// NewWorkspaceRenderer creates a new workspace renderer
func NewWorkspaceRenderer(out io.Writer, color bool) *WorkspaceRenderer {
	return &WorkspaceRenderer{out: out, Styler: Styler{Enabled: color}}
}

// RenderInit prints the outcome of nx init
func (r *WorkspaceRenderer) RenderInit(result *usecase.InitWorkspaceResult) error {
	if !result.Created {
		fmt.Fprintf(r.out, "\n%s\n\n", r.Banner("nx.json already exists, nothing to initialize"))
		return nil
	}
	title := "Nx is now enabled in your workspace"
	if result.Encapsulated {
		title = "Nx is now enabled in your workspace with an encapsulated installation"
	}
	fmt.Fprintf(r.out, "\n%s\n\n", r.Banner(title))
	if result.Install != nil && len(result.Install.Installed) > 0 {
		writeBody(r.out, lo.Map(result.Install.Installed, func(p domain.InstalledPackage, _ int) string {
			return fmt.Sprintf("%s %s", r.Bold(p.Name), p.Version)
		})...)
		fmt.Fprintln(r.out)
	}
	return nil
}

// RenderProjects prints project names, one per line, or a JSON array
func (r *WorkspaceRenderer) RenderProjects(projects []*domain.ProjectConfiguration, asJSON bool) error {
	names := lo.Map(projects, func(p *domain.ProjectConfiguration, _ int) string { return p.Name })
	if asJSON {
		data, err := json.Marshal(names)
		if err != nil {
			return err
		}
		fmt.Fprintln(r.out, string(data))
		return nil
	}
	for _, name := range names {
		fmt.Fprintln(r.out, name)
	}
	return nil
}

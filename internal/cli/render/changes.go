package render

import (
	"fmt"
	"io"

	"github.com/enio-ireland/nx/internal/domain"
	"github.com/enio-ireland/nx/internal/usecase"
)

// ChangesRenderer prints staged file changes for generators and migrations
type ChangesRenderer struct {
	out io.Writer
	Styler
}

// NewChangesRenderer creates a new changes renderer
func NewChangesRenderer(out io.Writer, color bool) *ChangesRenderer {
	return &ChangesRenderer{out: out, Styler: Styler{Enabled: color}}
}

// RenderChanges prints one "CREATE path" style line per change
func (r *ChangesRenderer) RenderChanges(changes []domain.FileChange) {
	for _, c := range changes {
		var verb string
		switch c.Type {
		case domain.FileCreate:
			verb = r.Green(string(c.Type))
		case domain.FileUpdate:
			verb = r.Yellow(string(c.Type))
		default:
			verb = r.Red(string(c.Type))
		}
		size := ""
		if c.Type != domain.FileDelete {
			size = r.Dim(fmt.Sprintf(" (%d bytes)", len(c.Content)))
		}
		fmt.Fprintf(r.out, "%s %s%s\n", verb, c.Path, size)
	}
}

// RenderGenerate prints what a generator produced
func (r *ChangesRenderer) RenderGenerate(result *usecase.GenerateResult) error {
	fmt.Fprintf(r.out, "\n%s\n\n", r.Banner(fmt.Sprintf("Generating %s:%s", result.Plugin, result.Generator)))
	r.RenderChanges(result.Changes)
	if result.DryRun {
		fmt.Fprintf(r.out, "\n%s\n\n", r.Banner(`The "dryRun" flag means no changes were made.`))
	}
	return nil
}

package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/enio-ireland/nx/internal/usecase"
)

// MigrateRenderer prints both phases of nx migrate
type MigrateRenderer struct {
	out     io.Writer
	changes *ChangesRenderer
	Styler
}

// NewMigrateRenderer creates a new migrate renderer
func NewMigrateRenderer(out io.Writer, color bool) *MigrateRenderer {
	return &MigrateRenderer{
		out:     out,
		changes: NewChangesRenderer(out, color),
		Styler:  Styler{Enabled: color},
	}
}

// RenderResolve prints the outcome of the resolve phase
func (r *MigrateRenderer) RenderResolve(result *usecase.MigrateResult) error {
	fmt.Fprintf(r.out, "\n%s\n\n", r.Banner(fmt.Sprintf("Fetched migrations for %s@%s", result.Package, result.Version)))
	for _, u := range result.Updates {
		from := u.From
		if from == "" {
			from = "(new)"
		}
		writeBody(r.out, fmt.Sprintf("%s: %s -> %s", r.Bold(u.Package), from, r.Green(u.To)))
	}
	if len(result.Updates) > 0 {
		fmt.Fprintln(r.out)
	}

	fmt.Fprintf(r.out, "%s\n\n", r.Banner("The migrate command has run successfully."))
	writeBody(r.out, "- package.json/nx.json has been updated.")
	if len(result.Migrations) == 0 {
		writeBody(r.out, fmt.Sprintf("- There are no migrations to run, so %s has not been created.", result.JournalFile), "")
		return nil
	}
	writeBody(r.out, fmt.Sprintf("- %s has been generated.", result.JournalFile), "")

	fmt.Fprintf(r.out, "%s\n\n", r.Banner("Next steps:"))
	writeBody(r.out,
		"- Make sure package.json and nx.json changes make sense.",
		fmt.Sprintf("- Run 'nx migrate --run-migrations=%s' to run the migrations.", result.JournalFile),
		"",
	)
	return nil
}

// RenderRun prints the migrations applied by the execute phase
func (r *MigrateRenderer) RenderRun(result *usecase.RunMigrationsResult) error {
	fmt.Fprintf(r.out, "\n%s\n\n", r.Banner(fmt.Sprintf("Running migrations from '%s'", result.JournalFile)))
	for _, applied := range result.Applied {
		rec := applied.Record
		fmt.Fprintf(r.out, "Running migration %s: %s\n", rec.Package, rec.Name)
		if log := strings.TrimSpace(applied.Log); log != "" {
			fmt.Fprintln(r.out, r.Dim(log))
		}
		if len(applied.Changes) == 0 {
			fmt.Fprintln(r.out, "No changes were made")
		}
		r.changes.RenderChanges(applied.Changes)
		fmt.Fprintf(r.out, "%s\n", r.Green(fmt.Sprintf("Successfully finished %s: %s", rec.Package, rec.Name)))
		fmt.Fprintln(r.out, r.Dim(strings.Repeat("-", 57)))
	}
	fmt.Fprintf(r.out, "\n%s\n\n", r.Banner(fmt.Sprintf("Successfully finished running migrations from '%s'.", result.JournalFile)))
	return nil
}

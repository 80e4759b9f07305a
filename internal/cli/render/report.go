package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/enio-ireland/nx/internal/usecase"
)

// ReportRenderer prints the environment and package versions
type ReportRenderer struct {
	out io.Writer
	Styler
}

// NewReportRenderer creates a new report renderer
func NewReportRenderer(out io.Writer, color bool) *ReportRenderer {
	return &ReportRenderer{out: out, Styler: Styler{Enabled: color}}
}

// Render prints the report
func (r *ReportRenderer) Render(result *usecase.ReportResult) error {
	fmt.Fprintf(r.out, "\n%s\n\n", r.Banner("Report complete - copy this into the issue template"))

	rows := []usecase.ReportEntry{
		{Name: "Go", Version: result.GoVersion},
		{Name: "OS", Version: result.OS},
		{Name: "", Version: ""},
		result.Nx,
	}
	rows = append(rows, result.Plugins...)
	fmt.Fprint(r.out, versionTable(rows))

	if len(result.Community) > 0 {
		fmt.Fprintf(r.out, "   %s\n", r.Bold("Community plugins:"))
		fmt.Fprint(r.out, versionTable(result.Community))
	}
	fmt.Fprintln(r.out)
	return nil
}

// versionTable renders "name : version" rows with aligned separators
func versionTable(entries []usecase.ReportEntry) string {
	t := table.NewWriter()
	t.SetStyle(table.StyleLight)
	t.Style().Options.SeparateRows = false
	t.Style().Options.DrawBorder = false
	t.Style().Options.SeparateHeader = false
	t.Style().Options.SeparateColumns = false
	t.Style().Box = table.BoxStyle{
		PaddingLeft:  "",
		PaddingRight: " ",
	}
	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, Align: text.AlignLeft},
		{Number: 2, Align: text.AlignLeft},
		{Number: 3, Align: text.AlignLeft},
	})

	for _, e := range entries {
		if e.Name == "" {
			t.AppendRow(table.Row{"", "", ""})
			continue
		}
		t.AppendRow(table.Row{e.Name, ":", e.Version})
	}
	return indent(t.Render()) + "\n"
}

func indent(block string) string {
	lines := strings.Split(block, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimRight("   "+line, " ")
	}
	return strings.Join(lines, "\n")
}

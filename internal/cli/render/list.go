package render

import (
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/enio-ireland/nx/internal/domain"
	"github.com/enio-ireland/nx/internal/usecase"
)

// ListRenderer prints installed and available plugins
type ListRenderer struct {
	out io.Writer
	Styler
}

// NewListRenderer creates a new list renderer
func NewListRenderer(out io.Writer, color bool) *ListRenderer {
	return &ListRenderer{out: out, Styler: Styler{Enabled: color}}
}

// RenderPlugins prints the "Installed plugins" and "Also available" sections
func (r *ListRenderer) RenderPlugins(result *usecase.ListPluginsResult) error {
	fmt.Fprintf(r.out, "\n%s\n\n", r.Banner("Installed plugins:"))
	r.pluginLines(result.Installed)

	if len(result.Available) > 0 {
		fmt.Fprintf(r.out, "\n%s\n\n", r.Banner("Also available:"))
		r.pluginLines(result.Available)
	}

	fmt.Fprintf(r.out, "\n%s\n\n", r.Banner("Use \"nx list <plugin>\" to find out more"))
	return nil
}

func (r *ListRenderer) pluginLines(plugins []*domain.PluginCapabilities) {
	for _, p := range plugins {
		writeBody(r.out, fmt.Sprintf("%s %s", r.Bold(p.Name), p.Summary()))
	}
}

// RenderCapabilities prints the generators and executors of one plugin
func (r *ListRenderer) RenderCapabilities(result *usecase.ListCapabilitiesResult) error {
	p := result.Plugin
	fmt.Fprintf(r.out, "\n%s\n\n", r.Banner(fmt.Sprintf("Capabilities in %s:", p.Name)))
	if !result.Installed {
		writeBody(r.out, r.Yellow(fmt.Sprintf("%s is not installed, add it to installation.plugins in nx.json", p.Name)), "")
	}

	r.section("GENERATORS", p.Generators)
	r.section("EXECUTORS", p.Executors)
	return nil
}

func (r *ListRenderer) section(title string, caps []domain.Capability) {
	writeBody(r.out, r.Bold(title), "")
	if len(caps) == 0 {
		writeBody(r.out, r.Dim("none"), "")
		return
	}

	t := table.NewWriter()
	t.SetStyle(table.StyleLight)
	t.Style().Options.SeparateRows = false
	t.Style().Options.DrawBorder = false
	t.Style().Options.SeparateHeader = false
	t.Style().Options.SeparateColumns = false
	t.Style().Box = table.BoxStyle{
		PaddingRight: " ",
	}
	for _, c := range caps {
		t.AppendRow(table.Row{r.Bold(c.Name), ":", c.Description})
	}
	fmt.Fprintf(r.out, "%s\n\n", indent(t.Render()))
}

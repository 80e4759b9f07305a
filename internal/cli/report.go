package cli

import (
	"github.com/spf13/cobra"

	"github.com/enio-ireland/nx/internal/cli/render"
	"github.com/enio-ireland/nx/internal/usecase"
)

// NewReportCmd creates the report command
func NewReportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "report",
		Short: "Report the versions of nx and its installed plugins",
		Long: `Print the Go runtime, the operating system and the versions of nx and every
installed plugin. Useful when filing an issue.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			result, err := app.Report.Run(cmd.Context())
			if err != nil {
				return err
			}

			var renderer render.Renderer[*usecase.ReportResult] = render.NewReportRenderer(cmd.OutOrStdout(), useColor(app, cmd.OutOrStdout()))
			return renderer.Render(result)
		},
	}
}

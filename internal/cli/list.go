package cli

import (
	"github.com/spf13/cobra"

	"github.com/enio-ireland/nx/internal/cli/render"
)

// NewListCmd creates the list command
func NewListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list [plugin]",
		Short: "List installed plugins, or the capabilities of one plugin",
		Example: `  # List installed and available plugins
  nx list

  # Show the generators and executors of @nrwl/nest
  nx list @nrwl/nest`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			renderer := render.NewListRenderer(cmd.OutOrStdout(), useColor(app, cmd.OutOrStdout()))

			if len(args) == 1 {
				result, err := app.ListCapabilities.Run(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				return renderer.RenderCapabilities(result)
			}

			result, err := app.ListPlugins.Run(cmd.Context())
			if err != nil {
				return err
			}
			return renderer.RenderPlugins(result)
		},
	}
}

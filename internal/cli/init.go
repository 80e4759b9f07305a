package cli

import (
	"github.com/spf13/cobra"

	"github.com/enio-ireland/nx/internal/cli/render"
	"github.com/enio-ireland/nx/internal/usecase"
)

// NewInitCmd creates the init command
func NewInitCmd() *cobra.Command {
	var (
		encapsulated bool
		plugins      []string
	)

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Add nx to the current directory",
		Long: `Create nx.json in the current directory. With --encapsulated, nx and its plugins
are installed into .nx/installation and the workspace needs no package.json.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			result, err := app.InitWorkspace.Run(cmd.Context(), usecase.InitWorkspaceParams{
				Encapsulated: encapsulated,
				Plugins:      plugins,
			})
			if err != nil {
				return err
			}

			return render.NewInitRenderer(cmd.OutOrStdout(), useColor(app, cmd.OutOrStdout())).Render(result)
		},
	}

	cmd.Flags().BoolVar(&encapsulated, "encapsulated", false, "Install nx into .nx/installation instead of node_modules")
	cmd.Flags().StringSliceVar(&plugins, "plugins", nil, "Plugins to add to the installation (comma separated)")

	return cmd
}

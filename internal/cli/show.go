package cli

import (
	"github.com/spf13/cobra"

	"github.com/enio-ireland/nx/internal/cli/render"
	"github.com/enio-ireland/nx/internal/usecase"
)

// NewShowCmd creates the show command
func NewShowCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show information about the workspace",
	}

	cmd.AddCommand(newShowProjectsCmd())

	return cmd
}

func newShowProjectsCmd() *cobra.Command {
	var (
		asJSON     bool
		withTarget string
	)

	cmd := &cobra.Command{
		Use:   "projects",
		Short: "List the projects of the workspace",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			projects, err := app.ShowProjects.Run(cmd.Context(), usecase.ShowProjectsParams{WithTarget: withTarget})
			if err != nil {
				return err
			}

			return render.NewWorkspaceRenderer(cmd.OutOrStdout(), false).RenderProjects(projects, asJSON)
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the projects as a JSON array")
	cmd.Flags().StringVar(&withTarget, "with-target", "", "Only show projects that have this target")

	return cmd
}

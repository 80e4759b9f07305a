package cli

import (
	"github.com/spf13/cobra"

	"github.com/enio-ireland/nx/internal/cli/render"
	"github.com/enio-ireland/nx/internal/usecase"
)

// NewGenerateCmd creates the generate command
func NewGenerateCmd() *cobra.Command {
	var (
		directory string
		dryRun    bool
		extra     map[string]string
	)

	cmd := &cobra.Command{
		Use:     "generate <[plugin:]generator> [name]",
		Aliases: []string{"g"},
		Short:   "Scaffold code with a plugin generator",
		Long: `Run a generator from an installed plugin. The generator may be given as
plugin:generator or by name alone when exactly one installed plugin provides it.`,
		Example: `  # Create an npm package
  nx g npm-package my-package

  # Create a Nest library in libs/shared
  nx generate @nrwl/nest:library data-access --directory=libs/shared`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			params := usecase.GenerateParams{
				Generator: args[0],
				Directory: directory,
				DryRun:    dryRun,
				Extra:     extra,
			}
			if len(args) == 2 {
				params.Name = args[1]
			}

			result, err := app.Generate.Run(cmd.Context(), params)
			if err != nil {
				return err
			}

			return render.NewGenerateRenderer(cmd.OutOrStdout(), useColor(app, cmd.OutOrStdout())).Render(result)
		},
	}

	cmd.Flags().StringVar(&directory, "directory", "", "Directory to create the project in")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Print the changes without writing them")
	cmd.Flags().StringToStringVar(&extra, "option", nil, "Generator option as key=value (e.g. scope=acme)")

	return cmd
}

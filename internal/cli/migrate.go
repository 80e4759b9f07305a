package cli

import (
	"github.com/spf13/cobra"

	"github.com/enio-ireland/nx/internal/cli/render"
	"github.com/enio-ireland/nx/internal/domain"
	"github.com/enio-ireland/nx/internal/usecase"
)

// NewMigrateCmd creates the migrate command
func NewMigrateCmd() *cobra.Command {
	var (
		from          string
		to            string
		runMigrations string
	)

	cmd := &cobra.Command{
		Use:   "migrate [package@version]",
		Short: "Update packages and run their migrations",
		Long: `Migrating is a two-step process. First, "nx migrate <package>@<version>" updates
the installed versions in nx.json (or package.json) and writes the migrations
to run into migrations.json. Then "nx migrate --run-migrations" runs them.`,
		Example: `  # Update nx and its plugins to the latest version
  nx migrate latest

  # Update a package, pretending 1.0.0 is installed
  nx migrate my-plugin@2.0.0 --from=my-plugin@1.0.0

  # Run the collected migrations
  nx migrate --run-migrations`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}
			renderer := render.NewMigrateRenderer(cmd.OutOrStdout(), useColor(app, cmd.OutOrStdout()))

			if cmd.Flags().Changed("run-migrations") {
				result, err := app.RunMigrations.Run(cmd.Context(), usecase.RunMigrationsParams{JournalFile: runMigrations})
				if err != nil {
					return err
				}
				return renderer.RenderRun(result)
			}

			params := usecase.MigrateParams{From: from, To: to}
			if len(args) == 1 {
				params.Target = args[0]
			}
			result, err := app.Migrate.Run(cmd.Context(), params)
			if err != nil {
				return err
			}
			return renderer.RenderResolve(result)
		},
	}

	cmd.Flags().StringVar(&from, "from", "", "Use the given versions as installed (e.g. pkg@1.0.0,other@2.0.0)")
	cmd.Flags().StringVar(&to, "to", "", "Target versions for packages updated along the way (e.g. pkg@3.0.0)")
	cmd.Flags().StringVar(&runMigrations, "run-migrations", "", "Run the migrations listed in the given file")
	cmd.Flags().Lookup("run-migrations").NoOptDefVal = domain.DefaultJournalFile

	return cmd
}

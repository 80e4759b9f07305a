package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/enio-ireland/nx/internal/cli/render"
)

// NewResetCmd creates the reset command
func NewResetCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "reset",
		Aliases: []string{"clear-cache"},
		Short:   "Clear the local computation cache",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			if err := app.ResetCache.Run(cmd.Context()); err != nil {
				return err
			}

			s := render.Styler{Enabled: useColor(app, cmd.OutOrStdout())}
			fmt.Fprintf(cmd.OutOrStdout(), "\n%s\n\n", s.Banner("Resetting the Nx workspace cache"))
			return nil
		},
	}
}

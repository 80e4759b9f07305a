package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"slices"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/enio-ireland/nx/internal/adapters/progress"
	"github.com/enio-ireland/nx/internal/adapters/registry"
	"github.com/enio-ireland/nx/internal/app"
	"github.com/enio-ireland/nx/internal/config"
	"github.com/enio-ireland/nx/internal/usecase"
)

// contextKey is the type for context keys
type contextKey string

const (
	// appKey is the context key for the app instance
	appKey contextKey = "app"
)

// commands that run without a workspace or an installation
var standalone = []string{"version", "help", "completion", "__complete"}

type options struct {
	dir     string
	env     config.Overrides
	fetcher registry.FetcherOverride
}

// Option customizes how the root command builds the app
type Option func(*options)

// WithDir runs the command as if started from dir
func WithDir(dir string) Option {
	return func(o *options) { o.dir = dir }
}

// WithEnv adds environment variables on top of the process environment.
// NX_* variables configure the CLI; all of them are passed to tasks.
func WithEnv(env map[string]string) Option {
	return func(o *options) {
		for k, v := range env {
			o.env[k] = v
		}
	}
}

// WithMigrationFetcher makes migrate resolve packages through f
func WithMigrationFetcher(f usecase.MigrationFetcher) Option {
	return func(o *options) { o.fetcher = registry.FetcherOverride{Fetcher: f} }
}

// NewRootCmd creates the nx root command
func NewRootCmd(opts ...Option) *cobra.Command {
	o := &options{env: config.Overrides{}}
	for _, opt := range opts {
		opt(o)
	}

	var skipCache bool

	rootCmd := &cobra.Command{
		Use:   "nx",
		Short: "Smart, fast and extensible build system",
		Long: `Nx runs targets of the projects in your workspace, caching their results,
and keeps an encapsulated installation of itself and its plugins in .nx/installation.

Targets can be run with "nx run <project>:<target>" or "nx <target> <project>".`,
		Args:          cobra.ArbitraryArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if slices.Contains(standalone, cmd.Name()) {
				return nil
			}
			return setupApp(cmd, o)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			switch len(args) {
			case 0:
				return cmd.Help()
			case 1:
				id, err := parseRunArg(args[0])
				if err != nil {
					return fmt.Errorf("unknown command %q for nx", args[0])
				}
				return runTargets(cmd, usecase.RunTasksParams{Target: id.Target, Projects: []string{id.Project}, SkipCache: skipCache})
			case 2:
				return runTargets(cmd, usecase.RunTasksParams{Target: args[0], Projects: []string{args[1]}, SkipCache: skipCache})
			default:
				return fmt.Errorf("expected \"nx <target> <project>\", got %d arguments", len(args))
			}
		},
	}

	// Global flags
	rootCmd.PersistentFlags().Bool("verbose", false, "Print additional information such as debug logs")
	rootCmd.PersistentFlags().Bool("non-interactive", false, "Disable interactive prompts")
	rootCmd.Flags().BoolVar(&skipCache, "skip-nx-cache", false, "Rerun the tasks even when the results are available in the cache")

	rootCmd.AddGroup(&cobra.Group{
		ID:    "tasks",
		Title: "Task Commands",
	})
	rootCmd.AddGroup(&cobra.Group{
		ID:    "workspace",
		Title: "Workspace Commands",
	})
	rootCmd.AddGroup(&cobra.Group{
		ID:    "plugins",
		Title: "Plugin Commands",
	})

	for _, cmd := range []*cobra.Command{NewRunCmd(), NewRunManyCmd()} {
		cmd.GroupID = "tasks"
		rootCmd.AddCommand(cmd)
	}
	for _, cmd := range []*cobra.Command{NewInitCmd(), NewMigrateCmd(), NewShowCmd(), NewResetCmd(), NewReportCmd()} {
		cmd.GroupID = "workspace"
		rootCmd.AddCommand(cmd)
	}
	for _, cmd := range []*cobra.Command{NewGenerateCmd(), NewListCmd()} {
		cmd.GroupID = "plugins"
		rootCmd.AddCommand(cmd)
	}

	rootCmd.AddCommand(NewVersionCmd())

	return rootCmd
}

// setupApp locates the workspace, builds the app and makes sure the
// encapsulated installation matches nx.json
func setupApp(cmd *cobra.Command, o *options) error {
	dir := o.dir
	if dir == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return err
		}
		dir = cwd
	}

	root, err := config.FindWorkspaceRoot(dir)
	if err != nil {
		if cmd.Name() != "init" {
			return fmt.Errorf("could not find nx.json: %w", err)
		}
		root = dir
	}

	v := config.SetupViper(root, cmd, o.env)
	if !v.IsSet("tty") {
		v.Set("tty", isTerminal(cmd.OutOrStdout()))
	}

	sink := progress.NewProgressSink(v.GetBool("tty"), cmd.ErrOrStderr())

	appInstance, err := app.InitApp(v, o.env, sink, o.fetcher)
	if err != nil {
		return fmt.Errorf("failed to initialize app: %w", err)
	}

	ctx := context.WithValue(cmd.Context(), appKey, appInstance)
	cancel := context.CancelFunc(func() {})
	if appInstance.Config.Timeout > 0 {
		ctx, cancel = context.WithTimeout(ctx, appInstance.Config.Timeout)
	}
	cmd.SetContext(ctx)

	// init installs on its own once nx.json is written
	if cmd.Name() != "init" {
		if _, err := appInstance.EnsureInstallation.Run(ctx); err != nil {
			cancel()
			return err
		}
	}
	releaseAfterRun(cmd, cancel)
	return nil
}

// releaseAfterRun calls cancel once the command's RunE returns, whether or
// not it failed. cobra skips PostRun hooks after an error.
func releaseAfterRun(cmd *cobra.Command, cancel context.CancelFunc) {
	run := cmd.RunE
	if run == nil {
		cancel()
		return
	}
	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		defer cancel()
		return run(cmd, args)
	}
}

// getApp retrieves the app instance from the command context
func getApp(cmd *cobra.Command) (*app.App, error) {
	appInstance := cmd.Context().Value(appKey)
	if appInstance == nil {
		return nil, fmt.Errorf("app not initialized")
	}

	app, ok := appInstance.(*app.App)
	if !ok {
		return nil, fmt.Errorf("invalid app instance")
	}

	return app, nil
}

// useColor decides whether renderers emit ANSI colors. FORCE_COLOR and
// NO_COLOR in the task environment win over terminal detection.
func useColor(a *app.App, w io.Writer) bool {
	if v, ok := a.Config.Env["FORCE_COLOR"]; ok {
		return v != "0" && !strings.EqualFold(v, "false")
	}
	if _, ok := a.Config.Env["NO_COLOR"]; ok {
		return false
	}
	return !color.NoColor && isTerminal(w)
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

package cli

import (
	"fmt"
	"strings"

	"github.com/samber/lo"
	"github.com/spf13/cobra"

	"github.com/enio-ireland/nx/internal/cli/render"
	"github.com/enio-ireland/nx/internal/domain"
	"github.com/enio-ireland/nx/internal/usecase"
)

// NewRunCmd creates the run command
func NewRunCmd() *cobra.Command {
	var skipCache bool

	cmd := &cobra.Command{
		Use:   "run <project>:<target>",
		Short: "Run a target for a project",
		Long: `Run a target for a project. Results of cacheable operations (see
tasksRunnerOptions in nx.json) are stored in .nx/cache and replayed when the
inputs have not changed.`,
		Example: `  # Run the build target of myapp
  nx run myapp:build

  # Same, using the infix form
  nx build myapp`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseRunArg(args[0])
			if err != nil {
				return err
			}
			return runTargets(cmd, usecase.RunTasksParams{
				Target:    id.Target,
				Projects:  []string{id.Project},
				SkipCache: skipCache,
			})
		},
	}

	cmd.Flags().BoolVar(&skipCache, "skip-nx-cache", false, "Rerun the tasks even when the results are available in the cache")

	return cmd
}

// NewRunManyCmd creates the run-many command
func NewRunManyCmd() *cobra.Command {
	var (
		target    string
		projects  []string
		all       bool
		parallel  int
		skipCache bool
	)

	cmd := &cobra.Command{
		Use:   "run-many",
		Short: "Run a target for multiple projects",
		Example: `  # Test every project that has a test target
  nx run-many --target=test

  # Build two projects, one at a time
  nx run-many -t build -p app1,app2 --parallel=1`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if target == "" {
				return fmt.Errorf("--target is required")
			}
			return runTargets(cmd, usecase.RunTasksParams{
				Target:    target,
				Projects:  projects,
				All:       all || len(projects) == 0,
				Parallel:  parallel,
				SkipCache: skipCache,
			})
		},
	}

	cmd.Flags().StringVarP(&target, "target", "t", "", "Target to run")
	cmd.Flags().StringSliceVarP(&projects, "projects", "p", nil, "Projects to run (comma separated)")
	cmd.Flags().BoolVar(&all, "all", false, "Run the target on all projects that have it")
	cmd.Flags().IntVar(&parallel, "parallel", 0, "Max number of tasks to run at once")
	cmd.Flags().BoolVar(&skipCache, "skip-nx-cache", false, "Rerun the tasks even when the results are available in the cache")

	return cmd
}

// runTargets runs the use case, prints every task and fails when any task did
func runTargets(cmd *cobra.Command, params usecase.RunTasksParams) error {
	app, err := getApp(cmd)
	if err != nil {
		return err
	}

	result, err := app.RunTasks.Run(cmd.Context(), params)
	if err != nil {
		return err
	}

	var renderer render.Renderer[*usecase.RunTasksResult] = render.NewTasksRenderer(cmd.OutOrStdout(), useColor(app, cmd.OutOrStdout()))
	if err := renderer.Render(result); err != nil {
		return err
	}

	if !result.Succeeded() {
		ids := lo.Map(result.Failed, func(id domain.TaskID, _ int) string { return id.String() })
		return fmt.Errorf("running target %s failed: %s", params.Target, strings.Join(ids, ", "))
	}
	return nil
}

// parseRunArg accepts project:target, splitting on the first colon
func parseRunArg(arg string) (domain.TaskID, error) {
	return domain.ParseTaskID(arg)
}

package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/samber/lo"
	"golang.org/x/sync/errgroup"

	"github.com/enio-ireland/nx/internal/domain"
	"github.com/enio-ireland/nx/internal/domain/config"
)

const runCommandsExecutor = "nx:run-commands"

// RunTasksParams contains parameters for running a target
type RunTasksParams struct {
	Target   string
	Projects []string
	// All selects every project that declares the target
	All       bool
	Parallel  int
	SkipCache bool
}

// RunTasksResult contains the outcome of every task in the run
type RunTasksResult struct {
	Target    string
	Results   []*domain.TaskResult
	Duration  time.Duration
	CacheHits int
	Failed    []domain.TaskID
}

// Succeeded reports whether every task passed
func (r *RunTasksResult) Succeeded() bool {
	return len(r.Failed) == 0
}

// RunTasks is the use case for running a target across one or more projects
type RunTasks struct {
	config *config.RuntimeConfig
	store  WorkspaceStore
	loader ProjectLoader
	hasher TaskHasher
	cache  TaskCache
	runner CommandRunner
	log    *slog.Logger
}

// NewRunTasks creates a new RunTasks use case
func NewRunTasks(
	cfg *config.RuntimeConfig,
	store WorkspaceStore,
	loader ProjectLoader,
	hasher TaskHasher,
	cache TaskCache,
	runner CommandRunner,
	log *slog.Logger,
) *RunTasks {
	return &RunTasks{
		config: cfg,
		store:  store,
		loader: loader,
		hasher: hasher,
		cache:  cache,
		runner: runner,
		log:    log,
	}
}

// Run executes the target for the selected projects
func (uc *RunTasks) Run(ctx context.Context, params RunTasksParams) (*RunTasksResult, error) {
	start := time.Now()

	tasks, err := uc.createTasks(ctx, params)
	if err != nil {
		return nil, err
	}

	for _, task := range tasks {
		if !task.Cacheable {
			continue
		}
		hash, err := uc.hasher.Hash(ctx, task)
		if err != nil {
			return nil, fmt.Errorf("failed to hash task %s: %w", task.ID, err)
		}
		task.Hash = hash
	}

	parallel := params.Parallel
	if parallel <= 0 {
		parallel = uc.config.Parallel
	}
	skipCache := params.SkipCache || uc.config.SkipNxCache

	results := make([]*domain.TaskResult, len(tasks))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(parallel)
	for i, task := range tasks {
		i, task := i, task
		g.Go(func() error {
			result, err := uc.executeTask(gctx, task, skipCache)
			if err != nil {
				return fmt.Errorf("task %s: %w", task.ID, err)
			}
			results[i] = result
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := &RunTasksResult{
		Target:   params.Target,
		Results:  results,
		Duration: time.Since(start),
	}
	for _, r := range results {
		if r.CacheStatus == domain.CacheLocalHit {
			out.CacheHits++
		}
		if r.Status == domain.TaskFailure {
			out.Failed = append(out.Failed, r.Task.ID)
		}
	}
	return out, nil
}

// createTasks resolves projects and target configurations into tasks
func (uc *RunTasks) createTasks(ctx context.Context, params RunTasksParams) ([]*domain.Task, error) {
	projects, err := uc.loader.LoadProjects(ctx)
	if err != nil {
		return nil, err
	}
	byName := lo.KeyBy(projects, func(p *domain.ProjectConfiguration) string { return p.Name })

	var cacheable []string
	if uc.store.NxJSONExists() {
		nxJSON, err := uc.store.ReadNxJSON(ctx)
		if err != nil {
			return nil, err
		}
		cacheable = nxJSON.CacheableOperations()
	}

	var selected []*domain.ProjectConfiguration
	if params.All || len(params.Projects) == 0 {
		selected = lo.Filter(projects, func(p *domain.ProjectConfiguration, _ int) bool {
			_, ok := p.Targets[params.Target]
			return ok
		})
		if len(selected) == 0 {
			return nil, fmt.Errorf("%w: no projects have a %q target", domain.ErrTargetNotFound, params.Target)
		}
	} else {
		for _, name := range params.Projects {
			project, ok := byName[name]
			if !ok {
				return nil, fmt.Errorf("%w: %q%s", domain.ErrProjectNotFound, name, didYouMean(name, lo.Keys(byName)))
			}
			if _, ok := project.Targets[params.Target]; !ok {
				return nil, fmt.Errorf("%w: project %q has no target %q%s", domain.ErrTargetNotFound,
					name, params.Target, didYouMean(params.Target, lo.Keys(project.Targets)))
			}
			selected = append(selected, project)
		}
	}

	tasks := make([]*domain.Task, 0, len(selected))
	for _, project := range selected {
		target := project.Targets[params.Target]
		isCacheable := lo.Contains(cacheable, params.Target)
		if target.Cache != nil {
			isCacheable = *target.Cache
		}
		tasks = append(tasks, &domain.Task{
			ID:         domain.TaskID{Project: project.Name, Target: params.Target},
			Project:    project,
			Target:     target,
			Cacheable:  isCacheable,
			ProjectDir: filepath.Join(uc.config.WorkspaceRoot, project.Root),
		})
	}
	return tasks, nil
}

// executeTask replays a task from cache or runs its commands
func (uc *RunTasks) executeTask(ctx context.Context, task *domain.Task, skipCache bool) (*domain.TaskResult, error) {
	start := time.Now()

	if task.Cacheable && !skipCache {
		cached, err := uc.cache.Get(ctx, task.Hash)
		if err != nil {
			uc.log.Warn("failed to read cache entry", "task", task.ID.String(), "error", err)
		}
		if cached != nil {
			if err := uc.cache.RestoreOutputs(ctx, task, cached); err != nil {
				return nil, fmt.Errorf("failed to restore outputs: %w", err)
			}
			uc.log.Debug("cache hit", "task", task.ID.String(), "hash", task.Hash)
			return &domain.TaskResult{
				Task:           task,
				Status:         domain.TaskSuccess,
				CacheStatus:    domain.CacheLocalHit,
				ExitCode:       cached.ExitCode,
				TerminalOutput: cached.TerminalOutput,
				Duration:       time.Since(start),
			}, nil
		}
	}

	result := &domain.TaskResult{
		Task:        task,
		Status:      domain.TaskSuccess,
		CacheStatus: domain.CacheMiss,
	}
	if !task.Cacheable || skipCache {
		result.CacheStatus = domain.CacheNotApplied
	}

	commands := task.Target.Commands()
	if len(commands) == 0 {
		if task.Target.Executor != domain.NoopExecutor {
			return nil, fmt.Errorf("executor %q is not supported, use a command or %s", task.Target.Executor, runCommandsExecutor)
		}
	}

	dir := uc.config.WorkspaceRoot
	if cwd := task.Target.Cwd(); cwd != "" {
		dir = filepath.Join(uc.config.WorkspaceRoot, cwd)
	}

	var output strings.Builder
	for _, command := range commands {
		uc.log.Debug("running command", "task", task.ID.String(), "command", command)
		res, err := uc.runner.Run(ctx, CommandRequest{
			Command: command,
			Dir:     dir,
			Env:     uc.config.Environ(),
		})
		if err != nil {
			return nil, err
		}
		output.WriteString(res.Output)
		if res.ExitCode != 0 {
			result.Status = domain.TaskFailure
			result.ExitCode = res.ExitCode
			break
		}
	}
	result.TerminalOutput = output.String()
	result.Duration = time.Since(start)

	if result.Status == domain.TaskSuccess && task.Cacheable {
		if err := uc.cache.Put(ctx, task, result); err != nil {
			uc.log.Warn("failed to store cache entry", "task", task.ID.String(), "error", err)
		}
	}
	return result, nil
}

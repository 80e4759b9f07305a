package usecase_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/enio-ireland/nx/internal/domain"
	"github.com/enio-ireland/nx/internal/usecase"
)

func echoProject(name string) *domain.ProjectConfiguration {
	return &domain.ProjectConfiguration{
		Name: name,
		Root: name,
		Targets: map[string]domain.TargetConfiguration{
			"echo": {Command: "echo " + name},
		},
	}
}

func cacheableNxJSON(ops ...string) *domain.NxJSON {
	doc := domain.NewNxJSON("16.5.0")
	doc.SetCacheableOperations(ops)
	return doc
}

type runTasksFixture struct {
	store  *MockWorkspaceStore
	loader *MockProjectLoader
	hasher *MockTaskHasher
	cache  *MockTaskCache
	runner *MockCommandRunner
	uc     *usecase.RunTasks
}

func newRunTasksFixture(doc *domain.NxJSON, projects ...*domain.ProjectConfiguration) *runTasksFixture {
	f := &runTasksFixture{
		store:  &MockWorkspaceStore{NxJSON: doc},
		loader: new(MockProjectLoader),
		hasher: new(MockTaskHasher),
		cache:  new(MockTaskCache),
		runner: new(MockCommandRunner),
	}
	f.loader.On("LoadProjects", mock.Anything).Return(projects, nil)
	f.uc = usecase.NewRunTasks(testConfig(), f.store, f.loader, f.hasher, f.cache, f.runner, discardLogger())
	return f
}

func TestRunTasks(t *testing.T) {
	ctx := context.Background()

	t.Run("cache miss runs the command and stores the result", func(t *testing.T) {
		f := newRunTasksFixture(cacheableNxJSON("echo"), echoProject("app"))
		f.hasher.On("Hash", mock.Anything, mock.Anything).Return("abc", nil)
		f.cache.On("Get", mock.Anything, "abc").Return(nil, nil)
		f.runner.On("Run", mock.Anything, mock.MatchedBy(func(req usecase.CommandRequest) bool {
			return req.Command == "echo app" && req.Dir == "/workspace"
		})).Return(&usecase.CommandResult{Output: "app\n"}, nil)
		f.cache.On("Put", mock.Anything, mock.Anything, mock.Anything).Return(nil)

		result, err := f.uc.Run(ctx, usecase.RunTasksParams{Target: "echo", Projects: []string{"app"}})

		require.NoError(t, err)
		require.Len(t, result.Results, 1)
		assert.True(t, result.Succeeded())
		assert.Equal(t, 0, result.CacheHits)
		assert.Equal(t, "app\n", result.Results[0].TerminalOutput)
		assert.Equal(t, domain.CacheMiss, result.Results[0].CacheStatus)
		f.cache.AssertCalled(t, "Put", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("cache hit replays output without running", func(t *testing.T) {
		f := newRunTasksFixture(cacheableNxJSON("echo"), echoProject("app"))
		cached := &domain.CachedResult{Hash: "abc", TerminalOutput: "app\n"}
		f.hasher.On("Hash", mock.Anything, mock.Anything).Return("abc", nil)
		f.cache.On("Get", mock.Anything, "abc").Return(cached, nil)
		f.cache.On("RestoreOutputs", mock.Anything, mock.Anything, cached).Return(nil)

		result, err := f.uc.Run(ctx, usecase.RunTasksParams{Target: "echo", Projects: []string{"app"}})

		require.NoError(t, err)
		assert.Equal(t, 1, result.CacheHits)
		assert.Equal(t, domain.CacheLocalHit, result.Results[0].CacheStatus)
		assert.Equal(t, "app\n", result.Results[0].TerminalOutput)
		f.runner.AssertNotCalled(t, "Run", mock.Anything, mock.Anything)
	})

	t.Run("non cacheable target is never hashed", func(t *testing.T) {
		f := newRunTasksFixture(cacheableNxJSON("build"), echoProject("app"))
		f.runner.On("Run", mock.Anything, mock.Anything).Return(&usecase.CommandResult{Output: "app\n"}, nil)

		result, err := f.uc.Run(ctx, usecase.RunTasksParams{Target: "echo", Projects: []string{"app"}})

		require.NoError(t, err)
		assert.Equal(t, domain.CacheNotApplied, result.Results[0].CacheStatus)
		f.hasher.AssertNotCalled(t, "Hash", mock.Anything, mock.Anything)
		f.cache.AssertNotCalled(t, "Put", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("failed command is reported and not cached", func(t *testing.T) {
		f := newRunTasksFixture(cacheableNxJSON("echo"), echoProject("app"))
		f.hasher.On("Hash", mock.Anything, mock.Anything).Return("abc", nil)
		f.cache.On("Get", mock.Anything, "abc").Return(nil, nil)
		f.runner.On("Run", mock.Anything, mock.Anything).Return(&usecase.CommandResult{Output: "boom\n", ExitCode: 2}, nil)

		result, err := f.uc.Run(ctx, usecase.RunTasksParams{Target: "echo", Projects: []string{"app"}})

		require.NoError(t, err)
		assert.False(t, result.Succeeded())
		assert.Equal(t, []domain.TaskID{{Project: "app", Target: "echo"}}, result.Failed)
		assert.Equal(t, 2, result.Results[0].ExitCode)
		f.cache.AssertNotCalled(t, "Put", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("unknown project suggests close names", func(t *testing.T) {
		f := newRunTasksFixture(cacheableNxJSON(), echoProject("my-app"))

		_, err := f.uc.Run(ctx, usecase.RunTasksParams{Target: "echo", Projects: []string{"myapp"}})

		require.ErrorIs(t, err, domain.ErrProjectNotFound)
		assert.Contains(t, err.Error(), "did you mean my-app")
	})

	t.Run("unknown target", func(t *testing.T) {
		f := newRunTasksFixture(cacheableNxJSON(), echoProject("app"))

		_, err := f.uc.Run(ctx, usecase.RunTasksParams{Target: "build", Projects: []string{"app"}})

		require.ErrorIs(t, err, domain.ErrTargetNotFound)
	})

	t.Run("run-many keeps project order", func(t *testing.T) {
		noop := &domain.ProjectConfiguration{
			Name:    "c",
			Targets: map[string]domain.TargetConfiguration{"lint": {Executor: domain.NoopExecutor}},
		}
		f := newRunTasksFixture(cacheableNxJSON(), echoProject("a"), echoProject("b"), noop)
		f.runner.On("Run", mock.Anything, mock.Anything).Return(&usecase.CommandResult{Output: "ok\n"}, nil)

		result, err := f.uc.Run(ctx, usecase.RunTasksParams{Target: "echo", All: true, Parallel: 2})

		require.NoError(t, err)
		require.Len(t, result.Results, 2)
		assert.Equal(t, "a", result.Results[0].Task.ID.Project)
		assert.Equal(t, "b", result.Results[1].Task.ID.Project)
	})

	t.Run("noop executor succeeds silently", func(t *testing.T) {
		noop := &domain.ProjectConfiguration{
			Name:    "c",
			Targets: map[string]domain.TargetConfiguration{"lint": {Executor: domain.NoopExecutor}},
		}
		f := newRunTasksFixture(cacheableNxJSON(), noop)

		result, err := f.uc.Run(ctx, usecase.RunTasksParams{Target: "lint", Projects: []string{"c"}})

		require.NoError(t, err)
		assert.True(t, result.Succeeded())
		assert.Empty(t, result.Results[0].TerminalOutput)
	})
}

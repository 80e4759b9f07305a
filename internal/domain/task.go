package domain

import "time"

// CacheStatus tells where a task's result came from
type CacheStatus string

const (
	CacheMiss       CacheStatus = "cache-miss"
	CacheLocalHit   CacheStatus = "local-cache"
	CacheNotApplied CacheStatus = "not-cacheable"
)

// TaskStatus is the final state of a task
type TaskStatus string

const (
	TaskSuccess TaskStatus = "success"
	TaskFailure TaskStatus = "failure"
)

// Task is a resolved, hashable unit of work
type Task struct {
	ID         TaskID
	Project    *ProjectConfiguration
	Target     TargetConfiguration
	Cacheable  bool
	Hash       string
	ProjectDir string
}

// TaskResult is the outcome of running (or replaying) a task
type TaskResult struct {
	Task           *Task
	Status         TaskStatus
	CacheStatus    CacheStatus
	ExitCode       int
	TerminalOutput string
	Duration       time.Duration
}

// CachedResult is what the cache stores for a successful task
type CachedResult struct {
	Hash           string
	TerminalOutput string
	ExitCode       int
	OutputsDir     string
}

// FileChangeType is the kind of change a tree recorded
type FileChangeType string

const (
	FileCreate FileChangeType = "CREATE"
	FileUpdate FileChangeType = "UPDATE"
	FileDelete FileChangeType = "DELETE"
)

// FileChange is a staged mutation of the workspace
type FileChange struct {
	Path    string
	Type    FileChangeType
	Content []byte
}

package domain

import (
	"fmt"
	"strings"
)

// NoopExecutor is the executor for targets that only exist to aggregate others
const NoopExecutor = "nx:noop"

// ProjectConfiguration is the content of a project.json descriptor
type ProjectConfiguration struct {
	Name        string                         `json:"name"`
	Root        string                         `json:"root,omitempty"`
	SourceRoot  string                         `json:"sourceRoot,omitempty"`
	ProjectType string                         `json:"projectType,omitempty"`
	Tags        []string                       `json:"tags,omitempty"`
	Targets     map[string]TargetConfiguration `json:"targets,omitempty"`
}

// TargetConfiguration describes one named executable target of a project
type TargetConfiguration struct {
	Command  string         `json:"command,omitempty"`
	Executor string         `json:"executor,omitempty"`
	Options  map[string]any `json:"options,omitempty"`
	Outputs  []string       `json:"outputs,omitempty"`
	Cache    *bool          `json:"cache,omitempty"`
}

// Commands returns the shell commands the target runs, in order. Supports the
// `command` shorthand as well as options.command and options.commands.
func (t TargetConfiguration) Commands() []string {
	if t.Command != "" {
		return []string{t.Command}
	}
	if cmd, ok := t.Options["command"].(string); ok && cmd != "" {
		return []string{cmd}
	}
	var cmds []string
	if list, ok := t.Options["commands"].([]any); ok {
		for _, item := range list {
			switch c := item.(type) {
			case string:
				cmds = append(cmds, c)
			case map[string]any:
				if s, ok := c["command"].(string); ok {
					cmds = append(cmds, s)
				}
			}
		}
	}
	return cmds
}

// Cwd returns the working directory relative to the workspace root, if set
func (t TargetConfiguration) Cwd() string {
	if cwd, ok := t.Options["cwd"].(string); ok {
		return cwd
	}
	return ""
}

// TaskID identifies a task as project:target
type TaskID struct {
	Project string
	Target  string
}

func (id TaskID) String() string {
	return fmt.Sprintf("%s:%s", id.Project, id.Target)
}

// ParseTaskID parses "project:target"
func ParseTaskID(s string) (TaskID, error) {
	project, target, ok := strings.Cut(s, ":")
	if !ok || project == "" || target == "" {
		return TaskID{}, fmt.Errorf("invalid task %q, expected project:target", s)
	}
	return TaskID{Project: project, Target: target}, nil
}

package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for domain operations
var (
	// ErrNotFound is returned when a requested resource doesn't exist
	ErrNotFound = errors.New("not found")

	// ErrWorkspaceNotFound is returned when no nx.json can be located
	ErrWorkspaceNotFound = errors.New("not in an nx workspace (nx.json not found)")

	// ErrProjectNotFound is returned when a project name does not resolve
	ErrProjectNotFound = errors.New("project not found")

	// ErrTargetNotFound is returned when a project has no such target
	ErrTargetNotFound = errors.New("target not found")

	// ErrGeneratorNotFound is returned when no installed plugin provides a generator
	ErrGeneratorNotFound = errors.New("generator not found")

	// ErrInvalidPackageSpecifier is returned for malformed pkg@version arguments
	ErrInvalidPackageSpecifier = errors.New("invalid package specifier")

	// ErrFileExists is returned when a host operation would clobber an existing file
	ErrFileExists = errors.New("file already exists")

	// ErrInstallationMissing is returned when a package is expected in the
	// encapsulated installation but is not there
	ErrInstallationMissing = errors.New("package is not installed")
)

// TaskFailedError reports the tasks that exited non-zero during a run
type TaskFailedError struct {
	Target string
	Failed []TaskID
}

func (e *TaskFailedError) Error() string {
	ids := make([]string, len(e.Failed))
	for i, id := range e.Failed {
		ids[i] = id.String()
	}
	return fmt.Sprintf("running target %s failed: %s", e.Target, strings.Join(ids, ", "))
}

// UnknownPluginError is returned when a plugin name is neither installed nor
// available from any registry
type UnknownPluginError struct {
	Name        string
	Suggestions []string
}

func (e *UnknownPluginError) Error() string {
	msg := fmt.Sprintf("could not find plugin %q", e.Name)
	if len(e.Suggestions) > 0 {
		msg += fmt.Sprintf(" - did you mean %s?", strings.Join(e.Suggestions, ", "))
	}
	return msg
}

func (e *UnknownPluginError) Unwrap() error { return ErrNotFound }

// AmbiguousGeneratorError is returned when a bare generator name is provided by
// more than one installed plugin and no prompt can disambiguate
type AmbiguousGeneratorError struct {
	Generator  string
	Candidates []string
}

func (e *AmbiguousGeneratorError) Error() string {
	var suggestions []string
	for _, c := range e.Candidates {
		suggestions = append(suggestions, fmt.Sprintf("  - %s:%s", c, e.Generator))
	}
	return fmt.Sprintf("multiple plugins provide generator %q - use the collection:generator format to disambiguate:\n%s",
		e.Generator, strings.Join(suggestions, "\n"))
}

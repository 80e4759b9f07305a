package helpers

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/google/shlex"
	"github.com/google/uuid"

	"github.com/enio-ireland/nx/internal/cli"
	"github.com/enio-ireland/nx/internal/config"
	"github.com/enio-ireland/nx/internal/usecase"
)

const commandTimeout = 2 * time.Minute

// Workspace is a temporary encapsulated nx workspace
type Workspace struct {
	Root string
}

// NewEncapsulatedWorkspace creates an empty directory and runs
// "nx init --encapsulated" in it
func NewEncapsulatedWorkspace(t *testing.T) *Workspace {
	t.Helper()

	root, err := os.MkdirTemp("", "nx-e2e-")
	if err != nil {
		t.Fatalf("failed to create workspace: %v", err)
	}
	w := &Workspace{Root: root}
	Debugf(t, "workspace: %s", root)

	w.Run(t, "init --encapsulated")
	return w
}

type runOptions struct {
	env     map[string]string
	fetcher usecase.MigrationFetcher
}

// RunOption customizes one invocation
type RunOption func(*runOptions)

// WithEnv sets environment variables for the invocation
func WithEnv(env map[string]string) RunOption {
	return func(o *runOptions) {
		for k, v := range env {
			o.env[k] = v
		}
	}
}

// WithMigrationFetcher makes migrate resolve packages through f
func WithMigrationFetcher(f usecase.MigrationFetcher) RunOption {
	return func(o *runOptions) { o.fetcher = f }
}

// Run executes an nx command line in the workspace and fails the test if it
// returns an error. It returns what the command printed to stdout.
func (w *Workspace) Run(t testing.TB, cmdline string, opts ...RunOption) string {
	t.Helper()
	out, err := w.Exec(t, cmdline, opts...)
	if err != nil {
		t.Fatalf("nx %s failed: %v\n%s", cmdline, err, out)
	}
	return out
}

// Exec executes an nx command line in the workspace. On failure the returned
// output includes stderr.
func (w *Workspace) Exec(t testing.TB, cmdline string, opts ...RunOption) (string, error) {
	t.Helper()

	args, err := shlex.Split(cmdline)
	if err != nil {
		return "", fmt.Errorf("invalid command line %q: %w", cmdline, err)
	}

	o := &runOptions{env: map[string]string{
		"NX_NON_INTERACTIVE": "true",
		"NX_TTY":             "false",
	}}
	if IsDebugEnabled() {
		o.env["NX_LOG_LEVEL"] = "debug"
	}
	for _, opt := range opts {
		opt(o)
	}

	cliOpts := []cli.Option{cli.WithDir(w.Root), cli.WithEnv(o.env)}
	if o.fetcher != nil {
		cliOpts = append(cliOpts, cli.WithMigrationFetcher(o.fetcher))
	}

	var stdout, stderr bytes.Buffer
	cmd := cli.NewRootCmd(cliOpts...)
	cmd.SetArgs(args)
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)

	ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
	defer cancel()
	err = cmd.ExecuteContext(ctx)

	if IsDebugEnabled() {
		t.Logf("=== nx %s ===", cmdline)
		t.Logf("Exit: %v", err)
		t.Logf("=== STDOUT ===\n%s", stdout.String())
		t.Logf("=== STDERR ===\n%s", stderr.String())
	}

	if err != nil {
		return stdout.String() + stderr.String(), err
	}
	return stdout.String(), nil
}

// CleanupOptions controls what Cleanup does
type CleanupOptions struct {
	// SkipReset leaves the cache alone instead of running "nx reset"
	SkipReset bool
}

// Cleanup resets the cache and removes the workspace
func (w *Workspace) Cleanup(t testing.TB, opts CleanupOptions) {
	t.Helper()

	if !opts.SkipReset {
		if _, err := w.Exec(t, "reset"); err != nil {
			t.Logf("Warning: nx reset failed: %v", err)
		}
	}

	if ShouldSkipCleanup() {
		t.Logf("🔍 Skipping cleanup, workspace preserved at: %s", w.Root)
		return
	}
	if err := os.RemoveAll(w.Root); err != nil {
		t.Logf("Warning: failed to remove workspace: %v", err)
	}
}

// Uniq returns prefix followed by random digits, for unique project names
func Uniq(prefix string) string {
	digits := strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, uuid.NewString())
	if len(digits) > 7 {
		digits = digits[:7]
	}
	return prefix + digits
}

// PublishedVersion is the version nx and its plugins are published at
func PublishedVersion() string {
	return config.Version
}

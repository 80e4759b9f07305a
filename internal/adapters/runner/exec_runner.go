package runner

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os/exec"

	"github.com/enio-ireland/nx/internal/domain/config"
	"github.com/enio-ireland/nx/internal/usecase"
)

// ExecRunnerAdapter runs task commands through sh -c and captures combined output
type ExecRunnerAdapter struct {
	log *slog.Logger
}

// NewExecRunnerAdapter creates a new ExecRunnerAdapter
func NewExecRunnerAdapter(log *slog.Logger) *ExecRunnerAdapter {
	return &ExecRunnerAdapter{log: log}
}

// Run executes the command and reports its exit code. A non-zero exit is not
// an error; failing to start the shell is.
func (r *ExecRunnerAdapter) Run(ctx context.Context, req usecase.CommandRequest) (*usecase.CommandResult, error) {
	cmd := exec.CommandContext(ctx, "sh", "-c", req.Command)
	cmd.Dir = req.Dir
	cmd.Env = req.Env

	var out bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &out

	r.log.Debug("exec", "command", req.Command, "dir", req.Dir)
	err := cmd.Run()
	return commandResult(out.String(), err)
}

func commandResult(output string, err error) (*usecase.CommandResult, error) {
	if err == nil {
		return &usecase.CommandResult{Output: output}, nil
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return &usecase.CommandResult{Output: output, ExitCode: exitErr.ExitCode()}, nil
	}
	return nil, fmt.Errorf("failed to run command: %w", err)
}

// NewCommandRunner picks the pty runner when tty output is requested
func NewCommandRunner(cfg *config.RuntimeConfig, log *slog.Logger) usecase.CommandRunner {
	if cfg.TTY {
		return NewPtyRunnerAdapter(log)
	}
	return NewExecRunnerAdapter(log)
}

// Ensure ExecRunnerAdapter implements CommandRunner
var _ usecase.CommandRunner = (*ExecRunnerAdapter)(nil)

package runner

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os/exec"
	"strings"

	"github.com/creack/pty"

	"github.com/enio-ireland/nx/internal/usecase"
)

// PtyRunnerAdapter runs task commands attached to a pseudo terminal so tools
// keep their colored output
type PtyRunnerAdapter struct {
	log *slog.Logger
}

// NewPtyRunnerAdapter creates a new PtyRunnerAdapter
func NewPtyRunnerAdapter(log *slog.Logger) *PtyRunnerAdapter {
	return &PtyRunnerAdapter{log: log}
}

// Run executes the command on a pty and captures everything it printed
func (r *PtyRunnerAdapter) Run(ctx context.Context, req usecase.CommandRequest) (*usecase.CommandResult, error) {
	cmd := exec.CommandContext(ctx, "sh", "-c", req.Command)
	cmd.Dir = req.Dir
	cmd.Env = req.Env

	r.log.Debug("exec (pty)", "command", req.Command, "dir", req.Dir)
	ptyFile, err := pty.Start(cmd)
	if err != nil {
		return nil, fmt.Errorf("failed to start pty: %w", err)
	}
	defer func() {
		_ = ptyFile.Close()
	}()

	var out bytes.Buffer
	// reading the pty returns EIO once the child exits
	_, _ = io.Copy(&out, ptyFile)

	// terminals translate \n into \r\n
	output := strings.ReplaceAll(out.String(), "\r\n", "\n")
	return commandResult(output, cmd.Wait())
}

// Ensure PtyRunnerAdapter implements CommandRunner
var _ usecase.CommandRunner = (*PtyRunnerAdapter)(nil)

package migration

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"rsc.io/script"

	"github.com/enio-ireland/nx/internal/domain"
	"github.com/enio-ireland/nx/internal/usecase"
)

// ScriptExt is the extension of migration script modules
const ScriptExt = ".nxm"

// EngineAdapter runs migration modules written as rsc.io/script files. The
// commands available depend on how the manifest references the module:
// implementations get the devkit tree, factories get the schematic host.
type EngineAdapter struct {
	log *slog.Logger
}

// NewEngineAdapter creates a new EngineAdapter
func NewEngineAdapter(log *slog.Logger) *EngineAdapter {
	return &EngineAdapter{log: log}
}

// Run executes the module against tree, writing the script trace to log
func (e *EngineAdapter) Run(ctx context.Context, modulePath string, kind domain.MigrationKind, tree usecase.Tree, log io.Writer) error {
	path, err := ResolveModule(modulePath)
	if err != nil {
		return err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read migration module: %w", err)
	}

	engine := &script.Engine{
		Cmds:  Commands(kind, tree),
		Conds: script.DefaultConds(),
	}
	state, err := script.NewState(ctx, tree.Root(), []string{
		"NX_MIGRATION_KIND=" + string(kind),
		"WORKSPACE_ROOT=" + tree.Root(),
	})
	if err != nil {
		return err
	}

	e.log.Debug("executing migration script", "path", path, "kind", kind)
	return engine.Execute(state, path, bufio.NewReader(bytes.NewReader(data)), log)
}

// ResolveModule maps a module reference to a script file, trying the path as
// written and then with the script extension
func ResolveModule(ref string) (string, error) {
	for _, candidate := range []string{ref, ref + ScriptExt} {
		info, err := os.Stat(candidate)
		if err == nil && !info.IsDir() {
			return candidate, nil
		}
		if err != nil && !errors.Is(err, os.ErrNotExist) {
			return "", err
		}
	}
	return "", fmt.Errorf("%w: migration module %s", domain.ErrNotFound, ref)
}

// Commands returns the script commands for a kind of migration
func Commands(kind domain.MigrationKind, tree usecase.Tree) map[string]script.Cmd {
	defaults := script.DefaultCmds()
	cmds := map[string]script.Cmd{
		"echo":   defaults["echo"],
		"stdout": defaults["stdout"],
		"stop":   defaults["stop"],
		"log":    logCmd(),
		"read":   readCmd(tree),
		"exists": existsCmd(tree),
		"delete": deleteCmd(tree),
		"rename": renameCmd(tree),
	}
	switch kind {
	case domain.MigrationFactory:
		cmds["create"] = createCmd(tree)
		cmds["overwrite"] = overwriteCmd(tree)
	default:
		cmds["write"] = writeCmd(tree)
	}
	return cmds
}

// content joins the remaining arguments, expanding \n and \t
func content(args []string) []byte {
	s := strings.Join(args, " ")
	s = strings.NewReplacer(`\n`, "\n", `\t`, "\t").Replace(s)
	return []byte(s)
}

func logCmd() script.Cmd {
	return script.Command(
		script.CmdUsage{Summary: "print a message to the migration log", Args: "message..."},
		func(s *script.State, args ...string) (script.WaitFunc, error) {
			s.Logf("%s\n", strings.Join(args, " "))
			return nil, nil
		})
}

func readCmd(tree usecase.Tree) script.Cmd {
	return script.Command(
		script.CmdUsage{Summary: "read a file into stdout", Args: "path"},
		func(s *script.State, args ...string) (script.WaitFunc, error) {
			if len(args) != 1 {
				return nil, script.ErrUsage
			}
			data, err := tree.Read(args[0])
			if err != nil {
				return nil, err
			}
			return func(*script.State) (string, string, error) {
				return string(data), "", nil
			}, nil
		})
}

func existsCmd(tree usecase.Tree) script.Cmd {
	return script.Command(
		script.CmdUsage{Summary: "check that files exist", Args: "path..."},
		func(s *script.State, args ...string) (script.WaitFunc, error) {
			if len(args) == 0 {
				return nil, script.ErrUsage
			}
			for _, p := range args {
				if !tree.Exists(p) {
					return nil, fmt.Errorf("%s does not exist", p)
				}
			}
			return nil, nil
		})
}

func deleteCmd(tree usecase.Tree) script.Cmd {
	return script.Command(
		script.CmdUsage{Summary: "delete files", Args: "path..."},
		func(s *script.State, args ...string) (script.WaitFunc, error) {
			if len(args) == 0 {
				return nil, script.ErrUsage
			}
			for _, p := range args {
				if err := tree.Delete(p); err != nil {
					return nil, err
				}
			}
			return nil, nil
		})
}

func renameCmd(tree usecase.Tree) script.Cmd {
	return script.Command(
		script.CmdUsage{Summary: "rename a file", Args: "from to"},
		func(s *script.State, args ...string) (script.WaitFunc, error) {
			if len(args) != 2 {
				return nil, script.ErrUsage
			}
			return nil, tree.Rename(args[0], args[1])
		})
}

func writeCmd(tree usecase.Tree) script.Cmd {
	return script.Command(
		script.CmdUsage{
			Summary: "write a file, creating or replacing it",
			Args:    "path content...",
			Detail:  []string{`Content arguments are joined with spaces; \n and \t are expanded.`},
		},
		func(s *script.State, args ...string) (script.WaitFunc, error) {
			if len(args) < 1 {
				return nil, script.ErrUsage
			}
			return nil, tree.Write(args[0], content(args[1:]))
		})
}

func createCmd(tree usecase.Tree) script.Cmd {
	return script.Command(
		script.CmdUsage{
			Summary: "create a file that does not exist yet",
			Args:    "path content...",
			Detail:  []string{`Content arguments are joined with spaces; \n and \t are expanded.`},
		},
		func(s *script.State, args ...string) (script.WaitFunc, error) {
			if len(args) < 1 {
				return nil, script.ErrUsage
			}
			return nil, tree.Create(args[0], content(args[1:]))
		})
}

func overwriteCmd(tree usecase.Tree) script.Cmd {
	return script.Command(
		script.CmdUsage{
			Summary: "replace the content of an existing file",
			Args:    "path content...",
			Detail:  []string{`Content arguments are joined with spaces; \n and \t are expanded.`},
		},
		func(s *script.State, args ...string) (script.WaitFunc, error) {
			if len(args) < 1 {
				return nil, script.ErrUsage
			}
			return nil, tree.Overwrite(args[0], content(args[1:]))
		})
}

// Ensure EngineAdapter implements MigrationEngine
var _ usecase.MigrationEngine = (*EngineAdapter)(nil)

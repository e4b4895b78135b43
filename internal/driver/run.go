package driver

import (
	"context"
	"fmt"
	"os"

	"github.com/mna/mainer"

	"github.com/vela-lang/vela/internal/config"
	"github.com/vela-lang/vela/vm"
)

// cmdError wraps a command failure with the process exit code §6 assigns
// it: 65 for a compile error, 70 for a runtime error.
type cmdError struct {
	code int
}

func (e *cmdError) Error() string { return "" }
func (e *cmdError) ExitCode() int { return e.code }

// Run compiles and executes the single source file named by args[0].
func (c *Cmd) Run(ctx context.Context, stdio mainer.Stdio, args []string) error {
	path := args[0]
	src, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintf(stdio.Stderr, "%s: %s\n", path, err)
		return &cmdError{code: 1}
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(stdio.Stderr, "loading configuration: %s\n", err)
		return &cmdError{code: 1}
	}

	machine := vm.New(cfg)
	machine.Stdout = stdio.Stdout
	machine.Stderr = stdio.Stderr

	switch machine.Interpret(src) {
	case vm.InterpretCompileError:
		return &cmdError{code: 65}
	case vm.InterpretRuntimeError:
		return &cmdError{code: 70}
	default:
		return nil
	}
}

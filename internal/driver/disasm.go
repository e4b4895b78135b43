package driver

import (
	"context"
	"fmt"
	"os"

	"github.com/mna/mainer"

	"github.com/vela-lang/vela/compiler"
	"github.com/vela-lang/vela/value"
)

// Disasm compiles the named source file and prints its disassembled
// bytecode instead of running it, mirroring the teacher's own
// parse/resolve commands (internal/maincmd/parse.go, resolve.go) against
// this module's compiler.Compile + value.Disassemble in place of the
// teacher's parser.ParseFiles + ast.Printer.
func (c *Cmd) Disasm(ctx context.Context, stdio mainer.Stdio, args []string) error {
	path := args[0]
	src, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintf(stdio.Stderr, "%s: %s\n", path, err)
		return &cmdError{code: 1}
	}

	fn, errs := compiler.Compile(src)
	if errs != nil {
		fmt.Fprint(stdio.Stderr, errs.Error()+"\n")
		return &cmdError{code: 65}
	}

	fmt.Fprint(stdio.Stdout, value.Disassemble(&fn.Chunk, path))
	disasmNestedFunctions(stdio, &fn.Chunk)
	return nil
}

// disasmNestedFunctions walks a chunk's constant pool and disassembles
// every nested Function constant (method and closure bodies), which
// otherwise never appear in top-level code.
func disasmNestedFunctions(stdio mainer.Stdio, chunk *value.Chunk) {
	for _, v := range chunk.Constants {
		if !v.IsObj() {
			continue
		}
		if nested, ok := v.AsObject().(*value.Function); ok {
			name := "<fn>"
			if nested.Name != nil {
				name = nested.Name.Chars
			}
			fmt.Fprint(stdio.Stdout, value.Disassemble(&nested.Chunk, name))
			disasmNestedFunctions(stdio, &nested.Chunk)
		}
	}
}

package driver

import (
	"context"
	"fmt"
	"os"

	"github.com/mna/mainer"

	"github.com/vela-lang/vela/scanner"
	"github.com/vela-lang/vela/token"
)

// Tokenize runs only the scanner phase over the named file and prints one
// line per token, mirroring the teacher's own tokenize command
// (internal/maincmd/tokenize.go) against this module's single-file,
// single-buffer scanner.Scanner rather than the teacher's multi-file
// token.FileSet.
func (c *Cmd) Tokenize(ctx context.Context, stdio mainer.Stdio, args []string) error {
	path := args[0]
	src, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintf(stdio.Stderr, "%s: %s\n", path, err)
		return &cmdError{code: 1}
	}

	sc := scanner.New(src)
	for {
		tok := sc.Scan()
		fmt.Fprintf(stdio.Stdout, "%4d %-14s %q\n", tok.Line, tok.Kind, tok.Lexeme)
		if tok.Kind == token.EOF {
			break
		}
	}
	return nil
}

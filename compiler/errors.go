package compiler

import "fmt"

// CompileError is a single diagnostic produced by the compiler, formatted
// per §7: "[line N] Error at '<lexeme>': <msg>".
type CompileError struct {
	Line   int
	Where  string // lexeme, or "end" at EOF
	Msg    string
}

func (e *CompileError) Error() string {
	if e.Where == "" {
		return fmt.Sprintf("[line %d] Error: %s", e.Line, e.Msg)
	}
	return fmt.Sprintf("[line %d] Error at '%s': %s", e.Line, e.Where, e.Msg)
}

// ErrorList aggregates every CompileError reported during a single compile,
// following the teacher's use of go/scanner.ErrorList as its diagnostic
// aggregate (lang/scanner/scanner.go's `type ErrorList = scanner.ErrorList`)
// — this module defines its own small analogue instead of importing
// go/scanner purely for that one type.
type ErrorList struct {
	errs []*CompileError
}

func (l *ErrorList) add(e *CompileError) { l.errs = append(l.errs, e) }

func (l *ErrorList) Empty() bool { return len(l.errs) == 0 }

func (l *ErrorList) Error() string {
	if len(l.errs) == 0 {
		return ""
	}
	if len(l.errs) == 1 {
		return l.errs[0].Error()
	}
	s := l.errs[0].Error()
	for _, e := range l.errs[1:] {
		s += "\n" + e.Error()
	}
	return s
}

// Errs returns the individual errors collected.
func (l *ErrorList) Errs() []*CompileError { return l.errs }

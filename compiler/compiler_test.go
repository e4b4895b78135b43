package compiler

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/vela-lang/vela/value"
)

func compileOK(t *testing.T, src string) *value.Function {
	t.Helper()
	fn, errs := Compile([]byte(src))
	require.Nil(t, errs, "unexpected compile errors: %v", errs)
	require.NotNil(t, fn)
	return fn
}

func compileErr(t *testing.T, src string) *ErrorList {
	t.Helper()
	fn, errs := Compile([]byte(src))
	require.Nil(t, fn)
	require.NotNil(t, errs)
	require.False(t, errs.Empty())
	return errs
}

func TestCompileSimpleExpression(t *testing.T) {
	fn := compileOK(t, `print 1 + 2;`)
	require.NotEmpty(t, fn.Chunk.Code)
}

func TestDuplicateLocalIsCompileError(t *testing.T) {
	errs := compileErr(t, `{ var a = 1; var a = 2; }`)
	require.Contains(t, errs.Error(), "already a variable")
}

func TestSelfReferenceInOwnInitializerIsCompileError(t *testing.T) {
	errs := compileErr(t, `{ var a = a; }`)
	require.Contains(t, errs.Error(), "own initializer")
}

func TestValWithoutInitializerIsCompileError(t *testing.T) {
	errs := compileErr(t, `val k;`)
	require.Contains(t, errs.Error(), "requires an initializer")
}

func TestImmutableLocalAssignmentIsCompileError(t *testing.T) {
	errs := compileErr(t, `{ val k = 1; k = 2; }`)
	require.Contains(t, errs.Error(), "immutable")
}

func TestTopLevelReturnIsCompileError(t *testing.T) {
	errs := compileErr(t, `return 1;`)
	require.Contains(t, errs.Error(), "top-level")
}

func TestReturnValueFromInitializerIsCompileError(t *testing.T) {
	errs := compileErr(t, `class C { init() { return 1; } }`)
	require.Contains(t, errs.Error(), "initializer")
}

func TestSuperOutsideClassIsCompileError(t *testing.T) {
	errs := compileErr(t, `fun f() { super.x(); }`)
	require.Contains(t, errs.Error(), "outside a class")
}

func TestSuperWithoutSuperclassIsCompileError(t *testing.T) {
	errs := compileErr(t, `class A { m() { super.m(); } }`)
	require.Contains(t, errs.Error(), "no superclass")
}

func TestThisOutsideClassIsCompileError(t *testing.T) {
	errs := compileErr(t, `fun f() { return this; }`)
	require.Contains(t, errs.Error(), "outside a class")
}

func TestClassInheritingFromItselfIsCompileError(t *testing.T) {
	errs := compileErr(t, `class A < A {}`)
	require.Contains(t, errs.Error(), "inherit from itself")
}

func TestBreakOutsideLoopIsCompileError(t *testing.T) {
	errs := compileErr(t, `break;`)
	require.Contains(t, errs.Error(), "outside a loop")
}

func TestContinueOutsideLoopIsCompileError(t *testing.T) {
	errs := compileErr(t, `continue;`)
	require.Contains(t, errs.Error(), "outside a loop")
}

func TestTooManyLocalsIsCompileError(t *testing.T) {
	var b strings.Builder
	b.WriteString("{\n")
	for i := 0; i < maxLocals+1; i++ {
		fmt.Fprintf(&b, "var v%d = %d;\n", i, i)
	}
	b.WriteString("}\n")
	fn, errs := Compile([]byte(b.String()))
	require.Nil(t, fn)
	require.NotNil(t, errs)
}

func TestTooManyParametersIsCompileError(t *testing.T) {
	var params []string
	for i := 0; i < 256; i++ {
		params = append(params, fmt.Sprintf("p%d", i))
	}
	src := fmt.Sprintf("fun f(%s) {}", strings.Join(params, ", "))
	errs := compileErr(t, src)
	require.Contains(t, errs.Error(), "255 parameters")
}

func TestLoopBodyTooLargeIsCompileError(t *testing.T) {
	var b strings.Builder
	b.WriteString("while (true) {\n")
	for i := 0; i < 20000; i++ {
		b.WriteString("print 1;\n")
	}
	b.WriteString("}\n")
	fn, errs := Compile([]byte(b.String()))
	require.Nil(t, fn)
	require.NotNil(t, errs)
	require.Contains(t, errs.Error(), "loop body too large")
}

func TestLongFormConstantIndexAboveShortLimit(t *testing.T) {
	var b strings.Builder
	for i := 0; i < 200; i++ {
		fmt.Fprintf(&b, "print %d;\n", i)
	}
	fn := compileOK(t, b.String())
	require.Greater(t, len(fn.Chunk.Constants), 127)
}

func TestMultipleErrorsAggregateWithoutCascading(t *testing.T) {
	errs := compileErr(t, `
{ var a = 1; var a = 2; }
{ val k = 1; k = 2; }
`)
	require.Len(t, errs.Errs(), 2)
}

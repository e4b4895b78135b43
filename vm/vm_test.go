package vm

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/vela-lang/vela/internal/config"
)

// run interprets src with a fresh VM and returns its stdout, stderr and the
// InterpretResult, matching §8's "source on left, expected stdout on right"
// end-to-end scenario shape.
func run(t *testing.T, src string) (stdout, stderr string, result InterpretResult) {
	t.Helper()
	var outBuf, errBuf bytes.Buffer
	m := New(config.Default())
	m.Stdout = &outBuf
	m.Stderr = &errBuf
	result = m.Interpret([]byte(src))
	return outBuf.String(), errBuf.String(), result
}

func lines(s string) []string {
	s = strings.TrimRight(s, "\n")
	if s == "" {
		return nil
	}
	return strings.Split(s, "\n")
}

func TestArithmeticAndPrint(t *testing.T) {
	out, _, res := run(t, `var a = 1; var b = 2; print a + b;`)
	require.Equal(t, InterpretOK, res)
	require.Equal(t, []string{"3"}, lines(out))
}

func TestClosureCapture(t *testing.T) {
	out, stderr, res := run(t, `
fun makeCounter() { var n = 0; fun inc() { n = n + 1; return n; } return inc; }
var c = makeCounter(); print c(); print c(); print c();
`)
	require.Equal(t, InterpretOK, res, stderr)
	require.Equal(t, []string{"1", "2", "3"}, lines(out))
}

func TestClassInheritanceAndSuper(t *testing.T) {
	out, stderr, res := run(t, `
class A { greet() { print "A"; } }
class B < A { greet() { super.greet(); print "B"; } }
B().greet();
`)
	require.Equal(t, InterpretOK, res, stderr)
	require.Equal(t, []string{"A", "B"}, lines(out))
}

func TestInitializerAndField(t *testing.T) {
	out, stderr, res := run(t, `class P { init(x) { this.x = x; } } print P(7).x;`)
	require.Equal(t, InterpretOK, res, stderr)
	require.Equal(t, []string{"7"}, lines(out))
}

func TestBreakContinueInFor(t *testing.T) {
	out, stderr, res := run(t, `
for (var i = 0; i < 5; i = i + 1) { if (i == 1) continue; if (i == 3) break; print i; }
`)
	require.Equal(t, InterpretOK, res, stderr)
	require.Equal(t, []string{"0", "2"}, lines(out))
}

// Global immutability is a runtime check (§4.2: the IMMUTABLE flag lives in
// the globals table, checked by OP_SET_GLOBAL), unlike a local `val`, whose
// violation is caught at compile time by namedVariable's mutable check.
func TestImmutableGlobalReassignmentIsRuntimeError(t *testing.T) {
	_, stderr, res := run(t, `val k = 1; k = 2;`)
	require.Equal(t, InterpretRuntimeError, res)
	require.Contains(t, stderr, "immutable")
}

func TestImmutableLocalReassignmentIsCompileError(t *testing.T) {
	_, stderr, res := run(t, `{ val k = 1; k = 2; }`)
	require.Equal(t, InterpretCompileError, res)
	require.Contains(t, stderr, "immutable")
}

func TestListNatives(t *testing.T) {
	out, stderr, res := run(t, `var xs = list(); append(xs, 10); append(xs, 20); print get(xs, 1); print len(xs);`)
	require.Equal(t, InterpretOK, res, stderr)
	require.Equal(t, []string{"20", "2"}, lines(out))
}

func TestStringInterningAcrossConcatenation(t *testing.T) {
	out, stderr, res := run(t, `print ("ab" + "c") == ("a" + "bc");`)
	require.Equal(t, InterpretOK, res, stderr)
	require.Equal(t, []string{"true"}, lines(out))
}

func TestDeepRecursionOverflowsFrames(t *testing.T) {
	_, stderr, res := run(t, `
fun recurse(n) { return recurse(n + 1); }
recurse(0);
`)
	require.Equal(t, InterpretRuntimeError, res)
	require.Contains(t, stderr, "stack overflow")
}

func TestGlobalFunctionRecursion(t *testing.T) {
	out, stderr, res := run(t, `
fun fib(n) { if (n < 2) return n; return fib(n - 1) + fib(n - 2); }
print fib(10);
`)
	require.Equal(t, InterpretOK, res, stderr)
	require.Equal(t, []string{"55"}, lines(out))
}

func TestSwitchFallthroughStyleCases(t *testing.T) {
	out, stderr, res := run(t, `
fun classify(n) {
  switch (n) {
    case 1: print "one";
    case 2: print "two";
    default: print "other";
  }
}
classify(1); classify(2); classify(9);
`)
	require.Equal(t, InterpretOK, res, stderr)
	require.Equal(t, []string{"one", "two", "other"}, lines(out))
}

func TestTernaryAndLogicalShortCircuit(t *testing.T) {
	out, stderr, res := run(t, `
print true ? "yes" : "no";
print false ? "yes" : "no";
print false and (1 / 0 == 0);
print true or (1 / 0 == 0);
`)
	require.Equal(t, InterpretOK, res, stderr)
	require.Equal(t, []string{"yes", "no", "false", "true"}, lines(out))
}

func TestImmutableCapturedUpvalueAssignmentIsRuntimeError(t *testing.T) {
	_, stderr, res := run(t, `
fun make() {
  val n = 0;
  fun set() { n = 1; }
  return set;
}
make()();
`)
	require.Equal(t, InterpretRuntimeError, res)
	require.Contains(t, stderr, "immutable")
}

func TestGCCollectsUnreachableStringsWithoutBreakingLiveProgram(t *testing.T) {
	var outBuf, errBuf bytes.Buffer
	cfg := config.Default()
	cfg.InitialGCThreshold = 1 // collect as aggressively as possible
	m := New(cfg)
	m.Stdout = &outBuf
	m.Stderr = &errBuf

	res := m.Interpret([]byte(`
class Counter {
  init() { this.n = 0; }
  bump() { this.n = this.n + 1; return this.n; }
}
var c = Counter();
var i = 0;
while (i < 50) {
  var garbage = "garbage-" + toString(i);
  c.bump();
  i = i + 1;
}
print c.n;
`))
	require.Equal(t, InterpretOK, res, errBuf.String())
	require.Equal(t, []string{"50"}, lines(outBuf.String()))
}

func TestGCPreservesMethodsTableMidDefinition(t *testing.T) {
	var outBuf, errBuf bytes.Buffer
	cfg := config.Default()
	cfg.InitialGCThreshold = 1
	m := New(cfg)
	m.Stdout = &outBuf
	m.Stderr = &errBuf

	res := m.Interpret([]byte(`
class Big {
  m0() { return 0; } m1() { return 1; } m2() { return 2; }
  m3() { return 3; } m4() { return 4; } m5() { return 5; }
}
var b = Big();
print b.m0() + b.m1() + b.m2() + b.m3() + b.m4() + b.m5();
`))
	require.Equal(t, InterpretOK, res, errBuf.String())
	require.Equal(t, []string{"15"}, lines(outBuf.String()))
}

func TestRuntimeErrorUnwindsWithFrameTrace(t *testing.T) {
	_, stderr, res := run(t, `
fun inner() { return 1 + "x"; }
fun outer() { return inner(); }
outer();
`)
	require.Equal(t, InterpretRuntimeError, res)
	require.Contains(t, stderr, "in inner")
	require.Contains(t, stderr, "in outer")
	require.Contains(t, stderr, "in script")
}

func TestUndefinedVariableIsRuntimeError(t *testing.T) {
	_, stderr, res := run(t, `print doesNotExist;`)
	require.Equal(t, InterpretRuntimeError, res)
	require.Contains(t, stderr, "undefined variable")
}

func TestListSliceNative(t *testing.T) {
	out, stderr, res := run(t, `
var xs = list();
append(xs, 1); append(xs, 2); append(xs, 3); append(xs, 4); append(xs, 5);
var ys = slice(xs, 1, 4, 1);
print len(ys);
print get(ys, 0);
`)
	require.Equal(t, InterpretOK, res, stderr)
	require.Equal(t, []string{"3", "2"}, lines(out))
}

func TestListIndexAssignmentAndOutOfRange(t *testing.T) {
	out, stderr, res := run(t, `
var xs = list();
append(xs, 1); append(xs, 2);
xs[0] = 99;
print xs[0];
`)
	require.Equal(t, InterpretOK, res, stderr)
	require.Equal(t, []string{"99"}, lines(out))

	_, stderr2, res2 := run(t, `
var xs = list();
print xs[0];
`)
	require.Equal(t, InterpretRuntimeError, res2)
	require.Contains(t, stderr2, "out of range")
}

func TestStringIndexing(t *testing.T) {
	out, stderr, res := run(t, `print "hello"[1];`)
	require.Equal(t, InterpretOK, res, stderr)
	require.Equal(t, []string{"e"}, lines(out))
}

func TestMixedStringNumberAddIsRuntimeError(t *testing.T) {
	_, stderr, res := run(t, `print 1 + "x";`)
	require.Equal(t, InterpretRuntimeError, res)
	require.Contains(t, stderr, "unsupported operand")
}

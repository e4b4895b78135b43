// Package vm implements the stack-and-call-frame interpreter described in
// §4.4: value dispatch over a flat bytecode stream, string interning,
// upvalue capture/closing, class/instance/bound-method calling, and the
// tracing mark-sweep collector in gc.go.
//
// The overall shape — a struct owning the stack and frame array, Stdout/
// Stderr writers defaulting to os.Std{out,err}, and a single-entry
// Interpret-and-run call — is grounded on the teacher's lang/machine.Thread
// (thread.go) and its RunProgram/run dispatch loop, generalized from the
// teacher's register-ish tuple-based machine to the spec's register-less
// value-stack machine. The opcode semantics themselves have no teacher
// antecedent (lang/machine/opcode.go is a different instruction set
// entirely) and are grounded directly on §4.3/§4.4.
package vm

import (
	"fmt"
	"io"
	"os"

	"github.com/vela-lang/vela/compiler"
	"github.com/vela-lang/vela/internal/config"
	"github.com/vela-lang/vela/value"
)

// InterpretResult is the coarse outcome of a top-level Interpret call, per
// §6's entry point contract.
type InterpretResult int

const (
	InterpretOK InterpretResult = iota
	InterpretCompileError
	InterpretRuntimeError
)

// CallFrame is one activation record: the executing closure, its
// instruction pointer (an offset into closure.Function.Chunk.Code), and the
// base stack slot its locals start at.
type CallFrame struct {
	closure   *value.Closure
	ip        int
	slotsBase int
}

// VM owns everything a single interpretation session touches: the value
// stack, the call-frame array, the globals and string-intern tables, the
// intrusive heap-object list, and GC bookkeeping. It is not safe for
// concurrent use — §5 specifies a single-threaded cooperative model.
type VM struct {
	// Stdout and Stderr receive `print`/toString output and, respectively,
	// compile/runtime diagnostics (§6). Defaults to os.Stdout/os.Stderr.
	Stdout io.Writer
	Stderr io.Writer

	cfg config.Config

	stack []value.Value

	frames     []CallFrame
	frameCount int

	globals *value.Table
	strings *value.Table // the intern set

	natives *nativeRegistry // built-in functions, consulted on a globals miss

	objects value.Object // intrusive linked list, most-recently-allocated first

	openUpvalues []*value.Upvalue // sorted strictly by descending Slot

	bytesAllocated int
	nextGC         int

	initString *value.String

	// lastCallErr carries the runtime error a failed call() recorded, since
	// call's bool-return signature (mirroring clox's callValue) leaves no
	// room for an error value; callValue and the dispatch loop check it
	// immediately after a false return.
	lastCallErr error
}

var _ value.NativeContext = (*VM)(nil)

// New returns a VM configured per cfg, with natives pre-registered.
func New(cfg config.Config) *VM {
	vm := &VM{
		cfg:     cfg,
		globals: value.NewTable(),
		strings: value.NewTable(),
		nextGC:  cfg.InitialGCThreshold,
	}
	vm.initString = vm.Intern("init")
	registerNatives(vm)
	return vm
}

func (vm *VM) out() io.Writer {
	if vm.Stdout != nil {
		return vm.Stdout
	}
	return os.Stdout
}

func (vm *VM) errOut() io.Writer {
	if vm.Stderr != nil {
		return vm.Stderr
	}
	return os.Stderr
}

// Interpret compiles and runs source as a fresh top-level program.
func (vm *VM) Interpret(source []byte) InterpretResult {
	fn, errs := compiler.Compile(source)
	if errs != nil {
		fmt.Fprint(vm.errOut(), errs.Error()+"\n")
		return InterpretCompileError
	}

	vm.stack = vm.stack[:0]
	vm.frameCount = 0
	vm.openUpvalues = vm.openUpvalues[:0]

	// Pin fn on the stack while its constants are interned and its closure is
	// allocated: any of those allocations may trigger a collection, and
	// nothing else roots fn until the closure is pushed.
	vm.push(value.FromObject(fn))
	vm.adoptFunction(fn)
	closure := value.NewClosure(fn)
	vm.track(closure)
	vm.pop()

	vm.push(value.FromObject(closure))
	if !vm.call(closure, 0) {
		return InterpretRuntimeError
	}
	if err := vm.run(); err != nil {
		vm.printRuntimeError(err)
		vm.stack = vm.stack[:0]
		vm.frameCount = 0
		return InterpretRuntimeError
	}
	return InterpretOK
}

// Intern implements value.NativeContext and is the sole path by which a
// String becomes canonical: every string constant the compiler produces,
// and every string built at runtime (concatenation, toString), passes
// through here before it can be compared with `==` or used as a table key.
func (vm *VM) Intern(s string) *value.String {
	hash := value.FNV1a(s)
	if existing := vm.strings.FindString(s, hash); existing != nil {
		return existing
	}
	str := value.NewString(s)
	vm.track(str)
	// Keep the new string reachable across the table's own potential
	// allocation-triggered collection: push as a transient root (§4.5's
	// "Allocation discipline").
	vm.push(value.FromObject(str))
	vm.strings.Set(str, value.Bool(true))
	vm.pop()
	return str
}

// adoptFunction walks fn's constant pool, interning every String constant
// in place and recursively adopting every nested Function constant
// (produced by OP_CLOSURE's compile-time constant), registering each into
// the object list so the GC can reach code the running program hasn't
// executed yet (e.g. an unreferenced branch of a conditional).
func (vm *VM) adoptFunction(fn *value.Function) {
	vm.track(fn)
	if fn.Name != nil {
		fn.Name = vm.Intern(fn.Name.Chars)
	}
	for i, c := range fn.Chunk.Constants {
		if !c.IsObj() {
			continue
		}
		switch o := c.AsObject().(type) {
		case *value.String:
			fn.Chunk.Constants[i] = value.FromObject(vm.Intern(o.Chars))
		case *value.Function:
			vm.adoptFunction(o)
		}
	}
}

// --- value stack ---------------------------------------------------------

// push appends v, growing the stack's capacity by cfg.StackGrowthIncrement
// slots whenever it is full.
func (vm *VM) push(v value.Value) {
	if len(vm.stack) == cap(vm.stack) && vm.cfg.StackGrowthIncrement > 0 {
		grown := make([]value.Value, len(vm.stack), cap(vm.stack)+vm.cfg.StackGrowthIncrement)
		copy(grown, vm.stack)
		vm.stack = grown
	}
	vm.stack = append(vm.stack, v)
}

func (vm *VM) pop() value.Value {
	v := vm.stack[len(vm.stack)-1]
	vm.stack = vm.stack[:len(vm.stack)-1]
	return v
}

func (vm *VM) peek(distance int) value.Value {
	return vm.stack[len(vm.stack)-1-distance]
}

func (vm *VM) currentFrame() *CallFrame { return &vm.frames[vm.frameCount-1] }

type runtimeError struct {
	msg string
}

func (e *runtimeError) Error() string { return e.msg }

func (vm *VM) runtimeErrorf(format string, args ...interface{}) error {
	return &runtimeError{msg: fmt.Sprintf(format, args...)}
}

// printRuntimeError implements §4.4's "format message to stderr, then
// unwind printing '[line L] in <fn-name-or-script>' for each frame
// (innermost first)".
func (vm *VM) printRuntimeError(err error) {
	fmt.Fprintln(vm.errOut(), err.Error())
	for i := vm.frameCount - 1; i >= 0; i-- {
		f := &vm.frames[i]
		fn := f.closure.Function
		line := fn.Chunk.GetLine(f.ip - 1)
		name := "script"
		if fn.Name != nil {
			name = fn.Name.Chars
		}
		fmt.Fprintf(vm.errOut(), "[line %d] in %s\n", line, name)
	}
}

package compiler

import "github.com/vela-lang/vela/value"

// FuncType distinguishes the handful of ways a compiled Function is invoked,
// controlling what slot 0 holds and what a bare `return` emits.
type FuncType int

const (
	FuncScript FuncType = iota
	FuncFunction
	FuncMethod
	FuncInitializer
)

const maxLocals = 256
const maxUpvalues = 256

// local is one entry of a frame's local-variable stack. depth of -1 marks a
// local that has been declared but not yet defined, the sentinel that makes
// `val x = x` inside its own initializer a compile error instead of silently
// reading the enclosing scope's x.
type local struct {
	name       string
	depth      int
	mutable    bool
	isCaptured bool
}

// loopContext tracks the innermost enclosing loop so break/continue know
// where to jump: continue re-enters at loopStart, break records its jump for
// the loop's exit to patch once the loop body is fully compiled (its own
// end offset isn't known until then).
type loopContext struct {
	enclosing   *loopContext
	loopStart   int
	scopeDepth  int
	breakJumps  []int
}

// frame is one nested compiler activation, one per function body being
// compiled (the outermost frame compiles the top-level script). Named
// "frame" rather than "compiler" to keep it distinct from Parser, which
// owns the single token stream shared by every nested frame.
type frame struct {
	enclosing  *frame
	fn         *value.Function
	funcType   FuncType
	locals     [maxLocals]local
	localCount int
	upvalues   [maxUpvalues]value.UpvalueDesc
	scopeDepth int
	loop       *loopContext
}

func newFrame(enclosing *frame, fn *value.Function, ft FuncType) *frame {
	f := &frame{enclosing: enclosing, fn: fn, funcType: ft}
	// Slot 0 is reserved: the receiver for methods/initializers, the
	// callee's own closure for plain functions. It is never user-nameable
	// so it can't be shadowed, but reserving the slot keeps numbering
	// consistent with the calling convention the VM expects.
	slotName := ""
	if ft == FuncMethod || ft == FuncInitializer {
		slotName = "this"
	}
	f.locals[0] = local{name: slotName, depth: 0, mutable: false}
	f.localCount = 1
	return f
}

// classCompiler tracks nested class bodies so `this` and `super` resolve
// correctly and so a `super` outside any class (or outside a subclass) is
// caught at compile time.
type classCompiler struct {
	enclosing     *classCompiler
	hasSuperclass bool
}

// declareLocal adds name to the current frame at the current (not yet
// resolvable) scope depth. Returns false if name is already declared in
// this exact scope, a compile error the caller reports. Also returns false,
// having already reported the diagnostic itself via p, if the frame's fixed
// maxLocals capacity is full — there is no local slot left to write into.
func (f *frame) declareLocal(p *Parser, name string, mutable bool) bool {
	for i := f.localCount - 1; i >= 0; i-- {
		l := &f.locals[i]
		if l.depth != -1 && l.depth < f.scopeDepth {
			break
		}
		if l.name == name {
			return false
		}
	}
	if f.localCount == maxLocals {
		p.errorAtPrevious("too many local variables in function")
		return false
	}
	f.locals[f.localCount] = local{name: name, depth: -1, mutable: mutable}
	f.localCount++
	return true
}

func (f *frame) markInitialized() {
	if f.scopeDepth == 0 {
		return
	}
	f.locals[f.localCount-1].depth = f.scopeDepth
}

// resolveLocal looks up name among this frame's own locals, most-recently
// declared first so shadowing works. found reports whether slot/mutable are
// meaningful; uninitialized reports the self-reference-in-initializer case.
func (f *frame) resolveLocal(name string) (slot int, mutable bool, uninitialized bool, found bool) {
	for i := f.localCount - 1; i >= 0; i-- {
		if f.locals[i].name == name {
			if f.locals[i].depth == -1 {
				return 0, false, true, true
			}
			return i, f.locals[i].mutable, false, true
		}
	}
	return 0, false, false, false
}

// resolveUpvalue recursively resolves name against enclosing frames,
// capturing it through every intermediate frame as an upvalue and
// de-duplicating repeated captures of the same source.
func (f *frame) resolveUpvalue(p *Parser, name string) (index int, mutable bool, found bool) {
	if f.enclosing == nil {
		return 0, false, false
	}
	if slot, mut, _, ok := f.enclosing.resolveLocal(name); ok {
		f.enclosing.locals[slot].isCaptured = true
		idx := f.addUpvalue(p, uint8(slot), true, mut)
		return idx, mut, true
	}
	if idx, mut, ok := f.enclosing.resolveUpvalue(p, name); ok {
		return f.addUpvalue(p, uint8(idx), false, mut), mut, true
	}
	return 0, false, false
}

// addUpvalue returns the index of an upvalue descriptor in f capturing the
// given source slot, reusing an existing one if already captured. If the
// frame's fixed maxUpvalues capacity is already full, it reports the
// diagnostic itself via p and returns index 0 (the caller still needs some
// value to proceed past the error without a slice-bounds panic).
func (f *frame) addUpvalue(p *Parser, index uint8, isLocal bool, mutable bool) int {
	for i := 0; i < f.fn.UpvalueCount; i++ {
		u := f.upvalues[i]
		if u.Index == index && u.IsLocal == isLocal {
			return i
		}
	}
	if f.fn.UpvalueCount == maxUpvalues {
		p.errorAtPrevious("too many closure variables in function")
		return 0
	}
	i := f.fn.UpvalueCount
	f.upvalues[i] = value.UpvalueDesc{IsLocal: isLocal, Index: index, Mutable: mutable}
	f.fn.UpvalueCount++
	return i
}

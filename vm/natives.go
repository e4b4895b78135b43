package vm

import (
	"fmt"
	"time"

	"github.com/dolthub/swiss"

	"github.com/vela-lang/vela/value"
)

// nativeRegistry backs the VM's built-in function lookup with the same
// swiss-table map the teacher uses for its own Map value (lang/machine/map.go),
// rather than value.Table: natives are registered once at startup and never
// mutated afterward, so there is no need for the interned-*String-keyed,
// tombstone-recycling table the language's own globals/fields use. It is
// consulted on every OP_GET_GLOBAL miss against vm.globals (see
// vm/run.go's OpGetGlobal case), not just at startup, making it the actual
// runtime store natives resolve through.
type nativeRegistry struct {
	m *swiss.Map[string, *value.Native]
}

func newNativeRegistry() *nativeRegistry {
	return &nativeRegistry{m: swiss.NewMap[string, *value.Native](8)}
}

func (r *nativeRegistry) define(n *value.Native) {
	r.m.Put(n.Name, n)
}

// get resolves a native by name, the path OP_GET_GLOBAL falls back to once
// vm.globals reports the name undefined.
func (r *nativeRegistry) get(name string) (*value.Native, bool) {
	return r.m.Get(name)
}

var processStart = time.Now()

// registerNatives installs every native the language requires (§6) into
// vm.natives, kept separate from vm.globals so a native can never be
// reassigned (OP_SET_GLOBAL only ever sees vm.globals, and a name absent
// there is reported as undefined) while still being shadowable: a `var`/`val`
// of the same name at the top level lands in vm.globals and is found there
// first, before OP_GET_GLOBAL ever falls back to vm.natives. A local of the
// same name shadows it too, since locals never consult either table.
//
// append and delete are deliberately NOT registered here: the language
// treats both as reserved keywords compiled directly to OP_APPEND_TO and
// OP_DELETE_FROM (see compiler/expressions.go's appendExpr/deleteExpr),
// since a reserved word can never be looked up as an identifier in the
// first place. Registering native functions of those names would be dead
// code no call site could ever reach.
func registerNatives(vm *VM) {
	reg := newNativeRegistry()

	reg.define(value.NewNative("clock", 0, nativeClock))
	reg.define(value.NewNative("toString", 1, nativeToString))
	reg.define(value.NewNative("list", 0, nativeList))
	reg.define(value.NewNative("get", 2, nativeGet))
	reg.define(value.NewNative("len", 1, nativeLen))
	reg.define(value.NewNative("slice", 4, nativeSlice))

	vm.natives = reg
}

func nativeClock(ctx value.NativeContext, args []value.Value) (value.Value, error) {
	return value.Number(time.Since(processStart).Seconds()), nil
}

func nativeToString(ctx value.NativeContext, args []value.Value) (value.Value, error) {
	v := args[0]
	switch v.Kind() {
	case value.KindBool, value.KindInt, value.KindNumber, value.KindNil:
		return value.FromObject(ctx.Intern(v.String())), nil
	default:
		return value.Value{}, fmt.Errorf("toString: unsupported type %s", v.TypeName())
	}
}

func nativeList(ctx value.NativeContext, args []value.Value) (value.Value, error) {
	return value.FromObject(value.NewList(nil)), nil
}

func asNativeList(v value.Value) (*value.List, bool) {
	if !v.IsObj() {
		return nil, false
	}
	l, ok := v.AsObject().(*value.List)
	return l, ok
}

func nativeGet(ctx value.NativeContext, args []value.Value) (value.Value, error) {
	lst, ok := asNativeList(args[0])
	if !ok {
		return value.Value{}, fmt.Errorf("get: first argument must be a list")
	}
	if !args[1].IsInt() {
		return value.Value{}, fmt.Errorf("get: index must be an int")
	}
	v, ok := lst.Get(int(args[1].AsInt()))
	if !ok {
		return value.Value{}, fmt.Errorf("get: index out of range")
	}
	return v, nil
}

func nativeLen(ctx value.NativeContext, args []value.Value) (value.Value, error) {
	lst, ok := asNativeList(args[0])
	if !ok {
		return value.Value{}, fmt.Errorf("len: argument must be a list")
	}
	return value.Int(int64(lst.Len())), nil
}

func nativeSlice(ctx value.NativeContext, args []value.Value) (value.Value, error) {
	lst, ok := asNativeList(args[0])
	if !ok {
		return value.Value{}, fmt.Errorf("slice: first argument must be a list")
	}
	if !args[1].IsInt() || !args[2].IsInt() || !args[3].IsInt() {
		return value.Value{}, fmt.Errorf("slice: start, stop and step must be ints")
	}
	step := int(args[3].AsInt())
	if step <= 0 {
		return value.Value{}, fmt.Errorf("slice: step must be > 0")
	}
	return value.FromObject(lst.Slice(int(args[1].AsInt()), int(args[2].AsInt()), step)), nil
}

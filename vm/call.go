package vm

import (
	"golang.org/x/exp/slices"

	"github.com/vela-lang/vela/value"
)

// callValue implements §4.4's "Calls" table: dispatch on the callee's
// dynamic kind, replacing the callee slot as needed before transferring
// control.
func (vm *VM) callValue(callee value.Value, argCount int) error {
	if !callee.IsObj() {
		return vm.runtimeErrorf("can only call functions and classes")
	}
	switch o := callee.AsObject().(type) {
	case *value.Closure:
		if !vm.call(o, argCount) {
			return vm.lastCallErr
		}
		return nil
	case *value.Class:
		instance := value.NewInstance(o)
		vm.track(instance)
		vm.stack[len(vm.stack)-argCount-1] = value.FromObject(instance)
		if o.Initializer != nil {
			if !vm.call(o.Initializer, argCount) {
				return vm.lastCallErr
			}
			return nil
		}
		if argCount != 0 {
			return vm.runtimeErrorf("expected 0 arguments but got %d", argCount)
		}
		return nil
	case *value.BoundMethod:
		vm.stack[len(vm.stack)-argCount-1] = o.Receiver
		if !vm.call(o.Method, argCount) {
			return vm.lastCallErr
		}
		return nil
	case *value.Native:
		if argCount != o.Arity {
			return vm.runtimeErrorf("expected %d arguments but got %d", o.Arity, argCount)
		}
		args := vm.stack[len(vm.stack)-argCount:]
		result, err := o.Fn(vm, args)
		if err != nil {
			return vm.runtimeErrorf("%s", err.Error())
		}
		vm.stack = vm.stack[:len(vm.stack)-argCount-1]
		vm.push(result)
		return nil
	default:
		return vm.runtimeErrorf("can only call functions and classes")
	}
}

func (vm *VM) call(closure *value.Closure, argCount int) bool {
	fn := closure.Function
	if argCount != fn.Arity {
		vm.lastCallErr = vm.runtimeErrorf("expected %d arguments but got %d", fn.Arity, argCount)
		return false
	}
	if vm.frameCount == vm.cfg.MaxFrames {
		vm.lastCallErr = vm.runtimeErrorf("stack overflow")
		return false
	}
	vm.frames = append(vm.frames[:vm.frameCount], CallFrame{
		closure:   closure,
		ip:        0,
		slotsBase: len(vm.stack) - argCount - 1,
	})
	vm.frameCount++
	return true
}

// invoke implements OP_INVOKE's fast path: look up name on the receiver's
// fields first (a field holding a callable is called like any value), then
// fall back to the receiver's class methods.
func (vm *VM) invoke(name *value.String, argCount int) error {
	receiver := vm.peek(argCount)
	if !receiver.IsObj() {
		return vm.runtimeErrorf("only instances have methods")
	}
	instance, ok := receiver.AsObject().(*value.Instance)
	if !ok {
		return vm.runtimeErrorf("only instances have methods")
	}
	if field, ok := instance.Fields.Get(name); ok {
		vm.stack[len(vm.stack)-argCount-1] = field
		return vm.callValue(field, argCount)
	}
	return vm.invokeFromClass(instance.Class, name, argCount)
}

func (vm *VM) invokeFromClass(class *value.Class, name *value.String, argCount int) error {
	methodVal, ok := class.Methods.Get(name)
	if !ok {
		return vm.runtimeErrorf("undefined property '%s'", name.Chars)
	}
	closure := methodVal.AsObject().(*value.Closure)
	if !vm.call(closure, argCount) {
		return vm.lastCallErr
	}
	return nil
}

// bindMethod resolves name on class's method table into a BoundMethod over
// the value currently on top of the stack (the instance), replacing it.
func (vm *VM) bindMethod(class *value.Class, name *value.String) error {
	methodVal, ok := class.Methods.Get(name)
	if !ok {
		return vm.runtimeErrorf("undefined property '%s'", name.Chars)
	}
	closure := methodVal.AsObject().(*value.Closure)
	bound := value.NewBoundMethod(vm.peek(0), closure)
	vm.track(bound)
	vm.pop()
	vm.push(value.FromObject(bound))
	return nil
}

// captureUpvalue returns the open upvalue for the stack slot at absolute
// index slot, reusing an existing one if present, per §4.4. The open list
// is kept sorted strictly by descending slot (the invariant §3 requires),
// using slices.Insert to splice a new node into position.
func (vm *VM) captureUpvalue(slot int, mutable bool) *value.Upvalue {
	idx := 0
	for idx < len(vm.openUpvalues) {
		u := vm.openUpvalues[idx]
		if u.Slot == slot {
			return u
		}
		if u.Slot < slot {
			break
		}
		idx++
	}
	created := value.NewOpenUpvalue(slot, mutable)
	vm.track(created)
	vm.openUpvalues = slices.Insert(vm.openUpvalues, idx, created)
	return created
}

// closeUpvalues closes every open upvalue whose slot is >= fromSlot,
// copying the live stack value into the upvalue and removing it from the
// open list. Since the list is sorted descending, these are always a
// prefix, dropped in one slices.Delete call.
func (vm *VM) closeUpvalues(fromSlot int) {
	i := 0
	for i < len(vm.openUpvalues) && vm.openUpvalues[i].Slot >= fromSlot {
		vm.openUpvalues[i].Close(vm.stack[vm.openUpvalues[i].Slot])
		i++
	}
	vm.openUpvalues = slices.Delete(vm.openUpvalues, 0, i)
}

package vm

import "github.com/vela-lang/vela/value"

// getProperty implements OP_GET_PROPERTY: look up name on the instance atop
// the stack, field first, falling back to a bound method.
func (vm *VM) getProperty(name *value.String) error {
	v := vm.peek(0)
	if !v.IsObj() {
		return vm.runtimeErrorf("only instances have properties")
	}
	instance, ok := v.AsObject().(*value.Instance)
	if !ok {
		return vm.runtimeErrorf("only instances have properties")
	}
	if field, ok := instance.Fields.Get(name); ok {
		vm.pop()
		vm.push(field)
		return nil
	}
	return vm.bindMethod(instance.Class, name)
}

// setProperty implements OP_SET_PROPERTY: stack is [..., instance, value].
func (vm *VM) setProperty(name *value.String) error {
	v := vm.peek(1)
	if !v.IsObj() {
		return vm.runtimeErrorf("only instances have properties")
	}
	instance, ok := v.AsObject().(*value.Instance)
	if !ok {
		return vm.runtimeErrorf("only instances have properties")
	}
	val := vm.pop()
	vm.pop() // instance
	instance.Fields.Set(name, val)
	vm.push(val)
	return nil
}

// binaryCompare pops two numeric operands and pushes less (OP_LESS) or
// greater (OP_GREATER) depending on wantLess.
func (vm *VM) binaryCompare(wantLess bool) error {
	b, a := vm.pop(), vm.pop()
	less, greater, err := value.Compare(a, b)
	if err != nil {
		return vm.runtimeErrorf("%s", err.Error())
	}
	if wantLess {
		vm.push(value.Bool(less))
	} else {
		vm.push(value.Bool(greater))
	}
	return nil
}

func (vm *VM) arith(fn func(a, b value.Value) (value.Value, error)) error {
	b, a := vm.pop(), vm.pop()
	result, err := fn(a, b)
	if err != nil {
		return vm.runtimeErrorf("%s", err.Error())
	}
	vm.push(result)
	return nil
}

// add implements OP_ADD: numeric+numeric addition, or string+string
// concatenation (§4.4 — mixing a string with a non-string is a runtime
// error, same as mixing any other unlike types), interning the
// concatenation result since it may become a table key or be compared with
// `==` later.
func (vm *VM) add() error {
	b, a := vm.pop(), vm.pop()
	if isString(a) && isString(b) {
		concatenated := a.String() + b.String()
		vm.push(value.FromObject(vm.Intern(concatenated)))
		return nil
	}
	result, err := value.AddNumeric(a, b)
	if err != nil {
		return vm.runtimeErrorf("%s", err.Error())
	}
	vm.push(result)
	return nil
}

func isString(v value.Value) bool {
	if !v.IsObj() {
		return false
	}
	_, ok := v.AsObject().(*value.String)
	return ok
}

// indexSubscr implements OP_INDEX_SUBSCR: stack is [..., target, index].
// Lists support read access; strings support read-only byte-indexed access
// returning a single-character string.
func (vm *VM) indexSubscr() error {
	idxVal, target := vm.pop(), vm.pop()
	if !idxVal.IsInt() {
		return vm.runtimeErrorf("index must be an int")
	}
	idx := int(idxVal.AsInt())
	if !target.IsObj() {
		return vm.runtimeErrorf("value of type %s is not subscriptable", target.TypeName())
	}
	switch o := target.AsObject().(type) {
	case *value.List:
		v, ok := o.Get(idx)
		if !ok {
			return vm.runtimeErrorf("list index out of range")
		}
		vm.push(v)
		return nil
	case *value.String:
		if idx < 0 || idx >= len(o.Chars) {
			return vm.runtimeErrorf("string index out of range")
		}
		vm.push(value.FromObject(vm.Intern(string(o.Chars[idx]))))
		return nil
	default:
		return vm.runtimeErrorf("value of type %s is not subscriptable", target.TypeName())
	}
}

// storeSubscr implements OP_STORE_SUBSCR: stack is [..., target, index,
// value]. Only lists support index assignment.
func (vm *VM) storeSubscr() error {
	val, idxVal, target := vm.pop(), vm.pop(), vm.pop()
	if !idxVal.IsInt() {
		return vm.runtimeErrorf("index must be an int")
	}
	lst, ok := asList(target)
	if !ok {
		return vm.runtimeErrorf("only lists support index assignment")
	}
	if !lst.Set(int(idxVal.AsInt()), val) {
		return vm.runtimeErrorf("list index out of range")
	}
	vm.push(val)
	return nil
}

package vm

import (
	"fmt"

	"github.com/vela-lang/vela/value"
)

func (f *CallFrame) readByte() byte {
	b := f.closure.Function.Chunk.Code[f.ip]
	f.ip++
	return b
}

func (f *CallFrame) readShort() uint16 {
	hi := f.readByte()
	lo := f.readByte()
	return uint16(hi)<<8 | uint16(lo)
}

// readIndex decodes a self-describing short/long constant-pool index (§3)
// starting at the frame's current ip, advancing past it. Used both for
// genuine constant-pool lookups and for OP_BUILD_LIST's element count,
// which reuses the same encoding for a plain integer.
func (f *CallFrame) readIndex() int {
	idx, next, _ := value.ReadConstant(f.closure.Function.Chunk.Code, f.ip)
	f.ip = next
	return idx
}

func (f *CallFrame) readConstant() value.Value {
	return f.closure.Function.Chunk.Constants[f.readIndex()]
}

func (f *CallFrame) readString() *value.String {
	return f.readConstant().AsObject().(*value.String)
}

// run is the dispatch loop: read one opcode byte, switch. §4.4.
func (vm *VM) run() error {
	frame := vm.currentFrame()

	for {
		op := value.OpCode(frame.readByte())
		switch op {
		case value.OpConstant:
			vm.push(frame.readConstant())

		case value.OpNil:
			vm.push(value.Nil)
		case value.OpTrue:
			vm.push(value.Bool(true))
		case value.OpFalse:
			vm.push(value.Bool(false))
		case value.OpPop:
			vm.pop()

		case value.OpGetLocal:
			slot := int(frame.readByte())
			vm.push(vm.stack[frame.slotsBase+slot])
		case value.OpSetLocal:
			slot := int(frame.readByte())
			vm.stack[frame.slotsBase+slot] = vm.peek(0)

		case value.OpGetGlobal:
			name := frame.readString()
			v, ok := vm.globals.Get(name)
			if !ok {
				if n, found := vm.natives.get(name.Chars); found {
					v, ok = value.FromObject(n), true
				}
			}
			if !ok {
				return vm.runtimeErrorf("undefined variable '%s'", name.Chars)
			}
			vm.push(v)
		case value.OpDefineGlobal:
			name := frame.readString()
			vm.globals.Set(name, vm.peek(0))
			vm.pop()
		case value.OpDefineIGlobal:
			name := frame.readString()
			vm.globals.SetWithFlags(name, vm.peek(0), value.FlagImmutable)
			vm.pop()
		case value.OpSetGlobal:
			name := frame.readString()
			flags, ok := vm.globals.GetFlags(name)
			if !ok {
				return vm.runtimeErrorf("undefined variable '%s'", name.Chars)
			}
			if flags&value.FlagImmutable != 0 {
				return vm.runtimeErrorf("cannot assign to immutable variable '%s'", name.Chars)
			}
			vm.globals.Set(name, vm.peek(0))

		case value.OpGetUpvalue:
			slot := int(frame.readByte())
			u := frame.closure.Upvalues[slot]
			if u.IsOpen() {
				vm.push(vm.stack[u.Slot])
			} else {
				vm.push(u.Closed)
			}
		case value.OpSetUpvalue:
			slot := int(frame.readByte())
			u := frame.closure.Upvalues[slot]
			if !u.Mutable {
				return vm.runtimeErrorf("cannot assign to immutable captured variable")
			}
			if u.IsOpen() {
				vm.stack[u.Slot] = vm.peek(0)
			} else {
				u.Closed = vm.peek(0)
			}

		case value.OpGetProperty:
			name := frame.readString()
			if err := vm.getProperty(name); err != nil {
				return err
			}
		case value.OpSetProperty:
			name := frame.readString()
			if err := vm.setProperty(name); err != nil {
				return err
			}
		case value.OpGetSuper:
			name := frame.readString()
			superclass, ok := vm.pop().AsObject().(*value.Class)
			if !ok {
				return vm.runtimeErrorf("superclass must be a class")
			}
			if err := vm.bindMethod(superclass, name); err != nil {
				return err
			}

		case value.OpEqual:
			b, a := vm.pop(), vm.pop()
			vm.push(value.Bool(value.Equal(a, b)))
		case value.OpEqualNoPop:
			a, b := vm.peek(1), vm.peek(0)
			vm.push(value.Bool(value.Equal(a, b)))
		case value.OpGreater:
			if err := vm.binaryCompare(false); err != nil {
				return err
			}
		case value.OpLess:
			if err := vm.binaryCompare(true); err != nil {
				return err
			}
		case value.OpAdd:
			if err := vm.add(); err != nil {
				return err
			}
		case value.OpSubtract:
			if err := vm.arith(value.SubNumeric); err != nil {
				return err
			}
		case value.OpMultiply:
			if err := vm.arith(value.MulNumeric); err != nil {
				return err
			}
		case value.OpDivide:
			if err := vm.arith(value.DivNumeric); err != nil {
				return err
			}
		case value.OpNot:
			vm.push(value.Bool(!vm.pop().Truthy()))
		case value.OpNegate:
			v, err := value.Negate(vm.pop())
			if err != nil {
				return vm.runtimeErrorf("%s", err.Error())
			}
			vm.push(v)

		case value.OpPrint:
			fmt.Fprintln(vm.out(), vm.pop().String())

		case value.OpJump:
			off := frame.readShort()
			frame.ip += int(off)
		case value.OpJumpIfFalse:
			off := frame.readShort()
			if !vm.peek(0).Truthy() {
				frame.ip += int(off)
			}
		case value.OpLoop:
			off := frame.readShort()
			frame.ip -= int(off)

		case value.OpCall:
			argCount := int(frame.readByte())
			if err := vm.callValue(vm.peek(argCount), argCount); err != nil {
				return err
			}
			frame = vm.currentFrame()

		case value.OpInvoke:
			name := frame.readString()
			argCount := int(frame.readByte())
			if err := vm.invoke(name, argCount); err != nil {
				return err
			}
			frame = vm.currentFrame()

		case value.OpSuperInvoke:
			name := frame.readString()
			argCount := int(frame.readByte())
			superclass, ok := vm.pop().AsObject().(*value.Class)
			if !ok {
				return vm.runtimeErrorf("superclass must be a class")
			}
			if err := vm.invokeFromClass(superclass, name, argCount); err != nil {
				return err
			}
			frame = vm.currentFrame()

		case value.OpClosure:
			fn := frame.readConstant().AsObject().(*value.Function)
			closure := value.NewClosure(fn)
			vm.track(closure)
			for i := 0; i < fn.UpvalueCount; i++ {
				isLocal := frame.readByte() != 0
				index := frame.readByte()
				mutable := fn.Upvalues[i].Mutable
				if isLocal {
					closure.Upvalues[i] = vm.captureUpvalue(frame.slotsBase+int(index), mutable)
				} else {
					closure.Upvalues[i] = frame.closure.Upvalues[index]
				}
			}
			vm.push(value.FromObject(closure))

		case value.OpCloseUpvalue:
			vm.closeUpvalues(len(vm.stack) - 1)
			vm.pop()

		case value.OpReturn:
			result := vm.pop()
			vm.closeUpvalues(frame.slotsBase)
			vm.frameCount--
			if vm.frameCount == 0 {
				vm.pop() // the script closure itself
				return nil
			}
			vm.stack = vm.stack[:frame.slotsBase]
			vm.push(result)
			frame = vm.currentFrame()

		case value.OpClass:
			name := frame.readString()
			cls := value.NewClass(name)
			vm.track(cls)
			vm.push(value.FromObject(cls))

		case value.OpInherit:
			superVal := vm.peek(1)
			superclass, ok := asClass(superVal)
			if !ok {
				return vm.runtimeErrorf("superclass must be a class")
			}
			subclass, _ := asClass(vm.peek(0))
			value.AddAll(superclass.Methods, subclass.Methods)
			vm.pop() // subclass; superclass (the "super" local) stays

		case value.OpMethod:
			name := frame.readString()
			methodVal := vm.peek(0)
			class, ok := asClass(vm.peek(1))
			if !ok {
				return vm.runtimeErrorf("method defined outside a class")
			}
			class.Methods.Set(name, methodVal)
			if name == vm.initString {
				class.Initializer, _ = methodVal.AsObject().(*value.Closure)
			}
			vm.pop()

		case value.OpBuildList:
			count := frame.readIndex()
			elems := make([]value.Value, count)
			copy(elems, vm.stack[len(vm.stack)-count:])
			vm.stack = vm.stack[:len(vm.stack)-count]
			lst := value.NewList(elems)
			vm.track(lst)
			vm.push(value.FromObject(lst))

		case value.OpIndexSubscr:
			if err := vm.indexSubscr(); err != nil {
				return err
			}
		case value.OpStoreSubscr:
			if err := vm.storeSubscr(); err != nil {
				return err
			}

		case value.OpAppendTo:
			v := vm.pop()
			lst := vm.pop()
			l, ok := asList(lst)
			if !ok {
				return vm.runtimeErrorf("append target must be a list")
			}
			l.Append(v)
			vm.push(value.Nil)

		case value.OpDeleteFrom:
			idxVal := vm.pop()
			lst := vm.pop()
			l, ok := asList(lst)
			if !ok {
				return vm.runtimeErrorf("delete target must be a list")
			}
			if !idxVal.IsInt() {
				return vm.runtimeErrorf("list index must be an int")
			}
			removed, ok := l.Delete(int(idxVal.AsInt()))
			if !ok {
				return vm.runtimeErrorf("list index out of range")
			}
			vm.push(removed)

		default:
			return vm.runtimeErrorf("unknown opcode %v", op)
		}
	}
}

func asClass(v value.Value) (*value.Class, bool) {
	if !v.IsObj() {
		return nil, false
	}
	c, ok := v.AsObject().(*value.Class)
	return c, ok
}

func asList(v value.Value) (*value.List, bool) {
	if !v.IsObj() {
		return nil, false
	}
	l, ok := v.AsObject().(*value.List)
	return l, ok
}

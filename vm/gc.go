package vm

import "github.com/vela-lang/vela/value"

// track registers a freshly allocated object on the intrusive object list
// and charges its approximate size against bytesAllocated, collecting if
// the threshold in §4.5 is crossed. Every heap object the VM or a native
// creates at runtime — and every Function/String the compiler handed back,
// via adoptFunction — must pass through here exactly once.
//
// The threshold check runs before o is linked onto the object list, mirroring
// clox's reallocate(), which may trigger a collection before the freshly
// allocated memory is given a type tag and linked in. A collection triggered
// here therefore never sees o at all: it isn't on the sweep list yet, and it
// isn't rooted yet either (every call site tracks an object before pushing
// it or storing it where a root scan would find it). Linking it in only
// after the check keeps it off a collection it could otherwise be swept by
// before its caller ever gets a chance to root it.
func (vm *VM) track(o value.Object) {
	vm.bytesAllocated += approxSize(o)
	if !vm.cfg.DisableGC && vm.bytesAllocated > vm.nextGC {
		vm.collectGarbage()
	}
	o.SetNext(vm.objects)
	vm.objects = o
}

// approxSize estimates an object's heap footprint for GC triggering
// purposes. Go doesn't expose malloc's bookkeeping the way clox's
// reallocate wrapper does, so these are representative constants rather
// than exact sizes — accurate enough to make the threshold meaningful
// without tracking real allocator bytes.
func approxSize(o value.Object) int {
	switch v := o.(type) {
	case *value.String:
		return 32 + len(v.Chars)
	case *value.Function:
		return 64 + len(v.Chunk.Code) + len(v.Chunk.Constants)*16
	case *value.Closure:
		return 24 + len(v.Upvalues)*8
	case *value.Upvalue:
		return 32
	case *value.Class:
		return 48
	case *value.Instance:
		return 48
	case *value.BoundMethod:
		return 32
	case *value.List:
		return 24 + len(v.Elems)*16
	case *value.Native:
		return 32
	default:
		return 16
	}
}

// collectGarbage runs one full non-incremental mark-sweep cycle (§4.5):
// mark every root, process the gray worklist to completion, drop unmarked
// interned strings, sweep the object list, then grow the next trigger.
func (vm *VM) collectGarbage() {
	var gray []value.Object
	gray = vm.markRoots(gray)
	for len(gray) > 0 {
		obj := gray[len(gray)-1]
		gray = gray[:len(gray)-1]
		gray = vm.blacken(obj, gray)
	}

	vm.strings.RemoveUnmarked()
	vm.sweep()

	vm.nextGC = vm.bytesAllocated * vm.cfg.GCGrowthFactor
	if vm.nextGC < vm.cfg.InitialGCThreshold {
		vm.nextGC = vm.cfg.InitialGCThreshold
	}
}

func markObject(o value.Object, gray []value.Object) []value.Object {
	if o == nil || o.Marked() {
		return gray
	}
	o.Mark()
	return append(gray, o)
}

func markValue(v value.Value, gray []value.Object) []value.Object {
	if !v.IsObj() {
		return gray
	}
	return markObject(v.AsObject(), gray)
}

// markRoots marks §4.5's root set: the value stack, each frame's closure,
// every globals entry (key and value), the open-upvalue list, and the
// interned "init" string. The compiler-chain root from §4.5 does not apply
// here since compilation finishes (and the Parser is discarded) before any
// bytecode runs — there is no live compiler state during execution.
func (vm *VM) markRoots(gray []value.Object) []value.Object {
	for _, v := range vm.stack {
		gray = markValue(v, gray)
	}
	for i := 0; i < vm.frameCount; i++ {
		gray = markObject(vm.frames[i].closure, gray)
	}
	vm.globals.Each(func(key *value.String, v value.Value) {
		gray = markObject(key, gray)
		gray = markValue(v, gray)
	})
	for _, u := range vm.openUpvalues {
		gray = markObject(u, gray)
	}
	gray = markObject(vm.initString, gray)
	return gray
}

// blacken marks every reference an object holds, per §4.5's per-kind list.
func (vm *VM) blacken(o value.Object, gray []value.Object) []value.Object {
	switch v := o.(type) {
	case *value.String, *value.Native:
		// no outgoing references
	case *value.Function:
		if v.Name != nil {
			gray = markObject(v.Name, gray)
		}
		for _, c := range v.Chunk.Constants {
			gray = markValue(c, gray)
		}
	case *value.Closure:
		gray = markObject(v.Function, gray)
		for _, u := range v.Upvalues {
			gray = markObject(u, gray)
		}
	case *value.Upvalue:
		gray = markValue(v.Closed, gray)
	case *value.Class:
		gray = markObject(v.Name, gray)
		if v.Initializer != nil {
			gray = markObject(v.Initializer, gray)
		}
		v.Methods.Each(func(key *value.String, mv value.Value) {
			gray = markObject(key, gray)
			gray = markValue(mv, gray)
		})
	case *value.Instance:
		gray = markObject(v.Class, gray)
		v.Fields.Each(func(key *value.String, fv value.Value) {
			gray = markObject(key, gray)
			gray = markValue(fv, gray)
		})
	case *value.BoundMethod:
		gray = markValue(v.Receiver, gray)
		gray = markObject(v.Method, gray)
	case *value.List:
		for _, e := range v.Elems {
			gray = markValue(e, gray)
		}
	}
	return gray
}

// sweep walks the intrusive object list, unlinking and discarding any
// object whose mark bit is unset, and clears the mark bit on survivors so
// the next cycle starts white again.
func (vm *VM) sweep() {
	var prev value.Object
	obj := vm.objects
	for obj != nil {
		next := obj.Next()
		if obj.Marked() {
			obj.Unmark()
			prev = obj
		} else if prev == nil {
			vm.objects = next
		} else {
			prev.SetNext(next)
		}
		obj = next
	}
}

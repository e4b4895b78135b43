// Package value implements the tagged Value representation and the heap
// object kinds it can hold (§3 of the design: String, Function, Closure,
// Upvalue, Class, Instance, BoundMethod, List, Native).
//
// The Value interface shape (String()/Type() methods per kind) is grounded
// on the teacher's lang/machine/value.go, float.go and tuple.go, but Value
// itself is a tagged struct rather than an interface: the spec requires an
// intrusive mark-sweep GC with an explicit per-object header (type tag, mark
// bit, next-pointer), which the teacher never needed since it leans on the
// host Go runtime's own collector.
package value

import (
	"fmt"
	"math"
)

// Kind discriminates the payload carried by a Value.
type Kind uint8

const (
	KindNil Kind = iota
	KindBool
	KindInt
	KindNumber
	KindObj
)

// Value is a Vela runtime value: nil, a bool, a 64-bit integer, a 64-bit
// float, or a reference to a heap Object.
type Value struct {
	kind    Kind
	boolean bool
	integer int64
	number  float64
	obj     Object
}

// Nil is the singular nil value.
var Nil = Value{kind: KindNil}

// Bool returns a boolean Value.
func Bool(b bool) Value { return Value{kind: KindBool, boolean: b} }

// Int returns an integer Value.
func Int(i int64) Value { return Value{kind: KindInt, integer: i} }

// Number returns a floating point Value.
func Number(n float64) Value { return Value{kind: KindNumber, number: n} }

// FromObject returns a Value referencing a heap Object.
func FromObject(o Object) Value { return Value{kind: KindObj, obj: o} }

func (v Value) Kind() Kind  { return v.kind }
func (v Value) IsNil() bool { return v.kind == KindNil }
func (v Value) IsBool() bool { return v.kind == KindBool }
func (v Value) IsInt() bool  { return v.kind == KindInt }
func (v Value) IsNumber() bool { return v.kind == KindNumber }
func (v Value) IsObj() bool { return v.kind == KindObj }

// IsNumeric reports whether v holds an Int or a Number.
func (v Value) IsNumeric() bool { return v.kind == KindInt || v.kind == KindNumber }

func (v Value) AsBool() bool    { return v.boolean }
func (v Value) AsInt() int64    { return v.integer }
func (v Value) AsNumber() float64 { return v.number }
func (v Value) AsObject() Object { return v.obj }

// Float64 returns v's numeric value widened to float64. It does not check
// the kind: for a non-numeric v it returns 0, so callers check IsNumeric
// first.
func (v Value) Float64() float64 {
	if v.kind == KindInt {
		return float64(v.integer)
	}
	return v.number
}

// Truthy implements the language's falsiness rule: only nil and the boolean
// false are falsey, everything else (including 0, 0.0, "" and []) is truthy.
func (v Value) Truthy() bool {
	switch v.kind {
	case KindNil:
		return false
	case KindBool:
		return v.boolean
	default:
		return true
	}
}

// ObjKind returns the Object kind of v, or a zero Kind with ok=false if v is
// not an Object.
func (v Value) ObjKind() (Kind, bool) {
	if v.kind != KindObj {
		return 0, false
	}
	return v.obj.Kind(), true
}

// TypeName returns a short human readable type name, used in runtime error
// messages and by the toString native.
func (v Value) TypeName() string {
	switch v.kind {
	case KindNil:
		return "nil"
	case KindBool:
		return "bool"
	case KindInt:
		return "int"
	case KindNumber:
		return "number"
	case KindObj:
		return v.obj.TypeName()
	}
	return "unknown"
}

// String renders v the way the `print` statement and toString native do.
func (v Value) String() string {
	switch v.kind {
	case KindNil:
		return "nil"
	case KindBool:
		if v.boolean {
			return "true"
		}
		return "false"
	case KindInt:
		return fmt.Sprintf("%d", v.integer)
	case KindNumber:
		return formatNumber(v.number)
	case KindObj:
		return v.obj.String()
	}
	return "?"
}

func formatNumber(n float64) string {
	if math.IsInf(n, 1) {
		return "inf"
	}
	if math.IsInf(n, -1) {
		return "-inf"
	}
	if math.IsNaN(n) {
		return "nan"
	}
	return fmt.Sprintf("%g", n)
}

// Equal implements the language's `==` semantics: numeric kinds compare by
// numeric value regardless of Int/Number, nil equals only nil, booleans
// compare by value, and Objects compare by identity (sufficient for strings
// because of interning, and the natural notion of equality for the other
// reference kinds).
func Equal(a, b Value) bool {
	if a.IsNumeric() && b.IsNumeric() {
		if a.kind == KindInt && b.kind == KindInt {
			return a.integer == b.integer
		}
		return a.Float64() == b.Float64()
	}
	if a.kind != b.kind {
		return false
	}
	switch a.kind {
	case KindNil:
		return true
	case KindBool:
		return a.boolean == b.boolean
	case KindObj:
		if as, ok := a.obj.(*String); ok {
			if bs, ok := b.obj.(*String); ok {
				return as == bs // interning makes pointer identity sufficient
			}
			return false
		}
		return a.obj == b.obj
	}
	return false
}

package value

import "fmt"

// AddNumeric, SubNumeric, MulNumeric and DivNumeric implement the numeric
// half of §4.4's arithmetic semantics: when both operands are Int the result
// stays Int (two's-complement wrap for + - *, truncating division for /);
// any Number operand promotes the result to Number. String concatenation for
// OP_ADD is handled by the VM, which alone has access to the intern table.

func AddNumeric(a, b Value) (Value, error) {
	if !a.IsNumeric() || !b.IsNumeric() {
		return Value{}, typeErr("+", a, b)
	}
	if a.kind == KindInt && b.kind == KindInt {
		return Int(a.integer + b.integer), nil
	}
	return Number(a.Float64() + b.Float64()), nil
}

func SubNumeric(a, b Value) (Value, error) {
	if !a.IsNumeric() || !b.IsNumeric() {
		return Value{}, typeErr("-", a, b)
	}
	if a.kind == KindInt && b.kind == KindInt {
		return Int(a.integer - b.integer), nil
	}
	return Number(a.Float64() - b.Float64()), nil
}

func MulNumeric(a, b Value) (Value, error) {
	if !a.IsNumeric() || !b.IsNumeric() {
		return Value{}, typeErr("*", a, b)
	}
	if a.kind == KindInt && b.kind == KindInt {
		return Int(a.integer * b.integer), nil
	}
	return Number(a.Float64() * b.Float64()), nil
}

func DivNumeric(a, b Value) (Value, error) {
	if !a.IsNumeric() || !b.IsNumeric() {
		return Value{}, typeErr("/", a, b)
	}
	if a.kind == KindInt && b.kind == KindInt {
		if b.integer == 0 {
			return Value{}, fmt.Errorf("division by zero")
		}
		return Int(a.integer / b.integer), nil
	}
	return Number(a.Float64() / b.Float64()), nil
}

// Negate implements unary minus: numeric only.
func Negate(a Value) (Value, error) {
	switch a.kind {
	case KindInt:
		return Int(-a.integer), nil
	case KindNumber:
		return Number(-a.number), nil
	}
	return Value{}, fmt.Errorf("operand must be a number, got %s", a.TypeName())
}

// Compare implements the numeric-only `<`/`>` family. Both operands must be
// numeric (Int or Number, possibly mixed).
func Compare(a, b Value) (less, greater bool, err error) {
	if !a.IsNumeric() || !b.IsNumeric() {
		return false, false, fmt.Errorf("operands must be numbers, got %s and %s", a.TypeName(), b.TypeName())
	}
	if a.kind == KindInt && b.kind == KindInt {
		return a.integer < b.integer, a.integer > b.integer, nil
	}
	x, y := a.Float64(), b.Float64()
	return x < y, x > y, nil
}

func typeErr(op string, a, b Value) error {
	return fmt.Errorf("unsupported operand types for %s: %s and %s", op, a.TypeName(), b.TypeName())
}

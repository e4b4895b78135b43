package value

// NativeContext is the slice of VM functionality a native function needs,
// kept as an interface here (rather than a concrete *vm.VM) so this package
// never imports the vm package — vm.VM implements it.
type NativeContext interface {
	// Intern returns the canonical *String for s, allocating and registering
	// a new one if this is the first time s has been seen.
	Intern(s string) *String
}

// NativeFn is the signature every built-in function implements. It receives
// the arguments already arity-checked by the VM and returns either a result
// value or a runtime error (the native's way of signalling failure, per §6).
type NativeFn func(ctx NativeContext, args []Value) (Value, error)

// Native wraps a Go function so it can be called like any other language
// value. Arity is enforced by the VM before Fn is invoked.
type Native struct {
	header
	Name  string
	Arity int
	Fn    NativeFn
}

var _ Object = (*Native)(nil)

func NewNative(name string, arity int, fn NativeFn) *Native {
	return &Native{header: header{kind: KindNative}, Name: name, Arity: arity, Fn: fn}
}

func (n *Native) TypeName() string { return "native function" }
func (n *Native) String() string   { return "<native fn " + n.Name + ">" }

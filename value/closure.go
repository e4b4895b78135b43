package value

// Upvalue mediates access from an inner closure to a variable in an
// enclosing function's activation. While open it points at a live VM stack
// slot (identified by Slot, an absolute stack index); once the enclosing
// activation returns the VM closes it, copying the value into Closed and
// clearing the open indirection.
type Upvalue struct {
	header

	// Slot is the absolute VM stack index this upvalue refers to while open.
	// It is meaningful only while the upvalue is open (see IsOpen).
	Slot int

	// Closed holds the owned value once the upvalue has been closed. While
	// open, reads/writes go through the VM's stack at Slot instead.
	Closed Value

	// open reports whether this upvalue still refers to a live stack slot.
	open bool

	// Mutable records whether the captured local was declared with `var`
	// (true) or `val` (false); resolves the open question in §9 by having
	// assignment through the upvalue check this bit.
	Mutable bool
}

var _ Object = (*Upvalue)(nil)

func NewOpenUpvalue(slot int, mutable bool) *Upvalue {
	return &Upvalue{header: header{kind: KindUpvalue}, Slot: slot, open: true, Mutable: mutable}
}

func (u *Upvalue) IsOpen() bool { return u.open }

// Close copies v into the upvalue's owned storage and marks it closed.
func (u *Upvalue) Close(v Value) {
	u.Closed = v
	u.open = false
}

func (u *Upvalue) TypeName() string { return "upvalue" }
func (u *Upvalue) String() string   { return "<upvalue>" }

// Closure pairs a compiled Function with the array of Upvalue references its
// body captures. Closures, not bare Functions, are the callable values that
// circulate at runtime.
type Closure struct {
	header
	Function *Function
	Upvalues []*Upvalue
}

var _ Object = (*Closure)(nil)

func NewClosure(fn *Function) *Closure {
	return &Closure{
		header:   header{kind: KindClosure},
		Function: fn,
		Upvalues: make([]*Upvalue, fn.UpvalueCount),
	}
}

func (c *Closure) TypeName() string { return "function" }
func (c *Closure) String() string   { return c.Function.String() }

package value

// UpvalueDesc records, for one upvalue slot of a Function, where OP_CLOSURE
// should capture it from (IsLocal: the enclosing frame's stack, or an
// enclosing upvalue) and whether the captured variable is mutable. The
// IsLocal/Index pair is redundant with the two operand bytes OP_CLOSURE
// already encodes per the bytecode format — kept here too, alongside
// Mutable, so the VM never has to decode raw operands to answer "is this
// capture allowed to be written through"; the wire encoding stays exactly
// what disassembly expects, and this slice is compiler-produced metadata
// living beside it on the Function, not in the instruction stream.
type UpvalueDesc struct {
	IsLocal bool
	Index   uint8
	Mutable bool
}

// Function is a compiled function body: its arity, how many upvalues its
// closures must capture, an optional name, and the Chunk holding its
// bytecode. It is itself an Object so it can live in a constant pool (the
// OP_CLOSURE operand refers to a Function constant) and be traced by the GC.
type Function struct {
	header
	Name         *String // nil for the top-level script
	Arity        int
	UpvalueCount int
	Upvalues     []UpvalueDesc
	Chunk        Chunk
}

var _ Object = (*Function)(nil)

func NewFunction(name *String) *Function {
	return &Function{header: header{kind: KindFunction}, Name: name}
}

func (f *Function) TypeName() string { return "function" }
func (f *Function) String() string {
	if f.Name == nil {
		return "<script>"
	}
	return "<fn " + f.Name.Chars + ">"
}

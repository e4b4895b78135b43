package value

// Class is a single-inheritance class: a name, an optional shortcut pointer
// to its `init` method (set whenever "init" is defined, avoiding a table
// lookup on every instantiation), and its full methods table (name ->
// Closure, stored as Value so the table's uniform Value slots suffice).
type Class struct {
	header
	Name        *String
	Initializer *Closure // nil if the class has no init method
	Methods     *Table
}

var _ Object = (*Class)(nil)

func NewClass(name *String) *Class {
	return &Class{header: header{kind: KindClass}, Name: name, Methods: NewTable()}
}

func (c *Class) TypeName() string { return "class" }
func (c *Class) String() string   { return c.Name.Chars }

// Instance is an object created by calling a Class. Its fields table holds
// both explicitly assigned fields and shadows nothing from the class: method
// lookup falls back to Class.Methods only when a field of that name isn't
// present.
type Instance struct {
	header
	Class  *Class
	Fields *Table
}

var _ Object = (*Instance)(nil)

func NewInstance(class *Class) *Instance {
	return &Instance{header: header{kind: KindInstance}, Class: class, Fields: NewTable()}
}

func (i *Instance) TypeName() string { return "instance" }
func (i *Instance) String() string   { return i.Class.Name.Chars + " instance" }

// BoundMethod pairs a receiver value with the method Closure that a property
// access (`instance.method`) resolved to. Calling it invokes Method with
// Receiver installed as slot 0.
type BoundMethod struct {
	header
	Receiver Value
	Method   *Closure
}

var _ Object = (*BoundMethod)(nil)

func NewBoundMethod(receiver Value, method *Closure) *BoundMethod {
	return &BoundMethod{header: header{kind: KindBoundMethod}, Receiver: receiver, Method: method}
}

func (b *BoundMethod) TypeName() string { return "function" }
func (b *BoundMethod) String() string   { return b.Method.String() }

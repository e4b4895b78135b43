package value

// Kind values for heap Objects. Reuses the Kind type also used to
// discriminate Value's own payload (KindObj) — object kinds start after it so
// a single switch can, if needed, range over both.
const (
	KindString Kind = iota + KindObj + 1
	KindFunction
	KindClosure
	KindUpvalue
	KindClass
	KindInstance
	KindBoundMethod
	KindList
	KindNative
)

// header is embedded in every heap Object. It carries the fields the tracing
// garbage collector needs: a type tag (so the collector's mark phase can type
// switch without reflection), a mark bit, and the intrusive next-pointer
// threading every live allocation onto the VM's object list (§3: "every live
// heap object is reachable via the intrusive object list regardless of mark
// state; the list is the sweep source").
type header struct {
	kind   Kind
	marked bool
	next   Object
}

func (h *header) Kind() Kind     { return h.kind }
func (h *header) Marked() bool   { return h.marked }
func (h *header) Mark()          { h.marked = true }
func (h *header) Unmark()        { h.marked = false }
func (h *header) Next() Object   { return h.next }
func (h *header) SetNext(o Object) { h.next = o }

// Object is implemented by every heap-allocated value kind.
type Object interface {
	Kind() Kind
	Marked() bool
	Mark()
	Unmark()
	Next() Object
	SetNext(Object)
	TypeName() string
	String() string
}

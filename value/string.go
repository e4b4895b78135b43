package value

// String is an immutable interned byte sequence. Two String objects with
// equal content are always the same pointer once they pass through the VM's
// intern table (see Table.FindString and vm.VM.Intern) — see Equal's
// identity shortcut. Go's native string header already gives a compact, GC-opaque
// representation, so unlike the reference implementation this module does
// not distinguish an "inline" vs. "borrowed pointer" layout: both of the
// spec's permitted physical layouts collapse to the same externally
// indistinguishable Go string.
type String struct {
	header
	Chars string
	Hash  uint32
}

var _ Object = (*String)(nil)

// NewString allocates a new, not-yet-interned String. Callers (the VM's
// Intern method) are responsible for deduplicating by content.
func NewString(s string) *String {
	return &String{header: header{kind: KindString}, Chars: s, Hash: FNV1a(s)}
}

func (s *String) TypeName() string { return "string" }
func (s *String) String() string   { return s.Chars }
func (s *String) Len() int         { return len(s.Chars) }

// FNV1a computes the 32-bit FNV-1a hash of s, used both for the string's own
// precomputed hash and as the hash function of the global hash table.
func FNV1a(s string) uint32 {
	const (
		offsetBasis = 2166136261
		prime       = 16777619
	)
	h := uint32(offsetBasis)
	for i := 0; i < len(s); i++ {
		h ^= uint32(s[i])
		h *= prime
	}
	return h
}

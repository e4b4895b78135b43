package value

// Table is the open-addressed hash table described in §4.6: linear probing,
// load factor 0.75, power-of-two capacity (minimum 8), keyed by interned
// *String pointers (identity comparison suffices once strings are
// interned). It backs the VM's globals table, the string intern set, every
// Class's methods table and every Instance's fields table — exactly the
// four uses clox's single Table type serves, which is why this type lives
// next to String/Class/Instance in one package rather than as a standalone
// "table" package: Class.Methods and Instance.Fields need the concrete type,
// and splitting it out would create value<->table import cycle.
//
// This hand-rolled implementation, rather than github.com/dolthub/swiss (used
// elsewhere in this module for the Native Registry, see vm/natives.go), is
// required because the spec's tombstone recycling, per-entry IMMUTABLE flag,
// and findString content+hash+length probe (the interner's lookup path) have
// no equivalent in swiss.Map's API.
type Table struct {
	count    int // live entries + tombstones
	entries  []entry
}

type entryFlag uint8

const (
	// FlagImmutable marks a global binding declared with `val`.
	FlagImmutable entryFlag = 1 << iota
)

type entry struct {
	key   *String
	value Value
	flags entryFlag
	// tombstone is true for an entry representing a removed key. Both an
	// unused slot and a tombstone have a nil key; findEntry and FindString
	// tell them apart by this flag. A tombstone's value is also set to the
	// Bool(true) sentinel of the reference design.
	tombstone bool
}

const initialCapacity = 8
const maxLoad = 0.75

// NewTable returns an empty Table.
func NewTable() *Table { return &Table{} }

// Count returns the number of live (non-tombstone) entries.
func (t *Table) Count() int { return t.liveCount() }

func (t *Table) liveCount() int {
	n := 0
	for _, e := range t.entries {
		if e.key != nil && !e.tombstone {
			n++
		}
	}
	return n
}

// Get returns the value for key, or (zero, false) if absent.
func (t *Table) Get(key *String) (Value, bool) {
	if len(t.entries) == 0 {
		return Value{}, false
	}
	e := t.findEntry(t.entries, key)
	if e.key == nil {
		return Value{}, false
	}
	return e.value, true
}

// GetFlags returns the flag bits for key, if present.
func (t *Table) GetFlags(key *String) (entryFlag, bool) {
	if len(t.entries) == 0 {
		return 0, false
	}
	e := t.findEntry(t.entries, key)
	if e.key == nil {
		return 0, false
	}
	return e.flags, true
}

// Set inserts or updates key -> value, preserving any existing flags unless
// flags is explicitly ORed in by the caller via SetFlag. It returns true if
// this created a brand new entry (key was not already present, counting
// tombstones as absent).
func (t *Table) Set(key *String, v Value) bool {
	return t.set(key, v, 0, false)
}

// SetWithFlags is like Set but also assigns flags on the (possibly new)
// entry.
func (t *Table) SetWithFlags(key *String, v Value, flags entryFlag) bool {
	return t.set(key, v, flags, true)
}

func (t *Table) set(key *String, v Value, flags entryFlag, setFlags bool) bool {
	if float64(t.count+1) > float64(cap2(t.entries))*maxLoad {
		t.grow()
	}
	e := t.findEntry(t.entries, key)
	isNew := e.key == nil
	if isNew && !e.tombstone {
		t.count++
	}
	e.key = key
	e.value = v
	e.tombstone = false
	if setFlags {
		e.flags = flags
	}
	return isNew
}

// SetFlag ORs flag into the entry's bits; the entry must already exist.
func (t *Table) SetFlag(key *String, flag entryFlag) {
	if len(t.entries) == 0 {
		return
	}
	e := t.findEntry(t.entries, key)
	if e.key != nil {
		e.flags |= flag
	}
}

// HasFlag reports whether key's entry has flag set.
func (t *Table) HasFlag(key *String, flag entryFlag) bool {
	flags, ok := t.GetFlags(key)
	return ok && flags&flag != 0
}

// Delete removes key, leaving a recyclable tombstone in its place.
func (t *Table) Delete(key *String) bool {
	if len(t.entries) == 0 {
		return false
	}
	e := t.findEntry(t.entries, key)
	if e.key == nil {
		return false
	}
	e.key = nil
	e.value = Bool(true)
	e.tombstone = true
	return true
}

// findEntry performs the linear probe for key in entries, returning a
// pointer to either the matching live entry, the first tombstone seen along
// the probe path (recycled on insert), or the first empty slot.
func (t *Table) findEntry(entries []entry, key *String) *entry {
	capacity := uint32(len(entries))
	idx := key.Hash & (capacity - 1)
	var tombstone *entry
	for {
		e := &entries[idx]
		switch {
		case e.key == nil && !e.tombstone:
			if tombstone != nil {
				return tombstone
			}
			return e
		case e.key == nil && e.tombstone:
			if tombstone == nil {
				tombstone = e
			}
		case e.key == key:
			return e
		}
		idx = (idx + 1) & (capacity - 1)
	}
}

func (t *Table) grow() {
	newCap := initialCapacity
	if cur := cap2(t.entries); cur > 0 {
		newCap = cur * 2
	}
	newEntries := make([]entry, newCap)
	t.count = 0
	for _, e := range t.entries {
		if e.key == nil {
			continue
		}
		dst := t.findEntry(newEntries, e.key)
		dst.key = e.key
		dst.value = e.value
		dst.flags = e.flags
		t.count++
	}
	t.entries = newEntries
}

func cap2(entries []entry) int { return len(entries) }

// FindString probes the table for a key with the given content, hash and
// length without allocating a String first — the path the interner uses to
// decide whether a literal already has a canonical object.
func (t *Table) FindString(chars string, hash uint32) *String {
	if len(t.entries) == 0 {
		return nil
	}
	capacity := uint32(len(t.entries))
	idx := hash & (capacity - 1)
	for {
		e := &t.entries[idx]
		switch {
		case e.key == nil && !e.tombstone:
			return nil
		case e.key != nil && e.key.Hash == hash && e.key.Chars == chars:
			return e.key
		}
		idx = (idx + 1) & (capacity - 1)
	}
}

// AddAll copies every entry of src into dst, used to implement OP_INHERIT's
// method-table copy from superclass to subclass.
func AddAll(src, dst *Table) {
	for _, e := range src.entries {
		if e.key == nil || e.tombstone {
			continue
		}
		dst.Set(e.key, e.value)
	}
}

// Keys returns every live key in the table. The caller must not retain
// ambient assumptions about order.
func (t *Table) Keys() []*String {
	keys := make([]*String, 0, t.liveCount())
	for _, e := range t.entries {
		if e.key != nil && !e.tombstone {
			keys = append(keys, e.key)
		}
	}
	return keys
}

// Each calls fn for every live key/value pair.
func (t *Table) Each(fn func(key *String, v Value)) {
	for _, e := range t.entries {
		if e.key != nil && !e.tombstone {
			fn(e.key, e.value)
		}
	}
}

// RemoveUnmarked deletes every entry whose key is not marked, used during
// pre-sweep weak interning (§4.5: "Before sweep, walk the intern table and
// remove entries whose key is unmarked").
func (t *Table) RemoveUnmarked() {
	for i := range t.entries {
		e := &t.entries[i]
		if e.key != nil && !e.tombstone && !e.key.Marked() {
			e.key = nil
			e.value = Bool(true)
			e.tombstone = true
		}
	}
}

package value

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTableSetGetDelete(t *testing.T) {
	tab := NewTable()
	k1 := NewString("alpha")
	k2 := NewString("beta")

	require.True(t, tab.Set(k1, Int(1)))
	require.True(t, tab.Set(k2, Int(2)))
	require.False(t, tab.Set(k1, Int(10))) // update, not new

	v, ok := tab.Get(k1)
	require.True(t, ok)
	require.Equal(t, Int(10), v)

	require.True(t, tab.Delete(k1))
	_, ok = tab.Get(k1)
	require.False(t, ok)

	v2, ok := tab.Get(k2)
	require.True(t, ok)
	require.Equal(t, Int(2), v2)
}

func TestTableTombstoneRecycledOnInsert(t *testing.T) {
	tab := NewTable()
	k1 := NewString("alpha")
	tab.Set(k1, Int(1))
	tab.Delete(k1)
	require.True(t, tab.Set(k1, Int(2))) // re-inserted, counts as new again
	v, ok := tab.Get(k1)
	require.True(t, ok)
	require.Equal(t, Int(2), v)
}

func TestTableGrowsAndKeepsAllEntries(t *testing.T) {
	tab := NewTable()
	keys := make([]*String, 0, 200)
	for i := 0; i < 200; i++ {
		k := NewString(fmt.Sprintf("key-%d", i))
		keys = append(keys, k)
		tab.Set(k, Int(int64(i)))
	}
	for i, k := range keys {
		v, ok := tab.Get(k)
		require.True(t, ok, "key %d", i)
		require.Equal(t, Int(int64(i)), v)
	}
}

func TestTableImmutableFlag(t *testing.T) {
	tab := NewTable()
	k := NewString("PI")
	tab.SetWithFlags(k, Number(3.14), FlagImmutable)
	require.True(t, tab.HasFlag(k, FlagImmutable))

	other := NewString("other")
	tab.Set(other, Int(1))
	require.False(t, tab.HasFlag(other, FlagImmutable))
}

func TestTableFindString(t *testing.T) {
	tab := NewTable()
	k := NewString("hello")
	tab.Set(k, Int(1))

	found := tab.FindString("hello", FNV1a("hello"))
	require.Same(t, k, found)

	require.Nil(t, tab.FindString("nope", FNV1a("nope")))
}

func TestTableAddAll(t *testing.T) {
	src := NewTable()
	dst := NewTable()
	a := NewString("a")
	b := NewString("b")
	src.Set(a, Int(1))
	src.Set(b, Int(2))
	dst.Set(a, Int(99)) // dst already has a key in common

	AddAll(src, dst)

	va, _ := dst.Get(a)
	vb, _ := dst.Get(b)
	require.Equal(t, Int(1), va) // overwritten by src
	require.Equal(t, Int(2), vb)
}

func TestTableRemoveUnmarked(t *testing.T) {
	tab := NewTable()
	marked := NewString("marked")
	unmarked := NewString("unmarked")
	marked.Mark()
	tab.Set(marked, Int(1))
	tab.Set(unmarked, Int(2))

	tab.RemoveUnmarked()

	_, ok := tab.Get(marked)
	require.True(t, ok)
	_, ok = tab.Get(unmarked)
	require.False(t, ok)
}

package value

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestChunkLineTable(t *testing.T) {
	c := &Chunk{}
	c.WriteOp(OpNil, 1)
	c.WriteOp(OpNil, 1)
	c.WriteOp(OpPop, 2)
	c.WriteOp(OpPop, 2)
	c.WriteOp(OpPop, 2)
	c.WriteOp(OpReturn, 5)

	require.Equal(t, 1, c.GetLine(0))
	require.Equal(t, 1, c.GetLine(1))
	require.Equal(t, 2, c.GetLine(2))
	require.Equal(t, 2, c.GetLine(4))
	require.Equal(t, 5, c.GetLine(5))
}

func TestChunkConstantEncodingRoundTrip(t *testing.T) {
	cases := []int{0, 1, 127, 128, 129, 1000, 65535, 65536, MaxConstants}
	for _, idx := range cases {
		c := &Chunk{}
		require.NoError(t, c.WriteConstant(idx, 1))

		wantLong := idx >= 128
		gotLen := len(c.Code)
		if wantLong {
			require.Equal(t, 3, gotLen, "index %d", idx)
			require.NotZero(t, c.Code[0]&0x80, "index %d: long form must set high bit", idx)
		} else {
			require.Equal(t, 1, gotLen, "index %d", idx)
			require.Zero(t, c.Code[0]&0x80, "index %d: short form must clear high bit", idx)
		}

		got, next, long := ReadConstant(c.Code, 0)
		require.Equal(t, idx, got)
		require.Equal(t, gotLen, next)
		require.Equal(t, wantLong, long)
	}
}

func TestChunkConstantIndexOutOfRange(t *testing.T) {
	c := &Chunk{}
	require.Error(t, c.WriteConstant(-1, 1))
	require.Error(t, c.WriteConstant(MaxConstants+1, 1))
}

func TestChunkAddConstant(t *testing.T) {
	c := &Chunk{}
	i0 := c.AddConstant(Int(1))
	i1 := c.AddConstant(Int(2))
	require.Equal(t, 0, i0)
	require.Equal(t, 1, i1)
	require.Equal(t, Int(1), c.Constants[i0])
}

package value

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTruthy(t *testing.T) {
	require.False(t, Nil.Truthy())
	require.False(t, Bool(false).Truthy())
	require.True(t, Bool(true).Truthy())
	require.True(t, Int(0).Truthy())
	require.True(t, Number(0.0).Truthy())
	require.True(t, FromObject(NewString("")).Truthy())
	require.True(t, FromObject(NewList(nil)).Truthy())
}

func TestEqualNumericCrossKind(t *testing.T) {
	require.True(t, Equal(Int(2), Number(2.0)))
	require.True(t, Equal(Number(2.0), Int(2)))
	require.False(t, Equal(Int(2), Number(2.5)))
	require.True(t, Equal(Int(3), Int(3)))
}

func TestEqualNilAndBool(t *testing.T) {
	require.True(t, Equal(Nil, Nil))
	require.False(t, Equal(Nil, Bool(false)))
	require.True(t, Equal(Bool(true), Bool(true)))
	require.False(t, Equal(Bool(true), Bool(false)))
}

func TestEqualStringIdentity(t *testing.T) {
	a := NewString("ab")
	b := NewString("ab")
	require.False(t, Equal(FromObject(a), FromObject(b)), "distinct allocations are not equal without interning")
	require.True(t, Equal(FromObject(a), FromObject(a)))
}

func TestArithmeticIntPreserved(t *testing.T) {
	r, err := AddNumeric(Int(1), Int(2))
	require.NoError(t, err)
	require.Equal(t, Int(3), r)
	require.True(t, r.IsInt())
}

func TestArithmeticPromotesToNumber(t *testing.T) {
	r, err := AddNumeric(Int(1), Number(2.5))
	require.NoError(t, err)
	require.True(t, r.IsNumber())
	require.Equal(t, 3.5, r.AsNumber())
}

func TestArithmeticIntDivisionTruncates(t *testing.T) {
	r, err := DivNumeric(Int(7), Int(2))
	require.NoError(t, err)
	require.Equal(t, Int(3), r)
}

func TestArithmeticDivisionByZeroInt(t *testing.T) {
	_, err := DivNumeric(Int(1), Int(0))
	require.Error(t, err)
}

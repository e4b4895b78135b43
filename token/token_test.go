package token

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestKindString(t *testing.T) {
	for k := Kind(0); k < maxKind; k++ {
		if k == ILLEGAL {
			continue
		}
		require.NotEmpty(t, k.String(), "kind %d missing a string representation", k)
	}
}

func TestLookupIdent(t *testing.T) {
	for lexeme, want := range keywords {
		require.Equal(t, want, LookupIdent(lexeme))
	}
	require.Equal(t, IDENT, LookupIdent("notAKeyword"))
	require.Equal(t, IDENT, LookupIdent("fund"))
	require.Equal(t, IDENT, LookupIdent(""))
}

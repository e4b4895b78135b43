package scanner

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/vela-lang/vela/token"
)

func scanAll(t *testing.T, src string) []token.Token {
	t.Helper()
	s := New([]byte(src))
	var toks []token.Token
	for {
		tok := s.Scan()
		toks = append(toks, tok)
		if tok.Kind == token.EOF {
			return toks
		}
	}
}

func kinds(toks []token.Token) []token.Kind {
	out := make([]token.Kind, len(toks))
	for i, tok := range toks {
		out[i] = tok.Kind
	}
	return out
}

func TestScanPunctuationAndOperators(t *testing.T) {
	toks := scanAll(t, `( ) { } [ ] , . - + ; / * ? : ! != = == < <= > >=`)
	require.Equal(t, []token.Kind{
		token.LEFT_PAREN, token.RIGHT_PAREN, token.LEFT_BRACE, token.RIGHT_BRACE,
		token.LEFT_BRACKET, token.RIGHT_BRACKET, token.COMMA, token.DOT, token.MINUS,
		token.PLUS, token.SEMICOLON, token.SLASH, token.STAR, token.QUESTION, token.COLON,
		token.BANG, token.BANG_EQUAL, token.EQUAL, token.EQUAL_EQUAL, token.LESS,
		token.LESS_EQUAL, token.GREATER, token.GREATER_EQUAL, token.EOF,
	}, kinds(toks))
}

func TestScanKeywordsAndIdents(t *testing.T) {
	toks := scanAll(t, `var val fun class super this nil true false myVar _x2`)
	require.Equal(t, []token.Kind{
		token.VAR, token.VAL, token.FUN, token.CLASS, token.SUPER, token.THIS,
		token.NIL, token.TRUE, token.FALSE, token.IDENT, token.IDENT, token.EOF,
	}, kinds(toks))
	require.Equal(t, "myVar", toks[9].Lexeme)
}

func TestScanNumbers(t *testing.T) {
	cases := []struct {
		src  string
		kind token.Kind
	}{
		{"123", token.INT},
		{"0x1F", token.INT},
		{"0o17", token.INT},
		{"3.14", token.FLOAT},
		{"1e10", token.FLOAT},
		{"1.5e-3", token.FLOAT},
	}
	for _, tc := range cases {
		toks := scanAll(t, tc.src)
		require.Len(t, toks, 2, tc.src)
		require.Equal(t, tc.kind, toks[0].Kind, tc.src)
		require.Equal(t, tc.src, toks[0].Lexeme, tc.src)
	}
}

func TestScanString(t *testing.T) {
	toks := scanAll(t, `"hello world"`)
	require.Equal(t, token.STRING, toks[0].Kind)
	require.Equal(t, `"hello world"`, toks[0].Lexeme)
}

func TestScanUnterminatedString(t *testing.T) {
	toks := scanAll(t, `"hello`)
	require.Equal(t, token.ERROR, toks[0].Kind)
}

func TestScanSkipsLineComments(t *testing.T) {
	toks := scanAll(t, "var x = 1; // comment\nvar y = 2;")
	require.Equal(t, []token.Kind{
		token.VAR, token.IDENT, token.EQUAL, token.INT, token.SEMICOLON,
		token.VAR, token.IDENT, token.EQUAL, token.INT, token.SEMICOLON, token.EOF,
	}, kinds(toks))
}

func TestScanLineNumbers(t *testing.T) {
	toks := scanAll(t, "var x = 1;\nvar y = 2;")
	require.Equal(t, 1, toks[0].Line)
	require.Equal(t, 2, toks[5].Line)
}

func TestScanListBrackets(t *testing.T) {
	toks := scanAll(t, `[1, 2, 3]`)
	require.Equal(t, []token.Kind{
		token.LEFT_BRACKET, token.INT, token.COMMA, token.INT, token.COMMA,
		token.INT, token.RIGHT_BRACKET, token.EOF,
	}, kinds(toks))
}

// Package scanner tokenizes Vela source text. It produces one token at a
// time on demand; the compiler drives it with a single token of lookahead.
//
// The scanning technique — track a byte offset, read one byte at a time,
// and advance greedily — is adapted from the teacher's
// lang/scanner/scanner.go, simplified to a single in-memory buffer (no
// multi-file token.FileSet) and to the language's simpler lexical grammar
// (ASCII-oriented, no string escapes, no raw/byte string prefixes).
package scanner

import (
	"fmt"
	"unicode/utf8"

	"github.com/vela-lang/vela/token"
)

// Scanner tokenizes a single source buffer.
type Scanner struct {
	src     []byte
	start   int // start of the lexeme being scanned
	current int // offset of the next byte to read
	line    int
}

// New creates a Scanner over src.
func New(src []byte) *Scanner {
	return &Scanner{src: src, line: 1}
}

// Scan returns the next token in the source, advancing past it. At end of
// input it returns an EOF token forever after.
func (s *Scanner) Scan() token.Token {
	s.skipWhitespaceAndComments()
	s.start = s.current
	if s.atEnd() {
		return s.make(token.EOF)
	}

	c := s.advance()
	if isAlpha(c) {
		return s.identifier()
	}
	if isDigit(c) {
		return s.number()
	}

	switch c {
	case '(':
		return s.make(token.LEFT_PAREN)
	case ')':
		return s.make(token.RIGHT_PAREN)
	case '{':
		return s.make(token.LEFT_BRACE)
	case '}':
		return s.make(token.RIGHT_BRACE)
	case '[':
		return s.make(token.LEFT_BRACKET)
	case ']':
		return s.make(token.RIGHT_BRACKET)
	case ',':
		return s.make(token.COMMA)
	case '.':
		return s.make(token.DOT)
	case '-':
		return s.make(token.MINUS)
	case '+':
		return s.make(token.PLUS)
	case ';':
		return s.make(token.SEMICOLON)
	case '*':
		return s.make(token.STAR)
	case '?':
		return s.make(token.QUESTION)
	case ':':
		return s.make(token.COLON)
	case '/':
		return s.make(token.SLASH)
	case '!':
		if s.matchByte('=') {
			return s.make(token.BANG_EQUAL)
		}
		return s.make(token.BANG)
	case '=':
		if s.matchByte('=') {
			return s.make(token.EQUAL_EQUAL)
		}
		return s.make(token.EQUAL)
	case '<':
		if s.matchByte('=') {
			return s.make(token.LESS_EQUAL)
		}
		return s.make(token.LESS)
	case '>':
		if s.matchByte('=') {
			return s.make(token.GREATER_EQUAL)
		}
		return s.make(token.GREATER)
	case '"':
		return s.string()
	}

	return s.errorf("unexpected character '%c'", c)
}

func (s *Scanner) atEnd() bool { return s.current >= len(s.src) }

func (s *Scanner) advance() byte {
	c := s.src[s.current]
	s.current++
	return c
}

func (s *Scanner) peek() byte {
	if s.atEnd() {
		return 0
	}
	return s.src[s.current]
}

func (s *Scanner) peekNext() byte {
	if s.current+1 >= len(s.src) {
		return 0
	}
	return s.src[s.current+1]
}

func (s *Scanner) matchByte(want byte) bool {
	if s.atEnd() || s.src[s.current] != want {
		return false
	}
	s.current++
	return true
}

func (s *Scanner) skipWhitespaceAndComments() {
	for {
		if s.atEnd() {
			return
		}
		switch c := s.src[s.current]; c {
		case ' ', '\r', '\t':
			s.current++
		case '\n':
			s.line++
			s.current++
		case '/':
			if s.peekNext() == '/' {
				for !s.atEnd() && s.src[s.current] != '\n' {
					s.current++
				}
			} else {
				return
			}
		default:
			return
		}
	}
}

func (s *Scanner) identifier() token.Token {
	for isAlpha(s.peek()) || isDigit(s.peek()) {
		s.current++
	}
	lexeme := string(s.src[s.start:s.current])
	return s.make(token.LookupIdent(lexeme))
}

// number scans decimal, 0x hex and 0o octal integer literals, and decimal
// floating point literals (with an optional exponent). The literal's Kind
// (INT vs FLOAT) tells the compiler which constant representation to emit.
func (s *Scanner) number() token.Token {
	if s.src[s.start] == '0' && (s.peek() == 'x' || s.peek() == 'X') {
		s.current++
		for isHexDigit(s.peek()) {
			s.current++
		}
		return s.make(token.INT)
	}
	if s.src[s.start] == '0' && (s.peek() == 'o' || s.peek() == 'O') {
		s.current++
		for isOctalDigit(s.peek()) {
			s.current++
		}
		return s.make(token.INT)
	}

	for isDigit(s.peek()) {
		s.current++
	}

	isFloat := false
	if s.peek() == '.' && isDigit(s.peekNext()) {
		isFloat = true
		s.current++ // consume '.'
		for isDigit(s.peek()) {
			s.current++
		}
	}
	if c := s.peek(); c == 'e' || c == 'E' {
		next := s.peekNext()
		if isDigit(next) || ((next == '+' || next == '-') && s.current+2 < len(s.src) && isDigit(s.src[s.current+2])) {
			isFloat = true
			s.current++
			if c := s.peek(); c == '+' || c == '-' {
				s.current++
			}
			for isDigit(s.peek()) {
				s.current++
			}
		}
	}

	if isFloat {
		return s.make(token.FLOAT)
	}
	return s.make(token.INT)
}

// string scans a double-quoted string literal. The language has no escape
// sequences: every byte between the quotes is taken verbatim.
func (s *Scanner) string() token.Token {
	for !s.atEnd() && s.peek() != '"' {
		if s.peek() == '\n' {
			s.line++
		}
		s.current++
	}
	if s.atEnd() {
		return s.errorf("unterminated string")
	}
	s.current++ // closing quote
	return s.make(token.STRING)
}

func (s *Scanner) make(kind token.Kind) token.Token {
	return token.Token{Kind: kind, Lexeme: string(s.src[s.start:s.current]), Line: s.line}
}

func (s *Scanner) errorf(format string, args ...interface{}) token.Token {
	return token.Token{Kind: token.ERROR, Lexeme: fmt.Sprintf(format, args...), Line: s.line}
}

func isAlpha(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || c >= utf8.RuneSelf
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

func isHexDigit(c byte) bool {
	return isDigit(c) || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}

func isOctalDigit(c byte) bool { return c >= '0' && c <= '7' }

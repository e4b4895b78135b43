package compiler

import "github.com/vela-lang/vela/token"

// precedence orders binding strength from loosest to tightest, per §4.2's
// Pratt table. Subscript binds tighter than call so `a[0]()` and `a()[0]`
// both parse as expected.
type precedence int

const (
	precNone precedence = iota
	precAssignment
	precTernary
	precOr
	precAnd
	precEquality
	precComparison
	precTerm
	precFactor
	precUnary
	precCall
	precSubscript
	precPrimary
)

type parseFn func(p *Parser, canAssign bool)

type rule struct {
	prefix parseFn
	infix  parseFn
	prec   precedence
}

var rules [token.NumKinds]rule

func init() {
	rules[token.LEFT_PAREN] = rule{prefix: grouping, infix: call, prec: precCall}
	rules[token.LEFT_BRACKET] = rule{prefix: listLiteral, infix: subscript, prec: precSubscript}
	rules[token.DOT] = rule{infix: dot, prec: precCall}
	rules[token.MINUS] = rule{prefix: unary, infix: binary, prec: precTerm}
	rules[token.PLUS] = rule{infix: binary, prec: precTerm}
	rules[token.SLASH] = rule{infix: binary, prec: precFactor}
	rules[token.STAR] = rule{infix: binary, prec: precFactor}
	rules[token.BANG] = rule{prefix: unary}
	rules[token.BANG_EQUAL] = rule{infix: binary, prec: precEquality}
	rules[token.EQUAL_EQUAL] = rule{infix: binary, prec: precEquality}
	rules[token.GREATER] = rule{infix: binary, prec: precComparison}
	rules[token.GREATER_EQUAL] = rule{infix: binary, prec: precComparison}
	rules[token.LESS] = rule{infix: binary, prec: precComparison}
	rules[token.LESS_EQUAL] = rule{infix: binary, prec: precComparison}
	rules[token.IDENT] = rule{prefix: variable}
	rules[token.STRING] = rule{prefix: stringLiteral}
	rules[token.INT] = rule{prefix: number}
	rules[token.FLOAT] = rule{prefix: number}
	rules[token.AND] = rule{infix: and_, prec: precAnd}
	rules[token.OR] = rule{infix: or_, prec: precOr}
	rules[token.QUESTION] = rule{infix: ternary, prec: precTernary}
	rules[token.FALSE] = rule{prefix: literal}
	rules[token.TRUE] = rule{prefix: literal}
	rules[token.NIL] = rule{prefix: literal}
	rules[token.THIS] = rule{prefix: this}
	rules[token.SUPER] = rule{prefix: super}
	rules[token.APPEND] = rule{prefix: appendExpr}
	rules[token.DELETE] = rule{prefix: deleteExpr}
}

func getRule(k token.Kind) *rule { return &rules[k] }

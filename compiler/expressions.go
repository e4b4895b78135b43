package compiler

import (
	"strconv"
	"strings"

	"github.com/vela-lang/vela/token"
	"github.com/vela-lang/vela/value"
)

func (p *Parser) expression() { p.parsePrecedence(precAssignment) }

func (p *Parser) parsePrecedence(prec precedence) {
	p.advance()
	prefix := getRule(p.previous.Kind).prefix
	if prefix == nil {
		p.errorAtPrevious("expect expression")
		return
	}
	canAssign := prec <= precAssignment
	prefix(p, canAssign)

	for prec <= getRule(p.current.Kind).prec {
		p.advance()
		infix := getRule(p.previous.Kind).infix
		infix(p, canAssign)
	}

	if canAssign && p.match(token.EQUAL) {
		p.errorAtPrevious("invalid assignment target")
	}
}

func number(p *Parser, _ bool) {
	lexeme := p.previous.Lexeme
	if p.previous.Kind == token.FLOAT {
		f, err := strconv.ParseFloat(lexeme, 64)
		if err != nil {
			p.errorAtPrevious("invalid float literal")
			return
		}
		p.emitConstant(value.Number(f))
		return
	}
	var i int64
	var err error
	switch {
	case strings.HasPrefix(lexeme, "0x") || strings.HasPrefix(lexeme, "0X"):
		i, err = strconv.ParseInt(lexeme[2:], 16, 64)
	case strings.HasPrefix(lexeme, "0o") || strings.HasPrefix(lexeme, "0O"):
		i, err = strconv.ParseInt(lexeme[2:], 8, 64)
	default:
		i, err = strconv.ParseInt(lexeme, 10, 64)
	}
	if err != nil {
		p.errorAtPrevious("invalid integer literal")
		return
	}
	p.emitConstant(value.Int(i))
}

func stringLiteral(p *Parser, _ bool) {
	lexeme := p.previous.Lexeme
	// lexeme spans the full token including its surrounding quotes.
	contents := lexeme[1 : len(lexeme)-1]
	p.emitConstant(value.FromObject(value.NewString(contents)))
}

func literal(p *Parser, _ bool) {
	switch p.previous.Kind {
	case token.FALSE:
		p.emitOp(value.OpFalse)
	case token.TRUE:
		p.emitOp(value.OpTrue)
	case token.NIL:
		p.emitOp(value.OpNil)
	}
}

func grouping(p *Parser, _ bool) {
	p.expression()
	p.consume(token.RIGHT_PAREN, "expect ')' after expression")
}

func unary(p *Parser, _ bool) {
	opKind := p.previous.Kind
	p.parsePrecedence(precUnary)
	switch opKind {
	case token.MINUS:
		p.emitOp(value.OpNegate)
	case token.BANG:
		p.emitOp(value.OpNot)
	}
}

func binary(p *Parser, _ bool) {
	opKind := p.previous.Kind
	r := getRule(opKind)
	p.parsePrecedence(r.prec + 1)

	switch opKind {
	case token.BANG_EQUAL:
		p.emitOps(value.OpEqual, value.OpNot)
	case token.EQUAL_EQUAL:
		p.emitOp(value.OpEqual)
	case token.GREATER:
		p.emitOp(value.OpGreater)
	case token.GREATER_EQUAL:
		p.emitOps(value.OpLess, value.OpNot)
	case token.LESS:
		p.emitOp(value.OpLess)
	case token.LESS_EQUAL:
		p.emitOps(value.OpGreater, value.OpNot)
	case token.PLUS:
		p.emitOp(value.OpAdd)
	case token.MINUS:
		p.emitOp(value.OpSubtract)
	case token.STAR:
		p.emitOp(value.OpMultiply)
	case token.SLASH:
		p.emitOp(value.OpDivide)
	}
}

func and_(p *Parser, _ bool) {
	endJump := p.emitJump(value.OpJumpIfFalse)
	p.emitOp(value.OpPop)
	p.parsePrecedence(precAnd)
	p.patchJump(endJump)
}

func or_(p *Parser, _ bool) {
	elseJump := p.emitJump(value.OpJumpIfFalse)
	endJump := p.emitJump(value.OpJump)
	p.patchJump(elseJump)
	p.emitOp(value.OpPop)
	p.parsePrecedence(precOr)
	p.patchJump(endJump)
}

func ternary(p *Parser, _ bool) {
	midJump := p.emitJump(value.OpJumpIfFalse)
	p.emitOp(value.OpPop)
	p.parsePrecedence(precTernary - 1)
	exitJump := p.emitJump(value.OpJump)

	p.patchJump(midJump)
	p.emitOp(value.OpPop)
	p.consume(token.COLON, "expect ':' in ternary expression")
	p.parsePrecedence(precTernary - 1)

	p.patchJump(exitJump)
}

func (p *Parser) argumentList() byte {
	argCount := 0
	if !p.check(token.RIGHT_PAREN) {
		for {
			p.expression()
			if argCount == 255 {
				p.errorAtPrevious("can't have more than 255 arguments")
			}
			argCount++
			if !p.match(token.COMMA) {
				break
			}
		}
	}
	p.consume(token.RIGHT_PAREN, "expect ')' after arguments")
	return byte(argCount)
}

func call(p *Parser, _ bool) {
	argCount := p.argumentList()
	p.emitOpByte(value.OpCall, argCount)
}

func dot(p *Parser, canAssign bool) {
	p.consume(token.IDENT, "expect property name after '.'")
	name := p.identifierConstant(p.previous.Lexeme)

	switch {
	case canAssign && p.match(token.EQUAL):
		p.expression()
		p.emitConstantRef(value.OpSetProperty, name)
	case p.match(token.LEFT_PAREN):
		argCount := p.argumentList()
		p.emitConstantRef(value.OpInvoke, name)
		p.emitByte(argCount)
	default:
		p.emitConstantRef(value.OpGetProperty, name)
	}
}

func subscript(p *Parser, canAssign bool) {
	p.expression()
	p.consume(token.RIGHT_BRACKET, "expect ']' after index")
	if canAssign && p.match(token.EQUAL) {
		p.expression()
		p.emitOp(value.OpStoreSubscr)
		return
	}
	p.emitOp(value.OpIndexSubscr)
}

func listLiteral(p *Parser, _ bool) {
	count := 0
	if !p.check(token.RIGHT_BRACKET) {
		for {
			p.expression()
			count++
			if !p.match(token.COMMA) {
				break
			}
		}
	}
	p.consume(token.RIGHT_BRACKET, "expect ']' after list elements")
	p.emitConstantRef(value.OpBuildList, count)
}

// variable resolves an identifier token already consumed as p.previous:
// local, then upvalue, then global, honoring canAssign for the trailing
// `= expr` form and enforcing mutability at the point of assignment.
func variable(p *Parser, canAssign bool) {
	p.namedVariable(p.previous.Lexeme, canAssign)
}

// variableNamed reads/writes the given name as though it had just been
// consumed as an identifier token; used by class/superclass references the
// compiler synthesizes itself.
func (p *Parser) variableNamed(name string, canAssign bool) {
	p.namedVariable(name, canAssign)
}

func (p *Parser) namedVariable(name string, canAssign bool) {
	var getOp, setOp value.OpCode
	var arg int
	var mutable bool

	if slot, mut, uninitialized, ok := p.fr.resolveLocal(name); ok {
		if uninitialized {
			p.errorAtPrevious("can't read local variable in its own initializer")
		}
		getOp, setOp, arg, mutable = value.OpGetLocal, value.OpSetLocal, slot, mut
	} else if idx, mut, ok := p.fr.resolveUpvalue(p, name); ok {
		getOp, setOp, arg, mutable = value.OpGetUpvalue, value.OpSetUpvalue, idx, mut
	} else {
		arg = p.identifierConstant(name)
		getOp, setOp, mutable = value.OpGetGlobal, value.OpSetGlobal, true
	}

	if canAssign && p.match(token.EQUAL) {
		// Only locals are checked here; an immutable upvalue is rejected at
		// runtime by OP_SET_UPVALUE and an immutable global by OP_SET_GLOBAL.
		if !mutable && setOp == value.OpSetLocal {
			p.errorAtPrevious("can't assign to an immutable binding")
		}
		p.expression()
		if setOp == value.OpGetGlobal || setOp == value.OpSetGlobal {
			p.emitConstantRef(setOp, arg)
		} else {
			p.emitOpByte(setOp, byte(arg))
		}
		return
	}
	if getOp == value.OpGetGlobal {
		p.emitConstantRef(getOp, arg)
	} else {
		p.emitOpByte(getOp, byte(arg))
	}
}

// appendExpr and deleteExpr compile `append` and `delete`, reserved words
// rather than ordinary identifiers (§4.1), directly to their dedicated
// opcodes instead of routing through OP_CALL + the Native registry — the
// same mutating list operations the `append`/`delete` natives describe in
// §6, realized here as compiler-known syntax since the names can never
// resolve as a global or local reference.
func appendExpr(p *Parser, _ bool) {
	p.consume(token.LEFT_PAREN, "expect '(' after 'append'")
	p.expression()
	p.consume(token.COMMA, "expect ',' after list argument")
	p.expression()
	p.consume(token.RIGHT_PAREN, "expect ')' after arguments")
	p.emitOp(value.OpAppendTo)
}

func deleteExpr(p *Parser, _ bool) {
	p.consume(token.LEFT_PAREN, "expect '(' after 'delete'")
	p.expression()
	p.consume(token.COMMA, "expect ',' after list argument")
	p.expression()
	p.consume(token.RIGHT_PAREN, "expect ')' after arguments")
	p.emitOp(value.OpDeleteFrom)
}

func this(p *Parser, _ bool) {
	if p.cls == nil {
		p.errorAtPrevious("can't use 'this' outside a class")
		return
	}
	p.namedVariable("this", false)
}

func super(p *Parser, _ bool) {
	if p.cls == nil {
		p.errorAtPrevious("can't use 'super' outside a class")
	} else if !p.cls.hasSuperclass {
		p.errorAtPrevious("can't use 'super' in a class with no superclass")
	}
	p.consume(token.DOT, "expect '.' after 'super'")
	p.consume(token.IDENT, "expect superclass method name")
	name := p.identifierConstant(p.previous.Lexeme)

	p.namedVariable("this", false)
	if p.match(token.LEFT_PAREN) {
		argCount := p.argumentList()
		p.namedVariable("super", false)
		p.emitConstantRef(value.OpSuperInvoke, name)
		p.emitByte(argCount)
		return
	}
	p.namedVariable("super", false)
	p.emitConstantRef(value.OpGetSuper, name)
}

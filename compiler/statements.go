package compiler

import (
	"github.com/vela-lang/vela/token"
	"github.com/vela-lang/vela/value"
)

const maxSwitchCases = 255

func (p *Parser) statement() {
	switch {
	case p.match(token.PRINT):
		p.printStatement()
	case p.match(token.IF):
		p.ifStatement()
	case p.match(token.WHILE):
		p.whileStatement()
	case p.match(token.FOR):
		p.forStatement()
	case p.match(token.SWITCH):
		p.switchStatement()
	case p.match(token.BREAK):
		p.breakStatement()
	case p.match(token.CONTINUE):
		p.continueStatement()
	case p.match(token.RETURN):
		p.returnStatement()
	case p.match(token.LEFT_BRACE):
		p.beginScope()
		p.block()
		p.endScope()
	default:
		p.expressionStatement()
	}
}

func (p *Parser) printStatement() {
	p.expression()
	p.consume(token.SEMICOLON, "expect ';' after value")
	p.emitOp(value.OpPrint)
}

func (p *Parser) expressionStatement() {
	p.expression()
	p.consume(token.SEMICOLON, "expect ';' after expression")
	p.emitOp(value.OpPop)
}

func (p *Parser) ifStatement() {
	p.consume(token.LEFT_PAREN, "expect '(' after 'if'")
	p.expression()
	p.consume(token.RIGHT_PAREN, "expect ')' after condition")

	thenJump := p.emitJump(value.OpJumpIfFalse)
	p.emitOp(value.OpPop)
	p.statement()

	elseJump := p.emitJump(value.OpJump)
	p.patchJump(thenJump)
	p.emitOp(value.OpPop)

	if p.match(token.ELSE) {
		p.statement()
	}
	p.patchJump(elseJump)
}

func (p *Parser) pushLoop() *loopContext {
	lc := &loopContext{enclosing: p.fr.loop, scopeDepth: p.fr.scopeDepth}
	p.fr.loop = lc
	return lc
}

func (p *Parser) popLoop() { p.fr.loop = p.fr.loop.enclosing }

func (p *Parser) whileStatement() {
	loopStart := len(p.currentChunk().Code)
	lc := p.pushLoop()
	lc.loopStart = loopStart

	p.consume(token.LEFT_PAREN, "expect '(' after 'while'")
	p.expression()
	p.consume(token.RIGHT_PAREN, "expect ')' after condition")

	exitJump := p.emitJump(value.OpJumpIfFalse)
	p.emitOp(value.OpPop)
	p.statement()
	p.emitLoop(loopStart)

	p.patchJump(exitJump)
	p.emitOp(value.OpPop)

	for _, j := range lc.breakJumps {
		p.patchJump(j)
	}
	p.popLoop()
}

func (p *Parser) forStatement() {
	p.beginScope()
	p.consume(token.LEFT_PAREN, "expect '(' after 'for'")

	switch {
	case p.match(token.SEMICOLON):
		// no initializer
	case p.match(token.VAR):
		p.varDeclaration(true)
	case p.match(token.VAL):
		p.varDeclaration(false)
	default:
		p.expressionStatement()
	}

	loopStart := len(p.currentChunk().Code)
	lc := p.pushLoop()
	lc.loopStart = loopStart

	exitJump := -1
	if !p.match(token.SEMICOLON) {
		p.expression()
		p.consume(token.SEMICOLON, "expect ';' after loop condition")
		exitJump = p.emitJump(value.OpJumpIfFalse)
		p.emitOp(value.OpPop)
	}

	if !p.check(token.RIGHT_PAREN) {
		bodyJump := p.emitJump(value.OpJump)
		incrementStart := len(p.currentChunk().Code)
		p.expression()
		p.emitOp(value.OpPop)
		p.consume(token.RIGHT_PAREN, "expect ')' after for clauses")

		p.emitLoop(loopStart)
		loopStart = incrementStart
		lc.loopStart = loopStart
		p.patchJump(bodyJump)
	} else {
		p.consume(token.RIGHT_PAREN, "expect ')' after for clauses")
	}

	p.statement()
	p.emitLoop(loopStart)

	if exitJump != -1 {
		p.patchJump(exitJump)
		p.emitOp(value.OpPop)
	}
	for _, j := range lc.breakJumps {
		p.patchJump(j)
	}
	p.popLoop()
	p.endScope()
}

// popLocalsAbove emits POP/CLOSE_UPVALUE for every local declared deeper
// than depth, without touching the compiler's bookkeeping — used by
// break/continue, which jump out of scopes the surrounding endScope()
// hasn't run yet.
func (p *Parser) popLocalsAbove(depth int) {
	for i := p.fr.localCount - 1; i >= 0 && p.fr.locals[i].depth > depth; i-- {
		if p.fr.locals[i].isCaptured {
			p.emitOp(value.OpCloseUpvalue)
		} else {
			p.emitOp(value.OpPop)
		}
	}
}

func (p *Parser) breakStatement() {
	if p.fr.loop == nil {
		p.errorAtPrevious("'break' outside a loop")
		p.consume(token.SEMICOLON, "expect ';' after 'break'")
		return
	}
	p.consume(token.SEMICOLON, "expect ';' after 'break'")
	p.popLocalsAbove(p.fr.loop.scopeDepth)
	jump := p.emitJump(value.OpJump)
	p.fr.loop.breakJumps = append(p.fr.loop.breakJumps, jump)
}

func (p *Parser) continueStatement() {
	if p.fr.loop == nil {
		p.errorAtPrevious("'continue' outside a loop")
		p.consume(token.SEMICOLON, "expect ';' after 'continue'")
		return
	}
	p.consume(token.SEMICOLON, "expect ';' after 'continue'")
	p.popLocalsAbove(p.fr.loop.scopeDepth)
	p.emitLoop(p.fr.loop.loopStart)
}

func (p *Parser) returnStatement() {
	if p.fr.funcType == FuncScript {
		p.errorAtPrevious("can't return from top-level code")
	}
	if p.match(token.SEMICOLON) {
		p.emitReturn()
		return
	}
	if p.fr.funcType == FuncInitializer {
		p.errorAtPrevious("can't return a value from an initializer")
	}
	p.expression()
	p.consume(token.SEMICOLON, "expect ';' after return value")
	p.emitOp(value.OpReturn)
}

// switchStatement implements §4.2's fallthrough-style case chain. The
// subject stays on the stack for the whole statement. Each case pushes its
// value and compares with OP_EQUAL_NO_POP, which leaves subject, case-value
// and the bool result all on the stack; the two non-subject slots are
// popped either immediately (case matched, body runs next) or as the first
// thing the next case/default does (case didn't match, reached via the
// pending JUMP_IF_FALSE).
func (p *Parser) switchStatement() {
	p.consume(token.LEFT_PAREN, "expect '(' after 'switch'")
	p.expression()
	p.consume(token.RIGHT_PAREN, "expect ')' after switch subject")
	p.consume(token.LEFT_BRACE, "expect '{' before switch body")

	var endJumps []int
	prevSkip := -1
	sawDefault := false
	cases := 0

	atCaseBoundary := func() bool {
		return p.check(token.CASE) || p.check(token.DEFAULT) || p.check(token.RIGHT_BRACE) || p.check(token.EOF)
	}

	for !p.check(token.RIGHT_BRACE) && !p.check(token.EOF) {
		switch {
		case p.match(token.CASE):
			if sawDefault {
				p.errorAtPrevious("'case' after 'default'")
			}
			cases++
			if cases > maxSwitchCases {
				p.errorAtPrevious("too many cases in switch")
			}
			if prevSkip != -1 {
				p.patchJump(prevSkip)
				p.emitOp(value.OpPop)
				p.emitOp(value.OpPop)
			}
			p.expression()
			p.consume(token.COLON, "expect ':' after case value")
			p.emitOp(value.OpEqualNoPop)
			prevSkip = p.emitJump(value.OpJumpIfFalse)
			p.emitOp(value.OpPop) // result
			p.emitOp(value.OpPop) // case value
			for !atCaseBoundary() {
				p.statement()
			}
			endJumps = append(endJumps, p.emitJump(value.OpJump))

		case p.match(token.DEFAULT):
			if sawDefault {
				p.errorAtPrevious("duplicate 'default' in switch")
			}
			sawDefault = true
			if prevSkip != -1 {
				p.patchJump(prevSkip)
				p.emitOp(value.OpPop)
				p.emitOp(value.OpPop)
				prevSkip = -1
			}
			p.consume(token.COLON, "expect ':' after 'default'")
			for !atCaseBoundary() {
				p.statement()
			}

		default:
			p.errorAtCurrent("expect 'case' or 'default' in switch body")
			p.advance()
		}
	}
	if prevSkip != -1 {
		p.patchJump(prevSkip)
		p.emitOp(value.OpPop)
		p.emitOp(value.OpPop)
	}
	for _, j := range endJumps {
		p.patchJump(j)
	}
	p.consume(token.RIGHT_BRACE, "expect '}' after switch body")
	p.emitOp(value.OpPop) // the subject
}

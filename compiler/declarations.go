package compiler

import (
	"github.com/vela-lang/vela/token"
	"github.com/vela-lang/vela/value"
)

func (p *Parser) declaration() {
	switch {
	case p.match(token.CLASS):
		p.classDeclaration()
	case p.match(token.FUN):
		p.funDeclaration()
	case p.match(token.VAR):
		p.varDeclaration(true)
	case p.match(token.VAL):
		p.varDeclaration(false)
	default:
		p.statement()
	}
	if p.panicMode {
		p.synchronize()
	}
}

// varDeclaration parses `var name = expr;` / `val name = expr;`. An
// omitted initializer defaults to nil, but only `var` permits that —
// `val` without an initializer is a compile error since an immutable
// binding can never be given a value afterwards.
func (p *Parser) varDeclaration(mutable bool) {
	global := p.parseVariable("expect variable name", mutable)

	if p.match(token.EQUAL) {
		p.expression()
	} else if mutable {
		p.emitOp(value.OpNil)
	} else {
		p.errorAtPrevious("val declaration requires an initializer")
	}
	p.consume(token.SEMICOLON, "expect ';' after variable declaration")
	p.defineVariable(global, mutable)
}

// parseVariable consumes the identifier, declares it as a local if inside
// a scope, and otherwise returns the global name's constant-pool index (0
// when declaring a local, since defineVariable ignores it in that case).
func (p *Parser) parseVariable(errMsg string, mutable bool) int {
	p.consume(token.IDENT, errMsg)
	name := p.previous.Lexeme

	if p.fr.scopeDepth > 0 {
		if !p.fr.declareLocal(p, name, mutable) {
			p.errorAtPrevious("already a variable with this name in this scope")
		}
		return 0
	}
	return p.identifierConstant(name)
}

func (p *Parser) defineVariable(global int, mutable bool) {
	if p.fr.scopeDepth > 0 {
		p.fr.markInitialized()
		return
	}
	if mutable {
		p.emitConstantRef(value.OpDefineGlobal, global)
	} else {
		p.emitConstantRef(value.OpDefineIGlobal, global)
	}
}

func (p *Parser) funDeclaration() {
	global := p.parseVariable("expect function name", true)
	p.fr.markInitialized()
	p.function(FuncFunction)
	p.defineVariable(global, true)
}

// function compiles a `(params) { body }` function literal into a new
// nested frame, emitting OP_CLOSURE with its upvalue capture pairs back
// into the enclosing frame's chunk once the body is fully compiled.
func (p *Parser) function(ft FuncType) {
	name := p.previous.Lexeme
	fn := value.NewFunction(value.NewString(name))

	enclosing := p.fr
	enclosingCls := p.cls
	p.fr = newFrame(enclosing, fn, ft)
	p.beginScope()

	p.consume(token.LEFT_PAREN, "expect '(' after function name")
	if !p.check(token.RIGHT_PAREN) {
		for {
			fn.Arity++
			if fn.Arity > 255 {
				p.errorAtCurrent("can't have more than 255 parameters")
			}
			mutable := true
			if p.match(token.VAL) {
				mutable = false
			} else {
				p.match(token.VAR)
			}
			paramIdx := p.parseVariable("expect parameter name", mutable)
			p.defineVariable(paramIdx, mutable)
			if !p.match(token.COMMA) {
				break
			}
		}
	}
	p.consume(token.RIGHT_PAREN, "expect ')' after parameters")
	p.consume(token.LEFT_BRACE, "expect '{' before function body")
	p.block()

	p.emitReturn()
	compiled := p.fr
	p.fr = enclosing
	p.cls = enclosingCls

	idx := p.currentChunk().AddConstant(value.FromObject(compiled.fn))
	p.emitConstantRef(value.OpClosure, idx)
	for i := 0; i < compiled.fn.UpvalueCount; i++ {
		u := compiled.upvalues[i]
		if u.IsLocal {
			p.emitByte(1)
		} else {
			p.emitByte(0)
		}
		p.emitByte(u.Index)
	}
	compiled.fn.Upvalues = compiled.upvalues[:compiled.fn.UpvalueCount]
}

func (p *Parser) classDeclaration() {
	p.consume(token.IDENT, "expect class name")
	className := p.previous.Lexeme
	nameConstant := p.identifierConstant(className)
	p.declareClassName(className)

	p.emitConstantRef(value.OpClass, nameConstant)
	p.defineVariable(nameConstant, true)

	cls := &classCompiler{enclosing: p.cls}
	p.cls = cls

	if p.match(token.LESS) {
		p.consume(token.IDENT, "expect superclass name")
		p.variableNamed(p.previous.Lexeme, false)
		if p.previous.Lexeme == className {
			p.errorAtPrevious("a class can't inherit from itself")
		}

		p.beginScope()
		p.fr.declareLocal(p, "super", false)
		p.fr.markInitialized()

		p.variableNamed(className, false)
		p.emitOp(value.OpInherit)
		cls.hasSuperclass = true
	}

	p.variableNamed(className, false)
	p.consume(token.LEFT_BRACE, "expect '{' before class body")
	for !p.check(token.RIGHT_BRACE) && !p.check(token.EOF) {
		p.method()
	}
	p.consume(token.RIGHT_BRACE, "expect '}' after class body")
	p.emitOp(value.OpPop) // the class itself, pushed for method binding

	if cls.hasSuperclass {
		p.endScope()
	}
	p.cls = cls.enclosing
}

// declareClassName declares the class name as a local when inside a scope,
// mirroring a function declaration's self-reference rules.
func (p *Parser) declareClassName(name string) {
	if p.fr.scopeDepth == 0 {
		return
	}
	if !p.fr.declareLocal(p, name, true) {
		p.errorAtPrevious("already a variable with this name in this scope")
	}
	p.fr.markInitialized()
}

func (p *Parser) method() {
	p.consume(token.IDENT, "expect method name")
	name := p.previous.Lexeme
	nameConstant := p.identifierConstant(name)

	ft := FuncMethod
	if name == "init" {
		ft = FuncInitializer
	}
	p.function(ft)
	p.emitConstantRef(value.OpMethod, nameConstant)
}

func (p *Parser) block() {
	for !p.check(token.RIGHT_BRACE) && !p.check(token.EOF) {
		p.declaration()
	}
	p.consume(token.RIGHT_BRACE, "expect '}' after block")
}

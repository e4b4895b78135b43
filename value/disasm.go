package value

import (
	"fmt"
	"strings"
)

// Disassemble renders every instruction in chunk as human-readable text,
// one line per instruction, prefixed with name. There is no teacher
// antecedent for this — the teacher's lang/compiler/asm.go disassembles its
// own register-ish Funcode/Program representation, a different instruction
// set entirely — but the line-by-line "offset op operands" shape mirrors
// familiar bytecode disassembler output and reuses Chunk.GetLine/ReadConstant
// exactly as the VM's dispatch loop does.
func Disassemble(chunk *Chunk, name string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "== %s ==\n", name)
	offset := 0
	for offset < len(chunk.Code) {
		next := disassembleInstruction(&b, chunk, offset)
		offset = next
	}
	return b.String()
}

func disassembleInstruction(b *strings.Builder, chunk *Chunk, offset int) int {
	fmt.Fprintf(b, "%04d %4d ", offset, chunk.GetLine(offset))

	op := OpCode(chunk.Code[offset])
	switch op {
	case OpConstant:
		return constantInstruction(b, op, chunk, offset)
	case OpGetLocal, OpSetLocal, OpCall:
		return byteInstruction(b, op, chunk, offset)
	case OpGetGlobal, OpDefineGlobal, OpDefineIGlobal, OpSetGlobal,
		OpGetProperty, OpSetProperty, OpGetSuper, OpClass, OpMethod:
		return constantInstruction(b, op, chunk, offset)
	case OpGetUpvalue, OpSetUpvalue:
		return byteInstruction(b, op, chunk, offset)
	case OpJump, OpJumpIfFalse:
		return jumpInstruction(b, op, 1, chunk, offset)
	case OpLoop:
		return jumpInstruction(b, op, -1, chunk, offset)
	case OpInvoke, OpSuperInvoke:
		return invokeInstruction(b, op, chunk, offset)
	case OpClosure:
		return closureInstruction(b, chunk, offset)
	case OpBuildList:
		return constantInstruction(b, op, chunk, offset)
	default:
		return simpleInstruction(b, op, offset)
	}
}

func simpleInstruction(b *strings.Builder, op OpCode, offset int) int {
	fmt.Fprintf(b, "%s\n", op)
	return offset + 1
}

func byteInstruction(b *strings.Builder, op OpCode, chunk *Chunk, offset int) int {
	slot := chunk.Code[offset+1]
	fmt.Fprintf(b, "%-18s %4d\n", op, slot)
	return offset + 2
}

func jumpInstruction(b *strings.Builder, op OpCode, sign int, chunk *Chunk, offset int) int {
	jump := int(chunk.Code[offset+1])<<8 | int(chunk.Code[offset+2])
	fmt.Fprintf(b, "%-18s %4d -> %d\n", op, offset, offset+3+sign*jump)
	return offset + 3
}

func constantInstruction(b *strings.Builder, op OpCode, chunk *Chunk, offset int) int {
	idx, next, _ := ReadConstant(chunk.Code, offset+1)
	fmt.Fprintf(b, "%-18s %4d '%s'\n", op, idx, constantRepr(chunk, idx))
	return next
}

func invokeInstruction(b *strings.Builder, op OpCode, chunk *Chunk, offset int) int {
	idx, next, _ := ReadConstant(chunk.Code, offset+1)
	argCount := chunk.Code[next]
	fmt.Fprintf(b, "%-18s (%d args) %4d '%s'\n", op, argCount, idx, constantRepr(chunk, idx))
	return next + 1
}

func closureInstruction(b *strings.Builder, chunk *Chunk, offset int) int {
	idx, next, _ := ReadConstant(chunk.Code, offset+1)
	fmt.Fprintf(b, "%-18s %4d '%s'\n", OpClosure, idx, constantRepr(chunk, idx))
	fn, ok := chunk.Constants[idx].AsObject().(*Function)
	if !ok {
		return next
	}
	for i := 0; i < fn.UpvalueCount; i++ {
		isLocal := chunk.Code[next]
		index := chunk.Code[next+1]
		kind := "upvalue"
		if isLocal != 0 {
			kind = "local"
		}
		fmt.Fprintf(b, "%04d      |                     %s %d\n", next, kind, index)
		next += 2
	}
	return next
}

func constantRepr(chunk *Chunk, idx int) string {
	if idx < 0 || idx >= len(chunk.Constants) {
		return "?"
	}
	return chunk.Constants[idx].String()
}

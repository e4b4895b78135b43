package value

import "fmt"

// OpCode is a single bytecode instruction's operation.
//
// Chunk and OpCode live in the value package rather than a separate
// "bytecode" package: a Chunk's constant pool holds Value, and Value's
// Function kind owns a Chunk — splitting them across two packages would
// create an import cycle (bytecode needing value for its constant pool,
// value needing bytecode for Function.Chunk). The teacher has the same
// shape of problem and resolves it the same way, keeping its opcode table
// (lang/compiler/opcode.go) in the same package as the rest of its compiled
// program representation (lang/compiler/compiled.go's Funcode/Program).
type OpCode uint8

//nolint:revive
const (
	OpConstant OpCode = iota
	OpNil
	OpTrue
	OpFalse
	OpPop
	OpGetLocal
	OpSetLocal
	OpGetGlobal
	OpDefineGlobal
	OpDefineIGlobal
	OpSetGlobal
	OpGetUpvalue
	OpSetUpvalue
	OpGetProperty
	OpSetProperty
	OpGetSuper
	OpEqual
	OpEqualNoPop
	OpGreater
	OpLess
	OpAdd
	OpSubtract
	OpMultiply
	OpDivide
	OpNot
	OpNegate
	OpPrint
	OpJump
	OpJumpIfFalse
	OpLoop
	OpCall
	OpInvoke
	OpSuperInvoke
	OpClosure
	OpCloseUpvalue
	OpReturn
	OpClass
	OpInherit
	OpMethod
	OpBuildList
	OpIndexSubscr
	OpStoreSubscr
	OpAppendTo
	OpDeleteFrom
)

var opcodeNames = [...]string{
	OpConstant:      "OP_CONSTANT",
	OpNil:           "OP_NIL",
	OpTrue:          "OP_TRUE",
	OpFalse:         "OP_FALSE",
	OpPop:           "OP_POP",
	OpGetLocal:      "OP_GET_LOCAL",
	OpSetLocal:      "OP_SET_LOCAL",
	OpGetGlobal:     "OP_GET_GLOBAL",
	OpDefineGlobal:  "OP_DEFINE_GLOBAL",
	OpDefineIGlobal: "OP_DEFINE_IGLOBAL",
	OpSetGlobal:     "OP_SET_GLOBAL",
	OpGetUpvalue:    "OP_GET_UPVALUE",
	OpSetUpvalue:    "OP_SET_UPVALUE",
	OpGetProperty:   "OP_GET_PROPERTY",
	OpSetProperty:   "OP_SET_PROPERTY",
	OpGetSuper:      "OP_GET_SUPER",
	OpEqual:         "OP_EQUAL",
	OpEqualNoPop:    "OP_EQUAL_NO_POP",
	OpGreater:       "OP_GREATER",
	OpLess:          "OP_LESS",
	OpAdd:           "OP_ADD",
	OpSubtract:      "OP_SUBTRACT",
	OpMultiply:      "OP_MULTIPLY",
	OpDivide:        "OP_DIVIDE",
	OpNot:           "OP_NOT",
	OpNegate:        "OP_NEGATE",
	OpPrint:         "OP_PRINT",
	OpJump:          "OP_JUMP",
	OpJumpIfFalse:   "OP_JUMP_IF_FALSE",
	OpLoop:          "OP_LOOP",
	OpCall:          "OP_CALL",
	OpInvoke:        "OP_INVOKE",
	OpSuperInvoke:   "OP_SUPER_INVOKE",
	OpClosure:       "OP_CLOSURE",
	OpCloseUpvalue:  "OP_CLOSE_UPVALUE",
	OpReturn:        "OP_RETURN",
	OpClass:         "OP_CLASS",
	OpInherit:       "OP_INHERIT",
	OpMethod:        "OP_METHOD",
	OpBuildList:     "OP_BUILD_LIST",
	OpIndexSubscr:   "OP_INDEX_SUBSCR",
	OpStoreSubscr:   "OP_STORE_SUBSCR",
	OpAppendTo:      "OP_APPEND_TO",
	OpDeleteFrom:    "OP_DELETE_FROM",
}

func (op OpCode) String() string {
	if int(op) < len(opcodeNames) && opcodeNames[op] != "" {
		return opcodeNames[op]
	}
	return fmt.Sprintf("OP_UNKNOWN(%d)", byte(op))
}

// lineRun is one entry of a Chunk's run-length-encoded line table: opCount
// consecutive bytes of code map to lineNo.
type lineRun struct {
	opCount int
	lineNo  int
}

// Chunk is a function's compiled bytecode: a growable byte buffer, its
// constant pool, and a run-length-encoded table mapping byte offsets back to
// source lines.
type Chunk struct {
	Code      []byte
	Constants []Value
	lines     []lineRun
}

// WriteByte appends a single raw byte to the chunk, recording it as having
// been produced on the given source line.
func (c *Chunk) WriteByte(b byte, line int) {
	c.Code = append(c.Code, b)
	c.addLine(line)
}

// WriteOp appends an opcode byte.
func (c *Chunk) WriteOp(op OpCode, line int) {
	c.WriteByte(byte(op), line)
}

func (c *Chunk) addLine(line int) {
	if n := len(c.lines); n > 0 && c.lines[n-1].lineNo == line {
		c.lines[n-1].opCount++
		return
	}
	c.lines = append(c.lines, lineRun{opCount: 1, lineNo: line})
}

// GetLine returns the source line that produced the byte at the given code
// offset, by scanning the run-length-encoded line table.
func (c *Chunk) GetLine(offset int) int {
	remaining := offset
	for _, run := range c.lines {
		if remaining < run.opCount {
			return run.lineNo
		}
		remaining -= run.opCount
	}
	if len(c.lines) == 0 {
		return 0
	}
	return c.lines[len(c.lines)-1].lineNo
}

// AddConstant appends v to the constant pool and returns its index.
func (c *Chunk) AddConstant(v Value) int {
	c.Constants = append(c.Constants, v)
	return len(c.Constants) - 1
}

// Maximum index encodable by the long (3-byte) constant index form: 23 bits.
const MaxConstants = 1<<23 - 1

// WriteConstant emits the self-describing short/long constant index
// encoding described in §3: indices below 128 use a single byte with the
// high bit clear; larger indices use three bytes big-endian with the high
// bit of the first byte set and the remaining 23 bits holding the index.
func (c *Chunk) WriteConstant(index int, line int) error {
	if index < 0 || index > MaxConstants {
		return fmt.Errorf("constant index %d out of range", index)
	}
	if index < 0x80 {
		c.WriteByte(byte(index), line)
		return nil
	}
	c.WriteByte(byte(0x80|(index>>16)&0x7f), line)
	c.WriteByte(byte((index>>8)&0xff), line)
	c.WriteByte(byte(index&0xff), line)
	return nil
}

// ReadConstant decodes a constant index starting at offset, returning the
// index, the new offset past the encoding, and whether the long (3-byte)
// form was used.
func ReadConstant(code []byte, offset int) (index, next int, long bool) {
	b0 := code[offset]
	if b0&0x80 == 0 {
		return int(b0), offset + 1, false
	}
	idx := (int(b0&0x7f) << 16) | (int(code[offset+1]) << 8) | int(code[offset+2])
	return idx, offset + 3, true
}

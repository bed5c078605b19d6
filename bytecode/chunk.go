package bytecode

import (
	"fmt"

	"github.com/nessie-lang/nessie/token"
	"github.com/nessie-lang/nessie/value"
)

// MaxConstants is the size of the constant index space.
const MaxConstants = 1 << 16

// JumpPlaceholder is the operand EmitJump writes until PatchJump runs.
const JumpPlaceholder uint16 = 0xFFFF

// Chunk is a unit of compiled bytecode: instructions, one source line per
// instruction, a constant pool and an optional name. The zero Chunk is an
// empty anonymous chunk ready for use.
//
// A single producer builds a chunk with Write and WriteConstant. After that
// it is read-only; slices returned by the accessors must not be modified.
type Chunk struct {
	instructions     []Instruction
	instructionLines []token.Line
	constants        []value.Value
	name             string
	hasName          bool
}

// NewChunk creates an empty anonymous chunk.
func NewChunk() *Chunk {
	return &Chunk{
		instructions:     make([]Instruction, 0, 64),
		instructionLines: make([]token.Line, 0, 64),
		constants:        make([]value.Value, 0, 8),
	}
}

// NewNamedChunk creates an empty chunk identified by name.
func NewNamedChunk(name string) *Chunk {
	c := NewChunk()
	c.SetName(name)
	return c
}

// Name returns the chunk's name. ok is false for anonymous chunks.
func (c *Chunk) Name() (name string, ok bool) {
	return c.name, c.hasName
}

// SetName names the chunk.
func (c *Chunk) SetName(name string) {
	c.name = name
	c.hasName = true
}

// ClearName makes the chunk anonymous.
func (c *Chunk) ClearName() {
	c.name = ""
	c.hasName = false
}

// Write appends an instruction with its source line and returns its offset.
// Operands are not checked here; see Validate.
func (c *Chunk) Write(inst Instruction, line token.Line) int {
	offset := len(c.instructions)
	c.instructions = append(c.instructions, inst)
	c.instructionLines = append(c.instructionLines, line)
	return offset
}

// WriteConstant appends a value to the constant pool and returns its index.
// Indices start at 0 and increase by one per call; equal values are not
// deduplicated. Panics if the pool is already full.
func (c *Chunk) WriteConstant(v value.Value) uint16 {
	if len(c.constants) >= MaxConstants {
		panic(fmt.Sprintf("bytecode: %v: cannot add constant %s", ErrConstantPoolFull, v))
	}
	idx := uint16(len(c.constants))
	c.constants = append(c.constants, v)
	return idx
}

// Instructions returns the instruction sequence.
func (c *Chunk) Instructions() []Instruction {
	return c.instructions
}

// InstructionsMut returns the instruction sequence for backpatching jump
// operands. Writes through it are only allowed while the producer still owns
// the chunk, before any reader sees it.
func (c *Chunk) InstructionsMut() []Instruction {
	return c.instructions
}

// InstructionLines returns the source line of each instruction.
func (c *Chunk) InstructionLines() []token.Line {
	return c.instructionLines
}

// Constants returns the constant pool.
func (c *Chunk) Constants() []value.Value {
	return c.constants
}

// Len returns the number of instructions.
func (c *Chunk) Len() int {
	return len(c.instructions)
}

// LineAt returns the source line of the instruction at offset.
// Panics if offset is out of range.
func (c *Chunk) LineAt(offset int) token.Line {
	return c.instructionLines[offset]
}

// EmitJump writes a jump with a placeholder operand and returns its offset
// for a later PatchJump.
func (c *Chunk) EmitJump(op Opcode, line token.Line) int {
	if !op.IsJump() {
		panic(fmt.Sprintf("bytecode: EmitJump called with %s", op))
	}
	return c.Write(Instruction{Op: op, Arg: JumpPlaceholder}, line)
}

// PatchJump makes the jump at offset land on the next instruction to be
// written.
func (c *Chunk) PatchJump(offset int) {
	c.PatchJumpTo(offset, len(c.instructions))
}

// PatchJumpTo makes the jump at offset land on target. Only the operand
// changes. Panics if the instruction is not a jump or the displacement is
// not a forward 16-bit count.
func (c *Chunk) PatchJumpTo(offset int, target int) {
	code := c.InstructionsMut()
	inst := code[offset]
	if !inst.Op.IsJump() {
		panic(fmt.Sprintf("bytecode: cannot patch %s at %04d", inst, offset))
	}
	delta := target - (offset + 1)
	if delta < 0 || delta > 0xFFFF {
		panic(fmt.Sprintf("bytecode: %v: %04d -> %04d", ErrJumpTarget, offset, target))
	}
	code[offset] = inst.WithOperand(uint16(delta))
}

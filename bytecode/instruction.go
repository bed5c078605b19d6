package bytecode

import (
	"fmt"
	"sort"
)

// Opcode identifies a bytecode operation.
type Opcode byte

const (
	OpReturn   Opcode = iota // End of chunk execution
	OpConstant               // Push constant from pool: Constant(index)
	OpTrue                   // Push true
	OpFalse                  // Push false

	// Integer arithmetic
	OpNeg
	OpAdd
	OpSub
	OpMul
	OpDiv
	OpMod

	// Boolean arithmetic
	OpNot
	OpAnd
	OpOr
	OpXor

	// Strings
	OpConcat

	// Comparison
	OpLt
	OpGt
	OpLe
	OpGe
	OpIntEq
	OpIntNe
	OpBoolEq
	OpBoolNe
	OpStringEq
	OpStringNe
	OpPtrEq
	OpPtrNe

	// Stack slots
	OpPrimitiveDropAbove // Drop the primitive just below the top
	OpPtrDropAbove       // Release the pointer just below the top
	OpPrimitiveGetLocal  // Push local slot: PrimitiveGetLocal(slot)
	OpPtrGetLocal        // Push local slot: PtrGetLocal(slot)

	// Control flow
	OpJump        // Jump(n): continue at offset+1+n
	OpJumpIfFalse // JumpIfFalse(n): pop bool, jump if false
	OpCall        // Pop argument and callable, push result
)

// Shape describes what an instruction's operand means.
type Shape uint8

const (
	// ShapeNiladic instructions carry no operand.
	ShapeNiladic Shape = iota
	// ShapeIndexed operands index the constant pool or a local slot.
	ShapeIndexed
	// ShapeRelative operands are forward displacements in instructions.
	ShapeRelative
)

func (s Shape) String() string {
	switch s {
	case ShapeNiladic:
		return "niladic"
	case ShapeIndexed:
		return "indexed"
	case ShapeRelative:
		return "relative"
	default:
		return fmt.Sprintf("Shape(%d)", uint8(s))
	}
}

// OpcodeInfo provides metadata about each opcode for tooling and validation.
type OpcodeInfo struct {
	Name      string // Canonical text form
	Shape     Shape  // Operand interpretation
	StackPop  int    // Values popped from the stack
	StackPush int    // Values pushed to the stack
}

var opcodeInfoTable = map[Opcode]OpcodeInfo{
	OpReturn:   {"Return", ShapeNiladic, 0, 0},
	OpConstant: {"Constant", ShapeIndexed, 0, 1},
	OpTrue:     {"True", ShapeNiladic, 0, 1},
	OpFalse:    {"False", ShapeNiladic, 0, 1},

	OpNeg: {"Neg", ShapeNiladic, 1, 1},
	OpAdd: {"Add", ShapeNiladic, 2, 1},
	OpSub: {"Sub", ShapeNiladic, 2, 1},
	OpMul: {"Mul", ShapeNiladic, 2, 1},
	OpDiv: {"Div", ShapeNiladic, 2, 1},
	OpMod: {"Mod", ShapeNiladic, 2, 1},

	OpNot: {"Not", ShapeNiladic, 1, 1},
	OpAnd: {"And", ShapeNiladic, 2, 1},
	OpOr:  {"Or", ShapeNiladic, 2, 1},
	OpXor: {"Xor", ShapeNiladic, 2, 1},

	OpConcat: {"Concat", ShapeNiladic, 2, 1},

	OpLt:       {"Lt", ShapeNiladic, 2, 1},
	OpGt:       {"Gt", ShapeNiladic, 2, 1},
	OpLe:       {"Le", ShapeNiladic, 2, 1},
	OpGe:       {"Ge", ShapeNiladic, 2, 1},
	OpIntEq:    {"IntEq", ShapeNiladic, 2, 1},
	OpIntNe:    {"IntNe", ShapeNiladic, 2, 1},
	OpBoolEq:   {"BoolEq", ShapeNiladic, 2, 1},
	OpBoolNe:   {"BoolNe", ShapeNiladic, 2, 1},
	OpStringEq: {"StringEq", ShapeNiladic, 2, 1},
	OpStringNe: {"StringNe", ShapeNiladic, 2, 1},
	OpPtrEq:    {"PtrEq", ShapeNiladic, 2, 1},
	OpPtrNe:    {"PtrNe", ShapeNiladic, 2, 1},

	// Drops pop the top and the slot below it, then push the top back.
	OpPrimitiveDropAbove: {"PrimitiveDropAbove", ShapeNiladic, 2, 1},
	OpPtrDropAbove:       {"PtrDropAbove", ShapeNiladic, 2, 1},
	OpPrimitiveGetLocal:  {"PrimitiveGetLocal", ShapeIndexed, 0, 1},
	OpPtrGetLocal:        {"PtrGetLocal", ShapeIndexed, 0, 1},

	OpJump:        {"Jump", ShapeRelative, 0, 0},
	OpJumpIfFalse: {"JumpIfFalse", ShapeRelative, 1, 0},
	OpCall:        {"Call", ShapeNiladic, 2, 1},
}

// GetOpcodeInfo returns metadata for an opcode.
// The second result is false if the opcode is not defined.
func GetOpcodeInfo(op Opcode) (OpcodeInfo, bool) {
	info, ok := opcodeInfoTable[op]
	return info, ok
}

// String returns the canonical name of an opcode.
func (op Opcode) String() string {
	if info, ok := opcodeInfoTable[op]; ok {
		return info.Name
	}
	return fmt.Sprintf("Unknown(0x%02X)", byte(op))
}

// Valid reports whether op is a defined opcode.
func (op Opcode) Valid() bool {
	_, ok := opcodeInfoTable[op]
	return ok
}

// Shape returns the operand shape of the opcode.
func (op Opcode) Shape() Shape {
	return opcodeInfoTable[op].Shape
}

// HasOperand reports whether instructions with this opcode carry an operand.
func (op Opcode) HasOperand() bool {
	return op.Shape() != ShapeNiladic
}

// IsJump returns true if this opcode is a jump instruction.
func (op Opcode) IsJump() bool {
	return op == OpJump || op == OpJumpIfFalse
}

// StackEffect returns the net change in stack depth.
func (op Opcode) StackEffect() int {
	info := opcodeInfoTable[op]
	return info.StackPush - info.StackPop
}

// AllOpcodes returns every defined opcode in ascending order.
func AllOpcodes() []Opcode {
	opcodes := make([]Opcode, 0, len(opcodeInfoTable))
	for op := range opcodeInfoTable {
		opcodes = append(opcodes, op)
	}
	sort.Slice(opcodes, func(i, j int) bool { return opcodes[i] < opcodes[j] })
	return opcodes
}

// OpcodeCount returns the number of defined opcodes.
func OpcodeCount() int {
	return len(opcodeInfoTable)
}

// ---------------------------------------------------------------------------
// Instruction
// ---------------------------------------------------------------------------

// InstructionSize is the in-memory and encoded size of every instruction.
const InstructionSize = 4

// Instruction is one bytecode operation. Op occupies the first byte and Arg
// the last two; alignment pads the struct to InstructionSize whatever the
// variant. Arg is zero for niladic opcodes.
type Instruction struct {
	Op  Opcode
	Arg uint16
}

// Niladic instructions.
var (
	Return             = Instruction{Op: OpReturn}
	True               = Instruction{Op: OpTrue}
	False              = Instruction{Op: OpFalse}
	Neg                = Instruction{Op: OpNeg}
	Add                = Instruction{Op: OpAdd}
	Sub                = Instruction{Op: OpSub}
	Mul                = Instruction{Op: OpMul}
	Div                = Instruction{Op: OpDiv}
	Mod                = Instruction{Op: OpMod}
	Not                = Instruction{Op: OpNot}
	And                = Instruction{Op: OpAnd}
	Or                 = Instruction{Op: OpOr}
	Xor                = Instruction{Op: OpXor}
	Concat             = Instruction{Op: OpConcat}
	Lt                 = Instruction{Op: OpLt}
	Gt                 = Instruction{Op: OpGt}
	Le                 = Instruction{Op: OpLe}
	Ge                 = Instruction{Op: OpGe}
	IntEq              = Instruction{Op: OpIntEq}
	IntNe              = Instruction{Op: OpIntNe}
	BoolEq             = Instruction{Op: OpBoolEq}
	BoolNe             = Instruction{Op: OpBoolNe}
	StringEq           = Instruction{Op: OpStringEq}
	StringNe           = Instruction{Op: OpStringNe}
	PtrEq              = Instruction{Op: OpPtrEq}
	PtrNe              = Instruction{Op: OpPtrNe}
	PrimitiveDropAbove = Instruction{Op: OpPrimitiveDropAbove}
	PtrDropAbove       = Instruction{Op: OpPtrDropAbove}
	Call               = Instruction{Op: OpCall}
)

// Constant pushes the constant at index.
func Constant(index uint16) Instruction {
	return Instruction{Op: OpConstant, Arg: index}
}

// PrimitiveGetLocal pushes a copy of a primitive local slot.
func PrimitiveGetLocal(slot uint16) Instruction {
	return Instruction{Op: OpPrimitiveGetLocal, Arg: slot}
}

// PtrGetLocal pushes a reference to a pointer local slot.
func PtrGetLocal(slot uint16) Instruction {
	return Instruction{Op: OpPtrGetLocal, Arg: slot}
}

// Jump continues execution n instructions past the next one.
func Jump(n uint16) Instruction {
	return Instruction{Op: OpJump, Arg: n}
}

// JumpIfFalse pops a boolean and behaves like Jump(n) when it is false.
func JumpIfFalse(n uint16) Instruction {
	return Instruction{Op: OpJumpIfFalse, Arg: n}
}

// Valid reports whether the instruction has a defined opcode and, for
// niladic opcodes, a zero operand.
func (i Instruction) Valid() bool {
	info, ok := opcodeInfoTable[i.Op]
	if !ok {
		return false
	}
	return info.Shape != ShapeNiladic || i.Arg == 0
}

// WithOperand returns the same instruction with its operand replaced.
// Panics on niladic instructions.
func (i Instruction) WithOperand(arg uint16) Instruction {
	if !i.Op.HasOperand() {
		panic(fmt.Sprintf("bytecode: %s has no operand", i.Op))
	}
	i.Arg = arg
	return i
}

// JumpTarget returns the offset a jump at offset transfers control to.
// Panics if i is not a jump.
func (i Instruction) JumpTarget(offset int) int {
	if !i.Op.IsJump() {
		panic(fmt.Sprintf("bytecode: %s is not a jump", i.Op))
	}
	return offset + 1 + int(i.Arg)
}

// String returns the canonical text form: "Add" or "Constant(3)".
func (i Instruction) String() string {
	if i.Op.HasOperand() {
		return fmt.Sprintf("%s(%d)", i.Op, i.Arg)
	}
	return i.Op.String()
}

// Encode returns the 4-byte wire form: opcode, a zero pad byte, and the
// operand in big-endian order.
func (i Instruction) Encode() [InstructionSize]byte {
	return [InstructionSize]byte{byte(i.Op), 0, byte(i.Arg >> 8), byte(i.Arg)}
}

// DecodeInstruction parses the 4-byte wire form produced by Encode.
func DecodeInstruction(b [InstructionSize]byte) (Instruction, error) {
	inst := Instruction{Op: Opcode(b[0]), Arg: uint16(b[2])<<8 | uint16(b[3])}
	if !inst.Op.Valid() {
		return Instruction{}, fmt.Errorf("%w: 0x%02X", ErrUnknownOpcode, b[0])
	}
	if b[1] != 0 || !inst.Valid() {
		return Instruction{}, fmt.Errorf("%w: % X", ErrMalformedInstruction, b[:])
	}
	return inst, nil
}

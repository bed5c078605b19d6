// Package bytecode defines the Nessie stack-machine bytecode: the instruction
// set, the Chunk container that holds compiled code, and a disassembler that
// renders chunks as text.
//
// The format is designed for:
//   - Fixed-width instructions (4 bytes each, O(1) access by offset)
//   - A single monomorphic dispatch switch in the executor
//   - Deterministic, diffable disassembly for tests and tooling
//
// # Architecture Overview
//
//   - Instruction: a one-byte Opcode plus an optional 16-bit operand. The
//     operand is a constant pool index (Constant), a local slot
//     (PrimitiveGetLocal, PtrGetLocal) or a forward displacement counted in
//     instructions (Jump, JumpIfFalse).
//
//   - Chunk: instructions, a parallel table of source lines, the constant
//     pool and an optional name. Chunks are append-only while a compiler
//     builds them; the only permitted in-place edit is backpatching jump
//     operands through InstructionsMut, EmitJump and PatchJump, and it must
//     finish before the chunk is handed to any reader.
//
//   - Disassembler: a read-only renderer that walks offsets in storage order
//     (never control-flow order) and prints one line per instruction.
//
//   - Wire format: chunks serialize to canonical CBOR for storage and
//     transport between tools.
//
// # Stack Effects
//
// Binary operators pop the right operand first (it was pushed last), then
// the left, and push one result. Unary operators pop one and push one.
// Div and Mod by zero are runtime errors for the executor, not encoding
// errors.
//
// PrimitiveDropAbove and PtrDropAbove remove the slot immediately below the
// top of the stack and leave the top in place. They differ only in the
// release path: primitives are discarded, pointers are released.
//
// Jump(n) continues at offset+1+n. JumpIfFalse(n) always consumes its
// boolean and jumps the same way when it is false.
//
// Call expects the callable to be pushed before its argument. It pops both
// and pushes the result.
//
// # Fatal Conditions
//
// Overflowing the 16-bit constant index space, patching a non-jump, or
// publishing a chunk whose jumps or constant references are out of range are
// compiler bugs. These panic instead of returning errors. Validate reports
// the same conditions as errors for tools that load untrusted chunks.
package bytecode

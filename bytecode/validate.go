package bytecode

import "fmt"

// Validate checks the post-conditions a finished chunk must satisfy:
// one line per instruction, a constant pool within the 16-bit index space,
// every Constant operand inside the pool and every jump landing on an
// instruction of this chunk. It reports the first violation found.
func (c *Chunk) Validate() error {
	if len(c.instructions) != len(c.instructionLines) {
		return fmt.Errorf("%w: %d instructions, %d lines",
			ErrLineCountMismatch, len(c.instructions), len(c.instructionLines))
	}
	if len(c.constants) > MaxConstants {
		return fmt.Errorf("%w: %d constants", ErrConstantPoolFull, len(c.constants))
	}

	for offset, inst := range c.instructions {
		if !inst.Op.Valid() {
			return fmt.Errorf("offset %04d: %w: 0x%02X", offset, ErrUnknownOpcode, byte(inst.Op))
		}
		if !inst.Valid() {
			return fmt.Errorf("offset %04d: %w: %s with operand %d",
				offset, ErrMalformedInstruction, inst.Op, inst.Arg)
		}

		switch {
		case inst.Op == OpConstant:
			if int(inst.Arg) >= len(c.constants) {
				return fmt.Errorf("offset %04d: %w: %s with %d constants",
					offset, ErrConstantIndex, inst, len(c.constants))
			}
		case inst.Op.IsJump():
			if target := inst.JumpTarget(offset); target >= len(c.instructions) {
				return fmt.Errorf("offset %04d: %w: %s -> %04d with %d instructions",
					offset, ErrJumpTarget, inst, target, len(c.instructions))
			}
		}
	}
	return nil
}

// MustValidate panics if the chunk fails Validate. Compilers call it before
// publishing a chunk, since an invalid chunk at that point is a compiler bug.
func (c *Chunk) MustValidate() {
	if err := c.Validate(); err != nil {
		name, _ := c.Name()
		panic(fmt.Sprintf("bytecode: invalid chunk %q: %v", name, err))
	}
}

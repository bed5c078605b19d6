package bytecode

import (
	"testing"

	"github.com/nessie-lang/nessie/token"
	"github.com/nessie-lang/nessie/value"
)

func TestNewChunk(t *testing.T) {
	c := NewChunk()

	if c.Len() != 0 {
		t.Errorf("Len() = %d, want 0", c.Len())
	}
	if _, ok := c.Name(); ok {
		t.Error("new chunk should be anonymous")
	}
	if len(c.Constants()) != 0 {
		t.Errorf("Constants() has %d entries, want 0", len(c.Constants()))
	}
}

func TestChunkName(t *testing.T) {
	c := NewNamedChunk("main")
	if name, ok := c.Name(); !ok || name != "main" {
		t.Errorf("Name() = %q, %v; want %q, true", name, ok, "main")
	}

	c.SetName("renamed")
	if name, _ := c.Name(); name != "renamed" {
		t.Errorf("Name() = %q, want %q", name, "renamed")
	}

	c.ClearName()
	if _, ok := c.Name(); ok {
		t.Error("ClearName should make the chunk anonymous")
	}

	// An empty name is still a name.
	c.SetName("")
	if _, ok := c.Name(); !ok {
		t.Error("SetName(\"\") should mark the chunk as named")
	}
}

func TestChunkWriteKeepsLinesParallel(t *testing.T) {
	var c Chunk
	insts := []Instruction{True, False, And, Constant(3), Jump(0), Return}

	for i, inst := range insts {
		off := c.Write(inst, token.Line(i+1))
		if off != i {
			t.Errorf("Write #%d returned offset %d", i, off)
		}
		if len(c.Instructions()) != len(c.InstructionLines()) {
			t.Fatalf("after %d writes: %d instructions, %d lines",
				i+1, len(c.Instructions()), len(c.InstructionLines()))
		}
	}

	for i, inst := range insts {
		if c.Instructions()[i] != inst {
			t.Errorf("Instructions()[%d] = %s, want %s", i, c.Instructions()[i], inst)
		}
		if c.LineAt(i) != token.Line(i+1) {
			t.Errorf("LineAt(%d) = %d, want %d", i, c.LineAt(i), i+1)
		}
	}
}

func TestWriteConstantIndices(t *testing.T) {
	c := NewChunk()
	values := []value.Value{
		value.FromInt(1),
		value.FromBool(true),
		value.FromString("s"),
		value.FromInt(1), // duplicates get their own slot
	}

	for i, v := range values {
		if idx := c.WriteConstant(v); int(idx) != i {
			t.Errorf("WriteConstant #%d returned %d", i, idx)
		}
	}
	if len(c.Constants()) != len(values) {
		t.Fatalf("Constants() has %d entries, want %d", len(c.Constants()), len(values))
	}
	for i, v := range values {
		if !c.Constants()[i].Equal(v) {
			t.Errorf("Constants()[%d] = %s, want %s", i, c.Constants()[i], v)
		}
	}
}

func TestWriteConstantOverflowPanics(t *testing.T) {
	c := NewChunk()
	for i := 0; i < MaxConstants; i++ {
		c.WriteConstant(value.FromInt(int32(i)))
	}
	if idx := len(c.Constants()) - 1; idx != 0xFFFF {
		t.Fatalf("last index = %d, want 65535", idx)
	}

	defer func() {
		if recover() == nil {
			t.Error("WriteConstant past 65536 entries should panic")
		}
	}()
	c.WriteConstant(value.FromInt(-1))
}

func TestPatchJump(t *testing.T) {
	c := NewChunk()
	c.Write(True, 1)
	jumpOff := c.EmitJump(OpJumpIfFalse, 1)
	c.Write(Constant(0), 2)
	c.Write(PrimitiveDropAbove, 2)

	if got := c.Instructions()[jumpOff]; got.Arg != JumpPlaceholder {
		t.Fatalf("placeholder = %s, want operand %d", got, JumpPlaceholder)
	}

	before := c.Instructions()[jumpOff]
	c.PatchJump(jumpOff)
	after := c.Instructions()[jumpOff]

	if after.Op != before.Op {
		t.Errorf("PatchJump changed opcode from %s to %s", before.Op, after.Op)
	}
	if after.Arg != 2 {
		t.Errorf("patched operand = %d, want 2", after.Arg)
	}
	if c.LineAt(jumpOff) != 1 {
		t.Errorf("PatchJump changed the line to %d", c.LineAt(jumpOff))
	}
	if c.Len() != 4 {
		t.Errorf("PatchJump changed Len() to %d", c.Len())
	}

	c.Write(Return, 3)
	if target := after.JumpTarget(jumpOff); c.Instructions()[target] != Return {
		t.Errorf("jump lands on %s, want Return", c.Instructions()[target])
	}
}

func TestPatchJumpTo(t *testing.T) {
	c := NewChunk()
	j := c.EmitJump(OpJump, 1)
	for i := 0; i < 5; i++ {
		c.Write(Return, 1)
	}
	c.PatchJumpTo(j, 3)
	if got := c.Instructions()[j]; got != Jump(2) {
		t.Errorf("patched = %s, want Jump(2)", got)
	}
}

func TestInstructionsMutBackpatch(t *testing.T) {
	c := NewChunk()
	c.Write(Jump(0), 1)
	c.Write(Return, 1)
	c.Write(Return, 2)

	c.InstructionsMut()[0] = c.InstructionsMut()[0].WithOperand(1)

	if got := c.Instructions()[0]; got != Jump(1) {
		t.Errorf("Instructions()[0] = %s, want Jump(1)", got)
	}
	if c.Instructions()[1] != Return || c.Instructions()[2] != Return {
		t.Error("backpatch touched other instructions")
	}
}

func TestPatchJumpPanics(t *testing.T) {
	tests := []struct {
		name  string
		build func(c *Chunk) func()
	}{
		{"not a jump", func(c *Chunk) func() {
			c.Write(Add, 1)
			return func() { c.PatchJump(0) }
		}},
		{"backward target", func(c *Chunk) func() {
			c.Write(Return, 1)
			j := c.EmitJump(OpJump, 1)
			return func() { c.PatchJumpTo(j, 0) }
		}},
		{"emit non-jump", func(c *Chunk) func() {
			return func() { c.EmitJump(OpAdd, 1) }
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fn := tt.build(NewChunk())
			defer func() {
				if recover() == nil {
					t.Error("expected panic")
				}
			}()
			fn()
		})
	}
}

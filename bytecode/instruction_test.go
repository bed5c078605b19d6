package bytecode

import (
	"errors"
	"testing"
	"unsafe"
)

func TestInstructionSize(t *testing.T) {
	// Every variant must share one width.
	samples := []Instruction{Return, Constant(0xFFFF), PtrGetLocal(7), Jump(3), Call}
	for _, inst := range samples {
		if got := unsafe.Sizeof(inst); got != InstructionSize {
			t.Errorf("unsafe.Sizeof(%s) = %d, want %d", inst, got, InstructionSize)
		}
	}
	if got := unsafe.Sizeof([2]Instruction{}); got != 2*InstructionSize {
		t.Errorf("unsafe.Sizeof([2]Instruction) = %d, want %d", got, 2*InstructionSize)
	}
}

func TestAllOpcodesHaveMetadata(t *testing.T) {
	for _, op := range AllOpcodes() {
		info, ok := GetOpcodeInfo(op)
		if !ok || info.Name == "" {
			t.Errorf("Opcode 0x%02X has no metadata", byte(op))
		}
	}
	if OpcodeCount() != int(OpCall)+1 {
		t.Errorf("OpcodeCount() = %d, want %d", OpcodeCount(), int(OpCall)+1)
	}
}

func TestAllOpcodesSorted(t *testing.T) {
	ops := AllOpcodes()
	for i, op := range ops {
		if op != Opcode(i) {
			t.Fatalf("AllOpcodes()[%d] = %s, want contiguous ascending opcodes", i, op)
		}
	}
}

func TestOpcodeShape(t *testing.T) {
	tests := []struct {
		op   Opcode
		want Shape
	}{
		{OpReturn, ShapeNiladic},
		{OpAdd, ShapeNiladic},
		{OpPtrDropAbove, ShapeNiladic},
		{OpCall, ShapeNiladic},
		{OpConstant, ShapeIndexed},
		{OpPrimitiveGetLocal, ShapeIndexed},
		{OpPtrGetLocal, ShapeIndexed},
		{OpJump, ShapeRelative},
		{OpJumpIfFalse, ShapeRelative},
	}
	for _, tt := range tests {
		if got := tt.op.Shape(); got != tt.want {
			t.Errorf("%s.Shape() = %s, want %s", tt.op, got, tt.want)
		}
	}
}

func TestOpcodeStackEffect(t *testing.T) {
	tests := []struct {
		op   Opcode
		want int
	}{
		{OpConstant, 1},
		{OpTrue, 1},
		{OpAdd, -1},
		{OpIntEq, -1},
		{OpNot, 0},
		{OpNeg, 0},
		{OpPrimitiveDropAbove, -1},
		{OpPtrGetLocal, 1},
		{OpJump, 0},
		{OpJumpIfFalse, -1},
		{OpCall, -1},
		{OpReturn, 0},
	}
	for _, tt := range tests {
		if got := tt.op.StackEffect(); got != tt.want {
			t.Errorf("%s.StackEffect() = %d, want %d", tt.op, got, tt.want)
		}
	}
}

func TestInstructionString(t *testing.T) {
	tests := []struct {
		inst Instruction
		want string
	}{
		{Return, "Return"},
		{Constant(0), "Constant(0)"},
		{Constant(65535), "Constant(65535)"},
		{PrimitiveGetLocal(2), "PrimitiveGetLocal(2)"},
		{PtrGetLocal(1), "PtrGetLocal(1)"},
		{Jump(4), "Jump(4)"},
		{JumpIfFalse(0), "JumpIfFalse(0)"},
		{PrimitiveDropAbove, "PrimitiveDropAbove"},
		{StringNe, "StringNe"},
		{Instruction{Op: 0xEE}, "Unknown(0xEE)"},
	}
	for _, tt := range tests {
		if got := tt.inst.String(); got != tt.want {
			t.Errorf("String() = %q, want %q", got, tt.want)
		}
	}
}

func TestWithOperand(t *testing.T) {
	inst := JumpIfFalse(JumpPlaceholder)
	patched := inst.WithOperand(9)
	if patched.Op != OpJumpIfFalse || patched.Arg != 9 {
		t.Errorf("WithOperand(9) = %s, want JumpIfFalse(9)", patched)
	}
	if inst.Arg != JumpPlaceholder {
		t.Error("WithOperand must not modify the receiver")
	}
}

func TestWithOperandPanicsOnNiladic(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("WithOperand on Add should panic")
		}
	}()
	Add.WithOperand(1)
}

func TestJumpTarget(t *testing.T) {
	if got := Jump(0).JumpTarget(3); got != 4 {
		t.Errorf("Jump(0) at 3 targets %d, want 4", got)
	}
	if got := JumpIfFalse(5).JumpTarget(10); got != 16 {
		t.Errorf("JumpIfFalse(5) at 10 targets %d, want 16", got)
	}
}

func TestEncodeDecodeInstruction(t *testing.T) {
	inst := Constant(0x1234)
	enc := inst.Encode()
	want := [4]byte{byte(OpConstant), 0, 0x12, 0x34}
	if enc != want {
		t.Errorf("Encode() = % X, want % X", enc, want)
	}

	for _, op := range AllOpcodes() {
		inst := Instruction{Op: op}
		if op.HasOperand() {
			inst.Arg = 513
		}
		got, err := DecodeInstruction(inst.Encode())
		if err != nil {
			t.Errorf("DecodeInstruction(%s): %v", inst, err)
			continue
		}
		if got != inst {
			t.Errorf("DecodeInstruction(%s) = %s", inst, got)
		}
	}
}

func TestDecodeInstructionErrors(t *testing.T) {
	tests := []struct {
		name string
		in   [4]byte
		want error
	}{
		{"unknown opcode", [4]byte{0xEE, 0, 0, 0}, ErrUnknownOpcode},
		{"nonzero pad", [4]byte{byte(OpConstant), 1, 0, 0}, ErrMalformedInstruction},
		{"niladic with operand", [4]byte{byte(OpAdd), 0, 0, 1}, ErrMalformedInstruction},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeInstruction(tt.in)
			if !errors.Is(err, tt.want) {
				t.Errorf("err = %v, want %v", err, tt.want)
			}
		})
	}
}

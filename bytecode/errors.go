package bytecode

import "errors"

var (
	ErrUnknownOpcode        = errors.New("unknown opcode")
	ErrMalformedInstruction = errors.New("malformed instruction")
	ErrLineCountMismatch    = errors.New("instruction and line counts differ")
	ErrConstantIndex        = errors.New("constant index out of range")
	ErrConstantPoolFull     = errors.New("constant pool exceeds 16-bit index space")
	ErrJumpTarget           = errors.New("jump target out of range")
	ErrBadMagic             = errors.New("invalid bytecode magic")
	ErrVersion              = errors.New("unsupported bytecode version")
)

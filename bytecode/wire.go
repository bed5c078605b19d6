package bytecode

import (
	"fmt"
	"math"

	"github.com/fxamacker/cbor/v2"

	"github.com/nessie-lang/nessie/token"
	"github.com/nessie-lang/nessie/value"
)

// WireVersion is the current wire format version.
// Increment when making incompatible changes to the format.
const WireVersion uint16 = 1

// WireMagic tags encoded chunks: "NSBC" (NeSsie ByteCode).
const WireMagic = "NSBC"

// wireChunk is the CBOR envelope for a Chunk. Code holds the 4-byte
// encoding of each instruction back to back.
type wireChunk struct {
	Magic     string        `cbor:"1,keyasint"`
	Version   uint16        `cbor:"2,keyasint"`
	Name      *string       `cbor:"3,keyasint,omitempty"`
	Code      []byte        `cbor:"4,keyasint"`
	Lines     []token.Line  `cbor:"5,keyasint"`
	Constants []value.Value `cbor:"6,keyasint"`
}

var (
	cborEncMode cbor.EncMode
	cborDecMode cbor.DecMode
)

func init() {
	em, err := cbor.CanonicalEncOptions().EncMode()
	if err != nil {
		panic(fmt.Sprintf("bytecode: failed to create CBOR enc mode: %v", err))
	}
	cborEncMode = em

	// The line table has one entry per instruction, so the library's
	// default array limit would cap chunk length.
	dm, err := cbor.DecOptions{MaxArrayElements: math.MaxInt32}.DecMode()
	if err != nil {
		panic(fmt.Sprintf("bytecode: failed to create CBOR dec mode: %v", err))
	}
	cborDecMode = dm
}

// MarshalChunk serializes a chunk to canonical CBOR. Equal chunks encode to
// identical bytes.
func MarshalChunk(c *Chunk) ([]byte, error) {
	w := wireChunk{
		Magic:     WireMagic,
		Version:   WireVersion,
		Code:      make([]byte, 0, len(c.instructions)*InstructionSize),
		Lines:     c.instructionLines,
		Constants: c.constants,
	}
	if name, ok := c.Name(); ok {
		w.Name = &name
	}
	for _, inst := range c.instructions {
		enc := inst.Encode()
		w.Code = append(w.Code, enc[:]...)
	}
	data, err := cborEncMode.Marshal(&w)
	if err != nil {
		return nil, fmt.Errorf("bytecode: marshal chunk: %w", err)
	}
	return data, nil
}

// UnmarshalChunk deserializes a chunk produced by MarshalChunk. It checks
// the envelope and every instruction encoding but not the whole-chunk
// invariants; call Validate for those.
func UnmarshalChunk(data []byte) (*Chunk, error) {
	var w wireChunk
	if err := cborDecMode.Unmarshal(data, &w); err != nil {
		return nil, fmt.Errorf("bytecode: unmarshal chunk: %w", err)
	}
	if w.Magic != WireMagic {
		return nil, fmt.Errorf("%w: expected %q, got %q", ErrBadMagic, WireMagic, w.Magic)
	}
	if w.Version > WireVersion {
		return nil, fmt.Errorf("%w: %d is newer than supported version %d", ErrVersion, w.Version, WireVersion)
	}
	if len(w.Code)%InstructionSize != 0 {
		return nil, fmt.Errorf("%w: code section of %d bytes is not a multiple of %d",
			ErrMalformedInstruction, len(w.Code), InstructionSize)
	}

	count := len(w.Code) / InstructionSize
	if count != len(w.Lines) {
		return nil, fmt.Errorf("%w: %d instructions, %d lines", ErrLineCountMismatch, count, len(w.Lines))
	}
	if len(w.Constants) > MaxConstants {
		return nil, fmt.Errorf("%w: %d constants", ErrConstantPoolFull, len(w.Constants))
	}

	c := NewChunk()
	for i := 0; i < count; i++ {
		var enc [InstructionSize]byte
		copy(enc[:], w.Code[i*InstructionSize:])
		inst, err := DecodeInstruction(enc)
		if err != nil {
			return nil, fmt.Errorf("bytecode: instruction %04d: %w", i, err)
		}
		c.Write(inst, w.Lines[i])
	}
	for i, v := range w.Constants {
		if !v.IsValid() {
			return nil, fmt.Errorf("bytecode: constant %d is not a well-formed %s value", i, v.Kind())
		}
		c.WriteConstant(v)
	}
	if w.Name != nil {
		c.SetName(*w.Name)
	}
	return c, nil
}

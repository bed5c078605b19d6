// Package value defines the runtime values stored in a chunk's constant pool.
//
// The bytecode layer only needs equality and a printable form, so Value is a
// small tagged struct rather than a boxed word. It round-trips through CBOR
// unchanged.
package value

import (
	"fmt"
	"strconv"

	"github.com/nessie-lang/nessie/types"
)

// Kind identifies the active variant of a Value.
type Kind uint8

const (
	KindInt Kind = iota + 1
	KindBool
	KindString
)

func (k Kind) String() string {
	switch k {
	case KindInt:
		return "int"
	case KindBool:
		return "bool"
	case KindString:
		return "string"
	default:
		return fmt.Sprintf("Kind(%d)", uint8(k))
	}
}

// Value is a Nessie runtime value. The zero Value is invalid.
type Value struct {
	K Kind   `cbor:"1,keyasint"`
	I int32  `cbor:"2,keyasint,omitempty"`
	B bool   `cbor:"3,keyasint,omitempty"`
	S string `cbor:"4,keyasint,omitempty"`
}

// FromInt returns an integer value.
func FromInt(i int32) Value { return Value{K: KindInt, I: i} }

// FromBool returns a boolean value.
func FromBool(b bool) Value { return Value{K: KindBool, B: b} }

// FromString returns a string value.
func FromString(s string) Value { return Value{K: KindString, S: s} }

// Kind returns the variant tag.
func (v Value) Kind() Kind { return v.K }

// IsValid reports whether v carries one of the known variants and no
// payload belonging to another variant.
func (v Value) IsValid() bool {
	switch v.K {
	case KindInt:
		return !v.B && v.S == ""
	case KindBool:
		return v.I == 0 && v.S == ""
	case KindString:
		return v.I == 0 && !v.B
	}
	return false
}

func (v Value) IsInt() bool    { return v.K == KindInt }
func (v Value) IsBool() bool   { return v.K == KindBool }
func (v Value) IsString() bool { return v.K == KindString }

// Int returns the integer payload. Panics if v is not an integer.
func (v Value) Int() int32 {
	if v.K != KindInt {
		panic(fmt.Sprintf("value: Int called on %s", v.K))
	}
	return v.I
}

// Bool returns the boolean payload. Panics if v is not a boolean.
func (v Value) Bool() bool {
	if v.K != KindBool {
		panic(fmt.Sprintf("value: Bool called on %s", v.K))
	}
	return v.B
}

// Str returns the string payload. Panics if v is not a string.
func (v Value) Str() string {
	if v.K != KindString {
		panic(fmt.Sprintf("value: Str called on %s", v.K))
	}
	return v.S
}

// Type returns the static type corresponding to the variant.
func (v Value) Type() types.Type {
	switch v.K {
	case KindInt:
		return types.Int
	case KindBool:
		return types.Bool
	case KindString:
		return types.String
	}
	return 0
}

// Equal reports whether two values have the same variant and payload.
// Values of different kinds are never equal.
func (v Value) Equal(other Value) bool {
	if v.K != other.K {
		return false
	}
	switch v.K {
	case KindInt:
		return v.I == other.I
	case KindBool:
		return v.B == other.B
	case KindString:
		return v.S == other.S
	}
	return true
}

// String renders the value the way it appears in disassembly listings.
func (v Value) String() string {
	switch v.K {
	case KindInt:
		return strconv.FormatInt(int64(v.I), 10)
	case KindBool:
		return strconv.FormatBool(v.B)
	case KindString:
		return strconv.Quote(v.S)
	default:
		return "<invalid>"
	}
}

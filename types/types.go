// Package types defines the resolved types the checker attaches to AST nodes.
package types

import "fmt"

// Type is a resolved Nessie type.
type Type uint8

const (
	Int Type = iota + 1
	Bool
	String
)

var typeNames = map[Type]string{
	Int:    "int",
	Bool:   "bool",
	String: "string",
}

func (t Type) String() string {
	if name, ok := typeNames[t]; ok {
		return name
	}
	return fmt.Sprintf("Type(%d)", uint8(t))
}

// IsPointer reports whether values of this type are reference counted
// rather than primitive. It decides between the Primitive* and Ptr*
// families of stack instructions.
func (t Type) IsPointer() bool {
	return t == String
}

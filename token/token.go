// Package token holds the source-location types shared by the front end
// and the bytecode layer.
package token

import "fmt"

// Line is a 1-based source line number. Zero means "unknown".
type Line uint32

// Position represents a source location.
type Position struct {
	Offset int  // byte offset
	Line   Line // 1-based line number
	Column int  // 1-based column number
}

// String returns "line:column".
func (p Position) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

// Span represents a range in source code.
type Span struct {
	Start Position
	End   Position
}

// NewSpan builds a span from two positions.
func NewSpan(start, end Position) Span {
	return Span{Start: start, End: end}
}

// Len returns the length of the span in bytes.
func (s Span) Len() int {
	return s.End.Offset - s.Start.Offset
}

// Join returns the smallest span covering both s and other.
func (s Span) Join(other Span) Span {
	out := s
	if other.Start.Offset < out.Start.Offset {
		out.Start = other.Start
	}
	if other.End.Offset > out.End.Offset {
		out.End = other.End
	}
	return out
}

func (s Span) String() string {
	return fmt.Sprintf("%s-%s", s.Start, s.End)
}

package bytecode

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"unicode/utf8"
)

// sameLineMarker replaces the line number when it repeats the previous one.
const sameLineMarker = "  |"

// opcodeColumn is the width the instruction text is padded to when an
// annotation follows it.
const opcodeColumn = 20

// Disassemble writes a "== name ==" header followed by one line per
// instruction, in storage order.
func Disassemble(w io.Writer, c *Chunk, name string) error {
	return DisassembleAnnotated(w, c, name, nil)
}

// DisassembleAnnotated is Disassemble with a per-offset annotation.
// annotate may be nil.
func DisassembleAnnotated(w io.Writer, c *Chunk, name string, annotate func(offset int) string) error {
	if _, err := fmt.Fprintf(w, "== %s ==\n", name); err != nil {
		return err
	}
	for offset := 0; offset < c.Len(); offset++ {
		extra := ""
		if annotate != nil {
			extra = annotate(offset)
		}
		if err := DisassembleInstruction(w, c, offset, extra); err != nil {
			return err
		}
	}
	return nil
}

// DisassembleInstruction writes the listing line for the instruction at
// offset:
//
//	OFFSET LINE INSTRUCTION [EXTRA]
//
// The offset is four zero-padded digits and the line is right-aligned in four
// columns, or "  |" when it equals the previous instruction's line. The first
// instruction always prints its line. When extra is non-empty the
// instruction text is padded to a fixed column before it.
func DisassembleInstruction(w io.Writer, c *Chunk, offset int, extra string) error {
	_, err := io.WriteString(w, formatInstruction(c, offset, extra)+"\n")
	return err
}

func formatInstruction(c *Chunk, offset int, extra string) string {
	lines := c.InstructionLines()
	lineText := sameLineMarker
	if offset == 0 || lines[offset] != lines[offset-1] {
		lineText = strconv.FormatUint(uint64(lines[offset]), 10)
	}

	inst := c.Instructions()[offset]
	if extra == "" {
		return fmt.Sprintf("%04d %4s %s", offset, lineText, inst)
	}
	return fmt.Sprintf("%04d %4s %-*s %s", offset, lineText, opcodeColumn, inst, extra)
}

// Disassemble returns the listing of the chunk under the given header name.
func (c *Chunk) Disassemble(name string) string {
	var sb strings.Builder
	// strings.Builder never fails.
	_ = Disassemble(&sb, c, name)
	return sb.String()
}

// DisassembleToLines returns the instruction lines without the header.
func (c *Chunk) DisassembleToLines() []string {
	lines := make([]string, 0, c.Len())
	for offset := 0; offset < c.Len(); offset++ {
		lines = append(lines, formatInstruction(c, offset, ""))
	}
	return lines
}

// OperandAnnotation describes what an instruction's operand refers to:
// the constant value for Constant and the absolute target for jumps.
// It returns "" for everything else and for operands out of range.
func OperandAnnotation(c *Chunk, offset int) string {
	inst := c.Instructions()[offset]
	switch {
	case inst.Op == OpConstant:
		if int(inst.Arg) < len(c.Constants()) {
			return "; " + c.Constants()[inst.Arg].String()
		}
	case inst.Op.IsJump():
		if inst.Arg == JumpPlaceholder {
			return "; -> ????"
		}
		return fmt.Sprintf("; -> %04d", inst.JumpTarget(offset))
	}
	return ""
}

// DisassembleConstants writes the constant pool, one entry per line.
func DisassembleConstants(w io.Writer, c *Chunk) error {
	if len(c.Constants()) == 0 {
		return nil
	}
	if _, err := io.WriteString(w, "; Constants:\n"); err != nil {
		return err
	}
	for i, v := range c.Constants() {
		display := truncateRunes(v.String(), 40)
		if _, err := fmt.Fprintf(w, ";   [%3d] %s\n", i, display); err != nil {
			return err
		}
	}
	return nil
}

// truncateRunes shortens s to at most limit runes, ending in "..." when cut.
// It never splits a multi-byte character.
func truncateRunes(s string, limit int) string {
	if utf8.RuneCountInString(s) <= limit {
		return s
	}
	end := 0
	for n := 0; n < limit-3; n++ {
		_, size := utf8.DecodeRuneInString(s[end:])
		end += size
	}
	return s[:end] + "..."
}

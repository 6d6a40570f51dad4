package ot

import "encoding/binary"

// Small big-endian table builders shared across the package's tests —
// hand-assembling just enough of each binary format to exercise one
// parser/evaluator path at a time.

func u16b(v uint16) []byte {
	b := make([]byte, 2)
	binary.BigEndian.PutUint16(b, v)
	return b
}

func i16b(v int16) []byte { return u16b(uint16(v)) }

func u32b(v uint32) []byte {
	b := make([]byte, 4)
	binary.BigEndian.PutUint32(b, v)
	return b
}

func cat(parts ...[]byte) []byte {
	var out []byte
	for _, p := range parts {
		out = append(out, p...)
	}
	return out
}

// buildCoverageFormat1 builds a format-1 Coverage table listing glyphs in
// ascending order.
func buildCoverageFormat1(glyphs ...uint16) []byte {
	parts := [][]byte{u16b(1), u16b(uint16(len(glyphs)))}
	for _, g := range glyphs {
		parts = append(parts, u16b(g))
	}
	return cat(parts...)
}

// buildClassDefFormat1 builds a format-1 ClassDef starting at startGlyph.
func buildClassDefFormat1(startGlyph uint16, classes ...uint16) []byte {
	parts := [][]byte{u16b(1), u16b(startGlyph), u16b(uint16(len(classes)))}
	for _, c := range classes {
		parts = append(parts, u16b(c))
	}
	return cat(parts...)
}

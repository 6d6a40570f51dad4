package ot

// ClassDef is an OpenType ClassDef table: a map from glyph ID to a small
// integer class, used by GDEF glyph classification, mark-attachment
// classes, and GPOS pair/context class rules. Grounded on
// boxesandglue/textshape's ot/gpos.go ClassDef type.
type ClassDef struct {
	format uint16
	data   []byte

	// Format 1: a contiguous run of glyphs, one class value per glyph.
	startGlyph GlyphID
	classesOff int
	classCount int

	// Format 2: sorted, non-overlapping class range records.
	rangesOff int
	rangeCnt  int
}

// ParseClassDef parses a ClassDef table at byte offset off.
func ParseClassDef(data []byte, off int) (*ClassDef, bool) {
	format, ok := u16At(data, off)
	if !ok {
		return nil, false
	}
	cd := &ClassDef{format: format, data: data}
	switch format {
	case 1:
		start, ok1 := u16At(data, off+2)
		count, ok2 := u16At(data, off+4)
		if !ok1 || !ok2 || off+6+int(count)*2 > len(data) {
			return nil, false
		}
		cd.startGlyph = GlyphID(start)
		cd.classCount = int(count)
		cd.classesOff = off + 6
	case 2:
		count, ok := u16At(data, off+2)
		if !ok || off+4+int(count)*6 > len(data) {
			return nil, false
		}
		cd.rangeCnt = int(count)
		cd.rangesOff = off + 4
	default:
		return nil, false
	}
	return cd, true
}

// Class returns the class assigned to glyph, or 0 if the glyph is absent
// from the table (the OpenType default class).
func (cd *ClassDef) Class(glyph GlyphID) uint16 {
	if cd == nil {
		return 0
	}
	switch cd.format {
	case 1:
		if glyph < cd.startGlyph || int(glyph-cd.startGlyph) >= cd.classCount {
			return 0
		}
		c, _ := u16At(cd.data, cd.classesOff+int(glyph-cd.startGlyph)*2)
		return c
	case 2:
		lo, hi := 0, cd.rangeCnt
		for lo < hi {
			mid := (lo + hi) / 2
			off := cd.rangesOff + mid*6
			start, _ := u16At(cd.data, off)
			end, _ := u16At(cd.data, off+2)
			switch {
			case glyph < GlyphID(start):
				hi = mid
			case glyph > GlyphID(end):
				lo = mid + 1
			default:
				c, _ := u16At(cd.data, off+4)
				return c
			}
		}
	}
	return 0
}

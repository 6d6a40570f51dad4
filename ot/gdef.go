package ot

// GDEF is the Glyph Definition table: glyph classification (Base/
// Ligature/Mark/Component), mark-attachment classes, and named
// mark-glyph-sets used by the locator's mark-filtering-set rule. Versions
// 1.0, 1.2 and 1.3 are all just "however many of the trailing optional
// offsets are present" (spec §6).
type GDEF struct {
	data            []byte
	glyphClassDef   *ClassDef
	markAttachDef   *ClassDef
	markGlyphSets   []*Coverage // one per mark-glyph-set index
	itemVarStore    *ItemVariationStore
}

// ParseGDEF parses a GDEF table. A missing or malformed table is not an
// error at this layer: callers treat a nil *GDEF exactly like one with no
// optional subtables (spec §4.8).
func ParseGDEF(data []byte) (*GDEF, bool) {
	if len(data) < 12 {
		return nil, false
	}
	major, ok1 := u16At(data, 0)
	minor, ok2 := u16At(data, 2)
	if !ok1 || !ok2 || major != 1 {
		return nil, false
	}
	g := &GDEF{data: data}

	if off, ok := u16At(data, 4); ok && off != 0 {
		g.glyphClassDef, _ = ParseClassDef(data, int(off))
	}
	// AttachListOffset at +6 is not consumed (contour-point anchors are
	// out of scope; spec §1 Non-goals / original TODO).
	if off, ok := u16At(data, 8); ok && off != 0 {
		// LigCaretListOffset: not consumed, no caret-anchor feature in scope.
		_ = off
	}
	if off, ok := u16At(data, 10); ok && off != 0 {
		g.markAttachDef, _ = ParseClassDef(data, int(off))
	}

	if minor >= 2 && len(data) >= 14 {
		if off, ok := u16At(data, 12); ok && off != 0 {
			g.markGlyphSets = parseMarkGlyphSets(data, int(off))
		}
	}
	if minor >= 3 && len(data) >= 18 {
		if off, ok := u32At(data, 14); ok && off != 0 {
			g.itemVarStore, _ = ParseItemVariationStore(data, int(off))
		}
	}
	return g, true
}

func parseMarkGlyphSets(data []byte, off int) []*Coverage {
	format, ok1 := u16At(data, off)
	count, ok2 := u16At(data, off+2)
	if !ok1 || !ok2 || format != 1 {
		return nil
	}
	sets := make([]*Coverage, 0, count)
	for i := 0; i < int(count); i++ {
		rel, ok := u32At(data, off+4+i*4)
		if !ok {
			sets = append(sets, nil)
			continue
		}
		cov, _ := ParseCoverage(data, off+int(rel))
		sets = append(sets, cov)
	}
	return sets
}

// GDEF glyph classes, matching the table's on-disk class values.
const (
	GlyphClassNone      = 0
	GlyphClassBase      = 1
	GlyphClassLigature  = 2
	GlyphClassMark      = 3
	GlyphClassComponent = 4
)

// GlyphClass returns the GDEF class of glyph, or GlyphClassNone if g is
// nil or the glyph is unclassified.
func (g *GDEF) GlyphClass(glyph GlyphID) uint16 {
	if g == nil || g.glyphClassDef == nil {
		return GlyphClassNone
	}
	return g.glyphClassDef.Class(glyph)
}

// HasGlyphClasses reports whether a GlyphClassDef subtable is present.
func (g *GDEF) HasGlyphClasses() bool {
	return g != nil && g.glyphClassDef != nil
}

// MarkAttachClass returns the mark-attachment class of glyph (0 if none).
func (g *GDEF) MarkAttachClass(glyph GlyphID) uint16 {
	if g == nil || g.markAttachDef == nil {
		return 0
	}
	return g.markAttachDef.Class(glyph)
}

// MarkGlyphSet returns the coverage for the named mark-filtering set, or
// nil if absent.
func (g *GDEF) MarkGlyphSet(index uint16) *Coverage {
	if g == nil || int(index) >= len(g.markGlyphSets) {
		return nil
	}
	return g.markGlyphSets[index]
}

// ItemVariationStore returns the GDEF's variation store, used to resolve
// VariationIndex value-record deltas (nil if the font has no variations).
func (g *GDEF) ItemVariationStore() *ItemVariationStore {
	if g == nil {
		return nil
	}
	return g.itemVarStore
}

// BasicTraitsForClass maps a GDEF glyph class to the Album's basic trait
// bits, used by glyph discovery and by single-substitution reclassification
// (spec §4.6, §4.7).
func BasicTraitsForClass(class uint16) Traits {
	switch class {
	case GlyphClassBase:
		return TraitBase
	case GlyphClassLigature:
		return TraitLigature
	case GlyphClassMark:
		return TraitMark
	case GlyphClassComponent:
		return TraitComponent
	default:
		return TraitNone
	}
}

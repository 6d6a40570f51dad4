package ot

// buildMinimalGSUB assembles a GSUB table exercising exactly one real
// path end to end: script 'latn', default language, one feature ('liga')
// referencing lookup 0, a Single Substitution format-1 lookup that maps
// glyph 5 to glyph 6. Every offset below is computed by hand against the
// exact layout gsub.go/layout_common.go/coverage.go expect; the comment
// on each group of bytes below gives its offset derivation.
func buildMinimalGSUB() []byte {
	return cat(
		// header: major, minor, scriptListOff=10, featureListOff=30, lookupListOff=44
		u16b(1), u16b(0), u16b(10), u16b(30), u16b(44),
		// ScriptList @10: count=1, {tag=latn, offset=8 -> Script @18}
		u16b(1), u32b(uint32(TagLatin)), u16b(8),
		// Script table @18: defaultLangSysOffset=4 -> LangSys @22, langSysCount=0
		u16b(4), u16b(0),
		// LangSys @22: lookupOrder=0, required=0xFFFF, count=1, indices=[0]
		u16b(0), u16b(0xFFFF), u16b(1), u16b(0),
		// FeatureList @30: count=1, {tag=liga, offset=8 -> Feature @38}
		u16b(1), u32b(uint32(MakeTag('l', 'i', 'g', 'a'))), u16b(8),
		// Feature table @38: featureParams=0, lookupCount=1, indices=[0]
		u16b(0), u16b(1), u16b(0),
		// LookupList @44: count=1, offset=4 -> Lookup @48
		u16b(1), u16b(4),
		// Lookup table @48: type=1 (Single), flag=0, subCount=1, offset=8 -> subtable @56
		u16b(1), u16b(0), u16b(1), u16b(8),
		// SingleSubst format1 @56: format=1, coverageOffset=6 -> Coverage @62, delta=+1
		u16b(1), u16b(6), i16b(1),
		// Coverage format1 @62: count=1, glyphs=[5]
		u16b(1), u16b(1), u16b(5),
	)
}

// buildEmptyGPOS assembles a structurally valid but featureless GPOS
// table, so Font.GPOS() parses successfully while BuildPattern resolves
// zero positioning lookups.
func buildEmptyGPOS() []byte {
	return cat(
		u16b(1), u16b(0), u16b(10), u16b(12), u16b(14),
		u16b(0), // ScriptList @10: count=0
		u16b(0), // FeatureList @12: count=0
		u16b(0), // LookupList @14: count=0
	)
}

// newFixtureFont wires buildMinimalGSUB/buildEmptyGPOS behind a Protocol
// that maps the codepoint 'a' to glyph 5 and gives every glyph a fixed
// advance, with no GDEF (GDEF's nil-receiver methods make that the
// correct "no classification data" case).
func newFixtureFont() *Font {
	gsub := buildMinimalGSUB()
	gpos := buildEmptyGPOS()
	return NewFont(Protocol{
		LoadTable: func(tag Tag) []byte {
			switch tag {
			case TagGSUB:
				return gsub
			case TagGPOS:
				return gpos
			default:
				return nil
			}
		},
		GlyphForCodepoint: func(cp Codepoint) GlyphID {
			if cp == 'a' {
				return 5
			}
			return 0
		},
		AdvanceForGlyph: func(Direction, GlyphID) int32 { return 10 },
	})
}

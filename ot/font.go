package ot

// Font is the reference-counted font resource spec §3/§6 describes: a
// cache of three byte blobs (GDEF, GSUB, GPOS), each loaded once from the
// host via a table-loading callback, plus host-supplied glyph-lookup and
// advance functions. Grounded on SheenFigure's SFFont.h, with
// SFFontProtocol renamed to this Protocol struct.

// Protocol is the host's font-resource contract (spec §6): everything the
// engine needs that it cannot derive from the GSUB/GPOS/GDEF bytes
// themselves. Font-file loading from disk is explicitly out of scope
// (spec §1 Non-goals) — a host implements Protocol however it parses its
// own font files.
//
// MirrorRune is the Unicode bidi-mirroring collaborator spec §1 names as
// "obtained from a companion library" and out of scope for this engine to
// implement: golang.org/x/text/unicode/bidi classifies directionality
// (wired in processor.go) but does not itself expose BidiMirroring.txt, so
// mirroring is a pluggable host callback exactly like GlyphForCodepoint.
// A nil MirrorRune simply skips the mirroring step.
type Protocol struct {
	LoadTable         func(tag Tag) []byte
	GlyphForCodepoint func(cp Codepoint) GlyphID
	AdvanceForGlyph   func(direction Direction, glyph GlyphID) int32
	MirrorRune        func(cp Codepoint) (Codepoint, bool)
}

// Font wraps a Protocol with a lazily-populated, retained cache of the
// three tables the engine reads, plus an optional variation-coordinate
// vector (spec §3).
type Font struct {
	protocol Protocol
	coords   []float64 // normalized F2DOT14 axis values

	gdefData, gsubData, gposData []byte
	gdefLoaded, gsubLoaded, gposLoaded bool

	gdef *GDEF
	gsub *GSUB
	gpos *GPOS

	retainCnt int32
}

// NewFont wraps protocol as a retained Font resource.
func NewFont(protocol Protocol) *Font {
	return &Font{protocol: protocol, retainCnt: 1}
}

func (f *Font) Retain() *Font { f.retainCnt++; return f }
func (f *Font) Release()      { f.retainCnt-- }

// SetVariationCoords installs the normalized variation coordinate vector
// used to resolve VariationIndex value-record deltas (spec §3).
func (f *Font) SetVariationCoords(coords []float64) { f.coords = coords }

func (f *Font) VariationCoords() []float64 { return f.coords }

func (f *Font) loadTable(tag Tag, loaded *bool, cache *[]byte) []byte {
	if !*loaded {
		if f.protocol.LoadTable != nil {
			*cache = f.protocol.LoadTable(tag)
		}
		*loaded = true
	}
	return *cache
}

// GDEF parses (on first use) and returns the font's GDEF table, or nil if
// the host has none.
func (f *Font) GDEF() *GDEF {
	if f.gdef == nil {
		data := f.loadTable(TagGDEF, &f.gdefLoaded, &f.gdefData)
		if data != nil {
			f.gdef, _ = ParseGDEF(data)
		}
	}
	return f.gdef
}

// GSUB parses (on first use) and returns the font's GSUB table.
func (f *Font) GSUB() *GSUB {
	if f.gsub == nil {
		data := f.loadTable(TagGSUB, &f.gsubLoaded, &f.gsubData)
		if data != nil {
			f.gsub, _ = ParseGSUB(data)
		}
	}
	return f.gsub
}

// GPOS parses (on first use) and returns the font's GPOS table.
func (f *Font) GPOS() *GPOS {
	if f.gpos == nil {
		data := f.loadTable(TagGPOS, &f.gposLoaded, &f.gposData)
		if data != nil {
			f.gpos, _ = ParseGPOS(data)
		}
	}
	return f.gpos
}

// GlyphForCodepoint resolves a codepoint to a glyph ID via the host
// callback (spec §4.6).
func (f *Font) GlyphForCodepoint(cp Codepoint) GlyphID {
	if f.protocol.GlyphForCodepoint == nil {
		return 0
	}
	return f.protocol.GlyphForCodepoint(cp)
}

// AdvanceForGlyph resolves a glyph's advance via the host callback,
// defaulting to zero (spec §3 "with a zero-advance default").
func (f *Font) AdvanceForGlyph(direction Direction, glyph GlyphID) int32 {
	if f.protocol.AdvanceForGlyph == nil {
		return 0
	}
	return f.protocol.AdvanceForGlyph(direction, glyph)
}

// MirrorRune resolves cp's Unicode bidi mirror via the host callback, or
// returns it unchanged if the host has none (spec §4.6 step "substitute
// the Unicode mirror character before mapping").
func (f *Font) MirrorRune(cp Codepoint) Codepoint {
	if f.protocol.MirrorRune == nil {
		return cp
	}
	if mirrored, ok := f.protocol.MirrorRune(cp); ok {
		return mirrored
	}
	return cp
}

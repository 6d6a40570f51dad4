package ot

import "golang.org/x/text/unicode/bidi"

// Artist is the synchronous text-processing driver: it takes a Pattern
// and an Album through the full shape sequence (spec §3, §4.6). Grounded
// on SheenFigure's SFTextProcessor.h/.c and on boxesandglue/textshape's
// top-level shaper.go pass-ordering.
type Artist struct{}

// Shape runs an Album through glyph discovery, the Arabic joining pass
// (when the pattern's script calls for it), substitution, positioning and
// wrap-up, leaving album in PhaseWrappedUp (spec §4.6). album must already
// have been Reset with the CodepointSequence being shaped.
func (Artist) Shape(pattern *Pattern, album *Album) {
	cps := discoverGlyphs(pattern, album)
	if pattern.ScriptTag == TagArabic {
		StampArabicJoiningMasks(album, cps)
	}

	gdef := pattern.Font.GDEF()
	substituteGlyphs(pattern, album, gdef)

	album.BeginArranging()
	assignDefaultAdvances(pattern, album)
	positionGlyphs(pattern, album, gdef)
	album.EndArranging()

	album.WrapUp()
}

// discoverGlyphs fills album from its codepoint sequence, resolving each
// codepoint to a glyph via the font's host callback, classifying it
// through GDEF, and stamping the strongly-directional trait via Unicode
// bidi classification — spec §1's one named "lean on a real Unicode
// library rather than reimplement bidi" integration point. For RTL runs,
// codepoints are first passed through the host's mirror-rune collaborator
// (spec §4.6 "substitute the Unicode mirror character... before mapping").
// It returns the codepoints (post-mirroring) in glyph order for the Arabic
// joining pass, which needs random access aligned 1:1 with album indices
// (true only before any substitution has run).
func discoverGlyphs(pattern *Pattern, album *Album) []Codepoint {
	album.BeginFilling()
	gdef := pattern.Font.GDEF()

	var cps []Codepoint
	next := album.Codepoints().Forward()
	for {
		at, ok := next()
		if !ok {
			break
		}
		cp := at.Codepoint
		if pattern.Direction == DirectionRTL {
			cp = pattern.Font.MirrorRune(cp)
		}

		glyph := pattern.Font.GlyphForCodepoint(cp)
		traits := BasicTraitsForClass(gdef.GlyphClass(glyph))
		album.AddGlyph(glyph, traits, at.Index)

		if p, _ := bidi.LookupRune(rune(cp)); p.Class() == bidi.R || p.Class() == bidi.AL {
			album.InsertHelperTraits(album.GlyphCount()-1, TraitRightToLeft)
		}

		cps = append(cps, cp)
	}
	album.EndFilling()
	return cps
}

// assignDefaultAdvances seeds every glyph's advance from the font before
// GPOS runs; value-record XAdvance bits and mark gap-closing
// adjust this baseline (spec §4.6).
func assignDefaultAdvances(pattern *Pattern, album *Album) {
	for i := 0; i < album.GlyphCount(); i++ {
		adv := pattern.Font.AdvanceForGlyph(pattern.Direction, album.GetGlyph(i))
		album.SetAdvance(i, adv)
	}
}

// applyGSUBLookupAtCursor tries each subtable of lt against ctx's current
// cursor position, stopping at the first one that reports a change (spec
// §4.8).
func applyGSUBLookupAtCursor(lt *GSUBLookupTable, ctx *ApplyContext) bool {
	for _, st := range lt.Subtables {
		if st.Apply(ctx) {
			return true
		}
	}
	return false
}

func applyGPOSLookupAtCursor(lt *GPOSLookupTable, ctx *ApplyContext) bool {
	for _, st := range lt.Subtables {
		if st.Apply(ctx) {
			return true
		}
	}
	return false
}

// substituteGlyphs runs every FeatureUnit of the pattern's GSUB half over
// the album (spec §4.7). Within a unit, lookups already come sorted
// ascending by index (PatternBuilder.MakeFeatureUnit); reverse-chaining
// single substitution is the one lookup type walked back-to-front instead
// of through the locator's forward MoveNext loop.
func substituteGlyphs(pattern *Pattern, album *Album, gdef *GDEF) {
	gsub := pattern.Font.GSUB()
	if gsub == nil {
		return
	}
	locator := NewLocator(album, gdef)

	recurse := func(lookupIndex uint16, ctx *ApplyContext) bool {
		lt := gsub.Lookup(int(lookupIndex))
		if lt == nil {
			return false
		}
		return applyGSUBLookupAtCursor(lt, ctx)
	}

	for _, unit := range pattern.GSUBUnits() {
		locator.SetMask(unit.Mask)
		for _, ref := range unit.Lookups {
			lt := gsub.Lookup(int(ref.Index))
			if lt == nil {
				continue
			}
			locator.SetLookupFlag(lt.Flag)
			if lt.Flag&LookupFlagUseMarkFilteringSet != 0 {
				locator.SetMarkFilteringSet(lt.MarkFilteringSet)
			}
			ctx := &ApplyContext{
				Album: album, Font: pattern.Font, GDEF: gdef, Locator: locator,
				Direction: pattern.Direction, LookupFlag: lt.Flag, Recurse: recurse,
				FeatureValue: ref.Value,
			}
			if lt.Type == GSUBReverseChainSingle {
				lt.ApplyReverse(ctx)
				continue
			}
			locator.Reset(0, album.GlyphCount())
			for locator.MoveNext() {
				applyGSUBLookupAtCursor(lt, ctx)
			}
		}
	}
}

// positionGlyphs runs every FeatureUnit of the pattern's GPOS half over
// the album (spec §4.7), then resolves cursive chains and mark
// attachments (spec §4.6 "Attachment resolution") now that every lookup
// has had a chance to move a glyph. Grounded on SheenFigure's
// SFTextProcessorPositionGlyphs, which likewise calls
// _SFResolveAttachments once after the feature-unit loop and only when a
// GPOS table is present (SFTextProcessor.c:117-124).
func positionGlyphs(pattern *Pattern, album *Album, gdef *GDEF) {
	gpos := pattern.Font.GPOS()
	if gpos == nil {
		return
	}
	locator := NewLocator(album, gdef)

	recurse := func(lookupIndex uint16, ctx *ApplyContext) bool {
		lt := gpos.Lookup(int(lookupIndex))
		if lt == nil {
			return false
		}
		return applyGPOSLookupAtCursor(lt, ctx)
	}

	for _, unit := range pattern.GPOSUnits() {
		locator.SetMask(unit.Mask)
		for _, ref := range unit.Lookups {
			lt := gpos.Lookup(int(ref.Index))
			if lt == nil {
				continue
			}
			locator.SetLookupFlag(lt.Flag)
			if lt.Flag&LookupFlagUseMarkFilteringSet != 0 {
				locator.SetMarkFilteringSet(lt.MarkFilteringSet)
			}
			ctx := &ApplyContext{
				Album: album, Font: pattern.Font, GDEF: gdef, Locator: locator,
				Direction: pattern.Direction, LookupFlag: lt.Flag, Recurse: recurse,
				FeatureValue: ref.Value,
			}
			locator.Reset(0, album.GlyphCount())
			for locator.MoveNext() {
				applyGPOSLookupAtCursor(lt, ctx)
			}
		}
	}

	resolveAttachments(album, pattern.Direction)
}

// resolveAttachments runs the two attachment-resolution sub-passes spec
// §4.6 describes: cursive chains first, then mark gap-closing (marks may
// attach to a base whose own position a cursive chain has just moved).
// Grounded on SheenFigure's ResolveAttachments (GlyphPositioning.c:1054).
func resolveAttachments(album *Album, direction Direction) {
	resolveCursivePositions(album)
	resolveMarkPositions(album, direction)
}

// resolveCursivePositions walks every unresolved cursively-attached glyph
// found by a filterless forward sweep of the album and accumulates Y
// across its chain (spec §4.6 "Cursive resolution"). Grounded on
// SheenFigure's ResolveCursivePositions (GlyphPositioning.c:988-1005).
func resolveCursivePositions(album *Album) {
	locator := NewLocator(album, nil)
	locator.Reset(0, album.GlyphCount())
	for locator.MoveNext() {
		i := locator.Index()
		traits := album.GetAllTraits(i)
		if traits&(TraitCursive|TraitResolved) != TraitCursive {
			continue
		}
		if traits&TraitRightToLeft != 0 {
			resolveRightCursiveSegment(album, i)
		} else {
			resolveLeftCursiveSegment(album, i)
		}
	}
}

// resolveLeftCursiveSegment pushes the chain's Y downward from its first
// glyph: the first glyph anchors the baseline, and each subsequent link
// adds the preceding glyph's already-settled Y onto its own (spec §4.6
// "the first anchors, pushing downward"). Grounded on SheenFigure's
// ResolveLeftCursiveSegment (GlyphPositioning.c:911-931).
func resolveLeftCursiveSegment(album *Album, i int) {
	offset := album.GetCursiveOffset(i)
	if offset == 0 {
		return
	}
	next := i + int(offset)
	album.SetY(next, album.GetY(next)+album.GetY(i))
	resolveLeftCursiveSegment(album, next)
	album.InsertHelperTraits(i, TraitResolved)
}

// resolveRightCursiveSegment pulls the chain's Y upward from its last
// glyph: recurse to the tail first so it settles, then fold the tail's Y
// back onto the current glyph (spec §4.6 "the last glyph in the chain
// anchors on the baseline, pulling preceding glyphs upward"). Grounded on
// SheenFigure's ResolveRightCursiveSegment (GlyphPositioning.c:949-973).
func resolveRightCursiveSegment(album *Album, i int) {
	offset := album.GetCursiveOffset(i)
	if offset == 0 {
		return
	}
	next := i + int(offset)
	resolveRightCursiveSegment(album, next)
	album.SetY(i, album.GetY(i)+album.GetY(next))
	album.InsertHelperTraits(i, TraitResolved)
}

// resolveMarkPositions closes the gap between each attached mark and its
// base in a single filterless forward sweep, so a mark attached to
// another mark (already resolved earlier in the same sweep) lands in the
// right place (spec §4.6 "Mark resolution"). Grounded on SheenFigure's
// ResolveMarkPositions (GlyphPositioning.c:1012-1045).
func resolveMarkPositions(album *Album, direction Direction) {
	locator := NewLocator(album, nil)
	locator.Reset(0, album.GlyphCount())
	for locator.MoveNext() {
		i := locator.Index()
		if album.GetAllTraits(i)&TraitAttached == 0 {
			continue
		}
		attach := i - int(album.GetAttachmentOffset(i))
		markX := album.GetX(i) + album.GetX(attach)
		markY := album.GetY(i) + album.GetY(attach)

		if direction == DirectionRTL {
			for k := attach + 1; k <= i; k++ {
				markX += album.GetAdvance(k)
			}
		} else {
			for k := attach; k < i; k++ {
				markX -= album.GetAdvance(k)
			}
		}

		album.SetX(i, markX)
		album.SetY(i, markY)
	}
}

package ot

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// TestArtistShapeSingleSubstitutionEndToEnd drives the full pipeline
// (DiscoverGlyphs -> SubstituteGlyphs -> PositionGlyphs -> WrapUp) over
// the fixture font's one real lookup: a Single Substitution mapping
// glyph 5 ("a") to glyph 6.
func TestArtistShapeSingleSubstitutionEndToEnd(t *testing.T) {
	font := newFixtureFont()
	scheme := NewScheme(font, TagLatin, TagLanguageDefault, DirectionLTR)
	pattern := scheme.BuildPattern(nil)

	album := NewAlbum()
	album.Reset(NewCodepointSequence("a", DirectionLTR))

	Artist{}.Shape(pattern, album)

	require.Equal(t, PhaseWrappedUp, album.Phase())
	require.Equal(t, []GlyphID{6}, album.GlyphIDs())
	require.Equal(t, []int32{10}, album.GlyphAdvances())
	require.Equal(t, []int{0}, album.CodeunitToGlyphMap())
}

func TestArtistShapeEmptySequence(t *testing.T) {
	font := newFixtureFont()
	scheme := NewScheme(font, TagLatin, TagLanguageDefault, DirectionLTR)
	pattern := scheme.BuildPattern(nil)

	album := NewAlbum()
	album.Reset(NewCodepointSequence("", DirectionLTR))

	require.NotPanics(t, func() { Artist{}.Shape(pattern, album) })
	require.Equal(t, PhaseWrappedUp, album.Phase())
	require.Empty(t, album.GlyphIDs())
}

// TestArtistShapeMirrorsRunesOnRTL exercises spec §4.6's mirror-rune step:
// for an RTL run, the host's MirrorRune callback runs before
// GlyphForCodepoint, so a codepoint with no direct glyph mapping can still
// resolve via its mirrored counterpart.
func TestArtistShapeMirrorsRunesOnRTL(t *testing.T) {
	font := NewFont(Protocol{
		LoadTable: func(tag Tag) []byte {
			switch tag {
			case TagGSUB:
				return buildMinimalGSUB()
			case TagGPOS:
				return buildEmptyGPOS()
			default:
				return nil
			}
		},
		GlyphForCodepoint: func(cp Codepoint) GlyphID {
			if cp == '(' {
				return 5
			}
			return 0
		},
		AdvanceForGlyph: func(Direction, GlyphID) int32 { return 10 },
		MirrorRune: func(cp Codepoint) (Codepoint, bool) {
			if cp == ')' {
				return '(', true
			}
			return cp, false
		},
	})
	scheme := NewScheme(font, TagLatin, TagLanguageDefault, DirectionRTL)
	pattern := scheme.BuildPattern(nil)

	album := NewAlbum()
	album.Reset(NewCodepointSequence(")", DirectionRTL))

	Artist{}.Shape(pattern, album)

	// ')' mirrors to '(' before glyph mapping (the fixture only maps '(' to
	// a real glyph, so without mirroring this would stay .notdef); the
	// fixture's single substitution then maps glyph 5 to 6, same as the
	// plain-LTR 'a' case in TestArtistShapeSingleSubstitutionEndToEnd.
	require.Equal(t, []GlyphID{6}, album.GlyphIDs())
}

func TestArtistShapeUnmappedCodepointKeepsNotdefAndStillAdvances(t *testing.T) {
	font := newFixtureFont()
	scheme := NewScheme(font, TagLatin, TagLanguageDefault, DirectionLTR)
	pattern := scheme.BuildPattern(nil)

	album := NewAlbum()
	album.Reset(NewCodepointSequence("z", DirectionLTR))

	Artist{}.Shape(pattern, album)

	require.Equal(t, []GlyphID{0}, album.GlyphIDs(), "unmapped codepoints fall back to glyph 0 (.notdef)")
	require.Equal(t, []int32{10}, album.GlyphAdvances())
}

// TestResolveCursivePositionsLeftToRightChain walks a five-glyph LTR
// cursive chain through resolveCursivePositions directly, bypassing
// cursivePos.Apply, to exercise the push-down accumulation in isolation.
// Link offsets and resulting X/advance are the ones cursivePos.Apply would
// have recorded; expected outputs are the tester's ground truth (spec §4.6
// "Cursive resolution"; GlyphPositioningTester.cpp:279-289).
func TestResolveCursivePositionsLeftToRightChain(t *testing.T) {
	a := newTestAlbum(t,
		[]GlyphID{1, 2, 3, 4, 5},
		[]Traits{TraitBase, TraitBase, TraitBase, TraitBase, TraitBase},
	)
	a.BeginArranging()

	xs := []int32{0, 600, 200, -200, -600}
	advances := []int32{-800, 200, 200, 200, -600}
	ys := []int32{0, -200, -200, -200, -200}
	for i := range xs {
		a.SetX(i, xs[i])
		a.SetAdvance(i, advances[i])
		a.SetY(i, ys[i])
		a.SetCursiveOffset(i, 1)
		a.InsertHelperTraits(i, TraitCursive)
	}
	a.SetCursiveOffset(4, 0)

	resolveCursivePositions(a)

	require.EqualValues(t, []int32{0, -200, -400, -600, -800}, []int32{a.GetY(0), a.GetY(1), a.GetY(2), a.GetY(3), a.GetY(4)})
	require.EqualValues(t, xs, []int32{a.GetX(0), a.GetX(1), a.GetX(2), a.GetX(3), a.GetX(4)})
	require.EqualValues(t, advances, []int32{a.GetAdvance(0), a.GetAdvance(1), a.GetAdvance(2), a.GetAdvance(3), a.GetAdvance(4)})
	for i := 0; i < 4; i++ {
		require.True(t, a.GetAllTraits(i)&TraitResolved != 0, "the chain's first four links settle on unwind; the last has no further link to push onto")
	}
}

// TestResolveMarkPositionsClosesAdvanceGapInclusiveOfBase exercises
// resolveMarkPositions's gap-closing loop: a base glyph with a nonzero
// advance of its own must be included in the subtraction (spec §4.6 "Mark
// resolution"; SheenFigure's ResolveMarkPositions, GlyphPositioning.c:1035,
// loops from the base inclusive).
func TestResolveMarkPositionsClosesAdvanceGapInclusiveOfBase(t *testing.T) {
	a := newTestAlbum(t,
		[]GlyphID{9, 20},
		[]Traits{TraitBase, TraitMark},
	)
	a.BeginArranging()
	a.SetAdvance(0, 30)
	a.SetX(1, 45)
	a.SetY(1, 10)
	a.SetAttachmentOffset(1, 1)
	a.InsertHelperTraits(1, TraitAttached)

	resolveMarkPositions(a, DirectionLTR)

	require.EqualValues(t, 45-30, a.GetX(1), "base's own advance(30) must be subtracted along with anything between it and the mark")
	require.EqualValues(t, 10, a.GetY(1))
}

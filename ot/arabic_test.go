package ot

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestJoiningTypeClassification(t *testing.T) {
	require.Equal(t, JoiningDual, joiningType(0x0628))  // BEH
	require.Equal(t, JoiningRight, joiningType(0x0631)) // REH
	require.Equal(t, JoiningRight, joiningType(0x0627)) // ALEF
	require.Equal(t, JoiningTransparent, joiningType(0x064B))
	require.Equal(t, JoiningNone, joiningType('a'))
}

// TestArabicJoiningStampsBehRehAlef exercises spec §4.6's worked example:
// BEH REH ALEF — BEH is initial (nothing precedes it, but it joins
// forward into REH), REH is final (joins the preceding BEH but REH is
// right-joining only, so it never offers a forward join), and ALEF is
// isolated (REH never joins forward into it).
func TestArabicJoiningStampsBehRehAlef(t *testing.T) {
	cps := []Codepoint{0x0628, 0x0631, 0x0627}
	a := NewAlbum()
	a.Reset(NewCodepointSequence("xyz", DirectionRTL))
	a.BeginFilling()
	for i, cp := range cps {
		a.AddGlyph(GlyphID(cp), TraitBase, i)
	}
	a.EndFilling()

	StampArabicJoiningMasks(a, cps)

	require.Equal(t, arabicInitMask, a.GetFeatureMask(0), "BEH has no preceding glyph but joins forward into REH")
	require.Equal(t, arabicFinaMask, a.GetFeatureMask(1), "REH joins the preceding BEH but never joins forward")
	require.Equal(t, arabicIsolMask, a.GetFeatureMask(2), "ALEF follows a right-joining REH that cannot join forward into it")
}

func TestArabicJoiningSkipsTransparentMarks(t *testing.T) {
	// BEH + FATHA (transparent) + BEH: the medial mark must not break the
	// dual-joining chain between the two letters.
	cps := []Codepoint{0x0628, 0x064E, 0x0628}
	a := NewAlbum()
	a.Reset(NewCodepointSequence("xyz", DirectionRTL))
	a.BeginFilling()
	for i, cp := range cps {
		a.AddGlyph(GlyphID(cp), TraitBase, i)
	}
	a.EndFilling()

	StampArabicJoiningMasks(a, cps)

	require.Equal(t, arabicInitMask, a.GetFeatureMask(0))
	require.Equal(t, DefaultFeatureMask, a.GetFeatureMask(1), "transparent glyphs are left unstamped")
	require.Equal(t, arabicFinaMask, a.GetFeatureMask(2))
}

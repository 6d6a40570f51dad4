package ot

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func newApplyContext(a *Album, loc *Locator, dir Direction) *ApplyContext {
	return &ApplyContext{Album: a, Locator: loc, Direction: dir}
}

func TestSingleSubstFormat1Apply(t *testing.T) {
	cov := buildCoverageFormat1(5)
	data := cat(u16b(1), u16b(6), i16b(2), cov)
	st := parseSingleSubst(data, 0)
	require.NotNil(t, st)

	a := newTestAlbum(t, []GlyphID{5}, []Traits{TraitBase})
	loc := NewLocator(a, nil)
	loc.SetMask(0)
	loc.Reset(0, a.GlyphCount())
	require.True(t, loc.MoveNext())

	ctx := newApplyContext(a, loc, DirectionLTR)
	require.True(t, st.Apply(ctx))
	require.EqualValues(t, 7, a.GetGlyph(0))
}

func TestSingleSubstFormat1NoMatch(t *testing.T) {
	cov := buildCoverageFormat1(5)
	data := cat(u16b(1), u16b(6), i16b(2), cov)
	st := parseSingleSubst(data, 0)

	a := newTestAlbum(t, []GlyphID{9}, []Traits{TraitBase})
	loc := NewLocator(a, nil)
	loc.SetMask(0)
	loc.Reset(0, a.GlyphCount())
	require.True(t, loc.MoveNext())

	ctx := newApplyContext(a, loc, DirectionLTR)
	require.False(t, st.Apply(ctx))
	require.EqualValues(t, 9, a.GetGlyph(0))
}

// buildLigatureSubst assembles a LigatureSubstFormat1 table with exactly
// one coverage glyph and one ligature rule: components [11, 12] combine
// into glyph 50 (spec §4.7 Type 4). Byte offsets are laid out by hand:
// header(8) -> LigatureSet count+rel(4) -> Ligature table(8) -> Coverage(6).
func buildLigatureSubst(firstGlyph uint16) []byte {
	return cat(
		u16b(1),  // format @0
		u16b(20), // coverageOffset @2 -> Coverage @20
		u16b(1),  // ligSetCount @4
		u16b(8),  // ligSet rel @6 -> LigatureSet @8
		// LigatureSet @8
		u16b(1), // ligature count
		u16b(4), // ligature rel -> Ligature table @12
		// Ligature table @12
		u16b(50), // resulting glyph
		u16b(3),  // component glyph count (incl. first, matched by coverage)
		u16b(11), // component 1
		u16b(12), // component 2
		// Coverage @20
		buildCoverageFormat1(firstGlyph),
	)
}

func TestLigatureSubstApply(t *testing.T) {
	data := buildLigatureSubst(10)
	st := parseLigatureSubst(data, 0)
	require.NotNil(t, st)

	a := newTestAlbum(t,
		[]GlyphID{10, 11, 12},
		[]Traits{TraitBase, TraitBase, TraitBase},
	)
	loc := NewLocator(a, nil)
	loc.SetMask(0)
	loc.Reset(0, a.GlyphCount())
	require.True(t, loc.MoveNext())

	ctx := newApplyContext(a, loc, DirectionLTR)
	require.True(t, st.Apply(ctx))
	require.EqualValues(t, 50, a.GetGlyph(0))
	require.True(t, a.GetAllTraits(1)&TraitPlaceholder != 0)
	require.True(t, a.GetAllTraits(2)&TraitPlaceholder != 0)
}

func TestLigatureSubstNoMatchLeavesGlyphsUntouched(t *testing.T) {
	data := buildLigatureSubst(10)
	st := parseLigatureSubst(data, 0)

	a := newTestAlbum(t,
		[]GlyphID{10, 11, 99},
		[]Traits{TraitBase, TraitBase, TraitBase},
	)
	loc := NewLocator(a, nil)
	loc.SetMask(0)
	loc.Reset(0, a.GlyphCount())
	require.True(t, loc.MoveNext())

	ctx := newApplyContext(a, loc, DirectionLTR)
	require.False(t, st.Apply(ctx))
	require.EqualValues(t, 10, a.GetGlyph(0))
}

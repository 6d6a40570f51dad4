package ot

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func fillSimpleAlbum(t *testing.T, text string, dir Direction) *Album {
	t.Helper()
	cps := NewCodepointSequence(text, dir)
	a := NewAlbum()
	a.Reset(cps)
	a.BeginFilling()
	next := cps.Forward()
	for {
		at, ok := next()
		if !ok {
			break
		}
		a.AddGlyph(GlyphID(at.Codepoint), TraitBase, at.Index)
	}
	a.EndFilling()
	return a
}

func TestAlbumPhaseLifecycle(t *testing.T) {
	a := NewAlbum()
	require.Equal(t, PhaseEmpty, a.Phase())

	require.Panics(t, func() { a.AddGlyph(1, TraitBase, 0) })

	a.Reset(NewCodepointSequence("ab", DirectionLTR))
	require.Equal(t, PhaseEmpty, a.Phase())

	a.BeginFilling()
	require.Equal(t, PhaseFilling, a.Phase())
	a.AddGlyph(1, TraitBase, 0)
	a.AddGlyph(2, TraitBase, 1)
	a.EndFilling()
	require.Equal(t, PhaseFilled, a.Phase())
	require.Equal(t, 2, a.GlyphCount())

	require.Panics(t, func() { a.SetX(0, 5) })

	a.BeginArranging()
	require.Equal(t, PhaseArranging, a.Phase())
	a.SetX(0, 5)
	a.EndArranging()
	require.Equal(t, PhaseArranged, a.Phase())

	a.WrapUp()
	require.Equal(t, PhaseWrappedUp, a.Phase())
}

func TestAlbumFeatureMaskSentinelRejected(t *testing.T) {
	a := NewAlbum()
	a.Reset(NewCodepointSequence("a", DirectionLTR))
	a.BeginFilling()
	a.AddGlyph(1, TraitBase, 0)
	a.EndFilling()

	require.Equal(t, DefaultFeatureMask, a.GetFeatureMask(0))
	require.Panics(t, func() { a.SetFeatureMask(0, ^DefaultFeatureMask) })
	require.NotPanics(t, func() { a.SetFeatureMask(0, 0x0001) })
}

func TestAlbumVersionBumpsOnMutation(t *testing.T) {
	a := NewAlbum()
	a.Reset(NewCodepointSequence("a", DirectionLTR))
	v0 := a.Version()
	a.BeginFilling()
	a.AddGlyph(1, TraitBase, 0)
	require.Greater(t, a.Version(), v0)
}

func TestAlbumWrapUpRemovesPlaceholdersAndBuildsMap(t *testing.T) {
	a := fillSimpleAlbum(t, "ab", DirectionLTR)
	// Simulate a ligature substitution: glyph 1 becomes a placeholder
	// associated with code unit 1 (spec §4.7 Type 4).
	a.InsertHelperTraits(1, TraitPlaceholder)

	a.BeginArranging()
	a.SetAdvance(0, 10)
	a.SetAdvance(1, 0)
	a.EndArranging()

	a.WrapUp()
	require.Equal(t, 1, a.GlyphCount(), "placeholder glyph must be removed")

	m := a.CodeunitToGlyphMap()
	require.Len(t, m, 2)
	for _, g := range m {
		require.GreaterOrEqual(t, g, 0, "map must be total (spec Map totality)")
		require.Less(t, g, a.GlyphCount())
	}
}

func TestAlbumCaretEdgesSpanCluster(t *testing.T) {
	a := fillSimpleAlbum(t, "ab", DirectionLTR)
	a.BeginArranging()
	a.SetAdvance(0, 10)
	a.SetAdvance(1, 20)
	a.EndArranging()
	a.WrapUp()

	edges, stops := a.CaretEdges()
	require.Len(t, edges, 2)
	require.True(t, stops[0])
	require.True(t, stops[1])
}

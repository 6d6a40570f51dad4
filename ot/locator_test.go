package ot

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func newTestAlbum(t *testing.T, glyphs []GlyphID, traits []Traits) *Album {
	t.Helper()
	text := make([]byte, len(glyphs))
	for i := range text {
		text[i] = 'x'
	}
	a := NewAlbum()
	a.Reset(NewCodepointSequence(string(text), DirectionLTR))
	a.BeginFilling()
	for i, g := range glyphs {
		a.AddGlyph(g, traits[i], i)
	}
	a.EndFilling()
	return a
}

func TestLocatorSkipsMarks(t *testing.T) {
	a := newTestAlbum(t,
		[]GlyphID{1, 2, 3},
		[]Traits{TraitBase, TraitMark, TraitBase},
	)
	loc := NewLocator(a, nil)
	loc.SetMask(0)
	loc.SetLookupFlag(LookupFlagIgnoreMarks)
	loc.Reset(0, a.GlyphCount())

	require.True(t, loc.MoveNext())
	require.Equal(t, 0, loc.Index())
	require.True(t, loc.MoveNext())
	require.Equal(t, 2, loc.Index(), "glyph 1 (a mark) must be skipped")
	require.False(t, loc.MoveNext())
}

func TestLocatorVersionSafety(t *testing.T) {
	a := newTestAlbum(t, []GlyphID{1, 2}, []Traits{TraitBase, TraitBase})
	loc := NewLocator(a, nil)
	loc.Reset(0, a.GlyphCount())
	require.True(t, loc.MoveNext())

	// Reset to Empty bumps the album's version without this locator's
	// knowledge; using it afterwards must panic (spec §4.3 "stale
	// snapshot").
	a.Reset(NewCodepointSequence("xy", DirectionLTR))
	require.Panics(t, func() { loc.MoveNext() })

	// A fresh Reset resyncs the snapshot, so this must not panic.
	loc.Reset(0, a.GlyphCount())
	require.NotPanics(t, func() { loc.MoveNext() })
}

func TestLocatorGetAfterGetBefore(t *testing.T) {
	a := newTestAlbum(t, []GlyphID{1, 2, 3}, []Traits{TraitBase, TraitBase, TraitBase})
	loc := NewLocator(a, nil)
	loc.SetMask(0)
	loc.Reset(0, a.GlyphCount())
	require.True(t, loc.MoveNext())

	require.Equal(t, 1, loc.GetAfter(0, true))
	require.Equal(t, InvalidIndex, loc.GetBefore(0, true))
	require.Equal(t, 2, loc.GetAfter(1, true))
}

func TestLocatorGetPrecedingBaseIndexSkipsMarksAndPlaceholders(t *testing.T) {
	a := newTestAlbum(t,
		[]GlyphID{1, 2, 3, 4},
		[]Traits{TraitBase, TraitPlaceholder, TraitMark, TraitMark},
	)
	loc := NewLocator(a, nil)
	loc.SetMask(0)
	loc.Reset(0, a.GlyphCount())
	require.True(t, loc.Skip(4))
	require.Equal(t, 3, loc.Index())

	base := loc.GetPrecedingBaseIndex()
	require.Equal(t, 0, base)
}

func TestAntiFeatureMaskSentinel(t *testing.T) {
	require.Equal(t, ^uint16(0x0001), antiFeatureMask(0x0001))
	require.Equal(t, ^DefaultFeatureMask, antiFeatureMask(0))
}

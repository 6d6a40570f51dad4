package ot

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// TestPairPosFormat1Apply exercises spec §4.7 Type 2 format 1: a single
// pair (glyph 5, glyph 6) carries an XAdvance-only adjustment of +5 on the
// first glyph. Byte layout: header(12) -> PairSet(6) -> Coverage(6).
func TestPairPosFormat1Apply(t *testing.T) {
	data := cat(
		u16b(1),  // format @0
		u16b(18), // coverageOffset @2 -> Coverage @18
		u16b(4),  // valueFormat1 = XAdvance @4
		u16b(0),  // valueFormat2 = none @6
		u16b(1),  // pairSetCount @8
		u16b(12), // pairSet rel @10 -> PairSet @12
		// PairSet @12
		u16b(1),  // pair count
		u16b(6),  // secondGlyph
		i16b(5),  // first.XAdvance
		// Coverage @18
		buildCoverageFormat1(5),
	)
	st := parsePairPos(data, 0)
	require.NotNil(t, st)

	a := newTestAlbum(t, []GlyphID{5, 6}, []Traits{TraitBase, TraitBase})
	a.BeginArranging()
	loc := NewLocator(a, nil)
	loc.SetMask(0)
	loc.Reset(0, a.GlyphCount())
	require.True(t, loc.MoveNext())

	ctx := newApplyContext(a, loc, DirectionLTR)
	require.True(t, st.Apply(ctx))
	require.EqualValues(t, 5, a.GetAdvance(0))
	require.False(t, loc.MoveNext(), "a matched pair consumes both glyphs, leaving nothing further to scan")
}

func TestPairPosFormat1NoMatch(t *testing.T) {
	data := cat(
		u16b(1), u16b(18), u16b(4), u16b(0), u16b(1), u16b(12),
		u16b(1), u16b(6), i16b(5),
		buildCoverageFormat1(5),
	)
	st := parsePairPos(data, 0)

	a := newTestAlbum(t, []GlyphID{5, 9}, []Traits{TraitBase, TraitBase})
	a.BeginArranging()
	loc := NewLocator(a, nil)
	loc.SetMask(0)
	loc.Reset(0, a.GlyphCount())
	require.True(t, loc.MoveNext())

	ctx := newApplyContext(a, loc, DirectionLTR)
	require.False(t, st.Apply(ctx))
	require.EqualValues(t, 0, a.GetAdvance(0))
}

// TestCursivePosApply exercises spec §4.7 Type 3 in LTR: glyph 7's exit
// anchor (100, 0) aligns to glyph 8's entry anchor (20, 0). Apply only
// records the per-link relative offsets (glyph 7's advance ends at its
// exit X, glyph 8's X moves to -entry.X with its advance adjusted to
// match, and glyph 8's Y becomes the raw exit-entry delta); the running Y
// accumulation across the whole chain is resolveCursivePositions's job,
// not Apply's.
func TestCursivePosApply(t *testing.T) {
	data := cat(
		u16b(1),  // format @0
		u16b(26), // coverageOffset @2 -> Coverage @26
		u16b(2),  // entry count @4
		// entries @6 (4 bytes each: entryRel, exitRel)
		u16b(0), u16b(14), // entry 0: no entry anchor, exit @14
		u16b(20), u16b(0), // entry 1: entry anchor @20, no exit
		// exit anchor (glyph 7) @14
		u16b(1), i16b(100), i16b(0),
		// entry anchor (glyph 8) @20
		u16b(1), i16b(20), i16b(0),
		// Coverage @26
		buildCoverageFormat1(7, 8),
	)
	st := parseCursivePos(data, 0)
	require.NotNil(t, st)

	a := newTestAlbum(t, []GlyphID{7, 8}, []Traits{TraitBase, TraitBase})
	a.BeginArranging()
	loc := NewLocator(a, nil)
	loc.SetMask(0)
	loc.Reset(0, a.GlyphCount())
	require.True(t, loc.MoveNext())

	ctx := newApplyContext(a, loc, DirectionLTR)
	require.True(t, st.Apply(ctx))
	require.EqualValues(t, 100, a.GetAdvance(0), "GetX(0)(0) + exit.X(100)")
	require.EqualValues(t, -20, a.GetX(1), "-entry.X(20)")
	require.EqualValues(t, -20, a.GetAdvance(1), "GetAdvance(1)(0) - GetX(1)(0) - entry.X(20)")
	require.EqualValues(t, 0, a.GetY(1), "exit.Y(0) - entry.Y(0)")
	require.EqualValues(t, 1, a.GetCursiveOffset(0))
	require.True(t, a.GetAllTraits(0)&TraitCursive != 0)
	require.True(t, a.GetAllTraits(1)&TraitCursive != 0)
}

// TestMarkBasePosApply exercises spec §4.7 Type 4: a mark glyph (20) with
// anchor (5, 0) attaches to a preceding base glyph (9) whose class-0 anchor
// is (50, 10). Apply only records the raw anchor-to-anchor delta
// (baseAnchor - markAnchor) and the attachment link; resolveMarkPositions
// adds the base's own (resolved) position and closes the advance gap
// between them later, in the resolution sweep.
func TestMarkBasePosApply(t *testing.T) {
	data := cat(
		// header @0
		u16b(1),  // format
		u16b(34), // markCoverageOffset -> @34
		u16b(40), // baseCoverageOffset -> @40
		u16b(1),  // classCount
		u16b(12), // markArrayOffset -> @12
		u16b(24), // baseArrayOffset -> @24
		// MarkArray @12
		u16b(1),       // mark count
		u16b(0), u16b(6), // class 0, anchor rel -> markArray-relative @18
		// mark anchor @18
		u16b(1), i16b(5), i16b(0),
		// BaseArray @24
		u16b(1), // base count
		u16b(4), // [base0][class0] rel -> baseArray-relative @28
		// base anchor @28
		u16b(1), i16b(50), i16b(10),
		// mark coverage @34
		buildCoverageFormat1(20),
		// base coverage @40
		buildCoverageFormat1(9),
	)
	st := parseMarkBasePos(data, 0)
	require.NotNil(t, st)

	a := newTestAlbum(t, []GlyphID{9, 20}, []Traits{TraitBase, TraitMark})
	a.BeginArranging()
	loc := NewLocator(a, nil)
	loc.SetMask(0)
	loc.Reset(0, a.GlyphCount())
	require.True(t, loc.MoveNext())
	require.True(t, loc.MoveNext(), "advance to the mark glyph at index 1")
	require.Equal(t, 1, loc.Index())

	ctx := newApplyContext(a, loc, DirectionLTR)
	require.True(t, st.Apply(ctx))
	require.EqualValues(t, 45, a.GetX(1), "baseAnchor.X(50) - markAnchor.X(5)")
	require.EqualValues(t, 10, a.GetY(1), "baseAnchor.Y(10) - markAnchor.Y(0)")
	require.EqualValues(t, 0, a.GetAdvance(1), "Apply never touches advance; resolution closes the gap")
	require.EqualValues(t, 1, a.GetAttachmentOffset(1))
	require.True(t, a.GetAllTraits(1)&TraitAttached != 0)
}

func TestMarkBasePosNoPrecedingBase(t *testing.T) {
	data := cat(
		u16b(1), u16b(34), u16b(40), u16b(1), u16b(12), u16b(24),
		u16b(1), u16b(0), u16b(6),
		u16b(1), i16b(5), i16b(0),
		u16b(1), u16b(4),
		u16b(1), i16b(50), i16b(10),
		buildCoverageFormat1(20),
		buildCoverageFormat1(9),
	)
	st := parseMarkBasePos(data, 0)

	a := newTestAlbum(t, []GlyphID{20}, []Traits{TraitMark})
	a.BeginArranging()
	loc := NewLocator(a, nil)
	loc.SetMask(0)
	loc.Reset(0, a.GlyphCount())
	require.True(t, loc.MoveNext())

	ctx := newApplyContext(a, loc, DirectionLTR)
	require.False(t, st.Apply(ctx), "no preceding base glyph means no attachment")
}

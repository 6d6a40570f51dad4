package ot

// Shared contextual / chaining-contextual matching infrastructure for
// GSUB types 5/6 and GPOS types 7/8 (spec §4.7). Both tables share the
// exact same three on-disk formats and the exact same nested-lookup
// recursion shape; the only thing that differs is which evaluator family
// (GSUB or GPOS) a nested lookup index dispatches into, which is carried
// as a single function-pointer chosen once per pass rather than resolved
// per call (spec §9 "Dynamic dispatch").

// LookupRecord is one (sequenceIndex, lookupListIndex) nested-lookup
// reference within a context/chaining-context rule.
type LookupRecord struct {
	SequenceIndex  uint16
	LookupListIndex uint16
}

// SequenceRule is one rule of a context (or the input portion of a
// chaining-context) lookup: glyphCount-1 tail values (glyph IDs in format
// 1, class values in format 2, unused in format 3 which uses Coverage
// arrays instead) plus its nested lookups.
type SequenceRule struct {
	Input        []uint16 // format 1/2 only
	LookupRecords []LookupRecord
}

// CoverageArray is format 3's per-position Coverage list.
type CoverageArray []*Coverage

// RecurseFunc applies a nested lookup (by index) to the glyph currently
// under the context cursor, returning whether it had any effect. Supplied
// once per GSUB/GPOS pass by the table that owns the recursion (spec §9).
type RecurseFunc func(lookupIndex uint16, ctx *ApplyContext) bool

// ApplyContext is the shared state every lookup evaluator receives: the
// album, font, a locator already positioned and filtered for this lookup,
// and the recursion hook for nested context lookups.
type ApplyContext struct {
	Album      *Album
	Font       *Font
	GDEF       *GDEF
	Locator    *Locator
	Direction  Direction
	LookupFlag uint16
	Recurse    RecurseFunc
	// FeatureValue carries the feature value that selected the current
	// lookup (e.g. a user override's alt-index), used by GSUB Alternate
	// substitution (spec §4.7 Type 3).
	FeatureValue uint32
}

// matchInput walks count-1 further input positions starting after start,
// honoring the locator's current skip filter, and returns their absolute
// indices (including start itself as element 0) or nil on failure. This
// implements spec §4.7's "Match input against glyphs via LocatorGetAfter".
func matchInput(ctx *ApplyContext, start int, count int, matches func(pos int, seqIdx int) bool) []int {
	positions := make([]int, 1, count)
	positions[0] = start
	cur := start
	for seqIdx := 1; seqIdx < count; seqIdx++ {
		next := ctx.Locator.GetAfter(cur, true)
		if next == InvalidIndex || !matches(next, seqIdx) {
			return nil
		}
		positions = append(positions, next)
		cur = next
	}
	return positions
}

// matchBacktrack walks count backtrack positions before start, in reverse
// (spec §4.7 Chaining context: "Backtrack matching uses
// LocatorGetBefore(bounded=false)").
func matchBacktrack(ctx *ApplyContext, start int, count int, matches func(pos int, i int) bool) bool {
	cur := start
	for i := 0; i < count; i++ {
		prev := ctx.Locator.GetBefore(cur, false)
		if prev == InvalidIndex || !matches(prev, i) {
			return false
		}
		cur = prev
	}
	return true
}

// matchLookahead walks count lookahead positions after the input's end
// (spec §4.7: "lookahead uses LocatorGetAfter(bounded=false) starting
// from the input's end").
func matchLookahead(ctx *ApplyContext, afterInput int, count int, matches func(pos int, i int) bool) bool {
	cur := afterInput
	for i := 0; i < count; i++ {
		next := ctx.Locator.GetAfter(cur, false)
		if next == InvalidIndex || !matches(next, i) {
			return false
		}
		cur = next
	}
	return true
}

// applyNestedLookups drives the nested (sequenceIndex, lookupListIndex)
// recursion once a rule has matched, per spec §4.7 Context: narrow the
// locator to the matched range, jump+skip to each referenced glyph,
// recurse, save/restore the filter around each call, then restore the
// original range extended by any length delta.
func applyNestedLookups(ctx *ApplyContext, positions []int, records []LookupRecord) {
	origStart := positions[0]
	origEnd := positions[len(positions)-1] + 1
	savedRangeStart, savedRangeCount := ctx.Locator.rangeStart, ctx.Locator.rangeCount
	beforeLen := ctx.Album.GlyphCount()

	ctx.Locator.AdjustRange(origStart, origEnd-origStart)
	for _, rec := range records {
		if int(rec.SequenceIndex) >= len(positions) {
			continue
		}
		savedFilter := ctx.Locator.filter
		ctx.Locator.JumpTo(positions[rec.SequenceIndex])
		if !ctx.Locator.MoveNext() {
			ctx.Locator.filter = savedFilter
			continue
		}
		ctx.Recurse(rec.LookupListIndex, ctx)
		ctx.Locator.filter = savedFilter
	}

	delta := ctx.Album.GlyphCount() - beforeLen
	ctx.Locator.AdjustRange(savedRangeStart, savedRangeCount+delta)
}

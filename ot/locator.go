package ot

// Locator is a filtered bidirectional cursor over an Album that implements
// OpenType's glyph-skipping lookup flags. Grounded on SheenFigure's
// Locator.h/.c, including its LocatorFilter shape.

// LookupFlag bits (OpenType "Lookup Flag").
const (
	LookupFlagRightToLeft         uint16 = 0x0001
	LookupFlagIgnoreBaseGlyphs    uint16 = 0x0002
	LookupFlagIgnoreLigatures     uint16 = 0x0004
	LookupFlagIgnoreMarks         uint16 = 0x0008
	LookupFlagUseMarkFilteringSet uint16 = 0x0010
	lookupFlagMarkAttachShift            = 8
)

func markAttachType(flag uint16) uint16 { return flag >> lookupFlagMarkAttachShift }

// InvalidIndex indicates "before first" or "past end".
const InvalidIndex = -1

// LocatorFilter bundles the ignore rule's three inputs (spec §3).
type LocatorFilter struct {
	MarkFilteringCoverage *Coverage
	IgnoreMask            uint32 // upper 16 bits: anti-feature-mask; lower 16: traits-section mask
	LookupFlag            uint16
}

// Locator is the filtered cursor described by spec §3/§4.3.
type Locator struct {
	album            *Album
	version          uint64
	rangeStart       int
	rangeCount       int
	comingIndex      int
	index            int
	filter           LocatorFilter
	markAttachClass  *ClassDef
	markGlyphSetsDef *GDEF // source of named mark-glyph-sets, looked up by index
}

// NewLocator constructs a Locator borrowing album, with the GDEF tables
// that seed its ignore-rule inputs (spec §4.6 Initialize).
func NewLocator(album *Album, gdef *GDEF) *Locator {
	l := &Locator{album: album}
	if gdef != nil {
		l.markAttachClass = gdef.markAttachDef
		l.markGlyphSetsDef = gdef
	}
	return l
}

// SetMask recomputes the feature-mask component of the ignore rule (spec
// §4.3 "Anti-feature-mask rule").
func (l *Locator) SetMask(unitMask uint16) {
	anti := antiFeatureMask(unitMask)
	l.filter.IgnoreMask = (l.filter.IgnoreMask &^ (0xFFFF << 16)) | uint32(anti)<<16
}

// SetLookupFlag derives the traits-section ignore mask from a lookup flag
// (spec §4.3 point 1b) and records the flag for the mark-filter checks.
func (l *Locator) SetLookupFlag(flag uint16) {
	l.filter.LookupFlag = flag
	var traitsMask Traits = TraitPlaceholder
	if flag&LookupFlagIgnoreBaseGlyphs != 0 {
		traitsMask |= TraitBase
	}
	if flag&LookupFlagIgnoreLigatures != 0 {
		traitsMask |= TraitLigature
	}
	if flag&LookupFlagIgnoreMarks != 0 {
		traitsMask |= TraitMark
	}
	l.filter.IgnoreMask = (l.filter.IgnoreMask &^ 0xFFFF) | uint32(traitsMask)
}

// SetMarkFilteringSet installs the named coverage used when the lookup
// flag has UseMarkFilteringSet.
func (l *Locator) SetMarkFilteringSet(index uint16) {
	if l.markGlyphSetsDef != nil {
		l.filter.MarkFilteringCoverage = l.markGlyphSetsDef.MarkGlyphSet(index)
	}
}

// Reset snapshots the album's version and positions the cursor just
// before start (spec §4.3).
func (l *Locator) Reset(start, count int) {
	l.version = l.album.Version()
	l.rangeStart = start
	l.rangeCount = count
	l.comingIndex = start
	l.index = InvalidIndex
}

// AdjustRange extends or shrinks the active range without moving the
// cursor, used after nested-lookup application changes the album's
// length (spec §4.7 Context, "extending its count by any length delta").
func (l *Locator) AdjustRange(start, count int) {
	l.rangeStart = start
	l.rangeCount = count
}

func (l *Locator) checkVersion() {
	if l.version != l.album.Version() {
		panic("ot: locator used after album was mutated by another locator")
	}
}

func (l *Locator) rangeEnd() int { return l.rangeStart + l.rangeCount }

// IsIgnored reports whether the glyph at i should be skipped by the
// active filter (spec §4.3 "IsIgnored contract").
func (l *Locator) IsIgnored(i int) bool {
	d := l.album.details[i]
	if uint32(d.Traits)&(l.filter.IgnoreMask&0xFFFF) != 0 {
		return true
	}
	if uint32(d.FeatureMask)&(l.filter.IgnoreMask>>16) != 0 {
		return true
	}
	if d.Traits&TraitMark != 0 {
		flag := l.filter.LookupFlag
		if flag&LookupFlagUseMarkFilteringSet != 0 && l.filter.MarkFilteringCoverage != nil {
			if !l.filter.MarkFilteringCoverage.Contains(l.album.glyphs[i]) {
				return true
			}
		}
		if attach := markAttachType(flag); attach != 0 && l.markAttachClass != nil {
			if l.markAttachClass.Class(l.album.glyphs[i]) != attach {
				return true
			}
		}
	}
	return false
}

// MoveNext advances one step, skipping ignored glyphs, within [rangeStart,
// rangeEnd). Returns false (and sets index to InvalidIndex) once the
// range is exhausted.
func (l *Locator) MoveNext() bool {
	l.checkVersion()
	for l.comingIndex < l.rangeEnd() {
		i := l.comingIndex
		l.comingIndex++
		if !l.IsIgnored(i) {
			l.index = i
			return true
		}
	}
	l.index = InvalidIndex
	return false
}

// MovePrevious is MoveNext's mirror, scanning backward from just before
// the current comingIndex down to rangeStart.
func (l *Locator) MovePrevious() bool {
	l.checkVersion()
	for l.comingIndex > l.rangeStart {
		l.comingIndex--
		i := l.comingIndex
		if !l.IsIgnored(i) {
			l.index = i
			return true
		}
	}
	l.index = InvalidIndex
	return false
}

// Index is the cursor's current position, or InvalidIndex.
func (l *Locator) Index() int { return l.index }

// Skip advances n successful MoveNexts, failing (without partial effect
// observable beyond the cursor's final rest position) if fewer are
// available.
func (l *Locator) Skip(n int) bool {
	for k := 0; k < n; k++ {
		if !l.MoveNext() {
			return false
		}
	}
	return true
}

// JumpTo repositions the cursor so the next MoveNext starts scanning from
// index (spec §4.3).
func (l *Locator) JumpTo(index int) {
	if index < l.rangeStart || index > l.rangeEnd() {
		panic("ot: Locator.JumpTo index out of range")
	}
	l.comingIndex = index
	l.index = InvalidIndex
}

// GetAfter performs a non-destructive forward scan for the next
// non-ignored glyph after i. bounded restricts the scan to the locator's
// active range; unbounded scans to the end of the album.
func (l *Locator) GetAfter(i int, bounded bool) int {
	end := len(l.album.glyphs)
	if bounded {
		end = l.rangeEnd()
	}
	for j := i + 1; j < end; j++ {
		if !l.IsIgnored(j) {
			return j
		}
	}
	return InvalidIndex
}

// GetBefore is GetAfter's mirror, scanning backward from i.
func (l *Locator) GetBefore(i int, bounded bool) int {
	start := 0
	if bounded {
		start = l.rangeStart
	}
	for j := i - 1; j >= start; j-- {
		if !l.IsIgnored(j) {
			return j
		}
	}
	return InvalidIndex
}

// withTraitsOverride temporarily substitutes the traits-section ignore
// mask, runs fn, and restores the original filter — the save/restore
// discipline spec §4.3/§4.7/§9 requires around every recursive or
// ad-hoc-filter use of the locator.
func (l *Locator) withTraitsOverride(mask Traits, fn func()) {
	saved := l.filter
	l.filter.IgnoreMask = (l.filter.IgnoreMask &^ 0xFFFF) | uint32(mask)
	fn()
	l.filter = saved
}

// GetPrecedingBaseIndex returns the preceding non-ignored glyph while
// temporarily ignoring placeholders, marks and sequence components —
// the base a mark attaches to (spec §4.3).
func (l *Locator) GetPrecedingBaseIndex() int {
	result := InvalidIndex
	l.withTraitsOverride(TraitPlaceholder|TraitMark|TraitSequence, func() {
		result = l.GetBefore(l.index, false)
	})
	return result
}

// GetPrecedingLigatureIndex returns the preceding ligature glyph (ignoring
// placeholders and marks) and, as component, which ligature component
// the mark binds to: the count of placeholder glyphs between the
// ligature and the mark (spec §4.3).
func (l *Locator) GetPrecedingLigatureIndex() (ligIndex int, component int) {
	ligIndex = InvalidIndex
	l.withTraitsOverride(TraitPlaceholder|TraitMark, func() {
		ligIndex = l.GetBefore(l.index, false)
	})
	if ligIndex == InvalidIndex {
		return InvalidIndex, 0
	}
	for j := ligIndex + 1; j < l.index; j++ {
		if l.album.details[j].Traits&TraitPlaceholder != 0 {
			component++
		}
	}
	return ligIndex, component
}

// GetPrecedingMarkIndex returns the preceding non-placeholder glyph with
// nothing else ignored (spec §4.3): it overrides the traits mask to None,
// then rejects the candidate if it turned out to be a placeholder.
func (l *Locator) GetPrecedingMarkIndex() int {
	result := InvalidIndex
	l.withTraitsOverride(TraitNone, func() {
		result = l.GetBefore(l.index, false)
	})
	if result != InvalidIndex && l.album.details[result].Traits&TraitPlaceholder != 0 {
		return InvalidIndex
	}
	return result
}

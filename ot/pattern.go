package ot

import "sort"

// Pattern is the immutable, compiled shaping plan produced by a Scheme
// (spec §3, §4.4). Grounded on SheenFigure's SFPattern.h and
// SFPatternBuilder.h.

// LookupRef pairs a lookup-list index with the feature value that
// selected it (needed by GSUB Alternate substitution, spec §4.7).
type LookupRef struct {
	Index uint16
	Value uint32
}

// FeatureUnit bundles lookups that share one locator mask — the features
// added between two MakeFeatureUnit calls (spec §3, §4.4).
type FeatureUnit struct {
	Lookups    []LookupRef // sorted unique by Index ascending
	RangeStart int         // into Pattern.FeatureTags
	RangeCount int
	Mask       uint16
}

// Pattern is immutable after PatternBuilder.Build.
type Pattern struct {
	Font         *Font
	FeatureTags  []Tag
	FeatureUnits []FeatureUnit
	GSUBCount    int // FeatureUnits[:GSUBCount] are substitution units
	ScriptTag    Tag
	LanguageTag  Tag
	Direction    Direction

	retainCnt int32
}

func (p *Pattern) Retain() *Pattern { p.retainCnt++; return p }
func (p *Pattern) Release()         { p.retainCnt-- }

// GSUBUnits / GPOSUnits split FeatureUnits at the GSUB/GPOS boundary.
func (p *Pattern) GSUBUnits() []FeatureUnit { return p.FeatureUnits[:p.GSUBCount] }
func (p *Pattern) GPOSUnits() []FeatureUnit { return p.FeatureUnits[p.GSUBCount:] }

// pendingLookup tracks a lookup queued for the feature unit under
// construction; AddLookup deduplicates by index, keeping the latest value
// (spec §4.4).
type pendingLookup struct {
	index uint16
	value uint32
}

// PatternBuilder accumulates features in two phases (Substitution, then
// Positioning) and emits FeatureUnits (spec §4.4).
type PatternBuilder struct {
	font        *Font
	scriptTag   Tag
	languageTag Tag
	direction   Direction

	tags  []Tag
	units []FeatureUnit
	gsubCount int
	inPositioning bool

	pendingStart int // index into tags where the current unit begins
	pendingMask  uint16
	pendingLookups map[uint16]uint32
	pendingOrder   []uint16 // insertion order, for deterministic dedup
}

// NewPatternBuilder starts building a pattern for font in the given
// script/language/direction.
func NewPatternBuilder(font *Font, scriptTag, languageTag Tag, direction Direction) *PatternBuilder {
	return &PatternBuilder{
		font: font, scriptTag: scriptTag, languageTag: languageTag, direction: direction,
		pendingLookups: make(map[uint16]uint32),
	}
}

// StartPositioning closes the substitution phase; subsequent
// MakeFeatureUnit calls append to the GPOS half of the final pattern.
func (b *PatternBuilder) StartPositioning() {
	if !b.inPositioning {
		b.gsubCount = len(b.units)
		b.inPositioning = true
	}
}

// AddFeature records a feature tag+mask for the unit under construction
// (spec §4.4). The feature's selected value is carried per-lookup instead
// (AddLookup), since that is what Alternate substitution actually reads.
func (b *PatternBuilder) AddFeature(tag Tag, mask uint16) {
	b.tags = append(b.tags, tag)
	b.pendingMask |= mask
}

// AddLookup queues a lookup for the pending unit, deduplicating by index
// with the latest value winning (spec §4.4).
func (b *PatternBuilder) AddLookup(lookupIndex uint16, value uint32) {
	if _, seen := b.pendingLookups[lookupIndex]; !seen {
		b.pendingOrder = append(b.pendingOrder, lookupIndex)
	}
	b.pendingLookups[lookupIndex] = value
}

// MakeFeatureUnit sorts pending lookups ascending by index, emits a
// FeatureUnit covering every feature tag added since the previous unit,
// and resets pending state (spec §4.4).
func (b *PatternBuilder) MakeFeatureUnit() {
	if len(b.pendingOrder) == 0 && len(b.tags) == b.pendingStart {
		return
	}
	lookups := make([]LookupRef, 0, len(b.pendingOrder))
	for _, idx := range b.pendingOrder {
		lookups = append(lookups, LookupRef{Index: idx, Value: b.pendingLookups[idx]})
	}
	sort.Slice(lookups, func(i, j int) bool { return lookups[i].Index < lookups[j].Index })

	b.units = append(b.units, FeatureUnit{
		Lookups:    lookups,
		RangeStart: b.pendingStart,
		RangeCount: len(b.tags) - b.pendingStart,
		Mask:       b.pendingMask,
	})

	b.pendingStart = len(b.tags)
	b.pendingMask = 0
	b.pendingLookups = make(map[uint16]uint32)
	b.pendingOrder = nil
}

// Build finalizes the pattern. If positioning was never explicitly
// started (no GPOS features resolved), every unit is treated as GSUB.
func (b *PatternBuilder) Build() *Pattern {
	b.StartPositioning()
	return &Pattern{
		Font:         b.font,
		FeatureTags:  b.tags,
		FeatureUnits: b.units,
		GSUBCount:    b.gsubCount,
		ScriptTag:    b.scriptTag,
		LanguageTag:  b.languageTag,
		Direction:    b.direction,
		retainCnt:    1,
	}
}

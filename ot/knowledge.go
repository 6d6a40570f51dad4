package ot

// Script knowledge: the fixed, ordered list of features a Scheme resolves
// for a given script, and how those features group into feature units
// (spec §4.5). Grounded on boxesandglue/textshape's ot_map.go feature-stage
// ordering, generalized into data instead of code so Standard and Arabic
// can share one resolution algorithm (scheme.go).

// Feature-mask bits stamped onto Arabic glyphs by the joining pass
// (arabic_joining.go) to select exactly one of the four joining-form
// lookups per glyph.
const (
	arabicIsolMask uint16 = 1 << 0
	arabicInitMask uint16 = 1 << 1
	arabicMediMask uint16 = 1 << 2
	arabicFinaMask uint16 = 1 << 3
)

// FeatureInfo describes one feature a Scheme may resolve into the plan.
// Mask 0 means the feature applies broadly: its FeatureUnit gets mask 0,
// so every glyph (default-masked or not) is eligible, which is correct
// for substitutions like ccmp/rlig/calt that aren't gated by per-glyph
// state. A nonzero Mask is a narrow bit that some earlier pass (the
// Arabic joining stamp) must have already written onto a glyph's
// FeatureMask for that glyph to participate — this is how isol/init/
// medi/fina stay mutually exclusive per glyph: each runs as its own unit
// whose mask admits only glyphs stamped with its bit. Group > 0 merges consecutive entries sharing that Group
// into a single FeatureUnit (spec §4.4 "simultaneous" features); Group 0
// means "its own unit".
type FeatureInfo struct {
	Tag   Tag
	Mask  uint16
	Group int
}

var arabicGroupJoining = 1

// arabicFeatures is the ordered Arabic-script GSUB/GPOS feature table
// (spec §4.6). The four joining forms are separate units: a unit's mask is
// the OR of its features' masks, so grouping them would let every stamped
// glyph match the lookups of all four forms. Each unit's own mask leaves
// the Arabic joining stamp to decide which of the four applies per glyph.
var arabicFeatures = []FeatureInfo{
	{Tag: MakeTag('c', 'c', 'm', 'p')},
	{Tag: MakeTag('i', 's', 'o', 'l'), Mask: arabicIsolMask},
	{Tag: MakeTag('f', 'i', 'n', 'a'), Mask: arabicFinaMask},
	{Tag: MakeTag('m', 'e', 'd', 'i'), Mask: arabicMediMask},
	{Tag: MakeTag('i', 'n', 'i', 't'), Mask: arabicInitMask},
	{Tag: MakeTag('r', 'l', 'i', 'g')},
	{Tag: MakeTag('c', 'a', 'l', 't')},
	{Tag: MakeTag('l', 'i', 'g', 'a')},
	{Tag: MakeTag('c', 'l', 'i', 'g')},
	// --- positioning side ---
	{Tag: MakeTag('c', 'u', 'r', 's')},
	{Tag: MakeTag('k', 'e', 'r', 'n')},
	{Tag: MakeTag('m', 'a', 'r', 'k')},
	{Tag: MakeTag('m', 'k', 'm', 'k')},
}

// arabicGSUBFeatureCount marks where the substitution side ends: the
// Scheme calls PatternBuilder.StartPositioning after resolving this many
// entries of arabicFeatures.
const arabicGSUBFeatureCount = 9

// standardFeatures is the Latin-family default feature table (spec §4.5
// "Standard" script knowledge): no joining forms, so every entry is its
// own broad unit.
var standardFeatures = []FeatureInfo{
	{Tag: MakeTag('c', 'c', 'm', 'p')},
	{Tag: MakeTag('l', 'o', 'c', 'l')},
	{Tag: MakeTag('c', 'a', 'l', 't')},
	{Tag: MakeTag('l', 'i', 'g', 'a')},
	{Tag: MakeTag('c', 'l', 'i', 'g')},
	{Tag: MakeTag('r', 'l', 'i', 'g')},
	// --- positioning side ---
	{Tag: MakeTag('k', 'e', 'r', 'n')},
	{Tag: MakeTag('m', 'a', 'r', 'k')},
	{Tag: MakeTag('m', 'k', 'm', 'k')},
}

const standardGSUBFeatureCount = 6

// featureTableFor resolves the script knowledge table + GSUB/GPOS split
// point for scriptTag (spec §4.5 step 1). Arabic is the one script this
// engine special-cases beyond the Latin-family default (spec's explicit
// scope, §1).
func featureTableFor(scriptTag Tag) ([]FeatureInfo, int) {
	if scriptTag == TagArabic {
		return arabicFeatures, arabicGSUBFeatureCount
	}
	return standardFeatures, standardGSUBFeatureCount
}

package ot

// Scheme resolves a script, language, font and optional user feature
// overrides into a compiled Pattern (spec §3, §4.5). Grounded on
// SheenFigure's SFScheme, built on top of PatternBuilder (pattern.go) and
// the script knowledge tables (knowledge.go).

// Scheme is a reusable resolver bound to one font, script, language and
// direction; BuildPattern applies a fresh set of user overrides each call
// (spec §4.5: "a Scheme is cheap to reuse across runs that share a
// script/language but differ in which optional features a caller wants").
type Scheme struct {
	font        *Font
	scriptTag   Tag
	languageTag Tag
	direction   Direction
}

// NewScheme binds a Scheme to the font/script/language/direction whose
// lookups it will resolve.
func NewScheme(font *Font, scriptTag, languageTag Tag, direction Direction) *Scheme {
	return &Scheme{font: font, scriptTag: scriptTag, languageTag: languageTag, direction: direction}
}

// FeatureOverride lets a caller force a feature on/off or select a
// specific value (e.g. an Alternate substitution's alt index) regardless
// of the script knowledge table's default (spec §4.4, §4.5 step 5).
type FeatureOverride struct {
	Tag     Tag
	Enabled bool
	Value   uint32
}

// BuildPattern resolves script knowledge against the font's GSUB/GPOS
// tables and produces the immutable Pattern a TextProcessor shapes with
// (spec §4.5 steps 1-5).
func (s *Scheme) BuildPattern(overrides []FeatureOverride) *Pattern {
	table, gsubSplit := featureTableFor(s.scriptTag)
	b := NewPatternBuilder(s.font, s.scriptTag, s.languageTag, s.direction)

	overrideMap := make(map[Tag]FeatureOverride, len(overrides))
	for _, o := range overrides {
		overrideMap[o.Tag] = o
	}

	if gsub := s.font.GSUB(); gsub != nil {
		resolveSide(b, table[:gsubSplit], gsub.ScriptList(), gsub.FeatureList(), s.scriptTag, s.languageTag, overrideMap)
	}
	b.StartPositioning()
	if gpos := s.font.GPOS(); gpos != nil {
		resolveSide(b, table[gsubSplit:], gpos.ScriptList(), gpos.FeatureList(), s.scriptTag, s.languageTag, overrideMap)
	}

	return b.Build()
}

// resolveSide walks one side's feature table (GSUB or GPOS), looking up
// each feature in the resolved LangSys + FeatureList, honoring user
// overrides, and emitting FeatureUnits at each group boundary (spec §4.5
// step 3-4).
func resolveSide(b *PatternBuilder, table []FeatureInfo, scriptList *ScriptList, featureList *FeatureList, scriptTag, languageTag Tag, overrides map[Tag]FeatureOverride) {
	if scriptList == nil || featureList == nil {
		return
	}
	langSys := scriptList.FindLangSys(scriptTag, languageTag)
	if langSys == nil {
		return
	}

	available := make(map[Tag]FeatureRecord, len(langSys.FeatureIndices)+1)
	for _, idx := range langSys.FeatureIndices {
		if fr, ok := featureList.Feature(idx); ok {
			available[fr.Tag] = fr
		}
	}
	if langSys.RequiredFeatureIndex != 0xFFFF {
		if fr, ok := featureList.Feature(langSys.RequiredFeatureIndex); ok {
			available[fr.Tag] = fr
		}
	}

	currentGroup := -1
	groupOpen := false
	for i, info := range table {
		if groupOpen && (info.Group == 0 || info.Group != currentGroup) {
			b.MakeFeatureUnit()
			groupOpen = false
		}

		fr, present := available[info.Tag]
		override, overridden := overrides[info.Tag]
		if overridden && !override.Enabled {
			continue
		}
		if !present && !(overridden && override.Enabled) {
			continue
		}

		value := uint32(1)
		if overridden {
			value = override.Value
		}

		b.AddFeature(info.Tag, info.Mask)
		for _, lookupIdx := range fr.LookupListIdxs {
			b.AddLookup(lookupIdx, value)
		}

		if info.Group != 0 {
			currentGroup = info.Group
			groupOpen = true
		} else {
			b.MakeFeatureUnit()
		}

		// Flush a still-open group at the end of the table, or just
		// before a non-grouped entry that already closed it above.
		if i == len(table)-1 && groupOpen {
			b.MakeFeatureUnit()
		}
	}
}

package ot

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSchemeBuildPatternResolvesAvailableFeature(t *testing.T) {
	font := newFixtureFont()
	scheme := NewScheme(font, TagLatin, TagLanguageDefault, DirectionLTR)

	p := scheme.BuildPattern(nil)
	require.Len(t, p.GSUBUnits(), 1, "only 'liga' is present in the fixture's LangSys")
	require.Empty(t, p.GPOSUnits())

	unit := p.GSUBUnits()[0]
	require.Equal(t, []LookupRef{{Index: 0, Value: 1}}, unit.Lookups)
}

func TestSchemeOverrideDisablesFeature(t *testing.T) {
	font := newFixtureFont()
	scheme := NewScheme(font, TagLatin, TagLanguageDefault, DirectionLTR)

	p := scheme.BuildPattern([]FeatureOverride{
		{Tag: MakeTag('l', 'i', 'g', 'a'), Enabled: false},
	})
	require.Empty(t, p.GSUBUnits(), "an explicit override disabling 'liga' must drop its unit entirely")
}

func TestSchemeUnknownScriptFallsBackToDefault(t *testing.T) {
	font := newFixtureFont()
	// 'latn' isn't registered under DFLT, and the fixture only registers
	// 'latn' itself, so an unrelated script tag resolves nothing.
	scheme := NewScheme(font, TagArabic, TagLanguageDefault, DirectionRTL)
	p := scheme.BuildPattern(nil)
	require.Empty(t, p.GSUBUnits())
}

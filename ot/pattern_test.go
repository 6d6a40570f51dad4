package ot

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPatternBuilderMakeFeatureUnitSortsLookups(t *testing.T) {
	b := NewPatternBuilder(nil, TagLatin, TagLanguageDefault, DirectionLTR)
	b.AddFeature(MakeTag('l', 'i', 'g', 'a'), 0x0001)
	b.AddLookup(5, 1)
	b.AddLookup(2, 1)
	b.AddLookup(5, 2) // duplicate index, last value wins
	b.MakeFeatureUnit()

	p := b.Build()
	require.Len(t, p.FeatureUnits, 1)
	unit := p.FeatureUnits[0]
	require.Equal(t, []LookupRef{{Index: 2, Value: 1}, {Index: 5, Value: 2}}, unit.Lookups)
	require.Equal(t, uint16(0x0001), unit.Mask)
}

func TestPatternBuilderGSUBGPOSSplit(t *testing.T) {
	b := NewPatternBuilder(nil, TagArabic, TagLanguageDefault, DirectionRTL)
	b.AddFeature(MakeTag('r', 'l', 'i', 'g'), 0)
	b.AddLookup(0, 1)
	b.MakeFeatureUnit()

	b.StartPositioning()
	b.AddFeature(MakeTag('m', 'a', 'r', 'k'), 0)
	b.AddLookup(1, 1)
	b.MakeFeatureUnit()

	p := b.Build()
	require.Equal(t, 1, p.GSUBCount)
	require.Len(t, p.GSUBUnits(), 1)
	require.Len(t, p.GPOSUnits(), 1)
	require.Equal(t, DirectionRTL, p.Direction)
}

func TestPatternRetainRelease(t *testing.T) {
	b := NewPatternBuilder(nil, TagLatin, TagLanguageDefault, DirectionLTR)
	p := b.Build()
	p.Retain()
	require.EqualValues(t, 2, p.retainCnt)
	p.Release()
	require.EqualValues(t, 1, p.retainCnt)
}

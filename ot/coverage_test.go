package ot

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCoverageFormat1Index(t *testing.T) {
	data := buildCoverageFormat1(5, 9, 20)
	cov, ok := ParseCoverage(data, 0)
	require.True(t, ok)

	require.EqualValues(t, 0, cov.Index(5))
	require.EqualValues(t, 1, cov.Index(9))
	require.EqualValues(t, 2, cov.Index(20))
	require.Equal(t, NotCovered, cov.Index(6))
	require.True(t, cov.Contains(9))
	require.False(t, cov.Contains(100))
}

func TestCoverageFormat2Ranges(t *testing.T) {
	// One range record: glyphs 10..14 map to coverage indices 0..4.
	data := cat(u16b(2), u16b(1), u16b(10), u16b(14), u16b(0))
	cov, ok := ParseCoverage(data, 0)
	require.True(t, ok)

	require.EqualValues(t, 0, cov.Index(10))
	require.EqualValues(t, 4, cov.Index(14))
	require.Equal(t, NotCovered, cov.Index(15))
	require.Equal(t, NotCovered, cov.Index(9))
}

func TestCoverageGlyphsEnumeration(t *testing.T) {
	data := buildCoverageFormat1(3, 7, 11)
	cov, ok := ParseCoverage(data, 0)
	require.True(t, ok)
	require.Equal(t, []GlyphID{3, 7, 11}, cov.Glyphs())
}

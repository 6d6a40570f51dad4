package ot

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestClassDefFormat1(t *testing.T) {
	data := buildClassDefFormat1(10, 1, 2, 0, 3)
	cd, ok := ParseClassDef(data, 0)
	require.True(t, ok)

	require.EqualValues(t, 1, cd.Class(10))
	require.EqualValues(t, 2, cd.Class(11))
	require.EqualValues(t, 0, cd.Class(12))
	require.EqualValues(t, 3, cd.Class(13))
	require.EqualValues(t, 0, cd.Class(9))  // before range
	require.EqualValues(t, 0, cd.Class(14)) // after range
}

func TestClassDefFormat2Ranges(t *testing.T) {
	data := cat(u16b(2), u16b(2),
		u16b(20), u16b(25), u16b(1),
		u16b(30), u16b(30), u16b(2),
	)
	cd, ok := ParseClassDef(data, 0)
	require.True(t, ok)

	require.EqualValues(t, 1, cd.Class(20))
	require.EqualValues(t, 1, cd.Class(25))
	require.EqualValues(t, 2, cd.Class(30))
	require.EqualValues(t, 0, cd.Class(26))
}

func TestClassDefNilReceiverIsClassZero(t *testing.T) {
	var cd *ClassDef
	require.EqualValues(t, 0, cd.Class(5))
}

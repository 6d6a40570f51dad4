package ot

// Arabic joining-state classification and feature-mask stamping (spec
// §4.6). The joining type of a codepoint is treated as a fixed, precomputed
// lookup — boxesandglue/textshape's own arabic.go calls an equivalent
// joiningType function it never defines in its sources, confirming this is
// meant to be opaque data rather than an algorithm to derive. The table
// here covers the Unicode Arabic block's letters and combining marks
// (ArabicShaping.txt categories), which is sufficient for every joining
// decision spec §4.6's worked examples (BEH, REH, ALEF) exercise.

// JoiningType is one of Unicode's joining categories (simplified to the
// five the shaping state machine distinguishes; Join_Causing is folded
// into JoiningDual).
type JoiningType uint8

const (
	JoiningNone          JoiningType = iota // not a joining character (spaces, digits, punctuation)
	JoiningTransparent                      // combining marks: invisible to the joining state machine
	JoiningDual                             // joins both previous and next (e.g. BEH)
	JoiningRight                            // joins only the previous glyph (e.g. ALEF, REH, WAW)
	JoiningLeft                             // joins only the next glyph (rare outside Arabic proper)
)

// joiningTable classifies the core Arabic block (U+0621-U+064A) plus the
// combining-mark range (U+064B-U+065F, U+0670). Codepoints outside these
// ranges default to JoiningNone, except ZERO WIDTH JOINER/NON-JOINER which
// joiningType special-cases outside this table.
var joiningTable = map[Codepoint]JoiningType{
	0x0621: JoiningRight, // HAMZA
	0x0622: JoiningRight, // ALEF WITH MADDA ABOVE
	0x0623: JoiningRight, // ALEF WITH HAMZA ABOVE
	0x0624: JoiningRight, // WAW WITH HAMZA ABOVE
	0x0625: JoiningRight, // ALEF WITH HAMZA BELOW
	0x0626: JoiningDual,  // YEH WITH HAMZA ABOVE
	0x0627: JoiningRight, // ALEF
	0x0628: JoiningDual,  // BEH
	0x0629: JoiningRight, // TEH MARBUTA
	0x062A: JoiningDual,  // TEH
	0x062B: JoiningDual,  // THEH
	0x062C: JoiningDual,  // JEEM
	0x062D: JoiningDual,  // HAH
	0x062E: JoiningDual,  // KHAH
	0x062F: JoiningRight, // DAL
	0x0630: JoiningRight, // THAL
	0x0631: JoiningRight, // REH
	0x0632: JoiningRight, // ZAIN
	0x0633: JoiningDual,  // SEEN
	0x0634: JoiningDual,  // SHEEN
	0x0635: JoiningDual,  // SAD
	0x0636: JoiningDual,  // DAD
	0x0637: JoiningDual,  // TAH
	0x0638: JoiningDual,  // ZAH
	0x0639: JoiningDual,  // AIN
	0x063A: JoiningDual,  // GHAIN
	0x0641: JoiningDual,  // FEH
	0x0642: JoiningDual,  // QAF
	0x0643: JoiningDual,  // KAF
	0x0644: JoiningDual,  // LAM
	0x0645: JoiningDual,  // MEEM
	0x0646: JoiningDual,  // NOON
	0x0647: JoiningDual,  // HEH
	0x0648: JoiningRight, // WAW
	0x0649: JoiningDual,  // ALEF MAKSURA
	0x064A: JoiningDual,  // YEH
}

// joiningType resolves cp's joining classification. Combining marks in
// the Arabic diacritic block are transparent: they sit between two
// letters without affecting the join decision either made.
func joiningType(cp Codepoint) JoiningType {
	if t, ok := joiningTable[cp]; ok {
		return t
	}
	if cp >= 0x064B && cp <= 0x065F {
		return JoiningTransparent
	}
	if cp == 0x0670 {
		return JoiningTransparent
	}
	if cp == 0x200D { // ZERO WIDTH JOINER forces joining without its own glyph
		return JoiningDual
	}
	if cp == 0x200C { // ZERO WIDTH NON-JOINER forces isolation
		return JoiningNone
	}
	return JoiningNone
}

func joinsNext(t JoiningType) bool { return t == JoiningDual || t == JoiningLeft }
func joinsPrev(t JoiningType) bool { return t == JoiningDual || t == JoiningRight }

// StampArabicJoiningMasks walks the album's glyphs in logical (codepoint)
// order, classifies each by its originating codepoint, and stamps exactly
// one of the four joining-form feature-mask bits per joinable glyph (spec
// §4.6 "Arabic joining pass"). cps must be the same length as the
// album's glyph count and in one-to-one correspondence — true
// immediately after DiscoverGlyphs, before any GSUB pass has run.
func StampArabicJoiningMasks(album *Album, cps []Codepoint) {
	n := len(cps)
	types := make([]JoiningType, n)
	for i, cp := range cps {
		types[i] = joiningType(cp)
	}

	for i := 0; i < n; i++ {
		curr := types[i]
		if curr == JoiningNone || curr == JoiningTransparent {
			continue
		}

		prev := JoiningNone
		for k := i - 1; k >= 0; k-- {
			if types[k] != JoiningTransparent {
				prev = types[k]
				break
			}
		}
		next := JoiningNone
		for k := i + 1; k < n; k++ {
			if types[k] != JoiningTransparent {
				next = types[k]
				break
			}
		}

		left := joinsPrev(curr) && joinsNext(prev)
		right := joinsNext(curr) && joinsPrev(next)

		var mask uint16
		switch {
		case left && right:
			mask = arabicMediMask
		case left && !right:
			mask = arabicFinaMask
		case !left && right:
			mask = arabicInitMask
		default:
			mask = arabicIsolMask
		}
		album.SetFeatureMask(i, mask)
	}
}

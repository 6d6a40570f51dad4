package ot

import "unicode/utf8"

// CodepointSequence is an immutable source: an encoded string plus a
// direction flag, exposing restartable forward/backward iteration that
// yields (codepoint, code-unit index) pairs (spec §3). Decoding itself is
// a boundary concern handled with the standard library's utf8 package,
// consistent with spec §1 treating encoding as outside the engine's core;
// Unicode bidi mirroring is not done here either: the text processor
// (processor.go) asks the host's Protocol.MirrorRune callback (font.go).
type CodepointSequence struct {
	text      string
	direction Direction
}

// NewCodepointSequence wraps a UTF-8 string for shaping in the given
// direction.
func NewCodepointSequence(text string, direction Direction) *CodepointSequence {
	return &CodepointSequence{text: text, direction: direction}
}

func (s *CodepointSequence) Direction() Direction { return s.direction }

// CodeunitCount returns the number of UTF-8 code units (bytes) backing the
// sequence; this is the space the codeunit->glyph map is indexed over.
func (s *CodepointSequence) CodeunitCount() int { return len(s.text) }

// CodepointAt is a single decoded step: the codepoint and the code-unit
// index it was read from.
type CodepointAt struct {
	Codepoint Codepoint
	Index     int
}

// Forward returns a restartable iterator over the sequence from its
// start. Iteration order always visits earlier code-unit indices first,
// regardless of Direction — direction controls shaping order (spec §4.6's
// per-codepoint discovery loop and the joining-state "next" lookahead),
// not decode order.
func (s *CodepointSequence) Forward() func() (CodepointAt, bool) {
	i := 0
	return func() (CodepointAt, bool) {
		if i >= len(s.text) {
			return CodepointAt{}, false
		}
		r, size := utf8.DecodeRuneInString(s.text[i:])
		out := CodepointAt{Codepoint: Codepoint(r), Index: i}
		i += size
		return out, true
	}
}

// Backward returns a restartable iterator visiting code points from the
// end of the sequence to its start.
func (s *CodepointSequence) Backward() func() (CodepointAt, bool) {
	i := len(s.text)
	return func() (CodepointAt, bool) {
		if i <= 0 {
			return CodepointAt{}, false
		}
		r, size := utf8.DecodeLastRuneInString(s.text[:i])
		i -= size
		return CodepointAt{Codepoint: Codepoint(r), Index: i}, true
	}
}

// All decodes the entire sequence forward into a slice, for callers that
// need random access to the decoded codepoints.
func (s *CodepointSequence) All() []CodepointAt {
	out := make([]CodepointAt, 0, len(s.text))
	next := s.Forward()
	for {
		cp, ok := next()
		if !ok {
			break
		}
		out = append(out, cp)
	}
	return out
}

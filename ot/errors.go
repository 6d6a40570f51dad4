package ot

import "errors"

// Error kinds recognized by the engine (spec §7). None of these are ever
// returned from the top-level Artist.Shape call: "unsupported input" makes
// Scheme.BuildPattern return a nil Pattern (shaping with a nil pattern is a
// no-op), and "malformed subtable" is absorbed by evaluators returning
// false. No function in this package currently returns them; table
// parsers report failure with a nil result or ok=false instead.
var (
	ErrNoTable       = errors.New("ot: table not present in font")
	ErrInvalidTable  = errors.New("ot: table truncated or malformed")
	ErrInvalidFormat = errors.New("ot: unrecognized subtable format")
	ErrInvalidOffset = errors.New("ot: offset out of range")
)

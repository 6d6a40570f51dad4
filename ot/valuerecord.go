package ot

// ValueRecord parsing and application (spec §4.1). Fields are present only
// when their ValueFormat bit is set, always in this fixed order: X
// placement, Y placement, X advance, Y advance, then the four device
// offsets in the same order. Grounded on boxesandglue/textshape's GPOS
// value-record reader, generalized to also chase VariationIndex tables
// through RelevantDeltaPixels.

const (
	vfXPlacement uint16 = 0x0001
	vfYPlacement uint16 = 0x0002
	vfXAdvance   uint16 = 0x0004
	vfYAdvance   uint16 = 0x0008
	vfXPlaDevice uint16 = 0x0010
	vfYPlaDevice uint16 = 0x0020
	vfXAdvDevice uint16 = 0x0040
	vfYAdvDevice uint16 = 0x0080
)

// ValueRecord is a parsed GPOS value record: the four scalar fields plus
// the byte offsets (absolute within the table data, already resolved
// against the subtable base) of any device/variation tables attached to
// them.
type ValueRecord struct {
	XPlacement, YPlacement int16
	XAdvance, YAdvance     int16

	xPlaDevice, yPlaDevice int
	xAdvDevice, yAdvDevice int
}

// parseValueRecord reads a ValueRecord at the absolute offset off
// according to format, resolving the device offsets within it against
// base, and returns the byte length consumed.
func parseValueRecord(data []byte, base, off int, format uint16) (ValueRecord, int) {
	var vr ValueRecord
	p := off
	if format&vfXPlacement != 0 {
		vr.XPlacement, _ = i16At(data, p)
		p += 2
	}
	if format&vfYPlacement != 0 {
		vr.YPlacement, _ = i16At(data, p)
		p += 2
	}
	if format&vfXAdvance != 0 {
		vr.XAdvance, _ = i16At(data, p)
		p += 2
	}
	if format&vfYAdvance != 0 {
		vr.YAdvance, _ = i16At(data, p)
		p += 2
	}
	if format&vfXPlaDevice != 0 {
		rel, _ := u16At(data, p)
		if rel != 0 {
			vr.xPlaDevice = base + int(rel)
		}
		p += 2
	}
	if format&vfYPlaDevice != 0 {
		rel, _ := u16At(data, p)
		if rel != 0 {
			vr.yPlaDevice = base + int(rel)
		}
		p += 2
	}
	if format&vfXAdvDevice != 0 {
		rel, _ := u16At(data, p)
		if rel != 0 {
			vr.xAdvDevice = base + int(rel)
		}
		p += 2
	}
	if format&vfYAdvDevice != 0 {
		rel, _ := u16At(data, p)
		if rel != 0 {
			vr.yAdvDevice = base + int(rel)
		}
		p += 2
	}
	return vr, p - off
}

// valueRecordSize returns the byte size a ValueRecord occupies for format,
// without parsing it — used to skip past records whose fields aren't
// needed (e.g. the second record of a PairValueRecord when format2 is 0).
func valueRecordSize(format uint16) int {
	n := 0
	for _, bit := range []uint16{vfXPlacement, vfYPlacement, vfXAdvance, vfYAdvance, vfXPlaDevice, vfYPlaDevice, vfXAdvDevice, vfYAdvDevice} {
		if format&bit != 0 {
			n += 2
		}
	}
	return n
}

// apply adds vr's adjustments onto the album entry at i (spec §4.7 GPOS
// "apply a value record"), resolving any device/variation offsets against
// ctx's font.
func (vr ValueRecord) apply(ctx *ApplyContext, data []byte, i int) {
	ppem := 0 // host does not currently provide a ppem hint; device deltas at ppem 0 are inert outside range
	var ivs *ItemVariationStore
	var coords []float64
	if gdef := ctx.GDEF; gdef != nil {
		ivs = gdef.ItemVariationStore()
	}
	if ctx.Font != nil {
		coords = ctx.Font.VariationCoords()
	}

	x := int32(vr.XPlacement)
	y := int32(vr.YPlacement)
	xa := int32(vr.XAdvance)

	if vr.xPlaDevice != 0 {
		x += RelevantDeltaPixels(data, vr.xPlaDevice, ppem, ivs, coords)
	}
	if vr.yPlaDevice != 0 {
		y += RelevantDeltaPixels(data, vr.yPlaDevice, ppem, ivs, coords)
	}
	if vr.xAdvDevice != 0 {
		xa += RelevantDeltaPixels(data, vr.xAdvDevice, ppem, ivs, coords)
	}
	// YAdvance and its device table are not applied: the album holds
	// horizontal advances only.

	if x != 0 {
		ctx.Album.AddX(i, x)
	}
	if y != 0 {
		ctx.Album.AddY(i, y)
	}
	if xa != 0 {
		ctx.Album.AddAdvance(i, xa)
	}
}

// AnchorPoint resolves to an (x, y) pair, used by cursive and mark
// attachment (spec §4.7 types 3/4/5/6).
type AnchorPoint struct {
	X, Y int32
}

// parseAnchor parses an Anchor table (formats 1-3; format 3's device
// offsets are resolved immediately against ctx, format 2's contour-point
// field is ignored since the album has no outline data to index).
func parseAnchor(ctx *ApplyContext, data []byte, off int) (AnchorPoint, bool) {
	if off <= 0 || off+6 > len(data) {
		return AnchorPoint{}, false
	}
	format, ok := u16At(data, off)
	if !ok {
		return AnchorPoint{}, false
	}
	xRaw, ok1 := i16At(data, off+2)
	yRaw, ok2 := i16At(data, off+4)
	if !ok1 || !ok2 {
		return AnchorPoint{}, false
	}
	x, y := int32(xRaw), int32(yRaw)
	if format == 3 {
		var ivs *ItemVariationStore
		var coords []float64
		if ctx.GDEF != nil {
			ivs = ctx.GDEF.ItemVariationStore()
		}
		if ctx.Font != nil {
			coords = ctx.Font.VariationCoords()
		}
		xDevRel, _ := u16At(data, off+6)
		yDevRel, _ := u16At(data, off+8)
		if xDevRel != 0 {
			x += RelevantDeltaPixels(data, off+int(xDevRel), 0, ivs, coords)
		}
		if yDevRel != 0 {
			y += RelevantDeltaPixels(data, off+int(yDevRel), 0, ivs, coords)
		}
	}
	return AnchorPoint{X: x, Y: y}, true
}

package ot

// Device / VariationIndex resolution (spec §4.1). A Device table adjusts a
// value record field by a pixels-per-em-dependent delta; a VariationIndex
// table (recognized by the deltaFormat sentinel 0x8000) instead indexes
// into the font's ItemVariationStore and is resolved against the font's
// variation coordinates instead of a ppem. Both share one entry point so
// value-record application (valuerecord.go) never needs to know which kind
// of table it is chasing.

const variationIndexSentinel = 0x8000

// RelevantDeltaPixels resolves the Device/VariationIndex table at byte
// offset off within data, returning the adjustment to apply at the given
// pixels-per-em and variation coordinates. ppem is ignored for
// VariationIndex tables; coords is ignored for classic Device tables.
func RelevantDeltaPixels(data []byte, off int, ppem int, store *ItemVariationStore, coords []float64) int32 {
	if off <= 0 || off+8 > len(data) {
		return 0
	}
	startSize, ok1 := u16At(data, off)
	endSize, ok2 := u16At(data, off+2)
	deltaFormat, ok3 := u16At(data, off+4)
	if !ok1 || !ok2 || !ok3 {
		return 0
	}

	if deltaFormat == variationIndexSentinel {
		outerIdx := startSize
		innerIdx := endSize
		if store == nil {
			return 0
		}
		return store.DeltaAt(int(outerIdx), int(innerIdx), coords)
	}

	if deltaFormat < 1 || deltaFormat > 3 {
		return 0
	}
	if ppem < int(startSize) || ppem > int(endSize) {
		return 0
	}

	bitsPerValue, valuesPerWord := 0, 0
	switch deltaFormat {
	case 1:
		bitsPerValue, valuesPerWord = 2, 8
	case 2:
		bitsPerValue, valuesPerWord = 4, 4
	case 3:
		bitsPerValue, valuesPerWord = 8, 2
	}

	index := ppem - int(startSize)
	wordIndex := index / valuesPerWord
	wordOff := off + 6 + wordIndex*2
	word, ok := u16At(data, wordOff)
	if !ok {
		return 0
	}
	shift := (valuesPerWord - 1 - index%valuesPerWord) * bitsPerValue
	mask := uint16(1<<uint(bitsPerValue)) - 1
	raw := (word >> uint(shift)) & mask
	// Sign-extend via left-shift-then-arithmetic-right-shift (spec §4.1).
	signBits := 16 - bitsPerValue
	signed := int16(raw<<uint(signBits)) >> uint(signBits)
	return int32(signed)
}

// ItemVariationStore implements OpenType's variation-region interpolation
// over an ItemVariationStore table, used by VariationIndex resolution.
type ItemVariationStore struct {
	data           []byte
	regionListOff  int
	axisCount      int
	regionCount    int
	dataSubOffsets []int // offsets (absolute into data) of each ItemVariationData
}

// ParseItemVariationStore parses an ItemVariationStore at byte offset off.
func ParseItemVariationStore(data []byte, off int) (*ItemVariationStore, bool) {
	if off+8 > len(data) {
		return nil, false
	}
	regionListRelOff, ok := u32At(data, off+2)
	if !ok {
		return nil, false
	}
	regionListOff := off + int(regionListRelOff)
	axisCount, ok1 := u16At(data, regionListOff)
	regionCount, ok2 := u16At(data, regionListOff+2)
	if !ok1 || !ok2 {
		return nil, false
	}
	dataCount, ok := u16At(data, off+6)
	if !ok {
		return nil, false
	}
	ivs := &ItemVariationStore{
		data:          data,
		regionListOff: regionListOff,
		axisCount:     int(axisCount),
		regionCount:   int(regionCount),
	}
	for i := 0; i < int(dataCount); i++ {
		rel, ok := u32At(data, off+8+i*4)
		if !ok {
			break
		}
		ivs.dataSubOffsets = append(ivs.dataSubOffsets, off+int(rel))
	}
	return ivs, true
}

// regionScalar computes the scalar support factor for one variation region
// at the given normalized coordinates, per the standard OpenType
// piecewise-linear interpolation algorithm.
func (s *ItemVariationStore) regionScalar(regionIdx int, coords []float64) float64 {
	recOff := s.regionListOff + 4 + regionIdx*s.axisCount*6
	scalar := 1.0
	for axis := 0; axis < s.axisCount; axis++ {
		axOff := recOff + axis*6
		startRaw, _ := i16At(s.data, axOff)
		peakRaw, _ := i16At(s.data, axOff+2)
		endRaw, _ := i16At(s.data, axOff+4)
		start := float64(startRaw) / 16384.0
		peak := float64(peakRaw) / 16384.0
		end := float64(endRaw) / 16384.0

		var v float64
		if axis < len(coords) {
			v = coords[axis]
		}

		switch {
		case peak == 0:
			continue
		case start > peak || peak > end:
			continue
		case v == peak:
			continue
		case v <= start || v >= end:
			scalar = 0
		case v < peak:
			if peak == start {
				continue
			}
			scalar *= (v - start) / (peak - start)
		default:
			if peak == end {
				continue
			}
			scalar *= (end - v) / (end - peak)
		}
		if scalar == 0 {
			return 0
		}
	}
	return scalar
}

// DeltaAt resolves a single VariationIndex (outerIdx, innerIdx) against
// coords, summing each region's scaled delta and rounding away from zero.
func (s *ItemVariationStore) DeltaAt(outerIdx, innerIdx int, coords []float64) int32 {
	if s == nil || outerIdx < 0 || outerIdx >= len(s.dataSubOffsets) {
		return 0
	}
	dataOff := s.dataSubOffsets[outerIdx]
	itemCount, ok1 := u16At(s.data, dataOff)
	shortCount, ok2 := u16At(s.data, dataOff+2)
	regionCount, ok3 := u16At(s.data, dataOff+4)
	if !ok1 || !ok2 || !ok3 || innerIdx < 0 || innerIdx >= int(itemCount) {
		return 0
	}
	regionIndexOff := dataOff + 6
	deltaSetsOff := regionIndexOff + int(regionCount)*2
	rowSize := int(shortCount)*2 + (int(regionCount) - int(shortCount))
	rowOff := deltaSetsOff + innerIdx*rowSize

	sum := 0.0
	for r := 0; r < int(regionCount); r++ {
		regionIdx, ok := u16At(s.data, regionIndexOff+r*2)
		if !ok {
			continue
		}
		var delta int32
		if r < int(shortCount) {
			v, ok := i16At(s.data, rowOff+r*2)
			if !ok {
				continue
			}
			delta = int32(v)
		} else {
			byteOff := rowOff + int(shortCount)*2 + (r - int(shortCount))
			b, ok := u8At(s.data, byteOff)
			if !ok {
				continue
			}
			delta = int32(int8(b))
		}
		sum += float64(delta) * s.regionScalar(int(regionIdx), coords)
	}
	if sum >= 0 {
		return int32(sum + 0.5)
	}
	return int32(sum - 0.5)
}

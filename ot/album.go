package ot

// Album is the mutable glyph run at the center of shaping. It enforces a
// hard lifecycle contract (spec §3, §4.2): each mutator is legal in
// exactly one or two phases, and violating that is a client bug that
// panics rather than degrading output. Grounded on SheenFigure's
// SFAlbum.h/.c, renaming SFAlbum/SFGlyphDetail/SFGlyphTraits to this
// package's terms.
type Album struct {
	codepoints    *CodepointSequence
	codeunitCount int
	direction     Direction

	glyphs  []GlyphID
	details []GlyphDetail
	offsets []point
	advances []int32

	indexMap []int // codeunit index -> glyph index, built by WrapUp

	version    uint64
	phase      Phase
	retainCnt  int32
}

type point struct{ x, y int32 }

// Traits is the bitfield classifying a glyph (spec §3). The low 8 bits are
// GDEF-assigned "basic" traits; the high 8 bits are engine-assigned
// "helper" traits set during shaping.
type Traits uint16

const (
	TraitNone        Traits = 0
	TraitBase        Traits = 1 << 0
	TraitLigature    Traits = 1 << 1
	TraitMark        Traits = 1 << 2
	TraitComponent   Traits = 1 << 3
	basicTraitsMask  Traits = 0x00FF

	TraitPlaceholder Traits = 1 << 8
	TraitAttached    Traits = 1 << 9
	TraitCursive     Traits = 1 << 10
	TraitRightToLeft Traits = 1 << 11
	TraitResolved    Traits = 1 << 12
	TraitSequence    Traits = 1 << 13 // component of a multiple-substitution expansion
	TraitZeroWidth   Traits = 1 << 14
	helperTraitsMask Traits = 0xFF00
)

// GlyphDetail is the per-glyph metadata parallel array entry.
type GlyphDetail struct {
	Association      int // source code-unit index
	FeatureMask      uint16
	Traits           Traits
	CursiveOffset    uint16 // relative index to the next cursively-attached glyph, 0 if none
	AttachmentOffset uint16 // relative index back to the glyph this mark attaches to, 0 if none
}

// DefaultFeatureMask is the sentinel "applies to everything" mask assigned
// to every newly added glyph (spec §3).
const DefaultFeatureMask uint16 = 0xFFFF

// NewAlbum returns an album in the Empty phase.
func NewAlbum() *Album {
	return &Album{phase: PhaseEmpty, retainCnt: 1}
}

// Retain/Release implement the reference-counting discipline spec §3/§5
// names explicitly, mirroring SFAlbumRetain/SFAlbumRelease. Go has no
// destructors, so Release is advisory: it is there for a host that wants
// to know when the last reference has gone away, not to free memory.
func (a *Album) Retain() *Album { a.retainCnt++; return a }
func (a *Album) Release()       { a.retainCnt-- }

// Phase reports the album's current lifecycle phase.
func (a *Album) Phase() Phase { return a.phase }

// Version returns the monotonic mutation counter a Locator snapshots.
func (a *Album) Version() uint64 { return a.version }

// Direction reports the run's text direction.
func (a *Album) Direction() Direction { return a.direction }

// Reset transitions the album to Empty for a new codepoint sequence,
// preallocating the codeunit index map (spec §4.2).
func (a *Album) Reset(codepoints *CodepointSequence) {
	a.codepoints = codepoints
	a.codeunitCount = codepoints.CodeunitCount()
	a.direction = codepoints.Direction()
	a.glyphs = a.glyphs[:0]
	a.details = a.details[:0]
	a.offsets = a.offsets[:0]
	a.advances = a.advances[:0]
	a.indexMap = make([]int, a.codeunitCount)
	for i := range a.indexMap {
		a.indexMap[i] = -1
	}
	a.version++
	a.phase = PhaseEmpty
}

// Codepoints returns the sequence the album was reset with.
func (a *Album) Codepoints() *CodepointSequence { return a.codepoints }

// BeginFilling starts glyph discovery, preallocating capacity for roughly
// one glyph per code unit (spec §4.2).
func (a *Album) BeginFilling() {
	if a.phase != PhaseEmpty {
		phaseViolation("BeginFilling", a.phase, PhaseEmpty)
	}
	if cap(a.glyphs) < a.codeunitCount {
		a.glyphs = make([]GlyphID, 0, a.codeunitCount)
		a.details = make([]GlyphDetail, 0, a.codeunitCount)
	}
	a.phase = PhaseFilling
}

// AddGlyph appends a new glyph, initializing its mask to the sentinel
// DefaultFeatureMask (spec §4.2).
func (a *Album) AddGlyph(glyph GlyphID, traits Traits, association int) {
	if a.phase != PhaseFilling {
		phaseViolation("AddGlyph", a.phase, PhaseFilling)
	}
	a.glyphs = append(a.glyphs, glyph)
	a.details = append(a.details, GlyphDetail{
		Association: association,
		FeatureMask: DefaultFeatureMask,
		Traits:      traits & basicTraitsMask,
	})
	a.version++
}

// EndFilling transitions Filling -> Filled.
func (a *Album) EndFilling() {
	if a.phase != PhaseFilling {
		phaseViolation("EndFilling", a.phase, PhaseFilling)
	}
	a.phase = PhaseFilled
}

// GlyphCount returns the number of glyphs currently in the album. Legal
// in any phase; it is the fundamental bound every index-based accessor is
// checked against.
func (a *Album) GlyphCount() int { return len(a.glyphs) }

func (a *Album) requirePhase(op string, phases ...Phase) {
	for _, p := range phases {
		if a.phase == p {
			return
		}
	}
	phaseViolation(op, a.phase, phases...)
}

// ReserveGlyphs inserts count uninitialized slots at index, used by
// multiple-substitution expansion (spec §4.2, GSUB type 2). Legal during
// Filling and Filled: glyph discovery has already ended Filling when
// multiple substitution runs in the GSUB pass that follows it, and both
// boxesandglue/textshape and SheenFigure treat substitution as an
// extension of the Filled glyph run.
func (a *Album) ReserveGlyphs(index, count int) {
	a.requirePhase("ReserveGlyphs", PhaseFilling, PhaseFilled)
	if count <= 0 {
		return
	}
	a.glyphs = append(a.glyphs, make([]GlyphID, count)...)
	copy(a.glyphs[index+count:], a.glyphs[index:])
	for i := 0; i < count; i++ {
		a.glyphs[index+i] = 0
	}
	a.details = append(a.details, make([]GlyphDetail, count)...)
	copy(a.details[index+count:], a.details[index:])
	for i := 0; i < count; i++ {
		a.details[index+i] = GlyphDetail{FeatureMask: DefaultFeatureMask}
	}
	a.version++
}

// SetGlyph / GetGlyph access the glyph ID array.
func (a *Album) SetGlyph(i int, g GlyphID) { a.glyphs[i] = g }
func (a *Album) GetGlyph(i int) GlyphID    { return a.glyphs[i] }

// antiFeatureMask computes the "anti" value used by the locator's ignore
// rule: ~m if m != 0, else ~DefaultFeatureMask (spec §4.3, "Anti-feature-
// mask rule"). This keeps the sentinel default from gating everything off
// and makes a zero mask gate everything on.
func antiFeatureMask(m uint16) uint16 {
	if m != 0 {
		return ^m
	}
	return ^DefaultFeatureMask
}

// SetFeatureMask sets a glyph's feature mask. Passing the complement of
// the default mask is forbidden (spec §3, §8): it would collide with the
// anti-mask's reserved meaning.
func (a *Album) SetFeatureMask(i int, mask uint16) {
	if mask == ^DefaultFeatureMask {
		panic("ot: SetFeatureMask: value equals complement of default mask")
	}
	a.details[i].FeatureMask = mask
}

func (a *Album) GetFeatureMask(i int) uint16 { return a.details[i].FeatureMask }

// GetAllTraits / ReplaceBasicTraits / InsertHelperTraits / RemoveHelperTraits
// are the only legal trait mutators (spec §3).
func (a *Album) GetAllTraits(i int) Traits { return a.details[i].Traits }

func (a *Album) ReplaceBasicTraits(i int, t Traits) {
	a.details[i].Traits = (a.details[i].Traits &^ basicTraitsMask) | (t & basicTraitsMask)
}

func (a *Album) InsertHelperTraits(i int, t Traits) {
	a.details[i].Traits |= t & helperTraitsMask
}

func (a *Album) RemoveHelperTraits(i int, t Traits) {
	a.details[i].Traits &^= t & helperTraitsMask
}

func (a *Album) SetAssociation(i, assoc int) { a.details[i].Association = assoc }
func (a *Album) GetAssociation(i int) int    { return a.details[i].Association }

// BeginArranging transitions Filled -> Arranging, allocating the offsets
// and advances arrays (spec §4.2).
func (a *Album) BeginArranging() {
	if a.phase != PhaseFilled {
		phaseViolation("BeginArranging", a.phase, PhaseFilled)
	}
	a.offsets = make([]point, len(a.glyphs))
	a.advances = make([]int32, len(a.glyphs))
	a.phase = PhaseArranging
}

func (a *Album) requireArranging(op string) {
	a.requirePhase(op, PhaseArranging, PhaseArranged)
}

func (a *Album) SetX(i int, x int32) { a.requireArranging("SetX"); a.offsets[i].x = x }
func (a *Album) GetX(i int) int32    { a.requireArranging("GetX"); return a.offsets[i].x }
func (a *Album) SetY(i int, y int32) { a.requireArranging("SetY"); a.offsets[i].y = y }
func (a *Album) GetY(i int) int32    { a.requireArranging("GetY"); return a.offsets[i].y }
func (a *Album) AddX(i int, dx int32) { a.requireArranging("AddX"); a.offsets[i].x += dx }
func (a *Album) AddY(i int, dy int32) { a.requireArranging("AddY"); a.offsets[i].y += dy }

func (a *Album) SetAdvance(i int, adv int32) { a.requireArranging("SetAdvance"); a.advances[i] = adv }
func (a *Album) GetAdvance(i int) int32      { a.requireArranging("GetAdvance"); return a.advances[i] }
func (a *Album) AddAdvance(i int, d int32)   { a.requireArranging("AddAdvance"); a.advances[i] += d }

func (a *Album) SetCursiveOffset(i int, off uint16)    { a.details[i].CursiveOffset = off }
func (a *Album) GetCursiveOffset(i int) uint16          { return a.details[i].CursiveOffset }
func (a *Album) SetAttachmentOffset(i int, off uint16) { a.details[i].AttachmentOffset = off }
func (a *Album) GetAttachmentOffset(i int) uint16       { return a.details[i].AttachmentOffset }

// EndArranging transitions Arranging -> Arranged.
func (a *Album) EndArranging() {
	if a.phase != PhaseArranging {
		phaseViolation("EndArranging", a.phase, PhaseArranging)
	}
	a.phase = PhaseArranged
}

// WrapUp removes placeholder glyphs (in reverse order, so earlier indices
// stay valid while later ones are deleted) and builds the codeunit ->
// glyph map, then transitions to WrappedUp (spec §3, §4.2, §4.6).
func (a *Album) WrapUp() {
	if a.phase != PhaseArranged {
		phaseViolation("WrapUp", a.phase, PhaseArranged)
	}
	for i := len(a.glyphs) - 1; i >= 0; i-- {
		if a.details[i].Traits&TraitPlaceholder != 0 {
			a.glyphs = append(a.glyphs[:i], a.glyphs[i+1:]...)
			a.details = append(a.details[:i], a.details[i+1:]...)
			a.offsets = append(a.offsets[:i], a.offsets[i+1:]...)
			a.advances = append(a.advances[:i], a.advances[i+1:]...)
		}
	}

	for g, d := range a.details {
		u := d.Association
		if u >= 0 && u < len(a.indexMap) {
			if cur := a.indexMap[u]; cur == -1 || g < cur {
				a.indexMap[u] = g
			}
		}
	}
	// Unmapped units inherit from the previous mapped unit on an LTR run,
	// or the next on an RTL run (spec §3 "Codeunit->glyph map").
	if a.direction == DirectionRTL {
		last := -1
		for u := len(a.indexMap) - 1; u >= 0; u-- {
			if a.indexMap[u] == -1 {
				a.indexMap[u] = last
			} else {
				last = a.indexMap[u]
			}
		}
	} else {
		last := -1
		for u := 0; u < len(a.indexMap); u++ {
			if a.indexMap[u] == -1 {
				a.indexMap[u] = last
			} else {
				last = a.indexMap[u]
			}
		}
	}
	// Edge glyph counts may still be -1 if the album is empty or every
	// code unit maps beyond an empty run; clamp to 0 to keep the map
	// total, as spec §8 "Map totality" requires.
	if len(a.glyphs) > 0 {
		for u, g := range a.indexMap {
			if g == -1 {
				a.indexMap[u] = 0
			}
		}
	} else {
		for u := range a.indexMap {
			a.indexMap[u] = 0
		}
	}

	a.phase = PhaseWrappedUp
}

// --- Post-shaping read accessors (spec §6) ---

func (a *Album) GlyphIDs() []GlyphID { return a.glyphs }

func (a *Album) GlyphOffsets() [][2]int32 {
	out := make([][2]int32, len(a.offsets))
	for i, p := range a.offsets {
		out[i] = [2]int32{p.x, p.y}
	}
	return out
}

func (a *Album) GlyphAdvances() []int32 { return a.advances }

func (a *Album) CodeunitToGlyphMap() []int { return a.indexMap }

// CaretEdges divides each glyph cluster's advance evenly over the code
// units it maps to, returning the caret x-position for each code unit
// (spec §6). caretStops marks which of those positions are legal caret
// stops (true everywhere a new cluster starts).
func (a *Album) CaretEdges() (edges []int32, caretStops []bool) {
	n := len(a.indexMap)
	edges = make([]int32, n)
	caretStops = make([]bool, n)
	if n == 0 {
		return
	}
	i := 0
	for i < n {
		g := a.indexMap[i]
		j := i
		for j < n && a.indexMap[j] == g {
			j++
		}
		clusterAdv := int32(0)
		if g >= 0 && g < len(a.advances) {
			clusterAdv = a.advances[g]
		}
		span := int32(j - i)
		base := int32(0)
		if g >= 0 && g < len(a.offsets) {
			base = a.offsets[g].x
		}
		for k := i; k < j; k++ {
			edges[k] = base + clusterAdv*int32(k-i)/span
		}
		caretStops[i] = true
		i = j
	}
	return
}

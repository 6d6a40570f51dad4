package ot

// GPOS lookup types (spec §4.7).
const (
	GPOSSingle         = 1
	GPOSPair           = 2
	GPOSCursive        = 3
	GPOSMarkToBase     = 4
	GPOSMarkToLigature = 5
	GPOSMarkToMark     = 6
	GPOSContext        = 7
	GPOSChainContext   = 8
	GPOSExtension      = 9
)

// GPOSSubtable mirrors GSUBSubtable for the positioning side.
type GPOSSubtable interface {
	Apply(ctx *ApplyContext) bool
}

// GPOSLookupTable is one entry of the GPOS LookupList.
type GPOSLookupTable struct {
	Type             uint16
	Flag             uint16
	MarkFilteringSet uint16
	Subtables        []GPOSSubtable
}

// GPOS is the parsed Glyph Positioning table.
type GPOS struct {
	data        []byte
	scriptList  *ScriptList
	featureList *FeatureList
	lookups     []*GPOSLookupTable
}

// ParseGPOS parses a GPOS table (versions 1.0 and 1.1; spec §6).
func ParseGPOS(data []byte) (*GPOS, bool) {
	if len(data) < 10 {
		return nil, false
	}
	major, ok1 := u16At(data, 0)
	minor, ok2 := u16At(data, 2)
	if !ok1 || !ok2 || major != 1 || (minor != 0 && minor != 1) {
		return nil, false
	}
	scriptListOff, ok1 := u16At(data, 4)
	featureListOff, ok2 := u16At(data, 6)
	lookupListOff, ok3 := u16At(data, 8)
	if !ok1 || !ok2 || !ok3 {
		return nil, false
	}

	g := &GPOS{data: data}
	g.scriptList, _ = parseScriptList(data, int(scriptListOff))
	g.featureList, _ = parseFeatureList(data, int(featureListOff))
	g.lookups = parseGPOSLookupList(data, int(lookupListOff))
	return g, true
}

func parseGPOSLookupList(data []byte, off int) []*GPOSLookupTable {
	count, ok := u16At(data, off)
	if !ok {
		return nil
	}
	out := make([]*GPOSLookupTable, count)
	for i := 0; i < int(count); i++ {
		rel, ok := u16At(data, off+2+i*2)
		if !ok {
			continue
		}
		out[i] = parseGPOSLookup(data, off+int(rel))
	}
	return out
}

func parseGPOSLookup(data []byte, off int) *GPOSLookupTable {
	lookupType, ok1 := u16At(data, off)
	flag, ok2 := u16At(data, off+2)
	subtableCount, ok3 := u16At(data, off+4)
	if !ok1 || !ok2 || !ok3 {
		return nil
	}
	lt := &GPOSLookupTable{Type: lookupType, Flag: flag}
	for i := 0; i < int(subtableCount); i++ {
		rel, ok := u16At(data, off+6+i*2)
		if !ok {
			continue
		}
		if st := parseGPOSSubtable(data, off+int(rel), lookupType); st != nil {
			lt.Subtables = append(lt.Subtables, st)
		}
	}
	if flag&LookupFlagUseMarkFilteringSet != 0 {
		mfs, ok := u16At(data, off+6+int(subtableCount)*2)
		if ok {
			lt.MarkFilteringSet = mfs
		}
	}
	return lt
}

func parseGPOSSubtable(data []byte, off int, lookupType uint16) GPOSSubtable {
	switch lookupType {
	case GPOSSingle:
		return parseSinglePos(data, off)
	case GPOSPair:
		return parsePairPos(data, off)
	case GPOSCursive:
		return parseCursivePos(data, off)
	case GPOSMarkToBase:
		return parseMarkBasePos(data, off)
	case GPOSMarkToLigature:
		return parseMarkLigPos(data, off)
	case GPOSMarkToMark:
		return parseMarkMarkPos(data, off)
	case GPOSContext:
		return parseGPOSContext(data, off)
	case GPOSChainContext:
		return parseGPOSChainContext(data, off)
	case GPOSExtension:
		return parseGPOSExtension(data, off)
	default:
		return nil
	}
}

// Lookup returns the parsed lookup at lookupIndex, or nil if absent.
func (g *GPOS) Lookup(lookupIndex int) *GPOSLookupTable {
	if lookupIndex < 0 || lookupIndex >= len(g.lookups) {
		return nil
	}
	return g.lookups[lookupIndex]
}

func (g *GPOS) NumLookups() int { return len(g.lookups) }

func (g *GPOS) ScriptList() *ScriptList   { return g.scriptList }
func (g *GPOS) FeatureList() *FeatureList { return g.featureList }

// --- Type 1: Single adjustment ---

type singlePosFormat1 struct {
	coverage *Coverage
	format   uint16
	data     []byte
	vr       ValueRecord
}

type singlePosFormat2 struct {
	coverage *Coverage
	format   uint16
	data     []byte
	recs     []ValueRecord
}

func parseSinglePos(data []byte, off int) GPOSSubtable {
	format, ok := u16At(data, off)
	if !ok {
		return nil
	}
	covRel, ok := u16At(data, off+2)
	if !ok {
		return nil
	}
	cov, ok := ParseCoverage(data, off+int(covRel))
	if !ok {
		return nil
	}
	valueFormat, ok := u16At(data, off+4)
	if !ok {
		return nil
	}
	switch format {
	case 1:
		vr, _ := parseValueRecord(data, off, off+6, valueFormat)
		return &singlePosFormat1{coverage: cov, format: valueFormat, data: data, vr: vr}
	case 2:
		count, ok := u16At(data, off+6)
		if !ok {
			return nil
		}
		size := valueRecordSize(valueFormat)
		recs := make([]ValueRecord, count)
		p := off + 8
		for i := 0; i < int(count); i++ {
			recs[i], _ = parseValueRecord(data, off, p, valueFormat)
			p += size
		}
		return &singlePosFormat2{coverage: cov, format: valueFormat, data: data, recs: recs}
	default:
		return nil
	}
}

func (s *singlePosFormat1) Apply(ctx *ApplyContext) bool {
	i := ctx.Locator.Index()
	if s.coverage.Index(ctx.Album.GetGlyph(i)) == NotCovered {
		return false
	}
	s.vr.apply(ctx, s.data, i)
	return true
}

func (s *singlePosFormat2) Apply(ctx *ApplyContext) bool {
	i := ctx.Locator.Index()
	idx := s.coverage.Index(ctx.Album.GetGlyph(i))
	if idx == NotCovered || int(idx) >= len(s.recs) {
		return false
	}
	s.recs[idx].apply(ctx, s.data, i)
	return true
}

// --- Type 2: Pair adjustment ---

type pairSet struct {
	secondGlyph GlyphID
	first       ValueRecord
	second      ValueRecord
}

type pairPosFormat1 struct {
	coverage *Coverage
	data     []byte
	format1  uint16
	format2  uint16
	sets     [][]pairSet
}

type pairPosFormat2 struct {
	coverage  *Coverage
	data      []byte
	format1   uint16
	format2   uint16
	classDef1 *ClassDef
	classDef2 *ClassDef
	class1Cnt int
	class2Cnt int
	first     [][]ValueRecord
	second    [][]ValueRecord
}

func parsePairPos(data []byte, off int) GPOSSubtable {
	format, ok := u16At(data, off)
	if !ok {
		return nil
	}
	covRel, ok1 := u16At(data, off+2)
	vf1, ok2 := u16At(data, off+4)
	vf2, ok3 := u16At(data, off+6)
	if !ok1 || !ok2 || !ok3 {
		return nil
	}
	cov, ok := ParseCoverage(data, off+int(covRel))
	if !ok {
		return nil
	}
	switch format {
	case 1:
		count, ok := u16At(data, off+8)
		if !ok {
			return nil
		}
		p := &pairPosFormat1{coverage: cov, data: data, format1: vf1, format2: vf2, sets: make([][]pairSet, count)}
		for i := 0; i < int(count); i++ {
			rel, ok := u16At(data, off+10+i*2)
			if !ok || rel == 0 {
				continue
			}
			p.sets[i] = parsePairSet(data, off+int(rel), off, vf1, vf2)
		}
		return p
	case 2:
		classDef1Rel, ok1 := u16At(data, off+8)
		classDef2Rel, ok2 := u16At(data, off+10)
		class1Cnt, ok3 := u16At(data, off+12)
		class2Cnt, ok4 := u16At(data, off+14)
		if !ok1 || !ok2 || !ok3 || !ok4 {
			return nil
		}
		cd1, _ := ParseClassDef(data, off+int(classDef1Rel))
		cd2, _ := ParseClassDef(data, off+int(classDef2Rel))
		size1 := valueRecordSize(vf1)
		size2 := valueRecordSize(vf2)
		rowSize := size1 + size2
		p := &pairPosFormat2{
			coverage: cov, data: data, format1: vf1, format2: vf2,
			classDef1: cd1, classDef2: cd2, class1Cnt: int(class1Cnt), class2Cnt: int(class2Cnt),
			first:  make([][]ValueRecord, class1Cnt),
			second: make([][]ValueRecord, class1Cnt),
		}
		base := off + 16
		for c1 := 0; c1 < int(class1Cnt); c1++ {
			p.first[c1] = make([]ValueRecord, class2Cnt)
			p.second[c1] = make([]ValueRecord, class2Cnt)
			for c2 := 0; c2 < int(class2Cnt); c2++ {
				rowOff := base + (c1*int(class2Cnt)+c2)*rowSize
				p.first[c1][c2], _ = parseValueRecord(data, off, rowOff, vf1)
				p.second[c1][c2], _ = parseValueRecord(data, off, rowOff+size1, vf2)
			}
		}
		return p
	default:
		return nil
	}
}

func parsePairSet(data []byte, off, base int, vf1, vf2 uint16) []pairSet {
	count, ok := u16At(data, off)
	if !ok {
		return nil
	}
	size1 := valueRecordSize(vf1)
	size2 := valueRecordSize(vf2)
	rowSize := 2 + size1 + size2
	out := make([]pairSet, 0, count)
	p := off + 2
	for i := 0; i < int(count); i++ {
		second, ok := u16At(data, p)
		if !ok {
			break
		}
		first, _ := parseValueRecord(data, base, p+2, vf1)
		secondVR, _ := parseValueRecord(data, base, p+2+size1, vf2)
		out = append(out, pairSet{secondGlyph: GlyphID(second), first: first, second: secondVR})
		p += rowSize
	}
	return out
}

// shouldSkipSecond decides whether a pair positioning match with a zero second
// value record still advances past the second glyph, or leaves the
// locator to re-examine it as a new first glyph. Left-open by the
// standard for whether an all-zero second record still counts as a
// "formed pair" (spec §9 Open Question): this implementation treats any
// matched pair as consuming both glyphs, matching boxesandglue/textshape's
// GPOS pair handling.
func shouldSkipSecond(vf2 uint16) bool { return true }

func (p *pairPosFormat1) Apply(ctx *ApplyContext) bool {
	i := ctx.Locator.Index()
	idx := p.coverage.Index(ctx.Album.GetGlyph(i))
	if idx == NotCovered || int(idx) >= len(p.sets) {
		return false
	}
	j := ctx.Locator.GetAfter(i, true)
	if j == InvalidIndex {
		return false
	}
	secondGlyph := ctx.Album.GetGlyph(j)
	for _, set := range p.sets[idx] {
		if set.secondGlyph != secondGlyph {
			continue
		}
		set.first.apply(ctx, p.data, i)
		set.second.apply(ctx, p.data, j)
		if shouldSkipSecond(p.format2) {
			ctx.Locator.JumpTo(j + 1)
		} else {
			ctx.Locator.JumpTo(j)
		}
		return true
	}
	return false
}

func (p *pairPosFormat2) Apply(ctx *ApplyContext) bool {
	i := ctx.Locator.Index()
	if p.coverage.Index(ctx.Album.GetGlyph(i)) == NotCovered {
		return false
	}
	j := ctx.Locator.GetAfter(i, true)
	if j == InvalidIndex {
		return false
	}
	c1 := int(p.classDef1.Class(ctx.Album.GetGlyph(i)))
	c2 := int(p.classDef2.Class(ctx.Album.GetGlyph(j)))
	if c1 >= p.class1Cnt || c2 >= p.class2Cnt {
		return false
	}
	p.first[c1][c2].apply(ctx, p.data, i)
	p.second[c1][c2].apply(ctx, p.data, j)
	if shouldSkipSecond(p.format2) {
		ctx.Locator.JumpTo(j + 1)
	} else {
		ctx.Locator.JumpTo(j)
	}
	return true
}

// --- Type 3: Cursive attachment ---

type cursivePos struct {
	coverage *Coverage
	data     []byte
	entries  []cursiveEntry
}

type cursiveEntry struct {
	entryOff, exitOff int
}

func parseCursivePos(data []byte, off int) GPOSSubtable {
	format, ok := u16At(data, off)
	if !ok || format != 1 {
		return nil
	}
	covRel, ok1 := u16At(data, off+2)
	count, ok2 := u16At(data, off+4)
	if !ok1 || !ok2 {
		return nil
	}
	cov, ok := ParseCoverage(data, off+int(covRel))
	if !ok {
		return nil
	}
	entries := make([]cursiveEntry, count)
	p := off + 6
	for i := 0; i < int(count); i++ {
		entryRel, _ := u16At(data, p)
		exitRel, _ := u16At(data, p+2)
		e := cursiveEntry{}
		if entryRel != 0 {
			e.entryOff = off + int(entryRel)
		}
		if exitRel != 0 {
			e.exitOff = off + int(exitRel)
		}
		entries[i] = e
		p += 4
	}
	return &cursivePos{coverage: cov, data: data, entries: entries}
}

// Apply implements cursive chaining (spec §4.7 Type 3): the current
// glyph's exit anchor is aligned to the next non-ignored glyph's entry
// anchor. Only the local link between the two glyphs is recorded here —
// the advance of whichever glyph anchors the pair, the non-anchoring
// glyph's X, and its Y as the raw exit/entry delta; CursiveOffset links
// the pair for resolveCursivePositions to walk and accumulate Y across
// the whole chain after every GPOS lookup has applied (spec §4.6
// "Cursive resolution"). Grounded on SheenFigure's ApplyCursiveAnchors
// (GlyphPositioning.c:474-561), including its two back-to-back Y
// assignments in the text-direction-RTL branch, where the second
// (lookupFlag-guarded) assignment is authoritative (spec §9 Open
// Question).
func (c *cursivePos) Apply(ctx *ApplyContext) bool {
	i := ctx.Locator.Index()
	idx := c.coverage.Index(ctx.Album.GetGlyph(i))
	if idx == NotCovered || int(idx) >= len(c.entries) {
		return false
	}
	exitOff := c.entries[idx].exitOff
	if exitOff == 0 {
		return false
	}
	j := ctx.Locator.GetAfter(i, true)
	if j == InvalidIndex {
		return false
	}
	nextIdx := c.coverage.Index(ctx.Album.GetGlyph(j))
	if nextIdx == NotCovered || int(nextIdx) >= len(c.entries) {
		return false
	}
	entryOff := c.entries[nextIdx].entryOff
	if entryOff == 0 {
		return false
	}
	exit, ok1 := parseAnchor(ctx, c.data, exitOff)
	entry, ok2 := parseAnchor(ctx, c.data, entryOff)
	if !ok1 || !ok2 {
		return false
	}

	traits := TraitCursive

	if ctx.Direction == DirectionRTL {
		// Set advance of second glyph so it ends at entry x.
		offset := ctx.Album.GetX(j)
		ctx.Album.SetAdvance(j, offset+entry.X)

		// Preserve advance of first glyph while moving its X to -exit.x.
		offset = ctx.Album.GetX(i)
		advance := ctx.Album.GetAdvance(i)
		ctx.Album.SetAdvance(i, advance-offset-exit.X)
		ctx.Album.SetX(i, -exit.X)

		ctx.Album.SetY(i, entry.Y-exit.Y)
		if ctx.LookupFlag&LookupFlagRightToLeft != 0 {
			traits |= TraitRightToLeft
			ctx.Album.SetY(i, entry.Y-exit.Y)
		} else {
			ctx.Album.SetY(i, exit.Y-entry.Y)
		}
	} else {
		// Set advance of first glyph so it ends at exit x.
		offset := ctx.Album.GetX(i)
		ctx.Album.SetAdvance(i, offset+exit.X)

		// Preserve advance of second glyph while moving its X to -entry.x.
		offset = ctx.Album.GetX(j)
		advance := ctx.Album.GetAdvance(j)
		ctx.Album.SetAdvance(j, advance-offset-entry.X)
		ctx.Album.SetX(j, -entry.X)

		if ctx.LookupFlag&LookupFlagRightToLeft != 0 {
			traits |= TraitRightToLeft
			ctx.Album.SetY(j, entry.Y-exit.Y)
		} else {
			ctx.Album.SetY(j, exit.Y-entry.Y)
		}
	}

	ctx.Album.SetCursiveOffset(i, uint16(j-i))
	ctx.Album.InsertHelperTraits(i, traits)
	ctx.Album.SetCursiveOffset(j, 0)
	ctx.Album.InsertHelperTraits(j, traits)
	return true
}

// --- Types 4/5/6: Mark attachment ---

type markArray struct {
	classes []uint16
	anchors []int // byte offsets, 0 if absent
}

func parseMarkArray(data []byte, base, off int) markArray {
	count, ok := u16At(data, off)
	if !ok {
		return markArray{}
	}
	ma := markArray{classes: make([]uint16, count), anchors: make([]int, count)}
	p := off + 2
	for i := 0; i < int(count); i++ {
		class, _ := u16At(data, p)
		anchorRel, _ := u16At(data, p+2)
		ma.classes[i] = class
		if anchorRel != 0 {
			ma.anchors[i] = base + int(anchorRel)
		}
		p += 4
	}
	return ma
}

type markBasePos struct {
	data       []byte
	markCov    *Coverage
	baseCov    *Coverage
	markArray  markArray
	classCount int
	baseAnchors [][]int // [baseIndex][class]
}

func parseMarkBasePos(data []byte, off int) GPOSSubtable {
	format, ok := u16At(data, off)
	if !ok || format != 1 {
		return nil
	}
	markCovRel, ok1 := u16At(data, off+2)
	baseCovRel, ok2 := u16At(data, off+4)
	classCount, ok3 := u16At(data, off+6)
	markArrayRel, ok4 := u16At(data, off+8)
	baseArrayRel, ok5 := u16At(data, off+10)
	if !ok1 || !ok2 || !ok3 || !ok4 || !ok5 {
		return nil
	}
	markCov, ok := ParseCoverage(data, off+int(markCovRel))
	if !ok {
		return nil
	}
	baseCov, ok := ParseCoverage(data, off+int(baseCovRel))
	if !ok {
		return nil
	}
	ma := parseMarkArray(data, off+int(markArrayRel), off+int(markArrayRel))
	baseArrayOff := off + int(baseArrayRel)
	baseCount, ok := u16At(data, baseArrayOff)
	if !ok {
		return nil
	}
	anchors := make([][]int, baseCount)
	p := baseArrayOff + 2
	for b := 0; b < int(baseCount); b++ {
		row := make([]int, classCount)
		for c := 0; c < int(classCount); c++ {
			rel, _ := u16At(data, p)
			if rel != 0 {
				row[c] = baseArrayOff + int(rel)
			}
			p += 2
		}
		anchors[b] = row
	}
	return &markBasePos{data: data, markCov: markCov, baseCov: baseCov, markArray: ma, classCount: int(classCount), baseAnchors: anchors}
}

func (m *markBasePos) Apply(ctx *ApplyContext) bool {
	i := ctx.Locator.Index()
	markIdx := m.markCov.Index(ctx.Album.GetGlyph(i))
	if markIdx == NotCovered || int(markIdx) >= len(m.markArray.classes) {
		return false
	}
	baseIdx := ctx.Locator.GetPrecedingBaseIndex()
	if baseIdx == InvalidIndex {
		return false
	}
	baseCovIdx := m.baseCov.Index(ctx.Album.GetGlyph(baseIdx))
	if baseCovIdx == NotCovered || int(baseCovIdx) >= len(m.baseAnchors) {
		return false
	}
	class := m.markArray.classes[markIdx]
	if int(class) >= m.classCount {
		return false
	}
	baseAnchorOff := m.baseAnchors[baseCovIdx][class]
	markAnchorOff := m.markArray.anchors[markIdx]
	if baseAnchorOff == 0 || markAnchorOff == 0 {
		return false
	}
	baseAnchor, ok1 := parseAnchor(ctx, m.data, baseAnchorOff)
	markAnchor, ok2 := parseAnchor(ctx, m.data, markAnchorOff)
	if !ok1 || !ok2 {
		return false
	}
	attachMark(ctx, baseIdx, i, baseAnchor, markAnchor)
	return true
}

type markLigPos struct {
	data       []byte
	markCov    *Coverage
	ligCov     *Coverage
	markArray  markArray
	classCount int
	ligAnchors [][][]int // [ligIndex][component][class]
}

func parseMarkLigPos(data []byte, off int) GPOSSubtable {
	format, ok := u16At(data, off)
	if !ok || format != 1 {
		return nil
	}
	markCovRel, ok1 := u16At(data, off+2)
	ligCovRel, ok2 := u16At(data, off+4)
	classCount, ok3 := u16At(data, off+6)
	markArrayRel, ok4 := u16At(data, off+8)
	ligArrayRel, ok5 := u16At(data, off+10)
	if !ok1 || !ok2 || !ok3 || !ok4 || !ok5 {
		return nil
	}
	markCov, ok := ParseCoverage(data, off+int(markCovRel))
	if !ok {
		return nil
	}
	ligCov, ok := ParseCoverage(data, off+int(ligCovRel))
	if !ok {
		return nil
	}
	ma := parseMarkArray(data, off+int(markArrayRel), off+int(markArrayRel))
	ligArrayOff := off + int(ligArrayRel)
	ligCount, ok := u16At(data, ligArrayOff)
	if !ok {
		return nil
	}
	ligAnchors := make([][][]int, ligCount)
	for l := 0; l < int(ligCount); l++ {
		attachRel, ok := u16At(data, ligArrayOff+2+l*2)
		if !ok || attachRel == 0 {
			continue
		}
		attachOff := ligArrayOff + int(attachRel)
		compCount, ok := u16At(data, attachOff)
		if !ok {
			continue
		}
		comps := make([][]int, compCount)
		p := attachOff + 2
		for c := 0; c < int(compCount); c++ {
			row := make([]int, classCount)
			for k := 0; k < int(classCount); k++ {
				rel, _ := u16At(data, p)
				if rel != 0 {
					row[k] = attachOff + int(rel)
				}
				p += 2
			}
			comps[c] = row
		}
		ligAnchors[l] = comps
	}
	return &markLigPos{data: data, markCov: markCov, ligCov: ligCov, markArray: ma, classCount: int(classCount), ligAnchors: ligAnchors}
}

func (m *markLigPos) Apply(ctx *ApplyContext) bool {
	i := ctx.Locator.Index()
	markIdx := m.markCov.Index(ctx.Album.GetGlyph(i))
	if markIdx == NotCovered || int(markIdx) >= len(m.markArray.classes) {
		return false
	}
	ligIdx, component := ctx.Locator.GetPrecedingLigatureIndex()
	if ligIdx == InvalidIndex {
		return false
	}
	ligCovIdx := m.ligCov.Index(ctx.Album.GetGlyph(ligIdx))
	if ligCovIdx == NotCovered || int(ligCovIdx) >= len(m.ligAnchors) {
		return false
	}
	comps := m.ligAnchors[ligCovIdx]
	if component >= len(comps) {
		component = len(comps) - 1
	}
	if component < 0 {
		return false
	}
	class := m.markArray.classes[markIdx]
	if int(class) >= m.classCount {
		return false
	}
	ligAnchorOff := comps[component][class]
	markAnchorOff := m.markArray.anchors[markIdx]
	if ligAnchorOff == 0 || markAnchorOff == 0 {
		return false
	}
	ligAnchor, ok1 := parseAnchor(ctx, m.data, ligAnchorOff)
	markAnchor, ok2 := parseAnchor(ctx, m.data, markAnchorOff)
	if !ok1 || !ok2 {
		return false
	}
	attachMark(ctx, ligIdx, i, ligAnchor, markAnchor)
	return true
}

// markMarkPos reuses markBasePos's exact shape; the only difference is
// which preceding-glyph search the locator performs (spec §4.7 Type 6
// "identical structure to mark-to-base, aimed at a preceding mark").
type markMarkPos struct {
	*markBasePos
}

func parseMarkMarkPos(data []byte, off int) GPOSSubtable {
	inner := parseMarkBasePos(data, off)
	mb, ok := inner.(*markBasePos)
	if !ok {
		return nil
	}
	return &markMarkPos{mb}
}

func (m *markMarkPos) Apply(ctx *ApplyContext) bool {
	i := ctx.Locator.Index()
	markIdx := m.markCov.Index(ctx.Album.GetGlyph(i))
	if markIdx == NotCovered || int(markIdx) >= len(m.markArray.classes) {
		return false
	}
	baseMarkIdx := ctx.Locator.GetPrecedingMarkIndex()
	if baseMarkIdx == InvalidIndex {
		return false
	}
	baseCovIdx := m.baseCov.Index(ctx.Album.GetGlyph(baseMarkIdx))
	if baseCovIdx == NotCovered || int(baseCovIdx) >= len(m.baseAnchors) {
		return false
	}
	class := m.markArray.classes[markIdx]
	if int(class) >= m.classCount {
		return false
	}
	baseAnchorOff := m.baseAnchors[baseCovIdx][class]
	markAnchorOff := m.markArray.anchors[markIdx]
	if baseAnchorOff == 0 || markAnchorOff == 0 {
		return false
	}
	baseAnchor, ok1 := parseAnchor(ctx, m.data, baseAnchorOff)
	markAnchor, ok2 := parseAnchor(ctx, m.data, markAnchorOff)
	if !ok1 || !ok2 {
		return false
	}
	attachMark(ctx, baseMarkIdx, i, baseAnchor, markAnchor)
	return true
}

// attachMark records the mark's position relative to its base as a plain
// anchor-to-anchor delta and links it back via AttachmentOffset. It does
// not resolve an absolute position or close the advance gap: both the
// base's own position and the advances between base and mark may still
// change later in this positioning pass, so that resolution is deferred
// to resolveMarkPositions, which runs once after every GPOS lookup has
// applied (spec §4.6 "Mark resolution"; grounded on SheenFigure's
// ApplyMarkToBaseArrays, GlyphPositioning.c:626-670, which stores the
// same base-minus-mark delta and defers gap-closing to
// ResolveMarkPositions).
func attachMark(ctx *ApplyContext, base, mark int, baseAnchor, markAnchor AnchorPoint) {
	ctx.Album.SetX(mark, baseAnchor.X-markAnchor.X)
	ctx.Album.SetY(mark, baseAnchor.Y-markAnchor.Y)
	ctx.Album.SetAttachmentOffset(mark, uint16(mark-base))
	ctx.Album.InsertHelperTraits(mark, TraitAttached)
}

// --- Types 7/8: Context / ChainContext positioning ---

type gposContextLookup struct{ *contextTable }
type gposChainContextLookup struct{ *chainContextTable }

func parseGPOSContext(data []byte, off int) GPOSSubtable {
	ct := parseContextTable(data, off)
	if ct == nil {
		return nil
	}
	return gposContextLookup{ct}
}

func parseGPOSChainContext(data []byte, off int) GPOSSubtable {
	ct := parseChainContextTable(data, off)
	if ct == nil {
		return nil
	}
	return gposChainContextLookup{ct}
}

func (l gposContextLookup) Apply(ctx *ApplyContext) bool      { return l.contextTable.apply(ctx) }
func (l gposChainContextLookup) Apply(ctx *ApplyContext) bool { return l.chainContextTable.apply(ctx) }

// --- Type 9: Extension positioning ---

type extensionPos struct {
	inner GPOSSubtable
}

func parseGPOSExtension(data []byte, off int) GPOSSubtable {
	format, ok := u16At(data, off)
	if !ok || format != 1 {
		return nil
	}
	innerType, ok1 := u16At(data, off+2)
	innerOff, ok2 := u32At(data, off+4)
	if !ok1 || !ok2 {
		return nil
	}
	inner := parseGPOSSubtable(data, off+int(innerOff), innerType)
	if inner == nil {
		return nil
	}
	return &extensionPos{inner: inner}
}

func (e *extensionPos) Apply(ctx *ApplyContext) bool { return e.inner.Apply(ctx) }

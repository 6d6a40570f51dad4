package ot

// GSUB lookup types (spec §4.7).
const (
	GSUBSingle             = 1
	GSUBMultiple           = 2
	GSUBAlternate          = 3
	GSUBLigature           = 4
	GSUBContext            = 5
	GSUBChainContext       = 6
	GSUBExtension          = 7
	GSUBReverseChainSingle = 8
)

// GSUBSubtable is one lookup-type-specific subtable. Apply returns true
// only when its preconditions held and it made a meaningful change (spec
// §4.8): false means "try the next subtable".
type GSUBSubtable interface {
	Apply(ctx *ApplyContext) bool
}

// GSUBLookupTable is one entry of the GSUB LookupList.
type GSUBLookupTable struct {
	Type             uint16
	Flag             uint16
	MarkFilteringSet uint16
	Subtables        []GSUBSubtable
}

// GSUB is the parsed Glyph Substitution table.
type GSUB struct {
	data        []byte
	scriptList  *ScriptList
	featureList *FeatureList
	lookups     []*GSUBLookupTable
}

// ParseGSUB parses a GSUB table (versions 1.0 and 1.1; spec §6).
func ParseGSUB(data []byte) (*GSUB, bool) {
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

	g := &GSUB{data: data}
	g.scriptList, _ = parseScriptList(data, int(scriptListOff))
	g.featureList, _ = parseFeatureList(data, int(featureListOff))
	g.lookups = parseGSUBLookupList(data, int(lookupListOff))
	return g, true
}

func parseGSUBLookupList(data []byte, off int) []*GSUBLookupTable {
	count, ok := u16At(data, off)
	if !ok {
		return nil
	}
	out := make([]*GSUBLookupTable, count)
	for i := 0; i < int(count); i++ {
		rel, ok := u16At(data, off+2+i*2)
		if !ok {
			continue
		}
		out[i] = parseGSUBLookup(data, off+int(rel))
	}
	return out
}

func parseGSUBLookup(data []byte, off int) *GSUBLookupTable {
	lookupType, ok1 := u16At(data, off)
	flag, ok2 := u16At(data, off+2)
	subtableCount, ok3 := u16At(data, off+4)
	if !ok1 || !ok2 || !ok3 {
		return nil
	}
	lt := &GSUBLookupTable{Type: lookupType, Flag: flag}
	for i := 0; i < int(subtableCount); i++ {
		rel, ok := u16At(data, off+6+i*2)
		if !ok {
			continue
		}
		if st := parseGSUBSubtable(data, off+int(rel), lookupType); st != nil {
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

func parseGSUBSubtable(data []byte, off int, lookupType uint16) GSUBSubtable {
	switch lookupType {
	case GSUBSingle:
		return parseSingleSubst(data, off)
	case GSUBMultiple:
		return parseMultipleSubst(data, off)
	case GSUBAlternate:
		return parseAlternateSubst(data, off)
	case GSUBLigature:
		return parseLigatureSubst(data, off)
	case GSUBContext:
		return parseGSUBContext(data, off)
	case GSUBChainContext:
		return parseGSUBChainContext(data, off)
	case GSUBExtension:
		return parseGSUBExtension(data, off)
	case GSUBReverseChainSingle:
		return parseReverseChainSingle(data, off)
	default:
		return nil
	}
}

// Lookup returns the parsed lookup at lookupIndex, or nil if absent.
func (g *GSUB) Lookup(lookupIndex int) *GSUBLookupTable {
	if lookupIndex < 0 || lookupIndex >= len(g.lookups) {
		return nil
	}
	return g.lookups[lookupIndex]
}

func (g *GSUB) NumLookups() int { return len(g.lookups) }

func (g *GSUB) ScriptList() *ScriptList   { return g.scriptList }
func (g *GSUB) FeatureList() *FeatureList { return g.featureList }

// --- Type 1: Single substitution ---

type singleSubstFormat1 struct {
	coverage *Coverage
	delta    int16
}

type singleSubstFormat2 struct {
	coverage    *Coverage
	substitutes []GlyphID
}

func parseSingleSubst(data []byte, off int) GSUBSubtable {
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
	switch format {
	case 1:
		delta, ok := i16At(data, off+4)
		if !ok {
			return nil
		}
		return &singleSubstFormat1{coverage: cov, delta: delta}
	case 2:
		count, ok := u16At(data, off+4)
		if !ok {
			return nil
		}
		subs := make([]GlyphID, count)
		for i := 0; i < int(count); i++ {
			v, ok := u16At(data, off+6+i*2)
			if !ok {
				return nil
			}
			subs[i] = GlyphID(v)
		}
		return &singleSubstFormat2{coverage: cov, substitutes: subs}
	default:
		return nil
	}
}

func reclassify(ctx *ApplyContext, i int) {
	class := ctx.GDEF.GlyphClass(ctx.Album.GetGlyph(i))
	ctx.Album.ReplaceBasicTraits(i, BasicTraitsForClass(class))
}

func (s *singleSubstFormat1) Apply(ctx *ApplyContext) bool {
	i := ctx.Locator.Index()
	g := ctx.Album.GetGlyph(i)
	if s.coverage.Index(g) == NotCovered {
		return false
	}
	ctx.Album.SetGlyph(i, GlyphID(uint16(g)+uint16(s.delta)))
	reclassify(ctx, i)
	return true
}

func (s *singleSubstFormat2) Apply(ctx *ApplyContext) bool {
	i := ctx.Locator.Index()
	idx := s.coverage.Index(ctx.Album.GetGlyph(i))
	if idx == NotCovered || int(idx) >= len(s.substitutes) {
		return false
	}
	ctx.Album.SetGlyph(i, s.substitutes[idx])
	reclassify(ctx, i)
	return true
}

// --- Type 2: Multiple substitution ---

type multipleSubst struct {
	coverage  *Coverage
	sequences [][]GlyphID
}

func parseMultipleSubst(data []byte, off int) GSUBSubtable {
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
	m := &multipleSubst{coverage: cov, sequences: make([][]GlyphID, count)}
	for i := 0; i < int(count); i++ {
		seqRel, ok := u16At(data, off+6+i*2)
		if !ok {
			continue
		}
		m.sequences[i] = parseSequence(data, off+int(seqRel))
	}
	return m
}

func parseSequence(data []byte, off int) []GlyphID {
	count, ok := u16At(data, off)
	if !ok {
		return nil
	}
	out := make([]GlyphID, count)
	for i := 0; i < int(count); i++ {
		v, ok := u16At(data, off+2+i*2)
		if !ok {
			return nil
		}
		out[i] = GlyphID(v)
	}
	return out
}

func (m *multipleSubst) Apply(ctx *ApplyContext) bool {
	i := ctx.Locator.Index()
	idx := m.coverage.Index(ctx.Album.GetGlyph(i))
	if idx == NotCovered || int(idx) >= len(m.sequences) {
		return false
	}
	seq := m.sequences[idx]
	if len(seq) == 0 {
		// Standard prohibits deletion: do nothing (spec §4.7).
		return false
	}
	assoc := ctx.Album.GetAssociation(i)
	ctx.Album.SetGlyph(i, seq[0])
	reclassify(ctx, i)
	if len(seq) > 1 {
		ctx.Album.ReserveGlyphs(i+1, len(seq)-1)
		// The reserving locator stays valid: resync its version snapshot
		// and widen its range over the inserted glyphs.
		ctx.Locator.version = ctx.Album.Version()
		ctx.Locator.rangeCount += len(seq) - 1
		for k := 1; k < len(seq); k++ {
			ctx.Album.SetGlyph(i+k, seq[k])
			ctx.Album.SetAssociation(i+k, assoc)
			ctx.Album.InsertHelperTraits(i+k, TraitSequence)
			reclassify(ctx, i+k)
		}
	}
	ctx.Locator.JumpTo(i + len(seq))
	return true
}

// --- Type 3: Alternate substitution ---

type alternateSubst struct {
	coverage   *Coverage
	alternates [][]GlyphID
}

func parseAlternateSubst(data []byte, off int) GSUBSubtable {
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
	a := &alternateSubst{coverage: cov, alternates: make([][]GlyphID, count)}
	for i := 0; i < int(count); i++ {
		rel, ok := u16At(data, off+6+i*2)
		if !ok {
			continue
		}
		a.alternates[i] = parseSequence(data, off+int(rel))
	}
	return a
}

func (a *alternateSubst) Apply(ctx *ApplyContext) bool {
	i := ctx.Locator.Index()
	idx := a.coverage.Index(ctx.Album.GetGlyph(i))
	if idx == NotCovered || int(idx) >= len(a.alternates) {
		return false
	}
	alts := a.alternates[idx]
	value := ctx.FeatureValue
	altIndex := int(value) - 1
	if altIndex < 0 || altIndex >= len(alts) {
		return false
	}
	ctx.Album.SetGlyph(i, alts[altIndex])
	reclassify(ctx, i)
	return true
}

// --- Type 4: Ligature substitution ---

// Ligature is one entry of a LigatureSet: the components after the first
// (already matched by coverage) plus the resulting ligature glyph.
type Ligature struct {
	Glyph      GlyphID
	Components []GlyphID // tail components, glyphCount-1 entries
}

type ligatureSubst struct {
	coverage *Coverage
	sets     [][]Ligature
}

func parseLigatureSubst(data []byte, off int) GSUBSubtable {
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
	l := &ligatureSubst{coverage: cov, sets: make([][]Ligature, count)}
	for i := 0; i < int(count); i++ {
		setRel, ok := u16At(data, off+6+i*2)
		if !ok {
			continue
		}
		l.sets[i] = parseLigatureSet(data, off+int(setRel))
	}
	return l
}

func parseLigatureSet(data []byte, off int) []Ligature {
	count, ok := u16At(data, off)
	if !ok {
		return nil
	}
	out := make([]Ligature, 0, count)
	for i := 0; i < int(count); i++ {
		rel, ok := u16At(data, off+2+i*2)
		if !ok {
			continue
		}
		ligOff := off + int(rel)
		glyph, ok1 := u16At(data, ligOff)
		compCount, ok2 := u16At(data, ligOff+2)
		if !ok1 || !ok2 {
			continue
		}
		comps := make([]GlyphID, 0, compCount)
		for c := 0; c+1 < int(compCount); c++ {
			v, ok := u16At(data, ligOff+4+c*2)
			if !ok {
				break
			}
			comps = append(comps, GlyphID(v))
		}
		out = append(out, Ligature{Glyph: GlyphID(glyph), Components: comps})
	}
	return out
}

func (l *ligatureSubst) Apply(ctx *ApplyContext) bool {
	i := ctx.Locator.Index()
	idx := l.coverage.Index(ctx.Album.GetGlyph(i))
	if idx == NotCovered || int(idx) >= len(l.sets) {
		return false
	}
	for _, lig := range l.sets[idx] {
		positions := matchInput(ctx, i, len(lig.Components)+1, func(pos, seqIdx int) bool {
			return ctx.Album.GetGlyph(pos) == lig.Components[seqIdx-1]
		})
		if positions == nil {
			continue
		}
		assoc := ctx.Album.GetAssociation(i)
		ctx.Album.SetGlyph(i, lig.Glyph)
		ctx.Album.ReplaceBasicTraits(i, TraitLigature)
		for _, pos := range positions[1:] {
			ctx.Album.SetGlyph(pos, 0)
			ctx.Album.InsertHelperTraits(pos, TraitPlaceholder)
		}
		for u := i; u <= positions[len(positions)-1]; u++ {
			ctx.Album.SetAssociation(u, assoc)
		}
		return true
	}
	return false
}

// --- Types 5/6: Context / ChainContext substitution ---

type gsubContextLookup struct{ *contextTable }
type gsubChainContextLookup struct{ *chainContextTable }

func parseGSUBContext(data []byte, off int) GSUBSubtable {
	ct := parseContextTable(data, off)
	if ct == nil {
		return nil
	}
	return gsubContextLookup{ct}
}

func parseGSUBChainContext(data []byte, off int) GSUBSubtable {
	ct := parseChainContextTable(data, off)
	if ct == nil {
		return nil
	}
	return gsubChainContextLookup{ct}
}

func (l gsubContextLookup) Apply(ctx *ApplyContext) bool      { return l.contextTable.apply(ctx) }
func (l gsubChainContextLookup) Apply(ctx *ApplyContext) bool { return l.chainContextTable.apply(ctx) }

// --- Type 7: Extension substitution ---

type extensionSubst struct {
	inner GSUBSubtable
}

func parseGSUBExtension(data []byte, off int) GSUBSubtable {
	format, ok := u16At(data, off)
	if !ok || format != 1 {
		return nil
	}
	innerType, ok1 := u16At(data, off+2)
	innerOff, ok2 := u32At(data, off+4)
	if !ok1 || !ok2 {
		return nil
	}
	inner := parseGSUBSubtable(data, off+int(innerOff), innerType)
	if inner == nil {
		return nil
	}
	return &extensionSubst{inner: inner}
}

func (e *extensionSubst) Apply(ctx *ApplyContext) bool { return e.inner.Apply(ctx) }

// --- Type 8: Reverse chain single substitution ---

type reverseChainSingle struct {
	coverage    *Coverage
	backtrack   CoverageArray
	lookahead   CoverageArray
	substitutes []GlyphID
}

func parseReverseChainSingle(data []byte, off int) GSUBSubtable {
	format, ok := u16At(data, off)
	if !ok || format != 1 {
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
	p := off + 4
	backCount, ok := u16At(data, p)
	if !ok {
		return nil
	}
	p += 2
	back := make(CoverageArray, backCount)
	for i := 0; i < int(backCount); i++ {
		rel, ok := u16At(data, p+i*2)
		if ok {
			back[i], _ = ParseCoverage(data, off+int(rel))
		}
	}
	p += int(backCount) * 2
	aheadCount, ok := u16At(data, p)
	if !ok {
		return nil
	}
	p += 2
	ahead := make(CoverageArray, aheadCount)
	for i := 0; i < int(aheadCount); i++ {
		rel, ok := u16At(data, p+i*2)
		if ok {
			ahead[i], _ = ParseCoverage(data, off+int(rel))
		}
	}
	p += int(aheadCount) * 2
	subCount, ok := u16At(data, p)
	if !ok {
		return nil
	}
	p += 2
	subs := make([]GlyphID, subCount)
	for i := 0; i < int(subCount); i++ {
		v, ok := u16At(data, p+i*2)
		if ok {
			subs[i] = GlyphID(v)
		}
	}
	return &reverseChainSingle{coverage: cov, backtrack: back, lookahead: ahead, substitutes: subs}
}

func (r *reverseChainSingle) Apply(ctx *ApplyContext) bool {
	i := ctx.Locator.Index()
	idx := r.coverage.Index(ctx.Album.GetGlyph(i))
	if idx == NotCovered || int(idx) >= len(r.substitutes) {
		return false
	}
	if !matchBacktrack(ctx, i, len(r.backtrack), func(pos, k int) bool {
		return r.backtrack[k] != nil && r.backtrack[k].Contains(ctx.Album.GetGlyph(pos))
	}) {
		return false
	}
	if !matchLookahead(ctx, i, len(r.lookahead), func(pos, k int) bool {
		return r.lookahead[k] != nil && r.lookahead[k].Contains(ctx.Album.GetGlyph(pos))
	}) {
		return false
	}
	ctx.Album.SetGlyph(i, r.substitutes[idx])
	reclassify(ctx, i)
	return true
}

// ApplyReverse applies every subtable of the lookup in reverse iteration
// direction, one input glyph per position (spec §4.7 Type 8). It does not
// use the normal forward MoveNext loop because reverse-chain single is
// the one lookup type the pipeline walks back-to-front.
func (lt *GSUBLookupTable) ApplyReverse(ctx *ApplyContext) {
	for i := ctx.Album.GlyphCount() - 1; i >= 0; i-- {
		ctx.Locator.Reset(0, ctx.Album.GlyphCount())
		ctx.Locator.JumpTo(i)
		if ctx.Locator.IsIgnored(i) {
			continue
		}
		ctx.Locator.index = i
		for _, st := range lt.Subtables {
			if st.Apply(ctx) {
				break
			}
		}
	}
}

package ot

// Parsing and matching for the three on-disk context/chaining-context
// formats (glyph/class/coverage), shared between GSUB types 5/6 and GPOS
// types 7/8 (spec §4.7). Each format is kept as its own branch rather than
// collapsed into one struct with optional fields (spec §9 "Variadic table
// formats").

type contextTable struct {
	format int
	// format 1/2
	coverage *Coverage
	classDef *ClassDef
	ruleSets [][]SequenceRule
	// format 3
	inputCoverages CoverageArray
	singleRule     []LookupRecord
}

func parseContextTable(data []byte, off int) *contextTable {
	format, ok := u16At(data, off)
	if !ok {
		return nil
	}
	switch format {
	case 1:
		return parseContextFormat1(data, off)
	case 2:
		return parseContextFormat2(data, off)
	case 3:
		return parseContextFormat3(data, off)
	default:
		return nil
	}
}

func parseContextFormat1(data []byte, off int) *contextTable {
	covRel, ok1 := u16At(data, off+2)
	setCount, ok2 := u16At(data, off+4)
	if !ok1 || !ok2 {
		return nil
	}
	cov, ok := ParseCoverage(data, off+int(covRel))
	if !ok {
		return nil
	}
	ct := &contextTable{format: 1, coverage: cov, ruleSets: make([][]SequenceRule, setCount)}
	for i := 0; i < int(setCount); i++ {
		rel, ok := u16At(data, off+6+i*2)
		if !ok || rel == 0 {
			continue
		}
		ct.ruleSets[i] = parseSequenceRuleSet(data, off+int(rel), false)
	}
	return ct
}

func parseContextFormat2(data []byte, off int) *contextTable {
	covRel, ok1 := u16At(data, off+2)
	classDefRel, ok2 := u16At(data, off+4)
	setCount, ok3 := u16At(data, off+6)
	if !ok1 || !ok2 || !ok3 {
		return nil
	}
	cov, ok := ParseCoverage(data, off+int(covRel))
	if !ok {
		return nil
	}
	cd, _ := ParseClassDef(data, off+int(classDefRel))
	ct := &contextTable{format: 2, coverage: cov, classDef: cd, ruleSets: make([][]SequenceRule, setCount)}
	for i := 0; i < int(setCount); i++ {
		rel, ok := u16At(data, off+8+i*2)
		if !ok || rel == 0 {
			continue
		}
		ct.ruleSets[i] = parseSequenceRuleSet(data, off+int(rel), false)
	}
	return ct
}

func parseContextFormat3(data []byte, off int) *contextTable {
	glyphCount, ok1 := u16At(data, off+2)
	lookupCount, ok2 := u16At(data, off+4)
	if !ok1 || !ok2 {
		return nil
	}
	p := off + 6
	covs := make(CoverageArray, glyphCount)
	for i := 0; i < int(glyphCount); i++ {
		rel, ok := u16At(data, p+i*2)
		if ok {
			covs[i], _ = ParseCoverage(data, off+int(rel))
		}
	}
	p += int(glyphCount) * 2
	recs := parseLookupRecords(data, p, int(lookupCount))
	return &contextTable{format: 3, inputCoverages: covs, singleRule: recs}
}

func parseSequenceRuleSet(data []byte, off int, classBased bool) []SequenceRule {
	count, ok := u16At(data, off)
	if !ok {
		return nil
	}
	out := make([]SequenceRule, 0, count)
	for i := 0; i < int(count); i++ {
		rel, ok := u16At(data, off+2+i*2)
		if !ok {
			continue
		}
		out = append(out, parseSequenceRule(data, off+int(rel)))
	}
	return out
}

func parseSequenceRule(data []byte, off int) SequenceRule {
	glyphCount, ok1 := u16At(data, off)
	lookupCount, ok2 := u16At(data, off+2)
	if !ok1 || !ok2 {
		return SequenceRule{}
	}
	input := make([]uint16, 0, glyphCount)
	p := off + 4
	for i := 0; i+1 < int(glyphCount); i++ {
		v, ok := u16At(data, p)
		if !ok {
			break
		}
		input = append(input, v)
		p += 2
	}
	recs := parseLookupRecords(data, p, int(lookupCount))
	return SequenceRule{Input: input, LookupRecords: recs}
}

func parseLookupRecords(data []byte, off int, count int) []LookupRecord {
	out := make([]LookupRecord, 0, count)
	for i := 0; i < count; i++ {
		seqIdx, ok1 := u16At(data, off+i*4)
		lookupIdx, ok2 := u16At(data, off+i*4+2)
		if !ok1 || !ok2 {
			break
		}
		out = append(out, LookupRecord{SequenceIndex: seqIdx, LookupListIndex: lookupIdx})
	}
	return out
}

func (ct *contextTable) apply(ctx *ApplyContext) bool {
	i := ctx.Locator.Index()
	g := ctx.Album.GetGlyph(i)

	switch ct.format {
	case 1, 2:
		var setIdx uint32
		if ct.format == 1 {
			setIdx = ct.coverage.Index(g)
		} else {
			if ct.coverage.Index(g) == NotCovered {
				return false
			}
			setIdx = uint32(ct.classDef.Class(g))
		}
		if setIdx == NotCovered || int(setIdx) >= len(ct.ruleSets) {
			return false
		}
		for _, rule := range ct.ruleSets[setIdx] {
			positions := matchInput(ctx, i, len(rule.Input)+1, func(pos, seqIdx int) bool {
				cand := ctx.Album.GetGlyph(pos)
				if ct.format == 1 {
					return cand == GlyphID(rule.Input[seqIdx-1])
				}
				return ct.classDef.Class(cand) == rule.Input[seqIdx-1]
			})
			if positions == nil {
				continue
			}
			applyNestedLookups(ctx, positions, rule.LookupRecords)
			return true
		}
		return false
	case 3:
		if len(ct.inputCoverages) == 0 || ct.inputCoverages[0] == nil || !ct.inputCoverages[0].Contains(g) {
			return false
		}
		positions := matchInput(ctx, i, len(ct.inputCoverages), func(pos, seqIdx int) bool {
			cov := ct.inputCoverages[seqIdx]
			return cov != nil && cov.Contains(ctx.Album.GetGlyph(pos))
		})
		if positions == nil {
			return false
		}
		applyNestedLookups(ctx, positions, ct.singleRule)
		return true
	}
	return false
}

// --- Chaining context (GSUB 6 / GPOS 8) ---

type chainRule struct {
	Backtrack     []uint16 // format 1/2 only; glyph IDs or classes
	Input         []uint16
	Lookahead     []uint16
	LookupRecords []LookupRecord
}

type chainContextTable struct {
	format int
	// format 1/2
	coverage          *Coverage
	backtrackClassDef *ClassDef
	inputClassDef     *ClassDef
	lookaheadClassDef *ClassDef
	ruleSets          [][]chainRule
	// format 3
	backtrackCoverages CoverageArray
	inputCoverages     CoverageArray
	lookaheadCoverages CoverageArray
	singleRule         []LookupRecord
}

func parseChainContextTable(data []byte, off int) *chainContextTable {
	format, ok := u16At(data, off)
	if !ok {
		return nil
	}
	switch format {
	case 1:
		return parseChainContextFormat1(data, off)
	case 2:
		return parseChainContextFormat2(data, off)
	case 3:
		return parseChainContextFormat3(data, off)
	default:
		return nil
	}
}

func parseChainContextFormat1(data []byte, off int) *chainContextTable {
	covRel, ok1 := u16At(data, off+2)
	setCount, ok2 := u16At(data, off+4)
	if !ok1 || !ok2 {
		return nil
	}
	cov, ok := ParseCoverage(data, off+int(covRel))
	if !ok {
		return nil
	}
	ct := &chainContextTable{format: 1, coverage: cov, ruleSets: make([][]chainRule, setCount)}
	for i := 0; i < int(setCount); i++ {
		rel, ok := u16At(data, off+6+i*2)
		if !ok || rel == 0 {
			continue
		}
		ct.ruleSets[i] = parseChainRuleSet(data, off+int(rel))
	}
	return ct
}

func parseChainRuleSet(data []byte, off int) []chainRule {
	count, ok := u16At(data, off)
	if !ok {
		return nil
	}
	out := make([]chainRule, 0, count)
	for i := 0; i < int(count); i++ {
		rel, ok := u16At(data, off+2+i*2)
		if !ok {
			continue
		}
		out = append(out, parseChainRule(data, off+int(rel)))
	}
	return out
}

func parseChainRule(data []byte, off int) chainRule {
	p := off
	backCount, ok := u16At(data, p)
	if !ok {
		return chainRule{}
	}
	p += 2
	back := make([]uint16, backCount)
	for i := range back {
		back[i], _ = u16At(data, p)
		p += 2
	}
	inCount, ok := u16At(data, p)
	if !ok {
		return chainRule{}
	}
	p += 2
	input := make([]uint16, 0, inCount)
	for i := 0; i+1 < int(inCount); i++ {
		v, _ := u16At(data, p)
		input = append(input, v)
		p += 2
	}
	aheadCount, ok := u16At(data, p)
	if !ok {
		return chainRule{}
	}
	p += 2
	ahead := make([]uint16, aheadCount)
	for i := range ahead {
		ahead[i], _ = u16At(data, p)
		p += 2
	}
	lookupCount, ok := u16At(data, p)
	if !ok {
		return chainRule{}
	}
	p += 2
	recs := parseLookupRecords(data, p, int(lookupCount))
	return chainRule{Backtrack: back, Input: input, Lookahead: ahead, LookupRecords: recs}
}

func parseChainContextFormat2(data []byte, off int) *chainContextTable {
	covRel, ok1 := u16At(data, off+2)
	backCDRel, ok2 := u16At(data, off+4)
	inCDRel, ok3 := u16At(data, off+6)
	aheadCDRel, ok4 := u16At(data, off+8)
	setCount, ok5 := u16At(data, off+10)
	if !ok1 || !ok2 || !ok3 || !ok4 || !ok5 {
		return nil
	}
	cov, ok := ParseCoverage(data, off+int(covRel))
	if !ok {
		return nil
	}
	backCD, _ := ParseClassDef(data, off+int(backCDRel))
	inCD, _ := ParseClassDef(data, off+int(inCDRel))
	aheadCD, _ := ParseClassDef(data, off+int(aheadCDRel))
	ct := &chainContextTable{
		format: 2, coverage: cov,
		backtrackClassDef: backCD, inputClassDef: inCD, lookaheadClassDef: aheadCD,
		ruleSets: make([][]chainRule, setCount),
	}
	for i := 0; i < int(setCount); i++ {
		rel, ok := u16At(data, off+12+i*2)
		if !ok || rel == 0 {
			continue
		}
		ct.ruleSets[i] = parseChainRuleSet(data, off+int(rel))
	}
	return ct
}

func parseChainContextFormat3(data []byte, off int) *chainContextTable {
	p := off + 2
	backCount, ok := u16At(data, p)
	if !ok {
		return nil
	}
	p += 2
	back := make(CoverageArray, backCount)
	for i := range back {
		rel, _ := u16At(data, p)
		back[i], _ = ParseCoverage(data, off+int(rel))
		p += 2
	}
	inCount, ok := u16At(data, p)
	if !ok {
		return nil
	}
	p += 2
	input := make(CoverageArray, inCount)
	for i := range input {
		rel, _ := u16At(data, p)
		input[i], _ = ParseCoverage(data, off+int(rel))
		p += 2
	}
	aheadCount, ok := u16At(data, p)
	if !ok {
		return nil
	}
	p += 2
	ahead := make(CoverageArray, aheadCount)
	for i := range ahead {
		rel, _ := u16At(data, p)
		ahead[i], _ = ParseCoverage(data, off+int(rel))
		p += 2
	}
	lookupCount, ok := u16At(data, p)
	if !ok {
		return nil
	}
	p += 2
	recs := parseLookupRecords(data, p, int(lookupCount))
	return &chainContextTable{format: 3, backtrackCoverages: back, inputCoverages: input, lookaheadCoverages: ahead, singleRule: recs}
}

func (ct *chainContextTable) apply(ctx *ApplyContext) bool {
	i := ctx.Locator.Index()
	g := ctx.Album.GetGlyph(i)

	switch ct.format {
	case 1, 2:
		var setIdx uint32
		if ct.format == 1 {
			setIdx = ct.coverage.Index(g)
		} else {
			if ct.coverage.Index(g) == NotCovered {
				return false
			}
			setIdx = uint32(ct.inputClassDef.Class(g))
		}
		if setIdx == NotCovered || int(setIdx) >= len(ct.ruleSets) {
			return false
		}
		for _, rule := range ct.ruleSets[setIdx] {
			if !matchBacktrack(ctx, i, len(rule.Backtrack), func(pos, k int) bool {
				cand := ctx.Album.GetGlyph(pos)
				if ct.format == 1 {
					return cand == GlyphID(rule.Backtrack[k])
				}
				return ct.backtrackClassDef.Class(cand) == rule.Backtrack[k]
			}) {
				continue
			}
			positions := matchInput(ctx, i, len(rule.Input)+1, func(pos, seqIdx int) bool {
				cand := ctx.Album.GetGlyph(pos)
				if ct.format == 1 {
					return cand == GlyphID(rule.Input[seqIdx-1])
				}
				return ct.inputClassDef.Class(cand) == rule.Input[seqIdx-1]
			})
			if positions == nil {
				continue
			}
			afterInput := positions[len(positions)-1]
			if !matchLookahead(ctx, afterInput, len(rule.Lookahead), func(pos, k int) bool {
				cand := ctx.Album.GetGlyph(pos)
				if ct.format == 1 {
					return cand == GlyphID(rule.Lookahead[k])
				}
				return ct.lookaheadClassDef.Class(cand) == rule.Lookahead[k]
			}) {
				continue
			}
			applyNestedLookups(ctx, positions, rule.LookupRecords)
			return true
		}
		return false
	case 3:
		if len(ct.inputCoverages) == 0 || ct.inputCoverages[0] == nil || !ct.inputCoverages[0].Contains(g) {
			return false
		}
		if !matchBacktrack(ctx, i, len(ct.backtrackCoverages), func(pos, k int) bool {
			cov := ct.backtrackCoverages[k]
			return cov != nil && cov.Contains(ctx.Album.GetGlyph(pos))
		}) {
			return false
		}
		positions := matchInput(ctx, i, len(ct.inputCoverages), func(pos, seqIdx int) bool {
			cov := ct.inputCoverages[seqIdx]
			return cov != nil && cov.Contains(ctx.Album.GetGlyph(pos))
		})
		if positions == nil {
			return false
		}
		afterInput := positions[len(positions)-1]
		if !matchLookahead(ctx, afterInput, len(ct.lookaheadCoverages), func(pos, k int) bool {
			cov := ct.lookaheadCoverages[k]
			return cov != nil && cov.Contains(ctx.Album.GetGlyph(pos))
		}) {
			return false
		}
		applyNestedLookups(ctx, positions, ct.singleRule)
		return true
	}
	return false
}

package collide

// PairKey identifies a sub-pair by child identity and mesh element.
type PairKey struct {
	Child   *Child
	Element int
}

// compoundGroup is the bookkeeping shared by compound-vs-anything handlers:
// the live sub-pairs, the try-to-add policy and stale pair removal.
type compoundGroup struct {
	res      *Resources
	compound Compound
	pairs    map[PairKey]*ElementPair
	refresh  uint64
}

func newCompoundGroup(res *Resources) compoundGroup {
	return compoundGroup{res: res, pairs: make(map[PairKey]*ElementPair)}
}

func (g *compoundGroup) initialize(c Compound) {
	g.compound = c
	g.refresh = 0
}

func (g *compoundGroup) beginRefresh() { g.refresh++ }

// tryToAdd keeps or creates the pair for (child, element) unless the rules
// forbid it. Forbidden pairs are left unmarked and fall out as stale.
func (g *compoundGroup) tryToAdd(child *Child, mesh Mesh, element int) {
	if !g.res.Rules.Allow(child.Filter, mesh.Filter()) {
		return
	}
	key := PairKey{Child: child, Element: element}
	if p, ok := g.pairs[key]; ok {
		p.seen = g.refresh
		return
	}
	p := g.res.Pairs.Acquire()
	p.Initialize(child, mesh, element)
	p.seen = g.refresh
	g.pairs[key] = p
}

// removeStale releases every pair not confirmed by the current refresh.
func (g *compoundGroup) removeStale() int {
	removed := 0
	for key, p := range g.pairs {
		if p.seen == g.refresh {
			continue
		}
		delete(g.pairs, key)
		g.res.Pairs.Release(p)
		removed++
	}
	return removed
}

func (g *compoundGroup) cleanUp() {
	for _, p := range g.pairs {
		g.res.Pairs.Release(p)
	}
	clear(g.pairs)
	g.compound = nil
	g.refresh = 0
}

// Len is the number of live sub-pairs.
func (g *compoundGroup) Len() int { return len(g.pairs) }

// Has reports whether a sub-pair exists for child and element.
func (g *compoundGroup) Has(child *Child, element int) bool {
	_, ok := g.pairs[PairKey{Child: child, Element: element}]
	return ok
}

// ForEachPair visits live sub-pairs in no particular order.
func (g *compoundGroup) ForEachPair(fn func(*ElementPair)) {
	for _, p := range g.pairs {
		fn(p)
	}
}

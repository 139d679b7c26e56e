package collide

import "github.com/san-kum/rigidsim/internal/pool"

// ElementPair is the sub-pair between one compound child and one mesh
// element. Contact generation for it happens downstream.
type ElementPair struct {
	Child   *Child
	Mesh    Mesh
	Element int

	seen uint64
}

func (p *ElementPair) Initialize(child *Child, mesh Mesh, element int) {
	p.Child = child
	p.Mesh = mesh
	p.Element = element
}

// CleanUp drops every reference so the pair can be pooled.
func (p *ElementPair) CleanUp() {
	*p = ElementPair{Element: -1}
}

// Resources are the pools and rules shared by every handler of a
// simulation. Pools are safe for concurrent handlers.
type Resources struct {
	Lists ListAllocator
	Pairs *pool.Pool[*ElementPair]
	Rules Rules
}

func NewResources(rules Rules, debug bool) *Resources {
	if rules == nil {
		rules = NewGroupRules()
	}
	return &Resources{
		Lists: pool.NewListPool[int](64, debug),
		Pairs: pool.New(
			func() *ElementPair { return &ElementPair{Element: -1} },
			(*ElementPair).CleanUp,
			debug,
		),
		Rules: rules,
	}
}

package collide

// Filter carries collision filtering data. A zero Filter behaves like
// DefaultFilter.
type Filter struct {
	// Group overrides category and mask when both sides share a non-zero
	// group: positive always collides, negative never does.
	Group    int16
	Category uint16
	Mask     uint16
}

var DefaultFilter = Filter{Category: 0x0001, Mask: 0xFFFF}

func (f Filter) normalized() Filter {
	if f.Category == 0 && f.Mask == 0 {
		f.Category = DefaultFilter.Category
		f.Mask = DefaultFilter.Mask
	}
	return f
}

// Rules decides whether two collidables may form a pair at all.
type Rules interface {
	Allow(a, b Filter) bool
}

type groupPair struct{ a, b int16 }

func makeGroupPair(a, b int16) groupPair {
	if b < a {
		a, b = b, a
	}
	return groupPair{a, b}
}

// GroupRules applies category/mask filtering plus designer-disabled group
// pairs. Configure it before the simulation starts; Allow is safe for
// concurrent readers.
type GroupRules struct {
	disabled map[groupPair]struct{}
}

func NewGroupRules() *GroupRules {
	return &GroupRules{disabled: make(map[groupPair]struct{})}
}

// Disable forbids pairs between groups a and b, in either order.
func (r *GroupRules) Disable(a, b int16) {
	r.disabled[makeGroupPair(a, b)] = struct{}{}
}

func (r *GroupRules) Enable(a, b int16) {
	delete(r.disabled, makeGroupPair(a, b))
}

func (r *GroupRules) Allow(a, b Filter) bool {
	a, b = a.normalized(), b.normalized()
	if _, off := r.disabled[makeGroupPair(a.Group, b.Group)]; off {
		return false
	}
	if a.Group == b.Group && a.Group != 0 {
		return a.Group > 0
	}
	return a.Mask&b.Category != 0 && a.Category&b.Mask != 0
}

package collide

import "github.com/san-kum/rigidsim/internal/geom"

// Entry is a broad-phase participant. Its kind is discovered through the
// interfaces it implements.
type Entry interface {
	BoundingBox() geom.AABB
}

// Hierarchy is the query side of a mesh acceleration structure. The output
// list belongs to the caller and is only appended to.
type Hierarchy interface {
	GetOverlaps(box geom.AABB, out *[]int)
}

// Mesh is a large static or instanced collidable indexed by element.
type Mesh interface {
	Entry
	Hierarchy() Hierarchy
	ElementBounds(element int) geom.AABB
	Filter() Filter
}

// Compound is an aggregate of independently bounded children.
type Compound interface {
	Entry
	Children() []*Child
}

// Child is one sub-collidable of a compound. Bounds is in world space and
// is kept current by the owning compound.
type Child struct {
	Name   string
	Bounds geom.AABB
	Filter Filter
}

// ListAllocator lends scratch index lists. Acquired lists are empty.
type ListAllocator interface {
	AcquireList() *[]int
	Release(list *[]int)
}

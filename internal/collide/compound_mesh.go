package collide

import "fmt"

// PairHandler is what a broad phase drives for one overlapping pair.
type PairHandler interface {
	Initialize(a, b Entry) error
	UpdateContainedPairs()
	CleanUp()
	Len() int
}

// CompoundMeshHandler maintains the sub-pairs between one compound and one
// mesh. One handler is refreshed by one goroutine at a time.
type CompoundMeshHandler struct {
	compoundGroup
	mesh Mesh

	// Added and Removed count sub-pair changes in the last refresh.
	Added   int
	Removed int
}

var _ PairHandler = (*CompoundMeshHandler)(nil)

func NewCompoundMeshHandler(res *Resources) *CompoundMeshHandler {
	return &CompoundMeshHandler{compoundGroup: newCompoundGroup(res)}
}

// Initialize binds the handler to a compound and a mesh given in either
// order.
func (h *CompoundMeshHandler) Initialize(a, b Entry) error {
	if h.mesh != nil {
		return ErrHandlerInUse
	}

	mesh, other := pickMesh(a, b)
	if mesh == nil {
		return fmt.Errorf("%w: neither %T nor %T is a mesh", ErrInvalidPairTypes, a, b)
	}
	compound, ok := other.(Compound)
	if !ok {
		return fmt.Errorf("%w: %T is not a compound", ErrInvalidPairTypes, other)
	}

	h.mesh = mesh
	h.initialize(compound)
	return nil
}

func pickMesh(a, b Entry) (Mesh, Entry) {
	if m, ok := a.(Mesh); ok {
		return m, b
	}
	if m, ok := b.(Mesh); ok {
		return m, a
	}
	return nil, nil
}

func (h *CompoundMeshHandler) Mesh() Mesh { return h.mesh }

func (h *CompoundMeshHandler) Compound() Compound { return h.compound }

// UpdateContainedPairs re-derives the sub-pair set from current bounds.
func (h *CompoundMeshHandler) UpdateContainedPairs() {
	if h.mesh == nil {
		return
	}
	candidates := h.res.Lists.AcquireList()
	defer h.res.Lists.Release(candidates)

	before := h.Len()
	h.beginRefresh()
	// a compound without children has an empty bound; every pair goes stale
	if bound := h.compound.BoundingBox(); !bound.IsEmpty() {
		h.mesh.Hierarchy().GetOverlaps(bound, candidates)
	}

	children := h.compound.Children()
	for _, element := range *candidates {
		bounds := h.mesh.ElementBounds(element)
		for _, child := range children {
			if child.Bounds.Intersects(bounds) {
				h.tryToAdd(child, h.mesh, element)
			}
		}
	}

	h.Removed = h.removeStale()
	h.Added = h.Len() - before + h.Removed
}

// CleanUp releases every sub-pair and forgets the mesh and compound.
func (h *CompoundMeshHandler) CleanUp() {
	h.cleanUp()
	h.mesh = nil
	h.Added, h.Removed = 0, 0
}

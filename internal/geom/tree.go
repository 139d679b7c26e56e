package geom

import "sort"

const leafSize = 4

// Tree is a static bounding volume hierarchy over indexed elements. It is
// built once and only queried afterwards, so it fits meshes that never move.
type Tree struct {
	nodes  []treeNode
	items  []int
	bounds []AABB
}

type treeNode struct {
	box         AABB
	left, right int
	start       int
	count       int
}

func (n *treeNode) isLeaf() bool { return n.count > 0 }

// BuildTree builds a median-split hierarchy where element i has bounds[i].
func BuildTree(bounds []AABB) *Tree {
	t := &Tree{
		nodes:  make([]treeNode, 0, 2*len(bounds)/leafSize+1),
		items:  make([]int, len(bounds)),
		bounds: bounds,
	}
	for i := range t.items {
		t.items[i] = i
	}
	if len(bounds) > 0 {
		t.build(0, len(bounds))
	}
	return t
}

func (t *Tree) build(start, end int) int {
	box := Empty
	centroids := Empty
	for _, it := range t.items[start:end] {
		box = box.Merge(t.bounds[it])
		c := t.bounds[it].Center()
		centroids = centroids.Merge(AABB{Min: c, Max: c})
	}

	idx := len(t.nodes)
	t.nodes = append(t.nodes, treeNode{box: box, left: -1, right: -1})
	if end-start <= leafSize {
		t.nodes[idx].start = start
		t.nodes[idx].count = end - start
		return idx
	}

	axis := centroids.LongestAxis()
	span := t.items[start:end]
	sort.Slice(span, func(i, j int) bool {
		return t.bounds[span[i]].Center()[axis] < t.bounds[span[j]].Center()[axis]
	})
	mid := start + (end-start)/2

	left := t.build(start, mid)
	right := t.build(mid, end)
	t.nodes[idx].left = left
	t.nodes[idx].right = right
	return idx
}

// Len returns the number of indexed elements.
func (t *Tree) Len() int { return len(t.bounds) }

// Bounds returns the root bounding box, or Empty for an empty tree.
func (t *Tree) Bounds() AABB {
	if len(t.nodes) == 0 {
		return Empty
	}
	return t.nodes[0].box
}

// ElementBounds returns the bounds element i was built with.
func (t *Tree) ElementBounds(i int) AABB { return t.bounds[i] }

// GetOverlaps appends to out every element whose bounds overlap box. The
// caller owns out; the tree never retains it.
func (t *Tree) GetOverlaps(box AABB, out *[]int) {
	if len(t.nodes) == 0 {
		return
	}
	var stack [64]int
	sp := 0
	stack[sp] = 0
	sp++
	for sp > 0 {
		sp--
		n := &t.nodes[stack[sp]]
		if !n.box.Intersects(box) {
			continue
		}
		if n.isLeaf() {
			for _, it := range t.items[n.start : n.start+n.count] {
				if t.bounds[it].Intersects(box) {
					*out = append(*out, it)
				}
			}
			continue
		}
		stack[sp] = n.left
		stack[sp+1] = n.right
		sp += 2
	}
}

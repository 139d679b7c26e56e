// Package entity holds the concrete collidables a scene is built from.
package entity

import (
	"github.com/san-kum/rigidsim/internal/body"
	"github.com/san-kum/rigidsim/internal/collide"
	"github.com/san-kum/rigidsim/internal/geom"
)

// Part describes one child of a compound relative to the body position.
type Part struct {
	Name   string
	Local  geom.AABB
	Filter collide.Filter
}

// CompoundBody is a rigid body made of independently bounded parts.
type CompoundBody struct {
	*body.Body

	children []*collide.Child
	local    []geom.AABB
	bounds   geom.AABB
}

var _ collide.Compound = (*CompoundBody)(nil)

func NewCompound(b *body.Body, parts []Part) *CompoundBody {
	c := &CompoundBody{
		Body:     b,
		children: make([]*collide.Child, len(parts)),
		local:    make([]geom.AABB, len(parts)),
	}
	for i, p := range parts {
		c.children[i] = &collide.Child{Name: p.Name, Filter: p.Filter}
		c.local[i] = p.Local
	}
	c.Refresh()
	return c
}

// Refresh moves every child to the body's current position and recomputes
// the aggregate bound.
func (c *CompoundBody) Refresh() {
	c.bounds = geom.Empty
	for i, child := range c.children {
		child.Bounds = c.local[i].Translate(c.Position)
		c.bounds = c.bounds.Merge(child.Bounds)
	}
}

func (c *CompoundBody) BoundingBox() geom.AABB { return c.bounds }

func (c *CompoundBody) Children() []*collide.Child { return c.children }

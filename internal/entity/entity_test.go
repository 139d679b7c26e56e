package entity

import (
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/rigidsim/internal/body"
	"github.com/san-kum/rigidsim/internal/collide"
	"github.com/san-kum/rigidsim/internal/geom"
)

func TestCompoundRefreshFollowsBody(t *testing.T) {
	b := body.New(1, "hammer", body.Dynamic)
	c := NewCompound(b, []Part{
		{Name: "head", Local: geom.FromCenter(mgl64.Vec3{0, 1, 0}, mgl64.Vec3{0.5, 0.25, 0.25})},
		{Name: "handle", Local: geom.FromCenter(mgl64.Vec3{}, mgl64.Vec3{0.1, 1, 0.1})},
	})

	b.Position = mgl64.Vec3{5, 0, 0}
	c.Refresh()

	head := c.Children()[0].Bounds
	if head.Center() != (mgl64.Vec3{5, 1, 0}) {
		t.Errorf("expected head at (5,1,0), got %v", head.Center())
	}
	want := geom.AABB{Min: mgl64.Vec3{4.5, -1, -0.25}, Max: mgl64.Vec3{5.5, 1.25, 0.25}}
	if c.BoundingBox() != want {
		t.Errorf("expected bounds %v, got %v", want, c.BoundingBox())
	}
}

func TestGridMesh(t *testing.T) {
	m := NewGridMesh("ground", mgl64.Vec3{}, 4, 3, 2, nil, collide.DefaultFilter)
	if m.Len() != 24 {
		t.Fatalf("expected 24 triangles, got %d", m.Len())
	}
	want := geom.AABB{Min: mgl64.Vec3{0, 0, 0}, Max: mgl64.Vec3{8, 0, 6}}
	if m.BoundingBox() != want {
		t.Errorf("expected bounds %v, got %v", want, m.BoundingBox())
	}

	var hits []int
	m.Hierarchy().GetOverlaps(geom.FromCenter(mgl64.Vec3{1, 0, 1}, mgl64.Vec3{0.1, 0.1, 0.1}), &hits)
	if len(hits) == 0 {
		t.Fatal("expected a triangle under (1,0,1)")
	}
	for _, h := range hits {
		if !m.ElementBounds(h).Intersects(m.triangles[h].Bounds()) {
			t.Errorf("element %d bounds do not match its triangle", h)
		}
	}
}

package entity

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/rigidsim/internal/collide"
	"github.com/san-kum/rigidsim/internal/geom"
)

type Triangle [3]mgl64.Vec3

func (t Triangle) Bounds() geom.AABB {
	return geom.FromPoints(t[0], t[1], t[2])
}

// StaticMesh is immovable triangle geometry indexed by a bounding volume
// hierarchy.
type StaticMesh struct {
	Name      string
	triangles []Triangle
	tree      *geom.Tree
	filter    collide.Filter
}

var _ collide.Mesh = (*StaticMesh)(nil)

func NewStaticMesh(name string, triangles []Triangle, filter collide.Filter) *StaticMesh {
	bounds := make([]geom.AABB, len(triangles))
	for i, t := range triangles {
		bounds[i] = t.Bounds()
	}
	return &StaticMesh{
		Name:      name,
		triangles: triangles,
		tree:      geom.BuildTree(bounds),
		filter:    filter,
	}
}

// NewGridMesh triangulates a height field with two triangles per cell,
// starting at origin and extending along +x and +z.
func NewGridMesh(name string, origin mgl64.Vec3, cellsX, cellsZ int, cell float64, height func(x, z float64) float64, filter collide.Filter) *StaticMesh {
	if height == nil {
		height = func(x, z float64) float64 { return 0 }
	}
	vertex := func(i, j int) mgl64.Vec3 {
		x := origin.X() + float64(i)*cell
		z := origin.Z() + float64(j)*cell
		return mgl64.Vec3{x, origin.Y() + height(x, z), z}
	}

	triangles := make([]Triangle, 0, 2*cellsX*cellsZ)
	for i := 0; i < cellsX; i++ {
		for j := 0; j < cellsZ; j++ {
			a, b := vertex(i, j), vertex(i+1, j)
			c, d := vertex(i, j+1), vertex(i+1, j+1)
			triangles = append(triangles, Triangle{a, b, c}, Triangle{b, d, c})
		}
	}
	return NewStaticMesh(name, triangles, filter)
}

func (m *StaticMesh) BoundingBox() geom.AABB { return m.tree.Bounds() }

func (m *StaticMesh) Hierarchy() collide.Hierarchy { return m.tree }

func (m *StaticMesh) ElementBounds(element int) geom.AABB { return m.tree.ElementBounds(element) }

func (m *StaticMesh) Filter() collide.Filter { return m.filter }

func (m *StaticMesh) Len() int { return len(m.triangles) }

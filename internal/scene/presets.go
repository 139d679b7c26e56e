package scene

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/rigidsim/internal/collide"
	"github.com/san-kum/rigidsim/internal/config"
	"github.com/san-kum/rigidsim/internal/entity"
	"github.com/san-kum/rigidsim/internal/geom"
	"github.com/san-kum/rigidsim/internal/world"
)

const (
	terrainGroup int16 = 1
	dustGroup    int16 = 2
)

// dust parts ride along with rubble but never touch terrain
func rubbleRules() collide.Rules {
	r := collide.NewGroupRules()
	r.Disable(terrainGroup, dustGroup)
	return r
}

func cube(center mgl64.Vec3, half float64) geom.AABB {
	return geom.FromCenter(center, mgl64.Vec3{half, half, half})
}

func randomVelocity(rng *rand.Rand, scale float64) mgl64.Vec3 {
	return mgl64.Vec3{
		(rng.Float64()*2 - 1) * scale,
		0,
		(rng.Float64()*2 - 1) * scale,
	}
}

// buildRubble scatters two-part chunks with a trailing dust cloud over bumpy
// terrain.
func buildRubble(w *world.World, cfg *config.Config, rng *rand.Rand) error {
	side := max(4, int(math.Ceil(math.Sqrt(float64(cfg.Bodies))))*2)
	bumps := func(x, z float64) float64 { return 0.15 * math.Sin(x) * math.Cos(z) }
	w.AddMesh(entity.NewGridMesh("terrain", mgl64.Vec3{}, side, side, 1, bumps,
		collide.Filter{Group: terrainGroup, Category: 0x0001, Mask: 0xFFFF}))

	chunks := make([]*entity.CompoundBody, 0, cfg.Bodies)
	perRow := side / 2
	for i := 0; i < cfg.Bodies; i++ {
		x := float64(i%perRow)*2 + 1
		z := float64(i/perRow)*2 + 1
		b := newDynamic(i, fmt.Sprintf("chunk-%d", i), cfg)
		b.Position = mgl64.Vec3{x, bumps(x, z), z}
		b.Velocity = randomVelocity(rng, 1.5)

		c := entity.NewCompound(b, []entity.Part{
			{Name: "core", Local: cube(mgl64.Vec3{0, 0.3, 0}, 0.3)},
			{Name: "shard", Local: geom.FromCenter(mgl64.Vec3{0.4, 0.15, 0.2}, mgl64.Vec3{0.2, 0.15, 0.2})},
			{Name: "dust", Local: cube(mgl64.Vec3{0, 0.1, -0.4}, 0.2), Filter: collide.Filter{Group: dustGroup, Category: 0x0002, Mask: 0xFFFF}},
		})
		w.AddCompound(c)
		chunks = append(chunks, c)
	}
	return groupConsecutive(w, chunks, cfg.IslandSize)
}

// buildPile stacks unit boxes in columns; each column is one island and
// only its bottom box touches the ground.
func buildPile(w *world.World, cfg *config.Config, rng *rand.Rand) error {
	columns := max(1, (cfg.Bodies+cfg.IslandSize-1)/cfg.IslandSize)
	w.AddMesh(entity.NewGridMesh("ground", mgl64.Vec3{}, columns*2+1, 3, 1, nil, collide.DefaultFilter))

	boxes := make([]*entity.CompoundBody, 0, cfg.Bodies)
	for i := 0; i < cfg.Bodies; i++ {
		col, level := i/cfg.IslandSize, i%cfg.IslandSize
		b := newDynamic(i, fmt.Sprintf("box-%d-%d", col, level), cfg)
		b.Position = mgl64.Vec3{float64(col)*2 + 1.5, float64(level), 1.5}
		b.Velocity = randomVelocity(rng, 0.5)

		c := entity.NewCompound(b, []entity.Part{
			{Name: "box", Local: cube(mgl64.Vec3{0, 0.5, 0}, 0.5)},
		})
		w.AddCompound(c)
		boxes = append(boxes, c)
	}
	return groupConsecutive(w, boxes, cfg.IslandSize)
}

const plankPitch = 1.1

// buildBridge lays planks across a gap between two banks. Only the end
// planks rest on a bank.
func buildBridge(w *world.World, cfg *config.Config, rng *rand.Rand) error {
	n := cfg.Bodies
	lastX := 3.5 + float64(max(n-1, 0))*plankPitch
	w.AddMesh(entity.NewGridMesh("left-bank", mgl64.Vec3{}, 4, 3, 1, nil, collide.DefaultFilter))
	w.AddMesh(entity.NewGridMesh("right-bank", mgl64.Vec3{lastX, 0, 0}, 4, 3, 1, nil, collide.DefaultFilter))

	planks := make([]*entity.CompoundBody, 0, n)
	for i := 0; i < n; i++ {
		b := newDynamic(i, fmt.Sprintf("plank-%d", i), cfg)
		b.Position = mgl64.Vec3{3.5 + float64(i)*plankPitch, 0, 1.5}
		b.Velocity = mgl64.Vec3{0, 0, (rng.Float64()*2 - 1) * 0.2}

		c := entity.NewCompound(b, []entity.Part{
			{Name: "deck", Local: geom.FromCenter(mgl64.Vec3{0, 0.1, 0}, mgl64.Vec3{0.5, 0.1, 1.5})},
			{Name: "rope", Local: geom.FromCenter(mgl64.Vec3{0, 0.3, -1.4}, mgl64.Vec3{0.5, 0.1, 0.1})},
		})
		w.AddCompound(c)
		planks = append(planks, c)
	}
	return groupConsecutive(w, planks, cfg.IslandSize)
}

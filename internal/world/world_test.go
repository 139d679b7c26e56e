package world

import (
	"context"
	"errors"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/rigidsim/internal/body"
	"github.com/san-kum/rigidsim/internal/collide"
	"github.com/san-kum/rigidsim/internal/entity"
	"github.com/san-kum/rigidsim/internal/geom"
	"github.com/san-kum/rigidsim/internal/island"
)

var testOptions = Options{
	Dt:                0.05,
	Workers:           4,
	Sleep:             body.Sleep{VelocityLimit: 0.1, TimeUntilCandidate: 0.2},
	MaxIslandsPerStep: 10,
	PoolDebug:         true,
}

func newCrate(id int, x, z float64) *entity.CompoundBody {
	b := body.New(id, "crate", body.Dynamic)
	b.Position = mgl64.Vec3{x, 0, z}
	return entity.NewCompound(b, []entity.Part{
		{Name: "left", Local: geom.FromCenter(mgl64.Vec3{-0.5, 0.5, 0}, mgl64.Vec3{0.5, 0.5, 0.5})},
		{Name: "right", Local: geom.FromCenter(mgl64.Vec3{0.5, 0.5, 0}, mgl64.Vec3{0.5, 0.5, 0.5})},
	})
}

// two islands of two crates resting on a 10x10 ground
func newTestWorld(t *testing.T) (*World, []*island.Island) {
	t.Helper()
	w := New(testOptions, nil)
	w.AddMesh(entity.NewGridMesh("ground", mgl64.Vec3{}, 10, 10, 1, nil, collide.DefaultFilter))

	crates := []*entity.CompoundBody{newCrate(0, 2, 2), newCrate(1, 3, 2), newCrate(2, 7, 7), newCrate(3, 8, 7)}
	for _, c := range crates {
		w.AddCompound(c)
	}
	a, err := w.Group(crates[0].Body, crates[1].Body)
	if err != nil {
		t.Fatal(err)
	}
	b, err := w.Group(crates[2].Body, crates[3].Body)
	if err != nil {
		t.Fatal(err)
	}
	return w, []*island.Island{a, b}
}

func runSteps(t *testing.T, w *World, n int) Stats {
	t.Helper()
	var last Stats
	for i := 0; i < n; i++ {
		st, err := w.Step()
		if err != nil {
			t.Fatalf("step %d failed: %v", i, err)
		}
		last = st
	}
	return last
}

func TestRestingIslandsFallAsleep(t *testing.T) {
	w, islands := newTestWorld(t)
	defer w.Close()

	st := runSteps(t, w, 10)
	if st.ActiveIslands != 0 || st.ActiveBodies != 0 {
		t.Fatalf("expected everything asleep, got %d islands and %d bodies awake", st.ActiveIslands, st.ActiveBodies)
	}
	for _, isl := range islands {
		if isl.IsActive() {
			t.Error("island still awake")
		}
	}
	if st.Handlers != 4 {
		t.Errorf("expected 4 pair handlers, got %d", st.Handlers)
	}
	if st.SubPairs == 0 {
		t.Error("expected sub-pairs between crates and ground")
	}
}

func TestWakeEventWakesOnlyItsIsland(t *testing.T) {
	w, islands := newTestWorld(t)
	defer w.Close()

	runSteps(t, w, 10)
	w.Schedule(Event{Step: 10, Kind: EventWake, BodyID: 0, Impulse: [3]float64{1, 0, 0}})

	st, err := w.Step()
	if err != nil {
		t.Fatal(err)
	}
	if st.Woke != 1 {
		t.Errorf("expected 1 woken island, got %d", st.Woke)
	}
	if !islands[0].IsActive() || islands[1].IsActive() {
		t.Error("only the first island should be awake")
	}
	partner, _ := w.Compound(1)
	if !partner.IsActive() {
		t.Error("island partner should wake too")
	}
}

func TestRemoveEventTearsDownHandlers(t *testing.T) {
	w, islands := newTestWorld(t)
	defer w.Close()

	runSteps(t, w, 1)
	w.Schedule(Event{Step: 1, Kind: EventRemove, BodyID: 2})
	w.Schedule(Event{Step: 1, Kind: EventRemove, BodyID: 3})

	st := runSteps(t, w, 1)
	if st.Bodies != 2 || st.Handlers != 2 {
		t.Errorf("expected 2 bodies and 2 handlers, got %d and %d", st.Bodies, st.Handlers)
	}
	if islands[1].Len() != 0 {
		// the emptied island may already have been recycled
		t.Errorf("expected emptied island, got %d members", islands[1].Len())
	}
	if st.Islands != 1 {
		t.Errorf("expected the empty island to be released, got %d islands", st.Islands)
	}

	if err := w.RemoveBody(3); !errors.Is(err, ErrUnknownBody) {
		t.Errorf("expected ErrUnknownBody, got %v", err)
	}
}

func TestLeavingMeshReleasesHandler(t *testing.T) {
	w, _ := newTestWorld(t)
	defer w.Close()

	runSteps(t, w, 1)
	c, _ := w.Compound(0)
	c.Velocity = mgl64.Vec3{0, 10, 0}

	st := runSteps(t, w, 1)
	if st.Handlers != 3 {
		t.Errorf("expected 3 handlers after lift-off, got %d", st.Handlers)
	}

	pairsForOthers := 0
	for key, h := range w.handlers {
		if key.compound == c {
			t.Error("handler for departed compound survived")
		}
		pairsForOthers += h.Len()
	}
	if got := w.Resources().Pairs.Outstanding(); got != int64(pairsForOthers) {
		t.Errorf("expected %d outstanding pairs, got %d", pairsForOthers, got)
	}
}

func TestGroupRejectsOwnedBody(t *testing.T) {
	w, _ := newTestWorld(t)
	defer w.Close()

	c, _ := w.Compound(0)
	before := len(w.Islands().Islands())
	if _, err := w.Group(c.Body); !errors.Is(err, island.ErrIllegalMembership) {
		t.Fatalf("expected ErrIllegalMembership, got %v", err)
	}
	if len(w.Islands().Islands()) != before {
		t.Error("failed group leaked an island")
	}
	if c.SimulationIsland() == nil {
		t.Error("failed group stole the body from its island")
	}
}

func TestRunAndClose(t *testing.T) {
	w, _ := newTestWorld(t)

	timeline, err := w.Run(context.Background(), 20, nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(timeline) != 20 {
		t.Fatalf("expected 20 stats, got %d", len(timeline))
	}
	if timeline[0].ActiveBodies != 4 {
		t.Errorf("expected 4 active bodies at step 0, got %d", timeline[0].ActiveBodies)
	}

	w.Close()
	if w.Resources().Pairs.Outstanding() != 0 {
		t.Errorf("pairs leaked: %d", w.Resources().Pairs.Outstanding())
	}
	if w.Islands().Outstanding() != 0 {
		t.Errorf("islands leaked: %d", w.Islands().Outstanding())
	}
}

func TestRunStopsOnCancel(t *testing.T) {
	w, _ := newTestWorld(t)
	defer w.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	timeline, err := w.Run(ctx, 10, nil)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
	if len(timeline) != 0 {
		t.Errorf("expected no steps, got %d", len(timeline))
	}
}

func TestParallelVisitsEveryItem(t *testing.T) {
	for _, workers := range []int{1, 3, 16} {
		items := make([]*int, 50)
		for i := range items {
			items[i] = new(int)
		}
		parallel(workers, items, func(v *int) { *v++ })
		for i, v := range items {
			if *v != 1 {
				t.Fatalf("workers=%d: item %d visited %d times", workers, i, *v)
			}
		}
	}
}

// Package world runs the per-step pipeline around islands and compound pair
// handlers.
//
// Each step:
//
//  1. scheduled events (impulses, removals) are applied
//  2. awake bodies integrate and update their rest timers, in parallel
//  3. a naive broad phase creates and tears down compound-vs-mesh handlers
//  4. handlers of awake compounds refresh their sub-pairs, in parallel
//  5. the island manager runs its bounded deactivation pass
package world

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/rigidsim/internal/body"
	"github.com/san-kum/rigidsim/internal/collide"
	"github.com/san-kum/rigidsim/internal/entity"
	"github.com/san-kum/rigidsim/internal/island"
	"github.com/san-kum/rigidsim/internal/pool"
	"go.uber.org/zap"
)

var ErrUnknownBody = errors.New("world: unknown body")

type Options struct {
	Dt                float64
	Workers           int
	Sleep             body.Sleep
	MaxIslandsPerStep int
	PoolDebug         bool
	Rules             collide.Rules
}

type EventKind uint8

const (
	EventWake EventKind = iota
	EventRemove
)

// Event is a scripted change applied at the start of Step.
type Event struct {
	Step    int
	Kind    EventKind
	BodyID  int
	Impulse [3]float64
}

type handlerKey struct {
	compound *entity.CompoundBody
	mesh     *entity.StaticMesh
}

type World struct {
	opts Options
	log  *zap.Logger

	compounds []*entity.CompoundBody
	meshes    []*entity.StaticMesh
	byID      map[int]*entity.CompoundBody

	islands  *island.Manager
	res      *collide.Resources
	handlers map[handlerKey]*collide.CompoundMeshHandler
	hpool    *pool.Pool[*collide.CompoundMeshHandler]
	awake    []*collide.CompoundMeshHandler
	movers   []*entity.CompoundBody

	events []Event
	step   int
	time   float64
}

func New(opts Options, log *zap.Logger) *World {
	if log == nil {
		log = zap.NewNop()
	}
	if opts.Workers <= 0 {
		opts.Workers = 1
	}
	res := collide.NewResources(opts.Rules, opts.PoolDebug)
	return &World{
		opts:     opts,
		log:      log,
		byID:     make(map[int]*entity.CompoundBody),
		islands:  island.NewManager(opts.MaxIslandsPerStep, opts.PoolDebug),
		res:      res,
		handlers: make(map[handlerKey]*collide.CompoundMeshHandler),
		hpool: pool.New(
			func() *collide.CompoundMeshHandler { return collide.NewCompoundMeshHandler(res) },
			(*collide.CompoundMeshHandler).CleanUp,
			opts.PoolDebug,
		),
	}
}

func (w *World) AddMesh(m *entity.StaticMesh) {
	w.meshes = append(w.meshes, m)
}

func (w *World) AddCompound(c *entity.CompoundBody) {
	w.compounds = append(w.compounds, c)
	w.byID[c.ID] = c
}

func (w *World) Compound(id int) (*entity.CompoundBody, bool) {
	c, ok := w.byID[id]
	return c, ok
}

func (w *World) Compounds() []*entity.CompoundBody { return w.compounds }

func (w *World) Islands() *island.Manager { return w.islands }

func (w *World) Resources() *collide.Resources { return w.res }

// ForEachHandler visits every live compound-vs-mesh handler. Do not call it
// concurrently with Step.
func (w *World) ForEachHandler(fn func(*collide.CompoundMeshHandler)) {
	for _, h := range w.handlers {
		fn(h)
	}
}

// Group puts the given bodies into a fresh pooled island. On failure no
// body is left in the new island.
func (w *World) Group(members ...*body.Body) (*island.Island, error) {
	isl := w.islands.NewIsland()
	for i, m := range members {
		if err := isl.Add(m); err != nil {
			w.islands.Release(isl)
			return nil, fmt.Errorf("group member %d (%s): %w", i, m.Name, err)
		}
	}
	return isl, nil
}

// Schedule queues an event; events run in step order.
func (w *World) Schedule(ev Event) {
	w.events = append(w.events, ev)
	sort.SliceStable(w.events, func(i, j int) bool { return w.events[i].Step < w.events[j].Step })
}

// RemoveBody takes a compound out of the simulation, tearing down its pair
// handlers and leaving its island.
func (w *World) RemoveBody(id int) error {
	c, ok := w.byID[id]
	if !ok {
		return fmt.Errorf("%w: %d", ErrUnknownBody, id)
	}
	for _, m := range w.meshes {
		w.dropHandler(handlerKey{c, m})
	}
	if isl := c.SimulationIsland(); isl != nil {
		if err := isl.Remove(c.Body); err != nil {
			return fmt.Errorf("remove body %d: %w", id, err)
		}
	}
	for i, other := range w.compounds {
		if other == c {
			w.compounds = append(w.compounds[:i], w.compounds[i+1:]...)
			break
		}
	}
	delete(w.byID, id)
	w.log.Debug("body removed", zap.Int("body", id), zap.String("name", c.Name))
	return nil
}

// Step advances the simulation by one fixed timestep.
func (w *World) Step() (Stats, error) {
	st := Stats{Step: w.step}

	activeBefore := w.islands.ActiveCount()
	if err := w.applyEvents(); err != nil {
		return st, err
	}
	if woke := w.islands.ActiveCount() - activeBefore; woke > 0 {
		st.Woke = woke
	}

	w.movers = w.movers[:0]
	for _, c := range w.compounds {
		if c.IsActive() {
			w.movers = append(w.movers, c)
		}
	}
	dt, sleep := w.opts.Dt, w.opts.Sleep
	parallel(w.opts.Workers, w.movers, func(c *entity.CompoundBody) {
		c.Integrate(dt)
		c.Refresh()
		c.UpdateDeactivation(dt, sleep)
	})

	if err := w.broadPhase(); err != nil {
		return st, err
	}

	w.awake = w.awake[:0]
	for key, h := range w.handlers {
		if key.compound.IsActive() {
			w.awake = append(w.awake, h)
		}
	}
	parallel(w.opts.Workers, w.awake, (*collide.CompoundMeshHandler).UpdateContainedPairs)
	for _, h := range w.awake {
		st.PairsAdded += h.Added
		st.PairsRemoved += h.Removed
	}

	report := w.islands.Update()
	st.Slept = len(report.Deactivated)
	for _, isl := range report.Deactivated {
		w.log.Debug("island asleep", zap.Int("step", w.step), zap.Int("members", isl.Len()))
	}
	if report.Released > 0 {
		w.log.Debug("islands released", zap.Int("step", w.step), zap.Int("count", report.Released))
	}

	w.step++
	w.time += dt
	w.fillStats(&st)
	return st, nil
}

func (w *World) applyEvents() error {
	n := 0
	for n < len(w.events) && w.events[n].Step <= w.step {
		ev := w.events[n]
		n++
		switch ev.Kind {
		case EventWake:
			c, ok := w.byID[ev.BodyID]
			if !ok {
				return fmt.Errorf("wake event at step %d: %w: %d", ev.Step, ErrUnknownBody, ev.BodyID)
			}
			c.ApplyImpulse(mgl64.Vec3(ev.Impulse))
			w.log.Debug("body woken", zap.Int("step", w.step), zap.Int("body", ev.BodyID))
		case EventRemove:
			if err := w.RemoveBody(ev.BodyID); err != nil {
				return fmt.Errorf("remove event at step %d: %w", ev.Step, err)
			}
		}
	}
	w.events = w.events[n:]
	return nil
}

// broadPhase keeps exactly one handler per overlapping compound/mesh pair.
func (w *World) broadPhase() error {
	for _, c := range w.compounds {
		box := c.BoundingBox()
		for _, m := range w.meshes {
			key := handlerKey{c, m}
			_, live := w.handlers[key]
			overlap := box.Intersects(m.BoundingBox())
			switch {
			case overlap && !live:
				h := w.hpool.Acquire()
				if err := h.Initialize(c, m); err != nil {
					w.hpool.Release(h)
					return fmt.Errorf("pair %s/%s: %w", c.Name, m.Name, err)
				}
				w.handlers[key] = h
				w.log.Debug("pair handler created", zap.String("compound", c.Name), zap.String("mesh", m.Name))
			case !overlap && live:
				w.dropHandler(key)
				w.log.Debug("pair handler released", zap.String("compound", c.Name), zap.String("mesh", m.Name))
			}
		}
	}
	return nil
}

func (w *World) dropHandler(key handlerKey) {
	h, ok := w.handlers[key]
	if !ok {
		return
	}
	delete(w.handlers, key)
	w.hpool.Release(h)
}

// Run steps until ctx is done, steps are exhausted, or fn returns false.
func (w *World) Run(ctx context.Context, steps int, fn func(Stats) bool) ([]Stats, error) {
	timeline := make([]Stats, 0, steps)
	for i := 0; i < steps; i++ {
		select {
		case <-ctx.Done():
			return timeline, ctx.Err()
		default:
		}

		st, err := w.Step()
		if err != nil {
			return timeline, err
		}
		timeline = append(timeline, st)
		if fn != nil && !fn(st) {
			break
		}
	}
	return timeline, nil
}

// Close releases every handler and island back to their pools.
func (w *World) Close() {
	for key := range w.handlers {
		w.dropHandler(key)
	}
	for len(w.islands.Islands()) > 0 {
		w.islands.Release(w.islands.Islands()[0])
	}
}

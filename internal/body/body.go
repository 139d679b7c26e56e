// Package body provides the rigid body that joins simulation islands.
package body

import (
	"math"
	"sync/atomic"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/rigidsim/internal/island"
)

type Kind uint8

const (
	Dynamic Kind = iota
	Kinematic
	Static
)

func (k Kind) String() string {
	switch k {
	case Dynamic:
		return "dynamic"
	case Kinematic:
		return "kinematic"
	case Static:
		return "static"
	}
	return "unknown"
}

// Sleep holds the per-body deactivation thresholds.
type Sleep struct {
	VelocityLimit      float64 // speed below which the body counts as resting
	TimeUntilCandidate float64 // seconds of rest before it becomes a candidate
}

// DefaultSleep matches the usual rigid body defaults.
var DefaultSleep = Sleep{VelocityLimit: 0.26, TimeUntilCandidate: 1.0}

type Body struct {
	ID       int
	Name     string
	Kind     Kind
	Position mgl64.Vec3
	Velocity mgl64.Vec3
	Damping  float64 // linear damping per second

	// NeverSleeps keeps the body, and so its island, awake.
	NeverSleeps bool

	isl       *island.Island
	active    atomic.Bool
	candidate atomic.Bool
	restTime  float64
	listeners []island.Listener
}

func New(id int, name string, kind Kind) *Body {
	b := &Body{ID: id, Name: name, Kind: kind}
	b.active.Store(true)
	return b
}

func (b *Body) IsDynamic() bool { return b.Kind == Dynamic }

func (b *Body) SimulationIsland() *island.Island { return b.isl }

func (b *Body) SetSimulationIsland(isl *island.Island) { b.isl = isl }

func (b *Body) IsDeactivationCandidate() bool { return b.candidate.Load() }

func (b *Body) IsActive() bool { return b.active.Load() }

// SetActive is driven by the owning island. Waking restarts the rest timer
// and withdraws candidacy.
func (b *Body) SetActive(active bool) {
	if active && !b.active.Load() {
		b.restTime = 0
		b.setCandidate(false)
	}
	b.active.Store(active)
}

func (b *Body) Subscribe(l island.Listener) {
	b.listeners = append(b.listeners, l)
}

func (b *Body) Unsubscribe(l island.Listener) {
	for i, existing := range b.listeners {
		if existing == l {
			last := len(b.listeners) - 1
			b.listeners[i] = b.listeners[last]
			b.listeners[last] = nil
			b.listeners = b.listeners[:last]
			return
		}
	}
}

// Wake activates the body and tells its island, which wakes every other
// member with it.
func (b *Body) Wake() {
	b.restTime = 0
	b.setCandidate(false)
	b.active.Store(true)
	for _, l := range b.listeners {
		l.MemberActivated(b)
	}
}

// ApplyImpulse adds a velocity change and wakes the body.
func (b *Body) ApplyImpulse(dv mgl64.Vec3) {
	if b.Kind == Static {
		return
	}
	b.Velocity = b.Velocity.Add(dv)
	if b.IsDynamic() {
		b.Wake()
	}
}

// Integrate advances position and applies damping. Sleeping and static
// bodies do not move.
func (b *Body) Integrate(dt float64) {
	switch {
	case b.Kind == Static:
		return
	case b.Kind == Dynamic && !b.active.Load():
		return
	}
	b.Position = b.Position.Add(b.Velocity.Mul(dt))
	if b.Kind == Dynamic && b.Damping > 0 {
		b.Velocity = b.Velocity.Mul(math.Max(0, 1-b.Damping*dt))
	}
}

// UpdateDeactivation advances the rest timer and reports candidacy changes
// to subscribed islands. Distinct bodies may be updated concurrently.
func (b *Body) UpdateDeactivation(dt float64, s Sleep) {
	if !b.IsDynamic() || !b.active.Load() {
		return
	}
	if b.NeverSleeps || b.Velocity.Len() >= s.VelocityLimit {
		b.restTime = 0
		b.setCandidate(false)
		return
	}
	b.restTime += dt
	if b.restTime >= s.TimeUntilCandidate {
		b.setCandidate(true)
	}
}

func (b *Body) setCandidate(candidate bool) {
	if b.candidate.Swap(candidate) == candidate {
		return
	}
	for _, l := range b.listeners {
		if candidate {
			l.BecameDeactivationCandidate(b)
		} else {
			l.BecameNonDeactivationCandidate(b)
		}
	}
}

// Package scene builds worlds from a config: meshes, compounds, the islands
// they start in and their scripted events.
package scene

import (
	"errors"
	"fmt"
	"math/rand"
	"sort"

	"github.com/san-kum/rigidsim/internal/body"
	"github.com/san-kum/rigidsim/internal/collide"
	"github.com/san-kum/rigidsim/internal/config"
	"github.com/san-kum/rigidsim/internal/entity"
	"github.com/san-kum/rigidsim/internal/world"
	"go.uber.org/zap"
)

var ErrUnknownScene = errors.New("scene: unknown scene")

type builder struct {
	rules func() collide.Rules
	build func(w *world.World, cfg *config.Config, rng *rand.Rand) error
}

var registry = map[string]builder{
	"rubble": {rules: rubbleRules, build: buildRubble},
	"pile":   {build: buildPile},
	"bridge": {build: buildBridge},
}

func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Options maps a config onto world options.
func Options(cfg *config.Config) world.Options {
	return world.Options{
		Dt:      cfg.Dt,
		Workers: cfg.Workers,
		Sleep: body.Sleep{
			VelocityLimit:      cfg.Deactivation.VelocityLimit,
			TimeUntilCandidate: cfg.Deactivation.TimeUntilCandidate,
		},
		MaxIslandsPerStep: cfg.Deactivation.MaxIslandsPerStep,
		PoolDebug:         cfg.Pool.Debug,
	}
}

// Build validates cfg and creates the world it describes with its events
// scheduled.
func Build(cfg *config.Config, log *zap.Logger) (*world.World, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("scene %s: %w", cfg.Scene, err)
	}
	b, ok := registry[cfg.Scene]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownScene, cfg.Scene)
	}
	opts := Options(cfg)
	if b.rules != nil {
		opts.Rules = b.rules()
	}

	w := world.New(opts, log)
	rng := rand.New(rand.NewSource(cfg.Seed))
	if err := b.build(w, cfg, rng); err != nil {
		w.Close()
		return nil, fmt.Errorf("build %s: %w", cfg.Scene, err)
	}

	for i, ev := range cfg.Events {
		if _, ok := w.Compound(ev.Body); !ok {
			w.Close()
			return nil, fmt.Errorf("event %d: %w: %d", i, world.ErrUnknownBody, ev.Body)
		}
		kind := world.EventWake
		if ev.Kind == "remove" {
			kind = world.EventRemove
		}
		w.Schedule(world.Event{Step: ev.Step, Kind: kind, BodyID: ev.Body, Impulse: ev.Impulse})
	}

	if log != nil {
		log.Info("scene built",
			zap.String("scene", cfg.Scene),
			zap.Int("bodies", len(w.Compounds())),
			zap.Int("islands", len(w.Islands().Islands())),
			zap.Int("events", len(cfg.Events)),
		)
	}
	return w, nil
}

// groupConsecutive puts every run of size bodies into its own island.
func groupConsecutive(w *world.World, bodies []*entity.CompoundBody, size int) error {
	for start := 0; start < len(bodies); start += size {
		end := min(start+size, len(bodies))
		members := make([]*body.Body, 0, end-start)
		for _, c := range bodies[start:end] {
			members = append(members, c.Body)
		}
		if _, err := w.Group(members...); err != nil {
			return err
		}
	}
	return nil
}

func newDynamic(id int, name string, cfg *config.Config) *body.Body {
	b := body.New(id, name, body.Dynamic)
	b.Damping = cfg.Deactivation.Damping
	return b
}

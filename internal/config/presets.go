package config

import "sort"

var Presets = map[string]map[string]*Config{
	"rubble": {
		"small": {
			Scene: "rubble", Dt: DefaultDt, Steps: 600, Workers: 2, Seed: 7,
			Bodies: 12, IslandSize: 3,
		},
		"large": {
			Scene: "rubble", Dt: DefaultDt, Steps: 900, Workers: 8, Seed: 7,
			Bodies: 240, IslandSize: 6,
		},
		"aftershock": {
			Scene: "rubble", Dt: DefaultDt, Steps: 900, Workers: 4, Seed: 3,
			Bodies: 48, IslandSize: 4,
			Events: []EventConfig{
				{Step: 400, Kind: "wake", Body: 0, Impulse: [3]float64{2, 3, 0}},
				{Step: 420, Kind: "wake", Body: 20, Impulse: [3]float64{-2, 3, 1}},
			},
		},
	},
	"pile": {
		"columns": {
			Scene: "pile", Dt: DefaultDt, Steps: 300, Workers: 4, Seed: 1,
			Bodies: 30, IslandSize: 5,
		},
		"topple": {
			Scene: "pile", Dt: DefaultDt, Steps: 600, Workers: 4, Seed: 1,
			Bodies: 30, IslandSize: 5,
			Events: []EventConfig{
				{Step: 200, Kind: "wake", Body: 4, Impulse: [3]float64{4, 0, 0}},
				{Step: 350, Kind: "remove", Body: 9},
			},
		},
	},
	"bridge": {
		"planks": {
			Scene: "bridge", Dt: DefaultDt, Steps: 600, Workers: 4, Seed: 1,
			Bodies: 16, IslandSize: 16,
			Events: []EventConfig{
				{Step: 300, Kind: "wake", Body: 8, Impulse: [3]float64{0, -2, 0}},
			},
		},
	},
}

// GetPreset returns a copy of the named preset with unset fields defaulted,
// or nil if it does not exist.
func GetPreset(scene, name string) *Config {
	presets, ok := Presets[scene]
	if !ok {
		return nil
	}
	p, ok := presets[name]
	if !ok {
		return nil
	}
	cfg := *p
	def := DefaultConfig()
	if cfg.Deactivation == (DeactivationConfig{}) {
		cfg.Deactivation = def.Deactivation
	}
	if cfg.Logging == (LoggingConfig{}) {
		cfg.Logging = def.Logging
	}
	cfg.Events = append([]EventConfig(nil), p.Events...)
	return &cfg
}

func ListPresets(scene string) []string {
	presets, ok := Presets[scene]
	if !ok {
		return nil
	}
	names := make([]string, 0, len(presets))
	for name := range presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

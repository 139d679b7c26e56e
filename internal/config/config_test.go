package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Scene != "rubble" {
		t.Errorf("expected scene rubble, got %s", cfg.Scene)
	}
	if cfg.Dt <= 0 {
		t.Error("dt should be positive")
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config invalid: %v", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero dt", func(c *Config) { c.Dt = 0 }},
		{"negative steps", func(c *Config) { c.Steps = -1 }},
		{"zero workers", func(c *Config) { c.Workers = 0 }},
		{"zero island size", func(c *Config) { c.IslandSize = 0 }},
		{"negative velocity limit", func(c *Config) { c.Deactivation.VelocityLimit = -1 }},
		{"unknown event", func(c *Config) { c.Events = []EventConfig{{Kind: "explode"}} }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("expected error, got nil")
			}
		})
	}
}

func TestLoadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scene.yaml")
	data := []byte(`scene: pile
steps: 120
deactivation:
  velocity_limit: 0.5
events:
  - step: 10
    kind: wake
    body: 2
    impulse: [1, 2, 3]
`)
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if cfg.Scene != "pile" || cfg.Steps != 120 {
		t.Errorf("unexpected scene/steps: %s/%d", cfg.Scene, cfg.Steps)
	}
	if cfg.Deactivation.VelocityLimit != 0.5 {
		t.Errorf("expected velocity limit 0.5, got %f", cfg.Deactivation.VelocityLimit)
	}
	if cfg.Deactivation.TimeUntilCandidate != DefaultTimeUntilCandidate {
		t.Error("unset fields should keep defaults")
	}
	if len(cfg.Events) != 1 || cfg.Events[0].Impulse != [3]float64{1, 2, 3} {
		t.Errorf("unexpected events: %+v", cfg.Events)
	}
}

func TestLoadTOML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scene.toml")
	data := []byte(`scene = "bridge"
workers = 2

[logging]
level = "debug"
format = "json"
`)
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if cfg.Scene != "bridge" || cfg.Workers != 2 {
		t.Errorf("unexpected scene/workers: %s/%d", cfg.Scene, cfg.Workers)
	}
	if cfg.Logging.Level != "debug" || cfg.Logging.Format != "json" {
		t.Errorf("unexpected logging: %+v", cfg.Logging)
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	for _, ext := range []string{".yaml", ".toml"} {
		t.Run(ext, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "cfg"+ext)
			cfg := GetPreset("pile", "topple")
			if err := Save(path, cfg); err != nil {
				t.Fatalf("save failed: %v", err)
			}
			loaded, err := Load(path)
			if err != nil {
				t.Fatalf("load failed: %v", err)
			}
			if loaded.Scene != cfg.Scene || loaded.Bodies != cfg.Bodies || len(loaded.Events) != len(cfg.Events) {
				t.Errorf("round trip mismatch: %+v", loaded)
			}
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestGetPreset(t *testing.T) {
	cfg := GetPreset("rubble", "small")
	if cfg == nil {
		t.Fatal("expected preset, got nil")
	}
	if cfg.Bodies != 12 {
		t.Errorf("expected 12 bodies, got %d", cfg.Bodies)
	}
	if cfg.Deactivation.VelocityLimit != DefaultVelocityLimit {
		t.Error("preset should inherit default deactivation settings")
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("preset invalid: %v", err)
	}

	cfg.Events = append(cfg.Events, EventConfig{Kind: "wake"})
	if len(Presets["rubble"]["small"].Events) != 0 {
		t.Error("GetPreset must not alias the preset table")
	}
}

func TestGetPreset_NotFound(t *testing.T) {
	if GetPreset("rubble", "nonexistent") != nil {
		t.Error("expected nil for nonexistent preset")
	}
	if GetPreset("nonexistent", "small") != nil {
		t.Error("expected nil for nonexistent scene")
	}
}

func TestListPresets(t *testing.T) {
	presets := ListPresets("pile")
	if len(presets) != 2 || presets[0] != "columns" {
		t.Errorf("unexpected presets: %v", presets)
	}
	if ListPresets("nonexistent") != nil {
		t.Error("expected nil for nonexistent scene")
	}
}

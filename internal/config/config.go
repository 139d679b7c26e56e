package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

const (
	DefaultDt                 = 1.0 / 60.0
	DefaultSteps              = 600
	DefaultWorkers            = 4
	DefaultBodies             = 24
	DefaultIslandSize         = 4
	DefaultVelocityLimit      = 0.26
	DefaultTimeUntilCandidate = 1.0
	DefaultMaxIslandsPerStep  = 100
	DefaultDamping            = 0.8
)

type Config struct {
	Scene        string             `yaml:"scene" toml:"scene"`
	Dt           float64            `yaml:"dt" toml:"dt"`
	Steps        int                `yaml:"steps" toml:"steps"`
	Workers      int                `yaml:"workers" toml:"workers"`
	Seed         int64              `yaml:"seed" toml:"seed"`
	Bodies       int                `yaml:"bodies" toml:"bodies"`
	IslandSize   int                `yaml:"island_size" toml:"island_size"`
	Deactivation DeactivationConfig `yaml:"deactivation" toml:"deactivation"`
	Pool         PoolConfig         `yaml:"pool" toml:"pool"`
	Logging      LoggingConfig      `yaml:"logging" toml:"logging"`
	Events       []EventConfig      `yaml:"events" toml:"events"`
}

type DeactivationConfig struct {
	VelocityLimit      float64 `yaml:"velocity_limit" toml:"velocity_limit"`
	TimeUntilCandidate float64 `yaml:"time_until_candidate" toml:"time_until_candidate"` // seconds
	MaxIslandsPerStep  int     `yaml:"max_islands_per_step" toml:"max_islands_per_step"`
	Damping            float64 `yaml:"damping" toml:"damping"`
}

type PoolConfig struct {
	Debug bool `yaml:"debug" toml:"debug"` // validate every release
}

type LoggingConfig struct {
	Level  string `yaml:"level" toml:"level"`
	Format string `yaml:"format" toml:"format"` // "json" or "console"
}

// EventConfig schedules a scene event. Kind is "wake" (apply Impulse) or
// "remove" (take the body out of the simulation).
type EventConfig struct {
	Step    int        `yaml:"step" toml:"step"`
	Kind    string     `yaml:"kind" toml:"kind"`
	Body    int        `yaml:"body" toml:"body"`
	Impulse [3]float64 `yaml:"impulse" toml:"impulse"`
}

func DefaultConfig() *Config {
	return &Config{
		Scene:      "rubble",
		Dt:         DefaultDt,
		Steps:      DefaultSteps,
		Workers:    DefaultWorkers,
		Seed:       1,
		Bodies:     DefaultBodies,
		IslandSize: DefaultIslandSize,
		Deactivation: DeactivationConfig{
			VelocityLimit:      DefaultVelocityLimit,
			TimeUntilCandidate: DefaultTimeUntilCandidate,
			MaxIslandsPerStep:  DefaultMaxIslandsPerStep,
			Damping:            DefaultDamping,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

func isTOML(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".toml")
}

// Load reads a YAML or, for .toml paths, TOML file over the defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	cfg := DefaultConfig()
	if isTOML(path) {
		err = toml.Unmarshal(data, cfg)
	} else {
		err = yaml.Unmarshal(data, cfg)
	}
	if err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	var data []byte
	if isTOML(path) {
		var buf bytes.Buffer
		if err := toml.NewEncoder(&buf).Encode(cfg); err != nil {
			return err
		}
		data = buf.Bytes()
	} else {
		var err error
		if data, err = yaml.Marshal(cfg); err != nil {
			return err
		}
	}
	return os.WriteFile(path, data, 0644)
}

func (c *Config) Validate() error {
	switch {
	case c.Dt <= 0:
		return fmt.Errorf("dt must be positive, got %f", c.Dt)
	case c.Steps <= 0:
		return fmt.Errorf("steps must be positive, got %d", c.Steps)
	case c.Workers <= 0:
		return fmt.Errorf("workers must be positive, got %d", c.Workers)
	case c.Bodies < 0:
		return fmt.Errorf("bodies must not be negative, got %d", c.Bodies)
	case c.IslandSize <= 0:
		return fmt.Errorf("island_size must be positive, got %d", c.IslandSize)
	case c.Deactivation.VelocityLimit < 0 || c.Deactivation.TimeUntilCandidate < 0:
		return fmt.Errorf("deactivation thresholds must not be negative")
	}
	for i, ev := range c.Events {
		if ev.Kind != "wake" && ev.Kind != "remove" {
			return fmt.Errorf("event %d: unknown kind %q", i, ev.Kind)
		}
	}
	return nil
}

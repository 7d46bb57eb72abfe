package config

import (
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"
)

// Config covers the runtime around the ECS core. Component-type, group and
// layer capacities are compile-time constants in package ecs and
// deliberately have no key here.
type Config struct {
	Loop      LoopConfig      `toml:"loop"`
	Logging   LoggingConfig   `toml:"logging"`
	Telemetry TelemetryConfig `toml:"telemetry"`
	Scripting ScriptingConfig `toml:"scripting"`
	Render    RenderConfig    `toml:"render"`
	Data      DataConfig      `toml:"data"`
}

type LoopConfig struct {
	TickRate       time.Duration `toml:"tick_rate"`
	RefreshEvery   int           `toml:"refresh_every"` // sweep once per N frames
	MaxTicks       uint64        `toml:"max_ticks"`     // 0 = run until signalled
	EntityCapacity int           `toml:"entity_capacity"`
}

type LoggingConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"` // "json" or "console"
}

type TelemetryConfig struct {
	StatsdAddress string   `toml:"statsd_address"` // empty disables statsd
	Namespace     string   `toml:"namespace"`
	Tags          []string `toml:"tags"`
}

type ScriptingConfig struct {
	Dir string `toml:"dir"`
}

type RenderConfig struct {
	Headless bool `toml:"headless"` // draw to an in-memory screen
	Width    int  `toml:"width"`
	Height   int  `toml:"height"`
}

type DataConfig struct {
	Labels string `toml:"labels"`
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	cfg := Defaults()
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.Loop.TickRate <= 0 {
		return fmt.Errorf("loop.tick_rate must be positive, got %s", c.Loop.TickRate)
	}
	if c.Loop.RefreshEvery < 1 {
		return fmt.Errorf("loop.refresh_every must be >= 1, got %d", c.Loop.RefreshEvery)
	}
	if c.Loop.EntityCapacity < 0 {
		return fmt.Errorf("loop.entity_capacity must not be negative, got %d", c.Loop.EntityCapacity)
	}
	if c.Render.Width <= 0 || c.Render.Height <= 0 {
		return fmt.Errorf("render size must be positive, got %dx%d", c.Render.Width, c.Render.Height)
	}
	return nil
}

// Defaults returns the configuration used when no file overrides a key.
func Defaults() *Config {
	return &Config{
		Loop: LoopConfig{
			TickRate:       16 * time.Millisecond,
			RefreshEvery:   1,
			EntityCapacity: 1024,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
		Telemetry: TelemetryConfig{
			Namespace: "framecs.",
		},
		Scripting: ScriptingConfig{
			Dir: "scripts",
		},
		Render: RenderConfig{
			Headless: true,
			Width:    80,
			Height:   24,
		},
		Data: DataConfig{
			Labels: "data/labels.yaml",
		},
	}
}

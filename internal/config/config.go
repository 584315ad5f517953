package config

import (
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"
)

type Config struct {
	Engine     EngineConfig     `toml:"engine"`
	World      WorldConfig      `toml:"world"`
	Collision  CollisionConfig  `toml:"collision"`
	Broadphase BroadphaseConfig `toml:"broadphase"`
	Solver     SolverConfig     `toml:"solver"`
	Loop       LoopConfig       `toml:"loop"`
	Scene      SceneConfig      `toml:"scene"`
	Scripting  ScriptingConfig  `toml:"scripting"`
	Journal    JournalConfig    `toml:"journal"`
	Logging    LoggingConfig    `toml:"logging"`
}

type EngineConfig struct {
	Name string `toml:"name"`
}

type WorldConfig struct {
	GravityX float64 `toml:"gravity_x"`
	GravityY float64 `toml:"gravity_y"`
}

type CollisionConfig struct {
	Friction   float64 `toml:"friction"`
	Elasticity float64 `toml:"elasticity"`
}

type BroadphaseConfig struct {
	Kind      string  `toml:"kind"` // "bbtree" or "spatial_hash"
	CellSize  float64 `toml:"cell_size"`
	CellCount int     `toml:"cell_count"`
}

type SolverConfig struct {
	Iterations uint `toml:"iterations"`
}

type LoopConfig struct {
	TickRate time.Duration `toml:"tick_rate"` // wall clock between ticks
	Step     time.Duration `toml:"step"`      // simulated time per tick
	MaxTicks uint64        `toml:"max_ticks"` // 0 = run until signalled
}

type SceneConfig struct {
	Path string `toml:"path"`
}

type ScriptingConfig struct {
	Enabled bool   `toml:"enabled"`
	Dir     string `toml:"dir"`
}

type JournalConfig struct {
	Driver          string        `toml:"driver"` // "", "postgres" or "sqlite"
	DSN             string        `toml:"dsn"`
	MaxOpenConns    int           `toml:"max_open_conns"`
	MaxIdleConns    int           `toml:"max_idle_conns"`
	ConnMaxLifetime time.Duration `toml:"conn_max_lifetime"`
}

type LoggingConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"` // "json" or "console"
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	return Parse(string(data))
}

// Parse decodes a TOML document over the defaults and validates the result.
func Parse(doc string) (*Config, error) {
	cfg := defaults()
	if _, err := toml.Decode(doc, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	switch c.Broadphase.Kind {
	case "bbtree":
	case "spatial_hash":
		if c.Broadphase.CellSize <= 0 || c.Broadphase.CellCount <= 0 {
			return fmt.Errorf("broadphase: spatial_hash needs positive cell_size and cell_count")
		}
	default:
		return fmt.Errorf("broadphase: unknown kind %q", c.Broadphase.Kind)
	}
	if c.Solver.Iterations == 0 {
		return fmt.Errorf("solver: iterations must be positive")
	}
	if c.Loop.TickRate <= 0 || c.Loop.Step <= 0 {
		return fmt.Errorf("loop: tick_rate and step must be positive")
	}
	switch c.Journal.Driver {
	case "", "postgres", "sqlite":
	default:
		return fmt.Errorf("journal: unknown driver %q", c.Journal.Driver)
	}
	if c.Journal.Driver != "" && c.Journal.DSN == "" {
		return fmt.Errorf("journal: driver %q needs a dsn", c.Journal.Driver)
	}
	return nil
}

func defaults() *Config {
	return &Config{
		Engine: EngineConfig{
			Name: "chipmunk2d",
		},
		World: WorldConfig{
			GravityX: 0,
			GravityY: -9.81,
		},
		Collision: CollisionConfig{
			Friction:   0.7,
			Elasticity: 0.1,
		},
		Broadphase: BroadphaseConfig{
			Kind:      "bbtree",
			CellSize:  2.0,
			CellCount: 1000,
		},
		Solver: SolverConfig{
			Iterations: 10,
		},
		Loop: LoopConfig{
			TickRate: 16 * time.Millisecond,
			Step:     time.Second / 60,
		},
		Scene: SceneConfig{
			Path: "data/scene.yaml",
		},
		Scripting: ScriptingConfig{
			Enabled: true,
			Dir:     "scripts",
		},
		Journal: JournalConfig{
			MaxOpenConns:    4,
			MaxIdleConns:    1,
			ConnMaxLifetime: 30 * time.Minute,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

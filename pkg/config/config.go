// Package config loads jaring settings from an optional TOML file and
// then from JARING_* environment variables, which win.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/chazu/jaring/pkg/formula"
	"github.com/chazu/jaring/pkg/solid"
	"github.com/pelletier/go-toml/v2"
)

// ============================================================
// Configuration
// ============================================================

type Config struct {
	Server  Server  `toml:"server"`
	Scene   Scene   `toml:"scene"`
	Formula Formula `toml:"formula"`
	Store   Store   `toml:"store"`
}

type Server struct {
	Port         string `toml:"port"`
	StaticDir    string `toml:"static_dir"`
	AppName      string `toml:"app_name"`
	ReadTimeout  int    `toml:"read_timeout"` // seconds
	WriteTimeout int    `toml:"write_timeout"`
}

type Scene struct {
	FPS             int    `toml:"fps"`
	AnimationMillis int    `toml:"animation_ms"`
	Width           int    `toml:"width"`
	Height          int    `toml:"height"`
	Supersample     int    `toml:"supersample"`
	DefaultShape    string `toml:"default_shape"`
}

type Formula struct {
	PrismPolicy string `toml:"prism_policy"`
}

type Store struct {
	Path string `toml:"path"`
}

// Default returns the built-in settings.
func Default() *Config {
	return &Config{
		Server: Server{
			Port:         "3000",
			StaticDir:    "frontend/dist",
			AppName:      "Jaring",
			ReadTimeout:  10,
			WriteTimeout: 10,
		},
		Scene: Scene{
			FPS:             60,
			AnimationMillis: 2000,
			Width:           800,
			Height:          600,
			Supersample:     2,
			DefaultShape:    solid.Cube.String(),
		},
		Formula: Formula{PrismPolicy: formula.PrismIsosceles.String()},
		Store:   Store{Path: "data/presets.db"},
	}
}

// Load reads path over the defaults, applies the environment and
// validates the result. An empty path, or a path that does not exist,
// skips the file.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, os.ErrNotExist):
		case err != nil:
			return nil, fmt.Errorf("config: %w", err)
		default:
			dec := toml.NewDecoder(bytes.NewReader(data))
			dec.DisallowUnknownFields()
			if err := dec.Decode(cfg); err != nil {
				return nil, fmt.Errorf("config: %s: %w", path, err)
			}
		}
	}
	cfg.applyEnv()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// TOML encodes the configuration.
func (c *Config) TOML() ([]byte, error) {
	return toml.Marshal(c)
}

// Validate checks ranges and enumerations.
func (c *Config) Validate() error {
	if _, err := strconv.Atoi(c.Server.Port); err != nil {
		return fmt.Errorf("config: server.port %q is not a number", c.Server.Port)
	}
	if c.Scene.FPS <= 0 || c.Scene.FPS > 240 {
		return fmt.Errorf("config: scene.fps must be within 1..240, got %d", c.Scene.FPS)
	}
	if c.Scene.AnimationMillis < 0 {
		return fmt.Errorf("config: scene.animation_ms must not be negative")
	}
	if c.Scene.Width <= 0 || c.Scene.Height <= 0 {
		return fmt.Errorf("config: scene size %dx%d is invalid", c.Scene.Width, c.Scene.Height)
	}
	if c.Scene.Supersample < 1 || c.Scene.Supersample > 4 {
		return fmt.Errorf("config: scene.supersample must be within 1..4, got %d", c.Scene.Supersample)
	}
	if _, err := solid.Parse(c.Scene.DefaultShape); err != nil {
		return fmt.Errorf("config: scene.default_shape: %w", err)
	}
	if _, err := formula.ParsePrismPolicy(c.Formula.PrismPolicy); err != nil {
		return fmt.Errorf("config: formula.prism_policy: %w", err)
	}
	return nil
}

// AnimationDuration is Scene.AnimationMillis as a duration.
func (c *Config) AnimationDuration() time.Duration {
	return time.Duration(c.Scene.AnimationMillis) * time.Millisecond
}

// PrismPolicy returns the parsed prism perimeter policy. Call after
// Validate.
func (c *Config) PrismPolicy() formula.PrismPolicy {
	p, _ := formula.ParsePrismPolicy(c.Formula.PrismPolicy)
	return p
}

// DefaultShape returns the parsed start-up shape. Call after Validate.
func (c *Config) DefaultShape() solid.Type {
	t, _ := solid.Parse(c.Scene.DefaultShape)
	return t
}

func (c *Config) applyEnv() {
	c.Server.Port = getEnv("JARING_PORT", c.Server.Port)
	c.Server.StaticDir = getEnv("JARING_STATIC_DIR", c.Server.StaticDir)
	c.Server.ReadTimeout = getEnvAsInt("JARING_READ_TIMEOUT", c.Server.ReadTimeout)
	c.Server.WriteTimeout = getEnvAsInt("JARING_WRITE_TIMEOUT", c.Server.WriteTimeout)
	c.Scene.FPS = getEnvAsInt("JARING_FPS", c.Scene.FPS)
	c.Scene.AnimationMillis = getEnvAsInt("JARING_ANIMATION_MS", c.Scene.AnimationMillis)
	c.Scene.Width = getEnvAsInt("JARING_WIDTH", c.Scene.Width)
	c.Scene.Height = getEnvAsInt("JARING_HEIGHT", c.Scene.Height)
	c.Scene.Supersample = getEnvAsInt("JARING_SUPERSAMPLE", c.Scene.Supersample)
	c.Scene.DefaultShape = getEnv("JARING_DEFAULT_SHAPE", c.Scene.DefaultShape)
	c.Formula.PrismPolicy = getEnv("JARING_PRISM_POLICY", c.Formula.PrismPolicy)
	c.Store.Path = getEnv("JARING_DB_PATH", c.Store.Path)
}

func getEnv(key, defaultVal string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultVal
}

func getEnvAsInt(key string, defaultVal int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultVal
}

// Package config loads the settings shared by the command-line and web front ends.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/notnil/chess"
	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"

	"github.com/hailam/chessduel/internal/board"
	"github.com/hailam/chessduel/internal/engine"
)

// ErrInvalid is wrapped by every validation error.
var ErrInvalid = errors.New("invalid config")

// Player configures the engine playing one side.
type Player struct {
	Algorithm    string  `yaml:"algorithm"`
	Depth        int     `yaml:"depth"`
	Simulations  int     `yaml:"simulations"`
	RolloutDepth int     `yaml:"rollout_depth"`
	Exploration  float64 `yaml:"exploration"`
	Seed         uint64  `yaml:"seed"`        // 0 = seeded from the clock
	TableLimit   int     `yaml:"table_limit"` // 0 = unbounded
}

// Server configures the web front end.
type Server struct {
	Addr      string `yaml:"addr"`
	BoardSize int    `yaml:"board_size"` // Default PNG size in pixels
}

// Config is the complete application configuration.
type Config struct {
	White    Player `yaml:"white"`
	Black    Player `yaml:"black"`
	StartFEN string `yaml:"start_fen"`
	Games    int    `yaml:"games"`
	MaxMoves int    `yaml:"max_moves"` // Half moves per game, 0 = until game over
	Record   bool   `yaml:"record"`
	DataDir  string `yaml:"data_dir"` // Empty = platform data directory
	LogLevel string `yaml:"log_level"`
	Server   Server `yaml:"server"`
}

// Default returns the built-in configuration: alpha-beta at depth 3 for
// White against MCTS with 1000 simulations for Black.
func Default() *Config {
	return &Config{
		White: Player{
			Algorithm:    string(engine.AlphaBeta),
			Depth:        engine.DefaultDepth,
			Simulations:  engine.DefaultSimulations,
			RolloutDepth: engine.DefaultRolloutDepth,
			Exploration:  engine.DefaultExploration,
		},
		Black: Player{
			Algorithm:    string(engine.MonteCarlo),
			Depth:        engine.DefaultDepth,
			Simulations:  engine.DefaultSimulations,
			RolloutDepth: engine.DefaultRolloutDepth,
			Exploration:  engine.DefaultExploration,
		},
		StartFEN: board.StartFEN,
		Games:    1,
		LogLevel: "info",
		Server: Server{
			Addr:      ":5000",
			BoardSize: 480,
		},
	}
}

// Load reads a YAML file over the defaults and validates the result.
// An empty path returns the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks the configuration for values no engine can run with.
func (c *Config) Validate() error {
	if err := c.White.Validate(); err != nil {
		return fmt.Errorf("white: %w", err)
	}
	if err := c.Black.Validate(); err != nil {
		return fmt.Errorf("black: %w", err)
	}
	if _, err := board.ParseFEN(c.StartFEN); err != nil {
		return fmt.Errorf("%w: start_fen: %v", ErrInvalid, err)
	}
	if c.Games < 1 {
		return fmt.Errorf("%w: games must be at least 1, got %d", ErrInvalid, c.Games)
	}
	if c.MaxMoves < 0 {
		return fmt.Errorf("%w: max_moves must not be negative, got %d", ErrInvalid, c.MaxMoves)
	}
	if _, err := zerolog.ParseLevel(strings.ToLower(c.LogLevel)); err != nil {
		return fmt.Errorf("%w: log_level: %v", ErrInvalid, err)
	}
	if c.Server.BoardSize < 0 {
		return fmt.Errorf("%w: board_size must not be negative, got %d", ErrInvalid, c.Server.BoardSize)
	}
	return nil
}

// Level returns the configured log level, or info if unparseable.
func (c *Config) Level() zerolog.Level {
	level, err := zerolog.ParseLevel(strings.ToLower(c.LogLevel))
	if err != nil {
		return zerolog.InfoLevel
	}
	return level
}

// Player returns the settings for the engine playing side.
func (c *Config) Player(side chess.Color) Player {
	if side == chess.Black {
		return c.Black
	}
	return c.White
}

// Validate checks one player's settings.
func (p Player) Validate() error {
	if _, err := engine.ParseAlgorithm(p.Algorithm); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	switch {
	case p.Depth < 1:
		return fmt.Errorf("%w: depth must be at least 1, got %d", ErrInvalid, p.Depth)
	case p.Simulations < 1:
		return fmt.Errorf("%w: simulations must be at least 1, got %d", ErrInvalid, p.Simulations)
	case p.RolloutDepth < 0:
		return fmt.Errorf("%w: rollout_depth must not be negative, got %d", ErrInvalid, p.RolloutDepth)
	case p.Exploration < 0:
		return fmt.Errorf("%w: exploration must not be negative, got %g", ErrInvalid, p.Exploration)
	case p.TableLimit < 0:
		return fmt.Errorf("%w: table_limit must not be negative, got %d", ErrInvalid, p.TableLimit)
	}
	return nil
}

// Options converts the settings into engine options.
func (p Player) Options() []engine.Option {
	opts := []engine.Option{
		engine.WithDepth(p.Depth),
		engine.WithSimulations(p.Simulations),
		engine.WithRolloutDepth(p.RolloutDepth),
		engine.WithExploration(p.Exploration),
		engine.WithTableLimit(p.TableLimit),
	}
	if p.Seed != 0 {
		opts = append(opts, engine.WithSeed(p.Seed))
	}
	return opts
}

// Settings describes the search budget, e.g. "depth 3" or "1000 simulations, rollout 20".
func (p Player) Settings() string {
	if engine.Algorithm(p.Algorithm) == engine.MonteCarlo {
		return fmt.Sprintf("%d simulations, rollout %d", p.Simulations, p.RolloutDepth)
	}
	return fmt.Sprintf("depth %d", p.Depth)
}

// NewEngine creates the engine for side on pos.
func (c *Config) NewEngine(pos *board.Position, side chess.Color, logger zerolog.Logger) (*engine.Engine, error) {
	p := c.Player(side)
	algorithm, err := engine.ParseAlgorithm(p.Algorithm)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalid, err)
	}

	opts := append(p.Options(), engine.WithLogger(logger))
	return engine.New(pos, side, algorithm, opts...), nil
}

// Package config loads simulation parameters from YAML layered over embedded
// defaults.
package config

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/agnivade/levenshtein"
	"gopkg.in/yaml.v3"

	"github.com/talgya/catsim/internal/agents"
	"github.com/talgya/catsim/internal/engine"
	"github.com/talgya/catsim/internal/environment"
	"github.com/talgya/catsim/internal/world"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// ErrInvalid is wrapped by every validation failure.
var ErrInvalid = errors.New("invalid config")

// Config holds every tunable of a run plus deploy settings.
type Config struct {
	Grid        GridConfig        `yaml:"grid"`
	Agent       AgentConfig       `yaml:"agent"`
	Needs       NeedsConfig       `yaml:"needs"`
	Environment EnvironmentConfig `yaml:"environment"`
	Simulation  SimulationConfig  `yaml:"simulation"`
	Storage     StorageConfig     `yaml:"storage"`
	API         APIConfig         `yaml:"api"`
}

// GridConfig holds the world dimensions.
type GridConfig struct {
	Size int `yaml:"size"`
}

// AgentConfig holds the cat's senses and bookkeeping capacities.
type AgentConfig struct {
	Vision    float64 `yaml:"vision"`
	Olfaction float64 `yaml:"olfaction"`
	Hearing   float64 `yaml:"hearing"`
	Speed     int     `yaml:"speed"`
	History   int     `yaml:"history"`
	MemoryCap int     `yaml:"memory_cap"`
}

// NeedsConfig holds passive decay rates and starting values.
type NeedsConfig struct {
	HungerRate          float64       `yaml:"hunger_rate"`
	ThirstRate          float64       `yaml:"thirst_rate"`
	EnergyRate          float64       `yaml:"energy_rate"`
	ExploreStressRelief float64       `yaml:"explore_stress_relief"`
	Initial             InitialConfig `yaml:"initial"`
}

// InitialConfig holds the needs a fresh cat starts with.
type InitialConfig struct {
	Energy  float64 `yaml:"energy"`
	Hunger  float64 `yaml:"hunger"`
	Thirst  float64 `yaml:"thirst"`
	Stress  float64 `yaml:"stress"`
	Comfort float64 `yaml:"comfort"`
}

// EnvironmentConfig holds generation and per-tick world dynamics.
type EnvironmentConfig struct {
	RegenChance        float64        `yaml:"regen_chance"`
	PredatorMoveChance float64        `yaml:"predator_move_chance"`
	PredatorChance     float64        `yaml:"predator_chance"`
	Placement          string         `yaml:"placement"`
	Counts             map[string]int `yaml:"counts"` // keyed by kind name
}

// SimulationConfig holds run pacing.
type SimulationConfig struct {
	Seed        int64         `yaml:"seed"`
	Interval    time.Duration `yaml:"interval"`
	ReportEvery uint64        `yaml:"report_every"`
	SaveEvery   uint64        `yaml:"save_every"`
}

// StorageConfig holds the database location.
type StorageConfig struct {
	Path string `yaml:"path"`
}

// APIConfig holds HTTP settings.
type APIConfig struct {
	Port int `yaml:"port"`
}

// Default returns the embedded defaults.
func Default() (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}
	return cfg, nil
}

// Load loads configuration from a YAML file, merging with embedded defaults,
// and validates the result. If path is empty, only the defaults are used.
func Load(path string) (*Config, error) {
	cfg, err := Default()
	if err != nil {
		return nil, err
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// Only fields present in the file are overwritten; counts merge per kind.
		defaults := cfg.Environment.Counts
		cfg.Environment.Counts = nil
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
		cfg.Environment.Counts = mergeCounts(defaults, cfg.Environment.Counts)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks every parameter and reports the first problem found.
func (c *Config) Validate() error {
	if c.Grid.Size <= 0 {
		return fmt.Errorf("%w: grid.size must be positive, got %d", ErrInvalid, c.Grid.Size)
	}

	for name, v := range map[string]float64{
		"agent.vision":                c.Agent.Vision,
		"agent.olfaction":             c.Agent.Olfaction,
		"agent.hearing":               c.Agent.Hearing,
		"needs.hunger_rate":           c.Needs.HungerRate,
		"needs.thirst_rate":           c.Needs.ThirstRate,
		"needs.energy_rate":           c.Needs.EnergyRate,
		"needs.explore_stress_relief": c.Needs.ExploreStressRelief,
	} {
		if v < 0 {
			return fmt.Errorf("%w: %s must not be negative, got %g", ErrInvalid, name, v)
		}
	}

	if c.Agent.Speed <= 0 {
		return fmt.Errorf("%w: agent.speed must be positive, got %d", ErrInvalid, c.Agent.Speed)
	}
	if c.Agent.History <= 0 {
		return fmt.Errorf("%w: agent.history must be positive, got %d", ErrInvalid, c.Agent.History)
	}
	if c.Agent.MemoryCap < 0 {
		return fmt.Errorf("%w: agent.memory_cap must not be negative, got %d", ErrInvalid, c.Agent.MemoryCap)
	}

	for name, p := range map[string]float64{
		"environment.regen_chance":         c.Environment.RegenChance,
		"environment.predator_move_chance": c.Environment.PredatorMoveChance,
		"environment.predator_chance":      c.Environment.PredatorChance,
	} {
		if p < 0 || p > 1 {
			return fmt.Errorf("%w: %s must be within [0,1], got %g", ErrInvalid, name, p)
		}
	}

	switch world.Placement(c.Environment.Placement) {
	case world.PlacementUniform, world.PlacementClustered:
	default:
		return fmt.Errorf("%w: environment.placement %q is not one of %s, %s",
			ErrInvalid, c.Environment.Placement, world.PlacementUniform, world.PlacementClustered)
	}

	// Sorted so the reported error is stable.
	names := make([]string, 0, len(c.Environment.Counts))
	for name := range c.Environment.Counts {
		names = append(names, name)
	}
	sort.Strings(names)
	seen := make(map[environment.Kind]string, len(names))
	for _, name := range names {
		kind, ok := environment.ParseKind(name)
		if !ok {
			hint := ""
			if s := suggestKind(name); s != "" {
				hint = fmt.Sprintf(" (did you mean %q?)", s)
			}
			return fmt.Errorf("%w: unknown object kind %q in environment.counts%s", ErrInvalid, name, hint)
		}
		if prev, dup := seen[kind]; dup {
			return fmt.Errorf("%w: environment.counts lists %s twice (%q and %q)", ErrInvalid, kind, prev, name)
		}
		seen[kind] = name
		if n := c.Environment.Counts[name]; n < 0 {
			return fmt.Errorf("%w: environment.counts.%s must not be negative, got %d", ErrInvalid, name, n)
		}
	}

	if c.Simulation.Interval < 0 {
		return fmt.Errorf("%w: simulation.interval must not be negative, got %s", ErrInvalid, c.Simulation.Interval)
	}
	if c.API.Port < 0 || c.API.Port > 65535 {
		return fmt.Errorf("%w: api.port out of range: %d", ErrInvalid, c.API.Port)
	}
	return nil
}

// mergeCounts overlays file counts on the defaults. A file key replaces the
// default for the same kind whatever its spelling.
func mergeCounts(defaults, file map[string]int) map[string]int {
	out := make(map[string]int, len(defaults)+len(file))
	for name, n := range defaults {
		out[name] = n
	}
	for name, n := range file {
		if k, ok := environment.ParseKind(name); ok {
			delete(out, k.String())
		}
		out[name] = n
	}
	return out
}

// suggestKind returns the closest kind name within a small edit distance.
func suggestKind(name string) string {
	name = strings.ToLower(strings.TrimSpace(name))
	limit := 2
	if len(name) <= 4 {
		limit = 1
	}

	best, bestDist := "", limit+1
	for _, cand := range environment.KindNames() {
		if d := levenshtein.ComputeDistance(name, cand); d < bestDist {
			best, bestDist = cand, d
		}
	}
	return best
}

// EngineParams converts the config into run parameters.
func (c *Config) EngineParams() engine.Params {
	p := engine.DefaultParams()
	p.Grid = world.NewGrid(c.Grid.Size)

	p.Agent = agents.Params{
		Senses: agents.Senses{
			Vision:    c.Agent.Vision,
			Olfaction: c.Agent.Olfaction,
			Hearing:   c.Agent.Hearing,
		},
		Speed: c.Agent.Speed,
		Decay: agents.DecayRates{
			Hunger:              c.Needs.HungerRate,
			Thirst:              c.Needs.ThirstRate,
			Energy:              c.Needs.EnergyRate,
			ExploreStressRelief: c.Needs.ExploreStressRelief,
		},
		Initial: agents.Needs{
			Energy:  c.Needs.Initial.Energy,
			Hunger:  c.Needs.Initial.Hunger,
			Thirst:  c.Needs.Initial.Thirst,
			Stress:  c.Needs.Initial.Stress,
			Comfort: c.Needs.Initial.Comfort,
		},
		HistoryCap: c.Agent.History,
		MemoryCap:  c.Agent.MemoryCap,
	}

	var counts [environment.NumKinds]int
	for name, n := range c.Environment.Counts {
		if k, ok := environment.ParseKind(name); ok {
			counts[k] = n
		}
	}
	p.Gen = environment.GenConfig{
		Counts:         counts,
		PredatorChance: c.Environment.PredatorChance,
		Placement:      world.Placement(c.Environment.Placement),
	}

	p.RegenChance = c.Environment.RegenChance
	p.PredatorMoveChance = c.Environment.PredatorMoveChance
	return p
}

package engine

import (
	"github.com/talgya/catsim/internal/agents"
	"github.com/talgya/catsim/internal/entropy"
	"github.com/talgya/catsim/internal/environment"
	"github.com/talgya/catsim/internal/world"
)

// Params is everything a run needs besides its seed.
type Params struct {
	Grid               world.Grid
	Agent              agents.Params
	Gen                environment.GenConfig
	RegenChance        float64 // Per-tick chance of one food/water/prey spawn
	PredatorMoveChance float64 // Per-tick, per-predator chance of a random step
}

// DefaultParams returns the stock 20×20 household.
func DefaultParams() Params {
	return Params{
		Grid:               world.NewGrid(20),
		Agent:              agents.DefaultParams(),
		Gen:                environment.DefaultGenConfig(),
		RegenChance:        0.02,
		PredatorMoveChance: 0.3,
	}
}

// StepResult is the outcome of one world tick.
type StepResult struct {
	Agent          agents.Report
	Regrown        *environment.Object
	PredatorsMoved int
}

// Step advances the world by one tick: the cat runs its full update, then
// resources regrow and predators wander.
func Step(a *agents.Agent, reg *environment.Registry, p Params, rng entropy.Rand) StepResult {
	res := StepResult{Agent: a.Update(reg, rng)}

	if id, ok := reg.Regenerate(rng, p.RegenChance); ok {
		if o, ok := reg.Get(id); ok {
			res.Regrown = &o
		}
	}
	res.PredatorsMoved = reg.WalkPredators(rng, p.PredatorMoveChance)
	return res
}

// Reset puts the cat back at the grid center with fresh needs and empty
// memory, and regenerates the environment around it.
func Reset(a *agents.Agent, reg *environment.Registry, p Params, rng entropy.Rand) {
	center := p.Grid.Center()
	a.Reset(center, p.Agent)
	reg.Clear()
	reg.Populate(p.Gen, center, rng)
}

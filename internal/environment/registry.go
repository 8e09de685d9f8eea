package environment

import (
	"github.com/talgya/catsim/internal/entropy"
	"github.com/talgya/catsim/internal/world"
)

// RegrowthKinds are the kinds regeneration draws from, uniformly.
var RegrowthKinds = [3]Kind{KindFood, KindWater, KindPrey}

// GenConfig controls initial environment generation.
type GenConfig struct {
	// Counts per kind, generated in the order of generationOrder.
	Counts [NumKinds]int
	// PredatorChance is the probability of one extra predator at generation.
	PredatorChance float64
	Placement      world.Placement
	// Seed feeds the density field for clustered placement.
	Seed int64
}

// DefaultGenConfig returns the stock household layout.
func DefaultGenConfig() GenConfig {
	var counts [NumKinds]int
	counts[KindObstacle] = 10
	counts[KindFood] = 8
	counts[KindWater] = 5
	counts[KindShelter] = 3
	counts[KindToy] = 4
	counts[KindPrey] = 3
	counts[KindHuman] = 1
	return GenConfig{
		Counts:         counts,
		PredatorChance: 0.3,
		Placement:      world.PlacementUniform,
	}
}

// generationOrder fixes the sequence of random draws during Populate.
var generationOrder = [NumKinds]Kind{
	KindObstacle, KindFood, KindWater, KindShelter, KindToy, KindPrey, KindHuman, KindPredator,
}

// Registry owns every environment object. Objects are stored by ID and are
// never removed; consumed objects stay in place with Active=false.
type Registry struct {
	grid    world.Grid
	objects []Object
}

// NewRegistry creates an empty registry on the given grid.
func NewRegistry(grid world.Grid) *Registry {
	return &Registry{grid: grid}
}

// Grid returns the registry's board.
func (r *Registry) Grid() world.Grid {
	return r.grid
}

// Spawn adds an active object and returns its handle.
func (r *Registry) Spawn(kind Kind, pos world.Position) ObjectID {
	id := ObjectID(len(r.objects))
	r.objects = append(r.objects, Object{
		ID:       id,
		Position: pos,
		Kind:     kind,
		Resource: DefaultResource,
		Active:   true,
	})
	return id
}

// Get returns a copy of the object with the given handle.
func (r *Registry) Get(id ObjectID) (Object, bool) {
	if int(id) >= len(r.objects) {
		return Object{}, false
	}
	return r.objects[id], true
}

// Deactivate marks an object consumed. Returns true if it was active.
// Calling it again is a no-op.
func (r *Registry) Deactivate(id ObjectID) bool {
	if int(id) >= len(r.objects) || !r.objects[id].Active {
		return false
	}
	r.objects[id].Active = false
	return true
}

// Len returns the number of objects ever spawned.
func (r *Registry) Len() int {
	return len(r.objects)
}

// Each calls fn for every object in spawn order, active or not.
func (r *Registry) Each(fn func(Object)) {
	for _, o := range r.objects {
		fn(o)
	}
}

// Active returns copies of all active objects in spawn order.
func (r *Registry) Active() []Object {
	out := make([]Object, 0, len(r.objects))
	for _, o := range r.objects {
		if o.Active {
			out = append(out, o)
		}
	}
	return out
}

// CountActive returns the number of active objects per kind.
func (r *Registry) CountActive() [NumKinds]int {
	var counts [NumKinds]int
	for _, o := range r.objects {
		if o.Active {
			counts[o.Kind]++
		}
	}
	return counts
}

// Clear drops every object. Handles issued before Clear become invalid.
func (r *Registry) Clear() {
	r.objects = r.objects[:0]
}

// Populate generates the initial environment. Any draw landing on avoid
// (the agent's start cell) is skipped, not retried.
func (r *Registry) Populate(cfg GenConfig, avoid world.Position, rng entropy.Rand) {
	var field *world.DensityField
	if cfg.Placement == world.PlacementClustered {
		field = world.NewDensityField(cfg.Seed)
	}

	for _, kind := range generationOrder {
		n := cfg.Counts[kind]
		if kind == KindPredator && rng.Float64() < cfg.PredatorChance {
			n++
		}
		for i := 0; i < n; i++ {
			pos := r.placement(kind, rng, field)
			if pos == avoid {
				continue
			}
			r.Spawn(kind, pos)
		}
	}
}

// placement keeps fixtures (obstacles, humans, predators) uniform and lets
// the density field bunch up everything else.
func (r *Registry) placement(kind Kind, rng entropy.Rand, field *world.DensityField) world.Position {
	switch kind {
	case KindObstacle, KindHuman, KindPredator:
		return world.RandomPosition(r.grid, rng)
	default:
		return world.SamplePosition(r.grid, rng, field)
	}
}

// Regenerate spawns one food, water, or prey object at a random cell with
// probability p. No occupancy check is made.
func (r *Registry) Regenerate(rng entropy.Rand, p float64) (ObjectID, bool) {
	if rng.Float64() >= p {
		return 0, false
	}
	kind := RegrowthKinds[rng.IntN(len(RegrowthKinds))]
	pos := world.RandomPosition(r.grid, rng)
	return r.Spawn(kind, pos), true
}

// WalkPredators moves each predator, with probability p, by a random delta
// in {-1,0,1} on each axis, clamped to the grid.
func (r *Registry) WalkPredators(rng entropy.Rand, p float64) int {
	moved := 0
	for i := range r.objects {
		o := &r.objects[i]
		if o.Kind != KindPredator || rng.Float64() >= p {
			continue
		}
		step := world.Step{DX: rng.IntN(3) - 1, DY: rng.IntN(3) - 1}
		o.Position = r.grid.Clamp(o.Position.Add(step))
		moved++
	}
	return moved
}

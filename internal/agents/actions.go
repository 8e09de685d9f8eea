// Action repertoire. Each action returns a unit step; eating returns Stay
// and consumes an adjacent object instead. Actions with no usable target
// fall back to exploring.
package agents

import (
	"math"

	"github.com/talgya/catsim/internal/environment"
	"github.com/talgya/catsim/internal/world"
)

// Action effect sizes.
const (
	fleeStress = 5.0

	restEnergy  = 2.0
	restComfort = 3.0
	restStress  = 2.0

	eatHunger   = 30.0
	eatEnergy   = 20.0
	drinkThirst = 30.0
)

func (a *Agent) flee(t *Tick) world.Step {
	predator, ok := firstOfKind(a.seen(t.Registry), environment.KindPredator)
	if !ok {
		return a.explore(t)
	}
	a.Needs.Stress = clampNeed(a.Needs.Stress + fleeStress)
	return world.Away(a.Position, predator.Position)
}

// hunt steps toward the nearest perceived object that satisfies an urgent
// need. Equal distances keep the earlier percept.
func (a *Agent) hunt(t *Tick) world.Step {
	var target environment.Object
	found := false
	best := math.Inf(1)

	for _, o := range a.seen(t.Registry) {
		if !a.wants(o.Kind) {
			continue
		}
		if d := world.Distance(a.Position, o.Position); d < best {
			best = d
			target = o
			found = true
		}
	}

	if found {
		id := target.ID
		a.Target = &id
		return world.Toward(a.Position, target.Position)
	}
	return a.exploreFromMemory(t)
}

// wants reports whether an object kind answers an urgent need.
func (a *Agent) wants(k environment.Kind) bool {
	if a.Needs.Hunger > hungerUrgent && (k == environment.KindFood || k == environment.KindPrey) {
		return true
	}
	return a.Needs.Thirst > thirstUrgent && k == environment.KindWater
}

// exploreFromMemory heads for the first remembered food or water.
func (a *Agent) exploreFromMemory(t *Tick) world.Step {
	if e, ok := a.Memory.FirstOf(environment.KindFood, environment.KindWater); ok {
		return world.Toward(a.Position, e.Position)
	}
	return a.explore(t)
}

func (a *Agent) seekShelter(t *Tick) world.Step {
	if shelter, ok := firstOfKind(a.seen(t.Registry), environment.KindShelter); ok {
		return world.Toward(a.Position, shelter.Position)
	}
	return a.explore(t)
}

func (a *Agent) rest(t *Tick) world.Step {
	a.Needs.Energy = clampNeed(a.Needs.Energy + restEnergy)
	a.Needs.Comfort = clampNeed(a.Needs.Comfort + restComfort)
	a.Needs.Stress = clampNeed(a.Needs.Stress - restStress)

	if shelter, ok := firstOfKind(a.seen(t.Registry), environment.KindShelter); ok {
		return world.Toward(a.Position, shelter.Position)
	}
	return world.Stay
}

// explore prefers axis moves into cells absent from memory.
func (a *Agent) explore(t *Tick) world.Step {
	fresh := make([]world.Step, 0, len(world.AxisSteps))
	for _, s := range world.AxisSteps {
		if !a.Memory.Contains(a.Position.Add(s)) {
			fresh = append(fresh, s)
		}
	}
	if len(fresh) > 0 {
		return fresh[t.Rand.IntN(len(fresh))]
	}
	return world.AxisSteps[t.Rand.IntN(len(world.AxisSteps))]
}

// eat consumes the first adjacent active food or water, in perception order.
func (a *Agent) eat(t *Tick) world.Step {
	for _, o := range a.seen(t.Registry) {
		// Consumed objects stay in Perceived until the next perception pass.
		if !o.Active || !world.Adjacent(a.Position, o.Position) {
			continue
		}
		switch o.Kind {
		case environment.KindFood:
			a.Needs.Hunger = clampNeed(a.Needs.Hunger - eatHunger)
			a.Needs.Energy = clampNeed(a.Needs.Energy + eatEnergy)
		case environment.KindWater:
			a.Needs.Thirst = clampNeed(a.Needs.Thirst - drinkThirst)
		default:
			continue
		}
		if t.Registry.Deactivate(o.ID) {
			o.Active = false
			t.report.Consumed = append(t.report.Consumed, o)
		}
		return world.Stay
	}
	return a.explore(t)
}

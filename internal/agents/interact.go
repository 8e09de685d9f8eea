package agents

import (
	"github.com/talgya/catsim/internal/environment"
	"github.com/talgya/catsim/internal/world"
)

// Proximity effects.
const (
	eatHungerTrigger   = 50.0
	drinkThirstTrigger = 50.0

	shelterComfort = 5.0
	shelterStress  = 3.0
	toyStress      = 2.0
	toyComfort     = 2.0
	humanComfort   = 3.0
	humanStressMax = 50.0
)

// interact applies the effects of every perceived object within one cell.
// There is no early exit: numeric effects accumulate, and the last rule that
// sets a mental state wins.
func (a *Agent) interact(t *Tick) {
	for _, id := range a.Perceived {
		o, ok := t.Registry.Get(id)
		if !ok || !world.Adjacent(a.Position, o.Position) {
			continue
		}

		// Food or water eaten earlier this tick is skipped, so a second
		// adjacent consumable is the one eaten rather than the first twice.
		switch o.Kind {
		case environment.KindFood:
			if o.Active && a.Needs.Hunger > eatHungerTrigger {
				a.State = Eating
				a.eat(t)
			}
		case environment.KindWater:
			if o.Active && a.Needs.Thirst > drinkThirstTrigger {
				a.State = Eating
				a.eat(t)
			}
		case environment.KindShelter:
			a.Needs.Comfort = clampNeed(a.Needs.Comfort + shelterComfort)
			a.Needs.Stress = clampNeed(a.Needs.Stress - shelterStress)
		case environment.KindToy:
			a.Needs.Stress = clampNeed(a.Needs.Stress - toyStress)
			a.Needs.Comfort = clampNeed(a.Needs.Comfort + toyComfort)
		case environment.KindHuman:
			if a.Needs.Stress < humanStressMax {
				a.Needs.Comfort = clampNeed(a.Needs.Comfort + humanComfort)
				a.State = Communicating
			}
		}
	}
}

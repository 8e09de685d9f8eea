// Deliberation — the fixed-priority policy mapping needs and percepts to a
// mental state. Rules are evaluated top to bottom; the first match wins.
package agents

import (
	"github.com/talgya/catsim/internal/environment"
	"github.com/talgya/catsim/internal/world"
)

// Policy thresholds.
const (
	exhaustedEnergy    = 20.0
	criticalSurvival   = 30.0
	hungerUrgent       = 70.0
	thirstUrgent       = 70.0
	stressOverwhelming = 70.0
	comfortLow         = 30.0
)

type rule struct {
	name  string
	when  func(a *Agent, seen []environment.Object) bool
	state MentalState
}

var policy = []rule{
	{"exhausted", func(a *Agent, _ []environment.Object) bool {
		return a.Needs.Energy < exhaustedEnergy || a.Survival < criticalSurvival
	}, SeekingShelter},
	{"threatened", func(_ *Agent, seen []environment.Object) bool {
		_, ok := firstOfKind(seen, environment.KindPredator)
		return ok
	}, Fleeing},
	{"hungry", func(a *Agent, _ []environment.Object) bool {
		return a.Needs.Hunger > hungerUrgent
	}, Hunting},
	{"thirsty", func(a *Agent, _ []environment.Object) bool {
		return a.Needs.Thirst > thirstUrgent
	}, Hunting},
	{"stressed", func(a *Agent, _ []environment.Object) bool {
		return a.Needs.Stress > stressOverwhelming
	}, SeekingShelter},
	{"uncomfortable", func(a *Agent, _ []environment.Object) bool {
		return a.Needs.Comfort < comfortLow
	}, Resting},
}

// Deliberate returns the state the policy selects. It does not mutate the
// agent.
func Deliberate(a *Agent, seen []environment.Object) MentalState {
	for _, r := range policy {
		if r.when(a, seen) {
			return r.state
		}
	}
	return Exploring
}

// Decide sets the agent's mental state from the policy and returns the step
// the matching action produces. The time-in-state counter advances on every
// call, whether or not the state changed.
func (a *Agent) Decide(t *Tick) world.Step {
	a.State = Deliberate(a, a.seen(t.Registry))
	a.TimeInState++
	return a.act(t)
}

// act dispatches to the action for the current state.
func (a *Agent) act(t *Tick) world.Step {
	switch a.State {
	case Fleeing:
		return a.flee(t)
	case Hunting:
		return a.hunt(t)
	case SeekingShelter:
		return a.seekShelter(t)
	case Resting:
		return a.rest(t)
	case Exploring:
		return a.explore(t)
	case Eating:
		return a.eat(t)
	default:
		return world.Stay
	}
}

func firstOfKind(seen []environment.Object, kind environment.Kind) (environment.Object, bool) {
	for _, o := range seen {
		if o.Kind == kind {
			return o, true
		}
	}
	return environment.Object{}, false
}

package agents

import (
	"github.com/talgya/catsim/internal/entropy"
	"github.com/talgya/catsim/internal/environment"
	"github.com/talgya/catsim/internal/world"
)

// Tick carries the collaborators of one update: the registry the cat senses
// and eats from, and the random source for exploration.
type Tick struct {
	Registry *environment.Registry
	Rand     entropy.Rand

	report Report
}

// Report summarizes what happened during one update.
type Report struct {
	Previous MentalState          `json:"previous"`
	Decided  MentalState          `json:"decided"` // chosen by the policy
	State    MentalState          `json:"state"`   // after proximity interactions
	Step     world.Step           `json:"step"`
	Moved    bool                 `json:"moved"`
	Consumed []environment.Object `json:"consumed,omitempty"`
}

// Update runs one perceive → decide → move → decay → interact cycle.
func (a *Agent) Update(reg *environment.Registry, rng entropy.Rand) Report {
	t := &Tick{Registry: reg, Rand: rng}
	t.report.Previous = a.State

	a.Perceive(reg)

	step := a.Decide(t)
	t.report.Decided = a.State
	t.report.Step = step

	t.report.Moved = a.move(reg, step)

	DecayNeeds(a)

	a.interact(t)
	a.Survival = a.Needs.SurvivalScore()

	t.report.State = a.State
	return t.report
}

// move applies step×speed if the destination is on the grid and not occupied
// by a perceived obstacle. Rejected moves leave the agent in place.
func (a *Agent) move(reg *environment.Registry, step world.Step) bool {
	dest := a.Position.Add(step.Scale(a.Speed))
	if !reg.Grid().InBounds(dest) {
		return false
	}
	for _, o := range a.seen(reg) {
		if o.Kind == environment.KindObstacle && o.Position == dest {
			return false
		}
	}
	a.Position = dest
	a.History.Push(dest)
	return true
}

package agents

import (
	"github.com/talgya/catsim/internal/environment"
	"github.com/talgya/catsim/internal/world"
)

// Perceive replaces the agent's percepts with every active object inside its
// effective range for that kind, and writes each one into memory.
func (a *Agent) Perceive(reg *environment.Registry) []environment.ObjectID {
	perceived := make([]environment.ObjectID, 0, len(a.Perceived))
	reg.Each(func(o environment.Object) {
		if !o.Active {
			return
		}
		if world.Distance(a.Position, o.Position) <= a.Senses.RangeFor(o.Kind) {
			perceived = append(perceived, o.ID)
			a.Memory.Record(o)
		}
	})
	a.Perceived = perceived
	return perceived
}

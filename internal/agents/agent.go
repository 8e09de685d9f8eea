// Package agents provides the cat: its needs, senses, memory, deliberation
// policy, and action repertoire.
package agents

import (
	"github.com/talgya/catsim/internal/environment"
	"github.com/talgya/catsim/internal/world"
)

// MentalState is the cat's current behavioral mode.
type MentalState uint8

const (
	Exploring MentalState = iota
	Hunting
	Eating
	Resting
	Fleeing
	SeekingShelter
	Communicating
)

// NumStates is the total number of mental states.
const NumStates = 7

var stateNames = [NumStates]string{
	"Exploring", "Hunting", "Eating", "Resting", "Fleeing", "SeekingShelter", "Communicating",
}

func (s MentalState) String() string {
	if int(s) < len(stateNames) {
		return stateNames[s]
	}
	return "Unknown"
}

// MarshalText encodes the state as its name.
func (s MentalState) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Senses holds perception ranges in cells.
type Senses struct {
	Vision    float64 `json:"vision"`
	Olfaction float64 `json:"olfaction"`
	Hearing   float64 `json:"hearing"`
}

// RangeFor returns the effective perception range for an object kind.
// Smell extends the reach for food and prey, hearing for predators.
func (s Senses) RangeFor(k environment.Kind) float64 {
	switch k {
	case environment.KindFood, environment.KindPrey:
		return max(s.Vision, s.Olfaction)
	case environment.KindPredator:
		return max(s.Vision, s.Hearing)
	default:
		return s.Vision
	}
}

// Params configures a new agent.
type Params struct {
	Senses     Senses
	Speed      int
	Decay      DecayRates
	Initial    Needs
	HistoryCap int
	MemoryCap  int // 0 = unbounded
}

// DefaultParams returns the stock house-cat parameters.
func DefaultParams() Params {
	return Params{
		Senses:     Senses{Vision: 5, Olfaction: 3, Hearing: 7},
		Speed:      1,
		Decay:      DefaultDecayRates(),
		Initial:    Needs{Energy: 100, Hunger: 50, Thirst: 50, Stress: 20, Comfort: 70},
		HistoryCap: 50,
	}
}

// Agent is the cat.
type Agent struct {
	Position world.Position
	History  *History

	Needs    Needs
	Survival float64

	State       MentalState
	TimeInState uint64 // Ticks since the policy first ran; never reset.

	Memory    *Memory
	Target    *environment.ObjectID
	Perceived []environment.ObjectID

	Senses Senses
	Speed  int
	decay  DecayRates
}

// New creates an agent at pos.
func New(pos world.Position, p Params) *Agent {
	a := &Agent{
		Position: pos,
		History:  NewHistory(p.HistoryCap),
		Needs:    p.Initial,
		State:    Exploring,
		Memory:   NewMemory(p.MemoryCap),
		Senses:   p.Senses,
		Speed:    p.Speed,
		decay:    p.Decay,
	}
	a.Needs.clamp()
	a.Survival = a.Needs.SurvivalScore()
	return a
}

// Reset reinitializes the agent in place.
func (a *Agent) Reset(pos world.Position, p Params) {
	*a = *New(pos, p)
}

// seen resolves the perceived handles against the registry, in perception
// order. Objects deactivated since perception are still returned.
func (a *Agent) seen(reg *environment.Registry) []environment.Object {
	out := make([]environment.Object, 0, len(a.Perceived))
	for _, id := range a.Perceived {
		if o, ok := reg.Get(id); ok {
			out = append(out, o)
		}
	}
	return out
}

// Snapshot is a read-only view of the agent for presentation layers.
type Snapshot struct {
	Position    world.Position        `json:"position"`
	State       MentalState           `json:"state"`
	TimeInState uint64                `json:"time_in_state"`
	Needs       Needs                 `json:"needs"`
	Survival    float64               `json:"survival"`
	Perceived   []environment.Object  `json:"perceived"`
	MemorySize  int                   `json:"memory_size"`
	Target      *environment.ObjectID `json:"target,omitempty"`
	History     []world.Position      `json:"history"`
}

// Snapshot copies the agent's observable state.
func (a *Agent) Snapshot(reg *environment.Registry) Snapshot {
	var target *environment.ObjectID
	if a.Target != nil {
		t := *a.Target
		target = &t
	}
	return Snapshot{
		Position:    a.Position,
		State:       a.State,
		TimeInState: a.TimeInState,
		Needs:       a.Needs,
		Survival:    a.Survival,
		Perceived:   a.seen(reg),
		MemorySize:  a.Memory.Len(),
		Target:      target,
		History:     a.History.Positions(),
	}
}

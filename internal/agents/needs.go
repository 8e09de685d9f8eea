// Needs — the cat's internal state scalars and their passive decay.
package agents

// NeedMax is the upper bound of every need scalar.
const NeedMax = 100.0

// Needs tracks the five internal scalars, each in [0, 100].
// Energy and Comfort are good when high; Hunger, Thirst and Stress are good
// when low.
type Needs struct {
	Energy  float64 `json:"energy"`
	Hunger  float64 `json:"hunger"`
	Thirst  float64 `json:"thirst"`
	Stress  float64 `json:"stress"`
	Comfort float64 `json:"comfort"`
}

// DecayRates are the per-tick passive changes.
type DecayRates struct {
	Hunger              float64 // added per tick
	Thirst              float64 // added per tick
	Energy              float64 // subtracted per tick
	ExploreStressRelief float64 // subtracted per tick while Exploring
}

// DefaultDecayRates returns the stock rates.
func DefaultDecayRates() DecayRates {
	return DecayRates{Hunger: 0.5, Thirst: 0.7, Energy: 0.3, ExploreStressRelief: 0.2}
}

// SurvivalScore is the mean of the five wellness components.
func (n Needs) SurvivalScore() float64 {
	return (n.Energy + (NeedMax - n.Hunger) + (NeedMax - n.Thirst) + n.Comfort + (NeedMax - n.Stress)) / 5
}

// decay applies one tick of passive change.
func (n *Needs) decay(r DecayRates, exploring bool) {
	n.Hunger += r.Hunger
	n.Thirst += r.Thirst
	n.Energy -= r.Energy
	if exploring {
		n.Stress -= r.ExploreStressRelief
	}
	n.clamp()
}

func (n *Needs) clamp() {
	n.Energy = clampNeed(n.Energy)
	n.Hunger = clampNeed(n.Hunger)
	n.Thirst = clampNeed(n.Thirst)
	n.Stress = clampNeed(n.Stress)
	n.Comfort = clampNeed(n.Comfort)
}

func clampNeed(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > NeedMax {
		return NeedMax
	}
	return v
}

// DecayNeeds advances the agent's needs by one tick and refreshes survival.
func DecayNeeds(a *Agent) {
	a.Needs.decay(a.decay, a.State == Exploring)
	a.Survival = a.Needs.SurvivalScore()
}

package agents

import (
	"testing"

	"github.com/talgya/catsim/internal/entropy"
	"github.com/talgya/catsim/internal/environment"
	"github.com/talgya/catsim/internal/world"
)

func TestPerceiveRanges(t *testing.T) {
	a, reg := setup(5, 5)
	// Distances 5, 6, 7 and 8: food is at the edge of sight, the nearer
	// predator at the edge of hearing.
	food := reg.Spawn(environment.KindFood, world.Position{X: 5, Y: 10})
	reg.Spawn(environment.KindWater, world.Position{X: 5, Y: 11})
	predator := reg.Spawn(environment.KindPredator, world.Position{X: 12, Y: 5})
	reg.Spawn(environment.KindPredator, world.Position{X: 13, Y: 5})
	gone := reg.Spawn(environment.KindToy, world.Position{X: 5, Y: 6})
	reg.Deactivate(gone)

	got := a.Perceive(reg)
	if len(got) != 2 || got[0] != food || got[1] != predator {
		t.Fatalf("perceived %v, want [%d %d]", got, food, predator)
	}
	if a.Memory.Len() != 2 {
		t.Fatalf("memory holds %d entries, want 2", a.Memory.Len())
	}

	again := a.Perceive(reg)
	if len(again) != len(got) || again[0] != got[0] || again[1] != got[1] || a.Memory.Len() != 2 {
		t.Fatal("perceiving an unchanged world twice must be idempotent")
	}
}

func TestSensesRangeFor(t *testing.T) {
	s := Senses{Vision: 2, Olfaction: 4, Hearing: 6}
	tests := map[environment.Kind]float64{
		environment.KindFood:     4,
		environment.KindPrey:     4,
		environment.KindPredator: 6,
		environment.KindWater:    2,
		environment.KindObstacle: 2,
	}
	for k, want := range tests {
		if got := s.RangeFor(k); got != want {
			t.Errorf("RangeFor(%s) = %g, want %g", k, got, want)
		}
	}
}

func TestHuntThenEatScenario(t *testing.T) {
	a, reg := setup(5, 5)
	setNeeds(a, with(Needs{Hunger: 80}))
	food := reg.Spawn(environment.KindFood, world.Position{X: 6, Y: 5})

	rep := a.Update(reg, &scriptedRand{})
	if rep.Decided != Hunting || rep.Step != (world.Step{DX: 1, DY: 0}) {
		t.Fatalf("report = %+v", rep)
	}
	if a.Position != (world.Position{X: 6, Y: 5}) {
		t.Fatalf("position = %v", a.Position)
	}
	// 80 + 0.5 decay - 30 eaten
	if !near(a.Needs.Hunger, 50.5) {
		t.Fatalf("hunger = %g, want 50.5", a.Needs.Hunger)
	}
	if a.State != Eating || rep.State != Eating {
		t.Fatalf("state = %s, want Eating", a.State)
	}
	if o, _ := reg.Get(food); o.Active {
		t.Fatal("food should be consumed")
	}
	if len(rep.Consumed) != 1 || rep.Consumed[0].ID != food {
		t.Fatalf("consumed = %+v", rep.Consumed)
	}
	if !near(a.Survival, a.Needs.SurvivalScore()) {
		t.Fatal("survival stale after interactions")
	}
}

func TestEatPerceptionOrder(t *testing.T) {
	a, reg := setup(5, 5)
	setNeeds(a, with(Needs{Hunger: 60, Thirst: 60}))
	water := reg.Spawn(environment.KindWater, world.Position{X: 4, Y: 4})
	food := reg.Spawn(environment.KindFood, world.Position{X: 6, Y: 6})
	a.Perceive(reg)

	tick := &Tick{Registry: reg, Rand: &scriptedRand{}}
	if step := a.eat(tick); step != world.Stay {
		t.Fatalf("eat step = %v", step)
	}
	if o, _ := reg.Get(water); o.Active {
		t.Fatal("the first perceived consumable should go first")
	}
	if o, _ := reg.Get(food); !o.Active {
		t.Fatal("only one object is consumed per call")
	}
	if a.Needs.Thirst != 30 || a.Needs.Hunger != 60 {
		t.Fatalf("needs = %+v", a.Needs)
	}

	a.eat(tick)
	if a.Needs.Hunger != 30 || a.Needs.Energy != 100 {
		t.Fatalf("needs after food = %+v", a.Needs)
	}
	if len(tick.report.Consumed) != 2 {
		t.Fatalf("consumed = %+v", tick.report.Consumed)
	}

	// Nothing edible left: eating falls back to exploring.
	tick.Rand = &scriptedRand{ints: []int{0}}
	if step := a.eat(tick); step == world.Stay {
		t.Fatal("expected an exploration step")
	}
}

func TestInteractions(t *testing.T) {
	tests := []struct {
		name      string
		kind      environment.Kind
		needs     Needs
		wantState MentalState
		wantNeeds Needs
	}{
		{"shelter", environment.KindShelter, calm, Exploring,
			Needs{Energy: 100, Hunger: 50, Thirst: 50, Stress: 17, Comfort: 75}},
		{"toy", environment.KindToy, calm, Exploring,
			Needs{Energy: 100, Hunger: 50, Thirst: 50, Stress: 18, Comfort: 72}},
		{"human when calm", environment.KindHuman, calm, Communicating,
			Needs{Energy: 100, Hunger: 50, Thirst: 50, Stress: 20, Comfort: 73}},
		{"human when stressed", environment.KindHuman, with(Needs{Stress: 60}), Exploring,
			with(Needs{Stress: 60})},
		{"food when not hungry", environment.KindFood, calm, Exploring, calm},
		{"water when thirsty", environment.KindWater, with(Needs{Thirst: 55}), Eating,
			with(Needs{Thirst: 25})},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, reg := setup(5, 5)
			setNeeds(a, tt.needs)
			reg.Spawn(tt.kind, world.Position{X: 6, Y: 4})
			a.Perceive(reg)

			a.interact(&Tick{Registry: reg, Rand: &scriptedRand{}})
			if a.State != tt.wantState {
				t.Fatalf("state = %s, want %s", a.State, tt.wantState)
			}
			if a.Needs != tt.wantNeeds {
				t.Fatalf("needs = %+v, want %+v", a.Needs, tt.wantNeeds)
			}
		})
	}
}

func TestInteractionsAccumulate(t *testing.T) {
	a, reg := setup(5, 5)
	reg.Spawn(environment.KindHuman, world.Position{X: 5, Y: 6})
	reg.Spawn(environment.KindShelter, world.Position{X: 4, Y: 5})
	reg.Spawn(environment.KindShelter, world.Position{X: 6, Y: 5})
	a.Perceive(reg)

	a.interact(&Tick{Registry: reg, Rand: &scriptedRand{}})
	if a.State != Communicating {
		t.Fatalf("state = %s", a.State)
	}
	// human +3, two shelters +5 each
	if a.Needs.Comfort != 83 || a.Needs.Stress != 14 {
		t.Fatalf("needs = %+v", a.Needs)
	}
}

func TestInteractionsEatEachFoodOnce(t *testing.T) {
	a, reg := setup(5, 5)
	setNeeds(a, with(Needs{Hunger: 90}))
	first := reg.Spawn(environment.KindFood, world.Position{X: 4, Y: 5})
	second := reg.Spawn(environment.KindFood, world.Position{X: 6, Y: 5})
	a.Perceive(reg)

	tick := &Tick{Registry: reg, Rand: &scriptedRand{}}
	a.interact(tick)
	for _, id := range []environment.ObjectID{first, second} {
		if o, _ := reg.Get(id); o.Active {
			t.Fatalf("food #%d still active", id)
		}
	}
	if a.Needs.Hunger != 30 || len(tick.report.Consumed) != 2 {
		t.Fatalf("hunger = %g, consumed = %+v", a.Needs.Hunger, tick.report.Consumed)
	}
}

func TestInteractionsLastStateWins(t *testing.T) {
	food := world.Position{X: 6, Y: 5}
	human := world.Position{X: 5, Y: 6}
	tests := []struct {
		name  string
		first environment.Kind
		want  MentalState
	}{
		{"food then human", environment.KindFood, Communicating},
		{"human then food", environment.KindHuman, Eating},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, reg := setup(5, 5)
			setNeeds(a, with(Needs{Hunger: 60}))
			if tt.first == environment.KindFood {
				reg.Spawn(environment.KindFood, food)
				reg.Spawn(environment.KindHuman, human)
			} else {
				reg.Spawn(environment.KindHuman, human)
				reg.Spawn(environment.KindFood, food)
			}
			a.Perceive(reg)

			a.interact(&Tick{Registry: reg, Rand: &scriptedRand{}})
			if a.State != tt.want {
				t.Fatalf("state = %s, want %s", a.State, tt.want)
			}
			// Both effects apply whichever state wins.
			if a.Needs.Hunger != 30 || a.Needs.Comfort != 73 {
				t.Fatalf("needs = %+v", a.Needs)
			}
		})
	}
}

func TestMoveRejections(t *testing.T) {
	a, reg := setup(5, 5)
	reg.Spawn(environment.KindObstacle, world.Position{X: 6, Y: 5})
	a.Perceive(reg)

	if a.move(reg, world.Step{DX: 1}) {
		t.Fatal("moved onto a perceived obstacle")
	}
	if a.Position != (world.Position{X: 5, Y: 5}) || a.History.Len() != 0 {
		t.Fatalf("rejected move changed state: %v, history %d", a.Position, a.History.Len())
	}
	if !a.move(reg, world.Step{DY: 1}) || a.Position != (world.Position{X: 5, Y: 6}) {
		t.Fatalf("free move failed, at %v", a.Position)
	}
	if a.History.Len() != 1 {
		t.Fatalf("history len = %d, want 1", a.History.Len())
	}

	edge, empty := setup(0, 0)
	if edge.move(empty, world.Step{DX: -1}) || edge.Position != (world.Position{}) {
		t.Fatal("moved off the grid")
	}
}

func TestMoveScalesBySpeed(t *testing.T) {
	p := DefaultParams()
	p.Speed = 2
	reg := environment.NewRegistry(world.NewGrid(20))
	a := New(world.Position{X: 5, Y: 5}, p)

	if !a.move(reg, world.Step{DX: 1}) || a.Position != (world.Position{X: 7, Y: 5}) {
		t.Fatalf("position = %v, want (7,5)", a.Position)
	}
	a.Position = world.Position{X: 19, Y: 5}
	if a.move(reg, world.Step{DX: 1}) {
		t.Fatal("a scaled step past the edge must be rejected whole")
	}
}

func TestUpdateInvariants(t *testing.T) {
	grid := world.NewGrid(20)
	reg := environment.NewRegistry(grid)
	rng := entropy.New(99)
	reg.Populate(environment.DefaultGenConfig(), grid.Center(), rng)
	a := New(grid.Center(), DefaultParams())

	for i := 0; i < 3000; i++ {
		a.Update(reg, rng)
		reg.Regenerate(rng, 0.02)
		reg.WalkPredators(rng, 0.3)

		for _, v := range []float64{a.Needs.Energy, a.Needs.Hunger, a.Needs.Thirst, a.Needs.Stress, a.Needs.Comfort, a.Survival} {
			if v < 0 || v > NeedMax {
				t.Fatalf("tick %d: value %g out of range in %+v", i, v, a.Needs)
			}
		}
		if !near(a.Survival, a.Needs.SurvivalScore()) {
			t.Fatalf("tick %d: survival %g is not the mean of needs", i, a.Survival)
		}
		if !grid.InBounds(a.Position) {
			t.Fatalf("tick %d: off grid at %v", i, a.Position)
		}
		if a.History.Len() > a.History.Cap() {
			t.Fatalf("tick %d: history overflow", i)
		}
	}
}

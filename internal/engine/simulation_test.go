package engine

import (
	"testing"

	"github.com/talgya/catsim/internal/agents"
	"github.com/talgya/catsim/internal/world"
)

func TestSameSeedSameRun(t *testing.T) {
	a := NewSimulation(DefaultParams(), 2024)
	b := NewSimulation(DefaultParams(), 2024)

	for i := 0; i < 1500; i++ {
		a.Tick()
		b.Tick()
	}

	sa, sb := a.Agent(), b.Agent()
	if sa.Position != sb.Position || sa.Needs != sb.Needs || sa.State != sb.State {
		t.Fatalf("runs diverged:\n%+v\n%+v", sa, sb)
	}

	oa, ob := a.AllObjects(), b.AllObjects()
	if len(oa) != len(ob) {
		t.Fatalf("object counts differ: %d vs %d", len(oa), len(ob))
	}
	for i := range oa {
		if oa[i] != ob[i] {
			t.Fatalf("object %d differs: %+v vs %+v", i, oa[i], ob[i])
		}
	}
	if a.RunID() == b.RunID() {
		t.Fatal("run IDs are unique even for equal seeds")
	}
}

func TestClusteredPlacementIsDeterministic(t *testing.T) {
	p := DefaultParams()
	p.Gen.Placement = world.PlacementClustered

	oa := NewSimulation(p, 5).AllObjects()
	ob := NewSimulation(p, 5).AllObjects()
	if len(oa) != len(ob) {
		t.Fatalf("object counts differ: %d vs %d", len(oa), len(ob))
	}
	for i := range oa {
		if oa[i] != ob[i] {
			t.Fatalf("object %d differs", i)
		}
	}
}

func TestResetStartsFreshRun(t *testing.T) {
	sim := NewSimulation(DefaultParams(), 11)
	firstSeed := sim.RunSeed()
	firstID := sim.RunID()
	for i := 0; i < 200; i++ {
		sim.Tick()
	}

	sim.Reset()
	if sim.RunID() == firstID {
		t.Fatal("reset should issue a new run ID")
	}
	if sim.RunSeed() == firstSeed {
		t.Fatal("later runs derive a new seed")
	}
	if sim.CurrentTick() != 0 || sim.Stats().Ticks != 0 {
		t.Fatalf("tick = %d, stats %+v", sim.CurrentTick(), sim.Stats())
	}

	a := sim.Agent()
	center := DefaultParams().Grid.Center()
	if a.Position != center || a.State != agents.Exploring || a.MemorySize != 0 || a.TimeInState != 0 {
		t.Fatalf("agent not reset: %+v", a)
	}
	for _, o := range sim.AllObjects() {
		if o.Position == center {
			t.Fatalf("object %+v generated on the agent", o)
		}
	}
	events := sim.Events(0)
	if len(events) != 1 || events[0].Category != "run" || events[0].RunID != sim.RunID() {
		t.Fatalf("events after reset = %+v", events)
	}

	// A derived run seed is reproducible.
	other := NewSimulation(DefaultParams(), 11)
	other.Reset()
	if other.RunSeed() != sim.RunSeed() {
		t.Fatal("second run seed should depend only on the base seed")
	}
}

func TestStatsAndDrain(t *testing.T) {
	sim := NewSimulation(DefaultParams(), 3)
	for i := 0; i < 300; i++ {
		sim.Tick()
	}

	stats := sim.Stats()
	if stats.Ticks != 300 {
		t.Fatalf("ticks = %d", stats.Ticks)
	}
	var total uint64
	for _, n := range stats.StateTicks {
		total += n
	}
	if total != 300 {
		t.Fatalf("state occupancy sums to %d, want 300", total)
	}
	if stats.MinSurvival > sim.Agent().Survival {
		t.Fatal("min survival above current survival")
	}

	samples, events := sim.Drain()
	if len(samples) != 300 || samples[0].Tick != 1 || samples[299].Tick != 300 {
		t.Fatalf("drained %d samples", len(samples))
	}
	if len(events) == 0 || events[0].Category != "run" {
		t.Fatalf("drained events = %+v", events)
	}
	for _, s := range samples {
		if s.RunID != sim.RunID() {
			t.Fatal("sample tagged with the wrong run")
		}
	}

	if s, e := sim.Drain(); len(s) != 0 || len(e) != 0 {
		t.Fatal("second drain should be empty")
	}
}

func TestPendingBufferIsBounded(t *testing.T) {
	sim := NewSimulation(DefaultParams(), 3)
	for range maxPending + 250 {
		sim.Tick()
	}

	samples, events := sim.Pending()
	if samples != maxPending {
		t.Fatalf("pending samples = %d, want %d", samples, maxPending)
	}
	if events > maxPending {
		t.Fatalf("pending events = %d, above %d", events, maxPending)
	}
	if sim.Dropped() < 250 {
		t.Fatalf("dropped = %d, want at least 250", sim.Dropped())
	}

	// The newest ticks survive.
	drained, _ := sim.Drain()
	if last := drained[len(drained)-1].Tick; last != maxPending+250 {
		t.Fatalf("last buffered tick = %d, want %d", last, maxPending+250)
	}
	if first := drained[0].Tick; first != 251 {
		t.Fatalf("oldest buffered tick = %d, want 251", first)
	}
}

func TestRequeueKeepsOrder(t *testing.T) {
	sim := NewSimulation(DefaultParams(), 3)
	for range 4 {
		sim.Tick()
	}
	samples, events := sim.Drain()
	for range 2 {
		sim.Tick()
	}
	sim.Requeue(samples, events)

	got, _ := sim.Drain()
	if len(got) != 6 {
		t.Fatalf("got %d samples, want 6", len(got))
	}
	for i, s := range got {
		if s.Tick != uint64(i+1) {
			t.Fatalf("sample %d has tick %d", i, s.Tick)
		}
	}
}

func TestEventsLimit(t *testing.T) {
	sim := NewSimulation(DefaultParams(), 3)
	for i := 0; i < 500; i++ {
		sim.Tick()
	}
	all := sim.Events(0)
	last := sim.Events(2)
	if len(all) < 2 || len(last) != 2 {
		t.Fatalf("events: all %d, limited %d", len(all), len(last))
	}
	if last[1] != all[len(all)-1] {
		t.Fatal("limited events should be the most recent")
	}
}

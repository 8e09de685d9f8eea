package agents

import (
	"testing"

	"github.com/talgya/catsim/internal/environment"
	"github.com/talgya/catsim/internal/world"
)

func obj(id environment.ObjectID, kind environment.Kind, x, y int) environment.Object {
	return environment.Object{ID: id, Kind: kind, Position: world.Position{X: x, Y: y}, Active: true}
}

func TestMemoryOverwriteKeepsSlot(t *testing.T) {
	m := NewMemory(0)
	m.Record(obj(1, environment.KindToy, 1, 1))
	m.Record(obj(2, environment.KindWater, 2, 2))
	m.Record(obj(3, environment.KindFood, 1, 1))

	if m.Len() != 2 {
		t.Fatalf("Len = %d, want 2", m.Len())
	}
	entries := m.Entries()
	if entries[0].Position != (world.Position{X: 1, Y: 1}) || entries[0].Kind != environment.KindFood || entries[0].Object != 3 {
		t.Fatalf("overwritten entry = %+v", entries[0])
	}

	// The overwritten food keeps the first slot, so it precedes the water.
	e, ok := m.FirstOf(environment.KindFood, environment.KindWater)
	if !ok || e.Kind != environment.KindFood {
		t.Fatalf("FirstOf = %+v, %v", e, ok)
	}
	if _, ok := m.FirstOf(environment.KindPredator); ok {
		t.Fatal("nothing of that kind was recorded")
	}
}

func TestMemoryCapEvictsStalest(t *testing.T) {
	m := NewMemory(2)
	m.Record(obj(1, environment.KindFood, 0, 0))
	m.Record(obj(2, environment.KindWater, 1, 0))
	m.Record(obj(1, environment.KindFood, 0, 0)) // refresh (0,0)
	m.Record(obj(3, environment.KindToy, 2, 0))  // evicts (1,0)

	if m.Len() != 2 {
		t.Fatalf("Len = %d, want 2", m.Len())
	}
	if m.Contains(world.Position{X: 1, Y: 0}) {
		t.Fatal("least recently updated entry should be evicted")
	}
	if !m.Contains(world.Position{X: 0, Y: 0}) || !m.Contains(world.Position{X: 2, Y: 0}) {
		t.Fatalf("entries = %+v", m.Entries())
	}
	if e, ok := m.Lookup(world.Position{X: 2, Y: 0}); !ok || e.Kind != environment.KindToy {
		t.Fatalf("Lookup after eviction = %+v, %v", e, ok)
	}
}

func TestHistoryRing(t *testing.T) {
	h := NewHistory(3)
	for i := 0; i < 5; i++ {
		h.Push(world.Position{X: i})
	}
	if h.Len() != 3 || h.Cap() != 3 {
		t.Fatalf("Len/Cap = %d/%d", h.Len(), h.Cap())
	}
	got := h.Positions()
	for i, want := range []int{2, 3, 4} {
		if got[i].X != want {
			t.Fatalf("Positions = %v, want oldest-first 2,3,4", got)
		}
	}

	empty := NewHistory(0)
	empty.Push(world.Position{X: 1})
	if empty.Len() != 0 {
		t.Fatal("zero-capacity history stores nothing")
	}
}

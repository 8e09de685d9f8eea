// Agent memory — a coordinate-keyed record of every object the cat has
// perceived. Entries are never checked against the live registry, so a
// remembered bowl may long since be empty.
package agents

import (
	"github.com/talgya/catsim/internal/environment"
	"github.com/talgya/catsim/internal/world"
)

// MemoryEntry is the last object seen at a coordinate.
type MemoryEntry struct {
	Position world.Position       `json:"position"`
	Object   environment.ObjectID `json:"object"`
	Kind     environment.Kind     `json:"kind"`

	updated uint64
}

// Memory keeps entries in first-insertion order. Overwriting an existing
// coordinate keeps its slot.
type Memory struct {
	entries []MemoryEntry
	index   map[world.Position]int
	cap     int
	clock   uint64
}

// NewMemory creates a memory. A positive capacity evicts the
// least-recently-updated entry when full; zero means unbounded.
func NewMemory(capacity int) *Memory {
	return &Memory{
		index: make(map[world.Position]int),
		cap:   capacity,
	}
}

// Record stores o at its current coordinate, replacing any prior entry there.
func (m *Memory) Record(o environment.Object) {
	m.clock++
	e := MemoryEntry{Position: o.Position, Object: o.ID, Kind: o.Kind, updated: m.clock}

	if i, ok := m.index[o.Position]; ok {
		m.entries[i] = e
		return
	}

	if m.cap > 0 && len(m.entries) >= m.cap {
		m.evictStalest()
	}
	m.index[o.Position] = len(m.entries)
	m.entries = append(m.entries, e)
}

// evictStalest drops the least-recently-updated entry.
func (m *Memory) evictStalest() {
	minIdx := 0
	for i := 1; i < len(m.entries); i++ {
		if m.entries[i].updated < m.entries[minIdx].updated {
			minIdx = i
		}
	}
	delete(m.index, m.entries[minIdx].Position)
	m.entries = append(m.entries[:minIdx], m.entries[minIdx+1:]...)
	for i := minIdx; i < len(m.entries); i++ {
		m.index[m.entries[i].Position] = i
	}
}

// Contains reports whether anything is remembered at p.
func (m *Memory) Contains(p world.Position) bool {
	_, ok := m.index[p]
	return ok
}

// Lookup returns the entry at p.
func (m *Memory) Lookup(p world.Position) (MemoryEntry, bool) {
	i, ok := m.index[p]
	if !ok {
		return MemoryEntry{}, false
	}
	return m.entries[i], true
}

// FirstOf returns the earliest-inserted entry whose kind is one of kinds.
func (m *Memory) FirstOf(kinds ...environment.Kind) (MemoryEntry, bool) {
	for _, e := range m.entries {
		for _, k := range kinds {
			if e.Kind == k {
				return e, true
			}
		}
	}
	return MemoryEntry{}, false
}

// Len returns the number of remembered coordinates.
func (m *Memory) Len() int {
	return len(m.entries)
}

// Entries returns a copy of all entries in insertion order.
func (m *Memory) Entries() []MemoryEntry {
	out := make([]MemoryEntry, len(m.entries))
	copy(out, m.entries)
	return out
}

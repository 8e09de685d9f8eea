// Simulation ties the cat, its environment, and run bookkeeping together.
package engine

import (
	"fmt"
	"log/slog"
	"math/rand/v2"
	"slices"
	"strconv"
	"sync"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"

	"github.com/talgya/catsim/internal/agents"
	"github.com/talgya/catsim/internal/entropy"
	"github.com/talgya/catsim/internal/environment"
)

const (
	// maxEvents bounds the in-memory event log.
	maxEvents = 1000
	// maxPending bounds the unsaved sample and event buffers. When nothing
	// flushes them the oldest entries are dropped.
	maxPending = 10000
)

// Event is a notable occurrence during a run.
type Event struct {
	RunID       uuid.UUID `json:"run_id" db:"run_id"`
	Tick        uint64    `json:"tick" db:"tick"`
	Description string    `json:"description" db:"description"`
	Category    string    `json:"category" db:"category"` // "run", "state", "consume", "environment"
}

// Sample is the cat's state at the end of one tick.
type Sample struct {
	RunID      uuid.UUID          `json:"-"`
	Tick       uint64             `json:"tick"`
	X          int                `json:"x"`
	Y          int                `json:"y"`
	State      agents.MentalState `json:"state"`
	Needs      agents.Needs       `json:"needs"`
	Survival   float64            `json:"survival"`
	Perceived  int                `json:"perceived"`
	MemorySize int                `json:"memory_size"`
}

// SimStats tracks aggregate statistics for the current run.
type SimStats struct {
	Ticks        uint64            `json:"ticks"`
	StateTicks   map[string]uint64 `json:"state_ticks"`
	FoodEaten    int               `json:"food_eaten"`
	WaterDrunk   int               `json:"water_drunk"`
	Flights      int               `json:"flights"`
	BlockedMoves int               `json:"blocked_moves"`
	Regrown      int               `json:"regrown"`
	MinSurvival  float64           `json:"min_survival"`
}

// Simulation holds the complete run state. All methods are safe to call
// from an HTTP handler while the engine goroutine ticks.
type Simulation struct {
	mu sync.RWMutex

	params   Params
	baseSeed int64
	runs     int

	runID    uuid.UUID
	runSeed  int64
	rng      *rand.Rand
	agent    *agents.Agent
	registry *environment.Registry

	lastTick uint64
	events   []Event
	stats    SimStats

	// Not yet persisted.
	pendingSamples []Sample
	pendingEvents  []Event
	dropped        int
}

// NewSimulation creates a simulation and generates its first run.
func NewSimulation(p Params, seed int64) *Simulation {
	s := &Simulation{
		params:   p,
		baseSeed: seed,
		agent:    agents.New(p.Grid.Center(), p.Agent),
		registry: environment.NewRegistry(p.Grid),
	}
	s.Reset()
	return s
}

// Reset starts a new run. The first run uses the base seed; later runs
// derive theirs from it so each run can be replayed on its own.
func (s *Simulation) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.runSeed = s.baseSeed
	if s.runs > 0 {
		s.runSeed = entropy.Derive(s.baseSeed, strconv.Itoa(s.runs))
	}
	s.runs++
	s.runID = uuid.New()
	s.rng = entropy.New(s.runSeed)

	p := s.params
	p.Gen.Seed = entropy.Derive(s.runSeed, "placement")
	Reset(s.agent, s.registry, p, s.rng)

	s.lastTick = 0
	s.events = nil
	s.stats = SimStats{
		StateTicks:  make(map[string]uint64, agents.NumStates),
		MinSurvival: s.agent.Survival,
	}

	s.record(Event{Tick: 0, Category: "run", Description: fmt.Sprintf(
		"run %s started (seed %d, %d objects on %s)", s.runID, s.runSeed, s.registry.Len(), p.Grid)})

	slog.Info("run started",
		"run_id", s.runID,
		"seed", s.runSeed,
		"objects", s.registry.Len(),
		"grid", p.Grid.String(),
	)
}

// Tick advances the run by one step. The run keeps its own tick counter,
// which restarts on Reset.
func (s *Simulation) Tick() StepResult {
	s.mu.Lock()
	defer s.mu.Unlock()

	res := Step(s.agent, s.registry, s.params, s.rng)
	s.lastTick++
	s.observe(res)
	return res
}

// observe folds one step into stats, events, and the pending sample buffer.
func (s *Simulation) observe(res StepResult) {
	tick := s.lastTick
	rep := res.Agent
	a := s.agent

	s.stats.Ticks++
	s.stats.StateTicks[rep.State.String()]++
	if !rep.Moved {
		s.stats.BlockedMoves++
	}
	if rep.Decided == agents.Fleeing && rep.Previous != agents.Fleeing {
		s.stats.Flights++
	}
	if a.Survival < s.stats.MinSurvival {
		s.stats.MinSurvival = a.Survival
	}

	if rep.State != rep.Previous {
		slog.Debug("state change", "tick", tick, "from", rep.Previous, "to", rep.State)
		s.record(Event{Tick: tick, Category: "state", Description: fmt.Sprintf(
			"%s → %s at (%d,%d)", rep.Previous, rep.State, a.Position.X, a.Position.Y)})
	}

	for _, o := range rep.Consumed {
		verb := "ate"
		if o.Kind == environment.KindWater {
			verb = "drank"
			s.stats.WaterDrunk++
		} else {
			s.stats.FoodEaten++
		}
		s.record(Event{Tick: tick, Category: "consume", Description: fmt.Sprintf(
			"cat %s %s #%d at (%d,%d)", verb, o.Kind, o.ID, o.Position.X, o.Position.Y)})
	}

	if res.Regrown != nil {
		s.stats.Regrown++
		s.record(Event{Tick: tick, Category: "environment", Description: fmt.Sprintf(
			"%s appeared at (%d,%d)", res.Regrown.Kind, res.Regrown.Position.X, res.Regrown.Position.Y)})
	}

	s.pendingSamples = append(s.pendingSamples, Sample{
		RunID:      s.runID,
		Tick:       tick,
		X:          a.Position.X,
		Y:          a.Position.Y,
		State:      a.State,
		Needs:      a.Needs,
		Survival:   a.Survival,
		Perceived:  len(a.Perceived),
		MemorySize: a.Memory.Len(),
	})
	s.trimPending()
}

func (s *Simulation) record(e Event) {
	e.RunID = s.runID
	s.events = append(s.events, e)
	// Trim old events to prevent unbounded growth.
	if len(s.events) > maxEvents {
		s.events = s.events[len(s.events)-maxEvents:]
	}
	s.pendingEvents = append(s.pendingEvents, e)
}

// trimPending drops the oldest unsaved samples and events beyond maxPending.
func (s *Simulation) trimPending() {
	n := 0
	if over := len(s.pendingSamples) - maxPending; over > 0 {
		s.pendingSamples = slices.Delete(s.pendingSamples, 0, over)
		n += over
	}
	if over := len(s.pendingEvents) - maxPending; over > 0 {
		s.pendingEvents = slices.Delete(s.pendingEvents, 0, over)
		n += over
	}
	if n > 0 {
		if s.dropped == 0 {
			slog.Warn("unsaved buffer full, dropping oldest entries", "limit", maxPending)
		}
		s.dropped += n
	}
}

// Report logs a periodic summary of the run.
func (s *Simulation) Report(tick uint64) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	a := s.agent
	slog.Info("run report",
		"engine_tick", humanize.Comma(int64(tick)),
		"run_tick", humanize.Comma(int64(s.lastTick)),
		"state", a.State,
		"pos", fmt.Sprintf("(%d,%d)", a.Position.X, a.Position.Y),
		"energy", fmt.Sprintf("%.1f", a.Needs.Energy),
		"hunger", fmt.Sprintf("%.1f", a.Needs.Hunger),
		"thirst", fmt.Sprintf("%.1f", a.Needs.Thirst),
		"stress", fmt.Sprintf("%.1f", a.Needs.Stress),
		"comfort", fmt.Sprintf("%.1f", a.Needs.Comfort),
		"survival", fmt.Sprintf("%.1f", a.Survival),
		"memory", a.Memory.Len(),
		"food_eaten", s.stats.FoodEaten,
		"water_drunk", s.stats.WaterDrunk,
		"flights", s.stats.Flights,
	)
}

// RunID returns the identifier of the current run.
func (s *Simulation) RunID() uuid.UUID {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.runID
}

// RunSeed returns the seed of the current run.
func (s *Simulation) RunSeed() int64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.runSeed
}

// Params returns the run parameters.
func (s *Simulation) Params() Params {
	return s.params
}

// CurrentTick returns the number of ticks in the current run.
func (s *Simulation) CurrentTick() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastTick
}

// Agent returns a snapshot of the cat.
func (s *Simulation) Agent() agents.Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.agent.Snapshot(s.registry)
}

// Objects returns the active environment objects.
func (s *Simulation) Objects() []environment.Object {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.registry.Active()
}

// AllObjects returns every object ever spawned in this run, consumed or not.
func (s *Simulation) AllObjects() []environment.Object {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]environment.Object, 0, s.registry.Len())
	s.registry.Each(func(o environment.Object) {
		out = append(out, o)
	})
	return out
}

// Memory returns the cat's memory entries in insertion order.
func (s *Simulation) Memory() []agents.MemoryEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.agent.Memory.Entries()
}

// Events returns up to limit of the most recent events.
func (s *Simulation) Events(limit int) []Event {
	s.mu.RLock()
	defer s.mu.RUnlock()
	start := 0
	if limit > 0 && len(s.events) > limit {
		start = len(s.events) - limit
	}
	out := make([]Event, len(s.events)-start)
	copy(out, s.events[start:])
	return out
}

// Stats returns a copy of the run statistics.
func (s *Simulation) Stats() SimStats {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := s.stats
	out.StateTicks = make(map[string]uint64, len(s.stats.StateTicks))
	for k, v := range s.stats.StateTicks {
		out.StateTicks[k] = v
	}
	return out
}

// Drain returns and clears the samples and events not yet persisted.
func (s *Simulation) Drain() ([]Sample, []Event) {
	s.mu.Lock()
	defer s.mu.Unlock()
	samples, events := s.pendingSamples, s.pendingEvents
	s.pendingSamples, s.pendingEvents = nil, nil
	return samples, events
}

// Requeue puts back samples and events a failed save could not persist,
// ahead of anything buffered since the Drain.
func (s *Simulation) Requeue(samples []Sample, events []Event) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pendingSamples = slices.Concat(samples, s.pendingSamples)
	s.pendingEvents = slices.Concat(events, s.pendingEvents)
	s.trimPending()
}

// Pending returns how many samples and events are waiting to be saved.
func (s *Simulation) Pending() (samples, events int) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.pendingSamples), len(s.pendingEvents)
}

// Dropped returns how many unsaved entries were discarded because the
// buffers were full.
func (s *Simulation) Dropped() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.dropped
}

// Package persistence provides SQLite-based run storage: one row per run,
// the cat's per-tick trajectory, the event log, and the final object layout.
package persistence

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/talgya/catsim/internal/engine"
	"github.com/talgya/catsim/internal/environment"
)

// DB wraps a SQLite connection for run persistence.
type DB struct {
	conn *sqlx.DB
}

// Open opens or creates a SQLite database at the given path.
func Open(path string) (*DB, error) {
	conn, err := sqlx.Open("sqlite", path+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	// SQLite allows a single writer; one connection keeps transactions simple.
	conn.SetMaxOpenConns(1)

	db := &DB{conn: conn}
	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return db, nil
}

// Close closes the database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}

func (db *DB) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS runs (
		id TEXT PRIMARY KEY,
		seed INTEGER NOT NULL,
		grid_size INTEGER NOT NULL,
		started_at TEXT NOT NULL,
		last_tick INTEGER NOT NULL,
		stats_json TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS samples (
		run_id TEXT NOT NULL,
		tick INTEGER NOT NULL,
		x INTEGER NOT NULL,
		y INTEGER NOT NULL,
		state TEXT NOT NULL,
		energy REAL NOT NULL,
		hunger REAL NOT NULL,
		thirst REAL NOT NULL,
		stress REAL NOT NULL,
		comfort REAL NOT NULL,
		survival REAL NOT NULL,
		perceived INTEGER NOT NULL,
		memory_size INTEGER NOT NULL,
		PRIMARY KEY (run_id, tick)
	);

	CREATE TABLE IF NOT EXISTS events (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		run_id TEXT NOT NULL,
		tick INTEGER NOT NULL,
		description TEXT NOT NULL,
		category TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS objects (
		run_id TEXT NOT NULL,
		id INTEGER NOT NULL,
		kind TEXT NOT NULL,
		x INTEGER NOT NULL,
		y INTEGER NOT NULL,
		active INTEGER NOT NULL,
		PRIMARY KEY (run_id, id)
	);

	CREATE TABLE IF NOT EXISTS meta (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_events_run_tick ON events(run_id, tick);
	`
	_, err := db.conn.Exec(schema)
	return err
}

// Run is one row of the runs table.
type Run struct {
	ID        string `db:"id" json:"id"`
	Seed      int64  `db:"seed" json:"seed"`
	GridSize  int    `db:"grid_size" json:"grid_size"`
	StartedAt string `db:"started_at" json:"started_at"`
	LastTick  uint64 `db:"last_tick" json:"last_tick"`
	StatsJSON string `db:"stats_json" json:"-"`
}

// SaveRun inserts or updates the row for the simulation's current run.
func (db *DB) SaveRun(sim *engine.Simulation) error {
	statsJSON, err := json.Marshal(sim.Stats())
	if err != nil {
		return fmt.Errorf("marshal stats: %w", err)
	}
	_, err = db.conn.Exec(`INSERT INTO runs (id, seed, grid_size, started_at, last_tick, stats_json)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET last_tick = excluded.last_tick, stats_json = excluded.stats_json`,
		sim.RunID().String(), sim.RunSeed(), sim.Params().Grid.Size,
		time.Now().UTC().Format(time.RFC3339), sim.CurrentTick(), string(statsJSON),
	)
	return err
}

// SaveSamples appends trajectory samples.
func (db *DB) SaveSamples(samples []engine.Sample) error {
	if len(samples) == 0 {
		return nil
	}

	tx, err := db.conn.Beginx()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.Preparex(`INSERT OR REPLACE INTO samples
		(run_id, tick, x, y, state, energy, hunger, thirst, stress, comfort, survival, perceived, memory_size)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, s := range samples {
		_, err := stmt.Exec(
			s.RunID.String(), s.Tick, s.X, s.Y, s.State.String(),
			s.Needs.Energy, s.Needs.Hunger, s.Needs.Thirst, s.Needs.Stress, s.Needs.Comfort,
			s.Survival, s.Perceived, s.MemorySize,
		)
		if err != nil {
			return fmt.Errorf("insert sample %d: %w", s.Tick, err)
		}
	}

	return tx.Commit()
}

// SaveEvents appends events to the database.
func (db *DB) SaveEvents(events []engine.Event) error {
	if len(events) == 0 {
		return nil
	}

	tx, err := db.conn.Beginx()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, e := range events {
		_, err := tx.Exec(
			"INSERT INTO events (run_id, tick, description, category) VALUES (?, ?, ?, ?)",
			e.RunID.String(), e.Tick, e.Description, e.Category,
		)
		if err != nil {
			return err
		}
	}

	return tx.Commit()
}

// SaveObjects replaces the stored object layout for a run.
func (db *DB) SaveObjects(runID uuid.UUID, objects []environment.Object) error {
	tx, err := db.conn.Beginx()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM objects WHERE run_id = ?", runID.String()); err != nil {
		return err
	}

	for _, o := range objects {
		active := 0
		if o.Active {
			active = 1
		}
		_, err := tx.Exec(
			"INSERT INTO objects (run_id, id, kind, x, y, active) VALUES (?, ?, ?, ?, ?, ?)",
			runID.String(), o.ID, o.Kind.String(), o.Position.X, o.Position.Y, active,
		)
		if err != nil {
			return fmt.Errorf("insert object %d: %w", o.ID, err)
		}
	}

	return tx.Commit()
}

// SaveMeta stores a key-value pair.
func (db *DB) SaveMeta(key, value string) error {
	_, err := db.conn.Exec(
		"INSERT OR REPLACE INTO meta (key, value) VALUES (?, ?)",
		key, value,
	)
	return err
}

// GetMeta retrieves a metadata value.
func (db *DB) GetMeta(key string) (string, error) {
	var value string
	err := db.conn.Get(&value, "SELECT value FROM meta WHERE key = ?", key)
	return value, err
}

// Flush persists everything the simulation has buffered since the last
// flush, plus the current run row and object layout.
func (db *DB) Flush(sim *engine.Simulation) error {
	samples, events := sim.Drain()
	slog.Debug("flushing run state", "samples", len(samples), "events", len(events))

	// Whatever was not committed goes back to the simulation for the next try.
	if err := db.SaveRun(sim); err != nil {
		sim.Requeue(samples, events)
		return fmt.Errorf("save run: %w", err)
	}
	if err := db.SaveSamples(samples); err != nil {
		sim.Requeue(samples, events)
		return fmt.Errorf("save samples: %w", err)
	}
	if err := db.SaveEvents(events); err != nil {
		sim.Requeue(nil, events)
		return fmt.Errorf("save events: %w", err)
	}
	if err := db.SaveObjects(sim.RunID(), sim.AllObjects()); err != nil {
		return fmt.Errorf("save objects: %w", err)
	}
	if err := db.SaveMeta("last_run", sim.RunID().String()); err != nil {
		return fmt.Errorf("save meta: %w", err)
	}
	return nil
}

// Runs returns all stored runs, most recent first.
func (db *DB) Runs() ([]Run, error) {
	var runs []Run
	err := db.conn.Select(&runs,
		"SELECT id, seed, grid_size, started_at, last_tick, stats_json FROM runs ORDER BY started_at DESC, rowid DESC")
	return runs, err
}

// TrajectoryPoint is one stored sample.
type TrajectoryPoint struct {
	Tick       uint64  `db:"tick" json:"tick"`
	X          int     `db:"x" json:"x"`
	Y          int     `db:"y" json:"y"`
	State      string  `db:"state" json:"state"`
	Energy     float64 `db:"energy" json:"energy"`
	Hunger     float64 `db:"hunger" json:"hunger"`
	Thirst     float64 `db:"thirst" json:"thirst"`
	Stress     float64 `db:"stress" json:"stress"`
	Comfort    float64 `db:"comfort" json:"comfort"`
	Survival   float64 `db:"survival" json:"survival"`
	Perceived  int     `db:"perceived" json:"perceived"`
	MemorySize int     `db:"memory_size" json:"memory_size"`
}

// Trajectory returns up to limit of the latest samples of a run, oldest first.
func (db *DB) Trajectory(runID uuid.UUID, limit int) ([]TrajectoryPoint, error) {
	var points []TrajectoryPoint
	err := db.conn.Select(&points, `SELECT * FROM (
		SELECT tick, x, y, state, energy, hunger, thirst, stress, comfort, survival, perceived, memory_size
		FROM samples WHERE run_id = ? ORDER BY tick DESC LIMIT ?
	) ORDER BY tick ASC`, runID.String(), limit)
	return points, err
}

// RecentEvents returns the most recent N events of a run.
func (db *DB) RecentEvents(runID uuid.UUID, limit int) ([]engine.Event, error) {
	var events []engine.Event
	err := db.conn.Select(&events,
		"SELECT run_id, tick, description, category FROM events WHERE run_id = ? ORDER BY id DESC LIMIT ?",
		runID.String(), limit,
	)
	return events, err
}

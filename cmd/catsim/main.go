// Command catsim runs the single-cat grid simulation.
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"syscall"

	"github.com/dustin/go-humanize"

	"github.com/talgya/catsim/internal/api"
	"github.com/talgya/catsim/internal/config"
	"github.com/talgya/catsim/internal/engine"
	"github.com/talgya/catsim/internal/entropy"
	"github.com/talgya/catsim/internal/persistence"
)

func main() {
	opts := NewOptions()
	opts.Bind(flag.CommandLine)
	flag.Parse()

	level := slog.LevelInfo
	if opts.Verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	// ── Configuration ─────────────────────────────────────────────────
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		slog.Error("failed to load config", "path", opts.ConfigPath, "error", err)
		os.Exit(1)
	}
	applyEnv(cfg)

	seed := cfg.Simulation.Seed
	if opts.Seed != 0 {
		seed = opts.Seed
	}
	if seed == 0 {
		client := entropy.NewClient(os.Getenv("RANDOM_ORG_API_KEY"))
		seed = entropy.Seed(client)
		slog.Info("drew run seed", "seed", seed, "random_org", client.Enabled())
	}

	// ── Database ──────────────────────────────────────────────────────
	if dir := filepath.Dir(cfg.Storage.Path); dir != "." {
		os.MkdirAll(dir, 0755)
	}
	db, err := persistence.Open(cfg.Storage.Path)
	if err != nil {
		slog.Error("failed to open database", "error", err)
		os.Exit(1)
	}
	defer db.Close()
	slog.Info("database opened", "path", cfg.Storage.Path)

	// ── Simulation ────────────────────────────────────────────────────
	params := cfg.EngineParams()
	sim := engine.NewSimulation(params, seed)

	eng := engine.NewEngine()
	eng.Interval = cfg.Simulation.Interval
	eng.ReportEvery = cfg.Simulation.ReportEvery
	eng.SaveEvery = cfg.Simulation.SaveEvery

	eng.OnTick = func(uint64) { sim.Tick() }
	eng.OnReport = sim.Report
	eng.OnSave = func(tick uint64) {
		if err := db.Flush(sim); err != nil {
			slog.Error("periodic save failed", "tick", tick, "error", err)
		}
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		slog.Info("received signal, shutting down", "signal", sig)
		eng.Stop()
	}()

	if opts.Ticks > 0 {
		// ── Headless batch run ────────────────────────────────────────
		slog.Info("running headless", "ticks", humanize.Comma(int64(opts.Ticks)))
		eng.RunTicks(opts.Ticks)
	} else {
		// ── HTTP API ──────────────────────────────────────────────────
		if opts.Serve {
			adminKey := os.Getenv("CATSIM_ADMIN_KEY")
			if adminKey == "" {
				slog.Warn("CATSIM_ADMIN_KEY not set, admin POST endpoints will be disabled")
			}
			apiServer := &api.Server{
				Sim:      sim,
				Eng:      eng,
				DB:       db,
				Port:     cfg.API.Port,
				AdminKey: adminKey,
			}
			apiServer.Start()
			fmt.Printf("API: http://localhost:%d/api/v1/status\n", cfg.API.Port)
		}
		fmt.Printf("\nA cat wakes up on a %dx%d grid (seed %d).\n", params.Grid.Size, params.Grid.Size, seed)
		fmt.Println("Starting simulation... (Ctrl+C to stop)")
		eng.Run()
	}

	// Final save on shutdown.
	slog.Info("final save...")
	if err := db.Flush(sim); err != nil {
		slog.Error("final save failed", "error", err)
	}

	printSummary(sim)
}

// applyEnv lets deploy settings come from the environment.
func applyEnv(cfg *config.Config) {
	if path := os.Getenv("CATSIM_DB"); path != "" {
		cfg.Storage.Path = path
	}
	if port := os.Getenv("CATSIM_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			cfg.API.Port = p
		} else {
			slog.Warn("ignoring CATSIM_PORT", "value", port, "error", err)
		}
	}
}

func printSummary(sim *engine.Simulation) {
	stats := sim.Stats()
	a := sim.Agent()

	fmt.Printf("\nRun %s finished after %s ticks.\n", sim.RunID(), humanize.Comma(int64(stats.Ticks)))
	fmt.Printf("  final state  %s at (%d,%d), survival %.1f (lowest %.1f)\n",
		a.State, a.Position.X, a.Position.Y, a.Survival, stats.MinSurvival)
	fmt.Printf("  consumed     %s food, %s water\n",
		humanize.Comma(int64(stats.FoodEaten)), humanize.Comma(int64(stats.WaterDrunk)))
	fmt.Printf("  flights      %s, blocked moves %s, regrowths %s\n",
		humanize.Comma(int64(stats.Flights)), humanize.Comma(int64(stats.BlockedMoves)), humanize.Comma(int64(stats.Regrown)))
	fmt.Printf("  remembered   %s coordinates\n", humanize.Comma(int64(a.MemorySize)))
}

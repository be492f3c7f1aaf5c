// Package main is the entry point for the antsim simulation runner.
//
// Usage:
//
//	antsim run <config.yaml> [diagnostics.db]  — run the simulation, optionally recording per-tick diagnostics
//	antsim validate <config.yaml>              — load and validate a config without running it
//	antsim version                             — print version
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/antsim/antsim/internal/config"
	"github.com/antsim/antsim/internal/observability"
	"github.com/antsim/antsim/internal/plugins"
	"github.com/antsim/antsim/internal/registry"
	"github.com/antsim/antsim/internal/storage"
	"github.com/antsim/antsim/internal/tick"
)

const (
	version = "0.1.0"
	appName = "antsim"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	cmd := os.Args[1]
	switch cmd {
	case "run":
		if len(os.Args) < 3 {
			fmt.Fprintln(os.Stderr, "antsim run: missing config path")
			os.Exit(1)
		}
		diagnosticsPath := ""
		if len(os.Args) > 3 {
			diagnosticsPath = os.Args[3]
		}
		if err := runSimulation(os.Args[2], diagnosticsPath); err != nil {
			fmt.Fprintf(os.Stderr, "antsim: %v\n", err)
			os.Exit(1)
		}
	case "validate":
		if len(os.Args) < 3 {
			fmt.Fprintln(os.Stderr, "antsim validate: missing config path")
			os.Exit(1)
		}
		if err := validateConfig(os.Args[2]); err != nil {
			fmt.Fprintf(os.Stderr, "antsim: %v\n", err)
			os.Exit(1)
		}
		fmt.Println("config OK")
	case "version", "--version", "-v":
		fmt.Printf("%s v%s\n", appName, version)
	case "help", "--help", "-h":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "unknown command: %s\n\n", cmd)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Fprintf(os.Stderr, `%s v%s — tick-driven ant colony simulation engine

Usage:
  %s <command> [args]

Commands:
  run <config.yaml>       Run the simulation for its configured cycle count
  validate <config.yaml>  Load and validate a config without running it
  version                 Print version

`, appName, version, appName)
}

func loadAndValidate(path string) (*config.SimulationConfig, *registry.Registry, tick.Node, error) {
	cfg, err := config.Load(path)
	if err != nil {
		return nil, nil, nil, err
	}

	reg := registry.New()
	if err := plugins.RegisterAll(reg); err != nil {
		return nil, nil, nil, fmt.Errorf("antsim: registering plugins: %w", err)
	}

	root, err := config.Validate(cfg, reg)
	if err != nil {
		return nil, nil, nil, err
	}
	return cfg, reg, root, nil
}

func validateConfig(path string) error {
	_, _, _, err := loadAndValidate(path)
	return err
}

func runSimulation(path, diagnosticsPath string) error {
	log := observability.NewConsoleLogger("antsim", os.Stdout)

	cfg, reg, root, err := loadAndValidate(path)
	if err != nil {
		return err
	}

	env, err := buildEnvironment(cfg)
	if err != nil {
		return err
	}

	var recorder *storage.TickRecorder
	if diagnosticsPath != "" {
		store, err := storage.NewSQLiteStore(diagnosticsPath)
		if err != nil {
			return fmt.Errorf("antsim: opening diagnostics store: %w", err)
		}
		defer store.Close()
		recorder = storage.NewTickRecorder(store)
	}

	metrics := observability.NewMetricsCollector(0)
	engine := tick.New(tick.Config{
		Registry:   reg,
		Log:        observability.NewLogger("tick", os.Stderr),
		Metrics:    metrics,
		WorkerTree: root,
		Lifecycle:  lifecycleConfigFrom(cfg),
	})

	cycles := cfg.Simulation.MaxCycles
	if cycles <= 0 {
		cycles = 1
	}

	ctx := context.Background()
	for i := 0; i < cycles; i++ {
		summary := engine.Tick(ctx, env)
		log.Info("tick",
			"tick_id", summary.TickID,
			"agents", len(summary.Agents),
			"deaths", len(summary.Deaths),
			"births", len(summary.Births),
		)
		if recorder != nil {
			if err := recorder.Record(ctx, summary); err != nil {
				return fmt.Errorf("antsim: recording tick %d: %w", summary.TickID, err)
			}
		}
	}

	durationSummary := metrics.Summarize(observability.MetricTickDuration, time.Time{})
	log.Info("simulation complete",
		"cycles", cycles,
		"agents_remaining", env.Agents.Count(),
		"avg_tick_us", durationSummary.Mean,
		"p95_tick_us", durationSummary.P95,
		"errors", metrics.Counter("errors"),
	)
	for ptype, massSummary := range metrics.SummarizeByLabel(observability.MetricPheromoneMass, "type", time.Time{}) {
		log.Info("pheromone mass summary", "type", ptype, "mean", massSummary.Mean, "max", massSummary.Max)
	}
	return nil
}

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"maps"
	"os"
	"os/signal"
	"slices"
	"text/tabwriter"
	"time"

	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/san-kum/fluidsim/internal/config"
	"github.com/san-kum/fluidsim/internal/metrics"
	"github.com/san-kum/fluidsim/internal/scenario"
	"github.com/san-kum/fluidsim/internal/sim"
	"github.com/san-kum/fluidsim/internal/storage"
	"github.com/san-kum/fluidsim/internal/tui"
)

// resolveConfig layers defaults, preset, config file and flags, in that
// order.
func resolveConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	cfg := config.DefaultConfig()
	name := ""
	if len(args) > 0 {
		name = args[0]
		cfg.Scenario = name
	}

	if preset != "" {
		p := config.GetPreset(cfg.Scenario, preset)
		if p == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets(cfg.Scenario))
		}
		cfg = p
	}

	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
		if name != "" {
			cfg.Scenario = name
		}
	}

	if cmd.Flags().Changed("dt") {
		cfg.Dt = dt
	}
	if cmd.Flags().Changed("steps") {
		cfg.Steps = steps
	}
	if cmd.Flags().Changed("seed") {
		cfg.Seed = seed
	}
	return cfg, cfg.Validate()
}

func runScenario(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd, args)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	registry := scenario.NewRegistry()
	if runs > 1 {
		return runEnsemble(ctx, registry, cfg)
	}

	exp, err := registry.Setup(cfg, slog.Default())
	if err != nil {
		return err
	}

	start := time.Now()
	result, err := exp.Run(ctx)
	if err != nil {
		return err
	}
	elapsed := time.Since(start)

	if jsonOut {
		return storage.ExportJSON(os.Stdout, cfg, result)
	}

	fmt.Printf("completed %s in %v\n", cfg.Scenario, elapsed)
	fmt.Printf("steps: %d  particles: %d  groups: %d\n", result.StepsTaken, result.Particles, result.Groups)

	if save {
		st := storage.New(dataDir)
		if err := st.Init(); err != nil {
			return err
		}
		runID, err := st.Save(cfg, result)
		if err != nil {
			return err
		}
		if err := st.SaveSnapshot(runID, storage.Capture(exp.Scene().System)); err != nil {
			return err
		}
		fmt.Printf("run id: %s\n", runID)
	}

	fmt.Println("\nmetrics:")
	return printMetrics(result.Metrics)
}

func runEnsemble(ctx context.Context, registry *scenario.Registry, cfg *config.Config) error {
	start := time.Now()
	results, err := sim.NewEnsemble(registry.Builder(cfg, slog.Default()), runs, cfg.Seed).Run(ctx, scenario.SimConfig(cfg))
	if err != nil {
		return err
	}

	fmt.Printf("completed %d runs of %s in %v\n\n", len(results), cfg.Scenario, time.Since(start))
	byMetric := make(map[string][]float64)
	for _, r := range results {
		for name, v := range r.Metrics {
			byMetric[name] = append(byMetric[name], v)
		}
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "METRIC\tMEAN\tMAX")
	for _, name := range slices.Sorted(maps.Keys(byMetric)) {
		avg, peak := metrics.Summary(byMetric[name])
		fmt.Fprintf(w, "%s\t%.6f\t%.6f\n", name, avg, peak)
	}
	return w.Flush()
}

func printMetrics(values map[string]float64) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	for _, name := range slices.Sorted(maps.Keys(values)) {
		fmt.Fprintf(w, "  %s\t%.6f\n", name, values[name])
	}
	return w.Flush()
}

func runLive(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd, args)
	if err != nil {
		return err
	}
	if !cmd.Flags().Changed("steps") && configFile == "" {
		cfg.Steps = 1 << 20
	}
	return tui.Run(scenario.NewRegistry(), cfg)
}

func listRuns(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	stored, err := st.List()
	if err != nil {
		return err
	}

	if len(stored) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tSCENARIO\tTIME\tSTEPS\tDT\tPARTICLES\tSEED")

	for _, run := range stored {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%.4fs\t%d\t%d\n",
			shortID(run.ID),
			run.Scenario,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.StepsTaken,
			run.Dt,
			run.Particles,
			run.Seed,
		)
	}

	return w.Flush()
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func showRun(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	runID, err := st.Resolve(args[0])
	if err != nil {
		return err
	}
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}
	series, err := st.LoadSeries(runID)
	if err != nil {
		return err
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("scenario: %s\n", meta.Scenario)
	fmt.Printf("time: %s\n", meta.Timestamp.Format(time.RFC3339))
	fmt.Printf("steps: %d/%d  dt: %.4fs  seed: %d\n", meta.StepsTaken, meta.Steps, meta.Dt, meta.Seed)
	fmt.Printf("particles: %d  groups: %d\n\n", meta.Particles, meta.Groups)

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "METRIC\tFINAL\tMEAN\tMAX")
	for _, name := range series.Names() {
		avg, peak := metrics.Summary(series.Values[name])
		fmt.Fprintf(w, "%s\t%.6f\t%.6f\t%.6f\n", name, meta.Metrics[name], avg, peak)
	}
	return w.Flush()
}

func plotRun(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	runID, err := st.Resolve(args[0])
	if err != nil {
		return err
	}
	series, err := st.LoadSeries(runID)
	if err != nil {
		return err
	}
	if len(series.Times) == 0 {
		return fmt.Errorf("no data to plot")
	}

	names := series.Names()
	if len(args) > 1 {
		if _, ok := series.Values[args[1]]; !ok {
			return fmt.Errorf("unknown metric: %s (available: %v)", args[1], names)
		}
		names = []string{args[1]}
	}

	fmt.Printf("run: %s\n", runID)
	fmt.Printf("samples: %d\n\n", len(series.Times))

	for _, name := range names {
		graph := asciigraph.Plot(series.Values[name],
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption(name),
		)
		fmt.Println(graph)
		fmt.Println()
	}
	return nil
}

func exportRun(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	runID, err := st.Resolve(args[0])
	if err != nil {
		return err
	}
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(meta)
}

func benchScenario(cmd *cobra.Command, args []string) error {
	registry := scenario.NewRegistry()

	fmt.Printf("benchmarking %s\n\n", args[0])
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "RADIUS\tPARTICLES\tSTEPS\tTIME\tSTEPS/SEC")

	for _, radius := range []float64{0.5, 0.35, 0.25} {
		cfg := config.DefaultConfig()
		cfg.Scenario = args[0]
		cfg.Steps = steps
		cfg.Particle.Radius = radius

		sc, err := registry.Build(cfg)
		if err != nil {
			return err
		}

		start := time.Now()
		result, err := sc.Simulator().Run(context.Background(), scenario.SimConfig(cfg))
		if err != nil {
			return err
		}
		elapsed := time.Since(start)

		fmt.Fprintf(w, "%.2f\t%d\t%d\t%v\t%.0f\n",
			radius, result.Particles, result.StepsTaken, elapsed.Round(time.Millisecond),
			float64(result.StepsTaken)/elapsed.Seconds())
	}

	return w.Flush()
}

func listScenarios(cmd *cobra.Command, args []string) error {
	registry := scenario.NewRegistry()
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	for _, name := range registry.ListScenes() {
		desc, err := registry.Describe(name)
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "%s\t%s\n", name, desc)
	}
	return w.Flush()
}

func listPresets(cmd *cobra.Command, args []string) error {
	presets := config.ListPresets(args[0])
	if len(presets) == 0 {
		fmt.Printf("no presets for scenario: %s\n", args[0])
		return nil
	}
	fmt.Printf("presets for %s:\n", args[0])
	for _, p := range presets {
		fmt.Printf("  %s\n", p)
	}
	return nil
}

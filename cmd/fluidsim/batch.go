package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/san-kum/fluidsim/internal/automation"
	"github.com/san-kum/fluidsim/internal/scenario"
	"github.com/san-kum/fluidsim/internal/storage"
)

var (
	sweepParam  string
	sweepMin    float64
	sweepMax    float64
	sweepPoints int
)

func runBatch(cmd *cobra.Command, args []string) error {
	script, err := automation.LoadScript(args[0])
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	fmt.Printf("script: %s (%d steps)\n", script.Name, len(script.Steps))
	results, err := automation.RunScript(ctx, script, scenario.NewRegistry(), slog.Default())

	var st *storage.Store
	if save && len(results) > 0 {
		st = storage.New(dataDir)
		if initErr := st.Init(); initErr != nil {
			return initErr
		}
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tSCENARIO\tSTEPS\tPARTICLES\tKINETIC\tRUN")
	for _, r := range results {
		runID := "-"
		if st != nil {
			id, saveErr := st.Save(r.Config, r.Result)
			if saveErr != nil {
				return saveErr
			}
			runID = shortID(id)
		}
		fmt.Fprintf(w, "%s\t%s\t%d\t%d\t%.6f\t%s\n",
			r.Name, r.Config.Scenario, r.Result.StepsTaken, r.Result.Particles,
			r.Result.Metrics["kinetic_energy"], runID)
	}
	if flushErr := w.Flush(); flushErr != nil {
		return flushErr
	}
	return err
}

func runSweep(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd, args)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	results, err := automation.RunSweep(ctx, &automation.Sweep{
		Base:   cfg,
		Param:  sweepParam,
		Min:    sweepMin,
		Max:    sweepMax,
		Points: sweepPoints,
	}, scenario.NewRegistry(), slog.Default())
	if err != nil {
		return fmt.Errorf("%w (params: %v)", err, automation.ListParams())
	}

	fmt.Printf("sweep %s over %s\n\n", sweepParam, cfg.Scenario)
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "VALUE\tSTABLE\tPARTICLES\tKINETIC\tMOMENTUM\tSTABILITY")
	for _, r := range results {
		fmt.Fprintf(w, "%.4f\t%v\t%d\t%.6f\t%.6f\t%.4f\n",
			r.Value, r.Stable, r.Particles,
			r.Metrics["kinetic_energy"], r.Metrics["momentum"], r.Metrics["stability"])
	}
	if err := w.Flush(); err != nil {
		return err
	}

	stable, unstable := automation.StableCount(results)
	fmt.Printf("\nstable: %d  diverged: %d\n", stable, unstable)
	return nil
}

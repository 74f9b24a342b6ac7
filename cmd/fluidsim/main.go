package main

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"
)

var (
	dataDir    string
	verbose    bool
	dt         float64
	steps      int
	seed       int64
	configFile string
	preset     string
	save       bool
	jsonOut    bool
	runs       int
)

// main registers the fluidsim commands and exits with status 1 when the
// selected command fails.
func main() {
	rootCmd := &cobra.Command{
		Use:           "fluidsim",
		Short:         "particle fluid simulation lab",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := slog.LevelInfo
			if verbose {
				level = slog.LevelDebug
			}
			slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
		},
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".fluidsim", "data directory")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")

	runCmd := &cobra.Command{
		Use:   "run [scenario]",
		Short: "run a scenario headless",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runScenario,
	}
	addConfigFlags(runCmd)
	runCmd.Flags().BoolVar(&save, "save", false, "store the run and a final snapshot")
	runCmd.Flags().BoolVar(&jsonOut, "json", false, "print the run as json")
	runCmd.Flags().IntVar(&runs, "runs", 1, "ensemble size, seeds increase from --seed")

	liveCmd := &cobra.Command{
		Use:   "live [scenario]",
		Short: "run a scenario with live terminal view",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runLive,
	}
	addConfigFlags(liveCmd)

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list stored runs",
		RunE:  listRuns,
	}

	showCmd := &cobra.Command{
		Use:   "show [run_id]",
		Short: "show run metadata and metric summaries",
		Args:  cobra.ExactArgs(1),
		RunE:  showRun,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id] [metric]",
		Short: "plot stored metric series",
		Args:  cobra.RangeArgs(1, 2),
		RunE:  plotRun,
	}

	exportCmd := &cobra.Command{
		Use:   "export [run_id]",
		Short: "export run metadata as json",
		Args:  cobra.ExactArgs(1),
		RunE:  exportRun,
	}

	benchCmd := &cobra.Command{
		Use:   "bench [scenario]",
		Short: "measure solver throughput",
		Args:  cobra.ExactArgs(1),
		RunE:  benchScenario,
	}
	benchCmd.Flags().IntVar(&steps, "steps", 120, "steps per measurement")

	scenariosCmd := &cobra.Command{
		Use:   "scenarios",
		Short: "list available scenarios",
		RunE:  listScenarios,
	}

	presetsCmd := &cobra.Command{
		Use:   "presets [scenario]",
		Short: "list available presets for a scenario",
		Args:  cobra.ExactArgs(1),
		RunE:  listPresets,
	}

	batchCmd := &cobra.Command{
		Use:   "batch [script.yaml]",
		Short: "run a yaml script of scenarios",
		Args:  cobra.ExactArgs(1),
		RunE:  runBatch,
	}
	batchCmd.Flags().BoolVar(&save, "save", false, "store every finished run")

	sweepCmd := &cobra.Command{
		Use:   "sweep [scenario]",
		Short: "sweep one particle or world parameter",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runSweep,
	}
	addConfigFlags(sweepCmd)
	sweepCmd.Flags().StringVar(&sweepParam, "param", "viscous_strength", "parameter to vary")
	sweepCmd.Flags().Float64Var(&sweepMin, "min", 0, "first value")
	sweepCmd.Flags().Float64Var(&sweepMax, "max", 1, "last value")
	sweepCmd.Flags().IntVar(&sweepPoints, "points", 5, "number of values")

	rootCmd.AddCommand(runCmd, liveCmd, listCmd, showCmd, plotCmd, exportCmd, benchCmd, batchCmd, sweepCmd, scenariosCmd, presetsCmd)

	if err := rootCmd.Execute(); err != nil {
		slog.Error("command failed", "err", err)
		os.Exit(1)
	}
}

func addConfigFlags(cmd *cobra.Command) {
	cmd.Flags().Float64Var(&dt, "dt", 0, "timestep (default from config)")
	cmd.Flags().IntVar(&steps, "steps", 0, "number of steps (default from config)")
	cmd.Flags().Int64Var(&seed, "seed", 0, "random seed")
	cmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	cmd.Flags().StringVar(&preset, "preset", "", "use preset configuration")
}

package main

import (
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/san-kum/cablesim/internal/logging"
)

var (
	dataDir    string
	verbose    bool
	configFile string
	dt         float64
	steps      int
	parallel   bool
	save       bool
	numRuns    int
	jitter     float64
	seed       uint64
	axis       int
	slackBound float64
	tagsFlag   []string
	forcesCSV  bool
	sweepParam string
	sweepMin   float64
	sweepMax   float64
	sweepN     int
	gridAxes   []string
	objective  string
	svgOut     string
	svgWidth   int
	svgHeight  int

	logger = zap.NewNop()
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:          "cablesim",
		Short:        "cable-driven point mass simulator",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			l, err := logging.NewLogger("cablesim", verbose)
			if err != nil {
				return err
			}
			logger = l
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			_ = logger.Sync()
		},
	}
	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".cablesim", "data directory")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")

	runCmd := &cobra.Command{
		Use:   "run [preset]",
		Short: "run an experiment and save its histories",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runExperiment,
	}
	addExperimentFlags(runCmd)
	runCmd.Flags().BoolVar(&save, "save", true, "save the run to the data directory")

	liveCmd := &cobra.Command{
		Use:   "live [preset]",
		Short: "run an experiment with live visualization",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runLive,
	}
	addExperimentFlags(liveCmd)

	ensembleCmd := &cobra.Command{
		Use:   "ensemble [preset]",
		Short: "run perturbed copies of an experiment concurrently",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runEnsemble,
	}
	addExperimentFlags(ensembleCmd)
	ensembleCmd.Flags().IntVar(&numRuns, "runs", 8, "number of runs")
	ensembleCmd.Flags().Float64Var(&jitter, "jitter", 0.05, "initial condition perturbation")
	ensembleCmd.Flags().Uint64Var(&seed, "seed", 1, "random seed")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list saved runs",
		Args:  cobra.NoArgs,
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot the state history of a run",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}

	forcesCmd := &cobra.Command{
		Use:   "forces [run_id]",
		Short: "plot the cable forces of a run",
		Args:  cobra.ExactArgs(1),
		RunE:  plotForces,
	}
	forcesCmd.Flags().StringSliceVar(&tagsFlag, "tags", nil, "cables to plot (default all)")

	slackCmd := &cobra.Command{
		Use:   "slack [run_id]",
		Short: "report when each cable was slack",
		Args:  cobra.ExactArgs(1),
		RunE:  reportSlack,
	}
	slackCmd.Flags().Float64Var(&slackBound, "bound", 0, "slack force bound (default: the run's slack_threshold)")

	phaseCmd := &cobra.Command{
		Use:   "phase [run_id]",
		Short: "position against velocity along one axis",
		Args:  cobra.ExactArgs(1),
		RunE:  phasePlot,
	}
	phaseCmd.Flags().IntVar(&axis, "axis", 0, "spatial axis")

	lyapunovCmd := &cobra.Command{
		Use:   "lyapunov [run_id]",
		Short: "closed-loop energy candidate along a run",
		Args:  cobra.ExactArgs(1),
		RunE:  lyapunovRun,
	}

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [run_id]",
		Short: "write the states of a run as CSV",
		Args:  cobra.ExactArgs(1),
		RunE:  exportCSV,
	}
	exportCSVCmd.Flags().BoolVar(&forcesCSV, "forces", false, "write the force history instead")

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "write a run as JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportJSON,
	}

	exportSVGCmd := &cobra.Command{
		Use:   "export-svg [run_id]",
		Short: "draw a run's trajectory and cables as SVG",
		Args:  cobra.ExactArgs(1),
		RunE:  exportSVG,
	}
	exportSVGCmd.Flags().StringVarP(&svgOut, "out", "o", "", "output file (default stdout)")
	exportSVGCmd.Flags().IntVar(&svgWidth, "width", 800, "image width")
	exportSVGCmd.Flags().IntVar(&svgHeight, "height", 600, "image height")

	presetsCmd := &cobra.Command{
		Use:   "presets [name]",
		Short: "list presets, or print one as YAML",
		Args:  cobra.MaximumNArgs(1),
		RunE:  showPresets,
	}

	batchCmd := &cobra.Command{
		Use:   "batch [scenario]",
		Short: "run and save every experiment of a scenario file",
		Args:  cobra.ExactArgs(1),
		RunE:  runBatch,
	}

	sweepCmd := &cobra.Command{
		Use:   "sweep [preset]",
		Short: "vary one parameter over a range",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runSweep,
	}
	addExperimentFlags(sweepCmd)
	sweepCmd.Flags().StringVar(&sweepParam, "param", "", "parameter path, e.g. A.kappa or body.mass")
	sweepCmd.Flags().Float64Var(&sweepMin, "min", 0, "first value")
	sweepCmd.Flags().Float64Var(&sweepMax, "max", 1, "last value")
	sweepCmd.Flags().IntVar(&sweepN, "points", 5, "number of values")
	_ = sweepCmd.MarkFlagRequired("param")

	tuneCmd := &cobra.Command{
		Use:   "tune [preset]",
		Short: "grid search parameters for the lowest objective",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runTune,
	}
	addExperimentFlags(tuneCmd)
	tuneCmd.Flags().StringArrayVar(&gridAxes, "grid", nil, "axis as name=v1,v2,... (repeatable)")
	tuneCmd.Flags().StringVar(&objective, "objective", "target", "\"target\" or a metric name")
	_ = tuneCmd.MarkFlagRequired("grid")

	rootCmd.AddCommand(runCmd, liveCmd, ensembleCmd, listCmd, plotCmd, forcesCmd,
		slackCmd, phaseCmd, lyapunovCmd, exportCSVCmd, exportJSONCmd, exportSVGCmd,
		presetsCmd, batchCmd, sweepCmd, tuneCmd)
	return rootCmd
}

func addExperimentFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&configFile, "config", "", "experiment file (yaml)")
	cmd.Flags().Float64Var(&dt, "dt", 0, "override the timestep")
	cmd.Flags().IntVar(&steps, "steps", 0, "override the number of steps")
	cmd.Flags().BoolVar(&parallel, "parallel", false, "evaluate cables concurrently")
}

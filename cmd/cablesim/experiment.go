package main

import (
	"context"
	"fmt"
	"io"
	"math/rand/v2"
	"sort"
	"strings"
	"text/tabwriter"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gonum.org/v1/gonum/stat"

	"github.com/san-kum/cablesim/internal/analysis"
	"github.com/san-kum/cablesim/internal/config"
	"github.com/san-kum/cablesim/internal/dynamo"
	"github.com/san-kum/cablesim/internal/metrics"
	"github.com/san-kum/cablesim/internal/sim"
	"github.com/san-kum/cablesim/internal/storage"
	"github.com/san-kum/cablesim/internal/viz"
)

// stabilityRadius is the distance from the target that counts as settled.
const stabilityRadius = 0.05

// loadExperiment resolves the preset or --config file and applies the
// command line overrides.
func loadExperiment(cmd *cobra.Command, args []string) (*config.Config, error) {
	var cfg *config.Config
	switch {
	case configFile != "":
		c, err := config.Load(configFile)
		if err != nil {
			return nil, errors.Wrapf(err, "load %s", configFile)
		}
		cfg = c
	case len(args) == 1:
		cfg = config.GetPreset(args[0])
		if cfg == nil {
			return nil, errors.Errorf("unknown preset %q (available: %s)", args[0], strings.Join(config.ListPresets(), ", "))
		}
	default:
		return nil, errors.Errorf("need a preset or --config (presets: %s)", strings.Join(config.ListPresets(), ", "))
	}

	if cmd.Flags().Changed("dt") {
		cfg.Dt = dt
	}
	if cmd.Flags().Changed("steps") {
		cfg.Steps = steps
	}
	if cmd.Flags().Changed("parallel") {
		cfg.Parallel = parallel
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// newSimulator builds a fresh simulator for cfg with the standard metrics.
func newSimulator(cfg *config.Config, opts ...sim.Option) (*sim.Simulator, error) {
	exp, err := cfg.Build()
	if err != nil {
		return nil, err
	}
	s, err := exp.Simulator(opts...)
	if err != nil {
		return nil, err
	}

	s.AddMetric(metrics.NewControlEffort())
	s.AddMetric(metrics.NewSlackFraction(cfg.SlackThreshold))
	s.AddMetric(metrics.NewMinTension())
	s.AddMetric(metrics.NewPeakTension())
	s.AddMetric(metrics.NewEnergy(s.Body()))
	s.AddMetric(metrics.NewEnergyDrift(s.Body()))
	if len(cfg.Target) > 0 {
		center, err := dynamo.NewVec(cfg.Target...)
		if err != nil {
			return nil, errors.Wrap(err, "target")
		}
		s.AddMetric(metrics.NewStability(center, stabilityRadius))
	}
	return s, nil
}

func runExperiment(cmd *cobra.Command, args []string) error {
	cfg, err := loadExperiment(cmd, args)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()

	s, err := newSimulator(cfg, sim.WithLogger(logger))
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "running %s...\n", cfg)
	start := time.Now()
	result, err := s.Run(cmd.Context())
	if err != nil {
		return err
	}
	elapsed := time.Since(start)

	fmt.Fprintf(out, "completed in %v\n", elapsed)
	if save {
		st := storage.New(dataDir)
		runID, err := st.Save(cfg, result)
		if err != nil {
			return err
		}
		logger.Debug("run saved", zap.String("id", runID), zap.String("data", dataDir))
		fmt.Fprintf(out, "run id: %s\n", runID)
	}
	fmt.Fprintf(out, "steps: %d\n", len(result.Forces))
	return printSummary(out, cfg, result)
}

// printSummary reports the final state, the target and box checks and the
// metrics of a completed run.
func printSummary(out io.Writer, cfg *config.Config, result *sim.Result) error {
	pos, vel, err := result.Final().Split(result.Dim)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "final position: %v\n", pos)
	fmt.Fprintf(out, "final velocity: %v\n", vel)

	if len(cfg.Target) > 0 {
		target, err := dynamo.NewVec(cfg.Target...)
		if err != nil {
			return err
		}
		errs, err := analysis.EquilibriumError(result.States, target)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "distance to target %v: %.6g\n", target, errs[len(errs)-1])
	}
	if cfg.Bounds != nil {
		step, err := analysis.ExitedBox(result.States, result.Dim, cfg.Bounds.Lo, cfg.Bounds.Hi)
		if err != nil {
			return err
		}
		if step < 0 {
			fmt.Fprintf(out, "stayed inside [%g, %g]\n", cfg.Bounds.Lo, cfg.Bounds.Hi)
		} else {
			fmt.Fprintf(out, "left [%g, %g] at step %d\n", cfg.Bounds.Lo, cfg.Bounds.Hi, step)
		}
	}

	counts := analysis.SlackCounts(result.Forces, result.Tags, cfg.SlackThreshold)
	for _, tag := range result.Tags {
		if counts[tag] > 0 {
			fmt.Fprintf(out, "cable %s slack for %d steps\n", tag, counts[tag])
		}
	}

	names := make([]string, 0, len(result.Metrics))
	for name := range result.Metrics {
		names = append(names, name)
	}
	sort.Strings(names)
	fmt.Fprintln(out, "\nmetrics:")
	for _, name := range names {
		fmt.Fprintf(out, "  %s: %.6f\n", name, result.Metrics[name])
	}
	return nil
}

func runLive(cmd *cobra.Command, args []string) error {
	cfg, err := loadExperiment(cmd, args)
	if err != nil {
		return err
	}

	m, err := viz.NewModel(cfg)
	if err != nil {
		return err
	}

	final, err := tea.NewProgram(m, tea.WithAltScreen()).Run()
	if err != nil {
		return err
	}
	if fm, ok := final.(viz.Model); ok && fm.Err() != nil {
		return fm.Err()
	}
	return nil
}

func runEnsemble(cmd *cobra.Command, args []string) error {
	base, err := loadExperiment(cmd, args)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()

	configs := make([]*config.Config, numRuns)
	for i := range configs {
		rng := rand.New(rand.NewPCG(seed, uint64(i)))
		configs[i] = base.Perturb(rng, jitter)
	}

	ens := sim.NewEnsemble(func(i int) (*sim.Simulator, error) {
		return newSimulator(configs[i], sim.WithLogger(logger.With(zap.Int("run", i))))
	}, numRuns)

	start := time.Now()
	results, err := ens.Run(context.Background())
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "%d runs of %s in %v\n\n", numRuns, base.Name, time.Since(start))

	var target dynamo.Vec
	hasTarget := len(base.Target) > 0
	if hasTarget {
		if target, err = dynamo.NewVec(base.Target...); err != nil {
			return err
		}
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "RUN\tFINAL POSITION\tTARGET ERROR\tSLACK STEPS\tEXITED")
	finalErrs := make([]float64, 0, len(results))
	for i, r := range results {
		pos, _, err := r.Final().Split(r.Dim)
		if err != nil {
			return err
		}
		errCol := "-"
		if hasTarget {
			e := pos.Sub(target).Norm()
			finalErrs = append(finalErrs, e)
			errCol = fmt.Sprintf("%.4g", e)
		}
		slackSteps := 0
		for _, n := range analysis.SlackCounts(r.Forces, r.Tags, base.SlackThreshold) {
			slackSteps += n
		}
		exited := "-"
		if base.Bounds != nil {
			step, err := analysis.ExitedBox(r.States, r.Dim, base.Bounds.Lo, base.Bounds.Hi)
			if err != nil {
				return err
			}
			exited = "no"
			if step >= 0 {
				exited = fmt.Sprintf("step %d", step)
			}
		}
		fmt.Fprintf(w, "%d\t%v\t%s\t%d\t%s\n", i, pos, errCol, slackSteps, exited)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	if len(finalErrs) > 0 {
		mean, std := stat.MeanStdDev(finalErrs, nil)
		fmt.Fprintf(out, "\ntarget error: mean %.4g, std %.4g\n", mean, std)
	}
	fmt.Fprintln(out)
	fmt.Fprintln(out, viz.PlotEnsemble(results, 0))
	return nil
}

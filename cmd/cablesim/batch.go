package main

import (
	"fmt"
	"math"
	"text/tabwriter"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/san-kum/cablesim/internal/automation"
	"github.com/san-kum/cablesim/internal/config"
	"github.com/san-kum/cablesim/internal/optim"
	"github.com/san-kum/cablesim/internal/sim"
	"github.com/san-kum/cablesim/internal/storage"
)

// builder attaches the standard metrics and the command logger.
func builder(cfg *config.Config) (*sim.Simulator, error) {
	return newSimulator(cfg, sim.WithLogger(logger))
}

func runBatch(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	scenario, err := automation.LoadScenario(args[0])
	if err != nil {
		return err
	}

	results, err := automation.RunScenario(cmd.Context(), scenario, builder, storage.New(dataDir), logger)
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "scenario %s: %d runs\n\n", scenario.Name, len(results))
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "RUN ID\tEXPERIMENT\tSTEPS\tFINAL POSITION")
	for _, r := range results {
		pos, _, err := r.Result.Final().Split(r.Result.Dim)
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "%s\t%s\t%d\t%v\n", r.RunID, r.Name, len(r.Result.Forces), pos)
	}
	return w.Flush()
}

func runSweep(cmd *cobra.Command, args []string) error {
	base, err := loadExperiment(cmd, args)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()

	sweep := automation.Sweep{Param: sweepParam, Min: sweepMin, Max: sweepMax, Points: sweepN}
	results, err := automation.RunSweep(cmd.Context(), base, sweep, builder, logger)
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "sweep %s over [%g, %g] on %s\n\n", sweepParam, sweepMin, sweepMax, base.Name)
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "%s\tFINAL POSITION\tTARGET ERROR\tSLACK STEPS\tEXITED\n", sweepParam)
	for _, r := range results {
		if r.Err != nil {
			fmt.Fprintf(w, "%g\tfailed: %v\t\t\t\n", r.Value, r.Err)
			continue
		}
		targetCol := "-"
		if !math.IsNaN(r.TargetError) {
			targetCol = fmt.Sprintf("%.4g", r.TargetError)
		}
		exited := "no"
		if r.ExitedAt >= 0 {
			exited = fmt.Sprintf("step %d", r.ExitedAt)
		}
		fmt.Fprintf(w, "%g\t%v\t%s\t%d\t%s\n", r.Value, r.Final, targetCol, r.SlackSteps, exited)
	}
	return w.Flush()
}

func runTune(cmd *cobra.Command, args []string) error {
	base, err := loadExperiment(cmd, args)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()

	names := make([]string, 0, len(gridAxes))
	ranges := make([][]float64, 0, len(gridAxes))
	for _, arg := range gridAxes {
		name, values, err := optim.ParseAxis(arg)
		if err != nil {
			return err
		}
		names = append(names, name)
		ranges = append(ranges, values)
	}
	search, err := optim.NewGridSearch(names, ranges)
	if err != nil {
		return err
	}
	search.SetLogger(logger)

	obj := optim.TargetError
	if objective != "target" {
		obj = optim.Metric(objective)
	}

	fmt.Fprintf(out, "searching %d points of %s for the lowest %s\n", search.Size(), base.Name, objective)
	outcome, err := search.Search(cmd.Context(), base, builder, obj)
	if err != nil {
		return err
	}
	if outcome.Best == nil {
		return errors.Errorf("all %d candidates failed", outcome.Failed)
	}

	fmt.Fprintf(out, "best: %s\n", optim.FormatParams(outcome.Best.Params))
	fmt.Fprintf(out, "%s: %.6g\n", objective, outcome.Best.Value)
	if outcome.Failed > 0 {
		fmt.Fprintf(out, "failed candidates: %d\n", outcome.Failed)
	}
	return nil
}

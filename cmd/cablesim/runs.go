package main

import (
	"fmt"
	"io"
	"os"
	"slices"
	"strings"
	"text/tabwriter"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/san-kum/cablesim/internal/analysis"
	"github.com/san-kum/cablesim/internal/config"
	"github.com/san-kum/cablesim/internal/dynamo"
	"github.com/san-kum/cablesim/internal/export"
	"github.com/san-kum/cablesim/internal/storage"
	"github.com/san-kum/cablesim/internal/viz"
)

const maxPlots = 6

func listRuns(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	st := storage.New(dataDir)
	runs, err := st.List()
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Fprintln(out, "no runs found")
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tMODEL\tTIME\tDIM\tSTEPS\tDT\tCABLES")
	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%dD\t%d\t%.4fs\t%s\n",
			run.ID,
			run.Name,
			run.Model,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Dim,
			run.Steps,
			run.Dt,
			strings.Join(run.Tags, ","),
		)
	}
	return w.Flush()
}

func plotRun(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	meta, result, err := storage.New(dataDir).LoadResult(args[0])
	if err != nil {
		return err
	}
	if len(result.States) == 0 {
		return errors.New("no data to plot")
	}

	fmt.Fprintf(out, "run: %s\n", meta.ID)
	fmt.Fprintf(out, "model: %s\n", meta.Model)
	fmt.Fprintf(out, "samples: %d\n\n", len(result.States))

	n := min(len(result.States[0]), maxPlots)
	for i := 0; i < n; i++ {
		fmt.Fprintln(out, viz.PlotCoordinate(result, i))
		fmt.Fprintln(out)
	}
	return nil
}

func plotForces(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	meta, result, err := storage.New(dataDir).LoadResult(args[0])
	if err != nil {
		return err
	}
	for _, tag := range tagsFlag {
		if !slices.Contains(result.Tags, tag) {
			return errors.Wrapf(dynamo.ErrUnknownTag, "run %s has no cable %q", meta.ID, tag)
		}
	}
	if len(result.Forces) == 0 {
		return errors.New("no data to plot")
	}

	fmt.Fprintf(out, "run: %s\n\n", meta.ID)
	fmt.Fprintln(out, viz.PlotForces(result, tagsFlag))
	return nil
}

func reportSlack(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	st := storage.New(dataDir)
	runID := args[0]

	bound := slackBound
	if !cmd.Flags().Changed("bound") {
		bound = config.DefaultSlackThreshold
		if cfg, err := st.LoadConfig(runID); err == nil {
			bound = cfg.SlackThreshold
		}
	}

	forces, tags, err := st.LoadForces(runID)
	if err != nil {
		return err
	}
	intervals := analysis.SlackIntervals(forces, tags, bound)
	counts := analysis.SlackCounts(forces, tags, bound)

	fmt.Fprintf(out, "run: %s (bound %g)\n\n", runID, bound)
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "CABLE\tSLACK STEPS\tINTERVALS")
	for _, tag := range tags {
		parts := make([]string, len(intervals[tag]))
		for i, iv := range intervals[tag] {
			parts[i] = iv.String()
		}
		list := strings.Join(parts, " ")
		if list == "" {
			list = "-"
		}
		fmt.Fprintf(w, "%s\t%d\t%s\n", tag, counts[tag], list)
	}
	return w.Flush()
}

func phasePlot(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	meta, result, err := storage.New(dataDir).LoadResult(args[0])
	if err != nil {
		return err
	}

	portrait, err := analysis.PhasePortrait(result, axis)
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "phase portrait: %s\n", meta.ID)
	fmt.Fprintf(out, "x-axis: %s, y-axis: %s\n\n",
		viz.CoordinateLabel(meta.Dim, axis), viz.CoordinateLabel(meta.Dim, meta.Dim+axis))
	fmt.Fprintln(out, analysis.PhasePortraitToASCII(portrait, 70, 24))
	return nil
}

// lyapunovRun rebuilds the experiment of a saved run and evaluates the
// closed-loop energy candidate along its states.
func lyapunovRun(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	st := storage.New(dataDir)
	runID := args[0]

	cfg, err := st.LoadConfig(runID)
	if err != nil {
		return err
	}
	exp, err := cfg.Build()
	if err != nil {
		return err
	}
	states, _, err := st.LoadStates(runID)
	if err != nil {
		return err
	}

	v, err := analysis.LyapunovHistory(states, exp.Body, exp.Cables, exp.Controllers)
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "run: %s\n\n", runID)
	fmt.Fprintln(out, viz.PlotSeries(v, "closed-loop energy candidate"))
	ups := analysis.Increases(v, 1e-9)
	fmt.Fprintf(out, "\nincreasing steps: %d of %d\n", len(ups), max(len(v)-1, 0))
	return nil
}

func exportCSV(cmd *cobra.Command, args []string) error {
	_, result, err := storage.New(dataDir).LoadResult(args[0])
	if err != nil {
		return err
	}
	if forcesCSV {
		return storage.WriteForcesCSV(cmd.OutOrStdout(), result)
	}
	return storage.WriteStatesCSV(cmd.OutOrStdout(), result)
}

func exportJSON(cmd *cobra.Command, args []string) error {
	meta, result, err := storage.New(dataDir).LoadResult(args[0])
	if err != nil {
		return err
	}
	return storage.ExportJSON(cmd.OutOrStdout(), meta, result)
}

func exportSVG(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	runID := args[0]

	cfg, err := st.LoadConfig(runID)
	if err != nil {
		return err
	}
	exp, err := cfg.Build()
	if err != nil {
		return err
	}
	_, result, err := st.LoadResult(runID)
	if err != nil {
		return err
	}
	anchors := make(map[string]dynamo.Vec, len(exp.Cables))
	for tag, c := range exp.Cables {
		anchors[tag] = c.Anchor()
	}

	var w io.Writer = cmd.OutOrStdout()
	if svgOut != "" {
		f, err := os.Create(svgOut)
		if err != nil {
			return errors.Wrap(err, "create svg file")
		}
		defer f.Close()
		w = f
	}
	opts := export.SVGOptions{Width: svgWidth, Height: svgHeight, SlackBound: cfg.SlackThreshold}
	if err := export.TrajectorySVG(w, result, anchors, opts); err != nil {
		return err
	}
	logger.Debug("svg written", zap.String("run", runID), zap.String("file", svgOut))
	return nil
}

func showPresets(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	if len(args) == 1 {
		cfg := config.GetPreset(args[0])
		if cfg == nil {
			return errors.Errorf("unknown preset %q (available: %s)", args[0], strings.Join(config.ListPresets(), ", "))
		}
		data, err := config.Marshal(cfg)
		if err != nil {
			return err
		}
		_, err = out.Write(data)
		return err
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tMODEL\tDIM\tCABLES\tSTEPS\tDT")
	for _, name := range config.ListPresets() {
		cfg := config.GetPreset(name)
		fmt.Fprintf(w, "%s\t%s\t%dD\t%s\t%d\t%g\n",
			name,
			cfg.Body.Model,
			len(cfg.Body.InitialPos),
			strings.Join(cfg.Tags(), ","),
			cfg.Steps,
			cfg.Dt,
		)
	}
	return w.Flush()
}

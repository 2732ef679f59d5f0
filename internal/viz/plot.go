package viz

import (
	"fmt"
	"strings"

	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/cablesim/internal/sim"
)

const (
	PlotHeight = 10
	PlotWidth  = 80
)

var seriesColors = []asciigraph.AnsiColor{
	asciigraph.Red,
	asciigraph.Green,
	asciigraph.Blue,
	asciigraph.Yellow,
	asciigraph.Cyan,
	asciigraph.Magenta,
	asciigraph.Orange,
	asciigraph.White,
}

var axisNames = []string{"x", "y", "z"}

// CoordinateLabel names state component i of a body with dim positions,
// e.g. "pos x" or "vel z".
func CoordinateLabel(dim, i int) string {
	kind := "pos"
	if i >= dim {
		kind, i = "vel", i-dim
	}
	if i < len(axisNames) {
		return kind + " " + axisNames[i]
	}
	return fmt.Sprintf("%s %d", kind, i)
}

func colorsFor(n int) []asciigraph.AnsiColor {
	out := make([]asciigraph.AnsiColor, n)
	for i := range out {
		out[i] = seriesColors[i%len(seriesColors)]
	}
	return out
}

// PlotSeries draws one series, or returns "" when there is nothing to
// draw.
func PlotSeries(data []float64, caption string) string {
	if len(data) == 0 {
		return ""
	}
	return asciigraph.Plot(data,
		asciigraph.Height(PlotHeight),
		asciigraph.Width(PlotWidth),
		asciigraph.Caption(caption),
	)
}

// PlotCoordinate draws state component i over the run.
func PlotCoordinate(result *sim.Result, i int) string {
	label := CoordinateLabel(int(result.Dim), i)
	return PlotSeries(result.Coordinate(i), label+" over time")
}

// PlotForces overlays the scalar force of each tag. An empty tags list
// plots every cable.
func PlotForces(result *sim.Result, tags []string) string {
	if len(tags) == 0 {
		tags = result.Tags
	}
	if len(tags) == 0 || len(result.Forces) == 0 {
		return ""
	}
	series := make([][]float64, len(tags))
	for i, tag := range tags {
		series[i] = result.ForceSeries(tag)
	}
	return asciigraph.PlotMany(series,
		asciigraph.Height(PlotHeight),
		asciigraph.Width(PlotWidth),
		asciigraph.SeriesColors(colorsFor(len(tags))...),
		asciigraph.Caption("cable force: "+strings.Join(tags, ", ")),
	)
}

// PlotEnsemble overlays state component i of every run.
func PlotEnsemble(results []*sim.Result, i int) string {
	if len(results) == 0 {
		return ""
	}
	series := make([][]float64, len(results))
	for j, r := range results {
		series[j] = r.Coordinate(i)
	}
	label := CoordinateLabel(int(results[0].Dim), i)
	return asciigraph.PlotMany(series,
		asciigraph.Height(PlotHeight),
		asciigraph.Width(PlotWidth),
		asciigraph.SeriesColors(colorsFor(len(series))...),
		asciigraph.Caption(fmt.Sprintf("%s, %d runs", label, len(series))),
	)
}

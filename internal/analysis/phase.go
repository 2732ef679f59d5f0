package analysis

import (
	"math"
	"strings"

	"github.com/pkg/errors"

	"github.com/san-kum/cablesim/internal/dynamo"
	"github.com/san-kum/cablesim/internal/sim"
)

// Point is one sample of a phase portrait.
type Point struct{ X, Y float64 }

// PhasePortrait2D is position against velocity along one axis.
type PhasePortrait2D struct {
	Axis   int
	Points []Point
}

// PhasePortrait extracts (x_axis, v_axis) from every recorded state.
func PhasePortrait(result *sim.Result, axis int) (*PhasePortrait2D, error) {
	d := int(result.Dim)
	if axis < 0 || axis >= d {
		return nil, errors.Wrapf(dynamo.ErrDimensionMismatch, "axis %d of a %v trajectory", axis, result.Dim)
	}
	portrait := &PhasePortrait2D{
		Axis:   axis,
		Points: make([]Point, 0, len(result.States)),
	}
	for _, s := range result.States {
		portrait.Points = append(portrait.Points, Point{X: s[axis], Y: s[d+axis]})
	}
	return portrait, nil
}

// PhasePortraitToASCII draws the portrait on a width×height character
// grid with axes where zero is visible.
func PhasePortraitToASCII(portrait *PhasePortrait2D, width, height int) string {
	if portrait == nil || width < 2 || height < 2 {
		return ""
	}
	points := make([]Point, 0, len(portrait.Points))
	for _, p := range portrait.Points {
		if finite(p.X) && finite(p.Y) {
			points = append(points, p)
		}
	}
	if len(points) == 0 {
		return ""
	}

	minX, maxX := points[0].X, points[0].X
	minY, maxY := points[0].Y, points[0].Y
	for _, p := range points {
		minX, maxX = min(minX, p.X), max(maxX, p.X)
		minY, maxY = min(minY, p.Y), max(maxY, p.Y)
	}

	pad := func(lo, hi float64) (float64, float64) {
		r := hi - lo
		if r == 0 {
			r = 1
		}
		return lo - r*0.1, hi + r*0.1
	}
	minX, maxX = pad(minX, maxX)
	minY, maxY = pad(minY, maxY)
	rangeX, rangeY := maxX-minX, maxY-minY

	col := func(x float64) int { return int((x - minX) / rangeX * float64(width-1)) }
	row := func(y float64) int { return height - 1 - int((y-minY)/rangeY*float64(height-1)) }

	canvas := make([][]rune, height)
	for i := range canvas {
		canvas[i] = []rune(strings.Repeat(" ", width))
	}

	if minX <= 0 && maxX >= 0 {
		c := col(0)
		for r := range canvas {
			canvas[r][c] = '│'
		}
	}
	if minY <= 0 && maxY >= 0 {
		r := row(0)
		for c := range canvas[r] {
			if canvas[r][c] == '│' {
				canvas[r][c] = '┼'
			} else {
				canvas[r][c] = '─'
			}
		}
	}
	for _, p := range points {
		canvas[row(p.Y)][col(p.X)] = '•'
	}

	var sb strings.Builder
	for _, r := range canvas {
		sb.WriteString(string(r))
		sb.WriteRune('\n')
	}
	return sb.String()
}

func finite(x float64) bool {
	return !math.IsNaN(x) && !math.IsInf(x, 0)
}

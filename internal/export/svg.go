// Package export renders saved runs to files outside the terminal.
package export

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"sort"

	"github.com/pkg/errors"

	"github.com/san-kum/cablesim/internal/dynamo"
	"github.com/san-kum/cablesim/internal/sim"
	"github.com/san-kum/cablesim/internal/viz"
)

const (
	background = "#0a0a0a"
	pathColor  = "#00ff88"
	tautColor  = "#00ccff"
	slackColor = "#ff4444"
	anchorSize = 4.0
)

// SVGOptions controls the size and projection of an SVG drawing.
type SVGOptions struct {
	Width, Height int
	Camera        *viz.Camera
	SlackBound    float64
}

type point struct{ X, Y float64 }

// frame maps projected points into the image with a uniform scale and a
// 10% margin.
type frame struct {
	minX, minY float64
	scale      float64
	offX, offY float64
	height     float64
}

func newFrame(pts []point, width, height int) frame {
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, p := range pts {
		minX, maxX = math.Min(minX, p.X), math.Max(maxX, p.X)
		minY, maxY = math.Min(minY, p.Y), math.Max(maxY, p.Y)
	}
	rangeX, rangeY := maxX-minX, maxY-minY
	if rangeX == 0 {
		rangeX = 1
	}
	if rangeY == 0 {
		rangeY = 1
	}
	minX -= rangeX * 0.1
	minY -= rangeY * 0.1
	rangeX *= 1.2
	rangeY *= 1.2

	scale := math.Min(float64(width)/rangeX, float64(height)/rangeY)
	return frame{
		minX:   minX,
		minY:   minY,
		scale:  scale,
		offX:   (float64(width) - scale*rangeX) / 2,
		offY:   (float64(height) - scale*rangeY) / 2,
		height: float64(height),
	}
}

func (f frame) at(p point) (float64, float64) {
	x := f.offX + (p.X-f.minX)*f.scale
	y := f.height - (f.offY + (p.Y-f.minY)*f.scale)
	return x, y
}

// TrajectorySVG draws the path of the point mass, the anchors and the
// cables at the final state. Cables slack at the last step are dashed.
func TrajectorySVG(w io.Writer, result *sim.Result, anchors map[string]dynamo.Vec, opts SVGOptions) error {
	if len(result.States) < 2 {
		return errors.New("export: need at least two states")
	}
	if opts.Width <= 0 || opts.Height <= 0 {
		return errors.Wrapf(dynamo.ErrParameterBounds, "image size %dx%d", opts.Width, opts.Height)
	}
	cam := opts.Camera
	if cam == nil {
		cam = viz.NewCamera()
	}
	project := func(v dynamo.Vec) point {
		x, y := cam.Project(v)
		return point{x, y}
	}

	path := make([]point, 0, len(result.States))
	for i, s := range result.States {
		pos, _, err := s.Split(result.Dim)
		if err != nil {
			return errors.Wrapf(err, "state %d", i)
		}
		if pos.IsFinite() {
			path = append(path, project(pos))
		}
	}
	if len(path) == 0 {
		return errors.Wrap(dynamo.ErrInvalidState, "export: no finite positions")
	}

	tags := make([]string, 0, len(anchors))
	for tag := range anchors {
		tags = append(tags, tag)
	}
	sort.Strings(tags)
	anchorPts := make(map[string]point, len(tags))
	all := append([]point(nil), path...)
	for _, tag := range tags {
		p := project(anchors[tag])
		anchorPts[tag] = p
		all = append(all, p)
	}
	f := newFrame(all, opts.Width, opts.Height)

	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="%s"/>
`, opts.Width, opts.Height, opts.Width, opts.Height, background)

	var lastForces map[string]float64
	if len(result.Forces) > 0 {
		lastForces = result.Forces[len(result.Forces)-1]
	}
	endX, endY := f.at(path[len(path)-1])
	for _, tag := range tags {
		ax, ay := f.at(anchorPts[tag])
		color, dash := tautColor, ""
		if force, ok := lastForces[tag]; ok && force <= opts.SlackBound {
			color, dash = slackColor, ` stroke-dasharray="6,4"`
		}
		fmt.Fprintf(bw, `<line x1="%.1f" y1="%.1f" x2="%.1f" y2="%.1f" stroke="%s" stroke-width="1"%s><title>%s</title></line>
`, ax, ay, endX, endY, color, dash, tag)
		fmt.Fprintf(bw, `<rect x="%.1f" y="%.1f" width="%.1f" height="%.1f" fill="%s"/>
`, ax-anchorSize/2, ay-anchorSize/2, anchorSize, anchorSize, tautColor)
	}

	fmt.Fprintf(bw, `<path fill="none" stroke="%s" stroke-width="1.5" d="M`, pathColor)
	for i, p := range path {
		x, y := f.at(p)
		if i == 0 {
			fmt.Fprintf(bw, "%.1f,%.1f", x, y)
		} else {
			fmt.Fprintf(bw, " L%.1f,%.1f", x, y)
		}
	}
	bw.WriteString("\"/>\n")

	startX, startY := f.at(path[0])
	fmt.Fprintf(bw, `<circle cx="%.1f" cy="%.1f" r="3" fill="none" stroke="%s"/>
<circle cx="%.1f" cy="%.1f" r="4" fill="%s"/>
</svg>
`, startX, startY, pathColor, endX, endY, pathColor)
	return bw.Flush()
}

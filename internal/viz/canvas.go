package viz

import (
	"math"
	"strings"
)

const brailleBlank = 0x2800

// Each terminal cell holds a 2x4 braille dot matrix.
var dotBits = [4][2]rune{
	{0x01, 0x08},
	{0x02, 0x10},
	{0x04, 0x20},
	{0x40, 0x80},
}

// Canvas is a braille pixel grid addressed in world coordinates. The
// world window set by SetBounds is fitted with a uniform scale, so shapes
// keep their aspect ratio.
type Canvas struct {
	cols, rows int
	cells      [][]rune

	scale      float64
	originX    float64
	originY    float64
	offX, offY float64
}

func NewCanvas(cols, rows int) *Canvas {
	c := &Canvas{cols: cols, rows: rows, cells: make([][]rune, rows)}
	for i := range c.cells {
		c.cells[i] = make([]rune, cols)
	}
	c.Clear()
	c.SetBounds(-1, -1, 1, 1)
	return c
}

// Pixels returns the size of the dot grid.
func (c *Canvas) Pixels() (int, int) {
	return c.cols * 2, c.rows * 4
}

// SetBounds maps the world window [minX, maxX] x [minY, maxY] onto the
// canvas, centred, with y pointing up.
func (c *Canvas) SetBounds(minX, minY, maxX, maxY float64) {
	if !(maxX > minX) {
		minX, maxX = minX-1, minX+1
	}
	if !(maxY > minY) {
		minY, maxY = minY-1, minY+1
	}
	pw, ph := c.Pixels()
	c.scale = math.Min(float64(pw-1)/(maxX-minX), float64(ph-1)/(maxY-minY))
	c.originX, c.originY = minX, minY
	c.offX = (float64(pw-1) - c.scale*(maxX-minX)) / 2
	c.offY = (float64(ph-1) - c.scale*(maxY-minY)) / 2
}

func (c *Canvas) toPixel(x, y float64) (int, int) {
	_, ph := c.Pixels()
	px := c.offX + (x-c.originX)*c.scale
	py := float64(ph-1) - (c.offY + (y-c.originY)*c.scale)
	return int(math.Round(px)), int(math.Round(py))
}

func (c *Canvas) Clear() {
	for i := range c.cells {
		for j := range c.cells[i] {
			c.cells[i][j] = brailleBlank
		}
	}
}

func (c *Canvas) set(px, py int) {
	if px < 0 || py < 0 {
		return
	}
	col, row := px/2, py/4
	if col >= c.cols || row >= c.rows {
		return
	}
	c.cells[row][col] |= dotBits[py%4][px%2]
}

// Dot sets the pixel under a world point.
func (c *Canvas) Dot(x, y float64) {
	c.set(c.toPixel(x, y))
}

// Mark draws a 3x3 blob centred on a world point.
func (c *Canvas) Mark(x, y float64) {
	px, py := c.toPixel(x, y)
	for dy := -1; dy <= 1; dy++ {
		for dx := -1; dx <= 1; dx++ {
			c.set(px+dx, py+dy)
		}
	}
}

// Cross draws a small x centred on a world point.
func (c *Canvas) Cross(x, y float64) {
	px, py := c.toPixel(x, y)
	for d := -1; d <= 1; d++ {
		c.set(px+d, py+d)
		c.set(px+d, py-d)
	}
}

// Line draws a world segment. A dashed line leaves every other pair of
// dots unset.
func (c *Canvas) Line(x0, y0, x1, y1 float64, dashed bool) {
	ax, ay := c.toPixel(x0, y0)
	bx, by := c.toPixel(x1, y1)
	c.bresenham(ax, ay, bx, by, dashed)
}

func (c *Canvas) bresenham(x0, y0, x1, y1 int, dashed bool) {
	dx, dy := absInt(x1-x0), absInt(y1-y0)
	sx, sy := 1, 1
	if x0 > x1 {
		sx = -1
	}
	if y0 > y1 {
		sy = -1
	}
	err := dx - dy

	for n := 0; ; n++ {
		if !dashed || n%4 < 2 {
			c.set(x0, y0)
		}
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			x0 += sx
		}
		if e2 < dx {
			err += dx
			y0 += sy
		}
	}
}

func (c *Canvas) String() string {
	var b strings.Builder
	for _, row := range c.cells {
		b.WriteString(string(row))
		b.WriteByte('\n')
	}
	return b.String()
}

func absInt(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

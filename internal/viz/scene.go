package viz

import (
	"math"

	"github.com/san-kum/cablesim/internal/dynamo"
)

// Camera is an orthographic view of 3D space. Yaw turns about the Z axis,
// pitch tilts the view up from the XY plane.
type Camera struct {
	Yaw, Pitch float64
}

func NewCamera() *Camera {
	return &Camera{Yaw: -0.6, Pitch: 0.35}
}

// Rotate changes the view angles. Pitch is clamped to a quarter turn.
func (c *Camera) Rotate(dYaw, dPitch float64) {
	c.Yaw += dYaw
	c.Pitch = math.Max(-math.Pi/2, math.Min(math.Pi/2, c.Pitch+dPitch))
}

// Project maps a point to screen coordinates. 1D and 2D points are drawn
// as they are; only 3D points go through the camera.
func (c *Camera) Project(v dynamo.Vec) (float64, float64) {
	switch v.Dim() {
	case dynamo.Dim1:
		return v.At(0), 0
	case dynamo.Dim2:
		return v.At(0), v.At(1)
	}
	p := v.R3()
	cy, sy := math.Cos(c.Yaw), math.Sin(c.Yaw)
	x := p.X*cy - p.Y*sy
	depth := p.X*sy + p.Y*cy
	cp, sp := math.Cos(c.Pitch), math.Sin(c.Pitch)
	return x, p.Z*cp - depth*sp
}

// Scene is the fixed geometry of an experiment: its anchors, keyed by
// cable tag.
type Scene struct {
	Tags    []string
	Anchors map[string]dynamo.Vec
	Camera  *Camera
	Zoom    float64
}

func NewScene(tags []string, anchors map[string]dynamo.Vec) *Scene {
	return &Scene{Tags: tags, Anchors: anchors, Camera: NewCamera(), Zoom: 1}
}

func (s *Scene) ZoomIn()  { s.Zoom = math.Min(10, s.Zoom*1.25) }
func (s *Scene) ZoomOut() { s.Zoom = math.Max(0.1, s.Zoom/1.25) }

// Render draws the trail, the cables, the anchors and the body. Cables
// listed in slack are dashed.
func (s *Scene) Render(c *Canvas, pos dynamo.Vec, trail []dynamo.Vec, slack map[string]bool) {
	c.Clear()
	s.fit(c, pos)

	for _, p := range trail {
		c.Dot(s.Camera.Project(p))
	}
	bx, by := s.Camera.Project(pos)
	for _, tag := range s.Tags {
		ax, ay := s.Camera.Project(s.Anchors[tag])
		c.Line(ax, ay, bx, by, slack[tag])
		c.Cross(ax, ay)
	}
	c.Mark(bx, by)
}

// fit sets the canvas window to the anchors and the body, padded and
// scaled by the zoom.
func (s *Scene) fit(c *Canvas, pos dynamo.Vec) {
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	grow := func(v dynamo.Vec) {
		if !v.IsFinite() {
			return
		}
		x, y := s.Camera.Project(v)
		minX, maxX = math.Min(minX, x), math.Max(maxX, x)
		minY, maxY = math.Min(minY, y), math.Max(maxY, y)
	}
	for _, tag := range s.Tags {
		grow(s.Anchors[tag])
	}
	grow(pos)
	if math.IsInf(minX, 0) {
		c.SetBounds(-1, -1, 1, 1)
		return
	}

	cx, cy := (minX+maxX)/2, (minY+maxY)/2
	half := 0.55 * math.Max(maxX-minX, maxY-minY) / s.Zoom
	if half == 0 {
		half = 1
	}
	c.SetBounds(cx-half, cy-half, cx+half, cy+half)
}

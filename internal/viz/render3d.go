package viz

import (
	"math"
	"sort"

	"github.com/san-kum/spinecho/internal/dynamo"
)

// Camera orbits the origin and projects world points onto the canvas.
type Camera struct {
	Distance         float64
	Near             float64
	RotX, RotY, RotZ float64
	Zoom             float64
}

// NewCamera looks down at the origin from above and to one side so the
// field axis and the transverse plane are both visible.
func NewCamera() *Camera {
	return &Camera{Distance: 6, Near: 0.1, RotX: 0.45, RotY: -0.75, Zoom: 1.0}
}

func (c *Camera) RotateX(a float64) { c.RotX += a }
func (c *Camera) RotateY(a float64) { c.RotY += a }
func (c *Camera) RotateZ(a float64) { c.RotZ += a }
func (c *Camera) ZoomIn()           { c.Zoom = math.Min(10, c.Zoom*1.2) }
func (c *Camera) ZoomOut()          { c.Zoom = math.Max(0.1, c.Zoom/1.2) }

// RotatePoint applies the camera orientation, x then y then z.
func (c *Camera) RotatePoint(p dynamo.Vec3) dynamo.Vec3 {
	cx, sx := math.Cos(c.RotX), math.Sin(c.RotX)
	p.Y, p.Z = p.Y*cx-p.Z*sx, p.Y*sx+p.Z*cx
	cy, sy := math.Cos(c.RotY), math.Sin(c.RotY)
	p.X, p.Z = p.X*cy+p.Z*sy, -p.X*sy+p.Z*cy
	cz, sz := math.Cos(c.RotZ), math.Sin(c.RotZ)
	p.X, p.Y = p.X*cz-p.Y*sz, p.X*sz+p.Y*cz
	return p
}

// Project maps a world point to screen coordinates on an sw x sh surface.
// It returns x, y, depth (larger is nearer) and whether the point is on
// screen.
func (c *Camera) Project(p dynamo.Vec3, sw, sh int) (int, int, float64, bool) {
	rot := c.RotatePoint(p).Scale(c.Zoom)
	if rot.Z >= c.Distance-c.Near {
		return 0, 0, 0, false
	}
	scale := c.Distance / (c.Distance - rot.Z)
	minDim := math.Min(float64(sw), float64(sh))
	pScale := minDim / 3.0
	sx := int(rot.X*scale*pScale) + sw/2
	sy := int(-rot.Y*scale*pScale) + sh/2
	return sx, sy, rot.Z, sx >= 0 && sx < sw && sy >= 0 && sy < sh
}

// AxisTag marks wireframe edges that are not spin arrows.
const AxisTag = -1

type Edge struct {
	Start, End dynamo.Vec3
	Tag        int
}

type Wireframe struct{ Edges []Edge }

func NewWireframe() *Wireframe                         { return &Wireframe{Edges: make([]Edge, 0)} }
func (w *Wireframe) AddEdge(s, e dynamo.Vec3, tag int) { w.Edges = append(w.Edges, Edge{s, e, tag}) }
func (w *Wireframe) Clear()                            { w.Edges = w.Edges[:0] }

type ProjectedEdge struct {
	X1, Y1, X2, Y2 int
	Depth          float64
	Tag            int
}

// ProjectEdges projects every edge with at least one visible end, farthest
// first.
func ProjectEdges(w *Wireframe, cam *Camera, sw, sh int) []ProjectedEdge {
	proj := make([]ProjectedEdge, 0, len(w.Edges))
	for _, e := range w.Edges {
		x1, y1, d1, v1 := cam.Project(e.Start, sw, sh)
		x2, y2, d2, v2 := cam.Project(e.End, sw, sh)
		if v1 || v2 {
			proj = append(proj, ProjectedEdge{x1, y1, x2, y2, (d1 + d2) / 2, e.Tag})
		}
	}
	sort.SliceStable(proj, func(i, j int) bool { return proj[i].Depth < proj[j].Depth })
	return proj
}

// Render3D draws the wireframe onto the canvas in dot coordinates.
func Render3D(c *Canvas, w *Wireframe, cam *Camera) {
	if c == nil || w == nil || cam == nil {
		return
	}
	for _, e := range ProjectEdges(w, cam, c.DotWidth(), c.DotHeight()) {
		c.DrawLine(e.X1, e.Y1, e.X2, e.Y2)
	}
}

// AddAxes adds the three world axes with length l.
func (w *Wireframe) AddAxes(l float64) {
	var o dynamo.Vec3
	w.AddEdge(o, dynamo.Vec3{X: l}, AxisTag)
	w.AddEdge(o, dynamo.Vec3{Y: l}, AxisTag)
	w.AddEdge(o, dynamo.Vec3{Z: l}, AxisTag)
}

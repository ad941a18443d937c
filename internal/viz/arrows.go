package viz

import (
	"fmt"
	"math/rand"

	"github.com/san-kum/spinecho/internal/dynamo"
)

const (
	arrowLength = 1.0
	headLength  = 0.18
	axisLength  = 1.4
)

// ArrowField draws one arrow per spin from the origin. It implements
// spin.Renderer. Each arrow gets a colour from a seeded generator so the
// same seed always colours the same spin the same way.
type ArrowField struct {
	dirs   []dynamo.Vec3
	colors []string
	rng    *rand.Rand
	wf     *Wireframe
}

func NewArrowField(seed int64) *ArrowField {
	return &ArrowField{rng: rand.New(rand.NewSource(seed)), wf: NewWireframe()}
}

// CreateVisual registers spin index. Registering an index again keeps its
// colour and only updates the direction.
func (a *ArrowField) CreateVisual(index int, dir dynamo.Vec3) {
	for len(a.dirs) <= index {
		a.dirs = append(a.dirs, dynamo.UnitZ)
		a.colors = append(a.colors, a.randomColor())
	}
	a.dirs[index] = dir
}

func (a *ArrowField) SetVisualDirection(index int, dir dynamo.Vec3) {
	if index < 0 || index >= len(a.dirs) {
		return
	}
	a.dirs[index] = dir
}

func (a *ArrowField) Len() int                        { return len(a.dirs) }
func (a *ArrowField) Direction(index int) dynamo.Vec3 { return a.dirs[index] }

// Color returns the arrow's colour as #rrggbb.
func (a *ArrowField) Color(index int) string { return a.colors[index] }

func (a *ArrowField) randomColor() string {
	return fmt.Sprintf("#%06x", a.rng.Intn(1<<24))
}

// Wireframe rebuilds the scene: world axes plus every arrow, tagged with
// its spin index.
func (a *ArrowField) Wireframe() *Wireframe {
	a.wf.Clear()
	a.wf.AddAxes(axisLength)

	var origin dynamo.Vec3
	for i, d := range a.dirs {
		tip := d.Scale(arrowLength)
		a.wf.AddEdge(origin, tip, i)

		// Short barb back from the tip, perpendicular in the plane of the
		// arrow and the field direction.
		side := d.Cross(dynamo.Vec3{Y: 1})
		if side.Length() < 1e-6 {
			side = d.Cross(dynamo.Vec3{X: 1})
		}
		back := tip.Sub(d.Scale(headLength))
		a.wf.AddEdge(tip, back.Add(side.Normalize().Scale(headLength/2)), i)
	}
	return a.wf
}

// Draw clears c and renders the field through cam.
func (a *ArrowField) Draw(c *Canvas, cam *Camera) {
	c.Clear()
	Render3D(c, a.Wireframe(), cam)
}

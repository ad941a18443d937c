package viz

import (
	"testing"

	"github.com/san-kum/spinecho/internal/dynamo"
	"github.com/san-kum/spinecho/internal/spin"
)

var _ spin.Renderer = (*ArrowField)(nil)

func TestArrowFieldTracksEnsemble(t *testing.T) {
	a := NewArrowField(7)
	cfg := spin.DefaultConfig()
	cfg.Count = 12

	e, err := spin.New(cfg, a)
	if err != nil {
		t.Fatal(err)
	}
	if a.Len() != 12 {
		t.Fatalf("expected 12 arrows, got %d", a.Len())
	}

	if err := e.ApplyPulse(dynamo.AxisX, 1.0); err != nil {
		t.Fatal(err)
	}
	for i := 0; i < e.Len(); i++ {
		if !a.Direction(i).ApproxEqual(e.Spin(i).Direction, 1e-12) {
			t.Errorf("arrow %d = %v, spin = %v", i, a.Direction(i), e.Spin(i).Direction)
		}
	}

	// Axes plus shaft and barb per arrow.
	if got := len(a.Wireframe().Edges); got != 3+2*12 {
		t.Errorf("wireframe has %d edges", got)
	}
}

func TestArrowFieldColorsSeeded(t *testing.T) {
	a, b := NewArrowField(3), NewArrowField(3)
	for i := 0; i < 5; i++ {
		a.CreateVisual(i, dynamo.UnitZ)
		b.CreateVisual(i, dynamo.UnitZ)
	}
	for i := 0; i < 5; i++ {
		if a.Color(i) != b.Color(i) || len(a.Color(i)) != 7 {
			t.Errorf("color %d: %q vs %q", i, a.Color(i), b.Color(i))
		}
	}

	// Re-registering keeps the colour.
	c := a.Color(2)
	a.CreateVisual(2, dynamo.Vec3{X: 1})
	if a.Color(2) != c || a.Len() != 5 {
		t.Error("re-registering changed the arrow")
	}

	a.SetVisualDirection(99, dynamo.UnitZ)
}

func TestArrowFieldDraw(t *testing.T) {
	a := NewArrowField(1)
	a.CreateVisual(0, dynamo.Vec3{X: 1})
	c := NewCanvas(30, 15)
	a.Draw(c, NewCamera())

	var n int
	c.EachDot(func(int, int) { n++ })
	if n == 0 {
		t.Error("nothing drawn")
	}
}

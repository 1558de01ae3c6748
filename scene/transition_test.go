package scene

import (
	"math"
	"testing"
	"time"
)

func almostEqual(a, b float64) bool { return math.Abs(a-b) < 1e-9 }

func TestLinearEaseEndpoints(t *testing.T) {
	var e Linear
	if e.Ease(0) != 0 {
		t.Errorf("Ease(0) = %v, want 0", e.Ease(0))
	}
	if e.Ease(1) != 1 {
		t.Errorf("Ease(1) = %v, want 1", e.Ease(1))
	}
	if e.Ease(0.5) != 0.5 {
		t.Errorf("Ease(0.5) = %v, want 0.5", e.Ease(0.5))
	}
}

func TestLinearEaseClampsOutOfRange(t *testing.T) {
	var e Linear
	if e.Ease(-1) != 0 {
		t.Errorf("Ease(-1) = %v, want 0", e.Ease(-1))
	}
	if e.Ease(2) != 1 {
		t.Errorf("Ease(2) = %v, want 1", e.Ease(2))
	}
}

func TestBounceEaseEndpointsExact(t *testing.T) {
	var e Bounce
	if e.Ease(0) != 0 {
		t.Errorf("Ease(0) = %v, want exactly 0", e.Ease(0))
	}
	if e.Ease(1) != 1 {
		t.Errorf("Ease(1) = %v, want exactly 1", e.Ease(1))
	}
}

func TestCubicBezierEaseEndpointsExact(t *testing.T) {
	c := CubicBezier{X1: 0.25, Y1: 0.1, X2: 0.25, Y2: 1}
	if c.Ease(0) != 0 {
		t.Errorf("Ease(0) = %v, want exactly 0", c.Ease(0))
	}
	if c.Ease(1) != 1 {
		t.Errorf("Ease(1) = %v, want exactly 1", c.Ease(1))
	}
}

func TestCubicBezierLinearControlPointsApproximatesIdentity(t *testing.T) {
	// X1==Y1, X2==Y2 on the diagonal gives the identity curve.
	c := CubicBezier{X1: 0.3, Y1: 0.3, X2: 0.7, Y2: 0.7}
	for _, u := range []float64{0.1, 0.25, 0.5, 0.75, 0.9} {
		got := c.Ease(u)
		if math.Abs(got-u) > 1e-6 {
			t.Errorf("Ease(%v) = %v, want ~%v", u, got, u)
		}
	}
}

func TestSolveBezierParameterMonotonic(t *testing.T) {
	prev := -1.0
	for _, target := range []float64{0.1, 0.3, 0.5, 0.7, 0.9} {
		s := solveBezierParameter(target, 0.25, 0.75)
		if s <= prev {
			t.Errorf("solveBezierParameter not monotonic at target=%v: s=%v, prev=%v", target, s, prev)
		}
		prev = s
		x := bezierComponent(s, 0.25, 0.75)
		if math.Abs(x-target) > 1e-6 {
			t.Errorf("bezierComponent(solveBezierParameter(%v)) = %v, want %v", target, x, target)
		}
	}
}

func TestActiveTransitionProgress(t *testing.T) {
	start := time.Unix(0, 0)
	a := ActiveTransition{Start: start, Transition: Transition{Duration: 10 * time.Second, Easing: Linear{}}}
	if got := a.Progress(start); got != 0 {
		t.Errorf("Progress(start) = %v, want 0", got)
	}
	mid := start.Add(5 * time.Second)
	if got := a.Progress(mid); !almostEqual(got, 0.5) {
		t.Errorf("Progress(mid) = %v, want 0.5", got)
	}
	end := start.Add(10 * time.Second)
	if got := a.Progress(end); got != 1 {
		t.Errorf("Progress(end) = %v, want 1", got)
	}
}

func TestActiveTransitionZeroDurationIsImmediatelyDone(t *testing.T) {
	a := ActiveTransition{Start: time.Unix(0, 0), Transition: Transition{Duration: 0}}
	if got := a.Progress(time.Unix(0, 0)); got != 1 {
		t.Errorf("Progress = %v, want 1", got)
	}
}

func TestInterpolateLayoutBoxAndColor(t *testing.T) {
	from := RenderLayout{
		Box:     Box{Top: 0, Left: 0, Width: 10, Height: 10},
		Content: RenderLayoutContent{Kind: ContentColor, Color: Color{A: 0}},
	}
	to := RenderLayout{
		Box:     Box{Top: 100, Left: 100, Width: 20, Height: 20},
		Content: RenderLayoutContent{Kind: ContentColor, Color: Color{R: 255, A: 255}},
	}
	mid := InterpolateLayout(from, to, 0.5)
	if !almostEqual(mid.Top, 50) || !almostEqual(mid.Left, 50) {
		t.Errorf("mid Box = %+v, want Top/Left ~50", mid.Box)
	}
	if !almostEqual(mid.Width, 15) || !almostEqual(mid.Height, 15) {
		t.Errorf("mid Box size = %+v, want 15x15", mid.Box)
	}
	if mid.Content.Color.R < 126 || mid.Content.Color.R > 129 {
		t.Errorf("mid color R = %d, want ~127", mid.Content.Color.R)
	}
}

func TestInterpolateLayoutMismatchedKindLeavesContentAtTo(t *testing.T) {
	from := RenderLayout{Content: RenderLayoutContent{Kind: ContentChildNode, Index: 1}}
	to := RenderLayout{Content: RenderLayoutContent{Kind: ContentColor, Color: Color{R: 9, A: 255}}}
	got := InterpolateLayout(from, to, 0.5)
	if got.Content.Kind != ContentColor || got.Content.Color.R != 9 {
		t.Errorf("got %+v, want to's Content unchanged", got.Content)
	}
}

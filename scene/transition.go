/*
DESCRIPTION
  transition.go implements the interpolation engine of spec section
  4.2: Linear, Bounce, and CubicBezier easing over a component's
  preserved layout state across successive scene updates.

AUTHORS
  Saxon Nelson-Milton <saxon@ausocean.org>, The Australian Ocean Laboratory (AusOcean)
*/

package scene

import (
	"math"
	"time"
)

// Easing maps a clamped progress fraction u in [0,1] to an eased
// fraction, with Ease(0) == 0 and Ease(1) == 1 exactly (testable
// property 5: transition endpoints).
type Easing interface {
	Ease(u float64) float64
}

// Transition attaches an Easing and a fixed Duration to a component;
// see spec section 4.2.
type Transition struct {
	Duration time.Duration
	Easing   Easing
}

// Linear is u itself.
type Linear struct{}

func (Linear) Ease(u float64) float64 { return clamp01(u) }

// Bounce is a fixed decaying-sine curve: oscillates around the target
// with shrinking amplitude, landing exactly on the endpoints.
type Bounce struct{}

func (Bounce) Ease(u float64) float64 {
	u = clamp01(u)
	if u == 0 || u == 1 {
		return u
	}
	const decayRate = 6.0
	const cycles = 2.5
	decay := math.Exp(-decayRate * u)
	return 1 - decay*math.Cos(2*math.Pi*cycles*(1-u))
}

// CubicBezier is the standard 2-D parametric curve through (0,0),
// (X1,Y1), (X2,Y2), (1,1); X1, X2 must be in [0,1] so x(s) is
// monotonic in the bezier parameter s, and the engine inverts x(u)=u
// numerically (bisection, since the cubic is monotonic but its
// derivative can vanish at the endpoints, which would stall Newton's
// method) to obtain y(u).
type CubicBezier struct {
	X1, Y1, X2, Y2 float64
}

func (c CubicBezier) Ease(u float64) float64 {
	u = clamp01(u)
	if u == 0 || u == 1 {
		return u
	}
	s := solveBezierParameter(u, c.X1, c.X2)
	return bezierComponent(s, c.Y1, c.Y2)
}

// bezierComponent evaluates one axis of the cubic at parameter s,
// given the curve's two control-point coordinates on that axis
// (endpoints are fixed at 0 and 1).
func bezierComponent(s, p1, p2 float64) float64 {
	s2 := s * s
	s3 := s2 * s
	mu := 1 - s
	mu2 := mu * mu
	return 3*mu2*s*p1 + 3*mu*s2*p2 + s3
}

// solveBezierParameter finds s in [0,1] such that bezierComponent(s,
// x1, x2) == target, via bisection; x(s) is monotonic non-decreasing
// for x1, x2 in [0,1].
func solveBezierParameter(target, x1, x2 float64) float64 {
	lo, hi := 0.0, 1.0
	for i := 0; i < 40; i++ {
		mid := (lo + hi) / 2
		if bezierComponent(mid, x1, x2) < target {
			lo = mid
		} else {
			hi = mid
		}
	}
	return (lo + hi) / 2
}

func clamp01(u float64) float64 {
	if u < 0 {
		return 0
	}
	if u > 1 {
		return 1
	}
	return u
}

// ActiveTransition is Flatten's per-component bookkeeping: the wall-
// clock instant the transition started and the concrete layout it is
// interpolating away from.
type ActiveTransition struct {
	Start      time.Time
	Transition Transition
	From       RenderLayout
}

// Progress returns the eased progress fraction at wall-clock time now.
func (a ActiveTransition) Progress(now time.Time) float64 {
	if a.Transition.Duration <= 0 {
		return 1
	}
	u := float64(now.Sub(a.Start)) / float64(a.Transition.Duration)
	easing := a.Transition.Easing
	if easing == nil {
		easing = Linear{}
	}
	return easing.Ease(u)
}

// InterpolateLayout linearly interpolates every numeric field of
// RenderLayout between from and to by u in [0,1]; Content must be of
// the same Kind on both sides (callers only interpolate between a
// component's own previous and current concrete layout).
func InterpolateLayout(from, to RenderLayout, u float64) RenderLayout {
	out := to
	out.Top = lerp(from.Top, to.Top, u)
	out.Left = lerp(from.Left, to.Left, u)
	out.Width = lerp(from.Width, to.Width, u)
	out.Height = lerp(from.Height, to.Height, u)
	out.RotationDegrees = lerp(from.RotationDegrees, to.RotationDegrees, u)
	out.BorderRadius = lerp(from.BorderRadius, to.BorderRadius, u)

	if from.Content.Kind == to.Content.Kind {
		switch to.Content.Kind {
		case ContentColor:
			out.Content.Color = LerpColor(from.Content.Color, to.Content.Color, u)
			out.Content.BorderColor = LerpColor(from.Content.BorderColor, to.Content.BorderColor, u)
			out.Content.BorderWidth = lerp(from.Content.BorderWidth, to.Content.BorderWidth, u)
		case ContentChildNode:
			out.Content.BorderColor = LerpColor(from.Content.BorderColor, to.Content.BorderColor, u)
			out.Content.BorderWidth = lerp(from.Content.BorderWidth, to.Content.BorderWidth, u)
		case ContentBoxShadow:
			out.Content.Color = LerpColor(from.Content.Color, to.Content.Color, u)
			out.Content.BlurRadius = lerp(from.Content.BlurRadius, to.Content.BlurRadius, u)
		}
	}
	return out
}

func lerp(a, b, u float64) float64 { return a + (b-a)*u }

/*
DESCRIPTION
  affine.go implements the cumulative translate+scale transform
  Flatten composes while walking the tree, as a 3x3 homogeneous matrix
  via gonum/mat instead of hand-accumulated Euler terms. This resolves
  Open Question (i) of spec section 9: composing scale_x * parent_scale_x
  etc. by hand accumulates floating-point error across deep trees
  differently than matrix composition does, and gonum's Mul gives a
  single well-tested accumulation path.

  Rotation is summed as a separate scalar, not folded into the matrix,
  matching spec section 4.2's documented approximation: a true
  rotated-ancestor transform would require shear terms this engine
  does not model.

AUTHORS
  Saxon Nelson-Milton <saxon@ausocean.org>, The Australian Ocean Laboratory (AusOcean)
*/

package scene

import "gonum.org/v1/gonum/mat"

// Affine2D is a translate+scale transform in homogeneous coordinates:
//
//	[ sx  0  tx ]
//	[  0 sy  ty ]
//	[  0  0   1 ]
type Affine2D struct {
	m *mat.Dense
}

// IdentityAffine2D returns the identity transform.
func IdentityAffine2D() Affine2D {
	return Affine2D{m: mat.NewDense(3, 3, []float64{
		1, 0, 0,
		0, 1, 0,
		0, 0, 1,
	})}
}

// NewAffine2D builds the transform that scales by (sx,sy) about the
// origin then translates by (tx,ty).
func NewAffine2D(sx, sy, tx, ty float64) Affine2D {
	return Affine2D{m: mat.NewDense(3, 3, []float64{
		sx, 0, tx,
		0, sy, ty,
		0, 0, 1,
	})}
}

// Compose returns the transform that applies child first, then a.
// (a.Compose(child)).Apply(p) == a.Apply(child.Apply(p)).
func (a Affine2D) Compose(child Affine2D) Affine2D {
	var out mat.Dense
	out.Mul(a.m, child.m)
	return Affine2D{m: &out}
}

// Apply maps a point through the transform.
func (a Affine2D) Apply(x, y float64) (float64, float64) {
	v := mat.NewVecDense(3, []float64{x, y, 1})
	var out mat.VecDense
	out.MulVec(a.m, v)
	return out.AtVec(0), out.AtVec(1)
}

// ScaleFactors returns the transform's diagonal scale terms.
func (a Affine2D) ScaleFactors() (sx, sy float64) {
	return a.m.At(0, 0), a.m.At(1, 1)
}

// UnifiedScale returns the smaller of the two scale factors, used to
// scale quantities (border width, blur radius) that can't be scaled
// separately per axis, matching flatten's own approximation for such
// fields.
func (a Affine2D) UnifiedScale() float64 {
	sx, sy := a.ScaleFactors()
	if sx < sy {
		return sx
	}
	return sy
}

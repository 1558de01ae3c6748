/*
DESCRIPTION
  layout.go defines RenderLayout, the flattened, absolute-coordinate
  output of Flatten, per spec section 4.2.

AUTHORS
  Saxon Nelson-Milton <saxon@ausocean.org>, The Australian Ocean Laboratory (AusOcean)
*/

package scene

// Mask is one clip region contributed by an ancestor with
// Overflow == OverflowHidden, accumulated in ancestor-to-descendant
// order.
type Mask struct {
	Box
	BorderRadius float64
}

// ContentKind discriminates RenderLayout's content variants.
type ContentKind int

const (
	ContentColor ContentKind = iota
	ContentChildNode
	ContentBoxShadow
)

// RenderLayoutContent is the payload a RenderLayout carries; exactly
// the fields relevant to Kind are meaningful.
type RenderLayoutContent struct {
	Kind ContentKind

	// ContentColor
	Color Color

	// ContentChildNode
	Index int

	// ContentColor and ContentChildNode
	BorderColor Color
	BorderWidth float64

	// ContentBoxShadow
	BlurRadius float64
}

// RenderLayout is one absolute-coordinate rectangle in draw order.
type RenderLayout struct {
	Box
	RotationDegrees float64
	BorderRadius    float64
	Content         RenderLayoutContent
	Masks           []Mask

	// id is the owning component's id, retained internally so Flatten
	// can record per-component transition state; never part of the
	// rendered content itself.
	id ComponentId
}

/*
DESCRIPTION
  position.go resolves the raw optional positioning fields of a
  Positioned component into either an absolute placement or a request
  to be statically laid out by its parent, per spec section 4.2's
  "Absolute positioning" rules.

AUTHORS
  Saxon Nelson-Milton <saxon@ausocean.org>, The Australian Ocean Laboratory (AusOcean)
*/

package scene

// IsAbsolute reports whether p carries any of the fields that take a
// component out of its parent's static flow.
func IsAbsolute(p Position) bool {
	return p.Top != nil || p.Bottom != nil || p.Left != nil || p.Right != nil || p.Rotation != nil
}

// ValidatePosition rejects setting both Top and Bottom, or both Left
// and Right.
func ValidatePosition(p Position) *ValidationError {
	if p.Top != nil && p.Bottom != nil {
		return fieldErr("top/bottom", "both top and bottom may not be set on the same component")
	}
	if p.Left != nil && p.Right != nil {
		return fieldErr("left/right", "both left and right may not be set on the same component")
	}
	return nil
}

// Box is an axis-aligned rectangle in a single coordinate space,
// expressed as top-left origin plus size.
type Box struct {
	Top, Left, Width, Height float64
}

// resolveAbsolute places p's box within parent using the edges that
// were set, honoring whichever pair (top/bottom, left/right) the
// caller actually supplied. Width/Height default to the value the
// component itself declared, or else to parent's full width/height,
// whichever edges are set.
func resolveAbsolute(p Position, parent Box) Box {
	width := parent.Width
	if p.Width != nil {
		width = *p.Width
	}
	height := parent.Height
	if p.Height != nil {
		height = *p.Height
	}

	var left float64
	switch {
	case p.Left != nil:
		left = *p.Left
	case p.Right != nil:
		left = parent.Width - *p.Right - width
	}

	var top float64
	switch {
	case p.Top != nil:
		top = *p.Top
	case p.Bottom != nil:
		top = parent.Height - *p.Bottom - height
	}

	return Box{Top: parent.Top + top, Left: parent.Left + left, Width: width, Height: height}
}

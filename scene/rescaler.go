/*
DESCRIPTION
  rescaler.go implements Rescaler's single-child fit/fill placement
  and alignment, per spec section 4.2.

AUTHORS
  Saxon Nelson-Milton <saxon@ausocean.org>, The Australian Ocean Laboratory (AusOcean)
*/

package scene

// layoutRescalerChild returns the child's placed Box, a clip Mask to
// append when Mode == RescaleFill causes the scaled child to exceed
// box (Fill's cropped overflow is modeled as a mask rather than
// per-ChildNode crop metadata), and the
// scale factor applied to the child's intrinsic size.
func layoutRescalerChild(r *Rescaler, box Box) (Box, *Mask, float64) {
	if r.Child == nil {
		return box, nil, 1
	}
	intrinsicW, intrinsicH := declaredSize(r.Child)
	iw, ih := box.Width, box.Height
	if intrinsicW != nil {
		iw = *intrinsicW
	}
	if intrinsicH != nil {
		ih = *intrinsicH
	}
	if iw <= 0 || ih <= 0 {
		return box, nil, 1
	}

	scaleX, scaleY := box.Width/iw, box.Height/ih
	scale := scaleX
	switch r.Mode {
	case RescaleFit:
		if scaleY < scale {
			scale = scaleY
		}
	case RescaleFill:
		if scaleY > scale {
			scale = scaleY
		}
	}

	childW, childH := iw*scale, ih*scale

	var offsetX float64
	switch r.HorizontalAlign {
	case HAlignLeft:
		offsetX = 0
	case HAlignRight:
		offsetX = box.Width - childW
	default:
		offsetX = (box.Width - childW) / 2
	}

	var offsetY float64
	switch r.VerticalAlign {
	case VAlignTop:
		offsetY = 0
	case VAlignBottom:
		offsetY = box.Height - childH
	default:
		offsetY = (box.Height - childH) / 2
	}

	childBox := Box{Top: box.Top + offsetY, Left: box.Left + offsetX, Width: childW, Height: childH}

	var mask *Mask
	if r.Mode == RescaleFill && (childW > box.Width || childH > box.Height) {
		mask = &Mask{Box: box}
	}
	return childBox, mask, scale
}

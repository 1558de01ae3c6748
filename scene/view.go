/*
DESCRIPTION
  view.go implements View's child placement: absolutely-positioned
  children honor their own edges; statically-positioned children are
  laid out along Direction, sharing remaining space, then uniformly
  rescaled if Overflow == OverflowFit and their combined intrinsic
  size exceeds the parent, per spec section 4.2.

AUTHORS
  Saxon Nelson-Milton <saxon@ausocean.org>, The Australian Ocean Laboratory (AusOcean)
*/

package scene

// layoutViewChildren returns, in child order, the absolute Box each of
// v's children occupies within box, plus the uniform rescale factor
// applied to reach that layout (1 unless Overflow == OverflowFit
// shrank an over-full flex row/column).
func layoutViewChildren(v *View, box Box) ([]Box, float64) {
	boxes := make([]Box, len(v.Children))

	var staticIdx []int
	for i, child := range v.Children {
		if p, ok := child.(Positioned); ok && IsAbsolute(p.position()) {
			boxes[i] = resolveAbsolute(p.position(), box)
			continue
		}
		staticIdx = append(staticIdx, i)
	}

	sizes := make([]float64, len(staticIdx))
	var totalMain, unsizedCount float64
	for k, i := range staticIdx {
		w, h := declaredSize(v.Children[i])
		main := h
		if v.Direction == DirectionRow {
			main = w
		}
		if main == nil {
			unsizedCount++
			continue
		}
		sizes[k] = *main
		totalMain += *main
	}

	parentMain := box.Height
	parentCross := box.Width
	if v.Direction == DirectionRow {
		parentMain, parentCross = box.Width, box.Height
	}

	remaining := parentMain - totalMain
	if remaining < 0 {
		remaining = 0
	}
	var share float64
	if unsizedCount > 0 {
		share = remaining / unsizedCount
	}

	scale := 1.0
	if v.Overflow == OverflowFit {
		intrinsicTotal := totalMain + share*unsizedCount
		if intrinsicTotal > parentMain && intrinsicTotal > 0 {
			scale = parentMain / intrinsicTotal
		}
	}

	var cursor float64
	for k, i := range staticIdx {
		main := sizes[k]
		if main == 0 && unsizedCount > 0 {
			main = share
		}
		main *= scale

		w, h := declaredSize(v.Children[i])
		crossPtr := w
		if v.Direction == DirectionRow {
			crossPtr = h
		}
		cross := parentCross
		if crossPtr != nil {
			cross = *crossPtr * scale
		}

		var b Box
		if v.Direction == DirectionRow {
			b = Box{Top: box.Top, Left: box.Left + cursor, Width: main, Height: cross}
		} else {
			b = Box{Top: box.Top + cursor, Left: box.Left, Width: cross, Height: main}
		}
		boxes[i] = b
		cursor += main
	}

	return boxes, scale
}

// declaredSize extracts the width/height a component explicitly
// requested, generically across every component kind; nil means
// unsized (treated as zero for flex distribution, per spec).
func declaredSize(c Component) (width, height *float64) {
	switch v := c.(type) {
	case *View:
		return v.Pos.Width, v.Pos.Height
	case *Rescaler:
		return v.Pos.Width, v.Pos.Height
	case *Tiles:
		return v.Pos.Width, v.Pos.Height
	case *Text:
		return v.Width, v.Height
	case *Shader:
		w, h := float64(v.Resolution.Width), float64(v.Resolution.Height)
		return &w, &h
	default:
		return nil, nil
	}
}

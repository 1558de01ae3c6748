/*
DESCRIPTION
  tiles.go implements Tiles' grid solve: choosing (rows, cols) so every
  tile honors TileAspectRatio and covered area is maximized within the
  parent bounds minus Margin and per-tile Padding, per spec section
  4.2. Children are assigned row-major in input order.

AUTHORS
  Saxon Nelson-Milton <saxon@ausocean.org>, The Australian Ocean Laboratory (AusOcean)
*/

package scene

// layoutTilesChildren returns, in child order, the absolute Box each
// of t's children occupies within box.
func layoutTilesChildren(t *Tiles, box Box) []Box {
	n := len(t.Children)
	if n == 0 {
		return nil
	}

	inner := Box{
		Top:    box.Top + t.Margin,
		Left:   box.Left + t.Margin,
		Width:  box.Width - 2*t.Margin,
		Height: box.Height - 2*t.Margin,
	}
	if inner.Width <= 0 || inner.Height <= 0 {
		return make([]Box, n)
	}

	ratio := 16.0 / 9.0
	if t.TileAspectRatio.W > 0 && t.TileAspectRatio.H > 0 {
		ratio = float64(t.TileAspectRatio.W) / float64(t.TileAspectRatio.H)
	}

	bestRows, bestCols := 1, n
	bestArea := -1.0
	for rows := 1; rows <= n; rows++ {
		cols := (n + rows - 1) / rows
		tileW := inner.Width / float64(cols)
		tileH := tileW / ratio
		if tileH*float64(rows) > inner.Height {
			tileH = inner.Height / float64(rows)
			tileW = tileH * ratio
		}
		area := tileW * tileH
		if area > bestArea {
			bestArea, bestRows, bestCols = area, rows, cols
		}
	}

	tileW := inner.Width / float64(bestCols)
	tileH := tileW / ratio
	if tileH*float64(bestRows) > inner.Height {
		tileH = inner.Height / float64(bestRows)
		tileW = tileH * ratio
	}

	gridW := tileW * float64(bestCols)
	gridH := tileH * float64(bestRows)

	var originX float64
	switch t.HorizontalAlign {
	case HAlignLeft:
		originX = inner.Left
	case HAlignRight:
		originX = inner.Left + inner.Width - gridW
	default:
		originX = inner.Left + (inner.Width-gridW)/2
	}
	var originY float64
	switch t.VerticalAlign {
	case VAlignTop:
		originY = inner.Top
	case VAlignBottom:
		originY = inner.Top + inner.Height - gridH
	default:
		originY = inner.Top + (inner.Height-gridH)/2
	}

	boxes := make([]Box, n)
	for i := 0; i < n; i++ {
		row, col := i/bestCols, i%bestCols
		boxes[i] = Box{
			Top:    originY + float64(row)*tileH + t.Padding,
			Left:   originX + float64(col)*tileW + t.Padding,
			Width:  tileW - 2*t.Padding,
			Height: tileH - 2*t.Padding,
		}
	}
	return boxes
}

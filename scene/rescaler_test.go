package scene

import "testing"

func TestLayoutRescalerChildFitCentersAndShrinksToNarrowerAxis(t *testing.T) {
	r := &Rescaler{
		Mode:  RescaleFit,
		Child: &Shader{Resolution: Resolution{Width: 100, Height: 200}},
	}
	box := Box{Width: 100, Height: 100}
	childBox, mask, scale := layoutRescalerChild(r, box)
	if scale != 0.5 {
		t.Errorf("scale = %v, want 0.5", scale)
	}
	if mask != nil {
		t.Errorf("Fit mode should never produce a mask, got %+v", mask)
	}
	want := Box{Top: 0, Left: 25, Width: 50, Height: 100}
	if childBox != want {
		t.Errorf("childBox = %+v, want %+v", childBox, want)
	}
}

func TestLayoutRescalerChildFillOverflowsAndMasks(t *testing.T) {
	r := &Rescaler{
		Mode:  RescaleFill,
		Child: &Shader{Resolution: Resolution{Width: 100, Height: 200}},
	}
	box := Box{Width: 100, Height: 100}
	childBox, mask, scale := layoutRescalerChild(r, box)
	if scale != 1 {
		t.Errorf("scale = %v, want 1", scale)
	}
	if mask == nil {
		t.Fatal("Fill mode exceeding box should produce a clip mask")
	}
	if mask.Box != box {
		t.Errorf("mask.Box = %+v, want %+v", mask.Box, box)
	}
	if childBox.Height != 200 {
		t.Errorf("childBox.Height = %v, want 200 (uncropped, clipped by mask)", childBox.Height)
	}
}

func TestLayoutRescalerChildAlignment(t *testing.T) {
	r := &Rescaler{
		Mode:            RescaleFit,
		HorizontalAlign: HAlignRight,
		VerticalAlign:   VAlignBottom,
		Child:           &Shader{Resolution: Resolution{Width: 100, Height: 200}},
	}
	box := Box{Width: 100, Height: 100}
	childBox, _, _ := layoutRescalerChild(r, box)
	if childBox.Left != 50 {
		t.Errorf("Left = %v, want 50 (right-aligned)", childBox.Left)
	}
	if childBox.Top != 0 {
		t.Errorf("Top = %v, want 0 (full height used, no slack)", childBox.Top)
	}
}

func TestLayoutRescalerChildNilChild(t *testing.T) {
	r := &Rescaler{Mode: RescaleFit}
	box := Box{Width: 100, Height: 100}
	childBox, mask, scale := layoutRescalerChild(r, box)
	if childBox != box || mask != nil || scale != 1 {
		t.Errorf("got (%+v, %+v, %v), want (%+v, nil, 1)", childBox, mask, scale, box)
	}
}

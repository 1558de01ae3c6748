package scene

import "testing"

func f(v float64) *float64 { return &v }

func TestIsAbsolute(t *testing.T) {
	cases := []struct {
		name string
		pos  Position
		want bool
	}{
		{"no edges, static", Position{Width: f(10)}, false},
		{"top set", Position{Top: f(1)}, true},
		{"bottom set", Position{Bottom: f(1)}, true},
		{"left set", Position{Left: f(1)}, true},
		{"right set", Position{Right: f(1)}, true},
		{"rotation only", Position{Rotation: f(90)}, true},
		{"empty", Position{}, false},
	}
	for _, c := range cases {
		if got := IsAbsolute(c.pos); got != c.want {
			t.Errorf("%s: IsAbsolute = %v, want %v", c.name, got, c.want)
		}
	}
}

func TestValidatePositionRejectsConflictingEdges(t *testing.T) {
	if err := ValidatePosition(Position{Top: f(1), Bottom: f(1)}); err == nil {
		t.Error("top+bottom: expected error")
	}
	if err := ValidatePosition(Position{Left: f(1), Right: f(1)}); err == nil {
		t.Error("left+right: expected error")
	}
	if err := ValidatePosition(Position{Top: f(1), Left: f(1)}); err != nil {
		t.Errorf("top+left: unexpected error %v", err)
	}
}

func TestResolveAbsoluteLeftTop(t *testing.T) {
	parent := Box{Top: 10, Left: 20, Width: 100, Height: 200}
	pos := Position{Left: f(5), Top: f(5), Width: f(30), Height: f(40)}
	got := resolveAbsolute(pos, parent)
	want := Box{Top: 15, Left: 25, Width: 30, Height: 40}
	if got != want {
		t.Errorf("got %+v, want %+v", got, want)
	}
}

func TestResolveAbsoluteRightBottom(t *testing.T) {
	parent := Box{Width: 100, Height: 200}
	pos := Position{Right: f(10), Bottom: f(20), Width: f(30), Height: f(40)}
	got := resolveAbsolute(pos, parent)
	want := Box{Top: 140, Left: 60, Width: 30, Height: 40}
	if got != want {
		t.Errorf("got %+v, want %+v", got, want)
	}
}

func TestResolveAbsoluteDefaultsToParentSize(t *testing.T) {
	parent := Box{Width: 100, Height: 200}
	got := resolveAbsolute(Position{}, parent)
	want := Box{Width: 100, Height: 200}
	if got != want {
		t.Errorf("got %+v, want %+v", got, want)
	}
}

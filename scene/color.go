/*
DESCRIPTION
  color.go implements the `#RRGGBB`/`#RRGGBBAA` color parsing and
  storage described in spec section 6.

AUTHORS
  Saxon Nelson-Milton <saxon@ausocean.org>, The Australian Ocean Laboratory (AusOcean)
*/

package scene

import (
	"encoding/hex"
	"fmt"
)

// Color is stored as four 8-bit channels; the renderer converts to
// linear-sRGB floats at submission time.
type Color struct {
	R, G, B, A uint8
}

// Opaque reports whether c is not fully transparent (alpha channel
// non-zero).
func (c Color) Opaque() bool { return c.A != 0 }

// ParseColor accepts exactly `#RRGGBB` (alpha defaults to 0xFF) or
// `#RRGGBBAA`; any other form is rejected.
func ParseColor(s string) (Color, error) {
	if len(s) == 0 || s[0] != '#' {
		return Color{}, fmt.Errorf("scene: color %q must start with '#'", s)
	}
	hexPart := s[1:]
	switch len(hexPart) {
	case 6, 8:
	default:
		return Color{}, fmt.Errorf("scene: color %q must be #RRGGBB or #RRGGBBAA", s)
	}
	raw, err := hex.DecodeString(hexPart)
	if err != nil {
		return Color{}, fmt.Errorf("scene: color %q is not valid hex: %w", s, err)
	}
	c := Color{R: raw[0], G: raw[1], B: raw[2], A: 0xFF}
	if len(raw) == 4 {
		c.A = raw[3]
	}
	return c, nil
}

// LerpColor linearly interpolates each channel between a and b by u in [0,1].
func LerpColor(a, b Color, u float64) Color {
	return Color{
		R: lerpByte(a.R, b.R, u),
		G: lerpByte(a.G, b.G, u),
		B: lerpByte(a.B, b.B, u),
		A: lerpByte(a.A, b.A, u),
	}
}

func lerpByte(a, b uint8, u float64) uint8 {
	v := float64(a) + (float64(b)-float64(a))*u
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v + 0.5)
}

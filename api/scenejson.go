/*
DESCRIPTION
  scenejson.go decodes the JSON form of a scene component tree used by
  scene-spec files (see scenewatch.go) and, optionally, by a JSON-over-
  HTTP control plane's update-scene operation. The wire schema itself is
  outside this engine's scope (spec section 6 places the control plane's
  wire protocol at the interface boundary); this is one reasonable
  encoding of scene.Component's discriminated-union shape, modeled on the
  kind-tag-plus-fields style original_source/compositor_render's
  from_component.rs deserializer uses.

AUTHORS
  Saxon Nelson-Milton <saxon@ausocean.org>, The Australian Ocean Laboratory (AusOcean)
*/

package api

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/ausocean/compositor/scene"
	"github.com/ausocean/compositor/shader"
)

// sceneNode is the JSON shape of one scene tree node. Kind selects which
// of the remaining fields apply; unused fields for a given Kind are
// ignored.
type sceneNode struct {
	Kind string `json:"kind"`
	Id   string `json:"id"`

	Children []json.RawMessage `json:"children"`
	Child    json.RawMessage   `json:"child"`

	Top, Bottom, Left, Right, Width, Height *float64
	Rotation                                *float64

	Direction       string  `json:"direction"`
	Overflow        string  `json:"overflow"`
	BackgroundColor string  `json:"background_color"`
	BorderRadius    float64 `json:"border_radius"`
	BorderWidth     float64 `json:"border_width"`
	BorderColor     string  `json:"border_color"`
	BoxShadow       []struct {
		OffsetX, OffsetY float64
		Color            string
		BlurRadius       float64 `json:"blur_radius"`
	} `json:"box_shadow"`

	Mode            string `json:"mode"`
	HorizontalAlign string `json:"horizontal_align"`
	VerticalAlign   string `json:"vertical_align"`

	TileAspectRatio *scene.AspectRatio `json:"tile_aspect_ratio"`
	Margin          float64            `json:"margin"`
	Padding         float64            `json:"padding"`

	Text       string   `json:"text"`
	MaxWidth   *float64 `json:"max_width"`
	MaxHeight  *float64 `json:"max_height"`
	FontSize   float64  `json:"font_size"`
	LineHeight *float64 `json:"line_height"`
	Color      string   `json:"color"`
	FontFamily string   `json:"font_family"`

	ImageId    string       `json:"image_id"`
	ShaderId   string       `json:"shader_id"`
	Param      *shader.Param `json:"param"`
	ResWidth   int          `json:"resolution_width"`
	ResHeight  int          `json:"resolution_height"`
	InstanceId string       `json:"instance_id"`
	InputId    string       `json:"input_id"`

	Transition *struct {
		DurationMs int    `json:"duration_ms"`
		Easing     string `json:"easing"`
	} `json:"transition"`
}

// DecodeScene parses the JSON encoding of a scene component tree.
func DecodeScene(b []byte) (scene.Component, error) {
	var n json.RawMessage = b
	return decodeNode(n)
}

func decodeNode(raw json.RawMessage) (scene.Component, error) {
	var n sceneNode
	if err := json.Unmarshal(raw, &n); err != nil {
		return nil, fmt.Errorf("api: malformed scene node: %w", err)
	}

	pos := scene.Position{
		Top: n.Top, Bottom: n.Bottom, Left: n.Left, Right: n.Right,
		Width: n.Width, Height: n.Height, Rotation: n.Rotation,
	}
	trans, err := n.decodeTransition()
	if err != nil {
		return nil, err
	}

	switch n.Kind {
	case "view":
		children, err := decodeChildren(n.Children)
		if err != nil {
			return nil, err
		}
		bg, err := parseColorOrZero(n.BackgroundColor)
		if err != nil {
			return nil, err
		}
		bc, err := parseColorOrZero(n.BorderColor)
		if err != nil {
			return nil, err
		}
		shadows, err := n.decodeBoxShadow()
		if err != nil {
			return nil, err
		}
		return &scene.View{
			Id: scene.ComponentId(n.Id), Children: children, Pos: pos,
			Direction: decodeDirection(n.Direction), Transition: trans,
			Overflow: decodeOverflow(n.Overflow), BackgroundColor: bg,
			BorderRadius: n.BorderRadius, BorderWidth: n.BorderWidth, BorderColor: bc,
			BoxShadow: shadows,
		}, nil

	case "rescaler":
		var child scene.Component
		if len(n.Child) > 0 {
			child, err = decodeNode(n.Child)
			if err != nil {
				return nil, err
			}
		}
		bc, err := parseColorOrZero(n.BorderColor)
		if err != nil {
			return nil, err
		}
		shadows, err := n.decodeBoxShadow()
		if err != nil {
			return nil, err
		}
		return &scene.Rescaler{
			Id: scene.ComponentId(n.Id), Child: child, Mode: decodeRescaleMode(n.Mode),
			HorizontalAlign: decodeHAlign(n.HorizontalAlign), VerticalAlign: decodeVAlign(n.VerticalAlign),
			Pos: pos, Transition: trans, BorderRadius: n.BorderRadius, BorderWidth: n.BorderWidth,
			BorderColor: bc, BoxShadow: shadows,
		}, nil

	case "tiles":
		children, err := decodeChildren(n.Children)
		if err != nil {
			return nil, err
		}
		bg, err := parseColorOrZero(n.BackgroundColor)
		if err != nil {
			return nil, err
		}
		ar := scene.AspectRatio{W: 1, H: 1}
		if n.TileAspectRatio != nil {
			ar = *n.TileAspectRatio
		}
		return &scene.Tiles{
			Id: scene.ComponentId(n.Id), Children: children, Pos: pos, BackgroundColor: bg,
			TileAspectRatio: ar, Margin: n.Margin, Padding: n.Padding,
			HorizontalAlign: decodeHAlign(n.HorizontalAlign), VerticalAlign: decodeVAlign(n.VerticalAlign),
			Transition: trans, BorderRadius: n.BorderRadius,
		}, nil

	case "text":
		color, err := parseColorOrZero(n.Color)
		if err != nil {
			return nil, err
		}
		bg, err := parseColorOrZero(n.BackgroundColor)
		if err != nil {
			return nil, err
		}
		return &scene.Text{
			Id: scene.ComponentId(n.Id), Text: n.Text, Width: n.Width, Height: n.Height,
			MaxWidth: n.MaxWidth, MaxHeight: n.MaxHeight, FontSize: n.FontSize, LineHeight: n.LineHeight,
			Color: color, BackgroundColor: bg, FontFamily: n.FontFamily,
			Align: decodeHAlign(n.HorizontalAlign),
		}, nil

	case "image":
		return &scene.Image{Id: scene.ComponentId(n.Id), ImageId: scene.RendererId(n.ImageId)}, nil

	case "shader":
		children, err := decodeChildren(n.Children)
		if err != nil {
			return nil, err
		}
		return &scene.Shader{
			Id: scene.ComponentId(n.Id), Children: children, ShaderId: scene.RendererId(n.ShaderId),
			Param: n.Param, Resolution: scene.Resolution{Width: n.ResWidth, Height: n.ResHeight},
		}, nil

	case "webview":
		children, err := decodeChildren(n.Children)
		if err != nil {
			return nil, err
		}
		return &scene.WebView{Id: scene.ComponentId(n.Id), Children: children, InstanceId: scene.RendererId(n.InstanceId)}, nil

	case "input_stream":
		return &scene.InputStream{Id: scene.ComponentId(n.Id), InputId: scene.InputId(n.InputId)}, nil

	default:
		return nil, fmt.Errorf("api: unknown scene node kind %q", n.Kind)
	}
}

func decodeChildren(raw []json.RawMessage) ([]scene.Component, error) {
	if raw == nil {
		return nil, nil
	}
	out := make([]scene.Component, 0, len(raw))
	for _, r := range raw {
		c, err := decodeNode(r)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, nil
}

func (n sceneNode) decodeBoxShadow() ([]scene.BoxShadow, error) {
	if n.BoxShadow == nil {
		return nil, nil
	}
	out := make([]scene.BoxShadow, 0, len(n.BoxShadow))
	for _, s := range n.BoxShadow {
		c, err := parseColorOrZero(s.Color)
		if err != nil {
			return nil, err
		}
		out = append(out, scene.BoxShadow{OffsetX: s.OffsetX, OffsetY: s.OffsetY, Color: c, BlurRadius: s.BlurRadius})
	}
	return out, nil
}

func (n sceneNode) decodeTransition() (*scene.Transition, error) {
	if n.Transition == nil {
		return nil, nil
	}
	var easing scene.Easing
	switch n.Transition.Easing {
	case "", "linear":
		easing = scene.Linear{}
	case "bounce":
		easing = scene.Bounce{}
	case "cubic_bezier":
		easing = scene.CubicBezier{X1: 0.25, Y1: 0.1, X2: 0.25, Y2: 1}
	default:
		return nil, fmt.Errorf("api: unknown easing %q", n.Transition.Easing)
	}
	return &scene.Transition{
		Duration: time.Duration(n.Transition.DurationMs) * time.Millisecond,
		Easing:   easing,
	}, nil
}

func parseColorOrZero(s string) (scene.Color, error) {
	if s == "" {
		return scene.Color{}, nil
	}
	return scene.ParseColor(s)
}

func decodeDirection(s string) scene.ViewDirection {
	if s == "column" {
		return scene.DirectionColumn
	}
	return scene.DirectionRow
}

func decodeOverflow(s string) scene.Overflow {
	switch s {
	case "visible":
		return scene.OverflowVisible
	case "fit":
		return scene.OverflowFit
	default:
		return scene.OverflowHidden
	}
}

func decodeRescaleMode(s string) scene.RescaleMode {
	if s == "fill" {
		return scene.RescaleFill
	}
	return scene.RescaleFit
}

func decodeHAlign(s string) scene.HorizontalAlign {
	switch s {
	case "left":
		return scene.HAlignLeft
	case "right":
		return scene.HAlignRight
	default:
		return scene.HAlignCenter
	}
}

func decodeVAlign(s string) scene.VerticalAlign {
	switch s {
	case "top":
		return scene.VAlignTop
	case "bottom":
		return scene.VAlignBottom
	default:
		return scene.VAlignCenter
	}
}

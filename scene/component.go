/*
DESCRIPTION
  component.go defines the declarative component tree a scene update
  supplies, per spec section 4.2. Each variant is a concrete struct
  implementing Component; Flatten walks the tree built from these.

AUTHORS
  Saxon Nelson-Milton <saxon@ausocean.org>, The Australian Ocean Laboratory (AusOcean)
*/

package scene

import "github.com/ausocean/compositor/shader"

// ComponentId identifies a component across successive scene updates,
// the key a Transition's previous-state lookup uses. The empty id
// means "does not participate in transitions".
type ComponentId string

// InputId names a registered input stream, addressed by InputStream
// components and resolved to a ChildNode index during flattening.
type InputId string

// RendererId names a registered image, shader, or web-renderer
// instance.
type RendererId string

// Resolution is a pixel width/height pair.
type Resolution struct {
	Width, Height int
}

// Component is implemented by every node of the scene tree.
type Component interface {
	// ComponentID returns the component's id, or "" if it has none.
	ComponentID() ComponentId
}

// Positioned is implemented by components that carry the absolute/static
// positioning fields common to layout-participating components.
type Positioned interface {
	Component
	position() Position
	transition() *Transition
}

// Position holds the raw optional positioning fields as declared by the
// user; exactly the fields set determine whether a component is
// absolutely or statically positioned (see position.go).
type Position struct {
	Width, Height                *float64
	Top, Bottom, Left, Right     *float64
	Rotation                     *float64
}

// Overflow controls how a View clips or rescales content that doesn't
// fit its bounds.
type Overflow int

const (
	OverflowHidden Overflow = iota // zero value is the documented default
	OverflowVisible
	OverflowFit
)

// ViewDirection selects the main axis along which a View lays out its
// statically-positioned children.
type ViewDirection int

const (
	DirectionRow ViewDirection = iota
	DirectionColumn
)

// RescaleMode selects how a Rescaler fits its single child.
type RescaleMode int

const (
	RescaleFit RescaleMode = iota
	RescaleFill
)

// HorizontalAlign and VerticalAlign select which edge absorbs slack
// space in a Rescaler or Tiles layout.
type HorizontalAlign int
type VerticalAlign int

const (
	HAlignCenter HorizontalAlign = iota
	HAlignLeft
	HAlignRight
)

const (
	VAlignCenter VerticalAlign = iota
	VAlignTop
	VAlignBottom
)

// AspectRatio is a tile aspect ratio expressed as integer width:height.
type AspectRatio struct {
	W, H int
}

// BoxShadow is one shadow emitted behind its owning layout.
type BoxShadow struct {
	OffsetX, OffsetY float64
	Color            Color
	BlurRadius       float64
}

// View is a container: lays out statically-positioned children along
// Direction, or honors absolute positioning per child.
type View struct {
	Id              ComponentId
	Children        []Component
	Pos             Position
	Direction       ViewDirection
	Transition      *Transition
	Overflow        Overflow
	BackgroundColor Color
	BorderRadius    float64
	BorderWidth     float64
	BorderColor     Color
	BoxShadow       []BoxShadow
}

func (c *View) ComponentID() ComponentId { return c.Id }
func (c *View) position() Position       { return c.Pos }
func (c *View) transition() *Transition  { return c.Transition }

// Rescaler resizes its single child to fit or fill its own bounds.
type Rescaler struct {
	Id              ComponentId
	Child           Component
	Mode            RescaleMode
	HorizontalAlign HorizontalAlign
	VerticalAlign   VerticalAlign
	Pos             Position
	Transition      *Transition
	BorderRadius    float64
	BorderWidth     float64
	BorderColor     Color
	BoxShadow       []BoxShadow
}

func (c *Rescaler) ComponentID() ComponentId { return c.Id }
func (c *Rescaler) position() Position       { return c.Pos }
func (c *Rescaler) transition() *Transition  { return c.Transition }

// Tiles solves a grid layout over its children.
type Tiles struct {
	Id              ComponentId
	Children        []Component
	Pos             Position
	BackgroundColor Color
	TileAspectRatio AspectRatio
	Margin          float64
	Padding         float64
	HorizontalAlign HorizontalAlign
	VerticalAlign   VerticalAlign
	Transition      *Transition
	BorderRadius    float64
}

func (c *Tiles) ComponentID() ComponentId { return c.Id }
func (c *Tiles) position() Position       { return c.Pos }
func (c *Tiles) transition() *Transition  { return c.Transition }

// TextStyle and TextWeight mirror the rasterizer's font selection
// knobs; the rasterizer itself is external (spec section 4.2).
type TextStyle int
type TextWeight int

const (
	StyleNormal TextStyle = iota
	StyleItalic
	StyleOblique
)

const (
	WeightNormal TextWeight = iota
	WeightThin
	WeightExtraLight
	WeightLight
	WeightMedium
	WeightSemiBold
	WeightBold
	WeightExtraBold
	WeightBlack
)

// TextWrapMode selects how a Text component wraps overflowing text.
type TextWrapMode int

const (
	WrapNone TextWrapMode = iota
	WrapGlyph
	WrapWord
)

// Text is sized by (width,height) | (width,max_height) |
// (max_width,max_height); supplying height without width is a
// validation error.
type Text struct {
	Id              ComponentId
	Text            string
	Width, Height   *float64
	MaxWidth        *float64
	MaxHeight       *float64
	FontSize        float64
	LineHeight      *float64
	Color           Color
	BackgroundColor Color
	FontFamily      string
	Style           TextStyle
	Align           HorizontalAlign
	Wrap            TextWrapMode
	Weight          TextWeight
}

func (c *Text) ComponentID() ComponentId { return c.Id }

// Image resolves identity-only to an externally-registered texture.
type Image struct {
	Id      ComponentId
	ImageId RendererId
}

func (c *Image) ComponentID() ComponentId { return c.Id }

// Shader executes a WGSL fragment shader at Resolution; Children
// become input textures. Param is carried as declared: scene.Validate
// does not check it against the shader's user uniform block, which is
// what shader.Validate checks when given the shader's Module.
type Shader struct {
	Id         ComponentId
	Children   []Component
	ShaderId   RendererId
	Param      *shader.Param
	Resolution Resolution
}

func (c *Shader) ComponentID() ComponentId { return c.Id }

// WebView is identity-only: children become embedded sub-textures
// composited by an external web renderer. At most one component in a
// scene may reference a given InstanceId.
type WebView struct {
	Id         ComponentId
	Children   []Component
	InstanceId RendererId
}

func (c *WebView) ComponentID() ComponentId { return c.Id }

// InputStream is a leaf whose texture is the current frame of the
// named input.
type InputStream struct {
	Id      ComponentId
	InputId InputId
}

func (c *InputStream) ComponentID() ComponentId { return c.Id }

// children returns a component's child list, or nil for leaves and for
// Rescaler (exposed via its own Child field instead).
func children(c Component) []Component {
	switch v := c.(type) {
	case *View:
		return v.Children
	case *Tiles:
		return v.Children
	case *Shader:
		return v.Children
	case *WebView:
		return v.Children
	case *Rescaler:
		if v.Child == nil {
			return nil
		}
		return []Component{v.Child}
	default:
		return nil
	}
}

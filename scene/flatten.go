/*
DESCRIPTION
  flatten.go implements Flatten: the post-order walk that lowers a
  component tree into an ordered []RenderLayout in output coordinates,
  per spec section 4.2. Grounded on
  original_source/compositor_render/src/transformations/layout/flatten.rs
  for the box-shadow-before-content ordering and final-pass rules;
  simplified from that file's bottom-up per-child re-projection
  (inner_flatten/flatten_child) to direct top-down absolute placement,
  since View/Rescaler/Tiles/Text/Image/Shader/WebView/InputStream in
  this tree carry no independent position fields of their own (only
  View/Rescaler/Tiles do, per component.go) — a leaf's absolute box is
  always inherited from its parent's layout algorithm, so there is
  nothing to re-project once computed top-down. The documented
  approximation in rotation accumulation (summed, not matrix-composed)
  is unaffected by this simplification.

AUTHORS
  Saxon Nelson-Milton <saxon@ausocean.org>, The Australian Ocean Laboratory (AusOcean)
*/

package scene

import (
	"reflect"
	"time"
)

// State is the scene engine's memory across successive Flatten calls:
// the previous scene's concrete layout per component id, and any
// transitions currently in flight.
type State struct {
	Layouts     map[ComponentId]RenderLayout
	Transitions map[ComponentId]*ActiveTransition
}

// NewState returns an empty State, as if no scene had ever been
// flattened.
func NewState() State {
	return State{Layouts: map[ComponentId]RenderLayout{}, Transitions: map[ComponentId]*ActiveTransition{}}
}

// Flatten lowers root into an ordered []RenderLayout at wall-clock
// time now, using and updating prev to drive transitions. It returns
// the render layout list and the State to pass to the next Flatten
// call.
func Flatten(root Component, resolution Resolution, prev State, now time.Time) ([]RenderLayout, State) {
	f := &flattener{
		resolution: resolution,
		prev:       prev,
		now:        now,
		next:       NewState(),
	}
	rootBox := Box{Width: float64(resolution.Width), Height: float64(resolution.Height)}
	shadows, rest := f.flattenNode(root, rootBox, 0, nil, IdentityAffine2D())
	all := append(shadows, rest...)

	out := make([]RenderLayout, 0, len(all))
	for _, l := range all {
		l = fixFinalRenderLayout(l)
		if shouldRender(l, resolution) {
			out = append(out, l)
		}
	}

	// Cancel any in-flight transition whose target no longer exists.
	for id := range f.next.Transitions {
		if _, ok := f.next.Layouts[id]; !ok {
			delete(f.next.Transitions, id)
		}
	}

	return out, f.next
}

type flattener struct {
	resolution Resolution
	prev       State
	now        time.Time
	next       State
	childIndex int
}

// flattenNode returns (ownBoxShadows, rest) where rest is
// [ownLayout] ++ childrenBoxShadows ++ childrenSubtrees, matching
// flatten.rs's (shadow, layouts) split. affine is the cumulative
// ancestor scale transform (see affine.go), used to keep radius/blur
// fields consistent under nested rescaling.
func (f *flattener) flattenNode(c Component, box Box, rotation float64, masks []Mask, affine Affine2D) ([]RenderLayout, []RenderLayout) {
	if p, ok := c.(Positioned); ok {
		if pos := p.position(); pos.Rotation != nil {
			rotation += *pos.Rotation
		}
	}

	layout, childBoxes, childMasks, childAffine, shadows := f.renderSelf(c, box, rotation, masks, affine)

	var childShadows, childRest []RenderLayout
	kids := children(c)
	for i, child := range kids {
		s, r := f.flattenNode(child, childBoxes[i], rotation, childMasks, childAffine)
		childShadows = append(childShadows, s...)
		childRest = append(childRest, r...)
	}

	rest := append([]RenderLayout{}, layout)
	rest = append(rest, childShadows...)
	rest = append(rest, childRest...)

	f.recordTransitionTarget(c, layout)

	return shadows, rest
}

// recordTransitionTarget stashes layout for the next Flatten call, and
// starts or continues an ActiveTransition when the component's id was
// present in the previous scene and carries a Transition.
func (f *flattener) recordTransitionTarget(c Component, layout RenderLayout) {
	id := c.ComponentID()
	if id == "" {
		return
	}
	f.next.Layouts[id] = layout

	p, ok := c.(Positioned)
	if !ok || p.transition() == nil {
		return
	}
	prevLayout, existed := f.prev.Layouts[id]
	if !existed {
		return // id is new to this scene: starts already finished, nothing to record
	}
	if active, ok := f.prev.Transitions[id]; ok {
		f.next.Transitions[id] = active
		return
	}
	if layoutsEqual(prevLayout, layout) {
		return // supplemented feature 3: skip building state for a no-op update
	}
	f.next.Transitions[id] = &ActiveTransition{Start: f.now, Transition: *p.transition(), From: prevLayout}
}

// renderLayoutAt applies any in-flight transition for c's id before
// returning the final RenderLayout used both for output and as next
// scene's "previous" state.
func (f *flattener) renderLayoutAt(c Component, layout RenderLayout) RenderLayout {
	id := c.ComponentID()
	if id == "" {
		return layout
	}
	active, ok := f.prev.Transitions[id]
	if !ok {
		return layout
	}
	u := active.Progress(f.now)
	if u >= 1 {
		return layout
	}
	return InterpolateLayout(active.From, layout, u)
}

func layoutsEqual(a, b RenderLayout) bool {
	a.id, b.id = "", ""
	return reflect.DeepEqual(a, b)
}

// renderSelf computes c's own RenderLayout (after any in-flight
// transition is applied), its own box-shadow layouts, and the boxes,
// masks, and cumulative affine transform its children will be
// flattened within.
func (f *flattener) renderSelf(c Component, box Box, rotation float64, masks []Mask, affine Affine2D) (RenderLayout, []Box, []Mask, Affine2D, []RenderLayout) {
	scale := affine.UnifiedScale()

	switch v := c.(type) {
	case *View:
		layout := RenderLayout{
			Box: box, RotationDegrees: rotation, BorderRadius: v.BorderRadius * scale,
			Masks: masks, id: v.Id,
			Content: RenderLayoutContent{Kind: ContentColor, Color: v.BackgroundColor, BorderColor: v.BorderColor, BorderWidth: v.BorderWidth * scale},
		}
		layout = f.renderLayoutAt(c, layout)
		childMasks := masks
		if v.Overflow == OverflowHidden {
			childMasks = append(append([]Mask{}, masks...), Mask{Box: box, BorderRadius: v.BorderRadius * scale})
		}
		childBoxes, childScale := layoutViewChildren(v, box)
		childAffine := affine.Compose(NewAffine2D(childScale, childScale, 0, 0))
		return layout, childBoxes, childMasks, childAffine, f.ownBoxShadows(v.BoxShadow, box, masks, scale)

	case *Rescaler:
		layout := RenderLayout{
			Box: box, RotationDegrees: rotation, BorderRadius: v.BorderRadius * scale,
			Masks: masks, id: v.Id,
			Content: RenderLayoutContent{Kind: ContentColor, BorderColor: v.BorderColor, BorderWidth: v.BorderWidth * scale},
		}
		layout = f.renderLayoutAt(c, layout)
		childBox, extraMask, childScale := layoutRescalerChild(v, box)
		childMasks := masks
		if extraMask != nil {
			childMasks = append(append([]Mask{}, masks...), *extraMask)
		}
		var childBoxes []Box
		if v.Child != nil {
			childBoxes = []Box{childBox}
		}
		childAffine := affine.Compose(NewAffine2D(childScale, childScale, 0, 0))
		return layout, childBoxes, childMasks, childAffine, f.ownBoxShadows(v.BoxShadow, box, masks, scale)

	case *Tiles:
		layout := RenderLayout{
			Box: box, RotationDegrees: rotation, BorderRadius: v.BorderRadius * scale,
			Masks: masks, id: v.Id,
			Content: RenderLayoutContent{Kind: ContentColor, Color: v.BackgroundColor},
		}
		layout = f.renderLayoutAt(c, layout)
		return layout, layoutTilesChildren(v, box), masks, affine, nil

	default:
		// Text, Image, Shader, WebView, InputStream: identity leaves
		// whose texture is addressed by sequential occurrence index.
		idx := f.childIndex
		f.childIndex++
		layout := RenderLayout{
			Box: box, RotationDegrees: rotation, Masks: masks, id: c.ComponentID(),
			Content: RenderLayoutContent{Kind: ContentChildNode, Index: idx},
		}
		layout = f.renderLayoutAt(c, layout)
		return layout, childBoxesForLeaf(c, box), masks, affine, nil
	}
}

// childBoxesForLeaf returns the child boxes for leaves that can still
// carry children of their own (Shader, WebView): their children occupy
// the same box, each becoming an additional input texture.
func childBoxesForLeaf(c Component, box Box) []Box {
	n := len(children(c))
	if n == 0 {
		return nil
	}
	boxes := make([]Box, n)
	for i := range boxes {
		boxes[i] = box
	}
	return boxes
}

// ownBoxShadows renders one ContentBoxShadow layout per entry in
// shadows, offset from box and using the parent's own masks (a
// box shadow is not clipped by the component it belongs to). scale is
// the cumulative ancestor rescale factor, applied to BlurRadius for
// the same reason it's applied to BorderRadius/BorderWidth.
func (f *flattener) ownBoxShadows(shadows []BoxShadow, box Box, masks []Mask, scale float64) []RenderLayout {
	out := make([]RenderLayout, 0, len(shadows))
	for _, s := range shadows {
		out = append(out, RenderLayout{
			Box:   Box{Top: box.Top + s.OffsetY, Left: box.Left + s.OffsetX, Width: box.Width, Height: box.Height},
			Masks: masks,
			Content: RenderLayoutContent{
				Kind: ContentBoxShadow, Color: s.Color, BlurRadius: s.BlurRadius * scale,
			},
		})
	}
	return out
}

// fixFinalRenderLayout applies flatten's final pass: border widths in
// (0,1) clamp to 0, and masks that fully enclose the layout are
// dropped.
func fixFinalRenderLayout(l RenderLayout) RenderLayout {
	if l.Content.Kind == ContentColor || l.Content.Kind == ContentChildNode {
		if l.Content.BorderWidth > 0 && l.Content.BorderWidth < 1 {
			l.Content.BorderWidth = 0
		}
	}
	kept := l.Masks[:0:0]
	for _, m := range l.Masks {
		if maskEncloses(m, l) {
			continue
		}
		kept = append(kept, m)
	}
	l.Masks = kept
	return l
}

func maskEncloses(m Mask, l RenderLayout) bool {
	return m.Top <= l.Top && m.Left <= l.Left &&
		m.Left+m.Width >= l.Left+l.Width && m.Top+m.Height >= l.Top+l.Height
}

// shouldRender decides whether layout affects the output, per
// flatten.rs's should_render: zero/negative size, fully outside the
// output, or (for a Color layout) fully transparent with no visible
// border is culled.
func shouldRender(l RenderLayout, resolution Resolution) bool {
	if l.Width <= 0 || l.Height <= 0 {
		return false
	}
	if l.Top > float64(resolution.Height) || l.Left > float64(resolution.Width) {
		return false
	}
	if l.Content.Kind == ContentColor && !l.Content.Color.Opaque() && l.Content.BorderWidth <= 0 {
		return false
	}
	if l.Content.Kind == ContentBoxShadow && !l.Content.Color.Opaque() {
		return false
	}
	return true
}

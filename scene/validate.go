/*
DESCRIPTION
  validate.go implements Tier 1 (user-input) validation for the scene
  tree: absolute positioning conflicts, Text's height-without-width
  rule, and WebView instance-id uniqueness, per spec section 4.2 and
  the error taxonomy of section 7.

AUTHORS
  Saxon Nelson-Milton <saxon@ausocean.org>, The Australian Ocean Laboratory (AusOcean)
*/

package scene

import "fmt"

// ValidationError is a structured, human-readable Tier 1 error naming
// the offending field path; it is never fatal to the owning process.
type ValidationError struct {
	Path   string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("scene: %s: %s", e.Path, e.Reason)
}

func fieldErr(path, reason string) *ValidationError {
	return &ValidationError{Path: path, Reason: reason}
}

// Validate walks root and rejects any component whose declared fields
// violate a structural rule: conflicting absolute-positioning edges,
// Text's height-without-width, or more than one component referencing
// the same WebView instance id.
func Validate(root Component) error {
	webViewInstances := map[RendererId]bool{}
	return validateNode(root, "root", webViewInstances)
}

func validateNode(c Component, path string, webViewInstances map[RendererId]bool) error {
	if p, ok := c.(Positioned); ok {
		if err := ValidatePosition(p.position()); err != nil {
			err.Path = path + "." + err.Path
			return err
		}
	}

	switch v := c.(type) {
	case *Text:
		if v.Height != nil && v.Width == nil {
			return fieldErr(path, "height may not be set without width")
		}
	case *WebView:
		if webViewInstances[v.InstanceId] {
			return fieldErr(path, fmt.Sprintf("web renderer instance %q is already referenced by another component in this scene", v.InstanceId))
		}
		webViewInstances[v.InstanceId] = true
	}

	for i, child := range children(c) {
		if err := validateNode(child, fmt.Sprintf("%s.children[%d]", path, i), webViewInstances); err != nil {
			return err
		}
	}
	return nil
}

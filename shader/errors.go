/*
DESCRIPTION
  errors.go defines the structured, path-carrying validation error the
  shader parameter validator returns, per spec section 4.2.1's error
  taxonomy.

AUTHORS
  Saxon Nelson-Milton <saxon@ausocean.org>, The Australian Ocean Laboratory (AusOcean)
*/

package shader

import "fmt"

// ValidationError names the offending path (e.g. "struct.field[2]")
// and what was wrong with it.
type ValidationError struct {
	Path   string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Path == "" {
		return e.Reason
	}
	return fmt.Sprintf("shader: %s: %s", e.Path, e.Reason)
}

func errAt(path, format string, args ...interface{}) *ValidationError {
	return &ValidationError{Path: path, Reason: fmt.Sprintf(format, args...)}
}

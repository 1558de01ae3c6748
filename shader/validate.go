/*
DESCRIPTION
  validate.go implements the shader parameter validator of spec section
  4.2.1: structural equivalence between a Shader component's declared
  Param tree and the compiled module's user uniform Type, plus the
  module-level checks (vertex entrypoint shape, uniform-not-storage).

AUTHORS
  Saxon Nelson-Milton <saxon@ausocean.org>, The Australian Ocean Laboratory (AusOcean)
*/

package shader

import "fmt"

// Validate checks param against module per spec section 4.2.1's rules.
// It returns a *ValidationError naming the offending path, or nil.
func Validate(param Param, module Module) error {
	if module.UserUniformIsStorage {
		return errAt("", "user uniform binding must be declared uniform, not storage")
	}
	if !typesEqual(module.VertexInput, VertexInputHeader) {
		return errAt("vs_main", "vertex input type does not match the shader header's vertex input")
	}
	return validateParam("param", param, module.UserUniform)
}

func validateParam(path string, p Param, t Type) error {
	if t.rejected() {
		return errAt(path, "type is not allowed in a user parameter block")
	}

	switch t.Kind {
	case KindScalar:
		return validateScalarParam(path, p, t.Scalar)

	case KindVector:
		if p.Kind != ParamList {
			return errAt(path, "expected a %d-element vector", t.VecLen)
		}
		if len(p.List) != t.VecLen {
			return errAt(path, "vector length %d does not match declared length %d", len(p.List), t.VecLen)
		}
		elemType := Type{Kind: KindScalar, Scalar: t.Scalar}
		for i, elem := range p.List {
			if err := validateParam(indexPath(path, i), elem, elemType); err != nil {
				return err
			}
		}
		return nil

	case KindMatrix:
		if p.Kind != ParamList {
			return errAt(path, "expected a %d-row matrix", t.MatRows)
		}
		if len(p.List) != t.MatRows {
			return errAt(path, "matrix row count %d does not match declared row count %d", len(p.List), t.MatRows)
		}
		rowType := Type{Kind: KindVector, Scalar: t.Scalar, VecLen: t.MatCols}
		for i, row := range p.List {
			if err := validateParam(indexPath(path, i), row, rowType); err != nil {
				return err
			}
		}
		return nil

	case KindArray:
		if t.Size < 0 {
			return errAt(path, "dynamically-sized arrays are not allowed in a user parameter block")
		}
		if p.Kind != ParamList {
			return errAt(path, "expected a list of at most %d elements", t.Size)
		}
		if len(p.List) > t.Size {
			return errAt(path, "array length %d exceeds declared size %d", len(p.List), t.Size)
		}
		for i, elem := range p.List {
			if err := validateParam(indexPath(path, i), elem, *t.Elem); err != nil {
				return err
			}
		}
		return nil

	case KindStruct:
		if p.Kind != ParamStruct {
			return errAt(path, "expected a struct")
		}
		if len(p.Struct) != len(t.Fields) {
			return errAt(path, "field count %d does not match declared field count %d", len(p.Struct), len(t.Fields))
		}
		for i, f := range t.Fields {
			pf := p.Struct[i]
			if pf.FieldName != f.Name {
				return errAt(path, "field %d is named %q, want %q (ordered field names must match)", i, pf.FieldName, f.Name)
			}
			if err := validateParam(fieldPath(path, f.Name), pf.Value, f.Type); err != nil {
				return err
			}
		}
		return nil

	default:
		return errAt(path, "unsupported type kind")
	}
}

func validateScalarParam(path string, p Param, want ScalarKind) error {
	var ok bool
	switch want {
	case F32:
		ok = p.Kind == ParamF32
	case U32:
		ok = p.Kind == ParamU32
	case I32:
		ok = p.Kind == ParamI32
	}
	if !ok {
		return errAt(path, "expected a %s value", want)
	}
	return nil
}

// typesEqual recursively compares two Types for structural equivalence,
// used only for the fixed vertex-input-header check (no Param side).
func typesEqual(a, b Type) bool {
	if a.Kind != b.Kind {
		return false
	}
	switch a.Kind {
	case KindScalar:
		return a.Scalar == b.Scalar
	case KindVector:
		return a.Scalar == b.Scalar && a.VecLen == b.VecLen
	case KindMatrix:
		return a.Scalar == b.Scalar && a.MatRows == b.MatRows && a.MatCols == b.MatCols
	case KindArray:
		if a.Size != b.Size {
			return false
		}
		if (a.Elem == nil) != (b.Elem == nil) {
			return false
		}
		if a.Elem == nil {
			return true
		}
		return typesEqual(*a.Elem, *b.Elem)
	case KindStruct:
		if len(a.Fields) != len(b.Fields) {
			return false
		}
		for i := range a.Fields {
			if a.Fields[i].Name != b.Fields[i].Name {
				return false
			}
			if !typesEqual(a.Fields[i].Type, b.Fields[i].Type) {
				return false
			}
		}
		return true
	default:
		return true
	}
}

func indexPath(base string, i int) string { return fmt.Sprintf("%s[%d]", base, i) }
func fieldPath(base, name string) string  { return fmt.Sprintf("%s.%s", base, name) }

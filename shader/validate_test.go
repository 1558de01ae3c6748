/*
DESCRIPTION
  validate_test.go provides testing for functionality in validate.go.

AUTHORS
  Saxon Nelson-Milton <saxon@ausocean.org>, The Australian Ocean Laboratory (AusOcean)
*/

package shader

import "testing"

func validModule(userUniform Type) Module {
	return Module{UserUniform: userUniform, VertexInput: VertexInputHeader}
}

func TestValidateScalarMatch(t *testing.T) {
	cases := []struct {
		name    string
		param   Param
		want    ScalarKind
		wantErr bool
	}{
		{"f32 ok", Param{Kind: ParamF32, F32: 1.5}, F32, false},
		{"u32 ok", Param{Kind: ParamU32, U32: 1}, U32, false},
		{"i32 ok", Param{Kind: ParamI32, I32: -1}, I32, false},
		{"f32 mismatch", Param{Kind: ParamU32}, F32, true},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			m := validModule(Type{Kind: KindScalar, Scalar: c.want})
			err := Validate(c.param, m)
			if (err != nil) != c.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, c.wantErr)
			}
		})
	}
}

func TestValidateVectorLength(t *testing.T) {
	m := validModule(Type{Kind: KindVector, Scalar: F32, VecLen: 3})
	ok := Param{Kind: ParamList, List: []Param{
		{Kind: ParamF32, F32: 1}, {Kind: ParamF32, F32: 2}, {Kind: ParamF32, F32: 3},
	}}
	if err := Validate(ok, m); err != nil {
		t.Errorf("unexpected error: %v", err)
	}

	short := Param{Kind: ParamList, List: []Param{{Kind: ParamF32, F32: 1}}}
	if err := Validate(short, m); err == nil {
		t.Errorf("expected an error for a vector of the wrong length")
	}
}

func TestValidateMatrixRecurses(t *testing.T) {
	m := validModule(Type{Kind: KindMatrix, Scalar: F32, MatRows: 2, MatCols: 2})
	row := func(a, b float32) Param {
		return Param{Kind: ParamList, List: []Param{{Kind: ParamF32, F32: a}, {Kind: ParamF32, F32: b}}}
	}
	ok := Param{Kind: ParamList, List: []Param{row(1, 0), row(0, 1)}}
	if err := Validate(ok, m); err != nil {
		t.Errorf("unexpected error: %v", err)
	}

	badRow := Param{Kind: ParamList, List: []Param{row(1, 0), {Kind: ParamList, List: []Param{{Kind: ParamF32}}}}}
	if err := Validate(badRow, m); err == nil {
		t.Errorf("expected an error for a malformed row")
	}
}

func TestValidateArraySizeAndDynamicRejection(t *testing.T) {
	elem := Type{Kind: KindScalar, Scalar: U32}
	fixed := validModule(Type{Kind: KindArray, Elem: &elem, Size: 4})

	within := Param{Kind: ParamList, List: []Param{{Kind: ParamU32}, {Kind: ParamU32}}}
	if err := Validate(within, fixed); err != nil {
		t.Errorf("unexpected error for a list within the declared size: %v", err)
	}

	tooLong := Param{Kind: ParamList, List: make([]Param, 5)}
	for i := range tooLong.List {
		tooLong.List[i] = Param{Kind: ParamU32}
	}
	if err := Validate(tooLong, fixed); err == nil {
		t.Errorf("expected an error for a list exceeding the declared size")
	}

	dynamic := validModule(Type{Kind: KindArray, Elem: &elem, Size: -1})
	if err := Validate(within, dynamic); err == nil {
		t.Errorf("expected dynamically-sized arrays to be rejected")
	}
}

func TestValidateStructFieldOrderAndNames(t *testing.T) {
	structType := Type{Kind: KindStruct, Fields: []StructField{
		{Name: "a", Type: Type{Kind: KindScalar, Scalar: F32}},
		{Name: "b", Type: Type{Kind: KindScalar, Scalar: U32}},
	}}
	m := validModule(structType)

	ok := Param{Kind: ParamStruct, Struct: []ParamField{
		{FieldName: "a", Value: Param{Kind: ParamF32}},
		{FieldName: "b", Value: Param{Kind: ParamU32}},
	}}
	if err := Validate(ok, m); err != nil {
		t.Errorf("unexpected error: %v", err)
	}

	wrongOrder := Param{Kind: ParamStruct, Struct: []ParamField{
		{FieldName: "b", Value: Param{Kind: ParamU32}},
		{FieldName: "a", Value: Param{Kind: ParamF32}},
	}}
	if err := Validate(wrongOrder, m); err == nil {
		t.Errorf("expected an error when field order doesn't match")
	}

	missingField := Param{Kind: ParamStruct, Struct: []ParamField{
		{FieldName: "a", Value: Param{Kind: ParamF32}},
	}}
	if err := Validate(missingField, m); err == nil {
		t.Errorf("expected an error when field count doesn't match")
	}
}

func TestValidateRejectsDisallowedKinds(t *testing.T) {
	for _, kind := range []TypeKind{KindTexture, KindSampler, KindAtomic, KindPointer, KindRayQuery, KindBindingArray} {
		m := validModule(Type{Kind: kind})
		if err := Validate(Param{Kind: ParamF32}, m); err == nil {
			t.Errorf("expected type kind %v to be rejected", kind)
		}
	}
}

func TestValidateRejectsStorageBinding(t *testing.T) {
	m := validModule(Type{Kind: KindScalar, Scalar: F32})
	m.UserUniformIsStorage = true
	if err := Validate(Param{Kind: ParamF32}, m); err == nil {
		t.Errorf("expected a storage-space user binding to be rejected")
	}
}

func TestValidateRejectsBadVertexInput(t *testing.T) {
	m := validModule(Type{Kind: KindScalar, Scalar: F32})
	m.VertexInput = Type{Kind: KindScalar, Scalar: F32} // doesn't match VertexInputHeader
	if err := Validate(Param{Kind: ParamF32}, m); err == nil {
		t.Errorf("expected a mismatched vertex input type to be rejected")
	}
}

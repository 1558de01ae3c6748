/*
DESCRIPTION
  types.go defines the structural type tree used to validate a Shader
  component's declared parameters against its WGSL module's user
  uniform block (spec section 4.2.1). There is no WGSL parser in this
  dependency set, so Module is a structural description a shader
  registration step derives once from the compiled module (e.g. from
  wgpu-side reflection) rather than from raw source text; Validate only
  needs that structural shape, which is exactly what the spec's
  canonicalization rules operate on.

AUTHORS
  Saxon Nelson-Milton <saxon@ausocean.org>, The Australian Ocean Laboratory (AusOcean)
*/

package shader

// ScalarKind is one of the three scalar types the validator canonicalizes:
// F32<->f32, U32<->u32, I32<->i32.
type ScalarKind int

const (
	F32 ScalarKind = iota
	U32
	I32
)

func (k ScalarKind) String() string {
	switch k {
	case F32:
		return "f32"
	case U32:
		return "u32"
	case I32:
		return "i32"
	default:
		return "unknown"
	}
}

// TypeKind discriminates the structural shapes Type can take.
type TypeKind int

const (
	KindScalar TypeKind = iota
	KindVector
	KindMatrix
	KindArray
	KindStruct
	// Rejected kinds: texture inputs, samplers, atomics, pointers,
	// ray-query types, and runtime-sized binding arrays are never valid
	// inside a user parameter block.
	KindTexture
	KindSampler
	KindAtomic
	KindPointer
	KindRayQuery
	KindBindingArray
)

// StructField is one named field of a Struct type, in declaration
// order; field order is part of structural equivalence.
type StructField struct {
	Name string
	Type Type
}

// Type is the canonical structural shape of a WGSL type as exposed to
// the validator.
type Type struct {
	Kind TypeKind

	Scalar ScalarKind // KindScalar, KindVector, KindMatrix element kind

	VecLen int // KindVector length

	MatRows, MatCols int // KindMatrix shape

	Elem *Type // KindArray element type
	Size int   // KindArray declared constant length; <0 means dynamically sized

	Fields []StructField // KindStruct, ordered
}

func (t Type) rejected() bool {
	switch t.Kind {
	case KindTexture, KindSampler, KindAtomic, KindPointer, KindRayQuery, KindBindingArray:
		return true
	default:
		return false
	}
}

// Param is the parameter tree a Shader component declares, serialized
// from the scene update. Validate checks it for structural equivalence
// with a Module's user uniform Type; scene updates are accepted without
// that check.
type Param struct {
	Kind ParamKind

	F32 float32
	U32 uint32
	I32 int32

	List []Param

	Struct []ParamField
}

// ParamKind discriminates Param's variants.
type ParamKind int

const (
	ParamF32 ParamKind = iota
	ParamU32
	ParamI32
	ParamList
	ParamStruct
)

// ParamField is one named field of a Struct param.
type ParamField struct {
	FieldName string
	Value     Param
}

// Module is the structural description of a compiled shader needed by
// Validate: its user uniform type at @group(1) @binding(0), whether
// that binding is declared `uniform` (as opposed to `storage`), and
// the vertex entrypoint's single argument type.
type Module struct {
	UserUniform          Type
	UserUniformIsStorage bool
	VertexInput          Type
}

// VertexInputHeader is the fixed shader header's vertex input type
// every compiled shader's vs_main argument must be structurally
// equivalent to.
var VertexInputHeader = Type{
	Kind: KindStruct,
	Fields: []StructField{
		{Name: "position", Type: Type{Kind: KindVector, Scalar: F32, VecLen: 4}},
		{Name: "tex_coords", Type: Type{Kind: KindVector, Scalar: F32, VecLen: 2}},
	},
}

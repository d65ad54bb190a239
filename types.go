package glshade

// BaseType is the storage kind underlying a [TypeDesc].
type BaseType uint8

const (
	BaseNone BaseType = iota
	BaseBoolean
	BaseInteger
	BaseFloat
	BaseString
	BaseStruct
)

// Semantic tags the intended use of a [TypeDesc]'s values.
type Semantic uint8

const (
	SemanticNone Semantic = iota
	SemanticColor
	SemanticVector
	SemanticMatrix
	SemanticFilename
	SemanticClosure
	SemanticShader
	SemanticMaterial
)

// TypeDesc describes a value type flowing through a shading graph.
// TypeDescs are singletons: two ports have the same type if and only if
// their *TypeDesc pointers are equal.
type TypeDesc struct {
	name     string
	base     BaseType
	semantic Semantic
	size     int
	array    bool
}

var (
	TypeNone               = &TypeDesc{name: "none"}
	TypeBoolean            = &TypeDesc{name: "boolean", base: BaseBoolean, size: 1}
	TypeInteger            = &TypeDesc{name: "integer", base: BaseInteger, size: 1}
	TypeFloat              = &TypeDesc{name: "float", base: BaseFloat, size: 1}
	TypeVector2            = &TypeDesc{name: "vector2", base: BaseFloat, semantic: SemanticVector, size: 2}
	TypeVector3            = &TypeDesc{name: "vector3", base: BaseFloat, semantic: SemanticVector, size: 3}
	TypeVector4            = &TypeDesc{name: "vector4", base: BaseFloat, semantic: SemanticVector, size: 4}
	TypeColor3             = &TypeDesc{name: "color3", base: BaseFloat, semantic: SemanticColor, size: 3}
	TypeColor4             = &TypeDesc{name: "color4", base: BaseFloat, semantic: SemanticColor, size: 4}
	TypeMatrix33           = &TypeDesc{name: "matrix33", base: BaseFloat, semantic: SemanticMatrix, size: 9}
	TypeMatrix44           = &TypeDesc{name: "matrix44", base: BaseFloat, semantic: SemanticMatrix, size: 16}
	TypeString             = &TypeDesc{name: "string", base: BaseString, size: 1}
	TypeFilename           = &TypeDesc{name: "filename", base: BaseString, semantic: SemanticFilename, size: 1}
	TypeIntegerArray       = &TypeDesc{name: "integerarray", base: BaseInteger, size: 1, array: true}
	TypeFloatArray         = &TypeDesc{name: "floatarray", base: BaseFloat, size: 1, array: true}
	TypeBSDF               = &TypeDesc{name: "BSDF", base: BaseStruct, semantic: SemanticClosure, size: 1}
	TypeEDF                = &TypeDesc{name: "EDF", base: BaseStruct, semantic: SemanticClosure, size: 1}
	TypeVDF                = &TypeDesc{name: "VDF", base: BaseStruct, semantic: SemanticClosure, size: 1}
	TypeSurfaceShader      = &TypeDesc{name: "surfaceshader", base: BaseStruct, semantic: SemanticShader, size: 1}
	TypeVolumeShader       = &TypeDesc{name: "volumeshader", base: BaseStruct, semantic: SemanticShader, size: 1}
	TypeDisplacementShader = &TypeDesc{name: "displacementshader", base: BaseStruct, semantic: SemanticShader, size: 1}
	TypeLightShader        = &TypeDesc{name: "lightshader", base: BaseStruct, semantic: SemanticShader, size: 1}
	TypeMaterial           = &TypeDesc{name: "material", base: BaseStruct, semantic: SemanticMaterial, size: 1}
)

var allTypes = []*TypeDesc{
	TypeNone, TypeBoolean, TypeInteger, TypeFloat, TypeVector2, TypeVector3, TypeVector4,
	TypeColor3, TypeColor4, TypeMatrix33, TypeMatrix44, TypeString, TypeFilename,
	TypeIntegerArray, TypeFloatArray, TypeBSDF, TypeEDF, TypeVDF, TypeSurfaceShader,
	TypeVolumeShader, TypeDisplacementShader, TypeLightShader, TypeMaterial,
}

// TypeByName returns the type registered under name.
func TypeByName(name string) (*TypeDesc, bool) {
	for _, t := range allTypes {
		if t.name == name {
			return t, true
		}
	}
	return nil, false
}

// Types returns all known types in declaration order.
func Types() []*TypeDesc { return append([]*TypeDesc{}, allTypes...) }

func (t *TypeDesc) Name() string       { return t.name }
func (t *TypeDesc) String() string     { return t.name }
func (t *TypeDesc) BaseType() BaseType { return t.base }
func (t *TypeDesc) Semantic() Semantic { return t.semantic }

// Size is the number of scalar components of a single value of the type.
func (t *TypeDesc) Size() int      { return t.size }
func (t *TypeDesc) IsArray() bool  { return t.array }
func (t *TypeDesc) IsScalar() bool { return t.size == 1 && !t.array && (t.base == BaseFloat || t.base == BaseInteger || t.base == BaseBoolean) }

// IsFloat2 reports whether the type is a 2 component float vector.
func (t *TypeDesc) IsFloat2() bool { return t.isFloatN(2) }

// IsFloat3 reports whether the type is a 3 component float vector or color.
func (t *TypeDesc) IsFloat3() bool { return t.isFloatN(3) }

// IsFloat4 reports whether the type is a 4 component float vector or color.
func (t *TypeDesc) IsFloat4() bool { return t.isFloatN(4) }

func (t *TypeDesc) isFloatN(n int) bool {
	return t.base == BaseFloat && t.size == n && !t.array && t.semantic != SemanticMatrix
}

// IsClosure reports whether values of the type are light-response closures (BSDF, EDF, VDF).
func (t *TypeDesc) IsClosure() bool { return t.semantic == SemanticClosure }

// IsShader reports whether the type is one of the shader types (surface, volume, light...).
func (t *TypeDesc) IsShader() bool { return t.semantic == SemanticShader || t.semantic == SemanticMaterial }

package glshade

import (
	"errors"
	"fmt"
	"strings"

	"github.com/chewxy/math32"
	"github.com/soypat/geometry/ms2"
	"github.com/soypat/geometry/ms3"
	"golang.org/x/image/colornames"
)

// Value is a literal value of a given [TypeDesc]. The zero Value has no type
// and represents the absence of a value.
//
// Float based values (scalars, vectors, colors, matrices, float arrays) store
// their components in floats. Matrices are stored in column major order, the
// order in which shading language constructors take them.
type Value struct {
	typ    *TypeDesc
	floats []float32
	ints   []int64
	text   string
}

func FloatValue(v float32) Value { return Value{typ: TypeFloat, floats: []float32{v}} }
func IntValue(v int) Value       { return Value{typ: TypeInteger, ints: []int64{int64(v)}} }
func BoolValue(v bool) Value {
	var i int64
	if v {
		i = 1
	}
	return Value{typ: TypeBoolean, ints: []int64{i}}
}
func StringValue(s string) Value   { return Value{typ: TypeString, text: s} }
func FilenameValue(s string) Value { return Value{typ: TypeFilename, text: s} }

func Vec2Value(v ms2.Vec) Value {
	arr := v.Array()
	return Value{typ: TypeVector2, floats: arr[:]}
}

func Vec3Value(v ms3.Vec) Value {
	arr := v.Array()
	return Value{typ: TypeVector3, floats: arr[:]}
}

func Vec4Value(x, y, z, w float32) Value {
	return Value{typ: TypeVector4, floats: []float32{x, y, z, w}}
}

func Color3Value(rgb ms3.Vec) Value {
	arr := rgb.Array()
	return Value{typ: TypeColor3, floats: arr[:]}
}

func Color4Value(rgb ms3.Vec, alpha float32) Value {
	return Value{typ: TypeColor4, floats: []float32{rgb.X, rgb.Y, rgb.Z, alpha}}
}

func Mat3Value(m ms3.Mat3) Value {
	arr := m.Array()
	return Value{typ: TypeMatrix33, floats: columnMajor(arr[:], 3)}
}

func Mat4Value(m ms3.Mat4) Value {
	arr := m.Array()
	return Value{typ: TypeMatrix44, floats: columnMajor(arr[:], 4)}
}

// columnMajor transposes a row major square matrix array of dimension n.
func columnMajor(rowMajor []float32, n int) []float32 {
	out := make([]float32, n*n)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			out[j*n+i] = rowMajor[i*n+j]
		}
	}
	return out
}

func FloatArrayValue(v []float32) Value {
	return Value{typ: TypeFloatArray, floats: append([]float32{}, v...)}
}

func IntArrayValue(v []int) Value {
	ints := make([]int64, len(v))
	for i := range v {
		ints[i] = int64(v[i])
	}
	return Value{typ: TypeIntegerArray, ints: ints}
}

// ColorNameValue returns the color3 value of a named SVG 1.1 color such as "tomato".
func ColorNameValue(name string) (Value, error) {
	c, ok := colornames.Map[strings.ToLower(name)]
	if !ok {
		return Value{}, fmt.Errorf("unknown color name %q", name)
	}
	const max = 255
	return Color3Value(ms3.Vec{X: float32(c.R) / max, Y: float32(c.G) / max, Z: float32(c.B) / max}), nil
}

// IdentityValue returns the identity matrix of the matrix type t. Other
// types get their [ZeroValue].
func IdentityValue(t *TypeDesc) Value {
	if t == nil || t.semantic != SemanticMatrix {
		return ZeroValue(t)
	}
	n := 3
	if t.size == 16 {
		n = 4
	}
	floats := make([]float32, t.size)
	for i := 0; i < n; i++ {
		floats[i*n+i] = 1
	}
	return Value{typ: t, floats: floats}
}

// ZeroValue returns the zero literal of type t, or the zero Value for types
// with no literal representation (closures, shaders).
func ZeroValue(t *TypeDesc) Value {
	switch {
	case t == nil:
		return Value{}
	case t.array:
		return Value{typ: t}
	case t.base == BaseFloat:
		return Value{typ: t, floats: make([]float32, t.size)}
	case t.base == BaseInteger || t.base == BaseBoolean:
		return Value{typ: t, ints: make([]int64, 1)}
	case t.base == BaseString:
		return Value{typ: t}
	}
	return Value{}
}

// Type returns the type of the value, nil for the zero Value.
func (v Value) Type() *TypeDesc { return v.typ }

// IsValid reports whether v holds a value.
func (v Value) IsValid() bool { return v.typ != nil }

// Floats returns the float components of the value.
func (v Value) Floats() []float32 { return v.floats }

// Ints returns the integer components of the value. Booleans are stored as 0 or 1.
func (v Value) Ints() []int64 { return v.ints }

// Float returns the first float component or 0.
func (v Value) Float() float32 {
	if len(v.floats) == 0 {
		return 0
	}
	return v.floats[0]
}

// Int returns the first integer component or 0.
func (v Value) Int() int64 {
	if len(v.ints) == 0 {
		return 0
	}
	return v.ints[0]
}

func (v Value) Bool() bool   { return v.Int() != 0 }
func (v Value) Text() string { return v.text }

// Len returns the number of elements of an array value, 1 for valid non-array values.
func (v Value) Len() int {
	switch {
	case v.typ == nil:
		return 0
	case !v.typ.array:
		return 1
	case v.typ.base == BaseFloat:
		return len(v.floats)
	}
	return len(v.ints)
}

// Validate checks the value is consistent with its type and finite.
func (v Value) Validate() error {
	if v.typ == nil {
		return errors.New("value has no type")
	}
	for i, f := range v.floats {
		if math32.IsNaN(f) || math32.IsInf(f, 0) {
			return fmt.Errorf("%s value component %d is not finite: %v", v.typ.name, i, f)
		}
	}
	if !v.typ.array && v.typ.base == BaseFloat && len(v.floats) != v.typ.size {
		return fmt.Errorf("%s value want %d components, got %d", v.typ.name, v.typ.size, len(v.floats))
	}
	return nil
}

func (v Value) String() string {
	if v.typ == nil {
		return "<none>"
	}
	switch v.typ.base {
	case BaseString:
		return v.text
	case BaseBoolean:
		return fmt.Sprint(v.Bool())
	case BaseInteger:
		if !v.typ.array {
			return fmt.Sprint(v.Int())
		}
		return fmt.Sprint(v.ints)
	}
	if v.typ.size == 1 && !v.typ.array {
		return fmt.Sprint(v.Float())
	}
	return fmt.Sprint(v.floats)
}

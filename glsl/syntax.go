package glsl

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/soypat/glshade"
	"github.com/soypat/glshade/glbuild"
)

// Syntax renders types and values as GLSL 4.00 source. The zero value is ready to use.
type Syntax struct{}

var _ glbuild.Syntax = (*Syntax)(nil)

var typeNames = map[*glshade.TypeDesc]string{
	glshade.TypeNone:               "",
	glshade.TypeBoolean:            "bool",
	glshade.TypeInteger:            "int",
	glshade.TypeFloat:              "float",
	glshade.TypeVector2:            "vec2",
	glshade.TypeVector3:            "vec3",
	glshade.TypeVector4:            "vec4",
	glshade.TypeColor3:             "vec3",
	glshade.TypeColor4:             "vec4",
	glshade.TypeMatrix33:           "mat3",
	glshade.TypeMatrix44:           "mat4",
	glshade.TypeString:             "int",
	glshade.TypeFilename:           "sampler2D",
	glshade.TypeIntegerArray:       "int",
	glshade.TypeFloatArray:         "float",
	glshade.TypeBSDF:               "BSDF",
	glshade.TypeEDF:                "EDF",
	glshade.TypeVDF:                "BSDF",
	glshade.TypeSurfaceShader:      "surfaceshader",
	glshade.TypeVolumeShader:       "volumeshader",
	glshade.TypeDisplacementShader: "displacementshader",
	glshade.TypeLightShader:        "lightshader",
	glshade.TypeMaterial:           "material",
}

var defaultValues = map[*glshade.TypeDesc]string{
	glshade.TypeBoolean:            "false",
	glshade.TypeInteger:            "0",
	glshade.TypeFloat:              "0.0",
	glshade.TypeVector2:            "vec2(0.0)",
	glshade.TypeVector3:            "vec3(0.0)",
	glshade.TypeVector4:            "vec4(0.0)",
	glshade.TypeColor3:             "vec3(0.0)",
	glshade.TypeColor4:             "vec4(0.0)",
	glshade.TypeMatrix33:           "mat3(1.0)",
	glshade.TypeMatrix44:           "mat4(1.0)",
	glshade.TypeString:             "0",
	glshade.TypeBSDF:               "BSDF(vec3(0.0),vec3(1.0))",
	glshade.TypeEDF:                "EDF(0.0)",
	glshade.TypeVDF:                "BSDF(vec3(0.0),vec3(1.0))",
	glshade.TypeSurfaceShader:      "surfaceshader(vec3(0.0),vec3(0.0))",
	glshade.TypeVolumeShader:       "volumeshader(vec3(0.0),vec3(0.0))",
	glshade.TypeDisplacementShader: "displacementshader(vec3(0.0),1.0)",
	glshade.TypeLightShader:        "lightshader(vec3(0.0),vec3(0.0))",
	glshade.TypeMaterial:           "material(vec3(0.0),vec3(0.0))",
}

// TypeDefinitions returns the declarations of the closure and shader types,
// emitted at the top of the pixel stage.
func (Syntax) TypeDefinitions() []string {
	return []string{
		"struct BSDF { vec3 response; vec3 throughput; };",
		"#define EDF vec3",
		"struct surfaceshader { vec3 color; vec3 transparency; };",
		"struct volumeshader { vec3 color; vec3 transparency; };",
		"struct displacementshader { vec3 offset; float scale; };",
		"struct lightshader { vec3 intensity; vec3 direction; };",
		"#define material surfaceshader",
	}
}

func (Syntax) TypeName(t *glshade.TypeDesc) string { return typeNames[t] }

// DefaultValue renders the zero literal of t. Uniforms of struct, string,
// filename and array types have no initializer and render as "".
func (Syntax) DefaultValue(t *glshade.TypeDesc, uniform bool) string {
	if uniform && (t.BaseType() == glshade.BaseStruct || t.BaseType() == glshade.BaseString || t.IsArray()) {
		return ""
	}
	return defaultValues[t]
}

func (s Syntax) Value(t *glshade.TypeDesc, v glshade.Value, uniform bool) string {
	if !v.IsValid() {
		return s.DefaultValue(t, uniform)
	}
	switch {
	case t == glshade.TypeBoolean:
		return strconv.FormatBool(v.Bool())
	case t == glshade.TypeInteger:
		return strconv.FormatInt(v.Int(), 10)
	case t.IsArray():
		return s.arrayValue(t, v)
	case t.BaseType() == glshade.BaseFloat:
		floats := v.Floats()
		if len(floats) != t.Size() {
			return s.DefaultValue(t, uniform)
		}
		if t == glshade.TypeFloat {
			return string(glbuild.AppendFloat(nil, floats[0]))
		}
		b := append([]byte(typeNames[t]), '(')
		b = glbuild.AppendFloats(b, ", ", floats...)
		return string(append(b, ')'))
	}
	return s.DefaultValue(t, uniform)
}

func (Syntax) arrayValue(t *glshade.TypeDesc, v glshade.Value) string {
	n := v.Len()
	if n == 0 {
		return ""
	}
	b := append([]byte(typeNames[t]), '[')
	b = strconv.AppendInt(b, int64(n), 10)
	b = append(b, "]("...)
	if t.BaseType() == glshade.BaseFloat {
		b = glbuild.AppendFloats(b, ", ", v.Floats()...)
	} else {
		for i, x := range v.Ints() {
			if i > 0 {
				b = append(b, ", "...)
			}
			b = strconv.AppendInt(b, x, 10)
		}
	}
	return string(append(b, ')'))
}

func (Syntax) ArrayVariableSuffix(t *glshade.TypeDesc, v glshade.Value) string {
	if !t.IsArray() {
		return ""
	}
	return "[" + strconv.Itoa(v.Len()) + "]"
}

func swizzlable(t *glshade.TypeDesc) bool {
	return t == glshade.TypeFloat || t == glshade.TypeInteger || t.IsFloat2() || t.IsFloat3() || t.IsFloat4()
}

// SwizzledVariable renders the channels of src as a dstType expression.
// Channels are named xyzw or rgba; 0 and 1 insert constants.
func (s Syntax) SwizzledVariable(src string, srcType *glshade.TypeDesc, channels string, dstType *glshade.TypeDesc) (string, error) {
	if !swizzlable(srcType) || !swizzlable(dstType) {
		return "", fmt.Errorf("cannot swizzle %s to %s", srcType, dstType)
	} else if len(channels) != dstType.Size() {
		return "", fmt.Errorf("swizzle %q of %d channels for %s output", channels, len(channels), dstType)
	}
	const members = "xyzw"
	var swizzle strings.Builder
	args := make([]string, len(channels))
	hasConstants := false
	for i := 0; i < len(channels); i++ {
		c := channels[i]
		switch c {
		case '0', '1':
			args[i] = string(c) + ".0"
			hasConstants = true
			continue
		}
		idx := strings.IndexByte(members, c)
		if idx < 0 {
			idx = strings.IndexByte("rgba", c)
		}
		if idx < 0 {
			return "", fmt.Errorf("invalid swizzle channel %q in %q", c, channels)
		} else if idx >= srcType.Size() {
			return "", fmt.Errorf("swizzle channel %q out of range for %s", c, srcType)
		}
		if srcType.Size() == 1 {
			args[i] = src
		} else {
			args[i] = src + "." + members[idx:idx+1]
			swizzle.WriteByte(members[idx])
		}
	}
	switch {
	case len(args) == 1:
		return args[0], nil
	case !hasConstants && srcType.Size() > 1:
		return src + "." + swizzle.String(), nil
	}
	return typeNames[dstType] + "(" + strings.Join(args, ", ") + ")", nil
}

// MakeIdentifier replaces characters invalid in identifiers with underscores
// and appends "1" to reserved words, i.e: "out" becomes "out1".
func (Syntax) MakeIdentifier(name string) string {
	b := []byte(name)
	for i, c := range b {
		if !(c == '_' || c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9') {
			b[i] = '_'
		}
	}
	id := string(b)
	for strings.Contains(id, "__") {
		id = strings.ReplaceAll(id, "__", "_")
	}
	if id == "" || id[0] >= '0' && id[0] <= '9' {
		id = "v" + id
	}
	if strings.HasPrefix(id, "gl_") {
		id = "x" + id
	}
	if isReserved(id) {
		id += "1"
	}
	return id
}

func (Syntax) ConstantQualifier() string { return "const" }
func (Syntax) UniformQualifier() string  { return "uniform" }
func (Syntax) InputQualifier() string    { return "in" }
func (Syntax) OutputQualifier() string   { return "out" }
func (Syntax) FlatQualifier() string     { return "flat" }

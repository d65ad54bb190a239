package glsl

import (
	"github.com/soypat/glshade"
	"github.com/soypat/glshade/glbuild"
	"github.com/soypat/glshade/glbuild/glsllib"
	"github.com/soypat/glshade/glbuild/nodes"
)

var (
	// MathTypes are the value types of the math, conditional, image and
	// channel node families.
	MathTypes = []*glshade.TypeDesc{
		glshade.TypeFloat, glshade.TypeColor3, glshade.TypeColor4,
		glshade.TypeVector2, glshade.TypeVector3, glshade.TypeVector4,
	}
	vectorTypes = []*glshade.TypeDesc{glshade.TypeVector2, glshade.TypeVector3, glshade.TypeVector4}
)

func id(op string, types ...*glshade.TypeDesc) glshade.ImplID {
	return glshade.ImplID{Op: op, Signature: glshade.Signature(types...)}
}

func variant(op string, v glshade.Variant, types ...*glshade.TypeDesc) glshade.ImplID {
	return glshade.ImplID{Op: op, Signature: glshade.Signature(types...), Variant: v}
}

// Binary operations registered for T op T and, for non scalar T, T op float.
var binaryOps = []struct{ op, expr string }{
	{"add", "{{in1}} + {{in2}}"},
	{"subtract", "{{in1}} - {{in2}}"},
	{"multiply", "{{in1}} * {{in2}}"},
	{"divide", "{{in1}} / {{in2}}"},
	{"min", "min({{in1}}, {{in2}})"},
	{"max", "max({{in1}}, {{in2}})"},
	{"clamp", "clamp({{in}}, {{low}}, {{high}})"},
	{"mix", "mix({{bg}}, {{fg}}, {{mix}})"},
}

// Comparison operators of the if-family.
var compareOps = []struct{ op, operator string }{
	{"ifgreater", ">"},
	{"ifgreatereq", ">="},
	{"ifequal", "=="},
}

// conversions lists the from, to type pairs of the convert node.
var conversions = [][2]*glshade.TypeDesc{
	{glshade.TypeFloat, glshade.TypeColor3},
	{glshade.TypeFloat, glshade.TypeColor4},
	{glshade.TypeFloat, glshade.TypeVector2},
	{glshade.TypeFloat, glshade.TypeVector3},
	{glshade.TypeFloat, glshade.TypeVector4},
	{glshade.TypeVector2, glshade.TypeVector3},
	{glshade.TypeVector3, glshade.TypeVector2},
	{glshade.TypeVector3, glshade.TypeVector4},
	{glshade.TypeVector3, glshade.TypeColor3},
	{glshade.TypeVector4, glshade.TypeVector3},
	{glshade.TypeVector4, glshade.TypeColor4},
	{glshade.TypeColor3, glshade.TypeVector3},
	{glshade.TypeColor3, glshade.TypeColor4},
	{glshade.TypeColor4, glshade.TypeVector4},
	{glshade.TypeColor4, glshade.TypeColor3},
	{glshade.TypeBoolean, glshade.TypeFloat},
	{glshade.TypeInteger, glshade.TypeFloat},
	{glshade.TypeBoolean, glshade.TypeInteger},
}

// BSDF and EDF nodes implemented by pbrlib functions.
var closureOps = []string{
	"oren_nayar_diffuse_bsdf",
	"dielectric_bsdf",
	"conductor_bsdf",
	"generalized_schlick_bsdf",
	"sheen_bsdf",
	"uniform_edf",
}

var lightShaderOps = []string{"point_light", "directional_light", "spot_light"}

// registerLibrary registers the implementations of the standard node library.
func registerLibrary(reg *glbuild.Registry) {
	for _, t := range MathTypes {
		for _, b := range binaryOps {
			reg.Register(id(b.op, t), nodes.Inline(b.expr))
			if t != glshade.TypeFloat {
				reg.Register(id(b.op, t, glshade.TypeFloat), nodes.Inline(b.expr))
			}
		}
		reg.Register(id("constant", t), nodes.Inline("{{value}}"))
		reg.Register(id("dot", t), nodes.Inline("{{in}}"))
		reg.Register(id("image", t), nodes.NewImage)
		reg.Register(id("blur", t), nodes.NewBlur)
		reg.Register(id("geompropvalue", t), nodes.NewGeomPropValue)

		reg.Register(id("switch", t), nodes.NewSwitch)
		reg.Register(variant("switch", glshade.VariantInteger, t), nodes.NewSwitch)
		for _, c := range compareOps {
			reg.Register(id(c.op, t), nodes.NewCompare(c.operator))
			reg.Register(variant(c.op, glshade.VariantInteger, t), nodes.NewCompare(c.operator))
		}
		// GLSL orders no booleans.
		reg.Register(variant("ifequal", glshade.VariantBoolean, t), nodes.NewCompare("=="))

		for _, to := range MathTypes {
			if t == glshade.TypeFloat && to == glshade.TypeFloat {
				continue
			}
			reg.Register(id("swizzle", t, to), nodes.NewSwizzle)
		}
	}
	for _, t := range []*glshade.TypeDesc{glshade.TypeInteger, glshade.TypeBoolean} {
		reg.Register(id("constant", t), nodes.Inline("{{value}}"))
		reg.Register(id("geompropvalue", t), nodes.NewGeomPropValue)
	}
	reg.Register(id("geompropvalue", glshade.TypeString), nodes.NewGeomPropValue)
	for _, t := range vectorTypes {
		reg.Register(id("dotproduct", t), nodes.Inline("dot({{in1}}, {{in2}})"))
		reg.Register(id("normalize", t), nodes.Inline("normalize({{in}})"))
	}
	reg.Register(id("crossproduct", glshade.TypeVector3), nodes.Inline("cross({{in1}}, {{in2}})"))
	reg.Register(id("luminance", glshade.TypeColor3), nodes.Inline("vec3(dot({{in}}, {{lumacoeffs}}))"))
	reg.Register(id("luminance", glshade.TypeColor4), nodes.Inline("vec4(vec3(dot({{in}}.rgb, {{lumacoeffs}})), {{in}}.a)"))
	reg.Register(id("hsvtorgb", glshade.TypeColor3), nodes.Function("mx_hsvtorgb_color3", glsllib.HSV))
	reg.Register(id("rgbtohsv", glshade.TypeColor3), nodes.Function("mx_rgbtohsv_color3", glsllib.HSV))

	for _, c := range conversions {
		reg.Register(id("convert", c[0], c[1]), nodes.NewConvert)
	}
	for _, sig := range []glshade.ImplID{
		id("combine2", glshade.TypeVector2),
		id("combine2", glshade.TypeColor4, glshade.TypeColor3, glshade.TypeFloat),
		id("combine2", glshade.TypeVector4, glshade.TypeVector3, glshade.TypeFloat),
		id("combine2", glshade.TypeVector4, glshade.TypeVector2, glshade.TypeVector2),
		id("combine3", glshade.TypeColor3),
		id("combine3", glshade.TypeVector3),
		id("combine4", glshade.TypeColor4),
		id("combine4", glshade.TypeVector4),
	} {
		reg.Register(sig, nodes.NewCombine)
	}

	for _, op := range []string{"position", "normal", "tangent", "bitangent"} {
		reg.Register(id(op, glshade.TypeVector3), nodes.NewGeometric(op))
	}
	reg.Register(id("texcoord", glshade.TypeVector2), nodes.NewTexcoord)
	reg.Register(id("texcoord", glshade.TypeVector3), nodes.NewTexcoord)
	for _, t := range []*glshade.TypeDesc{glshade.TypeFloat, glshade.TypeColor3, glshade.TypeColor4} {
		reg.Register(id("geomcolor", t), nodes.NewGeomColor)
	}
	reg.Register(id("heighttonormal", glshade.TypeVector3), nodes.NewHeightToNormal)
	reg.Register(id("frame", glshade.TypeFloat), nodes.NewFrame)
	reg.Register(id("time", glshade.TypeFloat), nodes.NewTime)
	for _, kind := range []string{"point", "vector", "normal"} {
		reg.Register(id("transform"+kind, glshade.TypeVector3), nodes.NewTransform(kind))
	}

	for _, op := range closureOps {
		reg.Register(id(op), nodes.NewClosure(op))
	}
	reg.Register(id("thin_film_bsdf"), nodes.NewThinFilmBSDF)
	reg.Register(id("layer_bsdf"), nodes.NewLayer)
	reg.Register(id("surface"), nodes.NewSurface)
	reg.Register(id("light"), nodes.NewLight)
	for _, op := range lightShaderOps {
		reg.Register(id(op), nodes.NewLightShader(op))
	}
	reg.Register(numLightsDef.Impl, nodes.NewNumLights)
	reg.Register(lightSamplerDef.Impl, nodes.NewLightSampler)
}

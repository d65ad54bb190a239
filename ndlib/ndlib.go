// Package ndlib is the catalogue of node definitions of the standard node
// library: math, channel, conditional, geometric, texture, closure, surface
// and light nodes. Definitions are named after the implementation they
// resolve to, i.e: "ND_mix_color3_float" is implemented by
// ImplID{Op: "mix", Signature: "color3_float"}.
//
// Node definitions are shared and must not be modified.
package ndlib

import (
	"fmt"

	"cogentcore.org/core/ordmap"
	"github.com/soypat/geometry/ms2"
	"github.com/soypat/geometry/ms3"
	"github.com/soypat/glshade"
)

var catalogue = ordmap.New[string, *glshade.NodeDef]()

// Lookup returns the node definition named name.
func Lookup(name string) (*glshade.NodeDef, bool) {
	return catalogue.ValueByKeyTry(name)
}

// Get returns the node definition named name. It panics if there is none,
// use [Lookup] for names not known at compile time.
func Get(name string) *glshade.NodeDef {
	nd, ok := catalogue.ValueByKeyTry(name)
	if !ok {
		panic(fmt.Sprintf("ndlib: no node definition %q", name))
	}
	return nd
}

// For returns the node definition of operation op over the given types,
// i.e: For("add", glshade.TypeColor3, glshade.TypeFloat).
func For(op string, types ...*glshade.TypeDesc) (*glshade.NodeDef, bool) {
	return Lookup(glshade.ImplID{Op: op, Signature: glshade.Signature(types...)}.NodeDefName())
}

// Names returns the names of all node definitions in definition order.
func Names() []string { return catalogue.Keys() }

// Defs returns all node definitions in definition order.
func Defs() []*glshade.NodeDef { return catalogue.Values() }

func define(impl glshade.ImplID, class glshade.Classification, out *glshade.TypeDesc, inputs ...glshade.PortDef) {
	nd := &glshade.NodeDef{
		Name:    impl.NodeDefName(),
		Impl:    impl,
		Inputs:  inputs,
		Outputs: []glshade.PortDef{{Name: "out", Type: out}},
		Class:   class,
	}
	catalogue.Add(nd.Name, nd)
}

func impl(op string, types ...*glshade.TypeDesc) glshade.ImplID {
	return glshade.ImplID{Op: op, Signature: glshade.Signature(types...)}
}

func in(name string, t *glshade.TypeDesc) glshade.PortDef {
	return glshade.PortDef{Name: name, Type: t}
}

func inv(name string, v glshade.Value) glshade.PortDef {
	return glshade.PortDef{Name: name, Type: v.Type(), Value: v}
}

func uniform(name string, t *glshade.TypeDesc) glshade.PortDef {
	return glshade.PortDef{Name: name, Type: t, Uniform: true}
}

// fill returns a value of t with all channels set to x.
func fill(t *glshade.TypeDesc, x float32) glshade.Value {
	switch t {
	case glshade.TypeFloat:
		return glshade.FloatValue(x)
	case glshade.TypeVector2:
		return glshade.Vec2Value(ms2.Vec{X: x, Y: x})
	case glshade.TypeVector3:
		return glshade.Vec3Value(ms3.Vec{X: x, Y: x, Z: x})
	case glshade.TypeColor3:
		return glshade.Color3Value(ms3.Vec{X: x, Y: x, Z: x})
	case glshade.TypeVector4:
		return glshade.Vec4Value(x, x, x, x)
	case glshade.TypeColor4:
		return glshade.Color4Value(ms3.Vec{X: x, Y: x, Z: x}, x)
	case glshade.TypeInteger:
		return glshade.IntValue(int(x))
	case glshade.TypeBoolean:
		return glshade.BoolValue(x != 0)
	}
	return glshade.ZeroValue(t)
}

var (
	mathTypes = []*glshade.TypeDesc{
		glshade.TypeFloat, glshade.TypeColor3, glshade.TypeColor4,
		glshade.TypeVector2, glshade.TypeVector3, glshade.TypeVector4,
	}
	vectorTypes = []*glshade.TypeDesc{glshade.TypeVector2, glshade.TypeVector3, glshade.TypeVector4}
	// lumaCoeffs are the Rec. 709 luma coefficients in the ACEScg color space.
	lumaCoeffs = glshade.Color3Value(ms3.Vec{X: 0.2722287, Y: 0.6740818, Z: 0.0536895})
)

func init() {
	defineMath()
	defineChannels()
	defineConditionals()
	defineGeometric()
	defineShading()
}

func defineMath() {
	f := glshade.TypeFloat
	for _, t := range mathTypes {
		sigs := [][]*glshade.TypeDesc{{t}}
		if t != f {
			sigs = append(sigs, []*glshade.TypeDesc{t, f})
		}
		for _, sig := range sigs {
			second := sig[len(sig)-1]
			for _, op := range []string{"add", "subtract", "min", "max"} {
				define(impl(op, sig...), 0, t, in("in1", t), in("in2", second))
			}
			define(impl("multiply", sig...), 0, t, in("in1", t), inv("in2", fill(second, 1)))
			define(impl("divide", sig...), 0, t, in("in1", t), inv("in2", fill(second, 1)))
			define(impl("clamp", sig...), 0, t, in("in", t), inv("low", fill(second, 0)), inv("high", fill(second, 1)))
		}
		define(impl("mix", t), 0, t, in("fg", t), in("bg", t), inv("mix", fill(t, 0)))
		if t != f {
			define(impl("mix", t, f), 0, t, in("fg", t), in("bg", t), inv("mix", fill(f, 0)))
		}
		define(impl("constant", t), glshade.ClassConstant, t, in("value", t))
		define(impl("dot", t), 0, t, in("in", t))
	}
	define(impl("constant", glshade.TypeInteger), glshade.ClassConstant, glshade.TypeInteger, in("value", glshade.TypeInteger))
	define(impl("constant", glshade.TypeBoolean), glshade.ClassConstant, glshade.TypeBoolean, in("value", glshade.TypeBoolean))
	for _, t := range vectorTypes {
		define(impl("dotproduct", t), 0, f, in("in1", t), in("in2", t))
		define(impl("normalize", t), 0, t, in("in", t))
	}
	v3 := glshade.TypeVector3
	define(impl("crossproduct", v3), 0, v3, in("in1", v3), in("in2", v3))
	for _, t := range []*glshade.TypeDesc{glshade.TypeColor3, glshade.TypeColor4} {
		define(impl("luminance", t), 0, t, in("in", t), inv("lumacoeffs", lumaCoeffs))
	}
	c3 := glshade.TypeColor3
	define(impl("hsvtorgb", c3), 0, c3, in("in", c3))
	define(impl("rgbtohsv", c3), 0, c3, in("in", c3))
}

func defineChannels() {
	for _, from := range mathTypes {
		for _, to := range mathTypes {
			if from == glshade.TypeFloat && to == glshade.TypeFloat {
				continue
			}
			define(impl("swizzle", from, to), 0, to, in("in", from), in("channels", glshade.TypeString))
		}
	}
	for _, c := range [][2]*glshade.TypeDesc{
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
	} {
		define(impl("convert", c[0], c[1]), 0, c[1], in("in", c[0]))
	}

	f := glshade.TypeFloat
	define(impl("combine2", glshade.TypeVector2), 0, glshade.TypeVector2, in("in1", f), in("in2", f))
	define(impl("combine2", glshade.TypeColor4, glshade.TypeColor3, f), 0, glshade.TypeColor4, in("in1", glshade.TypeColor3), inv("in2", fill(f, 1)))
	define(impl("combine2", glshade.TypeVector4, glshade.TypeVector3, f), 0, glshade.TypeVector4, in("in1", glshade.TypeVector3), in("in2", f))
	define(impl("combine2", glshade.TypeVector4, glshade.TypeVector2, glshade.TypeVector2), 0, glshade.TypeVector4, in("in1", glshade.TypeVector2), in("in2", glshade.TypeVector2))
	for _, t := range []*glshade.TypeDesc{glshade.TypeColor3, glshade.TypeVector3} {
		define(impl("combine3", t), 0, t, in("in1", f), in("in2", f), in("in3", f))
	}
	for _, t := range []*glshade.TypeDesc{glshade.TypeColor4, glshade.TypeVector4} {
		define(impl("combine4", t), 0, t, in("in1", f), in("in2", f), in("in3", f), in("in4", f))
	}
}

func defineConditionals() {
	selectors := []struct {
		variant glshade.Variant
		t       *glshade.TypeDesc
	}{
		{glshade.VariantNone, glshade.TypeFloat},
		{glshade.VariantInteger, glshade.TypeInteger},
		{glshade.VariantBoolean, glshade.TypeBoolean},
	}
	for _, t := range mathTypes {
		for _, sel := range selectors {
			ops := []string{"ifgreater", "ifgreatereq", "ifequal"}
			if sel.variant == glshade.VariantBoolean {
				ops = ops[2:]
			}
			for _, op := range ops {
				id := glshade.ImplID{Op: op, Signature: t.Name(), Variant: sel.variant}
				define(id, 0, t, inv("value1", fill(sel.t, 1)), inv("value2", fill(sel.t, 0)), in("in1", t), in("in2", t))
			}
			if sel.variant == glshade.VariantBoolean {
				continue
			}
			id := glshade.ImplID{Op: "switch", Signature: t.Name(), Variant: sel.variant}
			define(id, 0, t, in("in1", t), in("in2", t), in("in3", t), in("in4", t), in("in5", t), in("which", sel.t))
		}
	}
}

func defineGeometric() {
	v3, s := glshade.TypeVector3, glshade.TypeString
	object := glshade.StringValue("object")
	for _, op := range []string{"position", "normal", "tangent", "bitangent"} {
		define(impl(op, v3), 0, v3, inv("space", object))
	}
	for _, t := range []*glshade.TypeDesc{glshade.TypeVector2, v3} {
		define(impl("texcoord", t), 0, t, in("index", glshade.TypeInteger))
	}
	for _, t := range []*glshade.TypeDesc{glshade.TypeFloat, glshade.TypeColor3, glshade.TypeColor4} {
		define(impl("geomcolor", t), 0, t, in("index", glshade.TypeInteger))
	}
	for _, t := range append([]*glshade.TypeDesc{glshade.TypeInteger, glshade.TypeBoolean, s}, mathTypes...) {
		define(impl("geompropvalue", t), 0, t, in("geomprop", s))
	}
	define(impl("frame", glshade.TypeFloat), 0, glshade.TypeFloat)
	define(impl("time", glshade.TypeFloat), 0, glshade.TypeFloat, inv("fps", glshade.FloatValue(24)))
	for _, kind := range []string{"point", "vector", "normal"} {
		define(impl("transform"+kind, v3), 0, v3, in("in", v3), inv("fromspace", object), inv("tospace", glshade.StringValue("world")))
	}
	for _, t := range mathTypes {
		define(impl("image", t), glshade.ClassSample2D, t,
			uniform("file", glshade.TypeFilename),
			in("default", t),
			in("texcoord", glshade.TypeVector2),
			inv("uv_scale", fill(glshade.TypeVector2, 1)),
			in("uv_offset", glshade.TypeVector2),
		)
		define(impl("blur", t), 0, t,
			in("in", t), in("size", glshade.TypeFloat), inv("filtertype", glshade.StringValue("box")))
	}
	define(impl("heighttonormal", glshade.TypeVector3), 0, glshade.TypeVector3,
		in("in", glshade.TypeFloat), inv("scale", glshade.FloatValue(1)))
}

// Scatter modes of the dielectric and generalized schlick BSDFs.
const (
	ScatterR  = 0
	ScatterT  = 1
	ScatterRT = 2
)

func defineShading() {
	f, c3, v2, v3 := glshade.TypeFloat, glshade.TypeColor3, glshade.TypeVector2, glshade.TypeVector3
	bsdf, edf := glshade.TypeBSDF, glshade.TypeEDF
	r, rt := glshade.ClassBSDFReflection, glshade.ClassBSDFReflection|glshade.ClassBSDFTransmission
	weight := inv("weight", fill(f, 1))
	normal := in("normal", v3)
	tangent := inv("tangent", glshade.Vec3Value(ms3.Vec{X: 1}))
	scatter := inv("scatter_mode", glshade.IntValue(ScatterR))

	define(impl("oren_nayar_diffuse_bsdf"), r, bsdf,
		weight, inv("color", fill(c3, 0.18)), in("roughness", f), normal)
	define(impl("dielectric_bsdf"), rt, bsdf,
		weight, inv("tint", fill(c3, 1)), inv("ior", glshade.FloatValue(1.5)), inv("roughness", fill(v2, 0.05)), normal, tangent, scatter)
	define(impl("conductor_bsdf"), r, bsdf,
		weight, inv("ior", glshade.Color3Value(ms3.Vec{X: 0.183, Y: 0.421, Z: 1.373})),
		inv("extinction", glshade.Color3Value(ms3.Vec{X: 3.424, Y: 2.346, Z: 1.770})),
		inv("roughness", fill(v2, 0.05)), normal, tangent)
	define(impl("generalized_schlick_bsdf"), rt, bsdf,
		weight, inv("color0", fill(c3, 1)), inv("color90", fill(c3, 1)), inv("exponent", glshade.FloatValue(5)),
		inv("roughness", fill(v2, 0.05)), normal, tangent, scatter)
	define(impl("sheen_bsdf"), r, bsdf,
		weight, inv("color", fill(c3, 1)), inv("roughness", glshade.FloatValue(0.3)), normal)
	define(impl("uniform_edf"), 0, edf, inv("color", fill(c3, 1)))
	define(impl("thin_film_bsdf"), glshade.ClassThinFilm|r, bsdf,
		inv("thickness", glshade.FloatValue(550)), inv("ior", glshade.FloatValue(1.5)))
	define(impl("layer_bsdf"), glshade.ClassLayer|rt, bsdf, in("top", bsdf), in("base", bsdf))

	define(impl("surface"), 0, glshade.TypeSurfaceShader,
		in("bsdf", bsdf), in("edf", edf), inv("opacity", fill(f, 1)))

	ls := glshade.TypeLightShader
	define(impl("light"), 0, ls,
		in("edf", edf), inv("intensity", fill(c3, 1)), in("exposure", f))
	define(impl("point_light"), 0, ls,
		in("position", v3), inv("color", fill(c3, 1)), inv("intensity", fill(f, 1)), inv("decay_rate", glshade.FloatValue(2)))
	define(impl("directional_light"), 0, ls,
		inv("direction", glshade.Vec3Value(ms3.Vec{Y: -1})), inv("color", fill(c3, 1)), inv("intensity", fill(f, 1)))
	define(impl("spot_light"), 0, ls,
		in("position", v3), inv("direction", glshade.Vec3Value(ms3.Vec{Y: -1})), inv("color", fill(c3, 1)),
		inv("intensity", fill(f, 1)), inv("decay_rate", glshade.FloatValue(2)),
		inv("inner_angle", glshade.FloatValue(0.9)), inv("outer_angle", glshade.FloatValue(0.8)))
}

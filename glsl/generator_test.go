package glsl_test

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/soypat/geometry/ms3"
	"github.com/soypat/glshade"
	"github.com/soypat/glshade/glbuild"
	"github.com/soypat/glshade/glsl"
	"github.com/soypat/glshade/ndlib"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newGenerator(t testing.TB, compounds ...*glshade.Graph) *glsl.Generator {
	t.Helper()
	gen, err := glsl.NewGenerator(compounds...)
	if err != nil {
		t.Fatal(err)
	}
	return gen
}

func generate(t testing.TB, gen *glsl.Generator, g *glshade.Graph, ctx *glbuild.Context) *glbuild.Shader {
	t.Helper()
	sh, err := gen.Generate(g.Name(), g, ctx)
	if err != nil {
		t.Fatal(err)
	}
	return sh
}

// mainBody returns the source of a stage following its main declaration.
func mainBody(src string) string {
	idx := strings.LastIndex(src, "void main()")
	if idx < 0 {
		return ""
	}
	return src[idx:]
}

// colorGraph scales a color by a float, producing a color3 output.
func colorGraph(t testing.TB) *glshade.Graph {
	bld := glshade.NewBuilder("scaled_red")
	mul := bld.AddNode("scale", ndlib.Get("ND_multiply_color3_float"))
	bld.SetValue(mul, "in1", glshade.Color3Value(ms3.Vec{X: 1}))
	bld.SetValue(mul, "in2", glshade.FloatValue(0.5))
	bld.SetOutput(mul.Output(""))
	g, err := bld.Graph()
	require.NoError(t, err)
	return g
}

// surfaceGraph is a textured diffuse base layered under a dielectric coat.
func surfaceGraph(t testing.TB) *glshade.Graph {
	bld := glshade.NewBuilder("coated_plastic")
	albedo := bld.AddNode("albedo", ndlib.Get("ND_image_color3"))
	bld.SetValue(albedo, "file", glshade.FilenameValue("albedo.png"))
	diffuse := bld.AddNode("diffuse", ndlib.Get("ND_oren_nayar_diffuse_bsdf"))
	bld.Connect(albedo.Output(""), diffuse, "color")
	coat := bld.AddNode("coat", ndlib.Get("ND_dielectric_bsdf"))
	layer := bld.AddNode("coated", ndlib.Get("ND_layer_bsdf"))
	bld.Connect(coat.Output(""), layer, "top")
	bld.Connect(diffuse.Output(""), layer, "base")
	surf := bld.AddNode("surf", ndlib.Get("ND_surface"))
	bld.Connect(layer.Output(""), surf, "bsdf")
	bld.SetOutput(surf.Output(""))
	g, err := bld.Graph()
	require.NoError(t, err)
	return g
}

func lights(t testing.TB) *glbuild.LightShaders {
	ls := glbuild.NewLightShaders()
	point, err := glshade.NewStandaloneNode("key", ndlib.Get("ND_point_light"))
	require.NoError(t, err)
	sun, err := glshade.NewStandaloneNode("sun", ndlib.Get("ND_directional_light"))
	require.NoError(t, err)
	require.NoError(t, ls.Bind(1, point))
	require.NoError(t, ls.Bind(2, sun))
	return ls
}

func TestRegistryResolvesAll(t *testing.T) {
	reg := newGenerator(t).Registry()
	ids := reg.Identities()
	if len(ids) < 100 {
		t.Fatalf("expected the standard library to register many implementations, got %d", len(ids))
	}
	for _, id := range ids {
		if !strings.HasSuffix(id, "_"+glsl.Target) {
			t.Errorf("identity %q missing target suffix", id)
		}
		a, err := reg.ResolveIdentity(id)
		if err != nil || a == nil {
			t.Fatalf("%s: %v", id, err)
		}
		b, err := reg.ResolveIdentity(id)
		if err != nil || b == nil {
			t.Fatalf("%s: %v", id, err)
		}
		if fmt.Sprintf("%T", a) != fmt.Sprintf("%T", b) {
			t.Errorf("%s resolved to %T then %T", id, a, b)
		}
	}
	assert.Panics(t, func() {
		reg.Register(glshade.ImplID{Op: "late"}, func() glbuild.Implementation { return glbuild.Base{} })
	}, "generator registries are sealed")
}

func TestNodeDefsImplemented(t *testing.T) {
	reg := newGenerator(t).Registry()
	for _, nd := range ndlib.Defs() {
		if !reg.Has(nd.Impl) {
			t.Errorf("node definition %s has no %s implementation", nd.Name, glsl.Target)
		}
	}
	for _, identity := range []string{
		"IM_layer_bsdf_genglsl",
		"IM_dielectric_bsdf_genglsl",
		"IM_add_color3_float_genglsl",
		"IM_ifequal_vector3B_genglsl",
	} {
		_, err := reg.ResolveIdentity(identity)
		assert.NoError(t, err, identity)
	}
}

func TestColorOutputWidening(t *testing.T) {
	gen := newGenerator(t)
	ctx := glsl.NewContext(glbuild.DefaultOptions())
	sh := generate(t, gen, colorGraph(t), ctx)
	ps := sh.SourceCode(glbuild.StagePixel)
	body := mainBody(ps)
	assert.Contains(t, body, "vec3 scale_out = scale_in1 * scale_in2;")
	assert.Contains(t, body, "out1 = vec4(scale_out, 1.0);")
	assert.NotContains(t, body, "0.0, 1.0)")
	assert.Contains(t, ps, "uniform vec3 scale_in1 = vec3(1.0, 0.0, 0.0);")
	assert.Contains(t, ps, "uniform float scale_in2 = 0.5;")
	assert.Contains(t, ps, "out vec4 out1;")
	assert.True(t, strings.HasPrefix(ps, "#version 400\n"))
	// Texture graphs require no lighting.
	assert.NotContains(t, ps, "LightData")
	assert.NotContains(t, ps, "mx_environment")

	// A reduced interface inlines the literals.
	ctx.Options.ShaderInterfaceType = glbuild.InterfaceReduced
	sh = generate(t, gen, colorGraph(t), ctx)
	ps = sh.SourceCode(glbuild.StagePixel)
	assert.Contains(t, ps, "vec3 scale_out = vec3(1.0, 0.0, 0.0) * 0.5;")
	assert.NotContains(t, ps, "uniform vec3 scale_in1")

	vs := sh.SourceCode(glbuild.StageVertex)
	assert.Contains(t, vs, "uniform mat4 u_worldMatrix = mat4(")
	assert.Contains(t, vs, "in vec3 i_position;")
	assert.Contains(t, vs, "gl_Position = u_viewProjectionMatrix * hPositionWorld;")
}

func TestUnconnectedOutput(t *testing.T) {
	gen := newGenerator(t)
	ctx := glsl.NewContext(glbuild.DefaultOptions())
	for _, test := range []struct {
		value glshade.Value
		want  []string
	}{
		{
			value: glshade.Value{},
			want:  []string{"out1 = vec4(0.0, 0.0, 0.0, 1.0);"},
		},
		{
			value: glshade.Color4Value(ms3.Vec{X: 1}, 0.5),
			want:  []string{"out1 = vec4(1.0, 0.0, 0.0, 0.5);"},
		},
		{
			value: glshade.Color3Value(ms3.Vec{Z: 1}),
			want:  []string{"vec3 out1_tmp = vec3(0.0, 0.0, 1.0);", "out1 = vec4(out1_tmp, 1.0);"},
		},
		{
			value: glshade.FloatValue(0.25),
			want:  []string{"float out1_tmp = 0.25;", "out1 = vec4(out1_tmp, out1_tmp, out1_tmp, 1.0);"},
		},
	} {
		bld := glshade.NewBuilder("literal")
		if test.value.IsValid() {
			bld.SetOutputValue(test.value)
		}
		g, err := bld.Graph()
		require.NoError(t, err)
		body := mainBody(generate(t, gen, g, ctx).SourceCode(glbuild.StagePixel))
		for _, want := range test.want {
			assert.Contains(t, body, want, "output value %v", test.value)
		}
	}
}

func TestOutputChannels(t *testing.T) {
	bld := glshade.NewBuilder("swizzled")
	c := bld.AddNode("c", ndlib.Get("ND_constant_color4"))
	bld.SetOutput(c.Output(""))
	bld.SetChannels("bgr")
	g, err := bld.Graph()
	require.NoError(t, err)
	body := mainBody(generate(t, newGenerator(t), g, glsl.NewContext(glbuild.DefaultOptions())).SourceCode(glbuild.StagePixel))
	assert.Contains(t, body, "vec4 c_out = c_value;")
	assert.Contains(t, body, "out1 = vec4(c_out.zyx, 1.0);")
}

func TestToVec4(t *testing.T) {
	const black = "vec4(0.0, 0.0, 0.0, 1.0)"
	want := map[*glshade.TypeDesc]string{
		glshade.TypeFloat:   "vec4(x, x, x, 1.0)",
		glshade.TypeInteger: "vec4(x, x, x, 1.0)",
		glshade.TypeVector2: "vec4(x, 0.0, 1.0)",
		glshade.TypeVector3: "vec4(x, 1.0)",
		glshade.TypeColor3:  "vec4(x, 1.0)",
		glshade.TypeVector4: "x",
		glshade.TypeColor4:  "x",
		glshade.TypeBSDF:    "vec4(x.response, 1.0)",
		glshade.TypeEDF:     "vec4(x, 1.0)",
	}
	for _, typ := range glshade.Types() {
		got := glsl.ToVec4(typ, "x")
		expect, ok := want[typ]
		if !ok {
			expect = black
		}
		if got != expect {
			t.Errorf("%s: want %q, got %q", typ, expect, got)
		}
		if again := glsl.ToVec4(typ, "x"); again != got {
			t.Errorf("%s: nondeterministic widening", typ)
		}
	}
	assert.Equal(t, black, glsl.ToVec4(nil, "x"))
}

func TestSurfaceOpaque(t *testing.T) {
	gen := newGenerator(t)
	ctx := glsl.NewContext(glbuild.DefaultOptions())
	ps := generate(t, gen, surfaceGraph(t), ctx).SourceCode(glbuild.StagePixel)
	body := mainBody(ps)
	assert.Contains(t, body, "out1 = vec4(surf_out.color, 1.0);")
	assert.NotContains(t, body, "outAlpha")
	assert.NotContains(t, ps, "discard")

	// Textures are sampled before the surface is evaluated.
	sample := strings.Index(body, "mx_image_color3(albedo_file")
	surface := strings.Index(body, "surfaceshader surf_out")
	require.True(t, sample >= 0 && surface >= 0, "missing texture sample or surface:\n%s", body)
	assert.Less(t, sample, surface)
	// The image file is always a sampler uniform.
	assert.Contains(t, ps, "uniform sampler2D albedo_file;")
	assert.Contains(t, ps, "vec2 mx_transform_uv(")
}

func TestSurfaceTransparency(t *testing.T) {
	opts := glbuild.DefaultOptions()
	opts.HwTransparency = true
	opts.HwAlphaThreshold = 0.25
	ps := generate(t, newGenerator(t), surfaceGraph(t), glsl.NewContext(opts)).SourceCode(glbuild.StagePixel)
	body := mainBody(ps)
	for _, want := range []string{
		"float outAlpha = clamp(1.0 - dot(surf_out.transparency, vec3(0.3333)), 0.0, 1.0);",
		"out1 = vec4(surf_out.color, outAlpha);",
		"if (outAlpha < u_alphaThreshold)",
		"discard;",
	} {
		assert.Contains(t, body, want)
	}
	assert.Contains(t, ps, "uniform float u_alphaThreshold = 0.25;")
}

func TestClosureOnlyIsBlack(t *testing.T) {
	bld := glshade.NewBuilder("bare_glass")
	glass := bld.AddNode("glass", ndlib.Get("ND_dielectric_bsdf"))
	bld.SetOutput(glass.Output(""))
	g, err := bld.Graph()
	require.NoError(t, err)
	ctx := glsl.NewContext(glbuild.DefaultOptions())
	ctx.LightShaders = lights(t)
	body := mainBody(generate(t, newGenerator(t), g, ctx).SourceCode(glbuild.StagePixel))
	assert.Contains(t, body, "out1 = vec4(0.0, 0.0, 0.0, 1.0);")
	assert.NotContains(t, body, "mx_dielectric_bsdf")
	assert.NotContains(t, body, "glass_out")
}

func TestNoLightSlots(t *testing.T) {
	opts := glbuild.DefaultOptions()
	opts.HwMaxActiveLightSources = 0
	ctx := glsl.NewContext(opts)
	ctx.LightShaders = lights(t)
	ps := generate(t, newGenerator(t), surfaceGraph(t), ctx).SourceCode(glbuild.StagePixel)
	for _, absent := range []string{
		"LightData",
		"MAX_LIGHT_SOURCES",
		"void mx_point_light(",
		"void mx_directional_light(",
		"int numActiveLightSources()",
		"sampleLightSource(",
	} {
		assert.NotContains(t, ps, absent)
	}
	// The surface still renders its environment and emission terms.
	assert.Contains(t, ps, "out1 = vec4(surf_out.color, 1.0);")
}

func TestLightShaderDefinitions(t *testing.T) {
	ctx := glsl.NewContext(glbuild.DefaultOptions())
	ctx.LightShaders = lights(t)
	ps := generate(t, newGenerator(t), surfaceGraph(t), ctx).SourceCode(glbuild.StagePixel)
	for decl, want := range map[string]int{
		"void mx_point_light(":        1,
		"void mx_directional_light(":  1,
		"void mx_spot_light(":         0,
		"int numActiveLightSources()": 1,
		"void sampleLightSource(":     1,
	} {
		if got := strings.Count(ps, decl); got != want {
			t.Errorf("%q: want %d definitions, got %d", decl, want, got)
		}
	}
	assert.Contains(t, ps, "#define MAX_LIGHT_SOURCES 3")
	assert.Contains(t, ps, "struct LightData")
	assert.Contains(t, ps, "uniform LightData u_lightData[MAX_LIGHT_SOURCES];")
	assert.Contains(t, ps, "if (light.type == 1)")
	assert.Contains(t, ps, "else if (light.type == 2)")
	assert.Contains(t, ps, "return min(u_numActiveLightSources, MAX_LIGHT_SOURCES);")
	assert.Contains(t, ps, "sampleLightSource(u_lightData[activeLightIndex], vd.positionWorld, lightShader);")

	// No bound lights still yields a compiling zero iteration loop.
	ctx.LightShaders = nil
	ps = generate(t, newGenerator(t), surfaceGraph(t), ctx).SourceCode(glbuild.StagePixel)
	assert.Contains(t, ps, "void sampleLightSource(")
	assert.NotContains(t, ps, "light.type == 1")
}

func TestVaryingBlocksMatch(t *testing.T) {
	gen := newGenerator(t)
	opts := glbuild.DefaultOptions()
	opts.HwAmbientOcclusion = true
	for _, g := range []*glshade.Graph{colorGraph(t), surfaceGraph(t)} {
		sh := generate(t, gen, g, glsl.NewContext(opts))
		out := sh.Vertex().OutputBlock(glbuild.BlockVertexData).Ports()
		in := sh.Pixel().InputBlock(glbuild.BlockVertexData).Ports()
		require.Equal(t, len(out), len(in), g.Name())
		for i := range out {
			if out[i].Variable != in[i].Variable || out[i].Type != in[i].Type {
				t.Errorf("%s varying %d: vertex %s %s, pixel %s %s", g.Name(), i, out[i].Type, out[i].Variable, in[i].Type, in[i].Variable)
			}
		}
		vsBlock := varyingBlock(t, sh.SourceCode(glbuild.StageVertex), "out")
		psBlock := varyingBlock(t, sh.SourceCode(glbuild.StagePixel), "in")
		assert.Equal(t, vsBlock, psBlock)
	}
}

// varyingBlock returns the member declarations of the varying block
// declared with qualifier.
func varyingBlock(t testing.TB, src, qualifier string) string {
	t.Helper()
	decl := qualifier + " " + glbuild.BlockVertexData + "\n"
	start := strings.Index(src, decl)
	if start < 0 {
		// Graphs needing no varyings declare no block.
		return ""
	}
	src = src[start+len(decl):]
	end := strings.Index(src, "} "+glbuild.InstanceVertexData+";")
	require.True(t, end >= 0, "unterminated varying block")
	return src[:end]
}

func TestDeterministic(t *testing.T) {
	gen := newGenerator(t)
	opts := glbuild.DefaultOptions()
	opts.HwShadowMap = true
	opts.HwAmbientOcclusion = true
	newCtx := func() *glbuild.Context {
		ctx := glsl.NewContext(opts)
		ctx.LightShaders = lights(t)
		return ctx
	}
	g := surfaceGraph(t)
	first := generate(t, gen, g, newCtx())
	second := generate(t, gen, g, newCtx())
	for _, stage := range []string{glbuild.StageVertex, glbuild.StagePixel} {
		if first.SourceCode(stage) != second.SourceCode(stage) {
			t.Errorf("%s stage differs between identical generations", stage)
		}
	}
	// Concurrent generations share the registry and the graph.
	// Contexts are built up front: require may only stop the test goroutine.
	var wg sync.WaitGroup
	results := make([]string, 8)
	ctxs := make([]*glbuild.Context, len(results))
	for i := range ctxs {
		ctxs[i] = newCtx()
	}
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			sh, err := gen.Generate(g.Name(), g, ctxs[i])
			if err == nil {
				results[i] = sh.SourceCode(glbuild.StagePixel)
			}
		}(i)
	}
	wg.Wait()
	for i, src := range results {
		if src != first.SourceCode(glbuild.StagePixel) {
			t.Errorf("concurrent generation %d differs", i)
		}
	}
}

func TestOptionIncludes(t *testing.T) {
	gen := newGenerator(t)
	g := surfaceGraph(t)
	for _, test := range []struct {
		method glbuild.SpecularEnvironmentMethod
		fn     string
	}{
		{glbuild.SpecularEnvironmentNone, "vec3 mx_environment_radiance("},
		{glbuild.SpecularEnvironmentFIS, "u_envRadianceSamples"},
		{glbuild.SpecularEnvironmentPrefilter, "u_envRadianceMips"},
	} {
		opts := glbuild.DefaultOptions()
		opts.HwSpecularEnvironmentMethod = test.method
		ps := generate(t, gen, g, glsl.NewContext(opts)).SourceCode(glbuild.StagePixel)
		assert.Contains(t, ps, test.fn, "method %s", test.method)
		assert.NotContains(t, ps, "$", "unreplaced token with method %s", test.method)
	}

	opts := glbuild.DefaultOptions()
	opts.HwWriteDepthMoments = true
	ps := generate(t, gen, g, glsl.NewContext(opts)).SourceCode(glbuild.StagePixel)
	assert.Contains(t, mainBody(ps), "out1 = vec4(mx_compute_depth_moments(), 0.0, 1.0);")
	assert.Contains(t, ps, "uniform sampler2D u_shadowMap;")

	opts = glbuild.DefaultOptions()
	opts.HwWriteAlbedoTable = true
	ps = generate(t, gen, g, glsl.NewContext(opts)).SourceCode(glbuild.StagePixel)
	assert.Contains(t, mainBody(ps), "out1 = vec4(mx_ggx_directional_albedo_generate_table(), 0.0, 1.0);")
	assert.Contains(t, ps, "uniform sampler2D u_albedoTable;")

	// The flipped uv transform replaces the default one.
	opts = glbuild.DefaultOptions()
	opts.FileTextureVerticalFlip = true
	flipped := generate(t, gen, g, glsl.NewContext(opts)).SourceCode(glbuild.StagePixel)
	opts.FileTextureVerticalFlip = false
	plain := generate(t, gen, g, glsl.NewContext(opts)).SourceCode(glbuild.StagePixel)
	assert.NotEqual(t, flipped, plain)
	assert.Equal(t, 1, strings.Count(flipped, "vec2 mx_transform_uv("))
}

func TestGenerateErrors(t *testing.T) {
	gen := newGenerator(t)
	opts := glbuild.DefaultOptions()
	opts.HwSpecularEnvironmentMethod = 9
	sh, err := gen.Generate("bad", surfaceGraph(t), glsl.NewContext(opts))
	assert.Nil(t, sh)
	assert.ErrorIs(t, err, glbuild.ErrConfig)

	bld := glshade.NewBuilder("unknown")
	n := bld.AddNode("n", &glshade.NodeDef{
		Name:    "ND_unknown_color3",
		Impl:    glshade.ImplID{Op: "unknown", Signature: "color3"},
		Outputs: []glshade.PortDef{{Name: "out", Type: glshade.TypeColor3}},
	})
	bld.SetOutput(n.Output(""))
	g, err := bld.Graph()
	require.NoError(t, err)
	sh, err = gen.Generate("unknown", g, glsl.NewContext(glbuild.DefaultOptions()))
	assert.Nil(t, sh)
	if !errors.Is(err, glbuild.ErrLookup) {
		t.Errorf("expected lookup error, got %v", err)
	}

	bld = glshade.NewBuilder("no_def")
	bld.SetOutputValue(glshade.FloatValue(1))
	g, err = bld.Graph()
	require.NoError(t, err)
	_, err = glsl.NewGenerator(g)
	assert.ErrorIs(t, err, glbuild.ErrLookup)
	_, err = glsl.NewGenerator(nil)
	assert.ErrorIs(t, err, glbuild.ErrLookup)
}

func TestPublishedNameClash(t *testing.T) {
	gen := newGenerator(t)
	bld := glshade.NewBuilder("tinted")
	// The socket takes the identifier the node input is published as.
	bld.AddInput("tint_in2", glshade.TypeFloat, glshade.FloatValue(0.25))
	tint := bld.AddNode("tint", ndlib.Get("ND_multiply_color3"))
	bld.SetValue(tint, "in1", glshade.Color3Value(ms3.Vec{X: 1, Y: 1, Z: 1}))
	bld.SetValue(tint, "in2", glshade.Color3Value(ms3.Vec{X: 0.5, Y: 0.5, Z: 0.5}))
	bld.SetOutput(tint.Output(""))
	g, err := bld.Graph()
	require.NoError(t, err)

	ps := generate(t, gen, g, glsl.NewContext(glbuild.DefaultOptions())).SourceCode(glbuild.StagePixel)
	assert.Contains(t, ps, "uniform float tint_in2 = 0.25;")
	assert.Contains(t, ps, "uniform vec3 tint_in21 = vec3(0.5, 0.5, 0.5);")
	assert.Contains(t, mainBody(ps), "vec3 tint_out = tint_in1 * tint_in21;")
}

func TestTexcoordTypeClash(t *testing.T) {
	gen := newGenerator(t)
	bld := glshade.NewBuilder("uvw_tint")
	albedo := bld.AddNode("albedo", ndlib.Get("ND_image_color3"))
	bld.SetValue(albedo, "file", glshade.FilenameValue("albedo.png"))
	uvw := bld.AddNode("uvw", ndlib.Get("ND_texcoord_vector3"))
	asColor := bld.AddNode("uvw_color", ndlib.Get("ND_convert_vector3_color3"))
	bld.Connect(uvw.Output(""), asColor, "in")
	sum := bld.AddNode("sum", ndlib.Get("ND_add_color3"))
	bld.Connect(albedo.Output(""), sum, "in1")
	bld.Connect(asColor.Output(""), sum, "in2")
	bld.SetOutput(sum.Output(""))
	g, err := bld.Graph()
	require.NoError(t, err)

	// The image samples set 0 as vec2, the texcoord node reads set 0 as vec3.
	sh, err := gen.Generate(g.Name(), g, glsl.NewContext(glbuild.DefaultOptions()))
	assert.Nil(t, sh)
	require.ErrorIs(t, err, glbuild.ErrConfig)
	assert.Contains(t, err.Error(), "texcoord_0")

	// Distinct sets do not clash.
	bld = glshade.NewBuilder("uvw_set1")
	albedo = bld.AddNode("albedo", ndlib.Get("ND_image_color3"))
	uvw = bld.AddNode("uvw", ndlib.Get("ND_texcoord_vector3"))
	bld.SetValue(uvw, "index", glshade.IntValue(1))
	asColor = bld.AddNode("uvw_color", ndlib.Get("ND_convert_vector3_color3"))
	bld.Connect(uvw.Output(""), asColor, "in")
	sum = bld.AddNode("sum", ndlib.Get("ND_add_color3"))
	bld.Connect(albedo.Output(""), sum, "in1")
	bld.Connect(asColor.Output(""), sum, "in2")
	bld.SetOutput(sum.Output(""))
	g, err = bld.Graph()
	require.NoError(t, err)
	vs := generate(t, gen, g, glsl.NewContext(glbuild.DefaultOptions())).SourceCode(glbuild.StageVertex)
	assert.Contains(t, vs, "vec2 texcoord_0;")
	assert.Contains(t, vs, "vec3 texcoord_1;")
}

func TestCompound(t *testing.T) {
	bld := glshade.NewBuilder("scale_color")
	color := bld.AddInput("color", glshade.TypeColor3, glshade.Value{})
	amount := bld.AddInput("amount", glshade.TypeFloat, glshade.FloatValue(0.5))
	mul := bld.AddNode("mul", ndlib.Get("ND_multiply_color3_float"))
	bld.Connect(color, mul, "in1")
	bld.Connect(amount, mul, "in2")
	bld.SetOutput(mul.Output(""))
	def := &glshade.NodeDef{
		Name: "ND_scale_color",
		Impl: glshade.ImplID{Op: "scale_color"},
		Inputs: []glshade.PortDef{
			{Name: "color", Type: glshade.TypeColor3},
			{Name: "amount", Type: glshade.TypeFloat, Value: glshade.FloatValue(0.5)},
		},
		Outputs: []glshade.PortDef{{Name: "out", Type: glshade.TypeColor3}},
	}
	bld.SetNodeDef(def)
	compound, err := bld.Graph()
	require.NoError(t, err)
	gen := newGenerator(t, compound)

	bld = glshade.NewBuilder("tinted")
	tint := bld.AddNode("tint", def)
	bld.SetOutput(tint.Output(""))
	g, err := bld.Graph()
	require.NoError(t, err)
	ps := generate(t, gen, g, glsl.NewContext(glbuild.DefaultOptions())).SourceCode(glbuild.StagePixel)
	assert.Contains(t, ps, "void scale_color(vec3 color, float amount, out vec3 out1)")
	assert.Contains(t, ps, "vec3 mul_out = color * amount;")
	assert.Contains(t, ps, "out1 = mul_out;")
	body := mainBody(ps)
	assert.Contains(t, body, "scale_color(tint_color, tint_amount, tint_out);")
	assert.Contains(t, body, "out1 = vec4(tint_out, 1.0);")
}

func TestLightCompound(t *testing.T) {
	bld := glshade.NewBuilder("area_light")
	emission := bld.AddNode("emission", ndlib.Get("ND_uniform_edf"))
	light := bld.AddNode("lamp", ndlib.Get("ND_light"))
	bld.Connect(emission.Output(""), light, "edf")
	bld.SetOutput(light.Output(""))
	def := &glshade.NodeDef{
		Name:    "ND_area_light",
		Impl:    glshade.ImplID{Op: "area_light"},
		Inputs:  []glshade.PortDef{{Name: "radius", Type: glshade.TypeFloat, Value: glshade.FloatValue(1)}},
		Outputs: []glshade.PortDef{{Name: "out", Type: glshade.TypeLightShader}},
	}
	bld.SetNodeDef(def)
	compound, err := bld.Graph()
	require.NoError(t, err)
	gen := newGenerator(t, compound)

	area, err := glshade.NewStandaloneNode("area", def)
	require.NoError(t, err)
	ctx := glsl.NewContext(glbuild.DefaultOptions())
	ctx.LightShaders = glbuild.NewLightShaders()
	require.NoError(t, ctx.LightShaders.Bind(7, area))
	ps := generate(t, gen, surfaceGraph(t), ctx).SourceCode(glbuild.StagePixel)
	assert.Contains(t, ps, "void mx_area_light(LightData light, vec3 position, out lightshader result)")
	assert.Contains(t, ps, "float radius = light.radius;")
	assert.Contains(t, ps, "vec3 L = normalize(light.position - position);")
	assert.Contains(t, ps, "result = lamp_out;")
	// The EDF is evaluated by the light under the emission context.
	n := strings.Index(ps, "vec3 N = -L;")
	edf := strings.Index(ps, "mx_uniform_edf(N, V, ")
	require.True(t, n >= 0 && edf > n, "EDF call must follow the light's normal")
	assert.Equal(t, 1, strings.Count(ps, "EDF emission_out = EDF(0.0);"))
	assert.Contains(t, ps, "if (light.type == 7)")

	shadowing := &glshade.NodeDef{
		Name:    "ND_bad_light",
		Impl:    glshade.ImplID{Op: "bad_light"},
		Inputs:  []glshade.PortDef{{Name: "position", Type: glshade.TypeVector3}},
		Outputs: []glshade.PortDef{{Name: "out", Type: glshade.TypeLightShader}},
	}
	bld = glshade.NewBuilder("bad_light")
	bld.SetOutputType(glshade.TypeLightShader)
	bld.SetNodeDef(shadowing)
	bad, err := bld.Graph()
	require.NoError(t, err)
	_, err = glsl.NewGenerator(bad)
	assert.Error(t, err)
}

func TestResourceBindings(t *testing.T) {
	gen := newGenerator(t)
	rb := glsl.NewResourceBindingContext(0, 0)
	ctx := glsl.NewContext(glbuild.DefaultOptions())
	ctx.Bindings = rb
	ctx.LightShaders = glbuild.NewLightShaders()
	point, err := glshade.NewStandaloneNode("key", ndlib.Get("ND_point_light"))
	require.NoError(t, err)
	require.NoError(t, ctx.LightShaders.Bind(1, point))

	sh := generate(t, gen, surfaceGraph(t), ctx)
	vs := sh.SourceCode(glbuild.StageVertex)
	ps := sh.SourceCode(glbuild.StagePixel)
	assert.Contains(t, vs, "#extension GL_ARB_shading_language_420pack : enable")
	assert.Contains(t, vs, "layout (std140, binding=0) uniform PrivateUniforms_vertex")
	assert.Contains(t, ps, "layout (std140, binding=1) uniform PrivateUniforms_pixel")
	assert.Contains(t, ps, "uniform sampler2D albedo_file;")
	assert.NotContains(t, ps, "uniform LightData u_lightData[MAX_LIGHT_SOURCES];")
	assert.Contains(t, ps, "    LightData u_lightData[MAX_LIGHT_SOURCES];")

	// LightData members: type, position, color, intensity, decay_rate.
	structDecl := ps[strings.Index(ps, "struct LightData"):]
	structDecl = structDecl[:strings.Index(structDecl, "};")]
	want := []string{
		"int type;", "float pad0;", "float pad1;", "float pad2;",
		"vec3 position;", "float pad3;", "vec3 color;",
		"float intensity;", "float decay_rate;",
		"float pad4;", "float pad5;", "float pad6;",
	}
	last := -1
	for _, member := range want {
		idx := strings.Index(structDecl, member)
		if idx < 0 {
			t.Fatalf("missing member %q in:\n%s", member, structDecl)
		} else if idx < last {
			t.Errorf("member %q out of order in:\n%s", member, structDecl)
		}
		last = idx
	}
	assert.NotContains(t, structDecl, "pad7")

	// Counters restart for every generation.
	again := generate(t, gen, surfaceGraph(t), ctx)
	assert.Equal(t, ps, again.SourceCode(glbuild.StagePixel))
}

func TestSyntax(t *testing.T) {
	var syn glsl.Syntax
	for _, test := range []struct {
		src      *glshade.TypeDesc
		channels string
		dst      *glshade.TypeDesc
		want     string
	}{
		{glshade.TypeColor3, "bgr", glshade.TypeColor3, "x.zyx"},
		{glshade.TypeColor4, "a", glshade.TypeFloat, "x.w"},
		{glshade.TypeFloat, "xxx", glshade.TypeVector3, "vec3(x, x, x)"},
		{glshade.TypeVector2, "xy01", glshade.TypeVector4, "vec4(x.x, x.y, 0.0, 1.0)"},
	} {
		got, err := syn.SwizzledVariable("x", test.src, test.channels, test.dst)
		if err != nil {
			t.Errorf("%s.%s: %s", test.src, test.channels, err)
		} else if got != test.want {
			t.Errorf("%s.%s: want %q, got %q", test.src, test.channels, test.want, got)
		}
	}
	_, err := syn.SwizzledVariable("x", glshade.TypeVector2, "xyz", glshade.TypeVector3)
	assert.Error(t, err, "channel z out of range")
	_, err = syn.SwizzledVariable("x", glshade.TypeBSDF, "x", glshade.TypeFloat)
	assert.Error(t, err)

	assert.Equal(t, "out1", syn.MakeIdentifier("out"))
	assert.Equal(t, "my_input", syn.MakeIdentifier("my.input"))
	assert.Equal(t, "mat4(1.0)", syn.DefaultValue(glshade.TypeMatrix44, false))
	assert.Equal(t, "", syn.DefaultValue(glshade.TypeFilename, true))
	assert.Equal(t, "float[2](1.0, 2.5)", syn.Value(glshade.TypeFloatArray, glshade.FloatArrayValue([]float32{1, 2.5}), false))
	assert.Equal(t, "[2]", syn.ArrayVariableSuffix(glshade.TypeFloatArray, glshade.FloatArrayValue([]float32{1, 2.5})))
	assert.Equal(t, "true", syn.Value(glshade.TypeBoolean, glshade.BoolValue(true), false))
}

// blurGraph filters a color texture with the given kernel size and type.
func blurGraph(t testing.TB, size float32, filter string) *glshade.Graph {
	bld := glshade.NewBuilder("soft_albedo")
	albedo := bld.AddNode("albedo", ndlib.Get("ND_image_color3"))
	bld.SetValue(albedo, "file", glshade.FilenameValue("albedo.png"))
	soft := bld.AddNode("soft", ndlib.Get("ND_blur_color3"))
	bld.Connect(albedo.Output(""), soft, "in")
	bld.SetValue(soft, "size", glshade.FloatValue(size))
	bld.SetValue(soft, "filtertype", glshade.StringValue(filter))
	bld.SetOutput(soft.Output(""))
	g, err := bld.Graph()
	require.NoError(t, err)
	return g
}

func TestBlur(t *testing.T) {
	gen := newGenerator(t)
	ctx := glsl.NewContext(glbuild.DefaultOptions())
	ps := generate(t, gen, blurGraph(t, 0.2, "gaussian"), ctx).SourceCode(glbuild.StagePixel)
	assert.Contains(t, ps, "vec2 mx_compute_sample_size_uv(")
	body := mainBody(ps)
	assert.Contains(t, body, "vec2 sampleSize = mx_compute_sample_size_uv(vd.texcoord_0, 0.2, 0.0);")
	// The image itself plus a 3x3 kernel.
	assert.Equal(t, 10, strings.Count(body, "mx_image_color3("))
	assert.Contains(t, body, "vd.texcoord_0 + sampleSize * vec2(-1.0, -1.0), ")
	assert.Contains(t, body, "vd.texcoord_0 + sampleSize * vec2(1.0, 1.0), ")
	assert.Equal(t, 1, strings.Count(body, "soft_out += 0.25 * s;"))
	assert.Equal(t, 4, strings.Count(body, "soft_out += 0.125 * s;"))
	assert.Equal(t, 4, strings.Count(body, "soft_out += 0.0625 * s;"))
	// The kernel width is baked into the source.
	assert.NotContains(t, ps, "uniform float soft_size")

	body = mainBody(generate(t, gen, blurGraph(t, 0.5, "box"), ctx).SourceCode(glbuild.StagePixel))
	assert.Equal(t, 25, strings.Count(body, "soft_out += "))
	assert.Contains(t, body, "vd.texcoord_0 + sampleSize * vec2(-2.0, 2.0), ")

	body = mainBody(generate(t, gen, blurGraph(t, 0, "box"), ctx).SourceCode(glbuild.StagePixel))
	assert.Contains(t, body, "vec3 soft_out = albedo_out;")
	assert.NotContains(t, body, "sampleSize")
}

func TestBlurWithoutImage(t *testing.T) {
	bld := glshade.NewBuilder("soft_constant")
	c := bld.AddNode("c", ndlib.Get("ND_constant_color3"))
	soft := bld.AddNode("soft", ndlib.Get("ND_blur_color3"))
	bld.Connect(c.Output(""), soft, "in")
	bld.SetValue(soft, "size", glshade.FloatValue(1))
	bld.SetOutput(soft.Output(""))
	g, err := bld.Graph()
	require.NoError(t, err)
	ps := generate(t, newGenerator(t), g, glsl.NewContext(glbuild.DefaultOptions())).SourceCode(glbuild.StagePixel)
	body := mainBody(ps)
	assert.Contains(t, body, "vec3 soft_out = c_out;")
	assert.NotContains(t, body, "mx_image_")
}

func TestHeightToNormal(t *testing.T) {
	bld := glshade.NewBuilder("bumped")
	height := bld.AddNode("height", ndlib.Get("ND_image_float"))
	bld.SetValue(height, "file", glshade.FilenameValue("height.png"))
	bump := bld.AddNode("bump", ndlib.Get("ND_heighttonormal_vector3"))
	bld.Connect(height.Output(""), bump, "in")
	bld.SetOutput(bump.Output(""))
	g, err := bld.Graph()
	require.NoError(t, err)
	gen := newGenerator(t)
	ctx := glsl.NewContext(glbuild.DefaultOptions())
	ps := generate(t, gen, g, ctx).SourceCode(glbuild.StagePixel)
	assert.Contains(t, ps, "vec3 mx_normal_from_samples_sobel(float S[9], float scale)")
	body := mainBody(ps)
	for _, want := range []string{
		"vec2 sampleSize = mx_compute_sample_size_uv(vd.texcoord_0, 1.0, 0.0);",
		"float S[9];",
		"vd.texcoord_0 + sampleSize * vec2(0.0, 0.0), height_uv_scale, height_uv_offset, S[4]);",
		"bump_out = mx_normal_from_samples_sobel(S, bump_scale);",
	} {
		assert.Contains(t, body, want)
	}
	assert.Equal(t, 10, strings.Count(body, "mx_image_float("))

	// Heights not read from a texture give the flat normal.
	bld = glshade.NewBuilder("flat")
	c := bld.AddNode("c", ndlib.Get("ND_constant_float"))
	bump = bld.AddNode("bump", ndlib.Get("ND_heighttonormal_vector3"))
	bld.Connect(c.Output(""), bump, "in")
	bld.SetOutput(bump.Output(""))
	g, err = bld.Graph()
	require.NoError(t, err)
	body = mainBody(generate(t, gen, g, ctx).SourceCode(glbuild.StagePixel))
	assert.Contains(t, body, "vec3 bump_out = vec3(0.5, 0.5, 1.0);")
	assert.NotContains(t, body, "mx_normal_from_samples_sobel")
}

func TestThinFilm(t *testing.T) {
	bld := glshade.NewBuilder("iridescent_glass")
	glass := bld.AddNode("glass", ndlib.Get("ND_dielectric_bsdf"))
	film := bld.AddNode("film", ndlib.Get("ND_thin_film_bsdf"))
	layer := bld.AddNode("filmed", ndlib.Get("ND_layer_bsdf"))
	bld.Connect(film.Output(""), layer, "top")
	bld.Connect(glass.Output(""), layer, "base")
	surf := bld.AddNode("surf", ndlib.Get("ND_surface"))
	bld.Connect(layer.Output(""), surf, "bsdf")
	bld.SetOutput(surf.Output(""))
	g, err := bld.Graph()
	require.NoError(t, err)

	gen := newGenerator(t)
	ctx := glsl.NewContext(glbuild.DefaultOptions())
	ctx.LightShaders = lights(t)
	ps := generate(t, gen, g, ctx).SourceCode(glbuild.StagePixel)
	assert.Contains(t, ps, "vec3 mx_fresnel_thinfilm(")
	assert.Contains(t, ps, "uniform float film_thickness")
	// The film reaches the Fresnel of the BSDF below it.
	assert.Contains(t, ps, ", film_thickness, film_ior, glass_out);")
	assert.Contains(t, ps, "filmed_out = glass_out;")
	assert.NotContains(t, ps, "mx_thin_film_bsdf")
	// Transmission takes no film.
	for _, line := range strings.Split(ps, "\n") {
		if strings.Contains(line, "mx_dielectric_bsdf_transmission(V") {
			assert.NotContains(t, line, "film_")
		}
	}

	// Without a film the BSDFs are called with a zero thickness.
	ps = generate(t, gen, surfaceGraph(t), ctx).SourceCode(glbuild.StagePixel)
	assert.Contains(t, ps, ", 0.0, 1.5, coat_out);")
	assert.NotContains(t, ps, "film_")
}

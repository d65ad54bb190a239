package glsl

import (
	"fmt"
	"io/fs"
	"strconv"
	"strings"

	"github.com/soypat/glshade"
	"github.com/soypat/glshade/glbuild"
	"github.com/soypat/glshade/glbuild/glsllib"
	"github.com/soypat/glshade/glbuild/nodes"
)

const (
	// Target identifies the implementations registered by [NewGenerator].
	Target = "genglsl"
	// Version is the GLSL version generated stages declare.
	Version = "400"
)

// Generator generates GLSL vertex and pixel stages from shader graphs.
// A Generator is read only once created and safe for concurrent use
// provided every generation call uses its own [glbuild.Context].
type Generator struct {
	registry *glbuild.Registry
	syntax   Syntax
}

// Light helper nodes, shared by all generated shaders. They carry no
// inputs and are never modified.
var (
	numLightsDef = &glshade.NodeDef{
		Name:    "ND_" + nodes.FuncNumActiveLightSources,
		Impl:    glshade.ImplID{Op: nodes.FuncNumActiveLightSources},
		Outputs: []glshade.PortDef{{Name: "out", Type: glshade.TypeInteger}},
	}
	lightSamplerDef = &glshade.NodeDef{
		Name:    "ND_" + nodes.FuncSampleLightSource,
		Impl:    glshade.ImplID{Op: nodes.FuncSampleLightSource},
		Outputs: []glshade.PortDef{{Name: "result", Type: glshade.TypeLightShader}},
	}
	lightHelpers = []*glshade.Node{
		mustStandalone(nodes.FuncNumActiveLightSources, numLightsDef),
		mustStandalone(nodes.FuncSampleLightSource, lightSamplerDef),
	}
)

func mustStandalone(name string, nd *glshade.NodeDef) *glshade.Node {
	n, err := glshade.NewStandaloneNode(name, nd)
	if err != nil {
		panic(err)
	}
	return n
}

// NewGenerator returns a generator with the standard node library and
// the implementations of the compound graphs registered.
func NewGenerator(compounds ...*glshade.Graph) (*Generator, error) {
	reg := glbuild.NewRegistry(Target)
	registerLibrary(reg)
	for _, g := range compounds {
		if err := RegisterCompound(reg, g); err != nil {
			return nil, err
		}
	}
	reg.Seal()
	return &Generator{registry: reg}, nil
}

// RegisterCompound registers the implementation of the compound graph g
// under the identifier of its node definition. Graphs outputting a light
// shader are registered as light shaders.
func RegisterCompound(reg *glbuild.Registry, g *glshade.Graph) error {
	if g == nil || g.NodeDef() == nil {
		name := "<nil>"
		if g != nil {
			name = g.Name()
		}
		return fmt.Errorf("%w: compound graph %s has no node definition", glbuild.ErrLookup, name)
	}
	newFactory := nodes.NewCompound
	if g.NodeDef().OutputType() == glshade.TypeLightShader {
		newFactory = nodes.NewLightCompound
	}
	f, err := newFactory(g)
	if err != nil {
		return err
	}
	reg.Register(g.NodeDef().Impl, f)
	return nil
}

func (gen *Generator) Registry() *glbuild.Registry { return gen.registry }
func (gen *Generator) Syntax() glbuild.Syntax      { return gen.syntax }

// NewContext returns a generation context searching the embedded GLSL
// library after the user search path.
func NewContext(opts glbuild.Options, searchPath ...fs.FS) *glbuild.Context {
	return glbuild.NewContext(opts, append(searchPath, glsllib.FS())...)
}

// Generate generates the vertex and pixel stages of graph g. On error no
// shader is returned.
func (gen *Generator) Generate(name string, g *glshade.Graph, ctx *glbuild.Context) (*glbuild.Shader, error) {
	if err := ctx.Options.Validate(); err != nil {
		return nil, err
	}
	if ctx.Bindings != nil {
		ctx.Bindings.Initialize()
	}
	sh := glbuild.NewShader(name, g, gen.syntax, gen.registry)
	if err := gen.createVariables(sh, ctx); err != nil {
		return nil, fmt.Errorf("shader %q: %w", name, err)
	}
	if err := gen.EmitVertexStage(sh, ctx); err != nil {
		return nil, fmt.Errorf("shader %q vertex stage: %w", name, err)
	}
	if err := gen.EmitPixelStage(sh, ctx); err != nil {
		return nil, fmt.Errorf("shader %q pixel stage: %w", name, err)
	}
	tokens := glbuild.Tokens()
	if sh.Vertex().HasInclude(glbuild.TokenFileTransformUv) || sh.Pixel().HasInclude(glbuild.TokenFileTransformUv) {
		src, err := ctx.ResolveSourceFile(glsllib.TransformUVFile(ctx.Options.FileTextureVerticalFlip))
		if err != nil {
			return nil, err
		}
		tokens[glbuild.TokenFileTransformUv] = strings.TrimRight(string(src), "\n")
	}
	sh.ReplaceTokens(glbuild.NewTokenReplacer(tokens))
	if err := sh.CheckBalanced(); err != nil {
		return nil, fmt.Errorf("shader %q: %w", name, err)
	}
	ctx.Log().Debug("generated shader", "name", name, "target", Target,
		"nodes", len(g.Nodes()), "class", g.Classification().String(),
		"vertexBytes", len(sh.SourceCode(glbuild.StageVertex)), "pixelBytes", len(sh.SourceCode(glbuild.StagePixel)))
	return sh, nil
}

func requiresLighting(g *glshade.Graph) bool {
	return g.Has(glshade.ClassShader|glshade.ClassSurface) || g.Has(glshade.ClassBSDF)
}

func requiresShadowing(g *glshade.Graph, opts *glbuild.Options) bool {
	return requiresLighting(g) && opts.HwShadowMap || opts.HwWriteDepthMoments
}

func requiresAlbedoTable(opts *glbuild.Options) bool {
	return opts.HwDirectionalAlbedoMethod == glbuild.DirectionalAlbedoTable || opts.HwWriteAlbedoTable
}

// createVariables resolves the implementations of the graph nodes, adds
// the variables of the stages and publishes the shader interface.
func (gen *Generator) createVariables(sh *glbuild.Shader, ctx *glbuild.Context) error {
	g := sh.Graph()
	opts := &ctx.Options
	vs, ps := sh.Vertex(), sh.Pixel()
	for _, st := range []*glbuild.Stage{vs, ps} {
		st.AddUniformBlock(glbuild.BlockPrivateUniforms, "")
		st.AddUniformBlock(glbuild.BlockPublicUniforms, "")
	}
	vs.AddInputBlock(glbuild.BlockVertexInputs, "")
	vs.AddOutputBlock(glbuild.BlockVertexData, glbuild.InstanceVertexData)
	ps.AddInputBlock(glbuild.BlockVertexData, glbuild.InstanceVertexData)
	if _, err := ps.AddOutputBlock(glbuild.BlockPixelOutputs, "").Add(glshade.TypeColor4, gen.syntax.MakeIdentifier("out"), glshade.Value{}); err != nil {
		return err
	}

	mat4 := glshade.IdentityValue(glshade.TypeMatrix44)
	sh.AddPrivateUniform(vs, glshade.TypeMatrix44, glbuild.TokenWorldMatrix, mat4)
	sh.AddPrivateUniform(vs, glshade.TypeMatrix44, glbuild.TokenViewProjectionMatrix, mat4)
	sh.AddVertexInput(glshade.TypeVector3, glbuild.TokenInPosition)

	lighting := requiresLighting(g)
	if lighting {
		sh.AddPrivateUniform(ps, glshade.TypeVector3, glbuild.TokenViewPosition, glshade.Value{})
		sh.AddPrivateUniform(ps, glshade.TypeInteger, glbuild.TokenNumActiveLightSources, glshade.Value{})
		if opts.HwSpecularEnvironmentMethod != glbuild.SpecularEnvironmentNone {
			sh.AddPrivateUniform(ps, glshade.TypeMatrix44, glbuild.TokenEnvMatrix, mat4)
			sh.AddPrivateUniform(ps, glshade.TypeFilename, glbuild.TokenEnvRadiance, glshade.Value{})
			sh.AddPrivateUniform(ps, glshade.TypeInteger, glbuild.TokenEnvRadianceMips, glshade.IntValue(1))
			sh.AddPrivateUniform(ps, glshade.TypeInteger, glbuild.TokenEnvRadianceSamples, glshade.IntValue(opts.HwMaxRadianceSamples))
			sh.AddPrivateUniform(ps, glshade.TypeFilename, glbuild.TokenEnvIrradiance, glshade.Value{})
		}
	}
	if requiresAlbedoTable(opts) {
		sh.AddPrivateUniform(ps, glshade.TypeFilename, glbuild.TokenAlbedoTable, glshade.Value{})
		sh.AddPrivateUniform(ps, glshade.TypeInteger, glbuild.TokenAlbedoTableSize, glshade.IntValue(64))
	}
	if requiresShadowing(g, opts) {
		sh.AddPrivateUniform(ps, glshade.TypeFilename, glbuild.TokenShadowMap, glshade.Value{})
		sh.AddPrivateUniform(ps, glshade.TypeMatrix44, glbuild.TokenShadowMatrix, mat4)
	}
	if opts.HwAmbientOcclusion && lighting {
		sh.AddPrivateUniform(ps, glshade.TypeFilename, glbuild.TokenAmbOccMap, glshade.Value{})
		sh.AddPrivateUniform(ps, glshade.TypeFloat, glbuild.TokenAmbOccGain, glshade.FloatValue(1))
	}
	if opts.HwTransparency {
		sh.AddPrivateUniform(ps, glshade.TypeFloat, glbuild.TokenAlphaThreshold, glshade.FloatValue(opts.AlphaThreshold()))
	}

	if lighting && opts.HwMaxActiveLightSources > 0 {
		lb := ps.AddUniformBlock(glbuild.BlockLightData, glbuild.InstanceLightData)
		if _, err := lb.Add(glshade.TypeInteger, "type", glshade.Value{}); err != nil {
			return err
		}
		for _, helper := range lightHelpers {
			if err := resolveAndCreate(sh, ctx, helper); err != nil {
				return err
			}
		}
		err := ctx.LightShaders.Each(func(typeID uint32, light *glshade.Node) error {
			return resolveAndCreate(sh, ctx, light)
		})
		if err != nil {
			return err
		}
	}

	for _, node := range g.Nodes() {
		if _, err := sh.Resolve(node); err != nil {
			return err
		}
	}
	complete := opts.ShaderInterfaceType == glbuild.InterfaceComplete
	for _, sock := range g.Inputs() {
		if complete || sock.Type == glshade.TypeFilename {
			sh.Publish(&sock.Port)
		}
	}
	for _, node := range g.Nodes() {
		impl := sh.Impl(node)
		for _, in := range node.Inputs() {
			if in.IsConnected() {
				continue
			}
			if in.Flags&glshade.PortUniform != 0 || complete && impl.IsEditable(in) {
				sh.Publish(&in.Port)
			}
		}
	}
	for _, node := range g.Nodes() {
		if err := sh.Impl(node).CreateVariables(node, ctx, sh); err != nil {
			return err
		}
	}
	return sh.Err()
}

func resolveAndCreate(sh *glbuild.Shader, ctx *glbuild.Context, node *glshade.Node) error {
	impl, err := sh.Resolve(node)
	if err != nil {
		return err
	}
	return impl.CreateVariables(node, ctx, sh)
}

// EmitVertexStage emits the vertex stage of sh. The vertex stage transforms
// the position and computes the varyings read by the pixel stage.
func (gen *Generator) EmitVertexStage(sh *glbuild.Shader, ctx *glbuild.Context) error {
	st := sh.Vertex()
	syn := gen.syntax
	emitDirectives(st, ctx)
	gen.emitConstants(st)
	if err := gen.emitUniforms(st, ctx); err != nil {
		return err
	}
	if vb := st.InputBlock(glbuild.BlockVertexInputs); vb != nil && !vb.Empty() {
		st.EmitComment("Inputs block: " + vb.Name())
		for _, p := range vb.Ports() {
			st.EmitLine(variableDecl(syn, p, syn.InputQualifier(), false), true)
		}
		st.EmitLineBreak()
	}
	gen.emitVaryingBlock(st, st.OutputBlock(glbuild.BlockVertexData), syn.OutputQualifier())

	g := sh.Graph()
	if err := glbuild.EmitFunctionDefinitions(g, ctx, st); err != nil {
		return err
	}
	st.EmitLine("void main()", false)
	st.EmitScopeBegin()
	st.EmitLine("vec4 hPositionWorld = "+glbuild.TokenWorldMatrix+" * vec4("+glbuild.TokenInPosition+", 1.0)", true)
	st.EmitLine("gl_Position = "+glbuild.TokenViewProjectionMatrix+" * hPositionWorld", true)
	if err := glbuild.EmitFunctionCalls(g, ctx, st); err != nil {
		return err
	}
	st.EmitScopeEnd(false, true)
	ctx.Log().Debug("emitted stage", "stage", st.Name(), "shader", sh.Name())
	return nil
}

// EmitPixelStage emits the pixel stage of sh computing the pixel color.
func (gen *Generator) EmitPixelStage(sh *glbuild.Shader, ctx *glbuild.Context) error {
	st := sh.Pixel()
	syn := gen.syntax
	g := sh.Graph()
	opts := &ctx.Options
	lighting := requiresLighting(g)
	maxLights := opts.HwMaxActiveLightSources

	emitDirectives(st, ctx)
	if err := st.EmitInclude(ctx, glsllib.Defines); err != nil {
		return err
	}
	st.EmitLineBreak()
	var defines []byte
	if maxLights > 0 {
		defines = glbuild.AppendDefineDecl(defines, glbuild.DefineMaxLightSources, strconv.FormatUint(uint64(maxLights), 10))
	}
	defines = glbuild.AppendDefineDecl(defines, glbuild.DefineDirectionalAlbedo, strconv.Itoa(int(opts.HwDirectionalAlbedoMethod)))
	defines = glbuild.AppendDefineDecl(defines, glbuild.DefineEnvRadianceMaxSamples, strconv.Itoa(opts.HwMaxRadianceSamples))
	st.EmitString(string(defines))
	st.EmitLineBreak()
	for _, def := range syn.TypeDefinitions() {
		st.EmitLine(def, false)
	}
	st.EmitLineBreak()

	gen.emitConstants(st)
	if err := gen.emitUniforms(st, ctx); err != nil {
		return err
	}
	if lighting && maxLights > 0 {
		if err := gen.emitLightData(st, ctx); err != nil {
			return err
		}
	}
	gen.emitVaryingBlock(st, st.InputBlock(glbuild.BlockVertexData), syn.InputQualifier())
	st.EmitComment("Pixel shader outputs")
	outputs := st.OutputBlock(glbuild.BlockPixelOutputs)
	for _, p := range outputs.Ports() {
		st.EmitLine(variableDecl(syn, p, syn.OutputQualifier(), false), true)
	}
	st.EmitLineBreak()

	if err := st.EmitInclude(ctx, glsllib.Math); err != nil {
		return err
	}
	st.EmitLineBreak()
	if lighting {
		env, err := glsllib.EnvironmentFile(opts.HwSpecularEnvironmentMethod)
		if err != nil {
			return err
		}
		if err := st.EmitInclude(ctx, env); err != nil {
			return err
		}
		st.EmitLineBreak()
	}
	if requiresShadowing(g, opts) {
		if err := st.EmitInclude(ctx, glsllib.Shadow); err != nil {
			return err
		}
		st.EmitLineBreak()
	}
	if requiresAlbedoTable(opts) {
		if err := st.EmitInclude(ctx, glsllib.AlbedoTable); err != nil {
			return err
		}
		st.EmitLineBreak()
	}
	if opts.HwAmbientOcclusion {
		if err := st.EmitInclude(ctx, glbuild.TokenFileTransformUv); err != nil {
			return err
		}
		st.EmitLineBreak()
	}

	surface := g.Has(glshade.ClassShader | glshade.ClassSurface)
	if lighting && maxLights > 0 && surface {
		err := ctx.LightShaders.Each(func(typeID uint32, light *glshade.Node) error {
			return glbuild.EmitFunctionDefinition(light, ctx, st)
		})
		if err != nil {
			return err
		}
		for _, helper := range lightHelpers {
			if err := glbuild.EmitFunctionDefinition(helper, ctx, st); err != nil {
				return err
			}
		}
	}
	if err := glbuild.EmitFunctionDefinitions(g, ctx, st); err != nil {
		return err
	}

	out := outputs.Ports()[0].Variable
	st.EmitLine("void main()", false)
	st.EmitScopeBegin()
	switch {
	case g.Has(glshade.ClassClosure) && !g.Has(glshade.ClassShader):
		// Closures have no color without a surface shader.
		st.EmitLine(out+" = vec4(0.0, 0.0, 0.0, 1.0)", true)
	case opts.HwWriteDepthMoments:
		st.EmitLine(out+" = vec4(mx_compute_depth_moments(), 0.0, 1.0)", true)
	case opts.HwWriteAlbedoTable:
		st.EmitLine(out+" = vec4(mx_ggx_directional_albedo_generate_table(), 0.0, 1.0)", true)
	default:
		var err error
		if surface {
			err = glbuild.EmitTextureNodes(g, ctx, st)
			for _, node := range g.Nodes() {
				if err != nil {
					break
				}
				if node.Has(glshade.ClassShader | glshade.ClassSurface) {
					err = glbuild.EmitFunctionCall(node, ctx, st)
				}
			}
		} else {
			err = glbuild.EmitFunctionCalls(g, ctx, st)
		}
		if err != nil {
			return err
		}
		if err := gen.emitFinalOutput(sh, ctx, out); err != nil {
			return err
		}
	}
	st.EmitScopeEnd(false, true)
	ctx.Log().Debug("emitted stage", "stage", st.Name(), "shader", sh.Name(), "lighting", lighting, "lights", ctx.LightShaders.Len())
	return nil
}

// emitFinalOutput assigns the graph output to the pixel output variable out.
func (gen *Generator) emitFinalOutput(sh *glbuild.Shader, ctx *glbuild.Context, out string) error {
	st := sh.Pixel()
	syn := gen.syntax
	socket := sh.Graph().Output()
	if !socket.IsConnected() {
		t := socket.Type
		switch {
		case t == glshade.TypeNone:
			st.EmitLine(out+" = vec4(0.0, 0.0, 0.0, 1.0)", true)
		case t.IsFloat4():
			st.EmitLine(out+" = "+syn.Value(t, socket.Value, false), true)
		default:
			tmp := out + "_tmp"
			st.EmitLine(syn.TypeName(t)+" "+tmp+" = "+syn.Value(t, socket.Value, false), true)
			st.EmitLine(out+" = "+ToVec4(t, tmp), true)
		}
		return nil
	}

	expr := glbuild.InputExpr(socket, st)
	t := socket.Connection().Type
	if channels := sh.Graph().Channels(); channels != "" {
		dst := channelsType(len(channels))
		var err error
		expr, err = syn.SwizzledVariable(expr, t, channels, dst)
		if err != nil {
			return fmt.Errorf("graph output: %w", err)
		}
		t = dst
	}
	switch {
	case t == glshade.TypeSurfaceShader || t == glshade.TypeMaterial:
		if !ctx.Options.HwTransparency {
			st.EmitLine(out+" = vec4("+expr+".color, 1.0)", true)
			break
		}
		st.EmitLine("float outAlpha = clamp(1.0 - dot("+expr+".transparency, vec3(0.3333)), 0.0, 1.0)", true)
		st.EmitLine(out+" = vec4("+expr+".color, outAlpha)", true)
		st.EmitLine("if (outAlpha < "+glbuild.TokenAlphaThreshold+")", false)
		st.EmitScopeBegin()
		st.EmitLine("discard", true)
		st.EmitScopeEnd(false, true)
	case t.IsFloat4():
		st.EmitLine(out+" = "+expr, true)
	default:
		st.EmitLine(out+" = "+ToVec4(t, expr), true)
	}
	return nil
}

func channelsType(n int) *glshade.TypeDesc {
	switch n {
	case 1:
		return glshade.TypeFloat
	case 2:
		return glshade.TypeVector2
	case 3:
		return glshade.TypeColor3
	}
	return glshade.TypeColor4
}

// ToVec4 returns expr of type t widened to a vec4. Three channel values get
// an alpha of one, two channel values a zero blue channel and an alpha of
// one and scalars are replicated to the color channels. Values of types
// with no color render opaque black.
func ToVec4(t *glshade.TypeDesc, expr string) string {
	switch {
	case t == nil:
	case t.IsFloat4():
		return expr
	case t.IsFloat3():
		return "vec4(" + expr + ", 1.0)"
	case t.IsFloat2():
		return "vec4(" + expr + ", 0.0, 1.0)"
	case t == glshade.TypeFloat || t == glshade.TypeInteger:
		return "vec4(" + expr + ", " + expr + ", " + expr + ", 1.0)"
	case t == glshade.TypeBSDF:
		return "vec4(" + expr + ".response, 1.0)"
	case t == glshade.TypeEDF:
		return "vec4(" + expr + ", 1.0)"
	}
	return "vec4(0.0, 0.0, 0.0, 1.0)"
}

func emitDirectives(st *glbuild.Stage, ctx *glbuild.Context) {
	st.EmitLine("#version "+Version, false)
	if ctx.Bindings != nil {
		ctx.Bindings.EmitDirectives(ctx, st)
	}
	st.EmitLineBreak()
}

func (gen *Generator) emitConstants(st *glbuild.Stage) {
	vb := st.Constants()
	if vb.Empty() {
		return
	}
	syn := gen.syntax
	st.EmitComment("Constant block: " + vb.Name())
	for _, p := range vb.Ports() {
		st.EmitLine(variableDecl(syn, p, syn.ConstantQualifier(), true), true)
	}
	st.EmitLineBreak()
}

// emitUniforms declares the uniform blocks of the stage except the light
// data, which is declared as an array of structs by emitLightData.
func (gen *Generator) emitUniforms(st *glbuild.Stage, ctx *glbuild.Context) error {
	syn := gen.syntax
	for _, vb := range st.UniformBlocks() {
		if vb.Empty() || vb.Name() == glbuild.BlockLightData {
			continue
		}
		if ctx.Bindings != nil {
			if err := ctx.Bindings.EmitResourceBindings(ctx, vb, st); err != nil {
				return err
			}
			continue
		}
		st.EmitComment("Uniform block: " + vb.Name())
		for _, p := range vb.Ports() {
			st.EmitLine(variableDecl(syn, p, syn.UniformQualifier(), true), true)
		}
		st.EmitLineBreak()
	}
	return nil
}

func (gen *Generator) emitLightData(st *glbuild.Stage, ctx *glbuild.Context) error {
	lb := st.UniformBlock(glbuild.BlockLightData)
	if lb == nil || lb.Empty() {
		return nil
	}
	arraySuffix := "[" + glbuild.DefineMaxLightSources + "]"
	if ctx.Bindings != nil {
		return ctx.Bindings.EmitStructuredResourceBindings(ctx, lb, st, lb.Name(), arraySuffix)
	}
	syn := gen.syntax
	st.EmitLine("struct "+lb.Name(), false)
	st.EmitScopeBegin()
	for _, p := range lb.Ports() {
		st.EmitLine(variableDecl(syn, p, "", false), true)
	}
	st.EmitScopeEnd(true, true)
	st.EmitLineBreak()
	st.EmitLine(syn.UniformQualifier()+" "+lb.Name()+" "+lb.Instance()+arraySuffix, true)
	st.EmitLineBreak()
	return nil
}

// emitVaryingBlock declares the block of variables passed from the vertex
// to the pixel stage. Both stages declare the same members in the same order.
func (gen *Generator) emitVaryingBlock(st *glbuild.Stage, vb *glbuild.VariableBlock, qualifier string) {
	if vb == nil || vb.Empty() {
		return
	}
	st.EmitLine(qualifier+" "+vb.Name(), false)
	st.EmitScopeBegin()
	for _, p := range vb.Ports() {
		st.EmitLine(variableDecl(gen.syntax, p, "", false), true)
	}
	st.EmitScopeEnd(false, false)
	st.EmitString(" " + vb.Instance() + ";\n")
	st.EmitLineBreak()
}

// variableDecl returns the declaration of p, i.e: "uniform vec3 u_viewPosition = vec3(0.0)".
// Unqualified integer geometric property varyings are flat qualified.
// When assign is set the declaration is initialized with the value of p
// if it has a literal form.
func variableDecl(syn glbuild.Syntax, p *glshade.Port, qualifier string, assign bool) string {
	var sb strings.Builder
	if qualifier != "" {
		sb.WriteString(qualifier)
		sb.WriteByte(' ')
	} else if !assign && p.Type == glshade.TypeInteger && strings.HasPrefix(p.Variable, glbuild.TokenInGeomprop) {
		sb.WriteString(syn.FlatQualifier())
		sb.WriteByte(' ')
	}
	sb.WriteString(syn.TypeName(p.Type))
	sb.WriteByte(' ')
	sb.WriteString(p.Variable)
	sb.WriteString(syn.ArrayVariableSuffix(p.Type, p.Value))
	if p.Semantic != "" {
		sb.WriteString(" : ")
		sb.WriteString(p.Semantic)
	}
	if assign {
		if v := syn.Value(p.Type, p.Value, qualifier == syn.UniformQualifier()); v != "" {
			sb.WriteString(" = ")
			sb.WriteString(v)
		}
	}
	return sb.String()
}

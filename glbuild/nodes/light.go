package nodes

import (
	"fmt"
	"strconv"

	"github.com/soypat/glshade"
	"github.com/soypat/glshade/glbuild"
	"github.com/soypat/glshade/glbuild/glsllib"
)

// Names of the light helper functions called by light loops.
const (
	FuncNumActiveLightSources = "numActiveLightSources"
	FuncSampleLightSource     = "sampleLightSource"
)

const lightSignature = "(LightData light, vec3 position, out lightshader result)"

// lightFunction is implemented by light shaders defined as functions of
// signature
//
//	void <name>(LightData light, vec3 position, out lightshader result)
type lightFunction interface {
	lightFunctionName(node *glshade.Node) string
}

func lightDataBlock(sh *glbuild.Shader) *glbuild.VariableBlock {
	return sh.Pixel().AddUniformBlock(glbuild.BlockLightData, glbuild.InstanceLightData)
}

// LightShader emits the point, directional and spot light shaders. Their
// inputs are members of the light data struct rather than uniforms.
type LightShader struct {
	glbuild.Base
	Op string
}

func NewLightShader(op string) glbuild.Factory {
	return func() glbuild.Implementation { return &LightShader{Op: op} }
}

func (ls *LightShader) lightFunctionName(*glshade.Node) string { return "mx_" + ls.Op }

func (ls *LightShader) CreateVariables(node *glshade.Node, ctx *glbuild.Context, sh *glbuild.Shader) error {
	lb := lightDataBlock(sh)
	for _, in := range node.Inputs() {
		if in.Type.BaseType() == glshade.BaseString {
			continue
		}
		if _, err := lb.Add(in.Type, in.Name, in.Value); err != nil {
			return fmt.Errorf("light %q: %w", node.Name(), err)
		}
	}
	return nil
}

func (ls *LightShader) EmitFunctionDefinition(node *glshade.Node, ctx *glbuild.Context, st *glbuild.Stage) error {
	if !isPixel(st) {
		return nil
	}
	return st.EmitInclude(ctx, glsllib.NodeFile(ls.Op))
}

func (ls *LightShader) EmitFunctionCall(node *glshade.Node, ctx *glbuild.Context, st *glbuild.Stage) error {
	if isPixel(st) {
		st.EmitLine(ls.lightFunctionName(node)+"(light, position, result)", true)
	}
	return nil
}

func (*LightShader) IsEditable(*glshade.Input) bool { return false }

// Light emits the light node: the "edf" input evaluated towards the shaded
// position, scaled by "intensity" and by 2 to the power of "exposure". It
// is called within a light function where the light data and the shaded
// position are in scope.
type Light struct{ glbuild.Base }

func NewLight() glbuild.Implementation { return &Light{} }

func (*Light) CreateVariables(node *glshade.Node, ctx *glbuild.Context, sh *glbuild.Shader) error {
	_, err := lightDataBlock(sh).Add(glshade.TypeVector3, "position", glshade.Value{})
	return err
}

func (*Light) EmitFunctionCall(node *glshade.Node, ctx *glbuild.Context, st *glbuild.Stage) error {
	if !isPixel(st) {
		return nil
	}
	intensity, err := glbuild.InputExprByName(node, "intensity", st)
	if err != nil {
		return err
	}
	exposure, err := glbuild.InputExprByName(node, "exposure", st)
	if err != nil {
		return err
	}
	out := node.Output("")
	st.EmitLine(st.OutputDecl(out, true), true)
	st.EmitScopeBegin()
	st.EmitLine("vec3 L = normalize(light.position - position)", true)
	st.EmitLine("vec3 N = -L", true)
	st.EmitLine("vec3 V = L", true)
	if edf := node.Upstream("edf"); edf != nil {
		err = emitClosureCalls(edf, glbuild.NewEmissionContext(), ctx, st)
		if err != nil {
			return err
		}
		st.EmitLine(out.Variable+".intensity = "+edf.Output("").Variable+" * "+intensity+" * pow(2.0, "+exposure+")", true)
	}
	st.EmitLine(out.Variable+".direction = L", true)
	st.EmitScopeEnd(false, true)
	return nil
}

// NumLights defines the function returning the number of active light
// sources, bounded by the light data array size.
type NumLights struct{ glbuild.Base }

func NewNumLights() glbuild.Implementation { return &NumLights{} }

func (*NumLights) CreateVariables(node *glshade.Node, ctx *glbuild.Context, sh *glbuild.Shader) error {
	sh.AddPrivateUniform(sh.Pixel(), glshade.TypeInteger, glbuild.TokenNumActiveLightSources, glshade.Value{})
	return nil
}

func (*NumLights) EmitFunctionDefinition(node *glshade.Node, ctx *glbuild.Context, st *glbuild.Stage) error {
	if !isPixel(st) {
		return nil
	}
	st.EmitLine("int "+FuncNumActiveLightSources+"()", false)
	st.EmitScopeBegin()
	st.EmitLine("return min("+glbuild.TokenNumActiveLightSources+", "+glbuild.DefineMaxLightSources+")", true)
	st.EmitScopeEnd(false, true)
	st.EmitLineBreak()
	return nil
}

// LightSampler defines the function evaluating the light shader bound to
// the type of a light data entry. Light types with no bound shader yield
// no light.
type LightSampler struct{ glbuild.Base }

func NewLightSampler() glbuild.Implementation { return &LightSampler{} }

func (*LightSampler) EmitFunctionDefinition(node *glshade.Node, ctx *glbuild.Context, st *glbuild.Stage) error {
	if !isPixel(st) {
		return nil
	}
	sh := st.Shader()
	st.EmitLine("void "+FuncSampleLightSource+lightSignature, false)
	st.EmitScopeBegin()
	st.EmitLine("result.intensity = vec3(0.0)", true)
	st.EmitLine("result.direction = vec3(0.0)", true)
	first := true
	err := ctx.LightShaders.Each(func(typeID uint32, light *glshade.Node) error {
		impl := sh.Impl(light)
		if impl == nil {
			return fmt.Errorf("%w: light shader %q has no resolved implementation", glbuild.ErrLookup, light.Name())
		}
		cond := "if (light.type == " + strconv.FormatUint(uint64(typeID), 10) + ")"
		if !first {
			cond = "else " + cond
		}
		first = false
		st.EmitLine(cond, false)
		st.EmitScopeBegin()
		if lf, ok := impl.(lightFunction); ok {
			st.EmitLine(lf.lightFunctionName(light)+"(light, position, result)", true)
		} else {
			if err := impl.EmitFunctionCall(light, ctx, st); err != nil {
				return err
			}
			st.EmitLine("result = "+light.Output("").Variable, true)
		}
		st.EmitScopeEnd(false, true)
		return nil
	})
	if err != nil {
		return err
	}
	st.EmitScopeEnd(false, true)
	st.EmitLineBreak()
	return nil
}

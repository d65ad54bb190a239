package nodes

import (
	"github.com/soypat/glshade"
	"github.com/soypat/glshade/glbuild"
)

// Surface emits the surface shader node: the "bsdf" input is evaluated for
// every active light, for the environment and for transmission, the "edf"
// input adds emission and "opacity" scales the result.
type Surface struct{ glbuild.Base }

func NewSurface() glbuild.Implementation { return &Surface{} }

func (*Surface) CreateVariables(node *glshade.Node, ctx *glbuild.Context, sh *glbuild.Shader) error {
	vs, ps := sh.Vertex(), sh.Pixel()
	sh.AddVertexInput(glshade.TypeVector3, glbuild.TokenInNormal)
	sh.AddPrivateUniform(vs, glshade.TypeMatrix44, glbuild.TokenWorldInverseTransposeMatrix, glshade.Value{})
	sh.AddStageConnector(glshade.TypeVector3, glbuild.TokenPositionWorld)
	sh.AddStageConnector(glshade.TypeVector3, glbuild.TokenNormalWorld)
	sh.AddPrivateUniform(ps, glshade.TypeVector3, glbuild.TokenViewPosition, glshade.Value{})
	if ctx.Options.HwAmbientOcclusion {
		addTexcoord(sh, 0)
	}
	return nil
}

func (s *Surface) EmitFunctionCall(node *glshade.Node, ctx *glbuild.Context, st *glbuild.Stage) error {
	if isVertex(st) {
		emitVarying(st, glbuild.TokenPositionWorld, "hPositionWorld.xyz")
		emitVarying(st, glbuild.TokenNormalWorld, worldNormalExpr)
		if ctx.Options.HwAmbientOcclusion {
			emitTexcoordVarying(st, 0)
		}
		return nil
	}
	opts := &ctx.Options
	vd := glbuild.VaryingPrefix()
	out := node.Output("").Variable
	bsdf := node.Upstream("bsdf")
	edf := node.Upstream("edf")
	opacity, err := glbuild.InputExprByName(node, "opacity", st)
	if err != nil {
		return err
	}

	st.EmitLine(st.OutputDecl(node.Output(""), true), true)
	st.EmitScopeBegin()
	st.EmitLine("vec3 N = normalize("+vd+glbuild.TokenNormalWorld+")", true)
	st.EmitLine("vec3 V = normalize("+glbuild.TokenViewPosition+" - "+vd+glbuild.TokenPositionWorld+")", true)
	st.EmitLine("vec3 P = "+vd+glbuild.TokenPositionWorld, true)
	st.EmitLineBreak()
	st.EmitLine("float surfaceOpacity = "+opacity, true)
	st.EmitLineBreak()

	if bsdf != nil {
		st.EmitComment("Shadow occlusion")
		st.EmitLine("float occlusion = 1.0", true)
		if opts.HwShadowMap {
			st.EmitLine("vec3 shadowCoord = ("+glbuild.TokenShadowMatrix+" * vec4("+vd+glbuild.TokenPositionWorld+", 1.0)).xyz", true)
			st.EmitLine("shadowCoord = shadowCoord * 0.5 + 0.5", true)
			st.EmitLine("vec2 shadowMoments = texture("+glbuild.TokenShadowMap+", shadowCoord.xy).xy", true)
			st.EmitLine("occlusion = mx_variance_shadow_occlusion(shadowMoments, shadowCoord.z)", true)
		}
		st.EmitLineBreak()
		if opts.HwMaxActiveLightSources > 0 {
			err = s.emitLightLoop(bsdf, out, ctx, st)
			if err != nil {
				return err
			}
		}

		st.EmitComment("Ambient occlusion")
		st.EmitLine("float ambientOcclusion = 1.0", true)
		if opts.HwAmbientOcclusion {
			st.EmitLine("vec2 ambOccUv = mx_transform_uv("+vd+glbuild.TokenTexcoord+"_0, vec2(1.0), vec2(0.0))", true)
			st.EmitLine("ambientOcclusion = mix(1.0, texture("+glbuild.TokenAmbOccMap+", ambOccUv).x, "+glbuild.TokenAmbOccGain+")", true)
		}
		st.EmitLineBreak()
		st.EmitComment("Add environment contribution")
		st.EmitScopeBegin()
		err = emitClosureCalls(bsdf, glbuild.NewIndirectContext(), ctx, st)
		if err != nil {
			return err
		}
		st.EmitLineBreak()
		st.EmitLine(out+".color += ambientOcclusion * "+bsdf.Output("").Variable+".response", true)
		st.EmitScopeEnd(false, true)
		st.EmitLineBreak()
	}

	if edf != nil {
		st.EmitComment("Add surface emission")
		st.EmitScopeBegin()
		err = emitClosureCalls(edf, glbuild.NewEmissionContext(), ctx, st)
		if err != nil {
			return err
		}
		st.EmitLine(out+".color += "+edf.Output("").Variable, true)
		st.EmitScopeEnd(false, true)
		st.EmitLineBreak()
	}

	if bsdf != nil {
		st.EmitComment("Calculate the BSDF transmission for viewing direction")
		st.EmitScopeBegin()
		err = emitClosureCalls(bsdf, glbuild.NewTransmissionContext(), ctx, st)
		if err != nil {
			return err
		}
		response := bsdf.Output("").Variable + ".response"
		if opts.HwTransmissionRenderMethod == glbuild.TransmissionRefraction {
			st.EmitLine(out+".color += "+response, true)
		} else {
			st.EmitLine(out+".transparency += "+response, true)
		}
		st.EmitScopeEnd(false, true)
		st.EmitLineBreak()
	}

	st.EmitComment("Compute and apply surface opacity")
	st.EmitLine(out+".color *= surfaceOpacity", true)
	st.EmitLine(out+".transparency = mix(vec3(1.0), "+out+".transparency, surfaceOpacity)", true)
	st.EmitScopeEnd(false, true)
	st.EmitLineBreak()
	return nil
}

// emitLightLoop evaluates bsdf in the reflection context once per active
// light source, accumulating into the color of the surface variable out.
func (*Surface) emitLightLoop(bsdf *glshade.Node, out string, ctx *glbuild.Context, st *glbuild.Stage) error {
	st.EmitComment("Light loop")
	st.EmitLine("int numLights = numActiveLightSources()", true)
	st.EmitLine("lightshader lightShader", true)
	st.EmitLine("for (int activeLightIndex = 0; activeLightIndex < numLights; ++activeLightIndex)", false)
	st.EmitScopeBegin()
	st.EmitLine("sampleLightSource("+glbuild.TokenLightData+"[activeLightIndex], "+glbuild.VaryingPrefix()+glbuild.TokenPositionWorld+", lightShader)", true)
	st.EmitLine("vec3 L = lightShader.direction", true)
	st.EmitLineBreak()
	st.EmitComment("Calculate the BSDF response for this light source")
	err := emitClosureCalls(bsdf, glbuild.NewReflectionContext(), ctx, st)
	if err != nil {
		return err
	}
	st.EmitLineBreak()
	st.EmitComment("Accumulate the light's contribution")
	st.EmitLine(out+".color += lightShader.intensity * "+bsdf.Output("").Variable+".response", true)
	st.EmitScopeEnd(false, true)
	st.EmitLineBreak()
	return nil
}

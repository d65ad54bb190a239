package nodes

import (
	"github.com/soypat/glshade"
	"github.com/soypat/glshade/glbuild"
)

// Image samples the texture bound to the "file" input at the "texcoord"
// input, transformed by "uv_scale" and "uv_offset". When "texcoord" is not
// connected the first texture coordinate set is used.
type Image struct{ glbuild.Base }

func NewImage() glbuild.Implementation { return &Image{} }

func (*Image) CreateVariables(node *glshade.Node, ctx *glbuild.Context, sh *glbuild.Shader) error {
	if in := node.Input("texcoord"); in == nil || !in.IsConnected() {
		addTexcoord(sh, 0)
	}
	return nil
}

func imageFunction(node *glshade.Node) string {
	return "mx_image_" + node.Output("").Type.Name()
}

func (*Image) EmitFunctionDefinition(node *glshade.Node, ctx *glbuild.Context, st *glbuild.Stage) error {
	if !isPixel(st) {
		return nil
	}
	if err := st.EmitInclude(ctx, glbuild.TokenFileTransformUv); err != nil {
		return err
	}
	t := node.Output("").Type
	var sample string
	switch {
	case t == glshade.TypeFloat:
		sample = ".r"
	case t.IsFloat2():
		sample = ".rg"
	case t.IsFloat3():
		sample = ".rgb"
	}
	typ := st.Syntax().TypeName(t)
	st.EmitLine("void "+imageFunction(node)+"(sampler2D tex_sampler, "+typ+" defaultval, vec2 texcoord, vec2 uv_scale, vec2 uv_offset, out "+typ+" result)", false)
	st.EmitScopeBegin()
	st.EmitLine("vec2 uv = mx_transform_uv(texcoord, uv_scale, uv_offset)", true)
	st.EmitLine("if (textureSize(tex_sampler, 0).x > 1)", false)
	st.EmitScopeBegin()
	st.EmitLine("result = texture(tex_sampler, uv)"+sample, true)
	st.EmitScopeEnd(false, true)
	st.EmitLine("else", false)
	st.EmitScopeBegin()
	st.EmitLine("result = defaultval", true)
	st.EmitScopeEnd(false, true)
	st.EmitScopeEnd(false, true)
	st.EmitLineBreak()
	return nil
}

func (*Image) EmitFunctionCall(node *glshade.Node, ctx *glbuild.Context, st *glbuild.Stage) error {
	if isVertex(st) {
		if in := node.Input("texcoord"); in == nil || !in.IsConnected() {
			emitTexcoordVarying(st, 0)
		}
		return nil
	}
	out := node.Output("")
	st.EmitLine(st.OutputDecl(out, true), true)
	return emitImageSample(node, imageTexcoord(node, st), out.Variable, st)
}

// imageTexcoord returns the expression of the texture coordinates the
// image node samples at.
func imageTexcoord(node *glshade.Node, st *glbuild.Stage) string {
	if in := node.Input("texcoord"); in != nil && in.IsConnected() {
		return glbuild.InputExpr(in, st)
	}
	return glbuild.VaryingPrefix() + glbuild.TokenTexcoord + "_0"
}

// emitImageSample emits the call of the image node's function sampling at
// texcoord into the declared variable result.
func emitImageSample(node *glshade.Node, texcoord, result string, st *glbuild.Stage) error {
	args := make([]string, 0, 6)
	for _, name := range [...]string{"file", "default", "texcoord", "uv_scale", "uv_offset"} {
		if name == "texcoord" {
			args = append(args, texcoord)
			continue
		}
		in := node.Input(name)
		if in == nil {
			return errNoInput(node, name)
		}
		args = append(args, glbuild.InputExpr(in, st))
	}
	st.EmitLine(call(imageFunction(node), append(args, result)...), true)
	return nil
}

// IsEditable reports false for "texcoord", which defaults to a varying.
func (*Image) IsEditable(in *glshade.Input) bool {
	return in.Name != "texcoord" && glbuild.Base{}.IsEditable(in)
}

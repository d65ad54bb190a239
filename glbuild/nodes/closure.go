package nodes

import (
	"slices"

	"github.com/soypat/glshade"
	"github.com/soypat/glshade/glbuild"
	"github.com/soypat/glshade/glbuild/glsllib"
)

// Closure emits BSDF and EDF nodes implemented by library functions named
// after the operation and suffixed by the active closure context, i.e:
//
//	void mx_dielectric_bsdf_reflection(vec3 L, vec3 V, vec3 P, float occlusion, <inputs>, out BSDF result)
//
// Outside a closure context, or under a context the node does not support,
// the output is declared with its default value and no function is called.
type Closure struct {
	glbuild.Base
	Op string
}

// thinFilmOps are the closures whose reflection and indirect functions take
// trailing thin film thickness and ior arguments.
var thinFilmOps = map[string]bool{
	"dielectric_bsdf":          true,
	"conductor_bsdf":           true,
	"generalized_schlick_bsdf": true,
}

func NewClosure(op string) glbuild.Factory {
	return func() glbuild.Implementation { return &Closure{Op: op} }
}

func (c *Closure) EmitFunctionDefinition(node *glshade.Node, ctx *glbuild.Context, st *glbuild.Stage) error {
	if !isPixel(st) {
		return nil
	}
	if node.Has(glshade.ClassBSDF) {
		if err := st.EmitInclude(ctx, glsllib.Microfacet); err != nil {
			return err
		}
	}
	return st.EmitInclude(ctx, glsllib.NodeFile(c.Op))
}

// supports reports whether the node is evaluated under cc.
func supports(node *glshade.Node, cc *glbuild.ClosureContext) bool {
	if cc == nil {
		return false
	}
	switch cc.Kind {
	case glbuild.ClosureReflection, glbuild.ClosureIndirect:
		return node.Has(glshade.ClassBSDFReflection)
	case glbuild.ClosureTransmission:
		return node.Has(glshade.ClassBSDFTransmission)
	case glbuild.ClosureEmission:
		return node.Has(glshade.ClassEDF)
	}
	return false
}

func (c *Closure) EmitFunctionCall(node *glshade.Node, ctx *glbuild.Context, st *glbuild.Stage) error {
	if !isPixel(st) {
		return nil
	}
	out := node.Output("")
	st.EmitLine(st.OutputDecl(out, true), true)
	cc := ctx.ClosureContext()
	if !supports(node, cc) {
		return nil
	}
	args := slices.Clone(cc.Args)
	for _, in := range node.Inputs() {
		if in.Name == "normal" && !in.IsConnected() {
			args = append(args, "N")
			continue
		}
		args = append(args, glbuild.InputExpr(in, st))
	}
	if thinFilmOps[c.Op] && (cc.Kind == glbuild.ClosureReflection || cc.Kind == glbuild.ClosureIndirect) {
		thickness, ior := "0.0", "1.5"
		if tf := cc.ThinFilm; tf != nil {
			thickness, ior = tf.Thickness, tf.IOR
		}
		args = append(args, thickness, ior)
	}
	st.EmitLine(call("mx_"+c.Op+cc.Suffix, append(args, out.Variable)...), true)
	return nil
}

// IsEditable reports false for the shading frame inputs which default to
// the surface's geometric frame.
func (*Closure) IsEditable(in *glshade.Input) bool {
	switch in.Name {
	case "normal", "tangent":
		return false
	}
	return glbuild.Base{}.IsEditable(in)
}

// Layer vertically layers the "top" BSDF over the "base" BSDF, attenuating
// the base response by the top throughput. A thin film on top is instead
// applied to the Fresnel of the base BSDFs.
type Layer struct{ glbuild.Base }

func NewLayer() glbuild.Implementation { return &Layer{} }

// thinFilm returns the film of the thin_film_bsdf connected to the layer's
// "top" input or nil.
func thinFilm(node *glshade.Node, st *glbuild.Stage) *glbuild.ThinFilm {
	top := node.Upstream("top")
	if top == nil || !top.Has(glshade.ClassThinFilm) {
		return nil
	}
	tf := &glbuild.ThinFilm{Thickness: "0.0", IOR: "1.5"}
	if in := top.Input("thickness"); in != nil {
		tf.Thickness = glbuild.InputExpr(in, st)
	}
	if in := top.Input("ior"); in != nil {
		tf.IOR = glbuild.InputExpr(in, st)
	}
	return tf
}

// EmitDependencies emits the calls upstream of "top" then those upstream of
// "base", the latter under the thin film on top if there is one.
func (*Layer) EmitDependencies(node *glshade.Node, ctx *glbuild.Context, st *glbuild.Stage, class glshade.Classification) error {
	top, base := node.Input("top"), node.Input("base")
	if top == nil || base == nil {
		return errNoInput(node, "base")
	}
	if err := glbuild.EmitInputDependencies(top, ctx, st, class); err != nil {
		return err
	}
	cc := ctx.ClosureContext()
	tf := thinFilm(node, st)
	if cc == nil || tf == nil {
		return glbuild.EmitInputDependencies(base, ctx, st, class)
	}
	ctx.PushClosureContext(cc.WithThinFilm(tf))
	defer ctx.PopClosureContext()
	return glbuild.EmitInputDependencies(base, ctx, st, class)
}

func (*Layer) EmitFunctionCall(node *glshade.Node, ctx *glbuild.Context, st *glbuild.Stage) error {
	if !isPixel(st) {
		return nil
	}
	out := node.Output("")
	st.EmitLine(st.OutputDecl(out, true), true)
	if !supports(node, ctx.ClosureContext()) {
		return nil
	}
	top, base := node.Input("top"), node.Input("base")
	if top == nil || base == nil {
		return errNoInput(node, "top")
	}
	switch {
	case thinFilm(node, st) != nil:
		if base.IsConnected() {
			st.EmitLine(out.Variable+" = "+glbuild.InputExpr(base, st), true)
		}
	case top.IsConnected() && base.IsConnected():
		t, b := glbuild.InputExpr(top, st), glbuild.InputExpr(base, st)
		st.EmitLine(out.Variable+".response = "+t+".response + "+t+".throughput * "+b+".response", true)
		st.EmitLine(out.Variable+".throughput = "+t+".throughput * "+b+".throughput", true)
	case top.IsConnected():
		st.EmitLine(out.Variable+" = "+glbuild.InputExpr(top, st), true)
	case base.IsConnected():
		st.EmitLine(out.Variable+" = "+glbuild.InputExpr(base, st), true)
	}
	return nil
}

// ThinFilmBSDF emits the thin_film_bsdf node. It has no response of its
// own: a layer applies its "thickness" and "ior" to the BSDFs below it.
type ThinFilmBSDF struct{ glbuild.Base }

func NewThinFilmBSDF() glbuild.Implementation { return &ThinFilmBSDF{} }

func (*ThinFilmBSDF) EmitFunctionCall(node *glshade.Node, ctx *glbuild.Context, st *glbuild.Stage) error {
	if isPixel(st) {
		st.EmitLine(st.OutputDecl(node.Output(""), true), true)
	}
	return nil
}

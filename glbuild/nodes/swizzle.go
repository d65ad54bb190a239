package nodes

import (
	"strings"

	"github.com/soypat/glshade"
	"github.com/soypat/glshade/glbuild"
)

// Swizzle reorders the channels of input "in" as selected by the "channels" string.
type Swizzle struct{ glbuild.Base }

func NewSwizzle() glbuild.Implementation { return &Swizzle{} }

func (*Swizzle) EmitFunctionCall(node *glshade.Node, ctx *glbuild.Context, st *glbuild.Stage) error {
	if !isPixel(st) {
		return nil
	}
	in := node.Input("in")
	if in == nil {
		return errNoInput(node, "in")
	}
	channels := stringInput(node, "channels", "")
	out := node.Output("")
	expr, err := st.Syntax().SwizzledVariable(glbuild.InputExpr(in, st), in.Type, channels, out.Type)
	if err != nil {
		return err
	}
	emitOutput(node, st, expr)
	return nil
}

// Convert converts input "in" to the type of the node's output.
type Convert struct{ glbuild.Base }

func NewConvert() glbuild.Implementation { return &Convert{} }

func (*Convert) EmitFunctionCall(node *glshade.Node, ctx *glbuild.Context, st *glbuild.Stage) error {
	if !isPixel(st) {
		return nil
	}
	in := node.Input("in")
	if in == nil {
		return errNoInput(node, "in")
	}
	out := node.Output("")
	syn := st.Syntax()
	expr := glbuild.InputExpr(in, st)
	from, to := in.Type, out.Type
	switch {
	case from == to:
	case isVectorLike(from) && isVectorLike(to):
		var err error
		expr, err = syn.SwizzledVariable(expr, from, convertChannels(from.Size(), to.Size()), to)
		if err != nil {
			return err
		}
	default:
		// Scalar casts: integer and boolean to and from float.
		expr = syn.TypeName(to) + "(" + expr + ")"
	}
	emitOutput(node, st, expr)
	return nil
}

func isVectorLike(t *glshade.TypeDesc) bool {
	return t == glshade.TypeFloat || t.IsFloat2() || t.IsFloat3() || t.IsFloat4()
}

// convertChannels returns the swizzle widening or narrowing n channels to m.
// A scalar is replicated; missing channels are zero except alpha which is one.
func convertChannels(n, m int) string {
	const xyzw = "xyzw"
	if n == 1 {
		return strings.Repeat("x", m)
	}
	if m <= n {
		return xyzw[:m]
	}
	channels := xyzw[:n]
	for i := n; i < m; i++ {
		if i == 3 {
			channels += "1"
		} else {
			channels += "0"
		}
	}
	return channels
}

// Combine constructs its output from its inputs in declaration order,
// i.e: combine3 and the color3 plus float to color4 overload.
type Combine struct{ glbuild.Base }

func NewCombine() glbuild.Implementation { return &Combine{} }

func (*Combine) EmitFunctionCall(node *glshade.Node, ctx *glbuild.Context, st *glbuild.Stage) error {
	if !isPixel(st) {
		return nil
	}
	out := node.Output("")
	emitOutput(node, st, call(st.Syntax().TypeName(out.Type), inputExprs(node, st)...))
	return nil
}

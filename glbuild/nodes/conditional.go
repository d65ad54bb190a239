package nodes

import (
	"strconv"

	"github.com/soypat/glshade"
	"github.com/soypat/glshade/glbuild"
)

// Switch selects one of its "in<N>" inputs with the "which" input. Values of
// which below 1 select in1, below 2 select in2 and so on, the last input is
// selected for anything above.
type Switch struct{ glbuild.Base }

func NewSwitch() glbuild.Implementation { return &Switch{} }

func (*Switch) EmitFunctionCall(node *glshade.Node, ctx *glbuild.Context, st *glbuild.Stage) error {
	if !isPixel(st) {
		return nil
	}
	which := node.Input("which")
	if which == nil {
		return errNoInput(node, "which")
	}
	var options []*glshade.Input
	for _, in := range node.Inputs() {
		if in != which {
			options = append(options, in)
		}
	}
	out := node.Output("")
	st.EmitLine(st.OutputDecl(out, true), true)
	whichExpr := glbuild.InputExpr(which, st)
	isInt := which.Type.BaseType() == glshade.BaseInteger
	if !isInt {
		whichExpr = "float(" + whichExpr + ")"
	}
	for i, in := range options {
		switch {
		case i == len(options)-1 && i > 0:
			st.EmitLine("else", false)
		default:
			limit := strconv.Itoa(i + 1)
			if !isInt {
				limit += ".0"
			}
			cond := "if (" + whichExpr + " < " + limit + ")"
			if i > 0 {
				cond = "else " + cond
			}
			st.EmitLine(cond, false)
		}
		st.EmitScopeBegin()
		st.EmitLine(out.Variable+" = "+glbuild.InputExpr(in, st), true)
		st.EmitScopeEnd(false, true)
	}
	return nil
}

// Compare selects "in1" when the comparison of "value1" and "value2" holds
// and "in2" otherwise: the ifgreater, ifgreatereq and ifequal nodes.
type Compare struct {
	glbuild.Base
	Operator string
}

// NewCompare returns a factory of comparisons using the GLSL operator op.
func NewCompare(op string) glbuild.Factory {
	return func() glbuild.Implementation { return &Compare{Operator: op} }
}

func (c *Compare) EmitFunctionCall(node *glshade.Node, ctx *glbuild.Context, st *glbuild.Stage) error {
	if !isPixel(st) {
		return nil
	}
	var exprs [4]string
	for i, name := range [4]string{"value1", "value2", "in1", "in2"} {
		var err error
		exprs[i], err = glbuild.InputExprByName(node, name, st)
		if err != nil {
			return err
		}
	}
	out := node.Output("")
	st.EmitLine(st.OutputDecl(out, true), true)
	st.EmitLine("if ("+exprs[0]+" "+c.Operator+" "+exprs[1]+")", false)
	st.EmitScopeBegin()
	st.EmitLine(out.Variable+" = "+exprs[2], true)
	st.EmitScopeEnd(false, true)
	st.EmitLine("else", false)
	st.EmitScopeBegin()
	st.EmitLine(out.Variable+" = "+exprs[3], true)
	st.EmitScopeEnd(false, true)
	return nil
}

// Package nodes implements the code emitters of the node families shared by
// GLSL targets. Emitters are stateless: a fresh value is created per node by
// the factories registered in a [glbuild.Registry].
package nodes

import (
	"fmt"
	"strings"

	"github.com/soypat/glshade"
	"github.com/soypat/glshade/glbuild"
)

func isPixel(st *glbuild.Stage) bool  { return st.Name() == glbuild.StagePixel }
func isVertex(st *glbuild.Stage) bool { return st.Name() == glbuild.StageVertex }

// emitVarying emits the vertex stage assignment of the varying named name
// once per shader.
func emitVarying(st *glbuild.Stage, name, expr string) {
	vb := st.OutputBlock(glbuild.BlockVertexData)
	if vb == nil {
		return
	}
	p := vb.Find(name)
	if p == nil || p.IsEmitted() {
		return
	}
	p.SetEmitted()
	st.EmitLine(glbuild.VaryingPrefix()+p.Variable+" = "+expr, true)
}

// emitOutput emits the declaration of node's first output assigned to expr.
func emitOutput(node *glshade.Node, st *glbuild.Stage, expr string) {
	st.EmitLine(st.OutputDecl(node.Output(""), false)+" = "+expr, true)
}

// inputExprs returns the expressions of the node's inputs in declaration
// order, skipping the named inputs.
func inputExprs(node *glshade.Node, st *glbuild.Stage, skip ...string) []string {
	args := make([]string, 0, len(node.Inputs()))
outer:
	for _, in := range node.Inputs() {
		for _, s := range skip {
			if in.Name == s {
				continue outer
			}
		}
		args = append(args, glbuild.InputExpr(in, st))
	}
	return args
}

func stringInput(node *glshade.Node, name, def string) string {
	in := node.Input(name)
	if in == nil || in.Value.Text() == "" {
		return def
	}
	return in.Value.Text()
}

func intInput(node *glshade.Node, name string) int {
	in := node.Input(name)
	if in == nil {
		return 0
	}
	return int(in.Value.Int())
}

func call(fn string, args ...string) string {
	return fn + "(" + strings.Join(args, ", ") + ")"
}

func errNoInput(node *glshade.Node, input string) error {
	return fmt.Errorf("node %q (%s) requires input %q", node.Name(), node.Impl(), input)
}

// emitClosureCalls emits the call of closure, preceded by its closure
// dependencies, under the calling convention cc. Calls are scoped so the
// same closure may be called again under another convention.
func emitClosureCalls(closure *glshade.Node, cc *glbuild.ClosureContext, ctx *glbuild.Context, st *glbuild.Stage) error {
	ctx.PushClosureContext(cc)
	st.PushCallScope()
	defer func() {
		st.PopCallScope()
		ctx.PopClosureContext()
	}()
	err := glbuild.EmitDependentFunctionCalls(closure, ctx, st, glshade.ClassClosure)
	if err != nil {
		return err
	}
	return glbuild.EmitFunctionCall(closure, ctx, st)
}

package nodes

import (
	"fmt"
	"strings"

	"github.com/soypat/glshade"
	"github.com/soypat/glshade/glbuild"
)

// SourceCode emits nodes implemented either by an inline expression or by a
// call to a library function taking the node's inputs followed by its output.
type SourceCode struct {
	glbuild.Base
	// Inline is an expression where {{name}} is replaced by the expression
	// of input name, i.e: "mix({{bg}}, {{fg}}, {{mix}})".
	Inline   string
	Function string
	// File defines Function, resolved through the context search path.
	File string
}

// Inline returns a factory of inline expression emitters.
func Inline(expr string) glbuild.Factory {
	return func() glbuild.Implementation { return &SourceCode{Inline: expr} }
}

// Function returns a factory of emitters calling fn defined in file.
func Function(fn, file string) glbuild.Factory {
	return func() glbuild.Implementation { return &SourceCode{Function: fn, File: file} }
}

func (sc *SourceCode) EmitFunctionDefinition(node *glshade.Node, ctx *glbuild.Context, st *glbuild.Stage) error {
	if !isPixel(st) || sc.File == "" {
		return nil
	}
	return st.EmitInclude(ctx, sc.File)
}

func (sc *SourceCode) EmitFunctionCall(node *glshade.Node, ctx *glbuild.Context, st *glbuild.Stage) error {
	if !isPixel(st) {
		return nil
	}
	if sc.Inline != "" {
		expr, err := expandInline(sc.Inline, node, st)
		if err != nil {
			return err
		}
		emitOutput(node, st, expr)
		return nil
	}
	out := node.Output("")
	st.EmitLine(st.OutputDecl(out, true), true)
	args := append(inputExprs(node, st), out.Variable)
	st.EmitLine(call(sc.Function, args...), true)
	return nil
}

func expandInline(tmpl string, node *glshade.Node, st *glbuild.Stage) (string, error) {
	var sb strings.Builder
	for {
		start := strings.Index(tmpl, "{{")
		if start < 0 {
			sb.WriteString(tmpl)
			return sb.String(), nil
		}
		end := strings.Index(tmpl[start:], "}}")
		if end < 0 {
			return "", fmt.Errorf("node %q: unterminated placeholder in %q", node.Name(), tmpl)
		}
		sb.WriteString(tmpl[:start])
		expr, err := glbuild.InputExprByName(node, tmpl[start+2:start+end], st)
		if err != nil {
			return "", err
		}
		sb.WriteString(expr)
		tmpl = tmpl[start+end+2:]
	}
}

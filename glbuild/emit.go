package glbuild

import (
	"fmt"

	"github.com/soypat/glshade"
)

// EmitFunctionDefinitions emits the function definitions of the graph's
// nodes in graph order. Nodes sharing an implementation identity are
// defined once.
func EmitFunctionDefinitions(g *glshade.Graph, ctx *Context, st *Stage) error {
	for _, node := range g.Nodes() {
		if err := EmitFunctionDefinition(node, ctx, st); err != nil {
			return err
		}
	}
	return nil
}

// EmitFunctionDefinition emits the definition of node's implementation
// unless a definition with the same identity was emitted in the stage.
func EmitFunctionDefinition(node *glshade.Node, ctx *Context, st *Stage) error {
	impl := st.shader.Impl(node)
	if impl == nil {
		return fmt.Errorf("%w: node %q has no resolved implementation", ErrLookup, node.Name())
	}
	if !st.markDefined(node.Impl().Identity(st.shader.Target())) {
		return nil
	}
	return impl.EmitFunctionDefinition(node, ctx, st)
}

// EmitFunctionCalls emits the calls of all the graph's nodes in graph order.
func EmitFunctionCalls(g *glshade.Graph, ctx *Context, st *Stage) error {
	for _, node := range g.Nodes() {
		if err := EmitFunctionCall(node, ctx, st); err != nil {
			return err
		}
	}
	return nil
}

// EmitFunctionCall emits the call of node unless it is already visible in
// the stage's current call scope.
func EmitFunctionCall(node *glshade.Node, ctx *Context, st *Stage) error {
	if st.IsCalled(node) {
		return nil
	}
	impl := st.shader.Impl(node)
	if impl == nil {
		return fmt.Errorf("%w: node %q has no resolved implementation", ErrLookup, node.Name())
	}
	st.markCalled(node)
	return impl.EmitFunctionCall(node, ctx, st)
}

// EmitTextureNodes emits the calls of the graph's TEXTURE classified nodes.
func EmitTextureNodes(g *glshade.Graph, ctx *Context, st *Stage) error {
	for _, node := range g.Nodes() {
		if !node.Has(glshade.ClassTexture) {
			continue
		}
		if err := EmitFunctionCall(node, ctx, st); err != nil {
			return err
		}
	}
	return nil
}

// EmitDependentFunctionCalls emits the calls of the nodes upstream of node
// classified with all flags of class, dependencies first. A zero class
// matches every node. Nodes implemented by a [DependencyEmitter] schedule
// their upstream calls themselves.
func EmitDependentFunctionCalls(node *glshade.Node, ctx *Context, st *Stage, class glshade.Classification) error {
	if de, ok := st.shader.Impl(node).(DependencyEmitter); ok {
		return de.EmitDependencies(node, ctx, st, class)
	}
	for _, in := range node.Inputs() {
		if err := EmitInputDependencies(in, ctx, st, class); err != nil {
			return err
		}
	}
	return nil
}

// EmitInputDependencies emits the call of the node connected to in and its
// dependencies if they are classified with class.
func EmitInputDependencies(in *glshade.Input, ctx *Context, st *Stage, class glshade.Classification) error {
	conn := in.Connection()
	if conn == nil || conn.Node() == nil {
		return nil
	}
	up := conn.Node()
	if !up.Has(class) || st.IsCalled(up) {
		return nil
	}
	if err := EmitDependentFunctionCalls(up, ctx, st, class); err != nil {
		return err
	}
	return EmitFunctionCall(up, ctx, st)
}

// InputExpr returns the source expression of an input's value: the upstream
// output variable, the uniform the input was published as or its literal.
// Inputs connected to interface sockets of a graph other than the shader's
// resolve to the socket variable, the parameter of a compound function.
func InputExpr(in *glshade.Input, st *Stage) string {
	sh := st.shader
	if conn := in.Connection(); conn != nil {
		if conn.Node() != nil {
			return conn.Variable
		}
		if u, ok := sh.Published(&conn.Port); ok {
			return u.Variable
		}
		if sh.graph.Input(conn.Name) == conn {
			return sh.syntax.Value(conn.Type, conn.Value, false)
		}
		return sh.syntax.MakeIdentifier(conn.Variable)
	}
	if u, ok := sh.Published(&in.Port); ok {
		return u.Variable
	}
	return sh.syntax.Value(in.Type, in.Value, false)
}

// InputExprByName returns [InputExpr] of the named input of node.
func InputExprByName(node *glshade.Node, name string, st *Stage) (string, error) {
	in := node.Input(name)
	if in == nil {
		return "", fmt.Errorf("node %q (%s) has no input %q", node.Name(), node.Impl(), name)
	}
	return InputExpr(in, st), nil
}

package nodes

import (
	"fmt"
	"strings"

	"github.com/soypat/glshade"
	"github.com/soypat/glshade/glbuild"
)

// Compound emits a node implemented by a graph as a function taking the
// graph's interface sockets as parameters.
type Compound struct {
	glbuild.Base
	Graph *glshade.Graph
}

// NewCompound returns a factory of emitters of the compound graph g. g must
// have a node definition.
func NewCompound(g *glshade.Graph) (glbuild.Factory, error) {
	if err := checkCompound(g); err != nil {
		return nil, err
	}
	return func() glbuild.Implementation { return &Compound{Graph: g} }, nil
}

func checkCompound(g *glshade.Graph) error {
	if g == nil {
		return fmt.Errorf("%w: nil compound graph", glbuild.ErrLookup)
	} else if g.NodeDef() == nil || len(g.NodeDef().Outputs) == 0 {
		return fmt.Errorf("%w: compound graph %q has no node definition type information", glbuild.ErrLookup, g.Name())
	}
	return nil
}

func (c *Compound) functionName(syn glbuild.Syntax) string { return syn.MakeIdentifier(c.Graph.Name()) }

func (c *Compound) CreateVariables(node *glshade.Node, ctx *glbuild.Context, sh *glbuild.Shader) error {
	for _, sub := range c.Graph.Nodes() {
		impl, err := sh.Resolve(sub)
		if err != nil {
			return fmt.Errorf("compound %q: %w", c.Graph.Name(), err)
		}
		for _, in := range sub.Inputs() {
			if !in.IsConnected() && in.Flags&glshade.PortUniform != 0 {
				sh.Publish(&in.Port)
			}
		}
		if err := impl.CreateVariables(sub, ctx, sh); err != nil {
			return err
		}
	}
	return nil
}

// emitBody emits the calls of the graph's nodes followed by the assignment
// of the graph output to the output parameter result. A non-zero class
// restricts the calls to texture nodes and nodes of that class, the rest
// are expected to be called by them under their own closure context.
func (c *Compound) emitBody(result string, class glshade.Classification, ctx *glbuild.Context, st *glbuild.Stage) error {
	st.PushCallScope()
	var err error
	if class == 0 {
		err = glbuild.EmitFunctionCalls(c.Graph, ctx, st)
	} else {
		err = glbuild.EmitTextureNodes(c.Graph, ctx, st)
		for _, n := range c.Graph.Nodes() {
			if err != nil {
				break
			}
			if n.Has(class) {
				err = glbuild.EmitFunctionCall(n, ctx, st)
			}
		}
	}
	st.PopCallScope()
	if err != nil {
		return err
	}
	out := c.Graph.Output()
	expr := st.Syntax().DefaultValue(c.Graph.NodeDef().OutputType(), false)
	if out.IsConnected() || out.Value.IsValid() {
		expr = glbuild.InputExpr(out, st)
	}
	st.EmitLine(result+" = "+expr, true)
	return nil
}

func (c *Compound) EmitFunctionDefinition(node *glshade.Node, ctx *glbuild.Context, st *glbuild.Stage) error {
	if !isPixel(st) {
		return nil
	}
	if err := glbuild.EmitFunctionDefinitions(c.Graph, ctx, st); err != nil {
		return err
	}
	syn := st.Syntax()
	nd := c.Graph.NodeDef()
	params := make([]string, 0, len(nd.Inputs)+1)
	for _, pd := range nd.Inputs {
		params = append(params, syn.TypeName(pd.Type)+" "+syn.MakeIdentifier(pd.Name))
	}
	result := syn.MakeIdentifier(nd.Outputs[0].Name)
	params = append(params, syn.OutputQualifier()+" "+syn.TypeName(nd.OutputType())+" "+result)
	st.EmitLine("void "+c.functionName(syn)+"("+strings.Join(params, ", ")+")", false)
	st.EmitScopeBegin()
	if err := c.emitBody(result, 0, ctx, st); err != nil {
		return err
	}
	st.EmitScopeEnd(false, true)
	st.EmitLineBreak()
	return nil
}

func (c *Compound) EmitFunctionCall(node *glshade.Node, ctx *glbuild.Context, st *glbuild.Stage) error {
	if isVertex(st) {
		return glbuild.EmitFunctionCalls(c.Graph, ctx, st)
	}
	out := node.Output("")
	st.EmitLine(st.OutputDecl(out, true), true)
	st.EmitLine(call(c.functionName(st.Syntax()), append(inputExprs(node, st), out.Variable)...), true)
	return nil
}

// LightCompound emits a light shader implemented by a graph. The graph's
// interface sockets are members of the light data struct.
type LightCompound struct {
	Compound
}

// NewLightCompound returns a factory of emitters of the light shader graph g.
func NewLightCompound(g *glshade.Graph) (glbuild.Factory, error) {
	if err := checkCompound(g); err != nil {
		return nil, err
	} else if g.NodeDef().OutputType() != glshade.TypeLightShader {
		return nil, fmt.Errorf("compound graph %q outputs %s, not a light shader", g.Name(), g.NodeDef().OutputType())
	}
	for _, pd := range g.NodeDef().Inputs {
		switch pd.Name {
		case "light", "position", "result":
			// The light position is the light data member added by the light node.
			return nil, fmt.Errorf("light compound %q input %q shadows a light function parameter", g.Name(), pd.Name)
		}
	}
	return func() glbuild.Implementation { return &LightCompound{Compound{Graph: g}} }, nil
}

func (lc *LightCompound) lightFunctionName(node *glshade.Node) string {
	return "mx_" + lc.Graph.NodeDef().Impl.Op
}

func (lc *LightCompound) CreateVariables(node *glshade.Node, ctx *glbuild.Context, sh *glbuild.Shader) error {
	lb := lightDataBlock(sh)
	for _, pd := range lc.Graph.NodeDef().Inputs {
		if pd.Type.BaseType() != glshade.BaseString {
			if _, err := lb.Add(pd.Type, pd.Name, pd.Value); err != nil {
				return fmt.Errorf("light compound %q: %w", lc.Graph.Name(), err)
			}
		}
	}
	return lc.Compound.CreateVariables(node, ctx, sh)
}

func (lc *LightCompound) EmitFunctionDefinition(node *glshade.Node, ctx *glbuild.Context, st *glbuild.Stage) error {
	if !isPixel(st) {
		return nil
	}
	if err := glbuild.EmitFunctionDefinitions(lc.Graph, ctx, st); err != nil {
		return err
	}
	syn := st.Syntax()
	st.EmitLine("void "+lc.lightFunctionName(node)+lightSignature, false)
	st.EmitScopeBegin()
	for _, pd := range lc.Graph.NodeDef().Inputs {
		if pd.Type.BaseType() == glshade.BaseString {
			continue
		}
		st.EmitLine(syn.TypeName(pd.Type)+" "+syn.MakeIdentifier(pd.Name)+" = light."+pd.Name, true)
	}
	if err := lc.emitBody("result", glshade.ClassLight, ctx, st); err != nil {
		return err
	}
	st.EmitScopeEnd(false, true)
	st.EmitLineBreak()
	return nil
}

func (lc *LightCompound) EmitFunctionCall(node *glshade.Node, ctx *glbuild.Context, st *glbuild.Stage) error {
	if isPixel(st) {
		st.EmitLine(lc.lightFunctionName(node)+"(light, position, result)", true)
	}
	return nil
}

func (*LightCompound) IsEditable(*glshade.Input) bool { return false }

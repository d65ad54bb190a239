package glbuild

import (
	"errors"
	"fmt"
	"strings"

	"github.com/soypat/glshade"
)

// Shader is the result of generating a graph: a vertex and a pixel stage
// that agree on the varying block passed between them.
type Shader struct {
	name     string
	graph    *glshade.Graph
	vertex   *Stage
	pixel    *Stage
	syntax   Syntax
	registry *Registry
	impls    map[*glshade.Node]Implementation
	// published maps graph ports to the uniforms they are published as.
	published map[*glshade.Port]*glshade.Port
	// errs accumulates variable declaration conflicts.
	errs []error
}

// NewShader returns a shader for graph g with empty stages. Node
// implementations are resolved from reg with [Shader.Resolve].
func NewShader(name string, g *glshade.Graph, syntax Syntax, reg *Registry) *Shader {
	if g == nil || syntax == nil || reg == nil {
		panic("glbuild: nil argument to NewShader")
	}
	sh := &Shader{
		name:      name,
		graph:     g,
		syntax:    syntax,
		registry:  reg,
		impls:     make(map[*glshade.Node]Implementation),
		published: make(map[*glshade.Port]*glshade.Port),
	}
	sh.vertex = newStage(StageVertex, sh)
	sh.pixel = newStage(StagePixel, sh)
	return sh
}

func (sh *Shader) Name() string          { return sh.name }
func (sh *Shader) Graph() *glshade.Graph { return sh.graph }
func (sh *Shader) Syntax() Syntax        { return sh.syntax }
func (sh *Shader) Target() string        { return sh.registry.Target() }
func (sh *Shader) Vertex() *Stage        { return sh.vertex }
func (sh *Shader) Pixel() *Stage         { return sh.pixel }

// Stage returns the stage named name, [StageVertex] or [StagePixel], or nil.
func (sh *Shader) Stage(name string) *Stage {
	switch name {
	case StageVertex:
		return sh.vertex
	case StagePixel:
		return sh.pixel
	}
	return nil
}

// SourceCode returns the source text of the named stage.
func (sh *Shader) SourceCode(stage string) string {
	st := sh.Stage(stage)
	if st == nil {
		return ""
	}
	return st.SourceCode()
}

// Resolve resolves and records the implementation of node. Resolving a
// node twice returns the recorded implementation.
func (sh *Shader) Resolve(node *glshade.Node) (Implementation, error) {
	if impl, ok := sh.impls[node]; ok {
		return impl, nil
	}
	impl, err := sh.registry.Resolve(node.Impl())
	if err != nil {
		return nil, fmt.Errorf("node %q: %w", node.Name(), err)
	}
	sh.impls[node] = impl
	return impl, nil
}

// Bind records impl as the implementation of node, replacing a resolved one.
func (sh *Shader) Bind(node *glshade.Node, impl Implementation) { sh.impls[node] = impl }

// Impl returns the implementation recorded for node or nil.
func (sh *Shader) Impl(node *glshade.Node) Implementation { return sh.impls[node] }

// Registry returns the registry node implementations are resolved from.
func (sh *Shader) Registry() *Registry { return sh.registry }

// Publish adds p as a uniform of the pixel stage public uniform block and
// returns the uniform. Publishing a port twice returns the same uniform.
// Distinct ports get distinct uniforms: a name already taken is made unique
// with a numeric suffix.
func (sh *Shader) Publish(p *glshade.Port) *glshade.Port {
	if u, ok := sh.published[p]; ok {
		return u
	}
	vb := sh.pixel.AddUniformBlock(BlockPublicUniforms, "")
	name := vb.UniqueName(sh.syntax.MakeIdentifier(p.Variable))
	u := sh.add(vb, p.Type, name, p.Value)
	sh.published[p] = u
	return u
}

// Published returns the uniform p was published as.
func (sh *Shader) Published(p *glshade.Port) (*glshade.Port, bool) {
	u, ok := sh.published[p]
	return u, ok
}

// AddStageConnector adds a varying named name to the vertex stage output and
// pixel stage input varying blocks, returning both ports.
// A varying claimed twice with different types is recorded as an error
// returned by [Shader.Err].
func (sh *Shader) AddStageConnector(t *glshade.TypeDesc, name string) (vsOut, psIn *glshade.Port) {
	vsOut = sh.add(sh.vertex.AddOutputBlock(BlockVertexData, InstanceVertexData), t, name, glshade.Value{})
	psIn = sh.add(sh.pixel.AddInputBlock(BlockVertexData, InstanceVertexData), t, name, glshade.Value{})
	return vsOut, psIn
}

// AddVertexInput adds a vertex attribute.
func (sh *Shader) AddVertexInput(t *glshade.TypeDesc, name string) *glshade.Port {
	return sh.add(sh.vertex.AddInputBlock(BlockVertexInputs, ""), t, name, glshade.Value{})
}

// AddPrivateUniform adds a renderer provided uniform to the stage.
func (sh *Shader) AddPrivateUniform(st *Stage, t *glshade.TypeDesc, name string, v glshade.Value) *glshade.Port {
	return sh.add(st.AddUniformBlock(BlockPrivateUniforms, ""), t, name, v)
}

func (sh *Shader) add(vb *VariableBlock, t *glshade.TypeDesc, name string, v glshade.Value) *glshade.Port {
	p, err := vb.Add(t, name, v)
	if err != nil {
		sh.errs = append(sh.errs, err)
	}
	return p
}

// Err returns the variable declaration conflicts found while adding the
// shader's variables, nil if there were none.
func (sh *Shader) Err() error { return errors.Join(sh.errs...) }

// VaryingPrefix returns the prefix to access members of the varying block, i.e: "vd.".
func VaryingPrefix() string { return InstanceVertexData + "." }

// ReplaceTokens applies the token substitution pass to both stages.
func (sh *Shader) ReplaceTokens(r *strings.Replacer) {
	sh.vertex.replaceTokens(r)
	sh.pixel.replaceTokens(r)
}

// CheckBalanced returns an error if a stage was left with open scopes.
func (sh *Shader) CheckBalanced() error {
	var errs []error
	for _, st := range []*Stage{sh.vertex, sh.pixel} {
		if st.indent != 0 {
			errs = append(errs, fmt.Errorf("%s stage has %d unclosed scopes", st.name, st.indent))
		}
		if len(st.scopes) != 1 {
			errs = append(errs, fmt.Errorf("%s stage has %d unclosed call scopes", st.name, len(st.scopes)-1))
		}
	}
	return errors.Join(errs...)
}

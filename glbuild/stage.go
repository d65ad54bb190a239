package glbuild

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"cogentcore.org/core/glop/indent"
	"cogentcore.org/core/ordmap"
	"github.com/soypat/glshade"
)

// VariableBlock is an ordered name-unique group of variables sharing a role:
// constants, a uniform block, stage inputs or outputs. Insertion order is
// declaration order.
type VariableBlock struct {
	name     string
	instance string
	vars     *ordmap.Map[string, *glshade.Port]
}

// NewVariableBlock returns an empty block. instance is the name the block
// is accessed through in source, may be empty.
func NewVariableBlock(name, instance string) *VariableBlock {
	return &VariableBlock{name: name, instance: instance, vars: ordmap.New[string, *glshade.Port]()}
}

func (vb *VariableBlock) Name() string     { return vb.name }
func (vb *VariableBlock) Instance() string { return vb.instance }
func (vb *VariableBlock) Len() int         { return vb.vars.Len() }
func (vb *VariableBlock) Empty() bool      { return vb.vars.Len() == 0 }

// Add adds a variable named name. If the block already holds a variable
// named name of type t the existing port is returned unchanged, a variable
// of another type is an [ErrConfig] error. An invalid v is replaced by the
// zero value of t, or the identity for matrices.
func (vb *VariableBlock) Add(t *glshade.TypeDesc, name string, v glshade.Value) (*glshade.Port, error) {
	if p, ok := vb.vars.ValueByKeyTry(name); ok {
		if p.Type != t {
			return p, fmt.Errorf("%w: %s variable %q declared as %s and %s", ErrConfig, vb.name, name, p.Type, t)
		}
		return p, nil
	}
	if !v.IsValid() {
		v = glshade.IdentityValue(t)
	}
	p := &glshade.Port{Name: name, Variable: name, Type: t, Value: v}
	vb.vars.Add(name, p)
	return p, nil
}

// Find returns the variable named name or nil.
func (vb *VariableBlock) Find(name string) *glshade.Port {
	p, _ := vb.vars.ValueByKeyTry(name)
	return p
}

// UniqueName returns name, or name followed by the smallest number from 1
// up that no variable of the block is named.
func (vb *VariableBlock) UniqueName(name string) string {
	if _, taken := vb.vars.ValueByKeyTry(name); !taken {
		return name
	}
	for i := 1; ; i++ {
		candidate := name + strconv.Itoa(i)
		if _, taken := vb.vars.ValueByKeyTry(candidate); !taken {
			return candidate
		}
	}
}

// Ports returns the block's variables in declaration order.
func (vb *VariableBlock) Ports() []*glshade.Port { return vb.vars.Values() }

// replaceTokens substitutes tokens in the variable names of the block.
// Keys keep the token form so lookups by token keep working.
func (vb *VariableBlock) replaceTokens(r *strings.Replacer) {
	for _, kv := range vb.vars.Order {
		kv.Value.Variable = r.Replace(kv.Value.Variable)
	}
}

// Stage accumulates the declarations and source text of one pipeline stage.
type Stage struct {
	name         string
	shader       *Shader
	src          []byte
	indent       int
	functionName string
	constants    *VariableBlock
	uniforms     *ordmap.Map[string, *VariableBlock]
	inputs       *ordmap.Map[string, *VariableBlock]
	outputs      *ordmap.Map[string, *VariableBlock]
	includes     map[string]struct{}
	// defined holds the identities of emitted function definitions.
	defined map[string]struct{}
	// scopes holds the nodes called per nested call scope.
	scopes []map[*glshade.Node]struct{}
}

func newStage(name string, sh *Shader) *Stage {
	return &Stage{
		name:      name,
		shader:    sh,
		constants: NewVariableBlock("Constants", ""),
		uniforms:  ordmap.New[string, *VariableBlock](),
		inputs:    ordmap.New[string, *VariableBlock](),
		outputs:   ordmap.New[string, *VariableBlock](),
		includes:  make(map[string]struct{}),
		defined:   make(map[string]struct{}),
		scopes:    []map[*glshade.Node]struct{}{make(map[*glshade.Node]struct{})},
	}
}

func (st *Stage) Name() string    { return st.name }
func (st *Stage) Shader() *Shader { return st.shader }
func (st *Stage) Syntax() Syntax  { return st.shader.syntax }

// FunctionName returns the name of the function being emitted.
func (st *Stage) FunctionName() string      { return st.functionName }
func (st *Stage) SetFunctionName(fn string) { st.functionName = fn }

// SourceCode returns the stage's source text.
func (st *Stage) SourceCode() string { return string(st.src) }

func (st *Stage) Constants() *VariableBlock { return st.constants }

// AddUniformBlock adds a uniform block or returns the existing one with the same name.
func (st *Stage) AddUniformBlock(name, instance string) *VariableBlock {
	return addBlock(st.uniforms, name, instance)
}

// AddInputBlock adds a stage input block or returns the existing one with the same name.
func (st *Stage) AddInputBlock(name, instance string) *VariableBlock {
	return addBlock(st.inputs, name, instance)
}

// AddOutputBlock adds a stage output block or returns the existing one with the same name.
func (st *Stage) AddOutputBlock(name, instance string) *VariableBlock {
	return addBlock(st.outputs, name, instance)
}

func addBlock(m *ordmap.Map[string, *VariableBlock], name, instance string) *VariableBlock {
	if vb, ok := m.ValueByKeyTry(name); ok {
		return vb
	}
	vb := NewVariableBlock(name, instance)
	m.Add(name, vb)
	return vb
}

// UniformBlock returns the named uniform block or nil.
func (st *Stage) UniformBlock(name string) *VariableBlock {
	vb, _ := st.uniforms.ValueByKeyTry(name)
	return vb
}

func (st *Stage) InputBlock(name string) *VariableBlock {
	vb, _ := st.inputs.ValueByKeyTry(name)
	return vb
}

func (st *Stage) OutputBlock(name string) *VariableBlock {
	vb, _ := st.outputs.ValueByKeyTry(name)
	return vb
}

func (st *Stage) UniformBlocks() []*VariableBlock { return st.uniforms.Values() }
func (st *Stage) InputBlocks() []*VariableBlock   { return st.inputs.Values() }
func (st *Stage) OutputBlocks() []*VariableBlock  { return st.outputs.Values() }

func (st *Stage) blocks() []*VariableBlock {
	all := []*VariableBlock{st.constants}
	all = append(all, st.uniforms.Values()...)
	all = append(all, st.inputs.Values()...)
	return append(all, st.outputs.Values()...)
}

const indentWidth = 4

func (st *Stage) appendIndent() {
	st.src = append(st.src, indent.Bytes(indent.Space, st.indent, indentWidth)...)
}

// EmitLineBegin starts a line at the current indentation.
func (st *Stage) EmitLineBegin() { st.appendIndent() }

// EmitLineEnd ends a line, optionally terminating a statement.
func (st *Stage) EmitLineEnd(semicolon bool) {
	if semicolon {
		st.src = append(st.src, ';')
	}
	st.src = append(st.src, '\n')
}

// EmitLine emits a line at the current indentation.
func (st *Stage) EmitLine(line string, semicolon bool) {
	st.EmitLineBegin()
	st.src = append(st.src, line...)
	st.EmitLineEnd(semicolon)
}

// EmitString appends s verbatim.
func (st *Stage) EmitString(s string) { st.src = append(st.src, s...) }

func (st *Stage) EmitLineBreak() { st.src = append(st.src, '\n') }

func (st *Stage) EmitComment(comment string) { st.EmitLine("// "+comment, false) }

func (st *Stage) EmitScopeBegin() {
	st.EmitLine("{", false)
	st.indent++
}

// EmitScopeEnd closes a scope opened with EmitScopeBegin.
func (st *Stage) EmitScopeEnd(semicolon, newline bool) {
	if st.indent == 0 {
		panic("glbuild: unbalanced scope end in " + st.name + " stage")
	}
	st.indent--
	st.EmitLineBegin()
	st.src = append(st.src, '}')
	if semicolon {
		st.src = append(st.src, ';')
	}
	if newline {
		st.src = append(st.src, '\n')
	}
}

// EmitBlock emits multi-line source text, each line at the current indentation.
func (st *Stage) EmitBlock(src []byte) {
	src = bytes.TrimRight(src, "\n\r\t ")
	for len(src) > 0 {
		line := src
		if idx := bytes.IndexByte(src, '\n'); idx >= 0 {
			line, src = src[:idx], src[idx+1:]
		} else {
			src = nil
		}
		line = bytes.TrimRight(line, "\r\t ")
		if len(line) > 0 {
			st.appendIndent()
			st.src = append(st.src, line...)
		}
		st.src = append(st.src, '\n')
	}
}

// EmitInclude emits the contents of the named library source once per stage.
// A name that is a token emits the token itself, to be replaced by the
// token substitution pass.
func (st *Stage) EmitInclude(ctx *Context, name string) error {
	if _, ok := st.includes[name]; ok {
		return nil
	}
	st.includes[name] = struct{}{}
	if strings.HasPrefix(name, "$") {
		st.src = append(st.src, name...)
		st.src = append(st.src, '\n')
		return nil
	}
	src, err := ctx.ResolveSourceFile(name)
	if err != nil {
		return err
	}
	st.EmitBlock(src)
	return nil
}

// HasInclude reports whether name was included in the stage.
func (st *Stage) HasInclude(name string) bool {
	_, ok := st.includes[name]
	return ok
}

// markDefined records the function definition identity and reports whether
// it was not defined before.
func (st *Stage) markDefined(identity string) bool {
	if _, ok := st.defined[identity]; ok {
		return false
	}
	st.defined[identity] = struct{}{}
	return true
}

// PushCallScope opens a nested scope for function calls. Calls emitted in
// outer scopes remain visible in the nested scope.
func (st *Stage) PushCallScope() {
	st.scopes = append(st.scopes, make(map[*glshade.Node]struct{}))
}

func (st *Stage) PopCallScope() {
	if len(st.scopes) == 1 {
		panic("glbuild: call scope stack underflow")
	}
	st.scopes = st.scopes[:len(st.scopes)-1]
}

// IsCalled reports whether the node's call is visible in the current scope.
func (st *Stage) IsCalled(n *glshade.Node) bool {
	for _, sc := range st.scopes {
		if _, ok := sc[n]; ok {
			return true
		}
	}
	return false
}

func (st *Stage) markCalled(n *glshade.Node) {
	st.scopes[len(st.scopes)-1][n] = struct{}{}
}

// OutputDecl returns the declaration of a node output variable, optionally
// initialized with the default value of its type, i.e: "vec3 mix1_out = vec3(0.0)".
func (st *Stage) OutputDecl(out *glshade.Output, assignDefault bool) string {
	syn := st.Syntax()
	decl := syn.TypeName(out.Type) + " " + out.Variable
	if assignDefault {
		decl += " = " + syn.DefaultValue(out.Type, false)
	}
	return decl
}

func (st *Stage) replaceTokens(r *strings.Replacer) {
	st.src = []byte(r.Replace(string(st.src)))
	for _, vb := range st.blocks() {
		vb.replaceTokens(r)
	}
}
